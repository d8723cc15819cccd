// Package flow runs the take/preview session state machine: gate checks,
// per-question navigation and locking, the countdown, and the submission
// transition. Session state lives only in memory; nothing here is
// persisted with the attempt.
package flow

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"lms-quiz-service/internal/gate"
	"lms-quiz-service/internal/grading"
	"lms-quiz-service/internal/models"
	"lms-quiz-service/internal/timer"

	"github.com/sirupsen/logrus"
)

type Mode string

const (
	ModeTake    Mode = "take"
	ModePreview Mode = "preview"
)

var (
	ErrInvalidAccessCode = errors.New("invalid access code")
	ErrBlocked           = errors.New("quiz is not available")
	ErrNotStarted        = errors.New("session not started")
	ErrAlreadySubmitted  = errors.New("session already submitted")
	ErrQuestionLocked    = errors.New("question is locked")
	ErrOutOfRange        = errors.New("question index out of range")
	ErrUnknownQuestion   = errors.New("unknown question")
)

// Submitter persists a graded attempt. Live taking delegates to it;
// preview grades locally and never persists.
type Submitter interface {
	SubmitQuiz(ctx context.Context, quiz *models.Quiz, userID string, answers map[string]string) (*models.Attempt, error)
}

// Flow is one user's pass through one quiz. All methods are safe for
// concurrent use; the countdown goroutine and HTTP handlers share it.
type Flow struct {
	mu sync.Mutex

	id       string
	userID   string
	mode     Mode
	quiz     *models.Quiz
	attempts []models.Attempt

	codeVerified bool
	started      bool
	submitted    bool
	index        int
	answers      map[string]string
	locked       map[int]bool

	countdown    *timer.Countdown
	tickInterval time.Duration

	result    *models.Attempt
	submitter Submitter
	now       func() time.Time
}

func newFlow(id string, quiz *models.Quiz, userID string, mode Mode, attempts []models.Attempt, submitter Submitter) *Flow {
	f := &Flow{
		id:           id,
		userID:       userID,
		mode:         mode,
		quiz:         quiz,
		attempts:     attempts,
		answers:      map[string]string{},
		locked:       map[int]bool{},
		tickInterval: time.Second,
		submitter:    submitter,
		now:          time.Now,
	}
	// No access code means no pre-start screen: the session enters Ready
	// immediately and the countdown starts with it.
	if quiz.AccessCode == "" && f.gateLocked().Status == gate.Ready {
		f.start()
	}
	return f
}

func (f *Flow) ID() string { return f.id }

// UserID is the session owner; set at open, never changed.
func (f *Flow) UserID() string { return f.userID }

// Quiz returns the snapshot of the quiz the session was opened against.
func (f *Flow) Quiz() *models.Quiz { return f.quiz }

// Gate re-evaluates the eligibility checks with the session's current
// verification state.
func (f *Flow) Gate() gate.Decision {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gateLocked()
}

func (f *Flow) gateLocked() gate.Decision {
	return gate.Check(f.quiz, f.attempts, f.codeVerified, f.now())
}

// VerifyAccessCode checks the shared secret. A wrong code is a transient
// error; there is no lockout or backoff.
func (f *Flow) VerifyAccessCode(code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.quiz.AccessCode == "" || code == f.quiz.AccessCode {
		f.codeVerified = true
		return nil
	}
	return ErrInvalidAccessCode
}

// Start is the explicit "Start Quiz" action used when an access code or
// pre-start screen stands before the questions. Idempotent once running.
func (f *Flow) Start() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitted {
		return ErrAlreadySubmitted
	}
	if f.started {
		return nil
	}
	if d := f.gateLocked(); d.Status != gate.Ready {
		return ErrBlocked
	}
	f.start()
	return nil
}

// start assumes f.mu is held (or the flow is not yet shared).
func (f *Flow) start() {
	f.started = true
	if f.quiz.Timed() {
		f.countdown = timer.NewWithInterval(f.quiz.TimeLimitDuration(), f.tickInterval, f.autoSubmit)
		f.countdown.Start()
	}
}

func (f *Flow) ensureReadyLocked() error {
	if f.submitted {
		return ErrAlreadySubmitted
	}
	if !f.started {
		return ErrNotStarted
	}
	if d := f.gateLocked(); d.Status != gate.Ready {
		return ErrBlocked
	}
	return nil
}

// Answer records the submitted text for a question. Locked questions are
// immutable.
func (f *Flow) Answer(questionID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.ensureReadyLocked(); err != nil {
		return err
	}
	idx, ok := f.questionIndex(questionID)
	if !ok {
		return ErrUnknownQuestion
	}
	if f.locked[idx] {
		return ErrQuestionLocked
	}
	f.answers[questionID] = text
	return nil
}

// Next advances to the following question. Leaving an answered question
// marks it locked when the quiz locks questions after answering.
func (f *Flow) Next() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.ensureReadyLocked(); err != nil {
		return err
	}
	if f.index >= len(f.quiz.Questions)-1 {
		return ErrOutOfRange
	}
	if f.quiz.LockQuestionsAfterAnswering {
		current := f.quiz.Questions[f.index]
		if _, answered := f.answers[current.ID]; answered {
			f.locked[f.index] = true
		}
	}
	f.index++
	return nil
}

// Previous steps back one question; locked questions cannot be re-entered.
func (f *Flow) Previous() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.ensureReadyLocked(); err != nil {
		return err
	}
	if f.index == 0 {
		return ErrOutOfRange
	}
	if f.locked[f.index-1] {
		return ErrQuestionLocked
	}
	f.index--
	return nil
}

// Goto jumps straight to a question index; locked targets are rejected.
func (f *Flow) Goto(i int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.ensureReadyLocked(); err != nil {
		return err
	}
	if i < 0 || i >= len(f.quiz.Questions) {
		return ErrOutOfRange
	}
	if f.locked[i] {
		return ErrQuestionLocked
	}
	f.index = i
	return nil
}

// Submit grades whatever answers are recorded and transitions the session
// to Submitted. Preview grades locally and never persists; live taking
// delegates to the submitter. A failed live submission leaves the session
// in Ready with answers intact so it can be retried.
func (f *Flow) Submit(ctx context.Context) (*models.Attempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitted {
		return f.result, nil
	}
	if !f.started {
		return nil, ErrNotStarted
	}

	if f.countdown != nil {
		f.countdown.Stop()
	}

	if f.mode == ModePreview || f.submitter == nil {
		graded := grading.Grade(f.quiz.Questions, f.answers)
		f.result = &models.Attempt{
			QuizID:      f.quiz.ID,
			UserID:      f.userID,
			Answers:     graded.Answers,
			Score:       graded.Score,
			TotalPoints: graded.TotalPoints,
			Percentage:  graded.Percentage,
			CreatedAt:   f.now(),
		}
		f.submitted = true
		return f.result, nil
	}

	attempt, err := f.submitter.SubmitQuiz(ctx, f.quiz, f.userID, f.answers)
	if err != nil {
		// Ready state stays intact; the countdown keeps whatever time
		// it had already burned if it is still running.
		return nil, err
	}
	f.result = attempt
	f.submitted = true
	f.attempts = append([]models.Attempt{*attempt}, f.attempts...)
	return attempt, nil
}

// autoSubmit is the countdown expiry callback. It submits the answers
// recorded at expiry; a manual submission that already won the race makes
// this a no-op.
func (f *Flow) autoSubmit() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := f.Submit(ctx); err != nil && !errors.Is(err, ErrAlreadySubmitted) {
		logrus.WithFields(logrus.Fields{
			"session_id": f.id,
			"quiz_id":    f.quiz.ID,
		}).WithError(err).Error("timed auto-submit failed")
	}
}

// Close tears the session down, cancelling the countdown so no late tick
// can fire after the flow is discarded.
func (f *Flow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.countdown != nil {
		f.countdown.Stop()
	}
}

// KeyVisibility reports whether graded key/correctness info may be shown
// right now, with a note for the caller to display when it may not.
func (f *Flow) KeyVisibility() (bool, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.submitted {
		return false, ""
	}
	switch f.quiz.ShowCorrectAnswers {
	case models.ShowNever:
		return false, ""
	case models.ShowAfterDueDate:
		if due, ok := f.quiz.DueAt(); ok && f.now().After(due) {
			return true, ""
		}
		return false, "Correct answers will be available after the due date."
	default: // after submission
		return true, ""
	}
}

func (f *Flow) questionIndex(questionID string) (int, bool) {
	for i, q := range f.quiz.Questions {
		if q.ID == questionID {
			return i, true
		}
	}
	return 0, false
}

// Snapshot is the read model handlers serve for session status.
type Snapshot struct {
	ID            string            `json:"id"`
	Mode          Mode              `json:"mode"`
	QuizID        string            `json:"quizId"`
	QuizTitle     string            `json:"quizTitle"`
	OneAtATime    bool              `json:"oneQuestionAtATime"`
	QuestionCount int               `json:"questionCount"`
	Gate          gate.Decision     `json:"gate"`
	Started       bool              `json:"started"`
	Submitted     bool              `json:"submitted"`
	Index         int               `json:"index"`
	Locked        []int             `json:"locked"`
	Answers       map[string]string `json:"answers"`
	TimerSeconds  *int              `json:"timerSeconds,omitempty"`
	TimerPhase    timer.Phase       `json:"timerPhase,omitempty"`
	Result        *models.Attempt   `json:"result,omitempty"`
	ShowKeys      bool              `json:"showCorrectAnswers"`
	KeysNote      string            `json:"correctAnswersNote,omitempty"`
}

// Snapshot copies the current session state for serving.
func (f *Flow) Snapshot() Snapshot {
	showKeys, note := f.KeyVisibility()

	f.mu.Lock()
	defer f.mu.Unlock()

	s := Snapshot{
		ID:            f.id,
		Mode:          f.mode,
		QuizID:        f.quiz.ID,
		QuizTitle:     f.quiz.Title,
		OneAtATime:    f.quiz.OneAtATime(),
		QuestionCount: len(f.quiz.Questions),
		Gate:          f.gateLocked(),
		Started:       f.started,
		Submitted:     f.submitted,
		Index:         f.index,
		Answers:       map[string]string{},
		Result:        f.result,
		ShowKeys:      showKeys,
		KeysNote:      note,
	}
	for k, v := range f.answers {
		s.Answers[k] = v
	}
	for i := range f.locked {
		s.Locked = append(s.Locked, i)
	}
	sort.Ints(s.Locked)
	if f.countdown != nil && f.started && !f.submitted {
		secs := int(f.countdown.Remaining() / time.Second)
		s.TimerSeconds = &secs
		s.TimerPhase = f.countdown.Phase()
	}
	return s
}
