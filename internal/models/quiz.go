package models

import "time"

type QuizType string

const (
	GradedQuiz     QuizType = "Graded Quiz"
	PracticeQuiz   QuizType = "Practice Quiz"
	GradedSurvey   QuizType = "Graded Survey"
	UngradedSurvey QuizType = "Ungraded Survey"
)

// ShowCorrectAnswers controls when graded key/correctness info becomes
// visible to the student after submission.
type ShowCorrectAnswers string

const (
	ShowNever           ShowCorrectAnswers = "Never"
	ShowAfterSubmission ShowCorrectAnswers = "After submission"
	ShowAfterDueDate    ShowCorrectAnswers = "After due date"
)

// Quiz is the authored unit. The date fields come in pairs on purpose: the
// plain field is the display string, the *Input field is the
// datetime-local value availability math is computed from.
type Quiz struct {
	ID                 string             `bson:"_id,omitempty" json:"id"`
	Course             string             `bson:"course" json:"course"`
	Title              string             `bson:"title" json:"title"`
	Description        string             `bson:"description" json:"description"`
	QuizType           QuizType           `bson:"quiz_type" json:"quizType"`
	Points             int                `bson:"points" json:"points"`
	AssignmentGroup    string             `bson:"assignment_group" json:"assignmentGroup"`
	ShuffleAnswers     bool               `bson:"shuffle_answers" json:"shuffleAnswers"`
	HasTimeLimit       *bool              `bson:"has_time_limit,omitempty" json:"hasTimeLimit,omitempty"`
	TimeLimit          int                `bson:"time_limit" json:"timeLimit"`
	MultipleAttempts   bool               `bson:"multiple_attempts" json:"multipleAttempts"`
	AttemptsAllowed    int                `bson:"attempts_allowed" json:"attemptsAllowed"`
	ShowCorrectAnswers ShowCorrectAnswers `bson:"show_correct_answers" json:"showCorrectAnswers"`
	AccessCode         string             `bson:"access_code" json:"accessCode"`
	OneQuestionAtATime *bool              `bson:"one_question_at_a_time,omitempty" json:"oneQuestionAtATime,omitempty"`
	WebcamRequired     bool               `bson:"webcam_required" json:"webcamRequired"`
	LockQuestionsAfterAnswering bool      `bson:"lock_questions_after_answering" json:"lockQuestionsAfterAnswering"`
	DueDate            string             `bson:"due_date" json:"dueDate"`
	DueDateInput       string             `bson:"due_date_input" json:"dueDateInput"`
	AvailableDate      string             `bson:"available_date" json:"availableDate"`
	AvailableDateInput string             `bson:"available_date_input" json:"availableDateInput"`
	UntilDate          string             `bson:"until_date" json:"untilDate"`
	UntilDateInput     string             `bson:"until_date_input" json:"untilDateInput"`
	Published          bool               `bson:"published" json:"published"`
	Questions          []Question         `bson:"questions" json:"questions"`
	CreatedAt          time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updated_at" json:"updatedAt"`
}

// NewQuiz returns the authoring defaults for a fresh quiz in a course.
func NewQuiz(courseID string) *Quiz {
	t := true
	return &Quiz{
		Course:             courseID,
		Title:              "New Quiz",
		QuizType:           GradedQuiz,
		AssignmentGroup:    "Quizzes",
		ShuffleAnswers:     true,
		HasTimeLimit:       &t,
		TimeLimit:          20,
		AttemptsAllowed:    1,
		ShowCorrectAnswers: ShowAfterSubmission,
		OneQuestionAtATime: &t,
		Questions:          []Question{},
	}
}

// TotalPoints is the sum of question points. The stored Points field is
// cosmetic and may be stale; it only stands in when there are no questions.
func (q *Quiz) TotalPoints() int {
	if len(q.Questions) == 0 {
		return q.Points
	}
	sum := 0
	for _, question := range q.Questions {
		sum += question.Points
	}
	return sum
}

// RecomputePoints overwrites the stored Points with the question sum.
// Every authoring save goes through here.
func (q *Quiz) RecomputePoints() {
	if len(q.Questions) > 0 {
		q.Points = q.TotalPoints()
	}
}

// EffectiveMaxAttempts collapses the two attempt settings into one number:
// AttemptsAllowed only counts when MultipleAttempts is on.
func (q *Quiz) EffectiveMaxAttempts() int {
	if q.MultipleAttempts {
		if q.AttemptsAllowed > 0 {
			return q.AttemptsAllowed
		}
		return 1
	}
	return 1
}

// OneAtATime resolves the unset flag to true, matching the editor default.
func (q *Quiz) OneAtATime() bool {
	return q.OneQuestionAtATime == nil || *q.OneQuestionAtATime
}

// Timed reports whether a countdown applies: an unset HasTimeLimit counts
// as true, but a non-positive TimeLimit disables the countdown either way.
func (q *Quiz) Timed() bool {
	if q.TimeLimit <= 0 {
		return false
	}
	return q.HasTimeLimit == nil || *q.HasTimeLimit
}

// TimeLimitDuration is the countdown length. Only meaningful when Timed().
func (q *Quiz) TimeLimitDuration() time.Duration {
	return time.Duration(q.TimeLimit) * time.Minute
}

var quizDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseQuizDate parses the datetime-local input strings the authoring form
// produces, falling back to RFC3339 for API-written values.
func ParseQuizDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range quizDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// AvailableFrom returns the parsed availability open time, if set.
func (q *Quiz) AvailableFrom() (time.Time, bool) {
	return ParseQuizDate(q.AvailableDateInput)
}

// AvailableUntil returns the parsed close time, if set.
func (q *Quiz) AvailableUntil() (time.Time, bool) {
	return ParseQuizDate(q.UntilDateInput)
}

// DueAt returns the parsed due time, if set.
func (q *Quiz) DueAt() (time.Time, bool) {
	return ParseQuizDate(q.DueDateInput)
}

// AvailabilityStatus is the label the quiz list shows next to each quiz.
func (q *Quiz) AvailabilityStatus(now time.Time) string {
	if from, ok := q.AvailableFrom(); ok && now.Before(from) {
		if q.AvailableDate != "" {
			return "Not available until " + q.AvailableDate
		}
		return "Not available until " + from.Format("January 2 at 3:04pm")
	}
	if until, ok := q.AvailableUntil(); ok && now.After(until) {
		return "Closed"
	}
	return "Available"
}
