package service

import (
	"context"
	"fmt"
	"time"

	"lms-quiz-service/internal/event"
	"lms-quiz-service/internal/grading"
	"lms-quiz-service/internal/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type AttemptStore interface {
	Create(ctx context.Context, attempt *models.Attempt) error
	FindByQuizAndUser(ctx context.Context, quizID, userID string) ([]models.Attempt, error)
}

type AttemptService struct {
	quizzes  *QuizService
	attempts AttemptStore
	events   *event.Publisher
}

func NewAttemptService(quizzes *QuizService, attempts AttemptStore, events *event.Publisher) *AttemptService {
	return &AttemptService{quizzes: quizzes, attempts: attempts, events: events}
}

// SubmitQuiz grades the given answers against the quiz key and records
// the attempt. Live taking sessions call this on submission or expiry;
// previews never do.
func (s *AttemptService) SubmitQuiz(ctx context.Context, quiz *models.Quiz, userID string, answers map[string]string) (*models.Attempt, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id required", ErrValidation)
	}

	result := grading.Grade(quiz.Questions, answers)
	attempt := &models.Attempt{
		ID:          uuid.NewString(),
		QuizID:      quiz.ID,
		UserID:      userID,
		Answers:     result.Answers,
		Score:       result.Score,
		TotalPoints: result.TotalPoints,
		Percentage:  result.Percentage,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.attempts.Create(ctx, attempt); err != nil {
		return nil, err
	}

	s.events.Publish(event.AttemptSubmitted, map[string]string{
		"attempt_id": attempt.ID,
		"quiz_id":    quiz.ID,
		"user_id":    userID,
	})
	logrus.WithFields(logrus.Fields{
		"attempt_id": attempt.ID,
		"quiz_id":    quiz.ID,
		"user_id":    userID,
		"score":      attempt.Score,
		"percentage": attempt.Percentage,
	}).Info("attempt recorded")
	return attempt, nil
}

// Submit loads the quiz and grades in one step, for clients that post
// answers directly without an interactive session.
func (s *AttemptService) Submit(ctx context.Context, quizID, userID string, answers map[string]string) (*models.Attempt, error) {
	quiz, err := s.quizzes.Get(ctx, quizID)
	if err != nil {
		return nil, err
	}
	return s.SubmitQuiz(ctx, quiz, userID, answers)
}

// List returns one user's attempts on a quiz, most recent first.
func (s *AttemptService) List(ctx context.Context, quizID, userID string) ([]models.Attempt, error) {
	return s.attempts.FindByQuizAndUser(ctx, quizID, userID)
}
