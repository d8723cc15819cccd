package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lms-quiz-service/internal/cache"
	"lms-quiz-service/internal/event"
	"lms-quiz-service/internal/models"
	"lms-quiz-service/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// QuizStore is the persistence surface the quiz service needs. The mongo
// repository satisfies it; tests plug in an in-memory fake.
type QuizStore interface {
	FindByCourse(ctx context.Context, courseID string) ([]models.Quiz, error)
	FindByID(ctx context.Context, id string) (*models.Quiz, error)
	Create(ctx context.Context, quiz *models.Quiz) error
	Replace(ctx context.Context, quiz *models.Quiz) error
	Delete(ctx context.Context, id string) error
	SetPublished(ctx context.Context, id string, published bool) error
}

type QuizService struct {
	store  QuizStore
	cache  *cache.QuizCache
	events *event.Publisher
}

func NewQuizService(store QuizStore, quizCache *cache.QuizCache, events *event.Publisher) *QuizService {
	return &QuizService{store: store, cache: quizCache, events: events}
}

func (s *QuizService) ListForCourse(ctx context.Context, courseID string) ([]models.Quiz, error) {
	return s.store.FindByCourse(ctx, courseID)
}

func (s *QuizService) Get(ctx context.Context, id string) (*models.Quiz, error) {
	if quiz := s.cache.GetQuiz(ctx, id); quiz != nil {
		return quiz, nil
	}
	quiz, err := s.store.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("quiz %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetQuiz(ctx, quiz); err != nil {
		logrus.WithError(err).WithField("quiz_id", id).Warn("failed to cache quiz")
	}
	return quiz, nil
}

// Create persists a new quiz with a server-assigned identifier. Defaults
// follow the authoring form; points are always recomputed from the
// question list on the way in.
func (s *QuizService) Create(ctx context.Context, courseID string, draft *models.Quiz) (*models.Quiz, error) {
	quiz := *draft
	quiz.ID = uuid.NewString()
	quiz.Course = courseID
	applyAuthoringDefaults(&quiz)

	if err := prepareQuestions(&quiz); err != nil {
		return nil, err
	}
	quiz.RecomputePoints()
	quiz.CreatedAt = time.Now().UTC()
	quiz.UpdatedAt = quiz.CreatedAt

	if err := s.store.Create(ctx, &quiz); err != nil {
		return nil, err
	}
	s.events.Publish(event.QuizCreated, map[string]string{"quiz_id": quiz.ID, "course": courseID})
	logrus.WithFields(logrus.Fields{"quiz_id": quiz.ID, "course": courseID}).Info("quiz created")
	return &quiz, nil
}

// Update replaces a quiz. Published is sticky: a plain save keeps the
// stored value, Save & Publish (publish=true) forces it on.
func (s *QuizService) Update(ctx context.Context, quiz *models.Quiz, publish bool) (*models.Quiz, error) {
	existing, err := s.store.FindByID(ctx, quiz.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("quiz %s: %w", quiz.ID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	updated := *quiz
	updated.Course = existing.Course
	updated.CreatedAt = existing.CreatedAt
	updated.Published = existing.Published || publish

	if err := prepareQuestions(&updated); err != nil {
		return nil, err
	}
	updated.RecomputePoints()
	updated.UpdatedAt = time.Now().UTC()

	if err := s.store.Replace(ctx, &updated); err != nil {
		return nil, err
	}
	if err := s.cache.Invalidate(ctx, updated.ID); err != nil {
		logrus.WithError(err).WithField("quiz_id", updated.ID).Warn("failed to invalidate quiz cache")
	}
	s.events.Publish(event.QuizUpdated, map[string]string{"quiz_id": updated.ID})
	if publish && !existing.Published {
		s.events.Publish(event.QuizPublished, map[string]string{"quiz_id": updated.ID})
	}
	return &updated, nil
}

func (s *QuizService) Delete(ctx context.Context, id string) error {
	err := s.store.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("quiz %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return err
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		logrus.WithError(err).WithField("quiz_id", id).Warn("failed to invalidate quiz cache")
	}
	s.events.Publish(event.QuizDeleted, map[string]string{"quiz_id": id})
	return nil
}

func (s *QuizService) SetPublished(ctx context.Context, id string, published bool) error {
	err := s.store.SetPublished(ctx, id, published)
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("quiz %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return err
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		logrus.WithError(err).WithField("quiz_id", id).Warn("failed to invalidate quiz cache")
	}
	s.events.Publish(event.QuizPublished, map[string]string{"quiz_id": id, "published": fmt.Sprint(published)})
	return nil
}

func applyAuthoringDefaults(quiz *models.Quiz) {
	defaults := models.NewQuiz(quiz.Course)
	if quiz.Title == "" {
		quiz.Title = defaults.Title
	}
	if quiz.QuizType == "" {
		quiz.QuizType = defaults.QuizType
	}
	if quiz.AssignmentGroup == "" {
		quiz.AssignmentGroup = defaults.AssignmentGroup
	}
	if quiz.ShowCorrectAnswers == "" {
		quiz.ShowCorrectAnswers = defaults.ShowCorrectAnswers
	}
	if quiz.AttemptsAllowed == 0 {
		quiz.AttemptsAllowed = defaults.AttemptsAllowed
	}
	if quiz.Questions == nil {
		quiz.Questions = []models.Question{}
	}
}

// prepareQuestions assigns ids to new questions and rejects answer keys
// that do not match their question type.
func prepareQuestions(quiz *models.Quiz) error {
	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		if q.ID == "" {
			q.ID = uuid.NewString()
		}
		if q.Order == 0 {
			q.Order = i + 1
		}
		if err := q.ValidateKey(); err != nil {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}
	return nil
}
