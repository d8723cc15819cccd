package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"lms-quiz-service/internal/models"
	"lms-quiz-service/internal/repository"
)

type memQuizStore struct {
	mu      sync.Mutex
	quizzes map[string]models.Quiz
}

func newMemQuizStore() *memQuizStore {
	return &memQuizStore{quizzes: map[string]models.Quiz{}}
}

func (m *memQuizStore) FindByCourse(_ context.Context, courseID string) ([]models.Quiz, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Quiz{}
	for _, q := range m.quizzes {
		if q.Course == courseID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (m *memQuizStore) FindByID(_ context.Context, id string) (*models.Quiz, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.quizzes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &q, nil
}

func (m *memQuizStore) Create(_ context.Context, quiz *models.Quiz) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quizzes[quiz.ID] = *quiz
	return nil
}

func (m *memQuizStore) Replace(_ context.Context, quiz *models.Quiz) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.quizzes[quiz.ID]; !ok {
		return repository.ErrNotFound
	}
	m.quizzes[quiz.ID] = *quiz
	return nil
}

func (m *memQuizStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.quizzes[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.quizzes, id)
	return nil
}

func (m *memQuizStore) SetPublished(_ context.Context, id string, published bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.quizzes[id]
	if !ok {
		return repository.ErrNotFound
	}
	q.Published = published
	m.quizzes[id] = q
	return nil
}

func TestCreateAppliesDefaultsAndRecomputesPoints(t *testing.T) {
	svc := NewQuizService(newMemQuizStore(), nil, nil)

	quiz, err := svc.Create(context.Background(), "c101", &models.Quiz{
		Questions: []models.Question{
			{Type: models.TrueFalse, Points: 3, CorrectAnswer: "True"},
			{Type: models.FillInBlank, Points: 7, CorrectAnswers: []string{"go"}},
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if quiz.ID == "" {
		t.Error("expected server-assigned quiz id")
	}
	if quiz.Title != "New Quiz" {
		t.Errorf("Title = %q, want default", quiz.Title)
	}
	if quiz.QuizType != models.GradedQuiz {
		t.Errorf("QuizType = %q, want graded default", quiz.QuizType)
	}
	if quiz.Points != 10 {
		t.Errorf("Points = %d, want 10 recomputed from questions", quiz.Points)
	}
	if quiz.Published {
		t.Error("new quiz must start unpublished")
	}
	for i, q := range quiz.Questions {
		if q.ID == "" {
			t.Errorf("question %d missing assigned id", i)
		}
	}
}

func TestCreateRejectsInvalidAnswerKey(t *testing.T) {
	svc := NewQuizService(newMemQuizStore(), nil, nil)

	_, err := svc.Create(context.Background(), "c101", &models.Quiz{
		Questions: []models.Question{
			{Type: models.TrueFalse, Points: 3, CorrectAnswer: "Maybe"},
		},
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestUpdateKeepsPublishedStickyAcrossPlainSave(t *testing.T) {
	store := newMemQuizStore()
	svc := NewQuizService(store, nil, nil)
	ctx := context.Background()

	quiz, err := svc.Create(ctx, "c101", &models.Quiz{Title: "Midterm"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Save & Publish turns it on.
	quiz.Description = "v2"
	published, err := svc.Update(ctx, quiz, true)
	if err != nil {
		t.Fatalf("Update publish: %v", err)
	}
	if !published.Published {
		t.Fatal("Save & Publish must set published")
	}

	// A later plain save must not turn it back off.
	published.Description = "v3"
	published.Published = false
	saved, err := svc.Update(ctx, published, false)
	if err != nil {
		t.Fatalf("Update save: %v", err)
	}
	if !saved.Published {
		t.Error("plain save flipped published off")
	}
	if saved.Description != "v3" {
		t.Errorf("Description = %q, want v3", saved.Description)
	}
}

func TestUpdateMissingQuizIsNotFound(t *testing.T) {
	svc := NewQuizService(newMemQuizStore(), nil, nil)
	_, err := svc.Update(context.Background(), &models.Quiz{ID: "nope"}, false)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteThenGetIsNotFound(t *testing.T) {
	svc := NewQuizService(newMemQuizStore(), nil, nil)
	ctx := context.Background()

	quiz, err := svc.Create(ctx, "c101", &models.Quiz{Title: "Doomed"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.Delete(ctx, quiz.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(ctx, quiz.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get after delete = %v, want ErrNotFound", err)
	}
}

func TestSetPublishedTogglesStoredFlag(t *testing.T) {
	store := newMemQuizStore()
	svc := NewQuizService(store, nil, nil)
	ctx := context.Background()

	quiz, err := svc.Create(ctx, "c101", &models.Quiz{Title: "Toggle"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.SetPublished(ctx, quiz.ID, true); err != nil {
		t.Fatalf("SetPublished: %v", err)
	}
	got, err := svc.Get(ctx, quiz.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.Published {
		t.Error("published flag not persisted")
	}
}
