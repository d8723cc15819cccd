package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"lms-quiz-service/internal/models"
)

type memAttemptStore struct {
	mu       sync.Mutex
	attempts []models.Attempt
}

func (m *memAttemptStore) Create(_ context.Context, attempt *models.Attempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts = append(m.attempts, *attempt)
	return nil
}

func (m *memAttemptStore) FindByQuizAndUser(_ context.Context, quizID, userID string) ([]models.Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Attempt{}
	// Stored in insertion order; return most recent first.
	for i := len(m.attempts) - 1; i >= 0; i-- {
		a := m.attempts[i]
		if a.QuizID == quizID && a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func gradedQuiz() *models.Quiz {
	return &models.Quiz{
		ID:        "q1",
		Course:    "c101",
		Title:     "Midterm",
		Published: true,
		Questions: []models.Question{
			{ID: "mc1", Type: models.MultipleChoice, Points: 5, Choices: []models.Choice{
				{Text: "A"}, {Text: "B", IsCorrect: true},
			}},
			{ID: "fib1", Type: models.FillInBlank, Points: 5, CorrectAnswers: []string{"Paris"}},
		},
	}
}

func TestSubmitQuizGradesAndPersists(t *testing.T) {
	store := &memAttemptStore{}
	svc := NewAttemptService(NewQuizService(newMemQuizStore(), nil, nil), store, nil)

	attempt, err := svc.SubmitQuiz(context.Background(), gradedQuiz(), "u1", map[string]string{
		"mc1":  "B",
		"fib1": "london",
	})
	if err != nil {
		t.Fatalf("SubmitQuiz: %v", err)
	}
	if attempt.ID == "" {
		t.Error("attempt must get a server-assigned id")
	}
	if attempt.Score != 5 || attempt.TotalPoints != 10 || attempt.Percentage != 50 {
		t.Errorf("graded %d/%d (%d%%), want 5/10 (50%%)", attempt.Score, attempt.TotalPoints, attempt.Percentage)
	}

	listed, err := svc.List(context.Background(), "q1", "u1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != attempt.ID {
		t.Fatalf("List = %+v, want the persisted attempt", listed)
	}
}

func TestSubmitQuizRequiresUser(t *testing.T) {
	svc := NewAttemptService(NewQuizService(newMemQuizStore(), nil, nil), &memAttemptStore{}, nil)
	_, err := svc.SubmitQuiz(context.Background(), gradedQuiz(), "", nil)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestSubmitLoadsQuizByID(t *testing.T) {
	quizzes := newMemQuizStore()
	quizSvc := NewQuizService(quizzes, nil, nil)
	svc := NewAttemptService(quizSvc, &memAttemptStore{}, nil)
	ctx := context.Background()

	created, err := quizSvc.Create(ctx, "c101", &models.Quiz{
		Title: "Direct",
		Questions: []models.Question{
			{ID: "tf1", Type: models.TrueFalse, Points: 4, CorrectAnswer: "True"},
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	attempt, err := svc.Submit(ctx, created.ID, "u2", map[string]string{"tf1": "True"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if attempt.Score != 4 || attempt.Percentage != 100 {
		t.Errorf("graded %d (%d%%), want 4 (100%%)", attempt.Score, attempt.Percentage)
	}

	if _, err := svc.Submit(ctx, "missing", "u2", nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Submit missing quiz = %v, want ErrNotFound", err)
	}
}

func TestListReturnsMostRecentFirst(t *testing.T) {
	store := &memAttemptStore{}
	svc := NewAttemptService(NewQuizService(newMemQuizStore(), nil, nil), store, nil)
	ctx := context.Background()
	quiz := gradedQuiz()

	first, err := svc.SubmitQuiz(ctx, quiz, "u1", map[string]string{"mc1": "A"})
	if err != nil {
		t.Fatalf("SubmitQuiz: %v", err)
	}
	second, err := svc.SubmitQuiz(ctx, quiz, "u1", map[string]string{"mc1": "B"})
	if err != nil {
		t.Fatalf("SubmitQuiz: %v", err)
	}

	listed, err := svc.List(ctx, quiz.ID, "u1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(listed) != 2 || listed[0].ID != second.ID || listed[1].ID != first.ID {
		t.Fatalf("List order wrong: %+v", listed)
	}
}
