package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"lms-quiz-service/internal/flow"
	"lms-quiz-service/internal/models"
	"lms-quiz-service/internal/service"

	"github.com/gin-gonic/gin"
)

func TestRespondErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("quiz x: %w", service.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: bad key", service.ErrValidation), http.StatusBadRequest},
		{service.ErrPermissionDenied, http.StatusForbidden},
		{flow.ErrInvalidAccessCode, http.StatusForbidden},
		{flow.ErrBlocked, http.StatusForbidden},
		{flow.ErrAlreadySubmitted, http.StatusConflict},
		{flow.ErrQuestionLocked, http.StatusConflict},
		{flow.ErrNotStarted, http.StatusBadRequest},
		{flow.ErrOutOfRange, http.StatusBadRequest},
		{errors.New("mongo exploded"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		respondError(c, tc.err)
		if w.Code != tc.want {
			t.Errorf("respondError(%v) = %d, want %d", tc.err, w.Code, tc.want)
		}
	}
}

func TestSanitizeQuizStripsKeysAndAccessCode(t *testing.T) {
	quiz := models.Quiz{
		AccessCode: "secret",
		Questions: []models.Question{
			{ID: "mc1", Type: models.MultipleChoice, Choices: []models.Choice{
				{Text: "A"}, {Text: "B", IsCorrect: true},
			}},
			{ID: "tf1", Type: models.TrueFalse, CorrectAnswer: "True"},
			{ID: "fib1", Type: models.FillInBlank, CorrectAnswers: []string{"Paris"}},
		},
	}

	clean := sanitizeQuiz(quiz)

	if clean.AccessCode != "" {
		t.Error("access code leaked")
	}
	for _, q := range clean.Questions {
		if q.CorrectAnswer != "" || q.CorrectAnswers != nil {
			t.Errorf("question %s key leaked", q.ID)
		}
		for _, ch := range q.Choices {
			if ch.IsCorrect {
				t.Errorf("question %s choice flag leaked", q.ID)
			}
		}
	}

	// The original must be untouched; sessions grade against it.
	if !quiz.Questions[0].Choices[1].IsCorrect {
		t.Error("sanitize mutated the source quiz")
	}
	if quiz.AccessCode != "secret" {
		t.Error("sanitize mutated the source access code")
	}
}
