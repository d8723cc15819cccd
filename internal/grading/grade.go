package grading

import (
	"math"
	"strings"

	"lms-quiz-service/internal/models"

	"github.com/sirupsen/logrus"
)

// Result is the graded outcome for one set of submitted answers.
type Result struct {
	Score       int
	TotalPoints int
	Percentage  int
	Answers     []models.AttemptAnswer
}

// Grade scores a question list against submitted answers keyed by question
// id. Missing answers grade as empty strings and are never correct. A
// question of an unrecognized type still contributes its points to the
// total but cannot be marked correct.
func Grade(questions []models.Question, answers map[string]string) Result {
	res := Result{Answers: make([]models.AttemptAnswer, 0, len(questions))}

	for _, q := range questions {
		res.TotalPoints += q.Points
		submitted := answers[q.ID]

		correct := false
		switch q.Type {
		case models.MultipleChoice:
			if key, ok := q.CorrectChoice(); ok {
				correct = submitted == key
			}
		case models.TrueFalse:
			correct = submitted == q.CorrectAnswer
		case models.FillInBlank:
			correct = matchesAny(submitted, q.CorrectAnswers)
		default:
			logrus.WithFields(logrus.Fields{
				"question_id": q.ID,
				"type":        q.Type,
			}).Warn("grading question of unknown type as incorrect")
		}

		if correct {
			res.Score += q.Points
		}
		res.Answers = append(res.Answers, models.AttemptAnswer{
			QuestionID: q.ID,
			Answer:     submitted,
			IsCorrect:  correct,
		})
	}

	if res.TotalPoints > 0 {
		res.Percentage = int(math.Round(100 * float64(res.Score) / float64(res.TotalPoints)))
	}
	return res
}

// matchesAny compares a fill-in-the-blank answer against the accepted set,
// ignoring case and surrounding whitespace on both sides.
func matchesAny(submitted string, accepted []string) bool {
	normalized := normalize(submitted)
	for _, a := range accepted {
		if normalize(a) == normalized {
			return true
		}
	}
	return false
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
