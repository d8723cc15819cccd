package grading

import (
	"testing"

	"lms-quiz-service/internal/models"
)

func TestGradeMultipleChoice(t *testing.T) {
	questions := []models.Question{
		{
			ID:     "q1",
			Type:   models.MultipleChoice,
			Points: 5,
			Choices: []models.Choice{
				{Text: "A", IsCorrect: false},
				{Text: "B", IsCorrect: true},
			},
		},
	}

	res := Grade(questions, map[string]string{"q1": "B"})
	if !res.Answers[0].IsCorrect {
		t.Error("expected submitted \"B\" to be correct")
	}
	if res.Score != 5 {
		t.Errorf("expected score 5, got %d", res.Score)
	}

	res = Grade(questions, map[string]string{"q1": "A"})
	if res.Answers[0].IsCorrect {
		t.Error("expected submitted \"A\" to be incorrect")
	}
	if res.Score != 0 {
		t.Errorf("expected score 0, got %d", res.Score)
	}
}

func TestGradeTrueFalseExactMatch(t *testing.T) {
	questions := []models.Question{
		{ID: "q1", Type: models.TrueFalse, Points: 2, CorrectAnswer: "True"},
	}

	cases := []struct {
		submitted string
		correct   bool
	}{
		{"True", true},
		{"False", false},
		{"true", false}, // exact string match, no normalization
		{"", false},
	}
	for _, tc := range cases {
		res := Grade(questions, map[string]string{"q1": tc.submitted})
		if res.Answers[0].IsCorrect != tc.correct {
			t.Errorf("submitted %q: expected correct=%v", tc.submitted, tc.correct)
		}
	}
}

func TestGradeFillInBlankNormalization(t *testing.T) {
	questions := []models.Question{
		{
			ID:             "q1",
			Type:           models.FillInBlank,
			Points:         3,
			CorrectAnswers: []string{"Paris", " paris "},
		},
	}

	res := Grade(questions, map[string]string{"q1": "  PARIS  "})
	if !res.Answers[0].IsCorrect {
		t.Error("expected \"  PARIS  \" to match after trim+lowercase")
	}
	if res.Score != 3 {
		t.Errorf("expected score 3, got %d", res.Score)
	}

	res = Grade(questions, map[string]string{"q1": "London"})
	if res.Answers[0].IsCorrect {
		t.Error("expected \"London\" to be incorrect")
	}
}

func TestGradeMissingAnswerNeverCorrect(t *testing.T) {
	questions := []models.Question{
		{ID: "q1", Type: models.TrueFalse, Points: 1, CorrectAnswer: "True"},
		{ID: "q2", Type: models.FillInBlank, Points: 1, CorrectAnswers: []string{""}},
	}

	res := Grade(questions, nil)
	if res.Answers[0].IsCorrect {
		t.Error("missing true/false answer must not be correct")
	}
	// An empty accepted answer does match a missing submission after
	// normalization; both normalize to "".
	if !res.Answers[1].IsCorrect {
		t.Error("empty accepted answer matches empty submission")
	}
}

func TestGradeUnknownTypeCountsPointsOnly(t *testing.T) {
	questions := []models.Question{
		{ID: "q1", Type: "Essay", Points: 10},
		{ID: "q2", Type: models.TrueFalse, Points: 10, CorrectAnswer: "False"},
	}

	res := Grade(questions, map[string]string{"q1": "anything", "q2": "False"})
	if res.TotalPoints != 20 {
		t.Errorf("expected total 20, got %d", res.TotalPoints)
	}
	if res.Score != 10 {
		t.Errorf("expected score 10, got %d", res.Score)
	}
	if res.Answers[0].IsCorrect {
		t.Error("unknown question type must never grade correct")
	}
}

func TestGradePercentage(t *testing.T) {
	cases := []struct {
		name      string
		questions []models.Question
		answers   map[string]string
		want      int
	}{
		{
			name: "two thirds rounds to 67",
			questions: []models.Question{
				{ID: "a", Type: models.TrueFalse, Points: 1, CorrectAnswer: "True"},
				{ID: "b", Type: models.TrueFalse, Points: 1, CorrectAnswer: "True"},
				{ID: "c", Type: models.TrueFalse, Points: 1, CorrectAnswer: "True"},
			},
			answers: map[string]string{"a": "True", "b": "True", "c": "False"},
			want:    67,
		},
		{
			name:      "no questions yields zero, not NaN",
			questions: nil,
			answers:   nil,
			want:      0,
		},
		{
			name: "zero point questions yield zero",
			questions: []models.Question{
				{ID: "a", Type: models.TrueFalse, Points: 0, CorrectAnswer: "True"},
			},
			answers: map[string]string{"a": "True"},
			want:    0,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := Grade(tc.questions, tc.answers)
			if res.Percentage != tc.want {
				t.Errorf("expected percentage %d, got %d", tc.want, res.Percentage)
			}
			if res.Percentage < 0 || res.Percentage > 100 {
				t.Errorf("percentage %d out of [0,100]", res.Percentage)
			}
		})
	}
}

func TestGradeIdempotent(t *testing.T) {
	questions := []models.Question{
		{ID: "q1", Type: models.MultipleChoice, Points: 4, Choices: []models.Choice{
			{Text: "x", IsCorrect: true}, {Text: "y"},
		}},
		{ID: "q2", Type: models.FillInBlank, Points: 6, CorrectAnswers: []string{"go"}},
	}
	answers := map[string]string{"q1": "x", "q2": "GO "}

	first := Grade(questions, answers)
	second := Grade(questions, answers)
	if first.Score != second.Score || first.Percentage != second.Percentage {
		t.Errorf("grading not idempotent: %+v vs %+v", first, second)
	}
	if first.Score != 10 || first.Percentage != 100 {
		t.Errorf("unexpected result: %+v", first)
	}
}
