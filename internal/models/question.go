package models

import "fmt"

type QuestionType string

const (
	MultipleChoice QuestionType = "Multiple Choice"
	TrueFalse      QuestionType = "True/False"
	FillInBlank    QuestionType = "Fill in the Blank"
)

type Choice struct {
	Text      string `bson:"text" json:"text"`
	IsCorrect bool   `bson:"is_correct" json:"isCorrect"`
}

// Question carries its answer key inline. Which key fields are meaningful
// depends on Type: Choices for multiple choice, CorrectAnswer for
// true/false, CorrectAnswers for fill in the blank.
type Question struct {
	ID             string       `bson:"_id,omitempty" json:"id"`
	Title          string       `bson:"title" json:"title"`
	Type           QuestionType `bson:"type" json:"type"`
	Points         int          `bson:"points" json:"points"`
	Question       string       `bson:"question" json:"question"`
	Choices        []Choice     `bson:"choices,omitempty" json:"choices,omitempty"`
	CorrectAnswer  string       `bson:"correct_answer,omitempty" json:"correctAnswer,omitempty"`
	CorrectAnswers []string     `bson:"correct_answers,omitempty" json:"correctAnswers,omitempty"`
	Order          int          `bson:"order" json:"order"`
}

// ValidateKey checks that the answer key matches the question type.
func (q *Question) ValidateKey() error {
	switch q.Type {
	case MultipleChoice:
		if len(q.Choices) < 2 {
			return fmt.Errorf("question %q: multiple choice needs at least two choices", q.Title)
		}
		correct := 0
		for _, c := range q.Choices {
			if c.IsCorrect {
				correct++
			}
		}
		if correct != 1 {
			return fmt.Errorf("question %q: multiple choice needs exactly one correct choice, has %d", q.Title, correct)
		}
	case TrueFalse:
		if q.CorrectAnswer != "True" && q.CorrectAnswer != "False" {
			return fmt.Errorf("question %q: true/false answer must be \"True\" or \"False\"", q.Title)
		}
	case FillInBlank:
		if len(q.CorrectAnswers) == 0 {
			return fmt.Errorf("question %q: fill in the blank needs at least one accepted answer", q.Title)
		}
	default:
		return fmt.Errorf("question %q: unknown type %q", q.Title, q.Type)
	}
	return nil
}

// ResetKeyForType clears key fields that do not belong to the question's
// current type. The editor calls this on every type switch so a stale key
// shape never survives the change.
func (q *Question) ResetKeyForType() {
	switch q.Type {
	case MultipleChoice:
		q.CorrectAnswer = ""
		q.CorrectAnswers = nil
		if len(q.Choices) == 0 {
			q.Choices = []Choice{{}, {}, {}, {}}
		}
	case TrueFalse:
		q.Choices = nil
		q.CorrectAnswers = nil
		if q.CorrectAnswer == "" {
			q.CorrectAnswer = "True"
		}
	case FillInBlank:
		q.Choices = nil
		q.CorrectAnswer = ""
	}
}

// CorrectChoice returns the text of the choice marked correct, if any.
func (q *Question) CorrectChoice() (string, bool) {
	for _, c := range q.Choices {
		if c.IsCorrect {
			return c.Text, true
		}
	}
	return "", false
}
