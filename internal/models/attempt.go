package models

import "time"

type AttemptAnswer struct {
	QuestionID string `bson:"question_id" json:"questionId"`
	Answer     string `bson:"answer" json:"answer"`
	IsCorrect  bool   `bson:"is_correct" json:"isCorrect"`
}

// Attempt is one graded submission of a quiz by one user. Attempts are
// append-only: the grading step creates them and nothing mutates them after
// they are stored.
type Attempt struct {
	ID          string          `bson:"_id,omitempty" json:"id"`
	QuizID      string          `bson:"quiz_id" json:"quizId"`
	UserID      string          `bson:"user_id" json:"userId"`
	Answers     []AttemptAnswer `bson:"answers" json:"answers"`
	Score       int             `bson:"score" json:"score"`
	TotalPoints int             `bson:"total_points" json:"totalPoints"`
	Percentage  int             `bson:"percentage" json:"percentage"`
	CreatedAt   time.Time       `bson:"created_at" json:"createdAt"`
}

// AnswerFor finds the graded answer for a question, if one was recorded.
func (a *Attempt) AnswerFor(questionID string) (AttemptAnswer, bool) {
	for _, ans := range a.Answers {
		if ans.QuestionID == questionID {
			return ans, true
		}
	}
	return AttemptAnswer{}, false
}
