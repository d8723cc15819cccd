package cache

import (
	"context"
	"encoding/json"
	"time"

	"lms-quiz-service/internal/models"

	"github.com/go-redis/redis/v8"
)

const quizTTL = time.Hour

// QuizCache is an optional read-through cache in front of the quiz
// collection. Callers tolerate a nil *QuizCache.
type QuizCache struct {
	client *redis.Client
}

func NewQuizCache(addr string) *QuizCache {
	return &QuizCache{client: redis.NewClient(&redis.Options{Addr: addr})}
}

// Ping verifies the connection so a bad address fails at startup.
func (c *QuizCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *QuizCache) SetQuiz(ctx context.Context, quiz *models.Quiz) error {
	if c == nil {
		return nil
	}
	data, err := json.Marshal(quiz)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, "quiz:"+quiz.ID, data, quizTTL).Err()
}

// GetQuiz returns the cached quiz or nil on any miss or error; the caller
// falls through to storage either way.
func (c *QuizCache) GetQuiz(ctx context.Context, id string) *models.Quiz {
	if c == nil {
		return nil
	}
	data, err := c.client.Get(ctx, "quiz:"+id).Bytes()
	if err != nil {
		return nil
	}
	var quiz models.Quiz
	if err := json.Unmarshal(data, &quiz); err != nil {
		return nil
	}
	return &quiz
}

// Invalidate drops a quiz after any write so stale settings never gate an
// attempt.
func (c *QuizCache) Invalidate(ctx context.Context, id string) error {
	if c == nil {
		return nil
	}
	return c.client.Del(ctx, "quiz:"+id).Err()
}
