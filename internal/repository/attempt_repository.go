package repository

import (
	"context"

	"lms-quiz-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AttemptRepository is append-only: attempts are created by the grading
// step and never updated or deleted.
type AttemptRepository struct {
	Col *mongo.Collection
}

func NewAttemptRepository(db *mongo.Database) *AttemptRepository {
	return &AttemptRepository{Col: db.Collection("attempts")}
}

func (r *AttemptRepository) Create(ctx context.Context, attempt *models.Attempt) error {
	_, err := r.Col.InsertOne(ctx, attempt)
	return err
}

// FindByQuizAndUser lists one user's attempts on one quiz, most recent
// first, the order the attempt gate counts on.
func (r *AttemptRepository) FindByQuizAndUser(ctx context.Context, quizID, userID string) ([]models.Attempt, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.Col.Find(ctx, bson.M{"quiz_id": quizID, "user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	attempts := []models.Attempt{}
	for cur.Next(ctx) {
		var a models.Attempt
		if err := cur.Decode(&a); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, cur.Err()
}
