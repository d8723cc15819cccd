package repository

import (
	"context"
	"errors"

	"lms-quiz-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned for lookups and writes that matched nothing.
var ErrNotFound = errors.New("not found")

type QuizRepository struct {
	Col *mongo.Collection
}

func NewQuizRepository(db *mongo.Database) *QuizRepository {
	return &QuizRepository{Col: db.Collection("quizzes")}
}

func (r *QuizRepository) FindByCourse(ctx context.Context, courseID string) ([]models.Quiz, error) {
	cur, err := r.Col.Find(ctx, bson.M{"course": courseID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	quizzes := []models.Quiz{}
	for cur.Next(ctx) {
		var q models.Quiz
		if err := cur.Decode(&q); err != nil {
			return nil, err
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, cur.Err()
}

func (r *QuizRepository) FindByID(ctx context.Context, id string) (*models.Quiz, error) {
	var quiz models.Quiz
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&quiz)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *QuizRepository) Create(ctx context.Context, quiz *models.Quiz) error {
	_, err := r.Col.InsertOne(ctx, quiz)
	return err
}

// Replace overwrites the whole document; quizzes embed their question
// list so partial updates buy nothing here.
func (r *QuizRepository) Replace(ctx context.Context, quiz *models.Quiz) error {
	res, err := r.Col.ReplaceOne(ctx, bson.M{"_id": quiz.ID}, quiz)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *QuizRepository) Delete(ctx context.Context, id string) error {
	res, err := r.Col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *QuizRepository) SetPublished(ctx context.Context, id string, published bool) error {
	res, err := r.Col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"published": published}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
