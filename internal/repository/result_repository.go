package repository

import (
	"context"

	"cerebrum-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ResultRepository struct {
	Col *mongo.Collection
}

func NewResultRepository(db *mongo.Database) *ResultRepository {
	return &ResultRepository{Col: db.Collection("quizResults")}
}

func (r *ResultRepository) Create(ctx context.Context, record *models.ResultRecord) error {
	if record.ID == "" {
		record.ID = primitive.NewObjectID().Hex()
	}
	_, err := r.Col.InsertOne(ctx, record)
	return err
}

// FindRecentByUser returns the user's most recent results, newest first.
func (r *ResultRepository) FindRecentByUser(ctx context.Context, userID string, limit int) ([]models.ResultRecord, error) {
	opts := options.Find().
		SetSort(bson.D{bson.E{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.Col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var records []models.ResultRecord
	if err := cur.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
