package repository

import (
	"context"
	"errors"

	"cerebrum-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type StatsRepository struct {
	Col *mongo.Collection
}

func NewStatsRepository(db *mongo.Database) *StatsRepository {
	return &StatsRepository{Col: db.Collection("users")}
}

// Find returns the stored stats for a user. A user with no document gets
// zero-valued stats; missing numeric fields in older documents also decode
// to zero. This is the single place the defaulting rule is applied.
func (r *StatsRepository) Find(ctx context.Context, userID string) (models.UserStats, error) {
	var stats models.UserStats
	err := r.Col.FindOne(ctx, bson.M{"_id": userID}).Decode(&stats)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.UserStats{UserID: userID}, nil
	}
	if err != nil {
		return models.UserStats{}, err
	}
	stats.UserID = userID
	return stats, nil
}

// Save upserts the user's stats document.
func (r *StatsRepository) Save(ctx context.Context, stats models.UserStats) error {
	update := bson.M{"$set": bson.M{
		"totalQuizzes": stats.TotalQuizzes,
		"bestScore":    stats.BestScore,
		"averageScore": stats.AverageScore,
		"totalTime":    stats.TotalTimeSeconds,
		"lastQuiz":     stats.LastQuiz,
	}}
	opts := options.Update().SetUpsert(true)
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": stats.UserID}, update, opts)
	return err
}
