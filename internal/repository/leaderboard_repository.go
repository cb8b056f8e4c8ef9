package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"cerebrum-service/internal/models"

	redis_v9 "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type LeaderboardRepository struct {
	Col      *mongo.Collection
	cache    *redis_v9.Client
	cacheTTL time.Duration
}

// NewLeaderboardRepository builds the leaderboard store. cache may be nil;
// ranking queries then always hit Mongo.
func NewLeaderboardRepository(db *mongo.Database, cache *redis_v9.Client, cacheTTL time.Duration) *LeaderboardRepository {
	return &LeaderboardRepository{
		Col:      db.Collection("leaderboard"),
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

// Find returns the user's entry and whether one exists.
func (r *LeaderboardRepository) Find(ctx context.Context, userID string) (models.LeaderboardEntry, bool, error) {
	var entry models.LeaderboardEntry
	err := r.Col.FindOne(ctx, bson.M{"_id": userID}).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.LeaderboardEntry{}, false, nil
	}
	if err != nil {
		return models.LeaderboardEntry{}, false, err
	}
	entry.UserID = userID
	return entry, true, nil
}

// Create inserts a first-time entry for the user.
func (r *LeaderboardRepository) Create(ctx context.Context, entry models.LeaderboardEntry) error {
	_, err := r.Col.InsertOne(ctx, entry)
	if err == nil {
		r.invalidate(ctx)
	}
	return err
}

// Update records another completed session: bestScore is replaced with the
// caller-computed maximum and totalQuizzes is incremented unconditionally.
func (r *LeaderboardRepository) Update(ctx context.Context, userID, userName string, bestScore int, lastUpdated time.Time) error {
	update := bson.M{
		"$set": bson.M{
			"userName":    userName,
			"bestScore":   bestScore,
			"lastUpdated": lastUpdated,
		},
		"$inc": bson.M{"totalQuizzes": 1},
	}
	_, err := r.Col.UpdateOne(ctx, bson.M{"_id": userID}, update)
	if err == nil {
		r.invalidate(ctx)
	}
	return err
}

// TopN returns the highest best scores, read through the Redis cache when
// one is configured.
func (r *LeaderboardRepository) TopN(ctx context.Context, n int) ([]models.LeaderboardEntry, error) {
	key := cacheKey(n)
	if r.cache != nil {
		if cached, err := r.cache.Get(ctx, key).Bytes(); err == nil {
			var entries []models.LeaderboardEntry
			if err := json.Unmarshal(cached, &entries); err == nil {
				return entries, nil
			}
		}
	}

	opts := options.Find().
		SetSort(bson.D{bson.E{Key: "bestScore", Value: -1}}).
		SetLimit(int64(n))

	cur, err := r.Col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var entries []models.LeaderboardEntry
	if err := cur.All(ctx, &entries); err != nil {
		return nil, err
	}

	if r.cache != nil {
		if data, err := json.Marshal(entries); err == nil {
			if err := r.cache.Set(ctx, key, data, r.cacheTTL).Err(); err != nil {
				log.Printf("Error caching leaderboard: %v", err)
			}
		}
	}
	return entries, nil
}

func (r *LeaderboardRepository) invalidate(ctx context.Context) {
	if r.cache == nil {
		return
	}
	iter := r.cache.Scan(ctx, 0, "leaderboard:top:*", 0).Iterator()
	for iter.Next(ctx) {
		if err := r.cache.Del(ctx, iter.Val()).Err(); err != nil {
			log.Printf("Error invalidating leaderboard cache: %v", err)
		}
	}
	if err := iter.Err(); err != nil {
		log.Printf("Error scanning leaderboard cache keys: %v", err)
	}
}

func cacheKey(n int) string {
	return fmt.Sprintf("leaderboard:top:%d", n)
}
