package models

import "time"

// UserStats is the running aggregate for one user, keyed by user ID in the
// users collection. Missing numeric fields in stored documents decode to
// zero, which is the defaulting rule for first-time players.
type UserStats struct {
	UserID           string    `bson:"_id,omitempty" json:"user_id"`
	TotalQuizzes     int       `bson:"totalQuizzes" json:"total_quizzes"`
	BestScore        int       `bson:"bestScore" json:"best_score"`
	AverageScore     int       `bson:"averageScore" json:"average_score"`
	TotalTimeSeconds int       `bson:"totalTime" json:"total_time_seconds"`
	LastQuiz         time.Time `bson:"lastQuiz,omitempty" json:"last_quiz"`
}

// LeaderboardEntry is one user's row in the leaderboard collection.
// TotalQuizzes counts every completed session, not just ones that raised
// the best score.
type LeaderboardEntry struct {
	UserID       string    `bson:"_id,omitempty" json:"user_id"`
	UserName     string    `bson:"userName" json:"user_name"`
	BestScore    int       `bson:"bestScore" json:"best_score"`
	TotalQuizzes int       `bson:"totalQuizzes" json:"total_quizzes"`
	LastUpdated  time.Time `bson:"lastUpdated" json:"last_updated"`
}

// Dashboard summarises a user's recent play: the stats are recomputed from
// the raw recent results window, independent of the stored running average.
type Dashboard struct {
	TotalQuizzes     int            `json:"total_quizzes"`
	AverageScore     int            `json:"average_score"`
	BestScore        int            `json:"best_score"`
	TotalTimeSeconds int            `json:"total_time_seconds"`
	History          []ResultRecord `json:"history"`
}
