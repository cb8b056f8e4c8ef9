package stats

import (
	"context"
	"log"
	"math"
	"time"

	"cerebrum-service/internal/models"
)

// DashboardWindow is how many recent results feed the dashboard summary.
const DashboardWindow = 10

// StatsStore persists per-user running aggregates.
type StatsStore interface {
	Find(ctx context.Context, userID string) (models.UserStats, error)
	Save(ctx context.Context, stats models.UserStats) error
}

// LeaderboardStore persists best-score ranking entries.
type LeaderboardStore interface {
	Find(ctx context.Context, userID string) (models.LeaderboardEntry, bool, error)
	Create(ctx context.Context, entry models.LeaderboardEntry) error
	Update(ctx context.Context, userID, userName string, bestScore int, lastUpdated time.Time) error
}

// ResultStore persists raw quiz results.
type ResultStore interface {
	Create(ctx context.Context, record *models.ResultRecord) error
	FindRecentByUser(ctx context.Context, userID string, limit int) ([]models.ResultRecord, error)
}

// Aggregator maintains user statistics and the leaderboard from completed
// quiz results. Persistence is fire-and-forget: a failed write is logged
// and never blocks the quiz flow.
type Aggregator struct {
	Stats       StatsStore
	Leaderboard LeaderboardStore
	Results     ResultStore

	now func() time.Time
}

func NewAggregator(stats StatsStore, leaderboard LeaderboardStore, results ResultStore) *Aggregator {
	return &Aggregator{
		Stats:       stats,
		Leaderboard: leaderboard,
		Results:     results,
		now:         time.Now,
	}
}

// NextStats computes the updated aggregate from the previous one. The
// average is reconstructed from the previously rounded average, not from
// raw history; that drifts slightly over many sessions but is the stored
// contract, so it must not be replaced with a running sum.
func NextStats(prev models.UserStats, r models.QuizResult) models.UserStats {
	total := prev.TotalQuizzes + 1

	best := prev.BestScore
	if r.ScorePercent > best {
		best = r.ScorePercent
	}

	avg := int(math.Round(float64(prev.AverageScore*prev.TotalQuizzes+r.ScorePercent) / float64(total)))

	return models.UserStats{
		UserID:           prev.UserID,
		TotalQuizzes:     total,
		BestScore:        best,
		AverageScore:     avg,
		TotalTimeSeconds: prev.TotalTimeSeconds + r.ElapsedSeconds,
	}
}

// ApplyResult folds a completed result into the user's stored stats and
// returns the updated aggregate.
func (a *Aggregator) ApplyResult(ctx context.Context, userID string, r models.QuizResult) (models.UserStats, error) {
	prev, err := a.Stats.Find(ctx, userID)
	if err != nil {
		return models.UserStats{}, err
	}

	next := NextStats(prev, r)
	next.LastQuiz = a.now()
	if err := a.Stats.Save(ctx, next); err != nil {
		return models.UserStats{}, err
	}
	return next, nil
}

// UpsertLeaderboard records a completed session on the user's leaderboard
// entry. The play count goes up on every completed session, whether or not
// the best score improved.
func (a *Aggregator) UpsertLeaderboard(ctx context.Context, userID, userName string, r models.QuizResult) (models.LeaderboardEntry, error) {
	existing, found, err := a.Leaderboard.Find(ctx, userID)
	if err != nil {
		return models.LeaderboardEntry{}, err
	}

	now := a.now()
	if !found {
		entry := models.LeaderboardEntry{
			UserID:       userID,
			UserName:     userName,
			BestScore:    r.ScorePercent,
			TotalQuizzes: 1,
			LastUpdated:  now,
		}
		if err := a.Leaderboard.Create(ctx, entry); err != nil {
			return models.LeaderboardEntry{}, err
		}
		return entry, nil
	}

	best := existing.BestScore
	if r.ScorePercent > best {
		best = r.ScorePercent
	}
	if err := a.Leaderboard.Update(ctx, userID, userName, best, now); err != nil {
		return models.LeaderboardEntry{}, err
	}

	existing.UserName = userName
	existing.BestScore = best
	existing.TotalQuizzes++
	existing.LastUpdated = now
	return existing, nil
}

// SaveCompleted persists everything a completed session produces: the raw
// result record, the updated stats and the leaderboard entry. Each write
// failure is logged and skipped; the returned values are whatever was
// computed successfully. Guests (empty user ID) are not persisted at all.
func (a *Aggregator) SaveCompleted(ctx context.Context, userID, userName string, r models.QuizResult) (models.UserStats, models.LeaderboardEntry) {
	if userID == "" {
		return models.UserStats{}, models.LeaderboardEntry{}
	}

	record := &models.ResultRecord{
		UserID:     userID,
		UserName:   userName,
		QuizResult: r,
		CreatedAt:  a.now(),
	}
	if err := a.Results.Create(ctx, record); err != nil {
		log.Printf("Error saving quiz result for user %s: %v", userID, err)
	}

	stats, err := a.ApplyResult(ctx, userID, r)
	if err != nil {
		log.Printf("Error updating stats for user %s: %v", userID, err)
	}

	entry, err := a.UpsertLeaderboard(ctx, userID, userName, r)
	if err != nil {
		log.Printf("Error updating leaderboard for user %s: %v", userID, err)
	}

	return stats, entry
}

// Dashboard summarises the user's recent window of raw results. Unlike the
// stored running average this is recomputed from raw scores each time, so
// the two can legitimately differ.
func (a *Aggregator) Dashboard(ctx context.Context, userID string) (models.Dashboard, error) {
	records, err := a.Results.FindRecentByUser(ctx, userID, DashboardWindow)
	if err != nil {
		return models.Dashboard{}, err
	}

	var d models.Dashboard
	d.History = records
	d.TotalQuizzes = len(records)

	if len(records) == 0 {
		return d, nil
	}

	totalScore := 0
	for _, rec := range records {
		totalScore += rec.ScorePercent
		if rec.ScorePercent > d.BestScore {
			d.BestScore = rec.ScorePercent
		}
		d.TotalTimeSeconds += rec.ElapsedSeconds
	}
	d.AverageScore = int(math.Round(float64(totalScore) / float64(len(records))))
	return d, nil
}
