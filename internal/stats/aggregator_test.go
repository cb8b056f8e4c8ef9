package stats

import (
	"context"
	"testing"
	"time"

	"cerebrum-service/internal/models"
)

type fakeStatsStore struct {
	stats map[string]models.UserStats
	fail  bool
}

func (f *fakeStatsStore) Find(ctx context.Context, userID string) (models.UserStats, error) {
	if f.fail {
		return models.UserStats{}, context.DeadlineExceeded
	}
	if s, ok := f.stats[userID]; ok {
		return s, nil
	}
	return models.UserStats{UserID: userID}, nil
}

func (f *fakeStatsStore) Save(ctx context.Context, stats models.UserStats) error {
	if f.fail {
		return context.DeadlineExceeded
	}
	f.stats[stats.UserID] = stats
	return nil
}

type fakeLeaderboardStore struct {
	entries map[string]models.LeaderboardEntry
}

func (f *fakeLeaderboardStore) Find(ctx context.Context, userID string) (models.LeaderboardEntry, bool, error) {
	e, ok := f.entries[userID]
	return e, ok, nil
}

func (f *fakeLeaderboardStore) Create(ctx context.Context, entry models.LeaderboardEntry) error {
	f.entries[entry.UserID] = entry
	return nil
}

func (f *fakeLeaderboardStore) Update(ctx context.Context, userID, userName string, bestScore int, lastUpdated time.Time) error {
	e := f.entries[userID]
	e.UserID = userID
	e.UserName = userName
	e.BestScore = bestScore
	e.TotalQuizzes++
	e.LastUpdated = lastUpdated
	f.entries[userID] = e
	return nil
}

type fakeResultStore struct {
	records []models.ResultRecord
}

func (f *fakeResultStore) Create(ctx context.Context, record *models.ResultRecord) error {
	f.records = append([]models.ResultRecord{*record}, f.records...)
	return nil
}

func (f *fakeResultStore) FindRecentByUser(ctx context.Context, userID string, limit int) ([]models.ResultRecord, error) {
	var out []models.ResultRecord
	for _, r := range f.records {
		if r.UserID == userID {
			out = append(out, r)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func newTestAggregator() (*Aggregator, *fakeStatsStore, *fakeLeaderboardStore, *fakeResultStore) {
	statsStore := &fakeStatsStore{stats: make(map[string]models.UserStats)}
	lbStore := &fakeLeaderboardStore{entries: make(map[string]models.LeaderboardEntry)}
	resultStore := &fakeResultStore{}
	return NewAggregator(statsStore, lbStore, resultStore), statsStore, lbStore, resultStore
}

func result(score, elapsed int) models.QuizResult {
	return models.QuizResult{
		CorrectCount:   score / 10,
		TotalCount:     10,
		ScorePercent:   score,
		ElapsedSeconds: elapsed,
		Category:       "General Knowledge",
		Difficulty:     models.DifficultyMedium,
	}
}

func TestNextStatsSequence(t *testing.T) {
	// Scores 80, 60, 100 from zero stats: the average is rebuilt from the
	// previously rounded value at each step.
	steps := []struct {
		score       int
		wantTotal   int
		wantBest    int
		wantAverage int
	}{
		{80, 1, 80, 80},
		{60, 2, 80, 70},
		{100, 3, 100, 80},
	}

	var stats models.UserStats
	for _, step := range steps {
		stats = NextStats(stats, result(step.score, 30))
		if stats.TotalQuizzes != step.wantTotal {
			t.Errorf("After score %d: expected totalQuizzes %d, got %d", step.score, step.wantTotal, stats.TotalQuizzes)
		}
		if stats.BestScore != step.wantBest {
			t.Errorf("After score %d: expected bestScore %d, got %d", step.score, step.wantBest, stats.BestScore)
		}
		if stats.AverageScore != step.wantAverage {
			t.Errorf("After score %d: expected averageScore %d, got %d", step.score, step.wantAverage, stats.AverageScore)
		}
	}
	if stats.TotalTimeSeconds != 90 {
		t.Errorf("Expected total time 90, got %d", stats.TotalTimeSeconds)
	}
}

func TestNextStatsRounding(t *testing.T) {
	// round((67*1 + 34) / 2) = round(50.5) = 51, half rounds up.
	prev := models.UserStats{TotalQuizzes: 1, BestScore: 67, AverageScore: 67}
	next := NextStats(prev, result(34, 10))
	if next.AverageScore != 51 {
		t.Errorf("Expected half-up rounding to 51, got %d", next.AverageScore)
	}
}

func TestApplyResultPersists(t *testing.T) {
	agg, statsStore, _, _ := newTestAggregator()
	ctx := context.Background()

	if _, err := agg.ApplyResult(ctx, "user-1", result(80, 120)); err != nil {
		t.Fatalf("ApplyResult failed: %v", err)
	}
	updated, err := agg.ApplyResult(ctx, "user-1", result(60, 60))
	if err != nil {
		t.Fatalf("ApplyResult failed: %v", err)
	}

	if updated.TotalQuizzes != 2 || updated.AverageScore != 70 || updated.TotalTimeSeconds != 180 {
		t.Errorf("Unexpected stats %+v", updated)
	}
	if stored := statsStore.stats["user-1"]; stored.AverageScore != 70 {
		t.Errorf("Expected stored average 70, got %d", stored.AverageScore)
	}
	if updated.LastQuiz.IsZero() {
		t.Error("Expected LastQuiz to be set")
	}
}

func TestUpsertLeaderboard(t *testing.T) {
	agg, _, lbStore, _ := newTestAggregator()
	ctx := context.Background()

	first, err := agg.UpsertLeaderboard(ctx, "user-1", "User One", result(50, 30))
	if err != nil {
		t.Fatalf("UpsertLeaderboard failed: %v", err)
	}
	if first.BestScore != 50 || first.TotalQuizzes != 1 {
		t.Errorf("Unexpected first entry %+v", first)
	}

	// A worse score still counts as a play.
	second, err := agg.UpsertLeaderboard(ctx, "user-1", "User One", result(40, 30))
	if err != nil {
		t.Fatalf("UpsertLeaderboard failed: %v", err)
	}
	if second.BestScore != 50 {
		t.Errorf("Expected bestScore to stay 50, got %d", second.BestScore)
	}
	if second.TotalQuizzes != 2 {
		t.Errorf("Expected totalQuizzes 2, got %d", second.TotalQuizzes)
	}

	if stored := lbStore.entries["user-1"]; stored.BestScore != 50 || stored.TotalQuizzes != 2 {
		t.Errorf("Unexpected stored entry %+v", stored)
	}
}

func TestSaveCompletedSkipsGuests(t *testing.T) {
	agg, statsStore, lbStore, resultStore := newTestAggregator()

	agg.SaveCompleted(context.Background(), "", "", result(90, 45))

	if len(resultStore.records) != 0 {
		t.Error("Guest result should not be recorded")
	}
	if len(statsStore.stats) != 0 || len(lbStore.entries) != 0 {
		t.Error("Guest play should not touch stats or leaderboard")
	}
}

func TestSaveCompletedAbsorbsFailures(t *testing.T) {
	agg, statsStore, lbStore, _ := newTestAggregator()
	statsStore.fail = true

	// A failing stats store must not stop the leaderboard update.
	_, entry := agg.SaveCompleted(context.Background(), "user-1", "User One", result(75, 30))
	if entry.BestScore != 75 || entry.TotalQuizzes != 1 {
		t.Errorf("Expected leaderboard entry despite stats failure, got %+v", entry)
	}
	if len(lbStore.entries) != 1 {
		t.Errorf("Expected 1 leaderboard entry, got %d", len(lbStore.entries))
	}
}

func TestDashboardWindow(t *testing.T) {
	agg, _, _, resultStore := newTestAggregator()
	ctx := context.Background()

	scores := []int{40, 60, 80}
	for _, score := range scores {
		agg.SaveCompleted(ctx, "user-1", "User One", result(score, 30))
	}
	// Noise from another user must not leak in.
	agg.SaveCompleted(ctx, "user-2", "User Two", result(100, 30))

	d, err := agg.Dashboard(ctx, "user-1")
	if err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}
	if d.TotalQuizzes != 3 {
		t.Errorf("Expected 3 recent results, got %d", d.TotalQuizzes)
	}
	if d.AverageScore != 60 {
		t.Errorf("Expected recent average 60, got %d", d.AverageScore)
	}
	if d.BestScore != 80 {
		t.Errorf("Expected recent best 80, got %d", d.BestScore)
	}
	if d.TotalTimeSeconds != 90 {
		t.Errorf("Expected recent time 90, got %d", d.TotalTimeSeconds)
	}
	if len(d.History) != 3 {
		t.Errorf("Expected 3 history records, got %d", len(d.History))
	}
	if len(resultStore.records) != 4 {
		t.Errorf("Expected 4 records stored in total, got %d", len(resultStore.records))
	}
}

func TestDashboardEmpty(t *testing.T) {
	agg, _, _, _ := newTestAggregator()
	d, err := agg.Dashboard(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}
	if d.TotalQuizzes != 0 || d.AverageScore != 0 {
		t.Errorf("Expected zero dashboard, got %+v", d)
	}
}
