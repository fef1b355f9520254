package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/resume-studio/internal/analysis"
	"github.com/spigell/resume-studio/internal/score"
)

func newStats(t *testing.T) *Stats {
	t.Helper()

	db, err := Init(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewStats(db)
}

func TestInit(t *testing.T) {
	baseDir := filepath.Join(t.TempDir(), "nested", ".resume-studio")

	db, err := Init(baseDir)
	require.NoError(t, err)
	defer db.Close()

	_, err = os.Stat(filepath.Join(baseDir, dbFileName))
	assert.NoError(t, err)

	info, err := os.Stat(ReportsDir(baseDir))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	version, err := GetUserVersion(db)
	require.NoError(t, err)
	assert.Equal(t, CurrentSchemaVersion, version)

	var journalMode string
	require.NoError(t, db.QueryRow("PRAGMA journal_mode;").Scan(&journalMode))
	assert.Equal(t, "wal", journalMode)
}

func TestInitIsIdempotent(t *testing.T) {
	dir := t.TempDir()

	first, err := Init(dir)
	require.NoError(t, err)
	require.NoError(t, NewStats(first).RecordStats(context.Background(), analysis.StatsEntry{Score: 70, Role: "Dev"}))
	first.Close()

	second, err := Init(dir)
	require.NoError(t, err)
	defer second.Close()

	summary, err := NewStats(second).Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalAnalyses)
}

func TestSummaryEmpty(t *testing.T) {
	summary, err := newStats(t).Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, summary.TotalAnalyses)
	assert.Zero(t, summary.AverageScore)
	assert.Nil(t, summary.LastAnalysisAt)
	assert.Empty(t, summary.ByRole)
	assert.Len(t, summary.ScoreDistribution, 3)
}

func TestRecordAndSummarize(t *testing.T) {
	ctx := context.Background()
	stats := newStats(t)
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	entries := []analysis.StatsEntry{
		{Score: 90, Role: "Backend Developer", Model: "gemini-2.5-pro", CreatedAt: base},
		{Score: 70, Role: "Backend Developer", Model: "gemini-2.5-pro", CreatedAt: base.Add(time.Hour)},
		{Score: 50, Role: "Data Analyst", Model: "gemini-2.5-pro", CreatedAt: base.Add(2 * time.Hour)},
		{Score: 86, Role: " UX Designer ", Model: "gemini-2.5-flash", CreatedAt: base.Add(3 * time.Hour)},
	}
	for _, e := range entries {
		require.NoError(t, stats.RecordStats(ctx, e))
	}

	summary, err := stats.Summary(ctx)
	require.NoError(t, err)

	assert.Equal(t, 4, summary.TotalAnalyses)
	assert.InDelta(t, 74.0, summary.AverageScore, 1e-9)
	assert.Equal(t, 2, summary.ScoreDistribution[score.TierExcellent])
	assert.Equal(t, 1, summary.ScoreDistribution[score.TierGood])
	assert.Equal(t, 1, summary.ScoreDistribution[score.TierNeedsImprovement])

	require.NotNil(t, summary.LastAnalysisAt)
	assert.True(t, summary.LastAnalysisAt.Equal(base.Add(3*time.Hour)))

	require.Len(t, summary.ByRole, 3)
	assert.Equal(t, RoleCount{Role: "Backend Developer", Count: 2, AverageScore: 80}, summary.ByRole[0])
	assert.Equal(t, "Data Analyst", summary.ByRole[1].Role)
	assert.Equal(t, "UX Designer", summary.ByRole[2].Role)
}

func TestRecordStatsRequiresRole(t *testing.T) {
	err := newStats(t).RecordStats(context.Background(), analysis.StatsEntry{Score: 80, Role: "  "})
	assert.Error(t, err)
}

func TestRecordStatsOnClosedDatabase(t *testing.T) {
	db, err := Init(t.TempDir())
	require.NoError(t, err)
	stats := NewStats(db)
	require.NoError(t, db.Close())

	err = stats.RecordStats(context.Background(), analysis.StatsEntry{Score: 80, Role: "Dev"})
	assert.ErrorContains(t, err, "insert analysis stats")
}

func TestFeedback(t *testing.T) {
	ctx := context.Background()
	stats := newStats(t)

	empty, err := stats.FeedbackSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, FeedbackSummary{}, *empty)

	require.NoError(t, stats.RecordFeedback(ctx, Feedback{Rating: 5, Comment: "great", Page: "analyzer"}))
	require.NoError(t, stats.RecordFeedback(ctx, Feedback{Rating: 2}))

	assert.ErrorIs(t, stats.RecordFeedback(ctx, Feedback{Rating: 0}), ErrInvalidRating)
	assert.ErrorIs(t, stats.RecordFeedback(ctx, Feedback{Rating: 6}), ErrInvalidRating)

	summary, err := stats.FeedbackSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Count)
	assert.InDelta(t, 3.5, summary.AverageRating, 1e-9)
}
