package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/spigell/resume-studio/internal/analysis"
	"github.com/spigell/resume-studio/internal/score"
)

var _ analysis.Persistence = (*Stats)(nil)

// Stats records and summarizes analysis runs.
type Stats struct {
	db  *sql.DB
	now func() time.Time
}

// NewStats wraps an initialized database.
func NewStats(db *sql.DB) *Stats {
	return &Stats{db: db, now: time.Now}
}

// RoleCount is the number of analyses for one job role.
type RoleCount struct {
	Role         string  `json:"job_role"`
	Count        int     `json:"count"`
	AverageScore float64 `json:"average_score"`
}

// Summary is the dashboard view over all recorded analyses.
type Summary struct {
	TotalAnalyses     int                `json:"total_analyses"`
	AverageScore      float64            `json:"average_score"`
	ScoreDistribution map[score.Tier]int `json:"score_distribution"`
	ByRole            []RoleCount        `json:"by_role"`
	LastAnalysisAt    *time.Time         `json:"last_analysis_at,omitempty"`
}

// RecordStats stores one run summary.
func (s *Stats) RecordStats(ctx context.Context, entry analysis.StatsEntry) error {
	if s == nil || s.db == nil {
		return errors.New("stats storage is not initialized")
	}

	role := strings.TrimSpace(entry.Role)
	if role == "" {
		return errors.New("job role is required")
	}

	created := entry.CreatedAt
	if created.IsZero() {
		created = s.now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO analysis_stats (id, resume_score, tier, job_role, model_used, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		ulid.Make().String(),
		entry.Score,
		string(score.Classify(entry.Score).Tier),
		role,
		strings.TrimSpace(entry.Model),
		created.UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert analysis stats: %w", err)
	}
	return nil
}

// Summary aggregates every recorded analysis.
func (s *Stats) Summary(ctx context.Context) (*Summary, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("stats storage is not initialized")
	}

	summary := &Summary{
		ScoreDistribution: map[score.Tier]int{
			score.TierExcellent:        0,
			score.TierGood:             0,
			score.TierNeedsImprovement: 0,
		},
	}

	var (
		avg  sql.NullFloat64
		last sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), AVG(resume_score), MAX(created_at) FROM analysis_stats`,
	).Scan(&summary.TotalAnalyses, &avg, &last)
	if err != nil {
		return nil, fmt.Errorf("query analysis totals: %w", err)
	}
	if avg.Valid {
		summary.AverageScore = avg.Float64
	}
	if last.Valid {
		t := time.UnixMilli(last.Int64).UTC()
		summary.LastAnalysisAt = &t
	}

	if err := s.tierCounts(ctx, summary); err != nil {
		return nil, err
	}

	byRole, err := s.roleCounts(ctx)
	if err != nil {
		return nil, err
	}
	summary.ByRole = byRole

	return summary, nil
}

func (s *Stats) tierCounts(ctx context.Context, summary *Summary) error {
	rows, err := s.db.QueryContext(ctx, `SELECT tier, COUNT(*) FROM analysis_stats GROUP BY tier`)
	if err != nil {
		return fmt.Errorf("query tier distribution: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			tier  string
			count int
		)
		if err := rows.Scan(&tier, &count); err != nil {
			return fmt.Errorf("scan tier distribution: %w", err)
		}
		summary.ScoreDistribution[score.Tier(tier)] = count
	}
	return rows.Err()
}

func (s *Stats) roleCounts(ctx context.Context) ([]RoleCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT job_role, COUNT(*), AVG(resume_score)
		FROM analysis_stats
		GROUP BY job_role
		ORDER BY COUNT(*) DESC, job_role ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query role counts: %w", err)
	}
	defer rows.Close()

	var out []RoleCount
	for rows.Next() {
		var rc RoleCount
		if err := rows.Scan(&rc.Role, &rc.Count, &rc.AverageScore); err != nil {
			return nil, fmt.Errorf("scan role counts: %w", err)
		}
		out = append(out, rc)
	}
	return out, rows.Err()
}
