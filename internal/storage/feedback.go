package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

var ErrInvalidRating = errors.New("rating must be between 1 and 5")

// Feedback is a user rating of the tool.
type Feedback struct {
	Rating    int
	Comment   string
	Page      string
	CreatedAt time.Time
}

// FeedbackSummary aggregates all feedback.
type FeedbackSummary struct {
	Count         int     `json:"count"`
	AverageRating float64 `json:"average_rating"`
}

// RecordFeedback stores one feedback entry.
func (s *Stats) RecordFeedback(ctx context.Context, fb Feedback) error {
	if s == nil || s.db == nil {
		return errors.New("stats storage is not initialized")
	}
	if fb.Rating < 1 || fb.Rating > 5 {
		return ErrInvalidRating
	}

	created := fb.CreatedAt
	if created.IsZero() {
		created = s.now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO feedback (id, rating, comment, page, created_at) VALUES (?, ?, ?, ?, ?)`,
		ulid.Make().String(),
		fb.Rating,
		strings.TrimSpace(fb.Comment),
		strings.TrimSpace(fb.Page),
		created.UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}
	return nil
}

// FeedbackSummary returns the count and average rating of all feedback.
func (s *Stats) FeedbackSummary(ctx context.Context) (*FeedbackSummary, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("stats storage is not initialized")
	}

	var (
		out FeedbackSummary
		avg sql.NullFloat64
	)
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*), AVG(rating) FROM feedback`).Scan(&out.Count, &avg); err != nil {
		return nil, fmt.Errorf("query feedback summary: %w", err)
	}
	if avg.Valid {
		out.AverageRating = avg.Float64
	}
	return &out, nil
}
