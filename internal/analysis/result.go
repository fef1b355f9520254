package analysis

import (
	"context"
	"io"
	"strings"
	"time"
)

const (
	MIMEPDF  = "application/pdf"
	MIMEDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

	// MaxUploadBytes is the advertised upload ceiling. The orchestrator does
	// not enforce it, extractors may reject larger artifacts.
	MaxUploadBytes = 10 << 20
)

// SupportedMIME reports whether the type is one of the two accepted
// document formats.
func SupportedMIME(mimeType string) bool {
	switch strings.ToLower(strings.TrimSpace(mimeType)) {
	case MIMEPDF, MIMEDOCX:
		return true
	default:
		return false
	}
}

// Artifact is an uploaded document. Body is consumed once during extraction
// and released afterwards.
type Artifact struct {
	Name     string
	MIMEType string
	Size     int64
	Body     io.Reader
}

// Close releases the body. It is safe to call more than once.
func (a *Artifact) Close() error {
	if a == nil || a.Body == nil {
		return nil
	}
	var err error
	if closer, ok := a.Body.(io.Closer); ok {
		err = closer.Close()
	}
	a.Body = nil
	return err
}

func (a *Artifact) release() { _ = a.Close() }

// Result is the output of an analysis run. A result is either a success
// (score fields populated, Error empty) or an error marker carrying only
// Error.
type Result struct {
	ResumeScore   float64  `json:"resume_score" mapstructure:"resume_score"`
	ATSScore      *float64 `json:"ats_score,omitempty" mapstructure:"ats_score"`
	KeywordMatch  *float64 `json:"keyword_match,omitempty" mapstructure:"keyword_match"`
	FormatScore   *float64 `json:"format_score,omitempty" mapstructure:"format_score"`
	SectionScore  *float64 `json:"section_score,omitempty" mapstructure:"section_score"`
	JobMatchScore *float64 `json:"job_match_score,omitempty" mapstructure:"job_match_score"`
	Strengths     []string `json:"strengths,omitempty" mapstructure:"strengths"`
	Suggestions   []string `json:"suggestions,omitempty" mapstructure:"suggestions"`
	Analysis      string   `json:"analysis,omitempty" mapstructure:"analysis"`
	Model         string   `json:"model,omitempty" mapstructure:"-"`

	Error string `json:"error,omitempty" mapstructure:"error"`
}

// ErrorResult builds an error-tagged result.
func ErrorResult(message string) *Result {
	message = strings.TrimSpace(message)
	if message == "" {
		message = "unknown error"
	}
	return &Result{Error: message}
}

// IsError reports whether the result is an error marker.
func (r *Result) IsError() bool {
	return r == nil || r.Error != ""
}

// AnalyzeInput is what the analyzer receives. An empty JobDescription means
// no custom description was supplied.
type AnalyzeInput struct {
	Text           string
	Role           string
	JobDescription string
}

// Extractor turns an uploaded artifact into raw text.
type Extractor interface {
	Extract(ctx context.Context, artifact *Artifact) (string, error)
}

// Analyzer scores resume text for a role.
type Analyzer interface {
	Analyze(ctx context.Context, input AnalyzeInput) (*Result, error)
}

// StatsEntry is the summary persisted for every successful run.
type StatsEntry struct {
	Score     float64
	Role      string
	Model     string
	CreatedAt time.Time
}

// Persistence records summary stats. Failures are non-fatal for the caller.
type Persistence interface {
	RecordStats(ctx context.Context, entry StatsEntry) error
}

// Store receives the outcome of a run.
type Store interface {
	SetResult(result *Result)
	SetFailure(message string)
	RecordScore(score float64)
}
