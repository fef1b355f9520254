package analysis

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrRunInProgress     = errors.New("analysis already in progress")
	ErrMissingArtifact   = errors.New("no resume uploaded")
	ErrMissingRole       = errors.New("no job role selected")
)

// ExtractionError reports an unreadable, corrupt or unsupported artifact.
type ExtractionError struct {
	Reason string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil && e.Reason == "" {
		return fmt.Sprintf("extraction failed: %v", e.Err)
	}
	return fmt.Sprintf("extraction failed: %s", e.Reason)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// AnalysisError reports a backend or model failure, including quota and
// auth issues and error markers embedded in a response.
type AnalysisError struct {
	Message string
	Err     error
}

func (e *AnalysisError) Error() string {
	if e.Err != nil && e.Message == "" {
		return fmt.Sprintf("analysis failed: %v", e.Err)
	}
	return fmt.Sprintf("analysis failed: %s", e.Message)
}

func (e *AnalysisError) Unwrap() error { return e.Err }

// PersistenceWarning wraps a failed stats write. It is logged, never returned
// as a run failure.
type PersistenceWarning struct {
	Err error
}

func (w *PersistenceWarning) Error() string {
	return fmt.Sprintf("persisting analysis stats: %v", w.Err)
}

func (w *PersistenceWarning) Unwrap() error { return w.Err }
