package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/resume-studio/internal/logger"
)

// State is a pipeline state. Complete and Failed are terminal.
type State string

const (
	StateIdle       State = "idle"
	StateExtracting State = "extracting"
	StateAnalyzing  State = "analyzing"
	StatePersisting State = "persisting"
	StateComplete   State = "complete"
	StateFailed     State = "failed"
)

const defaultTimeout = 2 * time.Minute

// ProgressFunc receives the pipeline progress in [0,100] for UI feedback.
type ProgressFunc func(state State, progress int)

// Request describes a single submit action.
type Request struct {
	Artifact       *Artifact
	Role           string
	UseCustomJob   bool
	JobDescription string
}

// jobDescription returns the description to pass to the analyzer. A toggled
// but empty description behaves as if none was supplied.
func (r Request) jobDescription() string {
	if !r.UseCustomJob {
		return ""
	}
	return strings.TrimSpace(r.JobDescription)
}

// Outcome is the terminal result of a run.
type Outcome struct {
	State    State
	Result   *Result
	Err      error
	Stages   []State
	Progress []int
}

// Message is the user-visible failure text, empty on success.
func (o *Outcome) Message() string {
	if o == nil || o.Err == nil {
		return ""
	}
	return o.Err.Error()
}

// Deps aggregates the collaborators used by the pipeline.
type Deps struct {
	Extractor   Extractor
	Analyzer    Analyzer
	Persistence Persistence
	Logger      *zap.Logger
}

// Config tunes the pipeline.
type Config struct {
	// Timeout bounds the analyzer call. Zero uses the default.
	Timeout time.Duration
	// Model is recorded with the persisted stats when the result does not
	// carry one.
	Model    string
	Progress ProgressFunc
}

// Orchestrator drives extract -> analyze -> persist -> complete. Runs are
// serialized: a submission while another run is active is rejected.
type Orchestrator struct {
	deps     Deps
	timeout  time.Duration
	model    string
	progress ProgressFunc
	logger   *zap.Logger
	now      func() time.Time

	running atomic.Bool
}

// NewOrchestrator wires the collaborators into a pipeline.
func NewOrchestrator(deps Deps, cfg Config) *Orchestrator {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Orchestrator{
		deps:     deps,
		timeout:  timeout,
		model:    strings.TrimSpace(cfg.Model),
		progress: cfg.Progress,
		logger:   logger.WithFields(deps.Logger),
		now:      time.Now,
	}
}

// run tracks a single pipeline pass.
type run struct {
	req      Request
	outcome  *Outcome
	text     string
	result   *Result
	progress int
}

type stage struct {
	state    State
	progress int
	exec     func(ctx context.Context, r *run) error
}

// Run executes one pipeline pass and writes its outcome to store. On failure
// the store's previous result is left untouched.
func (o *Orchestrator) Run(ctx context.Context, store Store, req Request) *Outcome {
	if !o.running.CompareAndSwap(false, true) {
		req.Artifact.release()
		o.logger.Warn("rejecting re-entrant analysis submission")
		return &Outcome{State: StateFailed, Err: ErrRunInProgress}
	}
	defer o.running.Store(false)

	r := &run{req: req, outcome: &Outcome{State: StateIdle}}
	defer req.Artifact.release()

	if err := req.Validate(); err != nil {
		return o.fail(store, r, err)
	}

	stages := []stage{
		{state: StateExtracting, progress: 20, exec: o.extract},
		{state: StateAnalyzing, progress: 40, exec: o.analyze},
		{state: StatePersisting, progress: 80, exec: o.persist},
	}

	for _, st := range stages {
		o.enter(r, st.state, st.progress)

		if err := st.exec(ctx, r); err != nil {
			return o.fail(store, r, err)
		}
	}

	if r.result.IsError() {
		// Unreachable through analyze, kept as a hard invariant.
		return o.fail(store, r, &AnalysisError{Message: "analysis returned an error result"})
	}

	o.enter(r, StateComplete, 100)
	r.outcome.Result = r.result

	if store != nil {
		store.SetResult(r.result)
		store.RecordScore(r.result.ResumeScore)
	}

	o.logger.Info("analysis complete",
		zap.String("role", req.Role),
		zap.Float64("resume_score", r.result.ResumeScore),
	)

	return r.outcome
}

// Validate reports why the pipeline would reject the request before
// extraction.
func (r Request) Validate() error {
	if r.Artifact == nil || r.Artifact.Body == nil {
		return ErrMissingArtifact
	}
	if strings.TrimSpace(r.Role) == "" {
		return ErrMissingRole
	}
	if !SupportedMIME(r.Artifact.MIMEType) {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, r.Artifact.MIMEType)
	}
	return nil
}

func (o *Orchestrator) extract(ctx context.Context, r *run) error {
	if o.deps.Extractor == nil {
		return &ExtractionError{Reason: "no extractor configured"}
	}

	text, err := o.deps.Extractor.Extract(ctx, r.req.Artifact)
	r.req.Artifact.release()
	if err != nil {
		var extErr *ExtractionError
		if errors.As(err, &extErr) {
			return extErr
		}
		return &ExtractionError{Reason: err.Error(), Err: err}
	}

	if strings.TrimSpace(text) == "" {
		return &ExtractionError{Reason: "no text could be extracted from the document"}
	}

	r.text = text
	return nil
}

type analyzeReply struct {
	result *Result
	err    error
}

// analyze runs the analyzer as a task bounded by the configured timeout.
func (o *Orchestrator) analyze(ctx context.Context, r *run) error {
	if o.deps.Analyzer == nil {
		return &AnalysisError{Message: "no analyzer configured"}
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	input := AnalyzeInput{
		Text:           r.text,
		Role:           r.req.Role,
		JobDescription: r.req.jobDescription(),
	}

	replies := make(chan analyzeReply, 1)
	go func() {
		result, err := o.deps.Analyzer.Analyze(ctx, input)
		replies <- analyzeReply{result: result, err: err}
	}()

	var reply analyzeReply
	select {
	case <-ctx.Done():
		return o.interrupted(ctx.Err())
	case reply = <-replies:
	}

	if err := ctx.Err(); err != nil {
		return o.interrupted(err)
	}
	if reply.err != nil {
		var anErr *AnalysisError
		if errors.As(reply.err, &anErr) {
			return anErr
		}
		return &AnalysisError{Message: reply.err.Error(), Err: reply.err}
	}
	if reply.result == nil {
		return &AnalysisError{Message: "analyzer returned no result"}
	}
	if reply.result.IsError() {
		return &AnalysisError{Message: reply.result.Error}
	}

	r.result = reply.result
	return nil
}

func (o *Orchestrator) interrupted(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &AnalysisError{Message: fmt.Sprintf("analysis timed out after %s", o.timeout), Err: err}
	}
	return &AnalysisError{Message: "analysis cancelled", Err: err}
}

// persist records summary stats. Failures are logged and swallowed.
func (o *Orchestrator) persist(ctx context.Context, r *run) error {
	if o.deps.Persistence == nil {
		return nil
	}

	model := r.result.Model
	if model == "" {
		model = o.model
	}

	entry := StatsEntry{
		Score:     r.result.ResumeScore,
		Role:      r.req.Role,
		Model:     model,
		CreatedAt: o.now().UTC(),
	}

	if err := o.deps.Persistence.RecordStats(ctx, entry); err != nil {
		warning := &PersistenceWarning{Err: err}
		o.logger.Warn("analysis stats were not persisted", zap.Error(warning))
	}
	return nil
}

func (o *Orchestrator) enter(r *run, state State, progress int) {
	if progress < r.progress {
		progress = r.progress
	}
	r.progress = progress
	r.outcome.State = state
	r.outcome.Stages = append(r.outcome.Stages, state)
	r.outcome.Progress = append(r.outcome.Progress, progress)

	o.logger.Debug("analysis stage", logger.StageFields(string(state), progress)...)

	if o.progress != nil {
		o.progress(state, progress)
	}
}

func (o *Orchestrator) fail(store Store, r *run, err error) *Outcome {
	r.outcome.State = StateFailed
	r.outcome.Err = err
	r.outcome.Result = nil

	if store != nil {
		store.SetFailure(err.Error())
	}

	o.logger.Warn("analysis failed",
		zap.String("role", r.req.Role),
		zap.Strings("stages", stateNames(r.outcome.Stages)),
		zap.Error(err),
	)

	return r.outcome
}

func stateNames(states []State) []string {
	names := make([]string, 0, len(states))
	for _, s := range states {
		names = append(names, string(s))
	}
	return names
}
