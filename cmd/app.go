package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-studio/internal/ai/gemini"
	"github.com/spigell/resume-studio/internal/analysis"
	"github.com/spigell/resume-studio/internal/document"
	"github.com/spigell/resume-studio/internal/extract"
	"github.com/spigell/resume-studio/internal/jobs"
	"github.com/spigell/resume-studio/internal/logger"
	"github.com/spigell/resume-studio/internal/secrets"
	"github.com/spigell/resume-studio/internal/storage"
)

// services holds the collaborators shared by the commands.
type services struct {
	config *Config
	logger *zap.Logger

	db    *sql.DB
	stats *storage.Stats

	extractor analysis.Extractor
	builder   *document.Builder

	// analyzerFactory replaces the configured AI analyzer when set.
	analyzerFactory func(ctx context.Context) (analysis.Analyzer, string, error)
}

func newServices() (*services, error) {
	log, err := logger.New(logger.Options{
		JSON:  viper.GetBool("json"),
		Debug: viper.GetBool("debug"),
		File:  viper.GetString("log-file"),
	})
	if err != nil {
		return nil, fmt.Errorf("creating a logger: %w", err)
	}

	config, err := getConfig()
	if err != nil {
		return nil, fmt.Errorf("getting a config: %w", err)
	}

	extractor := extract.New(log.Named("extract"))
	if config.Upload.MaxBytes > 0 {
		extractor.MaxBytes = config.Upload.MaxBytes
	}

	return &services{
		config:    config,
		logger:    log,
		extractor: extractor,
		builder:   document.NewBuilder(document.NewChromedpRenderer(config.Document.ChromePath), log.Named("document")),
	}, nil
}

// openStats opens the stats database. Persistence is best-effort, so callers
// that only record stats may continue without it.
func (s *services) openStats() (*storage.Stats, error) {
	if s.stats != nil {
		return s.stats, nil
	}

	db, err := storage.Init(s.config.Storage.Dir)
	if err != nil {
		return nil, err
	}

	s.db = db
	s.stats = storage.NewStats(db)
	return s.stats, nil
}

func (s *services) close() {
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Warn("closing stats database", zap.Error(err))
		}
	}
	_ = s.logger.Sync()
}

// newAnalyzer builds the AI analyzer for the configured provider.
func (s *services) newAnalyzer(ctx context.Context) (*gemini.Analyzer, string, error) {
	cfg := s.config.AI
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, "", fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.Gemini.APIKey,
		File:  cfg.Gemini.APIKeyFile,
		Env:   []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"},
	})
	if err != nil {
		return nil, "", fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY)", err)
	}

	genLogger := logger.WithCommonFields(s.logger, "gemini", cfg.Gemini.Model).With(
		zap.Int("ai_max_retries", cfg.Gemini.MaxRetries),
	)

	generator, err := gemini.NewGenerator(ctx, gemini.Options{
		APIKey:     apiKey,
		Model:      cfg.Gemini.Model,
		MaxRetries: cfg.Gemini.MaxRetries,
		Logger:     genLogger,
	})
	if err != nil {
		return nil, "", err
	}

	analyzerLogger := logger.WithCommonFields(s.logger, "gemini", generator.Model())

	return gemini.NewAnalyzer(generator, analyzerLogger, cfg.Gemini.MaxLogLength), generator.Model(), nil
}

func (s *services) analyzer(ctx context.Context) (analysis.Analyzer, string, error) {
	if s.analyzerFactory != nil {
		return s.analyzerFactory(ctx)
	}

	analyzer, model, err := s.newAnalyzer(ctx)
	if err != nil {
		return nil, "", err
	}
	return analyzer, model, nil
}

// newOrchestrator wires the analysis pipeline. A stats database that cannot
// be opened only disables persistence.
func (s *services) newOrchestrator(ctx context.Context, sessionID string, progress analysis.ProgressFunc) (*analysis.Orchestrator, error) {
	analyzer, model, err := s.analyzer(ctx)
	if err != nil {
		return nil, err
	}

	deps := analysis.Deps{
		Extractor: s.extractor,
		Analyzer:  analyzer,
		Logger:    logger.WithSession(s.logger, sessionID),
	}

	stats, err := s.openStats()
	if err != nil {
		s.logger.Warn("analysis stats will not be persisted", zap.Error(err))
	} else {
		deps.Persistence = stats
	}

	return analysis.NewOrchestrator(deps, analysis.Config{
		Timeout:  s.config.AI.Timeout,
		Model:    model,
		Progress: progress,
	}), nil
}

// openArtifact opens a resume file for upload. The MIME type is sniffed from
// the content with the extension as a tiebreaker.
func openArtifact(path string) (*analysis.Artifact, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open resume: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat resume: %w", err)
	}

	head := make([]byte, 512)
	n, _ := f.Read(head)
	if _, err := f.Seek(0, 0); err != nil {
		f.Close()
		return nil, fmt.Errorf("rewind resume: %w", err)
	}

	return &analysis.Artifact{
		Name:     filepath.Base(path),
		MIMEType: extract.DetectMIME(path, head[:n]),
		Size:     info.Size(),
		Body:     f,
	}, nil
}

func (s *services) newJobSearch() *jobs.Client {
	return jobs.New(s.logger.Named("jobs"), s.config.Jobs.APIURL, s.config.Jobs.Token)
}

func writeFile(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return path, nil
}
