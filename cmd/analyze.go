package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resume-studio/internal/analysis"
	"github.com/spigell/resume-studio/internal/document"
	"github.com/spigell/resume-studio/internal/logger"
	"github.com/spigell/resume-studio/internal/present"
	"github.com/spigell/resume-studio/internal/roles"
	"github.com/spigell/resume-studio/internal/session"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a PDF or DOCX resume against a target job role",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runAnalyze(cmd)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringP("file", "f", "", "resume file (.pdf or .docx)")
	analyzeCmd.Flags().StringP("role", "r", "", "target job role")
	analyzeCmd.Flags().StringP("category", "c", "", "job category of the role (looked up when empty)")
	analyzeCmd.Flags().String("job-description-file", "", "file with a custom job description")
	analyzeCmd.Flags().String("report", "", "directory to write the analysis report PDF to")
	analyzeCmd.Flags().Bool("output-json", false, "print the result as json instead of text")

	analyzeCmd.MarkFlagRequired("file")
	analyzeCmd.MarkFlagRequired("role")
}

func runAnalyze(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	svc, err := newServices()
	if err != nil {
		return err
	}
	defer svc.close()

	file, _ := cmd.Flags().GetString("file")
	roleName, _ := cmd.Flags().GetString("role")
	category, _ := cmd.Flags().GetString("category")
	jobFile, _ := cmd.Flags().GetString("job-description-file")

	role, category, err := resolveRole(category, roleName)
	if err != nil {
		return err
	}

	var jobDescription string
	if jobFile != "" {
		data, err := os.ReadFile(jobFile)
		if err != nil {
			return fmt.Errorf("read job description: %w", err)
		}
		jobDescription = string(data)
	}

	store := session.New()
	store.Navigate(string(session.PageAnalyzer))
	store.SelectRole(category, role)

	artifact, err := openArtifact(file)
	if err != nil {
		return err
	}
	store.SetUpload(artifact)

	svc.logger.Info("starting the resume analysis",
		zap.String("version", version),
		zap.String("session_id", store.ID()),
		zap.String("file", artifact.Name),
		zap.String("role", role),
	)

	outcome, err := analyzeSession(ctx, svc, store, jobFile != "", jobDescription)
	if err != nil {
		return err
	}

	var view present.View
	if outcome.State == analysis.StateFailed {
		view = present.FailureView(role, failureMessage(store, outcome))
	} else {
		view = present.Present(store.Result(), role, strings.TrimSpace(jobDescription) != "")
	}

	if asJSON, _ := cmd.Flags().GetBool("output-json"); asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(view); err != nil {
			return err
		}
	} else if err := present.RenderText(cmd.OutOrStdout(), view); err != nil {
		return err
	}

	if outcome.State == analysis.StateFailed {
		return outcome.Err
	}

	if reportDir, _ := cmd.Flags().GetString("report"); reportDir != "" {
		path, err := writeReport(ctx, svc, store.Result(), role, reportDir)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)
	}
	return nil
}

// analyzeSession runs the pending upload of store through the pipeline.
func analyzeSession(ctx context.Context, svc *services, store *session.Store, useCustomJob bool, jobDescription string) (*analysis.Outcome, error) {
	selection, ok := store.SelectedRole()
	if !ok {
		return nil, analysis.ErrMissingRole
	}

	req := analysis.Request{
		Artifact:       store.TakeUpload(),
		Role:           selection.Role,
		UseCustomJob:   useCustomJob,
		JobDescription: jobDescription,
	}

	// A request the pipeline rejects up front never needs an analyzer.
	if err := req.Validate(); err != nil {
		rejecting := analysis.NewOrchestrator(analysis.Deps{Logger: logger.WithSession(svc.logger, store.ID())}, analysis.Config{})
		return rejecting.Run(ctx, store, req), nil
	}

	orchestrator, err := svc.newOrchestrator(ctx, store.ID(), func(state analysis.State, progress int) {
		svc.logger.Info("analysis progress", zap.String("stage", string(state)), zap.Int("progress", progress))
	})
	if err != nil {
		_ = req.Artifact.Close()
		return nil, err
	}

	return orchestrator.Run(ctx, store, req), nil
}

// failureMessage returns the notice the run recorded in the store. A
// rejected re-entrant run leaves the store untouched.
func failureMessage(store *session.Store, outcome *analysis.Outcome) string {
	if errors.Is(outcome.Err, analysis.ErrRunInProgress) {
		return outcome.Message()
	}
	return store.Failure()
}

func writeReport(ctx context.Context, svc *services, result *analysis.Result, role, dir string) (string, error) {
	data, err := svc.builder.Report(ctx, result, role)
	if err != nil {
		return "", err
	}

	path, err := writeFile(dir, document.ReportFileName(time.Now()), data)
	if err != nil {
		return "", err
	}
	svc.logger.Info("analysis report written", zap.String("filename", path))
	return path, nil
}

// resolveRole matches role against the catalog. Roles outside the catalog are
// accepted as free text.
func resolveRole(category, role string) (string, string, error) {
	role = strings.TrimSpace(role)
	if role == "" {
		return "", "", analysis.ErrMissingRole
	}

	if strings.TrimSpace(category) != "" {
		found, err := roles.Lookup(category, role)
		if err != nil {
			return "", "", err
		}
		return found.Name, strings.TrimSpace(category), nil
	}

	found, foundCategory, err := roles.Find(role)
	if errors.Is(err, roles.ErrUnknownRole) {
		return role, "", nil
	}
	if err != nil {
		return "", "", err
	}
	return found.Name, foundCategory, nil
}
