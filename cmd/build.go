package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resume-studio/internal/document"
	"github.com/spigell/resume-studio/internal/profile"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a resume PDF from a profile json file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runBuild(cmd)
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringP("profile", "p", "", "profile json file")
	buildCmd.Flags().StringP("out", "o", ".", "output directory")

	buildCmd.MarkFlagRequired("profile")
}

func runBuild(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	svc, err := newServices()
	if err != nil {
		return err
	}
	defer svc.close()

	path, _ := cmd.Flags().GetString("profile")
	out, _ := cmd.Flags().GetString("out")

	p, err := loadProfile(path)
	if err != nil {
		return err
	}

	written, err := buildResume(ctx, svc, p, out)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Resume written to %s\n", written)
	return nil
}

func loadProfile(path string) (*profile.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}

	var snapshot profile.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", path, err)
	}
	return profile.FromSnapshot(snapshot), nil
}

func saveProfile(path string, p *profile.Profile) error {
	data, err := json.MarshalIndent(p.Snapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}
	return nil
}

// buildResume validates and renders p into dir. Validation failures are
// returned before any rendering starts.
func buildResume(ctx context.Context, svc *services, p *profile.Profile, dir string) (string, error) {
	data, err := svc.builder.Build(ctx, p)
	if err != nil {
		return "", err
	}

	written, err := writeFile(dir, document.ResumeFileName(p.PersonalInfo.FullName), data)
	if err != nil {
		return "", err
	}

	svc.logger.Info("resume written", zap.String("filename", written))
	return written, nil
}
