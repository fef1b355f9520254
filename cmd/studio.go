package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resume-studio/internal/analysis"
	"github.com/spigell/resume-studio/internal/jobs"
	"github.com/spigell/resume-studio/internal/logger"
	"github.com/spigell/resume-studio/internal/present"
	"github.com/spigell/resume-studio/internal/profile"
	"github.com/spigell/resume-studio/internal/roles"
	"github.com/spigell/resume-studio/internal/session"
	"github.com/spigell/resume-studio/internal/storage"
)

const (
	PromptBack        = "back"
	PromptExit        = "Exit"
	PromptAdd         = "Add"
	PromptRemove      = "Remove"
	PromptAdminLogin  = "Admin login"
	PromptAdminLogout = "Admin logout"
	PromptCustomRole  = "Custom role"
)

var errExit = errors.New("exit requested")

var studioCmd = &cobra.Command{
	Use:   "studio",
	Short: "Start an interactive resume studio session",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		svc, err := newServices()
		if err != nil {
			return err
		}
		defer svc.close()

		s := newStudio(svc, promptUI{}, cmd.OutOrStdout())
		s.profilePath, _ = cmd.Flags().GetString("profile")
		s.outDir, _ = cmd.Flags().GetString("out")

		if s.profilePath != "" {
			if _, err := os.Stat(s.profilePath); err == nil {
				p, err := loadProfile(s.profilePath)
				if err != nil {
					return err
				}
				s.store.SetProfile(p)
			}
		}

		return s.run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(studioCmd)

	studioCmd.Flags().StringP("profile", "p", "", "profile json file to load at start and save to")
	studioCmd.Flags().StringP("out", "o", ".", "output directory for generated documents")
}

// prompter is the interactive input surface of the studio.
type prompter interface {
	Select(label string, items []string) (string, error)
	Input(label, def string) (string, error)
	Confirm(label string) (bool, error)
}

type promptUI struct{}

func (promptUI) Select(label string, items []string) (string, error) {
	p := promptui.Select{Label: label, Items: items, Size: 12}
	_, selected, err := p.Run()
	return selected, err
}

func (promptUI) Input(label, def string) (string, error) {
	p := promptui.Prompt{Label: label, Default: def, AllowEdit: true}
	return p.Run()
}

func (promptUI) Confirm(label string) (bool, error) {
	p := promptui.Prompt{Label: label, IsConfirm: true}
	if _, err := p.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// studio drives one interactive session over the session store.
type studio struct {
	svc    *services
	store  *session.Store
	prompt prompter
	out    io.Writer
	logger *zap.Logger

	profilePath string
	outDir      string

	// role and job match flag of the result held by the store
	resultRole     string
	resultJobMatch bool
}

func newStudio(svc *services, p prompter, out io.Writer) *studio {
	store := session.New()
	return &studio{
		svc:    svc,
		store:  store,
		prompt: p,
		out:    out,
		logger: logger.WithSession(svc.logger, store.ID()),
		outDir: ".",
	}
}

func (s *studio) run(ctx context.Context) error {
	s.logger.Info("starting the studio session", zap.String("version", version))

	for {
		err := s.page(ctx, s.store.Page())
		switch {
		case err == nil:
		case errors.Is(err, errExit), errors.Is(err, promptui.ErrInterrupt), errors.Is(err, promptui.ErrEOF):
			s.logger.Info("exiting", zap.String("reason", "studio closed"))
			return nil
		default:
			fmt.Fprintf(s.out, "Error: %v\n", err)
			s.store.Navigate(string(session.PageHome))
		}
	}
}

func (s *studio) page(ctx context.Context, page session.Page) error {
	switch page {
	case session.PageAnalyzer:
		return s.analyzerPage(ctx)
	case session.PageBuilder:
		return s.builderPage(ctx)
	case session.PageDashboard:
		return s.dashboardPage(ctx)
	case session.PageJobSearch:
		return s.jobSearchPage(ctx)
	case session.PageFeedback:
		return s.feedbackPage(ctx)
	case session.PageAbout:
		return s.aboutPage()
	default:
		return s.homePage()
	}
}

func (s *studio) homePage() error {
	items := make([]string, 0, len(session.Pages())+2)
	byTitle := make(map[string]session.Page)
	for _, p := range session.Pages() {
		if p == session.PageHome {
			continue
		}
		items = append(items, p.Title())
		byTitle[p.Title()] = p
	}

	if admin, _ := s.store.Admin(); admin {
		items = append(items, PromptAdminLogout)
	} else {
		items = append(items, PromptAdminLogin)
	}
	items = append(items, PromptExit)

	selected, err := s.prompt.Select("Where to?", items)
	if err != nil {
		return err
	}

	switch selected {
	case PromptExit:
		return errExit
	case PromptAdminLogin:
		return s.adminLogin()
	case PromptAdminLogout:
		s.store.ClearAdmin()
		fmt.Fprintln(s.out, "Signed out.")
		return nil
	}

	s.store.Navigate(string(byTitle[selected]))
	return nil
}

func (s *studio) adminLogin() error {
	email, err := s.prompt.Input("Admin email", "")
	if err != nil {
		return err
	}
	email = strings.TrimSpace(email)

	for _, allowed := range s.svc.config.Admin.Emails {
		if email != "" && strings.EqualFold(strings.TrimSpace(allowed), email) {
			s.store.SetAdmin(email)
			s.logger.Info("admin signed in", zap.String("admin", email))
			fmt.Fprintf(s.out, "Signed in as %s.\n", email)
			return nil
		}
	}

	s.logger.Warn("rejected admin sign in", zap.String("admin", email))
	fmt.Fprintln(s.out, "Invalid admin credentials.")
	return nil
}

func (s *studio) back() error {
	s.store.Navigate(string(session.PageHome))
	return nil
}

func (s *studio) selectRole(label string) (string, string, error) {
	category, err := s.prompt.Select(label+": category", append(roles.Categories(), PromptCustomRole))
	if err != nil {
		return "", "", err
	}

	if category == PromptCustomRole {
		role, err := s.prompt.Input("Role", "")
		return "", strings.TrimSpace(role), err
	}

	role, err := s.prompt.Select(label+": role", roles.Roles(category))
	if err != nil {
		return "", "", err
	}
	return category, role, nil
}

func (s *studio) analyzerPage(ctx context.Context) error {
	defer s.back()
	defer s.discardUpload()

	category, role, err := s.selectRole("Target")
	if err != nil {
		return err
	}
	s.store.SelectRole(category, role)

	path, err := s.prompt.Input("Resume file (.pdf or .docx)", "")
	if err != nil {
		return err
	}
	artifact, err := openArtifact(strings.TrimSpace(path))
	if err != nil {
		return err
	}
	s.store.SetUpload(artifact)

	useCustomJob, err := s.prompt.Confirm("Use a custom job description")
	if err != nil {
		return err
	}

	var jobDescription string
	if useCustomJob {
		jobDescription, err = s.readJobDescription()
		if err != nil {
			return err
		}
	}

	outcome, err := analyzeSession(ctx, s.svc, s.store, useCustomJob, jobDescription)
	if err != nil {
		return err
	}

	selection, _ := s.store.SelectedRole()
	if outcome.State == analysis.StateFailed {
		return s.renderFailure(selection.Role, failureMessage(s.store, outcome))
	}

	s.resultRole = selection.Role
	s.resultJobMatch = strings.TrimSpace(jobDescription) != ""
	result := s.store.Result()
	if err := present.RenderText(s.out, present.Present(result, s.resultRole, s.resultJobMatch)); err != nil {
		return err
	}

	download, err := s.prompt.Confirm("Download the analysis report")
	if err != nil || !download {
		return err
	}
	path, err = writeReport(ctx, s.svc, result, s.resultRole, storage.ReportsDir(s.svc.config.Storage.Dir))
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Report written to %s\n", path)
	return nil
}

// renderFailure shows the failure notice followed by the last successful
// result of the session, if any.
func (s *studio) renderFailure(role, message string) error {
	if err := present.RenderText(s.out, present.FailureView(role, message)); err != nil {
		return err
	}

	previous := s.store.Result()
	if previous == nil {
		return nil
	}
	fmt.Fprintln(s.out, "\nPrevious result")
	return present.RenderText(s.out, present.Present(previous, s.resultRole, s.resultJobMatch))
}

// discardUpload closes an upload that never reached a pipeline run.
func (s *studio) discardUpload() {
	if !s.store.HasUpload() {
		return
	}
	if err := s.store.TakeUpload().Close(); err != nil {
		s.logger.Warn("closing the discarded upload", zap.Error(err))
	}
}

// readJobDescription accepts either a path to a file or the text itself.
func (s *studio) readJobDescription() (string, error) {
	input, err := s.prompt.Input("Job description (text or file path)", "")
	if err != nil {
		return "", err
	}
	input = strings.TrimSpace(input)
	if info, statErr := os.Stat(input); statErr == nil && !info.IsDir() {
		data, err := os.ReadFile(input)
		if err != nil {
			return "", fmt.Errorf("read job description: %w", err)
		}
		return string(data), nil
	}
	return input, nil
}

func (s *studio) dashboardPage(ctx context.Context) error {
	defer s.back()

	local := s.store.Stats()
	fmt.Fprintf(s.out, "This session: %d analyses, average score %.1f\n", local.TotalAnalyses, local.AverageScore)

	admin, _ := s.store.Admin()
	if !admin {
		fmt.Fprintln(s.out, "Sign in as admin to see all recorded analyses.")
		return nil
	}

	stats, err := s.svc.openStats()
	if err != nil {
		return err
	}

	summary, err := stats.Summary(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out)
	if err := renderSummary(s.out, summary); err != nil {
		return err
	}

	feedback, err := stats.FeedbackSummary(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "\nFeedback: %d entries, average rating %.1f\n", feedback.Count, feedback.AverageRating)
	return nil
}

func (s *studio) jobSearchPage(ctx context.Context) error {
	defer s.back()

	category, roleName, err := s.selectRole("Explore")
	if err != nil {
		return err
	}
	s.store.SelectRole(category, roleName)

	role, err := roles.Lookup(category, roleName)
	if err != nil {
		fmt.Fprintf(s.out, "%s is not in the catalog.\n", roleName)
		return s.searchOpenings(ctx, roleName)
	}

	fmt.Fprintf(s.out, "%s\n%s\n\nRequired skills: %s\n", role.Name, role.Description, strings.Join(role.RequiredSkills, ", "))

	if courses := roles.CoursesFor(role.Name); len(courses) > 0 {
		fmt.Fprintln(s.out, "\nRecommended courses")
		for _, c := range courses {
			fmt.Fprintf(s.out, "  • %s (%s)\n", c.Title, c.URL)
		}
	}

	if missing := missingSkills(s.store.Profile().Skills, role.RequiredSkills); len(missing) > 0 {
		fmt.Fprintf(s.out, "\nNot yet in your profile: %s\n", strings.Join(missing, ", "))
	}
	return s.searchOpenings(ctx, role.Name)
}

// searchOpenings lists live vacancies for role. Lookup failures are shown
// and do not leave the page in an error state.
func (s *studio) searchOpenings(ctx context.Context, role string) error {
	search, err := s.prompt.Confirm("Search live openings for " + role)
	if err != nil || !search {
		return err
	}

	cfg := s.svc.config.Jobs
	vacancies, err := s.svc.newJobSearch().Search(ctx, jobs.SearchParams{
		Text:    role,
		Areas:   cfg.Areas,
		OrderBy: "publication_time",
	}, cfg.Limit)
	if err != nil {
		s.logger.Warn("vacancy search failed", zap.String("role", role), zap.Error(err))
		fmt.Fprintf(s.out, "Could not search openings: %v\n", err)
		return nil
	}

	if vacancies.Len() == 0 {
		fmt.Fprintln(s.out, "No open positions found.")
		return nil
	}

	fmt.Fprintf(s.out, "\nShowing %d of %d openings\n", vacancies.Len(), vacancies.Found)
	report := vacancies.ReportByEmployer()
	employers := make([]string, 0, len(report))
	for employer := range report {
		employers = append(employers, employer)
	}
	sort.Strings(employers)

	for _, employer := range employers {
		fmt.Fprintf(s.out, "%s\n", employer)
		for _, v := range report[employer] {
			fmt.Fprintf(s.out, "  • %s, %s, salary %s\n", v["name"], v["area"], v["salary"])
			if v["requirement"] != "" {
				fmt.Fprintf(s.out, "    %s\n", v["requirement"])
			}
			if v["url"] != "" {
				fmt.Fprintf(s.out, "    %s\n", v["url"])
			}
		}
	}
	return nil
}

func missingSkills(have profile.Skills, required []string) []string {
	known := make(map[string]bool)
	for _, list := range [][]string{have.Technical, have.Soft, have.Languages, have.Tools} {
		for _, skill := range list {
			known[strings.ToLower(skill)] = true
		}
	}

	var missing []string
	for _, skill := range required {
		if !known[strings.ToLower(skill)] {
			missing = append(missing, skill)
		}
	}
	return missing
}

func (s *studio) feedbackPage(ctx context.Context) error {
	defer s.back()

	rating, err := s.prompt.Select("How would you rate resume-studio?", []string{"5", "4", "3", "2", "1"})
	if err != nil {
		return err
	}
	comment, err := s.prompt.Input("Comments", "")
	if err != nil {
		return err
	}

	value, err := strconv.Atoi(rating)
	if err != nil {
		return fmt.Errorf("invalid rating %q: %w", rating, err)
	}

	stats, err := s.svc.openStats()
	if err != nil {
		return err
	}
	if err := stats.RecordFeedback(ctx, storage.Feedback{Rating: value, Comment: comment, Page: string(session.PageFeedback)}); err != nil {
		return err
	}

	fmt.Fprintln(s.out, "Thanks for the feedback!")
	return nil
}

func (s *studio) aboutPage() error {
	defer s.back()

	printVersion(s.out)
	fmt.Fprintln(s.out, "Analyze resumes against target roles with AI and build resume documents.")
	return nil
}
