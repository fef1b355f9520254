package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/manifoldco/promptui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spigell/resume-studio/internal/analysis"
	"github.com/spigell/resume-studio/internal/document"
	"github.com/spigell/resume-studio/internal/extract"
	"github.com/spigell/resume-studio/internal/profile"
	"github.com/spigell/resume-studio/internal/session"
	"github.com/spigell/resume-studio/internal/storage"
)

type fakeRenderer struct {
	calls int
}

func (r *fakeRenderer) RenderHTMLToPDF(_ context.Context, _ string) ([]byte, error) {
	r.calls++
	return []byte("%PDF-1.7 fake"), nil
}

type stubExtractor struct {
	text string
}

func (e stubExtractor) Extract(_ context.Context, _ *analysis.Artifact) (string, error) {
	return e.text, nil
}

type analyzerReply struct {
	result *analysis.Result
	err    error
}

// stubAnalyzer answers analyses in order from replies.
type stubAnalyzer struct {
	replies []analyzerReply
	inputs  []analysis.AnalyzeInput
}

func (a *stubAnalyzer) Analyze(_ context.Context, input analysis.AnalyzeInput) (*analysis.Result, error) {
	a.inputs = append(a.inputs, input)
	if len(a.replies) == 0 {
		return nil, errors.New("no reply queued")
	}
	reply := a.replies[0]
	a.replies = a.replies[1:]
	return reply.result, reply.err
}

func withAnalyzer(svc *services, an analysis.Analyzer) {
	svc.extractor = stubExtractor{text: "Go developer with five years of experience"}
	svc.analyzerFactory = func(context.Context) (analysis.Analyzer, string, error) {
		return an, "gemini-test", nil
	}
}

func writeResumeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func floatPtr(v float64) *float64 { return &v }

// scriptedPrompt answers prompts from a fixed script. Running out of answers
// behaves like closing stdin.
type scriptedPrompt struct {
	t       *testing.T
	answers []any
}

func (p *scriptedPrompt) next(label string) any {
	p.t.Helper()
	if len(p.answers) == 0 {
		return promptui.ErrEOF
	}
	answer := p.answers[0]
	p.answers = p.answers[1:]
	return answer
}

func (p *scriptedPrompt) Select(label string, items []string) (string, error) {
	p.t.Helper()
	switch answer := p.next(label).(type) {
	case error:
		return "", answer
	case string:
		if !slices.Contains(items, answer) {
			p.t.Fatalf("%q is not offered by %q: %v", answer, label, items)
		}
		return answer, nil
	default:
		p.t.Fatalf("unexpected answer %v for select %q", answer, label)
		return "", nil
	}
}

func (p *scriptedPrompt) Input(label, _ string) (string, error) {
	p.t.Helper()
	switch answer := p.next(label).(type) {
	case error:
		return "", answer
	case string:
		return answer, nil
	default:
		p.t.Fatalf("unexpected answer %v for input %q", answer, label)
		return "", nil
	}
}

func (p *scriptedPrompt) Confirm(label string) (bool, error) {
	p.t.Helper()
	switch answer := p.next(label).(type) {
	case error:
		return false, answer
	case bool:
		return answer, nil
	default:
		p.t.Fatalf("unexpected answer %v for confirm %q", answer, label)
		return false, nil
	}
}

func newTestServices(t *testing.T, renderer document.Renderer) *services {
	t.Helper()

	svc := &services{
		config: &Config{
			AI:       &AIConfig{Gemini: &GeminiConfig{}},
			Storage:  &StorageConfig{Dir: t.TempDir()},
			Upload:   &UploadConfig{},
			Document: &DocumentConfig{},
			Admin:    &AdminConfig{Emails: []string{"boss@example.com"}},
			Jobs:     &JobsConfig{},
		},
		logger:    zap.NewNop(),
		extractor: extract.New(zap.NewNop()),
		builder:   document.NewBuilder(renderer, zap.NewNop()),
	}
	t.Cleanup(svc.close)
	return svc
}

func runStudio(t *testing.T, svc *services, answers ...any) (*studio, string) {
	t.Helper()

	var out bytes.Buffer
	s := newStudio(svc, &scriptedPrompt{t: t, answers: answers}, &out)
	s.outDir = t.TempDir()

	require.NoError(t, s.run(context.Background()))
	return s, out.String()
}

func TestStudioBuildsResume(t *testing.T) {
	renderer := &fakeRenderer{}
	svc := newTestServices(t, renderer)

	s, out := runStudio(t, svc,
		"Builder",
		builderPersonalInfo, "Ada Lovelace", "ada@example.com", "", "London", "", "",
		builderProjects, PromptAdd, "Engine", "Go", "Analytical engine", "", "", "",
		PromptBack,
		builderSkills, "Go; SQL ;", "", "English", "",
		builderGenerate,
		PromptBack,
		PromptExit,
	)

	p := s.store.Profile()
	assert.Equal(t, "Ada Lovelace", p.PersonalInfo.FullName)
	assert.Equal(t, "London", p.PersonalInfo.Location)
	assert.Equal(t, []string{"Go", "SQL"}, p.Skills.Technical)
	assert.Empty(t, p.Skills.Soft)
	require.Equal(t, 1, p.Projects.Len())
	assert.Equal(t, "Engine", p.Projects.Values()[0].Name)

	assert.Equal(t, 1, renderer.calls)
	assert.FileExists(t, filepath.Join(s.outDir, "Ada_Lovelace_resume.pdf"))
	assert.Contains(t, out, "Resume written to")
	assert.Equal(t, session.PageHome, s.store.Page())
}

func TestStudioRemovesEntry(t *testing.T) {
	svc := newTestServices(t, &fakeRenderer{})

	s, _ := runStudio(t, svc,
		"Builder",
		builderExperience,
		PromptAdd, "Engineer", "Acme", "", "Jan 2020", true, "Built things",
		PromptAdd, "Lead", "Beta", "", "Mar 2018", false, "Dec 2019", "",
		PromptRemove, "1. Engineer at Acme",
		PromptBack,
		PromptBack,
		PromptExit,
	)

	values := s.store.Profile().Experiences.Values()
	require.Len(t, values, 1)
	assert.Equal(t, "Lead", values[0].Title)
	assert.Equal(t, "Dec 2019", values[0].EndDate)
}

func TestStudioGenerateRequiresPersonalInfo(t *testing.T) {
	renderer := &fakeRenderer{}
	svc := newTestServices(t, renderer)

	_, out := runStudio(t, svc, "Builder", builderGenerate, PromptBack, PromptExit)

	assert.Zero(t, renderer.calls)
	assert.Contains(t, out, "please fill in required fields: full_name, email")
}

func TestStudioSavesProfile(t *testing.T) {
	svc := newTestServices(t, &fakeRenderer{})
	path := filepath.Join(t.TempDir(), "me.json")

	runStudio(t, svc,
		"Builder",
		builderSummary, "Builds engines",
		builderSave, path,
		PromptBack,
		PromptExit,
	)

	loaded, err := loadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, "Builds engines", loaded.Summary)
}

func TestStudioAdminDashboard(t *testing.T) {
	svc := newTestServices(t, &fakeRenderer{})

	s, out := runStudio(t, svc,
		"Dashboard",
		PromptAdminLogin, "intruder@example.com",
		PromptAdminLogin, " BOSS@example.com ",
		"Dashboard",
		PromptExit,
	)

	admin, email := s.store.Admin()
	assert.True(t, admin)
	assert.Equal(t, "BOSS@example.com", email)

	assert.Contains(t, out, "Sign in as admin")
	assert.Contains(t, out, "Invalid admin credentials.")
	assert.Contains(t, out, "Total analyses: 0")
	assert.Contains(t, out, "Feedback: 0 entries")
}

func TestStudioFeedback(t *testing.T) {
	svc := newTestServices(t, &fakeRenderer{})

	_, out := runStudio(t, svc, "Feedback", "4", "Handy", PromptExit)
	assert.Contains(t, out, "Thanks for the feedback!")

	stats, err := svc.openStats()
	require.NoError(t, err)
	summary, err := stats.FeedbackSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Count)
	assert.Equal(t, 4.0, summary.AverageRating)
}

func TestStudioJobSearch(t *testing.T) {
	svc := newTestServices(t, &fakeRenderer{})

	s, out := runStudio(t, svc,
		"Job Search", "Software Development and Engineering", "Backend Developer", false,
		PromptExit,
	)

	assert.Contains(t, out, "Backend Developer")
	assert.Contains(t, out, "Required skills: Go, Python")
	assert.Contains(t, out, "Not yet in your profile: Go")

	selection, ok := s.store.SelectedRole()
	require.True(t, ok)
	assert.Equal(t, "Backend Developer", selection.Role)
}

func TestStudioJobSearchListsOpenings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Chef", r.URL.Query().Get("text"))
		fmt.Fprint(w, `{"found": 7, "pages": 1, "page": 0, "items": [
			{"id": "1", "name": "Sous Chef", "area": {"name": "Lisbon"}, "employer": {"id": "9", "name": "Bistro"},
			 "salary": {"from": 1200, "currency": "EUR"}, "alternate_url": "https://hh.ru/vacancy/1"}
		]}`)
	}))
	defer srv.Close()

	svc := newTestServices(t, &fakeRenderer{})
	svc.config.Jobs.APIURL = srv.URL

	_, out := runStudio(t, svc, "Job Search", PromptCustomRole, "Chef", true, PromptExit)

	assert.Contains(t, out, "Chef is not in the catalog.")
	assert.Contains(t, out, "Showing 1 of 7 openings")
	assert.Contains(t, out, "Bistro (9)")
	assert.Contains(t, out, "Sous Chef, Lisbon, salary from 1200 EUR")
	assert.Contains(t, out, "https://hh.ru/vacancy/1")
}

func TestStudioAnalyzerReportsMissingFile(t *testing.T) {
	svc := newTestServices(t, &fakeRenderer{})

	s, out := runStudio(t, svc,
		"Analyzer", PromptCustomRole, "Chef", filepath.Join(t.TempDir(), "missing.pdf"),
		PromptExit,
	)

	assert.Contains(t, out, "Error: open resume")
	assert.False(t, s.store.HasUpload())
}

func TestStudioAnalyzerWithoutAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")

	resume := filepath.Join(t.TempDir(), "cv.pdf")
	require.NoError(t, os.WriteFile(resume, []byte("%PDF-1.4\n"), 0o644))

	svc := newTestServices(t, &fakeRenderer{})
	s, out := runStudio(t, svc,
		"Analyzer", "Software Development and Engineering", "Backend Developer", resume, false,
		PromptExit,
	)

	assert.Contains(t, out, "gemini api key is not configured")
	assert.False(t, s.store.HasUpload())
	assert.Nil(t, s.store.Result())
}

func TestStudioStopsOnInterrupt(t *testing.T) {
	svc := newTestServices(t, &fakeRenderer{})

	_, out := runStudio(t, svc, "Builder", promptui.ErrInterrupt)
	assert.NotContains(t, out, "Error:")
}

func TestStudioAbout(t *testing.T) {
	svc := newTestServices(t, &fakeRenderer{})

	_, out := runStudio(t, svc, "About", PromptExit)
	assert.Contains(t, out, app+" version: "+version)
}

func TestMissingSkills(t *testing.T) {
	have := profile.Skills{Technical: []string{"go", "Docker"}, Tools: []string{"SQL"}}

	got := missingSkills(have, []string{"Go", "Python", "SQL", "Docker", "REST"})
	assert.Equal(t, []string{"Python", "REST"}, got)
}

func TestSaveAndLoadProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	p := profile.New()
	p.PersonalInfo.FullName = "Grace Hopper"
	require.NoError(t, saveProfile(path, p))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"full_name": "Grace Hopper"`)

	loaded, err := loadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, "Grace Hopper", loaded.PersonalInfo.FullName)
}

func TestStudioAnalyzerPresentsResultAndReport(t *testing.T) {
	renderer := &fakeRenderer{}
	svc := newTestServices(t, renderer)
	an := &stubAnalyzer{replies: []analyzerReply{{result: &analysis.Result{
		ResumeScore:   82,
		ATSScore:      floatPtr(74),
		JobMatchScore: floatPtr(68),
		Strengths:     []string{"Clear impact statements"},
		Suggestions:   []string{"Add metrics"},
		Analysis:      "## Overall Assessment\nSolid backend profile.",
	}}}}
	withAnalyzer(svc, an)

	resume := writeResumeFile(t, "cv.pdf", "%PDF-1.4\n")
	s, out := runStudio(t, svc,
		"Analyzer", "Software Development and Engineering", "Backend Developer", resume,
		true, "Build Go services",
		true,
		PromptExit,
	)

	require.Len(t, an.inputs, 1)
	assert.Equal(t, "Backend Developer", an.inputs[0].Role)
	assert.Equal(t, "Build Go services", an.inputs[0].JobDescription)

	assert.Contains(t, out, "Role: Backend Developer")
	assert.Contains(t, out, "Resume Score")
	assert.Contains(t, out, "Job Match Score")
	assert.Contains(t, out, "Add metrics")
	assert.Contains(t, out, "Report written to")
	assert.NotContains(t, out, "Analysis failed")

	reports, err := os.ReadDir(storage.ReportsDir(svc.config.Storage.Dir))
	require.NoError(t, err)
	assert.Len(t, reports, 1)
	assert.Equal(t, 1, renderer.calls)

	require.NotNil(t, s.store.Result())
	assert.Equal(t, 82.0, s.store.Result().ResumeScore)
	assert.Equal(t, 1, s.store.Stats().TotalAnalyses)
	assert.False(t, s.store.HasUpload())
}

func TestStudioAnalyzerFailureKeepsPreviousResult(t *testing.T) {
	svc := newTestServices(t, &fakeRenderer{})
	withAnalyzer(svc, &stubAnalyzer{replies: []analyzerReply{
		{result: &analysis.Result{ResumeScore: 77, Strengths: []string{"Strong Go background"}}},
		{err: errors.New("quota exceeded")},
	}})

	resume := writeResumeFile(t, "cv.pdf", "%PDF-1.4\n")
	s, out := runStudio(t, svc,
		"Analyzer", "Software Development and Engineering", "Backend Developer", resume, false, false,
		"Analyzer", "Software Development and Engineering", "Backend Developer", resume, false,
		PromptExit,
	)

	failed := bytes.Index([]byte(out), []byte("Analysis failed: analysis failed: quota exceeded"))
	require.NotEqual(t, -1, failed, out)

	rest := out[failed:]
	assert.Contains(t, rest, "Previous result")
	assert.Contains(t, rest, "Strong Go background")
	assert.Contains(t, rest, "77")

	require.NotNil(t, s.store.Result())
	assert.Equal(t, 77.0, s.store.Result().ResumeScore)
	assert.Contains(t, s.store.Failure(), "quota exceeded")
}

func TestStudioAnalyzerRejectsPlainTextWithoutAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")

	resume := writeResumeFile(t, "cv.txt", "plain text resume")

	svc := newTestServices(t, &fakeRenderer{})
	s, out := runStudio(t, svc,
		"Analyzer", "Software Development and Engineering", "Backend Developer", resume, false,
		PromptExit,
	)

	assert.Contains(t, out, "unsupported format: text/plain")
	assert.NotContains(t, out, "api key")
	assert.False(t, s.store.HasUpload())
	assert.Contains(t, s.store.Failure(), "unsupported format")
}

func TestStudioAnalyzerDiscardsUploadOnPromptError(t *testing.T) {
	svc := newTestServices(t, &fakeRenderer{})
	resume := writeResumeFile(t, "cv.pdf", "%PDF-1.4\n")

	s, out := runStudio(t, svc,
		"Analyzer", "Software Development and Engineering", "Backend Developer", resume,
		errors.New("terminal detached"),
		PromptExit,
	)

	assert.Contains(t, out, "Error: terminal detached")
	assert.False(t, s.store.HasUpload())
	assert.Equal(t, session.PageHome, s.store.Page())
}

func TestFailureMessage(t *testing.T) {
	store := session.New()
	store.SetFailure("analysis failed: quota exceeded")

	rejected := &analysis.Outcome{State: analysis.StateFailed, Err: analysis.ErrRunInProgress}
	assert.Equal(t, "analysis already in progress", failureMessage(store, rejected))

	failed := &analysis.Outcome{State: analysis.StateFailed, Err: errors.New("quota exceeded")}
	assert.Equal(t, "analysis failed: quota exceeded", failureMessage(store, failed))
}
