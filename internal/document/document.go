// Package document renders resume profiles and analysis reports to PDF.
package document

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"go.uber.org/zap"

	"github.com/spigell/resume-studio/internal/analysis"
	"github.com/spigell/resume-studio/internal/present"
	"github.com/spigell/resume-studio/internal/profile"
	"github.com/spigell/resume-studio/internal/roles"
)

// ErrGenerationFailed means rendering produced no document. It is distinct
// from a profile validation failure.
var ErrGenerationFailed = errors.New("document generation failed")

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"join":     strings.Join,
	"markdown": renderMarkdown,
	"score":    func(v float64) string { return fmt.Sprintf("%.0f", v) },
}).ParseFS(templateFS, "templates/*.html.tmpl"))

// Builder produces resume and report documents.
type Builder struct {
	renderer Renderer
	logger   *zap.Logger
	now      func() time.Time
}

func NewBuilder(renderer Renderer, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{renderer: renderer, logger: logger, now: time.Now}
}

// Build validates the profile and generates its resume document. Generation
// is never attempted when required fields are missing.
func (b *Builder) Build(ctx context.Context, p *profile.Profile) ([]byte, error) {
	if p == nil {
		return nil, &profile.ValidationError{Missing: []string{"full_name", "email"}}
	}
	if err := profile.Validate(p.PersonalInfo); err != nil {
		return nil, err
	}
	return b.Generate(ctx, p.Snapshot())
}

// Generate renders a profile snapshot.
func (b *Builder) Generate(ctx context.Context, snapshot profile.Snapshot) ([]byte, error) {
	html, err := ResumeHTML(snapshot)
	if err != nil {
		return nil, err
	}

	return b.render(ctx, html, zap.String("document", "resume"), zap.String("template", snapshot.Template))
}

// Report renders the analysis report for a successful result.
func (b *Builder) Report(ctx context.Context, result *analysis.Result, role string) ([]byte, error) {
	if result.IsError() {
		return nil, fmt.Errorf("%w: no successful analysis to report", ErrGenerationFailed)
	}

	html, err := ReportHTML(result, role, b.now())
	if err != nil {
		return nil, err
	}

	return b.render(ctx, html, zap.String("document", "report"), zap.String("role", role))
}

func (b *Builder) render(ctx context.Context, html string, fields ...zap.Field) ([]byte, error) {
	if b.renderer == nil {
		return nil, fmt.Errorf("%w: no renderer configured", ErrGenerationFailed)
	}

	out, err := b.renderer.RenderHTMLToPDF(ctx, html)
	if err != nil {
		b.logger.Error("document rendering failed", append(fields, zap.Error(err))...)
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	if len(out) == 0 {
		b.logger.Error("document rendering returned no bytes", fields...)
		return nil, ErrGenerationFailed
	}

	b.logger.Debug("document rendered", append(fields, zap.Int("bytes", len(out)))...)
	return out, nil
}

type reportData struct {
	View        present.View
	Result      *analysis.Result
	Courses     []roles.Course
	GeneratedAt string
}

// ResumeHTML renders the resume page for a snapshot.
func ResumeHTML(snapshot profile.Snapshot) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "resume.html.tmpl", snapshot); err != nil {
		return "", fmt.Errorf("render resume template: %w", err)
	}
	return buf.String(), nil
}

// ReportHTML renders the analysis report page.
func ReportHTML(result *analysis.Result, role string, generatedAt time.Time) (string, error) {
	data := reportData{
		View:        present.Present(result, role, result != nil && result.JobMatchScore != nil),
		Result:      result,
		Courses:     roles.CoursesFor(role),
		GeneratedAt: generatedAt.Format("January 2, 2006 15:04"),
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "report.html.tmpl", data); err != nil {
		return "", fmt.Errorf("render report template: %w", err)
	}
	return buf.String(), nil
}

func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

// ResumeFileName is the download name of a generated resume.
func ResumeFileName(fullName string) string {
	name := strings.Join(strings.Fields(fullName), "_")
	name = strings.NewReplacer("/", "_", `\`, "_").Replace(name)
	if name == "" {
		return "resume.pdf"
	}
	return name + "_resume.pdf"
}

// ReportFileName is the download name of an analysis report created at t.
func ReportFileName(t time.Time) string {
	return "ai_resume_analysis_" + t.Format("20060102_1504") + ".pdf"
}
