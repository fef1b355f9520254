// Package extract pulls plain text out of uploaded PDF and DOCX resumes.
package extract

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-studio/internal/analysis"
)

var _ analysis.Extractor = (*Extractor)(nil)

// Extractor dispatches on the artifact MIME type.
type Extractor struct {
	// MaxBytes caps how much of an artifact is read. Zero means
	// analysis.MaxUploadBytes.
	MaxBytes int64
	Logger   *zap.Logger
}

// New returns an extractor with the default upload ceiling.
func New(logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{MaxBytes: analysis.MaxUploadBytes, Logger: logger}
}

// Extract reads the artifact body and returns its normalized text.
func (e *Extractor) Extract(ctx context.Context, artifact *analysis.Artifact) (string, error) {
	if artifact == nil || artifact.Body == nil {
		return "", &analysis.ExtractionError{Reason: "empty upload"}
	}

	mimeType := strings.ToLower(strings.TrimSpace(artifact.MIMEType))
	if !analysis.SupportedMIME(mimeType) {
		return "", &analysis.ExtractionError{
			Reason: fmt.Sprintf("unsupported format %q", artifact.MIMEType),
			Err:    analysis.ErrUnsupportedFormat,
		}
	}

	data, err := e.read(artifact.Body)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", &analysis.ExtractionError{Reason: "extraction cancelled", Err: err}
	}

	var text string
	switch mimeType {
	case analysis.MIMEPDF:
		text, err = pdfText(data)
	case analysis.MIMEDOCX:
		text, err = docxText(data)
	}
	if err != nil {
		return "", &analysis.ExtractionError{Reason: fmt.Sprintf("reading %s: %v", artifact.Name, err), Err: err}
	}

	text = normalizeWhitespace(text)
	e.logger().Debug("extracted resume text",
		zap.String("file", artifact.Name),
		zap.String("mime", mimeType),
		zap.Int("bytes", len(data)),
		zap.Int("chars", len(text)),
	)

	return text, nil
}

func (e *Extractor) read(body io.Reader) ([]byte, error) {
	limit := e.MaxBytes
	if limit <= 0 {
		limit = analysis.MaxUploadBytes
	}

	data, err := io.ReadAll(io.LimitReader(body, limit+1))
	if err != nil {
		return nil, &analysis.ExtractionError{Reason: "reading upload", Err: err}
	}
	if int64(len(data)) > limit {
		return nil, &analysis.ExtractionError{Reason: fmt.Sprintf("file exceeds %d MB limit", limit>>20)}
	}
	if len(data) == 0 {
		return nil, &analysis.ExtractionError{Reason: "empty upload"}
	}
	return data, nil
}

func (e *Extractor) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}

// MIMEForName maps a file name to one of the supported MIME types by
// extension. Unknown extensions return an empty string.
func MIMEForName(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return analysis.MIMEPDF
	case ".docx":
		return analysis.MIMEDOCX
	default:
		return ""
	}
}

// DetectMIME sniffs content and falls back to the file extension. DOCX files
// sniff as zip archives, so the extension decides between zip and docx.
func DetectMIME(name string, head []byte) string {
	sniffed := http.DetectContentType(head)
	switch {
	case strings.HasPrefix(sniffed, "application/pdf"):
		return analysis.MIMEPDF
	case strings.HasPrefix(sniffed, "application/zip") && MIMEForName(name) == analysis.MIMEDOCX:
		return analysis.MIMEDOCX
	default:
		return sniffed
	}
}

var (
	inlineSpace = regexp.MustCompile(`[ \t\r\f\v]+`)
	blankLines  = regexp.MustCompile(`\n\s*\n+`)
)

func normalizeWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = inlineSpace.ReplaceAllString(s, " ")

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	s = strings.Join(lines, "\n")

	s = blankLines.ReplaceAllString(s, "\n")
	return strings.TrimSpace(s)
}
