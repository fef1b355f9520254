package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/resume-studio/internal/analysis"
)

type stubGenerator struct {
	response    string
	err         error
	lastSystem  string
	lastMessage string
}

func (s *stubGenerator) GenerateContent(_ context.Context, system, message string) (string, error) {
	s.lastSystem = system
	s.lastMessage = message
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubGenerator) Model() string {
	return "stub-model"
}

const fullResponse = "```json\n" + `{
  "resume_score": 82,
  "ats_score": "74",
  "keyword_match": 61.5,
  "format_score": 90,
  "section_score": 55,
  "job_match_score": 68,
  "strengths": ["Strong Go background", "Clear impact statements"],
  "suggestions": ["Add a summary"],
  "analysis": "## Overall Assessment\nGood fit."
}` + "\n```"

func TestAnalyzerAnalyze(t *testing.T) {
	stub := &stubGenerator{response: fullResponse}
	analyzer := NewAnalyzer(stub, zap.NewNop(), 0)

	result, err := analyzer.Analyze(context.Background(), analysis.AnalyzeInput{
		Text:           "Jane Doe\nGo engineer",
		Role:           "Backend Developer",
		JobDescription: "We need Go and Kubernetes.",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.IsError() {
		t.Fatalf("expected success result, got error %q", result.Error)
	}
	if result.ResumeScore != 82 {
		t.Fatalf("expected resume score 82, got %v", result.ResumeScore)
	}
	if result.ATSScore == nil || *result.ATSScore != 74 {
		t.Fatalf("expected string ats score to be coerced, got %v", result.ATSScore)
	}
	if result.KeywordMatch == nil || *result.KeywordMatch != 61.5 {
		t.Fatalf("unexpected keyword match: %v", result.KeywordMatch)
	}
	if result.JobMatchScore == nil || *result.JobMatchScore != 68 {
		t.Fatalf("expected job match score, got %v", result.JobMatchScore)
	}
	if len(result.Strengths) != 2 || result.Suggestions[0] != "Add a summary" {
		t.Fatalf("unexpected lists: %+v %+v", result.Strengths, result.Suggestions)
	}
	if !strings.HasPrefix(result.Analysis, "## Overall Assessment") {
		t.Fatalf("unexpected analysis: %q", result.Analysis)
	}
	if result.Model != "stub-model" {
		t.Fatalf("expected model to be recorded, got %q", result.Model)
	}

	if stub.lastSystem != systemPrompt {
		t.Fatalf("expected embedded system prompt to be sent")
	}
	for _, want := range []string{"Target role: Backend Developer", "We need Go and Kubernetes.", "Go engineer"} {
		if !strings.Contains(stub.lastMessage, want) {
			t.Fatalf("expected %q in request, got:\n%s", want, stub.lastMessage)
		}
	}
}

func TestAnalyzerWithoutJobDescription(t *testing.T) {
	stub := &stubGenerator{response: `{"resume_score": 64, "job_match_score": 90}`}
	analyzer := NewAnalyzer(stub, zap.NewNop(), 0)

	result, err := analyzer.Analyze(context.Background(), analysis.AnalyzeInput{Text: "cv", Role: "Data Analyst"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.JobMatchScore != nil {
		t.Fatalf("job match score must be dropped without a job description")
	}
	if !strings.Contains(stub.lastMessage, "Job description:\n"+noJobDescription) {
		t.Fatalf("expected job description placeholder, got:\n%s", stub.lastMessage)
	}
	if result.ATSScore != nil {
		t.Fatalf("expected absent ats score to stay nil")
	}
}

func TestAnalyzerErrorMarker(t *testing.T) {
	stub := &stubGenerator{response: `{"error": "document is not a resume"}`}
	analyzer := NewAnalyzer(stub, zap.NewNop(), 0)

	result, err := analyzer.Analyze(context.Background(), analysis.AnalyzeInput{Text: "recipe", Role: "Chef"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError() || result.Error != "document is not a resume" {
		t.Fatalf("expected error-tagged result, got %+v", result)
	}
}

func TestAnalyzerFailures(t *testing.T) {
	backendErr := errors.New("quota exceeded")

	tests := []struct {
		name  string
		stub  *stubGenerator
		input analysis.AnalyzeInput
		want  string
	}{
		{
			name:  "backend error",
			stub:  &stubGenerator{err: backendErr},
			input: analysis.AnalyzeInput{Text: "cv", Role: "Dev"},
			want:  "quota exceeded",
		},
		{
			name:  "not json",
			stub:  &stubGenerator{response: "I think this resume is great"},
			input: analysis.AnalyzeInput{Text: "cv", Role: "Dev"},
			want:  "parse gemini response",
		},
		{
			name:  "missing score",
			stub:  &stubGenerator{response: `{"strengths": ["a"]}`},
			input: analysis.AnalyzeInput{Text: "cv", Role: "Dev"},
			want:  "does not match schema",
		},
		{
			name:  "score out of range",
			stub:  &stubGenerator{response: `{"resume_score": 140}`},
			input: analysis.AnalyzeInput{Text: "cv", Role: "Dev"},
			want:  "does not match schema",
		},
		{
			name:  "empty text",
			stub:  &stubGenerator{response: `{"resume_score": 50}`},
			input: analysis.AnalyzeInput{Text: "  ", Role: "Dev"},
			want:  "resume text is required",
		},
		{
			name:  "empty role",
			stub:  &stubGenerator{response: `{"resume_score": 50}`},
			input: analysis.AnalyzeInput{Text: "cv"},
			want:  "job role is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analyzer := NewAnalyzer(tt.stub, zap.NewNop(), 0)

			result, err := analyzer.Analyze(context.Background(), tt.input)
			if err == nil {
				t.Fatalf("expected error, got result %+v", result)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %q in error, got %v", tt.want, err)
			}
		})
	}
}

func TestAnalyzerLogsTruncatedPreviews(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	stub := &stubGenerator{response: `{"resume_score": 71}`}
	analyzer := NewAnalyzer(stub, zap.New(core), 10)

	if _, err := analyzer.Analyze(context.Background(), analysis.AnalyzeInput{Text: strings.Repeat("x", 500), Role: "Dev"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries := logs.FilterMessage("gemini generate content request").All()
	if len(entries) != 1 {
		t.Fatalf("expected one request log, got %d", len(entries))
	}
	preview, ok := entries[0].ContextMap()["prompt_preview"].(string)
	if !ok || len([]rune(preview)) > 20 {
		t.Fatalf("expected truncated preview, got %q", preview)
	}
}

func TestParseResponseIgnoresFalseErrorKey(t *testing.T) {
	result, err := parseResponse(`{"error": false, "resume_score": "88%"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError() || result.ResumeScore != 88 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestExtractJSON(t *testing.T) {
	tests := map[string]string{
		"{\"a\":1}":               "{\"a\":1}",
		"```json\n{\"a\":1}\n```": "{\"a\":1}",
		"```\n{\"a\":1}\n```\n":   "{\"a\":1}",
		"  `{\"a\":1}`  ":         "{\"a\":1}",
	}

	for in, want := range tests {
		if got := extractJSON(in); got != want {
			t.Fatalf("extractJSON(%q) = %q, want %q", in, got, want)
		}
	}
}
