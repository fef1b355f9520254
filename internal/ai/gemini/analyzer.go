package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	_ "embed"

	"github.com/mitchellh/mapstructure"
	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"

	"github.com/spigell/resume-studio/internal/analysis"
	"github.com/spigell/resume-studio/internal/utils"
)

var _ analysis.Analyzer = (*Analyzer)(nil)

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
	Model() string
}

// Analyzer scores resume text with a Gemini model.
type Analyzer struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

var (
	//go:embed prompt.md
	systemPrompt string

	//go:embed request.md
	requestTemplate string

	//go:embed schema.json
	responseSchema string
)

const (
	DefaultMaxLogLength = 200

	noJobDescription = "none provided"
)

var scoreKeys = []string{
	"resume_score",
	"ats_score",
	"keyword_match",
	"format_score",
	"section_score",
	"job_match_score",
}

func NewAnalyzer(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Analyzer {
	if maxLogLength <= 0 {
		maxLogLength = DefaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Analyzer{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (a *Analyzer) Analyze(ctx context.Context, input analysis.AnalyzeInput) (*analysis.Result, error) {
	if a.generator == nil {
		return nil, errors.New("gemini generator is not configured")
	}
	if strings.TrimSpace(input.Text) == "" {
		return nil, errors.New("resume text is required")
	}
	if strings.TrimSpace(input.Role) == "" {
		return nil, errors.New("job role is required")
	}

	message := buildRequest(input)
	model := a.generator.Model()

	a.logger.Debug("gemini generate content request",
		zap.String("model", model),
		zap.String("role", input.Role),
		zap.Bool("job_description", input.JobDescription != ""),
		zap.Int("prompt_length", utf8.RuneCountInString(message)),
		zap.String("prompt_preview", utils.TruncateForLog(message, a.maxLogLen)),
	)

	raw, err := a.generator.GenerateContent(ctx, systemPrompt, message)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("gemini generate content response",
		zap.String("model", model),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, a.maxLogLen)),
	)

	result, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}

	if input.JobDescription == "" {
		result.JobMatchScore = nil
	}
	result.Model = model

	return result, nil
}

func buildRequest(input analysis.AnalyzeInput) string {
	jobDescription := strings.TrimSpace(input.JobDescription)
	if jobDescription == "" {
		jobDescription = noJobDescription
	}

	return strings.NewReplacer(
		"{{ROLE}}", strings.TrimSpace(input.Role),
		"{{JOB_DESCRIPTION}}", jobDescription,
		"{{RESUME_TEXT}}", strings.TrimSpace(input.Text),
	).Replace(requestTemplate)
}

// parseResponse decodes the model output. An "error" key in the payload
// becomes an error-tagged result rather than a Go error.
func parseResponse(raw string) (*analysis.Result, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	if msg := errorMessage(data["error"]); msg != "" {
		return analysis.ErrorResult(msg), nil
	}
	delete(data, "error")

	normalize(data)

	if err := validateResponse(data); err != nil {
		return nil, err
	}

	var result analysis.Result
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &result,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create response decoder: %w", err)
	}
	if err := decoder.Decode(data); err != nil {
		return nil, fmt.Errorf("decode gemini response: %w", err)
	}

	return &result, nil
}

// normalize coerces loosely typed score values and drops unusable ones so
// that schema validation sees numbers only.
func normalize(data map[string]any) {
	for _, key := range scoreKeys {
		value, ok := data[key]
		if !ok {
			continue
		}
		f := coerceFloat(value)
		if math.IsNaN(f) {
			delete(data, key)
			continue
		}
		data[key] = f
	}

	if value, ok := data["analysis"]; ok {
		data["analysis"] = coerceString(value)
	}
}

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

func validateResponse(data map[string]any) error {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(responseSchema))
	})
	if schemaErr != nil {
		return fmt.Errorf("load response schema: %w", schemaErr)
	}

	res, err := schema.Validate(gojsonschema.NewGoLoader(data))
	if err != nil {
		return fmt.Errorf("validate gemini response: %w", err)
	}
	if res.Valid() {
		return nil
	}

	issues := make([]string, 0, len(res.Errors()))
	for _, desc := range res.Errors() {
		issues = append(issues, desc.String())
	}
	return fmt.Errorf("gemini response does not match schema: %s", strings.Join(issues, "; "))
}

func errorMessage(v any) string {
	switch v.(type) {
	case nil, bool:
		return ""
	default:
		return coerceString(v)
	}
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case string:
		trimmed := strings.TrimSuffix(strings.TrimSpace(val), "%")
		if trimmed == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(trimmed), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}
