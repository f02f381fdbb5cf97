package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	parseDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "collegedesk",
		Subsystem: "ai",
		Name:      "leave_parse_duration_seconds",
		Help:      "Duration of leave email parsing requests",
	}, []string{"model"})

	parseFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "collegedesk",
		Subsystem: "ai",
		Name:      "leave_parse_failures_total",
		Help:      "Number of leave email parsing failures",
	}, []string{"model"})
)

// OpenAIConfig defines configuration options for the OpenAI leave parser.
type OpenAIConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
	Logger      zerolog.Logger
}

// OpenAIParser implements LeaveParser against the OpenAI chat completion API.
type OpenAIParser struct {
	client *openai.Client
	cfg    OpenAIConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewOpenAIParser builds a parser using the provided configuration.
func NewOpenAIParser(cfg OpenAIConfig) (*OpenAIParser, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}

	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 256
	}

	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	client := openai.NewClientWithConfig(openai.DefaultConfig(cfg.APIKey))

	return &OpenAIParser{
		client: client,
		cfg:    cfg,
		tracer: otel.Tracer("github.com/collegedesk/collegedesk-api/pkg/ai/openai"),
		logger: logger.With().Str("component", "leave_parser").Logger(),
	}, nil
}

const parserSystemPrompt = `You extract structured leave data from faculty leave emails.
Respond with a JSON object holding exactly these keys:
"leave_type" (one of "CL", "ML", "EL", "OD"), "from_date" (YYYY-MM-DD),
"to_date" (YYYY-MM-DD), "days" (integer count of leave days) and
"reason" (one sentence). Use empty strings and 0 when a field cannot be determined.`

// Parse sends the email to OpenAI and decodes the structured response.
func (p *OpenAIParser) Parse(parent context.Context, email LeaveEmail) (ParsedLeave, error) {
	ctx, span := p.tracer.Start(parent, "openai.parse_leave", trace.WithAttributes(
		attribute.String("model", p.cfg.Model),
	))
	defer span.End()

	start := time.Now()
	request := openai.ChatCompletionRequest{
		Model:       p.cfg.Model,
		MaxTokens:   p.cfg.MaxTokens,
		Temperature: p.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: parserSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildParserPrompt(email)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	}

	resp, err := p.client.CreateChatCompletion(ctx, request)
	parseDuration.WithLabelValues(p.cfg.Model).Observe(time.Since(start).Seconds())
	if err != nil {
		parseFailures.WithLabelValues(p.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return ParsedLeave{}, fmt.Errorf("openai parse leave: %w", err)
	}

	if len(resp.Choices) == 0 {
		err := fmt.Errorf("no choices returned from openai")
		parseFailures.WithLabelValues(p.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return ParsedLeave{}, err
	}

	var parsed ParsedLeave
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		parseFailures.WithLabelValues(p.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid_response")
		return ParsedLeave{}, fmt.Errorf("decode parser response: %w", err)
	}

	p.logger.Debug().
		Str("leave_type", parsed.LeaveType).
		Int("days", parsed.Days).
		Msg("leave email parsed")

	return parsed, nil
}

func buildParserPrompt(email LeaveEmail) string {
	var b strings.Builder
	b.WriteString("From: ")
	b.WriteString(email.FromEmail)
	b.WriteString("\nSubject: ")
	b.WriteString(email.Subject)
	b.WriteString("\n\n")
	b.WriteString(email.Body)
	return b.String()
}
