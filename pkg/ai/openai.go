package ai

import (
	"context"
	"fmt"
	"io"
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
	aiDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "scribe",
		Subsystem: "ai",
		Name:      "request_duration_seconds",
		Help:      "Duration of transcription and formatting requests",
	}, []string{"operation", "model"})

	aiFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scribe",
		Subsystem: "ai",
		Name:      "request_failures_total",
		Help:      "Number of failed transcription and formatting requests",
	}, []string{"operation", "model"})
)

// OpenAIConfig defines configuration options for the OpenAI client.
type OpenAIConfig struct {
	APIKey          string
	TranscribeModel string
	ChatModel       string
	MaxTokens       int
	Temperature     float32
	Logger          zerolog.Logger
}

// OpenAIClient implements Transcriber and Formatter against the OpenAI API.
type OpenAIClient struct {
	client *openai.Client
	cfg    OpenAIConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewOpenAIClient builds a client using the provided configuration.
func NewOpenAIClient(cfg OpenAIConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	if cfg.TranscribeModel == "" {
		cfg.TranscribeModel = openai.Whisper1
	}

	if cfg.ChatModel == "" {
		cfg.ChatModel = "gpt-4o-mini"
	}

	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1024
	}

	if cfg.Temperature == 0 {
		cfg.Temperature = 0.2
	}

	tracer := otel.Tracer("github.com/fieldscribe/scribe-api/pkg/ai/openai")
	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	config := openai.DefaultConfig(cfg.APIKey)
	client := openai.NewClientWithConfig(config)

	return &OpenAIClient{
		client: client,
		cfg:    cfg,
		tracer: tracer,
		logger: logger,
	}, nil
}

// Transcribe sends the audio stream to the speech-to-text endpoint and
// returns the plain transcript.
func (c *OpenAIClient) Transcribe(parent context.Context, filename string, audio io.Reader) (string, error) {
	ctx, span := c.tracer.Start(parent, "openai.transcribe", trace.WithAttributes(
		attribute.String("model", c.cfg.TranscribeModel),
	))
	defer span.End()

	start := time.Now()
	resp, err := c.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    c.cfg.TranscribeModel,
		FilePath: filename,
		Reader:   audio,
	})
	aiDuration.WithLabelValues("transcribe", c.cfg.TranscribeModel).Observe(time.Since(start).Seconds())
	if err != nil {
		aiFailures.WithLabelValues("transcribe", c.cfg.TranscribeModel).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("openai transcribe: %w", err)
	}

	transcript := strings.TrimSpace(resp.Text)
	if transcript == "" {
		err := fmt.Errorf("empty transcript returned from openai")
		aiFailures.WithLabelValues("transcribe", c.cfg.TranscribeModel).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	c.logger.Debug().Int("transcript_chars", len(transcript)).Msg("audio transcribed")

	return transcript, nil
}

// FormatQA asks the chat model to restructure the transcript as Q/A text in
// the same line grammar the manual form uses.
func (c *OpenAIClient) FormatQA(parent context.Context, transcript string) (string, error) {
	ctx, span := c.tracer.Start(parent, "openai.format_qa", trace.WithAttributes(
		attribute.String("model", c.cfg.ChatModel),
	))
	defer span.End()

	start := time.Now()
	request := openai.ChatCompletionRequest{
		Model:       c.cfg.ChatModel,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: formatterSystemPrompt(),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildFormatterPrompt(transcript),
			},
		},
	}

	resp, err := c.client.CreateChatCompletion(ctx, request)
	aiDuration.WithLabelValues("format_qa", c.cfg.ChatModel).Observe(time.Since(start).Seconds())
	if err != nil {
		aiFailures.WithLabelValues("format_qa", c.cfg.ChatModel).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("openai format qa: %w", err)
	}

	if len(resp.Choices) == 0 {
		err := fmt.Errorf("no choices returned from openai")
		aiFailures.WithLabelValues("format_qa", c.cfg.ChatModel).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func formatterSystemPrompt() string {
	return "You are a helpful assistant that formats equipment service transcripts as question and answer pairs."
}

func buildFormatterPrompt(transcript string) string {
	builder := strings.Builder{}
	builder.WriteString("Format the following transcript as a numbered list of question and answer pairs. ")
	builder.WriteString("If there are no clear questions, infer them from the answers. ")
	builder.WriteString("Use exactly this line format, one pair after another:\n")
	builder.WriteString("Q1: ...\nA1: ...\nQ2: ...\nA2: ...\n\n")
	builder.WriteString("Output only the pairs, no commentary.\n\nTranscript:\n")
	builder.WriteString(transcript)
	return builder.String()
}
