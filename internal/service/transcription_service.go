package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/fieldscribe/scribe-api/internal/dto"
	"github.com/fieldscribe/scribe-api/internal/observability"
	"github.com/fieldscribe/scribe-api/internal/qa"
	"github.com/fieldscribe/scribe-api/pkg/ai"
)

// ErrExtractionUnparseable indicates the language model returned text the
// Q/A parser could not read.
var ErrExtractionUnparseable = errors.New("extracted text does not follow the Q/A format")

// TranscriptionService turns an uploaded recording into reviewable Q/A text.
type TranscriptionService interface {
	Transcribe(ctx context.Context, file *multipart.FileHeader) (dto.TranscriptionResponse, error)
}

type transcriptionService struct {
	transcriber ai.Transcriber
	formatter   ai.Formatter
	maxSize     int64
	logger      zerolog.Logger
	tracer      trace.Tracer
}

// NewTranscriptionService constructs a transcription service.
func NewTranscriptionService(transcriber ai.Transcriber, formatter ai.Formatter, maxSizeMB int, logger zerolog.Logger) TranscriptionService {
	if maxSizeMB <= 0 {
		maxSizeMB = 25
	}
	return &transcriptionService{
		transcriber: transcriber,
		formatter:   formatter,
		maxSize:     int64(maxSizeMB) * 1024 * 1024,
		logger:      logger.With().Str("component", "transcription_service").Logger(),
		tracer:      otel.Tracer("github.com/fieldscribe/scribe-api/internal/service/transcription"),
	}
}

func (s *transcriptionService) Transcribe(ctx context.Context, file *multipart.FileHeader) (dto.TranscriptionResponse, error) {
	ctx, span := s.tracer.Start(ctx, "transcription.run")
	defer span.End()

	start := time.Now()
	defer func() {
		observability.TranscriptionLatency().Observe(time.Since(start).Seconds())
	}()

	if file == nil {
		err := errors.New("audio file is required")
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return dto.TranscriptionResponse{}, err
	}

	if file.Size > s.maxSize {
		observability.TranscriptionsRejected().WithLabelValues("size").Inc()
		span.RecordError(ErrAudioTooLarge)
		span.SetStatus(codes.Error, "payload too large")
		return dto.TranscriptionResponse{}, ErrAudioTooLarge
	}

	handle, err := file.Open()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "open failed")
		return dto.TranscriptionResponse{}, err
	}
	defer handle.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(handle, s.maxSize+1)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read failed")
		return dto.TranscriptionResponse{}, err
	}
	if int64(buf.Len()) > s.maxSize {
		observability.TranscriptionsRejected().WithLabelValues("size").Inc()
		span.RecordError(ErrAudioTooLarge)
		span.SetStatus(codes.Error, "payload too large")
		return dto.TranscriptionResponse{}, ErrAudioTooLarge
	}

	if err := validateAudio(buf.Bytes()); err != nil {
		observability.TranscriptionsRejected().WithLabelValues("audio").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "audio validation failed")
		return dto.TranscriptionResponse{}, err
	}

	span.SetAttributes(
		attribute.String("audio.filename", file.Filename),
		attribute.Int64("audio.size_bytes", int64(buf.Len())),
	)

	transcript, err := s.transcriber.Transcribe(ctx, file.Filename, bytes.NewReader(buf.Bytes()))
	if err != nil {
		observability.TranscriptionsRejected().WithLabelValues("transcribe").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "transcription failed")
		return dto.TranscriptionResponse{}, err
	}

	qaText, err := s.formatter.FormatQA(ctx, transcript)
	if err != nil {
		observability.TranscriptionsRejected().WithLabelValues("format").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "formatting failed")
		return dto.TranscriptionResponse{}, err
	}

	pairs, err := qa.Parse(qaText)
	if err != nil {
		observability.TranscriptionsRejected().WithLabelValues("parse").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "parse failed")
		return dto.TranscriptionResponse{}, fmt.Errorf("%w: %s", ErrExtractionUnparseable, err)
	}

	observability.TranscriptionsCompleted().Inc()
	span.SetStatus(codes.Ok, "transcribed")

	s.logger.Info().
		Str("filename", file.Filename).
		Int("pairs", len(pairs)).
		Msg("recording transcribed and extracted")

	return buildTranscriptionResponse(transcript, pairs), nil
}

func buildTranscriptionResponse(transcript string, pairs []qa.Pair) dto.TranscriptionResponse {
	out := make([]dto.QAPairResponse, 0, len(pairs))
	for _, pair := range pairs {
		out = append(out, dto.QAPairResponse{
			Position: pair.Position,
			Question: pair.Question,
			Answer:   pair.Answer,
		})
	}

	return dto.TranscriptionResponse{
		Transcript:    transcript,
		QAText:        qa.Render(pairs),
		Pairs:         out,
		NumQuestions:  len(pairs),
		NumAnswers:    len(pairs),
		PointsAwarded: qa.Points(pairs),
	}
}
