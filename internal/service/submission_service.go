package service

import (
	"archive/zip"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/fieldscribe/scribe-api/internal/dto"
	"github.com/fieldscribe/scribe-api/internal/models"
	"github.com/fieldscribe/scribe-api/internal/observability"
	"github.com/fieldscribe/scribe-api/internal/qa"
	"github.com/fieldscribe/scribe-api/internal/repository"
)

var (
	// ErrSubmissionNotFound indicates a submission could not be found.
	ErrSubmissionNotFound = errors.New("submission not found")
	// ErrTechnicianUnknown indicates the named technician does not exist or is inactive.
	ErrTechnicianUnknown = errors.New("unknown or inactive technician")
	// ErrEquipmentUnknown indicates the equipment coordinates are not in the reference data.
	ErrEquipmentUnknown = errors.New("unknown equipment model")
	// ErrDuplicateSubmission indicates an identical payload was already stored.
	ErrDuplicateSubmission = errors.New("duplicate submission")
	// ErrDocumentTypeNotAllowed indicates the attached document is not a PDF.
	ErrDocumentTypeNotAllowed = errors.New("document must be a pdf file")
)

// FileStorage abstracts the attachment upload destination.
type FileStorage interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

// SubmissionService orchestrates the QA form submission workflow.
type SubmissionService interface {
	Create(ctx context.Context, payload dto.SubmissionCreateRequest, audio, document *multipart.FileHeader) (dto.SubmissionResponse, error)
	List(ctx context.Context, filter dto.SubmissionFilter) ([]dto.SubmissionResponse, error)
	GetByID(ctx context.Context, id uint) (dto.SubmissionResponse, error)
	BuildPackage(ctx context.Context, id uint) ([]byte, string, error)
}

type submissionService struct {
	submissions repository.SubmissionRepository
	technicians repository.TechnicianRepository
	equipment   repository.EquipmentRepository
	cache       *redis.Client
	validator   *validator.Validate
	uploader    FileStorage
	events      SubmissionEventPublisher
	sanitizer   *bluemonday.Policy
	dedupeTTL   time.Duration
	logger      zerolog.Logger
	tracer      trace.Tracer
	now         func() time.Time
}

// NewSubmissionService constructs a SubmissionService instance. The cache and
// events dependencies are optional; nil disables the Redis dedupe fast path
// and event publication respectively.
func NewSubmissionService(
	submissions repository.SubmissionRepository,
	technicians repository.TechnicianRepository,
	equipment repository.EquipmentRepository,
	cache *redis.Client,
	validate *validator.Validate,
	uploader FileStorage,
	events SubmissionEventPublisher,
	dedupeTTL time.Duration,
	logger zerolog.Logger,
) SubmissionService {
	if dedupeTTL <= 0 {
		dedupeTTL = 5 * time.Minute
	}
	return &submissionService{
		submissions: submissions,
		technicians: technicians,
		equipment:   equipment,
		cache:       cache,
		validator:   validate,
		uploader:    uploader,
		events:      events,
		sanitizer:   bluemonday.StrictPolicy(),
		dedupeTTL:   dedupeTTL,
		logger:      logger.With().Str("component", "submission_service").Logger(),
		tracer:      otel.Tracer("github.com/fieldscribe/scribe-api/internal/service/submission"),
		now:         time.Now,
	}
}

func (s *submissionService) Create(ctx context.Context, payload dto.SubmissionCreateRequest, audio, document *multipart.FileHeader) (dto.SubmissionResponse, error) {
	ctx, span := s.tracer.Start(ctx, "submission.create")
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return dto.SubmissionResponse{}, err
	}

	technician, err := s.technicians.GetByName(ctx, strings.TrimSpace(payload.TechnicianName))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrTechnicianUnknown
		}
		return dto.SubmissionResponse{}, err
	}
	if !technician.Active {
		return dto.SubmissionResponse{}, ErrTechnicianUnknown
	}

	if _, err := s.equipment.GetModel(ctx, payload.Manufacturer, payload.EquipmentType, payload.Model); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrEquipmentUnknown
		}
		return dto.SubmissionResponse{}, err
	}

	pairs, err := qa.Parse(payload.QAText)
	if err != nil {
		observability.Submissions().WithLabelValues("invalid_qa").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "qa parse failed")
		return dto.SubmissionResponse{}, err
	}

	checksum := submissionChecksum(technician.Name, payload.Manufacturer, payload.EquipmentType, payload.Model, payload.QAText)
	span.SetAttributes(attribute.String("submission.checksum", checksum))

	if err := s.guardDuplicate(ctx, checksum); err != nil {
		observability.Submissions().WithLabelValues("duplicate").Inc()
		span.SetStatus(codes.Error, "duplicate submission")
		return dto.SubmissionResponse{}, err
	}

	// The dedupe key may only outlive this call once the row exists;
	// otherwise a failed attempt would block the corrected retry.
	stored := false
	defer func() {
		if !stored {
			s.releaseDuplicate(ctx, checksum)
		}
	}()

	audioURL, audioChecksum, err := s.storeAudio(ctx, audio)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "audio upload failed")
		return dto.SubmissionResponse{}, err
	}

	documentURL, err := s.storeDocument(ctx, document)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "document upload failed")
		return dto.SubmissionResponse{}, err
	}

	qaPairs := make([]models.QAPair, 0, len(pairs))
	for _, pair := range pairs {
		qaPairs = append(qaPairs, models.QAPair{
			Position: pair.Position,
			Question: pair.Question,
			Answer:   pair.Answer,
		})
	}

	submission := models.Submission{
		TechnicianID:  technician.ID,
		Manufacturer:  payload.Manufacturer,
		EquipmentType: payload.EquipmentType,
		Model:         payload.Model,
		Spec2:         payload.Spec2,
		Spec3:         payload.Spec3,
		Notes:         s.sanitizer.Sanitize(strings.TrimSpace(payload.Notes)),
		Transcript:    payload.Transcript,
		QAText:        qa.Render(pairs),
		NumQuestions:  len(pairs),
		NumAnswers:    len(pairs),
		PointsAwarded: qa.Points(pairs),
		AudioURL:      audioURL,
		AudioChecksum: audioChecksum,
		DocumentURL:   documentURL,
		Checksum:      checksum,
		EntryTime:     s.now(),
		Pairs:         qaPairs,
	}

	if err := s.submissions.Create(ctx, &submission); err != nil {
		if errors.Is(err, repository.ErrDuplicateChecksum) {
			observability.Submissions().WithLabelValues("duplicate").Inc()
			span.SetStatus(codes.Error, "duplicate submission")
			return dto.SubmissionResponse{}, ErrDuplicateSubmission
		}
		observability.Submissions().WithLabelValues("error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "persistence failed")
		return dto.SubmissionResponse{}, err
	}
	stored = true

	created, err := s.submissions.GetByID(ctx, submission.ID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	s.publishCreated(ctx, created)

	observability.Submissions().WithLabelValues("stored").Inc()
	span.SetStatus(codes.Ok, "stored")

	s.logger.Info().
		Uint("submission_id", created.ID).
		Str("technician", technician.Name).
		Int("points", created.PointsAwarded).
		Msg("submission stored")

	return dto.NewSubmissionResponse(created), nil
}

func (s *submissionService) List(ctx context.Context, filter dto.SubmissionFilter) ([]dto.SubmissionResponse, error) {
	repoFilter := repository.SubmissionFilter{
		TechnicianID:  filter.TechnicianID,
		Manufacturer:  filter.Manufacturer,
		EquipmentType: filter.EquipmentType,
	}

	submissions, err := s.submissions.List(ctx, repoFilter)
	if err != nil {
		return nil, err
	}

	return dto.NewSubmissionResponseSlice(submissions), nil
}

func (s *submissionService) GetByID(ctx context.Context, id uint) (dto.SubmissionResponse, error) {
	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	return dto.NewSubmissionResponse(submission), nil
}

// BuildPackage assembles the downloadable ZIP for a submission: the form
// inputs as CSV plus the raw transcript and the extracted Q/A text.
func (s *submissionService) BuildPackage(ctx context.Context, id uint) ([]byte, string, error) {
	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrSubmissionNotFound
		}
		return nil, "", err
	}

	buf := bytes.NewBuffer(nil)
	archive := zip.NewWriter(buf)

	inputs, err := archive.Create("inputs.csv")
	if err != nil {
		return nil, "", err
	}
	if err := writeInputsCSV(inputs, submission); err != nil {
		return nil, "", err
	}

	transcript, err := archive.Create("transcript.txt")
	if err != nil {
		return nil, "", err
	}
	if _, err := io.WriteString(transcript, submission.Transcript); err != nil {
		return nil, "", err
	}

	qaText, err := archive.Create("qa_transcript.txt")
	if err != nil {
		return nil, "", err
	}
	if _, err := io.WriteString(qaText, submission.QAText); err != nil {
		return nil, "", err
	}

	if err := archive.Close(); err != nil {
		return nil, "", err
	}

	name := fmt.Sprintf("submission-%d.zip", submission.ID)

	return buf.Bytes(), name, nil
}

func (s *submissionService) guardDuplicate(ctx context.Context, checksum string) error {
	if s.cache != nil {
		key := fmt.Sprintf("submission:dedupe:%s", checksum)
		ok, err := s.cache.SetNX(ctx, key, 1, s.dedupeTTL).Result()
		if err != nil {
			s.logger.Warn().Err(err).Msg("dedupe cache unavailable, falling back to database check")
		} else if !ok {
			return ErrDuplicateSubmission
		}
	}

	exists, err := s.submissions.ExistsByChecksum(ctx, checksum)
	if err != nil {
		s.releaseDuplicate(ctx, checksum)
		return err
	}
	if exists {
		return ErrDuplicateSubmission
	}

	return nil
}

func (s *submissionService) releaseDuplicate(ctx context.Context, checksum string) {
	if s.cache == nil {
		return
	}

	key := fmt.Sprintf("submission:dedupe:%s", checksum)
	if err := s.cache.Del(ctx, key).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to release dedupe key")
	}
}

func (s *submissionService) storeAudio(ctx context.Context, file *multipart.FileHeader) (url, checksum string, err error) {
	if file == nil {
		return "", "", nil
	}

	payload, err := readAll(file)
	if err != nil {
		return "", "", err
	}

	if err := validateAudio(payload); err != nil {
		return "", "", err
	}

	url, err = s.uploader.Upload(ctx, file.Filename, bytes.NewReader(payload))
	if err != nil {
		return "", "", fmt.Errorf("failed to upload audio: %w", err)
	}

	sum := sha256.Sum256(payload)

	return url, hex.EncodeToString(sum[:]), nil
}

func (s *submissionService) storeDocument(ctx context.Context, file *multipart.FileHeader) (string, error) {
	if file == nil {
		return "", nil
	}

	payload, err := readAll(file)
	if err != nil {
		return "", err
	}

	if !mimetype.Detect(payload).Is("application/pdf") {
		return "", ErrDocumentTypeNotAllowed
	}

	url, err := s.uploader.Upload(ctx, file.Filename, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to upload document: %w", err)
	}

	return url, nil
}

func (s *submissionService) publishCreated(ctx context.Context, submission models.Submission) {
	if s.events == nil {
		return
	}

	if err := s.events.PublishCreated(ctx, submission); err != nil {
		// Event delivery is best effort; the row is already stored.
		s.logger.Warn().Err(err).Uint("submission_id", submission.ID).Msg("submission event publish failed")
	}
}

func submissionChecksum(parts ...string) string {
	hasher := sha256.New()
	for _, part := range parts {
		hasher.Write([]byte(strings.TrimSpace(strings.ToLower(part))))
		hasher.Write([]byte("|"))
	}
	return hex.EncodeToString(hasher.Sum(nil))
}

func writeInputsCSV(w io.Writer, submission models.Submission) error {
	writer := csv.NewWriter(w)
	header := []string{
		"Technician", "Role", "EntryTime", "Manufacturer", "EquipmentType", "Model",
		"Spec2", "Spec3", "Notes", "NumQuestions", "NumAnswers", "PointsAwarded",
		"AudioURL", "AudioChecksum", "DocumentURL",
	}
	row := []string{
		submission.Technician.Name,
		submission.Technician.Role,
		submission.EntryTime.Format(time.RFC3339),
		submission.Manufacturer,
		submission.EquipmentType,
		submission.Model,
		submission.Spec2,
		submission.Spec3,
		submission.Notes,
		strconv.Itoa(submission.NumQuestions),
		strconv.Itoa(submission.NumAnswers),
		strconv.Itoa(submission.PointsAwarded),
		submission.AudioURL,
		submission.AudioChecksum,
		submission.DocumentURL,
	}

	if err := writer.Write(header); err != nil {
		return err
	}
	if err := writer.Write(row); err != nil {
		return err
	}
	writer.Flush()

	return writer.Error()
}

func readAll(file *multipart.FileHeader) ([]byte, error) {
	handle, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer handle.Close()

	return io.ReadAll(handle)
}
