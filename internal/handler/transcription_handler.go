package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/fieldscribe/scribe-api/internal/service"
	"github.com/fieldscribe/scribe-api/internal/utils"
)

// TranscriptionHandler manages the transcribe-and-extract endpoint.
type TranscriptionHandler struct {
	service service.TranscriptionService
	logger  zerolog.Logger
}

// NewTranscriptionHandler builds a transcription handler instance.
func NewTranscriptionHandler(service service.TranscriptionService, logger zerolog.Logger) *TranscriptionHandler {
	return &TranscriptionHandler{
		service: service,
		logger:  logger.With().Str("component", "transcription_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *TranscriptionHandler) Register(router fiber.Router) {
	router.Post("", h.transcribe)
}

func (h *TranscriptionHandler) transcribe(c *fiber.Ctx) error {
	file, err := c.FormFile("audio")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "audio file is required")
	}

	result, err := h.service.Transcribe(c.Context(), file)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "recording transcribed", result)
}

func (h *TranscriptionHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrAudioTooLarge):
		return utils.SendError(c, fiber.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, service.ErrAudioTypeNotAllowed), errors.Is(err, service.ErrAudioInvalid):
		return utils.SendError(c, fiber.StatusUnsupportedMediaType, err.Error())
	case errors.Is(err, service.ErrExtractionUnparseable):
		return utils.SendError(c, fiber.StatusUnprocessableEntity, err.Error())
	default:
		// Upstream API failures (network, auth, quota) land here and are
		// surfaced to the user as a gateway error.
		h.logger.Error().Err(err).Msg("transcription failed")
		return utils.SendError(c, fiber.StatusBadGateway, "transcription failed: "+err.Error())
	}
}
