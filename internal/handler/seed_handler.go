package handler

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/fieldscribe/scribe-api/internal/dto"
	"github.com/fieldscribe/scribe-api/internal/service"
	"github.com/fieldscribe/scribe-api/internal/utils"
)

const technicianSeedSchema = `{
	"type": "object",
	"required": ["token", "items"],
	"properties": {
		"token": {"type": "string", "minLength": 1},
		"items": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["name", "role"],
				"properties": {
					"name": {"type": "string", "minLength": 2},
					"role": {"type": "string", "enum": ["PM", "FSE", "pm", "fse"]},
					"active": {"type": "boolean"}
				}
			}
		}
	}
}`

const equipmentSeedSchema = `{
	"type": "object",
	"required": ["token", "models"],
	"properties": {
		"token": {"type": "string", "minLength": 1},
		"models": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["manufacturer", "equipment_type", "model"],
				"properties": {
					"manufacturer": {"type": "string", "minLength": 1},
					"equipment_type": {"type": "string", "minLength": 1},
					"model": {"type": "string", "minLength": 1},
					"spec2": {"type": "string"},
					"spec3": {"type": "string"},
					"extra": {"type": "object", "additionalProperties": {"type": "string"}}
				}
			}
		},
		"labels": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["equipment_type"],
				"properties": {
					"equipment_type": {"type": "string", "minLength": 1},
					"spec2_label": {"type": "string"},
					"spec3_label": {"type": "string"}
				}
			}
		}
	}
}`

var (
	technicianSchema = jsonschema.MustCompileString("seed_technicians.json", technicianSeedSchema)
	equipmentSchema  = jsonschema.MustCompileString("seed_equipment.json", equipmentSeedSchema)
)

// SeedHandler exposes the token-gated reference data seeding endpoints.
type SeedHandler struct {
	service service.SeedService
	logger  zerolog.Logger
}

// NewSeedHandler builds a seed handler instance.
func NewSeedHandler(service service.SeedService, logger zerolog.Logger) *SeedHandler {
	return &SeedHandler{
		service: service,
		logger:  logger.With().Str("component", "seed_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *SeedHandler) Register(router fiber.Router) {
	router.Post("/technicians", h.seedTechnicians)
	router.Post("/equipment", h.seedEquipment)
}

func (h *SeedHandler) seedTechnicians(c *fiber.Ctx) error {
	if err := validateSchema(c.Body(), technicianSchema); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.SeedTechniciansRequest
	if err := json.Unmarshal(c.Body(), &payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	affected, err := h.service.SeedTechnicians(c.Context(), payload.Token, payload.Items)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "technicians seeded", dto.SeedResponse{Affected: affected})
}

func (h *SeedHandler) seedEquipment(c *fiber.Ctx) error {
	if err := validateSchema(c.Body(), equipmentSchema); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.SeedEquipmentRequest
	if err := json.Unmarshal(c.Body(), &payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	affected, err := h.service.SeedEquipment(c.Context(), payload.Token, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "equipment catalogue seeded", dto.SeedResponse{Affected: affected})
}

func validateSchema(body []byte, schema *jsonschema.Schema) error {
	var document interface{}
	if err := json.Unmarshal(body, &document); err != nil {
		return errors.New("invalid request body")
	}

	if err := schema.Validate(document); err != nil {
		return err
	}

	return nil
}

func (h *SeedHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrSeedDisabled):
		return utils.SendError(c, fiber.StatusForbidden, "seeding is disabled")
	case errors.Is(err, service.ErrSeedUnauthorized):
		return utils.SendError(c, fiber.StatusUnauthorized, "invalid seed token")
	default:
		h.logger.Error().Err(err).Msg("seeding failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
