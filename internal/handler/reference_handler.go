package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/fieldscribe/scribe-api/internal/service"
	"github.com/fieldscribe/scribe-api/internal/utils"
)

// ReferenceHandler serves the lookup data the capture form renders.
type ReferenceHandler struct {
	service service.ReferenceService
	logger  zerolog.Logger
}

// NewReferenceHandler builds a reference handler instance.
func NewReferenceHandler(service service.ReferenceService, logger zerolog.Logger) *ReferenceHandler {
	return &ReferenceHandler{
		service: service,
		logger:  logger.With().Str("component", "reference_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *ReferenceHandler) Register(router fiber.Router) {
	router.Get("/technicians", h.technicians)
	router.Get("/manufacturers", h.manufacturers)
	router.Get("/equipment-types", h.equipmentTypes)
	router.Get("/models", h.models)
	router.Get("/specifications", h.specifications)
}

func (h *ReferenceHandler) technicians(c *fiber.Ctx) error {
	technicians, err := h.service.ListTechnicians(c.Context())
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "technicians retrieved", technicians)
}

func (h *ReferenceHandler) manufacturers(c *fiber.Ctx) error {
	manufacturers, err := h.service.ListManufacturers(c.Context())
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "manufacturers retrieved", manufacturers)
}

func (h *ReferenceHandler) equipmentTypes(c *fiber.Ctx) error {
	manufacturer := c.Query("manufacturer")
	if manufacturer == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "manufacturer is required")
	}

	types, err := h.service.ListEquipmentTypes(c.Context(), manufacturer)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "equipment types retrieved", types)
}

func (h *ReferenceHandler) models(c *fiber.Ctx) error {
	manufacturer := c.Query("manufacturer")
	equipmentType := c.Query("equipment_type")
	if manufacturer == "" || equipmentType == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "manufacturer and equipment_type are required")
	}

	names, err := h.service.ListModels(c.Context(), manufacturer, equipmentType)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "models retrieved", names)
}

func (h *ReferenceHandler) specifications(c *fiber.Ctx) error {
	manufacturer := c.Query("manufacturer")
	equipmentType := c.Query("equipment_type")
	model := c.Query("model")
	if manufacturer == "" || equipmentType == "" || model == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "manufacturer, equipment_type and model are required")
	}

	specs, err := h.service.GetSpecifications(c.Context(), manufacturer, equipmentType, model)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "specifications retrieved", specs)
}

func (h *ReferenceHandler) handleError(c *fiber.Ctx, err error) error {
	h.logger.Error().Err(err).Msg("reference lookup failed")
	return utils.SendError(c, fiber.StatusInternalServerError, "failed to load reference data")
}
