package handler_test

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fieldscribe/scribe-api/internal/config"
	"github.com/fieldscribe/scribe-api/internal/dto"
	"github.com/fieldscribe/scribe-api/internal/handler"
	"github.com/fieldscribe/scribe-api/internal/models"
	"github.com/fieldscribe/scribe-api/internal/repository"
	"github.com/fieldscribe/scribe-api/internal/router"
	"github.com/fieldscribe/scribe-api/internal/service"
	"github.com/fieldscribe/scribe-api/internal/utils"
)

func setupReferenceApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Technician{}, &models.EquipmentModel{}, &models.SpecLabel{}))

	require.NoError(t, db.Create(&models.Technician{Name: "Alice Carver", Role: models.RoleFSE, Active: true}).Error)
	require.NoError(t, db.Create(&models.Technician{Name: "Gone Guy", Role: models.RolePM, Active: false}).Error)
	require.NoError(t, db.Create(&models.EquipmentModel{
		Manufacturer:  "Bollegraaf",
		EquipmentType: "Baler",
		Model:         "HBC-120",
		Spec2:         "60Hz",
		Spec3:         "1100mm",
	}).Error)
	require.NoError(t, db.Create(&models.SpecLabel{EquipmentType: "Baler", Spec2Label: "Frequency"}).Error)

	logger := zerolog.New(io.Discard)
	technicianRepo := repository.NewTechnicianRepository(db)
	equipmentRepo := repository.NewEquipmentRepository(db)
	referenceService := service.NewReferenceService(technicianRepo, equipmentRepo, nil, 0, logger)

	app := fiber.New()
	router.Register(app, config.Config{AppName: "Test"}, router.Dependencies{
		ReferenceHandler: handler.NewReferenceHandler(referenceService, logger),
	})

	return app
}

func getJSON(t *testing.T, app *fiber.App, path string) (int, utils.APIResponse) {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest("GET", path, nil))
	require.NoError(t, err)

	var envelope utils.APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))

	return resp.StatusCode, envelope
}

func TestReferenceHandlerTechnicians(t *testing.T) {
	app := setupReferenceApp(t)

	status, envelope := getJSON(t, app, "/api/v1/reference/technicians")
	require.Equal(t, fiber.StatusOK, status)

	raw, err := json.Marshal(envelope.Data)
	require.NoError(t, err)

	var technicians []dto.TechnicianResponse
	require.NoError(t, json.Unmarshal(raw, &technicians))
	require.Len(t, technicians, 1)
	require.Equal(t, "Alice Carver", technicians[0].Name)
}

func TestReferenceHandlerHierarchy(t *testing.T) {
	app := setupReferenceApp(t)

	status, envelope := getJSON(t, app, "/api/v1/reference/manufacturers")
	require.Equal(t, fiber.StatusOK, status)

	raw, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	var names []string
	require.NoError(t, json.Unmarshal(raw, &names))
	require.Equal(t, []string{"Bollegraaf"}, names)

	status, _ = getJSON(t, app, "/api/v1/reference/equipment-types")
	require.Equal(t, fiber.StatusBadRequest, status)

	status, envelope = getJSON(t, app, "/api/v1/reference/models?manufacturer=Bollegraaf&equipment_type=Baler")
	require.Equal(t, fiber.StatusOK, status)
	raw, err = json.Marshal(envelope.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &names))
	require.Equal(t, []string{"HBC-120"}, names)
}

func TestReferenceHandlerSpecifications(t *testing.T) {
	app := setupReferenceApp(t)

	status, envelope := getJSON(t, app, "/api/v1/reference/specifications?manufacturer=Bollegraaf&equipment_type=Baler&model=HBC-120")
	require.Equal(t, fiber.StatusOK, status)

	raw, err := json.Marshal(envelope.Data)
	require.NoError(t, err)

	var specs dto.SpecificationsResponse
	require.NoError(t, json.Unmarshal(raw, &specs))
	require.Equal(t, "60Hz", specs.DefaultSpec2)
	require.Equal(t, "Frequency", specs.Spec2Label)
	require.Equal(t, "Specifications 3", specs.Spec3Label)
}
