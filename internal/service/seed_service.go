package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/fieldscribe/scribe-api/internal/dto"
	"github.com/fieldscribe/scribe-api/internal/models"
	"github.com/fieldscribe/scribe-api/internal/repository"
)

var (
	// ErrSeedDisabled indicates the seeding tools are disabled by configuration.
	ErrSeedDisabled = errors.New("seeding is disabled")
	// ErrSeedUnauthorized indicates the provided token is invalid.
	ErrSeedUnauthorized = errors.New("invalid seed token")
)

// SeedService loads reference data (technicians, equipment catalogue) that
// in production is maintained by upstream systems.
type SeedService interface {
	SeedTechnicians(ctx context.Context, token string, items []dto.TechnicianSeed) (int64, error)
	SeedEquipment(ctx context.Context, token string, request dto.SeedEquipmentRequest) (int64, error)
}

type seedService struct {
	technicians repository.TechnicianRepository
	equipment   repository.EquipmentRepository
	enabled     bool
	token       string
	logger      zerolog.Logger
}

// NewSeedService constructs a seeding service.
func NewSeedService(technicians repository.TechnicianRepository, equipment repository.EquipmentRepository, enabled bool, token string, logger zerolog.Logger) SeedService {
	return &seedService{
		technicians: technicians,
		equipment:   equipment,
		enabled:     enabled,
		token:       token,
		logger:      logger.With().Str("component", "seed_service").Logger(),
	}
}

func (s *seedService) SeedTechnicians(ctx context.Context, token string, items []dto.TechnicianSeed) (int64, error) {
	if !s.enabled {
		return 0, ErrSeedDisabled
	}
	if !s.validateToken(token) {
		return 0, ErrSeedUnauthorized
	}

	rows := make([]models.Technician, 0, len(items))
	for _, item := range items {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			continue
		}
		active := true
		if item.Active != nil {
			active = *item.Active
		}
		rows = append(rows, models.Technician{
			Name:   name,
			Role:   strings.ToUpper(strings.TrimSpace(item.Role)),
			Active: active,
		})
	}

	affected, err := s.technicians.UpsertBatch(ctx, rows)
	if err != nil {
		return 0, err
	}

	s.logger.Info().Int64("affected", affected).Msg("technicians seeded")

	return affected, nil
}

func (s *seedService) SeedEquipment(ctx context.Context, token string, request dto.SeedEquipmentRequest) (int64, error) {
	if !s.enabled {
		return 0, ErrSeedDisabled
	}
	if !s.validateToken(token) {
		return 0, ErrSeedUnauthorized
	}

	rows := make([]models.EquipmentModel, 0, len(request.Models))
	for _, item := range request.Models {
		manufacturer := strings.TrimSpace(item.Manufacturer)
		equipmentType := strings.TrimSpace(item.EquipmentType)
		model := strings.TrimSpace(item.Model)
		if manufacturer == "" || equipmentType == "" || model == "" {
			continue
		}
		row := models.EquipmentModel{
			Manufacturer:  manufacturer,
			EquipmentType: equipmentType,
			Model:         model,
			Spec2:         strings.TrimSpace(item.Spec2),
			Spec3:         strings.TrimSpace(item.Spec3),
		}
		if len(item.Extra) > 0 {
			extra := datatypes.JSONMap{}
			for key, value := range item.Extra {
				extra[key] = value
			}
			row.Extra = extra
		}
		rows = append(rows, row)
	}

	affected, err := s.equipment.UpsertModels(ctx, rows)
	if err != nil {
		return 0, err
	}

	labels := make([]models.SpecLabel, 0, len(request.Labels))
	for _, item := range request.Labels {
		equipmentType := strings.TrimSpace(item.EquipmentType)
		if equipmentType == "" {
			continue
		}
		labels = append(labels, models.SpecLabel{
			EquipmentType: equipmentType,
			Spec2Label:    strings.TrimSpace(item.Spec2Label),
			Spec3Label:    strings.TrimSpace(item.Spec3Label),
		})
	}

	labelCount, err := s.equipment.UpsertSpecLabels(ctx, labels)
	if err != nil {
		return 0, err
	}

	s.logger.Info().Int64("models", affected).Int64("labels", labelCount).Msg("equipment catalogue seeded")

	return affected + labelCount, nil
}

func (s *seedService) validateToken(token string) bool {
	expected := strings.TrimSpace(s.token)
	if expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(strings.TrimSpace(token))) == 1
}
