package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/fieldscribe/scribe-api/internal/dto"
	"github.com/fieldscribe/scribe-api/internal/repository"
)

// ReferenceService serves the lookup data the capture form renders:
// technicians and the manufacturer / equipment type / model hierarchy with
// its specification options and labels.
type ReferenceService interface {
	ListTechnicians(ctx context.Context) ([]dto.TechnicianResponse, error)
	ListManufacturers(ctx context.Context) ([]string, error)
	ListEquipmentTypes(ctx context.Context, manufacturer string) ([]string, error)
	ListModels(ctx context.Context, manufacturer, equipmentType string) ([]string, error)
	GetSpecifications(ctx context.Context, manufacturer, equipmentType, model string) (dto.SpecificationsResponse, error)
}

type referenceService struct {
	technicians repository.TechnicianRepository
	equipment   repository.EquipmentRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	logger      zerolog.Logger
}

// NewReferenceService builds the reference data aggregator. A nil cache
// disables caching and every call hits the database.
func NewReferenceService(technicians repository.TechnicianRepository, equipment repository.EquipmentRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) ReferenceService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &referenceService{
		technicians: technicians,
		equipment:   equipment,
		cache:       cache,
		cacheTTL:    ttl,
		logger:      logger.With().Str("component", "reference_service").Logger(),
	}
}

func (s *referenceService) ListTechnicians(ctx context.Context) ([]dto.TechnicianResponse, error) {
	return cached(ctx, s, "reference:technicians", func() ([]dto.TechnicianResponse, error) {
		technicians, err := s.technicians.ListActive(ctx)
		if err != nil {
			return nil, err
		}
		return dto.NewTechnicianResponseSlice(technicians), nil
	})
}

func (s *referenceService) ListManufacturers(ctx context.Context) ([]string, error) {
	return cached(ctx, s, "reference:manufacturers", func() ([]string, error) {
		return s.equipment.ListManufacturers(ctx)
	})
}

func (s *referenceService) ListEquipmentTypes(ctx context.Context, manufacturer string) ([]string, error) {
	key := fmt.Sprintf("reference:types:%s", manufacturer)
	return cached(ctx, s, key, func() ([]string, error) {
		return s.equipment.ListEquipmentTypes(ctx, manufacturer)
	})
}

func (s *referenceService) ListModels(ctx context.Context, manufacturer, equipmentType string) ([]string, error) {
	key := fmt.Sprintf("reference:models:%s:%s", manufacturer, equipmentType)
	return cached(ctx, s, key, func() ([]string, error) {
		return s.equipment.ListModels(ctx, manufacturer, equipmentType)
	})
}

func (s *referenceService) GetSpecifications(ctx context.Context, manufacturer, equipmentType, model string) (dto.SpecificationsResponse, error) {
	key := fmt.Sprintf("reference:specs:%s:%s:%s", manufacturer, equipmentType, model)
	return cached(ctx, s, key, func() (dto.SpecificationsResponse, error) {
		spec2, spec3, err := s.equipment.ListSpecOptions(ctx, manufacturer, equipmentType)
		if err != nil {
			return dto.SpecificationsResponse{}, err
		}

		response := dto.SpecificationsResponse{
			Spec2Options: spec2,
			Spec3Options: spec3,
			Spec2Label:   "Specifications 2",
			Spec3Label:   "Specifications 3",
		}

		item, err := s.equipment.GetModel(ctx, manufacturer, equipmentType, model)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.SpecificationsResponse{}, err
			}
		} else {
			response.DefaultSpec2 = item.Spec2
			response.DefaultSpec3 = item.Spec3
		}

		label, err := s.equipment.GetSpecLabels(ctx, equipmentType)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.SpecificationsResponse{}, err
			}
		} else {
			if label.Spec2Label != "" {
				response.Spec2Label = label.Spec2Label
			}
			if label.Spec3Label != "" {
				response.Spec3Label = label.Spec3Label
			}
		}

		return response, nil
	})
}

// cached wraps a loader with the read-through Redis cache. Cache failures
// degrade to a direct database read.
func cached[T any](ctx context.Context, s *referenceService, key string, load func() (T, error)) (T, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, key).Result(); err == nil {
			var value T
			if unmarshalErr := json.Unmarshal([]byte(raw), &value); unmarshalErr == nil {
				return value, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("failed to read reference cache")
		}
	}

	value, err := load()
	if err != nil {
		return value, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(value); err == nil {
			if err := s.cache.Set(ctx, key, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Str("key", key).Msg("failed to store reference cache")
			}
		}
	}

	return value, nil
}
