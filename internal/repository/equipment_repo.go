package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fieldscribe/scribe-api/internal/models"
)

// EquipmentRepository exposes lookups over the equipment reference hierarchy.
type EquipmentRepository interface {
	ListManufacturers(ctx context.Context) ([]string, error)
	ListEquipmentTypes(ctx context.Context, manufacturer string) ([]string, error)
	ListModels(ctx context.Context, manufacturer, equipmentType string) ([]string, error)
	ListSpecOptions(ctx context.Context, manufacturer, equipmentType string) (spec2 []string, spec3 []string, err error)
	GetModel(ctx context.Context, manufacturer, equipmentType, model string) (models.EquipmentModel, error)
	GetSpecLabels(ctx context.Context, equipmentType string) (models.SpecLabel, error)
	UpsertModels(ctx context.Context, items []models.EquipmentModel) (int64, error)
	UpsertSpecLabels(ctx context.Context, items []models.SpecLabel) (int64, error)
}

type equipmentRepository struct {
	db *gorm.DB
}

// NewEquipmentRepository instantiates the repository.
func NewEquipmentRepository(db *gorm.DB) EquipmentRepository {
	return &equipmentRepository{db: db}
}

func (r *equipmentRepository) ListManufacturers(ctx context.Context) ([]string, error) {
	var manufacturers []string
	if err := r.db.WithContext(ctx).Model(&models.EquipmentModel{}).
		Distinct("manufacturer").
		Order("manufacturer ASC").
		Pluck("manufacturer", &manufacturers).Error; err != nil {
		return nil, err
	}

	return manufacturers, nil
}

func (r *equipmentRepository) ListEquipmentTypes(ctx context.Context, manufacturer string) ([]string, error) {
	var types []string
	if err := r.db.WithContext(ctx).Model(&models.EquipmentModel{}).
		Where("manufacturer = ?", manufacturer).
		Distinct("equipment_type").
		Order("equipment_type ASC").
		Pluck("equipment_type", &types).Error; err != nil {
		return nil, err
	}

	return types, nil
}

func (r *equipmentRepository) ListModels(ctx context.Context, manufacturer, equipmentType string) ([]string, error) {
	var names []string
	if err := r.db.WithContext(ctx).Model(&models.EquipmentModel{}).
		Where("manufacturer = ?", manufacturer).
		Where("equipment_type = ?", equipmentType).
		Distinct("model").
		Order("model ASC").
		Pluck("model", &names).Error; err != nil {
		return nil, err
	}

	return names, nil
}

func (r *equipmentRepository) ListSpecOptions(ctx context.Context, manufacturer, equipmentType string) ([]string, []string, error) {
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&models.EquipmentModel{}).
			Where("manufacturer = ?", manufacturer).
			Where("equipment_type = ?", equipmentType)
	}

	var spec2 []string
	if err := base().Where("spec2 <> ''").Distinct("spec2").Order("spec2 ASC").Pluck("spec2", &spec2).Error; err != nil {
		return nil, nil, err
	}

	var spec3 []string
	if err := base().Where("spec3 <> ''").Distinct("spec3").Order("spec3 ASC").Pluck("spec3", &spec3).Error; err != nil {
		return nil, nil, err
	}

	return spec2, spec3, nil
}

func (r *equipmentRepository) GetModel(ctx context.Context, manufacturer, equipmentType, model string) (models.EquipmentModel, error) {
	var item models.EquipmentModel
	if err := r.db.WithContext(ctx).
		Where("manufacturer = ?", manufacturer).
		Where("equipment_type = ?", equipmentType).
		Where("model = ?", model).
		First(&item).Error; err != nil {
		return models.EquipmentModel{}, err
	}

	return item, nil
}

func (r *equipmentRepository) GetSpecLabels(ctx context.Context, equipmentType string) (models.SpecLabel, error) {
	var label models.SpecLabel
	if err := r.db.WithContext(ctx).
		Where("equipment_type = ?", equipmentType).
		First(&label).Error; err != nil {
		return models.SpecLabel{}, err
	}

	return label, nil
}

func (r *equipmentRepository) UpsertModels(ctx context.Context, items []models.EquipmentModel) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "manufacturer"}, {Name: "equipment_type"}, {Name: "model"}},
		DoUpdates: clause.AssignmentColumns([]string{"spec2", "spec3", "extra", "updated_at"}),
	}).Create(&items)

	return result.RowsAffected, result.Error
}

func (r *equipmentRepository) UpsertSpecLabels(ctx context.Context, items []models.SpecLabel) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "equipment_type"}},
		DoUpdates: clause.AssignmentColumns([]string{"spec2_label", "spec3_label", "updated_at"}),
	}).Create(&items)

	return result.RowsAffected, result.Error
}
