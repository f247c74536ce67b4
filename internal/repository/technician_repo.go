package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fieldscribe/scribe-api/internal/models"
)

// TechnicianRepository defines data operations for technicians.
type TechnicianRepository interface {
	ListActive(ctx context.Context) ([]models.Technician, error)
	GetByName(ctx context.Context, name string) (models.Technician, error)
	UpsertBatch(ctx context.Context, technicians []models.Technician) (int64, error)
}

type technicianRepository struct {
	db *gorm.DB
}

// NewTechnicianRepository instantiates the repository.
func NewTechnicianRepository(db *gorm.DB) TechnicianRepository {
	return &technicianRepository{db: db}
}

func (r *technicianRepository) ListActive(ctx context.Context) ([]models.Technician, error) {
	var technicians []models.Technician
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("name ASC").
		Find(&technicians).Error; err != nil {
		return nil, err
	}

	return technicians, nil
}

func (r *technicianRepository) GetByName(ctx context.Context, name string) (models.Technician, error) {
	var technician models.Technician
	if err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&technician).Error; err != nil {
		return models.Technician{}, err
	}

	return technician, nil
}

func (r *technicianRepository) UpsertBatch(ctx context.Context, technicians []models.Technician) (int64, error) {
	if len(technicians) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"role", "active", "updated_at"}),
	}).Create(&technicians)

	return result.RowsAffected, result.Error
}
