package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/fieldscribe/scribe-api/internal/models"
)

// ErrDuplicateChecksum indicates an insert collided with an existing
// submission checksum.
var ErrDuplicateChecksum = errors.New("submission checksum already exists")

// SubmissionFilter narrows submission queries.
type SubmissionFilter struct {
	TechnicianID  *uint
	Manufacturer  *string
	EquipmentType *string
}

// SubmissionRepository defines data operations for submissions.
type SubmissionRepository interface {
	List(ctx context.Context, filter SubmissionFilter) ([]models.Submission, error)
	GetByID(ctx context.Context, id uint) (models.Submission, error)
	ExistsByChecksum(ctx context.Context, checksum string) (bool, error)
	Create(ctx context.Context, submission *models.Submission) error
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository instantiates the repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Submission{}).
		Preload("Technician").
		Preload("Pairs", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		})
}

func (r *submissionRepository) List(ctx context.Context, filter SubmissionFilter) ([]models.Submission, error) {
	query := r.baseQuery(ctx)

	if filter.TechnicianID != nil {
		query = query.Where("technician_id = ?", *filter.TechnicianID)
	}

	if filter.Manufacturer != nil {
		query = query.Where("manufacturer = ?", *filter.Manufacturer)
	}

	if filter.EquipmentType != nil {
		query = query.Where("equipment_type = ?", *filter.EquipmentType)
	}

	var submissions []models.Submission
	if err := query.Order("created_at DESC").Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}

func (r *submissionRepository) GetByID(ctx context.Context, id uint) (models.Submission, error) {
	var submission models.Submission
	if err := r.baseQuery(ctx).First(&submission, id).Error; err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}

func (r *submissionRepository) ExistsByChecksum(ctx context.Context, checksum string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Submission{}).
		Where("checksum = ?", checksum).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *submissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	err := r.db.WithContext(ctx).Create(submission).Error
	if err != nil && isUniqueViolation(err) {
		return ErrDuplicateChecksum
	}

	return err
}

// isUniqueViolation matches unique constraint errors across the drivers in
// use (pgx SQLSTATE 23505, sqlite "UNIQUE constraint failed").
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	message := err.Error()
	return strings.Contains(message, "23505") || strings.Contains(message, "UNIQUE constraint failed")
}
