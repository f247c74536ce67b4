package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fieldscribe/scribe-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Technician{},
		&models.EquipmentModel{},
		&models.SpecLabel{},
		&models.Submission{},
		&models.QAPair{},
	))
	return db
}

func seedTechnician(t *testing.T, db *gorm.DB, name string) models.Technician {
	t.Helper()
	technician := models.Technician{Name: name, Role: models.RoleFSE, Active: true}
	require.NoError(t, db.Create(&technician).Error)
	return technician
}

func buildSubmission(technicianID uint, checksum string) models.Submission {
	return models.Submission{
		TechnicianID:  technicianID,
		Manufacturer:  "Bollegraaf",
		EquipmentType: "Baler",
		Model:         "HBC-120",
		QAText:        "Q1: ok?\nA1: yes.",
		NumQuestions:  1,
		NumAnswers:    1,
		PointsAwarded: 1,
		Checksum:      checksum,
		EntryTime:     time.Now(),
		Pairs: []models.QAPair{
			{Position: 1, Question: "ok?", Answer: "yes."},
		},
	}
}

func TestSubmissionRepositoryCreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubmissionRepository(db)
	technician := seedTechnician(t, db, "Alice Carver")

	submission := buildSubmission(technician.ID, "checksum-1")
	require.NoError(t, repo.Create(context.Background(), &submission))

	loaded, err := repo.GetByID(context.Background(), submission.ID)
	require.NoError(t, err)
	require.Equal(t, "Alice Carver", loaded.Technician.Name)
	require.Len(t, loaded.Pairs, 1)
	require.Equal(t, "ok?", loaded.Pairs[0].Question)
}

func TestSubmissionRepositoryDuplicateChecksum(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubmissionRepository(db)
	technician := seedTechnician(t, db, "Bob Miller")

	first := buildSubmission(technician.ID, "checksum-dup")
	require.NoError(t, repo.Create(context.Background(), &first))

	second := buildSubmission(technician.ID, "checksum-dup")
	err := repo.Create(context.Background(), &second)
	require.ErrorIs(t, err, ErrDuplicateChecksum)

	exists, err := repo.ExistsByChecksum(context.Background(), "checksum-dup")
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = repo.ExistsByChecksum(context.Background(), "checksum-other")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestSubmissionRepositoryListFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubmissionRepository(db)
	alice := seedTechnician(t, db, "Alice Carver")
	bob := seedTechnician(t, db, "Bob Miller")

	first := buildSubmission(alice.ID, "checksum-a")
	second := buildSubmission(bob.ID, "checksum-b")
	second.Manufacturer = "TOMRA"
	require.NoError(t, repo.Create(context.Background(), &first))
	require.NoError(t, repo.Create(context.Background(), &second))

	all, err := repo.List(context.Background(), SubmissionFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	byTechnician, err := repo.List(context.Background(), SubmissionFilter{TechnicianID: &alice.ID})
	require.NoError(t, err)
	require.Len(t, byTechnician, 1)
	require.Equal(t, alice.ID, byTechnician[0].TechnicianID)

	manufacturer := "TOMRA"
	byManufacturer, err := repo.List(context.Background(), SubmissionFilter{Manufacturer: &manufacturer})
	require.NoError(t, err)
	require.Len(t, byManufacturer, 1)
	require.Equal(t, bob.ID, byManufacturer[0].TechnicianID)
}
