package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fieldscribe/scribe-api/internal/dto"
	"github.com/fieldscribe/scribe-api/internal/models"
)

type recordingTechnicianRepo struct {
	technicianRepoStub
	upserted []models.Technician
}

func (s *recordingTechnicianRepo) UpsertBatch(_ context.Context, technicians []models.Technician) (int64, error) {
	s.upserted = technicians
	return int64(len(technicians)), nil
}

type recordingEquipmentRepo struct {
	equipmentRepoStub
	upsertedModels []models.EquipmentModel
	upsertedLabels []models.SpecLabel
}

func (s *recordingEquipmentRepo) UpsertModels(_ context.Context, items []models.EquipmentModel) (int64, error) {
	s.upsertedModels = items
	return int64(len(items)), nil
}

func (s *recordingEquipmentRepo) UpsertSpecLabels(_ context.Context, labels []models.SpecLabel) (int64, error) {
	s.upsertedLabels = labels
	return int64(len(labels)), nil
}

func TestSeedServiceDisabled(t *testing.T) {
	svc := NewSeedService(&technicianRepoStub{}, &equipmentRepoStub{}, false, "token", testLogger())

	_, err := svc.SeedTechnicians(context.Background(), "token", nil)
	require.ErrorIs(t, err, ErrSeedDisabled)
}

func TestSeedServiceInvalidToken(t *testing.T) {
	svc := NewSeedService(&technicianRepoStub{}, &equipmentRepoStub{}, true, "expected", testLogger())

	_, err := svc.SeedTechnicians(context.Background(), "wrong", nil)
	require.ErrorIs(t, err, ErrSeedUnauthorized)
}

func TestSeedServiceEmptyTokenNeverMatches(t *testing.T) {
	svc := NewSeedService(&technicianRepoStub{}, &equipmentRepoStub{}, true, "", testLogger())

	_, err := svc.SeedTechnicians(context.Background(), "", nil)
	require.ErrorIs(t, err, ErrSeedUnauthorized)
}

func TestSeedServiceNormalizesTechnicians(t *testing.T) {
	repo := &recordingTechnicianRepo{}
	svc := NewSeedService(repo, &equipmentRepoStub{}, true, "token", testLogger())

	inactive := false
	affected, err := svc.SeedTechnicians(context.Background(), "token", []dto.TechnicianSeed{
		{Name: "  Alice Carver ", Role: "fse"},
		{Name: "Bob Miller", Role: "PM", Active: &inactive},
		{Name: "   ", Role: "FSE"},
	})
	require.NoError(t, err)
	require.Equal(t, int64(2), affected)
	require.Len(t, repo.upserted, 2)
	require.Equal(t, "Alice Carver", repo.upserted[0].Name)
	require.Equal(t, models.RoleFSE, repo.upserted[0].Role)
	require.True(t, repo.upserted[0].Active)
	require.False(t, repo.upserted[1].Active)
}

func TestSeedServiceSkipsBlankEquipmentRows(t *testing.T) {
	repo := &recordingEquipmentRepo{}
	svc := NewSeedService(&technicianRepoStub{}, repo, true, "token", testLogger())

	affected, err := svc.SeedEquipment(context.Background(), "token", dto.SeedEquipmentRequest{
		Models: []dto.EquipmentModelSeed{
			{Manufacturer: "  Bollegraaf ", EquipmentType: "Baler", Model: " HBC-120"},
			{Manufacturer: "   ", EquipmentType: "Baler", Model: "HBC-140"},
			{Manufacturer: "Bollegraaf", EquipmentType: "\t", Model: "HBC-160"},
		},
		Labels: []dto.SpecLabelSeed{
			{EquipmentType: "Baler", Spec2Label: "Frequency"},
			{EquipmentType: "  ", Spec2Label: "Ignored"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, int64(2), affected)
	require.Len(t, repo.upsertedModels, 1)
	require.Equal(t, "Bollegraaf", repo.upsertedModels[0].Manufacturer)
	require.Equal(t, "HBC-120", repo.upsertedModels[0].Model)
	require.Len(t, repo.upsertedLabels, 1)
	require.Equal(t, "Baler", repo.upsertedLabels[0].EquipmentType)
}
