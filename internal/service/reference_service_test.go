package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/fieldscribe/scribe-api/internal/models"
)

type countingEquipmentRepo struct {
	equipmentRepoStub
	manufacturerCalls int
}

func (s *countingEquipmentRepo) ListManufacturers(_ context.Context) ([]string, error) {
	s.manufacturerCalls++
	return []string{"Bollegraaf", "TOMRA"}, nil
}

func TestReferenceServiceListTechnicians(t *testing.T) {
	technicians := &technicianRepoStub{technicians: map[string]models.Technician{
		"Alice Carver": {ID: 1, Name: "Alice Carver", Role: models.RoleFSE, Active: true},
		"Gone Guy":     {ID: 2, Name: "Gone Guy", Role: models.RolePM, Active: false},
	}}
	svc := NewReferenceService(technicians, &equipmentRepoStub{}, nil, time.Minute, testLogger())

	out, err := svc.ListTechnicians(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, "Alice Carver", out[0].Name)
}

func TestReferenceServiceCachesLookups(t *testing.T) {
	server := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: server.Addr()})

	repo := &countingEquipmentRepo{}
	svc := NewReferenceService(&technicianRepoStub{}, repo, cache, time.Minute, testLogger())

	first, err := svc.ListManufacturers(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"Bollegraaf", "TOMRA"}, first)

	second, err := svc.ListManufacturers(context.Background())
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, repo.manufacturerCalls, "second call must be served from cache")
}

func TestReferenceServiceSpecificationsDefaults(t *testing.T) {
	repo := &equipmentRepoStub{known: map[string]models.EquipmentModel{
		equipmentKey("Bollegraaf", "Baler", "HBC-120"): {
			Manufacturer: "Bollegraaf", EquipmentType: "Baler", Model: "HBC-120",
			Spec2: "120t", Spec3: "Dual ram",
		},
	}}
	svc := NewReferenceService(&technicianRepoStub{}, repo, nil, time.Minute, testLogger())

	specs, err := svc.GetSpecifications(context.Background(), "Bollegraaf", "Baler", "HBC-120")
	require.NoError(t, err)
	require.Equal(t, "120t", specs.DefaultSpec2)
	require.Equal(t, "Dual ram", specs.DefaultSpec3)
	// No label row seeded, so generic labels apply.
	require.Equal(t, "Specifications 2", specs.Spec2Label)
	require.Equal(t, "Specifications 3", specs.Spec3Label)
}
