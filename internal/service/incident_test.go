package service_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shenikar/crisis_response_system/internal/analysis"
	analysismocks "github.com/shenikar/crisis_response_system/internal/analysis/mocks"
	"github.com/shenikar/crisis_response_system/internal/broadcast"
	broadcastmocks "github.com/shenikar/crisis_response_system/internal/broadcast/mocks"
	"github.com/shenikar/crisis_response_system/internal/config"
	"github.com/shenikar/crisis_response_system/internal/models"
	"github.com/shenikar/crisis_response_system/internal/service"
	"github.com/shenikar/crisis_response_system/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type serviceMocks struct {
	incidents  *mocks.MockIncidentRepository
	units      *mocks.MockUnitRepository
	advisories *mocks.MockAdvisoryRepository
	cache      *mocks.MockSnapshotCache
	analyzer   *analysismocks.MockAnalyzer
	publisher  *broadcastmocks.MockEventPublisher
}

func newTestService(t *testing.T) (service.CrisisService, *serviceMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)

	m := &serviceMocks{
		incidents:  mocks.NewMockIncidentRepository(ctrl),
		units:      mocks.NewMockUnitRepository(ctrl),
		advisories: mocks.NewMockAdvisoryRepository(ctrl),
		cache:      mocks.NewMockSnapshotCache(ctrl),
		analyzer:   analysismocks.NewMockAnalyzer(ctrl),
		publisher:  broadcastmocks.NewMockEventPublisher(ctrl),
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	cfg := &config.Config{
		AdvisoryFeedLimit: 50,
		SeedDefaultUnits:  true,
	}

	svc := service.NewCrisisService(
		m.incidents, m.units, m.advisories, m.cache, m.analyzer, m.publisher, log, cfg,
	)
	return svc, m
}

func ptrFloat(v float64) *float64 { return &v }

func TestGetSnapshot_CacheHit(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()

	cached := &models.Snapshot{
		Incidents:  []*models.Incident{{ID: uuid.New(), Type: "FIRE"}},
		Units:      []*models.ForceUnit{},
		Advisories: []*models.Advisory{},
	}
	m.cache.EXPECT().Get(ctx).Return(cached, nil)

	snapshot, err := svc.GetSnapshot(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, cached, snapshot)
}

func TestGetSnapshot_CacheMissSeedsDefaults(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()

	seeded := service.DefaultUnits()

	m.cache.EXPECT().Get(ctx).Return(nil, nil)
	m.units.EXPECT().List(ctx).Return([]*models.ForceUnit{}, nil)
	m.units.EXPECT().SeedIfEmpty(ctx, gomock.Len(len(seeded))).Return(true, nil)
	m.units.EXPECT().List(ctx).Return(seeded, nil)
	m.incidents.EXPECT().List(ctx, false).Return([]*models.Incident{}, nil)
	m.advisories.EXPECT().ListRecent(ctx, 50).Return([]*models.Advisory{}, nil)
	m.cache.EXPECT().Set(ctx, gomock.Any()).Return(nil)

	snapshot, err := svc.GetSnapshot(ctx, false)
	require.NoError(t, err)
	assert.Len(t, snapshot.Units, len(seeded))
}

func TestGetSnapshot_ActiveOnlyBypassesCache(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()

	units := []*models.ForceUnit{{ID: uuid.New(), Name: "PCR-101", Type: models.UnitTypePolice, Status: models.UnitStatusIdle}}
	m.units.EXPECT().List(ctx).Return(units, nil)
	m.incidents.EXPECT().List(ctx, true).Return([]*models.Incident{}, nil)
	m.advisories.EXPECT().ListRecent(ctx, 50).Return([]*models.Advisory{}, nil)

	snapshot, err := svc.GetSnapshot(ctx, true)
	require.NoError(t, err)
	assert.Len(t, snapshot.Units, 1)
}

func TestGetSnapshot_CacheReadErrorFallsThrough(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()

	units := []*models.ForceUnit{{ID: uuid.New(), Name: "FT-12"}}
	m.cache.EXPECT().Get(ctx).Return(nil, errors.New("redis down"))
	m.units.EXPECT().List(ctx).Return(units, nil)
	m.incidents.EXPECT().List(ctx, false).Return([]*models.Incident{}, nil)
	m.advisories.EXPECT().ListRecent(ctx, 50).Return([]*models.Advisory{}, nil)
	m.cache.EXPECT().Set(ctx, gomock.Any()).Return(errors.New("redis down"))

	snapshot, err := svc.GetSnapshot(ctx, false)
	require.NoError(t, err)
	assert.Len(t, snapshot.Units, 1)
}

func TestGetSnapshot_RepeatedReadsReturnSameState(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()

	units := []*models.ForceUnit{{ID: uuid.New(), Name: "PCR-101", Type: models.UnitTypePolice, Status: models.UnitStatusIdle}}
	incidents := []*models.Incident{{ID: uuid.New(), Type: "FLOOD", Severity: 6}}
	advisories := []*models.Advisory{{ID: uuid.New(), Message: "Avoid the riverside road"}}

	var cached *models.Snapshot
	gomock.InOrder(
		m.cache.EXPECT().Get(ctx).Return(nil, nil),
		m.units.EXPECT().List(ctx).Return(units, nil),
		m.incidents.EXPECT().List(ctx, false).Return(incidents, nil),
		m.advisories.EXPECT().ListRecent(ctx, 50).Return(advisories, nil),
		m.cache.EXPECT().Set(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, s *models.Snapshot) error {
				cached = s
				return nil
			}),
		m.cache.EXPECT().Get(ctx).DoAndReturn(
			func(context.Context) (*models.Snapshot, error) {
				return cached, nil
			}),
	)

	first, err := svc.GetSnapshot(ctx, false)
	require.NoError(t, err)

	second, err := svc.GetSnapshot(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCreateIncident_Success(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()

	incident := &models.Incident{
		Type:        "STRUCTURAL FIRE",
		Description: "Smoke reported on the third floor",
		Severity:    8,
		Status:      "DISPATCHED", // клиентский статус игнорируется
	}

	m.incidents.EXPECT().Create(ctx, incident).DoAndReturn(
		func(_ context.Context, inc *models.Incident) error {
			assert.Equal(t, models.IncidentStatusPending, inc.Status)
			assert.Nil(t, inc.AssignedUnit)
			inc.ID = uuid.New()
			return nil
		})
	m.cache.EXPECT().Invalidate(ctx).Return(nil)
	m.incidents.EXPECT().List(ctx, false).Return([]*models.Incident{incident}, nil)
	m.units.EXPECT().List(ctx).Return([]*models.ForceUnit{}, nil)
	m.publisher.EXPECT().Publish(broadcast.EventIncidentAlert, gomock.Any()).Do(
		func(_ string, payload any) {
			alert, ok := payload.(service.IncidentAlert)
			require.True(t, ok)
			assert.Equal(t, incident, alert.NewIncident)
		})

	err := svc.CreateIncident(ctx, incident)
	require.NoError(t, err)
}

func TestCreateIncident_RepositoryError(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()

	incident := &models.Incident{Type: "FLOOD", Severity: 5}
	m.incidents.EXPECT().Create(ctx, incident).Return(errors.New("db error"))

	err := svc.CreateIncident(ctx, incident)
	assert.Error(t, err)
}

func TestDeploy_Success(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()

	incidentID := uuid.New()
	unitID := uuid.New()
	dispatched := &models.Incident{
		ID:     incidentID,
		Status: models.IncidentStatusDispatched,
		AssignedUnit: &models.ForceUnit{
			ID:     unitID,
			Status: models.UnitStatusBusy,
		},
	}

	m.incidents.EXPECT().Dispatch(ctx, incidentID, unitID).Return(dispatched, nil)
	m.cache.EXPECT().Invalidate(ctx).Return(nil)
	m.incidents.EXPECT().List(ctx, false).Return([]*models.Incident{dispatched}, nil)
	m.units.EXPECT().List(ctx).Return([]*models.ForceUnit{dispatched.AssignedUnit}, nil)
	m.publisher.EXPECT().Publish(broadcast.EventIncidentAlert, gomock.Any())

	incident, err := svc.Deploy(ctx, incidentID, unitID)
	require.NoError(t, err)
	assert.Equal(t, models.IncidentStatusDispatched, incident.Status)
	require.NotNil(t, incident.AssignedUnit)
	assert.Equal(t, models.UnitStatusBusy, incident.AssignedUnit.Status)
}

func TestDeploy_UnitUnavailable(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()

	incidentID := uuid.New()
	unitID := uuid.New()
	m.incidents.EXPECT().Dispatch(ctx, incidentID, unitID).Return(nil, service.ErrUnitUnavailable)

	incident, err := svc.Deploy(ctx, incidentID, unitID)
	assert.Nil(t, incident)
	assert.ErrorIs(t, err, service.ErrUnitUnavailable)
}

func TestResolveIncident_Success(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()

	id := uuid.New()
	resolved := &models.Incident{ID: id, Status: models.IncidentStatusResolved}

	m.incidents.EXPECT().Resolve(ctx, id).Return(resolved, nil)
	m.cache.EXPECT().Invalidate(ctx).Return(nil)
	m.incidents.EXPECT().List(ctx, false).Return([]*models.Incident{resolved}, nil)
	m.units.EXPECT().List(ctx).Return([]*models.ForceUnit{}, nil)
	m.publisher.EXPECT().Publish(broadcast.EventIncidentAlert, gomock.Any())

	incident, err := svc.ResolveIncident(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.IncidentStatusResolved, incident.Status)
}

func TestResolveIncident_NotFound(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()

	id := uuid.New()
	m.incidents.EXPECT().Resolve(ctx, id).Return(nil, service.ErrIncidentNotFound)

	incident, err := svc.ResolveIncident(ctx, id)
	assert.Nil(t, incident)
	assert.ErrorIs(t, err, service.ErrIncidentNotFound)
}

func TestSuggestUnits_NoLocation(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()

	id := uuid.New()
	m.incidents.EXPECT().GetByID(ctx, id).Return(&models.Incident{ID: id, Type: "RIOT"}, nil)

	suggestions, err := svc.SuggestUnits(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, suggestions)
}

func TestSuggestUnits_NearestIdlePerType(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()

	id := uuid.New()
	incident := &models.Incident{
		ID:        id,
		Latitude:  ptrFloat(28.6139),
		Longitude: ptrFloat(77.2090),
	}
	units := []*models.ForceUnit{
		{ID: uuid.New(), Name: "PCR-101", Type: models.UnitTypePolice, Status: models.UnitStatusIdle, Latitude: 28.62, Longitude: 77.21},
		{ID: uuid.New(), Name: "PCR-102", Type: models.UnitTypePolice, Status: models.UnitStatusIdle, Latitude: 28.90, Longitude: 77.60},
		{ID: uuid.New(), Name: "FT-12", Type: models.UnitTypeFire, Status: models.UnitStatusBusy, Latitude: 28.61, Longitude: 77.20},
	}

	m.incidents.EXPECT().GetByID(ctx, id).Return(incident, nil)
	m.units.EXPECT().List(ctx).Return(units, nil)

	suggestions, err := svc.SuggestUnits(ctx, id)
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, "PCR-101", suggestions[0].Unit.Name)
}

func TestPostAdvisory_DefaultAuthor(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()

	advisory := &models.Advisory{Message: "Avoid the riverside road until further notice"}

	m.advisories.EXPECT().Create(ctx, advisory).DoAndReturn(
		func(_ context.Context, a *models.Advisory) error {
			assert.Equal(t, models.DefaultAdvisoryAuthor, a.Author)
			a.ID = uuid.New()
			return nil
		})
	m.cache.EXPECT().Invalidate(ctx).Return(nil)
	m.publisher.EXPECT().Publish(broadcast.EventAdvisoryPosted, advisory)

	err := svc.PostAdvisory(ctx, advisory)
	require.NoError(t, err)
}

func TestPostAdvisory_KeepsExplicitAuthor(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()

	advisory := &models.Advisory{Message: "Shelter open at the city hall", Author: "District Officer"}

	m.advisories.EXPECT().Create(ctx, advisory).DoAndReturn(
		func(_ context.Context, a *models.Advisory) error {
			assert.Equal(t, "District Officer", a.Author)
			return nil
		})
	m.cache.EXPECT().Invalidate(ctx).Return(nil)
	m.publisher.EXPECT().Publish(broadcast.EventAdvisoryPosted, advisory)

	err := svc.PostAdvisory(ctx, advisory)
	require.NoError(t, err)
}

func TestCreateUnit_ForcesIdleStatus(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()

	unit := &models.ForceUnit{
		Name:      "AMB-7",
		Type:      models.UnitTypeMedical,
		Status:    models.UnitStatusBusy, // клиентский статус игнорируется
		Latitude:  28.63,
		Longitude: 77.22,
	}

	m.units.EXPECT().Create(ctx, unit).DoAndReturn(
		func(_ context.Context, u *models.ForceUnit) error {
			assert.Equal(t, models.UnitStatusIdle, u.Status)
			u.ID = uuid.New()
			return nil
		})
	m.cache.EXPECT().Invalidate(ctx).Return(nil)
	m.units.EXPECT().List(ctx).Return([]*models.ForceUnit{unit}, nil)
	m.publisher.EXPECT().Publish(broadcast.EventUnitsUpdated, gomock.Any())

	err := svc.CreateUnit(ctx, unit)
	require.NoError(t, err)
}

func TestDeleteUnit_NotFound(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()

	id := uuid.New()
	m.units.EXPECT().Delete(ctx, id).Return(service.ErrUnitNotFound)

	err := svc.DeleteUnit(ctx, id)
	assert.ErrorIs(t, err, service.ErrUnitNotFound)
}

func TestAnalyze_DelegatesToAnalyzer(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()

	input := analysis.Input{Text: "Gas leak near the market", Task: analysis.TaskAnalysis}
	expected := &analysis.Result{
		Task:       analysis.TaskAnalysis,
		Assessment: &models.Assessment{Type: "GAS LEAK", Severity: 7},
	}
	m.analyzer.EXPECT().Analyze(ctx, input).Return(expected, nil)

	result, err := svc.Analyze(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, expected, result)
}

func TestGenerateReport_Success(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()

	incidents := []*models.Incident{{ID: uuid.New(), Type: "FLOOD", Severity: 6}}
	report := &models.SituationReport{ExecutiveSummary: "One active flood in the eastern district"}

	m.incidents.EXPECT().List(ctx, false).Return(incidents, nil)
	m.analyzer.EXPECT().Report(ctx, incidents).Return(report, nil)

	got, err := svc.GenerateReport(ctx)
	require.NoError(t, err)
	assert.Equal(t, report, got)
}

func TestReset_BroadcastSequence(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()

	m.incidents.EXPECT().DeleteAll(ctx).Return(nil)
	m.advisories.EXPECT().DeleteAll(ctx).Return(nil)
	m.units.EXPECT().ResetAll(ctx).Return(nil)
	m.cache.EXPECT().Invalidate(ctx).Return(nil)

	m.incidents.EXPECT().List(ctx, false).Return([]*models.Incident{}, nil)
	m.units.EXPECT().List(ctx).Return([]*models.ForceUnit{}, nil)

	gomock.InOrder(
		m.publisher.EXPECT().Publish(broadcast.EventIncidentAlert, gomock.Any()),
		m.publisher.EXPECT().Publish(broadcast.EventAdvisoriesCleared, gomock.Nil()),
		m.publisher.EXPECT().Publish(broadcast.EventSystemReset, gomock.Nil()),
	)

	err := svc.Reset(ctx)
	require.NoError(t, err)
}

func TestReset_UnitsResetError(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()

	m.incidents.EXPECT().DeleteAll(ctx).Return(nil)
	m.advisories.EXPECT().DeleteAll(ctx).Return(nil)
	m.units.EXPECT().ResetAll(ctx).Return(errors.New("db error"))

	err := svc.Reset(ctx)
	assert.Error(t, err)
}
