package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shenikar/crisis_response_system/internal/analysis"
	"github.com/shenikar/crisis_response_system/internal/broadcast"
	"github.com/shenikar/crisis_response_system/internal/config"
	"github.com/shenikar/crisis_response_system/internal/models"
	"github.com/shenikar/crisis_response_system/internal/service"
	"github.com/shenikar/crisis_response_system/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// stubRateLimiter - детерминированный счетчик окна для тестов
type stubRateLimiter struct {
	count int64
	err   error
}

func (s *stubRateLimiter) Hit(_ context.Context, _ string, _ time.Duration) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.count++
	return s.count, nil
}

// newTestHandler создает новый экземпляр Handler с мокированным сервисом
func newTestHandler(t *testing.T) (*Handler, *mocks.MockCrisisService, *gin.Engine) {
	return newTestHandlerWithLimiter(t, &stubRateLimiter{})
}

func newTestHandlerWithLimiter(t *testing.T, limiter RateLimiter) (*Handler, *mocks.MockCrisisService, *gin.Engine) {
	ctrl := gomock.NewController(t)
	mockService := mocks.NewMockCrisisService(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	cfg := &config.Config{
		AdminKey:          "test-admin-key",
		AllowedOrigins:    []string{"*"},
		AnalyzeRateLimit:  10,
		AnalyzeRateWindow: 30 * time.Minute,
	}

	hub := broadcast.NewHub(logger, cfg.AllowedOrigins)
	t.Cleanup(hub.Shutdown)

	handler := NewHandler(mockService, hub, logger, cfg)

	// Настройка Gin роутера для тестов
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api, limiter)

	return handler, mockService, router
}

// makeRequest - вспомогательная функция для выполнения HTTP-запросов
func makeRequest(router *gin.Engine, method, url string, body io.Reader, headers ...map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, h := range headers {
		for key, value := range h {
			req.Header.Set(key, value)
		}
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGetData_Success(t *testing.T) {
	_, mockService, router := newTestHandler(t)

	snapshot := &models.Snapshot{
		Incidents: []*models.Incident{{
			ID:        uuid.New(),
			Type:      "STRUCTURAL FIRE",
			Severity:  8,
			Status:    models.IncidentStatusPending,
			CreatedAt: time.Now(),
		}},
		Units: []*models.ForceUnit{{
			ID:     uuid.New(),
			Name:   "PCR-101",
			Type:   models.UnitTypePolice,
			Status: models.UnitStatusIdle,
		}},
		Advisories: []*models.Advisory{},
	}
	mockService.EXPECT().GetSnapshot(gomock.Any(), false).Return(snapshot, nil)

	w := makeRequest(router, "GET", "/api/v1/data", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp SnapshotResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Incidents, 1)
	assert.Equal(t, "STRUCTURAL FIRE", resp.Incidents[0].Type)
	require.Len(t, resp.Units, 1)
	assert.Equal(t, "PCR-101", resp.Units[0].Name)
}

func TestGetData_ActiveOnly(t *testing.T) {
	_, mockService, router := newTestHandler(t)

	mockService.EXPECT().GetSnapshot(gomock.Any(), true).Return(&models.Snapshot{
		Incidents:  []*models.Incident{},
		Units:      []*models.ForceUnit{},
		Advisories: []*models.Advisory{},
	}, nil)

	w := makeRequest(router, "GET", "/api/v1/data?active=true", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateIncident_Success(t *testing.T) {
	_, mockService, router := newTestHandler(t)
	incidentID := uuid.New()
	reqBody := CreateIncidentRequest{
		Type:        "GAS LEAK",
		Description: "Strong smell of gas near the market entrance",
		Severity:    7,
		Location: &LocationDTO{
			Address:     "Khan Market, New Delhi",
			Coordinates: []float64{28.6003, 77.2269},
		},
	}

	mockService.EXPECT().
		CreateIncident(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, inc *models.Incident) error {
			inc.ID = incidentID
			inc.Status = models.IncidentStatusPending
			inc.CreatedAt = time.Now()
			return nil
		}).Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/incidents", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp IncidentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, incidentID, resp.ID)
	assert.Equal(t, models.IncidentStatusPending, resp.Status)
	require.NotNil(t, resp.Latitude)
	assert.InDelta(t, 28.6003, *resp.Latitude, 0.0001)
}

func TestCreateIncident_InvalidJSON(t *testing.T) {
	_, mockService, router := newTestHandler(t)

	mockService.EXPECT().CreateIncident(gomock.Any(), gomock.Any()).Times(0) // Сервис не должен вызываться

	w := makeRequest(router, "POST", "/api/v1/incidents", bytes.NewBufferString(`{"type": "FIRE"`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid request body")
}

func TestCreateIncident_ValidationError(t *testing.T) {
	_, mockService, router := newTestHandler(t)
	reqBody := CreateIncidentRequest{ // Severity вне диапазона
		Type:        "FLOOD",
		Description: "Waterlogging on the main road",
		Severity:    15,
	}

	mockService.EXPECT().CreateIncident(gomock.Any(), gomock.Any()).Times(0) // Сервис не должен вызываться

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/incidents", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Error:Field validation for 'Severity' failed on the 'lte' tag")
}

func TestResolveIncident_Success(t *testing.T) {
	_, mockService, router := newTestHandler(t)
	id := uuid.New()

	mockService.EXPECT().ResolveIncident(gomock.Any(), id).Return(&models.Incident{
		ID:     id,
		Status: models.IncidentStatusResolved,
	}, nil)

	w := makeRequest(router, "POST", fmt.Sprintf("/api/v1/incidents/%s/resolve", id), nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp IncidentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.IncidentStatusResolved, resp.Status)
}

func TestResolveIncident_NotFound(t *testing.T) {
	_, mockService, router := newTestHandler(t)
	id := uuid.New()

	mockService.EXPECT().ResolveIncident(gomock.Any(), id).
		Return(nil, fmt.Errorf("service: %w", service.ErrIncidentNotFound))

	w := makeRequest(router, "POST", fmt.Sprintf("/api/v1/incidents/%s/resolve", id), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestResolveIncident_AlreadyResolved(t *testing.T) {
	_, mockService, router := newTestHandler(t)
	id := uuid.New()

	mockService.EXPECT().ResolveIncident(gomock.Any(), id).
		Return(nil, fmt.Errorf("service: %w", service.ErrIncidentClosed))

	w := makeRequest(router, "POST", fmt.Sprintf("/api/v1/incidents/%s/resolve", id), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetSuggestions_Success(t *testing.T) {
	_, mockService, router := newTestHandler(t)
	id := uuid.New()

	mockService.EXPECT().SuggestUnits(gomock.Any(), id).Return([]*models.UnitSuggestion{
		{
			Unit:       &models.ForceUnit{ID: uuid.New(), Name: "AMB-3", Type: models.UnitTypeMedical, Status: models.UnitStatusIdle},
			DistanceKm: 1.8,
		},
	}, nil)

	w := makeRequest(router, "GET", fmt.Sprintf("/api/v1/incidents/%s/suggestions", id), nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp []*SuggestionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "AMB-3", resp[0].Unit.Name)
	assert.InDelta(t, 1.8, resp[0].DistanceKm, 0.001)
}

func TestGetSuggestions_InvalidID(t *testing.T) {
	_, mockService, router := newTestHandler(t)

	mockService.EXPECT().SuggestUnits(gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "GET", "/api/v1/incidents/not-a-uuid/suggestions", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeploy_Success(t *testing.T) {
	_, mockService, router := newTestHandler(t)
	incidentID := uuid.New()
	unitID := uuid.New()

	mockService.EXPECT().Deploy(gomock.Any(), incidentID, unitID).Return(&models.Incident{
		ID:     incidentID,
		Status: models.IncidentStatusDispatched,
		AssignedUnit: &models.ForceUnit{
			ID:     unitID,
			Name:   "FT-12",
			Status: models.UnitStatusBusy,
		},
	}, nil)

	reqBody := DeployRequest{IncidentID: incidentID.String(), UnitID: unitID.String()}
	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/deploy", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp IncidentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.IncidentStatusDispatched, resp.Status)
	require.NotNil(t, resp.AssignedUnit)
	assert.Equal(t, models.UnitStatusBusy, resp.AssignedUnit.Status)
}

func TestDeploy_UnitUnavailable(t *testing.T) {
	_, mockService, router := newTestHandler(t)
	incidentID := uuid.New()
	unitID := uuid.New()

	mockService.EXPECT().Deploy(gomock.Any(), incidentID, unitID).
		Return(nil, fmt.Errorf("service: %w", service.ErrUnitUnavailable))

	reqBody := DeployRequest{IncidentID: incidentID.String(), UnitID: unitID.String()}
	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/deploy", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "not available")
}

func TestDeploy_InvalidUnitID(t *testing.T) {
	_, mockService, router := newTestHandler(t)

	mockService.EXPECT().Deploy(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	bodyBytes, _ := json.Marshal(DeployRequest{IncidentID: uuid.NewString(), UnitID: "not-a-uuid"})
	w := makeRequest(router, "POST", "/api/v1/deploy", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateUnit_Success(t *testing.T) {
	_, mockService, router := newTestHandler(t)
	unitID := uuid.New()
	reqBody := CreateUnitRequest{
		Name:      "AMB-7",
		Type:      models.UnitTypeMedical,
		Latitude:  28.63,
		Longitude: 77.22,
	}

	mockService.EXPECT().
		CreateUnit(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, unit *models.ForceUnit) error {
			unit.ID = unitID
			unit.Status = models.UnitStatusIdle
			return nil
		})

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/units", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp UnitResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, unitID, resp.ID)
	assert.Equal(t, models.UnitStatusIdle, resp.Status)
}

func TestCreateUnit_InvalidType(t *testing.T) {
	_, mockService, router := newTestHandler(t)

	mockService.EXPECT().CreateUnit(gomock.Any(), gomock.Any()).Times(0)

	bodyBytes, _ := json.Marshal(CreateUnitRequest{
		Name:      "TOW-1",
		Type:      "TOWTRUCK",
		Latitude:  28.63,
		Longitude: 77.22,
	})
	w := makeRequest(router, "POST", "/api/v1/units", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Error:Field validation for 'Type' failed on the 'oneof' tag")
}

func TestDeleteUnit_NotFound(t *testing.T) {
	_, mockService, router := newTestHandler(t)
	id := uuid.New()

	mockService.EXPECT().DeleteUnit(gomock.Any(), id).
		Return(fmt.Errorf("service: %w", service.ErrUnitNotFound))

	w := makeRequest(router, "DELETE", fmt.Sprintf("/api/v1/units/%s", id), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPostAdvisory_Success(t *testing.T) {
	_, mockService, router := newTestHandler(t)
	advisoryID := uuid.New()
	reqBody := AdvisoryRequest{Message: "Avoid the riverside road until further notice"}

	mockService.EXPECT().
		PostAdvisory(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, advisory *models.Advisory) error {
			advisory.ID = advisoryID
			advisory.Author = models.DefaultAdvisoryAuthor
			advisory.CreatedAt = time.Now()
			return nil
		})

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/advisory", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp AdvisoryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, advisoryID, resp.ID)
	assert.Equal(t, models.DefaultAdvisoryAuthor, resp.Author)
}

func TestPostAdvisory_RelatedIncidentNotFound(t *testing.T) {
	_, mockService, router := newTestHandler(t)
	reqBody := AdvisoryRequest{
		Message:           "Shelter in place until the all-clear",
		RelatedIncidentID: uuid.New().String(),
	}

	mockService.EXPECT().
		PostAdvisory(gomock.Any(), gomock.Any()).
		Return(fmt.Errorf("service: %w", service.ErrIncidentNotFound))

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/advisory", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "related incident not found")
}

func TestAnalyze_DegradedStill200(t *testing.T) {
	_, mockService, router := newTestHandler(t)
	reqBody := AnalyzeRequest{Text: "Loud explosion heard near the depot"}

	mockService.EXPECT().
		Analyze(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input analysis.Input) (*analysis.Result, error) {
			assert.Equal(t, analysis.TaskAnalysis, input.Task) // Режим по умолчанию
			return &analysis.Result{
				Task:       analysis.TaskAnalysis,
				Assessment: &models.Assessment{Type: "UNCLASSIFIED INCIDENT", Severity: 7, Degraded: true},
				Degraded:   true,
			}, nil
		})

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/analyze", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp analysis.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Degraded)
	require.NotNil(t, resp.Assessment)
	assert.Equal(t, "UNCLASSIFIED INCIDENT", resp.Assessment.Type)
}

func TestAnalyze_EmptyInput(t *testing.T) {
	_, mockService, router := newTestHandler(t)

	mockService.EXPECT().
		Analyze(gomock.Any(), gomock.Any()).
		Return(nil, fmt.Errorf("service: %w", analysis.ErrEmptyInput))

	bodyBytes, _ := json.Marshal(AnalyzeRequest{})
	w := makeRequest(router, "POST", "/api/v1/analyze", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyze_RateLimitExceeded(t *testing.T) {
	// Окно уже исчерпано: следующий запрос - одиннадцатый
	limiter := &stubRateLimiter{count: 10}
	_, mockService, router := newTestHandlerWithLimiter(t, limiter)

	mockService.EXPECT().Analyze(gomock.Any(), gomock.Any()).Times(0) // Сервис не должен вызываться

	bodyBytes, _ := json.Marshal(AnalyzeRequest{Text: "Smoke near the depot"})
	w := makeRequest(router, "POST", "/api/v1/analyze", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "rate limit exceeded")
}

func TestAnalyze_LastRequestInWindowAllowed(t *testing.T) {
	// Десятый запрос в окне еще проходит
	limiter := &stubRateLimiter{count: 9}
	_, mockService, router := newTestHandlerWithLimiter(t, limiter)

	mockService.EXPECT().Analyze(gomock.Any(), gomock.Any()).Return(&analysis.Result{
		Task:       analysis.TaskAnalysis,
		Assessment: &models.Assessment{Type: "GAS LEAK", Severity: 6},
	}, nil)

	bodyBytes, _ := json.Marshal(AnalyzeRequest{Text: "Smell of gas in the stairwell"})
	w := makeRequest(router, "POST", "/api/v1/analyze", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAnalyze_RateLimiterFailOpen(t *testing.T) {
	// Недоступный счетчик не должен блокировать запросы
	limiter := &stubRateLimiter{err: errors.New("redis down")}
	_, mockService, router := newTestHandlerWithLimiter(t, limiter)

	mockService.EXPECT().Analyze(gomock.Any(), gomock.Any()).Return(&analysis.Result{
		Task: analysis.TaskAdvisory,
		Text: "Stay indoors until the all-clear",
	}, nil)

	bodyBytes, _ := json.Marshal(AnalyzeRequest{Text: "Draft a public advisory", TaskType: "ADVISORY"})
	w := makeRequest(router, "POST", "/api/v1/analyze", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGenerateReport_Success(t *testing.T) {
	_, mockService, router := newTestHandler(t)

	mockService.EXPECT().GenerateReport(gomock.Any()).Return(&models.SituationReport{
		ExecutiveSummary: "Two active incidents in the southern district",
		Recommendations:  []string{"Stage an additional ambulance near the stadium"},
	}, nil)

	w := makeRequest(router, "POST", "/api/v1/report", bytes.NewBufferString(`{}`))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.SituationReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ExecutiveSummary)
}

func TestClear_Success(t *testing.T) {
	_, mockService, router := newTestHandler(t)

	mockService.EXPECT().Reset(gomock.Any()).Return(nil)

	w := makeRequest(router, "DELETE", "/api/v1/clear", nil, map[string]string{"X-Admin-Key": "test-admin-key"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "cleared")
}

func TestClear_WrongKey(t *testing.T) {
	_, mockService, router := newTestHandler(t)

	mockService.EXPECT().Reset(gomock.Any()).Times(0) // Состояние не должно меняться

	w := makeRequest(router, "DELETE", "/api/v1/clear", nil, map[string]string{"X-Admin-Key": "wrong-key"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestClear_MissingKey(t *testing.T) {
	_, mockService, router := newTestHandler(t)

	mockService.EXPECT().Reset(gomock.Any()).Times(0)

	w := makeRequest(router, "DELETE", "/api/v1/clear", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestClear_AdminKeyNotConfigured(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := mocks.NewMockCrisisService(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	cfg := &config.Config{AllowedOrigins: []string{"*"}} // ADMIN_KEY не задан
	hub := broadcast.NewHub(logger, cfg.AllowedOrigins)
	t.Cleanup(hub.Shutdown)

	handler := NewHandler(mockService, hub, logger, cfg)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler.RegisterRoutes(router.Group("/api/v1"), &stubRateLimiter{})

	mockService.EXPECT().Reset(gomock.Any()).Times(0)

	w := makeRequest(router, "DELETE", "/api/v1/clear", nil, map[string]string{"X-Admin-Key": "any"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHealthCheck(t *testing.T) {
	_, _, router := newTestHandler(t)

	w := makeRequest(router, "GET", "/api/v1/system/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestGetData_ServiceError(t *testing.T) {
	_, mockService, router := newTestHandler(t)

	mockService.EXPECT().GetSnapshot(gomock.Any(), false).Return(nil, errors.New("db down"))

	w := makeRequest(router, "GET", "/api/v1/data", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
