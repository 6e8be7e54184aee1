package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shenikar/crisis_response_system/internal/analysis"
	"github.com/shenikar/crisis_response_system/internal/broadcast"
	"github.com/shenikar/crisis_response_system/internal/config"
	"github.com/shenikar/crisis_response_system/internal/models"
	"github.com/sirupsen/logrus"
)

// Доменные ошибки, транслируемые хэндлерами в HTTP-статусы
var (
	ErrIncidentNotFound = errors.New("incident not found")
	ErrUnitNotFound     = errors.New("unit not found")
	ErrUnitUnavailable  = errors.New("unit is not available for dispatch")
	ErrIncidentClosed   = errors.New("incident is not open for this transition")
)

// IncidentRepository определяет контракт для работы с бд инцидентов
type IncidentRepository interface {
	Create(ctx context.Context, incident *models.Incident) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	List(ctx context.Context, activeOnly bool) ([]*models.Incident, error)
	// Dispatch атомарно переводит подразделение IDLE -> BUSY и инцидент в
	// DISPATCHED. Возвращает ErrUnitUnavailable, если подразделение уже занято.
	Dispatch(ctx context.Context, incidentID, unitID uuid.UUID) (*models.Incident, error)
	// Resolve закрывает инцидент и освобождает назначенное подразделение
	Resolve(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	DeleteAll(ctx context.Context) error
}

// UnitRepository определяет контракт для работы с бд подразделений
type UnitRepository interface {
	Create(ctx context.Context, unit *models.ForceUnit) error
	List(ctx context.Context) ([]*models.ForceUnit, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ResetAll(ctx context.Context) error
	// SeedIfEmpty вставляет дефолтный состав, только если таблица пуста
	SeedIfEmpty(ctx context.Context, units []*models.ForceUnit) (bool, error)
}

// AdvisoryRepository определяет контракт для работы с бд оповещений
type AdvisoryRepository interface {
	Create(ctx context.Context, advisory *models.Advisory) error
	ListRecent(ctx context.Context, limit int) ([]*models.Advisory, error)
	DeleteAll(ctx context.Context) error
}

// SnapshotCache - кэш агрегированного состояния для bulk-read.
// Get возвращает (nil, nil) при промахе.
type SnapshotCache interface {
	Get(ctx context.Context) (*models.Snapshot, error)
	Set(ctx context.Context, snapshot *models.Snapshot) error
	Invalidate(ctx context.Context) error
}

// CrisisService определяет контракт бизнес-логики координации реагирования
type CrisisService interface {
	GetSnapshot(ctx context.Context, activeOnly bool) (*models.Snapshot, error)
	CreateIncident(ctx context.Context, incident *models.Incident) error
	ResolveIncident(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	SuggestUnits(ctx context.Context, incidentID uuid.UUID) ([]*models.UnitSuggestion, error)
	Deploy(ctx context.Context, incidentID, unitID uuid.UUID) (*models.Incident, error)
	CreateUnit(ctx context.Context, unit *models.ForceUnit) error
	ListUnits(ctx context.Context) ([]*models.ForceUnit, error)
	DeleteUnit(ctx context.Context, id uuid.UUID) error
	PostAdvisory(ctx context.Context, advisory *models.Advisory) error
	Analyze(ctx context.Context, input analysis.Input) (*analysis.Result, error)
	GenerateReport(ctx context.Context) (*models.SituationReport, error)
	Reset(ctx context.Context) error
}

// IncidentAlert - полезная нагрузка события incident_alert: полные списки
// плюс инцидент, вызвавший рассылку
type IncidentAlert struct {
	Incidents   []*models.Incident  `json:"incidents"`
	Units       []*models.ForceUnit `json:"units"`
	NewIncident *models.Incident    `json:"new_incident,omitempty"`
}

type crisisService struct {
	incidents  IncidentRepository
	units      UnitRepository
	advisories AdvisoryRepository
	cache      SnapshotCache
	analyzer   analysis.Analyzer
	publisher  broadcast.EventPublisher
	logger     *logrus.Logger
	cfg        *config.Config
}

func NewCrisisService(
	incidents IncidentRepository,
	units UnitRepository,
	advisories AdvisoryRepository,
	cache SnapshotCache,
	analyzer analysis.Analyzer,
	publisher broadcast.EventPublisher,
	logger *logrus.Logger,
	cfg *config.Config,
) CrisisService {
	return &crisisService{
		incidents:  incidents,
		units:      units,
		advisories: advisories,
		cache:      cache,
		analyzer:   analyzer,
		publisher:  publisher,
		logger:     logger,
		cfg:        cfg,
	}
}

// GetSnapshot возвращает агрегированное состояние для первичной загрузки
// клиента. Полный снимок кэшируется, выборка только активных идет мимо кэша.
func (s *crisisService) GetSnapshot(ctx context.Context, activeOnly bool) (*models.Snapshot, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "crisis",
		"method":  "GetSnapshot",
	})

	if !activeOnly {
		cached, err := s.cache.Get(ctx)
		if err != nil {
			log.WithError(err).Warn("Snapshot cache read failed")
		} else if cached != nil {
			log.Debug("Snapshot served from cache")
			return cached, nil
		}
	}

	units, err := s.units.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: could not list units: %w", err)
	}

	// Ленивое заселение дефолтного состава при первом обращении
	if len(units) == 0 && s.cfg.SeedDefaultUnits {
		seeded, err := s.units.SeedIfEmpty(ctx, DefaultUnits())
		if err != nil {
			return nil, fmt.Errorf("service: could not seed default units: %w", err)
		}
		if seeded {
			log.Info("Seeded default force units")
			if units, err = s.units.List(ctx); err != nil {
				return nil, fmt.Errorf("service: could not list units after seeding: %w", err)
			}
		}
	}

	incidents, err := s.incidents.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("service: could not list incidents: %w", err)
	}

	advisories, err := s.advisories.ListRecent(ctx, s.cfg.AdvisoryFeedLimit)
	if err != nil {
		return nil, fmt.Errorf("service: could not list advisories: %w", err)
	}

	snapshot := &models.Snapshot{Incidents: incidents, Units: units, Advisories: advisories}
	if !activeOnly {
		if err := s.cache.Set(ctx, snapshot); err != nil {
			log.WithError(err).Warn("Snapshot cache write failed")
		}
	}
	return snapshot, nil
}

// CreateIncident сохраняет инцидент и рассылает incident_alert. Событие
// уходит только после подтвержденной записи.
func (s *crisisService) CreateIncident(ctx context.Context, incident *models.Incident) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "crisis",
		"method":  "CreateIncident",
		"type":    incident.Type,
	})
	log.Info("Attempting to create a new incident")

	incident.Status = models.IncidentStatusPending
	incident.AssignedUnit = nil
	if err := s.incidents.Create(ctx, incident); err != nil {
		log.WithError(err).Error("Failed to create incident in repository")
		return fmt.Errorf("service: could not create incident: %w", err)
	}

	s.invalidateSnapshot(ctx)
	s.broadcastIncidentAlert(ctx, incident)
	log.WithField("incident_id", incident.ID).Info("Incident created successfully")
	return nil
}

// ResolveIncident закрывает инцидент и возвращает подразделение в строй
func (s *crisisService) ResolveIncident(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "crisis",
		"method":      "ResolveIncident",
		"incident_id": id,
	})
	log.Info("Attempting to resolve incident")

	incident, err := s.incidents.Resolve(ctx, id)
	if err != nil {
		log.WithError(err).Error("Failed to resolve incident in repository")
		return nil, fmt.Errorf("service: could not resolve incident: %w", err)
	}

	s.invalidateSnapshot(ctx)
	s.broadcastIncidentAlert(ctx, incident)
	log.Info("Incident resolved successfully")
	return incident, nil
}

// SuggestUnits подбирает ближайшее свободное подразделение каждого типа
func (s *crisisService) SuggestUnits(ctx context.Context, incidentID uuid.UUID) ([]*models.UnitSuggestion, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "crisis",
		"method":      "SuggestUnits",
		"incident_id": incidentID,
	})

	incident, err := s.incidents.GetByID(ctx, incidentID)
	if err != nil {
		log.WithError(err).Warn("Failed to get incident for suggestions")
		return nil, fmt.Errorf("service: could not get incident: %w", err)
	}
	if !incident.HasLocation() {
		log.Info("Incident has no coordinates, no suggestions")
		return []*models.UnitSuggestion{}, nil
	}

	units, err := s.units.List(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to list units for suggestions")
		return nil, fmt.Errorf("service: could not list units: %w", err)
	}

	suggestions := nearestIdlePerType(*incident.Latitude, *incident.Longitude, units)
	log.WithField("count", len(suggestions)).Info("Dispatch suggestions computed")
	return suggestions, nil
}

// Deploy атомарно назначает подразделение на инцидент
func (s *crisisService) Deploy(ctx context.Context, incidentID, unitID uuid.UUID) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "crisis",
		"method":      "Deploy",
		"incident_id": incidentID,
		"unit_id":     unitID,
	})
	log.Info("Attempting to deploy unit")

	incident, err := s.incidents.Dispatch(ctx, incidentID, unitID)
	if err != nil {
		if errors.Is(err, ErrUnitUnavailable) {
			log.Warn("Unit is already engaged, dispatch rejected")
		} else {
			log.WithError(err).Error("Failed to dispatch in repository")
		}
		return nil, fmt.Errorf("service: could not deploy unit: %w", err)
	}

	s.invalidateSnapshot(ctx)
	s.broadcastIncidentAlert(ctx, incident)
	log.Info("Unit deployed successfully")
	return incident, nil
}

// CreateUnit регистрирует новое подразделение
func (s *crisisService) CreateUnit(ctx context.Context, unit *models.ForceUnit) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "crisis",
		"method":  "CreateUnit",
		"name":    unit.Name,
	})
	log.Info("Attempting to create a new unit")

	unit.Status = models.UnitStatusIdle
	if err := s.units.Create(ctx, unit); err != nil {
		log.WithError(err).Error("Failed to create unit in repository")
		return fmt.Errorf("service: could not create unit: %w", err)
	}

	s.invalidateSnapshot(ctx)
	s.broadcastUnitsUpdated(ctx)
	log.WithField("unit_id", unit.ID).Info("Unit created successfully")
	return nil
}

// ListUnits возвращает весь текущий состав
func (s *crisisService) ListUnits(ctx context.Context) ([]*models.ForceUnit, error) {
	units, err := s.units.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: could not list units: %w", err)
	}
	return units, nil
}

// DeleteUnit удаляет подразделение из состава
func (s *crisisService) DeleteUnit(ctx context.Context, id uuid.UUID) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "crisis",
		"method":  "DeleteUnit",
		"unit_id": id,
	})
	log.Info("Attempting to delete unit")

	if err := s.units.Delete(ctx, id); err != nil {
		log.WithError(err).Error("Failed to delete unit in repository")
		return fmt.Errorf("service: could not delete unit: %w", err)
	}

	s.invalidateSnapshot(ctx)
	s.broadcastUnitsUpdated(ctx)
	log.Info("Unit deleted successfully")
	return nil
}

// PostAdvisory сохраняет публичное оповещение и рассылает advisory_posted
func (s *crisisService) PostAdvisory(ctx context.Context, advisory *models.Advisory) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "crisis",
		"method":  "PostAdvisory",
	})
	log.Info("Attempting to post advisory")

	if advisory.Author == "" {
		advisory.Author = models.DefaultAdvisoryAuthor
	}
	if err := s.advisories.Create(ctx, advisory); err != nil {
		log.WithError(err).Error("Failed to create advisory in repository")
		return fmt.Errorf("service: could not create advisory: %w", err)
	}

	s.invalidateSnapshot(ctx)
	s.publisher.Publish(broadcast.EventAdvisoryPosted, advisory)
	log.WithField("advisory_id", advisory.ID).Info("Advisory posted successfully")
	return nil
}

// Analyze делегирует оценку содержимого шлюзу анализа
func (s *crisisService) Analyze(ctx context.Context, input analysis.Input) (*analysis.Result, error) {
	result, err := s.analyzer.Analyze(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("service: analysis failed: %w", err)
	}
	return result, nil
}

// GenerateReport строит ситуационный отчет по всем инцидентам
func (s *crisisService) GenerateReport(ctx context.Context) (*models.SituationReport, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "crisis",
		"method":  "GenerateReport",
	})
	log.Info("Generating situation report")

	incidents, err := s.incidents.List(ctx, false)
	if err != nil {
		log.WithError(err).Error("Failed to list incidents for report")
		return nil, fmt.Errorf("service: could not list incidents: %w", err)
	}

	report, err := s.analyzer.Report(ctx, incidents)
	if err != nil {
		return nil, fmt.Errorf("service: could not generate report: %w", err)
	}
	return report, nil
}

// Reset очищает инциденты и оповещения и возвращает все подразделения в IDLE.
// Проверка ключа администратора выполняется до вызова, в middleware.
func (s *crisisService) Reset(ctx context.Context) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "crisis",
		"method":  "Reset",
	})
	log.Warn("System reset requested")

	if err := s.incidents.DeleteAll(ctx); err != nil {
		log.WithError(err).Error("Failed to delete incidents")
		return fmt.Errorf("service: could not delete incidents: %w", err)
	}
	if err := s.advisories.DeleteAll(ctx); err != nil {
		log.WithError(err).Error("Failed to delete advisories")
		return fmt.Errorf("service: could not delete advisories: %w", err)
	}
	if err := s.units.ResetAll(ctx); err != nil {
		log.WithError(err).Error("Failed to reset units")
		return fmt.Errorf("service: could not reset units: %w", err)
	}

	s.invalidateSnapshot(ctx)
	s.broadcastIncidentAlert(ctx, nil)
	s.publisher.Publish(broadcast.EventAdvisoriesCleared, nil)
	s.publisher.Publish(broadcast.EventSystemReset, nil)
	log.Warn("System reset completed")
	return nil
}

// broadcastIncidentAlert перечитывает состояние из хранилища и рассылает его.
// Ошибки чтения не роняют вызвавшую мутацию: она уже зафиксирована.
func (s *crisisService) broadcastIncidentAlert(ctx context.Context, newIncident *models.Incident) {
	incidents, err := s.incidents.List(ctx, false)
	if err != nil {
		s.logger.WithError(err).Error("Failed to load incidents for broadcast")
		return
	}
	units, err := s.units.List(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to load units for broadcast")
		return
	}
	s.publisher.Publish(broadcast.EventIncidentAlert, IncidentAlert{
		Incidents:   incidents,
		Units:       units,
		NewIncident: newIncident,
	})
}

func (s *crisisService) broadcastUnitsUpdated(ctx context.Context) {
	units, err := s.units.List(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to load units for broadcast")
		return
	}
	s.publisher.Publish(broadcast.EventUnitsUpdated, units)
}

func (s *crisisService) invalidateSnapshot(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.WithError(err).Warn("Snapshot cache invalidation failed")
	}
}
