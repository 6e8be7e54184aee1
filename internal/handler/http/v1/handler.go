package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shenikar/crisis_response_system/internal/analysis"
	"github.com/shenikar/crisis_response_system/internal/broadcast"
	"github.com/shenikar/crisis_response_system/internal/config"
	"github.com/shenikar/crisis_response_system/internal/service"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	crisisService service.CrisisService
	hub           *broadcast.Hub
	logger        *logrus.Logger
	validate      *validator.Validate
	cfg           *config.Config
}

func NewHandler(crisisService service.CrisisService, hub *broadcast.Hub, logger *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{
		crisisService: crisisService,
		hub:           hub,
		logger:        logger,
		validate:      validator.New(),
		cfg:           cfg,
	}
}

// @Summary Get aggregated system state
// @Description Get all incidents (newest first, assigned units joined), all force units and the latest advisories in a single response.
// @Tags Data
// @Accept json
// @Produce json
// @Param active query bool false "Exclude resolved incidents" default(false)
// @Success 200 {object} SnapshotResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /data [get]
func (h *Handler) getData(c *gin.Context) {
	log := h.logger.WithField("method", "getData")
	activeOnly := c.Query("active") == "true"

	snapshot, err := h.crisisService.GetSnapshot(c.Request.Context(), activeOnly)
	if err != nil {
		log.WithError(err).Error("Failed to get snapshot from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, SnapshotToResponse(snapshot))
}

// @Summary Register a new incident
// @Description Register a new incident from an assessment payload. The incident starts in PENDING status without an assigned unit.
// @Tags Incidents
// @Accept json
// @Produce json
// @Param incident body CreateIncidentRequest true "Incident registration request"
// @Success 201 {object} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents [post]
func (h *Handler) createIncident(c *gin.Context) {
	var input CreateIncidentRequest
	log := h.logger.WithField("method", "createIncident")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	model := DTOToIncidentModel(input)
	if err := h.crisisService.CreateIncident(c.Request.Context(), model); err != nil {
		log.WithError(err).Error("Failed to create incident in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, ModelToIncidentResponse(model))
}

// @Summary Resolve an incident
// @Description Mark an incident as RESOLVED and return its assigned unit to IDLE.
// @Tags Incidents
// @Accept json
// @Produce json
// @Param id path string true "Incident ID"
// @Success 200 {object} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid incident ID"
// @Failure 404 {object} map[string]string "Incident not found"
// @Failure 409 {object} map[string]string "Incident already resolved"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/{id}/resolve [post]
func (h *Handler) resolveIncident(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid incident ID"})
		return
	}
	log := h.logger.WithField("method", "resolveIncident").WithField("id", id)

	incident, err := h.crisisService.ResolveIncident(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrIncidentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "incident not found"})
		case errors.Is(err, service.ErrIncidentClosed):
			c.JSON(http.StatusConflict, gin.H{"error": "incident is already resolved"})
		default:
			log.WithError(err).Error("Failed to resolve incident in service")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
}

// @Summary Get dispatch suggestions for an incident
// @Description Get the nearest idle unit of each type for an incident, ordered by distance. Read-only, no unit is reserved.
// @Tags Incidents
// @Accept json
// @Produce json
// @Param id path string true "Incident ID"
// @Success 200 {array} SuggestionResponse
// @Failure 400 {object} map[string]string "Invalid incident ID"
// @Failure 404 {object} map[string]string "Incident not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/{id}/suggestions [get]
func (h *Handler) getSuggestions(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid incident ID"})
		return
	}
	log := h.logger.WithField("method", "getSuggestions").WithField("id", id)

	suggestions, err := h.crisisService.SuggestUnits(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrIncidentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "incident not found"})
			return
		}
		log.WithError(err).Error("Failed to get suggestions from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, SuggestionsToResponses(suggestions))
}

// @Summary Deploy a unit to an incident
// @Description Atomically assign an idle unit to a pending incident. A unit already engaged elsewhere is rejected with 409 and nothing is written.
// @Tags Dispatch
// @Accept json
// @Produce json
// @Param deploy body DeployRequest true "Deploy request"
// @Success 200 {object} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 404 {object} map[string]string "Incident or unit not found"
// @Failure 409 {object} map[string]string "Unit unavailable or incident closed"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /deploy [post]
func (h *Handler) deploy(c *gin.Context) {
	var input DeployRequest
	log := h.logger.WithField("method", "deploy")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	incidentID, _ := uuid.Parse(input.IncidentID)
	unitID, _ := uuid.Parse(input.UnitID)

	incident, err := h.crisisService.Deploy(c.Request.Context(), incidentID, unitID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrIncidentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "incident not found"})
		case errors.Is(err, service.ErrUnitNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "unit not found"})
		case errors.Is(err, service.ErrUnitUnavailable):
			c.JSON(http.StatusConflict, gin.H{"error": "unit is not available for dispatch"})
		case errors.Is(err, service.ErrIncidentClosed):
			c.JSON(http.StatusConflict, gin.H{"error": "incident is not open for dispatch"})
		default:
			log.WithError(err).Error("Failed to deploy unit in service")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
}

// @Summary Register a new force unit
// @Description Register a new force unit. The unit starts in IDLE status.
// @Tags Units
// @Accept json
// @Produce json
// @Param unit body CreateUnitRequest true "Unit registration request"
// @Success 201 {object} UnitResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /units [post]
func (h *Handler) createUnit(c *gin.Context) {
	var input CreateUnitRequest
	log := h.logger.WithField("method", "createUnit")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	model := DTOToUnitModel(input)
	if err := h.crisisService.CreateUnit(c.Request.Context(), model); err != nil {
		log.WithError(err).Error("Failed to create unit in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, ModelToUnitResponse(model))
}

// @Summary Get all force units
// @Description Get the full current roster of force units.
// @Tags Units
// @Accept json
// @Produce json
// @Success 200 {array} UnitResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /units [get]
func (h *Handler) listUnits(c *gin.Context) {
	log := h.logger.WithField("method", "listUnits")

	units, err := h.crisisService.ListUnits(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to list units from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, ModelsToUnitResponses(units))
}

// @Summary Remove a force unit
// @Description Remove a force unit from the roster by its ID.
// @Tags Units
// @Accept json
// @Produce json
// @Param id path string true "Unit ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid unit ID"
// @Failure 404 {object} map[string]string "Unit not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /units/{id} [delete]
func (h *Handler) deleteUnit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid unit ID"})
		return
	}
	log := h.logger.WithField("method", "deleteUnit").WithField("id", id)

	if err := h.crisisService.DeleteUnit(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrUnitNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "unit not found"})
			return
		}
		log.WithError(err).Error("Failed to delete unit in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Post a public advisory
// @Description Post a public advisory, optionally linked to an incident. Author defaults to the help centre signature.
// @Tags Advisories
// @Accept json
// @Produce json
// @Param advisory body AdvisoryRequest true "Advisory request"
// @Success 201 {object} AdvisoryResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 404 {object} map[string]string "Related incident not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /advisory [post]
func (h *Handler) postAdvisory(c *gin.Context) {
	var input AdvisoryRequest
	log := h.logger.WithField("method", "postAdvisory")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	model := DTOToAdvisoryModel(input)
	if err := h.crisisService.PostAdvisory(c.Request.Context(), model); err != nil {
		if errors.Is(err, service.ErrIncidentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "related incident not found"})
			return
		}
		log.WithError(err).Error("Failed to post advisory in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, ModelToAdvisoryResponse(model))
}

// @Summary Analyze incident content
// @Description Analyze text or media and return a structured assessment (ANALYSIS) or a public advisory draft (ADVISORY). Model failures still produce a schema-complete degraded result with HTTP 200.
// @Tags Analysis
// @Accept json
// @Produce json
// @Param request body AnalyzeRequest true "Analyze request"
// @Success 200 {object} analysis.Result
// @Failure 400 {object} map[string]string "Empty input or validation error"
// @Failure 429 {object} map[string]string "Rate limit exceeded"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /analyze [post]
func (h *Handler) analyze(c *gin.Context) {
	var input AnalyzeRequest
	log := h.logger.WithField("method", "analyze")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task := analysis.TaskKind(input.TaskType)
	if task == "" {
		task = analysis.TaskAnalysis
	}

	result, err := h.crisisService.Analyze(c.Request.Context(), analysis.Input{
		Text:     input.Text,
		FileData: input.FileData,
		MimeType: input.MimeType,
		Task:     task,
	})
	if err != nil {
		if errors.Is(err, analysis.ErrEmptyInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "text or file data is required"})
			return
		}
		log.WithError(err).Error("Failed to analyze content in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// @Summary Generate a situation report
// @Description Generate a situation report over the current incident set. Falls back to a deterministic aggregation when the model is unavailable.
// @Tags Analysis
// @Accept json
// @Produce json
// @Success 200 {object} models.SituationReport
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /report [post]
func (h *Handler) generateReport(c *gin.Context) {
	log := h.logger.WithField("method", "generateReport")

	report, err := h.crisisService.GenerateReport(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to generate report in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, report)
}

// @Summary Reset system state
// @Description Delete all incidents and advisories and return every unit to IDLE. Requires the admin key.
// @Tags Admin
// @Accept json
// @Produce json
// @Security AdminKeyAuth
// @Success 200 {object} map[string]string "Status OK"
// @Failure 403 {object} map[string]string "Invalid admin key"
// @Failure 500 {object} map[string]string "Admin key not configured or internal error"
// @Router /clear [delete]
func (h *Handler) clear(c *gin.Context) {
	log := h.logger.WithField("method", "clear")

	if err := h.crisisService.Reset(c.Request.Context()); err != nil {
		log.WithError(err).Error("Failed to reset system state in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}

// @Summary Subscribe to live events
// @Description Upgrade the connection to WebSocket and stream {event, payload} frames.
// @Tags System
// @Success 101 "Switching Protocols"
// @Router /ws [get]
func (h *Handler) serveWS(c *gin.Context) {
	h.hub.ServeWS(c.Writer, c.Request)
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
