package v1

import (
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/crisis_response_system/internal/models"
)

// BreakdownDTO структурированная сводка улик
// @Description Структурированная сводка улик
type BreakdownDTO struct {
	EvidenceSource  string   `json:"evidence_source,omitempty"`
	Acoustics       []string `json:"acoustics,omitempty"`
	VisualClues     []string `json:"visual_clues,omitempty"`
	LogisticsNeeded []string `json:"logistics_needed,omitempty"`
}

// LocationDTO геопривязка инцидента
// @Description Геопривязка инцидента
type LocationDTO struct {
	Address     string    `json:"address,omitempty"`
	Coordinates []float64 `json:"coordinates,omitempty" validate:"omitempty,len=2"` // [lat, lng]
}

// CreateIncidentRequest DTO для регистрации инцидента
// @Description DTO для регистрации инцидента
type CreateIncidentRequest struct {
	Type        string       `json:"type" validate:"required,min=2,max=255"`
	Description string       `json:"description" validate:"required"`
	Severity    int          `json:"severity" validate:"required,gte=1,lte=10"`
	Location    *LocationDTO `json:"location,omitempty"`
	Breakdown   BreakdownDTO `json:"breakdown"`
	ActionPlan  string       `json:"action_plan,omitempty"`
}

// DeployRequest DTO для назначения подразделения на инцидент
// @Description DTO для назначения подразделения на инцидент
type DeployRequest struct {
	IncidentID string `json:"incident_id" validate:"required,uuid"`
	UnitID     string `json:"unit_id" validate:"required,uuid"`
}

// CreateUnitRequest DTO для регистрации подразделения
// @Description DTO для регистрации подразделения
type CreateUnitRequest struct {
	Name      string  `json:"name" validate:"required,min=2,max=255"`
	Type      string  `json:"type" validate:"required,oneof=POLICE FIRE MEDICAL"`
	Latitude  float64 `json:"latitude" validate:"required,latitude"`
	Longitude float64 `json:"longitude" validate:"required,longitude"`
}

// AdvisoryRequest DTO для публикации оповещения
// @Description DTO для публикации оповещения
type AdvisoryRequest struct {
	Message           string `json:"message" validate:"required,min=2,max=500"`
	Author            string `json:"author,omitempty" validate:"omitempty,max=255"`
	RelatedIncidentID string `json:"related_incident_id,omitempty" validate:"omitempty,uuid"`
}

// AnalyzeRequest DTO для запроса AI-анализа
// @Description DTO для запроса AI-анализа
type AnalyzeRequest struct {
	Text     string `json:"text,omitempty"`
	FileData string `json:"file_data,omitempty" validate:"omitempty,base64"`
	MimeType string `json:"mime_type,omitempty"`
	TaskType string `json:"task_type,omitempty" validate:"omitempty,oneof=ANALYSIS ADVISORY"`
}

// UnitResponse DTO подразделения
// @Description DTO подразделения
type UnitResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IncidentResponse DTO инцидента
// @Description DTO инцидента
type IncidentResponse struct {
	ID           uuid.UUID        `json:"id"`
	Type         string           `json:"type"`
	Description  string           `json:"description"`
	Severity     int              `json:"severity"`
	Address      string           `json:"address,omitempty"`
	Latitude     *float64         `json:"latitude,omitempty"`
	Longitude    *float64         `json:"longitude,omitempty"`
	Breakdown    models.Breakdown `json:"breakdown"`
	ActionPlan   string           `json:"action_plan,omitempty"`
	Status       string           `json:"status"`
	AssignedUnit *UnitResponse    `json:"assigned_unit,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}

// AdvisoryResponse DTO оповещения
// @Description DTO оповещения
type AdvisoryResponse struct {
	ID                uuid.UUID  `json:"id"`
	Message           string     `json:"message"`
	Author            string     `json:"author"`
	RelatedIncidentID *uuid.UUID `json:"related_incident_id,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// SnapshotResponse DTO агрегированного состояния системы
// @Description DTO агрегированного состояния системы
type SnapshotResponse struct {
	Incidents  []*IncidentResponse `json:"incidents"`
	Units      []*UnitResponse     `json:"units"`
	Advisories []*AdvisoryResponse `json:"advisories"`
}

// SuggestionResponse DTO кандидата на выезд
// @Description DTO кандидата на выезд
type SuggestionResponse struct {
	Unit       *UnitResponse `json:"unit"`
	DistanceKm float64       `json:"distance_km"`
}
