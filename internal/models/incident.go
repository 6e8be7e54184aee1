package models

import (
	"time"

	"github.com/google/uuid"
)

// Статусы жизненного цикла инцидента
const (
	IncidentStatusPending    = "PENDING"
	IncidentStatusDispatched = "DISPATCHED"
	IncidentStatusResolved   = "RESOLVED"
)

// Breakdown - структурированная сводка улик из AI-анализа
type Breakdown struct {
	EvidenceSource  string   `json:"evidence_source"`
	Acoustics       []string `json:"acoustics"`
	VisualClues     []string `json:"visual_clues"`
	LogisticsNeeded []string `json:"logistics_needed"`
}

type Incident struct {
	ID           uuid.UUID  `json:"id"`
	Type         string     `json:"type"`
	Description  string     `json:"description"`
	Severity     int        `json:"severity"`
	Address      string     `json:"address"`
	Latitude     *float64   `json:"latitude,omitempty"`
	Longitude    *float64   `json:"longitude,omitempty"`
	Breakdown    Breakdown  `json:"breakdown"`
	ActionPlan   string     `json:"action_plan"`
	Status       string     `json:"status"`
	AssignedUnit *ForceUnit `json:"assigned_unit,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// HasLocation сообщает, есть ли у инцидента валидные координаты
func (i *Incident) HasLocation() bool {
	return i.Latitude != nil && i.Longitude != nil
}
