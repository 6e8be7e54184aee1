package models

import (
	"time"

	"github.com/google/uuid"
)

// Статусы доступности боевой единицы
const (
	UnitStatusIdle = "IDLE"
	UnitStatusBusy = "BUSY"
)

// Типы подразделений
const (
	UnitTypePolice  = "POLICE"
	UnitTypeFire    = "FIRE"
	UnitTypeMedical = "MEDICAL"
)

// ForceUnit - диспетчеризуемое подразделение (экипаж, расчет, бригада)
type ForceUnit struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UnitSuggestion - кандидат на выезд с рассчитанной дистанцией до инцидента
type UnitSuggestion struct {
	Unit       *ForceUnit `json:"unit"`
	DistanceKm float64    `json:"distance_km"`
}
