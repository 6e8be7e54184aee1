package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultAdvisoryAuthor - подпись по умолчанию для публичных оповещений
const DefaultAdvisoryAuthor = "Location Help Centre"

// Advisory - публичное оповещение, сгенерированное по контексту инцидента
type Advisory struct {
	ID                uuid.UUID  `json:"id"`
	Message           string     `json:"message"`
	Author            string     `json:"author"`
	RelatedIncidentID *uuid.UUID `json:"related_incident_id,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}
