package v1

import (
	"github.com/google/uuid"
	"github.com/shenikar/crisis_response_system/internal/models"
)

// DTOToIncidentModel преобразует DTO создания инцидента в доменную модель
func DTOToIncidentModel(dto CreateIncidentRequest) *models.Incident {
	incident := &models.Incident{
		Type:        dto.Type,
		Description: dto.Description,
		Severity:    dto.Severity,
		ActionPlan:  dto.ActionPlan,
		Breakdown: models.Breakdown{
			EvidenceSource:  dto.Breakdown.EvidenceSource,
			Acoustics:       dto.Breakdown.Acoustics,
			VisualClues:     dto.Breakdown.VisualClues,
			LogisticsNeeded: dto.Breakdown.LogisticsNeeded,
		},
	}
	if dto.Location != nil {
		incident.Address = dto.Location.Address
		if len(dto.Location.Coordinates) == 2 {
			lat, lng := dto.Location.Coordinates[0], dto.Location.Coordinates[1]
			incident.Latitude = &lat
			incident.Longitude = &lng
		}
	}
	return incident
}

// DTOToUnitModel преобразует DTO создания подразделения в доменную модель
func DTOToUnitModel(dto CreateUnitRequest) *models.ForceUnit {
	return &models.ForceUnit{
		Name:      dto.Name,
		Type:      dto.Type,
		Latitude:  dto.Latitude,
		Longitude: dto.Longitude,
	}
}

// DTOToAdvisoryModel преобразует DTO оповещения в доменную модель.
// Поле related_incident_id валидируется до вызова.
func DTOToAdvisoryModel(dto AdvisoryRequest) *models.Advisory {
	advisory := &models.Advisory{
		Message: dto.Message,
		Author:  dto.Author,
	}
	if dto.RelatedIncidentID != "" {
		if id, err := uuid.Parse(dto.RelatedIncidentID); err == nil {
			advisory.RelatedIncidentID = &id
		}
	}
	return advisory
}

// ModelToUnitResponse преобразует доменную модель в DTO для ответа
func ModelToUnitResponse(model *models.ForceUnit) *UnitResponse {
	if model == nil {
		return nil
	}
	return &UnitResponse{
		ID:        model.ID,
		Name:      model.Name,
		Type:      model.Type,
		Status:    model.Status,
		Latitude:  model.Latitude,
		Longitude: model.Longitude,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

// ModelsToUnitResponses преобразует слайс моделей в слайс DTO
func ModelsToUnitResponses(units []*models.ForceUnit) []*UnitResponse {
	responses := make([]*UnitResponse, len(units))
	for i, unit := range units {
		responses[i] = ModelToUnitResponse(unit)
	}
	return responses
}

// ModelToIncidentResponse преобразует доменную модель в DTO для ответа
func ModelToIncidentResponse(model *models.Incident) *IncidentResponse {
	return &IncidentResponse{
		ID:           model.ID,
		Type:         model.Type,
		Description:  model.Description,
		Severity:     model.Severity,
		Address:      model.Address,
		Latitude:     model.Latitude,
		Longitude:    model.Longitude,
		Breakdown:    model.Breakdown,
		ActionPlan:   model.ActionPlan,
		Status:       model.Status,
		AssignedUnit: ModelToUnitResponse(model.AssignedUnit),
		CreatedAt:    model.CreatedAt,
	}
}

// ModelsToIncidentResponses преобразует слайс моделей в слайс DTO
func ModelsToIncidentResponses(incidents []*models.Incident) []*IncidentResponse {
	responses := make([]*IncidentResponse, len(incidents))
	for i, incident := range incidents {
		responses[i] = ModelToIncidentResponse(incident)
	}
	return responses
}

// ModelToAdvisoryResponse преобразует доменную модель в DTO для ответа
func ModelToAdvisoryResponse(model *models.Advisory) *AdvisoryResponse {
	return &AdvisoryResponse{
		ID:                model.ID,
		Message:           model.Message,
		Author:            model.Author,
		RelatedIncidentID: model.RelatedIncidentID,
		CreatedAt:         model.CreatedAt,
	}
}

// ModelsToAdvisoryResponses преобразует слайс моделей в слайс DTO
func ModelsToAdvisoryResponses(advisories []*models.Advisory) []*AdvisoryResponse {
	responses := make([]*AdvisoryResponse, len(advisories))
	for i, advisory := range advisories {
		responses[i] = ModelToAdvisoryResponse(advisory)
	}
	return responses
}

// SnapshotToResponse преобразует агрегированное состояние в DTO для ответа
func SnapshotToResponse(snapshot *models.Snapshot) *SnapshotResponse {
	return &SnapshotResponse{
		Incidents:  ModelsToIncidentResponses(snapshot.Incidents),
		Units:      ModelsToUnitResponses(snapshot.Units),
		Advisories: ModelsToAdvisoryResponses(snapshot.Advisories),
	}
}

// SuggestionsToResponses преобразует кандидатов на выезд в DTO для ответа
func SuggestionsToResponses(suggestions []*models.UnitSuggestion) []*SuggestionResponse {
	responses := make([]*SuggestionResponse, len(suggestions))
	for i, s := range suggestions {
		responses[i] = &SuggestionResponse{
			Unit:       ModelToUnitResponse(s.Unit),
			DistanceKm: s.DistanceKm,
		}
	}
	return responses
}
