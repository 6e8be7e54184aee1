package service

import (
	"math"
	"sort"

	"github.com/shenikar/crisis_response_system/internal/models"
)

const earthRadiusKm = 6371.0

// haversineKm возвращает расстояние по большому кругу между двумя точками
func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// nearestIdlePerType отбирает свободные подразделения и возвращает не более
// одного кандидата каждого типа - ближайшего к точке инцидента. Результат
// отсортирован по дистанции. Подразделения не резервируются: это только
// подсказка оператору.
func nearestIdlePerType(lat, lon float64, units []*models.ForceUnit) []*models.UnitSuggestion {
	best := make(map[string]*models.UnitSuggestion)
	for _, unit := range units {
		if unit.Status != models.UnitStatusIdle {
			continue
		}
		distance := haversineKm(lat, lon, unit.Latitude, unit.Longitude)
		if current, ok := best[unit.Type]; !ok || distance < current.DistanceKm {
			best[unit.Type] = &models.UnitSuggestion{Unit: unit, DistanceKm: distance}
		}
	}

	suggestions := make([]*models.UnitSuggestion, 0, len(best))
	for _, suggestion := range best {
		suggestions = append(suggestions, suggestion)
	}
	sort.Slice(suggestions, func(i, j int) bool {
		return suggestions[i].DistanceKm < suggestions[j].DistanceKm
	})
	return suggestions
}

// DefaultUnits - стартовый состав, засеиваемый при пустой таблице
func DefaultUnits() []*models.ForceUnit {
	return []*models.ForceUnit{
		{Name: "PCR-101", Type: models.UnitTypePolice, Status: models.UnitStatusIdle, Latitude: 28.6139, Longitude: 77.2090},
		{Name: "PCR-102", Type: models.UnitTypePolice, Status: models.UnitStatusIdle, Latitude: 28.5672, Longitude: 77.2100},
		{Name: "FT-12", Type: models.UnitTypeFire, Status: models.UnitStatusIdle, Latitude: 28.6304, Longitude: 77.2177},
		{Name: "AMB-3", Type: models.UnitTypeMedical, Status: models.UnitStatusIdle, Latitude: 28.6129, Longitude: 77.2295},
	}
}
