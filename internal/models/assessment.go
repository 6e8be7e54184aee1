package models

// AssessmentLocation - геопривязка, предложенная моделью
type AssessmentLocation struct {
	Address     string    `json:"address"`
	Coordinates []float64 `json:"coordinates"` // [lat, lng]
}

// Assessment - структурированная оценка происшествия от Analysis Gateway.
// Всегда содержит полный набор полей: при сбое внешней модели поля
// заполняются консервативными значениями, а Degraded выставляется в true.
type Assessment struct {
	Type        string             `json:"type"`
	Severity    int                `json:"severity"`
	Description string             `json:"description"`
	Location    AssessmentLocation `json:"location"`
	Breakdown   Breakdown          `json:"breakdown"`
	ActionPlan  string             `json:"action_plan"`
	Degraded    bool               `json:"degraded"`
}

// ZoneAnalysis - сводка по одной зоне в ситуационном отчете
type ZoneAnalysis struct {
	Zone          string `json:"zone"`
	IncidentCount int    `json:"incident_count"`
	MaxSeverity   int    `json:"max_severity"`
	Summary       string `json:"summary"`
}

// SituationReport - сводный отчет по текущей оперативной обстановке
type SituationReport struct {
	ExecutiveSummary string         `json:"executive_summary"`
	ZoneAnalysis     []ZoneAnalysis `json:"zone_analysis"`
	Recommendations  []string       `json:"recommendations"`
	Degraded         bool           `json:"degraded"`
}

// Snapshot - агрегированное состояние системы для первичной загрузки клиента
type Snapshot struct {
	Incidents  []*Incident  `json:"incidents"`
	Units      []*ForceUnit `json:"units"`
	Advisories []*Advisory  `json:"advisories"`
}
