package analysis

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/shenikar/crisis_response_system/internal/models"
)

const advisoryMaxLen = 280

// stripCodeFences убирает Markdown-ограждения, которыми модель любит
// оборачивать JSON, несмотря на инструкцию
func stripCodeFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// extractJSONObject выделяет первый сбалансированный {...} фрагмент верхнего
// уровня, учитывая строковые литералы и экранирование
func extractJSONObject(s string) (string, error) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", fmt.Errorf("no JSON object found in model output")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}
	return "", fmt.Errorf("unbalanced JSON object in model output")
}

// parseAssessment разбирает сырой ответ модели в типизированную оценку и
// нормализует поля до схемы
func parseAssessment(raw string) (*models.Assessment, error) {
	span, err := extractJSONObject(stripCodeFences(raw))
	if err != nil {
		return nil, err
	}

	assessment := &models.Assessment{}
	if err := json.Unmarshal([]byte(span), assessment); err != nil {
		return nil, fmt.Errorf("failed to parse assessment JSON: %w", err)
	}

	if strings.TrimSpace(assessment.Type) == "" {
		return nil, fmt.Errorf("assessment is missing incident type")
	}
	if assessment.Severity < 1 {
		assessment.Severity = 1
	}
	if assessment.Severity > 10 {
		assessment.Severity = 10
	}
	// Координаты либо валидная пара [lat, lng], либо их нет вовсе
	if len(assessment.Location.Coordinates) != 2 {
		assessment.Location.Coordinates = nil
	}
	return assessment, nil
}

// sanitizeAdvisory приводит текст оповещения к публикуемому виду
func sanitizeAdvisory(raw string) string {
	text := strings.TrimSpace(raw)
	text = strings.Trim(text, `"`)
	text = strings.TrimSpace(text)
	if runes := []rune(text); len(runes) > advisoryMaxLen {
		text = string(runes[:advisoryMaxLen])
	}
	return text
}

// parseReport разбирает ситуационный отчет из сырого ответа модели
func parseReport(raw string) (*models.SituationReport, error) {
	span, err := extractJSONObject(stripCodeFences(raw))
	if err != nil {
		return nil, err
	}

	report := &models.SituationReport{}
	if err := json.Unmarshal([]byte(span), report); err != nil {
		return nil, fmt.Errorf("failed to parse report JSON: %w", err)
	}
	if strings.TrimSpace(report.ExecutiveSummary) == "" {
		return nil, fmt.Errorf("report is missing executive summary")
	}
	return report, nil
}

// fallbackAssessment - деградированная оценка при недоступности или
// нечитаемости внешней модели. Консервативные значения: высокая серьезность,
// требование ручной проверки.
func fallbackAssessment() *models.Assessment {
	return &models.Assessment{
		Type:        "UNCLASSIFIED INCIDENT",
		Severity:    7,
		Description: "Automated analysis unavailable. Manual review required.",
		Location: models.AssessmentLocation{
			Address: "Unknown",
		},
		Breakdown: models.Breakdown{
			EvidenceSource:  "Unverified report",
			LogisticsNeeded: []string{"Assessment team"},
		},
		ActionPlan: "Dispatch an assessment team to verify the report manually.",
		Degraded:   true,
	}
}

// fallbackAdvisory - деградированный текст публичного оповещения
func fallbackAdvisory() string {
	return "Public safety notice: an incident has been reported in your area. " +
		"Avoid the vicinity and follow instructions from emergency services."
}

// fallbackReport строит детерминированный отчет агрегацией по адресам, когда
// модель недоступна
func fallbackReport(incidents []*models.Incident) *models.SituationReport {
	zones := make(map[string]*models.ZoneAnalysis)
	active := 0
	for _, inc := range incidents {
		if inc.Status != models.IncidentStatusResolved {
			active++
		}
		zone := inc.Address
		if strings.TrimSpace(zone) == "" {
			zone = "Unspecified area"
		}
		za, ok := zones[zone]
		if !ok {
			za = &models.ZoneAnalysis{Zone: zone}
			zones[zone] = za
		}
		za.IncidentCount++
		if inc.Severity > za.MaxSeverity {
			za.MaxSeverity = inc.Severity
		}
		za.Summary = fmt.Sprintf("%d incident(s), peak severity %d", za.IncidentCount, za.MaxSeverity)
	}

	analysis := make([]models.ZoneAnalysis, 0, len(zones))
	for _, za := range zones {
		analysis = append(analysis, *za)
	}
	sort.Slice(analysis, func(i, j int) bool {
		if analysis[i].MaxSeverity != analysis[j].MaxSeverity {
			return analysis[i].MaxSeverity > analysis[j].MaxSeverity
		}
		return analysis[i].Zone < analysis[j].Zone
	})

	recommendations := []string{"Review incoming incidents manually until AI reporting recovers."}
	if active > 0 {
		recommendations = append(recommendations, "Prioritize dispatch for zones with the highest peak severity.")
	}

	return &models.SituationReport{
		ExecutiveSummary: fmt.Sprintf(
			"AI reporting is degraded. %d incident(s) on record, %d active, across %d zone(s).",
			len(incidents), active, len(zones)),
		ZoneAnalysis:    analysis,
		Recommendations: recommendations,
		Degraded:        true,
	}
}
