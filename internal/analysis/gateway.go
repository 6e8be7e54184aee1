package analysis

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/shenikar/crisis_response_system/internal/config"
	"github.com/shenikar/crisis_response_system/internal/models"
	"github.com/shenikar/crisis_response_system/pkg/logger"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

// TaskKind выбирает режим анализа
type TaskKind string

const (
	TaskAnalysis TaskKind = "ANALYSIS"
	TaskAdvisory TaskKind = "ADVISORY"
)

// ErrEmptyInput возвращается, когда в запросе нет ни текста, ни медиа
var ErrEmptyInput = errors.New("analysis input requires text or media")

// Input - содержимое, передаваемое модели
type Input struct {
	Text     string
	FileData string // base64
	MimeType string
	Task     TaskKind
}

// Result - размеченный результат анализа. Для TaskAnalysis заполнен
// Assessment, для TaskAdvisory - Text. Degraded означает, что внешняя модель
// не ответила валидно и поля заполнены консервативными значениями.
type Result struct {
	Task       TaskKind           `json:"task"`
	Assessment *models.Assessment `json:"assessment,omitempty"`
	Text       string             `json:"text,omitempty"`
	Degraded   bool               `json:"degraded"`
}

// Analyzer - контракт шлюза анализа для сервисного слоя
type Analyzer interface {
	Analyze(ctx context.Context, input Input) (*Result, error)
	Report(ctx context.Context, incidents []*models.Incident) (*models.SituationReport, error)
}

// Gateway оборачивает клиента Gemini. Любой сбой модели (сеть, пустой или
// нечитаемый ответ) преобразуется в деградированный результат, а не в ошибку:
// вызывающая сторона всегда получает структуру, соответствующую схеме.
type Gateway struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	logger    *logrus.Entry
	modelName string
}

// NewGateway создает шлюз анализа поверх Gemini API
func NewGateway(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*Gateway, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := client.GenerativeModel(cfg.GeminiModel)
	model.GenerationConfig = genai.GenerationConfig{
		Temperature: genai.Ptr[float32](0.3),
		TopP:        genai.Ptr[float32](0.9),
	}

	return &Gateway{
		client:    client,
		model:     model,
		logger:    logger.Component(log, "analysis"),
		modelName: cfg.GeminiModel,
	}, nil
}

// Close закрывает клиента Gemini
func (g *Gateway) Close() error {
	return g.client.Close()
}

// Analyze отправляет содержимое модели и возвращает размеченный результат
func (g *Gateway) Analyze(ctx context.Context, input Input) (*Result, error) {
	if input.Text == "" && input.FileData == "" {
		return nil, ErrEmptyInput
	}

	log := g.logger.WithField("task", string(input.Task))

	parts, err := g.buildParts(input)
	if err != nil {
		log.WithError(err).Warn("Failed to decode media payload")
		return g.degradedResult(input), nil
	}

	raw, err := g.generate(ctx, parts)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.WithError(err).Warn("Model call failed, returning degraded result")
		return g.degradedResult(input), nil
	}

	if input.Task == TaskAdvisory {
		text := sanitizeAdvisory(raw)
		if text == "" {
			log.Warn("Model returned empty advisory, returning degraded result")
			return g.degradedResult(input), nil
		}
		return &Result{Task: TaskAdvisory, Text: text}, nil
	}

	assessment, err := parseAssessment(raw)
	if err != nil {
		log.WithError(err).WithField("raw_output", raw).Warn("Unparseable model output, returning degraded result")
		return g.degradedResult(input), nil
	}
	return &Result{Task: TaskAnalysis, Assessment: assessment}, nil
}

// Report строит ситуационный отчет по текущему списку инцидентов
func (g *Gateway) Report(ctx context.Context, incidents []*models.Incident) (*models.SituationReport, error) {
	log := g.logger.WithField("task", "REPORT")

	summaries := make([]map[string]any, 0, len(incidents))
	for _, inc := range incidents {
		summaries = append(summaries, map[string]any{
			"type":     inc.Type,
			"severity": inc.Severity,
			"address":  inc.Address,
			"status":   inc.Status,
		})
	}
	payload, err := json.Marshal(summaries)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal incidents for report: %w", err)
	}

	raw, err := g.generate(ctx, []genai.Part{genai.Text(fmt.Sprintf(reportPrompt, payload))})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.WithError(err).Warn("Model call failed, returning fallback report")
		return fallbackReport(incidents), nil
	}

	report, err := parseReport(raw)
	if err != nil {
		log.WithError(err).Warn("Unparseable report output, returning fallback report")
		return fallbackReport(incidents), nil
	}
	return report, nil
}

// buildParts собирает контент запроса: пользовательский текст, медиа-вложение
// и инструкцию для выбранного режима. Вложение уходит модели в обоих режимах.
func (g *Gateway) buildParts(input Input) ([]genai.Part, error) {
	parts := make([]genai.Part, 0, 3)
	if input.Task == TaskAdvisory {
		parts = append(parts, genai.Text(fmt.Sprintf(advisoryPrompt, input.Text)))
	} else if input.Text != "" {
		parts = append(parts, genai.Text(input.Text))
	}

	if input.FileData != "" {
		data, err := base64.StdEncoding.DecodeString(input.FileData)
		if err != nil {
			return nil, fmt.Errorf("invalid base64 media payload: %w", err)
		}
		parts = append(parts, genai.Blob{MIMEType: input.MimeType, Data: data})
	}

	if input.Task != TaskAdvisory {
		parts = append(parts, genai.Text(analysisPrompt))
	}
	return parts, nil
}

func (g *Gateway) generate(ctx context.Context, parts []genai.Part) (string, error) {
	resp, err := g.model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("gemini API error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from gemini")
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response type from gemini")
	}
	return strings.TrimSpace(string(text)), nil
}

func (g *Gateway) degradedResult(input Input) *Result {
	if input.Task == TaskAdvisory {
		return &Result{Task: TaskAdvisory, Text: fallbackAdvisory(), Degraded: true}
	}
	return &Result{Task: TaskAnalysis, Assessment: fallbackAssessment(), Degraded: true}
}
