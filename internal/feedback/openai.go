package feedback

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/inkwell-app/inkwell-diary/internal/config"
	"github.com/inkwell-app/inkwell-diary/internal/model"
)

// systemPrompt instructs the model to answer with strictly-structured JSON.
const systemPrompt = "You are an AI assistant that analyzes diary entries and provides constructive feedback. " +
	"Your response should be in JSON format with the following structure: " +
	"{generalComment: string, positiveAspects: string[], improvementSuggestions: string[], overallScore: number}."

// OpenAIGenerator calls an OpenAI-compatible chat-completions endpoint.
type OpenAIGenerator struct {
	client      *resty.Client
	model       string
	temperature float64
}

// NewOpenAIGenerator builds a generator from configuration. The base
// URL is configurable so tests and self-hosted gateways can stand in
// for the real API.
func NewOpenAIGenerator(cfg *config.Config) *OpenAIGenerator {
	c := resty.New().
		SetBaseURL(cfg.FeedbackBaseURL).
		SetHeader("Content-Type", "application/json").
		SetAuthToken(cfg.FeedbackAPIKey).
		SetTimeout(2 * time.Minute)

	return &OpenAIGenerator{
		client:      c,
		model:       cfg.FeedbackModel,
		temperature: cfg.FeedbackTemperature,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Generate sends the diary text to the completion endpoint and parses
// the structured analysis out of the reply. Empty content is rejected
// before any external call is made.
func (g *OpenAIGenerator) Generate(ctx context.Context, content string) (*model.AIAnalysis, error) {
	if strings.TrimSpace(content) == "" {
		return nil, model.NewValidation("content cannot be empty")
	}

	reqBody := chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf("Analyze the following diary entry:\n\n%s", content)},
		},
		Temperature: g.temperature,
	}

	var out chatResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(&reqBody).
		SetResult(&out).
		Post("/v1/chat/completions")
	if err != nil {
		return nil, model.NewExternal("failed to generate AI feedback", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, model.NewExternal("failed to generate AI feedback",
			fmt.Errorf("completion API status %d: %s", resp.StatusCode(), resp.String()))
	}
	if out.Error != nil {
		return nil, model.NewExternal("failed to generate AI feedback",
			fmt.Errorf("completion API error: %s", out.Error.Message))
	}
	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return nil, model.NewExternal("invalid response format",
			fmt.Errorf("no feedback generated"))
	}

	return parseAnalysis(out.Choices[0].Message.Content)
}

// parseAnalysis decodes the model reply, tolerating a fenced ```json
// block, and enforces the required shape.
func parseAnalysis(raw string) (*model.AIAnalysis, error) {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
		text = strings.TrimSpace(text)
	}

	var parsed struct {
		GeneralComment         *string  `json:"generalComment"`
		PositiveAspects        []string `json:"positiveAspects"`
		ImprovementSuggestions []string `json:"improvementSuggestions"`
		OverallScore           *float64 `json:"overallScore"`
	}
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, model.NewExternal("invalid response format", err)
	}
	if parsed.GeneralComment == nil || *parsed.GeneralComment == "" ||
		parsed.PositiveAspects == nil || parsed.ImprovementSuggestions == nil ||
		parsed.OverallScore == nil {
		return nil, model.NewExternal("invalid response format",
			fmt.Errorf("analysis is missing required fields"))
	}

	return &model.AIAnalysis{
		GeneralComment:         *parsed.GeneralComment,
		PositiveAspects:        parsed.PositiveAspects,
		ImprovementSuggestions: parsed.ImprovementSuggestions,
		OverallScore:           *parsed.OverallScore,
	}, nil
}

// HealthPing implements health.HealthPinger by listing models on the
// configured endpoint. A failure only marks the component unhealthy;
// requests are never blocked on it.
func (g *OpenAIGenerator) HealthPing(ctx context.Context) error {
	resp, err := g.client.R().SetContext(ctx).Get("/v1/models")
	if err != nil {
		return err
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("completion API status %d", resp.StatusCode())
	}
	return nil
}
