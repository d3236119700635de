package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"resty.dev/v3"

	"github.com/jhoicas/product-enricher/internal/application/ports"
	"github.com/jhoicas/product-enricher/internal/domain"
)

// Verificar en tiempo de compilación que AnthropicService implementa LLMService.
var _ ports.LLMService = (*AnthropicService)(nil)

const (
	anthropicBaseURL      = "https://api.anthropic.com"
	anthropicVersion      = "2023-06-01"
	defaultAnthropicModel = "claude-3-5-haiku-20241022"

	// Claude no tiene modo JSON; el system prompt lo exige y la respuesta se limpia en el caso de uso.
	anthropicSystemPrompt = "Devuelve ÚNICAMENTE un objeto JSON válido, sin markdown ni texto adicional."
)

// AnthropicService adaptador que implementa LLMService usando la API REST de Anthropic (Claude).
type AnthropicService struct {
	apiKey      string
	model       string
	baseURL     string
	temperature float32
	http        *resty.Client
}

// NewAnthropicService construye el adaptador. baseURL vacío usa la API pública.
// Si apiKey está vacío las llamadas devuelven domain.ErrAIUnavailable.
func NewAnthropicService(apiKey, model, baseURL string, temperature float32) *AnthropicService {
	if model == "" {
		model = defaultAnthropicModel
	}
	if baseURL == "" {
		baseURL = anthropicBaseURL
	}
	return &AnthropicService{
		apiKey:      apiKey,
		model:       model,
		baseURL:     baseURL,
		temperature: temperature,
		// Timeout de red de 25 s; el caso de uso impone además su propio context.WithTimeout.
		http: resty.New().SetTimeout(25 * time.Second),
	}
}

// ── Estructuras internas del protocolo Anthropic Messages API ─────────────────

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	System      string             `json:"system"`
	Temperature float32            `json:"temperature"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Name implementa LLMService.
func (s *AnthropicService) Name() string { return "anthropic/" + s.model }

// Complete envía el prompt a Claude y devuelve el texto del primer bloque.
func (s *AnthropicService) Complete(ctx context.Context, prompt string) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("AI: ANTHROPIC_API_KEY no configurado: %w", domain.ErrAIUnavailable)
	}

	payload := anthropicRequest{
		Model:       s.model,
		MaxTokens:   1024,
		System:      anthropicSystemPrompt,
		Temperature: s.temperature,
		Messages:    []anthropicMessage{{Role: "user", Content: prompt}},
	}

	resp, err := s.http.R().
		SetContext(ctx).
		SetHeader("x-api-key", s.apiKey).
		SetHeader("anthropic-version", anthropicVersion).
		SetHeader("content-type", "application/json").
		SetBody(payload).
		Post(s.baseURL + "/v1/messages")
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("AI: timeout o cancelación: %w", ctx.Err())
		}
		return "", fmt.Errorf("AI: llamada HTTP fallida: %w", err)
	}

	var anthResp anthropicResponse
	jsonErr := json.Unmarshal([]byte(resp.String()), &anthResp)

	if resp.IsError() {
		if jsonErr == nil && anthResp.Error != nil {
			return "", fmt.Errorf("AI: Anthropic error (%s): %s", anthResp.Error.Type, anthResp.Error.Message)
		}
		return "", fmt.Errorf("AI: Anthropic HTTP %d: %s", resp.StatusCode(), resp.String())
	}
	if jsonErr != nil {
		return "", fmt.Errorf("AI: deserializar respuesta Anthropic: %w", jsonErr)
	}
	if len(anthResp.Content) == 0 {
		return "", fmt.Errorf("AI: Claude devolvió respuesta vacía")
	}
	return anthResp.Content[0].Text, nil
}
