package ai

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/jhoicas/product-enricher/internal/application/ports"
	"github.com/jhoicas/product-enricher/internal/domain"
)

// Verificar en tiempo de compilación que OpenAIService implementa LLMService.
var _ ports.LLMService = (*OpenAIService)(nil)

const defaultOpenAIModel = "gpt-3.5-turbo-0125"

// OpenAIService adaptador que implementa LLMService con el SDK go-openai (Chat Completions).
type OpenAIService struct {
	client      *openai.Client
	apiKey      string
	model       string
	temperature float32
}

// NewOpenAIService construye el adaptador. baseURL vacío usa la API pública de OpenAI;
// se puede apuntar a un proxy compatible o a un servidor de pruebas.
// Si apiKey está vacío las llamadas devuelven domain.ErrAIUnavailable en lugar de panic.
func NewOpenAIService(apiKey, model, baseURL string, temperature float32) *OpenAIService {
	if model == "" {
		model = defaultOpenAIModel
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIService{
		client:      openai.NewClientWithConfig(cfg),
		apiKey:      apiKey,
		model:       model,
		temperature: temperature,
	}
}

// Name implementa LLMService.
func (s *OpenAIService) Name() string { return "openai/" + s.model }

// Complete envía el prompt como único mensaje de usuario con temperatura baja y
// formato de respuesta JSON.
func (s *OpenAIService) Complete(ctx context.Context, prompt string) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("AI: OPENAI_API_KEY no configurado: %w", domain.ErrAIUnavailable)
	}

	req := openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: s.temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("AI: timeout o cancelación: %w", ctx.Err())
		}
		return "", fmt.Errorf("AI: crear chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("AI: OpenAI devolvió respuesta sin choices")
	}
	return resp.Choices[0].Message.Content, nil
}
