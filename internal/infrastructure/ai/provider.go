package ai

import (
	"fmt"
	"strings"

	"github.com/jhoicas/product-enricher/internal/application/ports"
)

// Proveedores soportados.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// Options datos para construir el adaptador del proveedor elegido.
type Options struct {
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float32
}

// NewLLMService devuelve el adaptador del proveedor indicado (openai por defecto).
func NewLLMService(opts Options) (ports.LLMService, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Provider)) {
	case "", ProviderOpenAI:
		return NewOpenAIService(opts.APIKey, opts.Model, opts.BaseURL, opts.Temperature), nil
	case ProviderAnthropic:
		return NewAnthropicService(opts.APIKey, opts.Model, opts.BaseURL, opts.Temperature), nil
	case ProviderGemini:
		return NewGeminiService(opts.APIKey, opts.Model, opts.BaseURL, opts.Temperature), nil
	default:
		return nil, fmt.Errorf("AI: proveedor desconocido %q", opts.Provider)
	}
}
