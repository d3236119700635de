package ports

import (
	"context"

	"github.com/jhoicas/product-enricher/internal/domain/language"
)

// LLMService define el puerto de salida hacia el modelo de lenguaje.
// Cualquier adaptador (OpenAI, Anthropic, Gemini, mock) debe implementar esta interfaz.
// La aplicación solo conoce este contrato, no la implementación concreta.
type LLMService interface {
	// Complete envía el prompt como único mensaje de usuario y devuelve el texto de la
	// primera respuesta. Se espera que ese texto sea un objeto JSON.
	// El contexto debe llevar un timeout para evitar bloqueos en llamadas externas.
	Complete(ctx context.Context, prompt string) (string, error)

	// Name identifica al proveedor y modelo para los logs ("openai/gpt-3.5-turbo-0125").
	Name() string
}

// LanguageDetector detecta el idioma de un producto.
type LanguageDetector interface {
	Detect(text string) language.Detection
}

// Verificar en tiempo de compilación que el detector de dominio cumple el puerto.
var _ LanguageDetector = (*language.Detector)(nil)

