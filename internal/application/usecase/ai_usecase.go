package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/product-enricher/internal/application/dto"
	"github.com/jhoicas/product-enricher/internal/application/ports"
	"github.com/jhoicas/product-enricher/internal/domain"
	"github.com/jhoicas/product-enricher/internal/domain/catalog"
	"github.com/jhoicas/product-enricher/internal/domain/entity"
	"github.com/jhoicas/product-enricher/internal/domain/language"
)

// DefaultIndustry industria usada cuando la petición no indica ninguna.
const DefaultIndustry = "general retail"

// AIConfig parámetros del caso de uso.
type AIConfig struct {
	Timeout         time.Duration // 0 = sin timeout propio (aplica el del transporte)
	DefaultIndustry string
}

// AIUseCase orquesta el enriquecimiento de productos: idioma → prompt → modelo → resultado.
// Una sola llamada al modelo por petición, sin reintentos.
type AIUseCase struct {
	llm      ports.LLMService
	detector ports.LanguageDetector
	cfg      AIConfig
	log      zerolog.Logger
}

// NewAIUseCase construye el caso de uso inyectando el puerto LLMService y el detector de idioma.
func NewAIUseCase(llm ports.LLMService, detector ports.LanguageDetector, cfg AIConfig, log zerolog.Logger) *AIUseCase {
	if cfg.DefaultIndustry == "" {
		cfg.DefaultIndustry = DefaultIndustry
	}
	return &AIUseCase{llm: llm, detector: detector, cfg: cfg, log: log}
}

// AnalyzeProduct categoriza el producto con el modelo.
// Cualquier fallo (prompt, red, respuesta no parseable) se registra y se devuelve como
// domain.ErrAnalysisFailed; la causa solo queda en los logs y en la cadena de errores.
func (uc *AIUseCase) AnalyzeProduct(ctx context.Context, product *entity.Product, industry string) (*dto.AnalysisResult, error) {
	if product == nil || product.Len() == 0 {
		return nil, uc.fail(fmt.Errorf("%w: producto vacío", domain.ErrInvalidInput))
	}
	if strings.TrimSpace(industry) == "" {
		industry = uc.cfg.DefaultIndustry
	}

	lang := language.ResolveProductLanguage(uc.detector, product)
	prompt := BuildPrompt(product, industry, lang.Code)

	log := uc.log.With().
		Str("llm", uc.llm.Name()).
		Str("lang", lang.Code).
		Str("industry", industry).
		Logger()
	if !lang.Detected() {
		log.Debug().Str("fallback", string(lang.Fallback)).Msg("idioma por defecto")
	}

	if uc.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	reply, err := uc.llm.Complete(ctx, prompt)
	if err != nil {
		return nil, uc.fail(fmt.Errorf("llamada al modelo: %w", err))
	}
	log.Debug().Dur("latency", time.Since(start)).Int("reply_chars", len(reply)).Msg("respuesta del modelo")

	classification, err := ParseClassification(reply)
	if err != nil {
		return nil, uc.fail(err)
	}
	return dto.NewAnalysisResult(classification), nil
}

// ProcessCategories normaliza categorías suministradas por el cliente sin llamar al modelo.
func (uc *AIUseCase) ProcessCategories(req dto.CategorizeRequest) (*dto.CategoryDetails, error) {
	product := req.Product
	if product == nil {
		product = entity.NewProduct()
	}
	res, err := catalog.ProcessCategories(req.Categories, product)
	if err != nil {
		uc.log.Warn().Err(err).Msg("categorías inválidas")
		return nil, err
	}
	return dto.NewCategoryDetails(res), nil
}

func (uc *AIUseCase) fail(cause error) error {
	uc.log.Error().Err(cause).Msg("error analizando producto")
	return fmt.Errorf("%w: %w", domain.ErrAnalysisFailed, cause)
}

// ── Interpretación de la respuesta del modelo ─────────────────────────────────

// jsonBlockRe extrae el primer objeto JSON del texto aunque el modelo lo envuelva en texto.
var jsonBlockRe = regexp.MustCompile(`(?s)\{.*\}`)

var errEmptyReply = errors.New("el modelo devolvió una respuesta vacía")

// ParseClassification interpreta la respuesta del modelo. main_category es obligatorio;
// characteristics ausente se interpreta como lista vacía; números y booleanos se
// pasan a texto y null, arreglos u objetos se descartan.
func ParseClassification(reply string) (entity.Classification, error) {
	clean := extractJSON(reply)
	if clean == "" {
		return entity.Classification{}, errEmptyReply
	}

	var payload dto.LLMClassificationPayload
	if err := json.Unmarshal([]byte(clean), &payload); err != nil {
		return entity.Classification{}, fmt.Errorf("parsear JSON de clasificación: %w", err)
	}
	if strings.TrimSpace(payload.MainCategory) == "" {
		return entity.Classification{}, fmt.Errorf("respuesta sin main_category: %s", clean)
	}

	characteristics := make([]string, 0, len(payload.Characteristics))
	for _, item := range payload.Characteristics {
		if item.IsScalar() {
			characteristics = append(characteristics, item.Text())
		}
	}
	return entity.Classification{
		MainCategory:    payload.MainCategory,
		Subcategory:     payload.Subcategory,
		Characteristics: characteristics,
	}, nil
}

// extractJSON extrae el objeto JSON de un texto libre:
//  1. Elimina bloques de código markdown (```json … ``` o ``` … ```).
//  2. Si no empieza con '{', captura el primer bloque { … }.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.Index(text, "```"); idx != -1 {
		after := text[idx+3:]
		if nl := strings.Index(after, "\n"); nl != -1 {
			after = after[nl+1:]
		}
		if end := strings.LastIndex(after, "```"); end != -1 {
			after = after[:end]
		}
		text = strings.TrimSpace(after)
	}
	if strings.HasPrefix(text, "{") {
		return text
	}
	return strings.TrimSpace(jsonBlockRe.FindString(text))
}
