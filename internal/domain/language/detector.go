// Package language detecta el idioma dominante de los textos de un producto.
package language

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/abadojack/whatlanggo"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"

	"github.com/jhoicas/product-enricher/internal/domain/entity"
)

// Fallback es el idioma usado cuando la detección no es concluyente.
const Fallback = "en"

// MinTextRunes longitud mínima para intentar la detección; por debajo el resultado es Fallback.
const MinTextRunes = 10

// FallbackReason explica por qué se usó el idioma por defecto.
type FallbackReason string

const (
	ReasonNone          FallbackReason = ""
	ReasonEmpty         FallbackReason = "empty"
	ReasonTooShort      FallbackReason = "too_short"
	ReasonUndetermined  FallbackReason = "undetermined"
	ReasonDetectorError FallbackReason = "detector_error"
	ReasonNoTextField   FallbackReason = "no_text_field"
)

// Detection resultado explícito de una detección: el código y, si aplica, el motivo del fallback.
type Detection struct {
	Code     string
	Fallback FallbackReason
}

// Detected indica si el código proviene del detector y no del fallback.
func (d Detection) Detected() bool { return d.Fallback == ReasonNone }

func fallback(reason FallbackReason) Detection {
	return Detection{Code: Fallback, Fallback: reason}
}

// Detector identifica idiomas con un modelo estadístico de trigramas (whatlanggo).
type Detector struct {
	log    zerolog.Logger
	detect func(string) whatlanggo.Info
}

// NewDetector construye el detector.
func NewDetector(log zerolog.Logger) *Detector {
	return &Detector{log: log, detect: whatlanggo.Detect}
}

// Detect devuelve el código de idioma del texto. Nunca falla: cualquier error
// (texto vacío o corto, resultado poco fiable, panic interno) degrada a Fallback y se registra.
func (d *Detector) Detect(text string) (out Detection) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return fallback(ReasonEmpty)
	}
	if utf8.RuneCountInString(trimmed) < MinTextRunes {
		d.log.Debug().Int("runes", utf8.RuneCountInString(trimmed)).Msg("texto demasiado corto, se usa el idioma por defecto")
		return fallback(ReasonTooShort)
	}

	defer func() {
		if r := recover(); r != nil {
			d.log.Warn().Str("panic", fmt.Sprint(r)).Msg("error detectando idioma, se usa el idioma por defecto")
			out = fallback(ReasonDetectorError)
		}
	}()

	info := d.detect(trimmed)
	code := info.Lang.Iso6393()
	if code == "" || !info.IsReliable() {
		d.log.Debug().
			Str("guess", code).
			Float64("confidence", info.Confidence).
			Msg("idioma indeterminado, se usa el idioma por defecto")
		return fallback(ReasonUndetermined)
	}
	return Detection{Code: canonical(code)}
}

// canonical reduce el código a su forma más corta: "fra" → "fr", "fil" → "fil".
func canonical(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	base, conf := tag.Base()
	if conf == language.No {
		return code
	}
	return base.String()
}

// textFields campos candidatos, en orden de prioridad.
var textFields = []string{"description", "title", "name", "productName", "label"}

// TextDetector permite sustituir el detector en pruebas.
type TextDetector interface {
	Detect(text string) Detection
}

// ResolveProductLanguage detecta el idioma del primer campo candidato con texto no vacío.
// Si ninguno califica devuelve Fallback sin invocar al detector.
func ResolveProductLanguage(d TextDetector, product *entity.Product) Detection {
	for _, field := range textFields {
		v, ok := product.Get(field)
		if !ok || v.Kind != entity.KindString {
			continue
		}
		if strings.TrimSpace(v.Str) == "" {
			continue
		}
		return d.Detect(v.Str)
	}
	return fallback(ReasonNoTextField)
}
