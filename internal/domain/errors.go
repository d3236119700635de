package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrNoCategories      = errors.New("no valid categories provided")
	ErrInvalidAttributes = errors.New("invalid attributes in category")
	ErrAnalysisFailed    = errors.New("Product analysis failed")
	ErrAIUnavailable     = errors.New("servicio de IA no configurado")
	ErrNotAnObject       = errors.New("el JSON no es un objeto")
)
