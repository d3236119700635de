package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/product-enricher/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	EnrichUC  *usecase.AIUseCase
	JWTSecret string // vacío = rutas de enriquecimiento públicas
	Log       zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Enriquecimiento (protegido con Bearer Token si hay JWT_SECRET)
	var enrich fiber.Router
	if deps.JWTSecret != "" {
		enrich = api.Group("/enrich", AuthMiddleware(deps.JWTSecret))
	} else {
		enrich = api.Group("/enrich")
	}
	enrichHandler := NewEnrichHandler(deps.EnrichUC, deps.Log)
	enrich.Post("/analyze", enrichHandler.Analyze)
	enrich.Post("/categories", enrichHandler.Categorize)
}
