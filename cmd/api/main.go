package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/product-enricher/internal/application/usecase"
	"github.com/jhoicas/product-enricher/internal/domain/language"
	infraai "github.com/jhoicas/product-enricher/internal/infrastructure/ai"
	httpRouter "github.com/jhoicas/product-enricher/internal/interfaces/http"
	"github.com/jhoicas/product-enricher/pkg/config"
	"github.com/jhoicas/product-enricher/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		App:   cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("provider", cfg.AI.Provider).
		Bool("auth", cfg.JWT.Enabled()).
		Msg("iniciando aplicación")

	llm, err := infraai.NewLLMService(infraai.Options{
		Provider:    cfg.AI.Provider,
		APIKey:      cfg.AI.APIKey(),
		Model:       cfg.AI.Model(),
		BaseURL:     cfg.AI.BaseURL(),
		Temperature: cfg.AI.Temperature,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("proveedor de IA")
	}
	if cfg.AI.APIKey() == "" {
		log.Warn().Str("provider", cfg.AI.Provider).Msg("sin API key: las peticiones a /api/enrich/analyze fallarán con 500")
	}

	detector := language.NewDetector(log.Component("language"))
	enrichUC := usecase.NewAIUseCase(llm, detector, usecase.AIConfig{
		Timeout:         cfg.AI.Timeout,
		DefaultIndustry: cfg.Enrich.DefaultIndustry,
	}, log.Component("enrich"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: cfg.AI.Timeout + time.Second*10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	if cfg.Swagger.Enabled {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.Swagger.FilePath,
			Path:     "docs",
			Title:    "Product Enricher API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "llm": llm.Name()})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		EnrichUC:  enrichUC,
		JWTSecret: cfg.JWT.Secret,
		Log:       log.Component("enrich_handler"),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
