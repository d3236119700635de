package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhoicas/product-enricher/internal/application/dto"
	"github.com/jhoicas/product-enricher/internal/application/usecase"
	"github.com/jhoicas/product-enricher/internal/domain"
	"github.com/jhoicas/product-enricher/internal/domain/language"
	infraai "github.com/jhoicas/product-enricher/internal/infrastructure/ai"
	"github.com/jhoicas/product-enricher/pkg/jwt"
)

const successMessage = "Successfully processed the request"

// newAnalyzeCmd crea el subcomando analyze.
func newAnalyzeCmd() *cobra.Command {
	var (
		file     string
		industry string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Categoriza un producto (objeto JSON) con el modelo configurado",
		Example: `  enrich analyze --file product.json --industry jewelry
  echo '{"title":"Gold ear cuff"}' | enrich analyze`,
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readInput(cmd, file)
			if err != nil {
				return err
			}
			product, err := dto.DecodeProduct(body)
			if err != nil {
				return writeError(cmd, err)
			}

			llm, err := infraai.NewLLMService(infraai.Options{
				Provider:    cfg.AI.Provider,
				APIKey:      cfg.AI.APIKey(),
				Model:       cfg.AI.Model(),
				BaseURL:     cfg.AI.BaseURL(),
				Temperature: cfg.AI.Temperature,
			})
			if err != nil {
				return err
			}
			uc := usecase.NewAIUseCase(llm, language.NewDetector(log.Component("language")), usecase.AIConfig{
				Timeout:         cfg.AI.Timeout,
				DefaultIndustry: cfg.Enrich.DefaultIndustry,
			}, log.Component("enrich"))

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.AI.Timeout+5*time.Second)
			defer cancel()

			result, err := uc.AnalyzeProduct(ctx, product, dto.ResolveIndustry(industry, product))
			if err != nil {
				// Mismo sobre que la API; el detalle queda en los logs.
				if werr := writeJSON(cmd, dto.ErrorResponse{Error: domain.ErrAnalysisFailed.Error()}); werr != nil {
					return werr
				}
				return err
			}
			return writeJSON(cmd, dto.AnalyzeResponse{Message: successMessage, ProductDetails: result})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "-", "archivo JSON del producto ('-' = stdin)")
	cmd.Flags().StringVar(&industry, "industry", "", "industria del prompt (por defecto el campo industry del producto o ENRICH_DEFAULT_INDUSTRY)")
	return cmd
}

// newCategoriesCmd crea el subcomando categories.
func newCategoriesCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:     "categories",
		Short:   "Construye categorías jerárquicas a partir de atributos del producto",
		Example: `  enrich categories --file request.json   # {"product":{...},"categories":[{"type":"main","attributes":["category"]}]}`,
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readInput(cmd, file)
			if err != nil {
				return err
			}
			req, err := dto.DecodeCategorizeRequest(body)
			if err != nil {
				return writeError(cmd, err)
			}

			// El procesador de categorías no usa el modelo.
			uc := usecase.NewAIUseCase(nil, nil, usecase.AIConfig{}, log.Component("enrich"))
			details, err := uc.ProcessCategories(req)
			if err != nil {
				return writeError(cmd, err)
			}
			return writeJSON(cmd, dto.CategorizeResponse{Message: successMessage, ProductDetails: details})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "-", "archivo JSON con product y categories ('-' = stdin)")
	return cmd
}

// newTokenCmd crea el subcomando token.
func newTokenCmd() *cobra.Command {
	var (
		clientID string
		minutes  int
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Emite un Bearer Token firmado con JWT_SECRET",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cfg.JWT.Enabled() {
				return fmt.Errorf("JWT_SECRET no configurado: la autenticación está desactivada")
			}
			if minutes <= 0 {
				minutes = cfg.JWT.Expiration
			}
			tok, err := jwt.Generate(cfg.JWT.Secret, clientID, cfg.JWT.Issuer, minutes)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), tok)
			return err
		},
	}

	cmd.Flags().StringVar(&clientID, "client", "", "identificador del cliente (obligatorio)")
	cmd.Flags().IntVar(&minutes, "minutes", 0, "vigencia en minutos (por defecto JWT_EXPIRATION_MINUTES)")
	_ = cmd.MarkFlagRequired("client")
	return cmd
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func readInput(cmd *cobra.Command, file string) ([]byte, error) {
	if file == "" || file == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("leer %s: %w", file, err)
	}
	return data, nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeError imprime el sobre {"error": ...} en stdout y devuelve el error para el código de salida.
func writeError(cmd *cobra.Command, err error) error {
	if werr := writeJSON(cmd, dto.ErrorResponse{Error: err.Error()}); werr != nil {
		return werr
	}
	return err
}
