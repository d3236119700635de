// Package main CLI de enriquecimiento de productos sin levantar el servidor HTTP.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/product-enricher/pkg/config"
	"github.com/jhoicas/product-enricher/pkg/logger"
)

var (
	verbose bool

	cfg *config.Config
	log *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Enriquecimiento de productos con IA desde la línea de comandos",
	Long: `enrich categoriza productos con el mismo caso de uso que expone la API HTTP.

Comandos:
- analyze: detecta el idioma, consulta el modelo y devuelve categorías y características
- categories: construye la jerarquía a partir de atributos del producto (sin modelo)
- token: emite un Bearer Token para un cliente de la API

La configuración se lee de variables de entorno (.env opcional), igual que el servidor.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("cargar configuración: %w", err)
		}

		level := "warn"
		if verbose {
			level = "debug"
		}
		// Logs a stderr para que stdout quede libre para el JSON.
		log = logger.New(logger.Config{
			Env:    "development",
			Level:  level,
			App:    "enrich-cli",
			Output: cmd.ErrOrStderr(),
		})
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "logs detallados en stderr")

	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newCategoriesCmd())
	rootCmd.AddCommand(newTokenCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
