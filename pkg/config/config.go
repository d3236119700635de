package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	HTTP    HTTPConfig
	AI      AIConfig
	Enrich  EnrichConfig
	JWT     JWTConfig
	Swagger SwaggerConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string // trace, debug, info, warn, error
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// AIConfig proveedor del modelo de lenguaje. Solo se usa la credencial del proveedor elegido.
type AIConfig struct {
	Provider        string // openai, anthropic, gemini
	OpenAIAPIKey    string
	OpenAIModel     string
	OpenAIBaseURL   string // opcional: proxy compatible con OpenAI
	AnthropicAPIKey string
	AnthropicModel  string
	GeminiAPIKey    string
	GeminiModel     string
	Temperature     float32
	Timeout         time.Duration
}

// APIKey devuelve la credencial del proveedor activo.
func (c AIConfig) APIKey() string {
	switch strings.ToLower(c.Provider) {
	case "anthropic":
		return c.AnthropicAPIKey
	case "gemini":
		return c.GeminiAPIKey
	default:
		return c.OpenAIAPIKey
	}
}

// Model devuelve el modelo del proveedor activo.
func (c AIConfig) Model() string {
	switch strings.ToLower(c.Provider) {
	case "anthropic":
		return c.AnthropicModel
	case "gemini":
		return c.GeminiModel
	default:
		return c.OpenAIModel
	}
}

// BaseURL solo aplica a OpenAI.
func (c AIConfig) BaseURL() string {
	if strings.ToLower(c.Provider) == "openai" || c.Provider == "" {
		return c.OpenAIBaseURL
	}
	return ""
}

// EnrichConfig parámetros del enriquecimiento.
type EnrichConfig struct {
	DefaultIndustry string
}

// JWTConfig configuración de JWT. Secret vacío = autenticación desactivada.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// Enabled indica si las rutas de enriquecimiento exigen Bearer Token.
func (c JWTConfig) Enabled() bool { return c.Secret != "" }

// SwaggerConfig documentación de la API.
type SwaggerConfig struct {
	Enabled  bool
	FilePath string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, HTTP_PORT, OPENAI_API_KEY, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath("./config")
	_ = v.MergeInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	temperature, err := getFloat(v, "AI_TEMPERATURE", 0.2)
	if err != nil {
		return nil, err
	}
	if temperature < 0 || temperature > 2 {
		return nil, fmt.Errorf("config: AI_TEMPERATURE fuera de rango [0, 2]: %v", temperature)
	}

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "product-enricher"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		AI: AIConfig{
			Provider:        strings.ToLower(getString(v, "AI_PROVIDER", "openai")),
			OpenAIAPIKey:    getString(v, "OPENAI_API_KEY", ""),
			OpenAIModel:     getString(v, "OPENAI_MODEL", "gpt-3.5-turbo-0125"),
			OpenAIBaseURL:   getString(v, "OPENAI_BASE_URL", ""),
			AnthropicAPIKey: getString(v, "ANTHROPIC_API_KEY", ""),
			AnthropicModel:  getString(v, "ANTHROPIC_MODEL", "claude-3-5-haiku-20241022"),
			GeminiAPIKey:    getString(v, "GEMINI_API_KEY", ""),
			GeminiModel:     getString(v, "GEMINI_MODEL", "gemini-1.5-flash"),
			Temperature:     float32(temperature),
			Timeout:         time.Duration(getInt(v, "AI_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		Enrich: EnrichConfig{
			DefaultIndustry: getString(v, "ENRICH_DEFAULT_INDUSTRY", "general retail"),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "product-enricher"),
		},
		Swagger: SwaggerConfig{
			Enabled:  getBool(v, "SWAGGER_ENABLED", false),
			FilePath: getString(v, "SWAGGER_FILE", "./docs/swagger.json"),
		},
	}

	switch cfg.AI.Provider {
	case "openai", "anthropic", "gemini":
	default:
		return nil, fmt.Errorf("config: AI_PROVIDER desconocido %q", cfg.AI.Provider)
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getFloat(v *viper.Viper, key string, def float64) (float64, error) {
	if !v.IsSet(key) {
		return def, nil
	}
	if s, ok := v.Get(key).(string); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, fmt.Errorf("config: %s inválido: %w", key, err)
		}
		return f, nil
	}
	return v.GetFloat64(key), nil
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}
