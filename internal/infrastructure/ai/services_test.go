package ai_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/product-enricher/internal/domain"
	"github.com/jhoicas/product-enricher/internal/infrastructure/ai"
)

const modelReply = `{"main_category":"Jewelry","subcategory":"Ear Cuffs","characteristics":["gold","handcrafted"]}`

// capture guarda la última petición recibida por el servidor de pruebas.
type capture struct {
	mu      sync.Mutex
	body    map[string]any
	headers http.Header
}

func (c *capture) Body() map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.body
}

func (c *capture) Header(key string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.headers.Get(key)
}

// captureServer levanta un servidor que guarda la petición y responde status/body.
func captureServer(t *testing.T, status int, body string) (*httptest.Server, *capture) {
	t.Helper()
	c := &capture{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		c.mu.Lock()
		_ = json.Unmarshal(raw, &c.body)
		c.headers = r.Header.Clone()
		c.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, c
}

// ──────────────────────────────────────────────────────────────────────────────
// OpenAI
// ──────────────────────────────────────────────────────────────────────────────

func openAIBody(content string) string {
	b, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1,
		"model":   "gpt-3.5-turbo-0125",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	})
	return string(b)
}

func TestOpenAIService_Complete(t *testing.T) {
	srv, got := captureServer(t, http.StatusOK, openAIBody(modelReply))
	svc := ai.NewOpenAIService("sk-test", "", srv.URL+"/v1", 0.2)

	reply, err := svc.Complete(context.Background(), "Analyze this product")
	require.NoError(t, err)
	assert.Equal(t, modelReply, reply)
	assert.Equal(t, "openai/gpt-3.5-turbo-0125", svc.Name())

	body := got.Body()
	assert.Equal(t, "gpt-3.5-turbo-0125", body["model"])
	assert.InDelta(t, 0.2, body["temperature"], 0.0001)
	msgs, ok := body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 1, "un único mensaje de usuario")
	assert.Equal(t, "user", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "Analyze this product", msgs[0].(map[string]any)["content"])
	assert.Equal(t, "json_object", body["response_format"].(map[string]any)["type"])
	assert.Equal(t, "Bearer sk-test", got.Header("Authorization"))
}

func TestOpenAIService_ErrorHTTP(t *testing.T) {
	srv, _ := captureServer(t, http.StatusInternalServerError, `{"error":{"message":"boom","type":"server_error"}}`)
	svc := ai.NewOpenAIService("sk-test", "gpt-4o-mini", srv.URL+"/v1", 0.2)

	_, err := svc.Complete(context.Background(), "x")
	assert.Error(t, err)
}

func TestOpenAIService_SinChoices(t *testing.T) {
	srv, _ := captureServer(t, http.StatusOK, `{"id":"x","choices":[]}`)
	svc := ai.NewOpenAIService("sk-test", "", srv.URL+"/v1", 0.2)

	_, err := svc.Complete(context.Background(), "x")
	assert.ErrorContains(t, err, "sin choices")
}

func TestOpenAIService_SinAPIKey(t *testing.T) {
	_, err := ai.NewOpenAIService("", "", "", 0.2).Complete(context.Background(), "x")
	assert.ErrorIs(t, err, domain.ErrAIUnavailable)
}

// ──────────────────────────────────────────────────────────────────────────────
// Anthropic
// ──────────────────────────────────────────────────────────────────────────────

func TestAnthropicService_Complete(t *testing.T) {
	srv, got := captureServer(t, http.StatusOK,
		`{"content":[{"type":"text","text":`+jsonString(modelReply)+`}]}`)
	svc := ai.NewAnthropicService("ak-test", "", srv.URL, 0.2)

	reply, err := svc.Complete(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, modelReply, reply)

	assert.Equal(t, "ak-test", got.Header("x-api-key"))
	assert.Equal(t, "2023-06-01", got.Header("anthropic-version"))
	assert.Equal(t, "claude-3-5-haiku-20241022", got.Body()["model"])
	assert.InDelta(t, 0.2, got.Body()["temperature"], 0.0001)
}

func TestAnthropicService_ErrorDeLaAPI(t *testing.T) {
	srv, _ := captureServer(t, http.StatusTooManyRequests,
		`{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`)
	svc := ai.NewAnthropicService("ak-test", "", srv.URL, 0.2)

	_, err := svc.Complete(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate_limit_error")
}

func TestAnthropicService_RespuestaVacia(t *testing.T) {
	srv, _ := captureServer(t, http.StatusOK, `{"content":[]}`)
	_, err := ai.NewAnthropicService("ak-test", "", srv.URL, 0.2).Complete(context.Background(), "prompt")
	assert.ErrorContains(t, err, "vacía")
}

func TestAnthropicService_SinAPIKey(t *testing.T) {
	_, err := ai.NewAnthropicService("", "", "", 0.2).Complete(context.Background(), "x")
	assert.ErrorIs(t, err, domain.ErrAIUnavailable)
}

// ──────────────────────────────────────────────────────────────────────────────
// Gemini
// ──────────────────────────────────────────────────────────────────────────────

func TestGeminiService_Complete(t *testing.T) {
	srv, got := captureServer(t, http.StatusOK,
		`{"candidates":[{"content":{"parts":[{"text":`+jsonString(modelReply)+`}]}}]}`)
	svc := ai.NewGeminiService("gk-test", "", srv.URL, 0.2)

	reply, err := svc.Complete(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, modelReply, reply)
	assert.Equal(t, "gk-test", got.Header("x-goog-api-key"))

	genCfg := got.Body()["generationConfig"].(map[string]any)
	assert.Equal(t, "application/json", genCfg["responseMimeType"])
	assert.InDelta(t, 0.2, genCfg["temperature"], 0.0001)
}

func TestGeminiService_ErrorDeLaAPI(t *testing.T) {
	srv, _ := captureServer(t, http.StatusBadRequest, `{"error":{"code":400,"message":"API key not valid"}}`)
	_, err := ai.NewGeminiService("gk-test", "", srv.URL, 0.2).Complete(context.Background(), "prompt")
	assert.ErrorContains(t, err, "API key not valid")
}

func TestGeminiService_SinAPIKey(t *testing.T) {
	_, err := ai.NewGeminiService("", "", "", 0.2).Complete(context.Background(), "x")
	assert.ErrorIs(t, err, domain.ErrAIUnavailable)
}

// ──────────────────────────────────────────────────────────────────────────────
// Selección de proveedor
// ──────────────────────────────────────────────────────────────────────────────

func TestNewLLMService(t *testing.T) {
	cases := map[string]string{
		"":          "openai/gpt-3.5-turbo-0125",
		"openai":    "openai/gpt-3.5-turbo-0125",
		"Anthropic": "anthropic/claude-3-5-haiku-20241022",
		"gemini":    "gemini/gemini-1.5-flash",
	}
	for provider, name := range cases {
		svc, err := ai.NewLLMService(ai.Options{Provider: provider})
		require.NoError(t, err, provider)
		assert.Equal(t, name, svc.Name())
	}

	_, err := ai.NewLLMService(ai.Options{Provider: "ollama"})
	assert.Error(t, err)
}

func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
