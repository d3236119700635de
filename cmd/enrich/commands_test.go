package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/product-enricher/pkg/jwt"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

// fakeOpenAI levanta un servidor compatible con Chat Completions que responde reply
// y devuelve una función con los prompts recibidos.
func fakeOpenAI(t *testing.T, reply string) func() []string {
	t.Helper()
	var (
		mu      sync.Mutex
		prompts []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil && len(req.Messages) > 0 {
			mu.Lock()
			prompts = append(prompts, req.Messages[0].Content)
			mu.Unlock()
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 1,
			"model":   "gpt-3.5-turbo-0125",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": reply},
				"finish_reason": "stop",
			}},
		})
	}))
	t.Cleanup(srv.Close)

	t.Setenv("AI_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_BASE_URL", srv.URL+"/v1")

	return func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), prompts...)
	}
}

func TestAnalyzeCmd_OK(t *testing.T) {
	prompts := fakeOpenAI(t, `{"main_category":"Jewelry","subcategory":"Ear Cuffs","characteristics":["gold",14]}`)
	body := `{"title":"Gold ear cuff, handcrafted","industry":"jewelry"}`

	out, err := run(t, body, "analyze")
	require.NoError(t, err)

	var resp map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	assert.Equal(t, successMessage, resp["message"])
	details := resp["productDetails"].(map[string]any)
	assert.Equal(t, []any{"Jewelry > Ear Cuffs", "Jewelry"}, details["categoryIdentifiers"])
	assert.Equal(t, map[string]any{"lvl0": "Jewelry", "lvl1": "Jewelry > Ear Cuffs"}, details["hierarchicalCategories"])
	assert.Equal(t, []any{"gold", "14"}, details["productCharacteristics"])

	got := prompts()
	require.Len(t, got, 1)
	assert.True(t, strings.HasPrefix(got[0], "Analyze this product and respond in English"), got[0])
	assert.Contains(t, got[0], "based on the jewelry industry")

	// El flag tiene prioridad sobre el campo del producto.
	analyzeCmd, _, err := rootCmd.Find([]string{"analyze"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = analyzeCmd.Flags().Set("industry", "") })
	_, err = run(t, body, "analyze", "--industry", "fashion")
	require.NoError(t, err)
	got = prompts()
	require.Len(t, got, 2)
	assert.Contains(t, got[1], "based on the fashion industry")
}

func TestCategoriesCmd(t *testing.T) {
	out, err := run(t, `{"product":{"category":"Jewelry/Ear Cuffs"},"categories":[{"type":"main","attributes":["category"]}]}`,
		"categories")
	require.NoError(t, err)

	var resp map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, successMessage, resp["message"])
	details := resp["productDetails"].(map[string]any)
	assert.Equal(t, []any{"Jewelry/Ear Cuffs"}, details["categoryIdentifiers"])
}

func TestCategoriesCmd_SinCategorias(t *testing.T) {
	out, err := run(t, `{"product":{},"categories":[]}`, "categories")
	require.Error(t, err)
	assert.Contains(t, out, `"error": "no valid categories provided"`)
}

func TestAnalyzeCmd_CuerpoInvalido(t *testing.T) {
	out, err := run(t, "{not json", "analyze")
	require.Error(t, err)
	assert.Contains(t, out, "Invalid JSON format in request body")
}

func TestTokenCmd(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-secret")

	out, err := run(t, "", "token", "--client", "catalog-importer", "--minutes", "5")
	require.NoError(t, err)

	clientID, err := jwt.Parse("cli-secret", strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "catalog-importer", clientID)
}

func TestTokenCmd_SinSecret(t *testing.T) {
	_, err := run(t, "", "token", "--client", "x")
	assert.ErrorContains(t, err, "JWT_SECRET")
}
