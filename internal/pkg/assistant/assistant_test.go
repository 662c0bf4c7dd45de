package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewAssistantRequiresKey(t *testing.T) {
	_, err := NewAssistant()
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvAPIKey, "")
	_, err := FromEnv()
	require.ErrorIs(t, err, ErrNotConfigured)

	t.Setenv(EnvAPIKey, "test-key")
	t.Setenv(EnvModel, "test-model")
	a, err := FromEnv()
	require.NoError(t, err)
	require.Equal(t, "test-model", a.model)
}

func TestAnalyze(t *testing.T) {
	var gotBody struct {
		Model       string  `json:"model"`
		Temperature float64 `json:"temperature"`
		MaxTokens   int     `json:"max_tokens"`
		Messages    []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"choices": [{"message": {"role": "assistant", "content": "  Newegg has the best value.  "}}]
		}`))
	}))
	defer srv.Close()

	a, err := NewAssistant(
		WithAPIKey("test-key"),
		WithBaseURL(srv.URL+"/v1"),
		WithModel("test-model"),
	)
	require.NoError(t, err)

	out, err := a.Analyze(context.Background(), "Best Deal: Newegg at $949.00")
	require.NoError(t, err)
	require.Equal(t, "Newegg has the best value.", out)

	require.Equal(t, "test-model", gotBody.Model)
	require.InDelta(t, 0.7, gotBody.Temperature, 0.001)
	require.Equal(t, 500, gotBody.MaxTokens)
	require.Len(t, gotBody.Messages, 1)
	require.Contains(t, gotBody.Messages[0].Content, "Best Deal: Newegg at $949.00")
	require.Contains(t, gotBody.Messages[0].Content, "tech shopping assistant")
}

func TestAnalyzeNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices": []}`))
	}))
	defer srv.Close()

	a, err := NewAssistant(WithAPIKey("test-key"), WithBaseURL(srv.URL+"/v1"))
	require.NoError(t, err)
	_, err = a.Analyze(context.Background(), "data")
	require.Error(t, err)
}
