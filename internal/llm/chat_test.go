package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChatServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request, req chatRequest)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		handler(w, r, req)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func chatConfig(baseURL, key string) *Config {
	cfg := DefaultConfigFor(ProviderNVIDIA)
	cfg.BaseURL = baseURL
	cfg.APIKey = key
	return cfg
}

func TestChatClient_GenerateJSON(t *testing.T) {
	srv := newChatServer(t, func(w http.ResponseWriter, r *http.Request, req chatRequest) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		assert.Equal(t, "z-ai/glm4.7", req.Model)
		assert.Equal(t, float32(1), req.Temperature)
		assert.Equal(t, float32(1), req.TopP)
		assert.Equal(t, 16384, req.MaxTokens)
		assert.False(t, req.Stream)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.True(t, strings.HasPrefix(req.Messages[0].Content, "Be helpful.\nYou must respond ONLY with valid JSON"))
		assert.Contains(t, req.Messages[0].Content, `"fullName": "string"`)
		assert.Contains(t, req.Messages[0].Content, "Return only the raw JSON object.")
		assert.Equal(t, "user", req.Messages[1].Role)
		assert.Equal(t, "polish this", req.Messages[1].Content)

		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"fullName\":\"A\"}"}}]}`))
	})

	client, err := NewChatClient(chatConfig(srv.URL+"/v1", "secret"))
	require.NoError(t, err)

	out, err := client.GenerateJSON(context.Background(), Request{
		System: "Be helpful.",
		Prompt: "polish this",
		Schema: Object(nil, Field{Name: "fullName", Schema: String("")}),
	})
	require.NoError(t, err)
	assert.Equal(t, `{"fullName":"A"}`, out)
}

func TestChatClient_NoKeyThroughRelay(t *testing.T) {
	srv := newChatServer(t, func(w http.ResponseWriter, r *http.Request, _ chatRequest) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{}"}}]}`))
	})

	client, err := NewChatClient(chatConfig(srv.URL+"/api/nvidia/v1/", ""))
	require.NoError(t, err)

	out, err := client.GenerateJSON(context.Background(), Request{Prompt: "x"})
	require.NoError(t, err)
	assert.Equal(t, "{}", out)
}

func TestNewChatClient_RequiresKeyForPublicEndpoint(t *testing.T) {
	_, err := NewChatClient(DefaultConfigFor(ProviderNVIDIA))
	assert.True(t, errors.Is(err, ErrMissingAPIKey))
}

func TestChatClient_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantAPI bool
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"detail":"bad key"}`, wantAPI: true},
		{name: "server error", status: http.StatusBadGateway, body: "upstream down", wantAPI: true},
		{name: "no choices", status: http.StatusOK, body: `{"choices":[]}`},
		{name: "empty content", status: http.StatusOK, body: `{"choices":[{"message":{"content":"  "}}]}`},
		{name: "error object", status: http.StatusOK, body: `{"error":{"message":"quota","type":"rate_limit"}}`},
		{name: "not json", status: http.StatusOK, body: `<html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newChatServer(t, func(w http.ResponseWriter, _ *http.Request, _ chatRequest) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			client, err := NewChatClient(chatConfig(srv.URL, "k"))
			require.NoError(t, err)

			_, err = client.GenerateJSON(context.Background(), Request{Prompt: "x"})
			require.Error(t, err)

			var apiErr *APIError
			assert.Equal(t, tt.wantAPI, errors.As(err, &apiErr))
			if tt.wantAPI {
				assert.Equal(t, tt.status, apiErr.StatusCode)
				assert.Equal(t, tt.body, apiErr.Body)
			}
		})
	}
}

func TestNewClient_SelectsProvider(t *testing.T) {
	client, err := NewClient(context.Background(), chatConfig("http://localhost:1/v1", ""))
	require.NoError(t, err)
	assert.IsType(t, &ChatClient{}, client)
	assert.Equal(t, DefaultNVIDIAModel, client.Model())

	_, err = NewClient(context.Background(), DefaultConfig())
	assert.True(t, errors.Is(err, ErrMissingAPIKey))
}

func TestUnavailable(t *testing.T) {
	u := Unavailable{Err: ErrMissingAPIKey, ModelName: "m"}
	_, err := u.GenerateJSON(context.Background(), Request{})
	assert.Equal(t, ErrMissingAPIKey, err)
	assert.Equal(t, "m", u.Model())
	assert.NoError(t, u.Close())
}
