package generation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"alcyxob/workout-planner/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.GenerationConfig{
		APIKey:      "test-key",
		Model:       "gemini-test",
		Endpoint:    srv.URL + "/",
		APIVersion:  "v1beta",
		Temperature: 0.4,
	})
}

// wireRequest is the subset of the generateContent body the client must send.
type wireRequest struct {
	Contents []struct {
		Role  string `json:"role"`
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"contents"`
	GenerationConfig struct {
		Temperature      float64 `json:"temperature"`
		ResponseMimeType string  `json:"responseMimeType"`
	} `json:"generationConfig"`
}

func writeCandidate(w http.ResponseWriter, parts ...string) {
	ps := make([]map[string]string, 0, len(parts))
	for _, p := range parts {
		ps = append(ps, map[string]string{"text": p})
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"candidates": []any{map[string]any{"content": map[string]any{"parts": ps}}},
	})
}

func TestClientGenerateSuccess(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1beta/models/gemini-test:generateContent", r.URL.Path)
		require.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		require.Empty(t, r.URL.Query().Get("key"))

		var req wireRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "application/json", req.GenerationConfig.ResponseMimeType)
		require.InDelta(t, 0.4, req.GenerationConfig.Temperature, 1e-6)
		require.Len(t, req.Contents, 1)
		require.Equal(t, "user", req.Contents[0].Role)
		require.Contains(t, req.Contents[0].Parts[0].Text, "BEGINNER")

		// The plan arrives split across two parts.
		writeCandidate(w, `{"title":"Split","summary":"s",`, `"days":[{"day":"Day 1","exercises":[{"name":"Squat"}]}]}`)
	})

	freq, dur := 3, 45
	res, err := client.Generate(context.Background(), Profile{
		ExperienceLevel: "beginner",
		TargetMuscles:   []string{"chest", "back"},
		Frequency:       &freq,
		SessionDuration: &dur,
	})
	require.NoError(t, err)
	require.Equal(t, "Split", res.Content.Title)
	require.Len(t, res.Content.Days, 1)
	require.True(t, strings.HasPrefix(res.RawText, `{"title":"Split"`))
}

func TestClientGenerateUpstreamError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`))
	})

	_, err := client.Generate(context.Background(), Profile{})
	var genErr *GenerationError
	require.True(t, errors.As(err, &genErr))

	var statusErr *UpstreamStatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusTooManyRequests, statusErr.Status)
	require.Contains(t, err.Error(), "quota exceeded")
}

func TestClientGenerateEmptyDays(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeCandidate(w, `{"title":"t","summary":"s","days":[]}`)
	})

	_, err := client.Generate(context.Background(), Profile{})
	require.ErrorIs(t, err, ErrEmptyPlan)
}

func TestClientGenerateNoCandidates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	})

	_, err := client.Generate(context.Background(), Profile{})
	require.ErrorIs(t, err, ErrEmptyResponse)
}

func TestClientGenerateUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	client := NewClient(config.GenerationConfig{APIKey: "secret-key", Model: "m", Endpoint: srv.URL, APIVersion: "v1beta"})

	_, err := client.Generate(context.Background(), Profile{})
	var genErr *GenerationError
	require.True(t, errors.As(err, &genErr))
	require.NotContains(t, err.Error(), "secret-key")
}

func TestClientGenerateRequiresAPIKey(t *testing.T) {
	client := NewClient(config.GenerationConfig{Endpoint: "http://unused"})
	_, err := client.Generate(context.Background(), Profile{})
	var genErr *GenerationError
	require.True(t, errors.As(err, &genErr))
}

func TestClientGenerateMakesOneRequest(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	})

	_, err := client.Generate(context.Background(), Profile{})
	var statusErr *UpstreamStatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusServiceUnavailable, statusErr.Status)
	require.Equal(t, 1, calls)
}

func TestUpstreamErrorTruncatesLongMessages(t *testing.T) {
	err := upstreamError(genai.APIError{Code: 500, Message: strings.Repeat("x", 2*maxErrorBody)})
	var statusErr *UpstreamStatusError
	require.True(t, errors.As(err, &statusErr))
	require.Len(t, statusErr.Body, maxErrorBody)

	plain := errors.New("connection reset")
	require.Same(t, plain, upstreamError(plain))
}
