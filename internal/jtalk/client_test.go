package jtalk_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kanade-tts/kanade/internal/jtalk"
)

const analyzeBody = `{
	"words": [{"surface": "雨", "reading": "アメ"}],
	"labels": [
		{"phoneme": "sil"},
		{"phoneme": "a", "mora": {"a1": -1, "a2": 1, "a3": 2}},
		{"phoneme": "m", "mora": {"a1": -1, "a2": 2, "a3": 1}},
		{"phoneme": "e", "mora": {"a1": -1, "a2": 2, "a3": 1}},
		{"phoneme": "sil", "accent_phrase_prev": {"f1": 2, "f3": false}}
	]
}`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("/analyze", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		var req struct {
			Text string `json:"text"`
		}

		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		if req.Text == "" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"detail": "text is empty"}`))

			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(analyzeBody))
	})

	mux.HandleFunc("/normalize", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text": "三時"}`))
	})

	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return server
}

func TestAnalyze(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	client := jtalk.NewHTTPClient(server.URL, 5*time.Second)

	analysis, err := client.Analyze(context.Background(), "雨")
	require.NoError(t, err)

	require.Len(t, analysis.Words, 1)
	assert.Equal(t, "雨", analysis.Words[0].Surface)
	assert.Equal(t, "アメ", analysis.Words[0].Reading)

	require.Len(t, analysis.Labels, 5)
	assert.Equal(t, "sil", analysis.Labels[0].Phoneme)
	assert.Nil(t, analysis.Labels[0].Mora)

	require.NotNil(t, analysis.Labels[1].Mora)
	assert.Equal(t, 1, analysis.Labels[1].Mora.PositionForward)

	require.NotNil(t, analysis.Labels[4].AccentPhrasePrev)
	assert.Equal(t, 2, analysis.Labels[4].AccentPhrasePrev.MoraCount)
	assert.False(t, analysis.Labels[4].AccentPhrasePrev.IsInterrogative)
}

func TestAnalyze_ServiceError(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	client := jtalk.NewHTTPClient(server.URL, 5*time.Second)

	_, err := client.Analyze(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "text is empty")
}

func TestNormalizeNumbers(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	client := jtalk.NewHTTPClient(server.URL, 5*time.Second)

	text, err := client.NormalizeNumbers(context.Background(), "3時")
	require.NoError(t, err)
	assert.Equal(t, "三時", text)
}

func TestHealthCheck(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	client := jtalk.NewHTTPClient(server.URL, 5*time.Second)

	require.NoError(t, client.HealthCheck(context.Background()))
}

func TestHealthCheck_Unreachable(t *testing.T) {
	t.Parallel()

	client := jtalk.NewHTTPClient("http://127.0.0.1:1", time.Second)

	err := client.HealthCheck(context.Background())
	require.ErrorIs(t, err, jtalk.ErrAnalyzerUnavailable)
}
