// Package jtalk provides a client for the morphological analyzer sidecar.
//
// The sidecar exposes OpenJTalk's dictionary lookup and accent estimation
// over HTTP; this client adapts its wire format to the analysis model the
// grapheme-to-phoneme pipeline consumes.
package jtalk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kanade-tts/kanade/internal/g2p"
)

// API endpoints and paths.
const (
	apiAnalyze   = "/analyze"
	apiNormalize = "/normalize"
	apiHealth    = "/health"
)

// HTTP headers.
const (
	headerContentType = "Content-Type"
	contentTypeJSON   = "application/json"
)

// ErrAnalyzerUnavailable indicates the analyzer sidecar did not accept a
// request.
var ErrAnalyzerUnavailable = errors.New("analyzer unavailable")

// HTTPClient talks to the analyzer sidecar. It implements g2p.Analyzer.
type HTTPClient struct {
	httpClient *http.Client
	baseURL    string
}

// analyzeRequest is the JSON payload for both analyzer endpoints.
type analyzeRequest struct {
	Text string `json:"text"`
}

// wireMora mirrors the sidecar's mora-position fields. Pointers
// distinguish absent positions from zero values.
type wireMora struct {
	RelativeAccentPosition int `json:"a1"`
	PositionForward        int `json:"a2"`
	PositionBackward       int `json:"a3"`
}

type wireAccentPhrase struct {
	MoraCount       int  `json:"f1"`
	IsInterrogative bool `json:"f3"`
}

type wireLabel struct {
	Phoneme          string            `json:"phoneme"`
	Mora             *wireMora         `json:"mora"`
	AccentPhraseCurr *wireAccentPhrase `json:"accent_phrase_curr"`
	AccentPhrasePrev *wireAccentPhrase `json:"accent_phrase_prev"`
}

type wireWord struct {
	Surface string `json:"surface"`
	Reading string `json:"reading"`
}

type analyzeResponse struct {
	Words  []wireWord  `json:"words"`
	Labels []wireLabel `json:"labels"`
}

type normalizeResponse struct {
	Text string `json:"text"`
}

// errorResponse is the sidecar's structured error body.
type errorResponse struct {
	Detail string `json:"detail"`
}

// NewHTTPClient creates a client for the analyzer sidecar. The baseURL
// should include protocol and port (e.g. "http://localhost:8500").
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Analyze runs morphological analysis over normalized text and returns
// the word segmentation with full-context prosody labels.
func (c *HTTPClient) Analyze(ctx context.Context, text string) (*g2p.Analysis, error) {
	var wire analyzeResponse

	err := c.post(ctx, apiAnalyze, analyzeRequest{Text: text}, &wire)
	if err != nil {
		return nil, err
	}

	analysis := &g2p.Analysis{
		Words:  make([]g2p.Word, len(wire.Words)),
		Labels: make([]g2p.Label, len(wire.Labels)),
	}

	for i, word := range wire.Words {
		analysis.Words[i] = g2p.Word{Surface: word.Surface, Reading: word.Reading}
	}

	for i, label := range wire.Labels {
		analysis.Labels[i] = g2p.Label{
			Phoneme:          label.Phoneme,
			Mora:             convertMora(label.Mora),
			AccentPhraseCurr: convertAccentPhrase(label.AccentPhraseCurr),
			AccentPhrasePrev: convertAccentPhrase(label.AccentPhrasePrev),
		}
	}

	return analysis, nil
}

// NormalizeNumbers expands digit sequences into their Japanese readings
// so downstream analysis sees pronounceable text.
func (c *HTTPClient) NormalizeNumbers(ctx context.Context, text string) (string, error) {
	var wire normalizeResponse

	err := c.post(ctx, apiNormalize, analyzeRequest{Text: text}, &wire)
	if err != nil {
		return "", err
	}

	return wire.Text, nil
}

// HealthCheck verifies the analyzer sidecar is reachable and serving.
func (c *HTTPClient) HealthCheck(ctx context.Context) error {
	url := c.baseURL + apiHealth

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: health check at %s: %w", ErrAnalyzerUnavailable, c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: health check returned %s", ErrAnalyzerUnavailable, resp.Status)
	}

	return nil
}

func (c *HTTPClient) post(ctx context.Context, path string, payload, out any) error {
	requestBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(requestBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set(headerContentType, contentTypeJSON)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: request to %s: %w", ErrAnalyzerUnavailable, c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.parseErrorResponse(resp)
	}

	err = json.NewDecoder(resp.Body).Decode(out)
	if err != nil {
		return fmt.Errorf("failed to decode analyzer response: %w", err)
	}

	return nil
}

// parseErrorResponse decodes a structured error from the sidecar, falling
// back to the raw body when it is not JSON.
func (c *HTTPClient) parseErrorResponse(resp *http.Response) error {
	var wire errorResponse

	err := json.NewDecoder(resp.Body).Decode(&wire)
	if err == nil && wire.Detail != "" {
		return fmt.Errorf("analyzer error (%s): %s", resp.Status, wire.Detail)
	}

	body, _ := io.ReadAll(resp.Body)

	return fmt.Errorf("analyzer returned non-OK status: %s, body: %s", resp.Status, string(body))
}

func convertMora(wire *wireMora) *g2p.MoraPosition {
	if wire == nil {
		return nil
	}

	return &g2p.MoraPosition{
		RelativeAccentPosition: wire.RelativeAccentPosition,
		PositionForward:        wire.PositionForward,
		PositionBackward:       wire.PositionBackward,
	}
}

func convertAccentPhrase(wire *wireAccentPhrase) *g2p.AccentPhrase {
	if wire == nil {
		return nil
	}

	return &g2p.AccentPhrase{
		MoraCount:       wire.MoraCount,
		IsInterrogative: wire.IsInterrogative,
	}
}
