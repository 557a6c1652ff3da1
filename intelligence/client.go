// Package intelligence is the text-analysis collaborator. Its failures are
// always recoverable: callers substitute a placeholder annotation and move
// on, never blocking a report transition.
package intelligence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"pawrescue/apperr"
)

type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

func NewClient(apiKey, model string, timeout time.Duration) *Client {
	return &Client{
		apiKey:  strings.TrimSpace(apiKey),
		model:   strings.TrimSpace(model),
		baseURL: "https://generativelanguage.googleapis.com/v1beta/models",
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Enabled reports whether an API key is configured. Disabled clients fail
// fast with ErrTextAnalysisUnavailable.
func (c *Client) Enabled() bool {
	return c != nil && c.apiKey != ""
}

type generateRequest struct {
	SystemInstruction *systemInstruction `json:"system_instruction,omitempty"`
	Contents          []content          `json:"contents"`
	GenerationConfig  generationConfig   `json:"generationConfig"`
}

type systemInstruction struct {
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

const analyzeSystemPrompt = `You are an assistant for a stray-animal rescue
service. Summarize the sighting description in at most two short sentences.
Identify breed and color when possible and estimate urgency.`

// AnalyzeReport returns a short derived annotation for a new sighting.
func (c *Client) AnalyzeReport(ctx context.Context, description string) (string, error) {
	return c.generate(ctx, analyzeSystemPrompt, "Sighting description: "+description)
}

const rescueAuditPrompt = `You review rescue updates for a stray-animal
rescue service. Check whether the rescue details are logically consistent
with the original sighting description. Answer "plausible" or "suspicious"
with a one-sentence reason.`

// AuditRescue checks rescue details against the original description and
// returns an advisory verdict.
func (c *Client) AuditRescue(ctx context.Context, description, rescueDetails string) (string, error) {
	prompt := fmt.Sprintf("Original description: %s\nRescue details: %s", description, rescueDetails)
	return c.generate(ctx, rescueAuditPrompt, prompt)
}

func (c *Client) generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if !c.Enabled() {
		return "", fmt.Errorf("analysis api key not configured: %w", apperr.ErrTextAnalysisUnavailable)
	}

	reqBody := generateRequest{
		SystemInstruction: &systemInstruction{
			Parts: []part{{Text: systemPrompt}},
		},
		Contents: []content{
			{
				Role:  "user",
				Parts: []part{{Text: userPrompt}},
			},
		},
		GenerationConfig: generationConfig{
			Temperature:     0.25,
			MaxOutputTokens: 400,
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal analysis request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create analysis request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("analysis call failed: %w: %v", apperr.ErrTextAnalysisUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read analysis response: %w: %v", apperr.ErrTextAnalysisUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("analysis API status %d: %w", resp.StatusCode, apperr.ErrTextAnalysisUnavailable)
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode analysis response: %w: %v", apperr.ErrTextAnalysisUnavailable, err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("analysis API error %q: %w", parsed.Error.Message, apperr.ErrTextAnalysisUnavailable)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty analysis response: %w", apperr.ErrTextAnalysisUnavailable)
	}

	return strings.TrimSpace(parsed.Candidates[0].Content.Parts[0].Text), nil
}
