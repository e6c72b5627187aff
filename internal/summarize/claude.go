// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/template"

	"github.com/pdiddy/papergenie/pkg/types"
)

const (
	defaultClaudeURL   = "https://api.anthropic.com/v1/messages"
	defaultClaudeModel = "claude-sonnet-4-5"
	anthropicVersion   = "2023-06-01"
)

var summaryPromptTmpl = template.Must(template.New("summary").Parse(`Summarize the opening of the academic paper below for a researcher deciding whether to read it.

Write one plain-text paragraph of {{.MinLength}} to {{.MaxLength}} words. State the problem, the approach, and the main result when the text gives them. Do not use Markdown, bullet points, or a preamble such as "This paper". Respond with the summary only.

Paper text:
{{.Text}}
`))

// Claude summarizes with the Anthropic Messages API.
type Claude struct {
	apiKey   string
	model    string
	endpoint string
	http     Doer
}

// NewClaude creates a Claude summarizer. Empty Model and Endpoint select the
// defaults.
func NewClaude(cfg types.SummarizeConfig, hc Doer) *Claude {
	c := &Claude{
		apiKey:   cfg.APIKey,
		model:    cfg.Model,
		endpoint: cfg.Endpoint,
		http:     hc,
	}
	if c.model == "" {
		c.model = defaultClaudeModel
	}
	if c.endpoint == "" {
		c.endpoint = defaultClaudeURL
	}
	return c
}

type claudeRequest struct {
	Model       string          `json:"model"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature *float64        `json:"temperature,omitempty"`
	Messages    []claudeMessage `json:"messages"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeResponse struct {
	Content []claudeContent `json:"content"`
}

type claudeContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Summarize sends one prompt and returns the first text block. Deterministic
// requests use temperature 0.
func (c *Claude) Summarize(ctx context.Context, text string, opts Options) (string, error) {
	summary, err := c.summarize(ctx, text, opts)
	if err != nil {
		return "", &SummarizationError{Backend: "claude", Err: err}
	}
	return summary, nil
}

func (c *Claude) summarize(ctx context.Context, text string, opts Options) (string, error) {
	prompt, err := renderPrompt(text, opts)
	if err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}

	body := claudeRequest{
		Model: c.model,
		// Words to tokens, with headroom.
		MaxTokens: opts.MaxLength*2 + 64,
		Messages:  []claudeMessage{{Role: "user", Content: prompt}},
	}
	if opts.Deterministic {
		zero := 0.0
		body.Temperature = &zero
	}

	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling Claude API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", &APIError{Service: "Claude", StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	var cResp claudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return "", fmt.Errorf("decoding Claude response: %w", err)
	}

	for _, block := range cResp.Content {
		if block.Type != "text" {
			continue
		}
		if s := strings.TrimSpace(block.Text); s != "" {
			return s, nil
		}
	}
	return "", errors.New("no text content in Claude API response")
}

func renderPrompt(text string, opts Options) (string, error) {
	var buf bytes.Buffer
	err := summaryPromptTmpl.Execute(&buf, struct {
		Text      string
		MinLength int
		MaxLength int
	}{text, opts.MinLength, opts.MaxLength})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
