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

	"github.com/pdiddy/papergenie/pkg/types"
)

const (
	defaultHFModel   = "facebook/bart-large-cnn"
	defaultHFBaseURL = "https://api-inference.huggingface.co/models/"
)

// HuggingFace calls a hosted summarization pipeline (BART by default).
type HuggingFace struct {
	apiKey   string
	endpoint string
	http     Doer
}

// NewHuggingFace creates a summarizer for cfg.Model. Endpoint, when set,
// replaces the full model URL.
func NewHuggingFace(cfg types.SummarizeConfig, hc Doer) *HuggingFace {
	model := cfg.Model
	if model == "" {
		model = defaultHFModel
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultHFBaseURL + model
	}
	return &HuggingFace{apiKey: cfg.APIKey, endpoint: endpoint, http: hc}
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
	Options    hfOptions    `json:"options"`
}

type hfParameters struct {
	MaxLength int  `json:"max_length,omitempty"`
	MinLength int  `json:"min_length,omitempty"`
	DoSample  bool `json:"do_sample"`
}

type hfOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

type hfSummary struct {
	SummaryText string `json:"summary_text"`
}

type hfError struct {
	Error string `json:"error"`
}

// Summarize returns the model's summary_text. Sampling is disabled when
// opts.Deterministic is set.
func (h *HuggingFace) Summarize(ctx context.Context, text string, opts Options) (string, error) {
	summary, err := h.summarize(ctx, text, opts)
	if err != nil {
		return "", &SummarizationError{Backend: "huggingface", Err: err}
	}
	return summary, nil
}

func (h *HuggingFace) summarize(ctx context.Context, text string, opts Options) (string, error) {
	body, err := json.Marshal(hfRequest{
		Inputs: text,
		Parameters: hfParameters{
			MaxLength: opts.MaxLength,
			MinLength: opts.MinLength,
			DoSample:  !opts.Deterministic,
		},
		Options: hfOptions{WaitForModel: true},
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if h.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+h.apiKey)
	}

	resp, err := h.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling inference API: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(raw))
		var apiErr hfError
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			msg = apiErr.Error
		}
		return "", &APIError{Service: "HuggingFace", StatusCode: resp.StatusCode, Body: msg}
	}

	var out []hfSummary
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if len(out) == 0 {
		return "", errors.New("empty response")
	}
	return strings.TrimSpace(out[0].SummaryText), nil
}
