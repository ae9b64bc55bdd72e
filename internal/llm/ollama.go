package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// OllamaProvider implements the Provider interface for local Ollama models
type OllamaProvider struct {
	baseURL    string
	httpClient *http.Client
	config     Config
}

type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	System  string        `json:"system,omitempty"`
	Stream  bool          `json:"stream"`
	Format  string        `json:"format,omitempty"` // "json" for constrained output
	Options ollamaOptions `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// NewOllamaProvider creates a new Ollama provider
func NewOllamaProvider(config Config) (*OllamaProvider, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	timeout := time.Duration(config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second // local models are slow
	}

	return &OllamaProvider{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		config:     config,
	}, nil
}

// Name returns the provider name
func (p *OllamaProvider) Name() string {
	return "ollama"
}

// Complete generates a free-text completion
func (p *OllamaProvider) Complete(ctx context.Context, req Request) (string, error) {
	return p.generate(ctx, req, "")
}

// CompleteJSON generates a completion with Ollama's JSON format constraint
func (p *OllamaProvider) CompleteJSON(ctx context.Context, req Request) (json.RawMessage, error) {
	content, err := p.generate(ctx, req, "json")
	if err != nil {
		return nil, err
	}

	raw := json.RawMessage(content)
	if !json.Valid(raw) {
		return nil, fmt.Errorf("ollama returned invalid JSON")
	}
	return raw, nil
}

func (p *OllamaProvider) generate(ctx context.Context, req Request, format string) (string, error) {
	model := p.config.Model
	if model == "" {
		model = "llama3.1"
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = p.config.MaxTokens
	}

	body, err := json.Marshal(ollamaRequest{
		Model:  model,
		Prompt: req.Prompt,
		System: req.SystemPrompt,
		Stream: false,
		Format: format,
		Options: ollamaOptions{
			Temperature: req.Temperature,
			NumPredict:  maxTokens,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("ollama request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama returned %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var parsed ollamaResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}

	return strings.TrimSpace(parsed.Response), nil
}
