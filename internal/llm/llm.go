// Package llm provides a minimal multi-provider text generation client.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorewood/stint/internal/output"
)

// Provider represents a text generation provider.
type Provider string

// Supported providers.
const (
	ProviderGoogle Provider = "google"
	ProviderLocal  Provider = "local"
)

// Request represents a completion request.
type Request struct {
	System      string  // System prompt
	Prompt      string  // User prompt
	Temperature float64 // Temperature (0 uses default)
	MaxTokens   int     // Max tokens (0 uses default)
}

// Response represents a completion response.
type Response struct {
	Content string // Generated content
	Model   string // Model used
}

// HTTPDoer defines the HTTP operations required by Client.
// This allows injection of test doubles for testing.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// GenerationError is a provider API failure. Retryable is set for
// transient conditions (rate limits, quota exhaustion, server errors)
// that are worth another attempt after a backoff.
type GenerationError struct {
	StatusCode int
	Message    string
	Retryable  bool
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
	}
	return "API error: " + e.Message
}

// retryable reports whether an HTTP status and error body describe a
// transient failure.
func retryable(status int, body string) bool {
	if status == http.StatusTooManyRequests || status >= 500 {
		return true
	}
	lower := strings.ToLower(body)
	return strings.Contains(lower, "quota") || strings.Contains(lower, "rate limit")
}

// Client is a provider-agnostic generation client.
type Client struct {
	provider   Provider
	model      string
	apiKey     string
	httpClient HTTPDoer
}

// New creates a client for the given model. Provider is inferred from
// the model name when not specified; "auto" and empty model names defer
// model selection to ResolveModel.
func New(model string, provider Provider) (*Client, error) {
	if provider == "" {
		provider = inferProvider(model)
	}

	apiKey, err := getAPIKey(provider)
	if err != nil {
		return nil, err
	}

	return &Client{
		provider: provider,
		model:    model,
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}, nil
}

// Model returns the model the client is configured with.
func (c *Client) Model() string {
	return c.model
}

// SetModel overrides the configured model, typically after ResolveModel.
func (c *Client) SetModel(model string) {
	c.model = model
}

// Complete generates a completion for the given request.
func (c *Client) Complete(ctx context.Context, req Request) (*Response, error) {
	switch c.provider {
	case ProviderGoogle:
		return c.completeGoogle(ctx, req)
	case ProviderLocal:
		return c.completeLocal(ctx, req)
	default:
		return nil, output.NewUserError(fmt.Sprintf("unsupported provider: %s", c.provider))
	}
}

// providerPattern maps model substrings to providers.
type providerPattern struct {
	substring string
	provider  Provider
}

// providerPatterns checked in order; first match wins.
var providerPatterns = []providerPattern{
	{"gemini", ProviderGoogle},
	{"flash", ProviderGoogle},
	{"local", ProviderLocal},
	{"qwen", ProviderLocal},
	{"llama", ProviderLocal},
	{"mistral", ProviderLocal},
	{"phi", ProviderLocal},
}

// inferProvider guesses the provider from the model name.
func inferProvider(model string) Provider {
	modelLower := strings.ToLower(model)
	for _, p := range providerPatterns {
		if strings.Contains(modelLower, p.substring) {
			return p.provider
		}
	}
	return ProviderGoogle
}

func getAPIKey(provider Provider) (string, error) {
	switch provider {
	case ProviderLocal:
		// Local provider doesn't require an API key
		return "not-needed", nil
	case ProviderGoogle:
		for _, envVar := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"} {
			if key := os.Getenv(envVar); key != "" {
				return key, nil
			}
		}
		return "", output.NewUserError("GEMINI_API_KEY environment variable not set")
	default:
		return "", output.NewUserError(fmt.Sprintf("unsupported provider: %s", provider))
	}
}

// LocalServerURL returns the URL for the local LLM server.
// Defaults to http://localhost:1234/v1 (LM Studio default).
func LocalServerURL() string {
	if url := os.Getenv("LOCAL_LLM_URL"); url != "" {
		return url
	}
	return "http://localhost:1234/v1"
}

// doRequest performs an HTTP POST request with JSON body.
func (c *Client) doRequest(ctx context.Context, url string, body any, headers map[string]string) ([]byte, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, output.NewSystemErrorWithCause("failed to marshal request", err)
	}
	return c.do(ctx, http.MethodPost, url, bytes.NewReader(jsonBody), headers)
}

// doGet performs an HTTP GET request.
func (c *Client) doGet(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, url, nil, headers)
}

func (c *Client) do(ctx context.Context, method, url string, body io.Reader, headers map[string]string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, output.NewSystemErrorWithCause("failed to create request", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		httpReq.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &GenerationError{Message: err.Error(), Retryable: true}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, output.NewSystemErrorWithCause("failed to read response", err)
	}

	if resp.StatusCode != http.StatusOK {
		// Truncate error body to prevent sensitive data leakage and memory issues
		errBody := string(respBody)
		if len(errBody) > 500 {
			errBody = errBody[:500]
		}
		return nil, &GenerationError{
			StatusCode: resp.StatusCode,
			Message:    errBody,
			Retryable:  retryable(resp.StatusCode, errBody),
		}
	}

	return respBody, nil
}

// SupportedProviders returns a list of supported providers.
func SupportedProviders() []string {
	return []string{string(ProviderGoogle), string(ProviderLocal)}
}
