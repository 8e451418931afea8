// Package estimator talks to the external LLM estimator.
// This is the only package that performs network I/O; everything it
// returns is treated as untrusted until the validator has run.
package estimator

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ajfinson/car-price-estimator/internal/errors"
	"github.com/ajfinson/car-price-estimator/internal/logging"
)

// Client is the capability boundary to the estimator: send a prompt
// pair, get back one parsed JSON object. Implementations must be safe
// for concurrent use; each call is independently dispatched.
type Client interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (map[string]interface{}, error)
}

// OpenAIConfig holds configuration for the OpenAI-backed client
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// DefaultOpenAIConfig returns sensible defaults
func DefaultOpenAIConfig(apiKey string) OpenAIConfig {
	return OpenAIConfig{
		APIKey:  apiKey,
		BaseURL: "https://api.openai.com/v1",
		Model:   "gpt-4o-mini",
		Timeout: 120 * time.Second,
	}
}

// OpenAIClient implements Client against the OpenAI chat completions API
type OpenAIClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewOpenAIClient creates a new OpenAI client
func NewOpenAIClient(config OpenAIConfig) *OpenAIClient {
	model := strings.TrimSpace(config.Model)
	if model == "" {
		model = "gpt-4o-mini"
	}
	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	return &OpenAIClient{
		apiKey:  config.APIKey,
		baseURL: baseURL,
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type openAIRequest struct {
	Model          string            `json:"model"`
	Messages       []openAIMessage   `json:"messages"`
	MaxTokens      int               `json:"max_tokens,omitempty"`
	Temperature    float64           `json:"temperature"`
	ResponseFormat *responseFormat   `json:"response_format,omitempty"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}

// Complete sends one chat completion request with a JSON-object
// response contract and returns the parsed object.
//
// There is no retry loop here: the pipeline never retries, so every
// failure is classified and surfaced once. Retryability is signalled
// through the error type.
func (c *OpenAIClient) Complete(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (map[string]interface{}, error) {
	if c.apiKey == "" {
		return nil, errors.Config("estimator API key not configured")
	}

	start := time.Now()

	reqBody := openAIRequest{
		Model: c.model,
		Messages: []openAIMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		MaxTokens:      4096,
		Temperature:    temperature,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, errors.Internal("failed to marshal estimator request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(jsonData))
	if err != nil {
		return nil, errors.Internal("failed to create estimator request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.TypeTransient, "estimator request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(errors.TypeTransient, "failed to read estimator response", err)
	}

	if err := classifyStatus(resp.StatusCode, body); err != nil {
		return nil, err
	}

	var completion openAIResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return nil, errors.Malformed("estimator response is not valid JSON", err)
	}
	if completion.Error != nil {
		return nil, errors.Newf(errors.TypeTransient, "estimator API error: %s", completion.Error.Message)
	}
	if len(completion.Choices) == 0 {
		return nil, errors.Malformed("estimator returned no completion", nil)
	}

	content := stripFences(completion.Choices[0].Message.Content)

	var parsed interface{}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, errors.Malformed("completion content is not valid JSON", err)
	}
	obj, ok := parsed.(map[string]interface{})
	if !ok {
		return nil, errors.Malformed("completion content is not a JSON object", nil)
	}

	logging.Debug("estimator completion",
		zap.String("model", c.model),
		zap.Float64("temperature", temperature),
		zap.Duration("duration", time.Since(start)),
		zap.Int("content_len", len(content)))

	return obj, nil
}

// classifyStatus maps non-success HTTP statuses to the error taxonomy
func classifyStatus(status int, body []byte) error {
	if status == http.StatusOK {
		return nil
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return errors.Newf(errors.TypeEstimatorUnavailable, "estimator rejected credentials (status %d)", status)

	case status == http.StatusTooManyRequests:
		// A 429 for an exhausted quota is permanent, unlike throttling.
		var e struct {
			Error apiError `json:"error"`
		}
		_ = json.Unmarshal(body, &e)
		if e.Error.Code == "insufficient_quota" || e.Error.Type == "insufficient_quota" {
			return errors.New(errors.TypeQuotaExhausted, "estimator quota exhausted")
		}
		return errors.New(errors.TypeRateLimited, "estimator rate limit exceeded")

	case status >= 500:
		return errors.Newf(errors.TypeTransient, "estimator server error (status %d): %s", status, truncate(body, 200))

	default:
		return errors.Newf(errors.TypeEstimatorUnavailable, "estimator request failed (status %d): %s", status, truncate(body, 200))
	}
}

// stripFences removes a markdown code fence if the model wrapped its
// JSON in one despite the instructions.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
