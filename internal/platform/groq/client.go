package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/neurofocus-backend/internal/platform/envutil"
	"github.com/yungbote/neurofocus-backend/internal/platform/logger"
)

const (
	DefaultBaseURL = "https://api.groq.com/openai"
	DefaultModel   = "llama3-70b-8192"
)

var ErrEmptyCompletion = errors.New("groq returned no choices")

type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

// ConfigFromEnv reads GROQ_API_KEY, GROQ_BASE_URL, GROQ_MODEL and GROQ_TIMEOUT.
func ConfigFromEnv(log *logger.Logger) Config {
	return Config{
		APIKey:      envutil.String("GROQ_API_KEY", "", log),
		BaseURL:     envutil.String("GROQ_BASE_URL", DefaultBaseURL, log),
		Model:       envutil.String("GROQ_MODEL", DefaultModel, log),
		Temperature: 0.5,
		Timeout:     envutil.Duration("GROQ_TIMEOUT", 60*time.Second, log),
	}
}

// Client issues single chat completion calls against Groq's OpenAI-compatible API.
type Client interface {
	// GenerateJSON asks for a json_object response and decodes the message
	// content into out.
	GenerateJSON(ctx context.Context, system, user string, out any) error
}

type client struct {
	log         *logger.Logger
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	httpClient  *http.Client
}

func NewClient(log *logger.Logger, cfg Config) (Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("missing GROQ_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &client{
		log:         log.With("client", "GroqClient"),
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type groqHTTPError struct {
	StatusCode int
	Body       string
}

func (e *groqHTTPError) Error() string {
	return fmt.Sprintf("groq http %d: %s", e.StatusCode, e.Body)
}

func (e *groqHTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

func (c *client) GenerateJSON(ctx context.Context, system, user string, out any) error {
	req := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature:    c.temperature,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}
	start := time.Now()
	raw, err := c.doOnce(ctx, http.MethodPost, "/v1/chat/completions", req)
	if err != nil {
		c.log.Warn("Groq request failed", "model", c.model, "duration_ms", time.Since(start).Milliseconds(), "error", err)
		return err
	}

	var resp chatResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return fmt.Errorf("groq decode error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return ErrEmptyCompletion
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		content = "{}"
	}
	if err := json.Unmarshal([]byte(content), out); err != nil {
		return fmt.Errorf("groq content is not valid json: %w", err)
	}
	c.log.Debug("Groq request done", "model", c.model, "duration_ms", time.Since(start).Milliseconds())
	return nil
}

func (c *client) doOnce(ctx context.Context, method, path string, body any) ([]byte, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return raw, &groqHTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return raw, nil
}
