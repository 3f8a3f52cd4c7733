package client

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

	"github.com/yungbote/neurofocus-backend/internal/domain"
	"github.com/yungbote/neurofocus-backend/internal/platform/logger"
)

const DefaultBaseURL = "http://localhost:8080"

type Config struct {
	BaseURL string
	// Token is sent as a Bearer credential.
	Token   string
	Timeout time.Duration
}

// APIError is a non-2xx response decoded from the error envelope.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("focus api: http %d", e.StatusCode)
	}
	return fmt.Sprintf("focus api: http %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// Unwrap lets callers match domain.ErrNoActiveSession.
func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound && e.Code == "no_active_session" {
		return domain.ErrNoActiveSession
	}
	return nil
}

// Client talks to the focus API on behalf of the native host. It satisfies
// focus.SessionAPI and focus.QuizFetcher.
type Client struct {
	log        *logger.Logger
	baseURL    string
	token      string
	httpClient *http.Client
}

func New(log *logger.Logger, cfg Config) *Client {
	if log == nil {
		log = logger.NewNop()
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		log:        log.With("client", "FocusAPI"),
		baseURL:    baseURL,
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// WithToken returns a copy authenticated with token.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

func (c *Client) StartSession(ctx context.Context, contentID string) (*domain.Session, error) {
	var out domain.Session
	if err := c.do(ctx, http.MethodPost, "/session/createOrUpdateSession", map[string]any{"contentId": contentID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) EndSession(ctx context.Context, focusScore int) (*domain.Session, error) {
	var out domain.Session
	if err := c.do(ctx, http.MethodPost, "/session/endSession", map[string]any{"focusScore": focusScore}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GenerateQuiz(ctx context.Context, content string) (*domain.Quiz, error) {
	var out domain.Quiz
	if err := c.do(ctx, http.MethodPost, "/quiz/generate-quiz", map[string]any{"content": content}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Progress(ctx context.Context) (*domain.Progress, error) {
	var out domain.Progress
	if err := c.do(ctx, http.MethodGet, "/progress/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/login", map[string]any{"email": email, "password": password}, &out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", errors.New("focus api: login returned no token")
	}
	return out.Token, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var envelope struct {
			Error struct {
				Message string `json:"message"`
				Code    string `json:"code"`
			} `json:"error"`
		}
		if json.Unmarshal(raw, &envelope) == nil {
			apiErr.Code = envelope.Error.Code
			apiErr.Message = envelope.Error.Message
		}
		c.log.Debug("focus api request failed", "method", method, "path", path, "status", resp.StatusCode, "code", apiErr.Code)
		return apiErr
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
