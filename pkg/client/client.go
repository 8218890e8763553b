package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrInvalidInput is returned when the server rejects blank text.
var ErrInvalidInput = errors.New("please enter email content to analyze")

// ErrTooLarge is returned when the server rejects the input as too large.
var ErrTooLarge = errors.New("email content too large")

// Indicator is one finding in a Report.
type Indicator struct {
	Type     string `json:"type"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// Report is the result of an analysis.
type Report struct {
	RequestID  string      `json:"request_id"`
	RiskLevel  string      `json:"risk_level"`
	Label      string      `json:"label"`
	Score      int         `json:"score"`
	Indicators []Indicator `json:"indicators"`
	Characters int         `json:"characters"`
	LongInput  bool        `json:"long_input"`
	Subject    string      `json:"subject,omitempty"`
	From       string      `json:"from,omitempty"`
}

// Rule describes one catalog entry.
type Rule struct {
	ID       string `json:"id"`
	Kind     string `json:"kind"`
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Delta    int    `json:"delta"`
	Pattern  string `json:"pattern,omitempty"`
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned HTTP %d: %s", e.StatusCode, e.Message)
}

// Client talks to a phishguard-server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option is a functional option for configuring a Client.
type Option func(*Client) error

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return errors.New("http client must not be nil")
		}
		c.httpClient = hc
		return nil
	}
}

// WithTimeout sets the per-request timeout. A client passed to WithHTTPClient
// is copied, not modified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("timeout must be positive, got %s", d)
		}
		hc := *c.httpClient
		hc.Timeout = d
		c.httpClient = &hc
		return nil
	}
}

// WithInsecureSkipVerify disables TLS certificate verification.
// Only use this in development against a self-signed server.
func WithInsecureSkipVerify() Option {
	return func(c *Client) error {
		c.httpClient = &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec
			},
			Timeout: c.httpClient.Timeout,
		}
		return nil
	}
}

// New creates a Client for the server at baseURL.
//
//	c, err := client.New("http://localhost:8080", client.WithTimeout(5*time.Second))
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid server URL %q", baseURL)
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, o := range opts {
		if err := o(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// MustNew is like New but panics on error. Useful in tests and program init.
func MustNew(baseURL string, opts ...Option) *Client {
	c, err := New(baseURL, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// Analyze scores pasted email text via POST /api/v1/analyze.
func (c *Client) Analyze(ctx context.Context, text string) (*Report, error) {
	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/v1/analyze", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	var report Report
	if err := c.do(req, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// AnalyzeMessage uploads a raw RFC 5322 message via POST /api/v1/analyze/message.
func (c *Client) AnalyzeMessage(ctx context.Context, raw io.Reader) (*Report, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/analyze/message", raw)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "message/rfc822")
	req.Header.Set("Accept", "application/json")

	var report Report
	if err := c.do(req, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// Rules lists the rule catalog. query, when non-empty, is a fuzzy filter.
func (c *Client) Rules(ctx context.Context, query string) ([]Rule, error) {
	endpoint := c.baseURL + "/api/v1/rules"
	if query != "" {
		endpoint += "?q=" + url.QueryEscape(query)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	var wrapper struct {
		Rules []Rule `json:"rules"`
	}
	if err := c.do(req, &wrapper); err != nil {
		return nil, err
	}
	return wrapper.Rules, nil
}

// Sample fetches a built-in sample email ("phishing", "legitimate" or "suspicious").
func (c *Client) Sample(ctx context.Context, kind string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/api/v1/samples/"+url.PathEscape(kind), nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	var wrapper struct {
		Text string `json:"text"`
	}
	if err := c.do(req, &wrapper); err != nil {
		return "", err
	}
	return wrapper.Text, nil
}

// SampleKinds lists the built-in sample kinds.
func (c *Client) SampleKinds(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/samples", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	var wrapper struct {
		Kinds []string `json:"kinds"`
	}
	if err := c.do(req, &wrapper); err != nil {
		return nil, err
	}
	return wrapper.Kinds, nil
}

// do executes req and decodes a 2xx JSON body into out.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		msg := strings.TrimSpace(string(body))
		if json.Unmarshal(body, &e) == nil && e.Error != "" {
			msg = e.Error
		}
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: msg}
		switch {
		case resp.StatusCode == http.StatusRequestEntityTooLarge:
			return fmt.Errorf("%w: %w", ErrTooLarge, apiErr)
		case resp.StatusCode == http.StatusBadRequest && msg == ErrInvalidInput.Error():
			return fmt.Errorf("%w: %w", ErrInvalidInput, apiErr)
		}
		return apiErr
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
