package notion

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

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"
)

const (
	// DefaultBaseURL is the base URL of the Notion REST API.
	DefaultBaseURL = "https://api.notion.com/v1"
	// DefaultVersion is the Notion-Version header sent with every request.
	DefaultVersion = "2022-06-28"
)

// ErrMissingToken is returned by NewClient when no integration token is given.
var ErrMissingToken = errors.New("notion API token is required")

// PageCreator creates pages in a Notion database.
type PageCreator interface {
	CreatePage(ctx context.Context, req *PageRequest) (*Page, error)
}

// Client is a Notion REST API client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	version    string
}

// ClientOption configures a Client.
type ClientOption func(*clientOptions)

type clientOptions struct {
	baseURL   string
	version   string
	timeout   time.Duration
	transport http.RoundTripper
}

// WithBaseURL overrides the API base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(o *clientOptions) {
		if baseURL != "" {
			o.baseURL = baseURL
		}
	}
}

// WithVersion overrides the Notion-Version header.
func WithVersion(version string) ClientOption {
	return func(o *clientOptions) {
		if version != "" {
			o.version = version
		}
	}
}

// WithTimeout sets an overall timeout on HTTP requests. Zero means no timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(o *clientOptions) {
		o.timeout = timeout
	}
}

// WithTransport sets the base round tripper beneath auth and tracing.
func WithTransport(rt http.RoundTripper) ClientOption {
	return func(o *clientOptions) {
		if rt != nil {
			o.transport = rt
		}
	}
}

// NewClient creates a Notion client authenticated with an integration token.
func NewClient(token string, opts ...ClientOption) (*Client, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	o := clientOptions{
		baseURL:   DefaultBaseURL,
		version:   DefaultVersion,
		transport: http.DefaultTransport,
	}
	for _, opt := range opts {
		opt(&o)
	}

	transport := &oauth2.Transport{
		Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
		Base:   otelhttp.NewTransport(o.transport),
	}

	return &Client{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   o.timeout,
		},
		baseURL: strings.TrimSuffix(o.baseURL, "/"),
		version: o.version,
	}, nil
}

// CreatePage creates a page from req and returns the created page.
func (c *Client) CreatePage(ctx context.Context, req *PageRequest) (*Page, error) {
	if req == nil {
		return nil, fmt.Errorf("page request is nil")
	}

	jsonBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/pages", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, parseAPIError(resp.StatusCode, body)
	}

	var page Page
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return &page, nil
}

// setHeaders sets common headers for Notion API requests.
// Authorization is added by the oauth2 transport.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Notion-Version", c.version)
}

func parseAPIError(statusCode int, body []byte) error {
	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Message == "" {
		return fmt.Errorf("API error (status %d): %s", statusCode, strings.TrimSpace(string(body)))
	}
	if apiErr.Status == 0 {
		apiErr.Status = statusCode
	}
	return &apiErr
}
