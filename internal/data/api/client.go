// Package api is the HTTP client for the product REST backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/colonyops/catalog/internal/core/product"
)

const (
	// DefaultTimeout bounds a single request when Options.Timeout is unset.
	DefaultTimeout = 10 * time.Second

	// HeaderRequestID carries a per-request id for correlating server logs.
	HeaderRequestID = "X-Request-ID"

	maxBodySize    = 4 << 20
	maxMessageSize = 200
	productsPath   = "/products"
)

// Options configures a Client.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	// HTTPClient overrides the default client. Timeout is ignored when set.
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// Client talks to the product REST backend.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	log       zerolog.Logger
}

// envelope is the response wrapper used by every endpoint except the id
// verification check.
type envelope[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message"`
}

// New creates a client for the backend rooted at opts.BaseURL.
func New(opts Options) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(opts.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, fmt.Errorf("parse base url: %q is not an absolute http(s) url", opts.BaseURL)
	}

	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:   strings.TrimRight(u.String(), "/"),
		userAgent: opts.UserAgent,
		http:      hc,
		log:       opts.Logger,
	}, nil
}

// BaseURL returns the normalized backend root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// List returns every product.
func (c *Client) List(ctx context.Context) ([]product.Product, error) {
	var resp envelope[[]product.Product]
	if err := c.do(ctx, http.MethodGet, productsPath, nil, &resp); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if resp.Data == nil {
		return []product.Product{}, nil
	}
	return resp.Data, nil
}

// Create stores a new product and returns the server's copy.
func (c *Client) Create(ctx context.Context, p product.Product) (product.Product, error) {
	var resp envelope[product.Product]
	if err := c.do(ctx, http.MethodPost, productsPath, p, &resp); err != nil {
		return product.Product{}, fmt.Errorf("create product: %w", err)
	}
	if resp.Data.ID == "" {
		return p, nil
	}
	return resp.Data, nil
}

// IsIDTaken reports whether a product with id already exists.
func (c *Client) IsIDTaken(ctx context.Context, id string) (bool, error) {
	var taken bool
	if err := c.do(ctx, http.MethodGet, productsPath+"/verification/"+url.PathEscape(id), nil, &taken); err != nil {
		return false, fmt.Errorf("verify product id: %w", err)
	}
	return taken, nil
}

// Update replaces the product keyed by id and returns the server message.
func (c *Client) Update(ctx context.Context, id string, p product.Product) (string, error) {
	var resp envelope[json.RawMessage]
	if err := c.do(ctx, http.MethodPut, productsPath+"/"+url.PathEscape(id), p, &resp); err != nil {
		return "", fmt.Errorf("update product: %w", err)
	}
	return resp.Message, nil
}

// Delete removes the product keyed by id and returns the server message.
func (c *Client) Delete(ctx context.Context, id string) (string, error) {
	var resp envelope[json.RawMessage]
	if err := c.do(ctx, http.MethodDelete, productsPath+"/"+url.PathEscape(id), nil, &resp); err != nil {
		return "", fmt.Errorf("delete product: %w", err)
	}
	return resp.Message, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderRequestID, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug().Ctx(ctx).Err(err).
			Str("method", method).
			Str("path", path).
			Str("request_id", requestID).
			Msg("request failed")
		return err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.Debug().Err(err).Msg("close response body")
		}
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	c.log.Debug().Ctx(ctx).
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Str("request_id", requestID).
		Msg("request complete")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Message:    serverMessage(data),
		}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// serverMessage pulls a human readable reason out of an error body. JSON
// bodies may use "message" or "error"; anything else is used verbatim when it
// is short plain text.
func serverMessage(body []byte) string {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return ""
	}

	var doc struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &doc); err == nil {
		if doc.Message != "" {
			return doc.Message
		}
		return doc.Error
	}

	text := string(body)
	if len(text) > maxMessageSize || strings.ContainsAny(text, "<>") {
		return ""
	}
	return text
}
