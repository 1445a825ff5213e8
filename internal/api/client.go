// Package api is the HTTP client for the ordering backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/dretree/internal/config"
	"github.com/alexanderramin/dretree/internal/contract"
	"github.com/alexanderramin/dretree/internal/domain"
	"github.com/google/uuid"
)

// Config holds the client settings.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
}

// ConfigFrom derives client settings from the application config.
func ConfigFrom(cfg config.Config) Config {
	return Config{
		BaseURL:    cfg.APIURL,
		Timeout:    cfg.APITimeout(),
		MaxRetries: cfg.APIMaxRetries,
	}
}

// Client talks to the ordering backend.
type Client struct {
	cfg      Config
	http     *http.Client
	observer Observer
}

func NewClient(cfg Config, observer Observer) *Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 2 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
	}
}

// GetOrderedChildren returns the ranked children of parentContext.
func (c *Client) GetOrderedChildren(ctx context.Context, parentContext string) ([]*domain.Node, error) {
	var resp contract.ChildrenResponse
	path := "/api/order/children?parent=" + url.QueryEscape(parentContext)
	if err := c.call(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Nodes, nil
}

// GetOrderedTree returns the full tree with ranks.
func (c *Client) GetOrderedTree(ctx context.Context) ([]*domain.Node, error) {
	var resp contract.TreeResponse
	if err := c.call(ctx, http.MethodGet, "/api/order/tree", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Nodes, nil
}

// GetTree returns the full tree in text order without ranks.
func (c *Client) GetTree(ctx context.Context) ([]*domain.Node, error) {
	var resp contract.TreeResponse
	if err := c.call(ctx, http.MethodGet, "/api/tree", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Nodes, nil
}

// ReorderBatch submits one parent context's new order.
func (c *Client) ReorderBatch(ctx context.Context, batch contract.ReorderBatch) error {
	return c.call(ctx, http.MethodPost, "/api/order/batch", batch, nil)
}

// Normalize renumbers ranks of parentContext, or of every context when empty.
func (c *Client) Normalize(ctx context.Context, parentContext string) (contract.NormalizeResponse, error) {
	var resp contract.NormalizeResponse
	err := c.call(ctx, http.MethodPost, "/api/order/normalize", contract.NormalizeRequest{ParentContext: parentContext}, &resp)
	return resp, err
}

// OrderingActive reports whether the root has ranked children.
func (c *Client) OrderingActive(ctx context.Context) (bool, error) {
	root, err := c.GetOrderedChildren(ctx, domain.RootContext)
	if err != nil {
		return false, err
	}
	return len(root) > 0, nil
}

// History returns the most recent applied batches.
func (c *Client) History(ctx context.Context, limit int) ([]*domain.OrderLogEntry, error) {
	var resp contract.HistoryResponse
	if err := c.call(ctx, http.MethodGet, "/api/order/history?limit="+strconv.Itoa(limit), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Entries, nil
}

func (c *Client) call(ctx context.Context, method, path string, in, out any) error {
	start := time.Now()
	requestID := uuid.New().String()

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	var body []byte
	if in != nil {
		var err error
		if body, err = json.Marshal(in); err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
	}

	// Only idempotent reads are retried.
	attempts := 1
	if method == http.MethodGet {
		attempts += c.cfg.MaxRetries
	}

	var (
		lastErr error
		status  int
		tries   int
	)
	for tries = 1; tries <= attempts; tries++ {
		status, lastErr = c.do(ctx, method, path, requestID, body, out)
		if lastErr == nil || ctx.Err() != nil || errors.Is(lastErr, ErrRejected) {
			break
		}
	}
	if tries > attempts {
		tries = attempts
	}

	err := classify(ctx, lastErr)
	c.observer.OnCallComplete(ctx, CallEvent{
		Method:    method,
		Path:      path,
		RequestID: requestID,
		Status:    status,
		Attempts:  tries,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
		ErrorCode: errorCode(err),
	})
	return err
}

func (c *Client) do(ctx context.Context, method, path, requestID string, body []byte, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set(contract.RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &StatusError{Status: resp.StatusCode}
		var er contract.ErrorResponse
		if json.Unmarshal(raw, &er) == nil {
			se.Code, se.Message = er.Code, er.Message
		}
		return resp.StatusCode, se
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return resp.StatusCode, fmt.Errorf("decoding response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

func classify(ctx context.Context, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	case isConnectionError(err):
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	default:
		return err
	}
}

func isConnectionError(err error) bool {
	var netErr *net.OpError
	return errors.As(err, &netErr)
}
