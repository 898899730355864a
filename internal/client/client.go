// Package client calls the newsletter subscription endpoints.
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

	"github.com/Priya8975/newsletter-service/internal/domain"
)

const subscriptionsPath = "/newsletter-subscriptions"

// ErrTransport wraps every failure where no structured response was
// received: network errors, timeouts and non-JSON bodies.
var ErrTransport = errors.New("newsletter: no structured response")

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Subscribe posts email to the subscription endpoint. Any structured
// response is returned as-is, including failures; err is non-nil only for
// transport problems.
func (c *Client) Subscribe(ctx context.Context, email string) (*domain.SubscribeResponse, error) {
	body, err := json.Marshal(domain.SubscribeRequest{Email: email})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+subscriptionsPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")

	var out domain.SubscribeResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListSubscribers fetches the active subscriber listing.
func (c *Client) ListSubscribers(ctx context.Context) (*domain.ListSubscribersResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+subscriptionsPath, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", ErrTransport, err)
	}
	req.Header.Set("Accept", "application/json")

	var out domain.ListSubscribersResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	if out.Data == nil {
		out.Data = []domain.SubscriberSummary{}
	}
	return &out, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return fmt.Errorf("%w: reading body: %v", ErrTransport, err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: status %d: %v", ErrTransport, resp.StatusCode, err)
	}
	return nil
}
