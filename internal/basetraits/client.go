// Package basetraits fetches a gotchi's pre-wearable ("respec base") traits
// from a remote endpoint and caches them per token id.
package basetraits

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/robertatkinson3570/gotchi-closet-sub001/internal/traits"
)

// ErrShortTraits means the endpoint answered with fewer than six base traits.
var ErrShortTraits = errors.New("baseTraits has fewer than 6 entries")

// ErrDisabled is returned when no endpoint is configured.
var ErrDisabled = errors.New("respec base-trait endpoint not configured")

// UpstreamError wraps any failure to obtain base traits from the endpoint.
// Callers are expected to fall back to post-modifier traits.
type UpstreamError struct {
	TokenID    string
	StatusCode int // 0 when no HTTP response was received
	Err        error
}

func (e *UpstreamError) Error() string {
	msg := "respec base traits for token " + e.TokenID
	if e.StatusCode != 0 {
		msg += ": HTTP " + strconv.Itoa(e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *UpstreamError) Unwrap() error { return e.Err }

const maxBodyBytes = 1 << 20

// Client is safe for concurrent use. Concurrent lookups of one uncached token
// share a single request.
type Client struct {
	endpoint string
	http     *http.Client
	store    Store
	log      *zap.Logger
	group    singleflight.Group
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithStore replaces the default MemoryStore.
func WithStore(s Store) Option {
	return func(c *Client) { c.store = s }
}

// WithLogger sets the logger; the default discards.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http = &http.Client{Timeout: d} }
}

// New creates a client for endpoint. An empty endpoint yields a client whose
// lookups fail with ErrDisabled.
func New(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: 8 * time.Second},
		log:      zap.NewNop(),
	}
	for _, fn := range opts {
		fn(c)
	}
	if c.store == nil {
		c.store = NewMemoryStore()
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	return c
}

// RespecBaseTraits returns the six base traits of tokenID, from the store
// when present. Only successful lookups are cached.
func (c *Client) RespecBaseTraits(ctx context.Context, tokenID string) ([]int, error) {
	if c.endpoint == "" {
		return nil, &UpstreamError{TokenID: tokenID, Err: ErrDisabled}
	}
	if v, ok, err := c.store.Get(ctx, tokenID); err != nil {
		c.log.Warn("base-trait cache read failed", zap.String("token_id", tokenID), zap.Error(err))
	} else if ok {
		c.log.Debug("base-trait cache hit", zap.String("token_id", tokenID))
		return v, nil
	}

	v, err, _ := c.group.Do(tokenID, func() (any, error) {
		bt, err := c.fetch(ctx, tokenID)
		if err != nil {
			return nil, err
		}
		if err := c.store.Put(ctx, tokenID, bt); err != nil {
			c.log.Warn("base-trait cache write failed", zap.String("token_id", tokenID), zap.Error(err))
		}
		return bt, nil
	})
	if err != nil {
		return nil, err
	}
	return append([]int(nil), v.([]int)...), nil
}

func (c *Client) fetch(ctx context.Context, tokenID string) ([]int, error) {
	body, err := json.Marshal(map[string]string{"tokenId": tokenID})
	if err != nil {
		return nil, &UpstreamError{TokenID: tokenID, Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &UpstreamError{TokenID: tokenID, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &UpstreamError{TokenID: tokenID, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &UpstreamError{TokenID: tokenID, StatusCode: resp.StatusCode, Err: err}
	}
	c.log.Debug("base-trait fetch",
		zap.String("token_id", tokenID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := gjson.GetBytes(raw, "error").String()
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &UpstreamError{TokenID: tokenID, StatusCode: resp.StatusCode, Err: errors.New(msg)}
	}
	if !gjson.ValidBytes(raw) {
		return nil, &UpstreamError{TokenID: tokenID, StatusCode: resp.StatusCode, Err: errors.New("invalid JSON response")}
	}
	bt := traits.ParseList(gjson.GetBytes(raw, "baseTraits"))
	if len(bt) < traits.NumTraits {
		return nil, &UpstreamError{TokenID: tokenID, StatusCode: resp.StatusCode, Err: ErrShortTraits}
	}
	return bt[:traits.NumTraits], nil
}
