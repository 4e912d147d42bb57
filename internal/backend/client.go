// Package backend is the HTTP JSON client for the remote storefront
// API. The backend is treated as opaque: the client knows the endpoint
// paths and the behaviorally load-bearing parts of the wire schema and
// nothing else.
//
// Authenticated calls read the session token through a TokenSource at
// call time, never from a value captured earlier, so a request issued
// before a session change still carries the token current at send time.
package backend

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront/internal/domain/cart"
	"github.com/xenking/storefront/internal/domain/order"
	"github.com/xenking/storefront/internal/domain/product"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 8 << 20

// TokenSource supplies the current session token, if any. Implemented by
// the store so the token is always read from live state.
type TokenSource interface {
	Token() (string, bool)
}

// Credentials is a successful auth exchange: the backend-assigned user
// ID, the session token, and how long the token stays valid.
type Credentials struct {
	UserID    string
	Token     string
	ExpiresIn time.Duration
}

// Config configures a Client.
type Config struct {
	// BaseURL is the root of the products/orders API.
	BaseURL string
	// AuthURL is the root of the accounts API. Defaults to BaseURL.
	AuthURL string
	// APIKey, when set, is appended as the key query parameter on auth
	// requests.
	APIKey string
	// HTTPClient is the transport used for all calls. Defaults to a
	// client with a 15s timeout.
	HTTPClient *http.Client
}

// Client calls the remote storefront API.
type Client struct {
	base   string
	auth   string
	apiKey string
	http   *http.Client
	tokens TokenSource
}

// NewClient validates cfg and returns a ready Client.
func NewClient(cfg Config, tokens TokenSource) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("base URL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, errors.Wrap(err, "parse base URL")
	}
	if tokens == nil {
		return nil, errors.New("token source is required")
	}

	base := strings.TrimRight(cfg.BaseURL, "/")
	auth := base
	if cfg.AuthURL != "" {
		auth = strings.TrimRight(cfg.AuthURL, "/")
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}

	return &Client{
		base:   base,
		auth:   auth,
		apiKey: cfg.APIKey,
		http:   hc,
		tokens: tokens,
	}, nil
}

// FetchProducts reads the full product collection. When ownerID is
// non-empty only that owner's products are requested.
func (c *Client) FetchProducts(ctx context.Context, ownerID string) ([]product.Product, error) {
	u := c.base + "/products"
	if ownerID != "" {
		u += "?ownerId=" + url.QueryEscape(ownerID)
	}
	data, err := c.do(ctx, http.MethodGet, u, nil, true)
	if err != nil {
		return nil, err
	}
	return decodeProducts(data)
}

// PlaceOrder sends a cart snapshot for the given user and returns the
// backend-assigned order ID.
func (c *Client) PlaceOrder(ctx context.Context, userID string, items []cart.Line, total decimal.Decimal, placedAt time.Time) (string, error) {
	u := c.base + "/orders/" + url.PathEscape(userID)
	data, err := c.do(ctx, http.MethodPost, u, encodeOrder(items, total, placedAt), true)
	if err != nil {
		return "", err
	}
	return decodePlaced(data)
}

// FetchOrders reads the full order history for the given user.
func (c *Client) FetchOrders(ctx context.Context, userID string) ([]order.Order, error) {
	u := c.base + "/orders/" + url.PathEscape(userID)
	data, err := c.do(ctx, http.MethodGet, u, nil, true)
	if err != nil {
		return nil, err
	}
	return decodeOrders(data)
}

// SignUp creates an account and returns its credentials.
func (c *Client) SignUp(ctx context.Context, email, password string) (Credentials, error) {
	return c.exchange(ctx, "signUp", email, password)
}

// SignIn exchanges existing credentials for a session.
func (c *Client) SignIn(ctx context.Context, email, password string) (Credentials, error) {
	return c.exchange(ctx, "signInWithPassword", email, password)
}

func (c *Client) exchange(ctx context.Context, op, email, password string) (Credentials, error) {
	u := c.auth + "/accounts:" + op
	if c.apiKey != "" {
		u += "?key=" + url.QueryEscape(c.apiKey)
	}
	data, err := c.do(ctx, http.MethodPost, u, encodeCredentials(email, password), false)
	if err != nil {
		return Credentials{}, err
	}
	return decodeCredentials(data)
}

// do performs one HTTP exchange. Non-2xx responses become *Error values
// with any reason code decoded from the body; transport failures are
// wrapped and returned as-is.
func (c *Client) do(ctx context.Context, method, u string, body []byte, authed bool) ([]byte, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		if tok, ok := c.tokens.Token(); ok {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "send request")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, errors.Wrap(err, "read response")
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, decodeError(resp.StatusCode, data)
	}
	return data, nil
}
