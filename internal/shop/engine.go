// Package shop hosts the asynchronous action handlers that reconcile
// the local store with the remote backend: catalog refresh, order
// placement and history fetch, and the session lifecycle including the
// deadline-driven auto-logout.
//
// Every network-backed operation follows the same shape: dispatch a
// start action, suspend on the network call, then apply exactly one
// terminal action — unless the caller's context was canceled or a newer
// request superseded this one, in which case nothing is applied.
package shop

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xenking/storefront/internal/backend"
	"github.com/xenking/storefront/internal/domain/cart"
	"github.com/xenking/storefront/internal/domain/order"
	"github.com/xenking/storefront/internal/domain/product"
	"github.com/xenking/storefront/internal/domain/session"
	"github.com/xenking/storefront/internal/store"
)

// Sentinel errors surfaced to callers before or instead of any state
// transition.
var (
	// ErrEmptyCart rejects placing an order with nothing in the cart.
	// Checked synchronously, before any network call.
	ErrEmptyCart = errors.New("cannot place an order with an empty cart")
	// ErrNotAuthenticated rejects operations that need a live session.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrMissingCredentials rejects empty email or password at the
	// boundary. Format validation belongs to the UI.
	ErrMissingCredentials = errors.New("email and password are required")
	// ErrSuperseded reports that a newer refresh replaced this one while
	// it was in flight; its response was discarded.
	ErrSuperseded = errors.New("superseded by a newer refresh")
)

// API is the backend surface the engine depends on.
type API interface {
	FetchProducts(ctx context.Context, ownerID string) ([]product.Product, error)
	PlaceOrder(ctx context.Context, userID string, items []cart.Line, total decimal.Decimal, placedAt time.Time) (string, error)
	FetchOrders(ctx context.Context, userID string) ([]order.Order, error)
	SignUp(ctx context.Context, email, password string) (backend.Credentials, error)
	SignIn(ctx context.Context, email, password string) (backend.Credentials, error)
}

// Config configures an Engine.
type Config struct {
	// Logger for engine events. Defaults to a no-op logger.
	Logger *zap.Logger
	// FilterOwned limits catalog refreshes to products owned by the
	// signed-in user.
	FilterOwned bool
}

// Engine owns the async side of the store: it is the only component
// that dispatches terminal actions for network-backed operations, and
// the only holder of the session expiry timer.
type Engine struct {
	store *store.Store
	api   API
	lg    *zap.Logger

	filterOwned bool

	catalogGen atomic.Uint64
	ordersGen  atomic.Uint64

	expiry session.Timer

	now func() time.Time
}

// NewEngine wires an Engine to the given store and backend.
func NewEngine(st *store.Store, api API, cfg Config) *Engine {
	lg := cfg.Logger
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Engine{
		store:       st,
		api:         api,
		lg:          lg,
		filterOwned: cfg.FilterOwned,
		now:         time.Now,
	}
}

// Store exposes the underlying store for subscriptions and selectors.
func (e *Engine) Store() *store.Store { return e.store }

// Subscribe registers a state listener and returns its cancel function.
func (e *Engine) Subscribe(fn store.Listener) (cancel func()) {
	return e.store.Subscribe(fn)
}

// AddToCart merges one unit of the product into the cart.
func (e *Engine) AddToCart(p product.Product) {
	e.store.Dispatch(cart.Added{Product: p})
}

// RemoveFromCart takes one unit of the product out of the cart.
func (e *Engine) RemoveFromCart(productID string) {
	e.store.Dispatch(cart.Removed{ProductID: productID})
}

// Close releases the engine's timers. The store itself holds no
// resources beyond memory.
func (e *Engine) Close() {
	e.expiry.Cancel()
}
