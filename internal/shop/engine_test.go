package shop

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/storefront/internal/backend"
	"github.com/xenking/storefront/internal/domain/cart"
	"github.com/xenking/storefront/internal/domain/order"
	"github.com/xenking/storefront/internal/domain/product"
	"github.com/xenking/storefront/internal/domain/session"
	"github.com/xenking/storefront/internal/store"
	"github.com/xenking/storefront/pkg/loadstate"
)

// --- Mock implementation of API ---

type mockAPI struct {
	mu sync.Mutex

	products     []product.Product
	productsErr  error
	productCalls int
	lastOwnerID  string
	// fetchFn, when set, overrides the canned products response. It
	// receives the 1-based call number.
	fetchFn func(call int) ([]product.Product, error)

	orderID    string
	placeErr   error
	placeCalls int

	orders    []order.Order
	ordersErr error

	creds   backend.Credentials
	authErr error
}

func (m *mockAPI) FetchProducts(_ context.Context, ownerID string) ([]product.Product, error) {
	m.mu.Lock()
	m.productCalls++
	call := m.productCalls
	m.lastOwnerID = ownerID
	fn := m.fetchFn
	m.mu.Unlock()

	if fn != nil {
		return fn(call)
	}
	return m.products, m.productsErr
}

func (m *mockAPI) PlaceOrder(_ context.Context, _ string, _ []cart.Line, _ decimal.Decimal, _ time.Time) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.placeCalls++
	if m.placeErr != nil {
		return "", m.placeErr
	}
	return m.orderID, nil
}

func (m *mockAPI) FetchOrders(_ context.Context, _ string) ([]order.Order, error) {
	return m.orders, m.ordersErr
}

func (m *mockAPI) SignUp(_ context.Context, _, _ string) (backend.Credentials, error) {
	return m.creds, m.authErr
}

func (m *mockAPI) SignIn(_ context.Context, _, _ string) (backend.Credentials, error) {
	return m.creds, m.authErr
}

// --- Helpers ---

func newTestProduct(id, title, price string) product.Product {
	return product.Product{
		ID:    id,
		Title: title,
		Price: decimal.RequireFromString(price),
	}
}

func newTestEngine(t *testing.T, api *mockAPI) *Engine {
	t.Helper()
	e := NewEngine(store.New(), api, Config{})
	t.Cleanup(e.Close)
	return e
}

func login(t *testing.T, e *Engine, api *mockAPI, expiresIn time.Duration) {
	t.Helper()
	api.creds = backend.Credentials{UserID: "u1", Token: "tok", ExpiresIn: expiresIn}
	require.NoError(t, e.Login(context.Background(), "user@test.dev", "secret"))
}

// --- Session tests ---

func TestLogin_Success(t *testing.T) {
	api := &mockAPI{}
	e := newTestEngine(t, api)
	login(t, e, api, time.Hour)

	sess, ok := e.Store().Session()
	require.True(t, ok)
	assert.Equal(t, "u1", sess.UserID)
	assert.Equal(t, "tok", sess.Token)
	assert.Equal(t, session.StatusAuthenticated, e.Store().Snapshot().Session.Status)
}

func TestLogin_MissingCredentials(t *testing.T) {
	api := &mockAPI{}
	e := newTestEngine(t, api)

	err := e.Login(context.Background(), "", "secret")
	require.ErrorIs(t, err, ErrMissingCredentials)
	assert.Equal(t, session.StatusUnauthenticated, e.Store().Snapshot().Session.Status)
}

func TestLogin_BackendReasonMapped(t *testing.T) {
	api := &mockAPI{authErr: &backend.Error{Code: "INVALID_PASSWORD", Status: 400}}
	e := newTestEngine(t, api)

	err := e.Login(context.Background(), "user@test.dev", "wrong")
	require.Error(t, err)

	snap := e.Store().Snapshot().Session
	assert.Equal(t, session.StatusUnauthenticated, snap.Status)
	assert.Equal(t, "This password is not valid!", snap.Reason)
	assert.Nil(t, snap.Current)
}

func TestSessionExpiry_AutoLogout(t *testing.T) {
	api := &mockAPI{}
	e := newTestEngine(t, api)
	login(t, e, api, 20*time.Millisecond)

	_, ok := e.Store().Session()
	require.True(t, ok)

	assert.Eventually(t, func() bool {
		_, ok := e.Store().Session()
		return !ok
	}, time.Second, 5*time.Millisecond)

	// Stays absent.
	time.Sleep(40 * time.Millisecond)
	_, ok = e.Store().Session()
	assert.False(t, ok)
}

func TestLogout_CancelsPendingExpiry(t *testing.T) {
	api := &mockAPI{}
	e := newTestEngine(t, api)
	login(t, e, api, 50*time.Millisecond)

	e.Logout()
	_, ok := e.Store().Session()
	assert.False(t, ok)

	// The stale deadline must not fire against a later session.
	login(t, e, api, time.Hour)
	time.Sleep(120 * time.Millisecond)
	_, ok = e.Store().Session()
	assert.True(t, ok)
}

func TestRelogin_ReplacesExpiryDeadline(t *testing.T) {
	api := &mockAPI{}
	e := newTestEngine(t, api)
	login(t, e, api, 30*time.Millisecond)
	login(t, e, api, time.Hour)

	time.Sleep(90 * time.Millisecond)
	_, ok := e.Store().Session()
	assert.True(t, ok, "re-arm must replace the earlier deadline, not stack on it")
}

// --- Order tests ---

func TestPlaceOrder_EmptyCartRejectedWithoutNetwork(t *testing.T) {
	api := &mockAPI{orderID: "o1"}
	e := newTestEngine(t, api)
	login(t, e, api, time.Hour)

	_, err := e.PlaceOrder(context.Background())
	require.ErrorIs(t, err, ErrEmptyCart)
	assert.Zero(t, api.placeCalls)
	assert.Empty(t, e.Store().Orders())
}

func TestPlaceOrder_RequiresSession(t *testing.T) {
	api := &mockAPI{orderID: "o1"}
	e := newTestEngine(t, api)
	e.AddToCart(newTestProduct("p1", "Widget", "10.00"))

	_, err := e.PlaceOrder(context.Background())
	require.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Zero(t, api.placeCalls)
}

func TestPlaceOrder_AppendsOrderAndClearsCart(t *testing.T) {
	api := &mockAPI{orderID: "o1"}
	e := newTestEngine(t, api)
	placedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	e.now = func() time.Time { return placedAt }
	login(t, e, api, time.Hour)

	p := newTestProduct("p1", "Widget", "10.00")
	e.AddToCart(p)
	e.AddToCart(p)

	o, err := e.PlaceOrder(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "o1", o.ID)
	assert.Equal(t, placedAt, o.PlacedAt)
	assert.True(t, decimal.RequireFromString("20.00").Equal(o.Total))
	require.Len(t, o.Items, 1)
	assert.Equal(t, 2, o.Items[0].Quantity)

	st := e.Store()
	require.Len(t, st.Orders(), 1)
	assert.Equal(t, "o1", st.Orders()[0].ID)
	assert.Empty(t, st.CartLines())
	assert.True(t, st.CartTotal().IsZero())
}

func TestPlaceOrder_FailureLeavesCartIntact(t *testing.T) {
	api := &mockAPI{placeErr: errors.New("boom")}
	e := newTestEngine(t, api)
	login(t, e, api, time.Hour)
	e.AddToCart(newTestProduct("p1", "Widget", "10.00"))

	_, err := e.PlaceOrder(context.Background())
	require.Error(t, err)

	st := e.Store()
	assert.Empty(t, st.Orders())
	require.Len(t, st.CartLines(), 1)
	assert.True(t, decimal.RequireFromString("10.00").Equal(st.CartTotal()))
}

func TestRefreshOrders_ReplacesHistory(t *testing.T) {
	api := &mockAPI{orders: []order.Order{{ID: "o1"}, {ID: "o2"}}}
	e := newTestEngine(t, api)
	login(t, e, api, time.Hour)

	require.NoError(t, e.RefreshOrders(context.Background()))
	require.Len(t, e.Store().Orders(), 2)
	assert.Equal(t, loadstate.PhaseReady, e.Store().Snapshot().Orders.Load.Phase)
}

func TestRefreshOrders_RequiresSession(t *testing.T) {
	api := &mockAPI{}
	e := newTestEngine(t, api)

	err := e.RefreshOrders(context.Background())
	require.ErrorIs(t, err, ErrNotAuthenticated)
}

// --- Catalog tests ---

func TestRefreshCatalog_ReplacesSet(t *testing.T) {
	api := &mockAPI{products: []product.Product{newTestProduct("p1", "Widget", "10.00")}}
	e := newTestEngine(t, api)

	require.NoError(t, e.RefreshCatalog(context.Background()))

	snap := e.Store().Snapshot().Catalog
	require.Len(t, snap.Products, 1)
	assert.Equal(t, loadstate.PhaseReady, snap.Load.Phase)
}

func TestRefreshCatalog_FailureKeepsStaleSet(t *testing.T) {
	api := &mockAPI{products: []product.Product{newTestProduct("p1", "Widget", "10.00")}}
	e := newTestEngine(t, api)
	require.NoError(t, e.RefreshCatalog(context.Background()))

	api.mu.Lock()
	api.productsErr = errors.New("connection reset")
	api.mu.Unlock()

	err := e.RefreshCatalog(context.Background())
	require.Error(t, err)

	snap := e.Store().Snapshot().Catalog
	require.Len(t, snap.Products, 1, "stale set stays available")
	assert.Equal(t, "p1", snap.Products[0].ID)
	assert.True(t, snap.Load.IsFailed())
	assert.Contains(t, snap.Load.Reason, "connection reset")
}

func TestRefreshCatalog_StaleResponseDiscarded(t *testing.T) {
	firstIssued := make(chan struct{})
	releaseFirst := make(chan struct{})

	older := []product.Product{newTestProduct("old", "Old", "1.00")}
	newer := []product.Product{newTestProduct("new", "New", "2.00")}

	api := &mockAPI{}
	api.fetchFn = func(call int) ([]product.Product, error) {
		if call == 1 {
			close(firstIssued)
			<-releaseFirst
			return older, nil
		}
		return newer, nil
	}
	e := newTestEngine(t, api)

	done := make(chan error, 1)
	go func() { done <- e.RefreshCatalog(context.Background()) }()
	<-firstIssued

	// A newer refresh resolves while the first is still suspended.
	require.NoError(t, e.RefreshCatalog(context.Background()))

	close(releaseFirst)
	require.ErrorIs(t, <-done, ErrSuperseded)

	snap := e.Store().Snapshot().Catalog
	require.Len(t, snap.Products, 1)
	assert.Equal(t, "new", snap.Products[0].ID, "older response must not overwrite the newer one")
}

func TestRefreshCatalog_CanceledContextAppliesNothing(t *testing.T) {
	api := &mockAPI{}
	api.fetchFn = func(int) ([]product.Product, error) {
		return []product.Product{newTestProduct("p1", "Widget", "10.00")}, nil
	}
	e := newTestEngine(t, api)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := e.RefreshCatalog(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, e.Store().Products(), "no state applied after teardown")
}

func TestRefreshCatalog_FilterOwnedPassesUserID(t *testing.T) {
	api := &mockAPI{}
	e := NewEngine(store.New(), api, Config{FilterOwned: true})
	t.Cleanup(e.Close)

	err := e.RefreshCatalog(context.Background())
	require.ErrorIs(t, err, ErrNotAuthenticated)

	login(t, e, api, time.Hour)
	require.NoError(t, e.RefreshCatalog(context.Background()))
	assert.Equal(t, "u1", api.lastOwnerID)
}

func TestRefreshCatalog_RejectedCallDoesNotSupersede(t *testing.T) {
	firstIssued := make(chan struct{})
	releaseFirst := make(chan struct{})

	api := &mockAPI{}
	api.fetchFn = func(call int) ([]product.Product, error) {
		if call == 1 {
			close(firstIssued)
			<-releaseFirst
		}
		return []product.Product{newTestProduct("p1", "Widget", "10.00")}, nil
	}
	e := NewEngine(store.New(), api, Config{FilterOwned: true})
	t.Cleanup(e.Close)
	login(t, e, api, time.Hour)

	done := make(chan error, 1)
	go func() { done <- e.RefreshCatalog(context.Background()) }()
	<-firstIssued

	// A call rejected at the precondition must not fence out the
	// refresh that is still in flight.
	e.Logout()
	require.ErrorIs(t, e.RefreshCatalog(context.Background()), ErrNotAuthenticated)

	close(releaseFirst)
	require.NoError(t, <-done)

	snap := e.Store().Snapshot().Catalog
	require.Len(t, snap.Products, 1)
	assert.Equal(t, loadstate.PhaseReady, snap.Load.Phase)
}

func TestBootstrap_LoadsCatalogAndOrders(t *testing.T) {
	api := &mockAPI{
		products: []product.Product{newTestProduct("p1", "Widget", "10.00")},
		orders:   []order.Order{{ID: "o1"}},
	}
	e := newTestEngine(t, api)
	login(t, e, api, time.Hour)

	require.NoError(t, e.Bootstrap(context.Background()))
	assert.Len(t, e.Store().Products(), 1)
	assert.Len(t, e.Store().Orders(), 1)
}
