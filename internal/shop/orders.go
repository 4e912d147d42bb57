package shop

import (
	"context"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/storefront/internal/domain/order"
)

// PlaceOrder converts the current cart into an immutable order. The cart
// must be non-empty and a session must be live; both are checked before
// any network call. On success the order is appended to the history and
// the cart cleared in the same dispatch pass; on failure the cart is
// left intact and no partial order is recorded.
func (e *Engine) PlaceOrder(ctx context.Context) (order.Order, error) {
	snap := e.store.Snapshot()
	if snap.Cart.Empty() || !snap.Cart.Total.IsPositive() {
		return order.Order{}, ErrEmptyCart
	}
	sess := snap.Session.Current
	if sess == nil {
		return order.Order{}, ErrNotAuthenticated
	}

	items := snap.Cart.Snapshot()
	placedAt := e.now()

	id, err := e.api.PlaceOrder(ctx, sess.UserID, items, snap.Cart.Total, placedAt)
	if ctx.Err() != nil {
		return order.Order{}, ctx.Err()
	}
	if err != nil {
		return order.Order{}, errors.Wrap(err, "place order")
	}

	o := order.Order{
		ID:       id,
		Items:    items,
		Total:    snap.Cart.Total,
		PlacedAt: placedAt,
	}
	e.store.Dispatch(order.Placed{Order: o})
	e.lg.Info("Order placed", zap.String("order_id", id), zap.String("total", o.Total.String()))
	return o, nil
}

// RefreshOrders replaces the order history with the backend's set for
// the current user. Failure policy and stale-response fencing match
// RefreshCatalog.
func (e *Engine) RefreshOrders(ctx context.Context) error {
	sess, ok := e.store.Session()
	if !ok {
		return ErrNotAuthenticated
	}

	gen := e.ordersGen.Add(1)
	e.store.Dispatch(order.FetchStarted{})

	orders, err := e.api.FetchOrders(ctx, sess.UserID)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if gen != e.ordersGen.Load() {
		e.lg.Debug("Discarding stale orders response", zap.Uint64("generation", gen))
		return ErrSuperseded
	}
	if err != nil {
		e.store.Dispatch(order.FetchFailed{Reason: err.Error()})
		return errors.Wrap(err, "fetch orders")
	}

	e.store.Dispatch(order.FetchSucceeded{Orders: orders})
	return nil
}

// Bootstrap refreshes the catalog and the order history concurrently.
// Intended for the initial load after authentication.
func (e *Engine) Bootstrap(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return e.RefreshCatalog(ctx) })
	g.Go(func() error { return e.RefreshOrders(ctx) })
	return g.Wait()
}
