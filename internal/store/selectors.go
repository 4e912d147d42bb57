package store

import (
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront/internal/domain/cart"
	"github.com/xenking/storefront/internal/domain/order"
	"github.com/xenking/storefront/internal/domain/product"
	"github.com/xenking/storefront/internal/domain/session"
)

// Read-only selectors: the surface collaborators use instead of reading
// sub-states off a snapshot by hand.

// Products returns the cached catalog.
func (s *Store) Products() []product.Product {
	return s.Snapshot().Catalog.Products
}

// CartLines returns the cart lines in first-add order.
func (s *Store) CartLines() []cart.Line {
	return s.Snapshot().Cart.Snapshot()
}

// CartTotal returns the derived cart total.
func (s *Store) CartTotal() decimal.Decimal {
	return s.Snapshot().Cart.Total
}

// Orders returns the order history.
func (s *Store) Orders() []order.Order {
	return s.Snapshot().Orders.History
}

// Session returns the live session, if any.
func (s *Store) Session() (session.Session, bool) {
	cur := s.Snapshot().Session.Current
	if cur == nil {
		return session.Session{}, false
	}
	return *cur, true
}

// Token returns the current session token. It reads the live state at
// call time, so a request issued before a session change still attaches
// the token that is current when the request goes out.
func (s *Store) Token() (string, bool) {
	sess, ok := s.Session()
	if !ok {
		return "", false
	}
	return sess.Token, true
}
