// Package order keeps the immutable purchase history: each Order is an
// atomic snapshot of the cart taken at placement time, appended to an
// insertion-ordered ledger and never mutated afterwards.
package order

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/xenking/storefront/internal/domain/cart"
	"github.com/xenking/storefront/pkg/loadstate"
)

// Order is a placed purchase. ID comes from the backend; Items and Total
// are the cart snapshot at send time; PlacedAt is the client timestamp.
type Order struct {
	ID       string
	Items    []cart.Line
	Total    decimal.Decimal
	PlacedAt time.Time
}

// State is the order-history sub-state. History is ordered by insertion
// for locally placed orders and by backend order for fetched sets.
type State struct {
	History []Order
	Load    loadstate.State
}

// Action is the closed set of order-history transitions.
type Action interface {
	isOrderAction()
}

// FetchStarted marks a history refresh as in flight.
type FetchStarted struct{}

// FetchSucceeded replaces the entire order history.
type FetchSucceeded struct {
	Orders []Order
}

// FetchFailed records the failure reason and keeps the previous history.
type FetchFailed struct {
	Reason string
}

// Placed appends a single freshly placed order. The root reducer pairs
// this action with clearing the cart so both apply in one dispatch.
type Placed struct {
	Order Order
}

func (FetchStarted) isOrderAction()   {}
func (FetchSucceeded) isOrderAction() {}
func (FetchFailed) isOrderAction()    {}
func (Placed) isOrderAction()         {}

// Reduce applies an order action to the previous state and returns the
// next state without mutating the previous one.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case FetchStarted:
		s.Load = loadstate.Loading()
	case FetchSucceeded:
		next := make([]Order, len(a.Orders))
		copy(next, a.Orders)
		s.History = next
		s.Load = loadstate.Ready()
	case FetchFailed:
		s.Load = loadstate.Failed(a.Reason)
	case Placed:
		next := make([]Order, len(s.History)+1)
		copy(next, s.History)
		next[len(s.History)] = a.Order
		s.History = next
	}
	return s
}
