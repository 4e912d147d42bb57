// Package store is the single-writer state container for the storefront
// client. All state lives in one State tree mutated exclusively through
// Dispatch, which applies pure reducers and notifies subscribers
// synchronously with the resulting snapshot. This single-writer
// discipline is what keeps derived values like the cart total and the
// per-collection loadstates consistent without any further locking.
package store

import (
	"sync"
	"sync/atomic"

	"github.com/xenking/storefront/internal/domain/cart"
	"github.com/xenking/storefront/internal/domain/order"
	"github.com/xenking/storefront/internal/domain/product"
	"github.com/xenking/storefront/internal/domain/session"
)

// State is the full client state tree. It has value semantics: reducers
// clone any contained map or slice before mutating, so a State obtained
// from Snapshot or a listener call never changes underneath its holder.
type State struct {
	Catalog product.CatalogState
	Cart    cart.State
	Orders  order.State
	Session session.State
}

// Action is one state transition request. The concrete type must belong
// to one of the closed per-domain action families; anything else is a
// no-op. Dispatch never panics and never returns an error.
type Action interface{}

// Listener observes every applied action. Listeners run synchronously on
// the dispatching goroutine, in subscription order. A listener may read
// the store (Snapshot, selectors) and may cancel subscriptions,
// including its own, but must not call Dispatch.
type Listener func(State)

type subscriber struct {
	id        int
	fn        Listener
	cancelled atomic.Bool
}

// Store holds the state tree and its subscribers. The zero value is not
// usable; construct with New. The Store is owned by the application's
// composition root and passed to collaborators explicitly.
type Store struct {
	// dispatchMu serializes whole dispatch passes: one action's reducer
	// application and notification complete before the next begins.
	dispatchMu sync.Mutex

	// mu guards state and subs. It is never held while listeners run,
	// so listeners can read the store and cancel subscriptions.
	mu    sync.Mutex
	state State
	subs  []*subscriber
	next  int
}

// New returns an empty Store: no products, empty cart, no history, and
// no session.
func New() *Store {
	return &Store{}
}

// Dispatch applies one atomic state transition and notifies subscribers
// with the new snapshot. Dispatches are serialized: the reducer
// application and the notification pass of one action complete before
// the next action is applied.
func (s *Store) Dispatch(a Action) {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.mu.Lock()
	s.state = reduce(s.state, a)
	snap := s.state
	subs := make([]*subscriber, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		if sub.cancelled.Load() {
			continue
		}
		sub.fn(snap)
	}
}

// Subscribe registers a listener and returns its cancel function. After
// cancel returns, the listener is not invoked in any later dispatch
// pass; a cancel that happens during a pass also stops any of its
// remaining invocations within that pass. cancel may be called from
// inside a listener, including the one being cancelled.
func (s *Store) Subscribe(fn Listener) (cancel func()) {
	sub := &subscriber{fn: fn}

	s.mu.Lock()
	sub.id = s.next
	s.next++
	s.subs = append(s.subs, sub)
	s.mu.Unlock()

	return func() {
		sub.cancelled.Store(true)

		s.mu.Lock()
		defer s.mu.Unlock()
		for i, cur := range s.subs {
			if cur.id == sub.id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// Snapshot returns the current state tree.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// reduce routes the action to its domain reducer. Placing an order is
// the one cross-domain transition: the new order is appended and the
// cart cleared in the same pass, so subscribers observe both or neither.
func reduce(s State, a Action) State {
	switch a := a.(type) {
	case product.Action:
		s.Catalog = product.Reduce(s.Catalog, a)
	case cart.Action:
		s.Cart = cart.Reduce(s.Cart, a)
	case order.Action:
		s.Orders = order.Reduce(s.Orders, a)
		if _, ok := a.(order.Placed); ok {
			s.Cart = cart.Reduce(s.Cart, cart.Cleared{})
		}
	case session.Action:
		s.Session = session.Reduce(s.Session, a)
	}
	return s
}
