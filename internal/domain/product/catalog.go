package product

import (
	"github.com/xenking/storefront/pkg/loadstate"
)

// CatalogState holds the last successfully fetched product set together
// with the loadstate of the most recent refresh. A failed refresh leaves
// Products untouched: stale but available.
type CatalogState struct {
	Products []Product
	Load     loadstate.State
}

// Action is the closed set of catalog state transitions.
type Action interface {
	isCatalogAction()
}

// RefreshStarted marks a catalog refresh as in flight.
type RefreshStarted struct{}

// RefreshSucceeded replaces the entire cached product set.
type RefreshSucceeded struct {
	Products []Product
}

// RefreshFailed records the failure reason and keeps the previous set.
type RefreshFailed struct {
	Reason string
}

func (RefreshStarted) isCatalogAction()   {}
func (RefreshSucceeded) isCatalogAction() {}
func (RefreshFailed) isCatalogAction()    {}

// Reduce applies a catalog action to the previous state and returns the
// next state. The previous state is never mutated.
func Reduce(s CatalogState, a Action) CatalogState {
	switch a := a.(type) {
	case RefreshStarted:
		s.Load = loadstate.Loading()
	case RefreshSucceeded:
		next := make([]Product, len(a.Products))
		copy(next, a.Products)
		s.Products = next
		s.Load = loadstate.Ready()
	case RefreshFailed:
		s.Load = loadstate.Failed(a.Reason)
	}
	return s
}

// ByID returns the cached product with the given ID, if present. Part
// of the read-only surface for UI collaborators, which navigate to a
// detail view with only a product ID in hand.
func (s CatalogState) ByID(id string) (Product, bool) {
	for _, p := range s.Products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}
