package shop

import (
	"context"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/xenking/storefront/internal/domain/product"
)

// RefreshCatalog replaces the cached product set with the backend's
// current collection. On failure the previous set is kept and the
// catalog loadstate records the reason.
//
// Concurrent refreshes are fenced by a generation counter: only the
// most recently issued refresh may apply its result; older in-flight
// responses are discarded and reported as ErrSuperseded. A canceled
// context likewise prevents any state from being applied.
func (e *Engine) RefreshCatalog(ctx context.Context) error {
	ownerID := ""
	if e.filterOwned {
		sess, ok := e.store.Session()
		if !ok {
			return ErrNotAuthenticated
		}
		ownerID = sess.UserID
	}

	// The generation is taken only after the preconditions pass, so a
	// rejected call cannot supersede a refresh that is still in flight.
	gen := e.catalogGen.Add(1)
	e.store.Dispatch(product.RefreshStarted{})

	products, err := e.api.FetchProducts(ctx, ownerID)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if gen != e.catalogGen.Load() {
		e.lg.Debug("Discarding stale catalog response", zap.Uint64("generation", gen))
		return ErrSuperseded
	}
	if err != nil {
		e.store.Dispatch(product.RefreshFailed{Reason: err.Error()})
		return errors.Wrap(err, "fetch products")
	}

	e.store.Dispatch(product.RefreshSucceeded{Products: products})
	e.lg.Debug("Catalog refreshed", zap.Int("products", len(products)))
	return nil
}
