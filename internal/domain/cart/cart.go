// Package cart maintains the quantity-merged shopping cart: one line per
// product, a derived per-line sum, and a running total recomputed from
// scratch on every mutation so it can never drift from the lines.
package cart

import (
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront/internal/domain/product"
)

// Line is one product's aggregation within the cart. Sum is always
// Price * Quantity; it is recomputed, never independently mutated.
type Line struct {
	ProductID string
	Title     string
	Price     decimal.Decimal
	Quantity  int
	Sum       decimal.Decimal
}

// State is the cart sub-state. Lines maps productID to its single Line;
// Seq records productIDs in first-add order so snapshots and order items
// have a deterministic sequence. Total equals the sum of all line sums.
//
// Reducers treat State as immutable: Lines and Seq are cloned before any
// mutation, so previously published snapshots stay valid.
type State struct {
	Lines map[string]Line
	Seq   []string
	Total decimal.Decimal
}

// Action is the closed set of cart state transitions. All of them are
// pure and synchronous; the cart performs no I/O.
type Action interface {
	isCartAction()
}

// Added merges one unit of the product into the cart.
type Added struct {
	Product product.Product
}

// Removed takes one unit of the product out of the cart, deleting the
// line when its quantity reaches zero.
type Removed struct {
	ProductID string
}

// Cleared empties the cart. Dispatched as part of successful order
// placement, never on its own from the UI.
type Cleared struct{}

func (Added) isCartAction()   {}
func (Removed) isCartAction() {}
func (Cleared) isCartAction() {}

// Reduce applies a cart action and returns the next state with Total
// recomputed from the resulting lines.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case Added:
		return s.add(a.Product)
	case Removed:
		return s.remove(a.ProductID)
	case Cleared:
		return State{Total: decimal.Zero}
	}
	return s
}

func (s State) add(p product.Product) State {
	lines := cloneLines(s.Lines)
	seq := s.Seq

	if line, ok := lines[p.ID]; ok {
		line.Quantity++
		line.Sum = line.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		lines[p.ID] = line
	} else {
		lines[p.ID] = Line{
			ProductID: p.ID,
			Title:     p.Title,
			Price:     p.Price,
			Quantity:  1,
			Sum:       p.Price,
		}
		seq = append(append([]string(nil), s.Seq...), p.ID)
	}

	return State{Lines: lines, Seq: seq, Total: recompute(lines)}
}

func (s State) remove(productID string) State {
	line, ok := s.Lines[productID]
	if !ok {
		return s
	}

	lines := cloneLines(s.Lines)
	seq := s.Seq

	if line.Quantity <= 1 {
		delete(lines, productID)
		seq = make([]string, 0, len(s.Seq))
		for _, id := range s.Seq {
			if id != productID {
				seq = append(seq, id)
			}
		}
	} else {
		line.Quantity--
		line.Sum = line.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		lines[productID] = line
	}

	return State{Lines: lines, Seq: seq, Total: recompute(lines)}
}

// recompute derives the cart total from all line sums. Removal does not
// subtract from the previous total; full recomputation is the policy.
func recompute(lines map[string]Line) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Sum)
	}
	return total
}

func cloneLines(lines map[string]Line) map[string]Line {
	out := make(map[string]Line, len(lines)+1)
	for id, line := range lines {
		out[id] = line
	}
	return out
}

// Snapshot returns the cart lines in first-add order.
func (s State) Snapshot() []Line {
	out := make([]Line, 0, len(s.Seq))
	for _, id := range s.Seq {
		if line, ok := s.Lines[id]; ok {
			out = append(out, line)
		}
	}
	return out
}

// Quantity returns the quantity of the given product in the cart, or zero.
func (s State) Quantity(productID string) int {
	return s.Lines[productID].Quantity
}

// Empty reports whether the cart has no lines.
func (s State) Empty() bool { return len(s.Lines) == 0 }
