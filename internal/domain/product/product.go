package product

import (
	"github.com/shopspring/decimal"
)

// Product represents a catalog item available for purchase. Products are
// immutable once fetched; identity is the backend-assigned ID.
type Product struct {
	ID          string
	OwnerID     string
	Title       string
	ImageURL    string
	Description string
	Price       decimal.Decimal
}
