package cart

import (
	"errors"

	"github.com/Zhima-Mochi/minishop-cart/internal/domain/catalog"
)

var (
	ErrNotFound        = errors.New("cart: item not found")
	ErrInvalidQuantity = errors.New("cart: quantity must be greater than zero")
)

// Item is a cart row. There is at most one row per product; its quantity is
// held back from the product's stock until the row is removed or purchased.
type Item struct {
	ID        int64
	ProductID int64
	Quantity  int
}

// Line is a cart row joined with the product it reserves.
type Line struct {
	Item    Item
	Product catalog.Product
}

func NewItem(productID int64, quantity int) (*Item, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	return &Item{ProductID: productID, Quantity: quantity}, nil
}

// Add merges quantity more units into the row.
func (i *Item) Add(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	i.Quantity += quantity
	return nil
}

// Take removes up to quantity units from the row and returns how many were taken.
func (i *Item) Take(quantity int) int {
	if quantity <= 0 {
		return 0
	}
	taken := min(quantity, i.Quantity)
	i.Quantity -= taken
	return taken
}

func (i *Item) Empty() bool { return i.Quantity <= 0 }
