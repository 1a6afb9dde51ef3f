package catalog

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound        = errors.New("catalog: product not found")
	ErrOutOfStock      = errors.New("catalog: insufficient stock")
	ErrInvalidQuantity = errors.New("catalog: quantity must be greater than zero")
	ErrInvalidProduct  = errors.New("catalog: invalid product")
)

// MaxQuantity bounds stock and every quantity; they are stored as 32-bit integers.
const MaxQuantity = math.MaxInt32

// Product is a sellable item. Stock counts units that are neither sold nor
// reserved by a cart row.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	ImageURL    string
}

func New(name, description string, price decimal.Decimal, stock int, imageURL string) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidProduct)
	}
	if price.IsNegative() {
		return nil, fmt.Errorf("%w: price must be zero or greater", ErrInvalidProduct)
	}
	if stock < 0 {
		return nil, fmt.Errorf("%w: stock must be zero or greater", ErrInvalidProduct)
	}
	return &Product{
		Name:        name,
		Description: description,
		Price:       price.Round(2),
		Stock:       stock,
		ImageURL:    imageURL,
	}, nil
}

// Reserve takes quantity units out of stock. Stock is left untouched on error.
func (p *Product) Reserve(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if quantity > p.Stock {
		return ErrOutOfStock
	}
	p.Stock -= quantity
	return nil
}

// Release returns quantity units to stock.
func (p *Product) Release(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	p.Stock += quantity
	return nil
}

func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}
