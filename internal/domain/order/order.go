package order

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrEmpty                  = errors.New("order: no items")
	ErrInvalidQuantity        = errors.New("order: quantity must be greater than zero")
	ErrInvalidPrice           = errors.New("order: unit price must be zero or greater")
	ErrInvalidStateTransition = errors.New("order: invalid state transition")
)

type Status string

const (
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
)

type Item struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Quantity  int
	UnitPrice decimal.Decimal
}

func (i Item) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Order struct {
	ID          int64
	Items       []Item
	TotalAmount decimal.Decimal
	Status      Status
	CreatedAt   time.Time
}

// New builds a pending order whose total is the sum of its line totals.
func New(items []Item) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrEmpty
	}
	total := decimal.Zero
	for _, it := range items {
		if it.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		if it.UnitPrice.IsNegative() {
			return nil, ErrInvalidPrice
		}
		total = total.Add(it.LineTotal())
	}

	return &Order{
		Items:       append([]Item(nil), items...),
		TotalAmount: total.Round(2),
		Status:      StatusPending,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

func (o *Order) MarkCompleted() error {
	if o.Status != StatusPending {
		return ErrInvalidStateTransition
	}
	o.Status = StatusCompleted
	return nil
}

func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	clone.Items = append([]Item(nil), o.Items...)
	return &clone
}
