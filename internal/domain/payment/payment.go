package payment

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("payment: amount must be zero or greater")

type Status string

// Payments are recorded, never processed, so completed is the only status.
const StatusCompleted Status = "Completed"

const DefaultMethod = "unspecified"

type Payment struct {
	ID        int64
	OrderID   int64
	Amount    decimal.Decimal
	Method    string
	Status    Status
	CreatedAt time.Time
}

func New(orderID int64, amount decimal.Decimal, method string) (*Payment, error) {
	if amount.IsNegative() {
		return nil, ErrInvalidAmount
	}
	method = strings.TrimSpace(method)
	if method == "" {
		method = DefaultMethod
	}
	return &Payment{
		OrderID:   orderID,
		Amount:    amount,
		Method:    method,
		Status:    StatusCompleted,
		CreatedAt: time.Now().UTC(),
	}, nil
}
