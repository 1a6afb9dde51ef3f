package application

import (
	"context"
	"errors"
	"fmt"
)

type UseCase[C any, R any] interface {
	Execute(ctx context.Context, cmd C) (R, error)
}

var (
	// ErrValidation marks client input rejected before the store is touched.
	ErrValidation = errors.New("validation")
	// ErrRepository marks a store fault. Its cause is logged, never returned to clients.
	ErrRepository = errors.New("repository failure")
)

func NewValidation(msg string) error {
	return fmt.Errorf("%w: %w", ErrValidation, errors.New(msg))
}

// WrapRepositoryError tags err as a store fault unless it already carries one
// of the domain sentinels in known.
func WrapRepositoryError(err error, known ...error) error {
	if err == nil {
		return nil
	}
	for _, k := range known {
		if errors.Is(err, k) {
			return err
		}
	}
	if errors.Is(err, ErrRepository) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrRepository, err)
}
