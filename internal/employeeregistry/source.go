package employeeregistry

import (
	"context"
	"errors"
)

// ErrRegistryUnavailable marks a lookup that produced no authoritative answer.
// It never leaves this package: the verifier falls back instead.
var ErrRegistryUnavailable = errors.New("employee registry unavailable")

//go:generate mockgen -source=source.go -destination=mock/source_mock.go -package=mock

// ExistenceSource answers whether an employee id is known. A nil error means
// the boolean is authoritative.
type ExistenceSource interface {
	Name() string
	Lookup(ctx context.Context, employeeID int64) (bool, error)
}
