// Package store persists cart snapshots to a flat key-value namespace: the
// whole cart is written under one session key after every mutation and read
// back once at startup.
package store

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/xenking/storefront/internal/cart"
)

// ErrCorrupt is returned by Load when a stored snapshot exists but cannot be
// decoded or violates cart invariants. Callers treat it as an empty cart;
// it is never fatal.
var ErrCorrupt = errors.New("corrupt cart snapshot")

// Store persists cart snapshots. A missing key is not an error: Load returns
// an empty cart.
type Store interface {
	Load(ctx context.Context, key string) (cart.Cart, error)
	Save(ctx context.Context, key string, c cart.Cart) error
}
