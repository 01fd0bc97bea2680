package catalog

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrUnavailable is returned when the catalog could not be fetched and no
// snapshot is available for the session.
var ErrUnavailable = errors.New("catalog unavailable")

// Product represents a catalog item available for purchase. Products are
// immutable for the lifetime of a session: the catalog is fetched wholesale
// once and never patched.
type Product struct {
	ID       int64
	Title    string
	Category string
	Price    decimal.Decimal
	Stock    int
}

// Source fetches the full product catalog. Implementations perform exactly
// one upstream request per call; callers invoke it once at startup.
type Source interface {
	FetchCatalog(ctx context.Context) ([]Product, error)
}
