package store

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront/internal/cart"
)

// encodeCart serializes a cart snapshot. Prices are encoded as decimal
// strings so the stored value round-trips exactly.
func encodeCart(c cart.Cart) []byte {
	e := &jx.Encoder{}
	e.Obj(func(e *jx.Encoder) {
		e.Field("lines", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, line := range c.Lines {
					e.Obj(func(e *jx.Encoder) {
						e.Field("productId", func(e *jx.Encoder) { e.Int64(line.ProductID) })
						e.Field("title", func(e *jx.Encoder) { e.Str(line.Title) })
						e.Field("price", func(e *jx.Encoder) { e.Str(line.Price.String()) })
						e.Field("stockCeiling", func(e *jx.Encoder) { e.Int(line.StockCeiling) })
						e.Field("quantity", func(e *jx.Encoder) { e.Int(line.Quantity) })
					})
				}
			})
		})
	})
	return e.Bytes()
}

// decodeCart parses a stored snapshot and checks cart invariants. Any decode
// or invariant failure is reported as ErrCorrupt.
func decodeCart(data []byte) (cart.Cart, error) {
	var c cart.Cart

	d := jx.DecodeBytes(data)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		if key != "lines" {
			return d.Skip()
		}
		return d.Arr(func(d *jx.Decoder) error {
			line, err := decodeLine(d)
			if err != nil {
				return err
			}
			c.Lines = append(c.Lines, line)
			return nil
		})
	})
	if err != nil {
		return cart.Cart{}, errors.Wrap(ErrCorrupt, err.Error())
	}

	if err := validateCart(c); err != nil {
		return cart.Cart{}, errors.Wrap(ErrCorrupt, err.Error())
	}
	return c, nil
}

func decodeLine(d *jx.Decoder) (cart.Line, error) {
	var line cart.Line
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "productId":
			id, err := d.Int64()
			if err != nil {
				return err
			}
			line.ProductID = id
		case "title":
			title, err := d.Str()
			if err != nil {
				return err
			}
			line.Title = title
		case "price":
			s, err := d.Str()
			if err != nil {
				return err
			}
			price, err := decimal.NewFromString(s)
			if err != nil {
				return err
			}
			line.Price = price
		case "stockCeiling":
			ceiling, err := d.Int()
			if err != nil {
				return err
			}
			line.StockCeiling = ceiling
		case "quantity":
			quantity, err := d.Int()
			if err != nil {
				return err
			}
			line.Quantity = quantity
		default:
			return d.Skip()
		}
		return nil
	})
	return line, err
}

// validateCart enforces the ledger invariants on deserialized data: unique
// product ids and every quantity within [1, ceiling].
func validateCart(c cart.Cart) error {
	seen := make(map[int64]struct{}, len(c.Lines))
	for _, line := range c.Lines {
		if _, dup := seen[line.ProductID]; dup {
			return errors.Errorf("duplicate line for product %d", line.ProductID)
		}
		seen[line.ProductID] = struct{}{}

		if line.Quantity < 1 || line.Quantity > line.StockCeiling {
			return errors.Errorf("product %d quantity %d outside [1, %d]",
				line.ProductID, line.Quantity, line.StockCeiling)
		}
		if line.Price.IsNegative() {
			return errors.Errorf("product %d has negative price %s", line.ProductID, line.Price)
		}
	}
	return nil
}
