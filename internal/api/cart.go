package api

import (
	"net/http"
	"strconv"

	"github.com/go-faster/jx"

	"github.com/xenking/storefront/internal/cart"
)

// getCart returns the current cart with its totals.
func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	h.respondCart(w, r, h.session.Cart())
}

// addCartItem applies an add intent. An add rejected by the ledger (unknown
// id or stock ceiling reached) still returns 200 with the unchanged cart:
// ceiling enforcement is a policy, not an error.
func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "reading request body failed")
		return
	}

	var productID int64
	d := jx.DecodeBytes(body)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		if key != "productId" {
			return d.Skip()
		}
		id, err := d.Int64()
		if err != nil {
			return err
		}
		productID = id
		return nil
	}); err != nil || productID == 0 {
		respondError(w, r, http.StatusBadRequest, "productId is required")
		return
	}

	h.respondCart(w, r, h.session.AddToCart(r.Context(), productID))
}

// setCartItemQuantity applies a set-quantity intent. Out-of-range quantities
// are silent no-ops returning the unchanged cart.
func (h *Handler) setCartItemQuantity(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(w, r)
	if !ok {
		return
	}

	body, err := readBody(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "reading request body failed")
		return
	}

	quantity := -1
	d := jx.DecodeBytes(body)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		if key != "quantity" {
			return d.Skip()
		}
		q, err := d.Int()
		if err != nil {
			return err
		}
		quantity = q
		return nil
	}); err != nil || quantity < 0 {
		respondError(w, r, http.StatusBadRequest, "quantity is required")
		return
	}

	h.respondCart(w, r, h.session.SetQuantity(r.Context(), productID, quantity))
}

// removeCartItem applies a remove intent; removing an absent id is a no-op.
func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(w, r)
	if !ok {
		return
	}

	h.respondCart(w, r, h.session.RemoveFromCart(r.Context(), productID))
}

// respondCart encodes a cart with its totals. Prices are exact decimals
// throughout the ledger; the two-place rounding of the total happens here,
// at the presentation boundary only.
func (h *Handler) respondCart(w http.ResponseWriter, r *http.Request, c cart.Cart) {
	totals := c.Totals()

	e := &jx.Encoder{}
	e.Obj(func(e *jx.Encoder) {
		e.Field("lines", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, line := range c.Lines {
					encodeLine(e, line)
				}
			})
		})
		e.Field("totals", func(e *jx.Encoder) {
			e.Obj(func(e *jx.Encoder) {
				e.Field("itemCount", func(e *jx.Encoder) { e.Int(totals.ItemCount) })
				e.Field("totalPrice", func(e *jx.Encoder) {
					e.Num(jx.Num(totals.TotalPrice.Round(2).String()))
				})
			})
		})
	})
	respondJSON(w, r, http.StatusOK, e)
}

func encodeLine(e *jx.Encoder, line cart.Line) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("productId", func(e *jx.Encoder) { e.Int64(line.ProductID) })
		e.Field("title", func(e *jx.Encoder) { e.Str(line.Title) })
		e.Field("price", func(e *jx.Encoder) { e.Num(jx.Num(line.Price.String())) })
		e.Field("stockCeiling", func(e *jx.Encoder) { e.Int(line.StockCeiling) })
		e.Field("quantity", func(e *jx.Encoder) { e.Int(line.Quantity) })
	})
}

// pathID parses the {id} path segment; a malformed id is a 400.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid product id")
		return 0, false
	}
	return id, true
}
