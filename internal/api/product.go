package api

import (
	"net/http"

	"github.com/go-faster/jx"

	"github.com/xenking/storefront/internal/catalog"
)

// catalogUnavailableMessage is the single static message shown when the
// startup fetch failed. No partial catalog is ever served.
const catalogUnavailableMessage = "catalog unavailable, please try again later"

// listProducts returns the products visible under the current filter state.
func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	if !h.session.CatalogAvailable() {
		respondError(w, r, http.StatusServiceUnavailable, catalogUnavailableMessage)
		return
	}

	products := h.session.VisibleProducts()

	e := &jx.Encoder{}
	e.Arr(func(e *jx.Encoder) {
		for _, p := range products {
			encodeProduct(e, p)
		}
	})
	respondJSON(w, r, http.StatusOK, e)
}

// listCategories returns the category selector values, "all" first.
func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	if !h.session.CatalogAvailable() {
		respondError(w, r, http.StatusServiceUnavailable, catalogUnavailableMessage)
		return
	}

	e := &jx.Encoder{}
	e.Arr(func(e *jx.Encoder) {
		for _, c := range h.session.Categories() {
			e.Str(c)
		}
	})
	respondJSON(w, r, http.StatusOK, e)
}

// updateFilter applies the fields present in the request body. Search text
// goes through the session's debouncer; category and sort apply immediately.
func (h *Handler) updateFilter(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "reading request body failed")
		return
	}

	d := jx.DecodeBytes(body)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "search":
			s, err := d.Str()
			if err != nil {
				return err
			}
			h.session.SetSearchInput(s)
		case "category":
			c, err := d.Str()
			if err != nil {
				return err
			}
			h.session.SetCategory(c)
		case "sort":
			s, err := d.Str()
			if err != nil {
				return err
			}
			h.session.SetSort(catalog.ParseSortOrder(s))
		default:
			return d.Skip()
		}
		return nil
	}); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid filter body")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func encodeProduct(e *jx.Encoder, p catalog.Product) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Int64(p.ID) })
		e.Field("title", func(e *jx.Encoder) { e.Str(p.Title) })
		e.Field("category", func(e *jx.Encoder) { e.Str(p.Category) })
		e.Field("price", func(e *jx.Encoder) { e.Num(jx.Num(p.Price.String())) })
		e.Field("stock", func(e *jx.Encoder) { e.Int(p.Stock) })
	})
}
