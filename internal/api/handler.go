// Package api exposes the storefront session over HTTP: catalog views and
// the category selector for rendering, filter updates, and the cart intents.
// Handlers translate wire requests into session operations; all business
// rules live in the catalog and cart packages.
package api

import (
	"net/http"

	"github.com/xenking/storefront/internal/session"
)

// Handler serves the storefront API over a single live session.
type Handler struct {
	session *session.Session
}

// NewHandler constructs a Handler over the given session.
func NewHandler(s *session.Session) *Handler {
	return &Handler{session: s}
}

// Register attaches all API routes to the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/products", h.listProducts)
	mux.HandleFunc("GET /api/categories", h.listCategories)
	mux.HandleFunc("PUT /api/filter", h.updateFilter)

	mux.HandleFunc("GET /api/cart", h.getCart)
	mux.HandleFunc("POST /api/cart/items", h.addCartItem)
	mux.HandleFunc("PUT /api/cart/items/{id}", h.setCartItemQuantity)
	mux.HandleFunc("DELETE /api/cart/items/{id}", h.removeCartItem)
}
