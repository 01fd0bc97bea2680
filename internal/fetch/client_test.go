package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

const catalogBody = `{
	"products": [
		{"id": 1, "title": "Red Shirt", "category": "clothing", "price": 10, "stock": 2, "rating": 4.5},
		{"id": 2, "title": "Blue Mug", "category": "kitchen", "price": 5.25, "stock": 10, "tags": ["a","b"]}
	],
	"total": 2, "skip": 0, "limit": 20
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL, Limit: 20})
}

func TestFetchCatalog(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products", r.URL.Path)
		assert.Equal(t, "20", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(catalogBody))
	})

	products, err := c.FetchCatalog(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, int64(1), products[0].ID)
	assert.Equal(t, "Red Shirt", products[0].Title)
	assert.Equal(t, "clothing", products[0].Category)
	assert.True(t, products[0].Price.Equal(d("10")))
	assert.Equal(t, 2, products[0].Stock)

	// Fractional price survives decoding exactly.
	assert.True(t, products[1].Price.Equal(d("5.25")), "got %s", products[1].Price)
	assert.Equal(t, 10, products[1].Stock)
}

func TestFetchCatalog_UpstreamError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := c.FetchCatalog(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 500")
}

func TestFetchCatalog_MalformedBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: `<html>offline</html>`},
		{name: "truncated", body: `{"products": [{"id": 1,`},
		{name: "wrong field type", body: `{"products": [{"id": "one", "title": "x"}]}`},
		{name: "negative price", body: `{"products": [{"id": 1, "title": "x", "price": -3, "stock": 1}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.FetchCatalog(context.Background())
			assert.Error(t, err)
		})
	}
}

func TestFetchCatalog_ContextCancelled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(catalogBody))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.FetchCatalog(ctx)
	assert.Error(t, err)
}

func TestFetchCategories(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/categories", r.URL.Path)
		_, _ = w.Write([]byte(`["clothing","kitchen"]`))
	})

	categories, err := c.FetchCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"clothing", "kitchen"}, categories)
}
