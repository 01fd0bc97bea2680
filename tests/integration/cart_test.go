//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestCart_StartsEmpty(t *testing.T) {
	resetSession(t)

	resp := doGet(t, "/api/cart")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	c := decodeJSON[cartResponse](t, resp)
	if len(c.Lines) != 0 {
		t.Fatalf("expected empty cart, got %d lines", len(c.Lines))
	}
	if c.Totals.ItemCount != 0 {
		t.Errorf("item count: got %d, want 0", c.Totals.ItemCount)
	}
}

func TestCart_AddItem(t *testing.T) {
	resetSession(t)

	resp := doPost(t, "/api/cart/items", map[string]any{"productId": 2})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	c := decodeJSON[cartResponse](t, resp)
	if len(c.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(c.Lines))
	}
	line := c.Lines[0]
	if line.ProductID != 2 || line.Title != "Blue Jeans" || line.Quantity != 1 {
		t.Errorf("unexpected line: %+v", line)
	}
	if c.Totals.TotalPrice != 49.5 {
		t.Errorf("total: got %v, want 49.5", c.Totals.TotalPrice)
	}
}

func TestCart_StockCeiling(t *testing.T) {
	resetSession(t)

	// Red Shirt has stock 2: the third add is a silent no-op.
	var c cartResponse
	for range 3 {
		resp := doPost(t, "/api/cart/items", map[string]any{"productId": 1})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		c = decodeJSON[cartResponse](t, resp)
		resp.Body.Close()
	}

	if len(c.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(c.Lines))
	}
	if c.Lines[0].Quantity != 2 {
		t.Errorf("quantity: got %d, want 2 (stock ceiling)", c.Lines[0].Quantity)
	}
	if c.Lines[0].StockCeiling != 2 {
		t.Errorf("stock ceiling: got %d, want 2", c.Lines[0].StockCeiling)
	}
}

func TestCart_AddOutOfStock(t *testing.T) {
	resetSession(t)

	// Chef Knife has stock 0 and can never enter the cart.
	resp := doPost(t, "/api/cart/items", map[string]any{"productId": 4})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	c := decodeJSON[cartResponse](t, resp)
	if len(c.Lines) != 0 {
		t.Fatalf("expected empty cart, got %d lines", len(c.Lines))
	}
}

func TestCart_SetQuantity(t *testing.T) {
	resetSession(t)

	resp := doPost(t, "/api/cart/items", map[string]any{"productId": 2})
	resp.Body.Close()

	resp = doPut(t, "/api/cart/items/2", map[string]any{"quantity": 5})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	c := decodeJSON[cartResponse](t, resp)
	if c.Lines[0].Quantity != 5 {
		t.Errorf("quantity: got %d, want 5", c.Lines[0].Quantity)
	}
	if c.Totals.ItemCount != 5 {
		t.Errorf("item count: got %d, want 5", c.Totals.ItemCount)
	}
	if c.Totals.TotalPrice != 247.5 {
		t.Errorf("total: got %v, want 247.5", c.Totals.TotalPrice)
	}
}

func TestCart_SetQuantityAboveCeilingIgnored(t *testing.T) {
	resetSession(t)

	resp := doPost(t, "/api/cart/items", map[string]any{"productId": 1})
	resp.Body.Close()

	resp = doPut(t, "/api/cart/items/1", map[string]any{"quantity": 10})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	c := decodeJSON[cartResponse](t, resp)
	if c.Lines[0].Quantity != 1 {
		t.Errorf("quantity: got %d, want 1 (unchanged)", c.Lines[0].Quantity)
	}
}

func TestCart_RemoveItem(t *testing.T) {
	resetSession(t)

	resp := doPost(t, "/api/cart/items", map[string]any{"productId": 2})
	resp.Body.Close()
	resp = doPost(t, "/api/cart/items", map[string]any{"productId": 5})
	resp.Body.Close()

	resp = doDelete(t, "/api/cart/items/2")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	c := decodeJSON[cartResponse](t, resp)
	if len(c.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(c.Lines))
	}
	if c.Lines[0].ProductID != 5 {
		t.Errorf("remaining product: got %d, want 5", c.Lines[0].ProductID)
	}
}

func TestCart_AddMissingProductID(t *testing.T) {
	resp := doPost(t, "/api/cart/items", map[string]any{})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	errResp := decodeJSON[errorResponse](t, resp)
	if errResp.Code != 400 {
		t.Errorf("error code: got %d, want 400", errResp.Code)
	}
}

func TestCart_InvalidPathID(t *testing.T) {
	resp := doDelete(t, "/api/cart/items/not-a-number")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}
