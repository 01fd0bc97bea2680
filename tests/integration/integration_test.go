//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"testing"
	"time"

	tc "github.com/testcontainers/testcontainers-go/modules/compose"
	"github.com/testcontainers/testcontainers-go/wait"
)

var (
	baseURL    string
	httpClient *http.Client
)

// Response types — defined locally to keep tests truly black-box (no internal imports).

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

type productResponse struct {
	ID       int64   `json:"id"`
	Title    string  `json:"title"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`
}

type cartLineResponse struct {
	ProductID    int64   `json:"productId"`
	Title        string  `json:"title"`
	Price        float64 `json:"price"`
	StockCeiling int     `json:"stockCeiling"`
	Quantity     int     `json:"quantity"`
}

type cartTotalsResponse struct {
	ItemCount  int     `json:"itemCount"`
	TotalPrice float64 `json:"totalPrice"`
}

type cartResponse struct {
	Lines  []cartLineResponse `json:"lines"`
	Totals cartTotalsResponse `json:"totals"`
}

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func TestMain(m *testing.M) {
	os.Exit(testMain(m))
}

func testMain(m *testing.M) int {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	dc, err := tc.NewDockerCompose("docker-compose.test.yml")
	if err != nil {
		log.Fatalf("compose init: %v", err)
	}

	// Start the catalog mock, postgres, and the API; wait until the API
	// health check passes.
	err = dc.
		WaitForService("api", wait.ForHTTP("/readyz").WithPort("8080/tcp")).
		Up(ctx, tc.Wait(true))
	if err != nil {
		log.Fatalf("compose up: %v", err)
	}

	apiContainer, err := dc.ServiceContainer(ctx, "api")
	if err != nil {
		log.Fatalf("api container: %v", err)
	}

	host, err := apiContainer.Host(ctx)
	if err != nil {
		log.Fatalf("host: %v", err)
	}

	mappedPort, err := apiContainer.MappedPort(ctx, "8080/tcp")
	if err != nil {
		log.Fatalf("mapped port: %v", err)
	}

	baseURL = fmt.Sprintf("http://%s:%s", host, mappedPort.Port())
	httpClient = &http.Client{Timeout: 10 * time.Second}
	log.Printf("API available at %s", baseURL)

	// The catalog fetch happens once before the server starts taking
	// traffic; this poll guards against a slow first upstream round trip.
	if err := waitForCatalog(ctx); err != nil {
		log.Fatalf("wait for catalog: %v", err)
	}

	result := m.Run()

	// Stop the API container gracefully. The compose file sets stop_signal
	// to SIGINT because app.Run handles SIGINT for graceful shutdown.
	stopTimeout := 30 * time.Second
	if err := apiContainer.Stop(ctx, &stopTimeout); err != nil {
		log.Printf("stop api container: %v", err)
	}

	if err := dc.Down(context.Background(), tc.RemoveOrphans(true)); err != nil {
		log.Printf("compose down: %v", err)
	}

	return result
}

// waitForCatalog polls the product list until the background fetch completes
// and all 6 mock products appear.
func waitForCatalog(ctx context.Context) error {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	var lastErr string
	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timed out waiting for catalog (last: %s): %w", lastErr, ctx.Err())
		case <-ticker.C:
			resp, err := httpClient.Get(baseURL + "/api/products")
			if err != nil {
				lastErr = err.Error()
				continue
			}

			if resp.StatusCode != http.StatusOK {
				lastErr = fmt.Sprintf("status %d", resp.StatusCode)
				resp.Body.Close()
				continue
			}

			var products []productResponse
			if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
				lastErr = fmt.Sprintf("decode: %v", err)
				resp.Body.Close()
				continue
			}
			resp.Body.Close()

			if len(products) == 6 {
				log.Printf("catalog ready: %d products", len(products))
				return nil
			}
			lastErr = fmt.Sprintf("got %d products, want 6", len(products))
		}
	}
}

// resetSession puts the shared session back into a known state: empty cart,
// no search, category "all", no sort.
func resetSession(t *testing.T) {
	t.Helper()

	resp := doPut(t, "/api/filter", map[string]any{
		"search":   "",
		"category": "all",
		"sort":     "none",
	})
	resp.Body.Close()

	resp = doGet(t, "/api/cart")
	c := decodeJSON[cartResponse](t, resp)
	resp.Body.Close()

	for _, line := range c.Lines {
		r := doDelete(t, fmt.Sprintf("/api/cart/items/%d", line.ProductID))
		r.Body.Close()
	}
}

// HTTP helpers.

func doGet(t *testing.T, path string) *http.Response {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, baseURL+path, nil)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}

	return resp
}

func doJSON(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()

	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, baseURL+path, bytes.NewReader(data))
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}

	return resp
}

func doPost(t *testing.T, path string, body any) *http.Response {
	t.Helper()
	return doJSON(t, http.MethodPost, path, body)
}

func doPut(t *testing.T, path string, body any) *http.Response {
	t.Helper()
	return doJSON(t, http.MethodPut, path, body)
}

func doDelete(t *testing.T, path string) *http.Response {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodDelete, baseURL+path, nil)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE %s: %v", path, err)
	}

	return resp
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	return v
}
