// Package fetch implements the catalog fetch client: a one-shot HTTP request
// against the remote product API, decoded into catalog products. Failures
// are surfaced as-is; the caller decides what an unavailable catalog means.
// Nothing here retries.
package fetch

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/xenking/storefront/internal/catalog"
)

// maxResponseBytes caps the catalog response body read.
const maxResponseBytes = 8 << 20

// Config holds the fetch client settings.
type Config struct {
	// BaseURL is the API root, e.g. https://dummyjson.com.
	BaseURL string
	// Limit is the fixed result-count limit sent with the catalog request.
	Limit int
	// Timeout bounds a single request. Zero means 10s.
	Timeout time.Duration
}

// Client fetches the product catalog over HTTP. It implements
// catalog.Source.
type Client struct {
	http    *http.Client
	baseURL string
	limit   int
}

var _ catalog.Source = (*Client)(nil)

// NewClient creates a Client with an OpenTelemetry-instrumented transport.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		baseURL: cfg.BaseURL,
		limit:   cfg.Limit,
	}
}

// FetchCatalog requests the full product list, bounded by the configured
// limit, and decodes it into catalog products.
func (c *Client) FetchCatalog(ctx context.Context) ([]catalog.Product, error) {
	u := c.baseURL + "/products?limit=" + strconv.Itoa(c.limit)

	body, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}

	products, err := decodeCatalog(body)
	if err != nil {
		return nil, errors.Wrap(err, "decode catalog")
	}
	return products, nil
}

// FetchCategories requests the list of known category values.
func (c *Client) FetchCategories(ctx context.Context) ([]string, error) {
	body, err := c.get(ctx, c.baseURL+"/products/categories")
	if err != nil {
		return nil, err
	}

	var out []string
	d := jx.DecodeBytes(body)
	if err := d.Arr(func(d *jx.Decoder) error {
		s, err := d.Str()
		if err != nil {
			return err
		}
		out = append(out, s)
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "decode categories")
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	if _, err := url.Parse(u); err != nil {
		return nil, errors.Wrap(err, "parse url")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "request catalog")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("catalog api: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, errors.Wrap(err, "read response")
	}
	return body, nil
}

// decodeCatalog parses a {"products": [...]} envelope. Unknown product
// fields are skipped so upstream schema additions don't break the session.
func decodeCatalog(data []byte) ([]catalog.Product, error) {
	var products []catalog.Product

	d := jx.DecodeBytes(data)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		if key != "products" {
			return d.Skip()
		}
		return d.Arr(func(d *jx.Decoder) error {
			p, err := decodeProduct(d)
			if err != nil {
				return err
			}
			products = append(products, p)
			return nil
		})
	}); err != nil {
		return nil, err
	}

	return products, nil
}

func decodeProduct(d *jx.Decoder) (catalog.Product, error) {
	var p catalog.Product
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "id":
			id, err := d.Int64()
			if err != nil {
				return errors.Wrap(err, "id")
			}
			p.ID = id
		case "title":
			title, err := d.Str()
			if err != nil {
				return errors.Wrap(err, "title")
			}
			p.Title = title
		case "category":
			category, err := d.Str()
			if err != nil {
				return errors.Wrap(err, "category")
			}
			p.Category = category
		case "price":
			num, err := d.Num()
			if err != nil {
				return errors.Wrap(err, "price")
			}
			price, err := decimal.NewFromString(num.String())
			if err != nil {
				return errors.Wrap(err, "parse price")
			}
			if price.IsNegative() {
				return errors.Errorf("negative price %s", price)
			}
			p.Price = price
		case "stock":
			stock, err := d.Int()
			if err != nil {
				return errors.Wrap(err, "stock")
			}
			if stock < 0 {
				return errors.Errorf("negative stock %d", stock)
			}
			p.Stock = stock
		default:
			return d.Skip()
		}
		return nil
	})
	return p, err
}
