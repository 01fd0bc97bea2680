// Command catalog-dump fetches the product catalog and category list from
// the upstream API and writes them as a gzip-compressed JSON snapshot.
// Useful for seeding offline environments and for diffing upstream changes.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	pgzip "github.com/klauspost/pgzip"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/storefront/internal/catalog"
	"github.com/xenking/storefront/internal/fetch"
)

func main() {
	var (
		baseURL string
		limit   int
		timeout time.Duration
		out     string
	)

	flag.StringVar(&baseURL, "catalog-url", "https://dummyjson.com", "catalog API base URL")
	flag.IntVar(&limit, "limit", 20, "number of products to request")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "request timeout")
	flag.StringVar(&out, "out", "catalog.json.gz", "output file")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, baseURL, limit, timeout, out); err != nil {
		slog.Error("catalog dump failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("catalog dump completed", slog.String("out", out))
}

func run(ctx context.Context, baseURL string, limit int, timeout time.Duration, out string) error {
	client := fetch.NewClient(fetch.Config{
		BaseURL: baseURL,
		Limit:   limit,
		Timeout: timeout,
	})

	var (
		products   []catalog.Product
		categories []string
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = client.FetchCatalog(ctx)
		return errors.Wrap(err, "fetch catalog")
	})
	g.Go(func() error {
		var err error
		categories, err = client.FetchCategories(ctx)
		return errors.Wrap(err, "fetch categories")
	})
	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("fetched", slog.Int("products", len(products)), slog.Int("categories", len(categories)))

	return writeSnapshot(out, products, categories)
}

func writeSnapshot(out string, products []catalog.Product, categories []string) error {
	f, err := os.Create(out)
	if err != nil {
		return errors.Wrap(err, "create output")
	}
	defer f.Close()

	zw := pgzip.NewWriter(f)

	e := &jx.Encoder{}
	e.SetIdent(2)
	e.Obj(func(e *jx.Encoder) {
		e.Field("fetchedAt", func(e *jx.Encoder) {
			e.Str(time.Now().UTC().Format(time.RFC3339))
		})
		e.Field("categories", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, c := range categories {
					e.Str(c)
				}
			})
		})
		e.Field("products", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, p := range products {
					encodeProduct(e, p)
				}
			})
		})
	})

	if _, err := zw.Write(e.Bytes()); err != nil {
		return errors.Wrap(err, "write snapshot")
	}
	if err := zw.Close(); err != nil {
		return errors.Wrap(err, "flush gzip")
	}
	return errors.Wrap(f.Sync(), "sync output")
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
