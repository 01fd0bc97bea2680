package health

import (
	"context"
	"os"
	"path/filepath"
	"runtime"

	"github.com/go-faster/errors"
)

// GoroutineCountCheck reports unhealthy when the goroutine count exceeds
// threshold. Useful as a liveness probe to catch goroutine leaks.
func GoroutineCountCheck(threshold int) CheckFunc {
	return func(_ context.Context) error {
		if count := runtime.NumGoroutine(); count > threshold {
			return errors.Errorf("goroutine count %d exceeds threshold %d", count, threshold)
		}
		return nil
	}
}

// DirWritableCheck reports unhealthy when dir cannot be written to. Useful
// as a readiness probe for file-backed snapshot storage.
func DirWritableCheck(dir string) CheckFunc {
	return func(_ context.Context) error {
		f, err := os.CreateTemp(dir, ".healthcheck-*")
		if err != nil {
			return errors.Wrapf(err, "write to %s", dir)
		}
		name := f.Name()
		if err := f.Close(); err != nil {
			return errors.Wrapf(err, "close probe file in %s", dir)
		}
		if err := os.Remove(name); err != nil {
			return errors.Wrapf(err, "remove probe file %s", filepath.Base(name))
		}
		return nil
	}
}

// PingCheck adapts a Ping-style function (database pools, remote clients)
// into a CheckFunc; the prober applies the per-observation deadline.
func PingCheck(ping func(ctx context.Context) error) CheckFunc {
	return func(ctx context.Context) error {
		if err := ping(ctx); err != nil {
			return errors.Wrap(err, "ping")
		}
		return nil
	}
}
