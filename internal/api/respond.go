package api

import (
	"io"
	"net/http"

	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

// maxRequestBytes caps request body reads; every request body here is a
// handful of fields.
const maxRequestBytes = 1 << 16

// respondJSON writes an encoded body with the given status.
func respondJSON(w http.ResponseWriter, r *http.Request, status int, e *jx.Encoder) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(e.Bytes()); err != nil {
		zctx.From(r.Context()).Debug("Writing response failed", zap.Error(err))
	}
}

// respondError writes the standard error body {code, message}.
func respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	e := &jx.Encoder{}
	e.Obj(func(e *jx.Encoder) {
		e.Field("code", func(e *jx.Encoder) { e.Int(status) })
		e.Field("message", func(e *jx.Encoder) { e.Str(message) })
	})
	respondJSON(w, r, status, e)
}

// readBody reads a bounded request body for decoding.
func readBody(r *http.Request) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r.Body, maxRequestBytes))
}
