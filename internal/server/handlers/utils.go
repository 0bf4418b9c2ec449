package handlers

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/anorak1709/research-usecase-generator/internal/foundation/errors"
	"github.com/anorak1709/research-usecase-generator/internal/logfields"
	"github.com/anorak1709/research-usecase-generator/internal/observability"
)

// wantsPretty reports whether the caller asked for indented JSON with
// ?pretty=1 or ?pretty=true.
func wantsPretty(r *http.Request) bool {
	p := r.URL.Query().Get("pretty")
	return p == "1" || p == "true"
}

// encodeJSON renders v with a trailing newline, indented when pretty is set.
func encodeJSON(v any, pretty bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// respond writes v as the JSON body of a response with status. The body is
// fully encoded before any header goes out, so an encode failure becomes a
// classified 500 naming what was being written instead of a truncated body.
func respond(w http.ResponseWriter, r *http.Request, adapter *errors.HTTPErrorAdapter, status int, v any, what string) {
	body, err := encodeJSON(v, wantsPretty(r))
	if err != nil {
		adapter.WriteErrorResponse(w, r,
			errors.WrapError(err, errors.CategoryInternal, "failed to encode "+what+" response").Build())
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		// Headers are gone; the client only sees a short body.
		observability.Logger(r.Context(), slog.Default()).Warn("response body write failed",
			slog.String("response", what), logfields.Error(err))
	}
}
