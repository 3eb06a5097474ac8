package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/comixd/comixd"
)

// WriteText writes a plain-text response body.
func WriteText(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	if _, err := w.Write([]byte(body)); err != nil {
		slog.Error("failed to write response", "err", err)
	}
}

// WriteListing serializes a listing in the AirComix wire format: one entry
// name per line, newline separated, no trailing newline. The format must be
// preserved byte-for-byte; the client parses it directly.
func WriteListing(w http.ResponseWriter, entries []comixd.Entry) {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	WriteText(w, http.StatusOK, strings.Join(names, "\n"))
}

// HandleError maps a resolver error onto the protocol's status codes with a
// terse body. Path-validation failures and permission failures share one
// 403 body so responses cannot be used as an oracle on the filesystem
// layout. Detail is appended only in debug mode.
func HandleError(w http.ResponseWriter, err error, debug bool) {
	code := http.StatusInternalServerError
	body := "internal server error"

	switch {
	case errors.Is(err, comixd.ErrNotFound):
		code, body = http.StatusNotFound, "not found"
	case errors.Is(err, comixd.ErrInvalidPath), errors.Is(err, comixd.ErrAccessDenied):
		code, body = http.StatusForbidden, "access denied"
	case errors.Is(err, comixd.ErrArchive):
		body = "archive error"
	}

	if code >= http.StatusInternalServerError {
		slog.Error("request failed", "err", err)
	} else {
		slog.Debug("request rejected", "err", err)
	}

	if debug {
		body = body + ": " + err.Error()
	}
	WriteText(w, code, body)
}
