// Package httputil holds the JSON response and request helpers shared by handlers.
package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	dErrors "linkgateway/pkg/domain-errors"
)

// maxBodyBytes bounds inbound request bodies.
const maxBodyBytes = 1 << 20

// ErrorResponse is the failure envelope every handler writes.
type ErrorResponse struct {
	Success bool           `json:"success"`
	Error   string         `json:"error"`
	Debug   map[string]any `json:"debug,omitempty"`
}

// Validatable is implemented by request types that validate and normalize
// themselves after decoding.
type Validatable interface {
	Validate() error
}

// WriteJSON writes v as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError renders err as the failure envelope. Coded errors keep their
// message and debug context; anything else becomes an opaque 500.
func WriteError(w http.ResponseWriter, err error) {
	de, ok := dErrors.From(err)
	if !ok {
		WriteJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Server error."})
		return
	}

	resp := ErrorResponse{Error: de.Message, Debug: de.Debug}
	if resp.Error == "" {
		resp.Error = "Server error."
	}
	WriteJSON(w, de.HTTPStatus(), resp)
}

// DecodeAndPrepare decodes the request body into T and runs its Validate
// method. An empty body decodes to the zero value so that validation, not
// the decoder, reports missing fields. On failure the error response has
// already been written and ok is false.
func DecodeAndPrepare[T any, PT interface {
	*T
	Validatable
}](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (*T, bool) {
	req := PT(new(T))

	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(req); err != nil && !errors.Is(err, io.EOF) {
		logger.WarnContext(ctx, "invalid request body",
			"request_id", requestID,
			"error", err.Error(),
		)
		WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid request body"))
		return nil, false
	}

	if err := req.Validate(); err != nil {
		logger.WarnContext(ctx, "request validation failed",
			"request_id", requestID,
			"error", err.Error(),
		)
		WriteError(w, err)
		return nil, false
	}

	return (*T)(req), true
}

// DecodeRaw reads the request body for handlers that forward it verbatim.
// The body must be valid JSON or empty; an empty body yields nil. On failure
// the error response has already been written and ok is false.
func DecodeRaw(w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (json.RawMessage, bool) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err == nil && len(bytes.TrimSpace(raw)) > 0 && !json.Valid(raw) {
		err = errors.New("body is not valid JSON")
	}
	if err != nil {
		logger.WarnContext(ctx, "invalid request body",
			"request_id", requestID,
			"error", err.Error(),
		)
		WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid request body"))
		return nil, false
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, true
	}
	return json.RawMessage(raw), true
}
