package request

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkgateway/pkg/requestcontext"
)

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	t.Run("generates a uuid when absent", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		_, err := uuid.Parse(seen)
		require.NoError(t, err)
		assert.Equal(t, seen, rr.Header().Get(HeaderRequestID))
	})

	t.Run("reuses the inbound id", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(HeaderRequestID, "abc-123")
		h.ServeHTTP(rr, req)

		assert.Equal(t, "abc-123", seen)
		assert.Equal(t, "abc-123", rr.Header().Get(HeaderRequestID))
	})

	t.Run("replaces an oversized inbound id", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(HeaderRequestID, strings.Repeat("x", maxInboundRequestID+1))
		h.ServeHTTP(rr, req)

		_, err := uuid.Parse(seen)
		assert.NoError(t, err)
	})
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	var sawTime bool
	withClient := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := requestcontext.WithClientMetadata(r.Context(), "203.0.113.9", r.Header.Get("User-Agent"))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
	h := RequestID(withClient(Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawTime = r.Context().Value(requestcontext.ContextKeyRequestTime).(interface{ IsZero() bool })
		w.WriteHeader(http.StatusTeapot)
	}))))

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/query-links", nil)
	req.Header.Set("User-Agent", "linkcheck/1.0")
	h.ServeHTTP(rr, req)

	assert.True(t, sawTime, "request time should be set in context")
	out := buf.String()
	assert.Contains(t, out, "request completed")
	assert.Contains(t, out, "status=418")
	assert.Contains(t, out, "path=/query-links")
	assert.Contains(t, out, "client_ip=203.0.113.9")
	assert.Contains(t, out, "user_agent=linkcheck/1.0")
}

func TestRecovery(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := Recovery(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"success":false,"error":"Server error."}`, rr.Body.String())
}

func TestRecovery_LogsRequestID(t *testing.T) {
	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	chains := map[string]func(*slog.Logger) http.Handler{
		"inside request id": func(l *slog.Logger) http.Handler {
			return RequestID(Recovery(l)(panicking))
		},
		"outside request id": func(l *slog.Logger) http.Handler {
			return Recovery(l)(RequestID(panicking))
		},
	}
	for name, build := range chains {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			h := build(slog.New(slog.NewTextHandler(&buf, nil)))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(HeaderRequestID, "req-panic-1")
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusInternalServerError, rr.Code)
			assert.Contains(t, buf.String(), "panic recovered")
			assert.Contains(t, buf.String(), "request_id=req-panic-1")
		})
	}
}
