package version

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	id "linkgateway/pkg/domain"
	"linkgateway/pkg/requestcontext"
)

func captureVersion(seen *id.APIVersion) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*seen = requestcontext.APIVersion(r.Context())
	})
}

func TestExtractVersion(t *testing.T) {
	var seen id.APIVersion
	h := ExtractVersion(id.APIVersionV31)(captureVersion(&seen))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, id.APIVersionV31, seen)
}

func TestAllowHeaderOverride(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	var seen id.APIVersion
	h := ExtractVersion(id.APIVersionV32)(AllowHeaderOverride(logger)(captureVersion(&seen)))

	t.Run("no header keeps route version", func(t *testing.T) {
		seen = ""
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, id.APIVersionV32, seen)
	})

	t.Run("header selects legacy", func(t *testing.T) {
		seen = ""
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(HeaderVersion, "3.1")
		h.ServeHTTP(httptest.NewRecorder(), req)
		assert.Equal(t, id.APIVersionV31, seen)
	})

	t.Run("unknown version is rejected", func(t *testing.T) {
		seen = ""
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(HeaderVersion, "v9")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Empty(t, seen)
		assert.JSONEq(t, `{"success":false,"error":"unsupported registry version: v9"}`, rr.Body.String())
	})
}
