// Package version selects which registry protocol revision a request is
// served against.
package version

import (
	"net/http"

	id "linkgateway/pkg/domain"
	dErrors "linkgateway/pkg/domain-errors"
	"linkgateway/pkg/platform/httputil"
	"linkgateway/pkg/requestcontext"
)

// ExtractVersion creates middleware that pins the registry version for every
// request routed through it.
//
// Usage:
//
//	r.Route("/v3.1", func(legacy chi.Router) {
//	    legacy.Use(version.ExtractVersion(id.APIVersionV31))
//	    // ... routes
//	})
func ExtractVersion(version id.APIVersion) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := requestcontext.WithAPIVersion(r.Context(), version)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// writeVersionError writes the standard failure envelope for version errors.
func writeVersionError(w http.ResponseWriter, message string) {
	httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, message))
}
