package version

import (
	"log/slog"
	"net/http"

	id "linkgateway/pkg/domain"
	"linkgateway/pkg/requestcontext"
)

// HeaderVersion lets a caller ask for a specific registry revision on the
// unversioned routes.
const HeaderVersion = "X-Registry-Version"

// AllowHeaderOverride creates middleware that replaces the route's registry
// version with the one named in the X-Registry-Version header, when present.
// Unknown versions are rejected with 400 rather than silently falling back.
//
// This middleware must run AFTER ExtractVersion.
func AllowHeaderOverride(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(HeaderVersion)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			requested, err := id.ParseAPIVersion(raw)
			if err != nil {
				logger.WarnContext(ctx, "unsupported registry version requested",
					"requested", raw,
					"route_version", requestcontext.APIVersion(ctx).String(),
					"request_id", requestcontext.RequestID(ctx),
				)
				writeVersionError(w, "unsupported registry version: "+raw)
				return
			}

			ctx = requestcontext.WithAPIVersion(ctx, requested)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
