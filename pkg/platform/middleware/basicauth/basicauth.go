// Package basicauth gates every route behind a single shared HTTP Basic-Auth
// credential pair. The decision is re-derived on every request; there is no
// session state.
package basicauth

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"linkgateway/pkg/platform/middleware/request"
	pstrings "linkgateway/pkg/platform/strings"
	"linkgateway/pkg/requestcontext"
)

// DefaultRealm is used when no realm is configured.
const DefaultRealm = "Protected"

// Denial reasons, used for logging and metrics labels.
const (
	ReasonMissingHeader      = "missing_header"
	ReasonWrongScheme        = "wrong_scheme"
	ReasonMalformedPayload   = "malformed_payload"
	ReasonInvalidCredentials = "invalid_credentials"
)

// Credentials is the immutable credential pair the gate compares against.
type Credentials struct {
	Username string
	Password string
	Realm    string
}

// DenialRecorder receives one call per rejected request.
type DenialRecorder interface {
	RecordAuthDenial(reason string)
}

// Gate holds the configuration of the auth middleware.
type Gate struct {
	creds       Credentials
	publicPaths []string
	logger      *slog.Logger
	recorder    DenialRecorder
}

// Option configures a Gate.
type Option func(*Gate)

// WithPublicPaths exempts requests whose path starts with one of the given
// prefixes (static assets). They are passed through without inspection.
func WithPublicPaths(prefixes ...string) Option {
	return func(g *Gate) {
		g.publicPaths = pstrings.NormalizePathPrefixes(append(g.publicPaths, prefixes...))
	}
}

// WithDenialRecorder reports each denial to r.
func WithDenialRecorder(r DenialRecorder) Option {
	return func(g *Gate) {
		g.recorder = r
	}
}

// New builds a Gate for the given credential pair.
func New(creds Credentials, logger *slog.Logger, opts ...Option) *Gate {
	if creds.Realm == "" {
		creds.Realm = DefaultRealm
	}
	g := &Gate{creds: creds, logger: logger}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// RequireBasicAuth is a convenience wrapper around New(...).Middleware.
func RequireBasicAuth(creds Credentials, logger *slog.Logger, opts ...Option) func(http.Handler) http.Handler {
	return New(creds, logger, opts...).Middleware
}

// IsPublic reports whether path bypasses authentication. A prefix matches
// itself and anything below it, never a sibling ("/static" does not cover
// "/staticfiles").
func (g *Gate) IsPublic(path string) bool {
	for _, p := range g.publicPaths {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

// Check decides whether an Authorization header value grants access.
// It returns "" when access is allowed, otherwise the denial reason.
func (g *Gate) Check(header string) string {
	if header == "" {
		return ReasonMissingHeader
	}

	scheme, encoded, ok := strings.Cut(header, " ")
	if !ok || scheme != "Basic" {
		return ReasonWrongScheme
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return ReasonMalformedPayload
	}

	// Split on the first colon only: passwords may contain ':'.
	user, pass, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return ReasonMalformedPayload
	}

	// Evaluate both halves before combining so timing doesn't reveal which one failed.
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(g.creds.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(g.creds.Password)) == 1
	if !userOK || !passOK {
		return ReasonInvalidCredentials
	}
	return ""
}

// Middleware returns the auth gate as chi-compatible middleware. Allowed
// requests reach next exactly as they arrived.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if g.IsPublic(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		reason := g.Check(r.Header.Get("Authorization"))
		if reason == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		g.logger.WarnContext(ctx, "unauthorized access",
			"reason", reason,
			"path", r.URL.Path,
			"client_ip", requestcontext.ClientIP(ctx),
			"request_id", request.GetRequestID(ctx),
		)
		if g.recorder != nil {
			g.recorder.RecordAuthDenial(reason)
		}
		g.challenge(w, reason)
	})
}

func (g *Gate) challenge(w http.ResponseWriter, reason string) {
	message := "Authentication required"
	if reason == ReasonInvalidCredentials || reason == ReasonMalformedPayload {
		message = "Invalid credentials"
	}

	realm := strings.ReplaceAll(g.creds.Realm, `"`, `'`)
	w.Header().Set("WWW-Authenticate", fmt.Sprintf(`Basic realm="%s"`, realm))
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(message))
}
