// Package httptransport assembles the gateway's HTTP surface: middleware
// chain, auth gate, static assets, metrics, and the versioned link routes.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"linkgateway/internal/links/handler"
	"linkgateway/internal/platform/config"
	"linkgateway/internal/platform/metrics"
	id "linkgateway/pkg/domain"
	dErrors "linkgateway/pkg/domain-errors"
	"linkgateway/pkg/platform/httputil"
	"linkgateway/pkg/platform/middleware/basicauth"
	"linkgateway/pkg/platform/middleware/metadata"
	"linkgateway/pkg/platform/middleware/request"
	"linkgateway/pkg/platform/middleware/version"
	pstrings "linkgateway/pkg/platform/strings"
)

// Readiness reports whether the registry client can authenticate.
type Readiness interface {
	APIKeyConfigured() bool
}

// Deps are the collaborators the router wires together.
type Deps struct {
	Config    config.Server
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
	Gatherer  prometheus.Gatherer
	Links     *handler.Handler
	Readiness Readiness
}

// HealthResponse is served on /healthz. The API key itself is never exposed.
type HealthResponse struct {
	Success          bool   `json:"success"`
	Status           string `json:"status"`
	APIKeyConfigured bool   `json:"apiKeyConfigured"`
	RegistryVersion  string `json:"registryVersion"`
}

// NewRouter wires all gateway endpoints. Every route except the static asset
// prefixes sits behind the Basic-Auth gate.
func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	r := chi.NewRouter()

	r.Use(request.RequestID)
	r.Use(request.Recovery(d.Logger))
	r.Use(metadata.ClientMetadata)
	r.Use(request.Logger(d.Logger))

	gateOpts := []basicauth.Option{basicauth.WithPublicPaths(cfg.PublicPaths...)}
	if d.Metrics != nil {
		gateOpts = append(gateOpts, basicauth.WithDenialRecorder(d.Metrics))
	}
	r.Use(basicauth.RequireBasicAuth(basicauth.Credentials{
		Username: cfg.Auth.Username,
		Password: cfg.Auth.Password,
		Realm:    cfg.Auth.Realm,
	}, d.Logger, gateOpts...))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "Not found."))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusMethodNotAllowed, httputil.ErrorResponse{Error: "Method not allowed."})
	})

	if cfg.StaticDir != "" {
		mountStatic(r, cfg.StaticDir, cfg.PublicPaths)
	}

	if d.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}
	r.Get("/healthz", healthHandler(d.Readiness, cfg.Registry.DefaultVersion))

	r.Group(func(r chi.Router) {
		r.Use(version.ExtractVersion(cfg.Registry.DefaultVersion))
		r.Use(version.AllowHeaderOverride(d.Logger))
		d.Links.Register(r)
	})

	r.Route("/"+id.APIVersionV31.String(), func(r chi.Router) {
		r.Use(version.ExtractVersion(id.APIVersionV31))
		d.Links.Register(r)
	})

	return r
}

// mountStatic serves files from dir under each public prefix. Paths keep
// their prefix, so /assets/app.js is read from <dir>/assets/app.js.
func mountStatic(r chi.Router, dir string, prefixes []string) {
	files := http.FileServer(http.Dir(dir))
	for _, p := range pstrings.NormalizePathPrefixes(prefixes) {
		r.Get(p, files.ServeHTTP)
		r.Head(p, files.ServeHTTP)
		r.Get(p+"/*", files.ServeHTTP)
		r.Head(p+"/*", files.ServeHTTP)
	}
}

func healthHandler(ready Readiness, v id.APIVersion) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		configured := ready != nil && ready.APIKeyConfigured()
		status := "ok"
		if !configured {
			status = "degraded"
		}
		httputil.WriteJSON(w, http.StatusOK, HealthResponse{
			Success:          true,
			Status:           status,
			APIKeyConfigured: configured,
			RegistryVersion:  v.String(),
		})
	}
}
