package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"linkgateway/e2e/fakeregistry"
	"linkgateway/internal/links"
	"linkgateway/internal/links/handler"
	"linkgateway/internal/platform/config"
	"linkgateway/internal/platform/metrics"
	"linkgateway/internal/registry"
	httptransport "linkgateway/internal/transport/http"
	id "linkgateway/pkg/domain"
)

// Credentials every scenario authenticates with unless it says otherwise.
const (
	Username = "operator"
	Password = "correct:horse"
	Realm    = "Link Gateway"
)

// TestContext runs one gateway per scenario against a scripted registry.
type TestContext struct {
	upstream *fakeregistry.Server
	gateway  http.Handler

	authUser string
	authPass string
	authSet  bool

	lastStatus int
	lastHeader http.Header
	lastBody   []byte
}

// NewTestContext starts the fake registry. Start must be called before any
// request is sent.
func NewTestContext() *TestContext {
	return &TestContext{upstream: fakeregistry.Start()}
}

// Close stops the fake registry.
func (tc *TestContext) Close() {
	tc.upstream.Close()
}

// Start builds the gateway. An empty apiKey leaves the registry unconfigured.
func (tc *TestContext) Start(apiKey string, version id.APIVersion) {
	logger := slog.New(slog.DiscardHandler)
	m := metrics.New(prometheus.NewRegistry())
	cfg := config.Server{
		Auth:              config.BasicAuth{Username: Username, Password: Password, Realm: Realm},
		PublicPaths:       config.DefaultPublicPaths,
		PreferredLanguage: config.DefaultPreferredLanguage,
		Registry: config.Registry{
			BaseURL:        tc.upstream.BaseURL(),
			APIKey:         apiKey,
			DefaultVersion: version,
			Timeout:        5 * time.Second,
		},
	}

	client := registry.New(cfg.Registry.BaseURL, apiKey, cfg.Registry.Timeout, logger, registry.WithObserver(m))
	svc := links.New(client,
		links.WithLogger(logger),
		links.WithMetrics(m),
		links.WithDefaultVersion(version),
		links.WithPreferredLanguage(cfg.PreferredLanguage),
	)
	tc.gateway = httptransport.NewRouter(httptransport.Deps{
		Config:    cfg,
		Logger:    logger,
		Metrics:   m,
		Links:     handler.New(svc, logger),
		Readiness: client,
	})
	tc.SetCredentials(Username, Password)
}

// SetRegistryResponse scripts the next registry answers.
func (tc *TestContext) SetRegistryResponse(status int, body string) {
	tc.upstream.Respond(status, body)
}

// RegistryCalls returns the requests the registry has seen so far.
func (tc *TestContext) RegistryCalls() []fakeregistry.Call {
	return tc.upstream.Calls()
}

// SetCredentials changes the Basic-Auth pair sent with requests.
func (tc *TestContext) SetCredentials(username, password string) {
	tc.authUser, tc.authPass, tc.authSet = username, password, true
}

// ClearCredentials sends requests without an Authorization header.
func (tc *TestContext) ClearCredentials() {
	tc.authSet = false
}

// Send issues one request to the gateway and records the response.
func (tc *TestContext) Send(method, path, body string, headers map[string]string) error {
	if tc.gateway == nil {
		return fmt.Errorf("gateway not started")
	}
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if tc.authSet {
		req.SetBasicAuth(tc.authUser, tc.authPass)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rr := httptest.NewRecorder()
	tc.gateway.ServeHTTP(rr, req)
	tc.lastStatus = rr.Code
	tc.lastHeader = rr.Header()
	tc.lastBody = rr.Body.Bytes()
	return nil
}

// POST sends a JSON body.
func (tc *TestContext) POST(path string, body any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return tc.Send(http.MethodPost, path, string(encoded), nil)
}

// GET sends a request without a body.
func (tc *TestContext) GET(path string, headers map[string]string) error {
	return tc.Send(http.MethodGet, path, "", headers)
}

// GetLastStatusCode returns the status of the last response.
func (tc *TestContext) GetLastStatusCode() int {
	return tc.lastStatus
}

// GetLastHeader returns a header of the last response.
func (tc *TestContext) GetLastHeader(name string) string {
	return tc.lastHeader.Get(name)
}

// GetLastBody returns the body of the last response.
func (tc *TestContext) GetLastBody() []byte {
	return tc.lastBody
}

// GetResponseField reads a top-level field of the last JSON response.
func (tc *TestContext) GetResponseField(field string) (any, error) {
	var data map[string]any
	if err := json.Unmarshal(tc.lastBody, &data); err != nil {
		return nil, fmt.Errorf("response is not a JSON object: %w", err)
	}
	value, ok := data[field]
	if !ok {
		return nil, fmt.Errorf("field %q not found in response %s", field, tc.lastBody)
	}
	return value, nil
}
