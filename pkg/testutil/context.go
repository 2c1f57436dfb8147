package testutil

import (
	"net/http"

	id "linkgateway/pkg/domain"
	"linkgateway/pkg/requestcontext"
)

// WithRequestID adds a request ID to the request context.
// This simulates what the request-id middleware would do.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}

// WithAPIVersion pins the registry revision on the request context, as the
// version middleware does for routes under /v3.1.
func WithAPIVersion(req *http.Request, version id.APIVersion) *http.Request {
	return req.WithContext(requestcontext.WithAPIVersion(req.Context(), version))
}
