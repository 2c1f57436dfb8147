package registry

import (
	"context"
	"errors"
	"net"

	dErrors "linkgateway/pkg/domain-errors"
)

// FailureCategory names why a registry call produced no response.
type FailureCategory string

const (
	// FailureTimeout: the registry took longer than the client timeout or the
	// inbound request deadline.
	FailureTimeout FailureCategory = "timeout"

	// FailureCanceled: the caller went away before the registry answered.
	FailureCanceled FailureCategory = "canceled"

	// FailureUnreachable: DNS, dial or TLS failure.
	FailureUnreachable FailureCategory = "unreachable"

	// FailureBadRequest: the outbound request could not be built.
	FailureBadRequest FailureCategory = "bad_request"

	// FailureReadBody: the registry answered but the body could not be read.
	FailureReadBody FailureCategory = "read_body"
)

// classify maps a transport error to a FailureCategory.
func classify(err error) FailureCategory {
	if errors.Is(err, context.Canceled) {
		return FailureCanceled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return FailureTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return FailureTimeout
	}
	return FailureUnreachable
}

// newTransportError wraps a failure that happened before a registry status
// was known. The message is the gateway's generic server error; the category
// goes into the debug context.
func newTransportError(operation string, category FailureCategory, err error) *dErrors.Error {
	return dErrors.Wrap(err, dErrors.CodeTransport, "Server error.").
		WithDebug("operation", operation).
		WithDebug("category", string(category)).
		WithDebug("message", err.Error())
}

// ErrMissingAPIKey is returned when the registry key is not configured. No
// request is sent in that case.
func ErrMissingAPIKey() *dErrors.Error {
	return dErrors.New(dErrors.CodeConfiguration, "API key not configured on server.")
}
