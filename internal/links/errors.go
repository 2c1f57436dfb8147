package links

import (
	"fmt"
	"unicode/utf8"

	"linkgateway/internal/registry"
	dErrors "linkgateway/pkg/domain-errors"
)

const (
	// maxMessageRaw bounds how much raw registry text goes into a message.
	maxMessageRaw = 200

	msgAPIError    = "API error."
	msgServerError = "Server error."
)

// upstreamFailure maps a non-2xx registry answer to an error carrying the
// registry's own status and message.
func upstreamFailure(resp *registry.Response) *dErrors.Error {
	return dErrors.New(dErrors.CodeUpstream, upstreamMessage(resp)).
		WithStatus(resp.Status).
		WithDebug("status", resp.Status).
		WithDebug("body", resp.Body.Diagnostic())
}

// upstreamMessage prefers the registry's "message", then "error", then a
// short excerpt of a non-JSON body.
func upstreamMessage(resp *registry.Response) string {
	if msg := resp.Body.Message(); msg != "" {
		return msg
	}
	if resp.Body.RawText != "" {
		return fmt.Sprintf("API error (%d). %s", resp.Status, clip(resp.Body.RawText, maxMessageRaw))
	}
	return msgAPIError
}

// unreadableAnswer reports a 2xx whose body could not be normalized. The
// registry's status is known but its answer is useless to the caller.
func unreadableAnswer(operation string, resp *registry.Response, cause error) *dErrors.Error {
	return dErrors.Wrap(cause, dErrors.CodeTransport, msgServerError).
		WithDebug("operation", operation).
		WithDebug("status", resp.Status).
		WithDebug("message", cause.Error()).
		WithDebug("body", resp.Body.Diagnostic())
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	s = s[:n]
	for len(s) > 0 && !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}
	return s
}
