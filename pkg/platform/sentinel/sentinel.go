package sentinel

import "errors"

// Sentinel errors for facts about registry answers. The registry client and
// the normalizer return these (optionally wrapped) so the links service can
// translate them into domain errors.
//
// These describe what came back, not what the caller sent:
// - ErrEmptyBody: the registry answered with no body at all
// - ErrMalformedBody: the body was not valid JSON
// - ErrUnexpectedShape: valid JSON that matches no known response layout
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrEmptyBody       = errors.New("empty response body")
	ErrMalformedBody   = errors.New("response body is not valid JSON")
	ErrUnexpectedShape = errors.New("unexpected response shape")
)
