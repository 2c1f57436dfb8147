package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"linkgateway/pkg/platform/sentinel"
)

// maxRawText bounds how much of a non-JSON body is kept for diagnostics.
const maxRawText = 500

// ErrEmptyBody is reported by Body.Decode when the registry sent nothing.
var ErrEmptyBody = fmt.Errorf("registry: %w", sentinel.ErrEmptyBody)

var emptyObject = json.RawMessage(`{}`)

// Body is the outcome of decoding a registry response body. Exactly one of
// three states holds:
//
//   - JSON was parsed: ParseErr is nil and Empty is false.
//   - The body was empty: Empty is true.
//   - The body was not JSON: ParseErr is set and RawText holds its start.
//
// JSON is never nil; it is "{}" in the last two states so pass-through
// consumers always have an object to forward.
type Body struct {
	JSON     json.RawMessage
	RawText  string
	Empty    bool
	ParseErr error
}

// decodeBody classifies raw response bytes. It never fails.
func decodeBody(raw []byte) Body {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return Body{JSON: emptyObject, Empty: true}
	}
	if !json.Valid(trimmed) {
		return Body{
			JSON:     emptyObject,
			RawText:  truncate(string(trimmed), maxRawText),
			ParseErr: fmt.Errorf("registry: %w", sentinel.ErrMalformedBody),
		}
	}
	return Body{JSON: json.RawMessage(trimmed)}
}

// Parsed reports whether the body held valid JSON.
func (b Body) Parsed() bool {
	return !b.Empty && b.ParseErr == nil
}

// Decode unmarshals the body into v. Empty and unparsable bodies return
// ErrEmptyBody and the parse error respectively.
func (b Body) Decode(v any) error {
	switch {
	case b.Empty:
		return ErrEmptyBody
	case b.ParseErr != nil:
		return b.ParseErr
	default:
		return json.Unmarshal(b.JSON, v)
	}
}

// Value returns the body as a generic JSON value for pass-through fields.
// Empty and unparsable bodies yield an empty object.
func (b Body) Value() any {
	var v any
	if err := json.Unmarshal(b.JSON, &v); err != nil {
		return map[string]any{}
	}
	return v
}

// Diagnostic returns what the body is best described by in debug output:
// the raw text when it was not JSON, otherwise the decoded value.
func (b Body) Diagnostic() any {
	if b.RawText != "" {
		return b.RawText
	}
	return b.Value()
}

// Message extracts the registry's human-readable error text from a JSON
// object body ("message", then "error"). Returns "" when there is none.
func (b Body) Message() string {
	if !b.Parsed() {
		return ""
	}
	var envelope struct {
		Message any `json:"message"`
		Error   any `json:"error"`
	}
	if err := json.Unmarshal(b.JSON, &envelope); err != nil {
		return ""
	}
	if s, ok := envelope.Message.(string); ok && s != "" {
		return s
	}
	if s, ok := envelope.Error.(string); ok && s != "" {
		return s
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	s = s[:n]
	for len(s) > 0 && !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}
	return s
}
