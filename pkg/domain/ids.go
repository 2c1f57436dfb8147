// Package domain holds the gateway's domain primitives.
package domain

import (
	"strings"

	dErrors "linkgateway/pkg/domain-errors"
)

// GTIN is a Global Trade Item Number. The gateway treats it as an opaque,
// trimmed key and never checks its digits; the registry owns that.
type GTIN string

// ParseGTIN trims the input and rejects empty keys.
func ParseGTIN(s string) (GTIN, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "gtin is required.")
	}
	return GTIN(s), nil
}

func (g GTIN) String() string {
	return string(g)
}

// BatchID is the registry's handle for an asynchronous link mutation.
type BatchID string

// ParseBatchID trims the input and rejects empty handles.
func ParseBatchID(s string) (BatchID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "batchId is required.")
	}
	return BatchID(s), nil
}

func (b BatchID) String() string {
	return string(b)
}

// IsNil reports whether the registry returned no batch handle.
func (b BatchID) IsNil() bool {
	return b == ""
}
