package domain

import (
	"fmt"
	"strings"
)

// APIVersion identifies a registry protocol revision.
// This is a domain primitive that enforces validity at parse time.
type APIVersion string

// Supported registry protocol revisions.
const (
	APIVersionV31 APIVersion = "v3.1"
	APIVersionV32 APIVersion = "v3.2"
)

// versionOrder defines the ordering of versions for comparison.
// Higher numbers represent newer versions.
var versionOrder = map[APIVersion]int{
	APIVersionV31: 1,
	APIVersionV32: 2,
}

// ParseAPIVersion validates and returns an APIVersion.
// A missing "v" prefix is tolerated ("3.2" parses as v3.2).
func ParseAPIVersion(s string) (APIVersion, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s != "" && !strings.HasPrefix(s, "v") {
		s = "v" + s
	}
	v := APIVersion(s)
	if _, ok := versionOrder[v]; !ok {
		return "", fmt.Errorf("unknown registry API version: %q", s)
	}
	return v, nil
}

// String returns the string representation of the API version.
func (v APIVersion) String() string {
	return string(v)
}

// IsNil returns true if the API version is empty.
func (v APIVersion) IsNil() bool {
	return v == ""
}

// IsAtLeast returns true if this version is >= other.
// Unknown versions are treated as lower than any known version.
func (v APIVersion) IsAtLeast(other APIVersion) bool {
	thisOrder, thisOK := versionOrder[v]
	otherOrder, otherOK := versionOrder[other]

	if !thisOK {
		return false
	}
	if !otherOK {
		return true
	}

	return thisOrder >= otherOrder
}

// SupportedVersions returns all currently supported registry versions, oldest first.
func SupportedVersions() []APIVersion {
	return []APIVersion{APIVersionV31, APIVersionV32}
}

// DefaultVersion returns the primary registry version.
func DefaultVersion() APIVersion {
	return APIVersionV32
}
