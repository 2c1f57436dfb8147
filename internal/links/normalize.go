package links

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	id "linkgateway/pkg/domain"
	"linkgateway/pkg/platform/sentinel"
)

// ErrUnknownShape is returned when a link query answer matches none of the
// known registry shapes.
var ErrUnknownShape = fmt.Errorf("links: %w", sentinel.ErrUnexpectedShape)

// -----------------------------------------------------------------------------
// Link queries
// -----------------------------------------------------------------------------

// linkPayload is the closed set of link query answers the registry is known
// to produce. Each variant flattens itself.
type linkPayload interface {
	flatten() []LinkRecord
}

// anchorGroups is the v3.2 answer: one group per anchor, links nested inside.
//
//	[{"anchorRelative": "/", "links": [{...}, {...}]}]
type anchorGroups []struct {
	AnchorRelative string       `json:"anchorRelative"`
	Links          []LinkRecord `json:"links"`
}

func (g anchorGroups) flatten() []LinkRecord {
	out := make([]LinkRecord, 0)
	for _, group := range g {
		for _, link := range group.Links {
			out = append(out, link.withAnchor(group.AnchorRelative))
		}
	}
	return out
}

// responseEnvelope is the v3.1 answer: a data array of items, each carrying
// its links under "responses".
//
//	{"data": [{"responses": [{...}]}]}
type responseEnvelope struct {
	Data []struct {
		Responses []LinkRecord `json:"responses"`
	} `json:"data"`
}

func (e responseEnvelope) flatten() []LinkRecord {
	out := make([]LinkRecord, 0)
	for _, item := range e.Data {
		out = append(out, item.Responses...)
	}
	return out
}

// detectLinkPayload identifies the shape of a link query answer structurally:
// a top-level array whose every element carries a "links" array is anchor
// groups, an object whose "data" items each carry a "responses" array is the
// response envelope. Anything else is ErrUnknownShape.
func detectLinkPayload(raw json.RawMessage) (linkPayload, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, ErrUnknownShape
	}

	switch trimmed[0] {
	case '[':
		if err := requireArrayField(trimmed, "links"); err != nil {
			return nil, fmt.Errorf("%w: anchor groups: %v", ErrUnknownShape, err)
		}
		var groups anchorGroups
		if err := json.Unmarshal(trimmed, &groups); err != nil {
			return nil, fmt.Errorf("%w: anchor groups: %v", ErrUnknownShape, err)
		}
		return groups, nil

	case '{':
		var top map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &top); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnknownShape, err)
		}
		data, ok := top["data"]
		if !ok || !isArray(data) {
			return nil, ErrUnknownShape
		}
		if err := requireArrayField(data, "responses"); err != nil {
			return nil, fmt.Errorf("%w: response envelope: %v", ErrUnknownShape, err)
		}
		var env responseEnvelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, fmt.Errorf("%w: response envelope: %v", ErrUnknownShape, err)
		}
		return env, nil

	default:
		return nil, ErrUnknownShape
	}
}

// requireArrayField checks that every element of the JSON array raw is an
// object carrying key as an array. An empty array passes.
func requireArrayField(raw json.RawMessage, key string) error {
	var items []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return err
	}
	for i, item := range items {
		if !isArray(item[key]) {
			return fmt.Errorf("element %d has no %q array", i, key)
		}
	}
	return nil
}

func isArray(raw json.RawMessage) bool {
	return bytes.HasPrefix(bytes.TrimSpace(raw), []byte("["))
}

// NormalizeLinks flattens a link query answer into one ordered list. Links
// from anchor groups keep their group's anchorRelative.
func NormalizeLinks(raw json.RawMessage) ([]LinkRecord, error) {
	payload, err := detectLinkPayload(raw)
	if err != nil {
		return nil, err
	}

	switch p := payload.(type) {
	case anchorGroups:
		return p.flatten(), nil
	case responseEnvelope:
		return p.flatten(), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownShape, payload)
	}
}

// -----------------------------------------------------------------------------
// GTIN resolution
// -----------------------------------------------------------------------------

type localizedValue struct {
	Language string `json:"language"`
	Value    string `json:"value"`
}

type validationIssue struct {
	ErrorCode string `json:"errorCode"`
	Message   string `json:"message"`
}

// validationError covers both forms the registry uses: a flat issue with a
// property, or a property with nested issues.
type validationError struct {
	Property string            `json:"property"`
	Field    string            `json:"field"`
	Errors   []validationIssue `json:"errors"`
	validationIssue
}

func (v validationError) scope() string {
	if v.Property != "" {
		return v.Property
	}
	return v.Field
}

func (v validationError) firstIssue() validationIssue {
	if v.ErrorCode != "" || v.Message != "" {
		return v.validationIssue
	}
	for _, issue := range v.Errors {
		if issue.ErrorCode != "" || issue.Message != "" {
			return issue
		}
	}
	return validationIssue{}
}

type verifiedRecord struct {
	GTIN               string            `json:"gtin"`
	ProductDescription []localizedValue  `json:"productDescription"`
	ValidationErrors   []validationError `json:"validationErrors"`
}

// NormalizeDescription picks the product description for the first record
// of a verified-GTIN answer. The entry whose language starts with
// preferredLanguage (case-insensitive) wins, then the first entry, then "".
// A gtin-scoped validation error makes the result invalid.
func NormalizeDescription(gtin id.GTIN, raw json.RawMessage, preferredLanguage string) (Description, error) {
	result := Description{GTIN: gtin, Valid: true}

	record, ok, err := firstVerifiedRecord(raw)
	if err != nil || !ok {
		return result, err
	}

	for _, ve := range record.ValidationErrors {
		if !strings.EqualFold(ve.scope(), "gtin") {
			continue
		}
		issue := ve.firstIssue()
		result.Valid = false
		result.ErrorCode = issue.ErrorCode
		result.ErrorMessage = issue.Message
		return result, nil
	}

	result.Description = pickDescription(record.ProductDescription, preferredLanguage)
	return result, nil
}

// firstVerifiedRecord accepts the documented array answer and, leniently, a
// bare record object. Any other JSON value yields no record.
func firstVerifiedRecord(raw json.RawMessage) (verifiedRecord, bool, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return verifiedRecord{}, false, nil
	}

	switch trimmed[0] {
	case '[':
		var records []verifiedRecord
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return verifiedRecord{}, false, fmt.Errorf("decode verified records: %w", err)
		}
		if len(records) == 0 {
			return verifiedRecord{}, false, nil
		}
		return records[0], true, nil
	case '{':
		var record verifiedRecord
		if err := json.Unmarshal(trimmed, &record); err != nil {
			return verifiedRecord{}, false, fmt.Errorf("decode verified record: %w", err)
		}
		return record, true, nil
	default:
		return verifiedRecord{}, false, nil
	}
}

func pickDescription(entries []localizedValue, preferredLanguage string) string {
	preferredLanguage = strings.ToLower(preferredLanguage)
	if preferredLanguage != "" {
		for _, e := range entries {
			if strings.HasPrefix(strings.ToLower(e.Language), preferredLanguage) && e.Value != "" {
				return e.Value
			}
		}
	}
	if len(entries) > 0 {
		return entries[0].Value
	}
	return ""
}

// -----------------------------------------------------------------------------
// Batch ids
// -----------------------------------------------------------------------------

// NormalizeBatchID extracts the batch handle from a mutation answer: either a
// bare JSON string or an object with a "batchId" string. A missing handle is
// not an error.
func NormalizeBatchID(raw json.RawMessage) id.BatchID {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ""
	}

	var bare string
	if err := json.Unmarshal(trimmed, &bare); err == nil {
		return id.BatchID(strings.TrimSpace(bare))
	}

	var obj struct {
		BatchID any `json:"batchId"`
	}
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return ""
	}
	switch v := obj.BatchID.(type) {
	case string:
		return id.BatchID(strings.TrimSpace(v))
	case float64:
		return id.BatchID(fmt.Sprintf("%.0f", v))
	default:
		return ""
	}
}
