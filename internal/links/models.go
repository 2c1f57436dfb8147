package links

import (
	"encoding/json"

	id "linkgateway/pkg/domain"
)

// fieldAnchorRelative is the key the registry groups links under.
const fieldAnchorRelative = "anchorRelative"

// LinkRecord is one registry link. Every field the registry sent is kept
// verbatim in Fields; AnchorRelative records which anchor group the link
// came from so that flattening never loses it.
type LinkRecord struct {
	AnchorRelative string
	LinkType       string
	TargetURL      string
	Fields         map[string]json.RawMessage
}

// UnmarshalJSON keeps all fields and lifts the ones the gateway reads.
func (l *LinkRecord) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	var known struct {
		AnchorRelative string `json:"anchorRelative"`
		LinkType       string `json:"linkType"`
		TargetURL      string `json:"targetUrl"`
	}
	// Typed fields are best-effort; a registry that sends a number where we
	// expect a string still yields a record with its raw fields intact.
	_ = json.Unmarshal(data, &known)

	*l = LinkRecord{
		AnchorRelative: known.AnchorRelative,
		LinkType:       known.LinkType,
		TargetURL:      known.TargetURL,
		Fields:         fields,
	}
	return nil
}

// MarshalJSON writes the registry's fields back with anchorRelative set
// from the record.
func (l LinkRecord) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(l.Fields)+1)
	for k, v := range l.Fields {
		out[k] = v
	}
	if l.AnchorRelative != "" {
		anchor, err := json.Marshal(l.AnchorRelative)
		if err != nil {
			return nil, err
		}
		out[fieldAnchorRelative] = anchor
	}
	return json.Marshal(out)
}

// withAnchor returns a copy of l attached to the given anchor. An empty
// anchor leaves the link's own value in place.
func (l LinkRecord) withAnchor(anchor string) LinkRecord {
	if anchor != "" {
		l.AnchorRelative = anchor
	}
	return l
}

// Description is the normalized result of resolving a GTIN.
type Description struct {
	GTIN        id.GTIN
	Description string

	// Valid is false when the registry flagged the GTIN itself; ErrorCode
	// and ErrorMessage then carry the registry's verdict.
	Valid        bool
	ErrorCode    string
	ErrorMessage string
}

// LinksResult is the normalized result of a link query.
type LinksResult struct {
	Links []LinkRecord
	Found bool
	// Raw is the registry body as received, for client-side diagnostics.
	// Nil when the registry reported no links with a 404.
	Raw any
}

// MutationResult is the normalized result of a create/update or delete.
type MutationResult struct {
	BatchID id.BatchID
	Data    any
}

// FeedbackResult carries the registry's batch status as-is.
type FeedbackResult struct {
	BatchID id.BatchID
	Data    any
}

// DeleteTarget is what a delete request names: either one GTIN (all of its
// links) or a registry batch payload. Exactly one is set.
type DeleteTarget struct {
	GTIN  id.GTIN
	Batch json.RawMessage
}

// IsBatch reports whether the target is a batch payload.
func (d DeleteTarget) IsBatch() bool {
	return len(d.Batch) > 0
}
