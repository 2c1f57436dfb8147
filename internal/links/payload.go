package links

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	id "linkgateway/pkg/domain"
	dErrors "linkgateway/pkg/domain-errors"
)

// Messages returned for malformed link payloads.
const (
	msgNonEmptyArray = "Payload must be a non-empty array."
	msgEntryKey      = "Each entry must carry an identificationKey."
)

// payloadValidate checks link payloads structurally. The registry remains
// the authority on link semantics; this only rejects what it could never accept.
var payloadValidate = validator.New()

// linkEntry is the part of a registry link entry the gateway checks. The
// entry itself is forwarded untouched.
type linkEntry struct {
	IdentificationKey string `json:"identificationKey" validate:"required_without=GTIN"`
	GTIN              string `json:"gtin" validate:"required_without=IdentificationKey"`
}

type linkBatch struct {
	Entries []linkEntry `validate:"required,min=1,dive"`
}

// LinkPayload is a validated create/update or batch delete payload: the
// entries exactly as the caller sent them.
type LinkPayload []json.RawMessage

// ParseLinkPayload validates a create/update payload. A single object is
// accepted and wrapped into a one-entry array.
func ParseLinkPayload(raw json.RawMessage) (LinkPayload, error) {
	entries, err := splitEntries(raw)
	if err != nil {
		return nil, err
	}
	if err := validateEntries(entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// ParseDeleteTarget reads a delete request: a JSON object names one GTIN,
// a JSON array is a batch payload forwarded to the registry.
func ParseDeleteTarget(raw json.RawMessage) (DeleteTarget, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return DeleteTarget{}, dErrors.New(dErrors.CodeInvalidInput, msgNonEmptyArray)
	}

	switch trimmed[0] {
	case '{':
		var single struct {
			GTIN string `json:"gtin"`
		}
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return DeleteTarget{}, dErrors.Wrap(err, dErrors.CodeInvalidInput, "gtin is required.")
		}
		gtin, err := id.ParseGTIN(single.GTIN)
		if err != nil {
			return DeleteTarget{}, err
		}
		return DeleteTarget{GTIN: gtin}, nil

	case '[':
		entries, err := splitEntries(trimmed)
		if err != nil {
			return DeleteTarget{}, err
		}
		if err := validateEntries(entries); err != nil {
			return DeleteTarget{}, err
		}
		return DeleteTarget{Batch: json.RawMessage(trimmed)}, nil

	default:
		return DeleteTarget{}, dErrors.New(dErrors.CodeInvalidInput, msgNonEmptyArray)
	}
}

func splitEntries(raw json.RawMessage) (LinkPayload, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, msgNonEmptyArray)
	}

	switch trimmed[0] {
	case '[':
		var entries []json.RawMessage
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, msgNonEmptyArray)
		}
		if len(entries) == 0 {
			return nil, dErrors.New(dErrors.CodeInvalidInput, msgNonEmptyArray)
		}
		return entries, nil
	case '{':
		return LinkPayload{json.RawMessage(trimmed)}, nil
	default:
		return nil, dErrors.New(dErrors.CodeInvalidInput, msgNonEmptyArray)
	}
}

func validateEntries(entries LinkPayload) error {
	batch := linkBatch{Entries: make([]linkEntry, 0, len(entries))}
	for i, e := range entries {
		var entry linkEntry
		if err := json.Unmarshal(e, &entry); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInvalidInput, msgEntryKey).
				WithDebug("index", i)
		}
		entry.IdentificationKey = strings.TrimSpace(entry.IdentificationKey)
		entry.GTIN = strings.TrimSpace(entry.GTIN)
		batch.Entries = append(batch.Entries, entry)
	}

	if err := payloadValidate.Struct(batch); err != nil {
		de := dErrors.Wrap(err, dErrors.CodeInvalidInput, msgEntryKey)
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			de = de.WithDebug("field", verrs[0].Namespace())
		}
		return de
	}
	return nil
}
