package handler

import (
	"bytes"
	"encoding/json"
	"fmt"

	id "linkgateway/pkg/domain"
)

// keyString is a request key that may arrive as a JSON string or number.
// Front ends that read GTINs from numeric inputs send them unquoted.
type keyString string

func (k *keyString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*k = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*k = keyString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("key must be a string or number: %w", err)
	}
	*k = keyString(n.String())
	return nil
}

func (k keyString) String() string {
	return string(k)
}

// GTINRequest is the body of resolve-identifier and query-links.
type GTINRequest struct {
	GTIN keyString `json:"gtin"`
}

func (r *GTINRequest) Validate() error {
	gtin, err := id.ParseGTIN(r.GTIN.String())
	if err != nil {
		return err
	}
	r.GTIN = keyString(gtin)
	return nil
}

// BatchFeedbackRequest is the POST body of batch-feedback.
type BatchFeedbackRequest struct {
	BatchID keyString `json:"batchId"`
}

func (r *BatchFeedbackRequest) Validate() error {
	batchID, err := id.ParseBatchID(r.BatchID.String())
	if err != nil {
		return err
	}
	r.BatchID = keyString(batchID)
	return nil
}
