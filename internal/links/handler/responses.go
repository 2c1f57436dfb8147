package handler

import (
	"linkgateway/internal/links"
)

// ResolveResponse answers resolve-identifier. Success is false, with HTTP
// 200, when the registry rejected the GTIN itself.
type ResolveResponse struct {
	Success            bool   `json:"success"`
	ProductDescription string `json:"productDescription"`
	ErrorCode          string `json:"errorCode,omitempty"`
	ErrorMessage       string `json:"errorMessage,omitempty"`
	Error              string `json:"error,omitempty"`
}

// msgGTINRejected is the failure message when the registry gives no text.
const msgGTINRejected = "GTIN rejected by registry."

// QueryLinksResponse answers query-links. Links is never null.
type QueryLinksResponse struct {
	Success bool               `json:"success"`
	Links   []links.LinkRecord `json:"links"`
	Found   bool               `json:"found"`
	Raw     any                `json:"raw,omitempty"`
}

// MutationResponse answers create-or-update-links and delete-links.
type MutationResponse struct {
	Success bool   `json:"success"`
	BatchID string `json:"batchId,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// FeedbackResponse answers batch-feedback.
type FeedbackResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

func toResolveResponse(d *links.Description) *ResolveResponse {
	if !d.Valid {
		msg := d.ErrorMessage
		if msg == "" {
			msg = msgGTINRejected
		}
		return &ResolveResponse{
			Success:      false,
			ErrorCode:    d.ErrorCode,
			ErrorMessage: d.ErrorMessage,
			Error:        msg,
		}
	}
	return &ResolveResponse{Success: true, ProductDescription: d.Description}
}

func toQueryLinksResponse(res *links.LinksResult) *QueryLinksResponse {
	recs := res.Links
	if recs == nil {
		recs = []links.LinkRecord{}
	}
	return &QueryLinksResponse{
		Success: true,
		Links:   recs,
		Found:   res.Found,
		Raw:     res.Raw,
	}
}

func toMutationResponse(res *links.MutationResult) *MutationResponse {
	return &MutationResponse{
		Success: true,
		BatchID: res.BatchID.String(),
		Data:    res.Data,
	}
}

func toFeedbackResponse(res *links.FeedbackResult) *FeedbackResponse {
	return &FeedbackResponse{Success: true, Data: res.Data}
}
