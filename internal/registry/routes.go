package registry

import (
	"net/http"
	"net/url"

	id "linkgateway/pkg/domain"
)

// gtinAI is the GS1 application identifier for GTIN keys in link paths.
const gtinAI = "01"

// Operation names, used as metric labels and span names.
const (
	OpVerifyGTIN     = "resolve_identifier"
	OpQueryLinks     = "query_links"
	OpUpsertLinks    = "create_or_update_links"
	OpDeleteKeyLinks = "delete_links_single"
	OpDeleteLinks    = "delete_links_batch"
	OpBatchFeedback  = "batch_feedback"
)

// Request describes one outbound registry call relative to the client's base URL.
type Request struct {
	Operation string
	Method    string
	Path      string
	Query     url.Values
	// Body is JSON-encoded when non-nil.
	Body any
}

// Routes builds the request template for each gateway operation in one
// registry protocol revision. v3.1 and v3.2 differ in path shape for link
// queries and batch deletes; the other operations only differ in prefix.
type Routes struct {
	version id.APIVersion
}

// RoutesFor returns the templates for v. Unknown or empty versions fall back
// to the primary revision.
func RoutesFor(v id.APIVersion) Routes {
	if _, err := id.ParseAPIVersion(v.String()); err != nil {
		v = id.DefaultVersion()
	}
	return Routes{version: v}
}

// Version reports the revision these routes target.
func (r Routes) Version() id.APIVersion {
	return r.version
}

func (r Routes) path(segments ...string) string {
	p := "/" + r.version.String()
	for _, s := range segments {
		p += "/" + s
	}
	return p
}

// VerifyGTIN looks up the verified product record for one GTIN.
func (r Routes) VerifyGTIN(gtin id.GTIN) Request {
	return Request{
		Operation: OpVerifyGTIN,
		Method:    http.MethodPost,
		Path:      r.path("gtins", "verified"),
		Body:      []string{gtin.String()},
	}
}

// QueryLinks lists the links registered for one GTIN.
// v3.2 answers with anchor groups; v3.1 answers with a data/responses envelope.
func (r Routes) QueryLinks(gtin id.GTIN) Request {
	if r.version == id.APIVersionV31 {
		return Request{
			Operation: OpQueryLinks,
			Method:    http.MethodGet,
			Path:      r.path("links"),
			Query: url.Values{
				"identificationKeyType": {gtinAI},
				"identificationKey":     {gtin.String()},
			},
		}
	}
	return Request{
		Operation: OpQueryLinks,
		Method:    http.MethodGet,
		Path:      r.path("links", gtinAI, url.PathEscape(gtin.String())),
	}
}

// UpsertLinks creates or updates links. The payload is forwarded as-is.
func (r Routes) UpsertLinks(payload any) Request {
	return Request{
		Operation: OpUpsertLinks,
		Method:    http.MethodPost,
		Path:      r.path("links"),
		Body:      payload,
	}
}

// DeleteLinksForKey deletes every link registered for one GTIN.
func (r Routes) DeleteLinksForKey(gtin id.GTIN) Request {
	return Request{
		Operation: OpDeleteKeyLinks,
		Method:    http.MethodDelete,
		Path:      r.path("links", gtinAI, url.PathEscape(gtin.String())),
	}
}

// DeleteLinks deletes the links described by a batch payload.
// v3.1 exposes this as a POST to a dedicated resource.
func (r Routes) DeleteLinks(payload any) Request {
	if r.version == id.APIVersionV31 {
		return Request{
			Operation: OpDeleteLinks,
			Method:    http.MethodPost,
			Path:      r.path("links", "delete"),
			Body:      payload,
		}
	}
	return Request{
		Operation: OpDeleteLinks,
		Method:    http.MethodDelete,
		Path:      r.path("links"),
		Body:      payload,
	}
}

// BatchFeedback polls the status of an asynchronous link mutation.
func (r Routes) BatchFeedback(batchID id.BatchID) Request {
	return Request{
		Operation: OpBatchFeedback,
		Method:    http.MethodGet,
		Path:      r.path("feedback", url.PathEscape(batchID.String())),
	}
}
