package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"linkgateway/internal/links"
	"linkgateway/pkg/platform/httputil"
	"linkgateway/pkg/platform/middleware/request"
)

// Service defines the interface for gateway link operations.
type Service interface {
	ResolveIdentifier(ctx context.Context, gtin string) (*links.Description, error)
	QueryLinks(ctx context.Context, gtin string) (*links.LinksResult, error)
	UpsertLinks(ctx context.Context, payload json.RawMessage) (*links.MutationResult, error)
	DeleteLinks(ctx context.Context, payload json.RawMessage) (*links.MutationResult, error)
	BatchFeedback(ctx context.Context, batchID string) (*links.FeedbackResult, error)
}

// Handler handles the gateway's link endpoints.
type Handler struct {
	logger *slog.Logger
	links  Service
}

// New creates a new links Handler.
func New(links Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger: logger,
		links:  links,
	}
}

// Register registers the link routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/resolve-identifier", h.HandleResolveIdentifier)
	r.Post("/query-links", h.HandleQueryLinks)
	r.Post("/create-or-update-links", h.HandleUpsertLinks)
	r.Delete("/delete-links", h.HandleDeleteLinks)
	r.Post("/delete-links", h.HandleDeleteLinks)
	r.Get("/batch-feedback", h.HandleBatchFeedback)
	r.Post("/batch-feedback", h.HandleBatchFeedback)
}

// HandleResolveIdentifier resolves a GTIN to its product description.
// A GTIN the registry rejects is answered with 200 and success=false.
func (h *Handler) HandleResolveIdentifier(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[GTINRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	desc, err := h.links.ResolveIdentifier(ctx, req.GTIN.String())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toResolveResponse(desc))
}

// HandleQueryLinks lists the links registered for a GTIN.
func (h *Handler) HandleQueryLinks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[GTINRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	res, err := h.links.QueryLinks(ctx, req.GTIN.String())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toQueryLinksResponse(res))
}

// HandleUpsertLinks forwards a create/update payload to the registry.
func (h *Handler) HandleUpsertLinks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	payload, ok := httputil.DecodeRaw(w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	res, err := h.links.UpsertLinks(ctx, payload)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toMutationResponse(res))
}

// HandleDeleteLinks deletes the links of one GTIN ({"gtin": ...}) or a batch
// (a non-empty array).
func (h *Handler) HandleDeleteLinks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	payload, ok := httputil.DecodeRaw(w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	res, err := h.links.DeleteLinks(ctx, payload)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toMutationResponse(res))
}

// HandleBatchFeedback reports the registry status of a batch. GET reads the
// batchId query parameter; POST reads it from the body.
func (h *Handler) HandleBatchFeedback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	var batchID string
	if r.Method == http.MethodGet {
		batchID = r.URL.Query().Get("batchId")
	} else {
		req, ok := httputil.DecodeAndPrepare[BatchFeedbackRequest](w, r, h.logger, ctx, requestID)
		if !ok {
			return
		}
		batchID = req.BatchID.String()
	}

	res, err := h.links.BatchFeedback(ctx, batchID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toFeedbackResponse(res))
}
