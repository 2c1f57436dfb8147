package links

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"linkgateway/internal/platform/metrics"
	"linkgateway/internal/registry"
	id "linkgateway/pkg/domain"
	dErrors "linkgateway/pkg/domain-errors"
	"linkgateway/pkg/requestcontext"
)

// Gateway operation names, used as outcome metric labels and log fields.
const (
	OpResolveIdentifier = "resolve_identifier"
	OpQueryLinks        = "query_links"
	OpUpsertLinks       = "create_or_update_links"
	OpDeleteLinks       = "delete_links"
	OpBatchFeedback     = "batch_feedback"
)

// Outcome labels beyond the error codes.
const (
	outcomeSuccess          = "success"
	outcomeNotFound         = "not_found"
	outcomeValidationFailed = "validation_failed"
)

// Registry sends one request to the link registry.
type Registry interface {
	Call(ctx context.Context, req registry.Request) (*registry.Response, error)
}

// Service runs the gateway operations: validate the input, make exactly one
// registry call, then normalize the answer or map the failure.
type Service struct {
	registry          Registry
	defaultVersion    id.APIVersion
	preferredLanguage string
	logger            *slog.Logger
	metrics           *metrics.Metrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithDefaultVersion sets the registry revision used when the request
// context does not select one.
func WithDefaultVersion(v id.APIVersion) Option {
	return func(s *Service) {
		s.defaultVersion = v
	}
}

// WithPreferredLanguage sets the language prefix preferred when picking a
// product description.
func WithPreferredLanguage(lang string) Option {
	return func(s *Service) {
		s.preferredLanguage = lang
	}
}

// New constructs a Service.
func New(reg Registry, opts ...Option) *Service {
	s := &Service{
		registry:          reg,
		defaultVersion:    id.DefaultVersion(),
		preferredLanguage: "es",
		logger:            slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ResolveIdentifier looks up the product description for a GTIN. A GTIN the
// registry rejects comes back as a Description with Valid=false, not an error.
func (s *Service) ResolveIdentifier(ctx context.Context, rawGTIN string) (*Description, error) {
	gtin, err := id.ParseGTIN(rawGTIN)
	if err != nil {
		return nil, s.fail(ctx, OpResolveIdentifier, err)
	}

	resp, err := s.registry.Call(ctx, s.routes(ctx).VerifyGTIN(gtin))
	if err != nil {
		return nil, s.fail(ctx, OpResolveIdentifier, err)
	}
	if !resp.OK() {
		return nil, s.fail(ctx, OpResolveIdentifier, upstreamFailure(resp))
	}

	if !resp.Body.Parsed() {
		s.logUnparsed(ctx, OpResolveIdentifier, resp)
		s.outcome(OpResolveIdentifier, outcomeSuccess)
		return &Description{GTIN: gtin, Valid: true}, nil
	}

	desc, err := NormalizeDescription(gtin, resp.Body.JSON, s.preferredLanguage)
	if err != nil {
		return nil, s.fail(ctx, OpResolveIdentifier, unreadableAnswer(OpResolveIdentifier, resp, err))
	}
	if !desc.Valid {
		s.logger.InfoContext(ctx, "registry rejected gtin",
			"gtin", gtin.String(),
			"error_code", desc.ErrorCode,
			"request_id", requestcontext.RequestID(ctx),
		)
		s.outcome(OpResolveIdentifier, outcomeValidationFailed)
		return &desc, nil
	}

	s.outcome(OpResolveIdentifier, outcomeSuccess)
	return &desc, nil
}

// QueryLinks lists the links registered for a GTIN in one flat list. A 404
// from the registry means no links, not a failure.
func (s *Service) QueryLinks(ctx context.Context, rawGTIN string) (*LinksResult, error) {
	gtin, err := id.ParseGTIN(rawGTIN)
	if err != nil {
		return nil, s.fail(ctx, OpQueryLinks, err)
	}

	resp, err := s.registry.Call(ctx, s.routes(ctx).QueryLinks(gtin))
	if err != nil {
		return nil, s.fail(ctx, OpQueryLinks, err)
	}
	if resp.Status == http.StatusNotFound {
		s.outcome(OpQueryLinks, outcomeNotFound)
		return &LinksResult{Links: []LinkRecord{}, Found: false}, nil
	}
	if !resp.OK() {
		return nil, s.fail(ctx, OpQueryLinks, upstreamFailure(resp))
	}

	switch {
	case resp.Body.Empty:
		s.outcome(OpQueryLinks, outcomeNotFound)
		return &LinksResult{Links: []LinkRecord{}, Found: false, Raw: resp.Body.Value()}, nil
	case resp.Body.ParseErr != nil:
		return nil, s.fail(ctx, OpQueryLinks, unreadableAnswer(OpQueryLinks, resp, resp.Body.ParseErr))
	}

	links, err := NormalizeLinks(resp.Body.JSON)
	if err != nil {
		return nil, s.fail(ctx, OpQueryLinks, unreadableAnswer(OpQueryLinks, resp, err))
	}

	result := &LinksResult{Links: links, Found: len(links) > 0, Raw: resp.Body.Value()}
	if result.Found {
		s.outcome(OpQueryLinks, outcomeSuccess)
	} else {
		s.outcome(OpQueryLinks, outcomeNotFound)
	}
	return result, nil
}

// UpsertLinks forwards a create/update payload to the registry.
func (s *Service) UpsertLinks(ctx context.Context, payload json.RawMessage) (*MutationResult, error) {
	entries, err := ParseLinkPayload(payload)
	if err != nil {
		return nil, s.fail(ctx, OpUpsertLinks, err)
	}
	return s.mutate(ctx, OpUpsertLinks, s.routes(ctx).UpsertLinks(entries))
}

// DeleteLinks removes links. A {"gtin": ...} object deletes every link of
// that GTIN; an array is forwarded as a batch delete.
func (s *Service) DeleteLinks(ctx context.Context, payload json.RawMessage) (*MutationResult, error) {
	target, err := ParseDeleteTarget(payload)
	if err != nil {
		return nil, s.fail(ctx, OpDeleteLinks, err)
	}

	routes := s.routes(ctx)
	req := routes.DeleteLinksForKey(target.GTIN)
	if target.IsBatch() {
		req = routes.DeleteLinks(target.Batch)
	}
	return s.mutate(ctx, OpDeleteLinks, req)
}

// BatchFeedback fetches the registry's status for a batch.
func (s *Service) BatchFeedback(ctx context.Context, rawBatchID string) (*FeedbackResult, error) {
	batchID, err := id.ParseBatchID(rawBatchID)
	if err != nil {
		return nil, s.fail(ctx, OpBatchFeedback, err)
	}

	resp, err := s.registry.Call(ctx, s.routes(ctx).BatchFeedback(batchID))
	if err != nil {
		return nil, s.fail(ctx, OpBatchFeedback, err)
	}
	if !resp.OK() {
		return nil, s.fail(ctx, OpBatchFeedback, upstreamFailure(resp))
	}
	if resp.Body.ParseErr != nil {
		s.logUnparsed(ctx, OpBatchFeedback, resp)
	}

	s.outcome(OpBatchFeedback, outcomeSuccess)
	return &FeedbackResult{BatchID: batchID, Data: resp.Body.Value()}, nil
}

func (s *Service) mutate(ctx context.Context, operation string, req registry.Request) (*MutationResult, error) {
	resp, err := s.registry.Call(ctx, req)
	if err != nil {
		return nil, s.fail(ctx, operation, err)
	}
	if !resp.OK() {
		return nil, s.fail(ctx, operation, upstreamFailure(resp))
	}

	result := &MutationResult{Data: resp.Body.Value()}
	if resp.Body.Parsed() {
		result.BatchID = NormalizeBatchID(resp.Body.JSON)
	} else if resp.Body.ParseErr != nil {
		s.logUnparsed(ctx, operation, resp)
	}

	attrs := []any{"operation", operation, "request_id", requestcontext.RequestID(ctx)}
	if !result.BatchID.IsNil() {
		attrs = append(attrs, "batch_id", result.BatchID.String())
	}
	s.logger.InfoContext(ctx, "links mutation accepted", attrs...)
	s.outcome(operation, outcomeSuccess)
	return result, nil
}

// routes picks the registry revision selected for this request.
func (s *Service) routes(ctx context.Context) registry.Routes {
	if v := requestcontext.APIVersion(ctx); !v.IsNil() {
		return registry.RoutesFor(v)
	}
	return registry.RoutesFor(s.defaultVersion)
}

// fail records the outcome of a failed operation and returns err unchanged.
func (s *Service) fail(ctx context.Context, operation string, err error) error {
	code := dErrors.CodeInternal
	if de, ok := dErrors.From(err); ok {
		code = de.Code
	}
	s.outcome(operation, string(code))

	level := slog.LevelWarn
	if code == dErrors.CodeInvalidInput {
		level = slog.LevelDebug
	}
	if code == dErrors.CodeConfiguration || code == dErrors.CodeInternal {
		level = slog.LevelError
	}
	s.logger.Log(ctx, level, "links operation failed",
		"operation", operation,
		"code", string(code),
		"error", err,
		"request_id", requestcontext.RequestID(ctx),
	)
	return err
}

func (s *Service) logUnparsed(ctx context.Context, operation string, resp *registry.Response) {
	s.logger.WarnContext(ctx, "registry body unusable",
		"operation", operation,
		"status", resp.Status,
		"empty", resp.Body.Empty,
		"request_id", requestcontext.RequestID(ctx),
	)
}

func (s *Service) outcome(operation, outcome string) {
	if s.metrics != nil {
		s.metrics.IncrementOutcome(operation, outcome)
	}
}
