package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"veriportal/internal/audit"
	"veriportal/internal/kyc"
	kycmetrics "veriportal/internal/kyc/metrics"
	dErrors "veriportal/pkg/domain-errors"
	"veriportal/pkg/platform/sentinel"
	"veriportal/pkg/requestcontext"
)

// StatusCache is the optional projection cache. A nil cache disables caching.
type StatusCache interface {
	Get(ctx context.Context, principal string) (kyc.VerificationStatus, bool)
	Set(ctx context.Context, principal string, status kyc.VerificationStatus) error
	Invalidate(ctx context.Context, principal string) error
}

// Service owns the submission ledger and the review engine. Authorization of
// review calls is the transport layer's concern (operator capability token);
// the service assumes the caller is already authorized.
type Service struct {
	ledger  kyc.Ledger
	cache   StatusCache
	audit   audit.Emitter
	metrics *kycmetrics.Metrics
	logger  *slog.Logger
	tracer  trace.Tracer
}

func New(ledger kyc.Ledger, cache StatusCache, auditEmitter audit.Emitter, m *kycmetrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		ledger:  ledger,
		cache:   cache,
		audit:   auditEmitter,
		metrics: m,
		logger:  logger,
		tracer:  otel.Tracer("veriportal/kyc"),
	}
}

// Submit appends a new pending submission. Duplicate pendings are allowed;
// most-recent-wins reads resolve ambiguity. The proof payload is stored
// opaque, never inspected.
func (s *Service) Submit(ctx context.Context, principal string, ageAssertion bool, proofPayload string) (*kyc.Submission, error) {
	ctx, span := s.tracer.Start(ctx, "kyc.submit")
	defer span.End()

	if principal == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "missing principal")
	}
	if proofPayload == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "proof_payload is required")
	}

	stored, err := s.ledger.Append(ctx, kyc.Submission{
		Principal:    principal,
		AgeAssertion: ageAssertion,
		ProofPayload: proofPayload,
		SubmittedAt:  requestcontext.Now(ctx),
	})
	if err != nil {
		// Write failures must be explicit; no silent data loss. The storage
		// detail goes to the log, never the response.
		s.logger.ErrorContext(ctx, "submission append failed",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "submission failed, retry")
	}

	s.metrics.IncSubmissions()
	s.invalidateStatus(ctx, principal)
	s.emitAudit(ctx, audit.Event{Principal: principal, Action: audit.ActionKYCSubmitted})
	return stored, nil
}

// Status projects the user-facing verification status from the authoritative
// submission. Ledger failures degrade to StatusUnknown instead of failing
// the read path.
func (s *Service) Status(ctx context.Context, principal string) kyc.VerificationStatus {
	ctx, span := s.tracer.Start(ctx, "kyc.status")
	defer span.End()

	if s.cache != nil {
		if status, ok := s.cache.Get(ctx, principal); ok {
			s.metrics.IncCacheHit()
			span.SetAttributes(attribute.Bool("cache_hit", true))
			return status
		}
		s.metrics.IncCacheMiss()
	}

	latest, err := s.ledger.Latest(ctx, principal)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		s.metrics.IncDegraded()
		s.logger.WarnContext(ctx, "status read degraded to unknown",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return kyc.StatusUnknown
	}

	status := kyc.Project(latest)
	if s.cache != nil {
		if err := s.cache.Set(ctx, principal, status); err != nil {
			s.logger.DebugContext(ctx, "status cache set failed", "error", err)
		}
	}
	return status
}

// Approve transitions one pending submission to approved. Reports
// CodeConflict when nothing is pending, which callers surface without
// treating it as a failure of the system.
func (s *Service) Approve(ctx context.Context, principal string) (*kyc.Submission, error) {
	return s.review(ctx, principal, kyc.StatusApproved, audit.ActionKYCApproved)
}

// Reject is symmetric to Approve.
func (s *Service) Reject(ctx context.Context, principal string) (*kyc.Submission, error) {
	return s.review(ctx, principal, kyc.StatusRejected, audit.ActionKYCRejected)
}

func (s *Service) review(ctx context.Context, principal string, to kyc.SubmissionStatus, action string) (*kyc.Submission, error) {
	ctx, span := s.tracer.Start(ctx, "kyc.review",
		trace.WithAttributes(attribute.String("target_status", string(to))))
	defer span.End()

	if principal == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "principal is required")
	}

	stored, err := s.ledger.TransitionPending(ctx, principal, to, requestcontext.Now(ctx))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.metrics.IncReview("no_pending")
			return nil, dErrors.New(dErrors.CodeConflict, "no pending submission to review")
		}
		s.metrics.IncReview("error")
		s.logger.ErrorContext(ctx, "review transition failed",
			"error", err,
			"target_status", string(to),
			"request_id", requestcontext.RequestID(ctx),
		)
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "review failed, retry")
	}

	s.metrics.IncReview(string(to))
	s.invalidateStatus(ctx, principal)
	s.emitAudit(ctx, audit.Event{Principal: principal, Action: action, Actor: "operator"})
	return stored, nil
}

func (s *Service) invalidateStatus(ctx context.Context, principal string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, principal); err != nil {
		s.logger.WarnContext(ctx, "status cache invalidation failed",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
}

func (s *Service) emitAudit(ctx context.Context, event audit.Event) {
	if err := s.audit.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed",
			"error", err,
			"action", event.Action,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
}
