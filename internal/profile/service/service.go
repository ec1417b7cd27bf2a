package service

import (
	"context"
	"errors"
	"log/slog"

	"veriportal/internal/audit"
	"veriportal/internal/identity"
	"veriportal/internal/profile"
	dErrors "veriportal/pkg/domain-errors"
	"veriportal/pkg/platform/sentinel"
	"veriportal/pkg/requestcontext"
)

// Service merges identity-provider claims with stored overrides and owns the
// override write path. Read degradation policy: a failed override lookup
// falls back to claims-only rendering; a failed write is an explicit error.
type Service struct {
	store  profile.Store
	audit  audit.Emitter
	logger *slog.Logger
}

func New(store profile.Store, auditEmitter audit.Emitter, logger *slog.Logger) *Service {
	return &Service{store: store, audit: auditEmitter, logger: logger}
}

// EffectiveProfile resolves the merged profile for the authenticated claims.
// Storage failures degrade to the identity-provider view so the dashboard
// still renders; the failure is logged with the request ID.
func (s *Service) EffectiveProfile(ctx context.Context, claims identity.Claims) profile.EffectiveProfile {
	override, err := s.store.Get(ctx, claims.Principal)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		s.logger.WarnContext(ctx, "override lookup failed, serving claims only",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		override = nil
	}
	return profile.Resolve(claims, override)
}

// SetOverride upserts the principal's override. Empty fields mean "no change"
// per the overlay contract; at least one field must be supplied.
func (s *Service) SetOverride(ctx context.Context, principal, displayName, avatarURL string) error {
	if displayName == "" && avatarURL == "" {
		return dErrors.New(dErrors.CodeBadRequest, "nothing to update")
	}
	if len(displayName) > 128 {
		return dErrors.New(dErrors.CodeBadRequest, "display_name must be 128 characters or less")
	}
	if len(avatarURL) > 2048 {
		return dErrors.New(dErrors.CodeBadRequest, "avatar_url must be 2048 characters or less")
	}

	err := s.store.Upsert(ctx, profile.Override{
		Principal:   principal,
		DisplayName: displayName,
		AvatarURL:   avatarURL,
		UpdatedAt:   requestcontext.Now(ctx),
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "override upsert failed",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "profile update failed, retry")
	}

	if err := s.audit.Emit(ctx, audit.Event{
		Principal: principal,
		Action:    audit.ActionProfileUpdated,
	}); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed",
			"error", err,
			"action", audit.ActionProfileUpdated,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	return nil
}
