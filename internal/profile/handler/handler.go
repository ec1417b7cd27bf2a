// Package handler exposes the dashboard profile endpoints.
package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"veriportal/internal/http/shared"
	"veriportal/internal/identity"
	"veriportal/internal/kyc"
	"veriportal/internal/profile"
	dErrors "veriportal/pkg/domain-errors"
)

type ProfileService interface {
	EffectiveProfile(ctx context.Context, claims identity.Claims) profile.EffectiveProfile
	SetOverride(ctx context.Context, principal, displayName, avatarURL string) error
}

type StatusReader interface {
	Status(ctx context.Context, principal string) kyc.VerificationStatus
}

type TicketIssuer interface {
	CreatePasswordChangeTicket(ctx context.Context, principal string) (string, error)
}

type Handler struct {
	profiles ProfileService
	statuses StatusReader
	tickets  TicketIssuer
}

func New(profiles ProfileService, statuses StatusReader, tickets TicketIssuer) *Handler {
	return &Handler{profiles: profiles, statuses: statuses, tickets: tickets}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/profile", h.get)
	r.Put("/profile", h.put)
	r.Post("/profile/password-ticket", h.passwordTicket)
}

type profileResponse struct {
	profile.EffectiveProfile
	VerificationStatus kyc.VerificationStatus `json:"verification_status"`
}

type updateRequest struct {
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
}

type ticketResponse struct {
	TicketURL string `json:"ticket_url"`
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	claims, ok := identity.FromContext(r.Context())
	if !ok {
		shared.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing session"))
		return
	}

	shared.WriteJSON(w, http.StatusOK, profileResponse{
		EffectiveProfile:   h.profiles.EffectiveProfile(r.Context(), claims),
		VerificationStatus: h.statuses.Status(r.Context(), claims.Principal),
	})
}

func (h *Handler) put(w http.ResponseWriter, r *http.Request) {
	claims, ok := identity.FromContext(r.Context())
	if !ok {
		shared.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing session"))
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	if err := h.profiles.SetOverride(r.Context(), claims.Principal, req.DisplayName, req.AvatarURL); err != nil {
		shared.WriteError(w, err)
		return
	}

	// Return the post-write view so the dashboard can render without a
	// second round trip.
	shared.WriteJSON(w, http.StatusOK, profileResponse{
		EffectiveProfile:   h.profiles.EffectiveProfile(r.Context(), claims),
		VerificationStatus: h.statuses.Status(r.Context(), claims.Principal),
	})
}

func (h *Handler) passwordTicket(w http.ResponseWriter, r *http.Request) {
	claims, ok := identity.FromContext(r.Context())
	if !ok {
		shared.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing session"))
		return
	}

	ticket, err := h.tickets.CreatePasswordChangeTicket(r.Context(), claims.Principal)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusCreated, ticketResponse{TicketURL: ticket})
}
