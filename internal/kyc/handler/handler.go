// Package handler exposes the verification endpoints. User routes act on the
// authenticated principal; operator routes act on the principal named in the
// URL and are guarded by the operator token middleware upstream.
package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"veriportal/internal/http/shared"
	"veriportal/internal/kyc"
	dErrors "veriportal/pkg/domain-errors"
	"veriportal/pkg/requestcontext"
)

type Service interface {
	Submit(ctx context.Context, principal string, ageAssertion bool, proofPayload string) (*kyc.Submission, error)
	Status(ctx context.Context, principal string) kyc.VerificationStatus
	Approve(ctx context.Context, principal string) (*kyc.Submission, error)
	Reject(ctx context.Context, principal string) (*kyc.Submission, error)
}

type Handler struct {
	service Service
}

func New(service Service) *Handler {
	return &Handler{service: service}
}

// Register mounts the user-facing routes. Callers wrap the router with the
// session auth middleware.
func (h *Handler) Register(r chi.Router) {
	r.Post("/kyc/submissions", h.submit)
	r.Get("/kyc/status", h.status)
}

// RegisterOperator mounts the review routes. Callers wrap the router with the
// operator token middleware.
func (h *Handler) RegisterOperator(r chi.Router) {
	r.Post("/operator/kyc/{principal}/approve", h.review(h.service.Approve))
	r.Post("/operator/kyc/{principal}/reject", h.review(h.service.Reject))
}

type submitRequest struct {
	AgeAssertion bool   `json:"age_assertion"`
	ProofPayload string `json:"proof_payload"`
}

type submissionResponse struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	SubmittedAt string `json:"submitted_at"`
}

type statusResponse struct {
	Status kyc.VerificationStatus `json:"status"`
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	sub, err := h.service.Submit(r.Context(), requestcontext.Principal(r.Context()), req.AgeAssertion, req.ProofPayload)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusCreated, submissionResponse{
		ID:          sub.ID,
		Status:      string(sub.Status),
		SubmittedAt: sub.SubmittedAt.UTC().Format(time.RFC3339),
	})
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	status := h.service.Status(r.Context(), requestcontext.Principal(r.Context()))
	shared.WriteJSON(w, http.StatusOK, statusResponse{Status: status})
}

func (h *Handler) review(transition func(context.Context, string) (*kyc.Submission, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal := chi.URLParam(r, "principal")
		sub, err := transition(r.Context(), principal)
		if err != nil {
			shared.WriteError(w, err)
			return
		}

		shared.WriteJSON(w, http.StatusOK, submissionResponse{
			ID:          sub.ID,
			Status:      string(sub.Status),
			SubmittedAt: sub.SubmittedAt.UTC().Format(time.RFC3339),
		})
	}
}
