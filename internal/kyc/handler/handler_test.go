package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veriportal/internal/kyc"
	dErrors "veriportal/pkg/domain-errors"
	"veriportal/pkg/requestcontext"
	"veriportal/pkg/testutil"
)

type stubService struct {
	submitted  *kyc.Submission
	submitErr  error
	status     kyc.VerificationStatus
	reviewed   *kyc.Submission
	reviewErr  error
	gotSubmit  []string
	gotReviews []string
}

func (s *stubService) Submit(_ context.Context, principal string, _ bool, proofPayload string) (*kyc.Submission, error) {
	s.gotSubmit = append(s.gotSubmit, principal+":"+proofPayload)
	return s.submitted, s.submitErr
}

func (s *stubService) Status(_ context.Context, _ string) kyc.VerificationStatus {
	return s.status
}

func (s *stubService) Approve(_ context.Context, principal string) (*kyc.Submission, error) {
	s.gotReviews = append(s.gotReviews, "approve:"+principal)
	return s.reviewed, s.reviewErr
}

func (s *stubService) Reject(_ context.Context, principal string) (*kyc.Submission, error) {
	s.gotReviews = append(s.gotReviews, "reject:"+principal)
	return s.reviewed, s.reviewErr
}

func newRouter(svc *stubService) chi.Router {
	r := chi.NewRouter()
	// Stand-in for the auth middleware: a fixed authenticated principal.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(requestcontext.WithPrincipal(req.Context(), "alice")))
		})
	})
	h := New(svc)
	h.Register(r)
	h.RegisterOperator(r)
	return r
}

func TestSubmitReturnsCreated(t *testing.T) {
	svc := &stubService{submitted: &kyc.Submission{
		ID:          "sub-1",
		Principal:   "alice",
		Status:      kyc.StatusPending,
		SubmittedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}}
	r := newRouter(svc)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/kyc/submissions",
		map[string]any{"age_assertion": true, "proof_payload": "blob"})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	body := *testutil.UnmarshalResponse[map[string]string](t, rec)
	assert.Equal(t, "sub-1", body["id"])
	assert.Equal(t, "pending", body["status"])
	assert.Equal(t, "2026-03-01T12:00:00Z", body["submitted_at"])
	assert.Equal(t, []string{"alice:blob"}, svc.gotSubmit)
}

func TestSubmitRejectsMalformedBody(t *testing.T) {
	r := newRouter(&stubService{})

	req := httptest.NewRequest(http.MethodPost, "/kyc/submissions", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatusReturnsProjection(t *testing.T) {
	r := newRouter(&stubService{status: kyc.StatusVerified})

	req := httptest.NewRequest(http.MethodGet, "/kyc/status", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := *testutil.UnmarshalResponse[map[string]string](t, rec)
	assert.Equal(t, "verified", body["status"])
}

func TestOperatorRoutesUseURLPrincipal(t *testing.T) {
	svc := &stubService{reviewed: &kyc.Submission{
		ID:          "sub-2",
		Principal:   "bob",
		Status:      kyc.StatusApproved,
		SubmittedAt: time.Now(),
	}}
	r := newRouter(svc)

	for _, action := range []string{"approve", "reject"} {
		req := httptest.NewRequest(http.MethodPost, "/operator/kyc/bob/"+action, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Equal(t, []string{"approve:bob", "reject:bob"}, svc.gotReviews)
}

func TestReviewConflictSurfacesAsConflict(t *testing.T) {
	svc := &stubService{reviewErr: dErrors.New(dErrors.CodeConflict, "no pending submission to review")}
	r := newRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/operator/kyc/bob/approve", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	body := *testutil.UnmarshalResponse[map[string]string](t, rec)
	assert.Equal(t, "conflict", body["error"])
}
