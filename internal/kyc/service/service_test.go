package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veriportal/internal/audit"
	"veriportal/internal/kyc"
	dErrors "veriportal/pkg/domain-errors"
)

type failingLedger struct{}

func (failingLedger) Append(context.Context, kyc.Submission) (*kyc.Submission, error) {
	return nil, errors.New("connection refused")
}

func (failingLedger) Latest(context.Context, string) (*kyc.Submission, error) {
	return nil, errors.New("connection refused")
}

func (failingLedger) TransitionPending(context.Context, string, kyc.SubmissionStatus, time.Time) (*kyc.Submission, error) {
	return nil, errors.New("connection refused")
}

type fakeCache struct {
	entries     map[string]kyc.VerificationStatus
	invalidated []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]kyc.VerificationStatus)}
}

func (c *fakeCache) Get(_ context.Context, principal string) (kyc.VerificationStatus, bool) {
	status, ok := c.entries[principal]
	return status, ok
}

func (c *fakeCache) Set(_ context.Context, principal string, status kyc.VerificationStatus) error {
	c.entries[principal] = status
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, principal string) error {
	delete(c.entries, principal)
	c.invalidated = append(c.invalidated, principal)
	return nil
}

func newService(t *testing.T) (*Service, *audit.InMemoryStore) {
	t.Helper()
	auditStore := audit.NewInMemoryStore()
	svc := New(kyc.NewInMemoryLedger(), nil, audit.NewPublisher(auditStore), nil, slog.Default())
	return svc, auditStore
}

func TestSubmitThenReviewLifecycle(t *testing.T) {
	svc, auditStore := newService(t)
	ctx := context.Background()

	assert.Equal(t, kyc.StatusNotVerified, svc.Status(ctx, "alice"))

	sub, err := svc.Submit(ctx, "alice", true, "proof-blob")
	require.NoError(t, err)
	assert.NotEmpty(t, sub.ID)
	assert.Equal(t, kyc.StatusPending, sub.Status)
	assert.Equal(t, kyc.StatusInReview, svc.Status(ctx, "alice"))

	reviewed, err := svc.Approve(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, kyc.StatusApproved, reviewed.Status)
	require.NotNil(t, reviewed.ReviewedAt)
	assert.Equal(t, kyc.StatusVerified, svc.Status(ctx, "alice"))

	// A second review finds nothing pending; the approved outcome stands.
	_, err = svc.Reject(ctx, "alice")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
	assert.Equal(t, kyc.StatusVerified, svc.Status(ctx, "alice"))

	events, err := auditStore.ListByPrincipal(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, audit.ActionKYCSubmitted, events[0].Action)
	assert.Equal(t, audit.ActionKYCApproved, events[1].Action)
}

func TestRejectedOutcomeProjectsRejected(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Submit(ctx, "bob", false, "proof-blob")
	require.NoError(t, err)

	_, err = svc.Reject(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, kyc.StatusDenied, svc.Status(ctx, "bob"))
}

func TestReviewWithoutSubmissionConflicts(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Approve(context.Background(), "nobody")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
}

func TestResubmitAfterRejection(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Submit(ctx, "carol", true, "proof-v1")
	require.NoError(t, err)
	_, err = svc.Reject(ctx, "carol")
	require.NoError(t, err)
	assert.Equal(t, kyc.StatusDenied, svc.Status(ctx, "carol"))

	_, err = svc.Submit(ctx, "carol", true, "proof-v2")
	require.NoError(t, err)
	assert.Equal(t, kyc.StatusInReview, svc.Status(ctx, "carol"))

	_, err = svc.Approve(ctx, "carol")
	require.NoError(t, err)
	assert.Equal(t, kyc.StatusVerified, svc.Status(ctx, "carol"))
}

func TestSubmitValidation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Submit(ctx, "", true, "proof")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))

	_, err = svc.Submit(ctx, "alice", true, "")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func TestStatusDegradesToUnknown(t *testing.T) {
	svc := New(failingLedger{}, nil, audit.NewPublisher(audit.NewInMemoryStore()), nil, slog.Default())

	assert.Equal(t, kyc.StatusUnknown, svc.Status(context.Background(), "alice"))
}

func TestSubmitFailureIsExplicitAndLogged(t *testing.T) {
	var logBuf bytes.Buffer
	svc := New(failingLedger{}, nil, audit.NewPublisher(audit.NewInMemoryStore()), nil,
		slog.New(slog.NewJSONHandler(&logBuf, nil)))

	_, err := svc.Submit(context.Background(), "alice", true, "proof")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))

	// The storage detail is logged, not exposed to the caller's message.
	assert.Contains(t, logBuf.String(), "connection refused")
	assert.Equal(t, "submission failed, retry", dErrors.MessageOf(err))
}

func TestReviewFailureIsExplicitAndLogged(t *testing.T) {
	var logBuf bytes.Buffer
	svc := New(failingLedger{}, nil, audit.NewPublisher(audit.NewInMemoryStore()), nil,
		slog.New(slog.NewJSONHandler(&logBuf, nil)))

	_, err := svc.Approve(context.Background(), "alice")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
	assert.Contains(t, logBuf.String(), "connection refused")
}

func TestStatusUsesCache(t *testing.T) {
	cache := newFakeCache()
	svc := New(kyc.NewInMemoryLedger(), cache, audit.NewPublisher(audit.NewInMemoryStore()), nil, slog.Default())
	ctx := context.Background()

	// Miss populates the cache.
	assert.Equal(t, kyc.StatusNotVerified, svc.Status(ctx, "alice"))
	assert.Equal(t, kyc.StatusNotVerified, cache.entries["alice"])

	// A poisoned entry proves the hit path short-circuits the ledger.
	cache.entries["alice"] = kyc.StatusVerified
	assert.Equal(t, kyc.StatusVerified, svc.Status(ctx, "alice"))
}

func TestWritesInvalidateCache(t *testing.T) {
	cache := newFakeCache()
	svc := New(kyc.NewInMemoryLedger(), cache, audit.NewPublisher(audit.NewInMemoryStore()), nil, slog.Default())
	ctx := context.Background()

	_, err := svc.Submit(ctx, "alice", true, "proof")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, cache.invalidated)

	_, err = svc.Approve(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "alice"}, cache.invalidated)
}
