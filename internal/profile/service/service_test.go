package service

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veriportal/internal/audit"
	"veriportal/internal/identity"
	"veriportal/internal/profile"
	dErrors "veriportal/pkg/domain-errors"
	"veriportal/pkg/platform/sentinel"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// failingStore simulates an unreachable backing store.
type failingStore struct{}

func (failingStore) Get(context.Context, string) (*profile.Override, error) {
	return nil, sentinel.ErrUnavailable
}

func (failingStore) Upsert(context.Context, profile.Override) error {
	return sentinel.ErrUnavailable
}

func newService(store profile.Store) (*Service, *audit.Publisher) {
	pub := audit.NewPublisher(audit.NewInMemoryStore())
	return New(store, pub, discardLogger()), pub
}

func TestEffectiveProfileMergesOverride(t *testing.T) {
	store := profile.NewInMemoryStore()
	svc, _ := newService(store)
	ctx := context.Background()

	require.NoError(t, svc.SetOverride(ctx, "auth0|u1", "Alice", ""))

	got := svc.EffectiveProfile(ctx, identity.Claims{
		Principal:   "auth0|u1",
		DisplayName: "IdP Name",
		Email:       "a@b.com",
	})
	assert.Equal(t, "Alice", got.DisplayName)
	assert.Contains(t, got.AvatarURL, "gravatar.com")
}

func TestEffectiveProfileDegradesOnStorageFailure(t *testing.T) {
	svc, _ := newService(failingStore{})

	got := svc.EffectiveProfile(context.Background(), identity.Claims{
		Principal:   "auth0|u1",
		DisplayName: "IdP Name",
	})
	// Lookup failure must not fail the read; claims-only view is served.
	assert.Equal(t, "IdP Name", got.DisplayName)
}

func TestSetOverridePreservesAbsentFields(t *testing.T) {
	store := profile.NewInMemoryStore()
	svc, _ := newService(store)
	ctx := context.Background()

	require.NoError(t, svc.SetOverride(ctx, "auth0|u1", "Alice", ""))
	require.NoError(t, svc.SetOverride(ctx, "auth0|u1", "", "url2"))

	stored, err := store.Get(ctx, "auth0|u1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", stored.DisplayName)
	assert.Equal(t, "url2", stored.AvatarURL)
}

func TestSetOverrideRejectsEmptyInput(t *testing.T) {
	svc, _ := newService(profile.NewInMemoryStore())

	err := svc.SetOverride(context.Background(), "auth0|u1", "", "")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func TestSetOverridePropagatesWriteFailure(t *testing.T) {
	var logBuf bytes.Buffer
	pub := audit.NewPublisher(audit.NewInMemoryStore())
	svc := New(failingStore{}, pub, slog.New(slog.NewJSONHandler(&logBuf, nil)))

	err := svc.SetOverride(context.Background(), "auth0|u1", "Alice", "")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))

	// The storage detail is logged; the caller only sees the retry message.
	assert.Contains(t, logBuf.String(), "override upsert failed")
	assert.Contains(t, logBuf.String(), sentinel.ErrUnavailable.Error())
	assert.Equal(t, "profile update failed, retry", dErrors.MessageOf(err))
}

func TestSetOverrideEmitsAudit(t *testing.T) {
	svc, pub := newService(profile.NewInMemoryStore())
	ctx := context.Background()

	require.NoError(t, svc.SetOverride(ctx, "auth0|u1", "Alice", ""))

	events, err := pub.List(ctx, "auth0|u1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, audit.ActionProfileUpdated, events[0].Action)
}
