package kyc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProject(t *testing.T) {
	tests := []struct {
		name   string
		latest *Submission
		want   VerificationStatus
	}{
		{"no submission", nil, StatusNotVerified},
		{"pending", &Submission{Status: StatusPending}, StatusInReview},
		{"approved", &Submission{Status: StatusApproved}, StatusVerified},
		{"rejected", &Submission{Status: StatusRejected}, StatusDenied},
		{"unrecognized status", &Submission{Status: "corrupted"}, StatusNotVerified},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Project(tt.latest))
		})
	}
}

func TestStatusTransitions(t *testing.T) {
	assert.True(t, StatusPending.CanTransitionTo(StatusApproved))
	assert.True(t, StatusPending.CanTransitionTo(StatusRejected))
	assert.False(t, StatusApproved.CanTransitionTo(StatusRejected))
	assert.False(t, StatusRejected.CanTransitionTo(StatusApproved))
	assert.False(t, StatusPending.CanTransitionTo(StatusPending))
}
