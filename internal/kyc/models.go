package kyc

import "time"

// SubmissionStatus is the lifecycle state of one ledger entry.
//
// Transitions: pending -> approved | rejected, both terminal. No other edges.
type SubmissionStatus string

const (
	StatusPending  SubmissionStatus = "pending"
	StatusApproved SubmissionStatus = "approved"
	StatusRejected SubmissionStatus = "rejected"
)

// IsTerminal reports whether no further transition is defined.
func (s SubmissionStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// CanTransitionTo enforces the one-shot review state machine.
func (s SubmissionStatus) CanTransitionTo(to SubmissionStatus) bool {
	return s == StatusPending && to.IsTerminal()
}

// Submission is one ledger entry. Immutable once created except for Status,
// which transitions exactly once. ProofPayload is an opaque caller-supplied
// string; the portal never reconstructs or verifies it.
type Submission struct {
	ID           string
	Principal    string
	AgeAssertion bool
	ProofPayload string
	SubmittedAt  time.Time
	Status       SubmissionStatus
	ReviewedAt   *time.Time
}

// VerificationStatus is the single user-facing label derived from the
// authoritative submission. Unknown is the degraded-read fallback; it is
// never stored.
type VerificationStatus string

const (
	StatusNotVerified VerificationStatus = "not_verified"
	StatusInReview    VerificationStatus = "pending"
	StatusVerified    VerificationStatus = "verified"
	StatusDenied      VerificationStatus = "rejected"
	StatusUnknown     VerificationStatus = "unknown"
)
