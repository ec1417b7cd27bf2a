package kyc

import (
	"context"
	"time"
)

// Ledger is the append-only record of verification attempts. Implementations
// return sentinel.ErrNotFound for absence and wrap driver failures with
// sentinel.ErrUnavailable.
//
// Append never rejects duplicates: multiple pending submissions per principal
// are permitted, and most-recent-wins read semantics resolve ambiguity.
type Ledger interface {
	// Append records a new pending submission and returns it with its ID.
	Append(ctx context.Context, submission Submission) (*Submission, error)
	// Latest returns the submission with maximum SubmittedAt for the
	// principal; ties are broken by insertion order (last inserted wins).
	Latest(ctx context.Context, principal string) (*Submission, error)
	// TransitionPending conditionally moves one pending submission for the
	// principal to a terminal status. The update applies only while the
	// record is still pending, so concurrent reviews produce at most one
	// winner. Returns sentinel.ErrNotFound when nothing is pending.
	TransitionPending(ctx context.Context, principal string, to SubmissionStatus, reviewedAt time.Time) (*Submission, error)
}
