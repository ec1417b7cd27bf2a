package kyc

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"veriportal/pkg/platform/sentinel"
)

// InMemoryLedger keeps submissions in insertion order per principal. The
// mutex makes TransitionPending a single conditional update, matching the
// at-most-one-winner guarantee of the PostgreSQL implementation.
type InMemoryLedger struct {
	mu          sync.RWMutex
	submissions map[string][]*Submission
}

func NewInMemoryLedger() *InMemoryLedger {
	return &InMemoryLedger{submissions: make(map[string][]*Submission)}
}

func (l *InMemoryLedger) Append(_ context.Context, submission Submission) (*Submission, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	submission.ID = uuid.NewString()
	submission.Status = StatusPending
	stored := submission
	l.submissions[submission.Principal] = append(l.submissions[submission.Principal], &stored)
	copied := stored
	return &copied, nil
}

func (l *InMemoryLedger) Latest(_ context.Context, principal string) (*Submission, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	latest := l.latestLocked(principal)
	if latest == nil {
		return nil, sentinel.ErrNotFound
	}
	copied := *latest
	return &copied, nil
}

// latestLocked scans in insertion order; >= makes the last appended entry win
// timestamp ties.
func (l *InMemoryLedger) latestLocked(principal string) *Submission {
	var latest *Submission
	for _, s := range l.submissions[principal] {
		if latest == nil || !s.SubmittedAt.Before(latest.SubmittedAt) {
			latest = s
		}
	}
	return latest
}

func (l *InMemoryLedger) TransitionPending(_ context.Context, principal string, to SubmissionStatus, reviewedAt time.Time) (*Submission, error) {
	if !StatusPending.CanTransitionTo(to) {
		return nil, sentinel.ErrInvalidState
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Most recent pending entry; the check-and-set happens under one lock so
	// racing reviews cannot both observe the same pending record.
	var target *Submission
	for _, s := range l.submissions[principal] {
		if s.Status != StatusPending {
			continue
		}
		if target == nil || !s.SubmittedAt.Before(target.SubmittedAt) {
			target = s
		}
	}
	if target == nil {
		return nil, sentinel.ErrNotFound
	}

	target.Status = to
	at := reviewedAt
	target.ReviewedAt = &at
	copied := *target
	return &copied, nil
}
