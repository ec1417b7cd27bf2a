package kyc

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"veriportal/pkg/platform/sentinel"
)

// PostgresLedger persists submissions in PostgreSQL. The seq column is a
// bigserial used only as the tie-breaker for equal submitted_at values, so
// "last inserted wins" holds without relying on clock resolution.
//
// Schema:
//
//	CREATE TABLE kyc_submissions (
//	    id            UUID PRIMARY KEY,
//	    seq           BIGSERIAL NOT NULL,
//	    principal     TEXT NOT NULL,
//	    age_assertion BOOLEAN NOT NULL,
//	    proof_payload TEXT NOT NULL,
//	    submitted_at  TIMESTAMPTZ NOT NULL,
//	    status        TEXT NOT NULL,
//	    reviewed_at   TIMESTAMPTZ
//	);
//	CREATE INDEX kyc_submissions_principal_idx ON kyc_submissions (principal, submitted_at DESC, seq DESC);
type PostgresLedger struct {
	db *sql.DB
}

func NewPostgresLedger(db *sql.DB) *PostgresLedger {
	return &PostgresLedger{db: db}
}

func (l *PostgresLedger) Append(ctx context.Context, submission Submission) (*Submission, error) {
	query := `
		INSERT INTO kyc_submissions (id, principal, age_assertion, proof_payload, submitted_at, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, principal, age_assertion, proof_payload, submitted_at, status, reviewed_at
	`
	submission.ID = uuid.NewString()
	submission.Status = StatusPending
	stored, err := scanSubmission(l.db.QueryRowContext(ctx, query,
		submission.ID,
		submission.Principal,
		submission.AgeAssertion,
		submission.ProofPayload,
		submission.SubmittedAt,
		submission.Status,
	))
	if err != nil {
		return nil, fmt.Errorf("append submission: %w: %v", sentinel.ErrUnavailable, err)
	}
	return stored, nil
}

func (l *PostgresLedger) Latest(ctx context.Context, principal string) (*Submission, error) {
	query := `
		SELECT id, principal, age_assertion, proof_payload, submitted_at, status, reviewed_at
		FROM kyc_submissions
		WHERE principal = $1
		ORDER BY submitted_at DESC, seq DESC
		LIMIT 1
	`
	stored, err := scanSubmission(l.db.QueryRowContext(ctx, query, principal))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("latest submission: %w: %v", sentinel.ErrUnavailable, err)
	}
	return stored, nil
}

// TransitionPending applies the review as one conditional UPDATE: the inner
// select picks the most recent pending row, and the status guard on the
// UPDATE itself means a concurrent reviewer that lost the race matches zero
// rows instead of overwriting a terminal record.
func (l *PostgresLedger) TransitionPending(ctx context.Context, principal string, to SubmissionStatus, reviewedAt time.Time) (*Submission, error) {
	if !StatusPending.CanTransitionTo(to) {
		return nil, sentinel.ErrInvalidState
	}
	query := `
		UPDATE kyc_submissions
		SET status = $2, reviewed_at = $3
		WHERE id = (
			SELECT id FROM kyc_submissions
			WHERE principal = $1 AND status = 'pending'
			ORDER BY submitted_at DESC, seq DESC
			LIMIT 1
		)
		AND status = 'pending'
		RETURNING id, principal, age_assertion, proof_payload, submitted_at, status, reviewed_at
	`
	stored, err := scanSubmission(l.db.QueryRowContext(ctx, query, principal, to, reviewedAt))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("transition submission: %w: %v", sentinel.ErrUnavailable, err)
	}
	return stored, nil
}

type submissionRow interface {
	Scan(dest ...any) error
}

func scanSubmission(row submissionRow) (*Submission, error) {
	var submission Submission
	var reviewedAt sql.NullTime
	if err := row.Scan(
		&submission.ID,
		&submission.Principal,
		&submission.AgeAssertion,
		&submission.ProofPayload,
		&submission.SubmittedAt,
		&submission.Status,
		&reviewedAt,
	); err != nil {
		return nil, err
	}
	if reviewedAt.Valid {
		submission.ReviewedAt = &reviewedAt.Time
	}
	return &submission, nil
}
