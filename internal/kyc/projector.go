package kyc

// Project derives the user-facing verification status from the authoritative
// submission. Pure: no side effects, no storage access.
func Project(latest *Submission) VerificationStatus {
	if latest == nil {
		return StatusNotVerified
	}
	switch latest.Status {
	case StatusPending:
		return StatusInReview
	case StatusApproved:
		return StatusVerified
	case StatusRejected:
		return StatusDenied
	default:
		return StatusNotVerified
	}
}
