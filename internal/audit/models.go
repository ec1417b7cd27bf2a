package audit

import "time"

// Actions emitted by the portal core.
const (
	ActionProfileUpdated = "profile.updated"
	ActionKYCSubmitted   = "kyc.submitted"
	ActionKYCApproved    = "kyc.approved"
	ActionKYCRejected    = "kyc.rejected"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Principal string    `json:"principal"`
	Action    string    `json:"action"`
	Actor     string    `json:"actor,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}
