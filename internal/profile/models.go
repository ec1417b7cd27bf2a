package profile

import "time"

// Override holds user-supplied profile overrides keyed by principal. At most
// one record per principal; edits replace the record wholesale, except that an
// absent input field keeps the previously stored value.
type Override struct {
	Principal   string
	DisplayName string
	AvatarURL   string
	UpdatedAt   time.Time
}

// EffectiveProfile is the merged view handed to the presentation layer. It is
// derived, never stored.
type EffectiveProfile struct {
	Principal   string `json:"principal"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
	Email       string `json:"email,omitempty"`
}
