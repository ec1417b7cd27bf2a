package profile

import (
	"crypto/md5"
	"encoding/hex"
	"strings"

	"veriportal/internal/identity"
	"veriportal/pkg/email"
)

// PlaceholderAvatarURL is served when neither the identity provider, the
// override, nor the email can supply an avatar.
const PlaceholderAvatarURL = "/static/default-avatar.png"

// Resolve merges an override onto identity-provider claims. Precedence per
// field: non-empty override value, then claims value, then a deterministic
// default derived from the email. Neither input is mutated.
func Resolve(claims identity.Claims, override *Override) EffectiveProfile {
	profile := EffectiveProfile{
		Principal:   claims.Principal,
		DisplayName: claims.DisplayName,
		AvatarURL:   claims.AvatarURL,
		Email:       claims.Email,
	}

	if override != nil {
		if override.DisplayName != "" {
			profile.DisplayName = override.DisplayName
		}
		if override.AvatarURL != "" {
			profile.AvatarURL = override.AvatarURL
		}
	}

	if profile.DisplayName == "" {
		profile.DisplayName = email.DeriveDisplayName(claims.Email)
	}
	if profile.AvatarURL == "" {
		profile.AvatarURL = defaultAvatarURL(claims.Email)
	}
	return profile
}

// defaultAvatarURL derives a stable Gravatar URL from the email so the same
// user always renders the same identicon.
func defaultAvatarURL(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return PlaceholderAvatarURL
	}
	sum := md5.Sum([]byte(email))
	return "https://www.gravatar.com/avatar/" + hex.EncodeToString(sum[:]) + "?d=identicon"
}
