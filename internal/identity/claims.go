package identity

import (
	dErrors "veriportal/pkg/domain-errors"
)

// Claims is the validated identity handed to the core by the identity
// provider. The principal is an opaque stable identifier issued externally;
// it is never generated locally. Everything else is optional profile data.
type Claims struct {
	Principal   string
	DisplayName string
	AvatarURL   string
	Email       string
}

// Validate enforces the boundary contract: a principal must be present before
// any principal-keyed operation runs.
func (c Claims) Validate() error {
	if c.Principal == "" {
		return dErrors.New(dErrors.CodeUnauthorized, "missing principal")
	}
	return nil
}
