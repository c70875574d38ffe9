// Package guard answers the two small authorization questions the rest of
// the service needs: who is acting, and do they own the resource.
package guard

import (
	"github.com/google/uuid"

	"github.com/jirasak-dev/stockledger/pkg/auth"
)

// ActingUser extracts the acting user's id from a verified claim bag.
// It returns false when the "Id" claim is absent or is not a UUID; callers
// treat that as a malformed token rather than an anonymous request.
func ActingUser(claims auth.ClaimSet) (uuid.UUID, bool) {
	raw := claims.UserID()
	if raw == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// IsOwner reports whether the acting user owns the resource.
func IsOwner(ownerID, actingID uuid.UUID) bool {
	if actingID == uuid.Nil {
		return false
	}
	return ownerID == actingID
}
