package auth

import "github.com/golang-jwt/jwt/v5"

// Well-known claim types. Every authenticated request must carry an Id
// claim; downstream ownership checks depend on it.
const (
	ClaimTypeID   = "Id"
	ClaimTypeRole = "Role"
)

// ClaimSet maps a claim type to one or more values. Multi-valued types
// (several roles, for example) are allowed; values are deduplicated on Add.
type ClaimSet map[string][]string

// NewClaimSet builds an empty claim set.
func NewClaimSet() ClaimSet {
	return ClaimSet{}
}

// Add appends a value for the given type, dropping exact duplicates.
func (s ClaimSet) Add(claimType, value string) {
	if claimType == "" || value == "" {
		return
	}
	for _, existing := range s[claimType] {
		if existing == value {
			return
		}
	}
	s[claimType] = append(s[claimType], value)
}

// First returns the first value for the given type, or "".
func (s ClaimSet) First(claimType string) string {
	if values := s[claimType]; len(values) > 0 {
		return values[0]
	}
	return ""
}

// Values returns every value recorded for the given type.
func (s ClaimSet) Values(claimType string) []string {
	return append([]string(nil), s[claimType]...)
}

// UserID returns the stable user identifier claim.
func (s ClaimSet) UserID() string {
	return s.First(ClaimTypeID)
}

// Roles returns all role claims.
func (s ClaimSet) Roles() []string {
	return s.Values(ClaimTypeRole)
}

// AccessTokenClaims is the JWT payload: the claim bag plus registered claims.
type AccessTokenClaims struct {
	ClaimSet ClaimSet `json:"claims"`
	jwt.RegisteredClaims
}
