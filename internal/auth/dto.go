package auth

import (
	"time"

	"github.com/jirasak-dev/stockledger/internal/users"
)

// Claim types stored at registration and echoed into the token claim bag.
const (
	ClaimTypeFirstName = "FirstName"
	ClaimTypeLastName  = "LastName"
)

// RegisterRequest carries a new account's credentials and profile claims.
type RegisterRequest struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// LoginRequest carries the credentials presented at login.
type LoginRequest struct {
	Email    string
	Password string
}

// LoginResponse is the successful login payload.
type LoginResponse struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	ExpiresAt   time.Time       `json:"expires_at"`
	User        *users.UserDTO  `json:"user"`
}
