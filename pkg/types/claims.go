package types

import "github.com/golang-jwt/jwt/v5"

// Claims is the JWT payload. The token is scoped to one group; the member's
// role is looked up per request so that role changes apply immediately.
type Claims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	GroupID  uint   `json:"group_id"`
	jwt.RegisteredClaims
}

// Caller is the identity every service operation runs under.
type Caller struct {
	UserID    uint
	MemberID  uint
	GroupID   uint
	Role      string
	IP        string
	UserAgent string
}
