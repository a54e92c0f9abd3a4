package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// JWTClaims represents the session token payload issued after Google login.
type JWTClaims struct {
	Email    string   `json:"email"`
	FullName string   `json:"fullName"`
	Role     UserRole `json:"role"`
	jwt.RegisteredClaims
}
