package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims carries only the subject user ID. The actor record is always
// re-resolved from the store on each request, never trusted from the token.
type JWTClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// AuthResponse is returned by register and both login flows.
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
