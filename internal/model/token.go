package model

import "time"

// TokenTTL is the lifetime of every session token.
const TokenTTL = 24 * time.Hour

// Claims is the decoded payload of a session token. Role is a copy taken at
// issue time and must not be used for authorization decisions.
type Claims struct {
	Email        string
	Role         Role
	PersonalCode string
	Name         string
	IssuedAt     time.Time
	ExpiresAt    time.Time
}

// TokenManager issues and decodes session tokens.
type TokenManager interface {
	Issue(user User) (string, error)
	Decode(token string) (Claims, error)
}
