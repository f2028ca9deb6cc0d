package model

import "errors"

// Decode failures returned by a TokenManager instead of panics or raw parser errors.
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)
