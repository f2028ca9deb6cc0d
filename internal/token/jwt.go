package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dtroode/deltacargo-server/internal/model"
)

// Claims represents JWT claims carried by a session token.
type Claims struct {
	jwt.RegisteredClaims
	Role         string `json:"role"`
	PersonalCode string `json:"personal_code"`
	Name         string `json:"name"`
}

// JWT implements TokenManager backed by symmetric HMAC.
type JWT struct {
	secretKey []byte
	ttl       time.Duration
	now       func() time.Time
}

var _ model.TokenManager = (*JWT)(nil)

// NewJWT creates a new JWT token manager with the provided secret key.
func NewJWT(secretKey string) *JWT {
	return &JWT{
		secretKey: []byte(secretKey),
		ttl:       model.TokenTTL,
		now:       time.Now,
	}
}

// Issue creates a signed session token for user.
func (j *JWT) Issue(user model.User) (string, error) {
	now := j.now().Truncate(time.Second)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
		Role:         string(user.Role),
		PersonalCode: user.PersonalCode,
		Name:         user.Name,
	})

	tokenString, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Decode verifies signature, algorithm and expiry and returns the claims.
// Failures are reported as model.ErrTokenExpired or model.ErrTokenInvalid.
func (j *JWT) Decode(tokenString string) (model.Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return j.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return model.Claims{}, fmt.Errorf("%w: %w", model.ErrTokenExpired, err)
		}
		return model.Claims{}, fmt.Errorf("%w: %w", model.ErrTokenInvalid, err)
	}
	if !token.Valid || claims.Subject == "" {
		return model.Claims{}, model.ErrTokenInvalid
	}

	out := model.Claims{
		Email:        claims.Subject,
		Role:         model.Role(claims.Role),
		PersonalCode: claims.PersonalCode,
		Name:         claims.Name,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
