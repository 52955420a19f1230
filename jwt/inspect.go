package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// ErrNotAJWT is returned when the token does not parse as a JWT at all.
var ErrNotAJWT = errors.New("token is not a jwt")

// Claims is the subset of token claims the client cares about. Zero-value
// times mean the claim was absent.
type Claims struct {
	Subject   string
	Email     string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Inspector parses tokens without signature verification.
type Inspector struct {
	parser *gojwt.Parser
	now    func() time.Time
}

// NewInspector creates an Inspector using the real clock.
func NewInspector() *Inspector {
	return &Inspector{
		parser: gojwt.NewParser(),
		now:    time.Now,
	}
}

// NewInspectorAt creates an Inspector with an injected clock, for tests.
func NewInspectorAt(now func() time.Time) *Inspector {
	return &Inspector{
		parser: gojwt.NewParser(),
		now:    now,
	}
}

// Inspect decodes the token's claims without verifying its signature.
func (i *Inspector) Inspect(token string) (*Claims, error) {
	claims := gojwt.MapClaims{}
	if _, _, err := i.parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotAJWT, err)
	}

	out := &Claims{}
	if sub, err := claims.GetSubject(); err == nil {
		out.Subject = sub
	}
	if email, ok := claims["email"].(string); ok {
		out.Email = email
	}
	if role, ok := claims["role"].(string); ok {
		out.Role = role
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		out.IssuedAt = iat.Time
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}

	return out, nil
}

// Expired reports whether the token is a JWT carrying an exp claim in the
// past. Opaque tokens and JWTs without exp report false: absent evidence of
// expiry, the stored credential stays valid until logout.
func (i *Inspector) Expired(token string) bool {
	claims, err := i.Inspect(token)
	if err != nil {
		return false
	}
	if claims.ExpiresAt.IsZero() {
		return false
	}
	return claims.ExpiresAt.Before(i.now())
}
