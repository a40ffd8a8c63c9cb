// Package auth resolves the calling principal from bearer tokens minted by
// the platform auth service. Tokens are HS256 JWTs carrying user and org ids.
package auth

import (
	"context"
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vaultline/vaultline/internal/models"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrMissingOrg   = errors.New("token has no org")
)

// Claims is the token payload shared with the auth service.
type Claims struct {
	UserID string `json:"user_id"`
	OrgID  string `json:"org_id"`
	jwt.RegisteredClaims
}

// Verifier validates access tokens and extracts the principal.
type Verifier struct {
	secret []byte
	issuer string
}

// NewVerifier creates a Verifier for the shared HS256 secret.
func NewVerifier(secret, issuer string) *Verifier {
	return &Verifier{secret: []byte(secret), issuer: issuer}
}

// Verify validates tokenString and returns the authenticated principal.
func (v *Verifier) Verify(tokenString string) (*models.Principal, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256"})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	if claims.OrgID == "" {
		return nil, ErrMissingOrg
	}

	return &models.Principal{UserID: claims.UserID, OrgID: claims.OrgID}, nil
}

// principalKey is the context key for the authenticated principal.
type principalKey struct{}

// WithPrincipal stores the principal in the context.
func WithPrincipal(ctx context.Context, p *models.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom retrieves the principal from the context.
// Returns nil when the request was not authenticated.
func PrincipalFrom(ctx context.Context) *models.Principal {
	if p, ok := ctx.Value(principalKey{}).(*models.Principal); ok {
		return p
	}
	return nil
}
