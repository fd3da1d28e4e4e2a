// Package identity consumes the external identity provider. The provider
// runs the email-plus-one-time-code exchange on its own; what reaches this
// service is a signed session token carrying a stable subject id and the
// verified email address. Nothing else of the provider's flow is modeled.
package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid identity token")
	ErrExpiredToken = errors.New("identity token has expired")
)

// Identity is the opaque output of the provider's exchange.
type Identity struct {
	Subject  string
	Email    string
	ImageURL string
}

type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// TokenVerifier validates provider session tokens signed with a shared
// secret (HS256).
type TokenVerifier struct {
	secret []byte
	issuer string
}

func NewTokenVerifier(secret, issuer string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret), issuer: issuer}
}

type sessionClaims struct {
	Email   string `json:"email"`
	Picture string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

func (v *TokenVerifier) Verify(ctx context.Context, tokenString string) (*Identity, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithIssuer(v.issuer), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid || claims.Subject == "" || claims.Email == "" {
		return nil, ErrInvalidToken
	}

	return &Identity{
		Subject:  claims.Subject,
		Email:    claims.Email,
		ImageURL: claims.Picture,
	}, nil
}
