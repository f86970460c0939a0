// Package auth parses caller credentials: user session tokens minted by the
// managed auth provider, and shared bearer secrets for machine endpoints.
package auth

import (
	"crypto/subtle"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the authenticated user extracted from a session token.
type Identity struct {
	UserID string
	Email  string
	Name   string
}

// SessionVerifier validates HS256 session tokens issued by the auth provider
// with a shared signing secret.
type SessionVerifier struct {
	secret []byte
}

// NewSessionVerifier creates a new session verifier
func NewSessionVerifier(secret string) *SessionVerifier {
	return &SessionVerifier{secret: []byte(secret)}
}

// ParseIdentity verifies an Authorization header value and extracts the
// caller's identity from the token claims.
func (v *SessionVerifier) ParseIdentity(authHeader string) (*Identity, error) {
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == "" {
		return nil, fmt.Errorf("no token presented")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to verify token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("token is not valid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, fmt.Errorf("no sub claim in token")
	}

	identity := &Identity{UserID: sub}
	if email, ok := claims["email"].(string); ok {
		identity.Email = email
	}
	if name, ok := claims["name"].(string); ok {
		identity.Name = name
	}

	return identity, nil
}

// BearerMatches checks a shared-secret Authorization header in constant time.
// An empty configured secret never matches.
func BearerMatches(authHeader, secret string) bool {
	if secret == "" {
		return false
	}
	presented := strings.TrimPrefix(authHeader, "Bearer ")
	return subtle.ConstantTimeCompare([]byte(presented), []byte(secret)) == 1
}
