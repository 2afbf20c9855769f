// Package auth produces the bearer tokens the cases send.
package auth

import (
	"fmt"
	"os"
	"strings"

	apperrors "chat-tester/pkg/errors"

	"github.com/golang-jwt/jwt"
)

// Mint signs an HS256 token carrying the user row, the way the chat server
// derives identity from it.
func Mint(secret string, userID int64, username string) (string, error) {
	if secret == "" {
		return "", apperrors.New(apperrors.CodeTokenMissing, "signing secret is empty")
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       userID,
		"username": username,
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeTokenMissing, "sign token failed", err)
	}
	return signed, nil
}

// ParseUserID verifies an HS256 token and returns its id claim.
func ParseUserID(secret, tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return 0, apperrors.Wrap(apperrors.CodeUnauthorized, "invalid token", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, apperrors.ErrUnauthorized
	}
	id, ok := claims["id"].(float64)
	if !ok {
		return 0, apperrors.New(apperrors.CodeUnauthorized, "token has no numeric id claim")
	}
	return int64(id), nil
}

// BearerToken extracts the token part of an Authorization header value.
func BearerToken(header string) string {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// Source describes where the valid token comes from.
type Source struct {
	Token     string
	SecretEnv string
	UserID    int64
	Username  string
}

// Resolve returns the configured token, or mints one from the secret found
// in the environment when no literal is configured.
func Resolve(src Source) (string, error) {
	if token := strings.TrimSpace(src.Token); token != "" {
		return token, nil
	}
	if src.SecretEnv == "" {
		return "", apperrors.ErrTokenMissing
	}
	secret := os.Getenv(src.SecretEnv)
	if secret == "" {
		return "", apperrors.WrapWithDetail(apperrors.CodeTokenMissing, "no token configured and secret env is empty", src.SecretEnv, nil)
	}
	return Mint(secret, src.UserID, src.Username)
}
