package utils

import (
	"errors"
	"time"

	"vaultguard/config"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidSession is returned for every session token rejection. Expired,
// tampered and malformed tokens are deliberately indistinguishable to callers.
var ErrInvalidSession = errors.New("invalid or expired session")

// SessionTTL returns the configured session lifetime.
func SessionTTL() time.Duration {
	seconds := config.AppConfig.SessionTTLSeconds
	if seconds <= 0 {
		seconds = 3600
	}
	return time.Duration(seconds) * time.Second
}

// GenerateSessionToken creates a signed JWT asserting the given account ID as
// subject. The token expires after the configured session lifetime.
func GenerateSessionToken(accountID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": accountID,
		"iat": now.Unix(),
		"exp": now.Add(SessionTTL()).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.JWTSecret))
}

// ValidateSessionToken parses and validates a session token and returns the
// account ID it asserts. Any failure maps to ErrInvalidSession.
func ValidateSessionToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(config.AppConfig.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidSession
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidSession
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", ErrInvalidSession
	}
	return sub, nil
}
