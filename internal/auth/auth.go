package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"employee-records/internal/apperror"
)

// The same message covers unknown usernames and wrong passwords so a caller
// cannot tell which part failed.
const badCredentialsMessage = "incorrect username or password"

// Service issues and verifies signed, time-limited bearer tokens.
type Service struct {
	principals PrincipalStore
	secret     []byte
	ttl        time.Duration
}

func NewService(principals PrincipalStore, secret string, ttl time.Duration) *Service {
	return &Service{
		principals: principals,
		secret:     []byte(secret),
		ttl:        ttl,
	}
}

// Authenticate verifies a username/password pair and issues an HS256 token
// carrying the principal as subject, expiring after the configured TTL.
func (s *Service) Authenticate(username, password string) (string, error) {
	cred, ok := s.principals.Lookup(username)
	if !ok {
		return "", apperror.New(apperror.CodeUnauthorized, badCredentialsMessage)
	}
	if err := bcrypt.CompareHashAndPassword(cred.PasswordHash, []byte(password)); err != nil {
		return "", apperror.New(apperror.CodeUnauthorized, badCredentialsMessage)
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   cred.Username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the principal identity.
// Expiry is the only invalidation path; there is no revocation list.
func (s *Service) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", apperror.New(apperror.CodeUnauthorized, "invalid or expired token")
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", apperror.New(apperror.CodeUnauthorized, "invalid or expired token")
	}
	return claims.Subject, nil
}
