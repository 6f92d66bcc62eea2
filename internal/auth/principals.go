package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Credential is a stored principal record: a username and the bcrypt hash
// of its password.
type Credential struct {
	Username     string
	PasswordHash []byte
}

// PrincipalStore resolves usernames to credentials. Where principals come
// from is the caller's concern; the gate only needs lookup.
type PrincipalStore interface {
	Lookup(username string) (Credential, bool)
}

// StaticPrincipals is an in-memory PrincipalStore seeded at startup.
type StaticPrincipals map[string]Credential

func NewStaticPrincipals(username, password string) (StaticPrincipals, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}
	return StaticPrincipals{
		username: {Username: username, PasswordHash: hash},
	}, nil
}

func (p StaticPrincipals) Lookup(username string) (Credential, bool) {
	cred, ok := p[username]
	return cred, ok
}
