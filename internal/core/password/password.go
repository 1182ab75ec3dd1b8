package password

import (
	"crypto/subtle"
	"fmt"

	"github.com/frahmantamala/project-management/internal"
	"golang.org/x/crypto/bcrypt"
)

type Hasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) bool
}

type Bcrypt struct {
	Cost int
}

func (b Bcrypt) Hash(plain string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (b Bcrypt) Compare(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// Plain stores passwords as-is. Only for demo data and tests.
type Plain struct{}

func (Plain) Hash(plain string) (string, error) {
	return plain, nil
}

func (Plain) Compare(hash, plain string) bool {
	return subtle.ConstantTimeCompare([]byte(hash), []byte(plain)) == 1
}

func FromConfig(cfg internal.SecurityConfig) (Hasher, error) {
	switch cfg.PasswordHashing {
	case internal.PasswordHashingBcrypt, "":
		return Bcrypt{Cost: cfg.BCryptCost}, nil
	case internal.PasswordHashingPlain:
		return Plain{}, nil
	default:
		return nil, fmt.Errorf("unknown password hashing %q", cfg.PasswordHashing)
	}
}
