package auth

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Credentials are what an admin submits on the login form.
type Credentials struct {
	Email    string
	Password string
}

// CredentialStore decides whether credentials belong to an admin.
type CredentialStore interface {
	Verify(ctx context.Context, creds Credentials) bool
}

var _ CredentialStore = (*StaticCredentialStore)(nil)

// StaticCredentialStore checks against a fixed table of email to bcrypt hash.
type StaticCredentialStore struct {
	hashes map[string][]byte
}

// NewStaticCredentialStore builds a store from email → bcrypt hash entries.
// Entries with an empty hash are skipped; malformed hashes are rejected.
func NewStaticCredentialStore(entries map[string]string) (*StaticCredentialStore, error) {
	hashes := make(map[string][]byte, len(entries))
	for email, hash := range entries {
		if hash == "" {
			continue
		}
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, fmt.Errorf("invalid bcrypt hash for %s: %w", email, err)
		}
		hashes[normalizeEmail(email)] = []byte(hash)
	}

	return &StaticCredentialStore{hashes: hashes}, nil
}

// Len returns the number of admins that can log in.
func (s *StaticCredentialStore) Len() int {
	return len(s.hashes)
}

func (s *StaticCredentialStore) Verify(_ context.Context, creds Credentials) bool {
	hash, ok := s.hashes[normalizeEmail(creds.Email)]
	if !ok {
		// keep timing similar for unknown emails
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(creds.Password))
		return false
	}

	return bcrypt.CompareHashAndPassword(hash, []byte(creds.Password)) == nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var dummyHash = mustHash("unused-password")

func mustHash(password string) []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return hash
}

