// Package id generates opaque identifiers.
package id

import (
	"encoding/base32"
	"strings"

	"github.com/google/uuid"
)

var encoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// NewID returns a random v4 UUID rendered as 26 lowercase base32 characters.
func NewID() (string, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return strings.ToLower(encoding.EncodeToString(u[:])), nil
}

// NewUUID returns a random v4 UUID in its canonical hyphenated form.
func NewUUID() (string, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return u.String(), nil
}
