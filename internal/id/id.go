// Package id generates prefixed, URL-safe identifiers for catalog entities.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Entity prefixes.
const (
	PrefixOwner      = "own"
	PrefixCategory   = "cat"
	PrefixItem       = "item"
	PrefixAssignment = "asg"
	PrefixReview     = "rev"
	PrefixToken      = "token"
)

// Generate creates a prefixed unique ID using NanoID.
// Format: prefix-nanoid (e.g., "asg-V1StGXR8_Z5jdHi6B-myT").
//
// Returns an error if the system has insufficient entropy for secure random generation.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
// Only for seeding and tests.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}
