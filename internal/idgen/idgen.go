// Package idgen provides node id generation. Short ids are random and not
// checked against existing nodes; use UUID when collisions must be ruled out.
package idgen

import (
	"fmt"

	"github.com/google/uuid"
	nanoid "github.com/matoous/go-nanoid/v2"
)

// Alphabet is the character set of short ids.
var Alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// Length is the number of characters in a short id.
var Length = 6

// Generator returns a fresh node id.
type Generator func() (string, error)

// Short returns a random alphanumeric id of Length characters.
func Short() (string, error) {
	id, err := nanoid.Generate(Alphabet, Length)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return id, nil
}

// UUID returns a random version 4 UUID string.
func UUID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return id.String(), nil
}

// ByName resolves a generator from its configuration name.
func ByName(name string) (Generator, error) {
	switch name {
	case "", "short":
		return Short, nil
	case "uuid":
		return UUID, nil
	default:
		return nil, fmt.Errorf("idgen: unknown generator %q (want short or uuid)", name)
	}
}
