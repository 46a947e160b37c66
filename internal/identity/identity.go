package identity

import (
	"fmt"

	"github.com/google/uuid"
)

// CanonicalLen is the length of a canonical identifier string: 32 hex
// digits in five hyphen-separated groups.
const CanonicalLen = 36

// Identity is the 128-bit identifier naming one simulated node. Its
// canonical rendering is the lowercase hyphenated form, which is also the
// record file name under the Nodes directory.
type Identity struct {
	id uuid.UUID
}

// Parse validates s as a canonical identifier. Only the 36-character
// hyphenated form is accepted; hex case is ignored. Anything else returns
// an invalid-identifier error.
func Parse(s string) (Identity, error) {
	if len(s) != CanonicalLen {
		return Identity{}, NewInvalidIdentifierError(s,
			fmt.Errorf("expected %d characters, got %d", CanonicalLen, len(s)))
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return Identity{}, NewInvalidIdentifierError(s, err)
	}
	return Identity{id: id}, nil
}

// New generates a fresh random identity.
func New() (Identity, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return Identity{}, fmt.Errorf("failed to generate identifier: %w", err)
	}
	return Identity{id: id}, nil
}

// String returns the canonical lowercase hyphenated rendering.
func (i Identity) String() string {
	return i.id.String()
}

// IsZero reports whether the identity is the unset zero value.
func (i Identity) IsZero() bool {
	return i.id == uuid.UUID{}
}
