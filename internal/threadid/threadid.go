// Package threadid mints ThreadIds: 128-bit values rendered as 32 lowercase
// hex digits.
//
// The original design seeded a process-wide PRNG once from a global flag.
// That hidden global state is replaced here with an explicit Generator
// collaborator that the Resolver takes as a dependency (and through it the
// Indexer), so tests can inject a
// scripted generator instead of relying on real randomness.
package threadid

import (
	"strings"

	"github.com/google/uuid"
)

// ThreadID is a 128-bit opaque identifier, rendered as 32 lowercase hex
// digits. It never contains the comma delimiter used to join multiple
// ThreadIds in a stored value.
type ThreadID string

// Generator mints fresh ThreadIds.
type Generator interface {
	New() ThreadID
}

// uuidGenerator mints ThreadIds from a version-4 UUID drawn from
// google/uuid, which reads crypto/rand: a high-entropy source per process,
// not the wall clock, so two processes starting in the same second do not
// share a seed. Of the 128 bits, 122 are random; the 6 version and variant
// bits are fixed.
type uuidGenerator struct{}

// NewGenerator returns the default, uuid-backed Generator.
func NewGenerator() Generator {
	return uuidGenerator{}
}

func (uuidGenerator) New() ThreadID {
	id := uuid.New()
	return ThreadID(strings.ReplaceAll(id.String(), "-", ""))
}
