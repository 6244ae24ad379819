package hisaab

import (
	"fmt"

	"github.com/google/uuid"
)

// IDSource yields opaque unique identifiers for records and groups.
// Identifiers carry no meaning; tests inject a sequential source so two runs
// over the same input compare byte-identical.
type IDSource interface {
	NewID() string
}

type randomIDs struct{}

func (randomIDs) NewID() string { return uuid.NewString() }

// RandomIDs returns the production identifier source.
func RandomIDs() IDSource { return randomIDs{} }

type sequenceIDs struct {
	prefix string
	n      int
}

func (s *sequenceIDs) NewID() string {
	s.n++
	return fmt.Sprintf("%s%04d", s.prefix, s.n)
}

// SequenceIDs returns a deterministic identifier source: prefix0001,
// prefix0002, ...
func SequenceIDs(prefix string) IDSource { return &sequenceIDs{prefix: prefix} }
