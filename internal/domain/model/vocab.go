// Package model contains domain models passed between layers.
package model

import (
	"strings"
	"time"
)

// VocabEntry is one persisted dictionary word.
type VocabEntry struct {
	ID        int64     `json:"id" db:"id"`
	Word      string    `json:"word" db:"word"`
	WordType  *string   `json:"word_type" db:"word_type"`
	Meaning   *string   `json:"meaning" db:"meaning"`
	Example   *string   `json:"example" db:"example"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// VocabInput is the create shape for a dictionary word.
type VocabInput struct {
	Word     string  `json:"word"`
	WordType *string `json:"word_type,omitempty"`
	Meaning  *string `json:"meaning,omitempty"`
	Example  *string `json:"example,omitempty"`
}

// Blank reports whether the input carries no usable word.
func (in *VocabInput) Blank() bool {
	return in == nil || strings.TrimSpace(in.Word) == ""
}

// VocabPatch is a partial update of the mutable vocabulary fields.
// The word itself is the lookup key and cannot be patched.
type VocabPatch struct {
	WordType Patch `json:"word_type"`
	Meaning  Patch `json:"meaning"`
	Example  Patch `json:"example"`
}

// Empty reports whether no field is present in the patch.
func (p VocabPatch) Empty() bool {
	return !p.WordType.Set && !p.Meaning.Set && !p.Example.Set
}

// Apply copies every present field of p onto e.
func (p VocabPatch) Apply(e *VocabEntry) {
	if p.WordType.Set {
		e.WordType = p.WordType.Value
	}
	if p.Meaning.Set {
		e.Meaning = p.Meaning.Value
	}
	if p.Example.Set {
		e.Example = p.Example.Value
	}
}
