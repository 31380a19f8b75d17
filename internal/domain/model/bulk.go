package model

import (
	"bytes"
	"encoding/json"
)

// noneMarker is reported in place of an empty skipped-word set.
const noneMarker = "none"

// BulkResult summarizes a bulk vocabulary insert.
type BulkResult struct {
	WordsReceived int     `json:"words_received"`
	WordsInserted int     `json:"words_inserted"`
	ExistingWords WordSet `json:"existing_words"`
}

// WordSet is an insertion-ordered set of words.
type WordSet struct {
	words []string
	index map[string]struct{}
}

// NewWordSet builds a set from words, dropping repeats.
func NewWordSet(words ...string) WordSet {
	var s WordSet
	for _, w := range words {
		s.Add(w)
	}
	return s
}

// Add inserts w if it is not already present.
func (s *WordSet) Add(w string) {
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	if _, ok := s.index[w]; ok {
		return
	}
	s.index[w] = struct{}{}
	s.words = append(s.words, w)
}

// Contains reports whether w is in the set.
func (s WordSet) Contains(w string) bool {
	_, ok := s.index[w]
	return ok
}

// Len returns the number of distinct words.
func (s WordSet) Len() int { return len(s.words) }

// Words returns the words in insertion order.
func (s WordSet) Words() []string {
	out := make([]string, len(s.words))
	copy(out, s.words)
	return out
}

// MarshalJSON renders the set as an array, or the "none" marker when empty.
func (s WordSet) MarshalJSON() ([]byte, error) {
	if len(s.words) == 0 {
		return json.Marshal(noneMarker)
	}
	return json.Marshal(s.words)
}

// UnmarshalJSON accepts both the array form and the "none" marker.
func (s *WordSet) UnmarshalJSON(data []byte) error {
	*s = WordSet{}
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var marker string
		if err := json.Unmarshal(data, &marker); err != nil {
			return err
		}
		if marker != noneMarker {
			s.Add(marker)
		}
		return nil
	}
	var words []string
	if err := json.Unmarshal(data, &words); err != nil {
		return err
	}
	for _, w := range words {
		s.Add(w)
	}
	return nil
}
