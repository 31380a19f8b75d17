package model

import (
	"bytes"
	"encoding/json"
)

// Patch is a tri-state optional string used by partial updates.
//
//	omitted         -> Set == false
//	explicit null   -> Set == true, Value == nil
//	explicit value  -> Set == true, Value != nil
type Patch struct {
	Set   bool
	Value *string
}

// SetTo returns a present patch carrying v.
func SetTo(v string) Patch { return Patch{Set: true, Value: &v} }

// SetNull returns a present patch that clears the field.
func SetNull() Patch { return Patch{Set: true} }

// UnmarshalJSON is only invoked for keys present in the document, which is
// what separates an omitted field from an explicit null.
func (p *Patch) UnmarshalJSON(data []byte) error {
	p.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		p.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	p.Value = &s
	return nil
}

// MarshalJSON renders the value, or null when the value is cleared.
func (p Patch) MarshalJSON() ([]byte, error) {
	if p.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*p.Value)
}
