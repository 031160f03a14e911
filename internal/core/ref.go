package core

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Ref is a relationship field. The finance API sends either the bare
// identifier of the related record or the record itself, populated with at
// least its identifier and name. The zero Ref means the relationship is absent.
type Ref struct {
	id        string
	name      string
	populated bool
}

// RefID returns a Ref that only carries an identifier.
func RefID(id string) Ref {
	return Ref{id: id}
}

// RefNamed returns a populated Ref.
func RefNamed(id, name string) Ref {
	return Ref{id: id, name: name, populated: true}
}

// IsZero reports whether the relationship is absent.
func (r Ref) IsZero() bool {
	return r.id == "" && !r.populated
}

// ID returns the identifier of the related record for both shapes.
func (r Ref) ID() string {
	return r.id
}

// Populated returns the embedded name when the API sent the full record.
func (r Ref) Populated() (name string, ok bool) {
	return r.name, r.populated
}

func (r Ref) String() string {
	if r.populated {
		return fmt.Sprintf("%s(%s)", r.name, r.id)
	}
	return r.id
}

// UnmarshalJSON accepts null, an identifier string, or an object carrying
// "_id" (or "id") and "name". Any other shape decodes to the zero Ref.
func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*r = Ref{}

	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		return nil
	case data[0] == '"':
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return fmt.Errorf("decode reference id: %w", err)
		}
		r.id = id
		return nil
	case data[0] == '{':
		var obj struct {
			ID    string `json:"_id"`
			AltID string `json:"id"`
			Name  string `json:"name"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			// Fields of the wrong type: treat as unresolvable.
			return nil
		}
		r.id = obj.ID
		if r.id == "" {
			r.id = obj.AltID
		}
		r.name = obj.Name
		r.populated = true
		return nil
	default:
		// Numbers, booleans and arrays carry no usable reference. They
		// decode to the zero Ref so the field falls back to its sentinel.
		return nil
	}
}

// MarshalJSON writes the identifier, which is what request bodies carry.
func (r Ref) MarshalJSON() ([]byte, error) {
	if r.id == "" {
		return []byte("null"), nil
	}
	return json.Marshal(r.id)
}
