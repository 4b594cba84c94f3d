package odoo

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Str is a string type that handles Odoo's dynamic typing.
// Odoo returns `false` (boolean) for empty text fields instead of an empty
// string. This type implements json.Unmarshaler to handle both.
type Str string

// UnmarshalJSON handles dynamic typing from Odoo
func (s *Str) UnmarshalJSON(data []byte) error {
	// 1. Try string
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = Str(str)
		return nil
	}

	// 2. Try boolean (Odoo returns false for empty strings)
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		if !b {
			*s = ""
			return nil
		}
		*s = "true"
		return nil
	}

	return errors.New("Str: cannot unmarshal value into string")
}

// String returns the native string value
func (s Str) String() string {
	return string(s)
}

// Many2One is a reference to a related record. Odoo serializes many2one
// fields as a `[id, display_name]` pair, or `false` when the field is unset.
type Many2One struct {
	ID   int64
	Name string
}

// UnmarshalJSON handles the `[id, name]`, bare-id and `false` encodings.
func (m *Many2One) UnmarshalJSON(data []byte) error {
	// 1. Try [id, name] pair
	var pair []interface{}
	if err := json.Unmarshal(data, &pair); err == nil {
		if len(pair) > 0 {
			id, ok := toInt64(pair[0])
			if !ok {
				return fmt.Errorf("Many2One: bad id %v", pair[0])
			}
			m.ID = id
		}
		if len(pair) > 1 {
			if name, ok := pair[1].(string); ok {
				m.Name = name
			}
		}
		return nil
	}

	// 2. Try bare numeric id
	var id int64
	if err := json.Unmarshal(data, &id); err == nil {
		m.ID = id
		return nil
	}

	// 3. Try boolean (false = unset)
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		m.ID = 0
		m.Name = ""
		return nil
	}

	return errors.New("Many2One: cannot unmarshal value")
}

// IsSet reports whether the reference points at a record.
func (m Many2One) IsSet() bool {
	return m.ID != 0
}
