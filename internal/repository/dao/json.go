package dao

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// SelectionJSON stores an option selection (group ID -> option IDs) as a
// JSON column.
type SelectionJSON map[uint][]uint

func (s SelectionJSON) Value() (driver.Value, error) {
	if s == nil {
		return "{}", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *SelectionJSON) Scan(value interface{}) error {
	return scanJSON(value, s)
}

// NamesJSON stores the display representation (group name -> option names)
// as a JSON column.
type NamesJSON map[string][]string

func (n NamesJSON) Value() (driver.Value, error) {
	if n == nil {
		return "{}", nil
	}
	b, err := json.Marshal(n)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (n *NamesJSON) Scan(value interface{}) error {
	return scanJSON(value, n)
}

func scanJSON(value interface{}, dest interface{}) error {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("unsupported JSON column type %T", value)
	}
}
