package model

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/rotisserie/eris"
)

// JSONMap is a string map stored as JSON text.
type JSONMap map[string]string

// Value implements driver.Valuer.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	b, err := json.Marshal(map[string]string(m))
	if err != nil {
		return nil, eris.Wrap(err, "model: marshal json map")
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (m *JSONMap) Scan(src any) error {
	b, ok, err := jsonBytes(src)
	if err != nil || !ok {
		*m = nil
		return err
	}
	var out map[string]string
	if err := json.Unmarshal(b, &out); err != nil {
		return eris.Wrap(err, "model: unmarshal json map")
	}
	*m = out
	return nil
}

// JSONList is a string slice stored as JSON text.
type JSONList []string

// Value implements driver.Valuer.
func (l JSONList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, eris.Wrap(err, "model: marshal json list")
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *JSONList) Scan(src any) error {
	b, ok, err := jsonBytes(src)
	if err != nil || !ok {
		*l = nil
		return err
	}
	var out []string
	if err := json.Unmarshal(b, &out); err != nil {
		return eris.Wrap(err, "model: unmarshal json list")
	}
	*l = out
	return nil
}

func jsonBytes(src any) ([]byte, bool, error) {
	switch v := src.(type) {
	case nil:
		return nil, false, nil
	case string:
		if v == "" {
			return nil, false, nil
		}
		return []byte(v), true, nil
	case []byte:
		if len(v) == 0 {
			return nil, false, nil
		}
		return v, true, nil
	default:
		return nil, false, eris.Errorf("model: cannot scan %T as json", src)
	}
}
