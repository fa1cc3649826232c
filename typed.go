// SPDX-License-Identifier: MIT

package modconf

import (
	"fmt"
	"strconv"
)

// get returns the raw stored text for key, or ErrNotFound.
func (s *Store) get(key string) (string, error) {
	v, ok := s.values[key]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	return v, nil
}

// GetString returns the raw stored value for key. It fails only when the
// key is absent.
func (s *Store) GetString(key string) (string, error) {
	return s.get(key)
}

// GetInt returns the value for key parsed as a decimal integer.
func (s *Store) GetInt(key string) (int, error) {
	raw, err := s.get(key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ParseError{Key: key, Value: raw, Type: "int", Err: err}
	}
	return n, nil
}

// GetInt64 returns the value for key parsed as a decimal 64-bit integer.
func (s *Store) GetInt64(key string) (int64, error) {
	raw, err := s.get(key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &ParseError{Key: key, Value: raw, Type: "int64", Err: err}
	}
	return n, nil
}

// GetFloat32 returns the value for key parsed as a 32-bit float.
func (s *Store) GetFloat32(key string) (float32, error) {
	raw, err := s.get(key)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(raw, 32)
	if err != nil {
		return 0, &ParseError{Key: key, Value: raw, Type: "float32", Err: err}
	}
	return float32(f), nil
}

// GetFloat64 returns the value for key parsed as a 64-bit float.
func (s *Store) GetFloat64(key string) (float64, error) {
	raw, err := s.get(key)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &ParseError{Key: key, Value: raw, Type: "float64", Err: err}
	}
	return f, nil
}

// GetBool returns the value for key parsed as a boolean. Accepted forms
// are the ones strconv.ParseBool understands; anything else is a
// ParseError rather than a silent false.
func (s *Store) GetBool(key string) (bool, error) {
	raw, err := s.get(key)
	if err != nil {
		return false, err
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, &ParseError{Key: key, Value: raw, Type: "bool", Err: err}
	}
	return b, nil
}

// formatValue renders v in the same textual form the typed readers parse.
func formatValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float32:
		return strconv.FormatFloat(float64(t), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
