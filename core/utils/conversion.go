package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMissing indicates a required scalar was absent or null.
var ErrMissing = errors.New("value is missing")

// ToInt64 converts a BigInt-like scalar to int64 using explicit type switching.
// It handles strings, json.Number, standard integer types and integral floats.
func ToInt64(val any) (int64, error) {
	switch v := val.(type) {
	case nil:
		return 0, ErrMissing
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case float64:
		if v != float64(int64(v)) {
			return 0, fmt.Errorf("non-integral number %v", v)
		}
		return int64(v), nil
	case json.Number:
		return strconv.ParseInt(v.String(), 10, 64)
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, ErrMissing
		}
		return strconv.ParseInt(s, 10, 64)
	case []byte:
		return ToInt64(string(v))
	default:
		return 0, fmt.Errorf("unsupported type %T", val)
	}
}

// OptionalInt64 is ToInt64 for nullable scalars: an absent value reports ok=false
// without an error.
func OptionalInt64(val any) (int64, bool, error) {
	n, err := ToInt64(val)
	if errors.Is(err, ErrMissing) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}

// ToString converts various types to string. Nil becomes the empty string.
func ToString(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case json.Number:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
