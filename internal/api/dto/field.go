package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

var (
	errNotNumeric = errors.New("value is not numeric")
	errNotInteger = errors.New("value is not an integer")
	errNotBool    = errors.New("value is not a boolean")
)

// Field keeps the raw JSON of a request property so presence can be told
// apart from type problems. A JSON null counts as present.
type Field struct {
	raw json.RawMessage
	set bool
}

// UnmarshalJSON records the raw value.
func (f *Field) UnmarshalJSON(b []byte) error {
	f.raw = append(f.raw[:0], b...)
	f.set = true
	return nil
}

// Present reports whether the key appeared in the payload.
func (f Field) Present() bool {
	return f.set
}

// Truncated reads the value as a float and truncates it toward zero.
// Numbers, numeric strings and booleans are accepted.
func (f Field) Truncated() (int64, error) {
	var v any
	if err := json.Unmarshal(f.raw, &v); err != nil {
		return 0, errNotNumeric
	}

	var n float64
	switch val := v.(type) {
	case float64:
		n = val
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, errNotNumeric
		}
		n = parsed
	case bool:
		if val {
			n = 1
		}
	default:
		return 0, errNotNumeric
	}
	return toInt64(math.Trunc(n))
}

// Integer reads the value as a whole number: a JSON integer (5 or 5.0) or a
// string holding one.
func (f Field) Integer() (int64, error) {
	var v any
	dec := json.NewDecoder(bytes.NewReader(f.raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return 0, errNotInteger
	}

	var text string
	switch val := v.(type) {
	case json.Number:
		text = val.String()
	case string:
		text = strings.TrimSpace(val)
	default:
		return 0, errNotInteger
	}

	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return i, nil
	}
	if _, isString := v.(string); isString {
		return 0, errNotInteger
	}
	n, err := strconv.ParseFloat(text, 64)
	if err != nil || n != math.Trunc(n) {
		return 0, errNotInteger
	}
	return toInt64(n)
}

// Bool reads the value as a strict JSON boolean.
func (f Field) Bool() (bool, error) {
	var b bool
	if err := json.Unmarshal(f.raw, &b); err != nil || bytes.Equal(bytes.TrimSpace(f.raw), []byte("null")) {
		return false, errNotBool
	}
	return b, nil
}

func toInt64(n float64) (int64, error) {
	if math.IsNaN(n) || math.IsInf(n, 0) || n >= math.MaxInt64 || n < math.MinInt64 {
		return 0, errNotNumeric
	}
	return int64(n), nil
}
