package utils

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

// MaxPlateLength is the longest plate the vehicles table accepts
const MaxPlateLength = 10

// dateLayouts are tried in order when parsing client-supplied dates
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParamError reports a request value that could not be coerced
type ParamError struct {
	Field   string
	Message string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// ParseID parses a path parameter as a positive integer id
func ParseID(raw string) (uint, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 32)
	if err != nil || n == 0 {
		return 0, &ParamError{Field: "id", Message: "must be a positive integer"}
	}
	return uint(n), nil
}

// NormalizePlate upper-cases a plate and strips every whitespace character
func NormalizePlate(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// ParseDate accepts RFC 3339 timestamps and the common date-only and
// date-time forms sent by HTML inputs.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &ParamError{Field: "date", Message: "is not a valid date"}
}

// ToNumber converts a decoded JSON value into a finite float64
func ToNumber(v interface{}) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ToPositiveID truncates v to an integer and reports whether it is a usable id
func ToPositiveID(v interface{}) (uint, bool) {
	f, ok := ToNumber(v)
	if !ok {
		return 0, false
	}
	f = math.Trunc(f)
	if f < 1 || f > math.MaxUint32 {
		return 0, false
	}
	return uint(f), true
}

// ToQuantity returns v as a positive whole quantity, or 1 when v is absent,
// non-positive or fractional.
func ToQuantity(v interface{}) int {
	f, ok := ToNumber(v)
	if !ok || f <= 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 1
	}
	return int(f)
}

// ToMoney parses v as a monetary amount. It returns nil when v is absent or
// not a finite number.
func ToMoney(v interface{}) *decimal.Decimal {
	switch n := v.(type) {
	case nil:
		return nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(n))
		if err != nil {
			return nil
		}
		return &d
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		if err != nil {
			return nil
		}
		return &d
	}
	f, ok := ToNumber(v)
	if !ok {
		return nil
	}
	d := decimal.NewFromFloat(f)
	return &d
}

// FirstPresent returns the value under the first of keys present in body
func FirstPresent(body map[string]interface{}, keys ...string) (interface{}, bool) {
	for _, key := range keys {
		if v, ok := body[key]; ok {
			return v, true
		}
	}
	return nil, false
}

// OptionalID reads an id under any of keys. A present but unusable value is
// an error; an absent or null value yields nil.
func OptionalID(body map[string]interface{}, keys ...string) (*uint, error) {
	v, ok := FirstPresent(body, keys...)
	if !ok || v == nil || v == "" {
		return nil, nil
	}
	id, valid := ToPositiveID(v)
	if !valid {
		return nil, &ParamError{Field: keys[0], Message: "must be a positive integer"}
	}
	return &id, nil
}

// OptionalString reads a trimmed string under any of keys
func OptionalString(body map[string]interface{}, keys ...string) (*string, error) {
	v, ok := FirstPresent(body, keys...)
	if !ok || v == nil {
		return nil, nil
	}
	switch s := v.(type) {
	case string:
		s = strings.TrimSpace(s)
		return &s, nil
	case float64:
		str := strconv.FormatFloat(s, 'f', -1, 64)
		return &str, nil
	case json.Number:
		str := s.String()
		return &str, nil
	default:
		return nil, &ParamError{Field: keys[0], Message: "must be a string"}
	}
}

// OptionalDate reads a date under any of keys
func OptionalDate(body map[string]interface{}, keys ...string) (*time.Time, error) {
	s, err := OptionalString(body, keys...)
	if err != nil || s == nil || *s == "" {
		return nil, err
	}
	t, err := ParseDate(*s)
	if err != nil {
		return nil, &ParamError{Field: keys[0], Message: "is not a valid date"}
	}
	return &t, nil
}

// OptionalList reads a JSON array under any of keys. The second result
// reports whether any of the keys was sent at all, even as null.
func OptionalList(body map[string]interface{}, keys ...string) ([]interface{}, bool, error) {
	v, ok := FirstPresent(body, keys...)
	if !ok {
		return nil, false, nil
	}
	if v == nil {
		return nil, true, nil
	}
	list, isList := v.([]interface{})
	if !isList {
		return nil, true, &ParamError{Field: keys[0], Message: "must be a list"}
	}
	return list, true, nil
}
