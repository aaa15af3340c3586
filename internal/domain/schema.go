package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"
)

type ValueType string

const (
	TypeString ValueType = "string"
	TypeInt    ValueType = "int"
	TypeFloat  ValueType = "float"
	TypeBool   ValueType = "bool"
	TypeDate   ValueType = "date"
)

type EditHint string

const (
	HintPlain     EditHint = "plain"
	HintMultiline EditHint = "multiline"
)

// DateLayout is the ISO-8601 calendar date profile used for date fields,
// both when editing and when persisting.
const DateLayout = "2006-01-02"

// FieldDescriptor declares one editable attribute of a node variant.
// Lower Priority values sort first.
type FieldDescriptor struct {
	Name     string
	Type     ValueType
	Hint     EditHint
	Priority int
}

var (
	errNotInteger = errors.New("not an integer")
	errNotNumber  = errors.New("not a finite number")
	errNotBool    = errors.New(`expected "true" or "false"`)
	errNotDate    = errors.New("expected YYYY-MM-DD")
)

// ParseValue converts raw text into the Go value stored for a field of type t:
// string, int64, float64, bool or time.Time. An empty date parses to the zero
// time, meaning "unset".
func ParseValue(t ValueType, raw string) (any, error) {
	switch t {
	case TypeString:
		return raw, nil
	case TypeInt:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, &ParseError{Type: t, Raw: raw, Err: errNotInteger}
		}
		return v, nil
	case TypeFloat:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &ParseError{Type: t, Raw: raw, Err: errNotNumber}
		}
		return v, nil
	case TypeBool:
		switch raw {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return nil, &ParseError{Type: t, Raw: raw, Err: errNotBool}
	case TypeDate:
		if raw == "" {
			return time.Time{}, nil
		}
		v, err := time.Parse(DateLayout, raw)
		if err != nil {
			return nil, &ParseError{Type: t, Raw: raw, Err: errNotDate}
		}
		return v, nil
	}
	return nil, fmt.Errorf("unsupported value type %q", t)
}

// FormatValue renders v in the exact textual form ParseValue accepts.
func FormatValue(t ValueType, v any) string {
	switch t {
	case TypeInt:
		if i, ok := v.(int64); ok {
			return strconv.FormatInt(i, 10)
		}
	case TypeFloat:
		if f, ok := v.(float64); ok {
			return strconv.FormatFloat(f, 'g', -1, 64)
		}
	case TypeBool:
		if b, ok := v.(bool); ok {
			return strconv.FormatBool(b)
		}
	case TypeDate:
		if d, ok := v.(time.Time); ok && !d.IsZero() {
			return d.Format(DateLayout)
		}
		return ""
	case TypeString:
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func knownType(t ValueType) bool {
	switch t {
	case TypeString, TypeInt, TypeFloat, TypeBool, TypeDate:
		return true
	}
	return false
}

// zeroValue returns the default stored value for a field of type t.
func zeroValue(t ValueType) any {
	switch t {
	case TypeInt:
		return int64(0)
	case TypeFloat:
		return float64(0)
	case TypeBool:
		return false
	case TypeDate:
		return time.Time{}
	default:
		return ""
	}
}

// checkValue reports whether v has the Go type stored for fields of type t.
func checkValue(t ValueType, v any) bool {
	switch t {
	case TypeString:
		_, ok := v.(string)
		return ok
	case TypeInt:
		_, ok := v.(int64)
		return ok
	case TypeFloat:
		f, ok := v.(float64)
		return ok && !math.IsNaN(f) && !math.IsInf(f, 0)
	case TypeBool:
		_, ok := v.(bool)
		return ok
	case TypeDate:
		_, ok := v.(time.Time)
		return ok
	}
	return false
}

// normalizeValue strips the parts of v that the textual form cannot carry,
// so that a typed edit survives a save/load cycle unchanged.
func normalizeValue(t ValueType, v any) any {
	if t == TypeDate {
		d := v.(time.Time)
		if d.IsZero() {
			return time.Time{}
		}
		y, m, day := d.Date()
		return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
	}
	return v
}
