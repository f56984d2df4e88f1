package shared

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"vitess.io/vitess/go/mysql/decimal"
)

type Kind int

const (
	KindString Kind = iota
	KindInt
	KindDecimal
	KindTime
	KindBool
	KindJSON
)

// Column describes how one JSON field maps onto a table column.
type Column struct {
	Name     string
	Kind     Kind
	Nullable bool
	Enum     []string
	// Cast is appended to the placeholder, e.g. "::text::numeric".
	Cast string
}

// Now is a patch value that renders as the SQL now() expression.
type nowValue struct{}

var Now any = nowValue{}

// Patch is a validated partial update: column name to value.
type Patch struct {
	Set     map[string]any
	Version *int
}

func (p Patch) Has(column string) bool {
	_, ok := p.Set[column]
	return ok
}

func (p Patch) String(column string) (string, bool) {
	v, ok := p.Set[column].(string)
	return v, ok
}

// ServerManaged keys are accepted in a patch body and dropped.
var ServerManaged = map[string]bool{
	"id":        true,
	"createdAt": true,
	"updatedAt": true,
}

// DecodePatch validates a JSON object against the entity's writable fields. Unknown keys fail
// with ErrUnknownField, ill-typed values with ErrInvalidField.
func DecodePatch(body map[string]json.RawMessage, columns map[string]Column) (Patch, error) {
	patch := Patch{Set: make(map[string]any, len(body))}

	keys := make([]string, 0, len(body))
	for key := range body {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		raw := body[key]
		if key == "version" {
			var v int
			if err := json.Unmarshal(raw, &v); err != nil || v < 1 {
				return Patch{}, InvalidField(key, "must be a positive integer")
			}
			patch.Version = &v
			continue
		}
		if ServerManaged[key] {
			continue
		}
		col, ok := columns[key]
		if !ok {
			return Patch{}, UnknownField(key)
		}
		value, err := decodeValue(key, raw, col)
		if err != nil {
			return Patch{}, err
		}
		patch.Set[col.Name] = value
	}
	return patch, nil
}

func decodeValue(field string, raw json.RawMessage, col Column) (any, error) {
	if isNull(raw) {
		if !col.Nullable {
			return nil, InvalidField(field, "must not be null")
		}
		return nil, nil
	}
	switch col.Kind {
	case KindString:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, InvalidField(field, "must be a string")
		}
		if len(col.Enum) > 0 && !contains(col.Enum, s) {
			return nil, InvalidField(field, "must be one of "+strings.Join(col.Enum, ", "))
		}
		if !col.Nullable && strings.TrimSpace(s) == "" {
			return nil, InvalidField(field, "must not be empty")
		}
		return s, nil
	case KindInt:
		var n int64
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, InvalidField(field, "must be an integer")
		}
		return n, nil
	case KindDecimal:
		d, err := ParseDecimal(raw)
		if err != nil {
			return nil, InvalidField(field, "must be a decimal number")
		}
		return d.String(), nil
	case KindTime:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, InvalidField(field, "must be a date string")
		}
		t, err := ParseTime(s)
		if err != nil {
			return nil, InvalidField(field, "must be a valid date")
		}
		return t, nil
	case KindBool:
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, InvalidField(field, "must be a boolean")
		}
		return b, nil
	case KindJSON:
		if !json.Valid(raw) {
			return nil, InvalidField(field, "must be valid JSON")
		}
		return []byte(raw), nil
	}
	return nil, InvalidField(field, "unsupported field")
}

// ParseDecimal accepts a JSON number or a numeric string.
func ParseDecimal(raw json.RawMessage) (decimal.Decimal, error) {
	text := strings.TrimSpace(string(raw))
	if strings.HasPrefix(text, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.Decimal{}, err
		}
		text = strings.TrimSpace(s)
	}
	if text == "" {
		return decimal.Decimal{}, fmt.Errorf("empty decimal")
	}
	return decimal.NewFromString(text)
}

// ParseTime accepts RFC3339 or YYYY-MM-DD.
func ParseTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02", value)
}

// BuildUpdate renders an UPDATE that stamps updated_at, bumps version when versioned, and
// checks the expected version when the patch carries one.
func BuildUpdate(table string, id int64, patch Patch, columns map[string]Column, versioned bool) (string, []any) {
	casts := make(map[string]string, len(columns))
	for _, col := range columns {
		casts[col.Name] = col.Cast
	}

	names := make([]string, 0, len(patch.Set))
	for name := range patch.Set {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	args := make([]any, 0, len(names)+2)
	sb.WriteString("UPDATE ")
	sb.WriteString(table)
	sb.WriteString(" SET ")
	for _, name := range names {
		value := patch.Set[name]
		sb.WriteString(name)
		sb.WriteString(" = ")
		if _, ok := value.(nowValue); ok {
			sb.WriteString("now()")
		} else {
			args = append(args, value)
			sb.WriteString("$" + strconv.Itoa(len(args)) + casts[name])
		}
		sb.WriteString(", ")
	}
	sb.WriteString("updated_at = now()")
	if versioned {
		sb.WriteString(", version = version + 1")
	}
	args = append(args, id)
	sb.WriteString(" WHERE id = $" + strconv.Itoa(len(args)))
	if versioned && patch.Version != nil {
		args = append(args, *patch.Version)
		sb.WriteString(" AND version = $" + strconv.Itoa(len(args)))
	}
	return sb.String(), args
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
