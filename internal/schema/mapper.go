package schema

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/roach88/bitemp/internal/ir"
)

// Mapper type names.
const (
	TypeBitemporal = "bitemporal"
	TypeString     = "string"
	TypeInteger    = "integer"
	TypeBoolean    = "boolean"
)

// DefaultPattern is the time layout used when a mapper names none.
const DefaultPattern = time.RFC3339

// nowLiteral is the case-insensitive string that always parses to NOW.
const nowLiteral = "now"

// BitemporalMapper indexes the four time bounds of a record version.
type BitemporalMapper struct {
	Name string
	// Pattern is the Go time layout for string values. Empty means
	// DefaultPattern.
	Pattern string
	// NowValue, when non-zero, is the timestamp that stands for NOW.
	NowValue int64
}

// FieldName implements Mapper.
func (m *BitemporalMapper) FieldName() string { return m.Name }

// Type implements Mapper.
func (m *BitemporalMapper) Type() string { return TypeBitemporal }

func (m *BitemporalMapper) layout() string {
	if m.Pattern == "" {
		return DefaultPattern
	}
	return m.Pattern
}

// Instant converts a raw bound into an Instant. A nil raw value yields def.
//
// Accepted values: integer types (Unix milliseconds), time.Time, the string
// "now" in any case, decimal strings, and strings in the mapper's pattern.
// Negative timestamps are rejected. A timestamp equal to NowValue is NOW.
func (m *BitemporalMapper) Instant(raw any, def ir.Instant) (ir.Instant, error) {
	switch v := raw.(type) {
	case nil:
		return def, nil
	case ir.Instant:
		return v, nil
	case *ir.Instant:
		if v == nil {
			return def, nil
		}
		return *v, nil
	case int:
		return m.fromTimestamp(int64(v))
	case int32:
		return m.fromTimestamp(int64(v))
	case int64:
		return m.fromTimestamp(v)
	case uint64:
		if v > uint64(ir.MaxTimestamp) {
			return ir.Instant{}, fmt.Errorf("timestamp %d out of range", v)
		}
		return m.fromTimestamp(int64(v))
	case time.Time:
		return m.fromTimestamp(v.UnixMilli())
	case string:
		return m.parseString(v)
	default:
		return ir.Instant{}, fmt.Errorf("unsupported time value of type %T", raw)
	}
}

func (m *BitemporalMapper) parseString(s string) (ir.Instant, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, nowLiteral) {
		return ir.Now(), nil
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil {
		return m.fromTimestamp(ts)
	}
	t, err := time.Parse(m.layout(), s)
	if err != nil {
		return ir.Instant{}, fmt.Errorf("parse %q with pattern %q: %w", s, m.layout(), err)
	}
	return m.fromTimestamp(t.UnixMilli())
}

func (m *BitemporalMapper) fromTimestamp(ts int64) (ir.Instant, error) {
	if ts < 0 {
		return ir.Instant{}, fmt.Errorf("timestamp %d is negative", ts)
	}
	if m.NowValue != 0 && ts == m.NowValue {
		return ir.Now(), nil
	}
	return ir.At(ts), nil
}

// Format renders i in the mapper's pattern. Sentinels render as their names.
func (m *BitemporalMapper) Format(i ir.Instant) string {
	if !i.IsFinite() {
		return i.String()
	}
	return time.UnixMilli(i.Timestamp()).UTC().Format(m.layout())
}

// PlainMapper is any non-temporal field.
type PlainMapper struct {
	Name     string
	TypeName string
}

// FieldName implements Mapper.
func (m *PlainMapper) FieldName() string { return m.Name }

// Type implements Mapper.
func (m *PlainMapper) Type() string { return m.TypeName }
