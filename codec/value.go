package codec

import (
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// valueKind discriminates the variant held by a Value. Values are built
// through the constructor functions below rather than by setting fields
// directly, keeping the representation a closed sum type from outside the
// package.
type valueKind byte

const (
	kindBool valueKind = iota
	kindBytea
	kindDate
	kindTimestamp
	kindIntervalMonths
	kindIntervalDuration
	kindInt4
	kindInt8
	kindFloat4
	kindFloat8
	kindNumeric
	kindText
)

// Value is one typed, text-formattable DataRow field. The zero Value is not
// valid; use the constructor functions. A nil *Value (as opposed to a Value
// value) represents SQL NULL when used as a DataRow field.
type Value struct {
	kind valueKind

	b     bool
	bytes []byte
	t     time.Time

	months int32
	positive bool
	dur    time.Duration

	i4 int32
	i8 int64
	f4 float32
	f8 float64

	num  decimal.Decimal
	text string
}

func ValueBool(v bool) *Value { return &Value{kind: kindBool, b: v} }

func ValueBytea(v []byte) *Value { return &Value{kind: kindBytea, bytes: v} }

func ValueDate(v time.Time) *Value { return &Value{kind: kindDate, t: v} }

func ValueTimestamp(v time.Time) *Value { return &Value{kind: kindTimestamp, t: v} }

// ValueIntervalMonths builds an interval expressed as a whole number of
// months, encoded on the wire as "<n> months".
func ValueIntervalMonths(months int32) *Value {
	return &Value{kind: kindIntervalMonths, months: months}
}

// ValueIntervalDuration builds an interval expressed as a signed duration,
// encoded on the wire as "[-]<duration>".
func ValueIntervalDuration(positive bool, d time.Duration) *Value {
	return &Value{kind: kindIntervalDuration, positive: positive, dur: d}
}

func ValueInt4(v int32) *Value { return &Value{kind: kindInt4, i4: v} }

func ValueInt8(v int64) *Value { return &Value{kind: kindInt8, i8: v} }

func ValueFloat4(v float32) *Value { return &Value{kind: kindFloat4, f4: v} }

func ValueFloat8(v float64) *Value { return &Value{kind: kindFloat8, f8: v} }

func ValueNumeric(v decimal.Decimal) *Value { return &Value{kind: kindNumeric, num: v} }

func ValueText(v string) *Value { return &Value{kind: kindText, text: v} }

// encode renders the value in PostgreSQL's text wire format, consulting tm
// for the Go-native types pgx/v5's type map already knows how to format
// (bool, the integer and float widths, date, timestamp). Numeric, Interval,
// Bytea, and Text are rendered directly: Numeric needs shopspring/decimal's
// arbitrary-precision formatting rather than a float round-trip, Interval's
// wire shape here does not match pgtype's own interval codec, and Bytea/Text
// are already raw bytes.
func (v *Value) encode(tm *pgtype.Map) ([]byte, error) {
	switch v.kind {
	case kindBool:
		return tm.Encode(pgtype.BoolOID, pgtype.TextFormatCode, v.b, nil)
	case kindBytea:
		return v.bytes, nil
	case kindDate:
		return tm.Encode(pgtype.DateOID, pgtype.TextFormatCode, v.t, nil)
	case kindTimestamp:
		return tm.Encode(pgtype.TimestampOID, pgtype.TextFormatCode, v.t, nil)
	case kindIntervalMonths:
		return []byte(fmt.Sprintf("%d months", v.months)), nil
	case kindIntervalDuration:
		if v.positive {
			return []byte(v.dur.String()), nil
		}
		return []byte("-" + v.dur.String()), nil
	case kindInt4:
		return tm.Encode(pgtype.Int4OID, pgtype.TextFormatCode, v.i4, nil)
	case kindInt8:
		return tm.Encode(pgtype.Int8OID, pgtype.TextFormatCode, v.i8, nil)
	case kindFloat4:
		return tm.Encode(pgtype.Float4OID, pgtype.TextFormatCode, v.f4, nil)
	case kindFloat8:
		return tm.Encode(pgtype.Float8OID, pgtype.TextFormatCode, v.f8, nil)
	case kindNumeric:
		return []byte(v.num.String()), nil
	case kindText:
		return []byte(v.text), nil
	default:
		return nil, fmt.Errorf("codec: value has unknown kind %d", v.kind)
	}
}
