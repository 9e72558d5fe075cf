package format

//go:generate go tool stringer -type=Kind -trimprefix=Kind -output=kind_string.go

import (
	"fmt"
	"log/slog"
	"math"
	"reflect"
	"strconv"
)

// Kind identifies the variant held by a [Value].
type Kind int

const (
	KindInvalid Kind = iota
	KindString
	KindInt
	KindInt64
	KindInt32
	KindInt16
	KindInt8
	KindUint
	KindUint64
	KindUint32
	KindUint16
	KindUint8
	KindFloat32
	KindFloat64
	KindBool
	KindDebug
	KindDisplay
)

// Value is a typed value that a placeholder resolves to.
//
// The set of kinds is closed. Debug and Display values hold a reference to
// a caller-owned object and render it with the %#v and %v verbs of package
// fmt, so [fmt.GoStringer] and [fmt.Stringer] implementations are honoured.
// The zero Value has kind [KindInvalid].
type Value struct {
	ref  any
	str  string
	num  uint64 // integer payload, or the IEEE 754 bits of a float
	kind Kind
}

// Constructors for each kind.

func String(s string) Value { return Value{kind: KindString, str: s} }
func Int(i int) Value { return Value{kind: KindInt, num: uint64(int64(i))} }
func Int64(i int64) Value { return Value{kind: KindInt64, num: uint64(i)} }
func Int32(i int32) Value { return Value{kind: KindInt32, num: uint64(int64(i))} }
func Int16(i int16) Value { return Value{kind: KindInt16, num: uint64(int64(i))} }
func Int8(i int8) Value { return Value{kind: KindInt8, num: uint64(int64(i))} }
func Uint(u uint) Value { return Value{kind: KindUint, num: uint64(u)} }
func Uint64(u uint64) Value { return Value{kind: KindUint64, num: u} }
func Uint32(u uint32) Value { return Value{kind: KindUint32, num: uint64(u)} }
func Uint16(u uint16) Value { return Value{kind: KindUint16, num: uint64(u)} }
func Uint8(u uint8) Value { return Value{kind: KindUint8, num: uint64(u)} }
func Float32(f float32) Value { return Value{kind: KindFloat32, num: math.Float64bits(float64(f))} }
func Float64(f float64) Value { return Value{kind: KindFloat64, num: math.Float64bits(f)} }
func Debug(ref any) Value { return Value{kind: KindDebug, ref: ref} }
func Display(ref any) Value { return Value{kind: KindDisplay, ref: ref} }

// Bool returns a boolean Value.
func Bool(b bool) Value {
	v := Value{kind: KindBool}
	if b {
		v.num = 1
	}

	return v
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNumeric reports whether v holds an integer or floating-point number.
func (v Value) IsNumeric() bool {
	return v.kind >= KindInt && v.kind <= KindFloat64
}

func (v Value) isSigned() bool { return v.kind >= KindInt && v.kind <= KindInt8 }

func (v Value) isUnsigned() bool { return v.kind >= KindUint && v.kind <= KindUint8 }

func (v Value) isFloat() bool { return v.kind == KindFloat32 || v.kind == KindFloat64 }

func (v Value) float() float64 { return math.Float64frombits(v.num) }

// String returns the default representation of v: strings as themselves,
// numbers in their shortest decimal form that round-trips, booleans as
// "true" or "false".
// Non-finite floats are spelled "inf", "-inf" and "NaN".
func (v Value) String() string {
	switch {
	case v.kind == KindString:
		return v.str

	case v.isSigned():
		return strconv.FormatInt(int64(v.num), 10)

	case v.isUnsigned():
		return strconv.FormatUint(v.num, 10)

	case v.kind == KindFloat32:
		return formatFloat(v.float(), 32)

	case v.kind == KindFloat64:
		return formatFloat(v.float(), 64)

	case v.kind == KindBool:
		return strconv.FormatBool(v.num != 0)

	case v.kind == KindDebug:
		return fmt.Sprintf("%#v", v.ref)

	case v.kind == KindDisplay:
		return fmt.Sprint(v.ref)

	default:
		return "<invalid>"
	}
}

func formatFloat(f float64, bitSize int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	default:
		return strconv.FormatFloat(f, 'f', -1, bitSize)
	}
}

// sign returns -1, 0 or +1 for numeric values. The result is false for
// non-numeric values, NaN and infinities.
// Floats have no zero sign: +0 is positive and -0 is negative.
func (v Value) sign() (int, bool) {
	switch {
	case v.isSigned():
		switch i := int64(v.num); {
		case i > 0:
			return 1, true
		case i < 0:
			return -1, true
		default:
			return 0, true
		}

	case v.isUnsigned():
		if v.num == 0 {
			return 0, true
		}

		return 1, true

	case v.isFloat():
		f := v.float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}

		if math.Signbit(f) {
			return -1, true
		}

		return 1, true
	}

	return 0, false
}

// Any returns the Go value held by v, with its original type.
func (v Value) Any() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindInt:
		return int(int64(v.num))
	case KindInt64:
		return int64(v.num)
	case KindInt32:
		return int32(int64(v.num))
	case KindInt16:
		return int16(int64(v.num))
	case KindInt8:
		return int8(int64(v.num))
	case KindUint:
		return uint(v.num)
	case KindUint64:
		return v.num
	case KindUint32:
		return uint32(v.num)
	case KindUint16:
		return uint16(v.num)
	case KindUint8:
		return uint8(v.num)
	case KindFloat32:
		return float32(v.float())
	case KindFloat64:
		return v.float()
	case KindBool:
		return v.num != 0
	case KindDebug, KindDisplay:
		return v.ref
	default:
		return nil
	}
}

// LogValue implements slog.LogValuer.
func (v Value) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("kind", v.kind.String()),
		slog.String("value", v.String()),
	)
}

// ValueOf converts a native Go value into a Value.
//
// Strings, booleans, sized and unsized integers, and floats map to their own
// kind, including named types whose underlying type is one of those.
// A [Value] is returned unchanged. Other non-nil values render via
// [Display], which uses their String method if they have one.
func ValueOf(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Value{}, ErrUnsupportedValue.With(slog.String("type", "nil"))
	case Value:
		return t, nil
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case int:
		return Int(t), nil
	case int64:
		return Int64(t), nil
	case int32:
		return Int32(t), nil
	case int16:
		return Int16(t), nil
	case int8:
		return Int8(t), nil
	case uint:
		return Uint(t), nil
	case uint64:
		return Uint64(t), nil
	case uint32:
		return Uint32(t), nil
	case uint16:
		return Uint16(t), nil
	case uint8:
		return Uint8(t), nil
	case float32:
		return Float32(t), nil
	case float64:
		return Float64(t), nil
	case fmt.Stringer:
		return Display(t), nil
	}

	// Named types of the primitive kinds.
	rv := reflect.ValueOf(x)

	switch rv.Kind() {
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.Int:
		return Int(int(rv.Int())), nil
	case reflect.Int64:
		return Int64(rv.Int()), nil
	case reflect.Int32:
		return Int32(int32(rv.Int())), nil
	case reflect.Int16:
		return Int16(int16(rv.Int())), nil
	case reflect.Int8:
		return Int8(int8(rv.Int())), nil
	case reflect.Uint:
		return Uint(uint(rv.Uint())), nil
	case reflect.Uint64:
		return Uint64(rv.Uint()), nil
	case reflect.Uint32:
		return Uint32(uint32(rv.Uint())), nil
	case reflect.Uint16:
		return Uint16(uint16(rv.Uint())), nil
	case reflect.Uint8:
		return Uint8(uint8(rv.Uint())), nil
	case reflect.Float32:
		return Float32(float32(rv.Float())), nil
	case reflect.Float64:
		return Float64(rv.Float()), nil
	default:
		return Display(x), nil
	}
}
