package format

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestValue_String(t *testing.T) {
	tests := []struct {
		value Value
		want  string
		kind  Kind
	}{
		{String("abc"), "abc", KindString},
		{Int(-1), "-1", KindInt},
		{Int64(math.MaxInt64), "9223372036854775807", KindInt64},
		{Int32(math.MinInt32), "-2147483648", KindInt32},
		{Int16(-300), "-300", KindInt16},
		{Int8(-128), "-128", KindInt8},
		{Uint(7), "7", KindUint},
		{Uint64(math.MaxUint64), "18446744073709551615", KindUint64},
		{Uint32(math.MaxUint32), "4294967295", KindUint32},
		{Uint16(65535), "65535", KindUint16},
		{Uint8(255), "255", KindUint8},
		{Float32(0.1), "0.1", KindFloat32},
		{Float64(0.1), "0.1", KindFloat64},
		{Float64(1e21), "1000000000000000000000", KindFloat64},
		{Float64(math.Copysign(0, -1)), "-0", KindFloat64},
		{Bool(true), "true", KindBool},
		{Bool(false), "false", KindBool},
		{Debug("x"), `"x"`, KindDebug},
		{Display("x"), "x", KindDisplay},
		{Value{}, "<invalid>", KindInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String()+"/"+tt.want, func(t *testing.T) {
			if got := tt.value.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}

			if got := tt.value.Kind(); got != tt.kind {
				t.Errorf("Kind() = %v, want %v", got, tt.kind)
			}
		})
	}
}

func TestValue_Sign(t *testing.T) {
	tests := []struct {
		name   string
		value  Value
		want   int
		wantOK bool
	}{
		{"positive int", Int(5), 1, true},
		{"negative int", Int8(-5), -1, true},
		{"zero int", Int64(0), 0, true},
		{"zero uint", Uint32(0), 0, true},
		{"positive uint", Uint64(1), 1, true},
		{"positive zero float", Float64(0), 1, true},
		{"negative zero float", Float64(math.Copysign(0, -1)), -1, true},
		{"negative float", Float32(-0.5), -1, true},
		{"nan", Float64(math.NaN()), 0, false},
		{"infinity", Float32(float32(math.Inf(1))), 0, false},
		{"string", String("1"), 0, false},
		{"bool", Bool(true), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.value.sign()
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("sign() = %d, %v; want %d, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestValue_IsNumeric(t *testing.T) {
	for _, v := range []Value{Int(1), Int8(1), Uint(1), Uint8(1), Float32(1), Float64(1)} {
		if !v.IsNumeric() {
			t.Errorf("%v.IsNumeric() = false", v.Kind())
		}
	}

	for _, v := range []Value{String("1"), Bool(true), Debug(1), Display(1), {}} {
		if v.IsNumeric() {
			t.Errorf("%v.IsNumeric() = true", v.Kind())
		}
	}
}

func TestValue_Any(t *testing.T) {
	tests := []struct {
		value Value
		want  any
	}{
		{String("s"), "s"},
		{Int(-2), -2},
		{Int64(-2), int64(-2)},
		{Int32(-2), int32(-2)},
		{Int16(-2), int16(-2)},
		{Int8(-2), int8(-2)},
		{Uint(2), uint(2)},
		{Uint64(2), uint64(2)},
		{Uint32(2), uint32(2)},
		{Uint16(2), uint16(2)},
		{Uint8(2), uint8(2)},
		{Float32(1.5), float32(1.5)},
		{Float64(1.5), 1.5},
		{Bool(true), true},
		{Display(3), 3},
		{Value{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.value.Kind().String(), func(t *testing.T) {
			if got := tt.value.Any(); got != tt.want {
				t.Errorf("Any() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

type level int

type label string

type named struct{ id int }

func (n named) String() string { return "named" }

func TestValueOf(t *testing.T) {
	tests := []struct {
		name  string
		input any
		kind  Kind
		want  string
	}{
		{"string", "hi", KindString, "hi"},
		{"bool", true, KindBool, "true"},
		{"int", 3, KindInt, "3"},
		{"int64", int64(-3), KindInt64, "-3"},
		{"int32", int32(3), KindInt32, "3"},
		{"int16", int16(3), KindInt16, "3"},
		{"int8", int8(3), KindInt8, "3"},
		{"uint", uint(3), KindUint, "3"},
		{"uint64", uint64(3), KindUint64, "3"},
		{"uint32", uint32(3), KindUint32, "3"},
		{"uint16", uint16(3), KindUint16, "3"},
		{"uint8", uint8(3), KindUint8, "3"},
		{"float32", float32(2.5), KindFloat32, "2.5"},
		{"float64", 2.5, KindFloat64, "2.5"},
		{"value", Int16(9), KindInt16, "9"},
		{"named int", level(4), KindInt, "4"},
		{"named string", label("x"), KindString, "x"},
		{"stringer", named{id: 1}, KindDisplay, "named"},
		{"duration", 2 * time.Second, KindDisplay, "2s"},
		{"slice", []int{1, 2}, KindDisplay, "[1 2]"},
		{"map", map[string]int{"a": 1}, KindDisplay, "map[a:1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ValueOf(tt.input)
			if err != nil {
				t.Fatalf("ValueOf error: %v", err)
			}

			if v.Kind() != tt.kind {
				t.Errorf("Kind() = %v, want %v", v.Kind(), tt.kind)
			}

			if v.String() != tt.want {
				t.Errorf("String() = %q, want %q", v.String(), tt.want)
			}
		})
	}
}

func TestValueOf_Nil(t *testing.T) {
	_, err := ValueOf(nil)
	if !errors.Is(err, ErrUnsupportedValue) {
		t.Errorf("errors.Is(err, ErrUnsupportedValue) = false for %v", err)
	}
}

func TestKind_String(t *testing.T) {
	if got := KindFloat64.String(); got != "Float64" {
		t.Errorf("KindFloat64.String() = %q", got)
	}

	if got := Kind(99).String(); got != "Kind(99)" {
		t.Errorf("Kind(99).String() = %q", got)
	}
}
