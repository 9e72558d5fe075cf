package format

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMap_Lookup(t *testing.T) {
	m := Map{"a": Int(1), "名字": String("x")}

	v, err := m.Lookup("名字")
	if err != nil || v.String() != "x" {
		t.Errorf("Lookup(名字) = %v, %v", v, err)
	}

	_, err = m.Lookup("b")

	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.Name != "b" {
		t.Errorf("Lookup(b) error = %v, want not found for b", err)
	}

	if diff := cmp.Diff([]string{"a", "名字"}, m.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
}

func TestMapOf(t *testing.T) {
	m, err := MapOf(map[string]any{"n": 2, "s": "x", "f": 1.5})
	if err != nil {
		t.Fatalf("MapOf error: %v", err)
	}

	if m["n"].Kind() != KindInt || m["s"].Kind() != KindString || m["f"].Kind() != KindFloat64 {
		t.Errorf("unexpected kinds: %v %v %v", m["n"].Kind(), m["s"].Kind(), m["f"].Kind())
	}

	if _, err := MapOf(map[string]any{"bad": nil}); !errors.Is(err, ErrUnsupportedValue) {
		t.Errorf("MapOf(nil value) error = %v", err)
	}
}

func TestChain_Shadowing(t *testing.T) {
	inner := Map{"x": String("inner")}
	outer := Map{"x": String("outer"), "y": String("outer")}

	c := Chain{inner, nil, outer}

	got, err := MustCompile("{x} {y}").RenderString(c)
	if err != nil {
		t.Fatalf("render error: %v", err)
	}

	if got != "inner outer" {
		t.Errorf("got %q, want %q", got, "inner outer")
	}

	_, err = c.Lookup("z")

	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.Name != "z" {
		t.Errorf("Lookup(z) error = %v", err)
	}

	if diff := cmp.Diff([]string{"x", "y"}, c.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
}

func TestChain_StopsOnFailure(t *testing.T) {
	cause := errors.New("boom")
	failing := LookupFunc(func(string) (Value, error) { return Value{}, cause })

	_, err := Chain{failing, Map{"x": Int(1)}}.Lookup("x")
	if !errors.Is(err, cause) {
		t.Errorf("error = %v, want %v", err, cause)
	}
}

func TestEnviron(t *testing.T) {
	m := Environ([]string{"HOME=/root", "EMPTY=", "BROKEN", "=x", "A=b=c", "HOME=/home"})

	want := Map{"HOME": String("/home"), "EMPTY": String(""), "A": String("b=c")}
	if diff := cmp.Diff(want, m, cmp.Comparer(func(a, b Value) bool { return a.Kind() == b.Kind() && a.String() == b.String() })); diff != "" {
		t.Errorf("Environ mismatch (-want +got):\n%s", diff)
	}
}

func TestNames_NotNamer(t *testing.T) {
	if names := Names(LookupFunc(nil)); names != nil {
		t.Errorf("Names() = %v, want nil", names)
	}
}

// point is a record with a lookup adapter in the form lookupgen emits.
type point struct {
	X     int64
	Y     int64
	Label string
	Shown bool
	Scale float32
	tag   uint8
	ptr   *int // unsupported, not exposed
}

func (r point) Lookup(name string) (Value, error) {
	switch name {
	case "X":
		return Int64(r.X), nil
	case "Y":
		return Int64(r.Y), nil
	case "Label":
		return String(r.Label), nil
	case "Shown":
		return Bool(r.Shown), nil
	case "Scale":
		return Float32(r.Scale), nil
	case "tag":
		return Uint8(r.tag), nil
	default:
		return Value{}, NotFound(name)
	}
}

func (r point) Names() []string {
	return []string{"Label", "Scale", "Shown", "X", "Y", "tag"}
}

func TestGeneratedAdapter(t *testing.T) {
	p := point{X: -3, Y: 4, Label: "origin", Shown: true, Scale: 0.5, tag: 7}

	fields := map[string]struct {
		kind Kind
		want string
	}{
		"X":     {KindInt64, "-3"},
		"Y":     {KindInt64, "4"},
		"Label": {KindString, "origin"},
		"Shown": {KindBool, "true"},
		"Scale": {KindFloat32, "0.5"},
		"tag":   {KindUint8, "7"},
	}

	for name, f := range fields {
		v, err := p.Lookup(name)
		if err != nil {
			t.Errorf("Lookup(%q) error: %v", name, err)

			continue
		}

		if v.Kind() != f.kind || v.String() != f.want {
			t.Errorf("Lookup(%q) = %v %q, want %v %q", name, v.Kind(), v.String(), f.kind, f.want)
		}
	}

	for _, name := range []string{"x", "label", "ptr", "Z", ""} {
		_, err := p.Lookup(name)

		var nf *NotFoundError
		if !errors.As(err, &nf) || nf.Name != name {
			t.Errorf("Lookup(%q) error = %v, want not found", name, err)
		}
	}

	got, err := MustCompile("{Label}: ({X:+}, {Y:+}) x{Scale}").RenderString(p)
	if err != nil {
		t.Fatalf("render error: %v", err)
	}

	if got != "origin: (-3, +4) x0.5" {
		t.Errorf("got %q", got)
	}
}

func TestFields_Bind(t *testing.T) {
	fields := Fields[point]{
		"x":     func(p point) Value { return Int64(p.X) },
		"label": func(p point) Value { return String(p.Label) },
	}

	l := fields.Bind(point{X: 12, Label: "a"})

	got, err := MustCompile("{label}={x:03}").RenderString(l)
	if err != nil {
		t.Fatalf("render error: %v", err)
	}

	if got != "a=012" {
		t.Errorf("got %q, want %q", got, "a=012")
	}

	if _, err := l.Lookup("X"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Lookup(X) error = %v, want not found", err)
	}

	if diff := cmp.Diff([]string{"label", "x"}, Names(l)); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
}
