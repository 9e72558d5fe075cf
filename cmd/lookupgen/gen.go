package main

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"go/types"
	"log/slog"
	"slices"
	"strconv"
	"strings"
)

// formatPath is the import path of the package providing Value.
const formatPath = "github.com/ardnew/dynfmt/format"

var (
	errTypeNotFound  = errors.New("type not found")
	errNotStruct     = errors.New("type is not a struct")
	errGenericStruct = errors.New("generic types are not supported")
	errNameConflict  = errors.New("field name conflicts with a generated method")
)

// methods are the names of the generated methods. A field with one of these
// names would collide with them.
var methods = []string{"Lookup", "Names"}

// constructors maps basic kinds to the format constructor and the Go type
// its argument must have.
var constructors = map[types.BasicKind]struct{ fn, typ string }{
	types.String:  {"String", "string"},
	types.Bool:    {"Bool", "bool"},
	types.Int:     {"Int", "int"},
	types.Int64:   {"Int64", "int64"},
	types.Int32:   {"Int32", "int32"},
	types.Int16:   {"Int16", "int16"},
	types.Int8:    {"Int8", "int8"},
	types.Uint:    {"Uint", "uint"},
	types.Uint64:  {"Uint64", "uint64"},
	types.Uint32:  {"Uint32", "uint32"},
	types.Uint16:  {"Uint16", "uint16"},
	types.Uint8:   {"Uint8", "uint8"},
	types.Float32: {"Float32", "float32"},
	types.Float64: {"Float64", "float64"},
}

// field is one struct field that a generated Lookup resolves.
type field struct {
	name string
	expr string // Value-producing expression over receiver r
}

// generator accumulates the generated source for one package.
type generator struct {
	buf   bytes.Buffer
	pkg   *types.Package
	local bool // generating into the format package itself
}

func (g *generator) printf(layout string, args ...any) {
	fmt.Fprintf(&g.buf, layout, args...)
}

// qualify returns the package-qualified name of a format identifier.
func (g *generator) qualify(name string) string {
	if g.local {
		return name
	}

	return "format." + name
}

// generate returns gofmt-ed source declaring Lookup and Names methods for
// each named struct type in pkg.
func generate(pkg *types.Package, typeNames []string, command string) ([]byte, error) {
	g := &generator{pkg: pkg, local: pkg.Path() == formatPath}

	g.printf("// Code generated by \"%s\"; DO NOT EDIT.\n\n", command)
	g.printf("package %s\n\n", pkg.Name())

	if !g.local {
		g.printf("import %q\n", formatPath)
	}

	for _, name := range typeNames {
		fields, err := g.fields(name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}

		g.emit(name, fields)
	}

	src, err := format.Source(g.buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format generated source: %w", err)
	}

	return src, nil
}

// fields returns the supported fields of the struct type named name, in
// declaration order.
func (g *generator) fields(name string) ([]field, error) {
	obj, ok := g.pkg.Scope().Lookup(name).(*types.TypeName)
	if !ok {
		return nil, errTypeNotFound
	}

	named, ok := types.Unalias(obj.Type()).(*types.Named)
	if !ok {
		return nil, errNotStruct
	}

	if named.TypeParams().Len() > 0 {
		return nil, errGenericStruct
	}

	st, ok := named.Underlying().(*types.Struct)
	if !ok {
		return nil, errNotStruct
	}

	var out []field

	for f := range st.Fields() {
		if slices.Contains(methods, f.Name()) {
			return nil, fmt.Errorf("%w: %s", errNameConflict, f.Name())
		}

		if f.Embedded() || f.Name() == "_" {
			continue
		}

		expr, ok := g.valueExpr(f)
		if !ok {
			logger.Debug("skipping field",
				slog.String("type", name),
				slog.String("field", f.Name()),
				slog.String("field_type", f.Type().String()),
			)

			continue
		}

		out = append(out, field{name: f.Name(), expr: expr})
	}

	return out, nil
}

// valueExpr returns the expression converting field f of receiver r into a
// Value, or false if the field type has no Value kind.
func (g *generator) valueExpr(f *types.Var) (string, bool) {
	typ := types.Unalias(f.Type())

	basic, ok := typ.Underlying().(*types.Basic)
	if !ok {
		return "", false
	}

	c, ok := constructors[basic.Kind()]
	if !ok {
		return "", false
	}

	arg := "r." + f.Name()

	// Named types need a conversion to the constructor's argument type.
	if _, isBasic := typ.(*types.Basic); !isBasic {
		arg = c.typ + "(" + arg + ")"
	}

	return g.qualify(c.fn) + "(" + arg + ")", true
}

// emit writes the methods for one type.
func (g *generator) emit(typeName string, fields []field) {
	value := g.qualify("Value")

	g.printf("\n// Lookup returns the value of the field called name.\n")
	g.printf("func (r %s) Lookup(name string) (%s, error) {\n", typeName, value)
	g.printf("switch name {\n")

	for _, f := range fields {
		g.printf("case %s:\nreturn %s, nil\n", strconv.Quote(f.name), f.expr)
	}

	g.printf("}\n\n")
	g.printf("return %s{}, %s(name)\n", value, g.qualify("NotFound"))
	g.printf("}\n")

	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.name
	}

	slices.Sort(names)

	for i, name := range names {
		names[i] = strconv.Quote(name)
	}

	g.printf("\n// Names returns the field names known to Lookup.\n")
	g.printf("func (%s) Names() []string {\n", typeName)

	if len(names) == 0 {
		g.printf("return nil\n")
	} else {
		g.printf("return []string{%s}\n", strings.Join(names, ", "))
	}

	g.printf("}\n")
}
