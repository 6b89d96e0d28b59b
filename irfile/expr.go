package irfile

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/wippyai/goto-nondet/program"
	"github.com/wippyai/goto-nondet/symtab"
)

var binaryKeys = map[string]program.BinOp{
	"eq":  program.OpEq,
	"ne":  program.OpNe,
	"lt":  program.OpLt,
	"le":  program.OpLe,
	"gt":  program.OpGt,
	"ge":  program.OpGe,
	"and": program.OpAnd,
	"or":  program.OpOr,
	"add": program.OpAdd,
	"sub": program.OpSub,
}

var binaryNames = func() map[program.BinOp]string {
	out := make(map[program.BinOp]string, len(binaryKeys))
	for k, op := range binaryKeys {
		out[op] = k
	}
	return out
}()

// decoder turns generic YAML/JSON values into program values.
type decoder struct {
	symbols *symtab.Table
}

func (d *decoder) symbol(name string, path []string) (*program.Symbol, error) {
	s, ok := d.symbols.Lookup(name)
	if !ok {
		return nil, invalid(path, "undeclared symbol %q", name)
	}
	return s.Expr(), nil
}

// typedSymbol decodes "name" or {name: n, type: t}.
func (d *decoder) typedSymbol(v any, path []string) (*program.Symbol, error) {
	switch x := v.(type) {
	case string:
		return d.symbol(x, path)
	case map[string]any:
		name, ok := x["name"].(string)
		if !ok || name == "" {
			return nil, invalid(path, "symbol without name")
		}
		ts, ok := x["type"].(string)
		if !ok {
			return d.symbol(name, path)
		}
		t, err := ParseType(ts)
		if err != nil {
			return nil, invalid(path, "%v", err)
		}
		return program.NewSymbol(name, t), nil
	}
	return nil, invalid(path, "expected symbol, got %T", v)
}

func (d *decoder) typeField(v any, path []string) (program.Type, error) {
	s, ok := v.(string)
	if !ok {
		return nil, invalid(path, "expected type string, got %T", v)
	}
	t, err := ParseType(s)
	if err != nil {
		return nil, invalid(path, "%v", err)
	}
	return t, nil
}

func (d *decoder) expr(v any, path []string) (program.Expr, error) {
	switch x := v.(type) {
	case nil:
		return nil, invalid(path, "missing expression")
	case string:
		return d.symbol(x, path)
	case bool:
		if x {
			return program.True(), nil
		}
		return program.False(), nil
	case int:
		return program.IntConst(strconv.Itoa(x)), nil
	case int64:
		return &program.Constant{Type: program.Int64, Value: strconv.FormatInt(x, 10)}, nil
	case uint64:
		return &program.Constant{Type: program.IntType{Bits: 64}, Value: strconv.FormatUint(x, 10)}, nil
	case float64:
		if x == math.Trunc(x) && math.Abs(x) <= math.MaxInt32 {
			return program.IntConst(strconv.FormatInt(int64(x), 10)), nil
		}
		return &program.Constant{Type: program.Float64, Value: strconv.FormatFloat(x, 'g', -1, 64)}, nil
	case json.Number:
		if n, err := x.Int64(); err == nil {
			if n >= math.MinInt32 && n <= math.MaxInt32 {
				return program.IntConst(x.String()), nil
			}
			return &program.Constant{Type: program.Int64, Value: x.String()}, nil
		}
		return &program.Constant{Type: program.Float64, Value: x.String()}, nil
	case map[string]any:
		return d.compound(x, path)
	}
	return nil, invalid(path, "unsupported expression value %T", v)
}

func (d *decoder) compound(m map[string]any, path []string) (program.Expr, error) {
	if len(m) != 1 {
		return nil, invalid(path, "expression map must have exactly one key, got %d", len(m))
	}
	var key string
	var val any
	for k, v := range m {
		key, val = k, v
	}
	sub := append(path[:len(path):len(path)], key)

	if op, ok := binaryKeys[key]; ok {
		pair, ok := val.([]any)
		if !ok || len(pair) != 2 {
			return nil, invalid(sub, "expected [lhs, rhs]")
		}
		lhs, err := d.expr(pair[0], append(sub, "0"))
		if err != nil {
			return nil, err
		}
		rhs, err := d.expr(pair[1], append(sub, "1"))
		if err != nil {
			return nil, err
		}
		return &program.Binary{Op: op, LHS: lhs, RHS: rhs}, nil
	}

	switch key {
	case "sym":
		return d.typedSymbol(val, sub)
	case "const":
		fields, ok := val.(map[string]any)
		if !ok {
			return nil, invalid(sub, "expected {value, type}")
		}
		t, err := d.typeField(fields["type"], append(sub, "type"))
		if err != nil {
			return nil, err
		}
		return &program.Constant{Type: t, Value: fmt.Sprint(fields["value"])}, nil
	case "nondet":
		t, err := d.typeField(val, sub)
		if err != nil {
			return nil, err
		}
		return &program.Nondet{Type: t}, nil
	case "null":
		t, err := d.typeField(val, sub)
		if err != nil {
			return nil, err
		}
		return &program.Null{Type: t}, nil
	case "cast":
		fields, ok := val.(map[string]any)
		if !ok {
			return nil, invalid(sub, "expected {type, op}")
		}
		t, err := d.typeField(fields["type"], append(sub, "type"))
		if err != nil {
			return nil, err
		}
		op, err := d.expr(fields["op"], append(sub, "op"))
		if err != nil {
			return nil, err
		}
		return &program.Typecast{Op: op, Type: t}, nil
	case "addr", "deref", "not":
		op, err := d.expr(val, sub)
		if err != nil {
			return nil, err
		}
		switch key {
		case "addr":
			return &program.AddressOf{Op: op}, nil
		case "deref":
			return &program.Deref{Op: op}, nil
		}
		return &program.Not{Op: op}, nil
	case "member":
		return d.member(val, sub)
	case "index":
		fields, ok := val.(map[string]any)
		if !ok {
			return nil, invalid(sub, "expected {array, index}")
		}
		arr, err := d.expr(fields["array"], append(sub, "array"))
		if err != nil {
			return nil, err
		}
		idx, err := d.expr(fields["index"], append(sub, "index"))
		if err != nil {
			return nil, err
		}
		return &program.Index{Array: arr, Index: idx}, nil
	}
	return nil, invalid(sub, "unknown expression %q", key)
}

// member decodes {op, field, type}. A missing type is taken from the
// struct definition of the operand.
func (d *decoder) member(val any, path []string) (program.Expr, error) {
	fields, ok := val.(map[string]any)
	if !ok {
		return nil, invalid(path, "expected {op, field}")
	}
	op, err := d.expr(fields["op"], append(path, "op"))
	if err != nil {
		return nil, err
	}
	name, ok := fields["field"].(string)
	if !ok || name == "" {
		return nil, invalid(path, "member without field")
	}
	if ts, ok := fields["type"]; ok {
		t, err := d.typeField(ts, append(path, "type"))
		if err != nil {
			return nil, err
		}
		return &program.Member{Op: op, Field: name, Type: t}, nil
	}
	resolved, err := d.symbols.Resolve(program.TypeOf(op))
	if err != nil {
		return nil, invalid(path, "%v", err)
	}
	st, ok := resolved.(program.StructType)
	if !ok {
		return nil, invalid(path, "member %q of non-struct %v", name, resolved)
	}
	f, ok := st.Field(name)
	if !ok {
		return nil, invalid(path, "struct %s has no field %q", st.Name, name)
	}
	return &program.Member{Op: op, Field: name, Type: f.Type}, nil
}

// encoder turns program values into generic values for YAML/JSON output.
type encoder struct {
	symbols *symtab.Table
}

// symbol encodes a declared symbol by name and any other with its type.
func (e *encoder) symbol(s *program.Symbol) any {
	if decl, ok := e.symbols.Lookup(s.ID); ok && program.SameType(decl.Type, s.Type) {
		return s.ID
	}
	m := map[string]any{"name": s.ID}
	if s.Type != nil {
		m["type"] = s.Type.String()
	}
	return map[string]any{"sym": m}
}

func (e *encoder) expr(x program.Expr) any {
	switch v := x.(type) {
	case nil:
		return nil
	case *program.Symbol:
		return e.symbol(v)
	case *program.Constant:
		return e.constant(v)
	case *program.Nondet:
		return map[string]any{"nondet": typeName(v.Type)}
	case *program.Null:
		return map[string]any{"null": typeName(v.Type)}
	case *program.Typecast:
		return map[string]any{"cast": map[string]any{"type": typeName(v.Type), "op": e.expr(v.Op)}}
	case *program.AddressOf:
		return map[string]any{"addr": e.expr(v.Op)}
	case *program.Deref:
		return map[string]any{"deref": e.expr(v.Op)}
	case *program.Not:
		return map[string]any{"not": e.expr(v.Op)}
	case *program.Member:
		m := map[string]any{"op": e.expr(v.Op), "field": v.Field}
		if v.Type != nil {
			m["type"] = v.Type.String()
		}
		return map[string]any{"member": m}
	case *program.Index:
		return map[string]any{"index": map[string]any{"array": e.expr(v.Array), "index": e.expr(v.Index)}}
	case *program.Binary:
		return map[string]any{binaryNames[v.Op]: []any{e.expr(v.LHS), e.expr(v.RHS)}}
	}
	return map[string]any{"unknown": fmt.Sprintf("%T", x)}
}

func (e *encoder) constant(c *program.Constant) any {
	switch {
	case program.SameType(c.Type, program.Bool) && (c.Value == "true" || c.Value == "false"):
		return c.Value == "true"
	case program.SameType(c.Type, program.Int32):
		if n, err := strconv.Atoi(c.Value); err == nil {
			return n
		}
	}
	return map[string]any{"const": map[string]any{"value": c.Value, "type": typeName(c.Type)}}
}

func typeName(t program.Type) string {
	if t == nil {
		return "void"
	}
	return t.String()
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
