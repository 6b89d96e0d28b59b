package irfile

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/goto-nondet/errors"
	"github.com/wippyai/goto-nondet/program"
	"github.com/wippyai/goto-nondet/symtab"
)

// Format selects the surface syntax of a file.
type Format int

const (
	YAML Format = iota
	JSON
)

func (f Format) String() string {
	if f == JSON {
		return "json"
	}
	return "yaml"
}

// File is the document layout shared by both formats.
type File struct {
	Structs   []Struct   `yaml:"structs,omitempty" json:"structs,omitempty"`
	Symbols   []Symbol   `yaml:"symbols,omitempty" json:"symbols,omitempty"`
	Functions []Function `yaml:"functions" json:"functions"`
}

// Struct is a named struct definition.
type Struct struct {
	Name   string  `yaml:"name" json:"name"`
	Fields []Field `yaml:"fields,omitempty" json:"fields,omitempty"`
}

// Field is a struct component.
type Field struct {
	Name string `yaml:"name" json:"name"`
	Type string `yaml:"type" json:"type"`
}

// Symbol is a symbol table entry.
type Symbol struct {
	Location *Location `yaml:"location,omitempty" json:"location,omitempty"`
	Name     string    `yaml:"name" json:"name"`
	Type     string    `yaml:"type" json:"type"`
	Mode     string    `yaml:"mode,omitempty" json:"mode,omitempty"`
	Static   bool      `yaml:"static,omitempty" json:"static,omitempty"`
}

// Location is a source location.
type Location struct {
	File     string `yaml:"file,omitempty" json:"file,omitempty"`
	Function string `yaml:"function,omitempty" json:"function,omitempty"`
	Line     int    `yaml:"line,omitempty" json:"line,omitempty"`
}

// Function is a named body. Each instruction is a map with exactly one
// kind key plus optional label, labels and location keys.
type Function struct {
	Name string           `yaml:"name" json:"name"`
	Body []map[string]any `yaml:"body" json:"body"`
}

var kindKeys = map[string]program.Kind{
	"skip":         program.KindSkip,
	"assign":       program.KindAssign,
	"call":         program.KindCall,
	"goto":         program.KindGoto,
	"assume":       program.KindAssume,
	"assert":       program.KindAssert,
	"decl":         program.KindDecl,
	"dead":         program.KindDead,
	"return":       program.KindReturn,
	"other":        program.KindOther,
	"end_function": program.KindEndFunction,
}

// Decode reads a program and its symbol table.
func Decode(r io.Reader, format Format) (*program.Program, *symtab.Table, error) {
	var f File
	switch format {
	case JSON:
		dec := json.NewDecoder(r)
		dec.UseNumber()
		if err := dec.Decode(&f); err != nil {
			return nil, nil, errors.ParseFailed("json program", err)
		}
	default:
		if err := yaml.NewDecoder(r).Decode(&f); err != nil && err != io.EOF {
			return nil, nil, errors.ParseFailed("yaml program", err)
		}
	}
	return Build(&f)
}

// Build converts a decoded document into a numbered program.
func Build(f *File) (*program.Program, *symtab.Table, error) {
	st := symtab.New()
	for i, s := range f.Structs {
		def := program.StructType{Name: s.Name}
		for j, fld := range s.Fields {
			t, err := ParseType(fld.Type)
			if err != nil {
				return nil, nil, invalid([]string{"structs", strconv.Itoa(i), "fields", strconv.Itoa(j)}, "%v", err)
			}
			def.Fields = append(def.Fields, program.Field{Name: fld.Name, Type: t})
		}
		if err := st.DefineStruct(def); err != nil {
			return nil, nil, err
		}
	}
	for i, s := range f.Symbols {
		t, err := ParseType(s.Type)
		if err != nil {
			return nil, nil, invalid([]string{"symbols", strconv.Itoa(i)}, "%v", err)
		}
		sym := &symtab.Symbol{Name: s.Name, Type: t, Mode: s.Mode, IsStatic: s.Static}
		if s.Location != nil {
			sym.Location = s.Location.source()
		}
		if err := st.Add(sym); err != nil {
			return nil, nil, err
		}
	}

	d := &decoder{symbols: st}
	p := program.New()
	for _, fn := range f.Functions {
		body, err := d.body(fn)
		if err != nil {
			return nil, nil, err
		}
		if _, err := p.Add(fn.Name, body); err != nil {
			return nil, nil, err
		}
	}
	p.ComputeLocationNumbers()
	return p, st, nil
}

func (d *decoder) body(fn Function) (*program.Body, error) {
	instrs := make([]*program.Instruction, len(fn.Body))
	labels := make(map[string]*program.Instruction)
	pending := make(map[*program.Instruction][]string)

	for i, raw := range fn.Body {
		path := []string{"functions", fn.Name, "body", strconv.Itoa(i)}
		in, targets, err := d.instruction(raw, path)
		if err != nil {
			return nil, err
		}
		for _, l := range in.Labels {
			if _, dup := labels[l]; dup {
				return nil, invalid(path, "duplicate label %q", l)
			}
			labels[l] = in
		}
		if len(targets) > 0 {
			pending[in] = targets
		}
		instrs[i] = in
	}

	for i, in := range instrs {
		for _, name := range pending[in] {
			t, ok := labels[name]
			if !ok {
				return nil, invalid([]string{"functions", fn.Name, "body", strconv.Itoa(i), "goto"},
					"unresolved label %q", name)
			}
			in.Targets = append(in.Targets, t)
		}
	}
	return program.NewBody(instrs...), nil
}

// instruction decodes one entry and returns the goto target labels it
// names, resolved once the whole body is known.
func (d *decoder) instruction(raw map[string]any, path []string) (*program.Instruction, []string, error) {
	var kindKey string
	for _, k := range sortedKeys(raw) {
		if _, ok := kindKeys[k]; !ok {
			continue
		}
		if kindKey != "" {
			return nil, nil, invalid(path, "instruction has both %q and %q", kindKey, k)
		}
		kindKey = k
	}
	if kindKey == "" {
		return nil, nil, invalid(path, "instruction without kind")
	}
	for k := range raw {
		if _, isKind := kindKeys[k]; !isKind && k != "label" && k != "labels" && k != "location" {
			return nil, nil, invalid(path, "unknown key %q", k)
		}
	}

	loc, err := decodeLocation(raw["location"], append(path, "location"))
	if err != nil {
		return nil, nil, err
	}
	val := raw[kindKey]
	sub := append(path[:len(path):len(path)], kindKey)

	var in *program.Instruction
	var targets []string
	switch kindKeys[kindKey] {
	case program.KindSkip:
		in = program.NewSkip(loc)
	case program.KindEndFunction:
		in = program.NewEndFunction(loc)
	case program.KindAssign:
		fields, ok := val.(map[string]any)
		if !ok {
			return nil, nil, invalid(sub, "expected {lhs, rhs}")
		}
		lhs, err := d.expr(fields["lhs"], append(sub, "lhs"))
		if err != nil {
			return nil, nil, err
		}
		rhs, err := d.expr(fields["rhs"], append(sub, "rhs"))
		if err != nil {
			return nil, nil, err
		}
		in = program.NewAssign(lhs, rhs, loc)
	case program.KindCall:
		in, err = d.call(val, sub, loc)
	case program.KindGoto:
		in, targets, err = d.jump(val, sub, loc)
	case program.KindAssume, program.KindAssert:
		cond, cerr := d.expr(val, sub)
		if cerr != nil {
			return nil, nil, cerr
		}
		if kindKey == "assume" {
			in = program.NewAssume(cond, loc)
		} else {
			in = program.NewAssert(cond, loc)
		}
	case program.KindDecl, program.KindDead:
		s, serr := d.typedSymbol(val, sub)
		if serr != nil {
			return nil, nil, serr
		}
		if kindKey == "decl" {
			in = program.NewDecl(s, loc)
		} else {
			in = program.NewDead(s, loc)
		}
	case program.KindReturn:
		var value program.Expr
		if val != nil {
			if value, err = d.expr(val, sub); err != nil {
				return nil, nil, err
			}
		}
		in = program.NewReturn(value, loc)
	case program.KindOther:
		in, err = d.other(val, sub, loc)
	}
	if err != nil {
		return nil, nil, err
	}

	labels, err := decodeLabels(raw, path)
	if err != nil {
		return nil, nil, err
	}
	in.Labels = labels
	return in, targets, nil
}

func (d *decoder) call(val any, path []string, loc program.SourceLocation) (*program.Instruction, error) {
	fields, ok := val.(map[string]any)
	if !ok {
		return nil, invalid(path, "expected {function, lhs, args}")
	}
	var fn program.Expr
	switch f := fields["function"].(type) {
	case string:
		// Callees need not be declared.
		if s, ok := d.symbols.Lookup(f); ok {
			fn = s.Expr()
		} else {
			fn = program.NewSymbol(f, program.CodeType{Return: program.Void})
		}
	default:
		var err error
		if fn, err = d.expr(f, append(path, "function")); err != nil {
			return nil, err
		}
	}
	var lhs program.Expr
	if raw, ok := fields["lhs"]; ok && raw != nil {
		var err error
		if lhs, err = d.expr(raw, append(path, "lhs")); err != nil {
			return nil, err
		}
	}
	args, err := d.exprList(fields["args"], append(path, "args"))
	if err != nil {
		return nil, err
	}
	return program.NewCall(lhs, fn, args, loc), nil
}

func (d *decoder) jump(val any, path []string, loc program.SourceLocation) (*program.Instruction, []string, error) {
	var targets []string
	var guard program.Expr
	switch x := val.(type) {
	case string:
		targets = []string{x}
	case map[string]any:
		var err error
		if targets, err = stringList(x["target"], append(path, "target")); err != nil {
			return nil, nil, err
		}
		if g, ok := x["guard"]; ok && g != nil {
			if guard, err = d.expr(g, append(path, "guard")); err != nil {
				return nil, nil, err
			}
		}
	default:
		return nil, nil, invalid(path, "expected target label or {target, guard}")
	}
	if len(targets) == 0 {
		return nil, nil, invalid(path, "goto without target")
	}
	in := program.NewGoto(nil, guard, loc)
	return in, targets, nil
}

func (d *decoder) other(val any, path []string, loc program.SourceLocation) (*program.Instruction, error) {
	switch x := val.(type) {
	case string:
		return program.NewOther(x, nil, loc), nil
	case map[string]any:
		stmt, _ := x["statement"].(string)
		ops, err := d.exprList(x["operands"], append(path, "operands"))
		if err != nil {
			return nil, err
		}
		return program.NewOther(stmt, ops, loc), nil
	}
	return nil, invalid(path, "expected statement or {statement, operands}")
}

func (d *decoder) exprList(v any, path []string) ([]program.Expr, error) {
	if v == nil {
		return nil, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, invalid(path, "expected list")
	}
	out := make([]program.Expr, len(list))
	for i, item := range list {
		e, err := d.expr(item, append(path[:len(path):len(path)], strconv.Itoa(i)))
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

func stringList(v any, path []string) ([]string, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{x}, nil
	case []any:
		out := make([]string, len(x))
		for i, item := range x {
			s, ok := item.(string)
			if !ok {
				return nil, invalid(path, "expected label, got %T", item)
			}
			out[i] = s
		}
		return out, nil
	}
	return nil, invalid(path, "expected label or list of labels")
}

func decodeLabels(raw map[string]any, path []string) ([]string, error) {
	var out []string
	if l, ok := raw["label"]; ok {
		s, ok := l.(string)
		if !ok {
			return nil, invalid(append(path, "label"), "expected string")
		}
		out = append(out, s)
	}
	more, err := stringList(raw["labels"], append(path, "labels"))
	if err != nil {
		return nil, err
	}
	return append(out, more...), nil
}

func decodeLocation(v any, path []string) (program.SourceLocation, error) {
	if v == nil {
		return program.SourceLocation{}, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return program.SourceLocation{}, invalid(path, "expected {file, line, function}")
	}
	var loc program.SourceLocation
	loc.File, _ = m["file"].(string)
	loc.Function, _ = m["function"].(string)
	switch n := m["line"].(type) {
	case int:
		loc.Line = n
	case float64:
		loc.Line = int(n)
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return loc, invalid(path, "line %q is not an integer", n)
		}
		loc.Line = int(i)
	}
	return loc, nil
}

func (l *Location) source() program.SourceLocation {
	return program.SourceLocation{File: l.File, Function: l.Function, Line: l.Line}
}

func location(loc program.SourceLocation) *Location {
	if loc.IsNil() {
		return nil
	}
	return &Location{File: loc.File, Function: loc.Function, Line: loc.Line}
}

// Encode writes p and its symbol table.
func Encode(w io.Writer, p *program.Program, st *symtab.Table, format Format) error {
	f := Document(p, st)
	switch format {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(f)
	default:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(f); err != nil {
			return err
		}
		return enc.Close()
	}
}

// Document converts p and st into their file layout. Goto targets without
// a label receive a generated one.
func Document(p *program.Program, st *symtab.Table) *File {
	if st == nil {
		st = symtab.New()
	}
	f := &File{}
	for _, s := range st.Structs() {
		out := Struct{Name: s.Name}
		for _, fld := range s.Fields {
			out.Fields = append(out.Fields, Field{Name: fld.Name, Type: typeName(fld.Type)})
		}
		f.Structs = append(f.Structs, out)
	}
	for _, s := range st.Symbols() {
		f.Symbols = append(f.Symbols, Symbol{
			Name:     s.Name,
			Type:     typeName(s.Type),
			Mode:     s.Mode,
			Static:   s.IsStatic,
			Location: location(s.Location),
		})
	}
	e := &encoder{symbols: st}
	for _, fn := range p.Functions() {
		f.Functions = append(f.Functions, Function{Name: fn.Name, Body: e.body(fn.Body)})
	}
	return f
}

func (e *encoder) body(b *program.Body) []map[string]any {
	names := targetLabels(b)
	out := make([]map[string]any, 0, b.Len())
	for _, in := range b.Instructions() {
		m := map[string]any{}
		switch labels := names[in]; len(labels) {
		case 0:
		case 1:
			m["label"] = labels[0]
		default:
			m["labels"] = labels
		}
		if l := location(in.Location); l != nil {
			loc := map[string]any{}
			if l.File != "" {
				loc["file"] = l.File
			}
			if l.Line != 0 {
				loc["line"] = l.Line
			}
			if l.Function != "" {
				loc["function"] = l.Function
			}
			m["location"] = loc
		}
		key, val := e.instruction(in, names)
		m[key] = val
		out = append(out, m)
	}
	return out
}

func (e *encoder) instruction(in *program.Instruction, names map[*program.Instruction][]string) (string, any) {
	switch in.Kind {
	case program.KindAssign:
		a, _ := in.AsAssign()
		return "assign", map[string]any{"lhs": e.expr(a.LHS), "rhs": e.expr(a.RHS)}
	case program.KindCall:
		c, _ := in.AsCall()
		m := map[string]any{}
		if s, ok := c.Function.(*program.Symbol); ok {
			m["function"] = s.ID
		} else {
			m["function"] = e.expr(c.Function)
		}
		if c.LHS != nil {
			m["lhs"] = e.expr(c.LHS)
		}
		if len(c.Args) > 0 {
			args := make([]any, len(c.Args))
			for i, a := range c.Args {
				args[i] = e.expr(a)
			}
			m["args"] = args
		}
		return "call", m
	case program.KindGoto:
		targets := make([]any, len(in.Targets))
		for i, t := range in.Targets {
			targets[i] = names[t][0]
		}
		m := map[string]any{}
		if len(targets) == 1 {
			m["target"] = targets[0]
		} else {
			m["target"] = targets
		}
		if in.Guard != nil {
			m["guard"] = e.expr(in.Guard)
		}
		return "goto", m
	case program.KindAssume:
		return "assume", e.expr(in.Guard)
	case program.KindAssert:
		return "assert", e.expr(in.Guard)
	case program.KindDecl:
		c, _ := in.Code.(*program.Decl)
		return "decl", e.declared(c.Symbol)
	case program.KindDead:
		c, _ := in.Code.(*program.Dead)
		return "dead", e.declared(c.Symbol)
	case program.KindReturn:
		c, _ := in.Code.(*program.Return)
		if c == nil || c.Value == nil {
			return "return", nil
		}
		return "return", e.expr(c.Value)
	case program.KindOther:
		c, _ := in.Code.(*program.Other)
		ops := make([]any, len(c.Operands))
		for i, o := range c.Operands {
			ops[i] = e.expr(o)
		}
		return "other", map[string]any{"statement": c.Statement, "operands": ops}
	case program.KindEndFunction:
		return "end_function", map[string]any{}
	}
	return "skip", map[string]any{}
}

// declared encodes the symbol of a decl or dead instruction.
func (e *encoder) declared(s *program.Symbol) any {
	if v, ok := e.symbol(s).(string); ok {
		return v
	}
	m := map[string]any{"name": s.ID}
	if s.Type != nil {
		m["type"] = s.Type.String()
	}
	return m
}

// targetLabels returns the labels of every instruction, generating one for
// branch targets that have none.
func targetLabels(b *program.Body) map[*program.Instruction][]string {
	names := make(map[*program.Instruction][]string)
	taken := make(map[string]bool)
	for _, in := range b.Instructions() {
		if len(in.Labels) > 0 {
			names[in] = append([]string(nil), in.Labels...)
			for _, l := range in.Labels {
				taken[l] = true
			}
		}
	}
	n := 0
	for _, in := range b.Instructions() {
		for _, t := range in.Targets {
			if len(names[t]) > 0 {
				continue
			}
			for {
				name := fmt.Sprintf("L%d", n)
				n++
				if !taken[name] {
					taken[name] = true
					names[t] = []string{name}
					break
				}
			}
		}
	}
	return names
}

func invalid(path []string, format string, args ...any) error {
	return errors.InvalidData(errors.PhaseParse, append([]string(nil), path...), fmt.Sprintf(format, args...))
}
