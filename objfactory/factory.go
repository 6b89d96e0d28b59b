package objfactory

import (
	stderrors "errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/wippyai/goto-nondet/code"
	"github.com/wippyai/goto-nondet/errors"
	"github.com/wippyai/goto-nondet/program"
	"github.com/wippyai/goto-nondet/symtab"
)

// DefaultMaxDepth bounds how many pointer levels are expanded below the
// initialized object.
const DefaultMaxDepth = 5

// Prefixes of the symbols introduced by the factory.
const (
	ObjectPrefix = "tmp_object_factory"
	LengthPrefix = "tmp_array_length"
	ArrayPrefix  = "tmp_array"
	IndexPrefix  = "tmp_index"
)

// Options configures a Factory.
type Options struct {
	// Logger receives a debug entry per allocated object. Nil disables logging.
	Logger *zap.Logger

	// Mode tags the fresh symbols with a language mode.
	Mode string

	// MaxDepth limits pointer expansion. Zero means DefaultMaxDepth.
	MaxDepth int
}

// Factory synthesizes code that gives an lvalue an arbitrary valid value
// of its type.
//
// A Factory holds no per-call state and can be shared.
type Factory struct {
	logger   *zap.Logger
	mode     string
	maxDepth int
}

// New returns a Factory.
func New(opts Options) *Factory {
	f := &Factory{
		logger:   opts.Logger,
		mode:     opts.Mode,
		maxDepth: opts.MaxDepth,
	}
	if f.logger == nil {
		f.logger = zap.NewNop()
	}
	if f.maxDepth <= 0 {
		f.maxDepth = DefaultMaxDepth
	}
	return f
}

// genState is the mutable state of one GenerateNondetInit call.
type genState struct {
	factory   *Factory
	symbols   *symtab.Table
	onPath    map[string]bool
	loc       program.SourceLocation
	maxLength int
}

// GenerateNondetInit appends to into the statements that initialize target
// with a nondeterministic value of its type. When allowNull is false a
// reference-typed target is never left null; fields reachable from it may
// still be null.
func (f *Factory) GenerateNondetInit(target program.Expr, into *code.Block, symbols *symtab.Table,
	loc program.SourceLocation, allowNull bool, maxArrayLength int) error {
	if target == nil || into == nil || symbols == nil {
		return errors.InvalidInput(errors.PhaseGenerate, "target, block and symbol table are required")
	}
	if maxArrayLength < 0 {
		return errors.InvalidInput(errors.PhaseGenerate,
			fmt.Sprintf("negative maximum array length %d", maxArrayLength))
	}
	typ := program.TypeOf(target)
	if typ == nil {
		return errors.Unsupported(errors.PhaseGenerate, "target of unknown type "+target.String())
	}
	ctx := &genState{
		factory:   f,
		symbols:   symbols,
		onPath:    make(map[string]bool),
		loc:       loc,
		maxLength: maxArrayLength,
	}
	return ctx.gen(into, target, typ, allowNull, 0)
}

func (c *genState) gen(into *code.Block, target program.Expr, typ program.Type, allowNull bool, depth int) error {
	resolved, err := c.resolve(typ)
	if err != nil {
		return err
	}
	switch t := resolved.(type) {
	case program.BoolType, program.IntType, program.FloatType, program.CharType:
		c.assign(into, target, &program.Nondet{Type: t})
		return nil
	case program.PointerType:
		return c.genPointer(into, target, t, allowNull, depth)
	case program.StructType:
		return c.genStruct(into, target, t, depth)
	case program.ArrayType:
		if t.Size < 0 {
			return errors.Unsupported(errors.PhaseGenerate, "array value of dynamic length "+t.String())
		}
		bound := program.IntConst(strconv.Itoa(t.Size))
		return c.genElements(into, target, t.Elem, bound, depth)
	}
	return errors.Unsupported(errors.PhaseGenerate, "nondet initialization of "+resolved.String())
}

func (c *genState) genPointer(into *code.Block, target program.Expr, t program.PointerType, allowNull bool, depth int) error {
	elem, err := c.resolve(t.Elem)
	if err != nil {
		return err
	}
	switch elem.(type) {
	case program.CodeType, program.VoidType:
		return errors.Unsupported(errors.PhaseGenerate, "nondet initialization of "+t.String())
	}

	null := &program.Null{Type: t}
	st, isStruct := elem.(program.StructType)
	if depth >= c.factory.maxDepth || (isStruct && c.onPath[st.Name]) {
		if !allowNull {
			return errors.RecursionLimit(elem.String(), depth)
		}
		c.assign(into, target, null)
		return nil
	}

	alloc := code.NewBlock(c.loc)
	if arr, ok := elem.(program.ArrayType); ok && arr.Size < 0 {
		err = c.allocArray(alloc, target, t, arr, depth)
	} else {
		err = c.allocObject(alloc, target, elem, depth)
	}
	if err != nil {
		return err
	}

	if !allowNull {
		into.Add(alloc.Stmts...)
		return nil
	}
	isNull := code.NewBlock(c.loc)
	c.assign(isNull, target, null)
	into.Add(&code.If{
		Cond:     &program.Nondet{Type: program.Bool},
		Then:     isNull,
		Else:     alloc,
		Location: c.loc,
	})
	return nil
}

// allocObject declares a fresh object of type elem, initializes it and
// points target at it.
func (c *genState) allocObject(into *code.Block, target program.Expr, elem program.Type, depth int) error {
	declType := elem
	if st, ok := elem.(program.StructType); ok {
		declType = program.Tag(st.Name)
	}
	obj := c.fresh(into, ObjectPrefix, declType)
	c.factory.logger.Debug("allocated nondet object",
		zap.String("symbol", obj.ID),
		zap.String("type", elem.String()),
		zap.Int("depth", depth))

	if err := c.gen(into, obj, elem, true, depth+1); err != nil {
		return err
	}
	c.assign(into, target, &program.AddressOf{Op: obj})
	return nil
}

// allocArray builds a backing array of the maximum length, a fresh length
// bounded by it and an element loop up to that length.
func (c *genState) allocArray(into *code.Block, target program.Expr, ptr program.PointerType, arr program.ArrayType, depth int) error {
	length := c.fresh(into, LengthPrefix, program.Int32)
	c.assign(into, length, &program.Nondet{Type: program.Int32})
	into.Add(
		&code.Assume{Cond: &program.Binary{Op: program.OpGe, LHS: length, RHS: program.IntConst("0")}, Location: c.loc},
		&code.Assume{Cond: &program.Binary{Op: program.OpLe, LHS: length, RHS: program.IntConst(strconv.Itoa(c.maxLength))}, Location: c.loc},
	)

	backing := c.fresh(into, ArrayPrefix, program.ArrayOf(arr.Elem, c.maxLength))
	c.factory.logger.Debug("allocated nondet array",
		zap.String("symbol", backing.ID),
		zap.String("length", length.ID),
		zap.Int("max_length", c.maxLength))

	if err := c.genElements(into, backing, arr.Elem, length, depth+1); err != nil {
		return err
	}
	c.assign(into, target, &program.Typecast{Op: &program.AddressOf{Op: backing}, Type: ptr})
	return nil
}

// genElements initializes array[0..bound) with a counting loop.
func (c *genState) genElements(into *code.Block, array program.Expr, elem program.Type, bound program.Expr, depth int) error {
	index := c.fresh(into, IndexPrefix, program.Int32)
	c.assign(into, index, program.IntConst("0"))

	body := code.NewBlock(c.loc)
	if err := c.gen(body, &program.Index{Array: array, Index: index}, elem, true, depth); err != nil {
		return err
	}
	c.assign(body, index, &program.Binary{Op: program.OpAdd, LHS: index, RHS: program.IntConst("1")})

	into.Add(&code.While{
		Cond:     &program.Binary{Op: program.OpLt, LHS: index, RHS: bound},
		Body:     body,
		Location: c.loc,
	})
	return nil
}

func (c *genState) genStruct(into *code.Block, target program.Expr, st program.StructType, depth int) error {
	if c.onPath[st.Name] {
		return errors.RecursionLimit(st.String(), depth)
	}
	c.onPath[st.Name] = true
	defer delete(c.onPath, st.Name)

	for _, f := range st.Fields {
		member := &program.Member{Op: target, Field: f.Name, Type: f.Type}
		if err := c.gen(into, member, f.Type, true, depth); err != nil {
			return err
		}
	}
	return nil
}

func (c *genState) resolve(typ program.Type) (program.Type, error) {
	if typ == nil {
		return nil, errors.Unsupported(errors.PhaseGenerate, "value of unknown type")
	}
	resolved, err := c.symbols.Resolve(typ)
	if err != nil {
		var e *errors.Error
		if stderrors.As(err, &e) && e.Kind == errors.KindNotFound {
			return nil, errors.Wrap(errors.PhaseGenerate, errors.KindUnsupported, err, "undefined "+typ.String())
		}
		return nil, err
	}
	return resolved, nil
}

func (c *genState) fresh(into *code.Block, prefix string, typ program.Type) *program.Symbol {
	sym := c.symbols.Fresh(prefix, typ, c.loc, c.factory.mode).Expr()
	into.Add(&code.Decl{Symbol: sym, Location: c.loc})
	return sym
}

func (c *genState) assign(into *code.Block, lhs, rhs program.Expr) {
	into.Add(&code.Assign{LHS: lhs, RHS: rhs, Location: c.loc})
}
