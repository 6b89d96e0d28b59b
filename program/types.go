package program

import (
	"fmt"
	"strings"
)

// Type is the type of an expression or symbol.
type Type interface {
	String() string
	typeNode()
}

// BoolType is the boolean type.
type BoolType struct{}

// IntType is a fixed-width integer type.
type IntType struct {
	Bits   int
	Signed bool
}

// FloatType is an IEEE floating point type.
type FloatType struct {
	Bits int
}

// CharType is a 16-bit character type.
type CharType struct{}

// VoidType is the empty type.
type VoidType struct{}

// CodeType is the type of a function.
type CodeType struct {
	Return Type
	Params []Type
}

// PointerType is a reference to Elem.
type PointerType struct {
	Elem Type
}

// ArrayType is an array of Elem. Size < 0 means the length is only known
// at run time.
type ArrayType struct {
	Elem Type
	Size int
}

// StructTag refers to a named struct defined in the symbol table.
// Recursive types are expressed through tags.
type StructTag struct {
	Name string
}

// Field is a named struct component.
type Field struct {
	Type Type
	Name string
}

// StructType is a struct definition.
type StructType struct {
	Name   string
	Fields []Field
}

func (BoolType) typeNode()    {}
func (IntType) typeNode()     {}
func (FloatType) typeNode()   {}
func (CharType) typeNode()    {}
func (VoidType) typeNode()    {}
func (CodeType) typeNode()    {}
func (PointerType) typeNode() {}
func (ArrayType) typeNode()   {}
func (StructTag) typeNode()   {}
func (StructType) typeNode()  {}

func (BoolType) String() string { return "bool" }
func (CharType) String() string { return "char" }
func (VoidType) String() string { return "void" }

func (t IntType) String() string {
	if t.Signed {
		return fmt.Sprintf("int%d", t.Bits)
	}
	return fmt.Sprintf("uint%d", t.Bits)
}

func (t FloatType) String() string { return fmt.Sprintf("float%d", t.Bits) }

func (t CodeType) String() string {
	params := make([]string, len(t.Params))
	for i, p := range t.Params {
		params[i] = p.String()
	}
	ret := "void"
	if t.Return != nil {
		ret = t.Return.String()
	}
	return "code(" + strings.Join(params, ", ") + ") " + ret
}

func (t PointerType) String() string { return "*" + t.Elem.String() }

func (t ArrayType) String() string {
	if t.Size < 0 {
		return "[]" + t.Elem.String()
	}
	return fmt.Sprintf("[%d]%s", t.Size, t.Elem.String())
}

func (t StructTag) String() string { return "struct " + t.Name }

func (t StructType) String() string { return "struct " + t.Name }

// Field returns the component called name.
func (t StructType) Field(name string) (Field, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Common types.
var (
	Bool    Type = BoolType{}
	Char    Type = CharType{}
	Void    Type = VoidType{}
	Int8    Type = IntType{Bits: 8, Signed: true}
	Int16   Type = IntType{Bits: 16, Signed: true}
	Int32   Type = IntType{Bits: 32, Signed: true}
	Int64   Type = IntType{Bits: 64, Signed: true}
	Float32 Type = FloatType{Bits: 32}
	Float64 Type = FloatType{Bits: 64}
)

// Pointer returns a pointer type to elem.
func Pointer(elem Type) Type { return PointerType{Elem: elem} }

// ArrayOf returns an array type of size elements. Pass -1 for a
// dynamically sized array.
func ArrayOf(elem Type, size int) Type { return ArrayType{Elem: elem, Size: size} }

// Tag returns a reference to the named struct.
func Tag(name string) Type { return StructTag{Name: name} }

// IsScalar reports whether values of t are initialized by a single
// nondet assignment.
func IsScalar(t Type) bool {
	switch t.(type) {
	case BoolType, IntType, FloatType, CharType:
		return true
	}
	return false
}

// SameType reports structural equality of two types. Struct tags compare by name.
func SameType(a, b Type) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case PointerType:
		y, ok := b.(PointerType)
		return ok && SameType(x.Elem, y.Elem)
	case ArrayType:
		y, ok := b.(ArrayType)
		return ok && x.Size == y.Size && SameType(x.Elem, y.Elem)
	case CodeType:
		y, ok := b.(CodeType)
		if !ok || len(x.Params) != len(y.Params) || !SameType(x.Return, y.Return) {
			return false
		}
		for i := range x.Params {
			if !SameType(x.Params[i], y.Params[i]) {
				return false
			}
		}
		return true
	case StructType:
		switch y := b.(type) {
		case StructType:
			return x.Name == y.Name
		case StructTag:
			return x.Name == y.Name
		}
		return false
	case StructTag:
		switch y := b.(type) {
		case StructType:
			return x.Name == y.Name
		case StructTag:
			return x.Name == y.Name
		}
		return false
	default:
		return a == b
	}
}
