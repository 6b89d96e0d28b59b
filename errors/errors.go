package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseMatch    Phase = "match"    // idiom recognition
	PhaseSplice   Phase = "splice"   // structural edits on a body
	PhaseGenerate Phase = "generate" // nondet init synthesis
	PhaseLower    Phase = "lower"    // code block to instructions
	PhaseValidate Phase = "validate" // program invariants
	PhaseLoad     Phase = "load"     // program loading
	PhaseParse    Phase = "parse"    // IR file parsing
	PhaseConfig   Phase = "config"   // pass and CLI configuration
	PhaseRegistry Phase = "registry" // language mode lookup
)

// Kind categorizes the error
type Kind string

const (
	KindMalformedIdiom Kind = "malformed_idiom"
	KindDanglingTarget Kind = "dangling_target"
	KindUnsupported    Kind = "unsupported"
	KindNotFound       Kind = "not_found"
	KindDuplicate      Kind = "duplicate"
	KindInvalidInput   Kind = "invalid_input"
	KindInvalidData    Kind = "invalid_data"
	KindOutOfBounds    Kind = "out_of_bounds"
	KindRecursionLimit Kind = "recursion_limit"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	Function string
	Location string
	Detail   string
	Path     []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Function != "" {
		b.WriteString(" in ")
		b.WriteString(e.Function)
	}

	if e.Location != "" {
		b.WriteString(" at ")
		b.WriteString(e.Location)
	}

	if len(e.Path) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(e.Path, "."))
		b.WriteByte(')')
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Function sets the function the error refers to
func (b *Builder) Function(name string) *Builder {
	b.err.Function = name
	return b
}

// Location sets the source location the error refers to
func (b *Builder) Location(loc string) *Builder {
	b.err.Location = loc
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// MalformedIdiom creates an error for a stub call whose surrounding
// instructions do not have the translator-guaranteed shape.
func MalformedIdiom(function, location string, position int, detail string) *Error {
	return &Error{
		Phase:    PhaseMatch,
		Kind:     KindMalformedIdiom,
		Function: function,
		Location: location,
		Detail:   detail,
		Value:    position,
	}
}

// DanglingTarget creates an error for an erase that would orphan a branch target
func DanglingTarget(from, target int) *Error {
	return &Error{
		Phase:  PhaseSplice,
		Kind:   KindDanglingTarget,
		Detail: fmt.Sprintf("instruction %d branches to erased instruction %d", from, target),
		Value:  target,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, index, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Detail: fmt.Sprintf("position %d out of bounds (length %d)", index, length),
		Value:  index,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// Duplicate creates an error for a name registered twice
func Duplicate(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindDuplicate,
		Detail: fmt.Sprintf("%s %q already defined", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// RecursionLimit creates an error for type expansion that cannot terminate
func RecursionLimit(typeName string, depth int) *Error {
	return &Error{
		Phase:  PhaseGenerate,
		Kind:   KindRecursionLimit,
		Detail: fmt.Sprintf("cannot expand %s beyond depth %d without a null reference", typeName, depth),
		Value:  depth,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// ParseFailed creates a parsing error
func ParseFailed(what string, cause error) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindInvalidData,
		Detail: fmt.Sprintf("parse %s", what),
		Cause:  cause,
	}
}

// UnknownMode reports a language lookup that matched no registered mode
type UnknownMode struct {
	Query string
	Known []string
}

func (e *UnknownMode) Error() string {
	if len(e.Known) == 0 {
		return fmt.Sprintf("[registry] not_found: no language registered for %q", e.Query)
	}
	return fmt.Sprintf("[registry] not_found: no language registered for %q (known: %s)",
		e.Query, strings.Join(e.Known, ", "))
}

// Is reports whether target matches this error type
func (e *UnknownMode) Is(target error) bool {
	_, ok := target.(*UnknownMode)
	return ok
}
