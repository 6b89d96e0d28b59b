package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/goto-nondet/errors"
	"github.com/wippyai/goto-nondet/program"
)

// Idiom is a recognized stub call and the assignment that consumes its
// result. Positions are only valid until the body is edited.
type Idiom struct {
	Target   program.Expr
	Callee   string
	Carrier  string
	Location program.SourceLocation
	Call     int
	End      int
	Variant  Variant
}

// matchIdiom returns the idiom starting at pos, nil when pos does not
// start one, or a malformed_idiom error when a stub call lacks the shape
// the translator guarantees.
func (e *Engine) matchIdiom(fn string, body *program.Body, pos int) (*Idiom, error) {
	in := body.At(pos)
	if in == nil {
		return nil, nil
	}
	call, ok := in.AsCall()
	if !ok {
		return nil, nil
	}
	callee, ok := program.SymbolID(call.Function)
	if !ok {
		return nil, nil
	}
	variant, ok := e.matcher.Match(callee)
	if !ok {
		return nil, nil
	}

	carrier, scanFrom, err := e.carrier(fn, body, pos, call)
	if err != nil || carrier == "" {
		return nil, err
	}

	end := findAssignmentFrom(body, scanFrom, carrier)
	if end < 0 {
		return nil, errors.MalformedIdiom(fn, in.Location.String(), pos,
			fmt.Sprintf("no assignment from %s after call to %s", carrier, callee))
	}

	assign, _ := body.At(end).AsAssign()
	m := &Idiom{
		Target:   assign.LHS,
		Callee:   callee,
		Carrier:  carrier,
		Location: in.Location,
		Call:     pos,
		End:      end,
		Variant:  variant,
	}
	e.logger.Debug("matched nondet call",
		zap.String("function", fn),
		zap.String("callee", callee),
		zap.String("location", in.Location.String()),
		zap.Int("from", m.Call),
		zap.Int("to", m.End),
		zap.Stringer("variant", variant))
	return m, nil
}

// carrier returns the identifier holding the call result and the position
// where the search for its consumer starts. An empty identifier with a
// nil error means the site is skipped.
//
// When the call writes a symbol rv and the next instruction copies rv into
// a temporary that is itself assigned further down, the temporary is the
// carrier. Otherwise rv is.
func (e *Engine) carrier(fn string, body *program.Body, pos int, call *program.Call) (string, int, error) {
	if call.LHS != nil {
		if rv, ok := program.SymbolID(call.LHS); ok {
			if tmp, ok := copyOf(body.At(pos+1), rv); ok && findAssignmentFrom(body, pos+2, tmp) >= 0 {
				return tmp, pos + 2, nil
			}
			return rv, pos + 1, nil
		}
	}

	in := body.At(pos)
	next := body.At(pos + 1)
	if next == nil {
		return "", 0, errors.MalformedIdiom(fn, in.Location.String(), pos,
			"stub call is the last instruction of the body")
	}
	capture, ok := next.AsAssign()
	if !ok {
		return "", 0, errors.MalformedIdiom(fn, in.Location.String(), pos,
			fmt.Sprintf("stub call is followed by %s instead of an assignment", next.Kind))
	}
	id, ok := program.SymbolID(capture.LHS)
	if !ok {
		e.logger.Debug("skipping stub call with compound result",
			zap.String("function", fn),
			zap.String("location", in.Location.String()),
			zap.String("lhs", capture.LHS.String()))
		return "", 0, nil
	}
	return id, pos + 2, nil
}

// assignsFrom reports whether in assigns the carrier, possibly cast.
func assignsFrom(in *program.Instruction, carrier string) bool {
	a, ok := in.AsAssign()
	if !ok {
		return false
	}
	return program.IsSymbolWithID(a.RHS, carrier) || program.IsTypecastOfSymbol(a.RHS, carrier)
}

// copyOf returns the symbol assigned by in when in copies id, possibly
// cast.
func copyOf(in *program.Instruction, id string) (string, bool) {
	if in == nil || !assignsFrom(in, id) {
		return "", false
	}
	a, _ := in.AsAssign()
	return program.SymbolID(a.LHS)
}

// findAssignmentFrom returns the position of the first assignment from id
// at or after from, or -1.
func findAssignmentFrom(body *program.Body, from int, id string) int {
	for i := from; i < body.Len(); i++ {
		if assignsFrom(body.At(i), id) {
			return i
		}
	}
	return -1
}

func writes(in *program.Instruction, id string) bool {
	if a, ok := in.AsAssign(); ok {
		return program.IsSymbolWithID(a.LHS, id)
	}
	if c, ok := in.AsCall(); ok {
		return program.IsSymbolWithID(c.LHS, id)
	}
	return false
}

// carrierReuse reports uses of the carrier after the consuming assignment,
// up to the next write of the carrier. Only the first use is rewritten.
func (e *Engine) carrierReuse(fn string, body *program.Body, m *Idiom) []Warning {
	var out []Warning
	for i := m.End + 1; i < body.Len(); i++ {
		in := body.At(i)
		if in.Kind == program.KindDecl || in.Kind == program.KindDead {
			continue
		}
		if writes(in, m.Carrier) {
			break
		}
		if !in.Mentions(m.Carrier) {
			continue
		}
		w := Warning{
			Function: fn,
			Location: in.Location,
			Position: i,
			Message: fmt.Sprintf("%s is used again after its nondet value was assigned to %s; only the first use is rewritten",
				m.Carrier, m.Target),
		}
		e.logger.Warn("nondet result reused",
			zap.String("function", fn),
			zap.String("carrier", m.Carrier),
			zap.String("location", in.Location.String()))
		out = append(out, w)
	}
	return out
}
