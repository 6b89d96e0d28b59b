package engine

import (
	"fmt"

	"github.com/wippyai/goto-nondet/code"
	"github.com/wippyai/goto-nondet/program"
)

// splice replaces the idiom with generated initialization code. It returns
// the position right after the inserted instructions and their count.
//
// Generation and lowering run before the body is touched, and the erase
// and insert are validated together, so on error the body is unchanged.
func (e *Engine) splice(fn string, body *program.Body, m *Idiom) (int, int, error) {
	loc := m.Location
	block := code.NewBlock(loc)
	err := e.generator.GenerateNondetInit(m.Target, block, e.symbols, loc, m.Variant.AllowNull(), e.maxArrayLength)
	if err != nil {
		return 0, 0, fmt.Errorf("function %s: nondet init of %s at %s: %w", fn, m.Target, loc, err)
	}

	instrs, err := e.lowerer.Lower(block, e.symbols)
	if err != nil {
		return 0, 0, fmt.Errorf("function %s: lower nondet init of %s: %w", fn, m.Target, err)
	}

	next, err := body.Splice(m.Call, m.End+1, instrs)
	if err != nil {
		return 0, 0, fmt.Errorf("function %s: replace call at %s: %w", fn, loc, err)
	}
	body.Update()
	return next, len(instrs), nil
}
