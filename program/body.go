package program

import (
	"fmt"
	"io"
	"strings"

	"github.com/wippyai/goto-nondet/errors"
	"github.com/wippyai/goto-nondet/program/internal/bitset"
)

// Body is the instruction list of one function.
//
// Instructions are addressed by position. Every structural edit returns
// the position at which a caller walking the body should resume; any other
// position obtained before the edit is stale afterwards.
type Body struct {
	instrs []*Instruction
	base   int
}

// NewBody returns a body holding instrs in order.
func NewBody(instrs ...*Instruction) *Body {
	b := &Body{}
	b.instrs = append(b.instrs, instrs...)
	return b
}

// Len returns the number of instructions.
func (b *Body) Len() int { return len(b.instrs) }

// At returns the instruction at pos, or nil when pos is out of range.
func (b *Body) At(pos int) *Instruction {
	if pos < 0 || pos >= len(b.instrs) {
		return nil
	}
	return b.instrs[pos]
}

// Instructions returns a copy of the instruction list.
func (b *Body) Instructions() []*Instruction {
	out := make([]*Instruction, len(b.instrs))
	copy(out, b.instrs)
	return out
}

// Index returns the position of in, or -1.
func (b *Body) Index(in *Instruction) int {
	for i, x := range b.instrs {
		if x == in {
			return i
		}
	}
	return -1
}

// Append adds instructions at the end of the body.
func (b *Body) Append(instrs ...*Instruction) {
	b.instrs = append(b.instrs, instrs...)
}

// positions maps each instruction handle to its position.
func (b *Body) positions() map[*Instruction]int {
	pos := make(map[*Instruction]int, len(b.instrs))
	for i, in := range b.instrs {
		pos[in] = i
	}
	return pos
}

// incomingOutside returns the set of positions targeted by a branch that
// lives outside [from, to).
func (b *Body) incomingOutside(from, to int) *bitset.BitSet {
	pos := b.positions()
	targeted := bitset.New(len(b.instrs))
	for i, in := range b.instrs {
		if i >= from && i < to {
			continue
		}
		for _, t := range in.Targets {
			if p, ok := pos[t]; ok {
				targeted.Set(p)
			}
		}
	}
	return targeted
}

func (b *Body) checkRange(from, to int) error {
	if from < 0 || from > len(b.instrs) {
		return errors.OutOfBounds(errors.PhaseSplice, from, len(b.instrs))
	}
	if to < from || to > len(b.instrs) {
		return errors.OutOfBounds(errors.PhaseSplice, to, len(b.instrs))
	}
	return nil
}

// checkErasable fails when an instruction outside [from, to) still
// branches into it.
func (b *Body) checkErasable(from, to int) error {
	targeted := b.incomingOutside(from, to)
	if p, ok := targeted.FirstIn(from, to); ok {
		for i, in := range b.instrs {
			if i >= from && i < to {
				continue
			}
			for _, t := range in.Targets {
				if t == b.instrs[p] {
					return errors.DanglingTarget(i, p)
				}
			}
		}
		return errors.DanglingTarget(-1, p)
	}
	return nil
}

// EraseRange removes the instructions in [from, to) and returns from, the
// position of the first instruction after the removed range.
//
// The body is left untouched when the range is out of bounds or when an
// instruction outside the range branches into it.
func (b *Body) EraseRange(from, to int) (int, error) {
	if err := b.checkRange(from, to); err != nil {
		return 0, err
	}
	if err := b.checkErasable(from, to); err != nil {
		return 0, err
	}
	return b.erase(from, to), nil
}

func (b *Body) erase(from, to int) int {
	b.instrs = append(b.instrs[:from], b.instrs[to:]...)
	return from
}

// InsertBefore inserts block before pos (pos == Len appends) and returns
// the position of the instruction that followed the insertion point, which
// is the first position after the inserted block.
func (b *Body) InsertBefore(pos int, block []*Instruction) (int, error) {
	if pos < 0 || pos > len(b.instrs) {
		return 0, errors.OutOfBounds(errors.PhaseSplice, pos, len(b.instrs))
	}
	if len(block) == 0 {
		return pos, nil
	}
	grown := make([]*Instruction, 0, len(b.instrs)+len(block))
	grown = append(grown, b.instrs[:pos]...)
	grown = append(grown, block...)
	grown = append(grown, b.instrs[pos:]...)
	b.instrs = grown
	return pos + len(block), nil
}

// Splice replaces [from, to) with block and returns the position right
// after the inserted block. Both edits are validated before either is
// applied, so a failed splice leaves the body unchanged.
func (b *Body) Splice(from, to int, block []*Instruction) (int, error) {
	if err := b.checkRange(from, to); err != nil {
		return 0, err
	}
	if err := b.checkErasable(from, to); err != nil {
		return 0, err
	}
	return b.InsertBefore(b.erase(from, to), block)
}

// Renumber assigns consecutive location numbers starting at first and
// returns the next free number.
func (b *Body) Renumber(first int) int {
	b.base = first
	n := first
	for _, in := range b.instrs {
		in.LocationNumber = n
		n++
	}
	return n
}

// Update renumbers the body from the number its first instruction had at
// the last Renumber call.
func (b *Body) Update() {
	b.Renumber(b.base)
}

// Validate checks that every branch target is an instruction of this body
// and that location numbers are strictly increasing.
func (b *Body) Validate() error {
	pos := b.positions()
	if len(pos) != len(b.instrs) {
		return errors.InvalidData(errors.PhaseValidate, nil, "instruction appears twice in body")
	}
	for i, in := range b.instrs {
		if in.Kind == KindGoto && len(in.Targets) == 0 {
			return errors.InvalidData(errors.PhaseValidate, []string{fmt.Sprint(i)}, "goto without target")
		}
		for _, t := range in.Targets {
			if _, ok := pos[t]; !ok {
				return errors.New(errors.PhaseValidate, errors.KindDanglingTarget).
					Path(fmt.Sprint(i)).
					Location(in.Location.String()).
					Detail("branch target is not part of the body").
					Build()
			}
		}
		if i > 0 && in.LocationNumber <= b.instrs[i-1].LocationNumber {
			return errors.InvalidData(errors.PhaseValidate, []string{fmt.Sprint(i)},
				fmt.Sprintf("location number %d does not follow %d", in.LocationNumber, b.instrs[i-1].LocationNumber))
		}
	}
	return nil
}

// Clone returns a copy of the body whose instructions are fresh values
// with branch targets remapped into the copy. Expressions are shared.
func (b *Body) Clone() *Body {
	out := &Body{base: b.base, instrs: make([]*Instruction, len(b.instrs))}
	remap := make(map[*Instruction]*Instruction, len(b.instrs))
	for i, in := range b.instrs {
		c := *in
		c.Labels = append([]string(nil), in.Labels...)
		out.instrs[i] = &c
		remap[in] = &c
	}
	for _, in := range out.instrs {
		if len(in.Targets) == 0 {
			continue
		}
		targets := make([]*Instruction, len(in.Targets))
		for j, t := range in.Targets {
			if m, ok := remap[t]; ok {
				targets[j] = m
			} else {
				targets[j] = t
			}
		}
		in.Targets = targets
	}
	return out
}

// Format writes one line per instruction: location number, labels and the
// instruction text.
func (b *Body) Format(w io.Writer) error {
	for _, in := range b.instrs {
		for _, l := range in.Labels {
			if _, err := fmt.Fprintf(w, "%s:\n", l); err != nil {
				return err
			}
		}
		num := "  -"
		if in.LocationNumber != Unnumbered {
			num = fmt.Sprintf("%3d", in.LocationNumber)
		}
		if _, err := fmt.Fprintf(w, "%s: %s\n", num, in.String()); err != nil {
			return err
		}
	}
	return nil
}

func (b *Body) String() string {
	var sb strings.Builder
	_ = b.Format(&sb)
	return sb.String()
}
