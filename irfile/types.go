package irfile

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wippyai/goto-nondet/program"
)

var namedTypes = map[string]program.Type{
	"bool":    program.Bool,
	"char":    program.Char,
	"void":    program.Void,
	"int8":    program.Int8,
	"int16":   program.Int16,
	"int32":   program.Int32,
	"int64":   program.Int64,
	"uint8":   program.IntType{Bits: 8},
	"uint16":  program.IntType{Bits: 16},
	"uint32":  program.IntType{Bits: 32},
	"uint64":  program.IntType{Bits: 64},
	"float32": program.Float32,
	"float64": program.Float64,
	"code":    program.CodeType{Return: program.Void},
}

// ParseType parses the textual form produced by program.Type.String.
func ParseType(s string) (program.Type, error) {
	s = strings.TrimSpace(s)
	if t, ok := namedTypes[s]; ok {
		return t, nil
	}
	switch {
	case s == "":
		return nil, fmt.Errorf("empty type")
	case strings.HasPrefix(s, "*"):
		elem, err := ParseType(s[1:])
		if err != nil {
			return nil, err
		}
		return program.Pointer(elem), nil
	case strings.HasPrefix(s, "[]"):
		elem, err := ParseType(s[2:])
		if err != nil {
			return nil, err
		}
		return program.ArrayOf(elem, -1), nil
	case strings.HasPrefix(s, "["):
		end := strings.IndexByte(s, ']')
		if end < 0 {
			return nil, fmt.Errorf("unterminated array size in %q", s)
		}
		n, err := strconv.Atoi(s[1:end])
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid array size in %q", s)
		}
		elem, err := ParseType(s[end+1:])
		if err != nil {
			return nil, err
		}
		return program.ArrayOf(elem, n), nil
	case strings.HasPrefix(s, "struct "):
		name := strings.TrimSpace(strings.TrimPrefix(s, "struct "))
		if name == "" {
			return nil, fmt.Errorf("struct without name")
		}
		return program.Tag(name), nil
	case strings.HasPrefix(s, "code("):
		return parseCodeType(s)
	}
	return nil, fmt.Errorf("unknown type %q", s)
}

// parseCodeType parses "code(p1, p2) ret".
func parseCodeType(s string) (program.Type, error) {
	depth, closeAt := 0, -1
	for i := len("code"); i < len(s) && closeAt < 0; i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				closeAt = i
			}
		}
	}
	if closeAt < 0 {
		return nil, fmt.Errorf("unbalanced parameter list in %q", s)
	}
	var params []program.Type
	for _, p := range splitTopLevel(s[len("code("):closeAt]) {
		t, err := ParseType(p)
		if err != nil {
			return nil, err
		}
		params = append(params, t)
	}
	ret, err := ParseType(s[closeAt+1:])
	if err != nil {
		return nil, err
	}
	return program.CodeType{Return: ret, Params: params}, nil
}

func splitTopLevel(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}
