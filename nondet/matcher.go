package nondet

import (
	"regexp"
	"strings"

	"github.com/wippyai/goto-nondet/nondet/internal/engine"
)

// DefaultNamespace qualifies the stub family of the CProver Java library.
const DefaultNamespace = "org.cprover.CProver"

// StubMatcher recognizes nondet stub callees by identifier.
type StubMatcher = engine.StubMatcher

// Variant tells whether a stub's result may be null.
type Variant = engine.Variant

const (
	MayBeNull = engine.VariantMayBeNull
	NeverNull = engine.VariantNeverNull
)

// ParseVariant maps "may_be_null" and "never_null" to a Variant.
func ParseVariant(s string) (Variant, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "may_be_null", "nullable", "with_null":
		return MayBeNull, true
	case "never_null", "non_null", "without_null":
		return NeverNull, true
	}
	return 0, false
}

// PatternMatcher matches the nondetWithNull / nondetWithoutNull family.
//
// Identifiers match when the family name directly follows the namespace,
// anywhere in the identifier, so decorated names such as
// "java::org.cprover.CProver.nondetWithoutNull:()Ljava/lang/Object;"
// are recognized. An empty namespace matches the family name at the start
// of the identifier or after a '.' or ':' separator.
type PatternMatcher struct {
	re        *regexp.Regexp
	namespace string
}

// NewPatternMatcher compiles the family pattern for namespace.
func NewPatternMatcher(namespace string) *PatternMatcher {
	prefix := `(?:^|[.:])`
	if namespace != "" {
		prefix = regexp.QuoteMeta(namespace) + `\.`
	}
	return &PatternMatcher{
		re:        regexp.MustCompile(prefix + `nondetWith(out)?Null`),
		namespace: namespace,
	}
}

// Namespace returns the namespace the matcher was built for.
func (m *PatternMatcher) Namespace() string { return m.namespace }

// Match reports whether identifier names a stub of the family.
func (m *PatternMatcher) Match(identifier string) (Variant, bool) {
	sub := m.re.FindStringSubmatchIndex(identifier)
	if sub == nil {
		return 0, false
	}
	if sub[2] >= 0 {
		return NeverNull, true
	}
	return MayBeNull, true
}

// ExactMatcher matches configured identifiers, each with its own variant.
type ExactMatcher struct {
	stubs map[string]Variant
}

// NewExactMatcher creates a matcher from identifier to variant pairs.
func NewExactMatcher(stubs map[string]Variant) *ExactMatcher {
	m := &ExactMatcher{stubs: make(map[string]Variant, len(stubs))}
	for id, v := range stubs {
		m.stubs[id] = v
	}
	return m
}

// Match returns the variant configured for identifier.
func (m *ExactMatcher) Match(identifier string) (Variant, bool) {
	v, ok := m.stubs[identifier]
	return v, ok
}

// CompositeMatcher combines multiple matchers.
type CompositeMatcher struct {
	matchers []StubMatcher
}

// NewCompositeMatcher creates a matcher that asks each sub-matcher in order
// and returns the first match.
func NewCompositeMatcher(matchers ...StubMatcher) *CompositeMatcher {
	return &CompositeMatcher{matchers: matchers}
}

// Match returns the first sub-matcher's answer that matches.
func (m *CompositeMatcher) Match(identifier string) (Variant, bool) {
	for _, matcher := range m.matchers {
		if matcher == nil {
			continue
		}
		if v, ok := matcher.Match(identifier); ok {
			return v, true
		}
	}
	return 0, false
}
