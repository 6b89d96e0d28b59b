package nondet

import "testing"

func TestPatternMatcher(t *testing.T) {
	tests := []struct {
		name       string
		namespace  string
		identifier string
		want       Variant
		match      bool
	}{
		{
			name:       "decorated never null",
			namespace:  DefaultNamespace,
			identifier: "java::org.cprover.CProver.nondetWithoutNull:()Ljava/lang/Object;",
			want:       NeverNull,
			match:      true,
		},
		{
			name:       "decorated may be null",
			namespace:  DefaultNamespace,
			identifier: "java::org.cprover.CProver.nondetWithNull:()Ljava/lang/Object;",
			want:       MayBeNull,
			match:      true,
		},
		{
			name:       "suffix after family name",
			namespace:  DefaultNamespace,
			identifier: "org.cprover.CProver.nondetWithoutNullFoo",
			want:       NeverNull,
			match:      true,
		},
		{
			name:       "other namespace",
			namespace:  DefaultNamespace,
			identifier: "java::com.example.Stubs.nondetWithoutNull:()V",
		},
		{
			name:       "other method",
			namespace:  DefaultNamespace,
			identifier: "java::org.cprover.CProver.assume:(Z)V",
		},
		{
			name:       "namespace anywhere in the identifier",
			namespace:  DefaultNamespace,
			identifier: "java::xorg.cprover.CProver.nondetWithNull:()V",
			want:       MayBeNull,
			match:      true,
		},
		{
			name:       "unqualified family name",
			identifier: "nondetWithoutNullFoo",
			want:       NeverNull,
			match:      true,
		},
		{
			name:       "any namespace",
			identifier: "java::com.example.Stubs.nondetWithNull:()V",
			want:       MayBeNull,
			match:      true,
		},
		{
			name:       "family name inside a word",
			identifier: "mynondetWithNull",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewPatternMatcher(tt.namespace)
			got, ok := m.Match(tt.identifier)
			if ok != tt.match || got != tt.want {
				t.Errorf("Match(%q) = %v, %v, want %v, %v", tt.identifier, got, ok, tt.want, tt.match)
			}
		})
	}
}

func TestExactMatcher(t *testing.T) {
	m := NewExactMatcher(map[string]Variant{
		"my.lib.Stubs.anyFoo": NeverNull,
		"my.lib.Stubs.maybe":  MayBeNull,
	})
	if v, ok := m.Match("my.lib.Stubs.anyFoo"); !ok || v != NeverNull {
		t.Errorf("anyFoo = %v, %v", v, ok)
	}
	if v, ok := m.Match("my.lib.Stubs.maybe"); !ok || v != MayBeNull {
		t.Errorf("maybe = %v, %v", v, ok)
	}
	if _, ok := m.Match("my.lib.Stubs.other"); ok {
		t.Error("unexpected match")
	}
}

func TestCompositeMatcher(t *testing.T) {
	m := NewCompositeMatcher(
		nil,
		NewExactMatcher(map[string]Variant{"org.cprover.CProver.nondetWithNull": NeverNull}),
		NewPatternMatcher(DefaultNamespace),
	)
	if v, ok := m.Match("org.cprover.CProver.nondetWithNull"); !ok || v != NeverNull {
		t.Errorf("first matcher should win, got %v, %v", v, ok)
	}
	if v, ok := m.Match("java::org.cprover.CProver.nondetWithNull:()V"); !ok || v != MayBeNull {
		t.Errorf("fallback = %v, %v", v, ok)
	}
	if _, ok := m.Match("java::Main.main:()V"); ok {
		t.Error("unexpected match")
	}
}

func TestParseVariant(t *testing.T) {
	tests := []struct {
		in   string
		want Variant
		ok   bool
	}{
		{"never_null", NeverNull, true},
		{" Non_Null ", NeverNull, true},
		{"may_be_null", MayBeNull, true},
		{"with_null", MayBeNull, true},
		{"sometimes", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseVariant(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseVariant(%q) = %v, %v", tt.in, got, ok)
		}
	}
}
