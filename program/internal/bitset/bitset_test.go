package bitset

import (
	"testing"
)

func TestBitSet_SetHasClear(t *testing.T) {
	b := New(100)

	if b.Has(42) {
		t.Error("new bitset should not have 42")
	}

	b.Set(42)
	if !b.Has(42) {
		t.Error("bitset should have 42 after Set")
	}

	b.Clear(42)
	if b.Has(42) {
		t.Error("bitset should not have 42 after Clear")
	}
}

func TestBitSet_GrowsAutomatically(t *testing.T) {
	b := New(10)

	b.Set(200)
	if !b.Has(200) {
		t.Error("bitset should have 200 after grow")
	}

	b.Set(5)
	if !b.Has(5) {
		t.Error("bitset should have 5")
	}
}

func TestBitSet_NegativePositions(t *testing.T) {
	b := New(-3)
	b.Set(-1)
	b.Clear(-1)
	if b.Has(-1) {
		t.Error("negative positions are never members")
	}
	if b.Count() != 0 {
		t.Errorf("count = %d, want 0", b.Count())
	}
}

func TestBitSet_OutOfRange(t *testing.T) {
	b := New(10)
	b.Set(5)
	b.Clear(1000)
	if !b.Has(5) {
		t.Error("should still have 5")
	}
	if b.Has(1000) {
		t.Error("should not have 1000")
	}
}

func TestBitSet_FirstIn(t *testing.T) {
	b := New(300)
	b.Set(3)
	b.Set(70)
	b.Set(250)

	tests := []struct {
		name     string
		from, to int
		want     int
		found    bool
	}{
		{"empty range", 4, 4, 0, false},
		{"leading member", 0, 10, 3, true},
		{"skips empty word", 4, 100, 70, true},
		{"half-open end", 71, 250, 0, false},
		{"last member", 71, 251, 250, true},
		{"beyond storage", 400, 900, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := b.FirstIn(tt.from, tt.to)
			if ok != tt.found || (ok && got != tt.want) {
				t.Errorf("FirstIn(%d, %d) = %d, %v; want %d, %v", tt.from, tt.to, got, ok, tt.want, tt.found)
			}
		})
	}
}

func TestBitSet_ToSlice(t *testing.T) {
	b := New(100)
	b.Set(10)
	b.Set(5)
	b.Set(20)
	b.Set(1)

	slice := b.ToSlice()
	expected := []int{1, 5, 10, 20}
	if len(slice) != len(expected) {
		t.Fatalf("expected %d elements, got %d", len(expected), len(slice))
	}
	for i, v := range expected {
		if slice[i] != v {
			t.Errorf("slice[%d] = %d, want %d", i, slice[i], v)
		}
	}
}

func TestBitSet_CountReset(t *testing.T) {
	b := New(100)
	b.Set(1)
	b.Set(63)
	b.Set(64)
	b.Set(65)

	if b.Count() != 4 {
		t.Errorf("count = %d, want 4", b.Count())
	}

	b.Reset()
	if b.Count() != 0 {
		t.Error("reset bitset should have count 0")
	}
}

func TestPopcount(t *testing.T) {
	tests := []struct {
		x    uint64
		want int
	}{
		{0, 0},
		{1, 1},
		{3, 2},
		{0xFF, 8},
		{0xFFFFFFFFFFFFFFFF, 64},
	}
	for _, tc := range tests {
		if got := popcount(tc.x); got != tc.want {
			t.Errorf("popcount(%x) = %d, want %d", tc.x, got, tc.want)
		}
	}
}
