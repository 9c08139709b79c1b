package idgen

import "testing"

func TestGeneratorMonotone(t *testing.T) {
	g := New()

	want := []uint64{1, 2, 3, 4}
	for i, w := range want {
		if got := g.Next(); got != w {
			t.Fatalf("call %d: got %d, want %d", i, got, w)
		}
	}

	if g.Last() != 4 {
		t.Errorf("Last() = %d, want 4", g.Last())
	}
}

func TestGeneratorFreshStartsAtOne(t *testing.T) {
	g := New()
	if g.Last() != 0 {
		t.Errorf("fresh generator Last() = %d, want 0", g.Last())
	}
	if first := g.Next(); first != 1 {
		t.Errorf("first Next() = %d, want 1", first)
	}
}
