package ring

import "testing"

func TestBufferEvictsOldestFirst(t *testing.T) {
	b := New[int](3)
	for i := 1; i <= 3; i++ {
		if b.Push(i) {
			t.Fatalf("push %d evicted before buffer was full", i)
		}
	}
	if !b.Push(4) {
		t.Fatal("expected push beyond capacity to evict")
	}
	got := b.Items()
	want := []int{2, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("items = %v, want %v", got, want)
		}
	}
}

func TestBufferNeverExceedsCapacity(t *testing.T) {
	b := New[int](240)
	for i := 0; i < 1000; i++ {
		b.Push(i)
		if b.Len() > 240 {
			t.Fatalf("len = %d after %d pushes", b.Len(), i+1)
		}
	}
	if first := b.At(0); first != 760 {
		t.Fatalf("oldest = %d, want 760", first)
	}
	if last, _ := b.Last(); last != 999 {
		t.Fatalf("newest = %d, want 999", last)
	}
}

func TestBufferTail(t *testing.T) {
	b := New[int](5)
	for i := 1; i <= 7; i++ {
		b.Push(i)
	}
	tail := b.Tail(2)
	if len(tail) != 2 || tail[0] != 6 || tail[1] != 7 {
		t.Fatalf("Tail(2) = %v, want [6 7]", tail)
	}
	if all := b.Tail(10); len(all) != 5 {
		t.Fatalf("Tail(10) len = %d, want 5", len(all))
	}
	if none := b.Tail(0); none != nil {
		t.Fatalf("Tail(0) = %v, want nil", none)
	}
}

func TestBufferRemoveFunc(t *testing.T) {
	b := New[string](4)
	for _, s := range []string{"a", "b", "c", "d", "e"} {
		b.Push(s)
	}
	if n := b.RemoveFunc(func(s string) bool { return s == "c" }); n != 1 {
		t.Fatalf("removed %d, want 1", n)
	}
	if n := b.RemoveFunc(func(s string) bool { return s == "zzz" }); n != 0 {
		t.Fatalf("removed %d for missing element, want 0", n)
	}
	got := b.Items()
	if len(got) != 3 || got[0] != "b" || got[1] != "d" || got[2] != "e" {
		t.Fatalf("items = %v, want [b d e]", got)
	}
}
