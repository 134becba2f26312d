package occupancy

import (
	"errors"
	"math/rand"
	"testing"
)

func build(values []bool) *RLE {
	r := &RLE{}
	for _, v := range values {
		r.Push(v, 1)
	}
	return r
}

func TestPushMerges(t *testing.T) {
	r := &RLE{}
	r.Push(true, 3)
	r.Push(true, 2)
	r.Push(false, 1)
	r.Push(false, 0)
	runs := r.Runs()
	if len(runs) != 2 {
		t.Fatalf("runs = %+v, want 2 runs", runs)
	}
	if runs[0] != (Run{Value: true, Length: 5}) || runs[1] != (Run{Value: false, Length: 1}) {
		t.Errorf("runs = %+v", runs)
	}
	if r.Len() != 6 {
		t.Errorf("Len() = %d, want 6", r.Len())
	}
}

func TestGet(t *testing.T) {
	r := build([]bool{false, true, true, false})
	want := []bool{false, true, true, false}
	for i, w := range want {
		v, ok := r.Get(i)
		if !ok || v != w {
			t.Errorf("Get(%d) = %v, %v; want %v", i, v, ok, w)
		}
	}
	if _, ok := r.Get(4); ok {
		t.Error("Get past the end should report false")
	}
	if _, ok := r.Get(-1); ok {
		t.Error("Get(-1) should report false")
	}
}

func TestSetSplitsRun(t *testing.T) {
	r := &RLE{}
	r.Push(false, 9)
	if err := r.Set(4, true); err != nil {
		t.Fatal(err)
	}
	runs := r.Runs()
	want := []Run{{false, 4}, {true, 1}, {false, 4}}
	if len(runs) != len(want) {
		t.Fatalf("runs = %+v, want %+v", runs, want)
	}
	for i := range want {
		if runs[i] != want[i] {
			t.Fatalf("runs = %+v, want %+v", runs, want)
		}
	}
	if err := r.Set(4, false); err != nil {
		t.Fatal(err)
	}
	if got := r.Runs(); len(got) != 1 || got[0] != (Run{false, 9}) {
		t.Errorf("setting back should coalesce, got %+v", got)
	}
}

func TestSetAtRunEdges(t *testing.T) {
	r := build([]bool{true, false, false, true})
	if err := r.Set(1, true); err != nil {
		t.Fatal(err)
	}
	if got := r.Runs(); len(got) != 3 || got[0] != (Run{true, 2}) {
		t.Errorf("runs = %+v", got)
	}
	if err := r.Set(2, true); err != nil {
		t.Fatal(err)
	}
	if got := r.Runs(); len(got) != 1 || got[0] != (Run{true, 4}) {
		t.Errorf("runs = %+v", got)
	}
}

func TestSetOutOfRange(t *testing.T) {
	r := build([]bool{true})
	if err := r.Set(1, false); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Set(1) err = %v, want ErrOutOfRange", err)
	}
}

func TestSetPreservesLength(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	ref := make([]bool, 200)
	for i := range ref {
		ref[i] = rng.Intn(3) == 0
	}
	r := build(ref)
	for n := 0; n < 1000; n++ {
		i := rng.Intn(len(ref))
		v := rng.Intn(2) == 0
		ref[i] = v
		if err := r.Set(i, v); err != nil {
			t.Fatal(err)
		}
		if r.Len() != len(ref) {
			t.Fatalf("length drifted to %d", r.Len())
		}
	}
	total := 0
	runs := r.Runs()
	for k, run := range runs {
		total += run.Length
		if k > 0 && runs[k-1].Value == run.Value {
			t.Fatalf("adjacent runs %d and %d hold the same value", k-1, k)
		}
	}
	if total != len(ref) {
		t.Fatalf("runs sum to %d, want %d", total, len(ref))
	}
	for i, w := range ref {
		if v, _ := r.Get(i); v != w {
			t.Fatalf("Get(%d) = %v, want %v", i, v, w)
		}
	}
}

func TestCountAndNextOccupied(t *testing.T) {
	r := &RLE{}
	r.Push(false, 5)
	r.Push(true, 2)
	r.Push(false, 3)
	r.Push(true, 1)
	if got := r.Count(true); got != 3 {
		t.Errorf("Count(true) = %d, want 3", got)
	}
	tests := []struct {
		from int
		want int
		ok   bool
	}{
		{0, 5, true},
		{6, 6, true},
		{7, 10, true},
		{11, 0, false},
	}
	for _, tt := range tests {
		got, ok := r.NextOccupied(tt.from)
		if got != tt.want || ok != tt.ok {
			t.Errorf("NextOccupied(%d) = %d, %v; want %d, %v", tt.from, got, ok, tt.want, tt.ok)
		}
	}
}
