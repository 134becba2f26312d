package face

import "testing"

func TestOppositeInvolution(t *testing.T) {
	for _, f := range All {
		if got := f.Opposite().Opposite(); got != f {
			t.Errorf("%v.Opposite().Opposite() = %v", f, got)
		}
		if f.Opposite() == f {
			t.Errorf("%v is its own opposite", f)
		}
		if f.Opposite().Axis() != f.Axis() {
			t.Errorf("%v and its opposite lie on different axes", f)
		}
	}
}

func TestIndexRoundTrip(t *testing.T) {
	for i := 0; i < Count; i++ {
		if got := FromIndex(i).Index(); got != i {
			t.Errorf("FromIndex(%d).Index() = %d", i, got)
		}
	}
}

func TestFromIndexOutOfRangePanics(t *testing.T) {
	for _, i := range []int{-1, 6, 100} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("FromIndex(%d) did not panic", i)
				}
			}()
			FromIndex(i)
		}()
	}
}

func TestTagBitsUnique(t *testing.T) {
	seen := map[uint32]Face{}
	for _, f := range All {
		bits := f.TagBits()
		if bits&(1<<29-1) != 0 {
			t.Errorf("%v tag 0x%08x leaks into the low 29 bits", f, bits)
		}
		if other, ok := seen[bits]; ok {
			t.Errorf("%v and %v share tag 0x%08x", f, other, bits)
		}
		seen[bits] = f
		if got := FromTagBits(bits); got != f {
			t.Errorf("FromTagBits(%v.TagBits()) = %v", f, got)
		}
	}
}

func TestNormals(t *testing.T) {
	tests := []struct {
		f    Face
		axis int
		sign float32
	}{
		{Top, AxisY, 1},
		{Bottom, AxisY, -1},
		{Right, AxisX, 1},
		{Left, AxisX, -1},
		{Back, AxisZ, 1},
		{Forward, AxisZ, -1},
	}
	for _, tt := range tests {
		n := tt.f.Normal()
		if n[tt.axis] != tt.sign || n.Len() != 1 {
			t.Errorf("%v.Normal() = %v", tt.f, n)
		}
	}
}

func TestFacesSet(t *testing.T) {
	s := Only(Left)
	if !s.Any() || s.Count() != 1 || !s[Left] {
		t.Fatalf("Only(Left) = %v", s)
	}
	if AllFaces.Count() != Count {
		t.Fatalf("AllFaces.Count() = %d", AllFaces.Count())
	}
	if (Faces{}).Any() {
		t.Fatal("empty set reports Any")
	}
}
