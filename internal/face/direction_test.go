package face

import "testing"

func TestDirectionOpposite(t *testing.T) {
	for i := 0; i < DirectionCount; i++ {
		d := DirectionFromIndex(i)
		if d.Opposite().Opposite() != d {
			t.Errorf("%v.Opposite().Opposite() = %v", d, d.Opposite().Opposite())
		}
		a, b := d.Delta(), d.Opposite().Delta()
		if a[0] != -b[0] || a[1] != -b[1] {
			t.Errorf("%v delta %v is not the negation of %v", d, a, b)
		}
	}
}

func TestDecompose(t *testing.T) {
	for i := 0; i < DirectionCount; i++ {
		d := DirectionFromIndex(i)
		parts := d.Decompose()
		var sum [2]int
		for _, p := range parts {
			pd := p.Delta()
			if pd[0] != 0 && pd[1] != 0 {
				t.Errorf("%v decomposes into diagonal %v", d, p)
			}
			sum[0] += pd[0]
			sum[1] += pd[1]
		}
		if sum != d.Delta() {
			t.Errorf("%v components sum to %v, want %v", d, sum, d.Delta())
		}
	}
}

func TestCompose(t *testing.T) {
	tests := []struct {
		a, b, want Direction
	}{
		{North, East, NorthEast},
		{South, West, SouthWest},
		{East, North, NorthEast},
		{NorthEast, South, East},
		{North, North, North},
		{NorthWest, NorthEast, North},
	}
	for _, tt := range tests {
		if got := Compose(tt.a, tt.b); got != tt.want {
			t.Errorf("Compose(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestComposeOppositePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Compose(North, South) did not panic")
		}
	}()
	Compose(North, South)
}

func TestComposeOptional(t *testing.T) {
	if d, ok := ComposeOptional(0, false, East, true); !ok || d != East {
		t.Errorf("ComposeOptional(none, East) = %v, %v", d, ok)
	}
	if _, ok := ComposeOptional(0, false, 0, false); ok {
		t.Error("ComposeOptional(none, none) reported a crossing")
	}
	if d, ok := ComposeOptional(North, true, West, true); !ok || d != NorthWest {
		t.Errorf("ComposeOptional(North, West) = %v, %v", d, ok)
	}
}

func TestFaceConversion(t *testing.T) {
	for _, f := range []Face{Right, Left, Back, Forward} {
		if got := FromFace(f).Face(); got != f {
			t.Errorf("FromFace(%v).Face() = %v", f, got)
		}
	}
	if NorthEast.Face() != Back || SouthWest.Face() != Forward {
		t.Error("diagonals should map to their north/south face")
	}
	for _, f := range []Face{Top, Bottom} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("FromFace(%v) did not panic", f)
				}
			}()
			FromFace(f)
		}()
	}
}

func TestDirectionFromDelta(t *testing.T) {
	if _, ok := DirectionFromDelta(0, 0); ok {
		t.Fatal("zero delta has a direction")
	}
	if d, _ := DirectionFromDelta(5, -3); d != SouthEast {
		t.Errorf("DirectionFromDelta(5, -3) = %v", d)
	}
}
