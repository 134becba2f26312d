// Package occupancy records, per voxel index, whether a voxel contributed
// geometry, as a run-length encoded boolean vector.
package occupancy

import "errors"

// ErrOutOfRange is returned by Set for an index past the encoded length.
var ErrOutOfRange = errors.New("occupancy: index out of range")

// Run is a stretch of equal values.
type Run struct {
	Value  bool
	Length int
}

// RLE is a run-length encoded []bool. Operations cost O(number of runs).
type RLE struct {
	runs []Run
	size int
}

// Push appends length copies of value, extending the last run when it holds the same value.
func (r *RLE) Push(value bool, length int) {
	if length <= 0 {
		return
	}
	r.size += length
	if n := len(r.runs); n > 0 && r.runs[n-1].Value == value {
		r.runs[n-1].Length += length
		return
	}
	r.runs = append(r.runs, Run{Value: value, Length: length})
}

// Len returns the number of encoded values.
func (r *RLE) Len() int { return r.size }

// Runs returns a copy of the runs.
func (r *RLE) Runs() []Run {
	out := make([]Run, len(r.runs))
	copy(out, r.runs)
	return out
}

// Get returns the value at index i; ok is false when i is out of range.
func (r *RLE) Get(i int) (value, ok bool) {
	k, _ := r.find(i)
	if k < 0 {
		return false, false
	}
	return r.runs[k].Value, true
}

// Set changes the value at index i, splitting the run containing it into at
// most three runs and merging with equal neighbors. Total length is preserved.
func (r *RLE) Set(i int, value bool) error {
	k, start := r.find(i)
	if k < 0 {
		return ErrOutOfRange
	}
	run := r.runs[k]
	if run.Value == value {
		return nil
	}
	before := i - start
	after := run.Length - before - 1

	repl := make([]Run, 0, 3)
	if before > 0 {
		repl = append(repl, Run{Value: run.Value, Length: before})
	}
	repl = append(repl, Run{Value: value, Length: 1})
	if after > 0 {
		repl = append(repl, Run{Value: run.Value, Length: after})
	}
	r.runs = append(r.runs[:k], append(repl, r.runs[k+1:]...)...)
	r.coalesce(k)
	return nil
}

// Count returns how many indices hold value.
func (r *RLE) Count(value bool) int {
	n := 0
	for _, run := range r.runs {
		if run.Value == value {
			n += run.Length
		}
	}
	return n
}

// NextOccupied returns the first index >= from holding true, skipping whole
// empty runs at a time.
func (r *RLE) NextOccupied(from int) (int, bool) {
	if from < 0 {
		from = 0
	}
	start := 0
	for _, run := range r.runs {
		end := start + run.Length
		if run.Value && end > from {
			return max(start, from), true
		}
		start = end
	}
	return 0, false
}

// find returns the run containing index i and the index that run starts at,
// or -1 when i is out of range.
func (r *RLE) find(i int) (int, int) {
	if i < 0 || i >= r.size {
		return -1, 0
	}
	start := 0
	for k, run := range r.runs {
		if i < start+run.Length {
			return k, start
		}
		start += run.Length
	}
	return -1, 0
}

// coalesce merges equal runs around position k after a split.
func (r *RLE) coalesce(k int) {
	lo := max(k-1, 0)
	hi := min(k+3, len(r.runs))
	merged := r.runs[:lo]
	for _, run := range r.runs[lo:hi] {
		if n := len(merged); n > 0 && merged[n-1].Value == run.Value {
			merged[n-1].Length += run.Length
			continue
		}
		merged = append(merged, run)
	}
	r.runs = append(merged, r.runs[hi:]...)
}
