// Package profiling accumulates wall time per named operation. The CLI prints
// the totals after a run; the viewer resets them every frame.
package profiling

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"
)

// Stat is the accumulated time and call count of one operation.
type Stat struct {
	Total time.Duration
	Calls int
}

var (
	mu     sync.Mutex
	totals = make(map[string]Stat)
)

// Track returns a stop function that records the elapsed time under name.
// Usage: defer profiling.Track("meshing.Generate")()
func Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		mu.Lock()
		s := totals[name]
		s.Total += d
		s.Calls++
		totals[name] = s
		mu.Unlock()
	}
}

// Reset clears all totals.
func Reset() {
	mu.Lock()
	clear(totals)
	mu.Unlock()
}

// Snapshot returns a copy of the current totals.
func Snapshot() map[string]Stat {
	mu.Lock()
	defer mu.Unlock()
	return maps.Clone(totals)
}

// TopN formats the n most expensive operations, e.g.
// "meshing.Generate:4.2ms/16, shading.Apply:2.1ms/3".
func TopN(n int) string {
	ss := Snapshot()
	names := slices.SortedFunc(maps.Keys(ss), func(a, b string) int {
		if c := cmp.Compare(ss[b].Total, ss[a].Total); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
	names = names[:min(n, len(names))]
	parts := make([]string, 0, len(names))
	for _, name := range names {
		s := ss[name]
		ms := float64(s.Total.Microseconds()) / 1000
		parts = append(parts, fmt.Sprintf("%s:%.1fms/%d", name, ms, s.Calls))
	}
	return strings.Join(parts, ", ")
}
