package render

import "time"

// FrameLimiter paces a render loop to a frame rate.
type FrameLimiter struct {
	limit int
	next  time.Time
}

// NewFrameLimiter caps the loop at fps frames per second. fps <= 0 disables
// the cap.
func NewFrameLimiter(fps int) *FrameLimiter {
	return &FrameLimiter{limit: fps}
}

// Wait blocks until the next frame is due. It sleeps for most of the wait
// and spins for the last 200µs.
func (f *FrameLimiter) Wait() {
	if f.limit <= 0 {
		f.next = time.Time{}
		return
	}
	target := time.Second / time.Duration(f.limit)
	if f.next.IsZero() {
		f.next = time.Now().Add(target)
	} else {
		f.next = f.next.Add(target)
	}

	for {
		remaining := time.Until(f.next)
		if remaining <= 0 {
			break
		}
		if remaining > 200*time.Microsecond {
			time.Sleep(remaining - 200*time.Microsecond)
		}
	}

	// after a hitch, resync instead of rushing frames to catch up
	if late := -time.Until(f.next); late > target {
		f.next = time.Now().Add(target)
	}
}
