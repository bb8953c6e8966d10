package orbit

// DefaultTrailCap is the number of samples a trail keeps.
const DefaultTrailCap = 260

// Point is a projected position in pixels relative to the Earth.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Trail is a bounded FIFO of recent positions. Once full, each push evicts
// the oldest sample.
type Trail struct {
	buf     []Point
	cap     int
	writeAt int
}

// NewTrail creates a trail holding at most capacity points.
// A non-positive capacity falls back to DefaultTrailCap.
func NewTrail(capacity int) *Trail {
	if capacity <= 0 {
		capacity = DefaultTrailCap
	}
	return &Trail{
		buf: make([]Point, 0, capacity),
		cap: capacity,
	}
}

// Push appends a point, evicting the oldest when at capacity.
func (t *Trail) Push(p Point) {
	if len(t.buf) < t.cap {
		t.buf = append(t.buf, p)
		return
	}
	t.buf[t.writeAt] = p
	t.writeAt = (t.writeAt + 1) % t.cap
}

// Len returns the number of stored points.
func (t *Trail) Len() int {
	return len(t.buf)
}

// Cap returns the maximum number of stored points.
func (t *Trail) Cap() int {
	return t.cap
}

// Points returns a copy of the stored points, oldest first.
func (t *Trail) Points() []Point {
	if len(t.buf) == 0 {
		return nil
	}
	out := make([]Point, len(t.buf))
	if len(t.buf) < t.cap {
		copy(out, t.buf)
		return out
	}
	for i := 0; i < t.cap; i++ {
		out[i] = t.buf[(t.writeAt+i)%t.cap]
	}
	return out
}

// Clear drops all points.
func (t *Trail) Clear() {
	t.buf = t.buf[:0]
	t.writeAt = 0
}
