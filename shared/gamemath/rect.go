package gamemath

// Rect is an axis-aligned box with its origin at the top-left corner.
type Rect struct {
	X, Y, W, H float64
}

// NewRectCentered returns a w×h box centred on (cx, cy).
func NewRectCentered(cx, cy, w, h float64) Rect {
	return Rect{X: cx - w/2, Y: cy - h/2, W: w, H: h}
}

// Overlaps reports whether r and o share interior area. Touching edges do
// not count as an overlap.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.W && r.X+r.W > o.X &&
		r.Y < o.Y+o.H && r.Y+r.H > o.Y
}

// Center returns the centre point of r.
func (r Rect) Center() (float64, float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Inside reports whether r lies entirely within a square arena of the given side.
func (r Rect) Inside(arena float64) bool {
	return r.X >= 0 && r.Y >= 0 && r.X+r.W <= arena && r.Y+r.H <= arena
}

// ClampInto moves r the minimum distance needed to lie within the arena.
func (r Rect) ClampInto(arena float64) Rect {
	r.X = ClampFloat(r.X, 0, arena-r.W)
	r.Y = ClampFloat(r.Y, 0, arena-r.H)
	return r
}

// ClampFloat clamps v to [lo, hi].
func ClampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampInt clamps v to [lo, hi].
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
