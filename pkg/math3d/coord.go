package math3d

// Coord is an integer 2D screen coordinate. The origin is top-left; W
// grows right, H grows down.
type Coord struct {
	W, H int
}

// C creates a new Coord.
func C(w, h int) Coord {
	return Coord{w, h}
}

// Add returns the coordinate sum a + b.
func (a Coord) Add(b Coord) Coord {
	return Coord{a.W + b.W, a.H + b.H}
}

// Sub returns the coordinate difference a - b.
func (a Coord) Sub(b Coord) Coord {
	return Coord{a.W - b.W, a.H - b.H}
}

// InBounds reports whether the coordinate lies within [0,width) x
// [0,height).
func (a Coord) InBounds(width, height int) bool {
	return a.W >= 0 && a.W < width && a.H >= 0 && a.H < height
}

// Index returns the row-major index h*width + w for this coordinate into
// a width-wide buffer.
func (a Coord) Index(width int) int {
	return a.H*width + a.W
}
