package reorder

// Point is a pointer position in layout units, relative to the top-left
// corner of the tree viewport.
type Point struct {
	X, Y float64
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Rect is an axis-aligned box in layout units.
type Rect struct {
	X, Y, W, H float64
}

// CenterY returns the vertical centre of the box.
func (r Rect) CenterY() float64 {
	return r.Y + r.H/2
}

// Bottom returns the y coordinate of the lower edge.
func (r Rect) Bottom() float64 {
	return r.Y + r.H
}

// Origin returns the top-left corner.
func (r Rect) Origin() Point {
	return Point{X: r.X, Y: r.Y}
}

// WithinX reports whether x lies inside the box widened by tol on both sides.
func (r Rect) WithinX(x, tol float64) bool {
	return x >= r.X-tol && x <= r.X+r.W+tol
}

// Contains reports whether p lies inside the box.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Geometry controls how the outline lays out rows.
type Geometry struct {
	// RowHeight is the height of every row, placeholder included.
	RowHeight float64
	// Indent is the horizontal offset added per nesting level.
	Indent float64
	// CharWidth is the width of one label cell.
	CharWidth float64
	// HandleWidth is the width of the drag handle drawn before the label.
	HandleWidth float64
}

// DefaultGeometry matches a pixel-based layout: 48 unit rows, 20 unit indent.
func DefaultGeometry() Geometry {
	return Geometry{
		RowHeight:   48,
		Indent:      20,
		CharWidth:   10,
		HandleWidth: 20,
	}
}
