// Geometric primitives for the circuit scene.
// Scene space is a plane of float64 units; Y grows downwards.

package geom

import "math"

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Scale returns p*k.
func (p Point) Scale(k float64) Point {
	return Point{p.X * k, p.Y * k}
}

// Rotate rotates p around centre by deg degrees (clockwise on screen).
func (p Point) Rotate(centre Point, deg float64) Point {
	rad := deg * math.Pi / 180
	sin, cos := math.Sincos(rad)
	d := p.Sub(centre)
	// Snap to exact values for quarter turns so repeated rotation does not drift.
	sin, cos = snap(sin), snap(cos)
	return Point{
		X: centre.X + d.X*cos - d.Y*sin,
		Y: centre.Y + d.X*sin + d.Y*cos,
	}
}

func snap(v float64) float64 {
	r := math.Round(v)
	if math.Abs(v-r) < 1e-12 {
		return r
	}
	return v
}

// Rect represents an axis-aligned rectangle.
type Rect struct {
	X, Y float64 // Top-left corner
	W, H float64 // Width and height, never negative once normalized
}

// RectFromPoints returns the normalized rectangle spanned by two corners.
func RectFromPoints(a, b Point) Rect {
	r := Rect{X: a.X, Y: a.Y, W: b.X - a.X, H: b.Y - a.Y}
	return r.Normalized()
}

// SquareAround returns a size x size square centred on p.
// With size 9 this is the rectangle from p-(4,4) of size 9 used for port acquisition.
func SquareAround(p Point, size float64) Rect {
	half := math.Floor(size / 2)
	return Rect{X: p.X - half, Y: p.Y - half, W: size, H: size}
}

// Normalized flips negative widths and heights.
func (r Rect) Normalized() Rect {
	if r.W < 0 {
		r.X += r.W
		r.W = -r.W
	}
	if r.H < 0 {
		r.Y += r.H
		r.H = -r.H
	}
	return r
}

// Min returns the top-left corner.
func (r Rect) Min() Point { return Point{r.X, r.Y} }

// Max returns the bottom-right corner.
func (r Rect) Max() Point { return Point{r.X + r.W, r.Y + r.H} }

// Centre returns the centre point.
func (r Rect) Centre() Point { return Point{r.X + r.W/2, r.Y + r.H/2} }

// IsEmpty reports whether the rectangle has no area.
func (r Rect) IsEmpty() bool { return r.W <= 0 || r.H <= 0 }

// Contains reports whether p lies inside r (edges inclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// ContainsRect reports whether o lies entirely inside r.
func (r Rect) ContainsRect(o Rect) bool {
	return r.Contains(o.Min()) && r.Contains(o.Max())
}

// Intersects reports whether r and o share at least one point.
func (r Rect) Intersects(o Rect) bool {
	return r.X <= o.X+o.W && o.X <= r.X+r.W && r.Y <= o.Y+o.H && o.Y <= r.Y+r.H
}

// Translate returns r moved by d.
func (r Rect) Translate(d Point) Rect {
	r.X += d.X
	r.Y += d.Y
	return r
}

// Adjusted grows (or shrinks, for negative m) every edge by m.
func (r Rect) Adjusted(m float64) Rect {
	return Rect{X: r.X - m, Y: r.Y - m, W: r.W + 2*m, H: r.H + 2*m}
}

// Union returns the smallest rectangle containing r and o.
// An empty receiver is treated as absent.
func (r Rect) Union(o Rect) Rect {
	if r.W == 0 && r.H == 0 {
		return o
	}
	if o.W == 0 && o.H == 0 {
		return r
	}
	minX := math.Min(r.X, o.X)
	minY := math.Min(r.Y, o.Y)
	maxX := math.Max(r.X+r.W, o.X+o.W)
	maxY := math.Max(r.Y+r.H, o.Y+o.H)
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// SegmentDistance returns the distance from p to the segment a-b.
func SegmentDistance(p, a, b Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	cx, cy := a.X+t*dx, a.Y+t*dy
	return math.Hypot(p.X-cx, p.Y-cy)
}

// SegmentIntersectsRect reports whether the segment a-b touches r.
func SegmentIntersectsRect(a, b Point, r Rect) bool {
	if r.Contains(a) || r.Contains(b) {
		return true
	}
	tl, br := r.Min(), r.Max()
	tr, bl := Point{br.X, tl.Y}, Point{tl.X, br.Y}
	return segmentsCross(a, b, tl, tr) || segmentsCross(a, b, tr, br) ||
		segmentsCross(a, b, br, bl) || segmentsCross(a, b, bl, tl)
}

func segmentsCross(p1, p2, q1, q2 Point) bool {
	d1 := cross(q1, q2, p1)
	d2 := cross(q1, q2, p2)
	d3 := cross(p1, p2, q1)
	d4 := cross(p1, p2, q2)
	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) && ((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	return (d1 == 0 && onSegment(q1, q2, p1)) || (d2 == 0 && onSegment(q1, q2, p2)) ||
		(d3 == 0 && onSegment(p1, p2, q1)) || (d4 == 0 && onSegment(p1, p2, q2))
}

func cross(a, b, c Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

func onSegment(a, b, p Point) bool {
	return p.X >= math.Min(a.X, b.X) && p.X <= math.Max(a.X, b.X) &&
		p.Y >= math.Min(a.Y, b.Y) && p.Y <= math.Max(a.Y, b.Y)
}
