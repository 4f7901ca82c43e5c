// Package hittest resolves a scene point to the item under the cursor.
package hittest

import (
	"github.com/ha1tch/wiredit/pkg/circuit"
	"github.com/ha1tch/wiredit/pkg/geom"
)

// DefaultTolerance is the side of the acquisition square around the cursor.
const DefaultTolerance = 9

// Resolver picks the most relevant item near a point.
type Resolver struct {
	scene     *circuit.Scene
	tolerance float64
}

// New creates a resolver over scene. A tolerance of zero or less selects DefaultTolerance.
func New(scene *circuit.Scene, tolerance float64) *Resolver {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &Resolver{scene: scene, tolerance: tolerance}
}

// Tolerance returns the side of the acquisition square.
func (r *Resolver) Tolerance() float64 { return r.tolerance }

// Area returns the acquisition square around p.
func (r *Resolver) Area(p geom.Point) geom.Rect {
	return geom.SquareAround(p, r.tolerance)
}

// Candidates lists items exactly under p followed by items near p.
// Duplicates are kept; callers only look for the first match.
func (r *Resolver) Candidates(p geom.Point) []circuit.Item {
	items := r.scene.ItemsAt(p)
	return append(items, r.scene.ItemsIn(r.Area(p))...)
}

// Resolve returns the item at p. A port anywhere in the candidate list wins,
// so small ports stay easy to grab next to a large element. Otherwise the
// first candidate is returned, or nil when nothing is near.
func (r *Resolver) Resolve(p geom.Point) circuit.Item {
	items := r.Candidates(p)
	for _, it := range items {
		if port, ok := it.(*circuit.Port); ok {
			return port
		}
	}
	if len(items) > 0 {
		return items[0]
	}
	return nil
}

// Port returns the port at p, or nil.
func (r *Resolver) Port(p geom.Point) *circuit.Port {
	port, _ := r.Resolve(p).(*circuit.Port)
	return port
}

// Element returns the element at p, or nil. Ports resolve to nil.
func (r *Resolver) Element(p geom.Point) *circuit.Element {
	e, _ := r.Resolve(p).(*circuit.Element)
	return e
}

// ElementsAt returns every element whose body contains p, topmost first.
func (r *Resolver) ElementsAt(p geom.Point) []*circuit.Element {
	var out []*circuit.Element
	for _, it := range r.scene.ItemsAt(p) {
		if e, ok := it.(*circuit.Element); ok {
			out = append(out, e)
		}
	}
	return out
}
