// Package geometry holds the plan-space primitives used by infrastructure
// objects: axis-aligned bounding boxes, center points and typed path points.
// Intersection and distance predicates delegate to github.com/paulmach/orb.
package geometry

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Point is a position in plan units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Orb converts p to an orb.Point.
func (p Point) Orb() orb.Point {
	return orb.Point{p.X, p.Y}
}

// Translate returns p moved by (dx, dy).
func (p Point) Translate(dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Point) float64 {
	return planar.Distance(a.Orb(), b.Orb())
}

// PointKind tags a point of an object's outline.
type PointKind string

const (
	PointAnchor    PointKind = "anchor"
	PointControl   PointKind = "control"
	PointReference PointKind = "reference"
)

// IsValid reports whether k is a known point kind.
func (k PointKind) IsValid() bool {
	switch k {
	case PointAnchor, PointControl, PointReference:
		return true
	}
	return false
}

// PathPoint is one entry of an object's ordered point list.
type PathPoint struct {
	X    float64   `json:"x"`
	Y    float64   `json:"y"`
	Kind PointKind `json:"kind"`
}

// Translate returns pp moved by (dx, dy), keeping its kind.
func (pp PathPoint) Translate(dx, dy float64) PathPoint {
	return PathPoint{X: pp.X + dx, Y: pp.Y + dy, Kind: pp.Kind}
}

// BoundingBox is an axis-aligned rectangle anchored at its top-left corner.
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Valid reports whether the box has a strictly positive size.
func (b BoundingBox) Valid() bool {
	return b.Width > 0 && b.Height > 0
}

// Bound converts b to an orb.Bound.
func (b BoundingBox) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{b.X, b.Y},
		Max: orb.Point{b.X + b.Width, b.Y + b.Height},
	}
}

// Center returns the geometric center of the box.
func (b BoundingBox) Center() Point {
	return Point{X: b.X + b.Width/2, Y: b.Y + b.Height/2}
}

// Area returns width * height.
func (b BoundingBox) Area() float64 {
	return b.Width * b.Height
}

// Perimeter returns 2 * (width + height).
func (b BoundingBox) Perimeter() float64 {
	return 2 * (b.Width + b.Height)
}

// Translate returns b with its origin moved by (dx, dy).
func (b BoundingBox) Translate(dx, dy float64) BoundingBox {
	return BoundingBox{X: b.X + dx, Y: b.Y + dy, Width: b.Width, Height: b.Height}
}

// Placement pins an object's geometry to one center. Positions for other
// centers are derived from it rather than from the previous position, so
// PlaceAt(Center) always returns the pinned origin and points unchanged.
type Placement struct {
	Center Point       `json:"center"`
	Origin Point       `json:"origin"`
	Points []PathPoint `json:"points,omitempty"`
}

// NewPlacement pins box and points to center.
func NewPlacement(center Point, box BoundingBox, points []PathPoint) Placement {
	return Placement{
		Center: center,
		Origin: Point{X: box.X, Y: box.Y},
		Points: append([]PathPoint(nil), points...),
	}
}

// Pinned reports whether p was captured from a real box. A box has positive
// size, so its origin never equals its center.
func (p Placement) Pinned() bool {
	return p.Center != p.Origin
}

// PlaceAt returns the origin and points for an object centered at c.
func (p Placement) PlaceAt(c Point) (Point, []PathPoint) {
	dx, dy := c.X-p.Center.X, c.Y-p.Center.Y
	points := make([]PathPoint, len(p.Points))
	for i, pp := range p.Points {
		points[i] = pp.Translate(dx, dy)
	}
	return p.Origin.Translate(dx, dy), points
}

// Intersects reports whether a and b intersect after both are expanded by
// tolerance on every side. Touching edges count as intersecting.
func Intersects(a, b BoundingBox, tolerance float64) bool {
	return a.Bound().Pad(tolerance).Intersects(b.Bound().Pad(tolerance))
}

// Within reports whether p lies inside the bounds [0,width]x[0,height].
func Within(p Point, width, height float64) bool {
	plan := orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{width, height}}
	return plan.Contains(p.Orb())
}
