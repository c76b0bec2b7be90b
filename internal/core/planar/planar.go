// Package planar counts where hailstone paths cross once projected onto the
// x-y plane.
package planar

import (
	"errors"
	"fmt"

	"github.com/louisbranch/rendezvous/internal/core/hail"
)

// ErrOverlappingPaths indicates two hailstones share the same projected path.
var ErrOverlappingPaths = errors.New("hailstone paths overlap")

// ErrStationaryPath indicates a hailstone does not move along x, so its path
// has no finite slope.
var ErrStationaryPath = errors.New("hailstone has zero x velocity")

// Crossing classifies how two projected paths relate.
type Crossing int

const (
	CrossingPoint Crossing = iota
	CrossingParallel
	CrossingOverlap
)

func (c Crossing) String() string {
	switch c {
	case CrossingPoint:
		return "point"
	case CrossingParallel:
		return "parallel"
	case CrossingOverlap:
		return "overlap"
	default:
		return "unknown"
	}
}

// Point is a location on the x-y plane.
type Point struct {
	X, Y float64
}

// Area is the closed square [Min, Max] on both axes.
type Area struct {
	Min, Max float64
}

// Contains reports whether p lies inside a, edges included.
func (a Area) Contains(p Point) bool {
	return p.X >= a.Min && p.X <= a.Max && p.Y >= a.Min && p.Y <= a.Max
}

// Intersect returns where the projected paths of a and b cross.
//
// Slopes are compared exactly on the integer velocities. Paths with equal
// slopes are CrossingParallel, or CrossingOverlap when b starts on a's line.
// Only CrossingPoint carries a meaningful Point. Both hailstones must have a
// non-zero x velocity.
func Intersect(a, b hail.Hailstone) (Point, Crossing) {
	ap, av := a.Position, a.Velocity
	bp, bv := b.Position, b.Velocity
	if av.Y*bv.X == av.X*bv.Y {
		if av.Y*(bp.X-ap.X) == av.X*(bp.Y-ap.Y) {
			return Point{}, CrossingOverlap
		}
		return Point{}, CrossingParallel
	}
	ra := float64(av.Y) / float64(av.X)
	rb := float64(bv.Y) / float64(bv.X)
	x := (float64(bp.Y) - float64(ap.Y) - rb*float64(bp.X) + ra*float64(ap.X)) / (ra - rb)
	y := float64(ap.Y) + ra*(x-float64(ap.X))
	return Point{X: x, Y: y}, CrossingPoint
}

// InFuture reports whether h reaches p at a time >= 0: on each axis, the
// direction from the start towards p must not contradict the velocity sign.
func InFuture(h hail.Hailstone, p Point) bool {
	x, y := float64(h.Position.X), float64(h.Position.Y)
	switch {
	case x < p.X && h.Velocity.X <= 0, x > p.X && h.Velocity.X >= 0:
		return false
	case y < p.Y && h.Velocity.Y <= 0, y > p.Y && h.Velocity.Y >= 0:
		return false
	}
	return true
}

// CountIntersections counts unordered pairs of hailstones whose projected
// paths cross inside area in the future of both.
//
// # Errors
//
//   - ErrStationaryPath when any hailstone has a zero x velocity.
//   - ErrOverlappingPaths when two hailstones share a projected path.
//
// Both wrap the offending indices.
func CountIntersections(hailstones []hail.Hailstone, area Area) (int, error) {
	for i, h := range hailstones {
		if h.Velocity.X == 0 {
			return 0, fmt.Errorf("hailstone %d: %w", i, ErrStationaryPath)
		}
	}

	count := 0
	for i := 0; i < len(hailstones); i++ {
		for j := i + 1; j < len(hailstones); j++ {
			a, b := hailstones[i], hailstones[j]
			p, crossing := Intersect(a, b)
			switch crossing {
			case CrossingOverlap:
				return 0, fmt.Errorf("hailstones %d and %d: %w", i, j, ErrOverlappingPaths)
			case CrossingParallel:
				continue
			}
			if area.Contains(p) && InFuture(a, p) && InFuture(b, p) {
				count++
			}
		}
	}
	return count, nil
}
