package rendezvous

import (
	"cmp"
	"slices"

	"github.com/louisbranch/rendezvous/internal/core/hail"
)

// CrashTimes returns when a stone starting at x0 with x speed vx meets each
// hailstone, in input order.
//
// A hailstone with the same x speed gets an unknown time; it is only
// reachable when it shares x0, otherwise ReasonOffset is returned. Other
// hailstones need (x0 - h.x) to be a non-negative multiple of (h.vx - vx).
func CrashTimes(hailstones []hail.Hailstone, x0, vx int64) ([]CrashTime, error) {
	times := make([]CrashTime, len(hailstones))
	for i, h := range hailstones {
		delta := h.Velocity.X - vx
		if delta == 0 {
			if x0 != h.Position.X {
				return nil, reject(ReasonOffset, i, 0)
			}
			continue
		}
		dx := x0 - h.Position.X
		if dx%delta != 0 {
			return nil, reject(ReasonIndivisible, i, 0)
		}
		t := dx / delta
		if t < 0 {
			return nil, reject(ReasonPast, i, 0)
		}
		times[i] = CrashTime{T: t, Known: true}
	}
	return times, nil
}

type crash struct {
	index int
	t     int64
}

// Verify checks the candidate (x0, vx) against every hailstone and solves the
// y and z axes.
//
// # Determinism
//
// Verify is pure: the same hailstones and candidate always give the same
// Solution or the same rejection.
//
// # Errors
//
// Every error is a *Rejection:
//   - ReasonOffset, ReasonIndivisible, ReasonPast from CrashTimes.
//   - ReasonCollision when two known crash times coincide.
//   - ReasonUnderdetermined when fewer than two crash times are known.
//   - ReasonIndivisible when an axis speed is not an integer.
//   - ReasonMismatch when a solved axis misses a hailstone.
func Verify(hailstones []hail.Hailstone, x0, vx int64) (Solution, error) {
	times, err := CrashTimes(hailstones, x0, vx)
	if err != nil {
		return Solution{}, err
	}

	var known []crash
	for i, ct := range times {
		if ct.Known {
			known = append(known, crash{index: i, t: ct.T})
		}
	}
	slices.SortFunc(known, func(a, b crash) int {
		return cmp.Or(cmp.Compare(a.t, b.t), cmp.Compare(a.index, b.index))
	})
	for i := 1; i < len(known); i++ {
		if known[i].t == known[i-1].t {
			return Solution{}, reject(ReasonCollision, known[i].index, 0)
		}
	}
	if len(known) < 2 {
		return Solution{}, reject(ReasonUnderdetermined, -1, 0)
	}

	solution := Solution{X: Axis{Start: x0, Speed: vx}}
	first, second := known[0], known[1]
	for _, axis := range []int{1, 2} {
		a, err := solveAxis(hailstones, first, second, axis)
		if err != nil {
			return Solution{}, err
		}
		for _, c := range known {
			h := hailstones[c.index]
			if a.At(c.t) != h.At(c.t).Axis(axis) {
				return Solution{}, reject(ReasonMismatch, c.index, axis)
			}
		}
		if axis == 1 {
			solution.Y = a
		} else {
			solution.Z = a
		}
	}
	return solution, nil
}

// solveAxis finds the motion on axis that meets hailstone first at first.t
// and hailstone second at second.t.
func solveAxis(hailstones []hail.Hailstone, first, second crash, axis int) (Axis, error) {
	h1, h2 := hailstones[first.index], hailstones[second.index]
	p1, v1 := h1.Position.Axis(axis), h1.Velocity.Axis(axis)
	p2, v2 := h2.Position.Axis(axis), h2.Velocity.Axis(axis)

	distance := p2 + second.t*v2 - p1 - first.t*v1
	elapsed := second.t - first.t
	if distance%elapsed != 0 {
		return Axis{}, reject(ReasonIndivisible, second.index, axis)
	}
	speed := distance / elapsed
	return Axis{Start: p1 + first.t*(v1-speed), Speed: speed}, nil
}
