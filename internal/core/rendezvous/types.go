package rendezvous

import (
	"errors"
	"fmt"

	"github.com/louisbranch/rendezvous/internal/core/hail"
)

// ErrNoSolution indicates no throw was found within the search limits.
var ErrNoSolution = errors.New("no throw meets every hailstone within the search limits")

// ErrRejected matches every *Rejection.
var ErrRejected = errors.New("candidate rejected")

// Reason identifies why a candidate throw was rejected.
type Reason int

const (
	ReasonUnspecified Reason = iota
	// ReasonIndivisible: a crash time or axis speed is not an integer.
	ReasonIndivisible
	// ReasonPast: a crash time is negative.
	ReasonPast
	// ReasonCollision: two hailstones would be hit at the same instant.
	ReasonCollision
	// ReasonUnderdetermined: fewer than two crash times are known.
	ReasonUnderdetermined
	// ReasonMismatch: the solved axis misses a hailstone.
	ReasonMismatch
	// ReasonOffset: a hailstone moving with the stone along x never meets it.
	ReasonOffset
)

func (r Reason) String() string {
	switch r {
	case ReasonIndivisible:
		return "indivisible"
	case ReasonPast:
		return "past"
	case ReasonCollision:
		return "collision"
	case ReasonUnderdetermined:
		return "underdetermined"
	case ReasonMismatch:
		return "mismatch"
	case ReasonOffset:
		return "offset"
	default:
		return "unspecified"
	}
}

// Rejection reports why a candidate failed verification.
type Rejection struct {
	Reason    Reason
	Hailstone int // index of the offending hailstone, -1 when not specific
	Axis      int // 0 (x), 1 (y) or 2 (z)
}

// Error implements the error interface.
func (r *Rejection) Error() string {
	if r.Hailstone < 0 {
		return fmt.Sprintf("candidate rejected on %s axis: %s", axisName(r.Axis), r.Reason)
	}
	return fmt.Sprintf("candidate rejected on %s axis by hailstone %d: %s", axisName(r.Axis), r.Hailstone, r.Reason)
}

// Is reports whether target is ErrRejected or a *Rejection with the same reason.
func (r *Rejection) Is(target error) bool {
	if target == ErrRejected {
		return true
	}
	if t, ok := target.(*Rejection); ok {
		return r.Reason == t.Reason
	}
	return false
}

func reject(reason Reason, hailstone, axis int) *Rejection {
	return &Rejection{Reason: reason, Hailstone: hailstone, Axis: axis}
}

func axisName(axis int) string {
	switch axis {
	case 0:
		return "x"
	case 1:
		return "y"
	case 2:
		return "z"
	default:
		return "unknown"
	}
}

// CrashTime is when the stone meets a hailstone. Known is false when the
// stone and the hailstone share an x speed, so x never pins the time down.
type CrashTime struct {
	T     int64
	Known bool
}

// Candidate is a trial start and speed for the x axis.
type Candidate struct {
	X0 int64
	VX int64
}

// Verify checks c against hailstones; see the package-level Verify.
func (c Candidate) Verify(hailstones []hail.Hailstone) (Solution, error) {
	return Verify(hailstones, c.X0, c.VX)
}

// Axis is the stone motion along one axis: Start + t*Speed.
type Axis struct {
	Start int64
	Speed int64
}

// At returns the coordinate at time t.
func (a Axis) At(t int64) int64 {
	return a.Start + t*a.Speed
}

// Solution is a verified throw.
type Solution struct {
	X, Y, Z Axis
}

// Position returns the throw start position.
func (s Solution) Position() hail.Vec3 {
	return hail.Vec3{X: s.X.Start, Y: s.Y.Start, Z: s.Z.Start}
}

// Velocity returns the throw velocity.
func (s Solution) Velocity() hail.Vec3 {
	return hail.Vec3{X: s.X.Speed, Y: s.Y.Speed, Z: s.Z.Speed}
}

// Sum returns the sum of the start coordinates.
func (s Solution) Sum() int64 {
	return s.X.Start + s.Y.Start + s.Z.Start
}

// Hailstone returns the throw as a hailstone value.
func (s Solution) Hailstone() hail.Hailstone {
	return hail.Hailstone{Position: s.Position(), Velocity: s.Velocity()}
}
