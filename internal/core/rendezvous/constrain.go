package rendezvous

import (
	"github.com/louisbranch/rendezvous/internal/core/congruence"
	"github.com/louisbranch/rendezvous/internal/core/hail"
	"github.com/louisbranch/rendezvous/internal/core/primes"
)

// Constraints is what the hailstones imply about x0 for one x speed.
type Constraints struct {
	System congruence.System
	// Direct is the index of the first hailstone sharing the x speed, or -1.
	// Such a hailstone adds no modular constraint; the stone must start at
	// its x instead, so the candidate is verified directly.
	Direct int
}

// Constrain builds the residue system on x0 for stone x speed vx.
//
// For each hailstone h, every prime power p^e of |vx - h.vx| requires
// x0 ≡ h.x (mod p^e). Constraints are merged in input order and a
// contradiction returns congruence.ErrContradiction. Merging stops at the
// first hailstone with h.vx == vx, which is reported in Direct.
func Constrain(hailstones []hail.Hailstone, vx int64) (Constraints, error) {
	var system congruence.System
	for i, h := range hailstones {
		d := congruence.Abs(vx - h.Velocity.X)
		if d == 0 {
			return Constraints{System: system, Direct: i}, nil
		}
		for _, pp := range primes.Factorize(d) {
			next, err := congruence.Merge(system, pp.Prime, pp.Modulus(), h.Position.X)
			if err != nil {
				return Constraints{}, err
			}
			system = next
		}
	}
	return Constraints{System: system, Direct: -1}, nil
}

// Window bounds x0 so that every crash time is non-negative: a hailstone
// moving faster along x than the stone must start behind it, a slower one
// ahead of it.
func Window(hailstones []hail.Hailstone, vx int64) congruence.Bounds {
	var b congruence.Bounds
	for _, h := range hailstones {
		x := h.Position.X
		switch d := h.Velocity.X - vx; {
		case d > 0:
			if b.Lo == nil || x > *b.Lo {
				b.Lo = &x
			}
		case d < 0:
			if b.Hi == nil || x < *b.Hi {
				b.Hi = &x
			}
		}
	}
	return b
}
