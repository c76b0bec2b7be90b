// Package congruence merges per-prime modular constraints and solves the
// resulting system for a single integer.
//
// Constraints are keyed by prime base and may repeat a base at different
// powers; the moduli of a System are therefore pairwise coprime even though
// the raw inputs need not be.
package congruence

import (
	"cmp"
	"errors"
	"maps"
	"math"
	"slices"

	"golang.org/x/exp/constraints"
)

// ErrContradiction indicates a constraint disagrees with the system.
var ErrContradiction = errors.New("modular constraints contradict")

// ErrUnsolvable indicates Combine could not satisfy a constraint within its
// attempt budget.
var ErrUnsolvable = errors.New("modular system has no representable solution")

// directionLimit is where Combine turns the search around to stay inside int64.
const directionLimit = math.MaxInt64 / 100

// Mod returns the Euclidean remainder of a by m, always in [0, |m|).
func Mod[T constraints.Signed](a, m T) T {
	r := a % m
	if r < 0 {
		r += Abs(m)
	}
	return r
}

// Abs returns |v|.
func Abs[T constraints.Signed](v T) T {
	if v < 0 {
		return -v
	}
	return v
}

// Constraint requires x ≡ Residue (mod Modulus).
type Constraint struct {
	Modulus int64
	Residue int64
}

// Satisfied reports whether x meets the constraint.
func (c Constraint) Satisfied(x int64) bool {
	return Mod(x, c.Modulus) == c.Residue
}

// System is an immutable set of constraints keyed by prime base. The zero
// value is an empty system.
type System struct {
	byPrime map[int64]Constraint
}

// Len returns the number of prime bases in the system.
func (s System) Len() int {
	return len(s.byPrime)
}

// Lookup returns the constraint stored for prime.
func (s System) Lookup(prime int64) (Constraint, bool) {
	c, ok := s.byPrime[prime]
	return c, ok
}

// Constraints returns the constraints ordered by descending modulus, ties
// broken by descending residue.
func (s System) Constraints() []Constraint {
	out := slices.Collect(maps.Values(s.byPrime))
	slices.SortFunc(out, func(a, b Constraint) int {
		if a.Modulus != b.Modulus {
			return cmp.Compare(b.Modulus, a.Modulus)
		}
		return cmp.Compare(b.Residue, a.Residue)
	})
	return out
}

func (s System) with(prime int64, c Constraint) System {
	next := make(map[int64]Constraint, len(s.byPrime)+1)
	maps.Copy(next, s.byPrime)
	next[prime] = c
	return System{byPrime: next}
}

// Merge adds x ≡ residue (mod modulus) to s, where modulus is a power of
// prime. The residue is reduced into [0, modulus) first.
//
// Only the largest power of each prime is kept. When the new modulus and the
// stored one differ, the larger residue reduced by the smaller modulus must
// equal the smaller residue. A disagreement returns ErrContradiction and s is
// left untouched.
func Merge(s System, prime, modulus, residue int64) (System, error) {
	residue = Mod(residue, modulus)
	existing, ok := s.byPrime[prime]
	switch {
	case !ok:
		return s.with(prime, Constraint{Modulus: modulus, Residue: residue}), nil
	case existing.Modulus == modulus:
		if existing.Residue != residue {
			return s, ErrContradiction
		}
		return s, nil
	case existing.Modulus < modulus:
		if Mod(residue, existing.Modulus) != existing.Residue {
			return s, ErrContradiction
		}
		return s.with(prime, Constraint{Modulus: modulus, Residue: residue}), nil
	default:
		if Mod(existing.Residue, modulus) != residue {
			return s, ErrContradiction
		}
		return s, nil
	}
}
