package congruence

import (
	"iter"
	"math"
)

// Class is the set of integers Value + k*Period. A zero Period means the
// period does not fit in int64, so Value is the only member in range.
type Class struct {
	Value  int64
	Period int64
}

// Combine finds one integer satisfying every constraint of s.
//
// The search starts at zero with step one and visits constraints from the
// largest modulus down. While the current value misses a constraint it moves
// by the step, turning around before it nears the int64 limit. Once a
// constraint holds, the step is multiplied by its modulus so later moves keep
// it satisfied. A multiplication that would overflow is skipped and the
// returned Class has a zero Period.
//
// Each constraint gets at most twice its modulus in attempts: the coprime
// moduli of a System guarantee a hit within Modulus steps in one direction,
// and a turn-around revisits at most the values already tried. Running out
// returns ErrUnsolvable.
//
// An empty system yields Class{Value: 0, Period: 1}.
func Combine(s System) (Class, error) {
	x := int64(0)
	step := int64(1)
	exact := true
	for _, c := range s.Constraints() {
		budget := c.Modulus
		if budget <= math.MaxInt64/2 {
			budget *= 2
		}
		for attempts := int64(0); !c.Satisfied(x); attempts++ {
			if attempts >= budget {
				return Class{}, ErrUnsolvable
			}
			if (step > 0 && x > directionLimit) || (step < 0 && x < -directionLimit) {
				step = -step
			}
			x += step
		}
		if Abs(step) <= math.MaxInt64/c.Modulus {
			step *= c.Modulus
		} else {
			exact = false
		}
	}
	class := Class{Value: x}
	if exact {
		class.Period = Abs(step)
	}
	return class, nil
}

// Bounds is an optional closed interval. A nil bound is open on that side.
type Bounds struct {
	Lo, Hi *int64
}

// Contains reports whether x lies within b.
func (b Bounds) Contains(x int64) bool {
	return (b.Lo == nil || x >= *b.Lo) && (b.Hi == nil || x <= *b.Hi)
}

// Members yields up to limit members of c inside b.
//
// With a lower bound, members ascend from the smallest one not below it.
// With only an upper bound, they descend from the largest one not above it.
// With neither, or when the period is unknown, only c.Value is considered.
func (c Class) Members(b Bounds, limit int) iter.Seq[int64] {
	return func(yield func(int64) bool) {
		if limit <= 0 {
			return
		}
		if c.Period == 0 || (b.Lo == nil && b.Hi == nil) {
			if b.Contains(c.Value) {
				yield(c.Value)
			}
			return
		}
		if b.Lo != nil {
			x, ok := c.ceil(*b.Lo)
			for n := 0; ok && n < limit && b.Contains(x); n++ {
				if !yield(x) {
					return
				}
				x, ok = addChecked(x, c.Period)
			}
			return
		}
		x, ok := c.floor(*b.Hi)
		for n := 0; ok && n < limit; n++ {
			if !yield(x) {
				return
			}
			x, ok = addChecked(x, -c.Period)
		}
	}
}

// ceil returns the smallest member >= lo.
func (c Class) ceil(lo int64) (int64, bool) {
	r := Mod(c.Value, c.Period)
	return addChecked(lo, Mod(r-Mod(lo, c.Period), c.Period))
}

// floor returns the largest member <= hi.
func (c Class) floor(hi int64) (int64, bool) {
	r := Mod(c.Value, c.Period)
	return addChecked(hi, -Mod(Mod(hi, c.Period)-r, c.Period))
}

func addChecked(a, b int64) (int64, bool) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, false
	}
	return sum, true
}
