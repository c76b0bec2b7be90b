// Package primes factors positive integers into prime powers.
package primes

// PrimePower is Prime raised to Exponent.
type PrimePower struct {
	Prime    int64
	Exponent int64
}

// Modulus returns Prime^Exponent.
func (p PrimePower) Modulus() int64 {
	m := int64(1)
	for range p.Exponent {
		m *= p.Prime
	}
	return m
}

// Factorize returns the prime factorization of n in ascending prime order,
// one entry per distinct prime. It returns nil for n < 2.
func Factorize(n int64) []PrimePower {
	if n < 2 {
		return nil
	}
	var powers []PrimePower
	for p := int64(2); p <= n/p; {
		if n%p == 0 {
			e := int64(0)
			for n%p == 0 {
				n /= p
				e++
			}
			powers = append(powers, PrimePower{Prime: p, Exponent: e})
		}
		if p == 2 {
			p = 3
		} else {
			p += 2
		}
	}
	if n > 1 {
		powers = append(powers, PrimePower{Prime: n, Exponent: 1})
	}
	return powers
}
