// Package synth builds hailstone lists around a known throw.
//
// Every hailstone is placed so the throw meets it at a distinct whole
// crash time, which makes the generated list a puzzle whose answer is
// known in advance. Generation is deterministic for a given seed.
package synth

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"

	"github.com/louisbranch/rendezvous/internal/core/hail"
	"github.com/louisbranch/rendezvous/internal/core/planar"
)

// ErrInvalidConfig indicates generation bounds that cannot produce a list.
var ErrInvalidConfig = errors.New("invalid scenario config")

// maxResamples bounds retries for a hailstone whose path overlaps another.
const maxResamples = 64

// Config bounds the values drawn for a scenario.
type Config struct {
	Seed  int64
	Count int
	// PositionMin and PositionMax bound each throw position component.
	PositionMin, PositionMax int64
	// ThrowSpeed bounds |component| of the throw velocity.
	ThrowSpeed int64
	// HailSpeed bounds |component| of hailstone velocities.
	HailSpeed int64
	// TimeMin and TimeMax bound crash times.
	TimeMin, TimeMax int64
}

// DefaultConfig returns bounds shaped like a typical puzzle input.
func DefaultConfig(seed int64) Config {
	return Config{
		Seed:        seed,
		Count:       300,
		PositionMin: 100_000_000_000,
		PositionMax: 400_000_000_000,
		ThrowSpeed:  300,
		HailSpeed:   400,
		TimeMin:     1_000_000_000,
		TimeMax:     1_000_000_000_000,
	}
}

// Validate reports bounds Generate cannot honor.
func (c Config) Validate() error {
	switch {
	case c.Count < 2:
		return fmt.Errorf("%w: count must be at least 2, got %d", ErrInvalidConfig, c.Count)
	case c.PositionMin > c.PositionMax:
		return fmt.Errorf("%w: position min %d exceeds max %d", ErrInvalidConfig, c.PositionMin, c.PositionMax)
	case c.ThrowSpeed < 0:
		return fmt.Errorf("%w: throw speed must be non-negative, got %d", ErrInvalidConfig, c.ThrowSpeed)
	case c.HailSpeed < 1:
		return fmt.Errorf("%w: hail speed must be positive, got %d", ErrInvalidConfig, c.HailSpeed)
	case c.TimeMin < 0 || c.TimeMin > c.TimeMax:
		return fmt.Errorf("%w: time range [%d, %d] is invalid", ErrInvalidConfig, c.TimeMin, c.TimeMax)
	case c.TimeMax-c.TimeMin < int64(c.Count)-1:
		return fmt.Errorf("%w: time range holds fewer than %d distinct times", ErrInvalidConfig, c.Count)
	}
	// Positions stay within a quarter of the int64 range so the planar
	// slope products cannot overflow.
	const limit = math.MaxInt64 / 4
	reach := c.ThrowSpeed + c.HailSpeed
	if c.PositionMin < -limit || c.PositionMax > limit || c.TimeMax > (limit-max(-c.PositionMin, c.PositionMax))/reach {
		return fmt.Errorf("%w: coordinates may exceed %d", ErrInvalidConfig, int64(limit))
	}
	if reach > math.MaxInt32 {
		return fmt.Errorf("%w: speeds exceed %d", ErrInvalidConfig, math.MaxInt32)
	}
	return nil
}

// Scenario is a generated hailstone list together with the throw that
// solves it.
type Scenario struct {
	Seed       int64
	Throw      hail.Hailstone
	Hailstones []hail.Hailstone
	// Times holds the crash time of each hailstone, by index.
	Times []int64
}

// Generate draws a throw and cfg.Count hailstones it hits.
//
// Hailstones with a zero x velocity, or whose projected path overlaps an
// earlier one, are redrawn.
func Generate(cfg Config) (Scenario, error) {
	if err := cfg.Validate(); err != nil {
		return Scenario{}, err
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	throw := hail.Hailstone{
		Position: hail.Vec3{
			X: between(rng, cfg.PositionMin, cfg.PositionMax),
			Y: between(rng, cfg.PositionMin, cfg.PositionMax),
			Z: between(rng, cfg.PositionMin, cfg.PositionMax),
		},
		Velocity: hail.Vec3{
			X: between(rng, -cfg.ThrowSpeed, cfg.ThrowSpeed),
			Y: between(rng, -cfg.ThrowSpeed, cfg.ThrowSpeed),
			Z: between(rng, -cfg.ThrowSpeed, cfg.ThrowSpeed),
		},
	}

	scenario := Scenario{
		Seed:       cfg.Seed,
		Throw:      throw,
		Hailstones: make([]hail.Hailstone, 0, cfg.Count),
		Times:      make([]int64, 0, cfg.Count),
	}
	used := make(map[int64]struct{}, cfg.Count)
	for len(scenario.Hailstones) < cfg.Count {
		t := between(rng, cfg.TimeMin, cfg.TimeMax)
		if _, ok := used[t]; ok {
			continue
		}
		h, err := place(rng, cfg, throw, t, scenario.Hailstones)
		if err != nil {
			return Scenario{}, fmt.Errorf("hailstone %d: %w", len(scenario.Hailstones), err)
		}
		used[t] = struct{}{}
		scenario.Hailstones = append(scenario.Hailstones, h)
		scenario.Times = append(scenario.Times, t)
	}
	return scenario, nil
}

// place draws a velocity and backs the hailstone off from the crash point so
// it reaches throw.At(t) at time t.
func place(rng *rand.Rand, cfg Config, throw hail.Hailstone, t int64, placed []hail.Hailstone) (hail.Hailstone, error) {
	crash := throw.At(t)
	for range maxResamples {
		v := hail.Vec3{
			X: between(rng, -cfg.HailSpeed, cfg.HailSpeed),
			Y: between(rng, -cfg.HailSpeed, cfg.HailSpeed),
			Z: between(rng, -cfg.HailSpeed, cfg.HailSpeed),
		}
		if v.X == 0 {
			continue
		}
		h := hail.Hailstone{Position: crash.Add(v.Scale(-t)), Velocity: v}
		if !overlaps(h, placed) {
			return h, nil
		}
	}
	return hail.Hailstone{}, fmt.Errorf("%w: no free path after %d draws", ErrInvalidConfig, maxResamples)
}

func overlaps(h hail.Hailstone, placed []hail.Hailstone) bool {
	for _, other := range placed {
		if _, crossing := planar.Intersect(h, other); crossing == planar.CrossingOverlap {
			return true
		}
	}
	return false
}

// between returns a uniform value in [lo, hi].
func between(rng *rand.Rand, lo, hi int64) int64 {
	return lo + rng.Int63n(hi-lo+1)
}

// Write prints the hailstones one per line in "px, py, pz @ vx, vy, vz" form.
func (s Scenario) Write(w io.Writer) error {
	for _, h := range s.Hailstones {
		if _, err := fmt.Fprintln(w, h); err != nil {
			return err
		}
	}
	return nil
}
