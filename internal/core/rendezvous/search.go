package rendezvous

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"go.uber.org/zap"

	"github.com/louisbranch/rendezvous/internal/core/congruence"
	"github.com/louisbranch/rendezvous/internal/core/hail"
)

const (
	// DefaultMaxSpeed bounds |vx| during the search.
	DefaultMaxSpeed = 10000
	// DefaultMaxProbes bounds the residue class members verified per speed.
	DefaultMaxProbes = 64
)

// Options configures a Solver.
type Options struct {
	// MaxSpeed is the largest |vx| tried before giving up.
	MaxSpeed int64
	// MaxProbes is how many x0 values of the residue class are verified for
	// each speed, ascending from the window edge. With few hailstones the
	// class period is small next to the coordinates and the throw may lie
	// past the last member tried, in which case Solve reports ErrNoSolution.
	MaxProbes int
	// Logger receives search progress. Nil disables logging.
	Logger *zap.Logger
}

// DefaultOptions returns the options used by Solve.
func DefaultOptions() Options {
	return Options{
		MaxSpeed:  DefaultMaxSpeed,
		MaxProbes: DefaultMaxProbes,
	}
}

// Solver searches for a throw that meets every hailstone.
type Solver struct {
	opts   Options
	logger *zap.Logger
}

// NewSolver returns a Solver. Non-positive MaxProbes falls back to
// DefaultMaxProbes and a negative MaxSpeed to DefaultMaxSpeed.
func NewSolver(opts Options) *Solver {
	if opts.MaxProbes <= 0 {
		opts.MaxProbes = DefaultMaxProbes
	}
	if opts.MaxSpeed < 0 {
		opts.MaxSpeed = DefaultMaxSpeed
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Solver{opts: opts, logger: logger}
}

// Solve finds a throw with the default options.
func Solve(ctx context.Context, hailstones []hail.Hailstone) (Solution, error) {
	return NewSolver(DefaultOptions()).Solve(ctx, hailstones)
}

// Speeds yields candidate x speeds 0, 1, -1, 2, -2, ... without end. Each
// range over the returned sequence starts again from 0.
func Speeds() iter.Seq[int64] {
	return func(yield func(int64) bool) {
		if !yield(0) {
			return
		}
		for v := int64(1); v > 0; v++ {
			if !yield(v) || !yield(-v) {
				return
			}
		}
	}
}

// Solve tries each speed from Speeds until one verifies.
//
// # Errors
//
//   - ErrNoSolution when fewer than two hailstones are given or no speed up
//     to MaxSpeed verifies.
//   - The context error when ctx is done between candidates.
//
// Rejected candidates never surface as errors.
func (s *Solver) Solve(ctx context.Context, hailstones []hail.Hailstone) (solution Solution, err error) {
	ctx, span := startSolveSpan(ctx, len(hailstones))
	start := time.Now()
	candidates := 0
	defer func() {
		setSolveSpanResult(span, candidates, err)
		span.End()
		recordSolveMetrics(ctx, time.Since(start), err == nil)
	}()

	if len(hailstones) < 2 {
		return Solution{}, fmt.Errorf("%w: need at least two hailstones, got %d", ErrNoSolution, len(hailstones))
	}

	for vx := range Speeds() {
		if congruence.Abs(vx) > s.opts.MaxSpeed {
			break
		}
		if err := ctx.Err(); err != nil {
			return Solution{}, err
		}
		candidates++
		recordCandidate(ctx)

		found, rejected := s.try(hailstones, vx)
		if rejected == nil {
			s.logger.Info("throw found",
				zap.Stringer("throw", found.Hailstone()),
				zap.Int64("sum", found.Sum()),
				zap.Int("candidates", candidates))
			return found, nil
		}
		recordRejection(ctx, rejectionLabel(rejected))
		if ce := s.logger.Check(zap.DebugLevel, "candidate abandoned"); ce != nil {
			ce.Write(zap.Int64("vx", vx), zap.Error(rejected))
		}
	}
	return Solution{}, fmt.Errorf("%w: tried |vx| <= %d", ErrNoSolution, s.opts.MaxSpeed)
}

// try aggregates constraints for vx and verifies the resulting candidates.
func (s *Solver) try(hailstones []hail.Hailstone, vx int64) (Solution, error) {
	candidates, err := s.candidates(hailstones, vx)
	if err != nil {
		return Solution{}, err
	}
	var last error
	for c := range candidates {
		solution, err := c.Verify(hailstones)
		if err == nil {
			return solution, nil
		}
		last = err
	}
	if last == nil {
		// No member of the class keeps every crash time non-negative.
		last = reject(ReasonPast, -1, 0)
	}
	return Solution{}, last
}

// candidates yields the x0 values worth verifying for vx: the x of a
// hailstone sharing the speed, or up to MaxProbes members of the combined
// residue class inside Window.
func (s *Solver) candidates(hailstones []hail.Hailstone, vx int64) (iter.Seq[Candidate], error) {
	constraints, err := Constrain(hailstones, vx)
	if err != nil {
		return nil, err
	}
	if constraints.Direct >= 0 {
		c := Candidate{X0: hailstones[constraints.Direct].Position.X, VX: vx}
		return func(yield func(Candidate) bool) { yield(c) }, nil
	}
	class, err := congruence.Combine(constraints.System)
	if err != nil {
		return nil, err
	}
	members := class.Members(Window(hailstones, vx), s.opts.MaxProbes)
	return func(yield func(Candidate) bool) {
		for x0 := range members {
			if !yield(Candidate{X0: x0, VX: vx}) {
				return
			}
		}
	}, nil
}

func rejectionLabel(err error) string {
	var rejection *Rejection
	switch {
	case errors.As(err, &rejection):
		return rejection.Reason.String()
	case errors.Is(err, congruence.ErrContradiction):
		return "contradiction"
	case errors.Is(err, congruence.ErrUnsolvable):
		return "unsolvable"
	default:
		return "unknown"
	}
}
