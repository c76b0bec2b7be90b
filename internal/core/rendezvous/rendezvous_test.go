package rendezvous

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/louisbranch/rendezvous/internal/core/congruence"
	"github.com/louisbranch/rendezvous/internal/core/hail"
)

func stone(x, y, z, vx, vy, vz int64) hail.Hailstone {
	return hail.Hailstone{
		Position: hail.Vec3{X: x, Y: y, Z: z},
		Velocity: hail.Vec3{X: vx, Y: vy, Z: vz},
	}
}

func example() []hail.Hailstone {
	return []hail.Hailstone{
		stone(19, 13, 30, -2, 1, -2),
		stone(18, 19, 22, -1, -1, -2),
		stone(20, 25, 34, -2, -2, -4),
		stone(12, 31, 28, -1, -2, -1),
		stone(20, 19, 15, 1, -5, -3),
	}
}

var exampleSolution = Solution{
	X: Axis{Start: 24, Speed: -3},
	Y: Axis{Start: 13, Speed: 1},
	Z: Axis{Start: 10, Speed: 2},
}

// synthesize places one hailstone per velocity so that throw meets it at the
// matching time.
func synthesize(throw hail.Hailstone, velocities []hail.Vec3, times []int64) []hail.Hailstone {
	hailstones := make([]hail.Hailstone, len(velocities))
	for i, v := range velocities {
		t := times[i]
		hailstones[i] = hail.Hailstone{
			Position: throw.At(t).Add(v.Scale(-t)),
			Velocity: v,
		}
	}
	return hailstones
}

func TestSpeeds(t *testing.T) {
	want := []int64{0, 1, -1, 2, -2, 3, -3}
	for run := 0; run < 2; run++ {
		var got []int64
		for v := range Speeds() {
			if len(got) == len(want) {
				break
			}
			got = append(got, v)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("run %d: Speeds() mismatch (-want +got):\n%s", run, diff)
		}
	}
}

func TestConstrain(t *testing.T) {
	hailstones := example()

	c, err := Constrain(hailstones, -3)
	if err != nil {
		t.Fatalf("constrain: %v", err)
	}
	if c.Direct != -1 {
		t.Fatalf("expected no direct hailstone, got %d", c.Direct)
	}
	if diff := cmp.Diff([]congruence.Constraint{{Modulus: 4, Residue: 0}}, c.System.Constraints()); diff != "" {
		t.Fatalf("constraints mismatch (-want +got):\n%s", diff)
	}

	c, err = Constrain(hailstones, -2)
	if err != nil {
		t.Fatalf("constrain: %v", err)
	}
	if c.Direct != 0 {
		t.Fatalf("expected first hailstone to be direct, got %d", c.Direct)
	}

	if _, err := Constrain(hailstones, 0); !errors.Is(err, congruence.ErrContradiction) {
		t.Fatalf("expected contradiction for vx=0, got %v", err)
	}
}

func TestWindow(t *testing.T) {
	b := Window(example(), -3)
	if b.Lo == nil || *b.Lo != 20 {
		t.Fatalf("expected lower bound 20, got %v", b.Lo)
	}
	if b.Hi != nil {
		t.Fatalf("expected no upper bound, got %d", *b.Hi)
	}

	b = Window(example(), 0)
	if b.Lo == nil || *b.Lo != 20 {
		t.Fatalf("expected lower bound 20, got %v", b.Lo)
	}
	if b.Hi == nil || *b.Hi != 12 {
		t.Fatalf("expected upper bound 12, got %v", b.Hi)
	}
}

func TestCrashTimes(t *testing.T) {
	got, err := CrashTimes(example(), 24, -3)
	if err != nil {
		t.Fatalf("crash times: %v", err)
	}
	want := []CrashTime{
		{T: 5, Known: true},
		{T: 3, Known: true},
		{T: 4, Known: true},
		{T: 6, Known: true},
		{T: 1, Known: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("CrashTimes() mismatch (-want +got):\n%s", diff)
	}
}

func TestVerifyExample(t *testing.T) {
	got, err := Verify(example(), 24, -3)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if diff := cmp.Diff(exampleSolution, got); diff != "" {
		t.Fatalf("Verify() mismatch (-want +got):\n%s", diff)
	}
	if got.Sum() != 47 {
		t.Fatalf("Sum() = %d, want 47", got.Sum())
	}
}

func TestVerifyRejections(t *testing.T) {
	mismatched := example()
	mismatched[3].Position.Y = 32

	tests := []struct {
		name       string
		hailstones []hail.Hailstone
		x0, vx     int64
		want       Rejection
	}{
		{
			name:       "crash in the past",
			hailstones: example(),
			x0:         0,
			vx:         -3,
			want:       Rejection{Reason: ReasonPast, Hailstone: 0, Axis: 0},
		},
		{
			name:       "fractional crash time",
			hailstones: example(),
			x0:         25,
			vx:         -3,
			want:       Rejection{Reason: ReasonIndivisible, Hailstone: 1, Axis: 0},
		},
		{
			name:       "simultaneous crashes",
			hailstones: example(),
			x0:         20,
			vx:         -3,
			want:       Rejection{Reason: ReasonCollision, Hailstone: 4, Axis: 0},
		},
		{
			name:       "same speed different start",
			hailstones: example(),
			x0:         18,
			vx:         -2,
			want:       Rejection{Reason: ReasonOffset, Hailstone: 0, Axis: 0},
		},
		{
			name: "fewer than two known crashes",
			hailstones: []hail.Hailstone{
				stone(19, 13, 30, -2, 1, -2),
				stone(19, 5, 7, -2, 3, 4),
			},
			x0:   19,
			vx:   -2,
			want: Rejection{Reason: ReasonUnderdetermined, Hailstone: -1, Axis: 0},
		},
		{
			name:       "axis misses a hailstone",
			hailstones: mismatched,
			x0:         24,
			vx:         -3,
			want:       Rejection{Reason: ReasonMismatch, Hailstone: 3, Axis: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Verify(tt.hailstones, tt.x0, tt.vx)
			if !errors.Is(err, ErrRejected) {
				t.Fatalf("expected rejection, got %v", err)
			}
			var got *Rejection
			if !errors.As(err, &got) {
				t.Fatalf("expected *Rejection, got %T", err)
			}
			if *got != tt.want {
				t.Fatalf("Verify() rejection = %+v, want %+v", *got, tt.want)
			}
			if !errors.Is(err, &Rejection{Reason: tt.want.Reason}) {
				t.Fatalf("expected errors.Is to match reason %v", tt.want.Reason)
			}
		})
	}
}

func TestVerifyIsPure(t *testing.T) {
	hailstones := example()
	snapshot := slices.Clone(hailstones)
	for _, c := range []Candidate{{X0: 24, VX: -3}, {X0: 20, VX: -3}, {X0: 7, VX: 5}} {
		first, firstErr := Verify(hailstones, c.X0, c.VX)
		second, secondErr := Verify(hailstones, c.X0, c.VX)
		if diff := cmp.Diff(first, second); diff != "" {
			t.Fatalf("%+v: solutions differ (-first +second):\n%s", c, diff)
		}
		if (firstErr == nil) != (secondErr == nil) {
			t.Fatalf("%+v: errors differ: %v vs %v", c, firstErr, secondErr)
		}
		if firstErr != nil && firstErr.Error() != secondErr.Error() {
			t.Fatalf("%+v: errors differ: %v vs %v", c, firstErr, secondErr)
		}
	}
	if diff := cmp.Diff(snapshot, hailstones); diff != "" {
		t.Fatalf("Verify() mutated hailstones (-before +after):\n%s", diff)
	}
}

func TestCandidates(t *testing.T) {
	solver := NewSolver(Options{MaxProbes: 2})
	tests := []struct {
		name string
		vx   int64
		want []Candidate
	}{
		{name: "residue class from window", vx: -3, want: []Candidate{{X0: 20, VX: -3}, {X0: 24, VX: -3}}},
		{name: "shared speed", vx: -2, want: []Candidate{{X0: 19, VX: -2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq, err := solver.candidates(example(), tt.vx)
			if err != nil {
				t.Fatalf("candidates: %v", err)
			}
			if diff := cmp.Diff(tt.want, slices.Collect(seq)); diff != "" {
				t.Fatalf("candidates mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if _, err := solver.candidates(example(), 0); !errors.Is(err, congruence.ErrContradiction) {
		t.Fatalf("expected ErrContradiction, got %v", err)
	}
}

func TestCandidateVerify(t *testing.T) {
	got, err := Candidate{X0: 24, VX: -3}.Verify(example())
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if diff := cmp.Diff(exampleSolution, got); diff != "" {
		t.Fatalf("solution mismatch (-want +got):\n%s", diff)
	}
}

func TestSolveClassMemberLimit(t *testing.T) {
	// At vx = -3 the window starts at 20, a collision; the throw is the
	// second class member, 24.
	if _, err := NewSolver(Options{MaxSpeed: 3, MaxProbes: 1}).Solve(context.Background(), example()); !errors.Is(err, ErrNoSolution) {
		t.Fatalf("expected ErrNoSolution with MaxProbes 1, got %v", err)
	}
	got, err := NewSolver(Options{MaxSpeed: 3, MaxProbes: 2}).Solve(context.Background(), example())
	if err != nil {
		t.Fatalf("solve with MaxProbes 2: %v", err)
	}
	if diff := cmp.Diff(exampleSolution, got); diff != "" {
		t.Fatalf("solution mismatch (-want +got):\n%s", diff)
	}
}

func TestSolveExample(t *testing.T) {
	got, err := Solve(context.Background(), example())
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if diff := cmp.Diff(exampleSolution, got); diff != "" {
		t.Fatalf("Solve() mismatch (-want +got):\n%s", diff)
	}
	if got.Sum() != 47 {
		t.Fatalf("Sum() = %d, want 47", got.Sum())
	}
}

func TestSolveRecoversSyntheticThrow(t *testing.T) {
	throw := stone(131, -47, 88, 4, -3, 5)
	hailstones := synthesize(throw,
		[]hail.Vec3{
			{X: -3, Y: 2, Z: 1},
			{X: 9, Y: -1, Z: -4},
			{X: -7, Y: 5, Z: 2},
			{X: 11, Y: 3, Z: -2},
			{X: -5, Y: -6, Z: 7},
			{X: 2, Y: 1, Z: -3},
			{X: 13, Y: -2, Z: 4},
			{X: -8, Y: 4, Z: -1},
		},
		[]int64{3, 7, 11, 2, 5, 13, 9, 17},
	)

	got, err := Solve(context.Background(), hailstones)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if diff := cmp.Diff(throw, got.Hailstone()); diff != "" {
		t.Fatalf("Solve() mismatch (-want +got):\n%s", diff)
	}
}

func TestSolveErrors(t *testing.T) {
	t.Run("search bound", func(t *testing.T) {
		solver := NewSolver(Options{MaxSpeed: 2})
		if _, err := solver.Solve(context.Background(), example()); !errors.Is(err, ErrNoSolution) {
			t.Fatalf("expected ErrNoSolution, got %v", err)
		}
	})
	t.Run("too few hailstones", func(t *testing.T) {
		if _, err := Solve(context.Background(), example()[:1]); !errors.Is(err, ErrNoSolution) {
			t.Fatalf("expected ErrNoSolution, got %v", err)
		}
	})
	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := Solve(ctx, example()); !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	})
}

func TestSolveLogs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	solver := NewSolver(Options{MaxSpeed: DefaultMaxSpeed, Logger: zap.New(core)})
	if _, err := solver.Solve(context.Background(), example()); err != nil {
		t.Fatalf("solve: %v", err)
	}

	found := logs.FilterMessage("throw found").All()
	if len(found) != 1 {
		t.Fatalf("expected one throw found entry, got %d", len(found))
	}
	if sum := found[0].ContextMap()["sum"]; sum != int64(47) {
		t.Fatalf("expected sum 47 in log, got %v", sum)
	}
	// 0, 1, -1, 2, -2 and 3 are abandoned before -3 verifies.
	if n := logs.FilterMessage("candidate abandoned").Len(); n != 6 {
		t.Fatalf("expected 6 abandoned candidates, got %d", n)
	}
}

func TestRejectionLabel(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{err: reject(ReasonMismatch, 1, 2), want: "mismatch"},
		{err: congruence.ErrContradiction, want: "contradiction"},
		{err: congruence.ErrUnsolvable, want: "unsolvable"},
		{err: errors.New("boom"), want: "unknown"},
	}
	for _, tt := range tests {
		if got := rejectionLabel(tt.err); got != tt.want {
			t.Errorf("rejectionLabel(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
