// Package rendezvous finds an integer throw whose path meets every hailstone.
//
// # Search
//
// Candidate x speeds are tried in the order 0, 1, -1, 2, -2, ... For a
// candidate speed vx, the stone meets hailstone h at an integer time only if
// (vx - h.vx) divides (x0 - h.x), so each prime power of |vx - h.vx| fixes x0
// modulo that power. The per-prime constraints are merged with
// congruence.Merge; any disagreement abandons the candidate. The merged
// system is combined into a residue class of x0, and members of that class
// inside the window where every crash time is non-negative are verified.
//
// # Verification
//
// Verify derives every crash time from the x axis, requires them to be
// distinct non-negative integers, then solves y and z from the two earliest
// crashes and checks the rest. Failures are *Rejection values matching
// ErrRejected; they only abandon the candidate.
//
// # Determinism
//
// Solve is a pure function of its hailstones and Options apart from logging
// and telemetry.
package rendezvous
