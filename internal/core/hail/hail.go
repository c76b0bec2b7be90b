// Package hail models hailstones: points moving with constant integer
// velocity through three-dimensional space.
package hail

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrMalformedRecord indicates an input record did not yield exactly six integers.
var ErrMalformedRecord = errors.New("hailstone record must contain exactly 6 integers")

// Vec3 is an integer vector.
type Vec3 struct {
	X, Y, Z int64
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Scale returns v scaled by k.
func (v Vec3) Scale(k int64) Vec3 {
	return Vec3{X: v.X * k, Y: v.Y * k, Z: v.Z * k}
}

// Axis returns the component for axis 0 (x), 1 (y) or 2 (z).
func (v Vec3) Axis(i int) int64 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	case 2:
		return v.Z
	default:
		panic(fmt.Sprintf("hail: axis %d out of range", i))
	}
}

func (v Vec3) String() string {
	return fmt.Sprintf("%d, %d, %d", v.X, v.Y, v.Z)
}

// Hailstone is a point with an integer start position and velocity.
type Hailstone struct {
	Position Vec3
	Velocity Vec3
}

// At returns the hailstone position at time t.
func (h Hailstone) At(t int64) Vec3 {
	return h.Position.Add(h.Velocity.Scale(t))
}

func (h Hailstone) String() string {
	return h.Position.String() + " @ " + h.Velocity.String()
}

// Parse reads a single hailstone record.
//
// Every rune other than an ASCII digit or '-' separates tokens. Tokens that
// are not integers on their own (a lone '-') are dropped. The remaining
// integers are read as x, y, z, vx, vy, vz.
func Parse(record string) (Hailstone, error) {
	fields := strings.FieldsFunc(record, func(r rune) bool {
		return r != '-' && (r < '0' || r > '9')
	})
	values := make([]int64, 0, 6)
	for _, field := range fields {
		n, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			continue
		}
		values = append(values, n)
	}
	if len(values) != 6 {
		return Hailstone{}, fmt.Errorf("%w: got %d in %q", ErrMalformedRecord, len(values), record)
	}
	return Hailstone{
		Position: Vec3{X: values[0], Y: values[1], Z: values[2]},
		Velocity: Vec3{X: values[3], Y: values[4], Z: values[5]},
	}, nil
}

// Read parses one hailstone per non-blank line of r, preserving order.
func Read(r io.Reader) ([]Hailstone, error) {
	var hailstones []Hailstone
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		h, err := Parse(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		hailstones = append(hailstones, h)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read hailstones: %w", err)
	}
	return hailstones, nil
}
