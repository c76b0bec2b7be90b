package rendezvous

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/louisbranch/rendezvous/internal/core/hail"
	"github.com/louisbranch/rendezvous/internal/core/rendezvous"
)

// Format selects how a Report is written.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Valid reports whether f is a known format.
func (f Format) Valid() bool {
	switch f {
	case FormatText, FormatJSON, FormatYAML:
		return true
	default:
		return false
	}
}

// Vector is the serialized form of a hail.Vec3.
type Vector struct {
	X int64 `json:"x" yaml:"x"`
	Y int64 `json:"y" yaml:"y"`
	Z int64 `json:"z" yaml:"z"`
}

func vector(v hail.Vec3) Vector {
	return Vector{X: v.X, Y: v.Y, Z: v.Z}
}

// Report is the command result.
type Report struct {
	Intersections int    `json:"intersections" yaml:"intersections"`
	Position      Vector `json:"position" yaml:"position"`
	Velocity      Vector `json:"velocity" yaml:"velocity"`
	Sum           int64  `json:"sum" yaml:"sum"`
}

// NewReport builds a Report from the intersection count and the throw.
func NewReport(intersections int, solution rendezvous.Solution) Report {
	return Report{
		Intersections: intersections,
		Position:      vector(solution.Position()),
		Velocity:      vector(solution.Velocity()),
		Sum:           solution.Sum(),
	}
}

// Write renders r to w. Text is the intersection count and the coordinate
// sum on separate lines.
func (r Report) Write(w io.Writer, format Format) error {
	switch format {
	case FormatText, "":
		_, err := fmt.Fprintf(w, "%d\n%d\n", r.Intersections, r.Sum)
		return err
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
