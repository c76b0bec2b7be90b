// Package rendezvous parses solver command configuration and runs the
// intersection count and throw search over a hailstone list.
package rendezvous

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/louisbranch/rendezvous/internal/core/hail"
	"github.com/louisbranch/rendezvous/internal/core/planar"
	"github.com/louisbranch/rendezvous/internal/core/rendezvous"
	entrypoint "github.com/louisbranch/rendezvous/internal/platform/cmd"
	"github.com/louisbranch/rendezvous/internal/platform/config"
	"github.com/louisbranch/rendezvous/internal/platform/logging"
)

// Exit codes beyond the generic failure.
const (
	ExitInput      = 2
	ExitNoSolution = 3
)

// Config holds rendezvous command configuration.
type Config struct {
	Input     string  `env:"INPUT"`
	AreaMin   float64 `env:"AREA_MIN"   envDefault:"200000000000000"`
	AreaMax   float64 `env:"AREA_MAX"   envDefault:"400000000000000"`
	MaxSpeed  int64   `env:"MAX_SPEED"  envDefault:"10000"`
	MaxProbes int     `env:"MAX_PROBES" envDefault:"64"`
	Format    Format  `env:"FORMAT"     envDefault:"text"`
	LogLevel  string  `env:"LOG_LEVEL"  envDefault:"warn"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	format := string(cfg.Format)
	fs.StringVar(&cfg.Input, "input", cfg.Input, "hailstone file (default: stdin)")
	fs.Float64Var(&cfg.AreaMin, "min", cfg.AreaMin, "lower bound of the test area on x and y")
	fs.Float64Var(&cfg.AreaMax, "max", cfg.AreaMax, "upper bound of the test area on x and y")
	fs.Int64Var(&cfg.MaxSpeed, "max-speed", cfg.MaxSpeed, "largest |vx| tried by the throw search")
	fs.IntVar(&cfg.MaxProbes, "max-probes", cfg.MaxProbes, "x0 values verified per candidate speed")
	fs.StringVar(&format, "format", format, "output format (text, json, yaml)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	cfg.Format = Format(format)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports configuration values the command cannot run with.
func (c Config) Validate() error {
	if c.AreaMin > c.AreaMax {
		return fmt.Errorf("area min %v exceeds max %v", c.AreaMin, c.AreaMax)
	}
	if c.MaxSpeed < 0 {
		return fmt.Errorf("max speed must be non-negative, got %d", c.MaxSpeed)
	}
	if c.MaxProbes < 1 {
		return fmt.Errorf("max probes must be positive, got %d", c.MaxProbes)
	}
	if !c.Format.Valid() {
		return fmt.Errorf("unknown format %q (valid formats: text, json, yaml)", c.Format)
	}
	return nil
}

// Run reads hailstones from cfg.Input, or from in when Input is empty or
// "-", and writes the report to out. Logs and telemetry go to errOut.
func Run(ctx context.Context, cfg Config, in io.Reader, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	if err := cfg.Validate(); err != nil {
		return config.WithExitCode(err, ExitInput)
	}
	logger, err := logging.New(errOut, cfg.LogLevel)
	if err != nil {
		return config.WithExitCode(err, ExitInput)
	}
	defer func() { _ = logger.Sync() }()

	options := entrypoint.RunOptions{TelemetryOut: errOut, Logger: logger}
	return entrypoint.RunWithTelemetryAndOptions(ctx, entrypoint.ServiceRendezvous, options, func(ctx context.Context) error {
		hailstones, err := readHailstones(cfg.Input, in)
		if err != nil {
			return config.WithExitCode(err, ExitInput)
		}
		logger.Info("hailstones loaded", zap.Int("count", len(hailstones)))

		report, err := solve(ctx, cfg, hailstones, logger)
		if err != nil {
			return err
		}
		return report.Write(out, cfg.Format)
	})
}

func solve(ctx context.Context, cfg Config, hailstones []hail.Hailstone, logger *zap.Logger) (Report, error) {
	_, span := otel.Tracer("rendezvous.cmd").Start(ctx, "planar.CountIntersections")
	span.SetAttributes(
		attribute.Float64("planar.area.min", cfg.AreaMin),
		attribute.Float64("planar.area.max", cfg.AreaMax),
	)
	count, err := planar.CountIntersections(hailstones, planar.Area{Min: cfg.AreaMin, Max: cfg.AreaMax})
	span.SetAttributes(attribute.Int("planar.intersections", count))
	span.End()
	if err != nil {
		return Report{}, config.WithExitCode(fmt.Errorf("count intersections: %w", err), ExitInput)
	}
	logger.Info("intersections counted", zap.Int("count", count))

	solver := rendezvous.NewSolver(rendezvous.Options{
		MaxSpeed:  cfg.MaxSpeed,
		MaxProbes: cfg.MaxProbes,
		Logger:    logger,
	})
	solution, err := solver.Solve(ctx, hailstones)
	if err != nil {
		if errors.Is(err, rendezvous.ErrNoSolution) {
			err = config.WithExitCode(err, ExitNoSolution)
		}
		return Report{}, fmt.Errorf("find throw: %w", err)
	}
	return NewReport(count, solution), nil
}

func readHailstones(path string, in io.Reader) ([]hail.Hailstone, error) {
	if path == "" || path == "-" {
		if in == nil {
			return nil, errors.New("no input: set -input or provide stdin")
		}
		return hail.Read(in)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()
	return hail.Read(f)
}
