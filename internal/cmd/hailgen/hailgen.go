// Package hailgen parses generator command configuration and writes a
// hailstone list built around a random throw.
package hailgen

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/louisbranch/rendezvous/internal/core/synth"
	entrypoint "github.com/louisbranch/rendezvous/internal/platform/cmd"
	"github.com/louisbranch/rendezvous/internal/platform/config"
	"github.com/louisbranch/rendezvous/internal/platform/logging"
	"github.com/louisbranch/rendezvous/internal/random"
)

// ExitConfig is returned for unusable generation bounds.
const ExitConfig = 2

// Config holds hailgen command configuration.
type Config struct {
	Output      string `env:"HAILGEN_OUTPUT"`
	Seed        int64  `env:"HAILGEN_SEED"`
	Count       int    `env:"HAILGEN_COUNT"        envDefault:"300"`
	PositionMin int64  `env:"HAILGEN_POSITION_MIN" envDefault:"100000000000"`
	PositionMax int64  `env:"HAILGEN_POSITION_MAX" envDefault:"400000000000"`
	ThrowSpeed  int64  `env:"HAILGEN_THROW_SPEED"  envDefault:"300"`
	HailSpeed   int64  `env:"HAILGEN_HAIL_SPEED"   envDefault:"400"`
	TimeMin     int64  `env:"HAILGEN_TIME_MIN"     envDefault:"1000000000"`
	TimeMax     int64  `env:"HAILGEN_TIME_MAX"     envDefault:"1000000000000"`
	LogLevel    string `env:"HAILGEN_LOG_LEVEL"    envDefault:"info"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.Output, "out", cfg.Output, "output file (default: stdout)")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed (0 = random)")
	fs.IntVar(&cfg.Count, "count", cfg.Count, "number of hailstones")
	fs.Int64Var(&cfg.PositionMin, "pos-min", cfg.PositionMin, "lower bound of throw position components")
	fs.Int64Var(&cfg.PositionMax, "pos-max", cfg.PositionMax, "upper bound of throw position components")
	fs.Int64Var(&cfg.ThrowSpeed, "throw-speed", cfg.ThrowSpeed, "largest |component| of the throw velocity")
	fs.Int64Var(&cfg.HailSpeed, "hail-speed", cfg.HailSpeed, "largest |component| of hailstone velocities")
	fs.Int64Var(&cfg.TimeMin, "time-min", cfg.TimeMin, "earliest crash time")
	fs.Int64Var(&cfg.TimeMax, "time-max", cfg.TimeMax, "latest crash time")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if err := cfg.scenario(cfg.Seed).Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) scenario(seed int64) synth.Config {
	return synth.Config{
		Seed:        seed,
		Count:       c.Count,
		PositionMin: c.PositionMin,
		PositionMax: c.PositionMax,
		ThrowSpeed:  c.ThrowSpeed,
		HailSpeed:   c.HailSpeed,
		TimeMin:     c.TimeMin,
		TimeMax:     c.TimeMax,
	}
}

// Run generates a scenario and writes its hailstones to cfg.Output, or to
// out when Output is empty or "-". The seed and throw are logged to errOut.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	logger, err := logging.New(errOut, cfg.LogLevel)
	if err != nil {
		return config.WithExitCode(err, ExitConfig)
	}
	defer func() { _ = logger.Sync() }()

	options := entrypoint.RunOptions{TelemetryOut: errOut, Logger: logger}
	return entrypoint.RunWithTelemetryAndOptions(ctx, entrypoint.ServiceHailgen, options, func(context.Context) error {
		seed, err := random.Resolve(cfg.Seed)
		if err != nil {
			return err
		}
		scenario, err := synth.Generate(cfg.scenario(seed))
		if err != nil {
			return config.WithExitCode(fmt.Errorf("generate scenario: %w", err), ExitConfig)
		}
		if err := write(cfg.Output, out, scenario); err != nil {
			return err
		}
		throw := scenario.Throw
		logger.Info("scenario generated",
			zap.Int64("seed", seed),
			zap.Int("count", len(scenario.Hailstones)),
			zap.Stringer("throw", throw),
			zap.Int64("sum", throw.Position.X+throw.Position.Y+throw.Position.Z))
		return nil
	})
}

func write(path string, out io.Writer, scenario synth.Scenario) error {
	if path == "" || path == "-" {
		return scenario.Write(out)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := scenario.Write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write output: %w", err)
	}
	return f.Close()
}
