// Package cli is the command line front end of eglrender.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fosdem/eglrender/lib/config"
	"github.com/fosdem/eglrender/lib/gpu"
	"github.com/fosdem/eglrender/lib/log"
	"github.com/fosdem/eglrender/lib/metrics"
	"github.com/fosdem/eglrender/lib/offscreen"
	"github.com/pkg/profile"
	"golang.org/x/sys/unix"
)

// Main runs eglrender with args (without the program name) and returns
// the process exit code.
func Main(args []string, stdout io.Writer, stderr io.Writer) int {
	flags := flag.NewFlagSet("eglrender", flag.ContinueOnError)
	flags.SetOutput(stderr)
	configPath := flags.String("config", "", "YAML config file")
	backend := flags.String("backend", "", fmt.Sprintf("render backend, one of %v", gpu.Available()))
	output := flags.String("output", "", "output PPM file")
	iterations := flags.Int("iterations", 0, "number of render calls")
	verbose := flags.Bool("v", false, "log at debug level")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}
	if flags.NArg() > 0 {
		fmt.Fprintf(stderr, "unexpected arguments: %v\n", flags.Args())
		return 1
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Parse(*configPath)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
	}

	flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "backend":
			cfg.Backend = *backend
		case "output":
			cfg.Output = config.CfgPath(*output)
		case "iterations":
			cfg.Iterations = *iterations
		case "v":
			if *verbose {
				cfg.LogLevel = "debug"
			}
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "invalid configuration: %s\n", err)
		return 1
	}

	if err := log.Setup(stderr, isTerminal(stderr), cfg.LogLevel); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	if cfg.Profile != "" {
		defer profile.Start(profileOptions(cfg)...).Stop()
	}

	code := run(cfg, stdout, stderr)

	if cfg.MetricsTextfile != "" {
		if err := metrics.WriteTextfile(string(cfg.MetricsTextfile)); err != nil {
			slog.Warn("could not write metrics", "module", "cli", "path", cfg.MetricsTextfile, "err", err)
		}
	}
	return code
}

func run(cfg *config.Config, stdout io.Writer, stderr io.Writer) int {
	drv, err := gpu.Get(cfg.Backend)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	slog.Debug("starting", "module", "cli", "backend", drv.Name(), "config", cfg.String())
	if err := offscreen.Run(drv, cfg, stdout); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func profileOptions(cfg *config.Config) []func(*profile.Profile) {
	opts := []func(*profile.Profile){profile.NoShutdownHook, profile.Quiet}
	switch cfg.Profile {
	case "cpu":
		opts = append(opts, profile.CPUProfile)
	case "mem":
		opts = append(opts, profile.MemProfile)
	}
	if cfg.ProfileDir != "" {
		opts = append(opts, profile.ProfilePath(string(cfg.ProfileDir)))
	}
	return opts
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	_, err := unix.IoctlGetTermios(int(f.Fd()), unix.TCGETS)
	return err == nil
}
