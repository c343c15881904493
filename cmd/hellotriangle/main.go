// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Command hellotriangle opens a window and draws an animated full-screen
// triangle with WebGPU.
//
// Settings come from defaults, then an optional TOML file (-config), then
// the environment (GOGPU_GRAPHICS_API, HELLOTRIANGLE_LOG_LEVEL), then flags.
// The exit code is 0 when the window is closed, 1 on a fatal error and 2
// for invalid arguments or config.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gogpu/hellotriangle"
	"github.com/gogpu/hellotriangle/frameloop"
	"github.com/gogpu/hellotriangle/gpu"
	"github.com/gogpu/hellotriangle/gpucore"
	_ "github.com/gogpu/hellotriangle/internal/wgpuadapter"
	"github.com/gogpu/hellotriangle/platform"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	cfg        hellotriangle.Config
	debug      bool
	dumpConfig bool
	gpuInfo    bool
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	if opts.dumpConfig {
		data, err := opts.cfg.Encode()
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		_, _ = stdout.Write(data)
		return 0
	}

	level, _ := hellotriangle.ParseLogLevel(opts.cfg.LogLevel)
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	hellotriangle.SetLogger(logger)

	if opts.gpuInfo {
		if err := printGPUInfo(opts, stdout); err != nil {
			logger.Error("hellotriangle: fatal", "err", err)
			return 1
		}
		return 0
	}

	if err := app(opts); err != nil {
		logger.Error("hellotriangle: fatal", "err", err)
		return 1
	}
	return 0
}

func parseArgs(args []string, stderr io.Writer) (options, error) {
	def := hellotriangle.DefaultConfig()
	fs := flag.NewFlagSet("hellotriangle", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		configPath = fs.String("config", "", "TOML config file")
		title      = fs.String("title", def.Title, "window title")
		width      = fs.Int("width", def.Width, "window width")
		height     = fs.Int("height", def.Height, "window height")
		backend    = fs.String("backend", def.Backend, "graphics backends: "+strings.Join(gpu.BackendNames(), ", "))
		power      = fs.String("power", def.PowerPreference, "adapter power preference: high-performance, low-power, none")
		fallback   = fs.Bool("fallback", def.ForceFallback, "use the software adapter")
		eventMode  = fs.String("event-mode", string(def.EventMode), "event loop mode: poll or wait")
		logLevel   = fs.String("log-level", def.LogLevel, "log level: debug, info, warn, error")
		stats      = fs.Duration("stats-interval", time.Duration(def.StatsInterval), "frame statistics interval at debug level, 0 disables")
		debug      = fs.Bool("debug", false, "enable backend validation layers for -gpu-info")
		dump       = fs.Bool("dump-config", false, "print the effective config as TOML and exit")
		info       = fs.Bool("gpu-info", false, "open the GPU without a window, print the selected adapter and exit")
	)
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	cfg := def
	if *configPath != "" {
		var err error
		if cfg, err = hellotriangle.LoadConfig(*configPath); err != nil {
			return options{}, err
		}
	}
	cfg = cfg.ApplyEnv()

	// Flags given on the command line win over file and environment.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "title":
			cfg = cfg.WithTitle(*title)
		case "width":
			cfg.Width = *width
		case "height":
			cfg.Height = *height
		case "backend":
			cfg = cfg.WithBackend(*backend)
		case "power":
			cfg.PowerPreference = *power
		case "fallback":
			cfg.ForceFallback = *fallback
		case "event-mode":
			cfg = cfg.WithEventMode(hellotriangle.EventMode(*eventMode))
		case "log-level":
			cfg.LogLevel = *logLevel
		case "stats-interval":
			cfg.StatsInterval = hellotriangle.Duration(*stats)
		}
	})

	if err := cfg.Validate(); err != nil {
		return options{}, err
	}
	return options{cfg: cfg, debug: *debug, dumpConfig: *dump, gpuInfo: *info}, nil
}

func gpuOptions(cfg hellotriangle.Config) ([]gpu.Option, error) {
	power, err := gpu.ParsePowerPreference(cfg.PowerPreference)
	if err != nil {
		return nil, err
	}
	return []gpu.Option{
		gpu.WithPowerPreference(power),
		gpu.WithForceFallback(cfg.ForceFallback),
	}, nil
}

// printGPUInfo selects an adapter the way the window would, without opening
// one.
func printGPUInfo(opts options, stdout io.Writer) error {
	backends, err := gpu.ParseBackends(opts.cfg.Backend)
	if err != nil {
		return err
	}
	gopts, err := gpuOptions(opts.cfg)
	if err != nil {
		return err
	}
	inst, err := gpucore.OpenDefault(gpucore.InstanceOptions{Backends: backends, Debug: opts.debug})
	if err != nil {
		return err
	}
	gctx, err := gpu.New(inst, gopts...)
	if err != nil {
		inst.Release()
		return err
	}
	defer gctx.Close()

	info := gctx.Info()
	fmt.Fprintln(stdout, info.String())
	if info.Driver != "" {
		fmt.Fprintf(stdout, "driver: %s (%s)\n", info.Driver, info.Vendor)
	}
	return nil
}

// session is a frame loop together with the GPU context it renders with.
type session struct {
	*frameloop.Loop
	gctx *gpu.Context
}

func (s session) Close() {
	st := s.Stats()
	hellotriangle.Logger().Info("hellotriangle: closed",
		"presented", st.FramesPresented, "skipped", st.FramesSkipped)
	s.gctx.Close()
}

func app(opts options) error {
	cfg := opts.cfg
	backends, err := gpu.ParseBackends(cfg.Backend)
	if err != nil {
		return err
	}
	power, err := gpu.ParsePowerPreference(cfg.PowerPreference)
	if err != nil {
		return err
	}
	gopts, err := gpuOptions(cfg)
	if err != nil {
		return err
	}

	host := platform.NewHost(platform.Options{
		Title:         cfg.Title,
		Width:         cfg.Width,
		Height:        cfg.Height,
		Mode:          cfg.EventMode,
		Backends:      backends,
		Power:         power,
		ForceFallback: cfg.ForceFallback,
	})

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case s := <-sig:
			hellotriangle.Logger().Info("hellotriangle: signal received, closing", "signal", s)
			host.RequestClose()
		case <-done:
		}
	}()

	return host.Run(func(inst gpucore.Instance) (platform.Session, error) {
		gctx, err := gpu.New(inst, gopts...)
		if err != nil {
			return nil, err
		}
		loop := frameloop.New(gctx, frameloop.WithStatsInterval(time.Duration(cfg.StatsInterval)))
		return session{Loop: loop, gctx: gctx}, nil
	})
}
