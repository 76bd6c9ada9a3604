// cmd/sequencer/run.go
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tamzrod/valve-sequencer/internal/config"
	"github.com/tamzrod/valve-sequencer/internal/diag"
	"github.com/tamzrod/valve-sequencer/internal/gpio"
	_ "github.com/tamzrod/valve-sequencer/internal/gpio/chardev"
	_ "github.com/tamzrod/valve-sequencer/internal/gpio/rpio"
	"github.com/tamzrod/valve-sequencer/internal/machine"
	"github.com/tamzrod/valve-sequencer/internal/mirror"
	"github.com/tamzrod/valve-sequencer/internal/output"
	"github.com/tamzrod/valve-sequencer/internal/pinmap"
	"github.com/tamzrod/valve-sequencer/internal/table"
)

func runSequencer(cmd *cobra.Command, args []string) error {
	return run(configPath, cmd.OutOrStdout(), waitForSignal)
}

// run builds the controller from the config at path and blocks until wait
// returns. Every resource opened before a failure is closed on return.
func run(path string, stdout io.Writer, wait func()) error {
	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	config.Normalize(cfg)
	s := cfg.Sequencer

	// --------------------
	// Diagnostic sink
	// --------------------

	level, err := zerolog.ParseLevel(s.Diag.Level)
	if err != nil {
		return fmt.Errorf("diag: %w", err)
	}

	out := stdout
	if s.Diag.Output == "serial" {
		port, err := diag.OpenSerial(s.Diag.SerialPort, s.Diag.Baud)
		if err != nil {
			return err
		}
		defer port.Close()
		out = port
	}

	sink := diag.New(out, level)
	root := sink.Root().With().Str(diag.LogKey.Device, s.DeviceName).Logger()
	logger := root.With().Str(diag.LogKey.Module, "main").Logger()
	sink.Banner(Version, s.DeviceName)

	// --------------------
	// Hardware + machine
	// --------------------

	lines, err := gpio.Open(s.GPIO.Backend, s.GPIO.Chip)
	if err != nil {
		return err
	}
	defer lines.Close()

	pins, err := pinmap.Build(s.Pins)
	if err != nil {
		return err
	}

	tbl, err := table.New()
	if err != nil {
		return err
	}

	policy, err := machine.ParsePolicy(s.Unmatched)
	if err != nil {
		return err
	}

	drv := output.New(pins, lines, root)

	m, err := machine.New(machine.Config{
		PollInterval: ms(s.Timing.PollIntervalMs),
		Bounce:       ms(s.Timing.BounceMs),
		DiluteSettle: ms(s.Timing.DiluteSettleMs),
		Unmatched:    policy,
	}, pins, tbl, lines, drv, sink)
	if err != nil {
		return err
	}

	if err := m.Start(time.Now()); err != nil {
		return err
	}

	// --------------------
	// Control loop + optional mirror
	// --------------------

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wg := &sync.WaitGroup{}

	var snaps chan machine.Snapshot
	if mc := s.Mirror; mc != nil {
		cli, err := mirror.NewEndpointClient(mirror.ClientConfig{
			Endpoint: mc.Endpoint,
			Timeout:  ms(mc.TimeoutMs),
		})
		if err != nil {
			return err
		}
		defer cli.Close()

		w, err := mirror.NewWriter(mirror.Plan{
			UnitID:     mc.UnitID,
			BaseSlot:   mc.BaseSlot,
			DeviceName: s.DeviceName,
		}, cli)
		if err != nil {
			return err
		}

		snaps = make(chan machine.Snapshot, 16)
		mlog := root.With().Str(diag.LogKey.Module, "mirror").Str("endpoint", mc.Endpoint).Logger()

		wg.Add(1)
		go func() {
			defer wg.Done()
			mirror.Pump(ctx, snaps, w, mlog)
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		m.Run(ctx, snaps)
	}()

	logger.Info().
		Str("backend", s.GPIO.Backend).
		Stringer("unmatched", policy).
		Bool("mirror", s.Mirror != nil).
		Msg("control loop running")

	wait()
	cancel()
	wg.Wait()

	logger.Info().Msg("stopped")
	return nil
}

func waitForSignal() {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	<-signals
}

func ms(v int) time.Duration {
	return time.Duration(v) * time.Millisecond
}
