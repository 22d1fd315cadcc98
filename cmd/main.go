// Command main runs the running-digits demo on a TM1637 display attached to
// a Raspberry Pi (go-rpio or periph.io), or on a simulated bus.
//
// Usage:
//
//	main [-config tm1637.yaml]
//
// Without -config the simulated backend is used and the final controller
// state is logged.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rpi-tm1637/tm1637"
	"github.com/rpi-tm1637/tm1637/internal/config"
	"github.com/rpi-tm1637/tm1637/internal/demo"
	"github.com/rpi-tm1637/tm1637/periphpin"
	"github.com/rpi-tm1637/tm1637/rpiopin"
	"github.com/rpi-tm1637/tm1637/tm1637sim"
)

var configPath = flag.String("config", "", "YAML configuration file (default: simulated display)")

// lines is an opened CLK/DIO pair.
type lines struct {
	clk, dio tm1637.Pin
	sleep    func(time.Duration) // nil => time.Sleep
	close    func() error
	check    func() error // reports adapter-level pin errors
	bus      *tm1637sim.Bus
}

func openLines(cfg config.DisplayConfig) (*lines, error) {
	switch cfg.Backend {
	case config.BackendRPIO:
		if err := rpiopin.Open(); err != nil {
			return nil, err
		}
		// Validate has already checked both are numbers.
		clk, _ := strconv.Atoi(cfg.CLK)
		dio, _ := strconv.Atoi(cfg.DIO)
		return &lines{
			clk:   rpiopin.Pin(clk),
			dio:   rpiopin.Pin(dio),
			close: rpiopin.Close,
			check: func() error { return nil },
		}, nil

	case config.BackendPeriph:
		clk, err := periphpin.ByName(cfg.CLK)
		if err != nil {
			return nil, err
		}
		dio, err := periphpin.ByName(cfg.DIO)
		if err != nil {
			return nil, err
		}
		return &lines{
			clk:   clk,
			dio:   dio,
			close: func() error { return nil },
			check: func() error {
				if err := clk.Err(); err != nil {
					return err
				}
				return dio.Err()
			},
		}, nil

	case config.BackendSim:
		bus := tm1637sim.NewBus()
		return &lines{
			clk:   bus.Clock,
			dio:   bus.Data,
			sleep: bus.Sleep,
			close: func() error { return nil },
			check: func() error { return nil },
			bus:   bus,
		}, nil
	}
	return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}

func main() {
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatalf("config load failed: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, openLines); err != nil {
		stop()
		log.Fatal(err)
	}
}

// run drives the demo on the lines returned by open. The lines are released
// on every return path.
func run(ctx context.Context, cfg *config.Config, open func(config.DisplayConfig) (*lines, error)) error {
	log.Printf("Initializing TM1637 display (backend=%s, clk=%s, dio=%s)...",
		cfg.Display.Backend, cfg.Display.CLK, cfg.Display.DIO)

	l, err := open(cfg.Display)
	if err != nil {
		return fmt.Errorf("failed to open GPIO lines (root or gpio group needed): %w", err)
	}
	defer func() {
		if err := l.close(); err != nil {
			log.Printf("Error releasing GPIO: %v", err)
		}
	}()

	display := tm1637.New(l.clk, l.dio, &tm1637.Opts{
		Delay: cfg.Display.Delay(),
		Sleep: l.sleep,
	})

	// A missing ACK usually means nothing is wired up; keep going anyway.
	if err := display.Init(*cfg.Display.Enabled, byte(*cfg.Display.Brightness)); err != nil {
		log.Printf("Init: %v", err)
	}
	if err := l.check(); err != nil {
		return fmt.Errorf("GPIO error during init: %w", err)
	}
	log.Printf("Display initialized: %v", display)

	n := demo.Run(ctx, display, demo.Options{
		Positions: tm1637.NumDigits,
		Frame:     cfg.Demo.Frame(),
		Cycles:    cfg.Demo.Cycles,
	})
	log.Printf("Demo ran %d cycles.", n)

	log.Println("Clearing display...")
	if err := display.Clear(); err != nil {
		log.Printf("Error clearing display: %v", err)
	}
	if err := display.Close(); err != nil {
		log.Printf("Error closing display: %v", err)
	}
	if err := l.check(); err != nil {
		log.Printf("GPIO error: %v", err)
	}

	if l.bus != nil {
		chip := l.bus.Chip()
		log.Printf("Simulated controller: grid=% x enabled=%v brightness=%d frames=%d elapsed=%v",
			chip.Grid[:tm1637.NumDigits], chip.Enabled, chip.Brightness, len(l.bus.Frames()), l.bus.Now())
	}
	log.Println("TM1637 demo finished.")
	return nil
}
