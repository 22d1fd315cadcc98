// internal/config/validate.go
package config

import (
	"fmt"
	"strconv"
)

// maxBrightness mirrors tm1637.MaxBrightness. The driver itself accepts any
// level; the demo configuration does not.
const maxBrightness = 7

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	d := cfg.Display

	switch d.Backend {
	case BackendRPIO, BackendPeriph:
		if d.CLK == "" || d.DIO == "" {
			return fmt.Errorf("display: backend %q needs both clk and dio", d.Backend)
		}
		if d.CLK == d.DIO {
			return fmt.Errorf("display: clk and dio are both %q", d.CLK)
		}
	case BackendSim:
	case "":
		return fmt.Errorf("display: backend is required")
	default:
		return fmt.Errorf("display: unknown backend %q", d.Backend)
	}

	// rpio addresses pins by BCM number
	if d.Backend == BackendRPIO {
		for _, p := range []struct{ key, val string }{{"clk", d.CLK}, {"dio", d.DIO}} {
			n, err := strconv.Atoi(p.val)
			if err != nil || n < 0 {
				return fmt.Errorf("display: %s must be a BCM pin number for rpio, got %q", p.key, p.val)
			}
		}
	}

	if d.DelayUs < 0 {
		return fmt.Errorf("display: delay_us must not be negative")
	}
	if d.Brightness != nil && (*d.Brightness < 0 || *d.Brightness > maxBrightness) {
		return fmt.Errorf("display: brightness must be 0..%d, got %d", maxBrightness, *d.Brightness)
	}

	if cfg.Demo.FrameMs < 0 {
		return fmt.Errorf("demo: frame_ms must not be negative")
	}
	if cfg.Demo.Cycles < 0 {
		return fmt.Errorf("demo: cycles must not be negative")
	}

	return nil
}
