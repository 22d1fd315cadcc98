// internal/config/normalize.go
package config

import "time"

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	d := &cfg.Display
	if d.DelayUs == 0 {
		d.DelayUs = DefaultDelayUs
	}
	if d.Brightness == nil {
		b := DefaultBrightness
		d.Brightness = &b
	}
	if d.Enabled == nil {
		on := true
		d.Enabled = &on
	}

	if cfg.Demo.FrameMs == 0 {
		cfg.Demo.FrameMs = DefaultFrameMs
	}
}

// Delay returns the per-edge delay. Valid only after Normalize.
func (d DisplayConfig) Delay() time.Duration {
	return time.Duration(d.DelayUs) * time.Microsecond
}

// Frame returns the demo frame period. Valid only after Normalize.
func (d DemoConfig) Frame() time.Duration {
	return time.Duration(d.FrameMs) * time.Millisecond
}
