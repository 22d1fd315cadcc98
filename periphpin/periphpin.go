// Package periphpin binds tm1637.Pin to a periph.io gpio.PinIO.
//
// periph folds direction and level into a single Out call, so the adapter
// remembers the requested level and applies it when the line becomes an
// output.
package periphpin

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/rpi-tm1637/tm1637"
)

// Pin adapts a gpio.PinIO.
type Pin struct {
	p      gpio.PinIO
	level  gpio.Level
	output bool
	err    error
}

var _ tm1637.Pin = (*Pin)(nil)

// New wraps p. The line is treated as an input until Output is called.
func New(p gpio.PinIO) *Pin {
	return &Pin{p: p, level: gpio.High}
}

// ByName initializes the periph host drivers and looks up a pin such as
// "GPIO23".
func ByName(name string) (*Pin, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph.io: %w", err)
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("GPIO pin %s not found", name)
	}
	return New(p), nil
}

func (p *Pin) Output() {
	p.output = true
	p.out()
}

// Input releases the line with the pull-up enabled.
func (p *Pin) Input() {
	p.output = false
	p.check(p.p.In(gpio.PullUp, gpio.NoEdge))
}

func (p *Pin) High() {
	p.level = gpio.High
	if p.output {
		p.out()
	}
}

func (p *Pin) Low() {
	p.level = gpio.Low
	if p.output {
		p.out()
	}
}

func (p *Pin) Read() bool {
	return p.p.Read() == gpio.High
}

// Err returns the first error reported by the underlying pin, if any. The
// tm1637.Pin methods cannot return errors.
func (p *Pin) Err() error {
	return p.err
}

func (p *Pin) String() string {
	return p.p.Name()
}

func (p *Pin) out() {
	p.check(p.p.Out(p.level))
}

func (p *Pin) check(err error) {
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("periphpin: %s: %w", p.p.Name(), err)
	}
}
