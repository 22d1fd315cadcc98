//go:build tinygo

// Package tinygopin binds tm1637.Pin to a TinyGo machine.Pin for
// microcontroller targets.
package tinygopin

import (
	"machine"

	"github.com/rpi-tm1637/tm1637"
)

// Pin adapts a machine.Pin. The requested level is kept while the line is an
// input and applied when it becomes an output.
type Pin struct {
	p      machine.Pin
	level  bool
	output bool
}

var _ tm1637.Pin = (*Pin)(nil)

// New wraps p.
func New(p machine.Pin) *Pin {
	return &Pin{p: p, level: true}
}

func (p *Pin) Output() {
	p.output = true
	p.p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	p.p.Set(p.level)
}

func (p *Pin) Input() {
	p.output = false
	p.p.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
}

func (p *Pin) High() {
	p.level = true
	if p.output {
		p.p.High()
	}
}

func (p *Pin) Low() {
	p.level = false
	if p.output {
		p.p.Low()
	}
}

func (p *Pin) Read() bool {
	return p.p.Get()
}
