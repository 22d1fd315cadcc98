// Package rpiopin binds tm1637.Pin to Raspberry Pi GPIO through go-rpio's
// memory-mapped registers.
//
// Open must succeed before any Pin is used, and usually needs root or
// membership of the gpio group.
package rpiopin

import (
	"fmt"

	"github.com/stianeikeland/go-rpio/v4"

	"github.com/rpi-tm1637/tm1637"
)

// Pin is a BCM GPIO number.
type Pin rpio.Pin

var _ tm1637.Pin = Pin(0)

// Open maps the GPIO registers.
func Open() error {
	if err := rpio.Open(); err != nil {
		return fmt.Errorf("failed to open rpio: %w", err)
	}
	return nil
}

// Close unmaps the GPIO registers. Call it once, after every device using
// rpio is done.
func Close() error {
	return rpio.Close()
}

func (p Pin) Output() { rpio.Pin(p).Output() }

// Input switches the pin to input with the pull-up enabled.
func (p Pin) Input() {
	rpio.Pin(p).Input()
	rpio.Pin(p).PullUp()
}

func (p Pin) High() { rpio.Pin(p).High() }

func (p Pin) Low() { rpio.Pin(p).Low() }

func (p Pin) Read() bool { return rpio.Pin(p).Read() == rpio.High }
