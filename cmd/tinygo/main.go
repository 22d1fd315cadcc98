//go:build tinygo && rp2040

// Command tinygo runs the running-digits demo on a TM1637 wired straight to
// an RP2040 board.
package main

import (
	"context"
	"machine"
	"time"

	"github.com/rpi-tm1637/tm1637"
	"github.com/rpi-tm1637/tm1637/internal/demo"
	"github.com/rpi-tm1637/tm1637/tinygopin"
)

const (
	clkPin = machine.GPIO4
	dioPin = machine.GPIO5
)

func main() {
	display := tm1637.New(tinygopin.New(clkPin), tinygopin.New(dioPin), nil)
	if err := display.Init(true, 5); err != nil {
		println("init:", err.Error())
	}

	demo.Run(context.Background(), display, demo.Options{
		Positions: tm1637.NumDigits,
		Frame:     200 * time.Millisecond,
	})
}
