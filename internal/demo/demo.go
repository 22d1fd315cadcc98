// Package demo runs the "running digits" animation: hexadecimal digits that
// shift one position per cycle while the colon blinks.
package demo

import (
	"context"
	"log"
	"time"
)

// Display is the part of *tm1637.Dev the animation needs.
type Display interface {
	DisplayDigit(position, digit byte) error
	DisplayColon(on bool) error
}

// Options controls the animation.
type Options struct {
	// Positions is the number of digit positions (default 4).
	Positions int
	// Frame is how long the colon stays on, then off.
	Frame time.Duration
	// Cycles stops the animation after that many cycles. 0 runs until ctx
	// is done.
	Cycles int
}

// Run animates d until ctx is done or opts.Cycles cycles have run. It
// returns the number of completed cycles. Write errors are logged and the
// animation carries on.
//
// The colon is drawn over the digit at its position, so that digit flashes
// with the colon.
func Run(ctx context.Context, d Display, opts Options) int {
	positions := opts.Positions
	if positions <= 0 {
		positions = 4
	}

	var k int
	for opts.Cycles == 0 || k < opts.Cycles {
		for n := 0; n < positions; n++ {
			report(d.DisplayDigit(byte(n), byte((k+n)%0x10)))
		}

		report(d.DisplayColon(true))
		if !wait(ctx, opts.Frame) {
			return k
		}
		report(d.DisplayColon(false))
		if !wait(ctx, opts.Frame) {
			return k
		}
		k++
	}
	return k
}

func report(err error) {
	if err != nil {
		log.Printf("display write: %v", err)
	}
}

// wait sleeps for d and reports whether ctx is still live.
func wait(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
