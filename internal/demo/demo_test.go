package demo

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rpi-tm1637/tm1637"
	"github.com/rpi-tm1637/tm1637/tm1637sim"
)

type call struct {
	op    string
	pos   byte
	digit byte
	on    bool
}

type recorder struct {
	calls []call
	err   error
}

func (r *recorder) DisplayDigit(position, digit byte) error {
	r.calls = append(r.calls, call{op: "digit", pos: position, digit: digit})
	return r.err
}

func (r *recorder) DisplayColon(on bool) error {
	r.calls = append(r.calls, call{op: "colon", on: on})
	return r.err
}

func TestRunSequence(t *testing.T) {
	r := &recorder{}
	n := Run(context.Background(), r, Options{Cycles: 2})
	if n != 2 {
		t.Fatalf("Run() = %d, want 2", n)
	}

	want := []call{
		{op: "digit", pos: 0, digit: 0},
		{op: "digit", pos: 1, digit: 1},
		{op: "digit", pos: 2, digit: 2},
		{op: "digit", pos: 3, digit: 3},
		{op: "colon", on: true},
		{op: "colon", on: false},
		{op: "digit", pos: 0, digit: 1},
		{op: "digit", pos: 1, digit: 2},
		{op: "digit", pos: 2, digit: 3},
		{op: "digit", pos: 3, digit: 4},
		{op: "colon", on: true},
		{op: "colon", on: false},
	}
	if fmt.Sprint(r.calls) != fmt.Sprint(want) {
		t.Errorf("calls = %v, want %v", r.calls, want)
	}
}

func TestRunWrapsHexDigits(t *testing.T) {
	r := &recorder{}
	Run(context.Background(), r, Options{Cycles: 14})

	// Cycle 13 shows d e f 0.
	var last []byte
	for _, c := range r.calls[len(r.calls)-6 : len(r.calls)-2] {
		last = append(last, c.digit)
	}
	if string(last) != string([]byte{0xd, 0xe, 0xf, 0x0}) {
		t.Errorf("last digits = % x, want 0d 0e 0f 00", last)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &recorder{}
	n := Run(ctx, r, Options{Frame: time.Hour})
	if n != 0 {
		t.Errorf("Run() = %d, want 0", n)
	}
	if len(r.calls) != 5 {
		t.Errorf("got %d calls, want one frame (5)", len(r.calls))
	}
}

func TestRunIgnoresWriteErrors(t *testing.T) {
	r := &recorder{err: errors.New("no ack")}
	if n := Run(context.Background(), r, Options{Cycles: 3}); n != 3 {
		t.Errorf("Run() = %d, want 3", n)
	}
}

func TestRunOnSimulatedDisplay(t *testing.T) {
	bus := tm1637sim.NewBus()
	dev := tm1637.New(bus.Clock, bus.Data, &tm1637.Opts{Sleep: bus.Sleep})
	if err := dev.Init(true, 5); err != nil {
		t.Fatal(err)
	}

	Run(context.Background(), dev, Options{Cycles: 3})

	// Last cycle: digits 2 3 4 5, colon off wiped position 1.
	grid := bus.Chip().Grid
	want := [4]byte{tm1637.Digits[2], 0x00, tm1637.Digits[4], tm1637.Digits[5]}
	for i := range want {
		if grid[i] != want[i] {
			t.Errorf("grid[%d] = %#02x, want %#02x", i, grid[i], want[i])
		}
	}
	if bus.Orphans() != 0 {
		t.Errorf("Orphans() = %d, want 0", bus.Orphans())
	}
}
