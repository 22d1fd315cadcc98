// Package tm1637sim simulates the two TM1637 bus lines, the delay primitive and
// the controller on the far end, so the driver can be exercised on a host
// without real-time waits.
//
// Every pin call is logged with the virtual time at which it happened. Time
// only advances through Bus.Sleep. The bus decodes start/stop conditions and
// bytes as a real controller would, and applies the decoded commands to a
// register model readable through Bus.Chip.
package tm1637sim

import (
	"fmt"
	"time"
)

// Op is a pin operation.
type Op int

const (
	OpOutput Op = iota
	OpInput
	OpHigh
	OpLow
	OpRead
)

func (o Op) String() string {
	switch o {
	case OpOutput:
		return "Output"
	case OpInput:
		return "Input"
	case OpHigh:
		return "High"
	case OpLow:
		return "Low"
	case OpRead:
		return "Read"
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// Event is one logged pin call. Clock and Data are the electrical levels of
// both lines right after the call.
type Event struct {
	At    time.Duration
	Line  string
	Op    Op
	Clock bool
	Data  bool
}

// Frame is one transaction seen on the bus, from start to stop condition.
type Frame struct {
	Start time.Duration
	End   time.Duration
	Bytes []byte
	// Acked holds, per byte, whether DIO was low on the ninth clock.
	Acked []bool
	// Partial is set when the stop condition arrived with more than the
	// single setup clock of a stop pending.
	Partial bool
}

// Chip is the register state of the simulated controller.
type Chip struct {
	Grid          [6]byte
	Addr          byte
	AutoIncrement bool
	TestMode      bool
	Enabled       bool
	Brightness    byte
}

// Line is a simulated GPIO line. It implements tm1637.Pin.
type Line struct {
	bus    *Bus
	name   string
	output bool
	driven bool
}

// Bus holds the CLK and DIO lines and the simulated controller.
type Bus struct {
	Clock *Line
	Data  *Line

	now     time.Duration
	ack     bool
	events  []Event
	frames  []Frame
	chip    Chip
	orphans int

	// Decoder state.
	clkLevel bool
	dioLevel bool
	inFrame  bool
	frame    Frame
	bits     int
	cur      byte
	acking   bool
}

// NewBus returns a bus with both lines as inputs, pulled high, and a
// controller that acknowledges every byte.
func NewBus() *Bus {
	b := &Bus{
		ack:      true,
		clkLevel: true,
		dioLevel: true,
		chip:     Chip{AutoIncrement: true},
	}
	b.Clock = &Line{bus: b, name: "CLK"}
	b.Data = &Line{bus: b, name: "DIO"}
	return b
}

// Sleep advances the virtual clock. It matches the tm1637.Opts Sleep hook.
func (b *Bus) Sleep(d time.Duration) {
	b.now += d
}

// Now returns the virtual time.
func (b *Bus) Now() time.Duration {
	return b.now
}

// SetAck sets whether the controller acknowledges bytes. With false the
// controller never pulls DIO low, as when nothing is connected.
func (b *Bus) SetAck(ack bool) {
	b.ack = ack
}

// Events returns every pin call logged so far.
func (b *Bus) Events() []Event {
	return append([]Event(nil), b.events...)
}

// Frames returns every completed transaction.
func (b *Bus) Frames() []Frame {
	return append([]Frame(nil), b.frames...)
}

// Chip returns the controller register state.
func (b *Bus) Chip() Chip {
	return b.chip
}

// Orphans counts clock rising edges seen outside a transaction.
func (b *Bus) Orphans() int {
	return b.orphans
}

// ResetLog drops logged events, frames and orphan counts. Line levels and
// the controller state are kept.
func (b *Bus) ResetLog() {
	b.events = nil
	b.frames = nil
	b.orphans = 0
}

// MinEdgeGap returns the shortest virtual time between two consecutive pin
// state changes (reads excluded). ok is false with fewer than two changes.
func (b *Bus) MinEdgeGap() (gap time.Duration, ok bool) {
	var prev time.Duration
	seen := false
	for _, e := range b.events {
		if e.Op == OpRead {
			continue
		}
		if seen {
			if d := e.At - prev; !ok || d < gap {
				gap = d
				ok = true
			}
		}
		prev = e.At
		seen = true
	}
	return gap, ok
}

func (l *Line) Output() {
	l.output = true
	l.bus.update(l, OpOutput)
}

func (l *Line) Input() {
	l.output = false
	l.bus.update(l, OpInput)
}

func (l *Line) High() {
	l.driven = true
	l.bus.update(l, OpHigh)
}

func (l *Line) Low() {
	l.driven = false
	l.bus.update(l, OpLow)
}

func (l *Line) Read() bool {
	b := l.bus
	b.log(l, OpRead)
	return b.level(l)
}

func (l *Line) String() string {
	return l.name
}

// level returns the electrical level of l: its driven level when an output,
// otherwise the pull-up unless the controller is acknowledging on DIO.
func (b *Bus) level(l *Line) bool {
	if l.output {
		return l.driven
	}
	if l == b.Data && b.acking && b.ack {
		return false
	}
	return true
}

func (b *Bus) log(l *Line, op Op) {
	b.events = append(b.events, Event{
		At:    b.now,
		Line:  l.name,
		Op:    op,
		Clock: b.level(b.Clock),
		Data:  b.level(b.Data),
	})
}

func (b *Bus) update(l *Line, op Op) {
	clk, dio := b.level(b.Clock), b.level(b.Data)
	switch {
	case clk != b.clkLevel:
		b.clkLevel = clk
		if clk {
			b.clockRise()
		} else {
			b.clockFall()
		}
		// The controller may have grabbed or released DIO.
		b.dioLevel = b.level(b.Data)
	case dio != b.dioLevel:
		b.dioLevel = dio
		if b.clkLevel {
			if dio {
				b.stopCondition()
			} else {
				b.startCondition()
			}
		}
	}
	b.log(l, op)
}

func (b *Bus) startCondition() {
	b.inFrame = true
	b.frame = Frame{Start: b.now}
	b.bits = 0
	b.cur = 0
	b.acking = false
}

func (b *Bus) stopCondition() {
	if !b.inFrame {
		return
	}
	b.frame.End = b.now
	// The clock rise that sets up a stop always samples one bit.
	b.frame.Partial = b.bits > 1
	b.frames = append(b.frames, b.frame)
	b.apply(b.frame)
	b.inFrame = false
	b.acking = false
}

func (b *Bus) clockRise() {
	if !b.inFrame {
		b.orphans++
		return
	}
	switch {
	case b.bits < 8:
		if b.dioLevel {
			b.cur |= 1 << b.bits
		}
		b.bits++
		if b.bits == 8 {
			b.frame.Bytes = append(b.frame.Bytes, b.cur)
		}
	case b.bits == 8:
		b.frame.Acked = append(b.frame.Acked, !b.dioLevel)
		b.bits++
	}
}

func (b *Bus) clockFall() {
	if !b.inFrame {
		return
	}
	switch b.bits {
	case 8:
		b.acking = true
	case 9:
		b.acking = false
		b.bits = 0
		b.cur = 0
	}
}

// apply executes a decoded transaction against the register model.
func (b *Bus) apply(f Frame) {
	if len(f.Bytes) == 0 {
		return
	}
	c := &b.chip
	cmd := f.Bytes[0]
	switch cmd & 0xC0 {
	case 0x40:
		c.AutoIncrement = cmd&0x04 == 0
		c.TestMode = cmd&0x10 != 0
	case 0xC0:
		c.Addr = cmd & 0x0F
		for _, v := range f.Bytes[1:] {
			if int(c.Addr) < len(c.Grid) {
				c.Grid[c.Addr] = v
			}
			if c.AutoIncrement {
				c.Addr++
			}
		}
	case 0x80:
		c.Enabled = cmd&0x08 != 0
		c.Brightness = cmd & 0x07
	}
}
