// Package tm1637 drives a TM1637 4-digit 7-segment LED controller over its
// two-wire clock/data interface.
//
// The TM1637 bus looks like I2C but is not: there is no device address, bytes
// are sent least-significant bit first and the controller acknowledges each
// byte by pulling DIO low during a ninth clock. The driver bit-bangs the bus
// through two Pin values and waits Opts.Delay after every pin-state change.
//
// A Dev is not safe for concurrent use. Nothing else may touch the CLK and
// DIO lines between a start and the matching stop condition.
package tm1637

import (
	"errors"
	"fmt"
	"time"
)

// TM1637 commands
const (
	cmdData    byte = 0x40 // Data command, OR with Data* flags
	cmdAddr    byte = 0xC0 // Address command, OR with a position
	cmdDisplay byte = 0x80 // Display control, OR with DisplayOn and brightness
)

// Data command flags.
const (
	DataWrite     byte = 0x00 // Write to the display registers
	DataRead      byte = 0x02 // Read key-scan data (not supported)
	DataAutoAddr  byte = 0x00 // Address increments after every byte
	DataFixedAddr byte = 0x04 // Address stays put
	DataTestMode  byte = 0x10
)

// Display control flags.
const (
	DisplayOff byte = 0x00
	DisplayOn  byte = 0x08
)

const (
	MaxBrightness     byte = 7
	DefaultBrightness byte = 5
	NumDigits         int  = 4

	// ColonPosition is the digit whose bit 7 drives the colon on common
	// 4-digit clock modules.
	ColonPosition byte = 1
	// ColonBit is the segment bit wired to the colon (or decimal point).
	ColonBit byte = 0x80

	// DefaultDelay is the hold time after each pin-state change.
	DefaultDelay = 5 * time.Microsecond
)

// ErrNoAck is reported when the controller did not pull DIO low during the
// acknowledgement clock of a byte.
var ErrNoAck = errors.New("tm1637: no acknowledge")

// Pin is a single GPIO line as seen by the driver.
//
// Input must release the line with its pull-up enabled so the controller can
// pull it low. High and Low set the driven level and may be called while the
// line is still an input; the level applies once Output is called.
type Pin interface {
	Output()
	Input()
	High()
	Low()
	Read() bool
}

// Opts is the configuration for a Dev. A nil *Opts uses the defaults.
type Opts struct {
	// Delay is waited after every pin-state change (default: DefaultDelay).
	Delay time.Duration
	// Sleep blocks for the given duration (default: time.Sleep). Tests
	// substitute a simulated clock.
	Sleep func(time.Duration)
}

// Dev is a TM1637 display.
type Dev struct {
	clk Pin
	dio Pin

	delay time.Duration
	sleep func(time.Duration)

	// Last state sent to the controller. The chip latches these too, but it
	// cannot be read back.
	enabled    bool
	brightness byte
	segments   [NumDigits]byte
}

// New returns a Dev for the given CLK and DIO lines. It does not touch the
// lines; call Init before anything else.
func New(clk, dio Pin, opts *Opts) *Dev {
	d := &Dev{
		clk:        clk,
		dio:        dio,
		delay:      DefaultDelay,
		sleep:      time.Sleep,
		brightness: DefaultBrightness,
	}
	if opts != nil {
		if opts.Delay > 0 {
			d.delay = opts.Delay
		}
		if opts.Sleep != nil {
			d.sleep = opts.Sleep
		}
	}
	return d
}

// Init puts both lines in the idle state (outputs, driven high) and sends
// the display control command.
//
// brightness is not clamped. Values above MaxBrightness spill into the
// on/off bit of the control byte.
func (d *Dev) Init(enable bool, brightness byte) error {
	// Level first, then direction, so neither line glitches low.
	d.clk.High()
	d.wait()
	d.clk.Output()
	d.wait()
	d.dio.High()
	d.wait()
	d.dio.Output()
	d.wait()

	d.enabled = enable
	d.brightness = brightness
	return d.sendDisplayControl()
}

// Enable turns the display on or off. Segment memory is kept while off.
func (d *Dev) Enable(on bool) error {
	d.enabled = on
	return d.sendDisplayControl()
}

// SetBrightness sets the display brightness, 0 (dimmest) to MaxBrightness.
// The level is not clamped.
func (d *Dev) SetBrightness(level byte) error {
	d.brightness = level
	return d.sendDisplayControl()
}

// DisplaySegments writes a raw segment pattern at position 0..3.
//
//	 -- 0 --
//	|       |
//	5       1
//	|       |
//	 -- 6 --
//	|       |
//	4       2
//	|       |
//	 -- 3 --   7: colon or decimal point
//
// Neither argument is validated. A position outside 0..3 addresses whatever
// grid the controller maps it to.
func (d *Dev) DisplaySegments(position, segments byte) error {
	var errs ackErrors
	errs.add(d.transaction(cmdData | DataWrite | DataAutoAddr))
	errs.add(d.transaction(cmdAddr|position, segments))
	// Re-assert display control after every addressed write.
	errs.add(d.sendDisplayControl())

	if int(position) < NumDigits {
		d.segments[position] = segments
	}
	return errs.err()
}

// DisplayDigit shows a hexadecimal digit at position 0..3. Only the low four
// bits of digit are used.
func (d *Dev) DisplayDigit(position, digit byte) error {
	return d.DisplaySegments(position, Digits[digit&0x0F])
}

// DisplayColon turns the colon on or off.
//
// The colon shares its segment byte with the digit at ColonPosition, and this
// call overwrites that whole byte (0xFF or 0x00). To keep the digit, write
// Segments()[ColonPosition] | ColonBit through DisplaySegments instead.
func (d *Dev) DisplayColon(on bool) error {
	var segments byte
	if on {
		segments = 0xFF
	}
	return d.DisplaySegments(ColonPosition, segments)
}

// Clear blanks every position, colon included.
func (d *Dev) Clear() error {
	var errs ackErrors
	for i := 0; i < NumDigits; i++ {
		errs.add(d.DisplaySegments(byte(i), 0x00))
	}
	return errs.err()
}

// DisplayAll writes all four positions in a single auto-increment transfer
// starting at position 0.
func (d *Dev) DisplayAll(segments [NumDigits]byte) error {
	var errs ackErrors
	errs.add(d.transaction(cmdData | DataWrite | DataAutoAddr))
	errs.add(d.transaction(cmdAddr, segments[:]...))
	errs.add(d.sendDisplayControl())

	d.segments = segments
	return errs.err()
}

// DisplayString shows up to four characters, left aligned. A '.' lights the
// decimal point of the preceding character instead of taking a position.
// Characters without a glyph are shown blank.
func (d *Dev) DisplayString(s string) error {
	var segments [NumDigits]byte
	i := 0
	for _, r := range s {
		if r == '.' && i > 0 {
			segments[i-1] |= ColonBit
			continue
		}
		if i == NumDigits {
			break
		}
		if r == '.' {
			segments[i] = ColonBit
		} else {
			segments[i], _ = Encode(r)
		}
		i++
	}
	return d.DisplayAll(segments)
}

// Segments returns the patterns last written to each position.
func (d *Dev) Segments() [NumDigits]byte {
	return d.segments
}

// Brightness returns the last brightness sent to the controller.
func (d *Dev) Brightness() byte {
	return d.brightness
}

// Enabled reports whether the display was last switched on.
func (d *Dev) Enabled() bool {
	return d.enabled
}

// Close turns the display off. The lines stay outputs, driven high.
func (d *Dev) Close() error {
	if err := d.Enable(false); err != nil {
		return fmt.Errorf("failed to send display off command: %w", err)
	}
	return nil
}

func (d *Dev) String() string {
	state := "off"
	if d.enabled {
		state = "on"
	}
	return fmt.Sprintf("tm1637.Dev{%s, brightness=%d}", state, d.brightness)
}

// sendDisplayControl sends the display control command built from the held
// enable flag and brightness.
func (d *Dev) sendDisplayControl() error {
	cmd := cmdDisplay | d.brightness
	if d.enabled {
		cmd |= DisplayOn
	}
	return d.transaction(cmd)
}

// transaction sends cmd and data between a start and a stop condition. Every
// byte is sent even if an earlier one was not acknowledged.
func (d *Dev) transaction(cmd byte, data ...byte) error {
	var errs ackErrors
	d.start()
	errs.add(d.writeByte(cmd))
	for _, b := range data {
		errs.add(d.writeByte(b))
	}
	d.stop()
	return errs.err()
}

// --- Low-level communication methods ---

func (d *Dev) wait() {
	d.sleep(d.delay)
}

// start sends the start condition: DIO falls while CLK is high.
func (d *Dev) start() {
	d.dio.High()
	d.wait()
	d.clk.High()
	d.wait()
	d.dio.Low()
	d.wait()
}

// stop sends the stop condition: DIO rises while CLK is high.
func (d *Dev) stop() {
	d.clk.Low()
	d.wait()
	d.dio.Low()
	d.wait()
	d.clk.High()
	d.wait()
	d.dio.High()
	d.wait()
}

// writeByte clocks out one byte, LSB first, then clocks in the ACK bit.
func (d *Dev) writeByte(b byte) error {
	data := b
	for i := 0; i < 8; i++ {
		d.clk.Low()
		d.wait()

		if data&0x01 == 0x01 {
			d.dio.High()
		} else {
			d.dio.Low()
		}
		d.wait() // Data setup time

		d.clk.High()
		d.wait()

		data >>= 1
	}

	// Ninth clock: release DIO so the controller can pull it low.
	d.clk.Low()
	d.wait()
	d.dio.Input()
	d.wait()
	d.clk.High()
	d.wait()
	acked := !d.dio.Read()

	d.clk.Low()
	d.wait()
	d.dio.Low()
	d.wait()
	d.dio.Output()
	d.wait()

	if !acked {
		return fmt.Errorf("%w for byte %#02x", ErrNoAck, b)
	}
	return nil
}

// ackErrors keeps the first acknowledgement failure of a multi-step write.
type ackErrors struct {
	first error
}

func (a *ackErrors) add(err error) {
	if a.first == nil {
		a.first = err
	}
}

func (a *ackErrors) err() error {
	return a.first
}
