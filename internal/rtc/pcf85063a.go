// Package rtc drives the PCF85063A real-time clock that keeps the badge
// state across power-off and wakes the board on a countdown.
package rtc

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/smazurov/inkbadge/internal/logging"
)

// Addr is the fixed I2C address of the PCF85063A.
const Addr = 0x51

// Registers.
const (
	regControl2   = 0x01
	regRAM        = 0x03
	regTimerValue = 0x10
	regTimerMode  = 0x11
)

// Control_2 bits.
const (
	ctrl2AIE = 1 << 7
	ctrl2AF  = 1 << 6
	ctrl2TF  = 1 << 3
)

// Timer_mode bits.
const (
	timerTE      = 1 << 2
	timerTIE     = 1 << 1
	timerTCF1Hz  = 0b10 << 3
	timerTCF1_60 = 0b11 << 3
)

// MaxWake is the longest countdown the timer can hold.
const MaxWake = 255 * time.Minute

// Conn is a register-addressed bus connection. *i2c.Dev satisfies it.
type Conn interface {
	Tx(w, r []byte) error
}

// PCF85063A is the RTC driver.
type PCF85063A struct {
	conn   Conn
	closer func() error
	logger logging.Logger
}

// Open initializes the host drivers and opens the RTC on the named I2C bus
// (empty for the first one).
func Open(busName string, logger logging.Logger) (*PCF85063A, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("open I2C bus %q: %w", busName, err)
	}
	r := New(&i2c.Dev{Bus: bus, Addr: Addr}, logger)
	r.closer = bus.Close
	return r, nil
}

// New wraps an existing connection.
func New(conn Conn, logger logging.Logger) *PCF85063A {
	return &PCF85063A{conn: conn, logger: logger}
}

// Close releases the bus when the driver opened it.
func (p *PCF85063A) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer()
}

func (p *PCF85063A) read(reg byte) (byte, error) {
	var buf [1]byte
	if err := p.conn.Tx([]byte{reg}, buf[:]); err != nil {
		return 0, fmt.Errorf("read register 0x%02x: %w", reg, err)
	}
	return buf[0], nil
}

func (p *PCF85063A) write(reg, value byte) error {
	if err := p.conn.Tx([]byte{reg, value}, nil); err != nil {
		return fmt.Errorf("write register 0x%02x: %w", reg, err)
	}
	return nil
}

// ReadByte returns the battery-backed RAM byte.
func (p *PCF85063A) ReadByte() (byte, error) {
	return p.read(regRAM)
}

// WriteByte stores the battery-backed RAM byte.
func (p *PCF85063A) WriteByte(b byte) error {
	return p.write(regRAM, b)
}

// SetWake arms the countdown timer to fire after roughly d and returns the
// interval actually programmed. Up to 255 s counts seconds; longer intervals
// count whole minutes, rounded up and capped at MaxWake.
func (p *PCF85063A) SetWake(d time.Duration) (time.Duration, error) {
	value, tcf, programmed := timerSetting(d)

	// Stop the timer before reloading it.
	if err := p.write(regTimerMode, 0); err != nil {
		return 0, err
	}
	if err := p.ClearAlarm(); err != nil {
		return 0, err
	}
	if err := p.write(regTimerValue, value); err != nil {
		return 0, err
	}
	if err := p.write(regTimerMode, tcf|timerTE|timerTIE); err != nil {
		return 0, err
	}

	p.logger.Debug("Wake timer armed", "requested", d, "programmed", programmed)
	return programmed, nil
}

// ClearAlarm resets the timer and alarm flags.
func (p *PCF85063A) ClearAlarm() error {
	ctrl, err := p.read(regControl2)
	if err != nil {
		return err
	}
	return p.write(regControl2, ctrl&^(ctrl2AF|ctrl2TF))
}

// DisableAlarm stops the countdown and masks both interrupts.
func (p *PCF85063A) DisableAlarm() error {
	mode, err := p.read(regTimerMode)
	if err != nil {
		return err
	}
	if err := p.write(regTimerMode, mode&^(timerTE|timerTIE)); err != nil {
		return err
	}
	ctrl, err := p.read(regControl2)
	if err != nil {
		return err
	}
	return p.write(regControl2, ctrl&^ctrl2AIE)
}

// TimerFired reports whether the countdown flag is set, meaning the board
// was powered up by the RTC.
func (p *PCF85063A) TimerFired() (bool, error) {
	ctrl, err := p.read(regControl2)
	if err != nil {
		return false, err
	}
	return ctrl&ctrl2TF != 0, nil
}

func timerSetting(d time.Duration) (value, tcf byte, programmed time.Duration) {
	secs := int64((d + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	if secs <= 255 {
		return byte(secs), timerTCF1Hz, time.Duration(secs) * time.Second
	}
	mins := min((secs+59)/60, 255)
	return byte(mins), timerTCF1_60, time.Duration(mins) * time.Minute
}
