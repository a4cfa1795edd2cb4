package fault

import (
	"context"
	"time"

	"github.com/smazurov/inkbadge/internal/led"
)

// Indicators is the LED set the signal is shown on.
type Indicators interface {
	Set(l led.LED, on bool)
	AllOff()
}

// patternLEDs maps pattern slots to LEDs.
var patternLEDs = [5]led.LED{led.A, led.B, led.C, led.D, led.E}

// Pattern returns which of LEDs A-E show code.
// Bits 0-3 drive A-D, bit 4 also drives D, bit 5 drives E.
func Pattern(code Code) [5]bool {
	var p [5]bool
	for bit := range 4 {
		p[bit] = code&(1<<bit) != 0
	}
	if code&(1<<4) != 0 {
		p[3] = true
	}
	p[4] = code&(1<<5) != 0
	return p
}

// Signal shows err on the LEDs and blinks network and activity alternately
// every blink interval. It only returns when ctx is done; the LEDs are left as
// they are so the code stays readable after shutdown.
func Signal(ctx context.Context, leds Indicators, blink time.Duration, err error) {
	code := CodeOf(err)
	if code == CodeNone {
		code = CodeReserved
	}

	leds.AllOff()
	for i, on := range Pattern(code) {
		if on {
			leds.Set(patternLEDs[i], true)
		}
	}

	ticker := time.NewTicker(blink)
	defer ticker.Stop()

	network := true
	for {
		leds.Set(led.Network, network)
		leds.Set(led.Activity, !network)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		network = !network
	}
}
