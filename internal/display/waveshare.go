package display

import (
	"fmt"
	"image"

	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/waveshare2in13v2"
	"periph.io/x/host/v3"
)

// Waveshare is a Waveshare 2.13" v2 e-paper HAT on an SPI port.
type Waveshare struct {
	port spi.PortCloser
	dev  *waveshare2in13v2.Dev
}

// OpenWaveshare initializes the host drivers, opens the SPI port (empty for
// the first one) and brings up the panel.
func OpenWaveshare(spiPort string) (*Waveshare, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}

	port, err := spireg.Open(spiPort)
	if err != nil {
		return nil, fmt.Errorf("open SPI port %q: %w", spiPort, err)
	}

	dev, err := waveshare2in13v2.NewHat(port, &waveshare2in13v2.EPD2in13v2)
	if err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("waveshare HAT: %w", err)
	}
	if err := dev.Init(); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("waveshare init: %w", err)
	}

	return &Waveshare{port: port, dev: dev}, nil
}

// Draw refreshes the panel with src.
func (w *Waveshare) Draw(dstRect image.Rectangle, src image.Image, srcPts image.Point) error {
	return w.dev.Draw(dstRect, src, srcPts)
}

// Bounds returns the native panel size.
func (w *Waveshare) Bounds() image.Rectangle {
	return w.dev.Bounds()
}

// Close releases the SPI port.
func (w *Waveshare) Close() error {
	return w.port.Close()
}
