package led

import (
	"errors"
	"fmt"
	"sort"

	"github.com/warthog618/gpiod"
)

// gpio implements Controller with GPIO character-device output lines.
type gpio struct {
	lines map[string]*gpiod.Line
}

// newGPIO requests one output line per LED on the given chip. All lines start low.
func newGPIO(chip string, offsets map[string]int) (*gpio, error) {
	g := &gpio{lines: make(map[string]*gpiod.Line, len(offsets))}
	for name, offset := range offsets {
		line, err := gpiod.RequestLine(chip, offset, gpiod.AsOutput(0))
		if err != nil {
			_ = g.Close()
			return nil, fmt.Errorf("request LED %q on %s:%d: %w", name, chip, offset, err)
		}
		g.lines[name] = line
	}
	return g, nil
}

func (g *gpio) Set(name string, on bool) error {
	line, ok := g.lines[name]
	if !ok {
		return fmt.Errorf("LED %q not mapped on this board", name)
	}
	value := 0
	if on {
		value = 1
	}
	return line.SetValue(value)
}

func (g *gpio) Available() []string {
	names := make([]string, 0, len(g.lines))
	for name := range g.lines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close drives every line low and releases it.
func (g *gpio) Close() error {
	var errs []error
	for name, line := range g.lines {
		_ = line.SetValue(0)
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close LED %q: %w", name, err))
		}
		delete(g.lines, name)
	}
	return errors.Join(errs...)
}
