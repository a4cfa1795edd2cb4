package led

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

const sysfsLEDPath = "/sys/class/leds"

// sysfs implements Controller using the Linux LED class interface.
type sysfs struct {
	root string
	leds map[string]string // logical name -> sysfs directory name
	// manual tracks which LEDs already had their trigger released.
	manual map[string]bool
}

func newSysfs(leds map[string]string) *sysfs {
	return newSysfsAt(sysfsLEDPath, leds)
}

func newSysfsAt(root string, leds map[string]string) *sysfs {
	return &sysfs{
		root:   root,
		leds:   leds,
		manual: make(map[string]bool, len(leds)),
	}
}

// Set writes the LED brightness. The first write for an LED also sets its
// trigger to "none" so the kernel stops driving it.
func (s *sysfs) Set(name string, on bool) error {
	sysfsName, ok := s.leds[name]
	if !ok {
		return fmt.Errorf("LED %q not mapped on this board", name)
	}

	ledPath := filepath.Join(s.root, sysfsName)
	if _, err := os.Stat(ledPath); os.IsNotExist(err) {
		return fmt.Errorf("LED %q not found at %s", name, ledPath)
	}

	if !s.manual[name] {
		if err := os.WriteFile(filepath.Join(ledPath, "trigger"), []byte("none"), 0o644); err != nil {
			return fmt.Errorf("failed to release LED trigger: %w", err)
		}
		s.manual[name] = true
	}

	value := "0"
	if on {
		value = "1"
	}
	if err := os.WriteFile(filepath.Join(ledPath, "brightness"), []byte(value), 0o644); err != nil {
		return fmt.Errorf("failed to set LED brightness: %w", err)
	}
	return nil
}

// Available returns the mapped LED names in sorted order.
func (s *sysfs) Available() []string {
	names := make([]string, 0, len(s.leds))
	for name := range s.leds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *sysfs) Close() error { return nil }
