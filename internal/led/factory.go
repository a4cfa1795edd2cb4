package led

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/smazurov/inkbadge/internal/logging"
)

const deviceTreeModelPath = "/proc/device-tree/model"

// Backend names accepted by New.
const (
	BackendAuto  = "auto"
	BackendSysfs = "sysfs"
	BackendGPIO  = "gpio"
	BackendNone  = "none"
)

// Config selects and maps the LED backend.
type Config struct {
	Backend string
	// Chip is the gpiochip used by the gpio backend.
	Chip string
	// Map is logical name -> sysfs LED directory (sysfs) or line offset (gpio).
	Map map[string]string
}

// DefaultMap maps every indicator to a sysfs LED named "inkbadge:<name>".
func DefaultMap() map[string]string {
	m := make(map[string]string, len(indicatorNames))
	for _, name := range indicatorNames {
		m[name] = "inkbadge:" + name
	}
	return m
}

// ParseMap parses "name=target" entries as they appear in config files.
func ParseMap(entries []string) (map[string]string, error) {
	m := make(map[string]string, len(entries))
	for _, entry := range entries {
		name, target, ok := strings.Cut(entry, "=")
		name, target = strings.TrimSpace(name), strings.TrimSpace(target)
		if !ok || name == "" || target == "" {
			return nil, fmt.Errorf("invalid LED mapping %q, want name=target", entry)
		}
		m[name] = target
	}
	return m, nil
}

// New creates an LED controller for the configured backend.
// The auto backend uses sysfs when every mapped LED exists and falls back to no-op.
func New(cfg Config, logger logging.Logger) (Controller, error) {
	mapping := cfg.Map
	if len(mapping) == 0 {
		mapping = DefaultMap()
	}

	logger.Info("Configuring LED control", "backend", cfg.Backend, "board_model", detectBoard())

	switch cfg.Backend {
	case BackendSysfs:
		return newSysfs(mapping), nil

	case BackendGPIO:
		offsets := make(map[string]int, len(mapping))
		for name, target := range mapping {
			offset, err := strconv.Atoi(target)
			if err != nil {
				return nil, fmt.Errorf("LED %q: line offset %q is not a number", name, target)
			}
			offsets[name] = offset
		}
		return newGPIO(cfg.Chip, offsets)

	case BackendNone:
		return newNoop(logger), nil

	case BackendAuto, "":
		if sysfsPresent(sysfsLEDPath, mapping) {
			logger.Info("Found sysfs LEDs, using sysfs LED controller")
			return newSysfs(mapping), nil
		}
		logger.Info("No LED support detected, using no-op controller")
		return newNoop(logger), nil

	default:
		return nil, fmt.Errorf("unknown LED backend %q", cfg.Backend)
	}
}

// sysfsPresent reports whether every mapped LED exists under root.
func sysfsPresent(root string, mapping map[string]string) bool {
	for _, target := range mapping {
		if _, err := os.Stat(filepath.Join(root, target)); err != nil {
			return false
		}
	}
	return true
}

// detectBoard reads the device tree model to identify the board.
func detectBoard() string {
	data, err := os.ReadFile(deviceTreeModelPath)
	if err != nil {
		return "unknown"
	}

	// Device tree model contains null bytes, trim them
	return strings.TrimRight(string(data), "\x00")
}
