// Package power turns the board off between cycles when it runs on battery.
package power

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/smazurov/inkbadge/internal/logging"
)

const powerSupplyPath = "/sys/class/power_supply"

// Shutdowner performs the actual power-off.
type Shutdowner interface {
	PowerOff(ctx context.Context) error
}

// Controller powers the board off unless a mains supply is online.
// When PowerOff returns nil on mains, the caller keeps running.
type Controller struct {
	shutdown   Shutdowner
	supplyRoot string
	logger     logging.Logger
}

// New creates a controller that uses shutdown on battery.
func New(shutdown Shutdowner, logger logging.Logger) *Controller {
	return &Controller{shutdown: shutdown, supplyRoot: powerSupplyPath, logger: logger}
}

// PowerOff shuts down when running on battery.
func (c *Controller) PowerOff(ctx context.Context) error {
	if OnMains(c.supplyRoot) {
		c.logger.Info("Mains power online, staying up")
		return nil
	}
	c.logger.Info("Powering off")
	return c.shutdown.PowerOff(ctx)
}

// OnMains reports whether any power supply of type Mains under root is online.
func OnMains(root string) bool {
	dirs, err := filepath.Glob(filepath.Join(root, "*"))
	if err != nil {
		return false
	}
	for _, dir := range dirs {
		if readAttr(dir, "type") == "Mains" && readAttr(dir, "online") == "1" {
			return true
		}
	}
	return false
}

func readAttr(dir, name string) string {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// Noop never powers off, for boards that are always on mains.
type Noop struct {
	logger logging.Logger
}

// NewNoop creates a no-op controller.
func NewNoop(logger logging.Logger) *Noop {
	return &Noop{logger: logger}
}

// PowerOff logs and returns.
func (n *Noop) PowerOff(context.Context) error {
	n.logger.Debug("Power-off not available (no-op)")
	return nil
}
