package led

import "github.com/smazurov/inkbadge/internal/logging"

// noop implements Controller for systems without usable LEDs.
type noop struct {
	logger logging.Logger
}

func newNoop(logger logging.Logger) *noop {
	return &noop{logger: logger}
}

// Set logs the request but drives nothing.
func (n *noop) Set(name string, on bool) error {
	n.logger.Debug("LED control not available (no-op)", "led", name, "on", on)
	return nil
}

// Available returns an empty list since no LEDs are wired.
func (n *noop) Available() []string {
	return []string{}
}

func (n *noop) Close() error { return nil }
