package systemd

import (
	"context"
	"fmt"

	"github.com/coreos/go-systemd/v22/dbus"
)

// PowerOffTarget is the unit started to shut the board down.
const PowerOffTarget = "poweroff.target"

// Manager handles systemd unit operations via the system D-Bus.
type Manager struct {
	conn *dbus.Conn
}

// NewManager creates a new systemd manager with a system-level D-Bus connection.
func NewManager(ctx context.Context) (*Manager, error) {
	conn, err := dbus.NewSystemConnectionContext(ctx)
	if err != nil {
		return nil, err
	}
	return &Manager{conn: conn}, nil
}

// ActiveState retrieves the ActiveState property of a unit.
func (m *Manager) ActiveState(ctx context.Context, unit string) (string, error) {
	prop, err := m.conn.GetUnitPropertyContext(ctx, unit, "ActiveState")
	if err != nil {
		return "", err
	}
	state, ok := prop.Value.Value().(string)
	if !ok {
		return "", fmt.Errorf("unexpected ActiveState %s for %s", prop.Value.String(), unit)
	}
	return state, nil
}

// PowerOff queues poweroff.target. The job cannot be cancelled once queued.
// It returns as soon as the job is accepted; the process is stopped later by
// the shutdown itself.
func (m *Manager) PowerOff(ctx context.Context) error {
	state, err := m.ActiveState(ctx, PowerOffTarget)
	if err == nil && (state == "active" || state == "activating") {
		return nil
	}
	if _, err := m.conn.StartUnitContext(ctx, PowerOffTarget, "replace-irreversibly", nil); err != nil {
		return fmt.Errorf("start %s: %w", PowerOffTarget, err)
	}
	return nil
}

// Close cleanly closes the D-Bus connection.
func (m *Manager) Close() {
	if m.conn != nil {
		m.conn.Close()
	}
}
