package systemd

import "github.com/coreos/go-systemd/v22/daemon"

// NotifyReady tells systemd the service finished starting. It reports false
// when the process was not started with a notify socket.
func NotifyReady() (bool, error) {
	return daemon.SdNotify(false, daemon.SdNotifyReady)
}

// NotifyStopping tells systemd the service is shutting down.
func NotifyStopping() (bool, error) {
	return daemon.SdNotify(false, daemon.SdNotifyStopping)
}
