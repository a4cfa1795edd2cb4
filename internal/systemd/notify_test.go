package systemd

import "testing"

func TestNotifyWithoutSocket(t *testing.T) {
	t.Setenv("NOTIFY_SOCKET", "")

	sent, err := NotifyReady()
	if err != nil {
		t.Fatalf("NotifyReady() error: %v", err)
	}
	if sent {
		t.Error("NotifyReady() should not send without a socket")
	}

	if sent, err := NotifyStopping(); err != nil || sent {
		t.Errorf("NotifyStopping() = %v, %v, want false, nil", sent, err)
	}
}
