package led

import (
	"errors"
	"log/slog"
	"testing"
)

type recordingController struct {
	state map[string]bool
	calls []string
	fail  bool
}

func newRecordingController() *recordingController {
	return &recordingController{state: make(map[string]bool)}
}

func (r *recordingController) Set(name string, on bool) error {
	if r.fail {
		return errors.New("write failed")
	}
	r.state[name] = on
	r.calls = append(r.calls, name)
	return nil
}

func (r *recordingController) Available() []string { return nil }
func (r *recordingController) Close() error        { return nil }

func TestLEDString(t *testing.T) {
	tests := []struct {
		led  LED
		want string
	}{
		{A, "a"},
		{E, "e"},
		{Activity, "activity"},
		{Network, "network"},
		{LED(42), "INVALID"},
	}
	for _, tt := range tests {
		if got := tt.led.String(); got != tt.want {
			t.Errorf("LED(%d).String() = %q, want %q", tt.led, got, tt.want)
		}
	}
}

func TestIndicatorsAllOnAllOff(t *testing.T) {
	ctrl := newRecordingController()
	ind := NewIndicators(ctrl, slog.New(slog.DiscardHandler))

	ind.AllOn()
	for _, l := range All {
		if !ctrl.state[l.String()] {
			t.Errorf("%s should be on after AllOn", l)
		}
	}

	ind.AllOff()
	for _, l := range All {
		if ctrl.state[l.String()] {
			t.Errorf("%s should be off after AllOff", l)
		}
	}
}

func TestIndicatorsOnOff(t *testing.T) {
	ctrl := newRecordingController()
	ind := NewIndicators(ctrl, slog.New(slog.DiscardHandler))

	ind.On(Network)
	ind.Off(Activity)

	if !ctrl.state["network"] || ctrl.state["activity"] {
		t.Errorf("state = %v", ctrl.state)
	}
	if len(ctrl.calls) != 2 {
		t.Errorf("calls = %v, want 2", ctrl.calls)
	}
}

func TestIndicatorsSwallowErrors(t *testing.T) {
	ctrl := newRecordingController()
	ctrl.fail = true
	ind := NewIndicators(ctrl, slog.New(slog.DiscardHandler))

	// Must not panic or stop early.
	ind.AllOn()
}
