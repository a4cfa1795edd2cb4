package state

import "testing"

func TestDecodeEncodeRoundTrip(t *testing.T) {
	for v := 0; v <= 0xFF; v++ {
		lock, index := Decode(byte(v))
		if index > 127 {
			t.Fatalf("Decode(0x%02X) index = %d, want <= 127", v, index)
		}
		if got := Encode(lock, index); got != byte(v) {
			t.Fatalf("Encode(Decode(0x%02X)) = 0x%02X", v, got)
		}
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		in        byte
		wantLock  bool
		wantIndex uint8
	}{
		{0x00, false, 0},
		{0x05, false, 5},
		{0x7F, false, 127},
		{0x80, true, 0},
		{0x85, true, 5},
		{0xFF, true, 127},
	}

	for _, tt := range tests {
		lock, index := Decode(tt.in)
		if lock != tt.wantLock || index != tt.wantIndex {
			t.Errorf("Decode(0x%02X) = (%t, %d), want (%t, %d)", tt.in, lock, index, tt.wantLock, tt.wantIndex)
		}
	}
}

func TestEncodeMasksIndex(t *testing.T) {
	if got := Encode(false, 0x85); got != 0x05 {
		t.Errorf("Encode(false, 0x85) = 0x%02X, want 0x05", got)
	}
	if got := Encode(true, 0xFF); got != 0xFF {
		t.Errorf("Encode(true, 0xFF) = 0x%02X, want 0xFF", got)
	}
}

func TestToggleLockKeepsIndex(t *testing.T) {
	for v := 0; v <= 0xFF; v++ {
		b := Byte(v)
		got := b.ToggleLock()
		if got.Index() != b.Index() {
			t.Fatalf("ToggleLock(0x%02X) changed index %d -> %d", v, b.Index(), got.Index())
		}
		if got.Locked() == b.Locked() {
			t.Fatalf("ToggleLock(0x%02X) did not flip the lock", v)
		}
		if got.ToggleLock() != b {
			t.Fatalf("double ToggleLock(0x%02X) = 0x%02X", v, uint8(got.ToggleLock()))
		}
	}
}

func TestWithIndex(t *testing.T) {
	if got := Byte(0x85).WithIndex(9); got != 0x89 {
		t.Errorf("WithIndex kept lock wrong: got 0x%02X, want 0x89", uint8(got))
	}
	if got := Byte(0x05).WithIndex(Sentinel); got != 0x7F {
		t.Errorf("WithIndex(Sentinel) = 0x%02X, want 0x7F", uint8(got))
	}
}
