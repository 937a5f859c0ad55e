package source

import "testing"

func TestDecodePickerKey(t *testing.T) {
	tests := []struct {
		in   []byte
		want pickerKey
	}{
		{[]byte{'\r'}, pickConfirm},
		{[]byte{3}, pickCancel},
		{[]byte{'q'}, pickCancel},
		{[]byte{'j'}, pickDown},
		{[]byte{'k'}, pickUp},
		{[]byte{0x1b, '[', 'A'}, pickUp},
		{[]byte{0x1b, '[', 'B'}, pickDown},
		{[]byte{0x1b, '[', 'C'}, pickNone},
		{[]byte{'x'}, pickNone},
	}
	for _, tt := range tests {
		if got := decodePickerKey(tt.in); got != tt.want {
			t.Errorf("decodePickerKey(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestMoveCursorClamps(t *testing.T) {
	if got := moveCursor(0, 3, pickUp); got != 0 {
		t.Errorf("up from top = %d", got)
	}
	if got := moveCursor(2, 3, pickDown); got != 2 {
		t.Errorf("down from bottom = %d", got)
	}
	if got := moveCursor(1, 3, pickDown); got != 2 {
		t.Errorf("down = %d, want 2", got)
	}
}

func TestSelectDeviceSingle(t *testing.T) {
	d, err := SelectDevice([]DeviceInfo{{Path: "/dev/input/event3", Name: "kbd"}})
	if err != nil {
		t.Fatal(err)
	}
	if d.Path != "/dev/input/event3" {
		t.Errorf("got %s", d.Path)
	}
}

func TestSelectDeviceNone(t *testing.T) {
	if _, err := SelectDevice(nil); err == nil {
		t.Error("expected error for empty device list")
	}
}
