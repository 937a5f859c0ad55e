//go:build linux

package source

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"keytick/input"
)

func record(typ, code uint16, value int32) []byte {
	buf := make([]byte, inputEventSize)
	binary.LittleEndian.PutUint16(buf[16:], typ)
	binary.LittleEndian.PutUint16(buf[18:], code)
	binary.LittleEndian.PutUint32(buf[20:], uint32(value))
	return buf
}

func feed(t *testing.T, e *Evdev, records ...[]byte) *recorder {
	t.Helper()
	rec := &recorder{}
	e.sink = rec
	e.stop = make(chan struct{})
	e.readEvents(bytes.NewReader(bytes.Join(records, nil)))
	return rec
}

func TestEvdevKeys(t *testing.T) {
	e := NewEvdev(EvdevOptions{})
	rec := feed(t, e,
		record(evKey, 30, keyPress), // KEY_A
		record(evKey, 30, keyRepeat),
		record(evKey, 30, keyRelease),
		record(evKey, 2, keyPress), // KEY_1
		record(evKey, 59, keyPress), // KEY_F1
		record(evKey, 200, keyPress),
		record(evKey, 0x120, keyPress), // BTN_TRIGGER
	)
	assertTrace(t, rec.trace(), []string{
		"press keyboard 65",
		"press keyboard 65",
		"release keyboard 65",
		"press keyboard 49",
		"press keyboard 112",
		"press keyboard 65736",
	})
}

func TestEvdevMouseButtons(t *testing.T) {
	e := NewEvdev(EvdevOptions{})
	rec := feed(t, e,
		record(evKey, btnLeft, keyPress),
		record(evKey, btnRight, keyPress),
		record(evKey, btnMiddle, keyPress),
		record(evKey, btnLeft, keyRelease),
	)
	assertTrace(t, rec.trace(), []string{
		"press mouse 1",
		"press mouse 3",
		"press mouse 2",
		"release mouse 1",
	})
}

func TestEvdevRelativeMotionClamped(t *testing.T) {
	e := NewEvdev(EvdevOptions{Width: 100, Height: 50})
	rec := feed(t, e,
		record(evRel, relX, 10),
		record(evRel, relY, -5),
		record(evSyn, synReport, 0),
		record(evRel, relX, -1000),
		record(evSyn, synReport, 0),
		record(evRel, relY, 1000),
		record(evSyn, synReport, 0),
		record(evSyn, synReport, 0), // no motion, no move
	)
	assertTrace(t, rec.trace(), []string{
		"move 60 20",
		"move 0 20",
		"move 0 49",
	})
}

func TestEvdevAbsoluteMotion(t *testing.T) {
	e := NewEvdev(EvdevOptions{})
	rec := feed(t, e,
		record(evAbs, absX, 7),
		record(evAbs, absY, 9),
		record(evSyn, synReport, 0),
	)
	assertTrace(t, rec.trace(), []string{"move 7 9"})
}

func TestEvdevTruncatedRecord(t *testing.T) {
	e := NewEvdev(EvdevOptions{})
	partial := record(evKey, 30, keyPress)[:10]
	rec := feed(t, e, record(evKey, 31, keyPress), partial)
	assertTrace(t, rec.trace(), []string{"press keyboard 83"})
}

func TestTranslateKey(t *testing.T) {
	tests := []struct {
		code   uint16
		device input.Device
		vk     int
	}{
		{1, input.Keyboard, input.KeyEscape},
		{11, input.Keyboard, input.Key0},
		{16, input.Keyboard, 'Q'},
		{50, input.Keyboard, 'M'},
		{57, input.Keyboard, input.KeySpace},
		{88, input.Keyboard, input.KeyF12},
		{105, input.Keyboard, input.KeyLeft},
		{0x113, input.Mouse, 4},
	}
	for _, tt := range tests {
		d, vk, ok := translateKey(tt.code)
		if !ok || d != tt.device || vk != tt.vk {
			t.Errorf("translateKey(%d) = %s %d %v, want %s %d", tt.code, d, vk, ok, tt.device, tt.vk)
		}
	}
}

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestDevicesClassify(t *testing.T) {
	dev := t.TempDir()
	sys := t.TempDir()
	oldDev, oldSys := devInputDir, sysInputDir
	devInputDir, sysInputDir = dev, sys
	t.Cleanup(func() { devInputDir, sysInputDir = oldDev, oldSys })

	for _, name := range []string{"event0", "event1", "event2", "mouse0"} {
		writeFile(t, filepath.Join(dev, name), "")
	}
	writeFile(t, filepath.Join(sys, "event0/device/name"), "AT Translated Set 2 keyboard\n")
	writeFile(t, filepath.Join(sys, "event0/device/capabilities/key"), "402000000 3803078f800d001 feffffdfffefffff fffffffffffffffe\n")
	writeFile(t, filepath.Join(sys, "event0/device/capabilities/rel"), "0\n")
	writeFile(t, filepath.Join(sys, "event1/device/name"), "USB Optical Mouse\n")
	writeFile(t, filepath.Join(sys, "event1/device/capabilities/key"), "1f0000 0 0 0 0\n")
	writeFile(t, filepath.Join(sys, "event1/device/capabilities/rel"), "1943\n")
	writeFile(t, filepath.Join(sys, "event2/device/name"), "Power Button\n")
	writeFile(t, filepath.Join(sys, "event2/device/capabilities/key"), "10000000000000 0\n")

	devices, err := Devices()
	if err != nil {
		t.Fatal(err)
	}
	if len(devices) != 2 {
		t.Fatalf("got %d devices %+v, want 2", len(devices), devices)
	}
	if devices[0].Kind != input.Keyboard || devices[0].Name != "AT Translated Set 2 keyboard" {
		t.Errorf("event0 = %+v", devices[0])
	}
	if devices[1].Kind != input.Mouse || devices[1].Path != filepath.Join(dev, "event1") {
		t.Errorf("event1 = %+v", devices[1])
	}
}

func TestHasPointerAxes(t *testing.T) {
	for caps, want := range map[string]bool{
		"1943": true,
		"3":    true,
		"1":    false,
		"0":    false,
		"":     false,
		"3 0":  false,
	} {
		if got := hasPointerAxes(caps); got != want {
			t.Errorf("hasPointerAxes(%q) = %v, want %v", caps, got, want)
		}
	}
}

func TestEvdevFilter(t *testing.T) {
	e := NewEvdev(EvdevOptions{Paths: []string{"/dev/input/event4", "USB Mouse"}})
	got := e.filter([]DeviceInfo{
		{Path: "/dev/input/event3", Name: "kbd"},
		{Path: "/dev/input/event4", Name: "other kbd"},
		{Path: "/dev/input/event5", Name: "USB Mouse"},
	})
	if len(got) != 2 || got[0].Path != "/dev/input/event4" || got[1].Name != "USB Mouse" {
		t.Errorf("filter = %+v", got)
	}
}

func TestIsKeyboard(t *testing.T) {
	for caps, want := range map[string]bool{
		"402000000 3803078f800d001 feffffdfffefffff fffffffffffffffe": true,
		"10000000000000 0": false,
		"1f0000 0 0 0 0":   false,
		"":                 false,
	} {
		if got := isKeyboard(caps); got != want {
			t.Errorf("isKeyboard(%q) = %v, want %v", caps, got, want)
		}
	}
}
