//go:build linux

package source

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"keytick/input"
	"keytick/log"
)

const (
	evSyn = 0
	evKey = 1
	evRel = 2
	evAbs = 3

	synReport = 0

	relX = 0
	relY = 1
	absX = 0
	absY = 1

	keyRelease = 0
	keyPress   = 1
	keyRepeat  = 2
)

// input_event is 24 bytes on 64-bit Linux:
// timeval (16 bytes) + type (2) + code (2) + value (4)
const inputEventSize = 24

var (
	devInputDir = "/dev/input"
	sysInputDir = "/sys/class/input"
)

// settle gives udev time to fix permissions on a freshly created node.
const settle = 200 * time.Millisecond

type EvdevOptions struct {
	// Paths restricts the source to these device nodes. Empty means every
	// keyboard and mouse found.
	Paths []string
	// Width and Height clamp the integrated pointer. Zero leaves the axis
	// unbounded above.
	Width, Height int
}

// Evdev reads /dev/input event nodes directly.
// Requires the user to be in the 'input' group.
type Evdev struct {
	opts EvdevOptions
	sink Sink

	mu      sync.Mutex
	files   map[string]*os.File
	watcher *fsnotify.Watcher
	stop    chan struct{}
	once    sync.Once

	ptrMu sync.Mutex
	ptrX  int
	ptrY  int
}

func NewEvdev(opts EvdevOptions) *Evdev {
	return &Evdev{
		opts:  opts,
		files: make(map[string]*os.File),
		ptrX:  opts.Width / 2,
		ptrY:  opts.Height / 2,
	}
}

func (e *Evdev) Start(sink Sink) error {
	devices, err := Devices()
	if err != nil {
		return fmt.Errorf("finding input devices: %w", err)
	}
	devices = e.filter(devices)
	if len(devices) == 0 {
		return fmt.Errorf("no keyboard or mouse devices found (is user in 'input' group?)")
	}

	e.sink = sink
	e.stop = make(chan struct{})

	for _, d := range devices {
		if err := e.attach(d); err != nil {
			log.Warnf("evdev: %v", err)
		}
	}

	e.mu.Lock()
	opened := len(e.files)
	e.mu.Unlock()
	if opened == 0 {
		return fmt.Errorf("could not open any input device (run: sudo usermod -aG input $USER, then re-login)")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		log.Warnf("evdev: hot-plug disabled: %v", err)
		return nil
	}
	if err := w.Add(devInputDir); err != nil {
		w.Close()
		log.Warnf("evdev: hot-plug disabled: %v", err)
		return nil
	}
	e.watcher = w
	go e.watch(w)
	return nil
}

func (e *Evdev) filter(devices []DeviceInfo) []DeviceInfo {
	if len(e.opts.Paths) == 0 {
		return devices
	}
	var out []DeviceInfo
	for _, d := range devices {
		for _, p := range e.opts.Paths {
			if d.Path == p || d.Name == p {
				out = append(out, d)
				break
			}
		}
	}
	return out
}

func (e *Evdev) attach(d DeviceInfo) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.files[d.Path]; ok {
		return nil
	}
	f, err := os.Open(d.Path)
	if err != nil {
		return fmt.Errorf("open %s: %w", d.Path, err)
	}
	e.files[d.Path] = f
	log.Info(fmt.Sprintf("evdev_attach: %s (%s, %s)", d.Path, d.Name, d.Kind))
	go e.readLoop(d.Path, f)
	return nil
}

func (e *Evdev) detach(path string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if f, ok := e.files[path]; ok {
		f.Close()
		delete(e.files, path)
		log.Info("evdev_detach: " + path)
	}
}

func (e *Evdev) watch(w *fsnotify.Watcher) {
	for {
		select {
		case <-e.stop:
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Create) || !strings.HasPrefix(filepath.Base(ev.Name), "event") {
				continue
			}
			time.Sleep(settle)
			d, ok := classify(filepath.Base(ev.Name))
			if !ok {
				continue
			}
			if devs := e.filter([]DeviceInfo{d}); len(devs) == 0 {
				continue
			}
			if err := e.attach(d); err != nil {
				log.Warnf("evdev: %v", err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Warnf("evdev watcher: %v", err)
		}
	}
}

func (e *Evdev) readLoop(path string, f *os.File) {
	defer e.detach(path)
	e.readEvents(f)
}

// readEvents decodes input_event records until r fails or Stop is called.
func (e *Evdev) readEvents(r io.Reader) {
	buf := make([]byte, inputEventSize*16)
	var dx, dy int
	var ax, ay = -1, -1

	for {
		select {
		case <-e.stop:
			return
		default:
		}

		n, err := io.ReadAtLeast(r, buf, inputEventSize)
		if err != nil {
			return
		}
		// keep whole records only
		n -= n % inputEventSize

		for i := 0; i+inputEventSize <= n; i += inputEventSize {
			evType := binary.LittleEndian.Uint16(buf[i+16:])
			evCode := binary.LittleEndian.Uint16(buf[i+18:])
			evValue := int32(binary.LittleEndian.Uint32(buf[i+20:]))

			switch evType {
			case evKey:
				d, code, ok := translateKey(evCode)
				if !ok {
					continue
				}
				switch evValue {
				case keyPress, keyRepeat:
					e.sink.OnPress(d, code)
				case keyRelease:
					e.sink.OnRelease(d, code)
				}
			case evRel:
				switch evCode {
				case relX:
					dx += int(evValue)
				case relY:
					dy += int(evValue)
				}
			case evAbs:
				switch evCode {
				case absX:
					ax = int(evValue)
				case absY:
					ay = int(evValue)
				}
			case evSyn:
				if evCode != synReport {
					continue
				}
				if dx != 0 || dy != 0 || ax >= 0 || ay >= 0 {
					x, y := e.movePointer(dx, dy, ax, ay)
					e.sink.OnPointerMove(x, y)
				}
				dx, dy = 0, 0
				ax, ay = -1, -1
			}
		}
	}
}

func (e *Evdev) movePointer(dx, dy, ax, ay int) (int, int) {
	e.ptrMu.Lock()
	defer e.ptrMu.Unlock()

	x, y := e.ptrX+dx, e.ptrY+dy
	if ax >= 0 {
		x = ax
	}
	if ay >= 0 {
		y = ay
	}
	x = clamp(x, e.opts.Width)
	y = clamp(y, e.opts.Height)
	e.ptrX, e.ptrY = x, y
	return x, y
}

func clamp(v, limit int) int {
	if v < 0 {
		return 0
	}
	if limit > 0 && v >= limit {
		return limit - 1
	}
	return v
}

func (e *Evdev) Stop() {
	e.once.Do(func() {
		if e.stop != nil {
			close(e.stop)
		}
		if e.watcher != nil {
			e.watcher.Close()
		}
		e.mu.Lock()
		for path, f := range e.files {
			f.Close()
			delete(e.files, path)
		}
		e.mu.Unlock()
	})
}

// Devices lists keyboards and mice under /dev/input.
func Devices() ([]DeviceInfo, error) {
	entries, err := os.ReadDir(devInputDir)
	if err != nil {
		return nil, err
	}

	var devices []DeviceInfo
	for _, ent := range entries {
		if !strings.HasPrefix(ent.Name(), "event") {
			continue
		}
		if d, ok := classify(ent.Name()); ok {
			devices = append(devices, d)
		}
	}
	return devices, nil
}

func classify(eventName string) (DeviceInfo, bool) {
	devDir := filepath.Join(sysInputDir, eventName, "device")
	d := DeviceInfo{
		Path: filepath.Join(devInputDir, eventName),
		Name: readSysfs(filepath.Join(devDir, "name")),
	}
	switch {
	case hasPointerAxes(readSysfs(filepath.Join(devDir, "capabilities", "rel"))):
		d.Kind = input.Mouse
	case isKeyboard(readSysfs(filepath.Join(devDir, "capabilities", "key"))):
		d.Kind = input.Keyboard
	default:
		return DeviceInfo{}, false
	}
	if d.Name == "" {
		d.Name = eventName
	}
	return d, true
}

func readSysfs(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// sysfs prints capability bitmaps most significant word first, so the last
// word holds codes 0-63.
func lowWord(caps string) uint64 {
	fields := strings.Fields(caps)
	if len(fields) == 0 {
		return 0
	}
	v, err := strconv.ParseUint(fields[len(fields)-1], 16, 64)
	if err != nil {
		return 0
	}
	return v
}

// A keyboard has at least KEY_A, KEY_Z and KEY_SPACE. Power buttons and
// media remotes do not.
func isKeyboard(caps string) bool {
	const want = 1<<30 | 1<<44 | 1<<57
	return lowWord(caps)&want == want
}

func hasPointerAxes(caps string) bool {
	const want = 1<<relX | 1<<relY
	return lowWord(caps)&want == want
}

// Diagnose checks evdev access and returns a status message.
func Diagnose() (string, error) {
	devices, err := Devices()
	if err != nil {
		return "", fmt.Errorf("cannot scan input devices: %w", err)
	}
	if len(devices) == 0 {
		return "", fmt.Errorf("no keyboard or mouse devices found (is user in 'input' group?)")
	}

	var opened []string
	for _, d := range devices {
		f, err := os.Open(d.Path)
		if err == nil {
			f.Close()
			opened = append(opened, fmt.Sprintf("%s (%s)", d.Path, d.Kind))
		}
	}
	if len(opened) == 0 {
		return "", fmt.Errorf("found %d device(s) but cannot open any (run: sudo usermod -aG input $USER)", len(devices))
	}

	return fmt.Sprintf("%d device(s) found, opened %s", len(devices), strings.Join(opened, ", ")), nil
}
