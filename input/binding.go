package input

// Binding is an application-held handle on one key reference. Several
// bindings may share a reference and then always report the same state.
// A Binding is not safe for concurrent rebinding. Handles come from
// Registry.Bind or Registry.NewBinding; the zero value is not usable.
type Binding struct {
	reg *Registry
	ref *keyRef
}

// Bind points b at (d, code), dropping its previous reference first.
func (b *Binding) Bind(d Device, code int) {
	if b.reg == nil {
		panic("input: Binding not created by a Registry")
	}
	mustDevice(d)
	b.Unbind()
	b.ref = b.reg.link(d, code)
}

func (b *Binding) Unbind() {
	if b.ref == nil {
		return
	}
	ref := b.ref
	b.ref = nil
	b.reg.unlink(ref)
}

func (b *Binding) Bound() bool { return b.ref != nil }

func (b *Binding) Device() Device {
	if b.ref == nil {
		return DeviceNone
	}
	return b.ref.device
}

func (b *Binding) Code() int {
	if b.ref == nil {
		return CodeNone
	}
	return b.ref.code
}

func (b *Binding) IsDown() bool {
	return b.ref != nil && b.ref.down.Load()
}

func (b *Binding) IsPressed() bool {
	return b.PressCount() != 0
}

func (b *Binding) IsReleased() bool {
	return b.ReleaseCount() != 0
}

func (b *Binding) PressCount() int {
	if b.ref == nil {
		return 0
	}
	return int(b.ref.pressCount.Load())
}

func (b *Binding) ReleaseCount() int {
	if b.ref == nil {
		return 0
	}
	return int(b.ref.releaseCount.Load())
}

func (b *Binding) String() string {
	return KeyName(b.Device(), b.Code())
}
