package input

import "testing"

func TestPointerSentinel(t *testing.T) {
	r := NewRegistry()
	p := r.Pointer()
	if p.X() != -1 || p.Y() != -1 {
		t.Errorf("initial = (%d, %d), want (-1, -1)", p.X(), p.Y())
	}
	r.Tick()
	if x, y := p.Position(); x != -1 || y != -1 {
		t.Errorf("after idle tick = (%d, %d), want (-1, -1)", x, y)
	}
}

func TestPointerCommitsOnTick(t *testing.T) {
	r := NewRegistry()
	p := r.Pointer()

	r.OnPointerMove(10, 20)
	if p.X() != -1 {
		t.Error("move visible before tick")
	}

	r.OnPointerMove(30, 40)
	r.OnPointerMove(50, 60)
	r.Tick()
	if x, y := p.Position(); x != 50 || y != 60 {
		t.Errorf("committed = (%d, %d), want last move (50, 60)", x, y)
	}

	r.Tick()
	if x, y := p.Position(); x != 50 || y != 60 {
		t.Errorf("position should be stable between moves, got (%d, %d)", x, y)
	}
}

func TestPackRoundTrip(t *testing.T) {
	for _, c := range [][2]int{{0, 0}, {-1, -1}, {1920, 1080}, {-5, 7}, {1 << 30, -(1 << 30)}} {
		x, y := unpack(pack(c[0], c[1]))
		if x != c[0] || y != c[1] {
			t.Errorf("unpack(pack(%d, %d)) = (%d, %d)", c[0], c[1], x, y)
		}
	}
}
