package selection

// PointerHub is a PointerSource fed by a UI toolkit. The toolkit binds its
// native press/motion/release events once and forwards them here; sessions
// attach and detach listeners without touching the toolkit bindings.
// The zero value is ready to use. Not safe for concurrent use.
type PointerHub struct {
	press   func(Point)
	move    func(Point)
	release func(Point)
	pressID uint64
	dragID  uint64
}

// BindPress installs fn as the press listener, replacing any previous one.
func (h *PointerHub) BindPress(fn func(Point)) func() {
	h.pressID++
	id := h.pressID
	h.press = fn
	return func() {
		if h.pressID == id {
			h.press = nil
		}
	}
}

// BindDrag installs the move and release listeners, replacing previous ones.
func (h *PointerHub) BindDrag(move, release func(Point)) func() {
	h.dragID++
	id := h.dragID
	h.move, h.release = move, release
	return func() {
		if h.dragID == id {
			h.move, h.release = nil, nil
		}
	}
}

// Press forwards a press event.
func (h *PointerHub) Press(p Point) {
	if h.press != nil {
		h.press(p)
	}
}

// Move forwards a motion event.
func (h *PointerHub) Move(p Point) {
	if h.move != nil {
		h.move(p)
	}
}

// Release forwards a release event.
func (h *PointerHub) Release(p Point) {
	if h.release != nil {
		h.release(p)
	}
}

// Bound reports which listener slots are occupied.
func (h *PointerHub) Bound() (press, drag bool) {
	return h.press != nil, h.move != nil || h.release != nil
}

var _ PointerSource = (*PointerHub)(nil)
