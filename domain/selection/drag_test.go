package selection

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type dragRecorder struct {
	previews  []DisplayRect
	confirmed []DisplayRect
}

func (r *dragRecorder) preview(d DisplayRect) { r.previews = append(r.previews, d) }
func (r *dragRecorder) confirm(d DisplayRect) { r.confirmed = append(r.confirmed, d) }

func TestDragSession_PressMoveRelease(t *testing.T) {
	rec := &dragRecorder{}
	s := NewDragSession(nil, nil, rec.preview, rec.confirm)
	s.OnPress(Point{100, 50})
	if s.State() != Dragging {
		t.Fatalf("expected dragging after press, got %v", s.State())
	}
	if len(rec.previews) != 1 || rec.previews[0] != (DisplayRect{Left: 100, Top: 50}) {
		t.Fatalf("expected zero-size preview at anchor, got %+v", rec.previews)
	}
	if len(rec.confirmed) != 0 {
		t.Fatalf("press must not confirm")
	}
	s.OnMove(Point{150, 120})
	s.OnRelease(Point{200, 150})
	if s.State() != Idle {
		t.Fatalf("expected idle after release, got %v", s.State())
	}
	want := []DisplayRect{{Left: 100, Top: 50, Width: 100, Height: 100}}
	if diff := cmp.Diff(want, rec.confirmed); diff != "" {
		t.Fatalf("confirmed mismatch (-want +got):\n%s", diff)
	}
}

func TestDragSession_NormalizesReverseDrag(t *testing.T) {
	rec := &dragRecorder{}
	s := NewDragSession(nil, nil, rec.preview, rec.confirm)
	s.OnPress(Point{200, 150})
	s.OnMove(Point{120, 160})
	s.OnRelease(Point{100, 50})
	if got := rec.previews[1]; got != (DisplayRect{Left: 120, Top: 150, Width: 80, Height: 10}) {
		t.Fatalf("unexpected preview %+v", got)
	}
	if got := rec.confirmed[0]; got != (DisplayRect{Left: 100, Top: 50, Width: 100, Height: 100}) {
		t.Fatalf("unexpected confirmed rect %+v", got)
	}
}

func TestDragSession_IgnoresEventsWhileIdle(t *testing.T) {
	rec := &dragRecorder{}
	s := NewDragSession(nil, nil, rec.preview, rec.confirm)
	s.OnMove(Point{10, 10})
	s.OnRelease(Point{20, 20})
	if len(rec.previews) != 0 || len(rec.confirmed) != 0 {
		t.Fatalf("idle session emitted: previews=%v confirmed=%v", rec.previews, rec.confirmed)
	}
	s.OnPress(Point{1, 1})
	s.OnPress(Point{5, 5}) // second press while dragging is ignored
	s.OnRelease(Point{3, 4})
	if got := rec.confirmed[0]; got != (DisplayRect{Left: 1, Top: 1, Width: 2, Height: 3}) {
		t.Fatalf("anchor moved by second press: %+v", got)
	}
}

func TestDragSession_OneConfirmPerPressRelease(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	rec := &dragRecorder{}
	s := NewDragSession(nil, nil, rec.preview, rec.confirm)
	pairs := 0
	for i := 0; i < 2000; i++ {
		p := Point{X: rng.Float64()*400 - 50, Y: rng.Float64()*300 - 50}
		switch rng.Intn(3) {
		case 0:
			s.OnPress(p)
		case 1:
			s.OnMove(p)
		case 2:
			if s.State() == Dragging {
				pairs++
			}
			s.OnRelease(p)
		}
	}
	if len(rec.confirmed) != pairs {
		t.Fatalf("expected %d confirmations, got %d", pairs, len(rec.confirmed))
	}
	for _, r := range append(rec.previews, rec.confirmed...) {
		if r.Width < 0 || r.Height < 0 {
			t.Fatalf("negative extent emitted: %+v", r)
		}
	}
}

func TestDragSession_UnbindsDragListenersOnRelease(t *testing.T) {
	hub := &PointerHub{}
	rec := &dragRecorder{}
	s := NewDragSession(hub, nil, rec.preview, rec.confirm)
	if press, drag := hub.Bound(); !press || drag {
		t.Fatalf("expected only press bound initially, got press=%v drag=%v", press, drag)
	}
	hub.Press(Point{0, 0})
	if _, drag := hub.Bound(); !drag {
		t.Fatalf("expected drag listeners bound during drag")
	}
	hub.Move(Point{5, 5})
	hub.Release(Point{10, 10})
	if _, drag := hub.Bound(); drag {
		t.Fatalf("drag listeners leaked after release")
	}
	// Stray events after the gesture produce nothing.
	hub.Move(Point{50, 50})
	hub.Release(Point{60, 60})
	if len(rec.confirmed) != 1 {
		t.Fatalf("expected exactly one confirmation, got %d", len(rec.confirmed))
	}
	s.Close()
	if press, _ := hub.Bound(); press {
		t.Fatalf("press listener leaked after close")
	}
}

func TestDragSession_CloseCancelsActiveDrag(t *testing.T) {
	hub := &PointerHub{}
	rec := &dragRecorder{}
	s := NewDragSession(hub, nil, rec.preview, rec.confirm)
	hub.Press(Point{0, 0})
	s.Close()
	hub.Release(Point{10, 10})
	hub.Press(Point{1, 1})
	if len(rec.confirmed) != 0 {
		t.Fatalf("closed session confirmed a rect: %+v", rec.confirmed)
	}
	if s.State() != Idle {
		t.Fatalf("expected idle after close")
	}
}

func TestPointerHub_StaleUnbindIsNoop(t *testing.T) {
	hub := &PointerHub{}
	var first, second int
	unbindFirst := hub.BindPress(func(Point) { first++ })
	hub.BindPress(func(Point) { second++ })
	unbindFirst()
	hub.Press(Point{})
	if first != 0 || second != 1 {
		t.Fatalf("stale unbind removed newer listener: first=%d second=%d", first, second)
	}
}
