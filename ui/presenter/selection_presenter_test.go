package presenter

import (
	"errors"
	"image"
	"strings"
	"testing"
	"time"

	"github.com/soocke/mediavis-go/domain/gateway"
	"github.com/soocke/mediavis-go/domain/selection"
	"github.com/soocke/mediavis-go/ui/model"
)

type selectionFixture struct {
	loop    *Loop
	canvas  *fakeCanvas
	view    *fakeView
	hub     *selection.PointerHub
	mixer   *fakeMixer
	imgs    *fakeImages
	media   *model.MediaModel
	surface *model.SurfaceModel
	p       *SelectionPresenter
}

func newSelectionFixture() *selectionFixture {
	return newSelectionFixtureWith(nil)
}

// newSelectionFixtureWith builds the fixture around mixer; nil uses the
// recording fakeMixer.
func newSelectionFixtureWith(mixer selection.ColorMixer) *selectionFixture {
	f := &selectionFixture{
		loop:    NewLoop(nil, discardLogger),
		canvas:  newFakeCanvas(),
		view:    newFakeView(),
		hub:     &selection.PointerHub{},
		mixer:   &fakeMixer{ref: "/static/mixed.png"},
		imgs:    newFakeImages("/static/mixed.png"),
		surface: model.NewSurfaceModel(discardLogger),
	}
	f.media = model.NewMediaModel(colorRed)
	if mixer == nil {
		mixer = f.mixer
	}
	f.p = NewSelectionPresenter(f.canvas, f.hub, mixer, f.imgs, f.media, f.surface, f.view, f.loop.Post, true, discardLogger)
	return f
}

func (f *selectionFixture) loadPhoto() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 800, 600))
	f.p.LoadImage(gateway.Media{Name: "photo.jpg", Data: []byte{1, 2, 3}}, img)
	return img
}

func (f *selectionFixture) drag(from, to selection.Point) {
	f.hub.Press(from)
	f.hub.Move(to)
	f.hub.Release(to)
}

func TestSelectionPresenter_EnableWithoutImage(t *testing.T) {
	f := newSelectionFixture()
	err := f.p.Enable()
	if !errors.Is(err, selection.ErrNoTargetImage) {
		t.Fatalf("expected ErrNoTargetImage, got %v", err)
	}
	if !strings.Contains(f.view.lastStatus(), "Load an image") {
		t.Fatalf("unexpected status %q", f.view.lastStatus())
	}
	if f.view.selectionActive {
		t.Fatalf("selection must not be active")
	}
}

func TestSelectionPresenter_SelectApplyReplacesImage(t *testing.T) {
	f := newSelectionFixture()
	f.loadPhoto()
	if !strings.HasPrefix(f.view.lastStatus(), "Loaded photo.jpg") {
		t.Fatalf("unexpected load status %q", f.view.lastStatus())
	}
	if err := f.p.Enable(); err != nil {
		t.Fatalf("enable: %v", err)
	}
	if !f.view.selectionActive || f.surface.Owner() != model.OwnerSelection {
		t.Fatalf("selection should own the surface")
	}
	f.drag(selection.Point{X: 100, Y: 50}, selection.Point{X: 200, Y: 150})
	want := selection.SourceRect{X: 200, Y: 100, W: 200, H: 200}
	if got := f.p.Controller().Selection(); got != want {
		t.Fatalf("want %+v got %+v", want, got)
	}
	if f.view.region == nil || f.view.region.Bounds().Dx() != 200 || f.view.region.Bounds().Dy() != 200 {
		t.Fatalf("expected 200x200 region preview, got %v", f.view.region)
	}
	if len(f.canvas.selections) == 0 {
		t.Fatalf("expected preview rectangles on the canvas")
	}

	if err := f.p.Apply(); err != nil {
		t.Fatalf("apply: %v", err)
	}
	mixed := f.imgs.imgs["/static/mixed.png"]
	settle(t, f.loop, func() bool { return f.canvas.last() == mixed })
	if f.mixer.calls[0] != want {
		t.Fatalf("mixer got %+v want %+v", f.mixer.calls[0], want)
	}
	if f.media.Upload().Name != "photo-mixed.png" || f.media.Image() != mixed {
		t.Fatalf("mixed image should become the upload, got %q", f.media.Upload().Name)
	}
	if f.p.Controller().Enabled() || f.view.selectionActive {
		t.Fatalf("apply must exit selection mode")
	}
	if !strings.HasPrefix(f.view.lastStatus(), "Color applied.") {
		t.Fatalf("unexpected status %q", f.view.lastStatus())
	}
}

func TestSelectionPresenter_ApplySendsUploadSelectedOn(t *testing.T) {
	gw := &recordingGateway{release: make(chan struct{})}
	var f *selectionFixture
	f = newSelectionFixtureWith(gateway.Mixer{Gateway: gw, Media: func() gateway.Media { return f.media.Upload() }})
	first := image.NewRGBA(image.Rect(0, 0, 800, 600))
	f.p.LoadImage(gateway.Media{Name: "a.png", Data: []byte{1}}, first)
	if err := f.p.Enable(); err != nil {
		t.Fatalf("enable: %v", err)
	}
	f.drag(selection.Point{X: 10, Y: 10}, selection.Point{X: 60, Y: 60})
	if err := f.p.Apply(); err != nil {
		t.Fatalf("apply: %v", err)
	}
	second := image.NewRGBA(image.Rect(0, 0, 400, 300))
	f.p.LoadImage(gateway.Media{Name: "b.png", Data: []byte{2}}, second)
	close(gw.release)

	settle(t, f.loop, func() bool { return len(gw.uploads()) == 1 })
	if got := gw.uploads()[0]; got != "a.png" {
		t.Fatalf("colour mix sent with %q, want the image it was selected on", got)
	}
	f.loop.Drain()
	if f.media.Upload().Name != "b.png" || f.canvas.last() != second {
		t.Fatalf("late mix result must not replace the newer image, upload %q", f.media.Upload().Name)
	}
}

func TestSelectionPresenter_ApplyWithoutSelection(t *testing.T) {
	f := newSelectionFixture()
	f.loadPhoto()
	_ = f.p.Enable()
	if err := f.p.Apply(); !errors.Is(err, selection.ErrEmptySelection) {
		t.Fatalf("expected ErrEmptySelection, got %v", err)
	}
	if f.mixer.callCount() != 0 {
		t.Fatalf("gateway must not be called")
	}
}

func TestSelectionPresenter_NewImageDropsPendingApply(t *testing.T) {
	f := newSelectionFixture()
	f.loadPhoto()
	_ = f.p.Enable()
	f.drag(selection.Point{X: 10, Y: 10}, selection.Point{X: 50, Y: 50})
	if err := f.p.Apply(); err != nil {
		t.Fatalf("apply: %v", err)
	}
	next := image.NewRGBA(image.Rect(0, 0, 64, 64))
	f.p.LoadImage(gateway.Media{Name: "next.png", Data: []byte{9}}, next)
	settle(t, f.loop, func() bool { return f.mixer.callCount() == 1 })
	time.Sleep(20 * time.Millisecond)
	f.loop.Drain()
	if f.canvas.last() != next {
		t.Fatalf("stale mix result replaced the new image")
	}
	if f.media.Upload().Name != "next.png" {
		t.Fatalf("upload changed by stale result: %q", f.media.Upload().Name)
	}
}

func TestSelectionPresenter_GatewayErrorShownAsStatus(t *testing.T) {
	f := newSelectionFixture()
	f.mixer.err = &gateway.Error{Op: "mix_colors", Status: 500, Message: "backend exploded"}
	f.loadPhoto()
	_ = f.p.Enable()
	f.drag(selection.Point{X: 0, Y: 0}, selection.Point{X: 40, Y: 40})
	_ = f.p.Apply()
	settle(t, f.loop, func() bool { return strings.Contains(f.view.lastStatus(), "backend exploded") })
	if f.p.Controller().Pending() {
		t.Fatalf("request should be finished")
	}
}

func TestSelectionPresenter_PlaybackTakesSurface(t *testing.T) {
	f := newSelectionFixture()
	photo := f.loadPhoto()
	f.imgs.imgs["/f/1.png"] = image.NewRGBA(image.Rect(0, 0, 4, 4))
	sched := &manualScheduler{}
	pb := NewPlaybackPresenter(sched, f.imgs, f.canvas, f.view, f.surface, f.loop.Post, 0, discardLogger)

	if err := f.p.Enable(); err != nil {
		t.Fatalf("enable: %v", err)
	}
	pb.Load("frames", []string{"/f/1.png"})
	settle(t, f.loop, pb.Ready)
	if err := pb.Play(); err != nil {
		t.Fatalf("play: %v", err)
	}
	if f.p.Controller().Enabled() || f.view.selectionActive {
		t.Fatalf("playback must end selection mode")
	}
	if f.surface.Owner() != model.OwnerPlayback {
		t.Fatalf("expected playback owner, got %v", f.surface.Owner())
	}

	if err := f.p.Enable(); err != nil {
		t.Fatalf("re-enable: %v", err)
	}
	if pb.Active() || sched.live() != 0 {
		t.Fatalf("selection must stop playback")
	}
	if f.canvas.last() != photo {
		t.Fatalf("target image should be shown again")
	}
}

func TestMixedName(t *testing.T) {
	cases := map[string]string{
		"":               "mixed.png",
		"cat.jpg":        "cat-mixed.png",
		"cat-mixed.png":  "cat-mixed.png",
		"archive.tar.gz": "archive.tar-mixed.png",
		".hidden":        ".hidden-mixed.png",
	}
	for in, want := range cases {
		if got := mixedName(in); got != want {
			t.Fatalf("mixedName(%q) = %q, want %q", in, got, want)
		}
	}
}
