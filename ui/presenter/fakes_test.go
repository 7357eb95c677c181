package presenter

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/soocke/mediavis-go/domain/gateway"
	"github.com/soocke/mediavis-go/domain/playback"
	"github.com/soocke/mediavis-go/domain/selection"
)

var discardLogger = slog.New(slog.NewTextHandler(&discardWriter{}, nil))

type discardWriter struct{}

func (d *discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// settle drains the loop until cond holds or the deadline passes.
func settle(t *testing.T, loop *Loop, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		loop.Drain()
		if cond() {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("condition not reached before deadline")
		}
		time.Sleep(2 * time.Millisecond)
	}
}

// fakeCanvas displays images at a fixed fraction of their natural size.
type fakeCanvas struct {
	scale      float64
	shown      []image.Image
	selections []selection.DisplayRect
	natural    image.Rectangle
	present    bool
}

func newFakeCanvas() *fakeCanvas { return &fakeCanvas{scale: 0.5} }

func (c *fakeCanvas) Metrics() (selection.DisplayMetrics, bool) {
	if !c.present {
		return selection.DisplayMetrics{}, false
	}
	w, h := float64(c.natural.Dx()), float64(c.natural.Dy())
	return selection.DisplayMetrics{DisplayedWidth: w * c.scale, DisplayedHeight: h * c.scale, NaturalWidth: w, NaturalHeight: h}, true
}

func (c *fakeCanvas) ShowImage(img image.Image) {
	c.shown = append(c.shown, img)
	if img == nil {
		c.present = false
		return
	}
	c.present = true
	c.natural = img.Bounds()
}

func (c *fakeCanvas) ShowSelection(r selection.DisplayRect, _ color.RGBA) {
	c.selections = append(c.selections, r)
}

func (c *fakeCanvas) last() image.Image {
	if len(c.shown) == 0 {
		return nil
	}
	return c.shown[len(c.shown)-1]
}

// fakeView implements every view contract used by the presenters.
type fakeView struct {
	statuses         []string
	selectionActive  bool
	region           image.Image
	playbackStatuses []string
	playing          bool
	galleries        map[string][]GalleryItem
	infos            map[string][]string
}

func newFakeView() *fakeView {
	return &fakeView{galleries: map[string][]GalleryItem{}, infos: map[string][]string{}}
}

func (v *fakeView) SetStatus(s string)                    { v.statuses = append(v.statuses, s) }
func (v *fakeView) SetSelectionActive(b bool)             { v.selectionActive = b }
func (v *fakeView) ShowRegion(img image.Image)            { v.region = img }
func (v *fakeView) SetPlaybackStatus(s string)            { v.playbackStatuses = append(v.playbackStatuses, s) }
func (v *fakeView) SetPlaying(b bool)                     { v.playing = b }
func (v *fakeView) ShowGallery(t string, i []GalleryItem) { v.galleries[t] = i }
func (v *fakeView) ShowInfo(t string, l []string)         { v.infos[t] = l }

func (v *fakeView) lastStatus() string {
	if len(v.statuses) == 0 {
		return ""
	}
	return v.statuses[len(v.statuses)-1]
}

// fakeImages serves solid images keyed by reference.
type fakeImages struct {
	mu      sync.Mutex
	imgs    map[string]image.Image
	purges  int
	fail    map[string]error
	release chan struct{}
}

func newFakeImages(refs ...string) *fakeImages {
	f := &fakeImages{imgs: map[string]image.Image{}, fail: map[string]error{}}
	for i, r := range refs {
		f.imgs[r] = image.NewRGBA(image.Rect(0, 0, 10+i, 10+i))
	}
	return f
}

func (f *fakeImages) Image(ctx context.Context, ref string) (image.Image, error) {
	if f.release != nil {
		<-f.release
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail[ref]; err != nil {
		return nil, err
	}
	img, ok := f.imgs[ref]
	if !ok {
		return nil, fmt.Errorf("unknown ref %s", ref)
	}
	return img, nil
}

func (f *fakeImages) Preload(ctx context.Context, refs []string) ([]image.Image, error) {
	out := make([]image.Image, 0, len(refs))
	for _, r := range refs {
		img, err := f.Image(ctx, r)
		if err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, nil
}

func (f *fakeImages) Purge() {
	f.mu.Lock()
	f.purges++
	f.mu.Unlock()
}

func (f *fakeImages) purgeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.purges
}

type fakeMixer struct {
	mu    sync.Mutex
	calls []selection.SourceRect
	ref   string
	err   error
}

func (m *fakeMixer) MixColor(ctx context.Context, r selection.SourceRect, c color.RGBA) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, r)
	return m.ref, m.err
}

func (m *fakeMixer) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// recordingGateway records the upload each colour mix is sent with. Calls
// block until release is closed.
type recordingGateway struct {
	gateway.Gateway
	mu      sync.Mutex
	names   []string
	release chan struct{}
}

func (g *recordingGateway) SubmitColorMix(ctx context.Context, m gateway.Media, r selection.SourceRect, c color.RGBA) (gateway.ImageResult, error) {
	<-g.release
	g.mu.Lock()
	g.names = append(g.names, m.Name)
	g.mu.Unlock()
	return gateway.ImageResult{ProcessedURL: "/static/mixed.png"}, nil
}

func (g *recordingGateway) uploads() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.names...)
}

// manualScheduler fires ticks only when the test asks.
type manualScheduler struct {
	tasks []*manualTask
}

type manualTask struct {
	fn      func()
	stopped bool
}

func (s *manualScheduler) Every(_ time.Duration, fn func()) playback.Cancel {
	t := &manualTask{fn: fn}
	s.tasks = append(s.tasks, t)
	return func() { t.stopped = true }
}

func (s *manualScheduler) fire(n int) {
	for i := 0; i < n; i++ {
		for _, t := range s.tasks {
			if !t.stopped {
				t.fn()
			}
		}
	}
}

func (s *manualScheduler) live() int {
	n := 0
	for _, t := range s.tasks {
		if !t.stopped {
			n++
		}
	}
	return n
}

// fakeBackend answers media requests from canned results.
type fakeBackend struct {
	mu      sync.Mutex
	image   gateway.ImageResult
	video   gateway.VideoResult
	audio   gateway.AudioResult
	text    gateway.TextResult
	err     error
	release chan struct{}
	ops     []gateway.ImageOp
	params  []gateway.ImageParams
	frames  []int
	samples []int
}

func (b *fakeBackend) wait() {
	if b.release != nil {
		<-b.release
	}
}

func (b *fakeBackend) SubmitImageOp(ctx context.Context, m gateway.Media, op gateway.ImageOp, p gateway.ImageParams) (gateway.ImageResult, error) {
	b.wait()
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ops = append(b.ops, op)
	b.params = append(b.params, p)
	return b.image, b.err
}

func (b *fakeBackend) SubmitVideo(ctx context.Context, m gateway.Media, n int) (gateway.VideoResult, error) {
	b.wait()
	b.mu.Lock()
	defer b.mu.Unlock()
	b.frames = append(b.frames, n)
	return b.video, b.err
}

func (b *fakeBackend) SubmitAudio(ctx context.Context, m gateway.Media, n int) (gateway.AudioResult, error) {
	b.wait()
	b.mu.Lock()
	defer b.mu.Unlock()
	b.samples = append(b.samples, n)
	return b.audio, b.err
}

func (b *fakeBackend) SubmitText(ctx context.Context, text string) (gateway.TextResult, error) {
	b.wait()
	return b.text, b.err
}

var errBoom = errors.New("boom")

var colorRed = color.RGBA{R: 255, A: 255}
