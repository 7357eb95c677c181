package presenter

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/soocke/mediavis-go/domain/playback"
	"github.com/soocke/mediavis-go/ui/model"
)

// ErrFramesLoading is returned by Play while the sequence is still being
// downloaded.
var ErrFramesLoading = errors.New("presenter: frames still loading")

// FrameStore fetches and decodes a whole sequence.
type FrameStore interface {
	Preload(ctx context.Context, refs []string) ([]image.Image, error)
}

// FrameCanvas shows one frame.
type FrameCanvas interface {
	ShowImage(img image.Image)
}

// PlaybackView reflects playback state in the controls.
type PlaybackView interface {
	SetPlaybackStatus(text string)
	SetPlaying(playing bool)
}

// PlaybackPresenter animates the latest frame or layer sequence on the image
// surface through a playback.Cycler.
type PlaybackPresenter struct {
	cycler   *playback.Cycler
	handle   *playback.Handle
	store    FrameStore
	canvas   FrameCanvas
	view     PlaybackView
	surface  *model.SurfaceModel
	post     func(func())
	logger   *slog.Logger
	interval time.Duration

	label   string
	refs    []string
	frames  []image.Image // decoded refs, held for the life of the sequence
	ready   bool
	loadSeq uint64
}

// NewPlaybackPresenter builds the presenter and its cycler. sched decides
// which thread ticks run on; the Tk view passes a TclAfter scheduler.
func NewPlaybackPresenter(sched playback.Scheduler, store FrameStore, canvas FrameCanvas, view PlaybackView, surface *model.SurfaceModel, post func(func()), interval time.Duration, logger *slog.Logger) *PlaybackPresenter {
	if post == nil {
		post = func(fn func()) { fn() }
	}
	p := &PlaybackPresenter{store: store, canvas: canvas, view: view, surface: surface, post: post, logger: logger, interval: interval}
	p.cycler = playback.NewCycler(sched, p.show, interval, logger)
	surface.OnRelease(model.OwnerPlayback, p.release)
	return p
}

// Load replaces the sequence. A running cycle over the old sequence stops
// first; the new frames are preloaded in the background.
func (p *PlaybackPresenter) Load(label string, refs []string) {
	if p == nil {
		return
	}
	p.Stop()
	p.loadSeq++
	seq := p.loadSeq
	p.label = label
	p.refs = append([]string(nil), refs...)
	p.frames = nil
	p.ready = false
	if len(p.refs) == 0 {
		p.view.SetPlaybackStatus(label + ": no frames")
		return
	}
	p.view.SetPlaybackStatus(fmt.Sprintf("%s: loading %d frames...", label, len(p.refs)))
	refsCopy := append([]string(nil), p.refs...)
	go func() {
		var frames []image.Image
		err := errors.New("preload aborted")
		defer func() {
			if r := recover(); r != nil && p.logger != nil {
				p.logger.Error("preload goroutine panic", "error", r)
			}
			p.post(func() { p.loaded(seq, frames, err) })
		}()
		frames, err = p.store.Preload(context.Background(), refsCopy)
	}()
}

func (p *PlaybackPresenter) loaded(seq uint64, frames []image.Image, err error) {
	if seq != p.loadSeq {
		return
	}
	if err != nil {
		if p.logger != nil {
			p.logger.Error("frame preload", "label", p.label, "error", err)
		}
		p.view.SetPlaybackStatus(UserMessage(err))
		return
	}
	if len(frames) != len(p.refs) {
		p.view.SetPlaybackStatus(fmt.Sprintf("%s: got %d of %d frames", p.label, len(frames), len(p.refs)))
		return
	}
	p.frames = frames
	p.ready = true
	p.view.SetPlaybackStatus(fmt.Sprintf("%s: %d frames ready", p.label, len(p.refs)))
}

// Ready reports whether the current sequence is fully loaded.
func (p *PlaybackPresenter) Ready() bool { return p != nil && p.ready }

// Play starts cycling the current sequence on the surface, taking it over
// from selection mode.
func (p *PlaybackPresenter) Play() error {
	if p == nil {
		return nil
	}
	if len(p.refs) == 0 {
		p.view.SetPlaybackStatus(UserMessage(playback.ErrEmptySequence))
		return playback.ErrEmptySequence
	}
	if !p.ready {
		return ErrFramesLoading
	}
	p.surface.Claim(model.OwnerPlayback)
	h, err := p.cycler.Start(p.refs, p.interval)
	if err != nil {
		p.surface.Release(model.OwnerPlayback)
		p.view.SetPlaybackStatus(UserMessage(err))
		return err
	}
	p.handle = h
	p.view.SetPlaying(true)
	return nil
}

// Stop halts the animation, leaving the last frame on screen.
func (p *PlaybackPresenter) Stop() {
	if p == nil {
		return
	}
	p.cycler.Stop()
	p.handle = nil
	p.surface.Release(model.OwnerPlayback)
	p.view.SetPlaying(false)
}

// Toggle starts or stops playback.
func (p *PlaybackPresenter) Toggle() error {
	if p == nil {
		return nil
	}
	if p.cycler.Active() {
		p.Stop()
		return nil
	}
	return p.Play()
}

// SetInterval changes the period used by the next Play.
func (p *PlaybackPresenter) SetInterval(d time.Duration) {
	if p == nil || d <= 0 {
		return
	}
	p.interval = d
	p.cycler.SetInterval(d)
}

// Active reports whether a cycle is running.
func (p *PlaybackPresenter) Active() bool { return p != nil && p.cycler.Active() }

func (p *PlaybackPresenter) release() {
	p.handle.Stop()
	p.handle = nil
	p.view.SetPlaying(false)
}

// show runs under the cycler lock and must not call back into it.
func (p *PlaybackPresenter) show(f playback.Frame) {
	if f.Index < 0 || f.Index >= len(p.frames) {
		if p.logger != nil {
			p.logger.Debug("frame out of range", "ref", f.Ref, "index", f.Index)
		}
		return
	}
	p.canvas.ShowImage(p.frames[f.Index])
	p.view.SetPlaybackStatus(fmt.Sprintf("%s: %d/%d", p.label, f.Index+1, len(p.refs)))
}
