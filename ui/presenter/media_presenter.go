package presenter

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"strings"
	"time"

	"github.com/soocke/mediavis-go/capture"
	"github.com/soocke/mediavis-go/config"
	"github.com/soocke/mediavis-go/domain/gateway"
	"github.com/soocke/mediavis-go/domain/media"
	"github.com/soocke/mediavis-go/ui/images"
	"github.com/soocke/mediavis-go/ui/model"
)

// ErrNoText is returned by Text for blank input.
var ErrNoText = errors.New("presenter: no text entered")

// RequestKind groups requests that may not overlap.
type RequestKind int

const (
	KindImage RequestKind = iota
	KindVideo
	KindAudio
	KindText
)

func (k RequestKind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindVideo:
		return "video"
	case KindAudio:
		return "audio"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// Backend is the part of the gateway used for non-selection requests.
type Backend interface {
	SubmitImageOp(ctx context.Context, m gateway.Media, op gateway.ImageOp, params gateway.ImageParams) (gateway.ImageResult, error)
	SubmitVideo(ctx context.Context, m gateway.Media, frameCount int) (gateway.VideoResult, error)
	SubmitAudio(ctx context.Context, m gateway.Media, sampleCount int) (gateway.AudioResult, error)
	SubmitText(ctx context.Context, text string) (gateway.TextResult, error)
}

// GalleryItem is one captioned image in the results pane.
type GalleryItem struct {
	Caption string
	Image   image.Image
}

// ResultView renders request results.
type ResultView interface {
	SetStatus(text string)
	ShowGallery(title string, items []GalleryItem)
	ShowInfo(title string, lines []string)
}

// MediaCache is the image source for results; it is emptied whenever a new
// file replaces the upload.
type MediaCache interface {
	ImageSource
	Purge()
}

// ImageTarget receives newly opened files.
type ImageTarget interface {
	LoadImage(m gateway.Media, img image.Image)
}

// SequenceTarget receives frame/layer sequences for playback.
type SequenceTarget interface {
	Load(label string, refs []string)
}

// MediaPresenter issues the image, video, audio and text requests. At most
// one request per kind is outstanding; responses superseded by a newly
// opened file are dropped.
type MediaPresenter struct {
	backend Backend
	images  MediaCache
	media   *model.MediaModel
	target  ImageTarget
	frames  SequenceTarget
	view    ResultView
	Config  *config.Config
	post    func(func())
	logger  *slog.Logger

	// Grab captures the screen; defaults to capture.GrabMedia.
	Grab func(now time.Time) (gateway.Media, *image.RGBA, error)

	seq      uint64
	inflight map[RequestKind]uint64
}

// NewMediaPresenter constructs a media presenter.
func NewMediaPresenter(backend Backend, images MediaCache, mm *model.MediaModel, target ImageTarget, frames SequenceTarget, view ResultView, cfg *config.Config, post func(func()), logger *slog.Logger) *MediaPresenter {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if post == nil {
		post = func(fn func()) { fn() }
	}
	return &MediaPresenter{
		backend:  backend,
		images:   images,
		media:    mm,
		target:   target,
		frames:   frames,
		view:     view,
		Config:   cfg,
		post:     post,
		logger:   logger,
		Grab:     capture.GrabMedia,
		inflight: make(map[RequestKind]uint64),
	}
}

// Open loads a local file as the current upload. Image files also become
// the selection target.
func (p *MediaPresenter) Open(path string) error {
	path = strings.TrimSpace(path)
	m, err := media.LoadFile(path)
	if err != nil {
		p.view.SetStatus(UserMessage(err))
		return err
	}
	img, derr := images.DecodeImage(m.Data)
	if derr != nil {
		img = nil
	}
	p.invalidate()
	p.images.Purge()
	p.target.LoadImage(m, img)
	if p.logger != nil {
		p.logger.Info("media opened", "path", path, "image", img != nil)
	}
	return nil
}

// OpenScreenshot captures the screen and uses it as the target image.
func (p *MediaPresenter) OpenScreenshot() error {
	m, img, err := p.Grab(time.Now())
	if err != nil {
		p.view.SetStatus(UserMessage(err))
		return err
	}
	p.invalidate()
	p.images.Purge()
	p.target.LoadImage(m, img)
	return nil
}

// Pending reports whether a request of kind is outstanding.
func (p *MediaPresenter) Pending(kind RequestKind) bool { return p.inflight[kind] != 0 }

// ImageOp runs a decompose, sampling or quantization request on the upload.
// Decomposition layers become the playback sequence.
func (p *MediaPresenter) ImageOp(op gateway.ImageOp) error {
	upload := p.media.Upload()
	if upload.Empty() {
		p.view.SetStatus(UserMessage(ErrNoMedia))
		return ErrNoMedia
	}
	cfg := p.copyConfig()
	params := gateway.ImageParams{Rows: cfg.SamplingRows, Cols: cfg.SamplingCols, Colors: cfg.QuantColors}
	return p.start(KindImage, "Image "+string(op), func(ctx context.Context) (func(), error) {
		res, err := p.backend.SubmitImageOp(ctx, upload, op, params)
		if err != nil {
			return nil, err
		}
		items, err := p.gallery(ctx, imageCaptions(op, res))
		if err != nil {
			return nil, err
		}
		layers := res.Layers()
		return func() {
			p.view.ShowGallery(imageTitle(op), items)
			if op == gateway.OpDecompose && len(layers) > 0 {
				p.frames.Load("RGB layers", layers)
			}
		}, nil
	})
}

// Video extracts frames from the upload; they become the playback sequence.
func (p *MediaPresenter) Video() error {
	upload := p.media.Upload()
	if upload.Empty() {
		p.view.SetStatus(UserMessage(ErrNoMedia))
		return ErrNoMedia
	}
	frames := p.copyConfig().VideoFrames
	return p.start(KindVideo, "Video frames", func(ctx context.Context) (func(), error) {
		res, err := p.backend.SubmitVideo(ctx, upload, frames)
		if err != nil {
			return nil, err
		}
		captions := make([]captioned, 0, len(res.Frames))
		for i, ref := range res.Frames {
			captions = append(captions, captioned{fmt.Sprintf("Frame %d", i+1), ref})
		}
		items, err := p.gallery(ctx, captions)
		if err != nil {
			return nil, err
		}
		info := []string{
			"Duration: " + res.Metadata.Duration,
			fmt.Sprintf("FPS: %.2f", res.Metadata.FPS),
			"Resolution: " + res.Metadata.Resolution,
			fmt.Sprintf("Frames: %d", len(res.Frames)),
		}
		return func() {
			p.view.ShowInfo("Video", info)
			p.view.ShowGallery("Video frames", items)
			p.frames.Load("Video frames", res.Frames)
		}, nil
	})
}

// Audio requests a waveform and binary snippet for the upload.
func (p *MediaPresenter) Audio() error {
	upload := p.media.Upload()
	if upload.Empty() {
		p.view.SetStatus(UserMessage(ErrNoMedia))
		return ErrNoMedia
	}
	samples := p.copyConfig().AudioSamples
	return p.start(KindAudio, "Audio waveform", func(ctx context.Context) (func(), error) {
		res, err := p.backend.SubmitAudio(ctx, upload, samples)
		if err != nil {
			return nil, err
		}
		var items []GalleryItem
		if res.WaveformURL != "" {
			items, err = p.gallery(ctx, []captioned{{"Waveform", res.WaveformURL}})
			if err != nil {
				return nil, err
			}
		}
		return func() {
			p.view.ShowInfo("Audio", audioLines(res))
			p.view.ShowGallery("Audio waveform", items)
		}, nil
	})
}

// Text requests the ascii/hex/binary encoding table of text.
func (p *MediaPresenter) Text(text string) error {
	text = strings.TrimRight(text, "\r\n")
	if strings.TrimSpace(text) == "" {
		p.view.SetStatus(UserMessage(ErrNoText))
		return ErrNoText
	}
	return p.start(KindText, "Text encoding", func(ctx context.Context) (func(), error) {
		res, err := p.backend.SubmitText(ctx, text)
		if err != nil {
			return nil, err
		}
		return func() { p.view.ShowInfo("Text encoding", textLines(res)) }, nil
	})
}

// start runs work on its own goroutine and applies its result on the UI
// thread unless the request was superseded.
func (p *MediaPresenter) start(kind RequestKind, label string, work func(ctx context.Context) (func(), error)) error {
	if p.inflight[kind] != 0 {
		p.view.SetStatus(UserMessage(ErrRequestPending))
		return ErrRequestPending
	}
	p.seq++
	seq := p.seq
	p.inflight[kind] = seq
	p.view.SetStatus(label + "...")
	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if d := p.copyConfig().RequestTimeout(); d > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), d)
	} else {
		ctx, cancel = context.WithCancel(context.Background())
	}
	if p.logger != nil {
		p.logger.Debug("request started", "kind", kind.String(), "seq", seq)
	}
	go func() {
		var apply func()
		err := errors.New("request aborted")
		defer func() {
			cancel()
			if r := recover(); r != nil && p.logger != nil {
				p.logger.Error("request goroutine panic", "kind", kind.String(), "error", r)
			}
			p.post(func() { p.finish(kind, seq, label, apply, err) })
		}()
		apply, err = work(ctx)
	}()
	return nil
}

func (p *MediaPresenter) finish(kind RequestKind, seq uint64, label string, apply func(), err error) {
	if p.inflight[kind] != seq {
		if p.logger != nil {
			p.logger.Debug("stale response discarded", "kind", kind.String(), "seq", seq)
		}
		return
	}
	p.inflight[kind] = 0
	if err != nil {
		if p.logger != nil {
			p.logger.Error("request failed", "kind", kind.String(), "seq", seq, "error", err)
		}
		p.view.SetStatus(UserMessage(err))
		return
	}
	if apply != nil {
		apply()
	}
	p.view.SetStatus(label + " done.")
}

// invalidate drops every outstanding request; their responses become stale.
func (p *MediaPresenter) invalidate() {
	for k := range p.inflight {
		p.inflight[k] = 0
	}
}

type captioned struct {
	caption string
	ref     string
}

func (p *MediaPresenter) gallery(ctx context.Context, refs []captioned) ([]GalleryItem, error) {
	items := make([]GalleryItem, 0, len(refs))
	for _, c := range refs {
		if c.ref == "" {
			continue
		}
		img, err := p.images.Image(ctx, c.ref)
		if err != nil {
			return nil, err
		}
		items = append(items, GalleryItem{Caption: c.caption, Image: img})
	}
	return items, nil
}

func (p *MediaPresenter) copyConfig() *config.Config {
	if p.Config == nil {
		return config.DefaultConfig()
	}
	clone := *p.Config
	return &clone
}

func imageTitle(op gateway.ImageOp) string {
	switch op {
	case gateway.OpDecompose:
		return "RGB decomposition"
	case gateway.OpSampling:
		return "Sampling"
	case gateway.OpQuantization:
		return "Quantization"
	default:
		return string(op)
	}
}

func imageCaptions(op gateway.ImageOp, res gateway.ImageResult) []captioned {
	switch op {
	case gateway.OpDecompose:
		return []captioned{{"Original", res.OriginalURL}, {"Red", res.RedURL}, {"Green", res.GreenURL}, {"Blue", res.BlueURL}}
	case gateway.OpQuantization:
		return []captioned{{"Original", res.OriginalURL}, {"Quantized", res.ProcessedURL}, {"Color space", res.PlotURL}}
	default:
		return []captioned{{"Original", res.OriginalURL}, {"Processed", res.ProcessedURL}}
	}
}

func audioLines(res gateway.AudioResult) []string {
	lines := []string{
		"Duration: " + res.Metadata.Duration,
		"Sample rate: " + res.Metadata.SampleRate,
		fmt.Sprintf("Total samples: %d", res.Metadata.TotalSamples),
	}
	if len(res.BinarySnippet) > 0 {
		lines = append(lines, "", "Binary snippet (16-bit):")
		lines = append(lines, res.BinarySnippet...)
	}
	return lines
}

func textLines(res gateway.TextResult) []string {
	lines := []string{fmt.Sprintf("%-5s %5s %6s %10s", "Char", "ASCII", "Hex", "Binary")}
	for i, code := range res.ASCII {
		var hex, bin string
		if i < len(res.Hex) {
			hex = res.Hex[i]
		}
		if i < len(res.Binary) {
			bin = res.Binary[i]
		}
		lines = append(lines, fmt.Sprintf("%-5s %5d %6s %10s", printable(code), code, hex, bin))
	}
	return lines
}

func printable(code int) string {
	switch {
	case code == ' ':
		return "' '"
	case code < 32 || code == 127:
		return "."
	default:
		return string(rune(code))
	}
}
