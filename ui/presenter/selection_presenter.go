package presenter

import (
	"context"
	"image"
	"image/color"
	"log/slog"
	"strings"

	"github.com/soocke/mediavis-go/domain/gateway"
	"github.com/soocke/mediavis-go/domain/media"
	"github.com/soocke/mediavis-go/domain/selection"
	"github.com/soocke/mediavis-go/ui/images"
	"github.com/soocke/mediavis-go/ui/model"
)

// ImageSurface is the displayed image area. It reports its own displayed vs
// natural dimensions and draws selection previews.
type ImageSurface interface {
	selection.Surface
	ShowImage(img image.Image)
	ShowSelection(r selection.DisplayRect, c color.RGBA)
}

// SelectionView holds the controls and panes driven by selection mode.
type SelectionView interface {
	SetStatus(text string)
	SetSelectionActive(active bool)
	ShowRegion(img image.Image)
}

// ImageSource resolves gateway references to decoded images.
type ImageSource interface {
	Image(ctx context.Context, ref string) (image.Image, error)
}

// SelectionPresenter drives selection mode on the current target image and
// swaps in the mixed image once the gateway answers.
type SelectionPresenter struct {
	ctrl    *selection.Controller
	canvas  ImageSurface
	view    SelectionView
	images  ImageSource
	media   *model.MediaModel
	surface *model.SurfaceModel
	post    func(func())
	logger  *slog.Logger

	imageSeq uint64 // bumped on every image change; guards applied-image fetches
}

// NewSelectionPresenter wires a selection controller to the canvas and view.
func NewSelectionPresenter(canvas ImageSurface, pointer selection.PointerSource, mixer selection.ColorMixer, images ImageSource, mm *model.MediaModel, surface *model.SurfaceModel, view SelectionView, post func(func()), clamp bool, logger *slog.Logger) *SelectionPresenter {
	if post == nil {
		post = func(fn func()) { fn() }
	}
	p := &SelectionPresenter{canvas: canvas, view: view, images: images, media: mm, surface: surface, post: post, logger: logger}
	p.ctrl = selection.NewController(canvas, pointer, mixer, selection.Poster(post), logger, selection.ControllerOptions{Clamp: clamp})
	p.ctrl.OnPreview = p.onPreview
	p.ctrl.OnSelected = p.onSelected
	p.ctrl.OnStatus = p.onStatus
	p.ctrl.OnApplied = p.onApplied
	p.ctrl.OnError = p.onError
	surface.OnRelease(model.OwnerSelection, p.release)
	return p
}

// Controller exposes the underlying selection controller.
func (p *SelectionPresenter) Controller() *selection.Controller { return p.ctrl }

// LoadImage makes m the current upload and shows img (nil for non-image
// media). Any selection, drag or in-flight apply on the old image is dropped.
func (p *SelectionPresenter) LoadImage(m gateway.Media, img image.Image) {
	if p == nil {
		return
	}
	p.imageSeq++
	p.ctrl.Invalidate()
	p.media.SetUpload(m, img)
	p.surface.Claim(model.OwnerSelection)
	p.canvas.ShowImage(img)
	p.view.ShowRegion(nil)
	p.view.SetSelectionActive(false)
	p.view.SetStatus("Loaded " + media.Describe(m))
}

// Enable enters selection mode, taking the surface back from playback.
func (p *SelectionPresenter) Enable() error {
	if p == nil {
		return nil
	}
	if p.surface.Owner() != model.OwnerSelection {
		p.surface.Claim(model.OwnerSelection)
		p.canvas.ShowImage(p.media.Image())
	}
	if err := p.ctrl.Enable(); err != nil {
		p.view.SetStatus(UserMessage(err))
		return err
	}
	p.view.ShowRegion(nil)
	p.view.SetSelectionActive(true)
	return nil
}

// Disable leaves selection mode.
func (p *SelectionPresenter) Disable() {
	if p == nil {
		return
	}
	p.ctrl.Disable()
	p.view.SetSelectionActive(false)
}

// Toggle flips selection mode.
func (p *SelectionPresenter) Toggle() error {
	if p == nil {
		return nil
	}
	if p.ctrl.Enabled() {
		p.Disable()
		return nil
	}
	return p.Enable()
}

// Apply sends the confirmed selection and current colour to the gateway.
func (p *SelectionPresenter) Apply() error {
	if p == nil {
		return nil
	}
	if err := p.ctrl.ConfirmApply(context.Background(), p.media.Color()); err != nil {
		p.view.SetStatus(UserMessage(err))
		return err
	}
	p.view.SetSelectionActive(false)
	return nil
}

// SetColor changes the mix colour; a visible preview is not redrawn until
// the next pointer move.
func (p *SelectionPresenter) SetColor(c color.RGBA) {
	if p == nil {
		return
	}
	p.media.SetColor(c)
}

func (p *SelectionPresenter) release() {
	p.ctrl.Disable()
	p.view.SetSelectionActive(false)
}

func (p *SelectionPresenter) onPreview(r selection.DisplayRect) {
	p.canvas.ShowSelection(r, p.media.Color())
}

func (p *SelectionPresenter) onSelected(r selection.SourceRect) {
	img := p.media.Image()
	if img == nil {
		return
	}
	crop, _, err := images.ExtractRegion(img, r)
	if err != nil {
		if p.logger != nil {
			p.logger.Warn("region preview", "error", err)
		}
		return
	}
	p.view.ShowRegion(crop)
}

func (p *SelectionPresenter) onStatus(s string) {
	p.view.SetStatus(s)
}

func (p *SelectionPresenter) onError(err error) {
	p.view.SetStatus(UserMessage(err))
}

// onApplied fetches the mixed image; it replaces the view unless another
// image was loaded in the meantime.
func (p *SelectionPresenter) onApplied(ref string) {
	seq := p.imageSeq
	status := p.ctrl.Status()
	name := p.media.Upload().Name
	go func() {
		img, err := p.images.Image(context.Background(), ref)
		p.post(func() {
			if seq != p.imageSeq {
				if p.logger != nil {
					p.logger.Debug("stale mixed image discarded", "ref", ref)
				}
				return
			}
			if err != nil {
				p.view.SetStatus(UserMessage(err))
				return
			}
			p.imageSeq++
			p.media.SetUpload(gateway.Media{Name: mixedName(name), Data: images.EncodePNG(img)}, img)
			p.surface.Claim(model.OwnerSelection)
			p.canvas.ShowImage(img)
			p.view.ShowRegion(nil)
			p.view.SetStatus(status)
		})
	}()
}

func mixedName(name string) string {
	if name == "" {
		return "mixed.png"
	}
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		name = name[:i]
	}
	if strings.HasSuffix(name, "-mixed") {
		return name + ".png"
	}
	return name + "-mixed.png"
}
