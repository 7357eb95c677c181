package view

import (
	"image"
	"log/slog"
	"strings"

	"github.com/soocke/mediavis-go/config"
	"github.com/soocke/mediavis-go/domain/gateway"
	"github.com/soocke/mediavis-go/domain/selection"
	"github.com/soocke/mediavis-go/ui/presenter"
	"github.com/soocke/mediavis-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// Handlers are invoked on user actions. Nil entries disable the control.
type Handlers struct {
	Open            func(path string)
	Screenshot      func()
	ToggleSelection func()
	ApplyColor      func()
	ImageOp         func(op gateway.ImageOp)
	Video           func()
	Audio           func()
	Text            func(text string)
	TogglePlayback  func()
	ConfigChanged   func(cfg *config.Config)
	Exit            func()
}

// RootView composes the top-level layout. It implements the view contracts
// of the selection, playback and media presenters.
type RootView struct {
	cfg     *config.Config
	cfgPath string
	logger  *slog.Logger

	// Subviews
	Canvas      *ImageSurface
	Results     *ResultsPane
	ConfigPanel ConfigPanel

	// Widgets
	pathEntry    *TextWidget
	textEntry    *TextWidget
	statusLabel  *TLabelWidget
	playbackLbl  *TLabelWidget
	selectionBtn *TButtonWidget
	applyBtn     *TButtonWidget
	playBtn      *TButtonWidget
}

var (
	_ presenter.SelectionView = (*RootView)(nil)
	_ presenter.PlaybackView  = (*RootView)(nil)
	_ presenter.ResultView    = (*RootView)(nil)
)

func NewRootView(cfg *config.Config, cfgPath string, logger *slog.Logger) *RootView {
	return &RootView{cfg: cfg, cfgPath: cfgPath, logger: logger}
}

// Build constructs the layout. hub receives pointer events from the image
// surface.
func (rv *RootView) Build(h Handlers, hub *selection.PointerHub) {
	if rv == nil {
		return
	}
	// Row 0: path entry and file actions
	bar := Frame()
	Grid(bar, Row(0), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	Grid(TLabel(Txt("File"), Style(theme.StyleHeaderLabel)), In(bar), Row(0), Column(0), Sticky("w"), Padx("0.3m"))
	rv.pathEntry = Text(Height(1), Width(60))
	Grid(rv.pathEntry, In(bar), Row(0), Column(1), Sticky("we"), Padx("0.3m"))
	col := 2
	button := func(parent *FrameWidget, label, style string, row int, fn func()) *TButtonWidget {
		b := TButton(Txt(label), Style(style), Command(func() {
			if fn != nil {
				fn()
			}
		}))
		if fn == nil {
			b.Configure(State("disabled"))
		}
		Grid(b, In(parent), Row(row), Column(col), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
		col++
		return b
	}
	button(bar, "Open", theme.StylePrimaryButton, 0, func() {
		if h.Open != nil {
			h.Open(rv.entryText(rv.pathEntry))
		}
	})
	button(bar, "Screenshot", theme.StyleToolButton, 0, h.Screenshot)
	button(bar, "Dark Mode", theme.StyleToolButton, 0, func() { theme.ToggleDark() })
	button(bar, "Exit", theme.StyleDangerButton, 0, h.Exit)

	// Row 1: status line
	rv.statusLabel = TLabel(Txt("Open an image, video or audio file to begin."), Style(theme.StyleStatusLabel), Anchor("w"))
	Grid(rv.statusLabel, Row(1), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))

	// Row 2 left: image surface and its controls
	left := Frame()
	Grid(left, Row(2), Column(0), Sticky("nw"), Padx("0.4m"), Pady("0.3m"))
	controls := Frame()
	Grid(controls, In(left), Row(0), Column(0), Sticky("we"))
	col = 0
	rv.selectionBtn = button(controls, "Start Selection Mode", theme.StylePrimaryButton, 0, h.ToggleSelection)
	rv.applyBtn = button(controls, "Apply Color", theme.StyleToolButton, 0, h.ApplyColor)
	rv.applyBtn.Configure(State("disabled"))
	rv.playBtn = button(controls, "Play", theme.StyleToolButton, 0, h.TogglePlayback)
	rv.playbackLbl = TLabel(Txt(""), Style(theme.StyleMutedLabel))
	Grid(rv.playbackLbl, In(controls), Row(0), Column(col), Sticky("w"), Padx("0.4m"))
	rv.Canvas = NewImageSurface(left, 1, 0, rv.cfg.PreviewMaxW, rv.cfg.PreviewMaxH, hub, rv.logger)

	// Row 2 right: requests, parameters and results
	right := Frame()
	Grid(right, Row(2), Column(1), Sticky("nw"), Padx("0.4m"), Pady("0.3m"))
	ops := Frame()
	Grid(ops, In(right), Row(0), Column(0), Columnspan(3), Sticky("we"))
	col = 0
	imageOp := func(op gateway.ImageOp) func() {
		if h.ImageOp == nil {
			return nil
		}
		return func() { h.ImageOp(op) }
	}
	button(ops, "Decompose", theme.StyleToolButton, 0, imageOp(gateway.OpDecompose))
	button(ops, "Sampling", theme.StyleToolButton, 0, imageOp(gateway.OpSampling))
	button(ops, "Quantize", theme.StyleToolButton, 0, imageOp(gateway.OpQuantization))
	button(ops, "Video Frames", theme.StyleToolButton, 0, h.Video)
	button(ops, "Audio", theme.StyleToolButton, 0, h.Audio)

	textRow := Frame()
	Grid(textRow, In(right), Row(1), Column(0), Columnspan(3), Sticky("we"), Pady("0.3m"))
	Grid(TLabel(Txt("Text")), In(textRow), Row(0), Column(0), Sticky("w"), Padx("0.3m"))
	rv.textEntry = Text(Height(1), Width(36))
	Grid(rv.textEntry, In(textRow), Row(0), Column(1), Sticky("we"), Padx("0.3m"))
	col = 2
	button(textRow, "Encode", theme.StyleToolButton, 0, func() {
		if h.Text != nil {
			h.Text(rv.entryText(rv.textEntry))
		}
	})

	rv.ConfigPanel = NewConfigPanel(rv.cfg, rv.cfgPath, rv.logger, h.ConfigChanged)
	row := rv.ConfigPanel.Build(right, 2)
	rv.Results, _ = NewResultsPane(right, row)
}

func (rv *RootView) entryText(w *TextWidget) string {
	if w == nil {
		return ""
	}
	return strings.TrimSpace(strings.Join(w.Get("1.0", END), ""))
}

// SetStatus updates the status line.
func (rv *RootView) SetStatus(text string) {
	if rv != nil && rv.statusLabel != nil {
		rv.statusLabel.Configure(Txt(text))
	}
}

// SetSelectionActive flips the selection toggle label and the apply button.
func (rv *RootView) SetSelectionActive(active bool) {
	if rv == nil || rv.selectionBtn == nil {
		return
	}
	if active {
		rv.selectionBtn.Configure(Txt("Exit Selection Mode"))
		rv.applyBtn.Configure(State("normal"))
		return
	}
	rv.selectionBtn.Configure(Txt("Start Selection Mode"))
	rv.applyBtn.Configure(State("disabled"))
}

// ShowRegion proxies to the results pane.
func (rv *RootView) ShowRegion(img image.Image) {
	if rv != nil {
		rv.Results.ShowRegion(img)
	}
}

func (rv *RootView) SetPlaybackStatus(text string) {
	if rv != nil && rv.playbackLbl != nil {
		rv.playbackLbl.Configure(Txt(text))
	}
}

func (rv *RootView) SetPlaying(playing bool) {
	if rv == nil || rv.playBtn == nil {
		return
	}
	if playing {
		rv.playBtn.Configure(Txt("Stop"))
	} else {
		rv.playBtn.Configure(Txt("Play"))
	}
	// parameters are locked while frames cycle
	if rv.ConfigPanel != nil {
		rv.ConfigPanel.SetEditable(!playing)
	}
}

// ShowGallery proxies to the results pane.
func (rv *RootView) ShowGallery(title string, items []presenter.GalleryItem) {
	if rv != nil {
		rv.Results.ShowGallery(title, items)
	}
}

// ShowInfo proxies to the results pane.
func (rv *RootView) ShowInfo(title string, lines []string) {
	if rv != nil {
		rv.Results.ShowInfo(title, lines)
	}
}
