package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"

	"github.com/soocke/mediavis-go/config"
	"github.com/soocke/mediavis-go/debug"
	"github.com/soocke/mediavis-go/domain/gateway"
	"github.com/soocke/mediavis-go/ui/presenter"
	"github.com/soocke/mediavis-go/ui/theme"
	"github.com/soocke/mediavis-go/ui/view"
)

const (
	tick          = 100 * time.Millisecond
	debugInterval = 10 * time.Second
)

type app struct {
	title   string
	width   int
	height  int
	cfg     *config.Config
	cfgPath string
	logger  *slog.Logger

	container *AppContainer
	afterID   string
	cancel    context.CancelFunc
}

func NewApp(title string, width, height int, cfg *config.Config, cfgPath string, logger *slog.Logger) *app {
	if logger == nil {
		logger = slog.Default()
	}
	return &app{title: title, width: width, height: height, cfg: cfg, cfgPath: cfgPath, logger: logger}
}

func (a *app) Start() {
	theme.InitStyles()
	App.WmTitle(a.title)
	WmProtocol(App, "WM_DELETE_WINDOW", a.exitHandler)
	WmGeometry(App, fmt.Sprintf("%dx%d+100+100", a.width, a.height))

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	if a.cfg != nil && a.cfg.Debug {
		debug.StartGoroutineLogger(ctx, debugInterval, a.logger)
		debug.StartMemLogger(ctx, debugInterval, a.logger)
	}

	c, err := BuildContainer(a.cfg, a.cfgPath, a.logger)
	if err != nil {
		a.logger.Error("startup failed", "error", err)
		cancel()
		Destroy(App)
		return
	}
	a.container = c
	c.RootView.Build(a.handlers(), c.Pointer)
	c.BuildPresenters(c.RootView.Canvas, view.TkScheduler{})

	c.Loop.Schedule = a.scheduleUpdate
	a.scheduleUpdate()
	a.logger.Info("started", "gateway", c.Config.GatewayURL)

	App.Wait()
}

func (a *app) handlers() view.Handlers {
	c := func() *AppContainer { return a.container }
	return view.Handlers{
		Open:            func(path string) { _ = c().MediaPresenter.Open(path) },
		Screenshot:      func() { _ = c().MediaPresenter.OpenScreenshot() },
		ToggleSelection: func() { _ = c().SelectionPresenter.Toggle() },
		ApplyColor:      func() { _ = c().SelectionPresenter.Apply() },
		ImageOp:         func(op gateway.ImageOp) { _ = c().MediaPresenter.ImageOp(op) },
		Video:           func() { _ = c().MediaPresenter.Video() },
		Audio:           func() { _ = c().MediaPresenter.Audio() },
		Text:            func(text string) { _ = c().MediaPresenter.Text(text) },
		TogglePlayback: func() {
			if err := c().PlaybackPresenter.Toggle(); err != nil {
				c().RootView.SetStatus(presenter.UserMessage(err))
			}
		},
		ConfigChanged: func(cfg *config.Config) { c().ApplyConfig(cfg) },
		Exit:          a.exitHandler,
	}
}

func (a *app) exitHandler() {
	if a.afterID != "" {
		TclAfterCancel(a.afterID)
	}
	if a.container != nil {
		a.container.PlaybackPresenter.Stop()
		a.container.SelectionPresenter.Disable()
	}
	if a.cancel != nil {
		a.cancel()
	}
	Destroy(App)
}

// scheduleUpdate arms the next Loop tick on Tk's event loop thread.
func (a *app) scheduleUpdate() {
	a.afterID = TclAfter(tick, func() { a.container.Loop.Tick() })
}
