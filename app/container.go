package app

import (
	"fmt"
	"log/slog"

	"github.com/soocke/mediavis-go/config"
	"github.com/soocke/mediavis-go/domain/gateway"
	"github.com/soocke/mediavis-go/domain/media"
	"github.com/soocke/mediavis-go/domain/playback"
	"github.com/soocke/mediavis-go/domain/selection"
	"github.com/soocke/mediavis-go/ui/model"
	"github.com/soocke/mediavis-go/ui/presenter"
	"github.com/soocke/mediavis-go/ui/view"
)

// AppContainer assembles models, services, presenters and the root view.
type AppContainer struct {
	Config     *config.Config
	ConfigPath string
	Logger     *slog.Logger

	Gateway  *gateway.Client
	Store    *media.Store
	Media    *model.MediaModel
	Surface  *model.SurfaceModel
	Pointer  *selection.PointerHub
	RootView *view.RootView
	Loop     *presenter.Loop

	// Presenters
	SelectionPresenter *presenter.SelectionPresenter
	PlaybackPresenter  *presenter.PlaybackPresenter
	MediaPresenter     *presenter.MediaPresenter
}

// BuildContainer constructs services and models. No widgets are created;
// presenters are wired by BuildPresenters once the view exists.
func BuildContainer(cfg *config.Config, cfgPath string, logger *slog.Logger) (*AppContainer, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	client, err := gateway.NewClient(cfg.GatewayURL, cfg.RequestTimeout(), logger)
	if err != nil {
		return nil, fmt.Errorf("gateway client: %w", err)
	}
	c := &AppContainer{Config: cfg, ConfigPath: cfgPath, Logger: logger, Gateway: client}
	c.Store = media.NewStore(client, cfg.MediaCacheSize, logger)
	c.Media = model.NewMediaModel(cfg.MixColor())
	c.Surface = model.NewSurfaceModel(logger)
	c.Pointer = &selection.PointerHub{}
	c.Loop = presenter.NewLoop(nil, logger)
	c.RootView = view.NewRootView(cfg, cfgPath, logger)
	return c, nil
}

// BuildPresenters wires presenters to canvas and the root view. sched drives
// playback ticks.
func (c *AppContainer) BuildPresenters(canvas presenter.ImageSurface, sched playback.Scheduler) {
	c.buildPresenters(canvas, c.RootView, sched)
}

type views interface {
	presenter.SelectionView
	presenter.PlaybackView
	presenter.ResultView
}

func (c *AppContainer) buildPresenters(canvas presenter.ImageSurface, v views, sched playback.Scheduler) {
	post := c.Loop.Post
	mixer := gateway.Mixer{Gateway: c.Gateway, Media: c.Media.Upload}
	c.SelectionPresenter = presenter.NewSelectionPresenter(canvas, c.Pointer, mixer, c.Store, c.Media, c.Surface, v, post, c.Config.ClampSelection, c.Logger)
	c.PlaybackPresenter = presenter.NewPlaybackPresenter(sched, c.Store, canvas, v, c.Surface, post, c.Config.PlaybackInterval(), c.Logger)
	c.MediaPresenter = presenter.NewMediaPresenter(c.Gateway, c.Store, c.Media, c.SelectionPresenter, c.PlaybackPresenter, v, c.Config, post, c.Logger)
}

// ApplyConfig pushes an edited config into the running presenters.
func (c *AppContainer) ApplyConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	c.SelectionPresenter.SetColor(cfg.MixColor())
	c.PlaybackPresenter.SetInterval(cfg.PlaybackInterval())
	if c.RootView != nil && c.RootView.Canvas != nil {
		c.RootView.Canvas.SetMaxSize(cfg.PreviewMaxW, cfg.PreviewMaxH)
	}
}
