package view

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/soocke/mediavis-go/config"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// ConfigPanel encapsulates the request-parameter form widgets and apply logic.
// It owns its widgets and writes back into *config.Config on ApplyChanges.
type ConfigPanel interface {
	Build(parent *FrameWidget, startRow int) (endRow int) // constructs widgets starting at startRow, returns next free row
	SetEditable(enabled bool)
	ApplyChanges() error // parses widget text into underlying config and persists
}

type configPanel struct {
	cfg       *config.Config
	cfgPath   string
	logger    *slog.Logger
	applyBtn  *ButtonWidget
	widgets   map[string]*TextWidget // keyed by config json name
	onApplied func(*config.Config)
}

// NewConfigPanel creates the view bound to cfg. onApplied runs after a
// successful apply with the updated config.
func NewConfigPanel(cfg *config.Config, cfgPath string, logger *slog.Logger, onApplied func(*config.Config)) ConfigPanel {
	return &configPanel{cfg: cfg, cfgPath: cfgPath, logger: logger, widgets: make(map[string]*TextWidget), onApplied: onApplied}
}

func (v *configPanel) Build(parent *FrameWidget, startRow int) (row int) {
	c := v.cfg
	row = startRow
	makeRow := func(id, label, value string) {
		lbl := Label(Txt(label), Anchor("w"))
		Grid(lbl, In(parent), Row(row), Column(0), Sticky("w"), Padx("0.4m"), Pady("0.15m"))
		w := Text(Height(1), Width(16))
		Grid(w, In(parent), Row(row), Column(1), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
		w.Delete("1.0", END)
		w.Insert("1.0", value)
		v.widgets[id] = w
		row++
	}
	makeRow("mix_color", "Mix Color (#rrggbb)", config.FormatHex(c.MixColor()))
	makeRow("sampling_rows", "Sampling Rows", strconv.Itoa(c.SamplingRows))
	makeRow("sampling_cols", "Sampling Cols", strconv.Itoa(c.SamplingCols))
	makeRow("quant_colors", "Quantization Colors (2-256)", strconv.Itoa(c.QuantColors))
	makeRow("video_frames", "Video Frames", strconv.Itoa(c.VideoFrames))
	makeRow("audio_samples", "Audio Samples (1-1000)", strconv.Itoa(c.AudioSamples))
	makeRow("playback_interval_ms", "Playback Interval ms", strconv.Itoa(c.PlaybackIntervalMS))
	makeRow("clamp_selection", "Clamp Selection (true/false)", fmt.Sprintf("%t", c.ClampSelection))
	makeRow("preview_max_w", "Preview Max Width", strconv.Itoa(c.PreviewMaxW))
	makeRow("preview_max_h", "Preview Max Height", strconv.Itoa(c.PreviewMaxH))
	makeRow("gateway_url", "Gateway URL", c.GatewayURL)
	v.applyBtn = Button(Txt("Apply Changes"), Command(func() { _ = v.ApplyChanges() }))
	Grid(v.applyBtn, In(parent), Row(row), Column(0), Columnspan(3), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	row++
	return row
}

func (v *configPanel) SetEditable(enabled bool) {
	state := "disabled"
	if enabled {
		state = "normal"
	}
	for _, w := range v.widgets {
		if w != nil {
			w.Configure(State(state))
		}
	}
	if v.applyBtn != nil {
		v.applyBtn.Configure(State(state))
	}
}

func (v *configPanel) text(w *TextWidget) string {
	if w == nil {
		return ""
	}
	parts := w.Get("1.0", END)
	return strings.Join(parts, "")
}

func (v *configPanel) values() map[string]string {
	out := make(map[string]string, len(v.widgets))
	for id, w := range v.widgets {
		out[id] = strings.TrimSpace(v.text(w))
	}
	return out
}

func (v *configPanel) ApplyChanges() error {
	if v.cfg == nil {
		return nil
	}
	cfg, err := applyFields(*v.cfg, v.values())
	if err != nil {
		if v.logger != nil {
			v.logger.Warn("config rejected", "error", err)
		}
		return err
	}
	*v.cfg = cfg
	if err := v.cfg.Save(v.cfgPath); err != nil {
		if v.logger != nil {
			v.logger.Error("config save failed", "error", err)
		}
	} else if v.logger != nil {
		v.logger.Info("config saved", "path", v.cfgPath)
	}
	if v.onApplied != nil {
		v.onApplied(v.cfg)
	}
	return nil
}

// applyFields parses form values onto a copy of cfg. Unparseable numbers
// keep the previous value; an invalid colour or URL rejects the whole form.
func applyFields(cfg config.Config, fields map[string]string) (config.Config, error) {
	assignInt := func(id string, dst *int) {
		if i, ok := parseIntField(fields[id]); ok {
			*dst = i
		}
	}
	if s, ok := fields["mix_color"]; ok && s != "" {
		col, err := config.ParseHex(s)
		if err != nil {
			return cfg, err
		}
		cfg.SetMixColor(col)
	}
	assignInt("sampling_rows", &cfg.SamplingRows)
	assignInt("sampling_cols", &cfg.SamplingCols)
	assignInt("quant_colors", &cfg.QuantColors)
	assignInt("video_frames", &cfg.VideoFrames)
	assignInt("audio_samples", &cfg.AudioSamples)
	assignInt("playback_interval_ms", &cfg.PlaybackIntervalMS)
	assignInt("preview_max_w", &cfg.PreviewMaxW)
	assignInt("preview_max_h", &cfg.PreviewMaxH)
	if b, ok := parseBoolLoose(fields["clamp_selection"]); ok {
		cfg.ClampSelection = b
	}
	if s := fields["gateway_url"]; s != "" {
		cfg.GatewayURL = s
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// parsing helpers (unexported)
func parseIntField(s string) (int, bool) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return i, true
}
func parseBoolLoose(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y", "on", "t":
		return true, true
	case "false", "0", "no", "n", "off", "f":
		return false, true
	default:
		return false, false
	}
}
