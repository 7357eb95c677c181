package config

import (
	"encoding/json"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// Config holds runtime configuration for the gateway client, selection,
// playback and the request parameters shown in the controls panel.
// Fields may be loaded from a JSON file.
type Config struct {
	Debug bool `json:"debug"`

	// Gateway
	GatewayURL            string `json:"gateway_url"`
	RequestTimeoutSeconds int    `json:"request_timeout_seconds"`

	// Selection / playback
	ClampSelection     bool `json:"clamp_selection"`
	PlaybackIntervalMS int  `json:"playback_interval_ms"`

	// Colour mixed into the selected region.
	MixColorR uint8 `json:"mix_color_r"`
	MixColorG uint8 `json:"mix_color_g"`
	MixColorB uint8 `json:"mix_color_b"`

	// Request parameters
	SamplingRows int `json:"sampling_rows"`
	SamplingCols int `json:"sampling_cols"`
	QuantColors  int `json:"quant_colors"`
	VideoFrames  int `json:"video_frames"`
	AudioSamples int `json:"audio_samples"`

	// Display
	MediaCacheSize int `json:"media_cache_size"`
	PreviewMaxW    int `json:"preview_max_w"`
	PreviewMaxH    int `json:"preview_max_h"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:                 false,
		GatewayURL:            "http://localhost:8000",
		RequestTimeoutSeconds: 60,
		ClampSelection:        true,
		PlaybackIntervalMS:    200,
		MixColorR:             255,
		MixColorG:             0,
		MixColorB:             0,
		SamplingRows:          10,
		SamplingCols:          10,
		QuantColors:           16,
		VideoFrames:           5,
		AudioSamples:          20,
		MediaCacheSize:        64,
		PreviewMaxW:           640,
		PreviewMaxH:           480,
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "mediavis", "config.json")
}

// Validate clamps/normalizes values to safe ranges.
func (c *Config) Validate() error {
	c.GatewayURL = strings.TrimRight(strings.TrimSpace(c.GatewayURL), "/")
	if c.GatewayURL == "" {
		return fmt.Errorf("config: gateway_url is required")
	}
	if !strings.HasPrefix(c.GatewayURL, "http://") && !strings.HasPrefix(c.GatewayURL, "https://") {
		return fmt.Errorf("config: gateway_url %q must be http(s)", c.GatewayURL)
	}
	if c.RequestTimeoutSeconds < 0 {
		c.RequestTimeoutSeconds = 0
	}
	if c.PlaybackIntervalMS < 20 {
		c.PlaybackIntervalMS = 200
	}
	c.SamplingRows = clamp(c.SamplingRows, 1, 200, 10)
	c.SamplingCols = clamp(c.SamplingCols, 1, 200, 10)
	c.QuantColors = clamp(c.QuantColors, 2, 256, 16)
	c.VideoFrames = clamp(c.VideoFrames, 1, 100, 5)
	c.AudioSamples = clamp(c.AudioSamples, 1, 1000, 20)
	if c.MediaCacheSize <= 0 {
		c.MediaCacheSize = 64
	}
	if c.PreviewMaxW <= 0 {
		c.PreviewMaxW = 640
	}
	if c.PreviewMaxH <= 0 {
		c.PreviewMaxH = 480
	}
	return nil
}

// clamp limits v to [lo,hi]; values below 1 fall back to def.
func clamp(v, lo, hi, def int) int {
	if v < 1 {
		return def
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// RequestTimeout returns the per-request deadline; zero means none.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// PlaybackInterval returns the default cycling period.
func (c *Config) PlaybackInterval() time.Duration {
	return time.Duration(c.PlaybackIntervalMS) * time.Millisecond
}

// MixColor returns the configured mix colour, fully opaque.
func (c *Config) MixColor() color.RGBA {
	return color.RGBA{R: c.MixColorR, G: c.MixColorG, B: c.MixColorB, A: 255}
}

// SetMixColor stores col's channels.
func (c *Config) SetMixColor(col color.RGBA) {
	c.MixColorR, c.MixColorG, c.MixColorB = col.R, col.G, col.B
}

// FormatHex renders a colour as #rrggbb.
func FormatHex(col color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", col.R, col.G, col.B)
}

// ParseHex parses #rrggbb or rrggbb (case-insensitive).
func ParseHex(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("colour %q: want #rrggbb", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("colour %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// Load attempts to read configuration from the given JSON file path. If the file does not
// exist it returns DefaultConfig(). On JSON error it returns defaults with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	if err := dec.Decode(cfg); err != nil {
		return DefaultConfig(), err
	}
	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), err
	}
	return cfg, nil
}

// Save writes the configuration to the given path in JSON format, creating
// parent directories as needed.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
