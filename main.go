package main

import (
	"flag"
	"log/slog"

	"github.com/soocke/mediavis-go/app"
	"github.com/soocke/mediavis-go/config"
)

func main() {
	cfgPath := flag.String("config", config.DefaultPath(), "path to the JSON config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := NewLogger(level)
	if err != nil {
		logger.Warn("config load failed, using defaults", "path", *cfgPath, "error", err)
	}

	application := app.NewApp("Media Visualizer", 1100, 760, cfg, *cfgPath, logger)
	application.Start()
}
