// Package main is the entry point for the tessellated terrain viewer.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/tessterrain/internal/config"
	"github.com/Faultbox/tessterrain/internal/logger"
	"github.com/Faultbox/tessterrain/internal/viewer"
)

func main() {
	os.Exit(run())
}

// run keeps deferred cleanup ahead of os.Exit.
func run() int {
	// Parse CLI flags first
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		return 1
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		return 1
	}
	defer logger.Sync()

	logger.Info("=== Tessellated Terrain ===")
	if cfg.Source != "" {
		logger.Info("config loaded", zap.String("path", cfg.Source))
	}
	logger.Sugar.Debugf("Config: %+v", cfg)

	v, err := viewer.New(cfg)
	if err != nil {
		logger.Error("failed to create viewer", zap.Error(err))
		return 1
	}
	defer v.Close()

	if err := v.Run(); err != nil {
		logger.Error("viewer error", zap.Error(err))
		return 1
	}

	logger.Info("viewer closed normally")
	return 0
}
