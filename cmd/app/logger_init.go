package main

import (
	"github.com/caseopen-dev/kazino/internal/config"
	"github.com/caseopen-dev/kazino/internal/handler"
	"github.com/caseopen-dev/kazino/internal/logger"
)

// initLogger initializes the logger using centralized app configuration
func initLogger(cfg *config.Config) {
	// Source locations are only useful in dev builds
	addSource := cfg.Environment == "dev" || cfg.Environment == "development"

	logger.Init(logger.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		ServiceName: "kazino-api",
		Version:     handler.Version,
		Environment: cfg.Environment,
		AddSource:   addSource,
	})
}
