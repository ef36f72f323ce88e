package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/gmorel-dev/pokedex/internal/config"
	"github.com/gmorel-dev/pokedex/internal/logger"
	"github.com/gmorel-dev/pokedex/internal/router"
	"github.com/gmorel-dev/pokedex/internal/setup"
)

func main() {
	var configFolder string
	flag.StringVar(&configFolder, "config_folder", "config", "path to folder with configs")
	flag.Parse()

	cfg := config.MustLoad(configFolder)
	logger.Initialize(cfg.Public.LogLevel, cfg.Public.LogJSON)

	deps, err := setup.SetupDependencies(cfg)
	if err != nil {
		logger.Log.Error("failed to set up dependencies", "error", err)
		os.Exit(1)
	}
	defer deps.Storage.Cleanup()

	r := router.New(deps.Handler, deps.AuthMiddleware, cfg)

	port := cfg.Public.Port
	if port == 0 {
		port = 8080
	}
	addr := fmt.Sprintf(":%d", port)

	logger.Log.Info("server started", "addr", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
