package main

import (
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/server"

	"github.com/JaimeStill/tolerance/internal/api"
	"github.com/JaimeStill/tolerance/internal/config"
	"github.com/JaimeStill/tolerance/internal/infrastructure"
	"github.com/JaimeStill/tolerance/internal/mcptools"
)

const instructions = `Tolerance recommends ASME Y14.5-2018 GD&T callouts for part features.
Use analyze_feature with a description or a drawing crop to run the full analysis on the local model.
Use format_frame to validate and render a feature control frame, and search_standards to look up characteristics.`

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	infra, err := infrastructure.New(cfg)
	if err != nil {
		return err
	}
	if err := infra.Start(); err != nil {
		return err
	}
	defer func() {
		if err := infra.Lifecycle.Shutdown(cfg.ShutdownTimeoutDuration()); err != nil {
			infra.Logger.Error("shutdown failed", "error", err)
		}
	}()

	infra.Lifecycle.WaitForStartup()

	domain := api.NewDomain(api.NewRuntime(cfg, infra))

	s := server.NewMCPServer(
		"tolerance",
		cfg.Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)
	mcptools.Register(s, domain.Pipeline, domain.Standards)

	infra.Logger.Info("mcp server ready", "version", cfg.Version, "env", cfg.Env())
	return server.ServeStdio(s)
}
