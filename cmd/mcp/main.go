package main

import (
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"

	mcpadapter "github.com/kirillkom/loan-document-vetting/internal/adapters/mcp"
	"github.com/kirillkom/loan-document-vetting/internal/bootstrap"
	"github.com/kirillkom/loan-document-vetting/internal/config"
	"github.com/kirillkom/loan-document-vetting/internal/observability/logging"
)

const serviceName = "vetting-mcp"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config_load_failed", "error", err)
		os.Exit(1)
	}
	// stdout carries the MCP protocol; logs go to stderr.
	logger := logging.New(os.Stderr, serviceName, cfg.LogLevel)
	slog.SetDefault(logger)

	engine := bootstrap.NewEngine(cfg, logger, bootstrap.Options{})
	tools := mcpadapter.NewTools(engine.Classifier, engine.Vetter, engine.Library, logger)

	logger.Info("mcp_stdio_serving")
	if err := server.ServeStdio(mcpadapter.NewServer(tools)); err != nil {
		logger.Error("mcp_server_failed", "error", err)
		os.Exit(1)
	}
}
