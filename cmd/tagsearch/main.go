package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hazyhaar/tagsearch/pkg/api"
	"github.com/hazyhaar/tagsearch/pkg/tsconfig"
	"github.com/mark3labs/mcp-go/server"
	"gopkg.in/yaml.v3"
)

const version = "0.1.0"

type config struct {
	Addr       string `yaml:"addr"`
	ConfigsDir string `yaml:"configs_dir"`
	LogLevel   string `yaml:"log_level"`
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		cmdServe(os.Args[2:])
	case "mcp":
		cmdMCP(os.Args[2:])
	case "parse":
		cmdParse(os.Args[2:])
	case "lexize":
		cmdLexize(os.Args[2:])
	case "token-types":
		cmdTokenTypes()
	case "version":
		fmt.Println(version)
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: tagsearch <command>

Commands:
  serve         Start the HTTP server (MCP mounted at /mcp)
  mcp           Serve the MCP tools over stdio
  parse         Split tag lists into tokens
  lexize        Normalize tags into lexemes
  token-types   List the token types of the tag parser
  version       Print the version
`)
}

func cmdServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	fs.Parse(args)

	cfg, logger := setup(*cfgPath)

	reg := tsconfig.NewRegistry(cfg.ConfigsDir, logger)
	if err := reg.Load(); err != nil {
		logger.Error("failed to load configurations", "error", err)
		os.Exit(1)
	}
	logger.Info("configurations loaded", "count", reg.Count(), "dir", cfg.ConfigsDir)

	eps := api.NewEndpoints(reg, logger)
	router := api.NewRouter(eps, reg, api.NewMCPServer(eps, version))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// SIGHUP: hot reload configurations.
	// SIGINT/SIGTERM: graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go reloadOnHUP(reg, logger)

	go func() {
		logger.Info("tagsearch listening", "addr", cfg.Addr, "mcp", "/mcp")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)
}

func cmdMCP(args []string) {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	fs.Parse(args)

	// stdout carries the protocol; logs stay on stderr.
	cfg, logger := setup(*cfgPath)

	reg := tsconfig.NewRegistry(cfg.ConfigsDir, logger)
	if err := reg.Load(); err != nil {
		logger.Error("failed to load configurations", "error", err)
		os.Exit(1)
	}
	go reloadOnHUP(reg, logger)

	srv := api.NewMCPServer(api.NewEndpoints(reg, logger), version)
	logger.Info("tagsearch mcp on stdio", "configs", reg.Count())
	if err := server.ServeStdio(srv); err != nil {
		logger.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}

func reloadOnHUP(reg *tsconfig.Registry, logger *slog.Logger) {
	sighup := make(chan os.Signal, 1)
	signal.Notify(sighup, syscall.SIGHUP)
	for range sighup {
		logger.Info("SIGHUP received, reloading configurations")
		if err := reg.Reload(); err != nil {
			logger.Error("reload failed", "error", err)
		} else {
			logger.Info("configurations reloaded", "count", reg.Count())
		}
	}
}

func setup(path string) (config, *slog.Logger) {
	boot := slog.New(slog.NewTextHandler(os.Stderr, nil))
	cfg, err := loadConfig(path)
	if err != nil {
		boot.Error("load config", "path", path, "error", err)
		os.Exit(1)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		boot.Error("invalid log_level", "log_level", cfg.LogLevel, "error", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return cfg, logger
}

// loadConfig reads the server config. A missing file yields the defaults.
func loadConfig(path string) (config, error) {
	cfg := config{
		Addr:       ":8421",
		ConfigsDir: "configs",
		LogLevel:   "info",
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
