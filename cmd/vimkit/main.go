// Package main is the entry point for the vimkit command interpreter.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/vimkit/internal/config"
	"github.com/dshills/vimkit/internal/interp/exec"
	"github.com/dshills/vimkit/internal/log"
	"github.com/dshills/vimkit/internal/server"
	"github.com/dshills/vimkit/internal/session"
	"github.com/dshills/vimkit/internal/tool"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
		return 1
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	logger := log.New(log.ParseLevel(cfg.LogLevel), os.Stderr)

	sess, err := session.New(
		session.WithWatch(cfg.Watch),
		session.WithBackup(cfg.Backup),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize session: %v\n", err)
		return 1
	}
	defer func() { _ = sess.Close() }()

	executor := exec.New(sess,
		exec.WithShell(cfg.Shell),
		exec.WithFilterTimeout(cfg.FilterTimeout.Std()),
		exec.WithLogger(logger),
	)

	reg := tool.NewRegistry()
	suite := tool.NewSuite(sess, executor, tool.WithMaxCommands(cfg.MaxCommands))
	if err := suite.Register(reg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to register tools: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("session %s ready", sess.ID)
	srv := server.New(reg, server.WithLogger(logger))
	if err := srv.Serve(ctx, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

type options struct {
	configPath string
	logLevel   string
}

func parseFlags() options {
	var opts options
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file (TOML or YAML)")
	flag.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Vimkit - headless vim-style command interpreter\n\n")
		fmt.Fprintf(os.Stderr, "Usage: vimkit [options]\n\n")
		fmt.Fprintf(os.Stderr, "Reads JSON tool requests from stdin, one per line, and writes\n")
		fmt.Fprintf(os.Stderr, "one JSON response per request to stdout.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  vimkit                      Run with default settings\n")
		fmt.Fprintf(os.Stderr, "  vimkit -c vimkit.toml       Run with a config file\n")
		fmt.Fprintf(os.Stderr, "  echo '{\"tool\":\"list_tools\"}' | vimkit\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}
	if showVersion {
		fmt.Printf("Vimkit %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	switch opts.logLevel {
	case "", "debug", "info", "warn", "error":
		// Valid
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.logLevel)
		os.Exit(1)
	}

	return opts
}
