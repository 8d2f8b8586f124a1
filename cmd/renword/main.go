// Command renword is the CLI entrypoint for the renword batch renamer.
//
// It parses flags, validates configuration, and either runs system
// diagnostics (--check), reverts a previous run (--undo), or runs the
// rename pipeline.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/backmassage/renword/internal/check"
	"github.com/backmassage/renword/internal/config"
	"github.com/backmassage/renword/internal/display"
	"github.com/backmassage/renword/internal/logging"
	"github.com/backmassage/renword/internal/pipeline"
)

// version and commit are injected at build time via -ldflags.
// When built with plain "go build" (no make), these retain their defaults.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Phase 1: Bootstrap. The logger doesn't exist yet, so errors go
	// directly to stderr via fmt.
	cfg := config.DefaultConfig()
	if err := config.ParseFlags(&cfg, os.Args[1:], version); err != nil {
		if errors.Is(err, config.ErrExit) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "renword: %v\n", err)
		return 1
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "renword: %v\n", err)
		return 1
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "renword: %v\n", err)
		return 1
	}
	defer log.Close()

	// Phase 2: Logger available; all output goes through log from here on.
	if !cfg.ListTokens {
		display.PrintBanner(os.Stdout)
	}

	if cfg.CheckOnly {
		if !check.RunCheck(&cfg, log) {
			return 1
		}
		return 0
	}

	if err := check.CheckDeps(&cfg); err != nil {
		log.Error("%v", err)
		return 1
	}

	// Phase 3: Signal handling. Cancel the context on SIGINT/SIGTERM so
	// probing and the rename phase stop cleanly.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.UndoFrom != "" {
		log.Info("=== renword v%s (%s): undo %s ===", version, commit, cfg.UndoFrom)
		stats, err := pipeline.Undo(ctx, cfg.UndoFrom, log)
		if err != nil {
			log.Error("%v", err)
			return 1
		}
		log.Info("Done: %d restored, %d skipped, %d failed", stats.Renamed, stats.Skipped, stats.Failed)
		if stats.Failed > 0 {
			return 1
		}
		return 0
	}

	if !cfg.ListTokens {
		log.Info("=== renword v%s (%s) ===", version, commit)
		if cfg.DryRun {
			log.Warn("DRY RUN: no files will be renamed")
		}
	}

	// Phase 4: Run pipeline (discover -> session -> preview -> plan -> execute).
	stats := pipeline.Run(ctx, &cfg, log)
	if stats.Failed > 0 {
		return 1
	}
	return 0
}
