// Package check provides system diagnostics (--check mode) and pre-pipeline
// dependency validation (CheckDeps) for ffprobe, the terminal and the
// files a run writes.
package check

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/backmassage/renword/internal/config"
	"github.com/backmassage/renword/internal/rulefile"
	"github.com/backmassage/renword/internal/term"
)

// ErrFfprobeNotFound is returned by CheckDeps when --probe is set and
// ffprobe is not on PATH.
var ErrFfprobeNotFound = errors.New("ffprobe not found on PATH (needed by --probe)")

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(bool, string, ...interface{})
}

// RunCheck runs the interactive --check flow: ffprobe availability,
// terminal color state, and whether the rule, log and undo files named
// on the command line are usable. It returns false if anything the
// current flags depend on is broken.
func RunCheck(cfg *config.Config, log Logger) bool {
	log.Info("=== System Check ===")

	ok := checkFfprobe(cfg, log)
	checkTerminal(cfg, log)
	if cfg.RulesFile != "" && !checkRulesFile(cfg.RulesFile, log) {
		ok = false
	}
	for _, f := range []struct{ label, path string }{
		{"Log file", cfg.LogFile},
		{"Undo log", cfg.UndoLog},
		{"Rule output", cfg.SaveRules},
	} {
		if f.path == "" {
			continue
		}
		if err := dirWritable(f.path); err != nil {
			log.Error("%s: %s not writable: %v", f.label, f.path, err)
			ok = false
			continue
		}
		log.Success("%s: %s", f.label, f.path)
	}
	return ok
}

// checkFfprobe verifies ffprobe is on PATH and logs its version string.
// A missing ffprobe only counts as a failure when --probe is set.
func checkFfprobe(cfg *config.Config, log Logger) bool {
	path, err := exec.LookPath("ffprobe")
	if err != nil {
		if cfg.Probe {
			log.Error("ffprobe not found (required by --probe)")
			return false
		}
		log.Warn("ffprobe not found; metadata placeholders unavailable")
		return true
	}
	log.Debug(cfg.Verbose, "ffprobe at %s", path)
	out, err := exec.Command(path, "-version").Output()
	if err != nil {
		log.Warn("ffprobe found but -version failed: %v", err)
		return !cfg.Probe
	}
	firstLine := strings.TrimSpace(string(out))
	if idx := strings.Index(firstLine, "\n"); idx > 0 {
		firstLine = firstLine[:idx]
	}
	log.Success("ffprobe: %s", firstLine)
	return true
}

func checkTerminal(cfg *config.Config, log Logger) {
	state := "off"
	if term.Enabled() {
		state = "on"
	}
	log.Info("Colors: %s (mode %s)", state, cfg.ColorMode)
	if term.IsTerminal(os.Stdout) {
		log.Info("Terminal: %d columns", term.Width())
	} else {
		log.Info("Terminal: not a TTY, preview width %d", term.Width())
	}
}

func checkRulesFile(path string, log Logger) bool {
	f, err := rulefile.Load(path)
	if err != nil {
		log.Error("%v", err)
		return false
	}
	rules, err := f.ParseRules()
	if err != nil {
		log.Error("Rule file %s: %v", path, err)
		return false
	}
	log.Success("Rule file: %s (%d rules, %d words)", path, len(rules), len(f.Words))
	return true
}

// dirWritable reports whether a file can be created next to path.
func dirWritable(path string) error {
	dir := filepath.Dir(path)
	fi, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !fi.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	f, err := os.CreateTemp(dir, ".renword-check-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}

// CheckDeps is the pre-pipeline validation: with --probe set, ffprobe
// must be on PATH.
func CheckDeps(cfg *config.Config) error {
	if !cfg.Probe {
		return nil
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		return ErrFfprobeNotFound
	}
	return nil
}
