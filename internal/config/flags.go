package config

// This file implements CLI flag parsing and help text.
// Flags are grouped into selection, rules, modes, metadata, behavior, display and utility.
// Negated flags (e.g. --no-color) are applied after Parse so Config defaults hold unless set.

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
)

// ErrExit is returned by [ParseFlags] after --help or --version has been
// printed. Callers exit with status 0.
var ErrExit = errors.New("exit requested")

// ParseFlags parses args (without the program name) into cfg. version is
// shown by --version and in the help header.
func ParseFlags(cfg *Config, args []string, version string) error {
	return parseFlags(cfg, args, version, os.Stdout, os.Stderr)
}

func parseFlags(cfg *Config, args []string, version string, stdout, stderr io.Writer) error {
	fs := pflag.NewFlagSet("renword", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.SortFlags = false
	fs.Usage = func() { printUsage(stderr, version) }

	var negated negatedFlags

	defineSelectionFlags(fs, cfg)
	defineRuleFlags(fs, cfg)
	defineModeFlags(fs, cfg)
	defineBehaviorFlags(fs, cfg)
	defineDisplayFlags(fs, cfg, &negated)
	defineUtilityFlags(fs, &negated)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return ErrExit
		}
		return err
	}

	applyNegatedFlags(cfg, &negated)

	if negated.showHelp {
		printUsage(stderr, version)
		return ErrExit
	}
	if negated.showVersion {
		fmt.Fprintln(stdout, "renword v"+version)
		return ErrExit
	}

	cfg.Paths = cfg.Paths[:0]
	for _, a := range fs.Args() {
		cfg.Paths = append(cfg.Paths, NormalizeDirArg(a))
	}
	return nil
}

// negatedFlags holds boolean flags that are applied after Parse.
type negatedFlags struct {
	forceColor  bool
	noColor     bool
	showVersion bool
	showHelp    bool
}

// defineSelectionFlags registers -t, -s, -w, -g.
func defineSelectionFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.BoolVarP(&cfg.ListTokens, "tokens", "t", false, "Print each file's tokens with indices and exit")
	fs.StringArrayVarP(&cfg.SelectSpecs, "select", "s", nil, "Select token W of file F (F:W)")
	fs.StringArrayVarP(&cfg.Words, "word", "w", nil, "Add a literal word to match in every file")
	fs.StringArrayVarP(&cfg.GroupSpecs, "group", "g", nil, "Select tokens S..E of file F as a range (F:S-E)")
}

// defineRuleFlags registers -r, --rules, --save-rules.
func defineRuleFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringArrayVarP(&cfg.RuleSpecs, "rule", "r", nil, "Edit rule: replace=TEXT | remove | prefix=TEXT | suffix=TEXT")
	fs.StringVar(&cfg.RulesFile, "rules", "", "Load rules from a TOML file")
	fs.StringVar(&cfg.SaveRules, "save-rules", "", "Save the effective rules to a TOML file")
}

// defineModeFlags registers -a, --similar, --group-as-one, -P, --probe, --probe-jobs.
func defineModeFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.BoolVarP(&cfg.ApplyToAll, "apply-all", "a", false, "Apply rules to matching words in every file")
	fs.BoolVar(&cfg.SimilarOnly, "similar", false, "With --apply-all, only touch files shaped like the selection's file")
	fs.BoolVar(&cfg.GroupAsOne, "group-as-one", false, "Edit each --group range as one word")
	fs.BoolVarP(&cfg.Propagate, "propagate", "P", false, "Extend numeric selections to similar files")
	fs.BoolVar(&cfg.Probe, "probe", false, "Expand {width} {height} {res} {duration} {codec} with ffprobe")
	fs.IntVar(&cfg.ProbeConcurrency, "probe-jobs", cfg.ProbeConcurrency, "Concurrent ffprobe processes")
}

// defineBehaviorFlags registers -e, --dedupe, -d, --undo-log, --undo.
func defineBehaviorFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringSliceVarP(&cfg.Extensions, "ext", "e", nil, "Only files with these extensions (comma-separated)")
	fs.BoolVar(&cfg.Dedupe, "dedupe", false, "Resolve duplicate targets with \" - dupN\" suffixes")
	fs.BoolVarP(&cfg.DryRun, "dry-run", "d", false, "Preview only; do not rename")
	fs.StringVar(&cfg.UndoLog, "undo-log", "", "Write a CSV undo log after renaming")
	fs.StringVar(&cfg.UndoFrom, "undo", "", "Revert the renames recorded in an undo log and exit")
}

// defineDisplayFlags registers --color, --no-color, verbose, --check, --log.
func defineDisplayFlags(fs *pflag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVar(&n.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&n.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Verbose output")
	fs.BoolVarP(&cfg.CheckOnly, "check", "c", false, "Run system diagnostics and exit")
	fs.StringVarP(&cfg.LogFile, "log", "l", "", "Append logs to file")
}

// defineUtilityFlags registers --version and --help (exit after printing).
func defineUtilityFlags(fs *pflag.FlagSet, n *negatedFlags) {
	fs.BoolVarP(&n.showVersion, "version", "V", false, "Print version and exit")
	fs.BoolVarP(&n.showHelp, "help", "h", false, "Show this help and exit")
}

// applyNegatedFlags copies negated and override flag values into cfg.
func applyNegatedFlags(cfg *Config, n *negatedFlags) {
	if n.noColor {
		cfg.ColorMode = ColorNever
	} else if n.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// printUsage writes the help text. Column-aligned for readability.
func printUsage(w io.Writer, version string) {
	const col1 = 30 // width of "  -x, --long-name <arg>  "
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "renword v" + version + ": token-based batch file renamer"},
		{"", ""},
		{"  renword [OPTIONS] <dir|file>...", ""},
		{"", ""},
		{"Selection", ""},
		{"  -t, --tokens", "List each file's tokens with indices and exit"},
		{"  -s, --select <F:W>", "Select token W of file F (repeatable)"},
		{"  -w, --word <text>", "Match this word in every file (repeatable)"},
		{"  -g, --group <F:S-E>", "Select tokens S..E of file F (repeatable)"},
		{"", ""},
		{"Rules", ""},
		{"  -r, --rule <action[=value]>", "replace=X | remove | prefix=X | suffix=X"},
		{"  --rules <file>", "Load rules from a TOML file"},
		{"  --save-rules <file>", "Save the effective rules to a TOML file"},
		{"", ""},
		{"Modes", ""},
		{"  -a, --apply-all", "Apply to matching words in every file"},
		{"  --similar", "With --apply-all, only similarly named files"},
		{"  --group-as-one", "Edit each --group range as one word"},
		{"  -P, --propagate", "Extend numeric selections to similar files"},
		{"  --probe", "Expand {width} {height} {res} {duration} {codec}"},
		{"  --probe-jobs <n>", "Concurrent ffprobe processes (default: 3)"},
		{"", ""},
		{"Output & behavior", ""},
		{"  -e, --ext <list>", "Only these extensions (e.g. mov,mp4)"},
		{"  --dedupe", "Rename duplicate targets to \"name - dupN\""},
		{"  -d, --dry-run", "Preview only; do not rename"},
		{"  --undo-log <file>", "Write a CSV undo log"},
		{"  --undo <file>", "Revert renames from an undo log and exit"},
		{"", ""},
		{"Display", ""},
		{"  --color", "Force colored logs"},
		{"  --no-color", "Disable colored logs"},
		{"  -v, --verbose", "Verbose output"},
		{"", ""},
		{"Utility", ""},
		{"  -l, --log <path>", "Append logs to file"},
		{"  -c, --check", "System diagnostics (ffprobe, terminal, log path)"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(w)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(w, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(w, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(w, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}
