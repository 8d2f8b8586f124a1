package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/backmassage/renword/internal/config"
	"github.com/backmassage/renword/internal/display"
	"github.com/backmassage/renword/internal/logging"
	"github.com/backmassage/renword/internal/naming"
	"github.com/backmassage/renword/internal/planner"
	"github.com/backmassage/renword/internal/probe"
	"github.com/backmassage/renword/internal/rulefile"
	"github.com/backmassage/renword/internal/session"
	"github.com/backmassage/renword/internal/term"
	"github.com/backmassage/renword/internal/wordrule"
)

// stdout receives the token listing and the preview table.
var stdout io.Writer = os.Stdout

// Run is the top-level batch entry point. It discovers files, builds the
// editing session from flags and rule files, previews every new name,
// plans the renames and, unless this is a dry run, executes them.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger) RunStats {
	var stats RunStats

	files, err := Discover(cfg.Paths, cfg.Extensions)
	if err != nil {
		log.Error("File discovery failed: %v", err)
		stats.Failed++
		return stats
	}
	stats.Total = len(files)
	if len(files) == 0 {
		log.Warn("No files found")
		return stats
	}
	log.Info("Found %s", display.FormatCount(len(files), "file"))

	// --- Session ---
	sess, settings, err := buildSession(cfg, files)
	if err != nil {
		log.Error("%v", err)
		stats.Failed++
		return stats
	}
	for _, msg := range settings.selectErrs {
		log.Error("Selection: %v", msg)
		stats.Failed++
	}

	if cfg.ListTokens {
		listTokens(sess)
		return stats
	}

	if settings.propagate {
		for _, t := range sess.Propagate() {
			log.Debug(cfg.Verbose, "Propagated [%d:%d] %q (context %s)",
				t.FileIndex, t.WordIndex, t.Word, display.FormatPercent(t.ContextMatchRate))
		}
	}
	if cfg.SimilarOnly || settings.similarOnly {
		logSimilarity(cfg, log, sess)
	}

	if cfg.SaveRules != "" {
		if err := saveRules(cfg.SaveRules, sess, settings); err != nil {
			log.Error("Save rules: %v", err)
			stats.Failed++
		} else {
			log.Info("Rules saved: %s", cfg.SaveRules)
		}
	}

	if len(sess.Rules()) == 0 {
		log.Warn("No rules given; nothing to rename")
	}

	// --- Preview ---
	newNames := preview(ctx, cfg, log, sess)

	// --- Plan ---
	opts := planner.DefaultOptions()
	opts.Dedupe = cfg.Dedupe
	plans := planner.BuildPlan(sess.Paths(), newNames, opts)
	renames, unchanged, skipped := planner.Counts(plans)
	stats.Unchanged = unchanged
	stats.Skipped = skipped

	display.RenderPreview(stdout, previewRows(plans), term.Width())
	fmt.Fprintln(stdout)

	if cfg.DryRun {
		for _, p := range plans {
			if p.Action == planner.ActionRename {
				log.Dry("Would rename: %s -> %s", p.OldName, p.NewName)
			}
		}
		stats.Renamed = renames
		logSummary(cfg, log, &stats)
		return stats
	}
	if renames == 0 {
		logSummary(cfg, log, &stats)
		return stats
	}

	// --- Execute ---
	unlock, err := lockDirs(dirsOf(sess.Paths()))
	if err != nil {
		log.Error("%v", err)
		stats.Failed += renames
		return stats
	}
	results, execErr := Execute(ctx, plans)
	unlock()

	for _, r := range results {
		switch r.Status {
		case StatusRenamed:
			stats.Renamed++
			log.Success("Renamed: %s -> %s", filepath.Base(r.OldPath), filepath.Base(r.NewPath))
		case StatusRolledBack:
			stats.Failed++
		default:
			stats.Failed++
			if r.Err != nil {
				log.Error("Rename failed: %s: %v", filepath.Base(r.OldPath), r.Err)
			}
		}
	}
	if execErr != nil {
		log.Error("%v", execErr)
	}

	if cfg.UndoLog != "" && stats.Renamed > 0 {
		if err := WriteUndoLog(cfg.UndoLog, results); err != nil {
			log.Error("%v", err)
		} else {
			log.Info("Undo log: %s", cfg.UndoLog)
		}
	}

	logSummary(cfg, log, &stats)
	return stats
}

// sessionSettings are the engine switches after rule-file values have
// been merged with the command line.
type sessionSettings struct {
	applyToAll  bool
	similarOnly bool
	groupAsOne  bool
	propagate   bool
	words       []string
	rules       []wordrule.Rule
	selectErrs  []error
}

// buildSession merges the rule file (if any) with the command line and
// applies every selection. Rule-file rules run before command-line rules;
// switches are on when either source turns them on. Bad selections are
// collected rather than fatal.
func buildSession(cfg *config.Config, files []string) (*session.Session, sessionSettings, error) {
	st := sessionSettings{
		applyToAll:  cfg.ApplyToAll,
		similarOnly: cfg.SimilarOnly,
		groupAsOne:  cfg.GroupAsOne,
		propagate:   cfg.Propagate,
	}
	if cfg.RulesFile != "" {
		f, err := rulefile.Load(cfg.RulesFile)
		if err != nil {
			return nil, st, err
		}
		rules, err := f.ParseRules()
		if err != nil {
			return nil, st, fmt.Errorf("rule file %s: %w", cfg.RulesFile, err)
		}
		st.rules = append(st.rules, rules...)
		st.words = append(st.words, f.Words...)
		st.applyToAll = st.applyToAll || f.ApplyToAll
		st.similarOnly = st.similarOnly || f.SimilarOnly
		st.groupAsOne = st.groupAsOne || f.GroupAsOne
		st.propagate = st.propagate || f.Propagate
	}
	st.rules = append(st.rules, cfg.Rules...)
	st.words = append(st.words, cfg.Words...)

	sess := session.New(files)
	sess.SetRules(st.rules)
	sess.SetApplyToAll(st.applyToAll)
	sess.SetSimilarOnly(st.similarOnly)
	sess.SetGroupAsOne(st.groupAsOne)
	for _, w := range st.words {
		sess.AddWord(w)
	}
	for _, s := range cfg.Selections {
		if err := sess.Select(s.File, s.Word); err != nil {
			st.selectErrs = append(st.selectErrs, fmt.Errorf("%d:%d: %w", s.File, s.Word, err))
		}
	}
	for _, r := range cfg.Ranges {
		if err := sess.SelectRange(r.File, r.Start, r.End); err != nil {
			st.selectErrs = append(st.selectErrs, fmt.Errorf("%d:%d-%d: %w", r.File, r.Start, r.End, err))
		}
	}
	return sess, st, nil
}

func saveRules(path string, sess *session.Session, st sessionSettings) error {
	f := rulefile.New(sess.Rules(), rulefile.Options{
		ApplyToAll:  st.applyToAll,
		SimilarOnly: st.similarOnly,
		GroupAsOne:  st.groupAsOne,
		Propagate:   st.propagate,
		Words:       sess.Words(),
	})
	return rulefile.Save(path, f)
}

// preview computes the new base name of every file. When probing is on
// and a rule value uses placeholders, each file gets its own expanded
// copy of the rules.
func preview(ctx context.Context, cfg *config.Config, log *logging.Logger, sess *session.Session) []string {
	rules := sess.Rules()
	if !cfg.Probe || !anyPlaceholders(rules) {
		return sess.Preview()
	}

	log.Info("Probing %s (%d at a time)", display.FormatCount(sess.Len(), "file"), cfg.ProbeConcurrency)
	results := probe.ProbeAll(ctx, sess.Paths(), cfg.ProbeConcurrency)
	for _, r := range results {
		if r.Err != nil {
			log.Warn("Probe %s: %v", filepath.Base(r.Path), r.Err)
			continue
		}
		log.Debug(cfg.Verbose, "Probe %s: %s %s %ds", filepath.Base(r.Path),
			r.Meta.Codec, r.Meta.Resolution(), r.Meta.Seconds())
	}

	return sess.PreviewWith(func(i int) []wordrule.Rule {
		out := make([]wordrule.Rule, len(rules))
		for j, rule := range rules {
			out[j] = rule
			out[j].Value = naming.ExpandPlaceholders(rule.Value, results[i].Meta)
		}
		return out
	})
}

func anyPlaceholders(rules []wordrule.Rule) bool {
	for _, r := range rules {
		if naming.HasPlaceholders(r.Value) {
			return true
		}
	}
	return false
}

func listTokens(sess *session.Session) {
	for i, name := range sess.Names() {
		fmt.Fprintf(stdout, "%s%d%s %s\n", term.Cyan, i, term.NC, name)
		fmt.Fprintf(stdout, "    %s\n", display.FormatTokens(sess.Tokens(i)))
	}
}

// logSimilarity reports, in verbose mode, each file's pattern similarity
// to the file holding the first selection.
func logSimilarity(cfg *config.Config, log *logging.Logger, sess *session.Session) {
	sel := sess.Selected()
	if !cfg.Verbose || len(sel) == 0 {
		return
	}
	names := sess.Names()
	ref := wordrule.ExtractPattern(names[sel[0].FileIndex])
	for i, name := range names {
		score := wordrule.Similarity(wordrule.ExtractPattern(name), ref)
		mark := ""
		if score < wordrule.SimilarityThreshold {
			mark = " (excluded)"
		}
		log.Debug(true, "Similarity [%d] %s: %s%s", i, name, display.FormatPercent(score), mark)
	}
}

func previewRows(plans []planner.FilePlan) []display.Row {
	rows := make([]display.Row, len(plans))
	for i, p := range plans {
		row := display.Row{Index: p.Index, Old: p.OldName, New: p.NewName}
		switch {
		case p.Action == planner.ActionRename:
			row.Status = display.StatusRename
		case p.Unchanged():
			row.Status = display.StatusUnchanged
		default:
			row.Status = display.StatusSkip
			row.Reason = p.SkipReason
		}
		rows[i] = row
	}
	return rows
}

func logSummary(cfg *config.Config, log *logging.Logger, stats *RunStats) {
	log.Info("==============================")
	verb := "renamed"
	if cfg.DryRun {
		verb = "to rename"
	}
	log.Info("Done: %d %s, %d unchanged, %d skipped, %d failed",
		stats.Renamed, verb, stats.Unchanged, stats.Skipped, stats.Failed)
	if f := log.FilePath(); f != "" {
		log.Info("Log: %s", f)
	}
}
