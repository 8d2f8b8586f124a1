package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/backmassage/renword/internal/config"
	"github.com/backmassage/renword/internal/logging"
	"github.com/backmassage/renword/internal/planner"
	"github.com/backmassage/renword/internal/term"
)

// --- Discover tests ---

func TestDiscover_FiltersExtensions(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "clip.MP4")
	touch(t, dir, "photo.jpg")
	touch(t, dir, "notes.txt")

	files, err := Discover([]string{dir}, []string{".mp4", ".jpg"})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	want := []string{"clip.MP4", "photo.jpg"}
	if got := basenames(files); !sliceEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestDiscover_SkipsHiddenAndSubdirs(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.txt")
	touch(t, dir, ".hidden.txt")
	if err := os.MkdirAll(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	touch(t, filepath.Join(dir, "sub"), "b.txt")

	files, err := Discover([]string{dir}, nil)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if got := basenames(files); !sliceEqual(got, []string{"a.txt"}) {
		t.Errorf("got %v, want [a.txt]", got)
	}
}

func TestDiscover_NaturalOrderAndDedupe(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"shot_10.mov", "shot_2.mov", "shot_1.mov"} {
		touch(t, dir, n)
	}
	file := filepath.Join(dir, "shot_2.mov")

	files, err := Discover([]string{dir, file, dir + "/"}, nil)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	want := []string{"shot_1.mov", "shot_2.mov", "shot_10.mov"}
	if got := basenames(files); !sliceEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestDiscover_Errors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Discover([]string{filepath.Join(dir, "missing")}, nil); err == nil {
		t.Error("expected error for missing path")
	}
	files, err := Discover([]string{dir}, nil)
	if err != nil || len(files) != 0 {
		t.Errorf("empty dir: files=%v err=%v", files, err)
	}
}

// --- Execute tests ---

func TestExecute_Swap(t *testing.T) {
	dir := t.TempDir()
	a := write(t, dir, "a.txt", "A")
	b := write(t, dir, "b.txt", "B")

	plans := planner.BuildPlan([]string{a, b}, []string{"b.txt", "a.txt"}, realOptions())
	results, err := Execute(context.Background(), plans)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	for _, r := range results {
		if r.Status != StatusRenamed {
			t.Errorf("%s: status %s", r.OldPath, r.Status)
		}
	}
	if got := read(t, a); got != "B" {
		t.Errorf("a.txt = %q, want B", got)
	}
	if got := read(t, b); got != "A" {
		t.Errorf("b.txt = %q, want A", got)
	}
	assertDir(t, dir, "a.txt", "b.txt")
}

func TestExecute_SkipsNonRenames(t *testing.T) {
	dir := t.TempDir()
	a := write(t, dir, "a.txt", "A")
	plans := planner.BuildPlan([]string{a}, []string{"a.txt"}, realOptions())
	results, err := Execute(context.Background(), plans)
	if err != nil || len(results) != 0 {
		t.Errorf("results=%v err=%v, want nothing executed", results, err)
	}
}

func TestExecute_PhaseOneFailureRollsBack(t *testing.T) {
	dir := t.TempDir()
	a := write(t, dir, "a.txt", "A")
	b := write(t, dir, "b.txt", "B")
	c := write(t, dir, "c.txt", "C")

	failOn(t, func(oldPath, newPath string) bool { return oldPath == b })

	plans := planner.BuildPlan([]string{a, b, c}, []string{"x.txt", "y.txt", "z.txt"}, realOptions())
	results, err := Execute(context.Background(), plans)
	if !errors.Is(err, ErrRolledBack) {
		t.Fatalf("err = %v, want ErrRolledBack", err)
	}
	want := []Status{StatusRolledBack, StatusFailed, StatusRolledBack}
	for i, r := range results {
		if r.Status != want[i] {
			t.Errorf("result %d status = %s, want %s", i, r.Status, want[i])
		}
	}
	assertDir(t, dir, "a.txt", "b.txt", "c.txt")
	if got := read(t, a); got != "A" {
		t.Errorf("a.txt = %q after rollback", got)
	}
}

func TestExecute_PhaseTwoFailureRestoresOne(t *testing.T) {
	dir := t.TempDir()
	a := write(t, dir, "a.txt", "A")
	b := write(t, dir, "b.txt", "B")
	x := filepath.Join(dir, "x.txt")

	failOn(t, func(oldPath, newPath string) bool { return newPath == x })

	plans := planner.BuildPlan([]string{a, b}, []string{"x.txt", "y.txt"}, realOptions())
	results, err := Execute(context.Background(), plans)
	if err == nil || errors.Is(err, ErrRolledBack) {
		t.Fatalf("err = %v, want a per-file failure", err)
	}
	if results[0].Status != StatusFailed || results[1].Status != StatusRenamed {
		t.Errorf("statuses = %s, %s", results[0].Status, results[1].Status)
	}
	assertDir(t, dir, "a.txt", "y.txt")
}

func TestExecute_CanceledContext(t *testing.T) {
	dir := t.TempDir()
	a := write(t, dir, "a.txt", "A")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	plans := planner.BuildPlan([]string{a}, []string{"b.txt"}, realOptions())
	if _, err := Execute(ctx, plans); !errors.Is(err, ErrRolledBack) {
		t.Errorf("err = %v, want ErrRolledBack", err)
	}
	assertDir(t, dir, "a.txt")
}

// --- Undo tests ---

func TestUndo_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(t.TempDir(), "undo.csv")
	a := write(t, dir, "clip_01.mp4", "1")
	b := write(t, dir, "clip_02.mp4", "2")

	plans := planner.BuildPlan([]string{a, b}, []string{"X_01.mp4", "X_02.mp4"}, realOptions())
	results, err := Execute(context.Background(), plans)
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteUndoLog(logPath, results); err != nil {
		t.Fatal(err)
	}
	assertDir(t, dir, "X_01.mp4", "X_02.mp4")

	stats, err := Undo(context.Background(), logPath, quietLogger())
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if stats.Renamed != 2 || stats.Failed != 0 {
		t.Errorf("stats = %+v", stats)
	}
	assertDir(t, dir, "clip_01.mp4", "clip_02.mp4")
	if got := read(t, a); got != "1" {
		t.Errorf("clip_01.mp4 = %q", got)
	}
}

// renameAndLog executes renames of dir's files and writes the undo log.
func renameAndLog(t *testing.T, dir string, paths, names []string) string {
	t.Helper()
	logPath := filepath.Join(t.TempDir(), "undo.csv")
	plans := planner.BuildPlan(paths, names, realOptions())
	results, err := Execute(context.Background(), plans)
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteUndoLog(logPath, results); err != nil {
		t.Fatal(err)
	}
	return logPath
}

func TestUndo_Swap(t *testing.T) {
	dir := t.TempDir()
	a := write(t, dir, "a.txt", "A")
	b := write(t, dir, "b.txt", "B")
	logPath := renameAndLog(t, dir, []string{a, b}, []string{"b.txt", "a.txt"})
	if got := read(t, a); got != "B" {
		t.Fatalf("a.txt = %q after swap", got)
	}

	stats, err := Undo(context.Background(), logPath, quietLogger())
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if stats.Renamed != 2 || stats.Skipped != 0 || stats.Failed != 0 {
		t.Errorf("stats = %+v", stats)
	}
	if read(t, a) != "A" || read(t, b) != "B" {
		t.Errorf("a.txt = %q, b.txt = %q; want A, B", read(t, a), read(t, b))
	}
	assertDir(t, dir, "a.txt", "b.txt")
}

func TestUndo_Chain(t *testing.T) {
	dir := t.TempDir()
	a := write(t, dir, "a.txt", "A")
	b := write(t, dir, "b.txt", "B")
	logPath := renameAndLog(t, dir, []string{a, b}, []string{"b.txt", "c.txt"})
	assertDir(t, dir, "b.txt", "c.txt")

	stats, err := Undo(context.Background(), logPath, quietLogger())
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if stats.Renamed != 2 || stats.Skipped != 0 {
		t.Errorf("stats = %+v", stats)
	}
	assertDir(t, dir, "a.txt", "b.txt")
	if read(t, a) != "A" || read(t, b) != "B" {
		t.Errorf("a.txt = %q, b.txt = %q; want A, B", read(t, a), read(t, b))
	}
}

func TestUndo_BlockedChainSkipsBoth(t *testing.T) {
	dir := t.TempDir()
	a := write(t, dir, "a.txt", "A")
	b := write(t, dir, "b.txt", "B")
	logPath := renameAndLog(t, dir, []string{a, b}, []string{"b.txt", "c.txt"})
	write(t, dir, "a.txt", "new")

	stats, err := Undo(context.Background(), logPath, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	if stats.Skipped != 2 || stats.Renamed != 0 {
		t.Errorf("stats = %+v", stats)
	}
	assertDir(t, dir, "a.txt", "b.txt", "c.txt")
	if got := read(t, a); got != "new" {
		t.Errorf("a.txt = %q, want untouched", got)
	}
}

func TestUndo_SkipsTakenAndMissing(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(t.TempDir(), "undo.csv")
	results := []Result{
		{OldPath: filepath.Join(dir, "old1"), NewPath: filepath.Join(dir, "gone"), Status: StatusRenamed},
		{OldPath: filepath.Join(dir, "taken"), NewPath: filepath.Join(dir, "new2"), Status: StatusRenamed},
		{OldPath: filepath.Join(dir, "f"), NewPath: filepath.Join(dir, "g"), Status: StatusFailed, Err: errors.New("boom, bad")},
	}
	touch(t, dir, "taken")
	touch(t, dir, "new2")
	if err := WriteUndoLog(logPath, results); err != nil {
		t.Fatal(err)
	}

	stats, err := Undo(context.Background(), logPath, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	if stats.Total != 2 || stats.Skipped != 2 || stats.Renamed != 0 {
		t.Errorf("stats = %+v", stats)
	}
	assertDir(t, dir, "new2", "taken")
}

func TestReadUndoLog(t *testing.T) {
	in := "old_path,new_path,status,error\n/a,/b,renamed,\n/c,/d,failed,\"x, y\"\n"
	rows, err := ReadUndoLog(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || rows[0].Status != StatusRenamed || rows[0].Err != nil {
		t.Fatalf("rows = %+v", rows)
	}
	if rows[1].Err == nil || rows[1].Err.Error() != "x, y" {
		t.Errorf("error column = %v", rows[1].Err)
	}

	if _, err := ReadUndoLog(strings.NewReader("from,to,status,error\n")); err == nil {
		t.Error("expected header error")
	}
}

// --- Lock tests ---

func TestLockDirs(t *testing.T) {
	d1, d2 := t.TempDir(), t.TempDir()
	unlock, err := lockDirs([]string{d2, d1})
	if err != nil {
		t.Fatal(err)
	}
	for _, d := range []string{d1, d2} {
		if _, err := os.Stat(filepath.Join(d, lockName)); err != nil {
			t.Errorf("lock file missing in %s while held: %v", d, err)
		}
	}
	files, err := Discover([]string{d1}, nil)
	if err != nil || len(files) != 0 {
		t.Errorf("Discover picked up the lock file: %v %v", files, err)
	}
	unlock()
	for _, d := range []string{d1, d2} {
		assertDir(t, d)
	}

	// Released locks can be taken again.
	unlock, err = lockDirs([]string{d1})
	if err != nil {
		t.Fatal(err)
	}
	unlock()
	assertDir(t, d1)
}

// --- Run tests ---

func TestRun_DryRun(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"clip_01.mp4", "clip_02.mp4", "notes.txt"} {
		touch(t, dir, n)
	}
	cfg := runConfig(t, dir, func(c *config.Config) {
		c.DryRun = true
		c.ApplyToAll = true
		c.SelectSpecs = []string{"0:0"}
		c.RuleSpecs = []string{"replace=X"}
	})
	out := captureStdout(t)

	stats := Run(context.Background(), cfg, quietLogger())

	if stats.Total != 3 || stats.Renamed != 2 || stats.Unchanged != 1 || stats.Failed != 0 {
		t.Errorf("stats = %+v", stats)
	}
	if !strings.Contains(out.String(), "X_02.mp4") {
		t.Errorf("preview missing new name:\n%s", out.String())
	}
	assertDir(t, dir, "clip_01.mp4", "clip_02.mp4", "notes.txt")
}

func TestRun_RenamesAndWritesUndoLog(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"A_0001C001_240715.mxf", "A_0002C001_240715.mxf"} {
		touch(t, dir, n)
	}
	undo := filepath.Join(t.TempDir(), "undo.csv")
	cfg := runConfig(t, dir, func(c *config.Config) {
		c.ApplyToAll = true
		c.SelectSpecs = []string{"0:6"}
		c.RuleSpecs = []string{"remove"}
		c.UndoLog = undo
	})
	captureStdout(t)

	stats := Run(context.Background(), cfg, quietLogger())

	if stats.Renamed != 2 || stats.Failed != 0 {
		t.Fatalf("stats = %+v", stats)
	}
	assertDir(t, dir, "A_0001C001_.mxf", "A_0002C001_.mxf")

	if _, err := Undo(context.Background(), undo, quietLogger()); err != nil {
		t.Fatal(err)
	}
	assertDir(t, dir, "A_0001C001_240715.mxf", "A_0002C001_240715.mxf")
}

func TestRun_BadSelectionCountsFailure(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a_1.txt")
	cfg := runConfig(t, dir, func(c *config.Config) {
		c.DryRun = true
		c.SelectSpecs = []string{"4:0"}
		c.RuleSpecs = []string{"replace=b"}
	})
	captureStdout(t)

	stats := Run(context.Background(), cfg, quietLogger())
	if stats.Failed != 1 || stats.Renamed != 0 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestRun_ListTokens(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "clip_01.mp4")
	cfg := runConfig(t, dir, func(c *config.Config) { c.ListTokens = true })
	out := captureStdout(t)

	Run(context.Background(), cfg, quietLogger())
	if got := out.String(); !strings.Contains(got, "[0]clip [1]_ [2]01 [3].mp [4]4") {
		t.Errorf("token listing:\n%s", got)
	}
}

func TestRun_RulesFileAndSave(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "clip_01.mp4")
	saved := filepath.Join(t.TempDir(), "rules.toml")
	cfg := runConfig(t, dir, func(c *config.Config) {
		c.DryRun = true
		c.SelectSpecs = []string{"0:0"}
		c.RuleSpecs = []string{"suffix=-v2"}
		c.SaveRules = saved
	})
	captureStdout(t)
	Run(context.Background(), cfg, quietLogger())

	// Loading the saved rules alone reproduces the rename.
	cfg = runConfig(t, dir, func(c *config.Config) {
		c.DryRun = true
		c.SelectSpecs = []string{"0:0"}
		c.RulesFile = saved
	})
	out := captureStdout(t)
	stats := Run(context.Background(), cfg, quietLogger())
	if stats.Renamed != 1 || !strings.Contains(out.String(), "clip-v2_01.mp4") {
		t.Errorf("stats = %+v, output:\n%s", stats, out.String())
	}
}

// --- Helpers ---

func runConfig(t *testing.T, dir string, mod func(*config.Config)) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Paths = []string{dir}
	cfg.ColorMode = config.ColorNever
	mod(&cfg)
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	term.Configure(cfg.ColorMode)
	return &cfg
}

func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = old })
	return &buf
}

func quietLogger() *logging.Logger {
	return logging.New(io.Discard, io.Discard)
}

func realOptions() planner.Options {
	opts := planner.DefaultOptions()
	opts.FoldCase = false
	return opts
}

// failOn makes rename fail for calls matching fn until the test ends.
func failOn(t *testing.T, fn func(oldPath, newPath string) bool) {
	t.Helper()
	t.Cleanup(func() { rename = os.Rename })
	rename = func(oldPath, newPath string) error {
		if fn(oldPath, newPath) {
			return &os.LinkError{Op: "rename", Old: oldPath, New: newPath, Err: os.ErrPermission}
		}
		return os.Rename(oldPath, newPath)
	}
}

func assertDir(t *testing.T, dir string, want ...string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, e := range entries {
		got = append(got, e.Name())
	}
	if !sliceEqual(got, want) {
		t.Errorf("dir = %v, want %v", got, want)
	}
}

func touch(t *testing.T, dir, name string) {
	t.Helper()
	write(t, dir, name, "")
}

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func read(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func basenames(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = filepath.Base(p)
	}
	return out
}

func sliceEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
