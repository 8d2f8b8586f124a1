package probe

import (
	"errors"
	"regexp"
)

// Sentinel errors for common ffprobe failures, matched from its stderr.
var (
	ErrNotMedia   = errors.New("not a recognized media file")
	ErrPermission = errors.New("permission denied")
	ErrNotFound   = errors.New("file not found")
)

// Pre-compiled regexes for classifying ffprobe stderr. Checked in order
// by [classifyStderr]; the first match wins.
var stderrClasses = []struct {
	re  *regexp.Regexp
	err error
}{
	{regexp.MustCompile(`(?i)Permission denied`), ErrPermission},
	{regexp.MustCompile(`(?i)No such file or directory`), ErrNotFound},
	{regexp.MustCompile(`(?i)Invalid data found when processing input|` +
		`could not find codec parameters|` +
		`moov atom not found|` +
		`EBML header parsing failed`), ErrNotMedia},
}

// classifyStderr maps ffprobe's stderr to a sentinel error, or nil when
// nothing matches.
func classifyStderr(stderr string) error {
	for _, c := range stderrClasses {
		if c.re.MatchString(stderr) {
			return c.err
		}
	}
	return nil
}
