package pipeline

// RunStats tracks aggregate counters across a batch run.
type RunStats struct {
	Total     int
	Renamed   int // Renamed, or would be renamed in a dry run.
	Unchanged int
	Skipped   int
	Failed    int
}

// Changed reports whether the run renamed anything.
func (s *RunStats) Changed() bool { return s.Renamed > 0 }
