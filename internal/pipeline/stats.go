package pipeline

// RunStats tracks aggregate counters and byte totals across a batch run.
type RunStats struct {
	Total            int
	Encoded          int
	Skipped          int
	Failed           int
	TotalInputBytes  int64
	TotalOutputBytes int64
}

// Remaining returns the number of matched files that never ran, which is
// non-zero only when the run was interrupted.
func (s *RunStats) Remaining() int {
	return s.Total - s.Encoded - s.Skipped - s.Failed
}
