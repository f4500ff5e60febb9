// Package telemetry tracks bbuzz-go's own run progress: how many
// candidates a mutation engine assembled or skipped, and how a
// transmission driver's run sent, paced, and terminated. It never
// observes the fuzz target -- that would be target-side monitoring,
// which is out of scope.
//
// Each component gets a small block of named atomic counters rather than
// a string-keyed get-or-create registry: both the engine and the driver
// report a fixed, known set of events, so there is nothing an arbitrary
// metric-name lookup would buy over naming the fields directly.
package telemetry

import "sync/atomic"

// EngineStats counts what one mutation engine run produced: assembled
// candidates handed to a driver, and Cartesian combinations skipped
// because their assembled length wasn't byte-aligned (§4.E/S4's
// Unaligned case).
type EngineStats struct {
	CandidatesEmitted          atomic.Int64
	CandidatesSkippedUnaligned atomic.Int64
}

// NewEngineStats returns a zeroed EngineStats for one Engine.
func NewEngineStats() *EngineStats { return &EngineStats{} }

// Snapshot returns a point-in-time, named copy of every counter, for
// logging or reporting once a run is done.
func (s *EngineStats) Snapshot() map[string]int64 {
	return map[string]int64{
		"candidates_emitted":           s.CandidatesEmitted.Load(),
		"candidates_skipped_unaligned": s.CandidatesSkippedUnaligned.Load(),
	}
}

// DriverStats counts what one transmission-driver run produced: sends,
// end-of-static cycles skipped without sending, and which terminal
// condition ended the run.
type DriverStats struct {
	CandidatesSent        atomic.Int64
	EndOfStaticCycles     atomic.Int64
	EndOfAll              atomic.Int64
	TerminatedOnError     atomic.Int64
	TerminatedOnSendError atomic.Int64
}

// NewDriverStats returns a zeroed DriverStats for one Driver.Fuzz run.
func NewDriverStats() *DriverStats { return &DriverStats{} }

// Snapshot returns a point-in-time, named copy of every counter, for
// logging or reporting once a run is done.
func (s *DriverStats) Snapshot() map[string]int64 {
	return map[string]int64{
		"candidates_sent":          s.CandidatesSent.Load(),
		"end_of_static_cycles":     s.EndOfStaticCycles.Load(),
		"end_of_all":               s.EndOfAll.Load(),
		"terminated_on_error":      s.TerminatedOnError.Load(),
		"terminated_on_send_error": s.TerminatedOnSendError.Load(),
	}
}
