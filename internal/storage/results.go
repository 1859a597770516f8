package storage

import (
	"github.com/vovakirdan/micromouse/internal/sim"
)

// RecordFromResult converts a finished simulation into a run record.
func RecordFromResult(res sim.Result) RunRecord {
	r := RunRecord{
		MazeID:     res.MazeID,
		SolverID:   res.SolverID,
		Reached:    res.Reached,
		Phase:      res.Final.Phase.String(),
		Ticks:      res.Stats.Ticks,
		Forward:    res.Stats.Forward,
		Turns:      res.Stats.Turns,
		Rejected:   res.Stats.Rejected,
		Collisions: res.Stats.Collisions,
		Cells:      res.Stats.Cells,
		RunMoves:   res.Summary.RunMoves,
		Refloods:   res.Summary.Refloods,
		Seed:       res.Seed,
		FailRate:   res.FailRate,
		Duration:   res.Duration,
	}
	if res.Final.Err != nil {
		r.Error = res.Final.Err.Error()
	}
	return r
}

// SaveResult records a finished simulation and returns the new run ID.
func (s *Store) SaveResult(res sim.Result) (string, error) {
	return s.SaveRun(RecordFromResult(res))
}
