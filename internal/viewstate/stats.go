package viewstate

import "taskdash/internal/model"

// ComputeStats derives counts over a task snapshot. Pure and deterministic;
// stats are recomputed after every settle point rather than incrementally
// patched, so they cannot drift from the snapshot.
func ComputeStats(tasks []model.Task) model.Stats {
	st := model.Stats{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			st.Completed++
		}
	}
	st.Pending = st.Total - st.Completed
	return st
}
