package batch

// Notification is what a batch reports outward while it runs.
// Consumers must drain the notifications channel until BatchFinished
// arrives; the coordinator blocks rather than drop summary events.
type Notification interface {
	notification()
}

// BatchProgress is the throttled aggregate percentage across the
// whole batch, based on completed-file count.
type BatchProgress struct {
	Percent float64
	Message string
}

// FileProgress is a single file's staged progress. Delivery is best
// effort: updates are dropped when the consumer lags.
type FileProgress struct {
	Path    string
	Percent float64
	Message string
}

// BatchFinished is the final summary, emitted exactly once per batch.
type BatchFinished struct {
	Total  int
	Failed int
}

func (BatchProgress) notification() {}
func (FileProgress) notification()  {}
func (BatchFinished) notification() {}
