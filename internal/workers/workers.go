package workers

type Workers struct {
	workers []Worker
}

// NewWorkers assembles the given background workers into one aggregate.
func NewWorkers(ws ...Worker) *Workers {
	return &Workers{workers: ws}
}

func (w *Workers) Run() {
	for _, worker := range w.workers {
		worker.Run()
	}
}
