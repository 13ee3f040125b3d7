// Package report collects named scalar metrics per iteration: training loss,
// held-out loss, BLEU, elapsed time. Sinks are best effort consumers; the
// training loop never depends on one being available.
package report

import "log"

// Reporter accepts one named scalar value observed at an iteration.
type Reporter interface {
	Report(name string, value float64, iteration int)
}

// Flusher is implemented by reporters holding resources to release at the
// end of the run.
type Flusher interface {
	Flush() error
}

// LogReporter writes metrics as log lines.
type LogReporter struct{}

func (LogReporter) Report(name string, value float64, iteration int) {
	log.Printf("report: iteration %d %s=%g", iteration, name, value)
}

// NopReporter discards metrics. It stands in for a sink that failed to open.
type NopReporter struct{}

func (NopReporter) Report(string, float64, int) {}

// MultiReporter fans one metric out to several sinks.
type MultiReporter []Reporter

func (m MultiReporter) Report(name string, value float64, iteration int) {
	for _, r := range m {
		r.Report(name, value, iteration)
	}
}

// Flush flushes every member sink that supports it.
func (m MultiReporter) Flush() error {
	var first error
	for _, r := range m {
		if f, ok := r.(Flusher); ok {
			if err := f.Flush(); err != nil && first == nil {
				first = err
			}
		}
	}
	return first
}
