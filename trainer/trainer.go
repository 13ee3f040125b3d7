// Package trainer drives the optimization loop: it draws minibatches,
// converts them into device blocks, invokes the optimizer through the model
// boundary and fires the scheduled side effects at their configured
// triggers. Execution is single threaded; side effects run inline between
// optimizer steps.
package trainer

import (
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/kiyomaro927/segnmt/batch"
	"github.com/kiyomaro927/segnmt/model"
	"github.com/kiyomaro927/segnmt/report"
)

// Phase is the loop's coarse state.
type Phase int

const (
	Running Phase = iota
	Checkpointing
	Terminated
)

// Trainer owns the iteration loop and its scheduled extensions.
type Trainer struct {
	model     model.Model
	optimizer model.Optimizer
	device    batch.Device
	reporter  report.Reporter
	iter      *Iterator
	config    Config

	state      State
	phase      Phase
	extensions []Extension

	start     time.Time
	lossSum   float64
	lossCount int
}

// New wires a trainer over an already-loaded training set.
func New(c Config, m model.Model, o model.Optimizer, dev batch.Device, r report.Reporter, iter *Iterator) (*Trainer, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if r == nil {
		r = report.NopReporter{}
	}
	return &Trainer{
		model:     m,
		optimizer: o,
		device:    dev,
		reporter:  r,
		iter:      iter,
		config:    c,
		state:     State{Seed: c.Seed, RunID: uuid.NewString()},
	}, nil
}

// SetReporter replaces the metrics sink. Useful when the sink needs the
// trainer's run id before it can be opened.
func (t *Trainer) SetReporter(r report.Reporter) {
	if r == nil {
		r = report.NopReporter{}
	}
	t.reporter = r
}

// State returns a copy of the current training state.
func (t *Trainer) State() State {
	return t.state
}

// Phase returns the loop's current phase.
func (t *Trainer) Phase() Phase {
	return t.phase
}

// Model returns the trained model.
func (t *Trainer) Model() model.Model {
	return t.model
}

// Device returns the compute device the run is bound to.
func (t *Trainer) Device() batch.Device {
	return t.device
}

// Reporter returns the metrics sink.
func (t *Trainer) Reporter() report.Reporter {
	return t.reporter
}

// Elapsed returns wall-clock time spent training, across resumes.
func (t *Trainer) Elapsed() time.Duration {
	if t.start.IsZero() {
		return t.state.Elapsed
	}
	return t.state.Elapsed + time.Since(t.start)
}

// TakeMeanLoss returns the mean training loss accumulated since the last
// call and resets the accumulator.
func (t *Trainer) TakeMeanLoss() (float64, bool) {
	if t.lossCount == 0 {
		return 0, false
	}
	mean := t.lossSum / float64(t.lossCount)
	t.lossSum, t.lossCount = 0, 0
	return mean, true
}

// Restore loads a snapshot taken by the snapshot extension and positions
// the loop to continue from it. It must run before Run.
func (t *Trainer) Restore(path string) error {
	state, err := ReadSnapshot(path, t.model, t.optimizer)
	if err != nil {
		return err
	}
	t.state = state
	t.iter.Seek(state.Iteration)
	return nil
}

// Snapshot writes the current state under the configured snapshot
// directory. The loop is in the Checkpointing phase for the duration; this
// is the only interruption point where stored state is fully consistent.
func (t *Trainer) Snapshot() error {
	t.phase = Checkpointing
	defer func() { t.phase = Running }()

	t.state.Elapsed = t.Elapsed()
	path := filepath.Join(t.config.SnapshotDir, SnapshotName(t.state.Iteration))
	return WriteSnapshot(path, t.state, t.model, t.optimizer)
}

// Run advances the loop until the epoch budget is exhausted. Each iteration
// draws a minibatch, converts it, applies one optimizer step and then fires
// every extension whose trigger is due.
func (t *Trainer) Run() error {
	total := t.config.Epoch * t.iter.BatchesPerEpoch()
	if total == 0 {
		return errors.New("trainer: empty training set")
	}

	t.phase = Running
	t.start = time.Now()

	for t.state.Iteration < total {
		examples := t.iter.Next()
		b, err := batch.ConvertWithSimilar(examples, t.device)
		if err != nil {
			return errors.Wrapf(err, "trainer: iteration %d", t.state.Iteration+1)
		}
		loss, err := t.optimizer.Step(t.model, b)
		if err != nil {
			return errors.Wrapf(err, "trainer: iteration %d", t.state.Iteration+1)
		}
		if err := batch.Reclaim(t.device); err != nil {
			return errors.Wrapf(err, "trainer: iteration %d", t.state.Iteration+1)
		}

		t.state.Iteration++
		t.state.Epoch = t.iter.Epoch()
		t.lossSum += loss
		t.lossCount++

		for _, ext := range t.extensions {
			if !ext.Trigger(t.state.Iteration) {
				continue
			}
			if err := ext.Run(t); err != nil {
				return errors.Wrapf(err, "trainer: extension %s at iteration %d", ext.Name, t.state.Iteration)
			}
		}
	}

	t.state.Elapsed = t.Elapsed()
	t.start = time.Time{}
	t.phase = Terminated
	return nil
}
