// Package model declares the boundary to the translation model and its
// optimizer. The network internals live behind these interfaces; the
// pipeline only drives loss computation, decoding and parameter updates.
package model

import "github.com/kiyomaro927/segnmt/batch"

// Mode selects training or inference behavior for a model call. It is an
// explicit parameter rather than ambient configuration, so gradient
// tracking and dropout are decided at each call site.
type Mode int

const (
	Train Mode = iota
	Inference
)

func (m Mode) String() string {
	if m == Inference {
		return "inference"
	}
	return "train"
}

// Model computes a scalar training loss for a converted minibatch and
// greedily decodes padded source blocks.
type Model interface {
	// ComputeLoss evaluates the minibatch, including any ranked retrieval
	// block pairs it carries. An empty b.Similar is valid.
	ComputeLoss(b batch.Batch, mode Mode) (float64, error)

	// Translate decodes each row of source into an id sequence terminated
	// by EOS.
	Translate(source *batch.Block) ([][]int32, error)
}

// Optimizer applies one parameter update: it computes the loss for b in
// training mode and adjusts m's parameters. The update rule itself is
// implementation-defined.
type Optimizer interface {
	Step(m Model, b batch.Batch) (loss float64, err error)
}

// Snapshotter is implemented by models and optimizers whose parameters
// should ride along in training snapshots.
type Snapshotter interface {
	StateBytes() ([]byte, error)
	RestoreState(data []byte) error
}
