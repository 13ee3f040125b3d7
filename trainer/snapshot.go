package trainer

import (
	"compress/zlib"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/kiyomaro927/segnmt/model"
)

// State is the process-wide training state carried across snapshots:
// counters, the base seed every stochastic decision is derived from, and
// accumulated wall-clock time.
type State struct {
	Iteration int           `json:"iteration"`
	Epoch     int           `json:"epoch"`
	Seed      int64         `json:"seed"`
	Elapsed   time.Duration `json:"elapsed"`
	RunID     string        `json:"run_id"`
}

type snapshotFile struct {
	State     State  `json:"state"`
	Model     []byte `json:"model,omitempty"`
	Optimizer []byte `json:"optimizer,omitempty"`
}

// WriteSnapshot serializes state plus the model's and optimizer's parameter
// payloads (when they implement model.Snapshotter) as compressed JSON. The
// file lands via a temporary name and an atomic rename.
func WriteSnapshot(path string, state State, m model.Model, o model.Optimizer) error {
	snap := snapshotFile{State: state}

	if s, ok := m.(model.Snapshotter); ok {
		data, err := s.StateBytes()
		if err != nil {
			return errors.Wrap(err, "trainer: serialize model state")
		}
		snap.Model = data
	}
	if s, ok := o.(model.Snapshotter); ok {
		data, err := s.StateBytes()
		if err != nil {
			return errors.Wrap(err, "trainer: serialize optimizer state")
		}
		snap.Optimizer = data
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "trainer: snapshot directory")
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp")
	if err != nil {
		return errors.Wrap(err, "trainer: snapshot temp file")
	}
	defer os.Remove(tmp.Name())

	zw := zlib.NewWriter(tmp)
	if err := json.NewEncoder(zw).Encode(&snap); err != nil {
		tmp.Close()
		return errors.Wrap(err, "trainer: encode snapshot")
	}
	if err := zw.Close(); err != nil {
		tmp.Close()
		return errors.Wrap(err, "trainer: compress snapshot")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "trainer: flush snapshot")
	}
	return errors.Wrap(os.Rename(tmp.Name(), path), "trainer: place snapshot")
}

// ReadSnapshot restores a snapshot written by WriteSnapshot, handing the
// stored parameter payloads back to the model and optimizer.
func ReadSnapshot(path string, m model.Model, o model.Optimizer) (State, error) {
	file, err := os.Open(path)
	if err != nil {
		return State{}, errors.Wrap(err, "trainer: open snapshot")
	}
	defer file.Close()

	zr, err := zlib.NewReader(file)
	if err != nil {
		return State{}, errors.Wrap(err, "trainer: decompress snapshot")
	}
	defer zr.Close()

	var snap snapshotFile
	if err := json.NewDecoder(zr).Decode(&snap); err != nil {
		return State{}, errors.Wrap(err, "trainer: decode snapshot")
	}

	if s, ok := m.(model.Snapshotter); ok && snap.Model != nil {
		if err := s.RestoreState(snap.Model); err != nil {
			return State{}, errors.Wrap(err, "trainer: restore model state")
		}
	}
	if s, ok := o.(model.Snapshotter); ok && snap.Optimizer != nil {
		if err := s.RestoreState(snap.Optimizer); err != nil {
			return State{}, errors.Wrap(err, "trainer: restore optimizer state")
		}
	}
	return snap.State, nil
}

// SnapshotName returns the file name snapshots taken at iteration use.
func SnapshotName(iteration int) string {
	return fmt.Sprintf("snapshot_iter_%d.json.z", iteration)
}
