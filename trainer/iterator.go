package trainer

import (
	"math/rand"

	"github.com/kiyomaro927/segnmt/corpus"
)

// Iterator draws minibatches from an in-memory dataset, epoch by epoch.
// Training iterators reshuffle at every epoch boundary; the permutation of
// epoch e is derived from (seed, e) alone, so a resumed iterator replays
// the exact draw order of an uninterrupted run.
type Iterator struct {
	data      []corpus.AugmentedExample
	batchSize int
	seed      int64
	shuffle   bool

	order []int
	epoch int
	pos   int
}

// NewIterator builds a shuffling training iterator.
func NewIterator(data []corpus.AugmentedExample, batchSize int, seed int64) *Iterator {
	it := &Iterator{data: data, batchSize: batchSize, seed: seed, shuffle: true}
	it.reorder()
	return it
}

// NewEvalIterator builds a one-pass iterator in set order, for evaluation.
func NewEvalIterator(data []corpus.AugmentedExample, batchSize int) *Iterator {
	it := &Iterator{data: data, batchSize: batchSize}
	it.reorder()
	return it
}

func (it *Iterator) reorder() {
	it.order = make([]int, len(it.data))
	for i := range it.order {
		it.order[i] = i
	}
	if it.shuffle {
		rng := rand.New(rand.NewSource(it.seed ^ int64(it.epoch)))
		rng.Shuffle(len(it.order), func(i, j int) {
			it.order[i], it.order[j] = it.order[j], it.order[i]
		})
	}
}

// BatchesPerEpoch returns how many minibatches one epoch holds. The last
// batch of an epoch may be short.
func (it *Iterator) BatchesPerEpoch() int {
	if len(it.data) == 0 {
		return 0
	}
	return (len(it.data) + it.batchSize - 1) / it.batchSize
}

// Epoch returns the number of completed epochs.
func (it *Iterator) Epoch() int {
	return it.epoch
}

// Next returns the next minibatch, crossing into a fresh epoch (and for
// training iterators, a fresh permutation) when the current one is spent.
// It returns nil once a non-repeating evaluation pass is exhausted.
func (it *Iterator) Next() []corpus.AugmentedExample {
	if it.pos >= it.BatchesPerEpoch() {
		if !it.shuffle {
			return nil
		}
		it.epoch++
		it.pos = 0
		it.reorder()
	}

	start := it.pos * it.batchSize
	end := start + it.batchSize
	if end > len(it.data) {
		end = len(it.data)
	}
	it.pos++

	out := make([]corpus.AugmentedExample, end-start)
	for i := range out {
		out[i] = it.data[it.order[start+i]]
	}
	return out
}

// Reset rewinds an evaluation iterator for another pass.
func (it *Iterator) Reset() {
	it.pos = 0
}

// Seek positions the iterator where a run restored at iteration would be:
// the epoch's permutation is regenerated and the in-epoch offset replayed.
func (it *Iterator) Seek(iteration int) {
	perEpoch := it.BatchesPerEpoch()
	if perEpoch == 0 {
		return
	}
	it.epoch = iteration / perEpoch
	it.pos = iteration % perEpoch
	it.reorder()
}
