package batch

import (
	"github.com/pkg/errors"

	"github.com/kiyomaro927/segnmt/corpus"
	"github.com/kiyomaro927/segnmt/vocab"
)

// pad builds one Block from sequences. Every sequence gets EOS appended, so
// the block is max(len)+1 wide; shorter rows are right-filled with PAD.
func pad(sequences [][]int32) *Block {
	cols := 1
	for _, seq := range sequences {
		if len(seq)+1 > cols {
			cols = len(seq) + 1
		}
	}
	b := &Block{
		Data: make([]int32, len(sequences)*cols),
		Rows: len(sequences),
		Cols: cols,
	}
	for r, seq := range sequences {
		row := b.Data[r*cols : (r+1)*cols]
		copy(row, seq)
		row[len(seq)] = vocab.EOS
		for c := len(seq) + 1; c < cols; c++ {
			row[c] = vocab.PAD
		}
	}
	return b
}

// Convert turns a minibatch of examples into a device-resident (source,
// target) block pair. Output is bit-identical for the same examples in the
// same order.
func Convert(examples []corpus.Example, dev Device) (Pair, error) {
	sources := make([][]int32, len(examples))
	targets := make([][]int32, len(examples))
	for i, ex := range examples {
		sources[i] = ex.Source
		targets[i] = ex.Target
	}

	source, err := dev.Move(pad(sources))
	if err != nil {
		return Pair{}, errors.Wrap(err, "batch: move source block")
	}
	target, err := dev.Move(pad(targets))
	if err != nil {
		return Pair{}, errors.Wrap(err, "batch: move target block")
	}
	return Pair{Source: source, Target: target}, nil
}

// ConvertWithSimilar converts a retrieval-augmented minibatch. The base pair
// comes from Convert; on top of it, one block pair is built per retrieval
// rank r in [0, M) where M is the largest retrieved-set size in the batch.
// A member with fewer than r+1 retrievals contributes the empty example at
// rank r. M = 0 yields an empty rank sequence.
func ConvertWithSimilar(examples []corpus.AugmentedExample, dev Device) (Batch, error) {
	base := make([]corpus.Example, len(examples))
	maxRetrieved := 0
	for i, ex := range examples {
		base[i] = ex.Example
		if len(ex.Similar) > maxRetrieved {
			maxRetrieved = len(ex.Similar)
		}
	}

	pair, err := Convert(base, dev)
	if err != nil {
		return Batch{}, err
	}

	similar := make([]Pair, 0, maxRetrieved)
	rank := make([]corpus.Example, len(examples))
	for r := 0; r < maxRetrieved; r++ {
		for i, ex := range examples {
			if r < len(ex.Similar) {
				rank[i] = ex.Similar[r]
			} else {
				rank[i] = corpus.Example{}
			}
		}
		converted, err := Convert(rank, dev)
		if err != nil {
			return Batch{}, errors.Wrapf(err, "batch: retrieval rank %d", r)
		}
		similar = append(similar, converted)
	}

	return Batch{Pair: pair, Similar: similar}, nil
}
