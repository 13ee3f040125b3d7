package trainer

import (
	"reflect"
	"testing"

	"github.com/kiyomaro927/segnmt/corpus"
)

func numberedSet(n int) []corpus.AugmentedExample {
	data := make([]corpus.AugmentedExample, n)
	for i := range data {
		data[i] = corpus.AugmentedExample{
			Example: corpus.Example{Source: []int32{int32(i)}, Target: []int32{int32(i)}},
		}
	}
	return data
}

func drawIDs(it *Iterator, batches int) [][]int32 {
	var out [][]int32
	for i := 0; i < batches; i++ {
		b := it.Next()
		ids := make([]int32, len(b))
		for j, ex := range b {
			ids[j] = ex.Source[0]
		}
		out = append(out, ids)
	}
	return out
}

func TestIteratorCoversEpoch(t *testing.T) {
	it := NewIterator(numberedSet(10), 3, 42)
	if it.BatchesPerEpoch() != 4 {
		t.Fatalf("batches per epoch = %d, want 4", it.BatchesPerEpoch())
	}
	seen := make(map[int32]bool)
	for _, ids := range drawIDs(it, 4) {
		for _, id := range ids {
			if seen[id] {
				t.Errorf("example %d drawn twice in one epoch", id)
			}
			seen[id] = true
		}
	}
	if len(seen) != 10 {
		t.Errorf("epoch covered %d of 10 examples", len(seen))
	}
}

func TestIteratorReshufflesPerEpoch(t *testing.T) {
	first := drawIDs(NewIterator(numberedSet(64), 8, 1), 8)
	it := NewIterator(numberedSet(64), 8, 1)
	drawIDs(it, 8)
	second := drawIDs(it, 8)
	if reflect.DeepEqual(first, second) {
		t.Error("epoch 1 replayed epoch 0's order")
	}
}

func TestIteratorDeterministicPerSeed(t *testing.T) {
	a := drawIDs(NewIterator(numberedSet(32), 4, 7), 16)
	b := drawIDs(NewIterator(numberedSet(32), 4, 7), 16)
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed produced different draw order")
	}
}

func TestIteratorSeekReplays(t *testing.T) {
	full := drawIDs(NewIterator(numberedSet(20), 4, 3), 13)

	resumed := NewIterator(numberedSet(20), 4, 3)
	resumed.Seek(9)
	tail := drawIDs(resumed, 4)
	if !reflect.DeepEqual(full[9:], tail) {
		t.Errorf("seek tail %v differs from uninterrupted draws %v", tail, full[9:])
	}
}

func TestEvalIteratorSinglePassInOrder(t *testing.T) {
	it := NewEvalIterator(numberedSet(5), 2)
	var order []int32
	for b := it.Next(); b != nil; b = it.Next() {
		for _, ex := range b {
			order = append(order, ex.Source[0])
		}
	}
	if !reflect.DeepEqual(order, []int32{0, 1, 2, 3, 4}) {
		t.Errorf("evaluation order = %v, want set order", order)
	}
	if it.Next() != nil {
		t.Error("exhausted evaluation iterator produced another batch")
	}
	it.Reset()
	if b := it.Next(); len(b) != 2 {
		t.Errorf("reset iterator first batch = %v", b)
	}
}
