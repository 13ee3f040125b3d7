package batch

import (
	"reflect"
	"testing"

	"github.com/kiyomaro927/segnmt/corpus"
	"github.com/kiyomaro927/segnmt/vocab"
)

type hostDevice struct{}

func (hostDevice) Name() string { return "host" }
func (hostDevice) Move(b *Block) (*Block, error) { return b, nil }

func TestConvertPadding(t *testing.T) {
	examples := []corpus.Example{
		{Source: []int32{2, 3, 0}, Target: []int32{5}},
		{Source: []int32{4}, Target: []int32{6, 7, 8, 9}},
	}
	pair, err := Convert(examples, hostDevice{})
	if err != nil {
		t.Fatal(err)
	}

	if pair.Source.Rows != 2 || pair.Source.Cols != 4 {
		t.Fatalf("source shape = (%d, %d), want (2, 4)", pair.Source.Rows, pair.Source.Cols)
	}
	if want := []int32{2, 3, 0, vocab.EOS}; !reflect.DeepEqual(pair.Source.Row(0), want) {
		t.Errorf("source row 0 = %v, want %v", pair.Source.Row(0), want)
	}
	if want := []int32{4, vocab.EOS, vocab.PAD, vocab.PAD}; !reflect.DeepEqual(pair.Source.Row(1), want) {
		t.Errorf("source row 1 = %v, want %v", pair.Source.Row(1), want)
	}
	if pair.Target.Cols != 5 {
		t.Errorf("target cols = %d, want 5", pair.Target.Cols)
	}
	if want := []int32{5, vocab.EOS, vocab.PAD, vocab.PAD, vocab.PAD}; !reflect.DeepEqual(pair.Target.Row(0), want) {
		t.Errorf("target row 0 = %v, want %v", pair.Target.Row(0), want)
	}
}

func TestConvertEOSPosition(t *testing.T) {
	examples := []corpus.Example{
		{Source: []int32{2, 2}, Target: []int32{3}},
		{Source: []int32{2, 2, 2, 2, 2}, Target: []int32{3}},
		{Source: nil, Target: []int32{3}},
	}
	pair, err := Convert(examples, hostDevice{})
	if err != nil {
		t.Fatal(err)
	}
	lengths := []int{2, 5, 0}
	for r, n := range lengths {
		row := pair.Source.Row(r)
		if row[n] != vocab.EOS {
			t.Errorf("row %d: EOS not at position %d: %v", r, n, row)
		}
		for c := n + 1; c < len(row); c++ {
			if row[c] != vocab.PAD {
				t.Errorf("row %d: position %d = %d, want PAD", r, c, row[c])
			}
		}
	}
}

func TestConvertDeterministic(t *testing.T) {
	examples := []corpus.Example{
		{Source: []int32{2, 3}, Target: []int32{4, 5, 6}},
		{Source: []int32{7}, Target: []int32{8}},
	}
	first, err := Convert(examples, hostDevice{})
	if err != nil {
		t.Fatal(err)
	}
	second, err := Convert(examples, hostDevice{})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first.Source.Data, second.Source.Data) ||
		!reflect.DeepEqual(first.Target.Data, second.Target.Data) {
		t.Error("two conversions of the same minibatch differ")
	}
}

func TestConvertWithSimilarRanks(t *testing.T) {
	neighbor1 := corpus.Example{Source: []int32{10}, Target: []int32{11}}
	neighbor2 := corpus.Example{Source: []int32{12, 13}, Target: []int32{14}}
	examples := []corpus.AugmentedExample{
		{
			Example: corpus.Example{Source: []int32{2}, Target: []int32{3}},
			Similar: []corpus.Example{neighbor1, neighbor2},
		},
		{
			Example: corpus.Example{Source: []int32{4}, Target: []int32{5}},
		},
	}

	b, err := ConvertWithSimilar(examples, hostDevice{})
	if err != nil {
		t.Fatal(err)
	}
	if len(b.Similar) != 2 {
		t.Fatalf("rank count = %d, want 2", len(b.Similar))
	}

	// rank 0: both members contribute, the second an empty placeholder
	if want := []int32{10, vocab.EOS}; !reflect.DeepEqual(b.Similar[0].Source.Row(0), want) {
		t.Errorf("rank 0 row 0 = %v, want %v", b.Similar[0].Source.Row(0), want)
	}
	if want := []int32{vocab.EOS, vocab.PAD}; !reflect.DeepEqual(b.Similar[0].Source.Row(1), want) {
		t.Errorf("rank 0 row 1 = %v, want %v", b.Similar[0].Source.Row(1), want)
	}

	// rank 1: first member's second neighbor, second member empty again
	if want := []int32{12, 13, vocab.EOS}; !reflect.DeepEqual(b.Similar[1].Source.Row(0), want) {
		t.Errorf("rank 1 row 0 = %v, want %v", b.Similar[1].Source.Row(0), want)
	}
	if want := []int32{vocab.EOS, vocab.PAD, vocab.PAD}; !reflect.DeepEqual(b.Similar[1].Source.Row(1), want) {
		t.Errorf("rank 1 row 1 = %v, want %v", b.Similar[1].Source.Row(1), want)
	}
}

func TestConvertWithSimilarNoNeighbors(t *testing.T) {
	examples := []corpus.AugmentedExample{
		{Example: corpus.Example{Source: []int32{2}, Target: []int32{3}}},
		{Example: corpus.Example{Source: []int32{4}, Target: []int32{5}}},
	}
	b, err := ConvertWithSimilar(examples, hostDevice{})
	if err != nil {
		t.Fatal(err)
	}
	if len(b.Similar) != 0 {
		t.Errorf("rank count = %d, want 0", len(b.Similar))
	}
	if b.Source == nil || b.Target == nil {
		t.Error("base pair missing")
	}
}
