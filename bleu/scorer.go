package bleu

import (
	"github.com/pkg/errors"

	"github.com/kiyomaro927/segnmt/batch"
	"github.com/kiyomaro927/segnmt/corpus"
	"github.com/kiyomaro927/segnmt/model"
	"github.com/kiyomaro927/segnmt/vocab"
)

// Scorer runs one full inference-mode decode of a held-out set and scores
// the result with Corpus. A pass costs one decode of the whole set, so the
// caller controls how often Score runs.
type Scorer struct {
	Data      []corpus.AugmentedExample
	Model     model.Model
	Device    batch.Device
	BatchSize int
}

// Score decodes the held-out set batch by batch, in set order without
// shuffling, and returns the corpus-level score. Trailing EOS tokens are
// stripped from hypotheses before scoring.
func (s *Scorer) Score() (float64, error) {
	if s.BatchSize <= 0 {
		return 0, errors.New("bleu: batch size must be positive")
	}

	references := make([][]int32, 0, len(s.Data))
	hypotheses := make([][]int32, 0, len(s.Data))

	plain := make([]corpus.Example, 0, s.BatchSize)
	for start := 0; start < len(s.Data); start += s.BatchSize {
		end := start + s.BatchSize
		if end > len(s.Data) {
			end = len(s.Data)
		}
		plain = plain[:0]
		for _, ex := range s.Data[start:end] {
			plain = append(plain, ex.Example)
			references = append(references, ex.Target)
		}

		pair, err := batch.Convert(plain, s.Device)
		if err != nil {
			return 0, err
		}
		results, err := s.Model.Translate(pair.Source)
		if err != nil {
			return 0, errors.Wrap(err, "bleu: translate held-out batch")
		}
		if len(results) != end-start {
			return 0, errors.Errorf("bleu: model returned %d hypotheses for %d sources",
				len(results), end-start)
		}
		for _, hyp := range results {
			if n := len(hyp); n > 0 && hyp[n-1] == vocab.EOS {
				hyp = hyp[:n-1]
			}
			hypotheses = append(hypotheses, hyp)
		}
		if err := batch.Reclaim(s.Device); err != nil {
			return 0, err
		}
	}

	return Corpus(references, hypotheses), nil
}
