package trainer

import (
	"log"
	"math/rand"
	"strings"

	"github.com/pkg/errors"

	"github.com/kiyomaro927/segnmt/batch"
	"github.com/kiyomaro927/segnmt/bleu"
	"github.com/kiyomaro927/segnmt/corpus"
	"github.com/kiyomaro927/segnmt/model"
	"github.com/kiyomaro927/segnmt/vocab"
)

// Metric names reported by the standard extensions.
const (
	MetricLoss           = "main/loss"
	MetricValidationLoss = "validation/main/loss"
	MetricValidationBleu = "validation/main/bleu"
	MetricElapsed        = "elapsed_time"
)

// LogReport reports the mean training loss since its last firing, plus
// elapsed time, every k iterations.
func LogReport(k int) Extension {
	return Extension{
		Name:    "log_report",
		Trigger: Every(k),
		Run: func(t *Trainer) error {
			if mean, ok := t.TakeMeanLoss(); ok {
				t.Reporter().Report(MetricLoss, mean, t.state.Iteration)
			}
			t.Reporter().Report(MetricElapsed, t.Elapsed().Seconds(), t.state.Iteration)
			return nil
		},
	}
}

// Progress prints a short status line every k iterations.
func Progress(k int) Extension {
	return Extension{
		Name:    "progress",
		Trigger: Every(k),
		Run: func(t *Trainer) error {
			log.Printf("trainer: epoch %d iteration %d", t.state.Epoch, t.state.Iteration)
			return nil
		},
	}
}

// SnapshotEvery writes a training snapshot every k iterations.
func SnapshotEvery(k int) Extension {
	return Extension{
		Name:    "snapshot",
		Trigger: Every(k),
		Run: func(t *Trainer) error {
			return t.Snapshot()
		},
	}
}

// Evaluation computes the mean held-out loss in inference mode every k
// iterations. The pass consumes the whole held-out set once per firing.
func Evaluation(data []corpus.AugmentedExample, batchSize, k int) Extension {
	return Extension{
		Name:    "evaluation",
		Trigger: Every(k),
		Run: func(t *Trainer) error {
			it := NewEvalIterator(data, batchSize)
			sum, count := 0.0, 0
			for examples := it.Next(); examples != nil; examples = it.Next() {
				b, err := batch.ConvertWithSimilar(examples, t.Device())
				if err != nil {
					return err
				}
				loss, err := t.Model().ComputeLoss(b, model.Inference)
				if err != nil {
					return errors.Wrap(err, "held-out loss")
				}
				sum += loss
				count++
				if err := batch.Reclaim(t.Device()); err != nil {
					return err
				}
			}
			if count > 0 {
				t.Reporter().Report(MetricValidationLoss, sum/float64(count), t.state.Iteration)
			}
			return nil
		},
	}
}

// CalculateBleu scores a full held-out decode every k iterations.
func CalculateBleu(data []corpus.AugmentedExample, batchSize, k int) Extension {
	return Extension{
		Name:    "bleu",
		Trigger: Every(k),
		Run: func(t *Trainer) error {
			scorer := bleu.Scorer{
				Data:      data,
				Model:     t.Model(),
				Device:    t.Device(),
				BatchSize: batchSize,
			}
			score, err := scorer.Score()
			if err != nil {
				return err
			}
			t.Reporter().Report(MetricValidationBleu, score, t.state.Iteration)
			return nil
		},
	}
}

func render(ids []int32, v *vocab.Vocab) string {
	words := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == vocab.PAD {
			break
		}
		words = append(words, v.Word(id))
	}
	return strings.Join(words, " ")
}

// TranslateSample translates one held-out example every k iterations and
// logs the source, the decoded result and the expected target, as a
// qualitative check alongside the aggregate scores. The example choice is
// derived from (seed, iteration), so resumed runs sample identically.
func TranslateSample(data []corpus.AugmentedExample, srcVocab, tgtVocab *vocab.Vocab, k int) Extension {
	return Extension{
		Name:    "translate_sample",
		Trigger: Every(k),
		Run: func(t *Trainer) error {
			if len(data) == 0 {
				return nil
			}
			rng := rand.New(rand.NewSource(t.state.Seed ^ int64(t.state.Iteration)))
			ex := data[rng.Intn(len(data))]

			b, err := batch.ConvertWithSimilar([]corpus.AugmentedExample{ex}, t.Device())
			if err != nil {
				return err
			}
			results, err := t.Model().Translate(b.Source)
			if err != nil {
				return errors.Wrap(err, "sample translation")
			}
			if len(results) == 0 {
				return errors.New("sample translation returned no hypothesis")
			}

			log.Printf("# source : %s", render(b.Source.Row(0), srcVocab))
			log.Printf("# result : %s", render(results[0], tgtVocab))
			log.Printf("# expect : %s", render(b.Target.Row(0), tgtVocab))
			return batch.Reclaim(t.Device())
		},
	}
}
