// Package bleu computes a smoothed corpus-level BLEU score over a held-out
// set decoded by the model.
package bleu

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// maxOrder is the largest n-gram order entering the score.
const maxOrder = 4

// epsilon replaces zero clipped-match counts so the geometric mean stays
// defined on small corpora.
const epsilon = 0.1

type ngram struct {
	a, b, c, d int32
	order      int
}

func countNgrams(seq []int32, order int) map[ngram]int {
	counts := make(map[ngram]int)
	for i := 0; i+order <= len(seq); i++ {
		var g ngram
		g.order = order
		g.a = seq[i]
		if order > 1 {
			g.b = seq[i+1]
		}
		if order > 2 {
			g.c = seq[i+2]
		}
		if order > 3 {
			g.d = seq[i+3]
		}
		counts[g]++
	}
	return counts
}

// Corpus scores hypotheses against single references, accumulating clipped
// n-gram matches over the whole corpus before combining them: the geometric
// mean of the four n-gram precisions times the brevity penalty. Zero-count
// precisions are smoothed with epsilon over the denominator.
func Corpus(references, hypotheses [][]int32) float64 {
	if len(references) != len(hypotheses) || len(hypotheses) == 0 {
		return 0
	}

	matches := make([]float64, maxOrder)
	totals := make([]float64, maxOrder)
	refLen, hypLen := 0, 0

	for i, hyp := range hypotheses {
		ref := references[i]
		refLen += len(ref)
		hypLen += len(hyp)
		for order := 1; order <= maxOrder; order++ {
			refCounts := countNgrams(ref, order)
			for g, n := range countNgrams(hyp, order) {
				totals[order-1] += float64(n)
				if m := refCounts[g]; m < n {
					matches[order-1] += float64(m)
				} else {
					matches[order-1] += float64(n)
				}
			}
		}
	}

	precisions := make([]float64, maxOrder)
	for i := range precisions {
		if totals[i] == 0 {
			return 0
		}
		if matches[i] == 0 {
			precisions[i] = epsilon / totals[i]
		} else {
			precisions[i] = matches[i] / totals[i]
		}
	}

	score := stat.GeometricMean(precisions, nil)

	if hypLen < refLen {
		score *= math.Exp(1 - float64(refLen)/float64(hypLen))
	}
	return score
}
