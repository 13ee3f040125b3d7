package corpus

import (
	"log"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/kiyomaro927/segnmt/vocab"
)

// AttachSimilar joins every example in data with the examples from pool named
// by the line-aligned index file at indexPath. Each index line holds
// whitespace-separated integers; the first is the example's own id and is
// skipped, the rest are resolved against pool in order. Retrieval order and
// duplicates are preserved. A line count mismatch with data, or an index
// outside pool, is a fatal configuration error.
func AttachSimilar(data []Example, pool []Example, indexPath string) ([]AugmentedExample, error) {
	lines, err := readLines(indexPath)
	if err != nil {
		return nil, err
	}
	if len(lines) != len(data) {
		return nil, errors.Errorf("corpus: index file %s has %d lines for %d examples",
			indexPath, len(lines), len(data))
	}

	log.Printf("corpus: loading similar sentence indices from %s", indexPath)

	full := make([]AugmentedExample, len(data))
	for i, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			return nil, errors.Errorf("corpus: index file %s line %d is empty", indexPath, i+1)
		}
		similar := make([]Example, 0, len(fields)-1)
		for _, field := range fields[1:] {
			index, err := strconv.Atoi(field)
			if err != nil {
				return nil, errors.Wrapf(err, "corpus: index file %s line %d", indexPath, i+1)
			}
			if index < 0 || index >= len(pool) {
				return nil, errors.Errorf("corpus: index file %s line %d references example %d of %d",
					indexPath, i+1, index, len(pool))
			}
			similar = append(similar, pool[index])
		}
		full[i] = AugmentedExample{Example: data[i], Similar: similar}
	}
	return full, nil
}

// LoadTrain loads the training corpus and attaches each example's similar
// sentences retrieved from the training corpus itself.
func LoadTrain(srcPath, tgtPath, indexPath string, srcVocab, tgtVocab *vocab.Vocab) ([]AugmentedExample, error) {
	data, err := Load(srcPath, tgtPath, srcVocab, tgtVocab)
	if err != nil {
		return nil, err
	}
	return AttachSimilar(data, data, indexPath)
}

// LoadValidation loads a held-out corpus and attaches similar sentences
// retrieved from the training corpus, which the index file refers into.
func LoadValidation(trainSrc, trainTgt, srcPath, tgtPath, indexPath string, srcVocab, tgtVocab *vocab.Vocab) ([]AugmentedExample, error) {
	pool, err := Load(trainSrc, trainTgt, srcVocab, tgtVocab)
	if err != nil {
		return nil, err
	}
	data, err := Load(srcPath, tgtPath, srcVocab, tgtVocab)
	if err != nil {
		return nil, err
	}
	return AttachSimilar(data, pool, indexPath)
}
