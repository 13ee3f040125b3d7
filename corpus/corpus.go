// Package corpus loads line-aligned parallel corpora into id sequence pairs
// and attaches retrieved similar examples named by an external index file.
package corpus

import (
	"bufio"
	"log"
	"os"
	"runtime"
	"strings"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/kiyomaro927/segnmt/parallel"
	"github.com/kiyomaro927/segnmt/vocab"
)

// Example is one aligned sentence pair as id sequences.
// Examples are created once at load time and never mutated afterwards.
type Example struct {
	Source []int32
	Target []int32
}

// AugmentedExample is an Example together with its retrieved similar
// examples, in retrieval rank order.
type AugmentedExample struct {
	Example
	Similar []Example
}

// progressEvery is the line interval of loader progress output.
const progressEvery = 100000

func readLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "corpus: open")
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "corpus: read %s", path)
	}
	return lines, nil
}

func tokenize(line string, v *vocab.Vocab) []int32 {
	words := strings.Fields(line)
	ids := make([]int32, len(words))
	for i, w := range words {
		ids[i] = v.Id(w)
	}
	return ids
}

// Load reads two line-aligned text files into Examples in file order.
// Tokens absent from the vocabularies map to UNK. A line count mismatch
// between the two files is a fatal configuration error.
func Load(srcPath, tgtPath string, srcVocab, tgtVocab *vocab.Vocab) ([]Example, error) {
	srcLines, err := readLines(srcPath)
	if err != nil {
		return nil, err
	}
	tgtLines, err := readLines(tgtPath)
	if err != nil {
		return nil, err
	}
	if len(srcLines) != len(tgtLines) {
		return nil, errors.Errorf("corpus: %s has %d lines but %s has %d",
			srcPath, len(srcLines), tgtPath, len(tgtLines))
	}

	log.Printf("corpus: loading %s and %s (%d lines)", srcPath, tgtPath, len(srcLines))

	data := make([]Example, len(srcLines))
	var done atomic.Int64
	parallel.ForEach(len(srcLines), runtime.NumCPU(), func(i int) {
		data[i] = Example{
			Source: tokenize(srcLines[i], srcVocab),
			Target: tokenize(tgtLines[i], tgtVocab),
		}
		if n := done.Add(1); n%progressEvery == 0 {
			log.Printf("corpus: tokenized %d/%d lines", n, len(data))
		}
	})

	return data, nil
}
