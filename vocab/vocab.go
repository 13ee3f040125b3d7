// Package vocab implements the token to id mapping used by the corpus loaders.
package vocab

import (
	"bufio"
	"os"

	"github.com/pkg/errors"
)

// Reserved ids. Every vocabulary contains UNK and EOS regardless of its size cap.
const (
	UNK int32 = 0
	EOS int32 = 1
)

// PAD fills unused trailing positions in a padded block.
// It is a sentinel, never a vocabulary id.
const PAD int32 = -1

// Vocab maps tokens to dense ids in [0, Len).
type Vocab struct {
	ids   map[string]int32
	words []string
}

// Load reads a vocabulary from a flat word list, one token per line.
// The reserved <UNK> and <EOS> tokens are prepended before the file's words,
// and the mapping is truncated to size. Load fails when size exceeds the
// number of available words, or when size is too small to hold the
// reserved tokens.
func Load(path string, size int) (*Vocab, error) {
	if size < 2 {
		return nil, errors.Errorf("vocab: size %d cannot hold the reserved <UNK> and <EOS> tokens", size)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "vocab: open word list")
	}
	defer file.Close()

	words := []string{"<UNK>", "<EOS>"}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		words = append(words, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "vocab: read %s", path)
	}
	if size > len(words) {
		return nil, errors.Errorf("vocab: requested size %d exceeds %d available words in %s",
			size, len(words), path)
	}

	v := &Vocab{
		ids:   make(map[string]int32, size),
		words: make([]string, size),
	}
	for i := 0; i < size; i++ {
		v.ids[words[i]] = int32(i)
		v.words[i] = words[i]
	}
	return v, nil
}

// Id returns the id of token, or UNK if the token is out of vocabulary.
func (v *Vocab) Id(token string) int32 {
	if id, ok := v.ids[token]; ok {
		return id
	}
	return UNK
}

// Word returns the token for id. Ids outside [0, Len) map to the UNK token.
func (v *Vocab) Word(id int32) string {
	if id < 0 || int(id) >= len(v.words) {
		return v.words[UNK]
	}
	return v.words[id]
}

// Len returns the number of tokens in the vocabulary.
func (v *Vocab) Len() int {
	return len(v.words)
}
