package main

import "flag"
import "fmt"
import "log"

import "github.com/kiyomaro927/segnmt/batch"
import "github.com/kiyomaro927/segnmt/bleu"
import "github.com/kiyomaro927/segnmt/corpus"
import "github.com/kiyomaro927/segnmt/device"
import "github.com/kiyomaro927/segnmt/model"
import "github.com/kiyomaro927/segnmt/trainer"
import "github.com/kiyomaro927/segnmt/vocab"

func main() {
	srcVocabPath := flag.String("source-vocab", "", "source vocabulary word list")
	tgtVocabPath := flag.String("target-vocab", "", "target vocabulary word list")
	srcVocabSize := flag.Int("source-vocab-size", 40000, "source vocabulary size")
	tgtVocabSize := flag.Int("target-vocab-size", 40000, "target vocabulary size")
	srcPath := flag.String("source", "", "held-out source sentences")
	tgtPath := flag.String("target", "", "held-out target sentences")
	modelName := flag.String("model", "encdec", "registered model implementation")
	snapshot := flag.String("snapshot", "", "training snapshot holding the model parameters")
	batchSize := flag.Int("minibatch-size", 64, "decode batch size")
	gpu := flag.Int("gpu", -1, "cuda device id, negative for cpu")
	flag.Parse()

	if *srcVocabPath == "" || *tgtVocabPath == "" || *srcPath == "" || *tgtPath == "" {
		println("vocabularies and held-out files are mandatory")
		flag.Usage()
		return
	}

	srcVocab, err := vocab.Load(*srcVocabPath, *srcVocabSize)
	if err != nil {
		log.Fatal(err)
	}
	tgtVocab, err := vocab.Load(*tgtVocabPath, *tgtVocabSize)
	if err != nil {
		log.Fatal(err)
	}

	data, err := corpus.Load(*srcPath, *tgtPath, srcVocab, tgtVocab)
	if err != nil {
		log.Fatal(err)
	}
	heldOut := make([]corpus.AugmentedExample, len(data))
	for i, ex := range data {
		heldOut[i] = corpus.AugmentedExample{Example: ex}
	}

	m, o, err := model.Build(*modelName)
	if err != nil {
		log.Fatal(err)
	}
	if *snapshot != "" {
		if _, err := trainer.ReadSnapshot(*snapshot, m, o); err != nil {
			log.Fatal(err)
		}
	}

	var dev batch.Device
	if *gpu >= 0 {
		dev, err = device.CUDA(*gpu)
		if err != nil {
			log.Fatal(err)
		}
	} else {
		dev = device.CPU()
	}

	scorer := bleu.Scorer{Data: heldOut, Model: m, Device: dev, BatchSize: *batchSize}
	score, err := scorer.Score()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("bleu: %f\n", score)
}
