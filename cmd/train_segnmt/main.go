package main

import "flag"
import "log"

import "github.com/kiyomaro927/segnmt/batch"
import "github.com/kiyomaro927/segnmt/corpus"
import "github.com/kiyomaro927/segnmt/device"
import "github.com/kiyomaro927/segnmt/model"
import "github.com/kiyomaro927/segnmt/report"
import "github.com/kiyomaro927/segnmt/trainer"
import "github.com/kiyomaro927/segnmt/vocab"

func main() {
	config, err := trainer.FromEnv()
	if err != nil {
		log.Fatal(err)
	}

	srcVocabPath := flag.String("source-vocab", "", "source vocabulary word list")
	tgtVocabPath := flag.String("target-vocab", "", "target vocabulary word list")
	srcVocabSize := flag.Int("source-vocab-size", 40000, "source vocabulary size")
	tgtVocabSize := flag.Int("target-vocab-size", 40000, "target vocabulary size")
	trainSrc := flag.String("training-source", "", "training source sentences")
	trainTgt := flag.String("training-target", "", "training target sentences")
	validSrc := flag.String("validation-source", "", "validation source sentences (optional)")
	validTgt := flag.String("validation-target", "", "validation target sentences (optional)")
	trainIdx := flag.String("similar-indices", "", "similar sentence index file for training data (optional)")
	validIdx := flag.String("similar-indices-validation", "", "similar sentence index file for validation data")
	modelName := flag.String("model", "encdec", "registered model implementation")
	gpu := flag.Int("gpu", -1, "cuda device id, negative for cpu")
	resume := flag.String("resume", "", "snapshot file to resume from")
	flag.IntVar(&config.MinibatchSize, "minibatch-size", config.MinibatchSize, "minibatch size")
	flag.IntVar(&config.Epoch, "epoch", config.Epoch, "epoch budget")
	flag.IntVar(&config.ExtensionTrigger, "extension-trigger", config.ExtensionTrigger, "base extension interval in iterations")
	flag.Int64Var(&config.Seed, "seed", config.Seed, "base random seed")
	flag.StringVar(&config.SnapshotDir, "snapshot-dir", config.SnapshotDir, "snapshot output directory")
	flag.StringVar(&config.MetricsDB, "metrics-db", config.MetricsDB, "metrics database file")
	flag.Parse()

	if *srcVocabPath == "" || *tgtVocabPath == "" || *trainSrc == "" || *trainTgt == "" {
		println("source/target vocabularies and training files are mandatory")
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

	var dev batch.Device
	if *gpu >= 0 {
		dev, err = device.CUDA(*gpu)
		if err != nil {
			log.Fatal(err)
		}
	} else {
		dev = device.CPU()
	}

	var trainData []corpus.AugmentedExample
	if *trainIdx != "" {
		trainData, err = corpus.LoadTrain(*trainSrc, *trainTgt, *trainIdx, srcVocab, tgtVocab)
		if err != nil {
			log.Fatal(err)
		}
	} else {
		plain, err := corpus.Load(*trainSrc, *trainTgt, srcVocab, tgtVocab)
		if err != nil {
			log.Fatal(err)
		}
		for _, ex := range plain {
			trainData = append(trainData, corpus.AugmentedExample{Example: ex})
		}
	}

	m, o, err := model.Build(*modelName)
	if err != nil {
		log.Fatal(err)
	}

	iter := trainer.NewIterator(trainData, config.MinibatchSize, config.Seed)
	t, err := trainer.New(config, m, o, dev, nil, iter)
	if err != nil {
		log.Fatal(err)
	}

	reporter := report.MultiReporter{
		report.LogReporter{},
		report.BestEffortSQLite(config.MetricsDB, t.State().RunID),
	}
	defer reporter.Flush()
	t.SetReporter(reporter)

	k := config.ExtensionTrigger
	t.Extend(trainer.LogReport(k))
	t.Extend(trainer.Progress(k / 5))
	t.Extend(trainer.SnapshotEvery(k * 50))

	if *validSrc != "" && *validTgt != "" {
		if *validIdx == "" {
			println("validation data requires -similar-indices-validation")
			return
		}
		validData, err := corpus.LoadValidation(*trainSrc, *trainTgt, *validSrc, *validTgt, *validIdx, srcVocab, tgtVocab)
		if err != nil {
			log.Fatal(err)
		}
		t.Extend(trainer.Evaluation(validData, config.MinibatchSize, k*5))
		t.Extend(trainer.CalculateBleu(validData, config.MinibatchSize, k*5))
		t.Extend(trainer.TranslateSample(validData, srcVocab, tgtVocab, k*5))
	}

	if *resume != "" {
		if err := t.Restore(*resume); err != nil {
			log.Fatal(err)
		}
	}

	println("start training")
	if err := t.Run(); err != nil {
		log.Fatal(err)
	}
}
