package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	gan "github.com/sumitto/gan-go"
)

var (
	dataFile     = flag.String("data", "./data/Train-28x28_text.txt", "Path to MNIST training data in CTF text format")
	outputFolder = flag.String("out", "./output", "Folder for generated images, loss chart and generator checkpoint")
	mode         = flag.String("mode", "fast", "Training mode: 'fast' (200 iterations) or 'slow' (40000 iterations)")
	seed         = flag.Int64("seed", 1337, "Random seed of the training session")
	imageHeight  = 28
	imageWidth   = 28
	gridColumns  = 6
	numSamples   = 36
)

func main() {
	flag.Parse()

	cfg := gan.DefaultTrainingConfig()
	cfg.Seed = *seed
	switch *mode {
	case "fast":
		cfg.Iterations = 200
		cfg.ReportEvery = 10
	case "slow":
		cfg.Iterations = 40000
		cfg.ReportEvery = 500
	default:
		fmt.Fprintf(os.Stderr, "Unknown mode '%s': want 'fast' or 'slow'\n", *mode)
		os.Exit(1)
	}

	// The data file is a hard prerequisite: fail before any training begins
	if _, err := os.Stat(*dataFile); err != nil {
		fmt.Fprintf(os.Stderr, "Training data file '%s' is not accessible: %v\nGenerate the MNIST text file first and point -data at it.\n", *dataFile, err)
		os.Exit(1)
	}
	if err := os.MkdirAll(*outputFolder, 0o755); err != nil {
		panic(err)
	}

	// Session-owned randomness: one seeded generator for shuffling and weight
	// init, one seeded sampler for latent noise
	rng := rand.New(rand.NewSource(cfg.Seed))
	trainSet, err := gan.LoadCTFTrainSet(*dataFile, cfg.ImageDim, rng)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Can't load training data: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded %d training samples of dimension %d\n", trainSet.Len(), trainSet.Dim())

	definedGAN, err := gan.AssembleGAN(cfg.LatentDim, cfg.GeneratorHidden, cfg.DiscriminatorHidden, cfg.ImageDim, rng)
	if err != nil {
		panic(err)
	}
	noise, err := gan.NewNoiseSampler(cfg.LatentDim, cfg.NoiseDist, cfg.Seed)
	if err != nil {
		panic(err)
	}
	trainer, err := gan.NewTrainer(&cfg, definedGAN, trainSet, noise)
	if err != nil {
		panic(err)
	}

	if err := trainer.Run(); err != nil {
		panic(err)
	}
	fmt.Printf("Final generator loss: %.4f\n", trainer.FinalGeneratorLoss())
	if trainer.SkippedSteps() > 0 {
		fmt.Printf("Skipped %d short-batch discriminator steps\n", trainer.SkippedSteps())
	}

	// Visualize generator output and the loss history
	fakeImages, err := definedGAN.Sample(noise.Batch(numSamples))
	if err != nil {
		panic(err)
	}
	imagesFile := filepath.Join(*outputFolder, "generated.png")
	if err := gan.SaveImageGrid(fakeImages, imageHeight, imageWidth, gridColumns, imagesFile); err != nil {
		panic(err)
	}
	fmt.Printf("Generated images saved to %s\n", imagesFile)

	dLoss, gLoss := trainer.LossHistory()
	lossFile := filepath.Join(*outputFolder, "losses.png")
	if err := gan.PlotLosses(dLoss, gLoss, lossFile); err != nil {
		panic(err)
	}
	fmt.Printf("Loss chart saved to %s\n", lossFile)

	checkpointFile := filepath.Join(*outputFolder, "generator.gob")
	if err := definedGAN.Generator().Save(checkpointFile); err != nil {
		panic(err)
	}
	fmt.Printf("Generator checkpoint saved to %s\n", checkpointFile)
}
