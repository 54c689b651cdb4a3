package gan_go

import (
	"fmt"
	"math"
	"time"

	"github.com/pkg/errors"
)

// TrainingConfig All scalar knobs of a training session, constructed once
// and passed by reference. No package-level mutable state is involved.
type TrainingConfig struct {
	LatentDim           int
	GeneratorHidden     int
	DiscriminatorHidden int
	ImageDim            int

	BatchSize int
	// DiscriminatorSteps Number of discriminator updates per generator update (k)
	DiscriminatorSteps int
	// Iterations Number of outer iterations (one iteration = k discriminator
	// steps + one generator step)
	Iterations int
	// ReportEvery Iteration cadence of loss reporting. Zero disables reports.
	ReportEvery int

	LearningRate float64
	// MomentumTimeConstant Momentum schedule stated as a time constant in
	// samples; converted to the Adam beta1 coefficient via
	// MomentumFromTimeConstant against BatchSize
	MomentumTimeConstant float64

	NoiseDist NoiseDistribution
	Seed      int64
}

// DefaultTrainingConfig Returns reference configuration for MNIST training
func DefaultTrainingConfig() TrainingConfig {
	return TrainingConfig{
		LatentDim:            100,
		GeneratorHidden:      128,
		DiscriminatorHidden:  128,
		ImageDim:             784,
		BatchSize:            1024,
		DiscriminatorSteps:   2,
		Iterations:           200,
		ReportEvery:          10,
		LearningRate:         5e-5,
		MomentumTimeConstant: 700,
		NoiseDist:            NoiseUniform,
		Seed:                 1337,
	}
}

func (cfg *TrainingConfig) validate() error {
	if cfg.BatchSize < 1 {
		return fmt.Errorf("Batch size must be positive, but got %d", cfg.BatchSize)
	}
	if cfg.DiscriminatorSteps < 1 {
		return fmt.Errorf("Discriminator steps per iteration must be positive, but got %d", cfg.DiscriminatorSteps)
	}
	if cfg.Iterations < 1 {
		return fmt.Errorf("Number of iterations must be positive, but got %d", cfg.Iterations)
	}
	return nil
}

// trainPhase State of the minibatch scheduler
type trainPhase uint16

const (
	phaseDiscriminatorStep = trainPhase(iota)
	phaseGeneratorStep
	phaseReport
	phaseDone
)

// Trainer Minibatch scheduler driving alternating discriminator and
// generator updates over an infinite real-data stream.
//
// Per outer iteration: k discriminator steps (each on a fresh noise batch and
// a fresh real batch of equal size; short end-of-epoch real batches are
// skipped without touching any parameter or optimizer state), then one
// generator step on a fresh noise batch, then a report at the configured
// cadence.
type Trainer struct {
	cfg      *TrainingConfig
	gan      *GAN
	trainSet *TrainSet
	noise    *NoiseSampler

	solverGen *AdamSolver
	solverDis *AdamSolver

	phase trainPhase
	iter  int

	runningDis, runningGen float64
	stepsDis, stepsGen     int
	skipped                int
	lastGenLoss            float64

	historyDis []float64
	historyGen []float64
}

// NewTrainer Constructor for Trainer. Builds one independent Adam solver per
// network; their moment accumulators never mix.
func NewTrainer(cfg *TrainingConfig, definedGAN *GAN, trainSet *TrainSet, noise *NoiseSampler) (*Trainer, error) {
	if err := cfg.validate(); err != nil {
		return nil, errors.Wrap(err, "Bad training configuration")
	}
	if trainSet.Dim() != definedGAN.Discriminator().InDim() {
		return nil, fmt.Errorf("Training set serves vectors of dimension %d, but Discriminator expects %d", trainSet.Dim(), definedGAN.Discriminator().InDim())
	}
	if noise.Dim() != definedGAN.Generator().LatentDim() {
		return nil, fmt.Errorf("Noise sampler serves vectors of dimension %d, but Generator expects %d", noise.Dim(), definedGAN.Generator().LatentDim())
	}
	adamCfg := AdamConfig{
		LearningRate: cfg.LearningRate,
		Beta1:        MomentumFromTimeConstant(cfg.MomentumTimeConstant, cfg.BatchSize),
	}
	return &Trainer{
		cfg:       cfg,
		gan:       definedGAN,
		trainSet:  trainSet,
		noise:     noise,
		solverGen: NewAdamSolver(OwnerGenerator, adamCfg),
		solverDis: NewAdamSolver(OwnerDiscriminator, adamCfg),
	}, nil
}

// Run Executes the configured number of outer iterations. Non-finite losses
// abort the run with an error instead of silently propagating NaN into the
// weights.
func (t *Trainer) Run() error {
	start := time.Now()
	for t.phase != phaseDone {
		switch t.phase {
		case phaseDiscriminatorStep:
			for s := 0; s < t.cfg.DiscriminatorSteps; s++ {
				noiseBatch := t.noise.Batch(t.cfg.BatchSize)
				realBatch := t.trainSet.NextBatch(t.cfg.BatchSize)
				if realBatch.rows != noiseBatch.rows {
					// End-of-epoch short batch
					t.skipped++
					continue
				}
				loss, err := t.gan.DiscriminatorStep(realBatch, noiseBatch, t.solverDis)
				if err != nil {
					return errors.Wrap(err, fmt.Sprintf("Discriminator step failed at iteration %d", t.iter))
				}
				if math.IsNaN(loss) || math.IsInf(loss, 0) {
					return fmt.Errorf("Training diverged: discriminator loss is %v at iteration %d", loss, t.iter)
				}
				t.runningDis += loss
				t.stepsDis++
			}
			t.phase = phaseGeneratorStep
		case phaseGeneratorStep:
			noiseBatch := t.noise.Batch(t.cfg.BatchSize)
			loss, err := t.gan.GeneratorStep(noiseBatch, t.solverGen)
			if err != nil {
				return errors.Wrap(err, fmt.Sprintf("Generator step failed at iteration %d", t.iter))
			}
			if math.IsNaN(loss) || math.IsInf(loss, 0) {
				return fmt.Errorf("Training diverged: generator loss is %v at iteration %d", loss, t.iter)
			}
			t.runningGen += loss
			t.stepsGen++
			t.lastGenLoss = loss
			t.phase = phaseReport
		case phaseReport:
			t.iter++
			if t.cfg.ReportEvery > 0 && t.iter%t.cfg.ReportEvery == 0 {
				avgDis, avgGen := t.flushRunningLosses()
				fmt.Printf("Iteration %d/%d | D loss: %.4f | G loss: %.4f | Time: %v\n",
					t.iter, t.cfg.Iterations, avgDis, avgGen, time.Since(start))
			}
			if t.iter >= t.cfg.Iterations {
				t.phase = phaseDone
			} else {
				t.phase = phaseDiscriminatorStep
			}
		}
	}
	return nil
}

// flushRunningLosses Averages losses accumulated since the previous report,
// appends them to the history and resets the accumulators
func (t *Trainer) flushRunningLosses() (float64, float64) {
	avgDis, avgGen := 0.0, 0.0
	if t.stepsDis > 0 {
		avgDis = t.runningDis / float64(t.stepsDis)
	}
	if t.stepsGen > 0 {
		avgGen = t.runningGen / float64(t.stepsGen)
	}
	t.historyDis = append(t.historyDis, avgDis)
	t.historyGen = append(t.historyGen, avgGen)
	t.runningDis, t.runningGen = 0, 0
	t.stepsDis, t.stepsGen = 0, 0
	return avgDis, avgGen
}

// FinalGeneratorLoss Returns generator loss of the last completed step
func (t *Trainer) FinalGeneratorLoss() float64 {
	return t.lastGenLoss
}

// SkippedSteps Returns number of discriminator sub-steps skipped on short batches
func (t *Trainer) SkippedSteps() int {
	return t.skipped
}

// LossHistory Returns per-report average discriminator and generator losses
func (t *Trainer) LossHistory() ([]float64, []float64) {
	return t.historyDis, t.historyGen
}
