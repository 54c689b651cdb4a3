package gan_go

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smokeTrainer(t *testing.T, numSamples int, cfg *TrainingConfig) *Trainer {
	t.Helper()
	rng := rand.New(rand.NewSource(cfg.Seed))
	samples := NewMatrix(numSamples, cfg.ImageDim)
	samples.Fill(0.25)
	trainSet, err := NewTrainSet(samples, rng)
	require.NoError(t, err)
	definedGAN, err := AssembleGAN(cfg.LatentDim, cfg.GeneratorHidden, cfg.DiscriminatorHidden, cfg.ImageDim, rng)
	require.NoError(t, err)
	noise, err := NewNoiseSampler(cfg.LatentDim, cfg.NoiseDist, cfg.Seed)
	require.NoError(t, err)
	trainer, err := NewTrainer(cfg, definedGAN, trainSet, noise)
	require.NoError(t, err)
	return trainer
}

func smokeConfig() TrainingConfig {
	cfg := DefaultTrainingConfig()
	cfg.LatentDim = 8
	cfg.GeneratorHidden = 16
	cfg.DiscriminatorHidden = 16
	cfg.ImageDim = 20
	cfg.BatchSize = 4
	cfg.DiscriminatorSteps = 2
	cfg.Iterations = 5
	cfg.ReportEvery = 0
	cfg.LearningRate = 0.001
	return cfg
}

func TestTrainerRunsToCompletion(t *testing.T) {
	cfg := smokeConfig()
	cfg.ReportEvery = 1
	trainer := smokeTrainer(t, 16, &cfg)

	require.NoError(t, trainer.Run())
	assert.False(t, math.IsNaN(trainer.FinalGeneratorLoss()) || math.IsInf(trainer.FinalGeneratorLoss(), 0))
	assert.Equal(t, 0, trainer.SkippedSteps())

	dLoss, gLoss := trainer.LossHistory()
	require.Len(t, dLoss, cfg.Iterations)
	require.Len(t, gLoss, cfg.Iterations)
	for i := range dLoss {
		assert.False(t, math.IsNaN(dLoss[i]) || math.IsInf(dLoss[i], 0))
		assert.GreaterOrEqual(t, dLoss[i], 0.0)
		assert.False(t, math.IsNaN(gLoss[i]) || math.IsInf(gLoss[i], 0))
		assert.GreaterOrEqual(t, gLoss[i], 0.0)
	}
	// Every scheduled step ran: k discriminator updates per iteration
	assert.Equal(t, cfg.Iterations*cfg.DiscriminatorSteps, trainer.solverDis.Timestep())
	assert.Equal(t, cfg.Iterations, trainer.solverGen.Timestep())
}

func TestTrainerSkipsShortRealBatches(t *testing.T) {
	cfg := smokeConfig()
	cfg.Iterations = 2
	// 6 samples with batches of 4: every epoch ends in a short batch of 2
	trainer := smokeTrainer(t, 6, &cfg)

	require.NoError(t, trainer.Run())
	assert.Greater(t, trainer.SkippedSteps(), 0)
	// Skipped sub-steps never advance the optimizer timestep
	assert.Equal(t, cfg.Iterations*cfg.DiscriminatorSteps, trainer.solverDis.Timestep()+trainer.SkippedSteps())
}

func TestTrainerSkipLeavesParametersUntouched(t *testing.T) {
	cfg := smokeConfig()
	cfg.Iterations = 1
	// 2 samples with batches of 4: every real batch is short, so both
	// discriminator sub-steps are skipped while the generator step still runs
	trainer := smokeTrainer(t, 2, &cfg)

	disBefore := snapshotParams(trainer.gan.Discriminator().Learnables())
	require.NoError(t, trainer.Run())
	assert.Equal(t, cfg.DiscriminatorSteps, trainer.SkippedSteps())
	assert.Equal(t, 0, trainer.solverDis.Timestep())
	assertParamsUnchanged(t, trainer.gan.Discriminator().Learnables(), disBefore)
	assert.Equal(t, 1, trainer.solverGen.Timestep())
}

func TestNewTrainerValidation(t *testing.T) {
	cfg := smokeConfig()
	rng := rand.New(rand.NewSource(1))
	samples := NewMatrix(8, cfg.ImageDim)
	trainSet, err := NewTrainSet(samples, rng)
	require.NoError(t, err)
	definedGAN, err := AssembleGAN(cfg.LatentDim, cfg.GeneratorHidden, cfg.DiscriminatorHidden, cfg.ImageDim, rng)
	require.NoError(t, err)
	noise, err := NewNoiseSampler(cfg.LatentDim, cfg.NoiseDist, cfg.Seed)
	require.NoError(t, err)

	bad := cfg
	bad.BatchSize = 0
	_, err = NewTrainer(&bad, definedGAN, trainSet, noise)
	require.Error(t, err)

	bad = cfg
	bad.Iterations = 0
	_, err = NewTrainer(&bad, definedGAN, trainSet, noise)
	require.Error(t, err)

	wrongNoise, err := NewNoiseSampler(cfg.LatentDim+1, cfg.NoiseDist, cfg.Seed)
	require.NoError(t, err)
	_, err = NewTrainer(&cfg, definedGAN, trainSet, wrongNoise)
	require.Error(t, err)

	wrongSet, err := NewTrainSet(NewMatrix(8, cfg.ImageDim+1), rng)
	require.NoError(t, err)
	_, err = NewTrainer(&cfg, definedGAN, wrongSet, noise)
	require.Error(t, err)
}

func TestTrainerMomentumSchedule(t *testing.T) {
	cfg := smokeConfig()
	trainer := smokeTrainer(t, 16, &cfg)
	want := MomentumFromTimeConstant(cfg.MomentumTimeConstant, cfg.BatchSize)
	assert.Equal(t, want, trainer.solverDis.cfg.Beta1)
	assert.Equal(t, want, trainer.solverGen.cfg.Beta1)
}
