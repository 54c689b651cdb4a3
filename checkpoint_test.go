package gan_go

import (
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckpointRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(20))
	definedGAN, err := AssembleGAN(10, 16, 16, 20, rng)
	require.NoError(t, err)
	fname := filepath.Join(t.TempDir(), "generator.gob")

	saved := snapshotParams(definedGAN.Generator().Learnables())
	require.NoError(t, definedGAN.Generator().Save(fname))

	// Wreck the weights, then restore them bit-for-bit
	for _, p := range definedGAN.Generator().Learnables() {
		p.Value.Fill(123.0)
	}
	require.NoError(t, definedGAN.Generator().Load(fname))
	assertParamsUnchanged(t, definedGAN.Generator().Learnables(), saved)
}

func TestCheckpointLoadPreservesParameterIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(21))
	definedGAN, err := AssembleGAN(10, 16, 16, 20, rng)
	require.NoError(t, err)
	fname := filepath.Join(t.TempDir(), "generator.gob")
	require.NoError(t, definedGAN.Generator().Save(fname))

	before := definedGAN.Generator().Learnables()
	require.NoError(t, definedGAN.Generator().Load(fname))
	after := definedGAN.Generator().Learnables()
	for i := range before {
		assert.Same(t, before[i], after[i])
		assert.Same(t, before[i].Value, after[i].Value)
	}
}

func TestCheckpointRejectsShapeMismatch(t *testing.T) {
	rng := rand.New(rand.NewSource(22))
	source := Generator(
		NewDense("generator_0", OwnerGenerator, 10, 16, ActivationReLU, rng),
		NewDense("generator_1", OwnerGenerator, 16, 20, ActivationTanh, rng),
	)
	fname := filepath.Join(t.TempDir(), "generator.gob")
	require.NoError(t, source.Save(fname))

	wider := Generator(
		NewDense("generator_0", OwnerGenerator, 10, 32, ActivationReLU, rng),
		NewDense("generator_1", OwnerGenerator, 32, 20, ActivationTanh, rng),
	)
	widerBefore := snapshotParams(wider.Learnables())
	require.Error(t, wider.Load(fname))
	assertParamsUnchanged(t, wider.Learnables(), widerBefore)

	deeper := Generator(
		NewDense("generator_0", OwnerGenerator, 10, 16, ActivationReLU, rng),
		NewDense("generator_1", OwnerGenerator, 16, 16, ActivationReLU, rng),
		NewDense("generator_2", OwnerGenerator, 16, 20, ActivationTanh, rng),
	)
	require.Error(t, deeper.Load(fname))

	otherAct := Generator(
		NewDense("generator_0", OwnerGenerator, 10, 16, ActivationSigmoid, rng),
		NewDense("generator_1", OwnerGenerator, 16, 20, ActivationTanh, rng),
	)
	require.Error(t, otherAct.Load(fname))
}

func TestCheckpointMissingFile(t *testing.T) {
	rng := rand.New(rand.NewSource(23))
	definedGAN, err := AssembleGAN(10, 16, 16, 20, rng)
	require.NoError(t, err)
	require.Error(t, definedGAN.Generator().Load(filepath.Join(t.TempDir(), "nope.gob")))
}
