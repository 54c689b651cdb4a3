package gan_go

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoiseSamplerShapeAndRange(t *testing.T) {
	sampler, err := NewNoiseSampler(100, NoiseUniform, 1337)
	require.NoError(t, err)
	batch := sampler.Batch(8)
	assert.Equal(t, 8, batch.Rows())
	assert.Equal(t, 100, batch.Cols())
	for _, v := range batch.Data() {
		assert.GreaterOrEqual(t, v, -1.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestNoiseSamplerSeedReproducibility(t *testing.T) {
	for _, dist := range []NoiseDistribution{NoiseUniform, NoiseGaussian} {
		first, err := NewNoiseSampler(10, dist, 42)
		require.NoError(t, err)
		second, err := NewNoiseSampler(10, dist, 42)
		require.NoError(t, err)
		assert.Equal(t, first.Batch(4).Data(), second.Batch(4).Data())

		other, err := NewNoiseSampler(10, dist, 43)
		require.NoError(t, err)
		assert.NotEqual(t, first.Batch(4).Data(), other.Batch(4).Data())
	}
}

func TestNoiseSamplerValidatesDimension(t *testing.T) {
	_, err := NewNoiseSampler(0, NoiseUniform, 1)
	require.Error(t, err)
}
