package gan_go

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBCELossHandComputed(t *testing.T) {
	pred, err := NewMatrixFromSlice(2, 1, []float64{0.8, 0.3})
	require.NoError(t, err)
	target, err := NewMatrixFromSlice(2, 1, []float64{1, 0})
	require.NoError(t, err)
	loss, grad, err := BCELoss(pred, target)
	require.NoError(t, err)
	want := (-math.Log(0.8) - math.Log(0.7)) / 2.0
	assert.InDelta(t, want, loss, 1e-12)
	// d/dp of mean BCE: (p-t)/(p(1-p))/N
	assert.InDelta(t, (0.8-1.0)/(0.8*0.2)/2.0, grad.At(0, 0), 1e-12)
	assert.InDelta(t, (0.3-0.0)/(0.3*0.7)/2.0, grad.At(1, 0), 1e-12)
}

func TestBCELossSaturatedStaysFinite(t *testing.T) {
	pred, err := NewMatrixFromSlice(2, 1, []float64{0.0, 1.0})
	require.NoError(t, err)
	target, err := NewMatrixFromSlice(2, 1, []float64{1, 0})
	require.NoError(t, err)
	loss, grad, err := BCELoss(pred, target)
	require.NoError(t, err)
	assert.False(t, math.IsInf(loss, 0) || math.IsNaN(loss))
	for _, g := range grad.data {
		assert.False(t, math.IsInf(g, 0) || math.IsNaN(g))
	}
}

func TestBCELossGradMatchesFiniteDifferences(t *testing.T) {
	pred, err := NewMatrixFromSlice(3, 1, []float64{0.2, 0.55, 0.9})
	require.NoError(t, err)
	target, err := NewMatrixFromSlice(3, 1, []float64{0, 1, 1})
	require.NoError(t, err)
	_, grad, err := BCELoss(pred, target)
	require.NoError(t, err)

	const h = 1e-6
	for i := range pred.data {
		orig := pred.data[i]
		pred.data[i] = orig + h
		lossPlus, _, err := BCELoss(pred, target)
		require.NoError(t, err)
		pred.data[i] = orig - h
		lossMinus, _, err := BCELoss(pred, target)
		require.NoError(t, err)
		pred.data[i] = orig
		assert.InDelta(t, (lossPlus-lossMinus)/(2*h), grad.data[i], 1e-5)
	}
}

func TestBCELossShapeMismatch(t *testing.T) {
	_, _, err := BCELoss(NewMatrix(2, 1), NewMatrix(3, 1))
	require.Error(t, err)
}

func TestBCELossSumReduction(t *testing.T) {
	pred, err := NewMatrixFromSlice(2, 1, []float64{0.5, 0.5})
	require.NoError(t, err)
	target, err := NewMatrixFromSlice(2, 1, []float64{1, 0})
	require.NoError(t, err)
	lossMean, _, err := BCELoss(pred, target)
	require.NoError(t, err)
	lossSum, _, err := BCELoss(pred, target, LossReductionSum)
	require.NoError(t, err)
	assert.InDelta(t, lossMean*2.0, lossSum, 1e-12)
}

func TestDiscriminatorLossNonNegative(t *testing.T) {
	dReal, err := NewMatrixFromSlice(2, 1, []float64{0.9, 0.6})
	require.NoError(t, err)
	dFake, err := NewMatrixFromSlice(2, 1, []float64{0.1, 0.4})
	require.NoError(t, err)
	loss, gradReal, gradFake, err := DiscriminatorLoss(dReal, dFake)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, loss, 0.0)
	// Real targets pull predictions up, fake targets push them down
	for _, g := range gradReal.data {
		assert.Less(t, g, 0.0)
	}
	for _, g := range gradFake.data {
		assert.Greater(t, g, 0.0)
	}
}

func TestGeneratorLossDecreasesWithFoolingRate(t *testing.T) {
	weak, err := NewMatrixFromSlice(2, 1, []float64{0.1, 0.2})
	require.NoError(t, err)
	strong, err := NewMatrixFromSlice(2, 1, []float64{0.8, 0.9})
	require.NoError(t, err)
	lossWeak, _, err := GeneratorLoss(weak)
	require.NoError(t, err)
	lossStrong, _, err := GeneratorLoss(strong)
	require.NoError(t, err)
	assert.Greater(t, lossWeak, lossStrong)
	assert.GreaterOrEqual(t, lossStrong, 0.0)
}

func TestMSELossHandComputed(t *testing.T) {
	pred, err := NewMatrixFromSlice(1, 2, []float64{3, -1})
	require.NoError(t, err)
	target, err := NewMatrixFromSlice(1, 2, []float64{1, 1})
	require.NoError(t, err)
	loss, grad, err := MSELoss(pred, target)
	require.NoError(t, err)
	assert.InDelta(t, (4.0+4.0)/2.0, loss, 1e-12)
	assert.InDelta(t, 2.0*2.0/2.0, grad.At(0, 0), 1e-12)
	assert.InDelta(t, 2.0*(-2.0)/2.0, grad.At(0, 1), 1e-12)
}
