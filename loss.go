package gan_go

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

type LossReduction uint16

const (
	LossReductionSum = LossReduction(iota)
	LossReductionMean
)

// probEps Probabilities are clamped into [probEps, 1-probEps], both at the
// sigmoid output and before any logarithm. A saturated discriminator otherwise
// emits exact 0/1, sends log(0) to -inf and the whole run dies of NaN
// propagation.
const probEps = 1e-7

func clampProb(p float64) float64 {
	if p < probEps {
		return probEps
	}
	if p > 1.0-probEps {
		return 1.0 - probEps
	}
	return p
}

// BCELoss Binary cross entropy between predicted probabilities and targets:
// -(t·log(p) + (1-t)·log(1-p)). See ref. https://en.wikipedia.org/wiki/Cross_entropy#Cross-entropy_loss_function_and_logistic_regression
// Returns scalar loss and dLoss/dPred. Default reduction is 'mean'; with sum
// reduction the gradient is not divided by the element count.
func BCELoss(pred, target *Matrix, reduction ...LossReduction) (float64, *Matrix, error) {
	if pred.rows != target.rows || pred.cols != target.cols {
		return 0, nil, fmt.Errorf("Prediction has shape [%d, %d], but target has [%d, %d]", pred.rows, pred.cols, target.rows, target.cols)
	}
	reductionDefault := LossReductionMean
	if len(reduction) != 0 {
		reductionDefault = reduction[0]
	}
	scale := 1.0
	if reductionDefault == LossReductionMean {
		scale = 1.0 / float64(len(pred.data))
	}
	loss := 0.0
	grad := NewMatrix(pred.rows, pred.cols)
	for i, p := range pred.data {
		p = clampProb(p)
		t := target.data[i]
		loss += -(t*math.Log(p) + (1.0-t)*math.Log(1.0-p))
		grad.data[i] = scale * (p - t) / (p * (1.0 - p))
	}
	return loss * scale, grad, nil
}

// MSELoss See ref. https://en.wikipedia.org/wiki/Mean_squared_error
// Returns scalar loss and dLoss/dPred. Default reduction is 'mean'.
func MSELoss(pred, target *Matrix, reduction ...LossReduction) (float64, *Matrix, error) {
	if pred.rows != target.rows || pred.cols != target.cols {
		return 0, nil, fmt.Errorf("Prediction has shape [%d, %d], but target has [%d, %d]", pred.rows, pred.cols, target.rows, target.cols)
	}
	reductionDefault := LossReductionMean
	if len(reduction) != 0 {
		reductionDefault = reduction[0]
	}
	scale := 1.0
	if reductionDefault == LossReductionMean {
		scale = 1.0 / float64(len(pred.data))
	}
	loss := 0.0
	grad := NewMatrix(pred.rows, pred.cols)
	for i, p := range pred.data {
		diff := p - target.data[i]
		loss += diff * diff
		grad.data[i] = 2.0 * scale * diff
	}
	return loss * scale, grad, nil
}

// DiscriminatorLoss Adversarial loss for the discriminator given its outputs
// on a real batch and on a generated batch:
//
//	D_loss = mean(-log D(real)) + mean(-log(1 - D(fake)))
//
// which is BCE against all-ones targets for the real part and all-zeros for
// the fake part. Returns the scalar loss and the gradients w.r.t. both
// discriminator outputs.
func DiscriminatorLoss(dReal, dFake *Matrix) (float64, *Matrix, *Matrix, error) {
	realTargets := NewMatrix(dReal.rows, dReal.cols)
	realTargets.Fill(1.0)
	lossReal, gradReal, err := BCELoss(dReal, realTargets)
	if err != nil {
		return 0, nil, nil, errors.Wrap(err, "Can't evaluate real part of discriminator loss")
	}
	fakeTargets := NewMatrix(dFake.rows, dFake.cols)
	lossFake, gradFake, err := BCELoss(dFake, fakeTargets)
	if err != nil {
		return 0, nil, nil, errors.Wrap(err, "Can't evaluate fake part of discriminator loss")
	}
	return lossReal + lossFake, gradReal, gradFake, nil
}

// GeneratorLoss Adversarial loss for the generator given the discriminator's
// output on a generated batch. Uses the standard non-saturating form
//
//	G_loss = mean(-log D(fake))
//
// (BCE against all-ones targets) rather than the minimax form
// mean(log(1 - D(fake))), whose gradient vanishes exactly when the generator
// is worst. Returns the scalar loss and the gradient w.r.t. the
// discriminator output.
func GeneratorLoss(dFake *Matrix) (float64, *Matrix, error) {
	targets := NewMatrix(dFake.rows, dFake.cols)
	targets.Fill(1.0)
	loss, grad, err := BCELoss(dFake, targets)
	if err != nil {
		return 0, nil, errors.Wrap(err, "Can't evaluate generator loss")
	}
	return loss, grad, nil
}
