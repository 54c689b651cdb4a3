package gan_go

import (
	"fmt"
	"math/rand"

	"github.com/pkg/errors"
)

// Layer Fully connected layer: affine transform plus activation.
// Weight has shape [in_dim, out_dim], bias [1, out_dim], so a batch
// [batch, in_dim] maps to [batch, out_dim] as act(x·W + b).
//
// The layer keeps the caches of its latest forward pass (input, preactivation,
// activation); Backward consumes them, so every Backward must follow the
// Forward it differentiates.
type Layer struct {
	Weight     *Parameter
	Bias       *Parameter
	Activation Activation

	input *Matrix
	z     *Matrix
	a     *Matrix
}

// NewDense Constructor for fully connected layer.
// Weights get Xavier-uniform initialization from the provided generator,
// biases start at zero.
func NewDense(name string, owner Owner, inDim, outDim int, act Activation, rng *rand.Rand) *Layer {
	weight := NewParameter(name+"_w", owner, inDim, outDim)
	weight.Value.XavierInit(rng)
	return &Layer{
		Weight:     weight,
		Bias:       NewParameter(name+"_b", owner, 1, outDim),
		Activation: act,
	}
}

// InDim Returns input dimension
func (l *Layer) InDim() int { return l.Weight.Value.rows }

// OutDim Returns output dimension
func (l *Layer) OutDim() int { return l.Weight.Value.cols }

// Fwd Feedforward for provided input batch [batch, in_dim].
// Returns activated output [batch, out_dim].
func (l *Layer) Fwd(input *Matrix) (*Matrix, error) {
	if input.cols != l.InDim() {
		return nil, fmt.Errorf("Layer '%s' expects input of dimension %d, but got %d", l.Weight.Name, l.InDim(), input.cols)
	}
	if l.z == nil || l.z.rows != input.rows {
		l.z = NewMatrix(input.rows, l.OutDim())
		l.a = NewMatrix(input.rows, l.OutDim())
	}
	MatMul(input.dense, l.Weight.Value.dense, l.z)
	l.z.AddVector(l.Bias.Value)
	if err := l.Activation.Apply(l.z, l.a); err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("Can't apply activation function of layer '%s'", l.Weight.Name))
	}
	l.input = input
	return l.a, nil
}

// Backward Backpropagates dL/dA for the latest forward batch.
// Accumulates dL/dW and dL/db into the layer's parameter gradients and
// returns dL/dX for the previous layer. The incoming gradient is consumed
// in place.
func (l *Layer) Backward(grad *Matrix) (*Matrix, error) {
	if l.input == nil {
		return nil, fmt.Errorf("Layer '%s' has no cached forward pass to backpropagate", l.Weight.Name)
	}
	if grad.rows != l.z.rows || grad.cols != l.z.cols {
		return nil, fmt.Errorf("Layer '%s' got gradient of shape [%d, %d], but forward output was [%d, %d]", l.Weight.Name, grad.rows, grad.cols, l.z.rows, l.z.cols)
	}
	// dZ = dA ∘ act'(Z), in place
	if err := l.Activation.Backward(grad, l.z, l.a); err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("Can't apply activation derivative of layer '%s'", l.Weight.Name))
	}
	// dW += Xᵀ·dZ
	dW := NewMatrix(l.InDim(), l.OutDim())
	MatMul(l.input.dense.T(), grad.dense, dW)
	l.Weight.Grad.Add(dW)
	// db += column sums of dZ
	for r := 0; r < grad.rows; r++ {
		rowOffset := r * grad.cols
		for c := 0; c < grad.cols; c++ {
			l.Bias.Grad.data[c] += grad.data[rowOffset+c]
		}
	}
	// dX = dZ·Wᵀ
	dX := NewMatrix(grad.rows, l.InDim())
	MatMul(grad.dense, l.Weight.Value.dense.T(), dX)
	return dX, nil
}
