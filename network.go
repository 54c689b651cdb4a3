package gan_go

import (
	"fmt"

	"github.com/pkg/errors"
)

// Network Abstraction for neural network.
//
// Layers - simple sequence of fully connected layers
// out - alias to activated output of last layer for the latest forward pass
type Network struct {
	Name   string
	Layers []*Layer
	out    *Matrix
}

// Out Returns reference to output of the latest forward pass
func (net *Network) Out() *Matrix {
	return net.out
}

// Learnables Returns every parameter of the network (weights and biases, in layer order)
func (net *Network) Learnables() []*Parameter {
	learnables := make([]*Parameter, 0, 2*len(net.Layers))
	for _, l := range net.Layers {
		if l != nil {
			learnables = append(learnables, l.Weight, l.Bias)
		}
	}
	return learnables
}

// ZeroGrad Resets accumulated gradients of every parameter
func (net *Network) ZeroGrad() {
	for _, p := range net.Learnables() {
		p.ZeroGrad()
	}
}

// Fwd Feedforward for provided input batch.
// Output of layer i is fed as input of layer i+1; the final activated output
// is returned and also kept as Out().
func (net *Network) Fwd(input *Matrix) (*Matrix, error) {
	if len(net.Layers) == 0 {
		return nil, fmt.Errorf("Network must have one layer atleast")
	}
	lastActivated := input
	for i, l := range net.Layers {
		if l == nil {
			return nil, fmt.Errorf("Network's layer #%d is nil", i)
		}
		var err error
		lastActivated, err = l.Fwd(lastActivated)
		if err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("[Network '%s', Layer #%d] Can't feedforward input", net.Name, i))
		}
	}
	net.out = lastActivated
	return net.out, nil
}

// Backward Backpropagates dL/dOut through every layer in reverse order,
// accumulating parameter gradients, and returns dL/dInput. Must be called
// right after the Fwd pass it differentiates.
func (net *Network) Backward(grad *Matrix) (*Matrix, error) {
	if len(net.Layers) == 0 {
		return nil, fmt.Errorf("Network must have one layer atleast")
	}
	var err error
	for i := len(net.Layers) - 1; i >= 0; i-- {
		grad, err = net.Layers[i].Backward(grad)
		if err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("[Network '%s', Layer #%d] Can't backpropagate gradient", net.Name, i))
		}
	}
	return grad, nil
}
