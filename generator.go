package gan_go

import (
	"github.com/pkg/errors"
)

// GeneratorNet Abstraction for generator part of GAN: maps latent noise
// vectors to synthetic flattened images in [-1, 1].
type GeneratorNet struct {
	private *Network
}

// Generator Constructor for GeneratorNet
func Generator(layers ...*Layer) *GeneratorNet {
	return &GeneratorNet{private: &Network{
		Name:   "generator",
		Layers: layers,
	}}
}

// Out Returns reference to output of the latest forward pass
func (net *GeneratorNet) Out() *Matrix {
	return net.private.out
}

// Learnables Returns learnable parameters
func (net *GeneratorNet) Learnables() []*Parameter {
	return net.private.Learnables()
}

// ZeroGrad Resets accumulated gradients
func (net *GeneratorNet) ZeroGrad() {
	net.private.ZeroGrad()
}

// LatentDim Returns dimension of expected noise input
func (net *GeneratorNet) LatentDim() int {
	return net.private.Layers[0].InDim()
}

// Fwd Feedforward for provided noise batch [batch, latent_dim]
func (net *GeneratorNet) Fwd(noise *Matrix) (*Matrix, error) {
	out, err := net.private.Fwd(noise)
	if err != nil {
		return nil, errors.Wrap(err, "[Generator]")
	}
	return out, nil
}

// Backward Backpropagates gradient of loss w.r.t. generated images,
// accumulating generator parameter gradients
func (net *GeneratorNet) Backward(grad *Matrix) error {
	if _, err := net.private.Backward(grad); err != nil {
		return errors.Wrap(err, "[Generator]")
	}
	return nil
}
