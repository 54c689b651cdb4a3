package gan_go

import (
	"github.com/pkg/errors"
)

// DiscriminatorNet Abstraction for discriminator part of GAN. It's simple
// neural network actually: image vector in, realness probability out.
//
// There is exactly one parameter set behind this type. Evaluating it on real
// and on generated batches in the same training step goes through the same
// instance, so both invocations always see identical weights.
type DiscriminatorNet struct {
	private *Network
}

// Discriminator Constructor for DiscriminatorNet
func Discriminator(layers ...*Layer) *DiscriminatorNet {
	return &DiscriminatorNet{private: &Network{
		Name:   "discriminator",
		Layers: layers,
	}}
}

// Out Returns reference to output of the latest forward pass
func (net *DiscriminatorNet) Out() *Matrix {
	return net.private.out
}

// Learnables Returns learnable parameters
func (net *DiscriminatorNet) Learnables() []*Parameter {
	return net.private.Learnables()
}

// ZeroGrad Resets accumulated gradients
func (net *DiscriminatorNet) ZeroGrad() {
	net.private.ZeroGrad()
}

// InDim Returns dimension of expected image input
func (net *DiscriminatorNet) InDim() int {
	return net.private.Layers[0].InDim()
}

// Fwd Feedforward for provided image batch [batch, image_dim].
// Output is [batch, 1] of probabilities in (0, 1).
func (net *DiscriminatorNet) Fwd(images *Matrix) (*Matrix, error) {
	out, err := net.private.Fwd(images)
	if err != nil {
		return nil, errors.Wrap(err, "[Discriminator]")
	}
	return out, nil
}

// Backward Backpropagates gradient of loss w.r.t. discriminator output,
// accumulating discriminator parameter gradients. Returned matrix is the
// gradient w.r.t. the input batch; during a generator step it flows further
// into the generator.
func (net *DiscriminatorNet) Backward(grad *Matrix) (*Matrix, error) {
	dInput, err := net.private.Backward(grad)
	if err != nil {
		return nil, errors.Wrap(err, "[Discriminator]")
	}
	return dInput, nil
}
