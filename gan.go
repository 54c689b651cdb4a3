package gan_go

import (
	"fmt"
	"math/rand"

	"github.com/pkg/errors"
)

// GAN Simple implementation of GAN: one generator and one discriminator
// trained against each other.
//
// The discriminator is evaluated twice per discriminator step (once on real
// data, once on generated data) through the single discriminatorPart
// instance, never through a synchronized copy. A weight update is therefore
// visible to both invocations immediately.
type GAN struct {
	generatorPart     *GeneratorNet
	discriminatorPart *DiscriminatorNet
}

// NewGAN Constructor for GAN. Validates that generator output dimension
// matches discriminator input dimension and that parameter owner tags agree
// with the side each network is on.
func NewGAN(definedGenerator *GeneratorNet, definedDiscriminator *DiscriminatorNet) (*GAN, error) {
	if len(definedGenerator.private.Layers) == 0 {
		return nil, fmt.Errorf("Generator must have one layer atleast")
	}
	if len(definedDiscriminator.private.Layers) == 0 {
		return nil, fmt.Errorf("Discriminator must have one layer atleast")
	}
	genOut := definedGenerator.private.Layers[len(definedGenerator.private.Layers)-1].OutDim()
	disIn := definedDiscriminator.InDim()
	if genOut != disIn {
		return nil, fmt.Errorf("Generator produces vectors of dimension %d, but Discriminator expects %d", genOut, disIn)
	}
	for _, p := range definedGenerator.Learnables() {
		if p.Owner != OwnerGenerator {
			return nil, fmt.Errorf("Generator parameter '%s' is tagged '%s'", p.Name, p.Owner)
		}
	}
	for _, p := range definedDiscriminator.Learnables() {
		if p.Owner != OwnerDiscriminator {
			return nil, fmt.Errorf("Discriminator parameter '%s' is tagged '%s'", p.Name, p.Owner)
		}
	}
	return &GAN{
		generatorPart:     definedGenerator,
		discriminatorPart: definedDiscriminator,
	}, nil
}

// AssembleGAN Composes the vanilla two-layer architecture on each side:
//
//	Generator:     noise [latentDim] → Dense(hiddenGen, ReLU) → Dense(imageDim, tanh)
//	Discriminator: image [imageDim]  → Dense(hiddenDis, ReLU) → Dense(1, sigmoid)
//
// Tanh bounds generated images to [-1, 1] to match real image scaling;
// sigmoid makes the discriminator output a valid probability.
func AssembleGAN(latentDim, hiddenGen, hiddenDis, imageDim int, rng *rand.Rand) (*GAN, error) {
	definedGenerator := Generator(
		NewDense("generator_0", OwnerGenerator, latentDim, hiddenGen, ActivationReLU, rng),
		NewDense("generator_1", OwnerGenerator, hiddenGen, imageDim, ActivationTanh, rng),
	)
	definedDiscriminator := Discriminator(
		NewDense("discriminator_0", OwnerDiscriminator, imageDim, hiddenDis, ActivationReLU, rng),
		NewDense("discriminator_1", OwnerDiscriminator, hiddenDis, 1, ActivationSigmoid, rng),
	)
	return NewGAN(definedGenerator, definedDiscriminator)
}

// Generator Returns reference to generator part
func (net *GAN) Generator() *GeneratorNet {
	return net.generatorPart
}

// Discriminator Returns reference to discriminator part
func (net *GAN) Discriminator() *DiscriminatorNet {
	return net.discriminatorPart
}

// Learnables Returns every parameter of both parts. Solvers pick their own
// subset through the owner tags.
func (net *GAN) Learnables() []*Parameter {
	return append(net.generatorPart.Learnables(), net.discriminatorPart.Learnables()...)
}

// DiscriminatorStep One discriminator update: evaluate the discriminator on
// a real batch and on a batch generated from the provided noise, accumulate
// gradients of D_loss = mean(-log D(real)) + mean(-log(1-D(fake))) and apply
// the solver. The solver must be tagged OwnerDiscriminator; generator
// parameters are left bit-for-bit unchanged.
//
// Each loss term is backpropagated straight after its forward pass, since the
// second invocation reuses the discriminator's forward caches.
func (net *GAN) DiscriminatorStep(real, noise *Matrix, solver *AdamSolver) (float64, error) {
	if solver.Owner() != OwnerDiscriminator {
		return 0, fmt.Errorf("Discriminator step got solver tagged '%s'", solver.Owner())
	}
	if real.rows != noise.rows {
		return 0, fmt.Errorf("Real batch has %d samples, but noise batch has %d", real.rows, noise.rows)
	}
	net.generatorPart.ZeroGrad()
	net.discriminatorPart.ZeroGrad()

	// Real part: D should assign ones
	dReal, err := net.discriminatorPart.Fwd(real)
	if err != nil {
		return 0, errors.Wrap(err, "Can't feedforward real batch")
	}
	realTargets := NewMatrix(dReal.rows, dReal.cols)
	realTargets.Fill(1.0)
	lossReal, gradReal, err := BCELoss(dReal, realTargets)
	if err != nil {
		return 0, errors.Wrap(err, "Can't evaluate real part of discriminator loss")
	}
	if _, err := net.discriminatorPart.Backward(gradReal); err != nil {
		return 0, errors.Wrap(err, "Can't backpropagate real part of discriminator loss")
	}

	// Fake part: D should assign zeros. Same discriminator instance, same weights.
	fake, err := net.generatorPart.Fwd(noise)
	if err != nil {
		return 0, errors.Wrap(err, "Can't generate fake batch")
	}
	dFake, err := net.discriminatorPart.Fwd(fake)
	if err != nil {
		return 0, errors.Wrap(err, "Can't feedforward fake batch")
	}
	fakeTargets := NewMatrix(dFake.rows, dFake.cols)
	lossFake, gradFake, err := BCELoss(dFake, fakeTargets)
	if err != nil {
		return 0, errors.Wrap(err, "Can't evaluate fake part of discriminator loss")
	}
	// Input gradient is dropped: generator parameters take no update here.
	if _, err := net.discriminatorPart.Backward(gradFake); err != nil {
		return 0, errors.Wrap(err, "Can't backpropagate fake part of discriminator loss")
	}

	if err := solver.Step(net.Learnables()); err != nil {
		return 0, errors.Wrap(err, "Can't apply discriminator solver step")
	}
	return lossReal + lossFake, nil
}

// GeneratorStep One generator update: generate a batch from the provided
// noise, evaluate the discriminator on it, accumulate gradients of
// G_loss = mean(-log D(fake)) through the discriminator into the generator
// and apply the solver. The solver must be tagged OwnerGenerator;
// discriminator parameters are left bit-for-bit unchanged.
func (net *GAN) GeneratorStep(noise *Matrix, solver *AdamSolver) (float64, error) {
	if solver.Owner() != OwnerGenerator {
		return 0, fmt.Errorf("Generator step got solver tagged '%s'", solver.Owner())
	}
	net.generatorPart.ZeroGrad()
	net.discriminatorPart.ZeroGrad()

	fake, err := net.generatorPart.Fwd(noise)
	if err != nil {
		return 0, errors.Wrap(err, "Can't generate fake batch")
	}
	dFake, err := net.discriminatorPart.Fwd(fake)
	if err != nil {
		return 0, errors.Wrap(err, "Can't feedforward fake batch")
	}
	loss, grad, err := GeneratorLoss(dFake)
	if err != nil {
		return 0, err
	}
	dInput, err := net.discriminatorPart.Backward(grad)
	if err != nil {
		return 0, errors.Wrap(err, "Can't backpropagate generator loss through discriminator")
	}
	if err := net.generatorPart.Backward(dInput); err != nil {
		return 0, errors.Wrap(err, "Can't backpropagate generator loss")
	}

	if err := solver.Step(net.Learnables()); err != nil {
		return 0, errors.Wrap(err, "Can't apply generator solver step")
	}
	return loss, nil
}

// Sample Read-only use of the generator: maps the provided noise batch to a
// batch of fake images without touching any gradient or optimizer state.
// Returned matrix is owned by the caller.
func (net *GAN) Sample(noise *Matrix) (*Matrix, error) {
	out, err := net.generatorPart.Fwd(noise)
	if err != nil {
		return nil, errors.Wrap(err, "Can't sample generator")
	}
	return out.Clone(), nil
}
