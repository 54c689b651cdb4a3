package gan_go

import (
	"fmt"

	rng "github.com/leesper/go_rng"
)

// NoiseDistribution Distribution the latent noise vectors are drawn from
type NoiseDistribution uint16

const (
	// NoiseUniform U(-1, 1), same interval the images are scaled to
	NoiseUniform = NoiseDistribution(iota)
	// NoiseGaussian N(0, 1)
	NoiseGaussian
)

// NoiseSampler Source of latent noise batches. Owns its seeded generators,
// so two samplers constructed with the same seed produce identical noise
// streams and nothing touches process-wide random state.
type NoiseSampler struct {
	dim      int
	dist     NoiseDistribution
	uniform  *rng.UniformGenerator
	gaussian *rng.GaussianGenerator
}

// NewNoiseSampler Constructor for NoiseSampler producing vectors of the
// given dimension
func NewNoiseSampler(dim int, dist NoiseDistribution, seed int64) (*NoiseSampler, error) {
	if dim < 1 {
		return nil, fmt.Errorf("Noise dimension must be positive, but got %d", dim)
	}
	return &NoiseSampler{
		dim:      dim,
		dist:     dist,
		uniform:  rng.NewUniformGenerator(seed),
		gaussian: rng.NewGaussianGenerator(seed),
	}, nil
}

// Dim Returns dimension of produced noise vectors
func (ns *NoiseSampler) Dim() int {
	return ns.dim
}

// Batch Returns batch of noise vectors [batchSize, dim]
func (ns *NoiseSampler) Batch(batchSize int) *Matrix {
	out := NewMatrix(batchSize, ns.dim)
	switch ns.dist {
	case NoiseGaussian:
		for i := range out.data {
			out.data[i] = ns.gaussian.Gaussian(0.0, 1.0)
		}
	default:
		for i := range out.data {
			out.data[i] = ns.uniform.Float64Range(-1.0, 1.0)
		}
	}
	return out
}
