package gan_go

import (
	"fmt"
	"math"
)

// AdamConfig Hyperparameters of the Adam update rule.
// Zero values fall back to the usual defaults (beta1=0.9, beta2=0.999,
// eps=1e-8, lr=0.001).
type AdamConfig struct {
	LearningRate float64
	Beta1        float64
	Beta2        float64
	Epsilon      float64
}

// MomentumFromTimeConstant Converts a momentum time constant (in samples)
// into a per-minibatch smoothing coefficient: beta = exp(-batchSize/tc).
// This is the schedule convention the reference training recipe is stated in;
// e.g. tc=700 with minibatches of 1024 gives beta1 ≈ 0.23.
func MomentumFromTimeConstant(tc float64, batchSize int) float64 {
	if tc <= 0 {
		return 0
	}
	return math.Exp(-float64(batchSize) / tc)
}

// AdamSolver Adam optimizer bound to one network's parameters via an owner
// tag. Step filters the provided parameter set down to that owner before
// touching anything, so the same full parameter list can be handed to both
// solvers and a generator step still cannot move discriminator weights.
//
// First and second moment running averages live in per-parameter matrices
// keyed by parameter identity; two solver instances never share moment state.
// See ref. "Adam: A Method for Stochastic Optimization" (Kingma & Ba, 2014).
type AdamSolver struct {
	owner Owner
	cfg   AdamConfig
	t     int
	m     map[*Parameter]*Matrix
	v     map[*Parameter]*Matrix
}

// NewAdamSolver Constructor for AdamSolver updating only parameters tagged
// with the given owner
func NewAdamSolver(owner Owner, cfg AdamConfig) *AdamSolver {
	if cfg.LearningRate == 0 {
		cfg.LearningRate = 0.001
	}
	if cfg.Beta1 == 0 {
		cfg.Beta1 = 0.9
	}
	if cfg.Beta2 == 0 {
		cfg.Beta2 = 0.999
	}
	if cfg.Epsilon == 0 {
		cfg.Epsilon = 1e-8
	}
	return &AdamSolver{
		owner: owner,
		cfg:   cfg,
		m:     make(map[*Parameter]*Matrix),
		v:     make(map[*Parameter]*Matrix),
	}
}

// Owner Returns owner tag this solver updates
func (s *AdamSolver) Owner() Owner {
	return s.owner
}

// Timestep Returns number of applied steps
func (s *AdamSolver) Timestep() int {
	return s.t
}

// Step Applies one bias-corrected Adam update to every parameter in the
// provided set whose owner tag matches the solver's. Parameters of the other
// network are left untouched even when their gradient buffers are non-zero.
func (s *AdamSolver) Step(params []*Parameter) error {
	s.t++
	correction1 := 1.0 - math.Pow(s.cfg.Beta1, float64(s.t))
	correction2 := 1.0 - math.Pow(s.cfg.Beta2, float64(s.t))

	for _, p := range params {
		if p == nil {
			return fmt.Errorf("Solver [%s] got nil parameter", s.owner)
		}
		if p.Owner != s.owner {
			continue
		}
		m, found := s.m[p]
		if !found {
			m = NewMatrix(p.Value.rows, p.Value.cols)
			s.m[p] = m
		}
		v, found := s.v[p]
		if !found {
			v = NewMatrix(p.Value.rows, p.Value.cols)
			s.v[p] = v
		}
		values := p.Value.data
		grads := p.Grad.data
		for i := range values {
			g := grads[i]
			// m_t = beta1*m_{t-1} + (1-beta1)*g
			m.data[i] = s.cfg.Beta1*m.data[i] + (1.0-s.cfg.Beta1)*g
			// v_t = beta2*v_{t-1} + (1-beta2)*g²
			v.data[i] = s.cfg.Beta2*v.data[i] + (1.0-s.cfg.Beta2)*g*g
			mHat := m.data[i] / correction1
			vHat := v.data[i] / correction2
			values[i] -= s.cfg.LearningRate * mHat / (math.Sqrt(vHat) + s.cfg.Epsilon)
		}
	}
	return nil
}
