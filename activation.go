package gan_go

import (
	"fmt"
	"math"
)

// Activation Identifier for activation function applied to a layer's affine output
type Activation uint16

const (
	NoActivation = Activation(iota)
	ActivationReLU
	ActivationSigmoid
	ActivationTanh
)

func (act Activation) String() string {
	switch act {
	case NoActivation:
		return "none"
	case ActivationReLU:
		return "relu"
	case ActivationSigmoid:
		return "sigmoid"
	case ActivationTanh:
		return "tanh"
	default:
		return fmt.Sprintf("activation(%d)", uint16(act))
	}
}

// Apply Writes act(z) into dst elementwise. dst and z may alias.
func (act Activation) Apply(z, dst *Matrix) error {
	if len(z.data) != len(dst.data) {
		return fmt.Errorf("Activation input has %d elements, output has %d", len(z.data), len(dst.data))
	}
	switch act {
	case NoActivation:
		copy(dst.data, z.data)
	case ActivationReLU:
		for i, v := range z.data {
			if v > 0 {
				dst.data[i] = v
			} else {
				dst.data[i] = 0
			}
		}
	case ActivationSigmoid:
		// Large |v| saturates float64 sigmoid to exact 0 or 1; clamping keeps
		// the output a probability in the open interval (0, 1)
		for i, v := range z.data {
			dst.data[i] = clampProb(1.0 / (1.0 + math.Exp(-v)))
		}
	case ActivationTanh:
		for i, v := range z.data {
			dst.data[i] = math.Tanh(v)
		}
	default:
		return fmt.Errorf("Activation type '%d' (uint16) is not handled", act)
	}
	return nil
}

// Backward Converts dL/dA into dL/dZ in place: grad[i] *= act'(z[i]).
// Sigmoid and tanh derivatives are evaluated from the activated output a,
// ReLU from the preactivation z.
func (act Activation) Backward(grad, z, a *Matrix) error {
	if len(grad.data) != len(z.data) || len(grad.data) != len(a.data) {
		return fmt.Errorf("Activation backward buffers disagree: grad=%d z=%d a=%d", len(grad.data), len(z.data), len(a.data))
	}
	switch act {
	case NoActivation:
		// act'(z) = 1
	case ActivationReLU:
		for i := range grad.data {
			if z.data[i] <= 0 {
				grad.data[i] = 0
			}
		}
	case ActivationSigmoid:
		for i := range grad.data {
			grad.data[i] *= a.data[i] * (1.0 - a.data[i])
		}
	case ActivationTanh:
		for i := range grad.data {
			grad.data[i] *= 1.0 - a.data[i]*a.data[i]
		}
	default:
		return fmt.Errorf("Activation type '%d' (uint16) is not handled", act)
	}
	return nil
}
