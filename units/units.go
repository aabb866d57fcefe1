package units

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"
)

// Kind enumerates the unit activation functions available to energy based
// models. The set is closed: serialized state refers to a Kind by its stable
// name (see String and Parse), never by index.
type Kind uint8

const (
	Sigmoid Kind = iota
	Tanh
	Linear
	RectLinear // rectified linear with activation-dependent gaussian noise
	PThresh    // probabilistic step: bernoulli draw with p = sigmoid(x)

	maxKind
)

var kindNames = [maxKind]string{"sigmoid", "tanh", "linear", "rectlinear", "pthresh"}

// Parse resolves a stable unit type name to its Kind. An unrecognized name
// is a configuration error.
func Parse(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	return maxKind, errors.Errorf("unknown unit type %q", name)
}

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("unitkind(%d)", uint8(k))
	}
	return kindNames[k]
}

// Valid reports whether k is one of the enumerated kinds.
func (k Kind) Valid() bool { return k < maxKind }

// Stochastic reports whether activating k draws from a random source.
func (k Kind) Stochastic() bool { return k == RectLinear || k == PThresh }

// Activate applies k elementwise to x and returns a freshly allocated result
// of the same length. The deterministic kinds ignore src; RectLinear and
// PThresh require a non-nil src.
func (k Kind) Activate(x []float32, src *Source) []float32 {
	y := make([]float32, len(x))
	switch k {
	case Sigmoid:
		for i, v := range x {
			y[i] = sigmoid(v)
		}
	case Tanh:
		for i, v := range x {
			y[i] = math32.Tanh(v)
		}
	case Linear:
		copy(y, x)
	case RectLinear:
		// noise scale tracks the unit's own activation probability,
		// bounded in (1e-5, 1+1e-5)
		for i, v := range x {
			y[i] = math32.Max(0, v+src.Gaussian(0, sigmoid(v)+1e-5))
		}
	case PThresh:
		for i, v := range x {
			if src.Float32() < sigmoid(v) {
				y[i] = 1
			}
		}
	}
	return y
}

// Deriv returns the local derivative of k given the activation OUTPUT y,
// not its input. dlinear is the constant 1, returned shape-preserving.
// PThresh differentiates through its mean, which is a sigmoid.
func (k Kind) Deriv(y []float32) []float32 {
	d := make([]float32, len(y))
	switch k {
	case Sigmoid, PThresh:
		for i, v := range y {
			d[i] = v * (1 - v)
		}
	case Tanh:
		for i, v := range y {
			d[i] = 1 - v*v
		}
	case Linear:
		for i := range y {
			d[i] = 1
		}
	case RectLinear:
		for i, v := range y {
			if v > 0 {
				d[i] = 1
			}
		}
	}
	return d
}

// Threshold stochastically binarizes a probability vector: element i of the
// result is 1 with probability p[i], else 0. Unlike PThresh.Activate it takes
// probabilities, not pre-activations.
func Threshold(p []float32, src *Source) []float32 {
	y := make([]float32, len(p))
	for i, pi := range p {
		if src.Float32() < pi {
			y[i] = 1
		}
	}
	return y
}

func sigmoid(x float32) float32 { return 1 / (1 + math32.Exp(-x)) }
