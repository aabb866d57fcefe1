package rbm

import (
	"math"

	"github.com/pkg/errors"
	"gorgonia.org/tensor"
	"gorgonia.org/vecf32"

	"github.com/RiEtsuney/EbmLib/units"
)

var Float = tensor.Float32

// RBM is a restricted Boltzmann machine: a bipartite energy based model with
// a dense weight matrix between a visible and a hidden unit layer.
//
// The parameter and delta tensors are exported because training is not this
// package's job: an external trainer owns the update rule and reads/writes
// W, VB and HB (and accumulates into DW, DVB, DHB) directly, using the
// methods below as building blocks. The model assumes a single owner;
// concurrent access needs external synchronization.
type RBM struct {
	Config

	W  *tensor.Dense // weights, shape (Hidden, Visible)
	VB *tensor.Dense // visible bias, length Visible
	HB *tensor.Dense // hidden bias, length Hidden

	// delta accumulators for an external trainer. The model zero-initializes
	// these and carries them through snapshots, nothing more.
	DW  *tensor.Dense
	DVB *tensor.Dense
	DHB *tensor.Dense

	src *units.Source
}

// New constructs an RBM with weights drawn uniformly from [-0.2, 0.2] and
// all biases and deltas zeroed. Layer sizes are fixed for the model's
// lifetime.
func New(conf Config) (*RBM, error) {
	if !conf.IsValid() {
		return nil, errors.Errorf("invalid RBM config %+v", conf)
	}
	m := &RBM{
		Config: conf,
		src:    units.NewSource(conf.seed()),
	}
	wBacking := make([]float32, conf.Hidden*conf.Visible)
	for i := range wBacking {
		wBacking[i] = m.src.Float32Range(-0.2, 0.2)
	}
	m.W = tensor.New(tensor.WithShape(conf.Hidden, conf.Visible), tensor.WithBacking(wBacking))
	m.VB = tensor.New(tensor.Of(Float), tensor.WithShape(conf.Visible))
	m.HB = tensor.New(tensor.Of(Float), tensor.WithShape(conf.Hidden))
	m.DW = tensor.New(tensor.Of(Float), tensor.WithShape(conf.Hidden, conf.Visible))
	m.DVB = tensor.New(tensor.Of(Float), tensor.WithShape(conf.Visible))
	m.DHB = tensor.New(tensor.Of(Float), tensor.WithShape(conf.Hidden))
	return m, nil
}

// Forward computes the hidden unit activation probabilities sigmoid(W·v + HB)
// for a visible state v. The expectation step is always a sigmoid; the
// configured HiddenUnit does not change it.
func (m *RBM) Forward(v []float32) ([]float32, error) {
	if len(v) != m.Visible {
		return nil, errors.Errorf("visible state has length %d, model has %d visible units", len(v), m.Visible)
	}
	pre := borrowVector(m.Hidden)
	defer returnVector(pre)
	m.hiddenPre(v, pre)
	return units.Sigmoid.Activate(pre, nil), nil
}

// Backward computes the visible unit activation probabilities
// sigmoid(Wᵗ·h + VB) for a hidden state h.
func (m *RBM) Backward(h []float32) ([]float32, error) {
	if len(h) != m.Hidden {
		return nil, errors.Errorf("hidden state has length %d, model has %d hidden units", len(h), m.Hidden)
	}
	pre := borrowVector(m.Visible)
	defer returnVector(pre)
	m.visiblePre(h, pre)
	return units.Sigmoid.Activate(pre, nil), nil
}

// SampleHidden draws a binary hidden state from a vector of activation
// probabilities.
//
// Sampling always thresholds probabilistically, whatever HiddenUnit is
// configured; the configured kinds govern serialization identity and which
// activation family a caller may apply elsewhere. Known limitation: a model
// configured with tanh/rectlinear/linear layers still samples binary states.
func (m *RBM) SampleHidden(p []float32) ([]float32, error) {
	if len(p) != m.Hidden {
		return nil, errors.Errorf("hidden probability vector has length %d, model has %d hidden units", len(p), m.Hidden)
	}
	return units.Threshold(p, m.src), nil
}

// SampleVisible draws a binary visible state from a vector of activation
// probabilities. See SampleHidden for the sampling policy.
func (m *RBM) SampleVisible(p []float32) ([]float32, error) {
	if len(p) != m.Visible {
		return nil, errors.Errorf("visible probability vector has length %d, model has %d visible units", len(p), m.Visible)
	}
	return units.Threshold(p, m.src), nil
}

// Reconstruct runs one Gibbs half step: sample a hidden state from v, then
// sample a visible state back from it. Stochastic by construction; repeated
// calls on the same v will differ.
func (m *RBM) Reconstruct(v []float32) ([]float32, error) {
	hp, err := m.Forward(v)
	if err != nil {
		return nil, err
	}
	h, err := m.SampleHidden(hp)
	if err != nil {
		return nil, err
	}
	vp, err := m.Backward(h)
	if err != nil {
		return nil, err
	}
	return m.SampleVisible(vp)
}

// FreeEnergy computes the marginal energy of a visible configuration with
// the hidden layer summed out analytically:
//
//	F(v) = -Σ_i v_i·VB_i - Σ_j softplus((W·v + HB)_j)
//
// The hidden term stays finite for arbitrarily large pre-activations.
func (m *RBM) FreeEnergy(v []float32) (float64, error) {
	if len(v) != m.Visible {
		return 0, errors.Errorf("visible state has length %d, model has %d visible units", len(v), m.Visible)
	}
	pre := borrowVector(m.Hidden)
	defer returnVector(pre)
	m.hiddenPre(v, pre)

	var fe float64
	vb := m.VB.Data().([]float32)
	for i, vi := range v {
		fe -= float64(vi) * float64(vb[i])
	}
	for _, x := range pre {
		fe -= softplus(float64(x))
	}
	return fe, nil
}

// Energy computes the joint energy of one (visible, hidden) configuration:
//
//	E(v, h) = -Σ_i v_i·VB_i - Σ_j h_j·HB_j - Σ_{j,i} W_{j,i}·h_j·v_i
//
// Lower energy means higher unnormalized probability under the model's Gibbs
// distribution; the partition function is intractable and never computed.
func (m *RBM) Energy(v, h []float32) (float64, error) {
	if len(v) != m.Visible {
		return 0, errors.Errorf("visible state has length %d, model has %d visible units", len(v), m.Visible)
	}
	if len(h) != m.Hidden {
		return 0, errors.Errorf("hidden state has length %d, model has %d hidden units", len(h), m.Hidden)
	}
	var e float64
	vb := m.VB.Data().([]float32)
	for i, vi := range v {
		e -= float64(vi) * float64(vb[i])
	}
	hb := m.HB.Data().([]float32)
	for j, hj := range h {
		e -= float64(hj) * float64(hb[j])
	}
	w := m.W.Data().([]float32)
	for j, hj := range h {
		if hj == 0 {
			continue
		}
		row := w[j*m.Visible : (j+1)*m.Visible]
		for i, wji := range row {
			e -= float64(wji) * float64(hj) * float64(v[i])
		}
	}
	return e, nil
}

// hiddenPre writes W·v + HB into pre. len(pre) must be m.Hidden.
func (m *RBM) hiddenPre(v, pre []float32) {
	w := m.W.Data().([]float32)
	for j := 0; j < m.Hidden; j++ {
		row := w[j*m.Visible : (j+1)*m.Visible]
		var sum float32
		for i, vi := range v {
			sum += row[i] * vi
		}
		pre[j] = sum
	}
	vecf32.Add(pre, m.HB.Data().([]float32))
}

// visiblePre writes Wᵗ·h + VB into pre. len(pre) must be m.Visible.
func (m *RBM) visiblePre(h, pre []float32) {
	copy(pre, m.VB.Data().([]float32))
	w := m.W.Data().([]float32)
	for j, hj := range h {
		if hj == 0 {
			continue
		}
		row := w[j*m.Visible : (j+1)*m.Visible]
		for i, wji := range row {
			pre[i] += wji * hj
		}
	}
}

// softplus computes log(1 + exp(x)) without overflowing for large x.
func softplus(x float64) float64 {
	if x > 0 {
		return x + math.Log1p(math.Exp(-x))
	}
	return math.Log1p(math.Exp(x))
}
