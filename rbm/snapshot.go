package rbm

import (
	"bytes"
	"encoding/gob"

	"github.com/pkg/errors"
	"gorgonia.org/tensor"

	"github.com/RiEtsuney/EbmLib/units"
)

// Snapshot is a deep copy of everything an RBM persists: layer sizes, unit
// kind names, parameters and delta accumulators. Kinds travel as their stable
// names and are re-resolved on restore; the random source is derived state
// and is never persisted. An external persistence layer may serialize a
// Snapshot to any medium.
type Snapshot struct {
	Visible, Hidden         int
	VisibleUnit, HiddenUnit string

	W, VB, HB    *tensor.Dense
	DW, DVB, DHB *tensor.Dense
}

// Snapshot deep copies the model's persistent state. Mutating the model
// afterwards leaves the snapshot untouched, and vice versa.
func (m *RBM) Snapshot() *Snapshot {
	return &Snapshot{
		Visible:     m.Visible,
		Hidden:      m.Hidden,
		VisibleUnit: m.VisibleUnit.String(),
		HiddenUnit:  m.HiddenUnit.String(),
		W:           m.W.Clone().(*tensor.Dense),
		VB:          m.VB.Clone().(*tensor.Dense),
		HB:          m.HB.Clone().(*tensor.Dense),
		DW:          m.DW.Clone().(*tensor.Dense),
		DVB:         m.DVB.Clone().(*tensor.Dense),
		DHB:         m.DHB.Clone().(*tensor.Dense),
	}
}

// Restore replaces the model's state with a deep copy of s. Kind names and
// array shapes are validated before anything is written, so a failed Restore
// leaves the model as it was.
func (m *RBM) Restore(s *Snapshot) error {
	vu, err := units.Parse(s.VisibleUnit)
	if err != nil {
		return errors.WithMessage(err, "restoring visible unit kind")
	}
	hu, err := units.Parse(s.HiddenUnit)
	if err != nil {
		return errors.WithMessage(err, "restoring hidden unit kind")
	}
	if s.Visible < 1 || s.Hidden < 1 {
		return errors.Errorf("snapshot has layer sizes (%d, %d), want positive sizes", s.Visible, s.Hidden)
	}
	fields := []struct {
		name  string
		t     *tensor.Dense
		shape tensor.Shape
	}{
		{"W", s.W, tensor.Shape{s.Hidden, s.Visible}},
		{"VB", s.VB, tensor.Shape{s.Visible}},
		{"HB", s.HB, tensor.Shape{s.Hidden}},
		{"DW", s.DW, tensor.Shape{s.Hidden, s.Visible}},
		{"DVB", s.DVB, tensor.Shape{s.Visible}},
		{"DHB", s.DHB, tensor.Shape{s.Hidden}},
	}
	for _, f := range fields {
		if f.t == nil {
			return errors.Errorf("snapshot field %s is nil", f.name)
		}
		if !f.t.Shape().Eq(f.shape) {
			return errors.Errorf("snapshot field %s has shape %v, want %v", f.name, f.t.Shape(), f.shape)
		}
	}

	m.Visible = s.Visible
	m.Hidden = s.Hidden
	m.VisibleUnit = vu
	m.HiddenUnit = hu
	m.W = s.W.Clone().(*tensor.Dense)
	m.VB = s.VB.Clone().(*tensor.Dense)
	m.HB = s.HB.Clone().(*tensor.Dense)
	m.DW = s.DW.Clone().(*tensor.Dense)
	m.DVB = s.DVB.Clone().(*tensor.Dense)
	m.DHB = s.DHB.Clone().(*tensor.Dense)
	if m.src == nil {
		m.src = units.NewSource(m.seed())
	}
	return nil
}

// GobEncode encodes the model's Snapshot.
func (m *RBM) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(m.Snapshot()); err != nil {
		return nil, errors.WithStack(err)
	}
	return buf.Bytes(), nil
}

// GobDecode restores the model from an encoded Snapshot. The random source
// is not persistent state: a model decoded from scratch draws from a fresh
// clock-seeded source.
func (m *RBM) GobDecode(p []byte) error {
	dec := gob.NewDecoder(bytes.NewReader(p))
	var s Snapshot
	if err := dec.Decode(&s); err != nil {
		return errors.WithStack(err)
	}
	return m.Restore(&s)
}
