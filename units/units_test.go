package units

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

var kindname = []struct {
	k    Kind
	name string
}{
	{Sigmoid, "sigmoid"},
	{Tanh, "tanh"},
	{Linear, "linear"},
	{RectLinear, "rectlinear"},
	{PThresh, "pthresh"},
}

func TestParse(t *testing.T) {
	for _, c := range kindname {
		k, err := Parse(c.name)
		if err != nil {
			t.Fatalf("Parse(%q): %+v", c.name, err)
		}
		if k != c.k {
			t.Errorf("Parse(%q) = %v, want %v", c.name, k, c.k)
		}
		if k.String() != c.name {
			t.Errorf("%v.String() = %q, want %q", k, k.String(), c.name)
		}
	}
	if _, err := Parse("not_a_real_type"); err == nil {
		t.Error("expected an error for an unknown unit type")
	}
}

func TestDeterministicKinds(t *testing.T) {
	assert := assert.New(t)
	x := []float32{-3.5, -1, -0.25, 0, 0.25, 1, 3.5}
	for _, k := range []Kind{Sigmoid, Tanh, Linear} {
		assert.False(k.Stochastic(), "%v should be deterministic", k)
		a := k.Activate(x, nil)
		b := k.Activate(x, nil)
		assert.Equal(a, b, "%v should give the same output for the same input", k)
		assert.Len(a, len(x), "%v should preserve shape", k)
	}
	assert.True(RectLinear.Stochastic())
	assert.True(PThresh.Stochastic())
}

func TestSigmoidValues(t *testing.T) {
	assert := assert.New(t)
	y := Sigmoid.Activate([]float32{0, 100, -100}, nil)
	assert.InDelta(0.5, y[0], 1e-6)
	assert.InDelta(1.0, y[1], 1e-6)
	assert.InDelta(0.0, y[2], 1e-6)
}

func TestSigmoidDerivFiniteDifference(t *testing.T) {
	assert := assert.New(t)
	xs := []float32{-4, -2, -1, -0.5, 0, 0.5, 1, 2, 4}
	y := Sigmoid.Activate(xs, nil)
	d := Sigmoid.Deriv(y)
	const h = 1e-3
	for i, x := range xs {
		hi := Sigmoid.Activate([]float32{x + h}, nil)[0]
		lo := Sigmoid.Activate([]float32{x - h}, nil)[0]
		fd := float64(hi-lo) / (2 * h)
		assert.InDelta(fd, float64(d[i]), 1e-3, "dsigmoid at x=%v", x)
	}
}

func TestDerivs(t *testing.T) {
	assert := assert.New(t)
	y := []float32{-0.5, 0, 0.25, 1}
	assert.Equal([]float32{1, 1, 1, 1}, Linear.Deriv(y))
	assert.Equal([]float32{0, 0, 1, 1}, RectLinear.Deriv(y))
	assert.Equal([]float32{0.75, 1, 0.9375, 0}, Tanh.Deriv(y))
	assert.Equal([]float32{-0.75, 0, 0.1875, 0}, Sigmoid.Deriv(y))
	for _, k := range []Kind{Sigmoid, Tanh, Linear, RectLinear, PThresh} {
		assert.Len(k.Deriv(y), len(y), "%v derivative should preserve shape", k)
	}
}

func TestPThreshFrequency(t *testing.T) {
	const n = 20000
	src := NewSource(42)
	xs := []float32{-2, -0.5, 0, 0.5, 2}
	counts := make([]int, len(xs))
	for i := 0; i < n; i++ {
		y := PThresh.Activate(xs, src)
		for j, v := range y {
			switch v {
			case 1:
				counts[j]++
			case 0:
			default:
				t.Fatalf("pthresh emitted %v, want 0 or 1", v)
			}
		}
	}
	for j, x := range xs {
		got := float64(counts[j]) / n
		want := 1 / (1 + math.Exp(-float64(x)))
		if math.Abs(got-want) > 0.02 {
			t.Errorf("pthresh frequency at x=%v: got %.4f, want %.4f", x, got, want)
		}
	}
}

func TestRectLinear(t *testing.T) {
	assert := assert.New(t)
	x := []float32{-5, -1, 0, 1, 5}
	a := RectLinear.Activate(x, NewSource(7))
	b := RectLinear.Activate(x, NewSource(7))
	assert.Equal(a, b, "same seed should give the same draw")
	for i, v := range a {
		if v < 0 {
			t.Errorf("rectlinear output %d is %v, want nonnegative", i, v)
		}
	}
}

func TestThreshold(t *testing.T) {
	src := NewSource(13)
	zeros := Threshold(make([]float32, 50), src)
	for i, v := range zeros {
		if v != 0 {
			t.Errorf("threshold of p=0 emitted %v at %d", v, i)
		}
	}
	ones := make([]float32, 50)
	for i := range ones {
		ones[i] = 1
	}
	for i, v := range Threshold(ones, src) {
		if v != 1 {
			t.Errorf("threshold of p=1 emitted %v at %d", v, i)
		}
	}

	const n = 20000
	var count int
	p := []float32{0.3}
	for i := 0; i < n; i++ {
		if Threshold(p, src)[0] == 1 {
			count++
		}
	}
	got := float64(count) / n
	if math.Abs(got-0.3) > 0.02 {
		t.Errorf("threshold frequency at p=0.3: got %.4f", got)
	}
}
