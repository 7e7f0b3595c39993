package varying_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/slowmatch/varying"
)

func TestVarying_ConstantAt(t *testing.T) {
	v := varying.New(5)
	assert.Equal(t, 5.0, v.At(0))
	assert.Equal(t, 5.0, v.At(100))
	assert.True(t, v.IsConstant())
}

func TestVarying_LinearAt(t *testing.T) {
	v := varying.NewLinear(10, 2, 3) // 10 + 2*(t-3)
	assert.Equal(t, 10.0, v.At(3))
	assert.Equal(t, 12.0, v.At(4))
	assert.Equal(t, 4.0, v.At(0))
}

func TestVarying_AddPreservesPointwiseSum(t *testing.T) {
	f := varying.NewLinear(1, 2, 0)
	g := varying.NewLinear(3, -1, 5)
	sum := f.Add(g)
	for _, tm := range []float64{-3, 0, 1.5, 5, 42} {
		require.InDelta(t, f.At(tm)+g.At(tm), sum.At(tm), 1e-9)
	}
}

func TestVarying_SubPreservesPointwiseDifference(t *testing.T) {
	f := varying.NewLinear(1, 2, 0)
	g := varying.NewLinear(3, -1, 5)
	diff := f.Sub(g)
	for _, tm := range []float64{-3, 0, 1.5, 5, 42} {
		require.InDelta(t, f.At(tm)-g.At(tm), diff.At(tm), 1e-9)
	}
}

func TestVarying_ScaleAndDiv(t *testing.T) {
	f := varying.NewLinear(2, 4, 1)
	scaled := f.Scale(3)
	for _, tm := range []float64{0, 1, 10} {
		require.InDelta(t, f.At(tm)*3, scaled.At(tm), 1e-9)
	}
	divided := f.Div(2)
	for _, tm := range []float64{0, 1, 10} {
		require.InDelta(t, f.At(tm)/2, divided.At(tm), 1e-9)
	}
}

func TestVarying_ThenSlopeAtPreservesCurrentValue(t *testing.T) {
	f := varying.NewLinear(1, 2, 0) // 1 + 2t
	for _, tm := range []float64{-2, 0, 3.5} {
		pivoted := f.ThenSlopeAt(tm, -5)
		require.InDelta(t, f.At(tm), pivoted.At(tm), 1e-9)
		assert.Equal(t, -5.0, pivoted.Slope())
	}
}

func TestVarying_ZeroIntercept(t *testing.T) {
	f := varying.NewLinear(10, -2, 0) // hits zero at t=5
	zi, ok := f.ZeroIntercept()
	require.True(t, ok)
	assert.InDelta(t, 5.0, zi, 1e-9)
	require.InDelta(t, 0, f.At(zi), 1e-9)

	constant := varying.New(7)
	_, ok = constant.ZeroIntercept()
	assert.False(t, ok)
}

func TestVarying_EqualIgnoresRepresentation(t *testing.T) {
	a := varying.NewLinear(0, 1, 0)
	b := varying.NewLinear(5, 1, 5) // same function, different base time
	assert.True(t, a.Equal(b))

	c := varying.NewLinear(0, 2, 0)
	assert.False(t, a.Equal(c))
}

func TestVarying_NegAndAddConst(t *testing.T) {
	f := varying.NewLinear(3, 1, 0)
	neg := f.Neg()
	for _, tm := range []float64{0, 2, -4} {
		require.InDelta(t, -f.At(tm), neg.At(tm), 1e-9)
	}
	plus := f.AddConst(10)
	assert.InDelta(t, f.At(0)+10, plus.At(0), 1e-9)
	minus := f.SubConst(10)
	assert.InDelta(t, f.At(0)-10, minus.At(0), 1e-9)
}

func TestVarying_IdentityRamp(t *testing.T) {
	assert.Equal(t, 0.0, varying.T.At(0))
	assert.Equal(t, 5.0, varying.T.At(5))
	assert.Equal(t, 1.0, varying.T.Slope())
}
