// Package varying implements a value that changes linearly over time:
// a + s·(t − t0). It is the scalar building block that GraphFillRegion
// radii and flooder tentative-event times are expressed in.
//
// Varying is a plain record of three float64s (base, slope, base time) and
// is intentionally cheap enough to pass by value; see core.GraphFillRegion.Radius
// and flooder's scheduling arithmetic for its two callers.
//
// Complexity: every operation here is O(1).
package varying

import "fmt"

// Varying is a linear function of time: At(t) == base + slope*(t - baseTime).
//
// The zero value is the constant function 0, matching Varying{} == New(0).
type Varying struct {
	base     float64
	slope    float64
	baseTime float64
}

// T is the identity ramp: T(t) == t.
var T = Varying{base: 0, slope: 1, baseTime: 0}

// New returns the constant function f(t) == base.
func New(base float64) Varying {
	return Varying{base: base}
}

// NewLinear returns f(t) == base + slope*(t - baseTime).
func NewLinear(base, slope, baseTime float64) Varying {
	return Varying{base: base, slope: slope, baseTime: baseTime}
}

// At evaluates the function at time t.
func (v Varying) At(t float64) float64 {
	return v.base + (t-v.baseTime)*v.slope
}

// Slope returns the function's constant rate of change.
func (v Varying) Slope() float64 {
	return v.slope
}

// Neg returns -v.
func (v Varying) Neg() Varying {
	return v.Scale(-1)
}

// Scale returns v multiplied by a scalar factor.
func (v Varying) Scale(factor float64) Varying {
	return Varying{base: v.base * factor, slope: v.slope * factor, baseTime: v.baseTime}
}

// Div returns v divided by a scalar factor.
func (v Varying) Div(factor float64) Varying {
	return Varying{base: v.base / factor, slope: v.slope / factor, baseTime: v.baseTime}
}

// AddConst returns v + c for a plain scalar c.
func (v Varying) AddConst(c float64) Varying {
	return Varying{base: v.base + c, slope: v.slope, baseTime: v.baseTime}
}

// SubConst returns v - c for a plain scalar c.
func (v Varying) SubConst(c float64) Varying {
	return v.AddConst(-c)
}

// Add returns v + other. The result is re-based at v's base time, preserving
// At(t) == v.At(t) + other.At(t) for all t.
func (v Varying) Add(other Varying) Varying {
	return Varying{
		base:     v.base + other.At(v.baseTime),
		slope:    v.slope + other.slope,
		baseTime: v.baseTime,
	}
}

// Sub returns v - other.
func (v Varying) Sub(other Varying) Varying {
	return v.Add(other.Neg())
}

// ThenSlopeAt returns a Varying sharing v's current value at t but with a new
// slope from then on: result.At(t) == v.At(t), and result.Slope() == newSlope.
func (v Varying) ThenSlopeAt(t, newSlope float64) Varying {
	return Varying{base: v.At(t), slope: newSlope, baseTime: t}
}

// ZeroIntercept returns the time at which v crosses zero, or false if v is
// constant (slope == 0) and so never crosses (or is already at) zero exactly
// once.
func (v Varying) ZeroIntercept() (float64, bool) {
	if v.slope == 0 {
		return 0, false
	}
	return v.baseTime - v.base/v.slope, true
}

// Equal compares the represented function, not the internal representation:
// two Varyings with different base times but the same slope and value at
// time 0 are equal.
func (v Varying) Equal(other Varying) bool {
	return v.slope == other.slope && v.At(0) == other.At(0)
}

// IsConstant reports whether v never changes.
func (v Varying) IsConstant() bool {
	return v.slope == 0
}

// String renders v as "<value at t=0> + T*<slope>".
func (v Varying) String() string {
	return fmt.Sprintf("%g + T*%g", v.At(0), v.slope)
}
