// Package cost holds the analytical area, timing and energy models of a
// ReRAM compute-in-memory macro.
package cost

import (
	"fmt"
	"math"
)

// Component names one contributor to a cost breakdown.
type Component string

// The components every breakdown carries.
const (
	Cells         Component = "cells"
	AccessDevices Component = "access_devices"
	Mults         Component = "mults"
	DACs          Component = "dacs"
	ADCs          Component = "adcs"
	AddersRegular Component = "adders_regular"
	AddersPV      Component = "adders_pv"
	Accumulators  Component = "accumulators"
	WLDrivers     Component = "wl_drivers"
	BLDrivers     Component = "bl_drivers"
)

// Components lists the breakdown components in report order.
var Components = []Component{
	Cells,
	AccessDevices,
	Mults,
	DACs,
	ADCs,
	AddersRegular,
	AddersPV,
	Accumulators,
	WLDrivers,
	BLDrivers,
}

// Breakdown maps every component to a non-negative cost. Components that do
// not apply are present with a zero value.
type Breakdown map[Component]float64

// NewBreakdown returns a breakdown with every component set to zero.
func NewBreakdown() Breakdown {
	b := make(Breakdown, len(Components))
	for _, c := range Components {
		b[c] = 0
	}
	return b
}

// Total is the sum of all components.
func (b Breakdown) Total() float64 {
	total := 0.0
	for _, c := range Components {
		total += b[c]
	}
	return total
}

// Get returns the value of one component.
func (b Breakdown) Get(c Component) float64 {
	return b[c]
}

// Add returns the component-wise sum of b and other.
func (b Breakdown) Add(other Breakdown) Breakdown {
	sum := NewBreakdown()
	for _, c := range Components {
		sum[c] = b[c] + other[c]
	}
	return sum
}

// Scale returns b with every component multiplied by factor.
func (b Breakdown) Scale(factor float64) Breakdown {
	scaled := NewBreakdown()
	for _, c := range Components {
		scaled[c] = b[c] * factor
	}
	return scaled
}

// Clone returns a copy of b.
func (b Breakdown) Clone() Breakdown {
	return b.Scale(1)
}

// Validate checks that every component is present, finite and not
// negative, and that no unknown component slipped in.
func (b Breakdown) Validate() error {
	if len(b) != len(Components) {
		return fmt.Errorf("breakdown has %d components, expected %d",
			len(b), len(Components))
	}

	for _, c := range Components {
		v, ok := b[c]
		if !ok {
			return fmt.Errorf("breakdown is missing component %s", c)
		}
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("component %s has invalid value %g", c, v)
		}
	}

	return nil
}
