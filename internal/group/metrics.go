// Aggregate metrics over a selection of units
package group

import (
	"math"

	"groupcmd/internal/geom"
	"groupcmd/internal/unit"
)

// noMobileSpeed is the slowest-speed value of a group without mobile units.
const noMobileSpeed = 1e9

// Metrics summarizes a selection for group orders.
type Metrics struct {
	Min, Max geom.Vec3
	Center   geom.Vec3

	// SumFootprint adds (x+z)/2 per resolved unit without truncation.
	// AvgFootprint divides it by the full selection size.
	SumFootprint float64
	AvgFootprint float64

	// MinMaxSpeed is the lowest current max speed among mobile units.
	MinMaxSpeed float64

	Count       int // units that resolved
	MobileCount int
}

// Empty reports whether no selected unit resolved.
func (m Metrics) Empty() bool { return m.Count == 0 }

// ReferencePos is where a unit counts as standing for group calculations:
// its last queued destination when the order is queued, else its position.
func ReferencePos(u *unit.Unit, queueing bool) geom.Vec3 {
	if queueing {
		return u.LastQueuePosition()
	}
	return u.Pos
}

// Calculate computes metrics over the selection. Ids that no longer resolve are skipped.
// The center is weighted over mobile units when there are any.
func Calculate(reg unit.Registry, selection []int, queueing bool) Metrics {
	m := Metrics{
		Min:         geom.Vec3{X: math.MaxFloat64, Y: math.MaxFloat64, Z: math.MaxFloat64},
		Max:         geom.Vec3{X: -math.MaxFloat64, Y: -math.MaxFloat64, Z: -math.MaxFloat64},
		MinMaxSpeed: noMobileSpeed,
	}
	var sum, mobileSum geom.Vec3

	for _, id := range selection {
		u, ok := reg.Unit(id)
		if !ok {
			continue
		}
		m.Count++
		m.SumFootprint += float64(u.XSize+u.ZSize) * 0.5

		pos := ReferencePos(u, queueing)
		m.Min = geom.Min(m.Min, pos)
		m.Max = geom.Max(m.Max, pos)
		sum = geom.Add(sum, pos)

		if reg.SupportsSpeedOverride(id) {
			m.MobileCount++
			mobileSum = geom.Add(mobileSum, pos)
			if u.MaxSpeed < m.MinMaxSpeed {
				m.MinMaxSpeed = u.MaxSpeed
			}
		}
	}

	if m.Count == 0 {
		return Metrics{MinMaxSpeed: noMobileSpeed}
	}
	m.AvgFootprint = m.SumFootprint / float64(len(selection))
	if m.MobileCount > 0 {
		m.Center = geom.Div(mobileSum, float64(m.MobileCount))
	} else {
		m.Center = geom.Div(sum, float64(m.Count))
	}
	return m
}

// Center returns the plain average reference position of the resolvable units in
// the selection, and false when none resolve.
func Center(reg unit.Registry, selection []int, queueing bool) (geom.Vec3, bool) {
	var sum geom.Vec3
	n := 0
	for _, id := range selection {
		u, ok := reg.Unit(id)
		if !ok {
			continue
		}
		sum = geom.Add(sum, ReferencePos(u, queueing))
		n++
	}
	if n == 0 {
		return geom.Vec3{}, false
	}
	return geom.Div(sum, float64(n)), true
}
