// Stable priority orderings of units and attack targets
package ordering

import (
	"cmp"
	"slices"

	"groupcmd/internal/geom"
	"groupcmd/internal/unit"
)

// weaponlessRange is the range assumed for units without a weapon, which puts
// them at the back of a formation.
const weaponlessRange = 2000.0

// Pair is a scored unit id.
type Pair struct {
	Score float64
	ID    int
}

// FormationScore is the placement priority of u. Lower scores go to the front.
func FormationScore(u *unit.Unit) float64 {
	rng := u.MaxWeaponRange
	if rng < 1 {
		rng = weaponlessRange
	}
	health := u.Health
	if health <= 0 {
		health = 1
	}
	value := float64(u.MetalCost*60) + u.EnergyCost
	return float64(value/health) * rng
}

func sortStable(pairs []Pair) {
	slices.SortStableFunc(pairs, func(a, b Pair) int {
		return cmp.Compare(a.Score, b.Score)
	})
}

// Units appends the resolvable units of selection to dst as (score, id) pairs,
// stably sorted by ascending formation score.
func Units(dst []Pair, reg unit.Registry, selection []int) []Pair {
	start := len(dst)
	for _, id := range selection {
		u, ok := reg.Unit(id)
		if !ok {
			continue
		}
		dst = append(dst, Pair{Score: FormationScore(u), ID: id})
	}
	sortStable(dst[start:])
	return dst
}

// Targets returns the resolvable targets as pairs stably sorted by ascending
// squared planar distance from ref.
func Targets(reg unit.Registry, targets []int, ref geom.Vec3) []Pair {
	pairs := make([]Pair, 0, len(targets))
	for _, id := range targets {
		u, ok := reg.Unit(id)
		if !ok {
			continue
		}
		pairs = append(pairs, Pair{Score: geom.SqDistance2D(u.Pos, ref), ID: id})
	}
	sortStable(pairs)
	return pairs
}
