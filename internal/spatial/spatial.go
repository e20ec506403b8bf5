// Enemy unit queries over circles and boxes
package spatial

import (
	"groupcmd/internal/geom"
	"groupcmd/internal/unit"
)

// Query finds enemy units visible to an ally-team inside an area.
type Query interface {
	QueryCircle(center geom.Vec3, radius float64, allyTeam int) []int
	QueryBox(corner1, corner2 geom.Vec3, allyTeam int) []int
}

// Source lists units in a stable order.
type Source interface {
	Units() []*unit.Unit
}

// Index answers queries by scanning a unit source. Results follow the
// source order, which for unit.Store is ascending unit id.
type Index struct {
	src Source
}

// NewIndex creates an index over src.
func NewIndex(src Source) *Index {
	return &Index{src: src}
}

func enemyVisible(u *unit.Unit, allyTeam int) bool {
	return u.AllyTeam != allyTeam && u.VisibleTo(allyTeam)
}

// QueryCircle returns enemies whose planar distance to center is within radius.
func (x *Index) QueryCircle(center geom.Vec3, radius float64, allyTeam int) []int {
	r2 := float64(radius * radius)
	var ids []int
	for _, u := range x.src.Units() {
		if !enemyVisible(u, allyTeam) {
			continue
		}
		if geom.SqDistance2D(u.Pos, center) <= r2 {
			ids = append(ids, u.ID)
		}
	}
	return ids
}

// QueryBox returns enemies inside the planar rectangle spanned by two opposite corners.
func (x *Index) QueryBox(corner1, corner2 geom.Vec3, allyTeam int) []int {
	lo := geom.Min(corner1, corner2)
	hi := geom.Max(corner1, corner2)
	var ids []int
	for _, u := range x.src.Units() {
		if !enemyVisible(u, allyTeam) {
			continue
		}
		if u.Pos.X >= lo.X && u.Pos.X <= hi.X && u.Pos.Z >= lo.Z && u.Pos.Z <= hi.Z {
			ids = append(ids, u.ID)
		}
	}
	return ids
}
