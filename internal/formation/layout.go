package formation

import (
	"groupcmd/internal/geom"
	"groupcmd/internal/terrain"
)

// frontSlack is added to the selection size to get the shortest usable front.
const frontSlack = 33

// cursor is a position in front-local coordinates: x runs along the front from
// the right edge, z drops back one row at a time (negative is further back).
type cursor struct {
	x, z float64
}

// layout is the geometry of one formation order.
type layout struct {
	center geom.Vec3
	right  geom.Vec3

	frontLength  float64
	extraSpacing float64
	rowDepth     float64

	// planar center-right direction, scaled by 1/halfFront when transforming
	sd       geom.Vec3
	halfSide float64

	heights terrain.Heightmap
}

func newLayout(center, right geom.Vec3, selected int, sumFootprint, avgFootprint float64, heights terrain.Heightmap) layout {
	l := layout{
		center:      center,
		right:       right,
		frontLength: geom.Distance(center, right) * 2,
		rowDepth:    float64(avgFootprint*2) * geom.SquareSize,
		sd:          geom.Flat(geom.Sub(center, right)),
		heights:     heights,
	}
	l.halfSide = l.frontLength / 2

	needed := float64(sumFootprint*2) * geom.SquareSize
	if l.frontLength > needed && selected > 1 {
		l.extraSpacing = (l.frontLength - needed) / float64(selected-1)
	}
	return l
}

// advance places a unit of the given footprint at the cursor. It returns the
// cursor after the unit's slot, the unit's world position, and whether the
// unit had to start a new row.
func (l *layout) advance(c cursor, footprint int) (cursor, geom.Vec3, bool) {
	newRow := false
	if c.x-l.extraSpacing > l.frontLength {
		c.x = 0
		c.z -= l.rowDepth
		newRow = true
	}
	half := float64(footprint) * geom.SquareSize
	if c.x != 0 {
		c.x += l.extraSpacing
	}
	mid := cursor{x: c.x + half, z: c.z}
	c.x += half * 2
	return c, l.toWorld(mid), newRow
}

// toWorld shears a front-local offset into the rotated formation frame anchored
// at the right edge, then drops it onto the ground.
func (l *layout) toWorld(c cursor) geom.Vec3 {
	ux := l.sd.X / l.halfSide
	uz := l.sd.Z / l.halfSide
	p := geom.Vec3{
		X: l.right.X + float64(c.x*ux) - float64(c.z*uz),
		Z: l.right.Z + float64(c.x*uz) + float64(c.z*ux),
	}
	if l.heights != nil {
		p.Y = l.heights.HeightAboveWater(p.X, p.Z)
	}
	return p
}
