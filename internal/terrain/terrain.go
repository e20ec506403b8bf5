// Ground height sampling for formation placement
package terrain

import (
	"fmt"
	"math"
)

// Heightmap returns the walkable ground height at a planar position.
type Heightmap interface {
	HeightAboveWater(x, z float64) float64
}

// Flat is a constant-height map.
type Flat float64

// HeightAboveWater implements Heightmap.
func (f Flat) HeightAboveWater(x, z float64) float64 {
	return math.Max(float64(f), 0)
}

// Grid is a regular heightmap sampled bilinearly. Positions outside the grid
// are clamped to its border; heights below the water line read as zero.
type Grid struct {
	width   int
	depth   int
	spacing float64
	heights []float64
}

// NewGrid creates a width×depth grid with the given cell spacing. heights is row-major (z rows).
func NewGrid(width, depth int, spacing float64, heights []float64) (*Grid, error) {
	if width < 1 || depth < 1 {
		return nil, fmt.Errorf("grid must be at least 1x1, got %dx%d", width, depth)
	}
	if spacing <= 0 {
		return nil, fmt.Errorf("grid spacing must be positive, got %f", spacing)
	}
	if len(heights) != width*depth {
		return nil, fmt.Errorf("grid expects %d heights, got %d", width*depth, len(heights))
	}
	return &Grid{width: width, depth: depth, spacing: spacing, heights: heights}, nil
}

func (g *Grid) at(ix, iz int) float64 {
	ix = min(max(ix, 0), g.width-1)
	iz = min(max(iz, 0), g.depth-1)
	return g.heights[iz*g.width+ix]
}

// Height returns the raw interpolated height, which may be below water.
func (g *Grid) Height(x, z float64) float64 {
	fx := math.Min(math.Max(x/g.spacing, 0), float64(g.width-1))
	fz := math.Min(math.Max(z/g.spacing, 0), float64(g.depth-1))
	ix, iz := int(fx), int(fz)
	tx, tz := fx-float64(ix), fz-float64(iz)

	h00 := g.at(ix, iz)
	h10 := g.at(ix+1, iz)
	h01 := g.at(ix, iz+1)
	h11 := g.at(ix+1, iz+1)

	top := h00 + float64(tx*(h10-h00))
	bottom := h01 + float64(tx*(h11-h01))
	return top + float64(tz*(bottom-top))
}

// HeightAboveWater implements Heightmap.
func (g *Grid) HeightAboveWater(x, z float64) float64 {
	return math.Max(g.Height(x, z), 0)
}
