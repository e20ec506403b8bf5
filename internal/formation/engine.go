// Front-line formation placement for multi-unit move orders
package formation

import (
	"context"
	"slices"

	"groupcmd/internal/command"
	"groupcmd/internal/geom"
	"groupcmd/internal/group"
	"groupcmd/internal/logging"
	"groupcmd/internal/ordering"
	"groupcmd/internal/terrain"
	"groupcmd/internal/unit"
)

// slot is a buffered move order waiting for its row to be mixed.
type slot struct {
	cmd command.Command
}

// bucket groups the units of a row that share an identical priority score.
type bucket struct {
	key    float64
	ids    []int
	placed int
}

// Scratch holds the buffers of one Place call. The zero value is ready to
// use; passing the same Scratch to successive calls reuses its storage.
type Scratch struct {
	pairs   []ordering.Pair
	row     []slot
	buckets []bucket
	mixed   []int
}

func (s *Scratch) reset() {
	s.pairs = s.pairs[:0]
	s.clearRow()
}

func (s *Scratch) clearRow() {
	s.row = s.row[:0]
	s.buckets = s.buckets[:0]
	s.mixed = s.mixed[:0]
}

// addToBucket files id under the bucket for score, keeping buckets sorted by key
// and ids in discovery order.
func (s *Scratch) addToBucket(score float64, id int) {
	i, found := slices.BinarySearchFunc(s.buckets, score, func(b bucket, k float64) int {
		switch {
		case b.key < k:
			return -1
		case b.key > k:
			return 1
		}
		return 0
	})
	if found {
		s.buckets[i].ids = append(s.buckets[i].ids, id)
		return
	}
	s.buckets = slices.Insert(s.buckets, i, bucket{key: score, ids: []int{id}})
}

// mix assigns a unit to each of n row positions, always drawing from the
// non-exhausted bucket with the lowest fill ratio (placed+0.5)/size. Ties go
// to the lower index.
func mix(buckets []bucket, n int, dst []int) []int {
	for a := 0; a < n; a++ {
		best := -1
		for b := range buckets {
			if buckets[b].placed >= len(buckets[b].ids) {
				continue
			}
			if best < 0 || lowerFill(buckets[b], buckets[best]) {
				best = b
			}
		}
		if best < 0 {
			break
		}
		dst = append(dst, buckets[best].ids[buckets[best].placed])
		buckets[best].placed++
	}
	return dst
}

// lowerFill reports (placed_a+0.5)/size_a < (placed_b+0.5)/size_b without division.
func lowerFill(a, b bucket) bool {
	return (2*a.placed+1)*len(b.ids) < (2*b.placed+1)*len(a.ids)
}

// Result describes what a Place call emitted.
type Result struct {
	Degenerate bool
	Rows       int
	Orders     int
}

// Engine turns a front-line order into per-unit move orders.
type Engine struct {
	reg     unit.Registry
	heights terrain.Heightmap
}

// NewEngine creates an engine submitting to reg. heights may be nil for flat ground at 0.
func NewEngine(reg unit.Registry, heights terrain.Heightmap) *Engine {
	return &Engine{reg: reg, heights: heights}
}

// Place lays out the selection along the front given by c (center at params
// 0..2, right edge at 3..5) and submits one order per unit. m must have been
// calculated over the same selection.
func (e *Engine) Place(ctx context.Context, s *Scratch, c command.Command, selection []int, m group.Metrics) Result {
	log := logging.FromContext(ctx)
	if s == nil {
		s = &Scratch{}
	}
	s.reset()
	defer s.reset()

	center, right := c.Pos(0), c.Pos(3)
	if geom.Distance(center, right) < float64(len(selection)+frontSlack) {
		n := 0
		for _, id := range selection {
			if _, ok := e.reg.Unit(id); !ok {
				continue
			}
			e.reg.Submit(id, c, false)
			n++
		}
		log.Debug("front too short, plain order", "kind", c.Kind, "units", n)
		return Result{Degenerate: true, Orders: n}
	}

	lay := newLayout(center, right, len(selection), m.SumFootprint, m.AvgFootprint, e.heights)
	s.pairs = ordering.Units(s.pairs, e.reg, selection)

	var res Result
	var cur cursor
	for i, p := range s.pairs {
		u, ok := e.reg.Unit(p.ID)
		if !ok {
			continue
		}
		next, pos, _ := lay.advance(cur, u.Footprint())
		cur = next
		s.row = append(s.row, slot{cmd: command.New(c.Kind, c.Options, pos.X, pos.Y, pos.Z)})
		s.addToBucket(p.Score, p.ID)

		// lookahead: place the following unit without committing to see whether it wraps
		rowDone := true
		if i+1 < len(s.pairs) {
			if nu, ok := e.reg.Unit(s.pairs[i+1].ID); ok {
				_, _, rowDone = lay.advance(cur, nu.Footprint())
			}
		}
		if !rowDone {
			continue
		}

		s.mixed = mix(s.buckets, len(s.row), s.mixed)
		for a, id := range s.mixed {
			e.reg.Submit(id, s.row[a].cmd, false)
		}
		res.Rows++
		res.Orders += len(s.mixed)
		s.clearRow()
	}
	log.Debug("formation placed", "kind", c.Kind, "rows", res.Rows, "orders", res.Orders,
		"front_length", lay.frontLength, "extra_spacing", lay.extraSpacing)
	return res
}
