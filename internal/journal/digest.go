package journal

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"

	"groupcmd/internal/unit"
)

// Digest accumulates a hash over an order sequence. Two participants that
// emitted the same orders in the same sequence end with the same sum.
type Digest struct {
	h   *xxhash.Digest
	buf []byte
	n   int
}

// NewDigest returns an empty digest.
func NewDigest() *Digest {
	return &Digest{h: xxhash.New()}
}

// Add folds one order into the digest.
func (d *Digest) Add(o unit.Order) {
	b := d.buf[:0]
	b = binary.LittleEndian.AppendUint64(b, uint64(int64(o.UnitID)))
	b = binary.LittleEndian.AppendUint32(b, uint32(int32(o.Command.Kind)))
	b = append(b, byte(o.Command.Options))
	if o.Queued {
		b = append(b, 1)
	} else {
		b = append(b, 0)
	}
	b = binary.LittleEndian.AppendUint32(b, uint32(len(o.Command.Params)))
	for _, p := range o.Command.Params {
		b = binary.LittleEndian.AppendUint64(b, math.Float64bits(p))
	}
	d.buf = b
	_, _ = d.h.Write(b)
	d.n++
}

// Sum64 returns the current hash.
func (d *Digest) Sum64() uint64 { return d.h.Sum64() }

// Count returns how many orders were added.
func (d *Digest) Count() int { return d.n }

// DigestOrders hashes a complete order sequence.
func DigestOrders(orders []unit.Order) uint64 {
	d := NewDigest()
	for _, o := range orders {
		d.Add(o)
	}
	return d.Sum64()
}
