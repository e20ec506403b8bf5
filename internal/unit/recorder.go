package unit

import "groupcmd/internal/command"

// Order is one command handed to one unit.
type Order struct {
	UnitID  int             `json:"unit_id"`
	Command command.Command `json:"command"`
	Queued  bool            `json:"queued"`
}

// Sink receives every order passing through a Recorder.
type Sink interface {
	RecordOrder(Order)
}

// SliceSink collects orders in memory.
type SliceSink struct {
	Orders []Order
}

// RecordOrder implements Sink.
func (s *SliceSink) RecordOrder(o Order) {
	s.Orders = append(s.Orders, o)
}

// Recorder is a Registry that reports each submission to a sink before
// forwarding it.
type Recorder struct {
	Registry
	sink Sink
}

// NewRecorder wraps reg.
func NewRecorder(reg Registry, sink Sink) *Recorder {
	return &Recorder{Registry: reg, sink: sink}
}

// Submit implements Registry.
func (r *Recorder) Submit(id int, c command.Command, queued bool) {
	r.sink.RecordOrder(Order{UnitID: id, Command: c.Clone(), Queued: queued})
	r.Registry.Submit(id, c, queued)
}
