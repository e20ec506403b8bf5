package dispatch

import (
	"context"

	"groupcmd/internal/command"
	"groupcmd/internal/group"
	"groupcmd/internal/logging"
	"groupcmd/internal/ordering"
)

// findTargets runs the circle or box query an area attack describes.
func (d *Dispatcher) findTargets(p Player, c command.Command) []int {
	if len(c.Params) == 6 {
		return d.query.QueryBox(c.Pos(0), c.Pos(3), p.AllyTeam)
	}
	return d.query.QueryCircle(c.Pos(0), c.Params[3], p.AllyTeam)
}

// areaAttack expands an area attack into single-target attacks, or with the
// control modifier toggles queued attacks on every target.
func (d *Dispatcher) areaAttack(ctx context.Context, p Player, selection []int, c command.Command) {
	log := logging.FromContext(ctx)
	targets := d.findTargets(p, c)
	if len(targets) == 0 {
		log.Debug("area attack found no targets")
		return
	}

	if c.Options.Has(command.OptControl) {
		opts := c.Options | command.OptQueue
		for _, id := range selection {
			if _, ok := d.reg.Unit(id); !ok {
				continue
			}
			for _, t := range targets {
				d.reg.Submit(id, command.New(command.Attack, opts, float64(t)), true)
			}
		}
		log.Debug("toggled queued attacks", "targets", len(targets))
		return
	}

	queueing := c.Options.Has(command.OptQueue)
	center, ok := group.Center(d.reg, selection, queueing)
	if !ok {
		return
	}
	sorted := ordering.Targets(d.reg, targets, center)

	firstOpts := c.Options
	if !queueing {
		firstOpts &^= command.OptQueue
	}
	restOpts := c.Options | command.OptQueue

	for _, id := range selection {
		u, ok := d.reg.Unit(id)
		if !ok {
			continue
		}
		emitted := 0
		for _, t := range sorted {
			opts := restOpts
			if emitted == 0 {
				opts = firstOpts
			}
			attack := command.New(command.Attack, opts, float64(t.ID))
			// a queued duplicate would cancel the pending attack instead of adding one
			if queueing && u.HasQueued(attack) {
				continue
			}
			d.reg.Submit(id, attack, false)
			if emitted == 0 {
				d.matchSpeed(id, opts, u.MaxSpeed)
			}
			emitted++
		}
	}
	log.Debug("area attack expanded", "targets", len(sorted), "center", center)
}
