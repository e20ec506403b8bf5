// Group command dispatch: one raw player command in, per-unit commands out
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"

	"groupcmd/internal/command"
	"groupcmd/internal/formation"
	"groupcmd/internal/geom"
	"groupcmd/internal/group"
	"groupcmd/internal/logging"
	"groupcmd/internal/spatial"
	"groupcmd/internal/terrain"
	"groupcmd/internal/unit"
	"groupcmd/internal/waitcmd"
)

// areaRadiusEpsilon is the smallest radius that turns a 4-param attack into an area attack.
const areaRadiusEpsilon = 0.001

// ErrUnknownPlayer is returned for a dispatch on behalf of an unregistered player.
var ErrUnknownPlayer = errors.New("unknown player")

// noSpeedMatch lists kinds that never get a trailing speed command.
var noSpeedMatch = []command.Kind{
	command.Stop,
	command.Wait,
	command.SelfDestruct,
	command.FireState,
	command.MoveState,
	command.OnOff,
	command.Repeat,
}

func speedMatched(k command.Kind) bool {
	return !slices.Contains(noSpeedMatch, k)
}

// Player identifies who issues commands and which ally-team they see for.
type Player struct {
	ID       int `yaml:"id" json:"id"`
	Team     int `yaml:"team" json:"team"`
	AllyTeam int `yaml:"ally_team" json:"ally_team"`
}

// Dispatcher translates group commands into unit commands. It is not safe
// for concurrent use; callers serialize dispatches.
type Dispatcher struct {
	reg       unit.Registry
	query     spatial.Query
	formation *formation.Engine
	waits     waitcmd.Acknowledger
	local     int
	players   map[int]Player
	scratch   formation.Scratch
}

// New creates a dispatcher. waits may be nil when nobody tracks wait commands.
func New(reg unit.Registry, query spatial.Query, heights terrain.Heightmap, waits waitcmd.Acknowledger, localPlayer int, players []Player) *Dispatcher {
	d := &Dispatcher{
		reg:       reg,
		query:     query,
		formation: formation.NewEngine(reg, heights),
		waits:     waits,
		local:     localPlayer,
		players:   make(map[int]Player, len(players)),
	}
	for _, p := range players {
		d.players[p.ID] = p
	}
	return d
}

// Dispatch issues c on behalf of player to the selected units.
func (d *Dispatcher) Dispatch(ctx context.Context, player int, selection []int, c command.Command) error {
	log := logging.FromContext(ctx).With("player", player, "kind", c.Kind)
	p, ok := d.players[player]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownPlayer, player)
	}
	if err := c.Validate(); err != nil {
		return err
	}
	if len(selection) == 0 {
		log.Debug("empty selection")
		return nil
	}

	switch {
	case isAreaAttack(c):
		log.Debug("area attack", "units", len(selection))
		d.areaAttack(ctx, p, selection, c)
	case len(selection) == 1:
		d.single(ctx, player, selection[0], c)
	case isFrontMove(c):
		log.Debug("formation move", "units", len(selection))
		d.frontMove(ctx, selection, c)
	case c.Options.Has(command.OptControl) && isGroupMovable(c.Kind):
		log.Debug("group-relative move", "units", len(selection))
		d.groupRelative(ctx, selection, c)
	default:
		d.fanOut(ctx, player, selection, c)
	}
	return nil
}

func isAreaAttack(c command.Command) bool {
	if c.Kind != command.Attack {
		return false
	}
	return len(c.Params) == 6 || (len(c.Params) == 4 && c.Params[3] > areaRadiusEpsilon)
}

func isFrontMove(c command.Command) bool {
	switch {
	case (c.Kind == command.Move || c.Kind == command.Fight) && len(c.Params) == 6:
		return true
	case c.Kind == command.Move && len(c.Params) == 3 && c.Options.Has(command.OptAlt):
		return true
	}
	return false
}

func isGroupMovable(k command.Kind) bool {
	return k == command.Move || k == command.Patrol || k == command.Fight
}

func (d *Dispatcher) acknowledgeWait(player int, c command.Command) {
	if c.Kind == command.Wait && player == d.local && d.waits != nil {
		d.waits.Acknowledge(c)
	}
}

// matchSpeed submits a wanted-max-speed command when the unit accepts one.
func (d *Dispatcher) matchSpeed(id int, opts command.Options, speed float64) {
	if !d.reg.SupportsSpeedOverride(id) {
		return
	}
	d.reg.Submit(id, command.New(command.SetWantedMaxSpeed, opts, speed), false)
}

func (d *Dispatcher) single(ctx context.Context, player, id int, c command.Command) {
	u, ok := d.reg.Unit(id)
	if !ok {
		logging.FromContext(ctx).Debug("selected unit gone", "unit", id)
		return
	}
	d.reg.Submit(id, c, false)
	if speedMatched(c.Kind) {
		d.matchSpeed(id, c.Options, u.MaxSpeed)
	}
	d.acknowledgeWait(player, c)
}

func (d *Dispatcher) fanOut(ctx context.Context, player int, selection []int, c command.Command) {
	skipped := 0
	for _, id := range selection {
		u, ok := d.reg.Unit(id)
		if !ok {
			skipped++
			continue
		}
		d.reg.Submit(id, c, false)
		if speedMatched(c.Kind) {
			d.matchSpeed(id, c.Options, u.MaxSpeed)
		}
	}
	if skipped > 0 {
		logging.FromContext(ctx).Debug("skipped missing units", "count", skipped)
	}
	d.acknowledgeWait(player, c)
}

func (d *Dispatcher) frontMove(ctx context.Context, selection []int, c command.Command) {
	queueing := c.Options.Has(command.OptQueue)
	m := group.Calculate(d.reg, selection, queueing)
	if m.Empty() {
		return
	}
	if len(c.Params) == 3 {
		c = c.Clone()
		c.PushPos(syntheticRightEdge(c.Pos(0), m.Center, len(selection)))
	}

	d.formation.Place(ctx, &d.scratch, c, selection, m)

	groupSpeed := c.Options.Has(command.OptControl)
	for _, id := range selection {
		u, ok := d.reg.Unit(id)
		if !ok {
			continue
		}
		speed := u.MaxSpeed
		if groupSpeed {
			speed = m.MinMaxSpeed
		}
		d.matchSpeed(id, c.Options, speed)
	}
}

// syntheticRightEdge returns the right edge of a front centered on dest and
// perpendicular to the approach from center.
func syntheticRightEdge(dest, center geom.Vec3, n int) geom.Vec3 {
	frontDir := geom.Normalize(geom.Flat(geom.Sub(dest, center)))
	sideDir := geom.Cross(frontDir, geom.Up)
	length := 100 + float64(math.Sqrt(float64(n))*32)
	return geom.Add(dest, geom.Scale(sideDir, length))
}

func (d *Dispatcher) groupRelative(ctx context.Context, selection []int, c command.Command) {
	queueing := c.Options.Has(command.OptQueue)
	m := group.Calculate(d.reg, selection, queueing)
	if m.Empty() {
		return
	}
	groupSpeed := !c.Options.Has(command.OptAlt)
	dest := c.Pos(0)
	for _, id := range selection {
		u, ok := d.reg.Unit(id)
		if !ok {
			continue
		}
		offset := geom.Sub(group.ReferencePos(u, queueing), m.Center)
		uc := c.Clone()
		uc.SetPos(0, geom.Add(dest, offset))
		d.reg.Submit(id, uc, false)

		speed := u.MaxSpeed
		if groupSpeed {
			speed = m.MinMaxSpeed
		}
		d.matchSpeed(id, c.Options, speed)
	}
	logging.FromContext(ctx).Debug("group-relative orders issued", "center", m.Center, "units", m.Count)
}
