// YAML scenario loader with CUE validation integration
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"groupcmd/internal/command"
	"groupcmd/internal/dispatch"
	"groupcmd/internal/geom"
	"groupcmd/internal/terrain"
	"groupcmd/internal/unit"
)

// ErrUnknownUnit is returned when a selection or script step names a unit the scenario does not define.
var ErrUnknownUnit = errors.New("unknown unit")

// Terrain describes the ground. Kind is "flat" or "grid".
type Terrain struct {
	Kind    string    `yaml:"kind" json:"kind"`
	Height  float64   `yaml:"height"`
	Width   int       `yaml:"width"`
	Depth   int       `yaml:"depth"`
	Spacing float64   `yaml:"spacing"`
	Heights []float64 `yaml:"heights"`
}

// Sighting grants an ally-team a view of a unit.
type Sighting struct {
	AllyTeam int    `yaml:"ally_team"`
	State    string `yaml:"state"`
}

// UnitSpec defines one unit of the scenario.
type UnitSpec struct {
	ID             int        `yaml:"id"`
	Name           string     `yaml:"name"`
	Team           int        `yaml:"team"`
	AllyTeam       int        `yaml:"ally_team"`
	Profile        string     `yaml:"profile"`
	Pos            geom.Vec3  `yaml:"pos"`
	XSize          int        `yaml:"x_size"`
	ZSize          int        `yaml:"z_size"`
	Mobile         bool       `yaml:"mobile"`
	MaxSpeed       float64    `yaml:"max_speed"`
	DefMaxSpeed    float64    `yaml:"def_max_speed"`
	MetalCost      float64    `yaml:"metal_cost"`
	EnergyCost     float64    `yaml:"energy_cost"`
	Health         float64    `yaml:"health"`
	MaxWeaponRange float64    `yaml:"max_weapon_range"`
	VisibleTo      []Sighting `yaml:"visible_to"`
}

// Selection is the initial selection of a player.
type Selection struct {
	Player int   `yaml:"player" json:"player"`
	Units  []int `yaml:"units" json:"units"`
}

// Step is one scripted command. Units, when set, replaces the player's selection first.
type Step struct {
	Player  int       `yaml:"player" json:"player"`
	Kind    string    `yaml:"kind" json:"kind"`
	Params  []float64 `yaml:"params" json:"params"`
	Options []string  `yaml:"options" json:"options"`
	Units   []int     `yaml:"units" json:"units"`
}

// Command converts the step into a command value.
func (s Step) Command() (command.Command, error) {
	k, err := command.ParseKind(s.Kind)
	if err != nil {
		return command.Command{}, err
	}
	opts, err := command.ParseOptions(s.Options)
	if err != nil {
		return command.Command{}, err
	}
	return command.New(k, opts, slices.Clone(s.Params)...), nil
}

// Scenario is the root configuration: who plays, what stands where, and what gets ordered.
type Scenario struct {
	LocalPlayer int               `yaml:"local_player"`
	Players     []dispatch.Player `yaml:"players"`
	Terrain     Terrain           `yaml:"terrain"`
	Units       []UnitSpec        `yaml:"units"`
	Selections  []Selection       `yaml:"selections"`
	Commands    []Step            `yaml:"commands"`
}

// Load loads a YAML scenario and validates it against a CUE schema.
func Load(configPath, cueSchemaPath string) (*Scenario, error) {
	if err := ValidateWithCue(configPath, cueSchemaPath); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, err
	}
	slog.Debug("loaded scenario", "path", configPath, "units", len(sc.Units), "steps", len(sc.Commands))
	return sc, nil
}

// Parse decodes a scenario without schema validation.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("cannot unmarshal scenario: %w", err)
	}
	return &sc, nil
}

// World is a scenario materialized for dispatching.
type World struct {
	Store      *unit.Store
	Heights    terrain.Heightmap
	Players    []dispatch.Player
	Local      int
	Selections map[int][]int
}

// Build creates the unit store, terrain and selections a scenario describes.
func (sc *Scenario) Build() (*World, error) {
	heights, err := sc.Terrain.heightmap()
	if err != nil {
		return nil, fmt.Errorf("terrain: %w", err)
	}
	store := unit.NewStore()
	for _, spec := range sc.Units {
		u, err := spec.unit()
		if err != nil {
			return nil, fmt.Errorf("unit %d: %w", spec.ID, err)
		}
		if err := store.Add(u); err != nil {
			return nil, err
		}
	}
	w := &World{
		Store:      store,
		Heights:    heights,
		Players:    slices.Clone(sc.Players),
		Local:      sc.LocalPlayer,
		Selections: make(map[int][]int),
	}
	for _, sel := range sc.Selections {
		if err := checkUnits(store, sel.Units); err != nil {
			return nil, fmt.Errorf("selection of player %d: %w", sel.Player, err)
		}
		w.Selections[sel.Player] = slices.Clone(sel.Units)
	}
	for i, st := range sc.Commands {
		if _, err := st.Command(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		if err := checkUnits(store, st.Units); err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
	}
	return w, nil
}

func checkUnits(store *unit.Store, ids []int) error {
	for _, id := range ids {
		if _, ok := store.Unit(id); !ok {
			return fmt.Errorf("%w: %d", ErrUnknownUnit, id)
		}
	}
	return nil
}

func (t Terrain) heightmap() (terrain.Heightmap, error) {
	switch t.Kind {
	case "", "flat":
		return terrain.Flat(t.Height), nil
	case "grid":
		return terrain.NewGrid(t.Width, t.Depth, t.Spacing, slices.Clone(t.Heights))
	}
	return nil, fmt.Errorf("unknown terrain kind %q", t.Kind)
}

func (s UnitSpec) unit() (*unit.Unit, error) {
	profile, err := unit.ParseProfile(s.Profile)
	if err != nil {
		return nil, err
	}
	u := &unit.Unit{
		ID:             s.ID,
		Name:           s.Name,
		Team:           s.Team,
		AllyTeam:       s.AllyTeam,
		Profile:        profile,
		Pos:            s.Pos,
		XSize:          s.XSize,
		ZSize:          s.ZSize,
		Mobile:         s.Mobile,
		MaxSpeed:       s.MaxSpeed,
		DefMaxSpeed:    s.DefMaxSpeed,
		WantedMaxSpeed: s.MaxSpeed,
		MetalCost:      s.MetalCost,
		EnergyCost:     s.EnergyCost,
		Health:         s.Health,
		MaxWeaponRange: s.MaxWeaponRange,
	}
	if u.DefMaxSpeed == 0 {
		u.DefMaxSpeed = u.MaxSpeed
	}
	if len(s.VisibleTo) > 0 {
		u.Visibility = make(map[int]unit.Visibility, len(s.VisibleTo))
		for _, v := range s.VisibleTo {
			vis, err := unit.ParseVisibility(v.State)
			if err != nil {
				return nil, err
			}
			u.Visibility[v.AllyTeam] = vis
		}
	}
	return u, nil
}
