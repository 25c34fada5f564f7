package agent

import (
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"
)

// Agent is one dynamic entity in a scenario. Fields are exported for
// direct manipulation by editors; the methods cover the operations with
// invariants attached (goal ordering, cursor clamping).
type Agent struct {
	ID               string
	Name             string
	Type             Type
	Position         Position
	Velocity         Velocity
	Size             Size
	Mass             float64
	Behavior         Behavior
	SpeedLimits      SpeedLimits
	PersonalSpace    float64
	Goals            []Goal
	CurrentGoalIndex int
	Color            string
	Visible          bool
	Active           bool
	Metadata         map[string]any
}

// New creates an agent with generated identity and standard defaults.
// An empty id is replaced with a fresh UUID; the default name embeds the
// type and a short id prefix so new entities are distinguishable in lists.
func New(id string, typ Type) *Agent {
	if id == "" {
		id = uuid.NewString()
	}
	return &Agent{
		ID:            id,
		Name:          fmt.Sprintf("%s_%s", typ, shortID(id)),
		Type:          typ,
		Size:          DefaultSize(),
		Mass:          70.0,
		Behavior:      BehaviorStatic,
		SpeedLimits:   DefaultSpeedLimits(),
		PersonalSpace: 0.5,
		Color:         "blue",
		Visible:       true,
		Active:        true,
		Metadata:      map[string]any{},
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// SetPosition moves the agent, keeping its heading.
func (a *Agent) SetPosition(x, y float64) {
	a.Position.X = x
	a.Position.Y = y
}

// SetVelocity replaces all velocity components.
func (a *Agent) SetVelocity(vx, vy, angular float64) {
	a.Velocity = Velocity{VX: vx, VY: vy, Angular: angular}
}

// AddGoal appends a navigation goal and re-sorts the list by descending
// priority. The sort is stable, so goals sharing a priority keep their
// insertion order. Returns the generated goal id.
func (a *Agent) AddGoal(x, y, radius float64, priority int) string {
	g := Goal{
		ID:       uuid.NewString(),
		Position: Position{X: x, Y: y},
		Radius:   radius,
		Priority: priority,
	}
	a.Goals = append(a.Goals, g)
	sort.SliceStable(a.Goals, func(i, j int) bool {
		return a.Goals[i].Priority > a.Goals[j].Priority
	})
	return g.ID
}

// RemoveGoal deletes the goal with the given id and reports whether it
// was present. If the cursor falls off the end of the shrunken list it is
// clamped to the last goal (or zero when the list empties).
func (a *Agent) RemoveGoal(id string) bool {
	for i, g := range a.Goals {
		if g.ID == id {
			a.Goals = append(a.Goals[:i], a.Goals[i+1:]...)
			if a.CurrentGoalIndex >= len(a.Goals) {
				a.CurrentGoalIndex = len(a.Goals) - 1
				if a.CurrentGoalIndex < 0 {
					a.CurrentGoalIndex = 0
				}
			}
			return true
		}
	}
	return false
}

// CurrentGoal returns the goal under the cursor, or nil when the agent
// has no goals or the cursor is out of range. The pointer aliases the
// slice and is valid until the next goal mutation.
func (a *Agent) CurrentGoal() *Goal {
	if a.CurrentGoalIndex < 0 || a.CurrentGoalIndex >= len(a.Goals) {
		return nil
	}
	return &a.Goals[a.CurrentGoalIndex]
}

// DistanceToGoal returns the planar distance to the current goal. The
// second result is false when there is no current goal.
func (a *Agent) DistanceToGoal() (float64, bool) {
	g := a.CurrentGoal()
	if g == nil {
		return 0, false
	}
	dx := g.Position.X - a.Position.X
	dy := g.Position.Y - a.Position.Y
	return math.Hypot(dx, dy), true
}

// AtGoal reports whether the agent sits within the current goal's radius.
func (a *Agent) AtGoal() bool {
	d, ok := a.DistanceToGoal()
	if !ok {
		return false
	}
	g := a.CurrentGoal()
	return d <= g.Radius
}

// AdvanceToNextGoal marks the current goal reached and moves the cursor
// forward. It reports whether a next goal existed; the reached flag is
// set even when the cursor stays on the final goal.
func (a *Agent) AdvanceToNextGoal() bool {
	if g := a.CurrentGoal(); g != nil {
		g.Reached = true
	}
	if a.CurrentGoalIndex < len(a.Goals)-1 {
		a.CurrentGoalIndex++
		return true
	}
	return false
}
