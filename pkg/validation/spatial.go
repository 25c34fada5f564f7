package validation

import (
	"fmt"

	"github.com/Benkess/CrossSim/pkg/world"
)

// ValidateEnvironment performs spatial validation on a built environment.
// Placement problems are reported as warnings: a scenario with an agent
// parked inside a wall still loads, edits, and saves.
func ValidateEnvironment(env *world.Environment) *Report {
	r := NewReport()
	bounds := env.Bounds()

	for _, id := range sortedKeys(env.Walls) {
		w := env.Walls[id]
		if !bounds.Contains(w.Start) || !bounds.Contains(w.End) {
			r.AddWarning(Result{
				Level:     LevelSpatial,
				Message:   fmt.Sprintf("wall %q extends outside the environment bounds", id),
				FieldPath: fmt.Sprintf("walls.%s", id),
			})
		}
	}

	for _, id := range sortedKeys(env.Obstacles) {
		o := env.Obstacles[id]
		if !bounds.Contains(o.Position) {
			r.AddWarning(Result{
				Level:       LevelSpatial,
				Message:     fmt.Sprintf("obstacle %q center lies outside the environment bounds", id),
				FieldPath:   fmt.Sprintf("static_obstacles.%s", id),
				ActualValue: fmt.Sprintf("(%g, %g)", o.Position.X, o.Position.Y),
			})
		}
	}

	for _, id := range sortedKeys(env.Landmarks) {
		l := env.Landmarks[id]
		if !bounds.Contains(l.Position) {
			r.AddInfo(Result{
				Level:     LevelSpatial,
				Message:   fmt.Sprintf("landmark %q lies outside the environment bounds", id),
				FieldPath: fmt.Sprintf("landmarks.%s", id),
			})
		}
	}

	if env.Grid != nil && len(env.FreeSpace()) == 0 {
		r.AddWarning(Result{
			Level:     LevelSpatial,
			Message:   "occupancy grid has no free cells",
			FieldPath: "occupancy_grid",
		})
	}

	return r
}
