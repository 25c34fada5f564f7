// Package scenario holds the aggregate a scenario editor operates on:
// metadata, environment and simulation configuration, and the id-keyed
// entity collections. Every mutation flips a dirty flag so shells can
// prompt before discarding unsaved work.
package scenario

import (
	"fmt"
	"strings"
	"time"

	"github.com/Benkess/CrossSim/pkg/agent"
	"github.com/Benkess/CrossSim/pkg/dict"
	"github.com/Benkess/CrossSim/pkg/validation"
)

// Scenario is a complete simulation setup: everything needed to lay out,
// validate, and hand a scene to a simulator.
type Scenario struct {
	Metadata          Metadata
	EnvironmentConfig EnvironmentConfig
	SimulationConfig  SimulationConfig

	Agents        map[string]*agent.Agent
	Robots        map[string]*agent.Robot
	StaticObjects map[string]*agent.Agent
	Goals         map[string]*agent.Goal

	environmentData map[string]any
	filePath        string
	modified        bool
}

// New creates an empty scenario and stamps its creation time. An empty
// name falls back to "New Scenario".
func New(name string) *Scenario {
	if name == "" {
		name = "New Scenario"
	}
	return &Scenario{
		Metadata: Metadata{
			Name:      name,
			Version:   "1.0.0",
			CreatedAt: time.Now().UTC().Format(time.RFC3339),
		},
		EnvironmentConfig: DefaultEnvironmentConfig(),
		SimulationConfig:  DefaultSimulationConfig(),
		Agents:            map[string]*agent.Agent{},
		Robots:            map[string]*agent.Robot{},
		StaticObjects:     map[string]*agent.Agent{},
		Goals:             map[string]*agent.Goal{},
		environmentData:   map[string]any{},
	}
}

// Name returns the scenario name.
func (s *Scenario) Name() string { return s.Metadata.Name }

// SetName renames the scenario.
func (s *Scenario) SetName(name string) {
	s.Metadata.Name = name
	s.modified = true
}

// Description returns the scenario description.
func (s *Scenario) Description() string { return s.Metadata.Description }

// SetDescription updates the scenario description.
func (s *Scenario) SetDescription(desc string) {
	s.Metadata.Description = desc
	s.modified = true
}

// SetAuthor updates the scenario author.
func (s *Scenario) SetAuthor(author string) {
	s.Metadata.Author = author
	s.modified = true
}

// SetVersion updates the scenario version string.
func (s *Scenario) SetVersion(version string) {
	s.Metadata.Version = version
	s.modified = true
}

// SetTags replaces the scenario tags.
func (s *Scenario) SetTags(tags []string) {
	s.Metadata.Tags = tags
	s.modified = true
}

// Modified reports whether the scenario changed since the last save or
// load.
func (s *Scenario) Modified() bool { return s.modified }

// FilePath returns the path the scenario was last saved to or loaded
// from, or empty for a scenario that never touched disk.
func (s *Scenario) FilePath() string { return s.filePath }

// AddAgent stores an agent under its own id, replacing any previous
// entry.
func (s *Scenario) AddAgent(a *agent.Agent) {
	s.Agents[a.ID] = a
	s.modified = true
}

// RemoveAgent deletes an agent and reports whether it was present.
func (s *Scenario) RemoveAgent(id string) bool {
	if _, ok := s.Agents[id]; !ok {
		return false
	}
	delete(s.Agents, id)
	s.modified = true
	return true
}

// Agent returns the agent with the given id.
func (s *Scenario) Agent(id string) (*agent.Agent, bool) {
	a, ok := s.Agents[id]
	return a, ok
}

// AddRobot stores a robot under its own id, replacing any previous entry.
func (s *Scenario) AddRobot(r *agent.Robot) {
	s.Robots[r.ID] = r
	s.modified = true
}

// RemoveRobot deletes a robot and reports whether it was present.
func (s *Scenario) RemoveRobot(id string) bool {
	if _, ok := s.Robots[id]; !ok {
		return false
	}
	delete(s.Robots, id)
	s.modified = true
	return true
}

// Robot returns the robot with the given id.
func (s *Scenario) Robot(id string) (*agent.Robot, bool) {
	r, ok := s.Robots[id]
	return r, ok
}

// AddStaticObject stores a static object under its own id.
func (s *Scenario) AddStaticObject(obj *agent.Agent) {
	s.StaticObjects[obj.ID] = obj
	s.modified = true
}

// RemoveStaticObject deletes a static object and reports whether it was
// present.
func (s *Scenario) RemoveStaticObject(id string) bool {
	if _, ok := s.StaticObjects[id]; !ok {
		return false
	}
	delete(s.StaticObjects, id)
	s.modified = true
	return true
}

// StaticObject returns the static object with the given id.
func (s *Scenario) StaticObject(id string) (*agent.Agent, bool) {
	obj, ok := s.StaticObjects[id]
	return obj, ok
}

// AddGoal stores a scenario-level goal under its own id.
func (s *Scenario) AddGoal(g *agent.Goal) {
	s.Goals[g.ID] = g
	s.modified = true
}

// RemoveGoal deletes a scenario-level goal and reports whether it was
// present.
func (s *Scenario) RemoveGoal(id string) bool {
	if _, ok := s.Goals[id]; !ok {
		return false
	}
	delete(s.Goals, id)
	s.modified = true
	return true
}

// Goal returns the scenario-level goal with the given id.
func (s *Scenario) Goal(id string) (*agent.Goal, bool) {
	g, ok := s.Goals[id]
	return g, ok
}

// SetEnvironmentData replaces the free-form environment layout document.
// The document is copied so later caller mutations don't bypass the
// dirty flag.
func (s *Scenario) SetEnvironmentData(data map[string]any) {
	s.environmentData = dict.Clone(data)
	if s.environmentData == nil {
		s.environmentData = map[string]any{}
	}
	s.modified = true
}

// EnvironmentData returns a copy of the environment layout document.
func (s *Scenario) EnvironmentData() map[string]any {
	return dict.Clone(s.environmentData)
}

// Validate collects every configuration violation. The report is valid
// exactly when the error list is empty; it never stops at the first
// problem.
func (s *Scenario) Validate() *validation.Report {
	r := validation.NewReport()

	if strings.TrimSpace(s.Metadata.Name) == "" {
		r.AddError(validation.Result{
			Level:     validation.LevelSchema,
			Message:   "Scenario name is required",
			FieldPath: "metadata.name",
		})
	}
	if s.EnvironmentConfig.Size.Width <= 0 {
		r.AddError(validation.Result{
			Level:       validation.LevelSchema,
			Message:     "Environment width must be positive",
			FieldPath:   "environment_config.size.width",
			ActualValue: s.EnvironmentConfig.Size.Width,
			Expected:    "> 0",
		})
	}
	if s.EnvironmentConfig.Size.Height <= 0 {
		r.AddError(validation.Result{
			Level:       validation.LevelSchema,
			Message:     "Environment height must be positive",
			FieldPath:   "environment_config.size.height",
			ActualValue: s.EnvironmentConfig.Size.Height,
			Expected:    "> 0",
		})
	}
	if s.EnvironmentConfig.Resolution <= 0 {
		r.AddError(validation.Result{
			Level:       validation.LevelSchema,
			Message:     "Environment resolution must be positive",
			FieldPath:   "environment_config.resolution",
			ActualValue: s.EnvironmentConfig.Resolution,
			Expected:    "> 0",
		})
	}
	if s.SimulationConfig.TimeStep <= 0 {
		r.AddError(validation.Result{
			Level:       validation.LevelSchema,
			Message:     "Time step must be positive",
			FieldPath:   "simulation_config.time_step",
			ActualValue: s.SimulationConfig.TimeStep,
			Expected:    "> 0",
		})
	}
	if s.SimulationConfig.Duration <= 0 {
		r.AddError(validation.Result{
			Level:       validation.LevelSchema,
			Message:     "Simulation duration must be positive",
			FieldPath:   "simulation_config.duration",
			ActualValue: s.SimulationConfig.Duration,
			Expected:    "> 0",
		})
	}

	return r
}

// Summary returns the read-only digest shells show in listings and
// status bars.
func (s *Scenario) Summary() map[string]any {
	var filePath any
	if s.filePath != "" {
		filePath = s.filePath
	}
	return map[string]any{
		"name":                s.Metadata.Name,
		"description":         s.Metadata.Description,
		"agent_count":         len(s.Agents),
		"robot_count":         len(s.Robots),
		"static_object_count": len(s.StaticObjects),
		"goal_count":          len(s.Goals),
		"environment_size": fmt.Sprintf("%gx%gm",
			s.EnvironmentConfig.Size.Width, s.EnvironmentConfig.Size.Height),
		"simulation_duration": fmt.Sprintf("%gs", s.SimulationConfig.Duration),
		"is_modified":         s.modified,
		"file_path":           filePath,
	}
}
