package agent

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/Benkess/CrossSim/pkg/dict"
)

// ToMap renders the agent as a plain document for YAML or JSON encoding.
func (a *Agent) ToMap() map[string]any {
	goals := make([]any, 0, len(a.Goals))
	for _, g := range a.Goals {
		goals = append(goals, g.ToMap())
	}
	metadata := a.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	return map[string]any{
		"id":       a.ID,
		"type":     string(a.Type),
		"name":     a.Name,
		"position": positionDoc(a.Position),
		"velocity": map[string]any{
			"vx":      a.Velocity.VX,
			"vy":      a.Velocity.VY,
			"angular": a.Velocity.Angular,
		},
		"size":          sizeDoc(a.Size),
		"mass":          a.Mass,
		"behavior_type": string(a.Behavior),
		"speed_limits": map[string]any{
			"min_speed":        a.SpeedLimits.Min,
			"max_speed":        a.SpeedLimits.Max,
			"preferred_speed":  a.SpeedLimits.Preferred,
			"max_acceleration": a.SpeedLimits.MaxAcceleration,
			"max_deceleration": a.SpeedLimits.MaxDeceleration,
		},
		"personal_space":     a.PersonalSpace,
		"goals":              goals,
		"current_goal_index": a.CurrentGoalIndex,
		"color":              a.Color,
		"visible":            a.Visible,
		"is_active":          a.Active,
		"metadata":           metadata,
	}
}

// ToMap renders the robot as a plain document: the agent document plus
// the robot extension fields.
func (r *Robot) ToMap() map[string]any {
	doc := r.Agent.ToMap()
	doc["robot_model"] = r.Model
	doc["sensors"] = devicesDoc(r.Sensors)
	doc["actuators"] = devicesDoc(r.Actuators)
	doc["control_mode"] = string(r.ControlMode)
	doc["has_mapping"] = r.HasMapping
	doc["has_localization"] = r.HasLocalization
	doc["has_path_planning"] = r.HasPathPlanning
	doc["emergency_stop"] = r.EmergencyStop
	doc["safety_radius"] = r.SafetyRadius
	doc["max_safe_speed"] = r.MaxSafeSpeed
	return doc
}

// FromMap builds an agent from a decoded document. Missing fields fall
// back to constructor defaults; enum tags outside their closed sets are
// rejected. Goals keep the order they appear in the document.
func FromMap(m map[string]any) (*Agent, error) {
	typ, err := ParseType(dict.Str(m, "type", string(TypePedestrian)))
	if err != nil {
		return nil, err
	}
	a := New(dict.Str(m, "id", ""), typ)
	a.Name = dict.Str(m, "name", a.Name)
	a.Position = positionFrom(dict.Map(m, "position"))
	a.Velocity = velocityFrom(dict.Map(m, "velocity"))
	a.Size = sizeFrom(dict.Map(m, "size"))
	a.Mass = dict.Float(m, "mass", 70.0)

	behavior, err := ParseBehavior(dict.Str(m, "behavior_type", string(BehaviorStatic)))
	if err != nil {
		return nil, err
	}
	a.Behavior = behavior

	a.SpeedLimits = speedLimitsFrom(dict.Map(m, "speed_limits"))
	a.PersonalSpace = dict.Float(m, "personal_space", 0.5)

	for i, raw := range dict.Slice(m, "goals") {
		gm, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("goal %d: not a mapping", i)
		}
		a.Goals = append(a.Goals, GoalFromMap(gm))
	}
	a.CurrentGoalIndex = dict.Int(m, "current_goal_index", 0)
	a.Color = dict.Str(m, "color", "blue")
	a.Visible = dict.Bool(m, "visible", true)
	a.Active = dict.Bool(m, "is_active", true)
	if md := dict.Map(m, "metadata"); md != nil {
		a.Metadata = md
	}
	return a, nil
}

// RobotFromMap builds a robot from a decoded document. The base agent
// fields load first; the entity type is forced to robot regardless of
// the document's tag.
func RobotFromMap(m map[string]any) (*Robot, error) {
	base, err := FromMap(m)
	if err != nil {
		return nil, err
	}
	r := NewRobot(base.ID)
	r.Agent = *base
	r.Agent.Type = TypeRobot

	r.Model = dict.Str(m, "robot_model", "generic")
	if r.Sensors, err = devicesFrom(dict.Map(m, "sensors"), "sensor"); err != nil {
		return nil, err
	}
	if r.Actuators, err = devicesFrom(dict.Map(m, "actuators"), "actuator"); err != nil {
		return nil, err
	}

	mode, err := ParseControlMode(dict.Str(m, "control_mode", string(ControlManual)))
	if err != nil {
		return nil, err
	}
	r.ControlMode = mode

	r.HasMapping = dict.Bool(m, "has_mapping", true)
	r.HasLocalization = dict.Bool(m, "has_localization", true)
	r.HasPathPlanning = dict.Bool(m, "has_path_planning", true)
	r.EmergencyStop = dict.Bool(m, "emergency_stop", false)
	r.SafetyRadius = dict.Float(m, "safety_radius", 0.3)
	r.MaxSafeSpeed = dict.Float(m, "max_safe_speed", 1.0)
	return r, nil
}

func positionDoc(p Position) map[string]any {
	return map[string]any{"x": p.X, "y": p.Y, "theta": p.Theta}
}

func positionFrom(m map[string]any) Position {
	return Position{
		X:     dict.Float(m, "x", 0),
		Y:     dict.Float(m, "y", 0),
		Theta: dict.Float(m, "theta", 0),
	}
}

func velocityFrom(m map[string]any) Velocity {
	return Velocity{
		VX:      dict.Float(m, "vx", 0),
		VY:      dict.Float(m, "vy", 0),
		Angular: dict.Float(m, "angular", 0),
	}
}

func sizeDoc(s Size) map[string]any {
	var radius any
	if s.Radius != nil {
		radius = *s.Radius
	}
	return map[string]any{"width": s.Width, "height": s.Height, "radius": radius}
}

func sizeFrom(m map[string]any) Size {
	s := Size{
		Width:  dict.Float(m, "width", 0.5),
		Height: dict.Float(m, "height", 0.5),
	}
	if v, ok := m["radius"]; ok && v != nil {
		if r, ok := dict.AsFloat(v); ok {
			s.Radius = &r
		}
	}
	return s
}

func speedLimitsFrom(m map[string]any) SpeedLimits {
	return SpeedLimits{
		Min:             dict.Float(m, "min_speed", 0.0),
		Max:             dict.Float(m, "max_speed", 2.0),
		Preferred:       dict.Float(m, "preferred_speed", 1.0),
		MaxAcceleration: dict.Float(m, "max_acceleration", 1.0),
		MaxDeceleration: dict.Float(m, "max_deceleration", 2.0),
	}
}

// ToMap renders the goal as a plain document.
func (g Goal) ToMap() map[string]any {
	return map[string]any{
		"id":       g.ID,
		"position": positionDoc(g.Position),
		"radius":   g.Radius,
		"priority": g.Priority,
		"reached":  g.Reached,
	}
}

// GoalFromMap builds a goal from a decoded document, generating an id
// when the document carries none.
func GoalFromMap(m map[string]any) Goal {
	id := dict.Str(m, "id", "")
	if id == "" {
		id = uuid.NewString()
	}
	return Goal{
		ID:       id,
		Position: positionFrom(dict.Map(m, "position")),
		Radius:   dict.Float(m, "radius", 0.5),
		Priority: dict.Int(m, "priority", 1),
		Reached:  dict.Bool(m, "reached", false),
	}
}

func devicesDoc(devices map[string]Device) map[string]any {
	doc := map[string]any{}
	for id, d := range devices {
		props := d.Properties
		if props == nil {
			props = map[string]any{}
		}
		doc[id] = map[string]any{
			"type":       d.Type,
			"properties": props,
			"active":     d.Active,
		}
	}
	return doc
}

func devicesFrom(m map[string]any, kind string) (map[string]Device, error) {
	devices := map[string]Device{}
	for id, raw := range m {
		dm, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s %q: not a mapping", kind, id)
		}
		props := dict.Map(dm, "properties")
		if props == nil {
			props = map[string]any{}
		}
		devices[id] = Device{
			Type:       dict.Str(dm, "type", ""),
			Properties: props,
			Active:     dict.Bool(dm, "active", true),
		}
	}
	return devices, nil
}
