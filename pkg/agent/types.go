// Package agent models the dynamic entities of a scenario: pedestrians,
// vehicles, robots, and static objects, together with their kinematic
// state, physical size, behavior parameters, and prioritized goal lists.
// A Robot is an Agent plus sensor/actuator records and safety state; its
// document form is a strict superset of the agent's.
package agent

import (
	"errors"
	"fmt"
)

// Type tags the kind of entity. The set is closed; persisted values
// outside it are rejected at parse time.
type Type string

const (
	TypePedestrian   Type = "pedestrian"
	TypeRobot        Type = "robot"
	TypeVehicle      Type = "vehicle"
	TypeStaticObject Type = "static_object"
)

// ErrUnknownType reports an agent type outside the closed set.
var ErrUnknownType = errors.New("unknown agent type")

// ParseType validates an agent type tag.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypePedestrian, TypeRobot, TypeVehicle, TypeStaticObject:
		return Type(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
}

// Behavior tags how an entity moves during simulation.
type Behavior string

const (
	BehaviorStatic            Behavior = "static"
	BehaviorRandomWalk        Behavior = "random_walk"
	BehaviorWaypointFollowing Behavior = "waypoint_following"
	BehaviorSocialForce       Behavior = "social_force"
	BehaviorORCA              Behavior = "orca"
	BehaviorCustom            Behavior = "custom"
)

// ErrUnknownBehavior reports a behavior tag outside the closed set.
var ErrUnknownBehavior = errors.New("unknown behavior")

// ParseBehavior validates a behavior tag.
func ParseBehavior(s string) (Behavior, error) {
	switch Behavior(s) {
	case BehaviorStatic, BehaviorRandomWalk, BehaviorWaypointFollowing,
		BehaviorSocialForce, BehaviorORCA, BehaviorCustom:
		return Behavior(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBehavior, s)
}

// ControlMode selects who drives a robot.
type ControlMode string

const (
	ControlManual     ControlMode = "manual"
	ControlAutonomous ControlMode = "autonomous"
	ControlTeleop     ControlMode = "teleop"
)

// ErrInvalidControlMode reports a control mode outside the closed set.
var ErrInvalidControlMode = errors.New("invalid control mode")

// ParseControlMode validates a control mode tag.
func ParseControlMode(s string) (ControlMode, error) {
	switch ControlMode(s) {
	case ControlManual, ControlAutonomous, ControlTeleop:
		return ControlMode(s), nil
	}
	return "", fmt.Errorf("%w: %q (must be manual, autonomous, or teleop)", ErrInvalidControlMode, s)
}

// Position is a 2D pose: world coordinates in meters plus heading in
// radians.
type Position struct {
	X     float64 `yaml:"x" json:"x"`
	Y     float64 `yaml:"y" json:"y"`
	Theta float64 `yaml:"theta" json:"theta"`
}

// Velocity is a 2D velocity in m/s plus angular rate in rad/s.
type Velocity struct {
	VX      float64 `yaml:"vx" json:"vx"`
	VY      float64 `yaml:"vy" json:"vy"`
	Angular float64 `yaml:"angular" json:"angular"`
}

// Size is an entity's physical extent. Radius is set only for circular
// entities.
type Size struct {
	Width  float64  `yaml:"width" json:"width"`
	Height float64  `yaml:"height" json:"height"`
	Radius *float64 `yaml:"radius" json:"radius"`
}

// DefaultSize is the 0.5 m square footprint entities start with.
func DefaultSize() Size {
	return Size{Width: 0.5, Height: 0.5}
}

// SpeedLimits bounds an entity's motion. Defaults keep min <= preferred
// <= max.
type SpeedLimits struct {
	Min             float64 `yaml:"min_speed" json:"min_speed"`
	Max             float64 `yaml:"max_speed" json:"max_speed"`
	Preferred       float64 `yaml:"preferred_speed" json:"preferred_speed"`
	MaxAcceleration float64 `yaml:"max_acceleration" json:"max_acceleration"`
	MaxDeceleration float64 `yaml:"max_deceleration" json:"max_deceleration"`
}

// DefaultSpeedLimits returns the standard pedestrian-scale envelope.
func DefaultSpeedLimits() SpeedLimits {
	return SpeedLimits{
		Min:             0.0,
		Max:             2.0,
		Preferred:       1.0,
		MaxAcceleration: 1.0,
		MaxDeceleration: 2.0,
	}
}

// Goal is one navigation target. Reached goals stay in the list, flagged,
// for audit and export.
type Goal struct {
	ID       string
	Position Position
	Radius   float64
	Priority int
	Reached  bool
}

// Device is a sensor or actuator record attached to a robot.
type Device struct {
	Type       string
	Properties map[string]any
	Active     bool
}
