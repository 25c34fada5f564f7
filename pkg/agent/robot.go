package agent

import "fmt"

// Robot is an agent extended with platform capabilities and safety state.
// The embedded Agent carries identity, pose, and goals; the extension
// carries what only robots have.
type Robot struct {
	Agent

	Model           string
	Sensors         map[string]Device
	Actuators       map[string]Device
	ControlMode     ControlMode
	HasMapping      bool
	HasLocalization bool
	HasPathPlanning bool
	EmergencyStop   bool
	SafetyRadius    float64
	MaxSafeSpeed    float64
}

// NewRobot creates a robot with generated identity, a generic platform
// model, full navigation capabilities, and manual control.
func NewRobot(id string) *Robot {
	return &Robot{
		Agent:           *New(id, TypeRobot),
		Model:           "generic",
		Sensors:         map[string]Device{},
		Actuators:       map[string]Device{},
		ControlMode:     ControlManual,
		HasMapping:      true,
		HasLocalization: true,
		HasPathPlanning: true,
		SafetyRadius:    0.3,
		MaxSafeSpeed:    1.0,
	}
}

// AddSensor attaches a sensor record under the given id, replacing any
// existing record with that id. New devices start active.
func (r *Robot) AddSensor(id, sensorType string, properties map[string]any) {
	if properties == nil {
		properties = map[string]any{}
	}
	r.Sensors[id] = Device{Type: sensorType, Properties: properties, Active: true}
}

// AddActuator attaches an actuator record under the given id, replacing
// any existing record with that id. New devices start active.
func (r *Robot) AddActuator(id, actuatorType string, properties map[string]any) {
	if properties == nil {
		properties = map[string]any{}
	}
	r.Actuators[id] = Device{Type: actuatorType, Properties: properties, Active: true}
}

// SetControlMode switches the robot's control mode. Modes outside the
// closed set are rejected and the current mode is kept.
func (r *Robot) SetControlMode(mode ControlMode) error {
	parsed, err := ParseControlMode(string(mode))
	if err != nil {
		return fmt.Errorf("setting control mode: %w", err)
	}
	r.ControlMode = parsed
	return nil
}

// ActivateEmergencyStop engages the emergency stop and zeroes every
// velocity component, angular included.
func (r *Robot) ActivateEmergencyStop() {
	r.EmergencyStop = true
	r.SetVelocity(0, 0, 0)
}

// ReleaseEmergencyStop disengages the emergency stop. Velocity stays
// zero until a controller commands otherwise.
func (r *Robot) ReleaseEmergencyStop() {
	r.EmergencyStop = false
}
