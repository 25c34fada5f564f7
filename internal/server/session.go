package server

import (
	"fmt"
	"sync"

	"github.com/Benkess/CrossSim/pkg/scenario"
	"github.com/Benkess/CrossSim/pkg/world"
)

// session is the single mutable editing state. One mutex serializes
// every scenario and environment mutation so the core packages never
// see concurrent access.
type session struct {
	mu       sync.Mutex
	scenario *scenario.Scenario
	env      *world.Environment
}

func newSession() *session {
	scn := scenario.New("")
	return &session{
		scenario: scn,
		env:      world.New(scn.Name()),
	}
}

// reset replaces the session with a fresh scenario and an empty
// environment. Callers hold the mutex.
func (s *session) reset(name string) {
	s.scenario = scenario.New(name)
	s.env = world.New(s.scenario.Name())
}

// load replaces the session from a scenario file, materializing the
// environment from the embedded environment_data when present. On any
// error the previous state is kept. Callers hold the mutex.
func (s *session) load(path string) error {
	scn, err := scenario.LoadFromFile(path)
	if err != nil {
		return err
	}
	env := world.New(scn.Name())
	if data := scn.EnvironmentData(); len(data) > 0 {
		env, err = world.FromMap(data)
		if err != nil {
			return fmt.Errorf("materializing environment: %w", err)
		}
	}
	s.scenario = scn
	s.env = env
	return nil
}

// syncEnvironment mirrors the environment back into the scenario's
// environment_data so a later save persists it. Callers hold the
// mutex.
func (s *session) syncEnvironment() {
	s.scenario.SetEnvironmentData(s.env.ToMap())
}
