package scenario

import (
	"errors"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/Benkess/CrossSim/pkg/agent"
)

func yamlCycle(t *testing.T, doc map[string]any) map[string]any {
	t.Helper()
	raw, err := yaml.Marshal(doc)
	if err != nil {
		t.Fatalf("yaml.Marshal() error: %v", err)
	}
	var out map[string]any
	if err := yaml.Unmarshal(raw, &out); err != nil {
		t.Fatalf("yaml.Unmarshal() error: %v", err)
	}
	return out
}

func TestToMapShape(t *testing.T) {
	s := New("shape")
	doc := s.ToMap()

	for _, key := range []string{
		"metadata", "environment_config", "simulation_config",
		"environment_data", "agents", "robots", "static_objects", "goals",
	} {
		if _, ok := doc[key]; !ok {
			t.Errorf("document missing key %q", key)
		}
	}

	meta := doc["metadata"].(map[string]any)
	if meta["created_at"] == nil {
		t.Error("created_at should be stamped for a new scenario")
	}
	if v, ok := meta["modified_at"]; !ok || v != nil {
		t.Errorf("modified_at = %v (present %v), want explicit null", v, ok)
	}

	env := doc["environment_config"].(map[string]any)
	size := env["size"].(map[string]any)
	if size["width"] != 10.0 || size["height"] != 10.0 {
		t.Errorf("size = %v, want 10x10", size)
	}
}

func TestFromMapDefaults(t *testing.T) {
	s, err := FromMap(map[string]any{})
	if err != nil {
		t.Fatalf("FromMap(empty) error: %v", err)
	}
	if s.Name() != "Untitled Scenario" {
		t.Errorf("Name() = %q, want Untitled Scenario", s.Name())
	}
	if s.Metadata.CreatedAt != "" {
		t.Errorf("CreatedAt = %q, want empty for a document without one", s.Metadata.CreatedAt)
	}
	if s.EnvironmentConfig != DefaultEnvironmentConfig() {
		t.Errorf("EnvironmentConfig = %+v, want defaults", s.EnvironmentConfig)
	}
	if s.SimulationConfig != DefaultSimulationConfig() {
		t.Errorf("SimulationConfig = %+v, want defaults", s.SimulationConfig)
	}
	if s.Modified() {
		t.Error("loaded scenario starts dirty")
	}
}

func TestRoundTripThroughYAML(t *testing.T) {
	s := New("roundtrip")
	s.SetDescription("two pedestrians crossing against one robot")
	s.Metadata.Tags = []string{"crosswalk", "regression"}
	s.EnvironmentConfig.Size = Size{Width: 20, Height: 15}
	s.SimulationConfig.Duration = 120

	walker := agent.New("walker-1", agent.TypePedestrian)
	walker.AddGoal(18, 7, 0.5, 1)
	s.AddAgent(walker)

	bot := agent.NewRobot("bot-1")
	bot.AddSensor("lidar", "lidar_2d", nil)
	s.AddRobot(bot)

	s.AddStaticObject(agent.New("bench", agent.TypeStaticObject))
	s.AddGoal(&agent.Goal{ID: "exit", Position: agent.Position{X: 19, Y: 14}, Radius: 1, Priority: 2})
	s.SetEnvironmentData(map[string]any{"name": "crosswalk", "walls": map[string]any{}})

	got, err := FromMap(yamlCycle(t, s.ToMap()))
	if err != nil {
		t.Fatalf("FromMap() error: %v", err)
	}

	if got.Name() != "roundtrip" || got.Description() != s.Description() {
		t.Errorf("identity = (%q, %q), want originals", got.Name(), got.Description())
	}
	if len(got.Metadata.Tags) != 2 || got.Metadata.Tags[0] != "crosswalk" {
		t.Errorf("Tags = %v, want [crosswalk regression]", got.Metadata.Tags)
	}
	if got.EnvironmentConfig.Size != (Size{Width: 20, Height: 15}) {
		t.Errorf("Size = %+v, want 20x15", got.EnvironmentConfig.Size)
	}
	if got.SimulationConfig.Duration != 120 {
		t.Errorf("Duration = %v, want 120", got.SimulationConfig.Duration)
	}

	ga, ok := got.Agent("walker-1")
	if !ok {
		t.Fatal("walker-1 lost in round trip")
	}
	if len(ga.Goals) != 1 || ga.Goals[0].Position.X != 18 {
		t.Errorf("walker goals = %+v, want one at x=18", ga.Goals)
	}
	gr, ok := got.Robot("bot-1")
	if !ok {
		t.Fatal("bot-1 lost in round trip")
	}
	if _, ok := gr.Sensors["lidar"]; !ok {
		t.Error("robot sensor lost in round trip")
	}
	if _, ok := got.StaticObject("bench"); !ok {
		t.Error("bench lost in round trip")
	}
	gg, ok := got.Goal("exit")
	if !ok || gg.Position.Y != 14 {
		t.Errorf("goal exit = (%+v, %v), want y=14", gg, ok)
	}
	if got.EnvironmentData()["name"] != "crosswalk" {
		t.Errorf("environment data = %v, want crosswalk layout", got.EnvironmentData())
	}
	if got.Modified() {
		t.Error("round-tripped scenario starts dirty")
	}
}

func TestFromMapRejectsScalarEntity(t *testing.T) {
	_, err := FromMap(map[string]any{
		"agents": map[string]any{"a1": "just a string"},
	})
	if err == nil || !strings.Contains(err.Error(), `agent "a1"`) {
		t.Errorf("error = %v, want agent a1 mapping complaint", err)
	}
}

func TestFromMapPropagatesEntityErrors(t *testing.T) {
	_, err := FromMap(map[string]any{
		"robots": map[string]any{
			"bot_1": map[string]any{"control_mode": "psychic"},
		},
	})
	if !errors.Is(err, agent.ErrInvalidControlMode) {
		t.Fatalf("error = %v, want ErrInvalidControlMode", err)
	}
	if !strings.Contains(err.Error(), `robot "bot_1"`) {
		t.Errorf("error %q does not name the offending robot", err)
	}
}

func TestFromMapNoPartialScenario(t *testing.T) {
	s, err := FromMap(map[string]any{
		"agents": map[string]any{
			"good": map[string]any{"type": "pedestrian"},
			"bad":  map[string]any{"type": "ghost"},
		},
	})
	if err == nil {
		t.Fatal("expected an error for the ghost agent")
	}
	if s != nil {
		t.Errorf("FromMap returned a partial scenario: %+v", s)
	}
}
