package scenario

import (
	"testing"
	"time"

	"github.com/Benkess/CrossSim/pkg/agent"
)

func TestNewDefaults(t *testing.T) {
	s := New("Crosswalk Test")

	if s.Name() != "Crosswalk Test" {
		t.Errorf("Name() = %q, want Crosswalk Test", s.Name())
	}
	if s.Metadata.Version != "1.0.0" {
		t.Errorf("Version = %q, want 1.0.0", s.Metadata.Version)
	}
	if _, err := time.Parse(time.RFC3339, s.Metadata.CreatedAt); err != nil {
		t.Errorf("CreatedAt %q is not RFC 3339: %v", s.Metadata.CreatedAt, err)
	}
	if s.Metadata.ModifiedAt != "" {
		t.Errorf("ModifiedAt = %q, want empty before first save", s.Metadata.ModifiedAt)
	}

	if s.EnvironmentConfig != DefaultEnvironmentConfig() {
		t.Errorf("EnvironmentConfig = %+v, want defaults", s.EnvironmentConfig)
	}
	if s.SimulationConfig != DefaultSimulationConfig() {
		t.Errorf("SimulationConfig = %+v, want defaults", s.SimulationConfig)
	}

	if len(s.Agents) != 0 || len(s.Robots) != 0 || len(s.StaticObjects) != 0 || len(s.Goals) != 0 {
		t.Error("new scenario has non-empty collections")
	}
	if s.Modified() {
		t.Error("new scenario reports modified")
	}
	if s.FilePath() != "" {
		t.Errorf("FilePath() = %q, want empty", s.FilePath())
	}
}

func TestNewEmptyNameFallsBack(t *testing.T) {
	if got := New("").Name(); got != "New Scenario" {
		t.Errorf("Name() = %q, want New Scenario", got)
	}
}

func TestMutatorsSetDirty(t *testing.T) {
	walker := agent.New("walker", agent.TypePedestrian)
	bot := agent.NewRobot("bot")
	goal := &agent.Goal{ID: "g1", Radius: 0.5, Priority: 1}

	cases := []struct {
		name   string
		mutate func(*Scenario)
	}{
		{"SetName", func(s *Scenario) { s.SetName("renamed") }},
		{"SetDescription", func(s *Scenario) { s.SetDescription("notes") }},
		{"SetAuthor", func(s *Scenario) { s.SetAuthor("lab") }},
		{"SetVersion", func(s *Scenario) { s.SetVersion("2.0.0") }},
		{"SetTags", func(s *Scenario) { s.SetTags([]string{"indoor"}) }},
		{"AddAgent", func(s *Scenario) { s.AddAgent(walker) }},
		{"AddRobot", func(s *Scenario) { s.AddRobot(bot) }},
		{"AddStaticObject", func(s *Scenario) { s.AddStaticObject(agent.New("bench", agent.TypeStaticObject)) }},
		{"AddGoal", func(s *Scenario) { s.AddGoal(goal) }},
		{"SetEnvironmentData", func(s *Scenario) { s.SetEnvironmentData(map[string]any{"name": "lab"}) }},
		{"RemoveAgent", func(s *Scenario) { s.Agents[walker.ID] = walker; s.modified = false; s.RemoveAgent(walker.ID) }},
		{"RemoveRobot", func(s *Scenario) { s.Robots[bot.ID] = bot; s.modified = false; s.RemoveRobot(bot.ID) }},
		{"RemoveGoal", func(s *Scenario) { s.Goals[goal.ID] = goal; s.modified = false; s.RemoveGoal(goal.ID) }},
	}

	for _, tc := range cases {
		s := New("dirty check")
		tc.mutate(s)
		if !s.Modified() {
			t.Errorf("%s did not set the dirty flag", tc.name)
		}
	}
}

func TestRemoveAbsentLeavesClean(t *testing.T) {
	s := New("clean")
	if s.RemoveAgent("ghost") || s.RemoveRobot("ghost") || s.RemoveStaticObject("ghost") || s.RemoveGoal("ghost") {
		t.Error("removing absent entities reported success")
	}
	if s.Modified() {
		t.Error("failed removals set the dirty flag")
	}
}

func TestCollectionAccessors(t *testing.T) {
	s := New("accessors")
	walker := agent.New("walker-1", agent.TypePedestrian)
	bot := agent.NewRobot("bot-1")

	s.AddAgent(walker)
	s.AddRobot(bot)

	if got, ok := s.Agent("walker-1"); !ok || got != walker {
		t.Errorf("Agent(walker-1) = (%v, %v), want stored agent", got, ok)
	}
	if _, ok := s.Agent("bot-1"); ok {
		t.Error("Agent() found an id that only exists in Robots")
	}
	if got, ok := s.Robot("bot-1"); !ok || got != bot {
		t.Errorf("Robot(bot-1) = (%v, %v), want stored robot", got, ok)
	}

	if !s.RemoveAgent("walker-1") {
		t.Error("RemoveAgent(walker-1) = false, want true")
	}
	if _, ok := s.Agent("walker-1"); ok {
		t.Error("agent still present after removal")
	}
}

func TestEnvironmentDataIsCopied(t *testing.T) {
	s := New("copies")
	data := map[string]any{"walls": map[string]any{"w1": map[string]any{"thickness": 0.1}}}
	s.SetEnvironmentData(data)

	data["walls"].(map[string]any)["w2"] = map[string]any{}
	if _, ok := s.EnvironmentData()["walls"].(map[string]any)["w2"]; ok {
		t.Error("mutating the caller's map leaked into the scenario")
	}

	out := s.EnvironmentData()
	out["intruder"] = true
	if _, ok := s.EnvironmentData()["intruder"]; ok {
		t.Error("mutating a returned copy leaked into the scenario")
	}
}

func TestValidateCleanScenario(t *testing.T) {
	r := New("all good").Validate()
	if !r.Valid || len(r.Errors) != 0 {
		t.Errorf("Validate() = %s, want no findings", r.Summary)
	}
}

func TestValidateCollectsEveryViolation(t *testing.T) {
	s := New("broken")
	s.Metadata.Name = "   "
	s.EnvironmentConfig.Size.Width = -1
	s.EnvironmentConfig.Size.Height = 0
	s.EnvironmentConfig.Resolution = 0
	s.SimulationConfig.TimeStep = 0
	s.SimulationConfig.Duration = -5

	r := s.Validate()
	if r.Valid {
		t.Fatal("Validate() reported valid for a thoroughly broken scenario")
	}

	want := []string{
		"Scenario name is required",
		"Environment width must be positive",
		"Environment height must be positive",
		"Environment resolution must be positive",
		"Time step must be positive",
		"Simulation duration must be positive",
	}
	if len(r.Errors) != len(want) {
		t.Fatalf("got %d errors, want %d: %v", len(r.Errors), len(want), r.Errors)
	}
	for i, msg := range want {
		if r.Errors[i].Message != msg {
			t.Errorf("error[%d] = %q, want %q", i, r.Errors[i].Message, msg)
		}
	}
}

func TestValidateResolutionOnly(t *testing.T) {
	s := New("resolution")
	s.EnvironmentConfig.Resolution = 0

	r := s.Validate()
	if len(r.Errors) != 1 || r.Errors[0].Message != "Environment resolution must be positive" {
		t.Errorf("errors = %v, want the single resolution violation", r.Errors)
	}
}

func TestSummary(t *testing.T) {
	s := New("summary")
	s.AddAgent(agent.New("a1", agent.TypePedestrian))
	s.AddAgent(agent.New("a2", agent.TypePedestrian))
	s.AddRobot(agent.NewRobot("r1"))
	s.AddGoal(&agent.Goal{ID: "g1"})

	got := s.Summary()
	if got["name"] != "summary" {
		t.Errorf("name = %v, want summary", got["name"])
	}
	if got["agent_count"] != 2 || got["robot_count"] != 1 ||
		got["static_object_count"] != 0 || got["goal_count"] != 1 {
		t.Errorf("counts = %v/%v/%v/%v, want 2/1/0/1", got["agent_count"],
			got["robot_count"], got["static_object_count"], got["goal_count"])
	}
	if got["environment_size"] != "10x10m" {
		t.Errorf("environment_size = %v, want 10x10m", got["environment_size"])
	}
	if got["simulation_duration"] != "60s" {
		t.Errorf("simulation_duration = %v, want 60s", got["simulation_duration"])
	}
	if got["is_modified"] != true {
		t.Errorf("is_modified = %v, want true", got["is_modified"])
	}
	if got["file_path"] != nil {
		t.Errorf("file_path = %v, want nil before first save", got["file_path"])
	}
}
