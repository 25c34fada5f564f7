package scenario

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Benkess/CrossSim/pkg/agent"
)

func sampleScenario() *Scenario {
	s := New("warehouse aisle")
	s.SetDescription("robot threads a shelving aisle past two pickers")

	picker := agent.New("picker-1", agent.TypePedestrian)
	picker.SetPosition(2, 3)
	s.AddAgent(picker)

	bot := agent.NewRobot("amr-1")
	bot.AddGoal(8, 3, 0.4, 1)
	s.AddRobot(bot)

	s.SetEnvironmentData(map[string]any{"name": "aisle 4"})
	return s
}

func TestSaveLoadYAML(t *testing.T) {
	s := sampleScenario()
	path := filepath.Join(t.TempDir(), "aisle.yaml")

	if err := s.SaveToFile(path, "yaml"); err != nil {
		t.Fatalf("SaveToFile() error: %v", err)
	}
	if s.Modified() {
		t.Error("save did not clear the dirty flag")
	}
	if s.FilePath() != path {
		t.Errorf("FilePath() = %q, want %q", s.FilePath(), path)
	}
	if s.Metadata.ModifiedAt == "" {
		t.Error("save did not stamp ModifiedAt")
	}

	got, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error: %v", err)
	}
	if got.Name() != "warehouse aisle" {
		t.Errorf("Name() = %q, want warehouse aisle", got.Name())
	}
	if _, ok := got.Agent("picker-1"); !ok {
		t.Error("picker-1 missing after reload")
	}
	r, ok := got.Robot("amr-1")
	if !ok {
		t.Fatal("amr-1 missing after reload")
	}
	if len(r.Goals) != 1 || r.Goals[0].Position.X != 8 {
		t.Errorf("robot goals = %+v, want one at x=8", r.Goals)
	}
	if got.Modified() {
		t.Error("freshly loaded scenario reports modified")
	}
	if got.FilePath() != path {
		t.Errorf("loaded FilePath() = %q, want %q", got.FilePath(), path)
	}
}

func TestSaveJSONIsIndentedJSON(t *testing.T) {
	s := sampleScenario()
	path := filepath.Join(t.TempDir(), "aisle.json")

	if err := s.SaveToFile(path, "json"); err != nil {
		t.Fatalf("SaveToFile() error: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("saved file is not JSON: %v", err)
	}
	if !strings.Contains(string(raw), "\n  \"") {
		t.Error("JSON output is not indented")
	}

	got, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error: %v", err)
	}
	if got.Name() != "warehouse aisle" {
		t.Errorf("Name() = %q, want warehouse aisle", got.Name())
	}
	if got.EnvironmentData()["name"] != "aisle 4" {
		t.Errorf("environment data = %v, want aisle 4", got.EnvironmentData())
	}
}

func TestSaveUnknownFormatFallsBackToYAML(t *testing.T) {
	s := sampleScenario()
	path := filepath.Join(t.TempDir(), "aisle.scenario")

	if err := s.SaveToFile(path, "toml"); err != nil {
		t.Fatalf("SaveToFile() error: %v", err)
	}
	if _, err := LoadFromFile(path); err != nil {
		t.Errorf("non-json extension should load as YAML, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil || !strings.Contains(err.Error(), "reading scenario file") {
		t.Errorf("error = %v, want reading scenario file wrap", err)
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("metadata: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadFromFile(path)
	if err == nil || !strings.Contains(err.Error(), "parsing scenario YAML") {
		t.Errorf("error = %v, want parsing scenario YAML wrap", err)
	}
}

func TestLoadBadEntityReturnsNoScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ghost.yaml")
	body := "agents:\n  spook:\n    type: ghost\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadFromFile(path)
	if err == nil {
		t.Fatal("expected an error for the unknown agent type")
	}
	if s != nil {
		t.Error("LoadFromFile returned a scenario alongside the error")
	}
}
