package main

import (
	"fmt"
	"strings"

	"github.com/Benkess/CrossSim/pkg/scenario"
	"github.com/Benkess/CrossSim/pkg/validation"
)

func printValidationReport(r *validation.Report) {
	if len(r.Errors) > 0 {
		fmt.Printf("ERRORS (%d):\n", len(r.Errors))
		for _, e := range r.Errors {
			fmt.Printf("  [%s] %s\n", e.Level, e.Message)
			if e.FieldPath != "" {
				fmt.Printf("    -> %s = %v\n", e.FieldPath, e.ActualValue)
			}
			if e.Expected != "" {
				fmt.Printf("    expected: %s\n", e.Expected)
			}
		}
		fmt.Println()
	}

	if len(r.Warnings) > 0 {
		fmt.Printf("WARNINGS (%d):\n", len(r.Warnings))
		for _, w := range r.Warnings {
			fmt.Printf("  [%s] %s\n", w.Level, w.Message)
			if w.FieldPath != "" {
				fmt.Printf("    -> %s = %v\n", w.FieldPath, w.ActualValue)
			}
			if w.Expected != "" {
				fmt.Printf("    expected: %s\n", w.Expected)
			}
		}
		fmt.Println()
	}

	if len(r.Info) > 0 {
		fmt.Printf("INFO (%d):\n", len(r.Info))
		for _, i := range r.Info {
			fmt.Printf("  [%s] %s\n", i.Level, i.Message)
		}
		fmt.Println()
	}

	if r.Valid {
		fmt.Printf("Result: VALID (%s)\n", r.Summary)
	} else {
		fmt.Printf("Result: INVALID (%s)\n", r.Summary)
	}
}

func printScenarioInfo(path string, scn *scenario.Scenario) {
	summary := scn.Summary()

	fmt.Printf("Scenario Information: %s\n", path)
	fmt.Println(strings.Repeat("=", 50))
	fmt.Printf("Name: %v\n", summary["name"])
	fmt.Printf("Description: %s\n", scn.Description())
	fmt.Printf("Author: %s\n", scn.Metadata.Author)
	fmt.Printf("Version: %s\n", scn.Metadata.Version)
	tags := "None"
	if len(scn.Metadata.Tags) > 0 {
		tags = strings.Join(scn.Metadata.Tags, ", ")
	}
	fmt.Printf("Tags: %s\n", tags)
	fmt.Println()

	fmt.Println("Environment:")
	fmt.Printf("  Size: %v\n", summary["environment_size"])
	fmt.Printf("  Resolution: %g m/cell\n", scn.EnvironmentConfig.Resolution)
	fmt.Println()

	fmt.Println("Entities:")
	fmt.Printf("  Agents: %v\n", summary["agent_count"])
	fmt.Printf("  Robots: %v\n", summary["robot_count"])
	fmt.Printf("  Static Objects: %v\n", summary["static_object_count"])
	fmt.Printf("  Goals: %v\n", summary["goal_count"])
	fmt.Println()

	fmt.Println("Simulation:")
	fmt.Printf("  Duration: %v\n", summary["simulation_duration"])
	fmt.Printf("  Time Step: %gs\n", scn.SimulationConfig.TimeStep)
	fmt.Printf("  Real-time Factor: %g\n", scn.SimulationConfig.RealTimeFactor)
	fmt.Println()

	modified := "No"
	if scn.Modified() {
		modified = "Yes"
	}
	fmt.Printf("Modified: %s\n", modified)
}

func printScenarioListing(name string, scn *scenario.Scenario) {
	summary := scn.Summary()
	fmt.Printf("  %s\n", name)
	fmt.Printf("    Name: %v\n", summary["name"])
	fmt.Printf("    Agents: %v, Robots: %v\n", summary["agent_count"], summary["robot_count"])
	fmt.Printf("    Size: %v\n", summary["environment_size"])
	fmt.Println()
}
