package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Benkess/CrossSim/pkg/scenario"
	"github.com/Benkess/CrossSim/pkg/validation"
	"github.com/Benkess/CrossSim/pkg/world"
)

func runCreate(name, output, format string) error {
	scn := scenario.New(name)

	if output == "" {
		base := strings.ToLower(strings.ReplaceAll(name, " ", "_"))
		ext := ".yaml"
		if strings.EqualFold(format, "json") {
			ext = ".json"
		}
		output = base + ext
	}

	if err := scn.SaveToFile(output, format); err != nil {
		return fmt.Errorf("saving scenario: %w", err)
	}

	fmt.Printf("Created scenario %q at %s\n", name, output)
	return nil
}

func runValidate(path string) error {
	doc, err := scenario.LoadDocument(path)
	if err != nil {
		return err
	}

	// Document shape first, then typed-field checks, then placement.
	report := validation.ValidateDocument(doc)

	scn, err := scenario.FromMap(doc)
	if err != nil {
		return fmt.Errorf("loading scenario: %w", err)
	}
	report.Merge(scn.Validate())

	if data := scn.EnvironmentData(); len(data) > 0 {
		env, err := world.FromMap(data)
		if err != nil {
			return fmt.Errorf("materializing environment: %w", err)
		}
		report.Merge(validation.ValidateEnvironment(env))
	}

	printValidationReport(report)

	if !report.Valid {
		os.Exit(1)
	}
	return nil
}

func runConvert(input, output, format string) error {
	scn, err := scenario.LoadFromFile(input)
	if err != nil {
		return fmt.Errorf("loading %s: %w", input, err)
	}
	if err := scn.SaveToFile(output, format); err != nil {
		return fmt.Errorf("saving %s: %w", output, err)
	}

	fmt.Printf("Converted %s to %s (%s format)\n", input, output, format)
	return nil
}

func runInfo(path string) error {
	scn, err := scenario.LoadFromFile(path)
	if err != nil {
		return fmt.Errorf("loading scenario: %w", err)
	}
	printScenarioInfo(path, scn)
	return nil
}

func runList(dir string) error {
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return fmt.Errorf("directory not found: %s", dir)
	}

	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml", "*.json"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return fmt.Errorf("scanning %s: %w", dir, err)
		}
		files = append(files, matches...)
	}

	if len(files) == 0 {
		fmt.Printf("No scenario files found in %s\n", dir)
		return nil
	}
	sort.Strings(files)

	fmt.Printf("Scenarios in %s:\n", dir)
	for _, path := range files {
		scn, err := scenario.LoadFromFile(path)
		if err != nil {
			fmt.Printf("  %s (failed to load: %v)\n", filepath.Base(path), err)
			continue
		}
		printScenarioListing(filepath.Base(path), scn)
	}
	return nil
}

func runExportMap(scenarioPath, mapPath string) error {
	scn, err := scenario.LoadFromFile(scenarioPath)
	if err != nil {
		return fmt.Errorf("loading scenario: %w", err)
	}

	data := scn.EnvironmentData()
	if len(data) == 0 {
		return fmt.Errorf("scenario %s carries no environment data", scenarioPath)
	}
	env, err := world.FromMap(data)
	if err != nil {
		return fmt.Errorf("materializing environment: %w", err)
	}
	if env.Grid == nil {
		return fmt.Errorf("environment in %s has no occupancy grid", scenarioPath)
	}

	if err := env.Grid.WriteMapFiles(mapPath); err != nil {
		return err
	}

	fmt.Printf("Exported occupancy grid to %s\n", mapPath)
	return nil
}
