package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Settings is the path to a .cue or .yaml settings file.
	// Relative paths are resolved against the scenario file location.
	Settings string `yaml:"settings"`

	// ClockStartMs is the manual clock reading the time axis sees on its
	// first pull.
	ClockStartMs int64 `yaml:"clock_start_ms,omitempty"`

	// RunID is an optional fixed run ID for deterministic tests.
	// If empty, defaults to "test-run-default".
	RunID string `yaml:"run_id,omitempty"`

	// Assertions validate the recorded event stream.
	Assertions []Assertion `yaml:"assertions"`
}

// Assertion validates the event stream.
type Assertion struct {
	// Type specifies the assertion type:
	// - "event_count": stream has exactly Count events
	// - "event_at": event at Index matches Expect
	// - "snake_grid": positions form a Rows x Cols snake
	// - "schedule_monotonic": time points honour the interval
	// - "z_increasing": z rises within each sweep
	Type string `yaml:"type"`

	// Count is the expected number of events (event_count).
	Count int `yaml:"count,omitempty"`

	// Index is the zero-based event index (event_at).
	Index int `yaml:"index,omitempty"`

	// Expect holds expected fields of the event's canonical form (event_at).
	// Subset match - only specified fields are validated.
	Expect map[string]any `yaml:"expect,omitempty"`

	// Rows and Cols give the grid shape (snake_grid).
	Rows int `yaml:"rows,omitempty"`
	Cols int `yaml:"cols,omitempty"`
}

// Assertion type constants.
const (
	AssertEventCount        = "event_count"
	AssertEventAt           = "event_at"
	AssertSnakeGrid         = "snake_grid"
	AssertScheduleMonotonic = "schedule_monotonic"
	AssertZIncreasing       = "z_increasing"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "assertion:" vs "assertions:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Resolve the settings path relative to the scenario BEFORE validation
	if scenario.Settings != "" && !filepath.IsAbs(scenario.Settings) {
		scenario.Settings = filepath.Join(filepath.Dir(path), scenario.Settings)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// settingsKeys are top-level keys only an acquisition settings document has.
var settingsKeys = []string{"time", "positions", "grid", "channels", "z", "camera", "axis_order", "z_composition"}

// IsSettingsFile reports whether the YAML file at path is an acquisition
// settings document rather than a scenario: it has no settings key but has
// at least one settings-only key. Settings files often sit next to the
// scenarios that reference them. Unparseable files are reported as
// scenarios so LoadScenario can describe the error.
func IsSettingsFile(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read scenario file: %w", err)
	}
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return false, nil
	}
	if _, ok := doc["settings"]; ok {
		return false, nil
	}
	for _, key := range settingsKeys {
		if _, ok := doc[key]; ok {
			return true, nil
		}
	}
	return false, nil
}

// LoadScenarios loads every *.yaml and *.yml scenario in dir, sorted by
// file name. Settings files in dir are skipped.
func LoadScenarios(dir string) ([]*Scenario, error) {
	var paths []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("scan scenarios: %w", err)
		}
		paths = append(paths, matches...)
	}
	slices.Sort(paths)
	paths = slices.DeleteFunc(paths, func(p string) bool {
		isSettings, err := IsSettingsFile(p)
		return err == nil && isSettings
	})
	if len(paths) == 0 {
		return nil, fmt.Errorf("no scenario files found in %s", dir)
	}

	scenarios := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(p), err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Settings == "" {
		return fmt.Errorf("settings path is required")
	}
	if _, err := os.Stat(s.Settings); os.IsNotExist(err) {
		return fmt.Errorf("settings file not found: %s", s.Settings)
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertEventCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for event_count", index)
		}
	case AssertEventAt:
		if a.Index < 0 {
			return fmt.Errorf("assertions[%d]: index must be non-negative for event_at", index)
		}
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for event_at", index)
		}
	case AssertSnakeGrid:
		if a.Rows < 1 || a.Cols < 1 {
			return fmt.Errorf("assertions[%d]: rows and cols must be positive for snake_grid", index)
		}
	case AssertScheduleMonotonic, AssertZIncreasing:
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
