package agent

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed agents.yaml
var defaultDefinitions []byte

// Agent names used by the wiring code.
const (
	StudentHubAgent = "StudentHubAgent"
	AcademicAgent   = "AcademicAgent"
	WellnessAgent   = "WellnessAgent"
	GoalAgent       = "GoalAgent"
	AnalyticsAgent  = "AnalyticsAgent"
	OnboardingAgent = "OnboardingAgent"
)

type Definition struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Instruction string   `yaml:"instruction"`
	Tools       []string `yaml:"tools"`
	Memory      bool     `yaml:"memory"`
}

type Definitions struct {
	Coordinator string       `yaml:"coordinator"`
	Agents      []Definition `yaml:"agents"`
}

// LoadDefinitions parses the embedded agent roster.
func LoadDefinitions() (*Definitions, error) {
	return ParseDefinitions(defaultDefinitions)
}

func ParseDefinitions(raw []byte) (*Definitions, error) {
	var defs Definitions
	if err := yaml.Unmarshal(raw, &defs); err != nil {
		return nil, fmt.Errorf("parse agent definitions: %w", err)
	}
	seen := map[string]bool{}
	for i, d := range defs.Agents {
		name := strings.TrimSpace(d.Name)
		if name == "" {
			return nil, fmt.Errorf("agent %d has no name", i)
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate agent %q", name)
		}
		if strings.TrimSpace(d.Instruction) == "" {
			return nil, fmt.Errorf("agent %q has no instruction", name)
		}
		seen[name] = true
	}
	if defs.Coordinator != "" && !seen[defs.Coordinator] {
		return nil, fmt.Errorf("coordinator %q is not defined", defs.Coordinator)
	}
	return &defs, nil
}

func (d *Definitions) Get(name string) (Definition, bool) {
	for _, def := range d.Agents {
		if def.Name == name {
			return def, true
		}
	}
	return Definition{}, false
}

// Agent is a definition bound to concrete tools.
type Agent struct {
	Definition
	tools map[string]Tool
	order []string
}

// Bind resolves the definition's tool names against registry.
func Bind(def Definition, registry map[string]Tool) (*Agent, error) {
	a := &Agent{Definition: def, tools: map[string]Tool{}}
	for _, name := range def.Tools {
		t, ok := registry[name]
		if !ok {
			return nil, fmt.Errorf("agent %s: tool %q is not registered", def.Name, name)
		}
		a.tools[name] = t
		a.order = append(a.order, name)
	}
	return a, nil
}

func (a *Agent) toolSpecs() []ToolSpec {
	specs := make([]ToolSpec, 0, len(a.order))
	for _, name := range a.order {
		specs = append(specs, a.tools[name].Spec())
	}
	return specs
}
