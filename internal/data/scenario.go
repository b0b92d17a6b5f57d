package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ResourceTypeDef declares one material kind. Key identifies it inside the
// scenario file; Name is only a display label and may repeat.
type ResourceTypeDef struct {
	Key           string  `yaml:"key"`
	Name          string  `yaml:"name"`
	MeltingPointC float64 `yaml:"melting_point_c"`
}

// StackDef is a quantity of one resource type, referenced by key.
type StackDef struct {
	Type   string  `yaml:"type"`
	MassKg float64 `yaml:"mass_kg"`
}

// RecipeDef holds base quantities; multipliers scale them at run time.
type RecipeDef struct {
	Speed       float64    `yaml:"speed"`
	Efficiency  float64    `yaml:"efficiency"`
	Ingredients []StackDef `yaml:"ingredients"`
	Products    []StackDef `yaml:"products"`
}

// ProducerDef declares one production-capable entity.
type ProducerDef struct {
	Name      string     `yaml:"name"`
	Enabled   *bool      `yaml:"enabled"` // nil = enabled
	Capacity  int        `yaml:"capacity"`
	Inventory []StackDef `yaml:"inventory"`
	Recipe    RecipeDef  `yaml:"recipe"`
}

// IsEnabled applies the default for a missing enabled flag.
func (p *ProducerDef) IsEnabled() bool {
	return p.Enabled == nil || *p.Enabled
}

// Scenario is the world setup loaded at boot.
type Scenario struct {
	ResourceTypes []ResourceTypeDef `yaml:"resource_types"`
	Producers     []ProducerDef     `yaml:"producers"`
}

// LoadScenario reads and validates a scenario YAML file.
func LoadScenario(path string) (*Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return ParseScenario(raw)
}

// ParseScenario decodes and validates scenario YAML.
func ParseScenario(raw []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(raw, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	for i := range sc.Producers {
		r := &sc.Producers[i].Recipe
		if r.Speed == 0 {
			r.Speed = 1
		}
		if r.Efficiency == 0 {
			r.Efficiency = 1
		}
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate checks keys are unique and every reference resolves.
func (sc *Scenario) Validate() error {
	keys := make(map[string]bool, len(sc.ResourceTypes))
	for _, rt := range sc.ResourceTypes {
		if rt.Key == "" {
			return fmt.Errorf("resource type %q: empty key", rt.Name)
		}
		if keys[rt.Key] {
			return fmt.Errorf("resource type %q: duplicate key", rt.Key)
		}
		keys[rt.Key] = true
	}

	checkStacks := func(producer, field string, stacks []StackDef) error {
		for _, st := range stacks {
			if !keys[st.Type] {
				return fmt.Errorf("producer %q %s: unknown resource type %q", producer, field, st.Type)
			}
			if st.MassKg < 0 {
				return fmt.Errorf("producer %q %s: negative mass for %q", producer, field, st.Type)
			}
		}
		return nil
	}
	for _, p := range sc.Producers {
		if err := checkStacks(p.Name, "inventory", p.Inventory); err != nil {
			return err
		}
		if err := checkStacks(p.Name, "ingredients", p.Recipe.Ingredients); err != nil {
			return err
		}
		if err := checkStacks(p.Name, "products", p.Recipe.Products); err != nil {
			return err
		}
		if p.Recipe.Speed < 0 || p.Recipe.Efficiency < 0 {
			return fmt.Errorf("producer %q: recipe multipliers must be positive", p.Name)
		}
		if p.Capacity > 0 && len(p.Inventory) > p.Capacity {
			return fmt.Errorf("producer %q: %d inventory entries exceed capacity %d", p.Name, len(p.Inventory), p.Capacity)
		}
	}
	return nil
}
