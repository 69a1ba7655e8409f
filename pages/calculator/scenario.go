package calculator

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/go-rod/harness"
	"github.com/ysmood/kit"
	"gopkg.in/yaml.v3"
)

// Scenario is a named list of steps run on one freshly loaded page
type Scenario struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Step of a scenario. The actions run in this order: clear, clear-a, clear-b, a, b, op.
// Then the result is compared with Want if it's set.
type Step struct {
	Clear  bool     `yaml:"clear,omitempty"`
	ClearA bool     `yaml:"clear-a,omitempty"`
	ClearB bool     `yaml:"clear-b,omitempty"`
	A      *Operand `yaml:"a,omitempty"`
	B      *Operand `yaml:"b,omitempty"`
	Op     *string  `yaml:"op,omitempty"`
	Want   *string  `yaml:"want,omitempty"`
}

// LoadScenarios from a yaml file
func LoadScenarios(path string) ([]Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	return ParseScenarios(f)
}

// ParseScenarios from a yaml stream, unknown fields are rejected
func ParseScenarios(r io.Reader) ([]Scenario, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var list []Scenario
	err := dec.Decode(&list)
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	for _, s := range list {
		if s.Name == "" {
			return nil, fmt.Errorf("scenario without name")
		}
		if len(s.Steps) == 0 {
			return nil, fmt.Errorf("scenario %q has no steps", s.Name)
		}
	}

	return list, nil
}

// MustParseScenarios is similar to ParseScenarios
func MustParseScenarios(data []byte) []Scenario {
	list, err := ParseScenarios(bytes.NewReader(data))
	kit.E(err)
	return list
}

// Run the scenario on the page object. It navigates first, then runs the steps,
// the first failed step stops the run.
func (s Scenario) Run(c *Page) error {
	err := c.NavigateTo()
	if err != nil {
		return err
	}

	for i, step := range s.Steps {
		err = step.run(c)
		if err != nil {
			return fmt.Errorf("%s step %d: %w", s.Name, i+1, err)
		}
	}

	return nil
}

func (step Step) run(c *Page) error {
	actions := []struct {
		enabled bool
		fn      func() error
	}{
		{step.Clear, c.Clear},
		{step.ClearA, c.ClearOperandA},
		{step.ClearB, c.ClearOperandB},
		{step.A != nil, func() error { return c.EnterOperandA(*step.A) }},
		{step.B != nil, func() error { return c.EnterOperandB(*step.B) }},
		{step.Op != nil, func() error { return c.SelectOperation(Operation(*step.Op)) }},
	}

	for _, a := range actions {
		if !a.enabled {
			continue
		}
		if err := a.fn(); err != nil {
			return err
		}
	}

	if step.Want == nil {
		return nil
	}

	res, err := c.Result()
	if err != nil {
		return err
	}
	return harness.AssertText(*step.Want, res)
}
