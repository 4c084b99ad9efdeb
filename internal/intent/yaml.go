package intent

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// The YAML intent table mirrors Definition closely; captures are given
// as regex source and compiled at load time.

type yamlFile struct {
	Intents []yamlIntent `yaml:"intents"`
}

type yamlIntent struct {
	Name     string        `yaml:"name"`
	Floor    float64       `yaml:"floor"`
	Priority int           `yaml:"priority"`
	Slots    []yamlSlot    `yaml:"slots"`
	Triggers []yamlTrigger `yaml:"triggers"`
	Context  []string      `yaml:"context"`
	Bonuses  []yamlTrigger `yaml:"bonuses"`
	Examples []string      `yaml:"examples"`
}

type yamlSlot struct {
	Name     string `yaml:"name"`
	Kind     string `yaml:"kind"`
	Required bool   `yaml:"required"`
	Question string `yaml:"question"`
	Capture  string `yaml:"capture"`
}

type yamlTrigger struct {
	Phrase string  `yaml:"phrase"`
	Weight float64 `yaml:"weight"`
}

// LoadYAMLFile reads an intent table from disk. The resulting catalogue
// replaces the compiled-in one wholesale; there is no merging.
func LoadYAMLFile(path string) ([]*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read intent table: %w", err)
	}

	var file yamlFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse intent table: %w", err)
	}
	if len(file.Intents) == 0 {
		return nil, fmt.Errorf("intent table %s defines no intents", path)
	}

	defs := make([]*Definition, 0, len(file.Intents))
	for _, yi := range file.Intents {
		def := &Definition{
			Name:         yi.Name,
			Floor:        yi.Floor,
			Priority:     yi.Priority,
			ContextWords: yi.Context,
			Examples:     yi.Examples,
		}
		for _, ys := range yi.Slots {
			slot := Slot{
				Name:     ys.Name,
				Kind:     SlotKind(ys.Kind),
				Required: ys.Required,
				Question: ys.Question,
			}
			if ys.Capture != "" {
				re, err := regexp.Compile(ys.Capture)
				if err != nil {
					return nil, fmt.Errorf("intent %q slot %q: bad capture: %w", yi.Name, ys.Name, err)
				}
				slot.Capture = re
			}
			def.Slots = append(def.Slots, slot)
		}
		for _, yt := range yi.Triggers {
			def.Triggers = append(def.Triggers, Trigger{Phrase: yt.Phrase, Weight: yt.Weight})
		}
		for _, yb := range yi.Bonuses {
			def.Bonuses = append(def.Bonuses, Bonus{Phrase: yb.Phrase, Delta: yb.Weight})
		}
		defs = append(defs, def)
	}
	return defs, nil
}
