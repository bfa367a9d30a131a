package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Options lists the filter choices offered to users. An empty string in a
// list stands for "no filter".
type Options struct {
	Cuisines []string `yaml:"cuisines" json:"cuisines"`
	Diets    []string `yaml:"diets" json:"diets"`
}

// DefaultOptions returns the built-in cuisine and diet choices.
func DefaultOptions() *Options {
	return &Options{
		Cuisines: []string{
			"", "African", "Asian", "American", "British", "Cajun", "Caribbean",
			"Chinese", "Eastern European", "European", "French", "German", "Greek",
			"Indian", "Irish", "Italian", "Japanese", "Jewish", "Korean", "Latin American",
			"Mediterranean", "Mexican", "Middle Eastern", "Nordic", "Southern", "Spanish",
			"Thai", "Vietnamese",
		},
		Diets: []string{"", "Vegetarian", "Vegan", "Gluten Free", "Non-Veg"},
	}
}

// LoadOptions reads and parses a YAML options file. Lists missing from the
// file keep their built-in defaults.
func LoadOptions(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read options file: %w", err)
	}

	opts := DefaultOptions()
	var parsed Options
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse options YAML: %w", err)
	}
	if len(parsed.Cuisines) > 0 {
		opts.Cuisines = parsed.Cuisines
	}
	if len(parsed.Diets) > 0 {
		opts.Diets = parsed.Diets
	}

	return opts, nil
}
