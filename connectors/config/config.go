package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when the configuration file does not exist.
var ErrNotFound = errors.New("configuration file not found")

// ErrMalformed is returned when the file exists but cannot be decoded into
// the expected shape, or fails validation.
var ErrMalformed = errors.New("malformed configuration")

// Config models config.yaml. Alias and rule sections keep their document
// order because resolution is first-match-wins.
type Config struct {
	Aliases []AliasRule
	Rules   []RootCauseRule
	Output  OutputOptions
}

// AliasRule maps one canonical column name to the source-header variants
// that should be renamed to it, tried in order.
type AliasRule struct {
	Canonical  string
	Candidates []string
}

// RootCauseRule labels a ticket when any keyword appears in its description.
type RootCauseRule struct {
	Label    string
	Keywords []string
}

type OutputOptions struct {
	Filename  string   `yaml:"filename"`
	Sheets    []string `yaml:"sheets"`
	AddCharts bool     `yaml:"add_charts"`
}

// rawConfig is the wire shape; the ordered sections decode through
// yaml.Node to preserve mapping order.
type rawConfig struct {
	ColumnAliases  yaml.Node     `yaml:"column_aliases"`
	RootCauseRules yaml.Node     `yaml:"root_cause_rules"`
	Output         OutputOptions `yaml:"output"`
}

// Load parses the YAML configuration file at path and validates it.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}
	var raw rawConfig
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	c := &Config{Output: raw.Output}
	aliases, err := orderedStringLists(&raw.ColumnAliases, "column_aliases")
	if err != nil {
		return nil, err
	}
	for _, kv := range aliases {
		c.Aliases = append(c.Aliases, AliasRule{Canonical: kv.key, Candidates: kv.values})
	}
	rules, err := orderedStringLists(&raw.RootCauseRules, "root_cause_rules")
	if err != nil {
		return nil, err
	}
	for _, kv := range rules {
		c.Rules = append(c.Rules, RootCauseRule{Label: kv.key, Keywords: kv.values})
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	slog.Info("config.loaded", "path", path, "aliases", len(c.Aliases), "rules", len(c.Rules))
	return c, nil
}

// validate rejects alias tables where one source header could be claimed by
// two logical names; silently picking one would drop a column.
func (c *Config) validate() error {
	claimed := map[string]string{}
	for _, a := range c.Aliases {
		for _, cand := range a.Candidates {
			key := strings.ToLower(strings.TrimSpace(cand))
			if key == "" {
				continue
			}
			if prev, ok := claimed[key]; ok && prev != a.Canonical {
				return fmt.Errorf("%w: alias %q claimed by both %q and %q", ErrMalformed, cand, prev, a.Canonical)
			}
			claimed[key] = a.Canonical
		}
	}
	return nil
}

type keyedList struct {
	key    string
	values []string
}

// orderedStringLists decodes a YAML mapping of name -> list of strings,
// keeping the document order of the keys.
func orderedStringLists(node *yaml.Node, section string) ([]keyedList, error) {
	if node.Kind == 0 || node.Tag == "!!null" {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: %s must be a mapping", ErrMalformed, section)
	}
	var out []keyedList
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]
		var values []string
		if err := valNode.Decode(&values); err != nil {
			return nil, fmt.Errorf("%w: %s.%s must be a list of strings", ErrMalformed, section, keyNode.Value)
		}
		out = append(out, keyedList{key: keyNode.Value, values: values})
	}
	return out, nil
}
