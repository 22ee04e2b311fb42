// Package chart loads declarative state-machine definitions from YAML.
//
// A chart file names the application events, declares the nested state tree,
// and binds reactions per state. Handlers are referenced by name and resolved
// against a registry.Registry at build time:
//
//	name: recorder
//	events: [Power, Play]
//	states:
//	  Off:
//	    entry: enter_standby
//	    on: {Power: "On"}
//	  "On":
//	    init: Playing
//	    on: {Power: "Off", Play: "@log_play"}
//	    children:
//	      Playing: {}
//
// Transition targets are full slash paths ("Idle/Stopped"); values starting
// with "@" invoke the named handler instead. The key ALL binds the wildcard.
package chart

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// wildcardKey binds a reaction to any event the state has no exact match for.
const wildcardKey = "ALL"

// Config is the top-level chart definition.
type Config struct {
	Name   string                  `yaml:"name"`
	Events []string                `yaml:"events"`
	States map[string]*StateConfig `yaml:"states"`
}

// StateConfig declares one state: its reactions and nested children.
type StateConfig struct {
	Entry    string                  `yaml:"entry,omitempty"` // handler name
	Exit     string                  `yaml:"exit,omitempty"`  // handler name
	Init     string                  `yaml:"init,omitempty"`  // immediate child name
	On       map[string]string       `yaml:"on,omitempty"`    // event name -> target path or @handler
	Children map[string]*StateConfig `yaml:"children,omitempty"`
}

// Parse decodes a chart definition. Unknown fields are rejected.
func Parse(r io.Reader) (*Config, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse chart: %w", err)
	}
	return &cfg, nil
}

// Validate checks structural integrity: event declarations, state names,
// transition targets, and init children. Handler references are resolved
// later, at Build time.
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("chart name is required")
	}
	if len(c.Events) == 0 {
		return fmt.Errorf("chart %q declares no events", c.Name)
	}
	if len(c.States) == 0 {
		return fmt.Errorf("chart %q declares no states", c.Name)
	}

	events := make(map[string]bool, len(c.Events))
	for _, name := range c.Events {
		if name == "" {
			return fmt.Errorf("empty event name")
		}
		if name == wildcardKey {
			return fmt.Errorf("event name %q is reserved for the wildcard", wildcardKey)
		}
		if events[name] {
			return fmt.Errorf("duplicate event %q", name)
		}
		events[name] = true
	}

	paths := make(map[string]bool)
	if err := collectPaths("", c.States, paths); err != nil {
		return err
	}

	return validateStates("", c.States, events, paths)
}

func collectPaths(prefix string, states map[string]*StateConfig, paths map[string]bool) error {
	for name, sc := range states {
		if name == "" || strings.Contains(name, "/") {
			return fmt.Errorf("invalid state name %q", name)
		}
		path := joinPath(prefix, name)
		if paths[path] {
			return fmt.Errorf("duplicate state %q", path)
		}
		paths[path] = true
		if sc != nil {
			if err := collectPaths(path, sc.Children, paths); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateStates(prefix string, states map[string]*StateConfig, events, paths map[string]bool) error {
	for name, sc := range states {
		path := joinPath(prefix, name)
		if sc == nil {
			continue
		}
		if sc.Init != "" {
			if !paths[joinPath(path, sc.Init)] {
				return fmt.Errorf("state %q: init %q is not an immediate child", path, sc.Init)
			}
		}
		for event, target := range sc.On {
			if event != wildcardKey && !events[event] {
				return fmt.Errorf("state %q: unknown event %q", path, event)
			}
			if target == "" {
				return fmt.Errorf("state %q: empty target for event %q", path, event)
			}
			if !strings.HasPrefix(target, "@") && !paths[target] {
				return fmt.Errorf("state %q: unknown transition target %q", path, target)
			}
		}
		if err := validateStates(path, sc.Children, events, paths); err != nil {
			return err
		}
	}
	return nil
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}

// sortedKeys returns map keys in lexical order for deterministic builds.
func sortedKeys(states map[string]*StateConfig) []string {
	keys := make([]string, 0, len(states))
	for k := range states {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
