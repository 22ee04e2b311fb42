package chart

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/hsmkit/hsm/pkg/domain"
	"github.com/hsmkit/hsm/pkg/registry"
)

// Chart is a built machine definition: the state tree, the assigned event
// identifiers, and the bindings ready to feed an engine.
type Chart struct {
	Name     string
	Bindings []domain.Binding

	states map[string]*domain.State
	events map[string]domain.EventID
	names  map[domain.EventID]string
}

// Load reads, validates, and builds a chart file.
func Load(path string, handlers *registry.Registry) (*Chart, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open chart: %w", err)
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return nil, err
	}
	return cfg.Build(handlers)
}

// Build validates the config, materializes the state tree, and resolves
// handler references against the registry. Declared events are assigned
// identifiers starting at domain.User in declaration order.
func (c *Config) Build(handlers *registry.Registry) (*Chart, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	ch := &Chart{
		Name:   c.Name,
		states: make(map[string]*domain.State),
		events: make(map[string]domain.EventID, len(c.Events)),
		names:  make(map[domain.EventID]string, len(c.Events)),
	}
	for i, name := range c.Events {
		id := domain.User + domain.EventID(i)
		ch.events[name] = id
		ch.names[id] = name
	}

	ch.buildStates(nil, "", c.States)

	if err := ch.bindStates(handlers, "", c.States); err != nil {
		return nil, err
	}
	return ch, nil
}

// buildStates creates the tree depth-first in lexical order so that event
// and binding order is deterministic across runs.
func (ch *Chart) buildStates(parent *domain.State, prefix string, states map[string]*StateConfig) {
	for _, name := range sortedKeys(states) {
		var s *domain.State
		if parent == nil {
			s = domain.NewState(name)
		} else {
			s = parent.NewChild(name)
		}
		path := joinPath(prefix, name)
		ch.states[path] = s
		if sc := states[name]; sc != nil {
			ch.buildStates(s, path, sc.Children)
		}
	}
}

func (ch *Chart) bindStates(handlers *registry.Registry, prefix string, states map[string]*StateConfig) error {
	for _, name := range sortedKeys(states) {
		sc := states[name]
		if sc == nil {
			continue
		}
		path := joinPath(prefix, name)
		s := ch.states[path]

		if sc.Entry != "" {
			h, err := handlers.Get(sc.Entry)
			if err != nil {
				return fmt.Errorf("state %q entry: %w", path, err)
			}
			ch.Bindings = append(ch.Bindings, domain.Handle(s, domain.Entry, h))
		}
		if sc.Exit != "" {
			h, err := handlers.Get(sc.Exit)
			if err != nil {
				return fmt.Errorf("state %q exit: %w", path, err)
			}
			ch.Bindings = append(ch.Bindings, domain.Handle(s, domain.Exit, h))
		}
		if sc.Init != "" {
			ch.Bindings = append(ch.Bindings, domain.Transit(s, domain.Init, ch.states[joinPath(path, sc.Init)]))
		}

		for _, event := range sortedOnKeys(sc.On) {
			target := sc.On[event]
			id := domain.All
			if event != wildcardKey {
				id = ch.events[event]
			}
			if name, ok := strings.CutPrefix(target, "@"); ok {
				h, err := handlers.Get(name)
				if err != nil {
					return fmt.Errorf("state %q on %s: %w", path, event, err)
				}
				ch.Bindings = append(ch.Bindings, domain.Handle(s, id, h))
			} else {
				ch.Bindings = append(ch.Bindings, domain.Transit(s, id, ch.states[target]))
			}
		}

		if err := ch.bindStates(handlers, path, sc.Children); err != nil {
			return err
		}
	}
	return nil
}

// State resolves a state by slash path.
func (ch *Chart) State(path string) (*domain.State, error) {
	s, ok := ch.states[path]
	if !ok {
		return nil, fmt.Errorf("unknown state: %s", path)
	}
	return s, nil
}

// Event resolves a declared event name to its assigned identifier.
func (ch *Chart) Event(name string) (domain.EventID, bool) {
	id, ok := ch.events[name]
	return id, ok
}

// Events returns the name-to-identifier table for all declared events.
func (ch *Chart) Events() map[string]domain.EventID {
	out := make(map[string]domain.EventID, len(ch.events))
	for name, id := range ch.events {
		out[name] = id
	}
	return out
}

// EventName returns the declared name for an identifier, falling back to the
// identifier's own string form for reserved or undeclared values.
func (ch *Chart) EventName(id domain.EventID) string {
	if name, ok := ch.names[id]; ok {
		return name
	}
	return id.String()
}

// Paths returns all state paths, sorted.
func (ch *Chart) Paths() []string {
	paths := make([]string, 0, len(ch.states))
	for p := range ch.states {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func sortedOnKeys(on map[string]string) []string {
	keys := make([]string, 0, len(on))
	for k := range on {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
