package lint

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds the rules known to a run, keyed by qualified id.
type Registry struct {
	mu    sync.Mutex
	rules []Rule
	byID  map[string]int // qualified id -> index into rules
}

// NewRegistry creates a registry holding rules. It panics on duplicate ids,
// which can only come from a programming error in the built-in rule list.
func NewRegistry(rules ...Rule) *Registry {
	r := &Registry{byID: make(map[string]int)}
	for _, rule := range rules {
		if err := r.Add(rule); err != nil {
			panic(err)
		}
	}
	return r
}

// Add registers rule. A second rule with the same qualified id is an error.
func (r *Registry) Add(rule Rule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := rule.Meta().ID()
	if _, dup := r.byID[id]; dup {
		return fmt.Errorf("rule %q already registered", id)
	}
	r.byID[id] = len(r.rules)
	r.rules = append(r.rules, rule)
	return nil
}

// Get looks a rule up by qualified id ("em-dash-checker/no-em-dash").
func (r *Registry) Get(id string) (Rule, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	return r.rules[idx], true
}

// All returns the registered rules sorted by id.
func (r *Registry) All() []Rule {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]Rule(nil), r.rules...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Meta().ID() < out[j].Meta().ID()
	})
	return out
}

// Len returns the number of registered rules.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rules)
}

// Resolve turns a configured id -> level map into the enabled rule list,
// sorted by id. Rules set to off are dropped; unknown ids are an error.
func (r *Registry) Resolve(levels map[string]Level) ([]Enabled, error) {
	var out []Enabled
	for id, lvl := range levels {
		rule, ok := r.Get(id)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownRule, id)
		}
		if lvl == LevelOff {
			continue
		}
		out = append(out, Enabled{Rule: rule, Level: lvl})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Rule.Meta().ID() < out[j].Rule.Meta().ID()
	})
	return out, nil
}
