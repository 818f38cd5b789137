// Package mode represents script entry points as named functions with a
// set of bound default options. Binding the defaults to the function,
// rather than hard-coding them inside it, keeps the values inspectable
// and lets several entry points share or extend each other's defaults.
package mode

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
)

// ErrCollision is reported when the same option key is supplied from
// two places without an applicable resolution policy.
var ErrCollision = errors.New("colliding options")

// Options carries the keyword-style arguments a mode runs with.
type Options map[string]any

// Func is the operation a mode wraps.
type Func func(Options) error

// CollisionPolicy resolves a key bound by more than one parent mode,
// given the currently merged value and the incoming one.
type CollisionPolicy func(current, incoming any) any

// Mode is a named function together with its bound default options.
type Mode struct {
	name     string
	doc      string
	fn       Func
	defaults Options
}

// New binds the given defaults to fn under the given name. The doc
// string is surfaced as command help by the cli package.
func New(name, doc string, fn Func, defaults Options) *Mode {
	bound := make(Options, len(defaults))
	for k, v := range defaults {
		bound[k] = v
	}

	return &Mode{name: name, doc: doc, fn: fn, defaults: bound}
}

// Extends builds a mode whose defaults are merged from the parents.
// When two parents bind the same key to different values, the policy
// registered for that key decides the result; with no policy the merge
// fails with ErrCollision. Equal values never collide.
func Extends(name, doc string, fn Func, parents []*Mode, policies map[string]CollisionPolicy) (*Mode, error) {
	merged := Options{}

	for _, parent := range parents {
		for _, k := range sortedKeys(parent.defaults) {
			v := parent.defaults[k]

			current, bound := merged[k]
			if !bound {
				merged[k] = v
				continue
			}

			if policy, ok := policies[k]; ok {
				merged[k] = policy(current, v)
			} else if !reflect.DeepEqual(current, v) {
				return nil, fmt.Errorf("%w: key %q bound by more than one mode and no policy specified", ErrCollision, k)
			}
		}
	}

	return New(name, doc, fn, merged), nil
}

// Name returns the mode's name.
func (m *Mode) Name() string { return m.name }

// Doc returns the mode's description.
func (m *Mode) Doc() string { return m.doc }

// Option returns the default bound for a key.
func (m *Mode) Option(key string) (any, bool) {
	v, ok := m.defaults[key]
	return v, ok
}

// Defaults returns a copy of the bound default options.
func (m *Mode) Defaults() Options {
	out := make(Options, len(m.defaults))
	for k, v := range m.defaults {
		out[k] = v
	}

	return out
}

// Call runs the mode with the caller options merged over the bound
// defaults. A key supplied both by the caller and by the defaults is a
// collision and fails the call.
func (m *Mode) Call(opts Options) error {
	merged := make(Options, len(opts)+len(m.defaults))
	for k, v := range opts {
		merged[k] = v
	}

	var colliding []string
	for k, v := range m.defaults {
		if _, ok := merged[k]; ok {
			colliding = append(colliding, k)
			continue
		}
		merged[k] = v
	}

	if len(colliding) > 0 {
		sort.Strings(colliding)
		return fmt.Errorf("%w: %v", ErrCollision, colliding)
	}

	return m.fn(merged)
}

// Wrap returns a copy of the mode whose function is transformed by w.
// Decorator-style helpers (see persist.WithDir) build on this.
func (m *Mode) Wrap(w func(Func) Func) *Mode {
	return &Mode{name: m.name, doc: m.doc, fn: w(m.fn), defaults: m.Defaults()}
}

func sortedKeys(opts Options) []string {
	keys := make([]string, 0, len(opts))
	for k := range opts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}
