package lang

import (
	"iter"
	"log/slog"
	"maps"
	"slices"
)

// Scope maps names to bindings and defers unresolved lookups to its
// parent. A Scope is not safe for concurrent use.
type Scope struct {
	parent   *Scope
	bindings map[string]Binding
}

// NewScope returns an empty scope chained to parent, which may be nil.
func NewScope(parent *Scope) *Scope {
	return &Scope{
		parent:   parent,
		bindings: make(map[string]Binding),
	}
}

// Parent returns the enclosing scope, or nil for a root scope.
func (s *Scope) Parent() *Scope { return s.parent }

// Declare binds name in this scope. It fails with [ErrConstRedeclaration]
// if this scope already holds a const binding for name. Bindings in parent
// scopes are shadowed, never checked.
func (s *Scope) Declare(name string, b Binding) error {
	if prev, ok := s.bindings[name]; ok && prev.Modifier == ModConst {
		return ErrConstRedeclaration.With(slog.String("name", name))
	}

	s.bindings[name] = b

	return nil
}

// Merge declares every local binding of from in s. Either all bindings are
// declared or, when one would redeclare a const in s, none are.
func (s *Scope) Merge(from *Scope) error {
	names := slices.Sorted(maps.Keys(from.bindings))

	for _, name := range names {
		if prev, ok := s.bindings[name]; ok && prev.Modifier == ModConst {
			return ErrConstRedeclaration.With(slog.String("name", name))
		}
	}

	for _, name := range names {
		s.bindings[name] = from.bindings[name]
	}

	return nil
}

// Lookup resolves name in this scope, then in each ancestor.
func (s *Scope) Lookup(name string) (Binding, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if b, ok := sc.bindings[name]; ok {
			return b, true
		}
	}

	return Binding{}, false
}

// Local resolves name in this scope only.
func (s *Scope) Local(name string) (Binding, bool) {
	b, ok := s.bindings[name]

	return b, ok
}

// All yields every visible binding, nearest scope first, in name order
// within each scope. Shadowed bindings are skipped.
func (s *Scope) All() iter.Seq2[string, Binding] {
	return func(yield func(string, Binding) bool) {
		seen := make(map[string]struct{})

		for sc := s; sc != nil; sc = sc.parent {
			for _, name := range slices.Sorted(maps.Keys(sc.bindings)) {
				if _, ok := seen[name]; ok {
					continue
				}

				seen[name] = struct{}{}

				if !yield(name, sc.bindings[name]) {
					return
				}
			}
		}
	}
}

// Names returns the sorted names of every visible binding.
func (s *Scope) Names() []string {
	var names []string
	for name := range s.All() {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}
