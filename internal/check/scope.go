package check

import (
	"github.com/nail-lang/nailc/internal/span"
	"github.com/nail-lang/nailc/internal/types"
)

// Symbol is a named entity visible in some scope: a binding, a function
// parameter, or a top-level function.
type Symbol struct {
	Name    string
	Type    types.Type
	DefSpan span.Span
}

// Scope maps identifiers to their declared types. Scopes nest: function
// bodies, blocks, comprehension bodies, and conditional branches each open
// a child scope. A child is owned by its parent and recorded in Children
// so the finished symbol table can be walked after checking.
type Scope struct {
	Parent   *Scope
	Symbols  map[string]*Symbol
	Children []*Scope
}

// NewScope creates a scope under parent, registering it as a child. A nil
// parent creates the global scope.
func NewScope(parent *Scope) *Scope {
	s := &Scope{Parent: parent, Symbols: make(map[string]*Symbol)}
	if parent != nil {
		parent.Children = append(parent.Children, s)
	}
	return s
}

// Insert binds name in this scope. Re-inserting an existing name is how
// shadowing works: the new Symbol replaces the old one for all subsequent
// lookups, and the old binding is never mutated.
func (s *Scope) Insert(sym *Symbol) {
	s.Symbols[sym.Name] = sym
}

// Lookup resolves name against the innermost scope containing it.
func (s *Scope) Lookup(name string) *Symbol {
	if sym, ok := s.Symbols[name]; ok {
		return sym
	}
	if s.Parent != nil {
		return s.Parent.Lookup(name)
	}
	return nil
}

// LookupLocal resolves name in this scope only, ignoring parents.
func (s *Scope) LookupLocal(name string) *Symbol {
	return s.Symbols[name]
}
