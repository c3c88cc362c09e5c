// Package symbols implements Stof's symbol table (component D): a
// lexically-scoped stack of variable scopes, grounded on the scope-counter
// push/pop/search-top-down design of
// original_source/src/core/runtime/symbols.rs, generalized with the
// declared-type and const tracking spec.md requires.
package symbols

import (
	"fmt"

	"github.com/dev-formata-io/stof-sub002/internal/value"
)

// Variable is one entry in a scope: its current value, an optional
// declared type enforced on assignment (cast-or-fail), and whether
// reassignment is rejected.
type Variable struct {
	Value   value.Val
	Type    *value.Type
	Const   bool
}

type scope struct {
	vars map[string]*Variable
}

func newScope() *scope { return &scope{vars: make(map[string]*Variable)} }

// Table is a stack of scopes; scope 0 is the outermost (never popped).
type Table struct {
	scopes []*scope
}

func New() *Table {
	return &Table{scopes: []*scope{newScope()}}
}

func (t *Table) PushScope() { t.scopes = append(t.scopes, newScope()) }

func (t *Table) PopScope() {
	if len(t.scopes) > 1 {
		t.scopes = t.scopes[:len(t.scopes)-1]
	}
}

func (t *Table) current() *scope { return t.scopes[len(t.scopes)-1] }

// HasInCurrent reports whether name is declared in the innermost scope —
// used to reject re-declaration within the same block.
func (t *Table) HasInCurrent(name string) bool {
	_, ok := t.current().vars[name]
	return ok
}

// Declare inserts name into the current scope. declaredType may be nil (no
// static check on assignment); const rejects future Set calls.
func (t *Table) Declare(name string, v value.Val, declaredType *value.Type, isConst bool) error {
	if t.HasInCurrent(name) {
		return fmt.Errorf("%q is already declared in this scope", name)
	}
	if declaredType != nil && !declaredType.Matches(value.TypeOf(v)) {
		return fmt.Errorf("cannot declare %q as %s with a value of type %s", name, declaredType, value.TypeOf(v))
	}
	t.current().vars[name] = &Variable{Value: v, Type: declaredType, Const: isConst}
	return nil
}

// Get searches from the current scope outward to scope 0.
func (t *Table) Get(name string) (*Variable, bool) {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if v, ok := t.scopes[i].vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Set assigns to the nearest existing binding of name (searching outward),
// casting to the declared type if one is set; it does not create a new
// binding if none exists, matching the original's no-insert-on-miss
// set_variable.
func (t *Table) Set(name string, v value.Val) error {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		variable, ok := t.scopes[i].vars[name]
		if !ok {
			continue
		}
		if variable.Const {
			return fmt.Errorf("cannot assign to const %q", name)
		}
		if variable.Type != nil && !variable.Type.Matches(value.TypeOf(v)) {
			cast, castErr := v.Cast(*variable.Type)
			if castErr != nil {
				return fmt.Errorf("cannot assign value of type %s to %q (declared %s): %w", value.TypeOf(v), name, variable.Type, castErr)
			}
			v = cast
		}
		variable.Value = v
		return nil
	}
	return fmt.Errorf("%q is not declared", name)
}

func (t *Table) Remove(name string) bool {
	_, ok := t.current().vars[name]
	delete(t.current().vars, name)
	return ok
}
