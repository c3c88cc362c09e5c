// Package permissions implements Stof's permission model (component J),
// mirrored from original_source/src/core/runtime/permissions.rs: per-scope
// Access policy with general/override resolution and private/readonly
// attribute gating on fields and functions.
package permissions

import (
	"github.com/dev-formata-io/stof-sub002/internal/graph"
	"github.com/dev-formata-io/stof-sub002/internal/ids"
)

// Access is a scope's resolved capability.
type Access int

const (
	AccessNone Access = iota
	AccessRead
	AccessWrite
)

func (a Access) CanRead() bool  { return a == AccessRead || a == AccessWrite }
func (a Access) CanWrite() bool { return a == AccessWrite }

// ScopePermissions maps scopes (nodes) to an explicit Access, falling back
// to Access::Write when nothing along the scope's ancestor chain matches —
// this is the resolution default spec.md calls out explicitly, distinct
// from Access's own zero value (AccessNone).
type ScopePermissions struct {
	scopes map[ids.SId]Access
}

func NewScopePermissions() *ScopePermissions {
	return &ScopePermissions{scopes: make(map[ids.SId]Access)}
}

func (s *ScopePermissions) Set(scope ids.NodeRef, access Access) {
	s.scopes[scope.Id] = access
}

func (s *ScopePermissions) Access(g *graph.Graph, scope ids.NodeRef) Access {
	if a, ok := s.scopes[scope.Id]; ok {
		return a
	}
	path := scope.NodePath(g)
	for i := len(path) - 2; i >= 0; i-- { // skip scope itself (last element), walk upward
		if a, ok := s.scopes[path[i]]; ok {
			return a
		}
	}
	return AccessWrite
}

func (s *ScopePermissions) Merge(other *ScopePermissions) {
	for scope, access := range other.scopes {
		if _, ok := s.scopes[scope]; !ok {
			s.scopes[scope] = access
		}
	}
}

// Permissions is a document's full policy: a lockable flag, general scope
// permissions, and per-"from" overrides.
type Permissions struct {
	Locked  bool
	General *ScopePermissions
	Scope   map[ids.SId]*ScopePermissions
}

func New() *Permissions {
	return &Permissions{General: NewScopePermissions(), Scope: make(map[ids.SId]*ScopePermissions)}
}

func Locked() *Permissions {
	p := New()
	p.Locked = true
	return p
}

// Access resolves the access scope has, as seen from the (optional) from
// node.
func (p *Permissions) Access(g *graph.Graph, scope ids.NodeRef, from *ids.NodeRef) Access {
	if p.Locked {
		return AccessNone
	}
	if from != nil {
		if fromPerms, ok := p.Scope[from.Id]; ok {
			return fromPerms.Access(g, scope)
		}
		path := from.NodePath(g)
		for i := len(path) - 2; i >= 0; i-- {
			if fromPerms, ok := p.Scope[path[i]]; ok {
				return fromPerms.Access(g, scope)
			}
		}
	}
	return p.General.Access(g, scope)
}

func (p *Permissions) SetGeneralAccess(scope ids.NodeRef, access Access) {
	p.General.Set(scope, access)
}

func (p *Permissions) SetAccessFrom(from, scope ids.NodeRef, access Access) {
	fromPerms, ok := p.Scope[from.Id]
	if !ok {
		fromPerms = NewScopePermissions()
		p.Scope[from.Id] = fromPerms
	}
	fromPerms.Set(scope, access)
}

func (p *Permissions) Merge(other *Permissions) {
	p.General.Merge(other.General)
	for scope, perms := range other.Scope {
		if _, ok := p.Scope[scope]; !ok {
			p.Scope[scope] = perms
		}
	}
}

// DocPermissions layers private/readonly attribute gating on top of
// Permissions, matching the original's can_read_field/can_write_field/
// can_read_func/can_write_func.
type DocPermissions struct {
	Permissions *Permissions
}

func NewDocPermissions() *DocPermissions {
	return &DocPermissions{Permissions: New()}
}

func (dp *DocPermissions) canAccessScope(g *graph.Graph, nref ids.NodeRef, from *ids.NodeRef, private bool, want func(Access) bool) bool {
	access := dp.Permissions.Access(g, nref, from)
	if !want(access) {
		return false
	}
	if !private {
		return true
	}
	if from == nil {
		return false
	}
	return from.Id == nref.Id
}

func (dp *DocPermissions) canAccessData(g *graph.Graph, d *graph.Data, from *ids.NodeRef, private bool, want func(Access) bool) bool {
	for _, nref := range d.Nodes {
		if dp.canAccessScope(g, nref, from, private, want) {
			return true
		}
	}
	return false
}

func (dp *DocPermissions) CanReadField(g *graph.Graph, d *graph.Data, from *ids.NodeRef) bool {
	return dp.canAccessData(g, d, from, d.IsPrivate(), Access.CanRead)
}

func (dp *DocPermissions) CanWriteField(g *graph.Graph, d *graph.Data, from *ids.NodeRef) bool {
	if d.IsReadonly() {
		return false
	}
	return dp.canAccessData(g, d, from, d.IsPrivate(), Access.CanWrite)
}

func (dp *DocPermissions) CanReadFunc(g *graph.Graph, d *graph.Data, from *ids.NodeRef) bool {
	return dp.canAccessData(g, d, from, d.IsPrivate(), Access.CanRead)
}

func (dp *DocPermissions) CanWriteFunc(g *graph.Graph, d *graph.Data, from *ids.NodeRef) bool {
	return dp.canAccessData(g, d, from, d.IsPrivate(), Access.CanWrite)
}
