// Package library implements Stof's library dispatch registry (component
// G): a flat namespace of callable functions grouped by library name
// ("Number", "String", "Object", "Std", ...), grounded on
// original_source/src/model/libraries/mod.rs's LibFunc/Library shape.
package library

import (
	"context"

	"github.com/dev-formata-io/stof-sub002/internal/graph"
	"github.com/dev-formata-io/stof-sub002/internal/stoferrors"
	"github.com/dev-formata-io/stof-sub002/internal/value"
)

// Call is the signature every registered library function implements: it
// receives the graph, the object the call is scoped to (the "self" the
// call was dispatched against, zero value if none), and the already
// value-evaluated arguments, returning a single result value.
type Call func(ctx context.Context, g *graph.Graph, self value.Val, args []value.Val) (value.Val, *stoferrors.Error)

// Param declares one formal parameter of a library function: its name, an
// optional static type (args are cast to it in place before Impl runs), and
// an optional default-value expression used to fill a missing trailing
// argument. Mirrors graph.FuncParam's shape on the user-defined-function
// side of the same concept.
type Param struct {
	Name         string
	DeclaredType *value.Type
	Default      *value.Val
}

// Func is one registered library function: its name, arity bounds, whether
// it must run inside an async process, and the Go implementation. Params,
// UnboundedArgs, and ReturnType are optional enrichments (spec.md §4.G) —
// a Func built with only MinArity/MaxArity still works exactly as before,
// since Registry.Call only consults Params when it's non-empty.
type Func struct {
	Library       string
	Name          string
	MinArity      int
	MaxArity      int // -1 means unbounded (variadic)
	Params        []Param
	UnboundedArgs bool
	ReturnType    *value.Type
	IsAsync       bool
	Docs          string
	Impl          Call
}

func (f Func) checkArity(n int) *stoferrors.Error {
	if n < f.MinArity || (f.MaxArity >= 0 && n > f.MaxArity) {
		return stoferrors.New(stoferrors.KindCallArity, "%s.%s expects %d..%d args, got %d", f.Library, f.Name, f.MinArity, f.MaxArity, n)
	}
	return nil
}

// bindArgs fills missing trailing arguments from Params' default
// expressions and casts each declared-typed argument in place, implementing
// spec.md §4.G's call sequence for functions declared with a typed
// parameter list. UnboundedArgs lets a call supply more arguments than
// Params declares; the overflow is appended verbatim (uncast, untyped),
// matching a variadic tail.
func (f Func) bindArgs(args []value.Val) ([]value.Val, *stoferrors.Error) {
	if !f.UnboundedArgs && len(args) > len(f.Params) {
		return nil, stoferrors.New(stoferrors.KindCallArity, "%s.%s expects at most %d args, got %d", f.Library, f.Name, len(f.Params), len(args))
	}
	out := make([]value.Val, len(f.Params))
	for i, p := range f.Params {
		switch {
		case i < len(args):
			out[i] = args[i]
		case p.Default != nil:
			out[i] = *p.Default
		default:
			return nil, stoferrors.New(stoferrors.KindCallArity, "%s.%s missing required argument %q", f.Library, f.Name, p.Name)
		}
		if p.DeclaredType != nil {
			cast, err := out[i].Cast(*p.DeclaredType)
			if err != nil {
				return nil, err
			}
			out[i] = cast
		}
	}
	if f.UnboundedArgs && len(args) > len(f.Params) {
		out = append(out, args[len(f.Params):]...)
	}
	return out, nil
}

// Registry is the process-wide (really, document-wide) table of libraries,
// keyed by library name then function name — the same two-level lookup
// the original's LibFunc registry performs before calling into a function.
type Registry struct {
	libs map[string]map[string]Func
}

func NewRegistry() *Registry {
	return &Registry{libs: make(map[string]map[string]Func)}
}

// Register adds fn to the registry, overwriting any previous function of
// the same (library, name) — this is how an embedder extends or overrides
// a standard library function (spec.md §6's "custom library function"
// extension point).
func (r *Registry) Register(fn Func) {
	lib, ok := r.libs[fn.Library]
	if !ok {
		lib = make(map[string]Func)
		r.libs[fn.Library] = lib
	}
	lib[fn.Name] = fn
}

// RegisterAll registers every fn in fns, for library packages that build
// their whole table at init time.
func (r *Registry) RegisterAll(fns []Func) {
	for _, fn := range fns {
		r.Register(fn)
	}
}

// Lookup finds a registered function by library and name.
func (r *Registry) Lookup(library, name string) (Func, bool) {
	lib, ok := r.libs[library]
	if !ok {
		return Func{}, false
	}
	fn, ok := lib[name]
	return fn, ok
}

// HasLibrary reports whether any function is registered under library.
func (r *Registry) HasLibrary(library string) bool {
	_, ok := r.libs[library]
	return ok
}

// RemoveLibrary revokes every function registered under library, matching
// spec.md §6's "remove_lib(name)" capability-revocation contract.
func (r *Registry) RemoveLibrary(library string) {
	delete(r.libs, library)
}

// Call resolves library.name and invokes it against self and args, doing
// arity validation first. Dispatch by generic type (value.GenLibName)
// happens in the caller (internal/proc's call instruction), which is
// responsible for picking `library` from the self value's type before
// calling Call.
func (r *Registry) Call(ctx context.Context, g *graph.Graph, library, name string, self value.Val, args []value.Val) (value.Val, *stoferrors.Error) {
	fn, ok := r.Lookup(library, name)
	if !ok {
		return value.Val{}, stoferrors.New(stoferrors.KindLibraryFuncNotFound, "%s.%s not found", library, name)
	}
	if len(fn.Params) > 0 {
		bound, err := fn.bindArgs(args)
		if err != nil {
			return value.Val{}, err
		}
		return fn.Impl(ctx, g, self, bound)
	}
	if err := fn.checkArity(len(args)); err != nil {
		return value.Val{}, err
	}
	return fn.Impl(ctx, g, self, args)
}
