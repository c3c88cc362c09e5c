package graph

import (
	"github.com/dev-formata-io/stof-sub002/internal/ids"
	"github.com/dev-formata-io/stof-sub002/internal/value"
)

// DataKind is the closed tag distinguishing Stof's core data kinds. This
// replaces the legacy dynamic-downcast-any Data trait pattern with a
// closed sum, per the re-architecture called out in the design notes: every
// data item is one of a small fixed set of kinds, not an arbitrary boxed
// Go value recovered by type assertion.
type DataKind int

const (
	KindField DataKind = iota
	KindFunction
	KindPrototype
	KindCustom
)

func (k DataKind) String() string {
	switch k {
	case KindField:
		return "Field"
	case KindFunction:
		return "Function"
	case KindPrototype:
		return "Prototype"
	case KindCustom:
		return "Custom"
	default:
		return "Unknown"
	}
}

// FieldData is the payload of a KindField data item: a named value with a
// declared type (optional) and an attribute bag (private/readonly/etc, plus
// arbitrary user metadata per the Supplemented Features note on generic
// attribute stores).
type FieldData struct {
	Value        value.Val
	DeclaredType *value.Type
	Attributes   map[string]value.Val
}

// FunctionData is the payload of a KindFunction data item. Body is an
// opaque `any` holding a proc.Instructions value — graph does not import
// internal/proc, which itself imports graph; internal/proc knows the
// concrete type and type-asserts it.
type FunctionData struct {
	Name       string
	Params     []FuncParam
	ReturnType *value.Type
	Body       any
	Attributes map[string]value.Val
}

type FuncParam struct {
	Name         string
	DeclaredType *value.Type
	Default      *value.Val
}

// PrototypeData is the payload of a KindPrototype data item: a node's type
// tag, used by Object.instance_of/upcast to walk an inheritance stack.
// Stack holds the full chain of inherited type names (outermost ancestor
// first, this prototype's own TypeName last), per the Supplemented
// Features note on typepath/typename stacks: instance_of/upcast check the
// whole chain, not just a single prototype hop.
type PrototypeData struct {
	TypeName string
	TypePath string // dotted path to the prototype-defining node
	Stack    []string
	Custom   map[string]value.Val
}

// CustomData holds a format-plugin-specific payload (e.g. parsed-but-not-
// yet-materialized import state) identified by a string tag so format
// plugins can recognize their own data without a Go type assertion to a
// format-specific package (which would create import cycles between
// internal/format and internal/graph).
type CustomData struct {
	Tag     string
	Payload any
}

// Data is one attachment in the graph: an id, the set of nodes that refer
// to it, and exactly one of the payload kinds above.
type Data struct {
	Id    ids.SId
	Nodes []ids.NodeRef
	Kind  DataKind

	Field     *FieldData
	Function  *FunctionData
	Prototype *PrototypeData
	Custom    *CustomData
}

func NewFieldData(id ids.SId, v value.Val) *Data {
	return &Data{Id: id, Kind: KindField, Field: &FieldData{Value: v, Attributes: map[string]value.Val{}}}
}

func NewFunctionData(id ids.SId, name string) *Data {
	return &Data{Id: id, Kind: KindFunction, Function: &FunctionData{Name: name, Attributes: map[string]value.Val{}}}
}

func NewPrototypeData(id ids.SId, typeName string) *Data {
	return &Data{Id: id, Kind: KindPrototype, Prototype: &PrototypeData{TypeName: typeName, Stack: []string{typeName}}}
}

func NewCustomData(id ids.SId, tag string, payload any) *Data {
	return &Data{Id: id, Kind: KindCustom, Custom: &CustomData{Tag: tag, Payload: payload}}
}

// NewReference records a new referring node; RefRemoved removes one and
// reports whether the data item is now orphaned (nodes list empty) and
// should be recycled to the deadpool.
func (d *Data) NewReference(n ids.NodeRef) {
	for _, existing := range d.Nodes {
		if existing == n {
			return
		}
	}
	d.Nodes = append(d.Nodes, n)
}

func (d *Data) RefRemoved(n ids.NodeRef) (orphaned bool) {
	for i, existing := range d.Nodes {
		if existing == n {
			d.Nodes = append(d.Nodes[:i], d.Nodes[i+1:]...)
			break
		}
	}
	return len(d.Nodes) == 0
}

func (d *Data) RefCount() int { return len(d.Nodes) }

// attributes returns the data item's attribute bag regardless of kind, used
// by component J's private/readonly gating.
func (d *Data) attributes() map[string]value.Val {
	switch d.Kind {
	case KindField:
		return d.Field.Attributes
	case KindFunction:
		return d.Function.Attributes
	default:
		return nil
	}
}

func (d *Data) IsPrivate() bool {
	attrs := d.attributes()
	if attrs == nil {
		return false
	}
	_, ok := attrs["private"]
	return ok
}

func (d *Data) IsReadonly() bool {
	attrs := d.attributes()
	if attrs == nil {
		return false
	}
	v, ok := attrs["readonly"]
	return ok && (v.Kind != value.Bool || v.Bool())
}
