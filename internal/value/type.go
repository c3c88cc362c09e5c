package value

import "strings"

// Type is a (possibly structured) Stof type: a plain Kind, an object type
// named by prototype path, a union of alternatives, an unknown wildcard, or
// a promised (async function return) type that unwraps before matching.
type Type struct {
	Kind      Kind
	Object    string // prototype type-path, only meaningful when Kind == Object
	Unknown   bool
	Union     []Type
	Promised  *Type
}

func KindType(k Kind) Type   { return Type{Kind: k} }
func ObjectType(path string) Type { return Type{Kind: Object, Object: path} }
func UnknownType() Type      { return Type{Unknown: true} }
func UnionType(alts ...Type) Type { return Type{Union: alts} }
func PromiseType(inner Type) Type { return Type{Promised: &inner} }

// Matches implements the original's custom PartialEq for Type: Unknown
// matches anything, a Union matches if any alternative matches, and a
// Promise unwraps to its inner type before comparing.
func (t Type) Matches(o Type) bool {
	if t.Unknown || o.Unknown {
		return true
	}
	if t.Promised != nil {
		return t.Promised.Matches(o)
	}
	if o.Promised != nil {
		return t.Matches(*o.Promised)
	}
	if len(t.Union) > 0 {
		for _, alt := range t.Union {
			if alt.Matches(o) {
				return true
			}
		}
		return false
	}
	if len(o.Union) > 0 {
		return o.Matches(t)
	}
	if t.Kind != o.Kind {
		return false
	}
	if t.Kind == Object {
		return t.Object == "" || o.Object == "" || t.Object == o.Object
	}
	return true
}

func (t Type) String() string {
	switch {
	case t.Unknown:
		return "unknown"
	case t.Promised != nil:
		return "promise<" + t.Promised.String() + ">"
	case len(t.Union) > 0:
		parts := make([]string, len(t.Union))
		for i, alt := range t.Union {
			parts[i] = alt.String()
		}
		return strings.Join(parts, "|")
	case t.Kind == Object && t.Object != "":
		return t.Object
	default:
		return t.Kind.String()
	}
}

// TypeOf returns the generic type of a value.
func TypeOf(v Val) Type {
	t := Type{Kind: v.Kind}
	return t
}

// GenLibName returns the library-dispatch name used to look up a Val's
// generic-type library (e.g. "Number", "String", "List") — component G
// looks up LibFuncs by this name first, then falls back to the `Object`
// type's custom-prototype name if the value is an object with one.
func GenLibName(v Val) string {
	switch v.Kind {
	case Number:
		return "Number"
	case String:
		return "String"
	case Bool:
		return "Bool"
	case Ver:
		return "Version"
	case Object:
		return "Object"
	case Function:
		return "Function"
	case Data:
		return "Data"
	case Blob:
		return "Blob"
	case List:
		return "List"
	case Tuple:
		return "Tuple"
	case Map:
		return "Map"
	case Set:
		return "Set"
	case Promise:
		return "Promise"
	default:
		return "Std"
	}
}
