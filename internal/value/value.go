package value

import (
	"fmt"
	"sort"

	"github.com/dev-formata-io/stof-sub002/internal/ids"
	"github.com/dev-formata-io/stof-sub002/internal/stoferrors"
)

// Kind is Val's generic discriminant (the "generic type" that TypeOf
// reports in Type.Kind, distinct from the more specific type reporting a Val can
// also answer — e.g. two Objects can share Kind Object but differ in
// prototype, two Nums share Kind Number but differ in NumKind/Units).
type Kind int

const (
	Void Kind = iota
	Null
	Bool
	Number
	String
	Ver
	Object
	Function
	Data
	Blob
	List
	Tuple
	Map
	Set
	Promise
)

var kindNames = [...]string{
	"void", "null", "bool", "number", "string", "version",
	"object", "function", "data", "blob", "list", "tuple", "map", "set",
	"promise",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Val is Stof's dynamically-typed runtime value.
type Val struct {
	Kind Kind

	boolVal bool
	numVal  Num
	strVal  string
	verVal  Version
	objVal  ids.NodeRef
	fnVal   ids.DataRef
	dataVal ids.DataRef
	blobVal []byte
	listVal []Val
	tupVal  []Val
	mapVal  *OrderedMap
	setVal  *OrderedSet

	promisePid  ids.SId
	promiseType Type
}

func VoidVal() Val          { return Val{Kind: Void} }
func NullVal() Val          { return Val{Kind: Null} }
func BoolVal(b bool) Val    { return Val{Kind: Bool, boolVal: b} }
func NumVal(n Num) Val      { return Val{Kind: Number, numVal: n} }
func IntVal(i int64) Val    { return NumVal(Int(i)) }
func FloatVal(f float64) Val { return NumVal(Float(f)) }
func StrVal(s string) Val   { return Val{Kind: String, strVal: s} }
func VerVal(v Version) Val  { return Val{Kind: Ver, verVal: v} }
func ObjVal(r ids.NodeRef) Val  { return Val{Kind: Object, objVal: r} }
func FnVal(r ids.DataRef) Val   { return Val{Kind: Function, fnVal: r} }
func DataVal(r ids.DataRef) Val { return Val{Kind: Data, dataVal: r} }
func BlobVal(b []byte) Val  { return Val{Kind: Blob, blobVal: b} }
func ListVal(items []Val) Val { return Val{Kind: List, listVal: items} }
func TupleVal(items []Val) Val { return Val{Kind: Tuple, tupVal: items} }
func MapVal(m *OrderedMap) Val { return Val{Kind: Map, mapVal: m} }
func SetVal(s *OrderedSet) Val { return Val{Kind: Set, setVal: s} }

// PromiseVal wraps a spawned process id and its declared expected return
// type, the value a `spawn` expression captures when the caller doesn't
// immediately await it (component F).
func PromiseVal(pid ids.SId, expected Type) Val {
	return Val{Kind: Promise, promisePid: pid, promiseType: expected}
}

func (v Val) Bool() bool          { return v.boolVal }
func (v Val) Num() Num            { return v.numVal }
func (v Val) Str() string         { return v.strVal }
func (v Val) Ver() Version        { return v.verVal }
func (v Val) Obj() ids.NodeRef    { return v.objVal }
func (v Val) Fn() ids.DataRef     { return v.fnVal }
func (v Val) Data() ids.DataRef   { return v.dataVal }
func (v Val) Blob() []byte        { return v.blobVal }
func (v Val) List() []Val         { return v.listVal }
func (v Val) Tuple() []Val        { return v.tupVal }
func (v Val) Map() *OrderedMap    { return v.mapVal }
func (v Val) Set() *OrderedSet    { return v.setVal }
func (v Val) PromisePid() ids.SId { return v.promisePid }
func (v Val) PromiseType() Type   { return v.promiseType }

// Display renders v the way a script's print/debug output or a CLI's
// result line should: strings pass through bare, numbers carry their unit
// suffix when present, containers render element-wise. This is the one
// canonical "stringify any Val" path — library/embedder code that needs to
// print a value should call this rather than hand-rolling a switch over
// Kind.
func (v Val) Display() string {
	switch v.Kind {
	case String:
		return v.strVal
	case Number:
		n := v.numVal
		switch n.Kind {
		case NumInt:
			return fmt.Sprintf("%d", n.Int)
		case NumUnits:
			return fmt.Sprintf("%g%s", n.Float, n.Units.Name)
		default:
			return fmt.Sprintf("%g", n.Float)
		}
	case Bool:
		return fmt.Sprintf("%t", v.boolVal)
	case Ver:
		return v.verVal.String()
	case Null:
		return "null"
	case Void:
		return "void"
	case Blob:
		return fmt.Sprintf("blob(%d bytes)", len(v.blobVal))
	case List:
		parts := make([]string, len(v.listVal))
		for i, e := range v.listVal {
			parts[i] = e.Display()
		}
		return "[" + joinComma(parts) + "]"
	case Tuple:
		parts := make([]string, len(v.tupVal))
		for i, e := range v.tupVal {
			parts[i] = e.Display()
		}
		return "(" + joinComma(parts) + ")"
	case Promise:
		return fmt.Sprintf("promise<%s>(%s)", v.promiseType, v.promisePid)
	default:
		return fmt.Sprintf("<%v>", v.Kind)
	}
}

func joinComma(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}

// Truthy implements Stof's notion of truthiness for use in if/while tests.
func (v Val) Truthy() bool {
	switch v.Kind {
	case Void, Null:
		return false
	case Bool:
		return v.boolVal
	case Number:
		return v.numVal.AsFloat() != 0
	case String:
		return v.strVal != ""
	case Blob:
		return len(v.blobVal) > 0
	case List:
		return len(v.listVal) > 0
	case Tuple:
		return len(v.tupVal) > 0
	case Map:
		return v.mapVal != nil && v.mapVal.Len() > 0
	case Set:
		return v.setVal != nil && v.setVal.Len() > 0
	default:
		return true
	}
}

// Equal implements value equality across Val's variants.
func (v Val) Equal(o Val) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case Void, Null:
		return true
	case Bool:
		return v.boolVal == o.boolVal
	case Number:
		return v.numVal.Equal(o.numVal)
	case String:
		return v.strVal == o.strVal
	case Ver:
		return v.verVal.Compare(o.verVal) == 0
	case Object:
		return v.objVal == o.objVal
	case Function:
		return v.fnVal == o.fnVal
	case Data:
		return v.dataVal == o.dataVal
	case Blob:
		if len(v.blobVal) != len(o.blobVal) {
			return false
		}
		for i := range v.blobVal {
			if v.blobVal[i] != o.blobVal[i] {
				return false
			}
		}
		return true
	case List, Tuple:
		a, b := v.listVal, o.listVal
		if v.Kind == Tuple {
			a, b = v.tupVal, o.tupVal
		}
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if !a[i].Equal(b[i]) {
				return false
			}
		}
		return true
	case Map:
		return v.mapVal.Equal(o.mapVal)
	case Set:
		return v.setVal.Equal(o.setVal)
	case Promise:
		return v.promisePid == o.promisePid
	default:
		return false
	}
}

// Compare orders two values for sort()/ordered-collection purposes. It
// returns an error if the two values are of incomparable kinds (the Open
// Question decision: mixed-type sort raises a type error rather than
// falling back to a type-name comparison).
func Compare(a, b Val) (int, error) {
	if a.Kind != b.Kind {
		return 0, fmt.Errorf("cannot compare %s with %s", a.Kind, b.Kind)
	}
	switch a.Kind {
	case Number:
		af, bf := a.numVal.AsFloat(), b.numVal.AsFloat()
		switch {
		case af < bf:
			return -1, nil
		case af > bf:
			return 1, nil
		default:
			return 0, nil
		}
	case String:
		return sortStringCompare(a.strVal, b.strVal), nil
	case Bool:
		if a.boolVal == b.boolVal {
			return 0, nil
		}
		if !a.boolVal {
			return -1, nil
		}
		return 1, nil
	case Ver:
		return a.verVal.Compare(b.verVal), nil
	default:
		return 0, fmt.Errorf("values of kind %s are not orderable", a.Kind)
	}
}

func sortStringCompare(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Cast converts v to target's generic Kind, implementing spec component
// C's value-level cast lattice: a value already matching target's Kind
// passes through unchanged (object casts additionally need the prototype
// chain, which lives in the graph and is checked one layer up, by proc's
// CastIns); blob converts to/from string via a raw UTF-8 reinterpretation;
// blob converts to/from a list of integer byte values. Any other pairing
// fails with KindCastNotPossible. Union and Promise(d) targets recurse:
// a Union target succeeds on the first alternative that accepts the cast,
// and a Promised target unwraps to its inner type first.
func (v Val) Cast(target Type) (Val, *stoferrors.Error) {
	if target.Unknown {
		return v, nil
	}
	if target.Promised != nil {
		return v.Cast(*target.Promised)
	}
	if len(target.Union) > 0 {
		for _, alt := range target.Union {
			if res, err := v.Cast(alt); err == nil {
				return res, nil
			}
		}
		return Val{}, stoferrors.New(stoferrors.KindCastNotPossible, "cannot cast %s to any of %s", v.Kind, target)
	}
	if v.Kind == target.Kind {
		return v, nil
	}
	switch target.Kind {
	case String:
		if v.Kind == Blob {
			return StrVal(string(v.blobVal)), nil
		}
	case Blob:
		switch v.Kind {
		case String:
			return BlobVal([]byte(v.strVal)), nil
		case List:
			out := make([]byte, len(v.listVal))
			for i, e := range v.listVal {
				if e.Kind != Number {
					return Val{}, stoferrors.New(stoferrors.KindCastNotPossible, "list-to-blob cast requires a list of numbers")
				}
				out[i] = byte(int64(e.numVal.AsFloat()))
			}
			return BlobVal(out), nil
		}
	case List:
		if v.Kind == Blob {
			out := make([]Val, len(v.blobVal))
			for i, b := range v.blobVal {
				out[i] = IntVal(int64(b))
			}
			return ListVal(out), nil
		}
	}
	return Val{}, stoferrors.New(stoferrors.KindCastNotPossible, "cannot cast %s to %s", v.Kind, target)
}

// SortValues sorts a slice of Vals in place using Compare, returning an
// error (without modifying order further) on the first incomparable pair
// encountered. The sort is stable, matching List.sort's documented
// stability guarantee.
func SortValues(vals []Val) error {
	var sortErr error
	sort.SliceStable(vals, func(i, j int) bool {
		if sortErr != nil {
			return false
		}
		c, err := Compare(vals[i], vals[j])
		if err != nil {
			sortErr = err
			return false
		}
		return c < 0
	})
	return sortErr
}
