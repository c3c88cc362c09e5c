// Package hclfmt implements the "hcl" format plugin using hashicorp/hcl/v2
// and zclconf/go-cty, a second structured text format beside jsonfmt,
// grounded on the teacher's internal/writeback/format.go export path
// (structured-config rendering) generalized to graph fields.
package hclfmt

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"

	"github.com/dev-formata-io/stof-sub002/internal/format"
	"github.com/dev-formata-io/stof-sub002/internal/graph"
	"github.com/dev-formata-io/stof-sub002/internal/ids"
	"github.com/dev-formata-io/stof-sub002/internal/stoferrors"
	"github.com/dev-formata-io/stof-sub002/internal/value"
)

type Format struct{}

func New() *Format { return &Format{} }

func (*Format) Name() string { return "hcl" }

func (f *Format) BinaryImport(ctx context.Context, g *graph.Graph, node format.NodeTarget, data []byte) *stoferrors.Error {
	return f.StringImport(ctx, g, node, string(data))
}

func (f *Format) StringImport(ctx context.Context, g *graph.Graph, node format.NodeTarget, text string) *stoferrors.Error {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL([]byte(text), "import.hcl")
	if diags.HasErrors() {
		return stoferrors.Wrap(stoferrors.KindFormatImportNotImplemented, diags, "parse hcl")
	}
	attrs, diags := hclFile.Body.JustAttributes()
	if diags.HasErrors() {
		return stoferrors.Wrap(stoferrors.KindFormatImportNotImplemented, diags, "read hcl attributes")
	}
	nodeId, ok := resolveNode(g, node)
	if !ok {
		return stoferrors.New(stoferrors.KindNodeNotFound, "import target not found")
	}
	for name, attr := range attrs {
		v, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return stoferrors.Wrap(stoferrors.KindFormatImportNotImplemented, diags, "evaluate %q", name)
		}
		g.SetFieldValue(nodeId, name, ctyToVal(v))
	}
	return nil
}

func (f *Format) BinaryExport(ctx context.Context, g *graph.Graph, node format.NodeTarget) ([]byte, *stoferrors.Error) {
	return nil, stoferrors.New(stoferrors.KindFormatExportNotImplemented, "hcl export has no distinct binary form")
}

func (f *Format) StringExport(ctx context.Context, g *graph.Graph, node format.NodeTarget) (string, *stoferrors.Error) {
	nodeId, ok := resolveNode(g, node)
	if !ok {
		return "", stoferrors.New(stoferrors.KindNodeNotFound, "export target not found")
	}
	out := hclwrite.NewEmptyFile()
	body := out.Body()
	g.EachField(nodeId, func(name string, v value.Val) {
		body.SetAttributeValue(name, valToCty(v))
	})
	return string(out.Bytes()), nil
}

func resolveNode(g *graph.Graph, node format.NodeTarget) (ids.SId, bool) {
	if node.Id == "" {
		roots := g.Roots()
		if len(roots) == 0 {
			return "", false
		}
		return roots[0], true
	}
	id := ids.SId(node.Id)
	return id, g.NodeExists(id)
}

func ctyToVal(v cty.Value) value.Val {
	if v.IsNull() {
		return value.NullVal()
	}
	t := v.Type()
	switch {
	case t == cty.Bool:
		return value.BoolVal(v.True())
	case t == cty.Number:
		f, _ := v.AsBigFloat().Float64()
		return value.FloatVal(f)
	case t == cty.String:
		return value.StrVal(v.AsString())
	case t.IsListType() || t.IsTupleType():
		items := make([]value.Val, 0)
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			items = append(items, ctyToVal(ev))
		}
		return value.ListVal(items)
	case t.IsObjectType() || t.IsMapType():
		m := value.NewOrderedMap()
		for it := v.ElementIterator(); it.Next(); {
			ek, ev := it.Element()
			m.Set(value.StrVal(ek.AsString()), ctyToVal(ev))
		}
		return value.MapVal(m)
	default:
		return value.StrVal(fmt.Sprintf("%v", v))
	}
}

func valToCty(v value.Val) cty.Value {
	switch v.Kind {
	case value.Null, value.Void:
		return cty.NullVal(cty.DynamicPseudoType)
	case value.Bool:
		return cty.BoolVal(v.Bool())
	case value.Number:
		return cty.NumberFloatVal(v.Num().AsFloat())
	case value.String:
		return cty.StringVal(v.Str())
	case value.List, value.Tuple:
		var items []value.Val
		if v.Kind == value.List {
			items = v.List()
		} else {
			items = v.Tuple()
		}
		if len(items) == 0 {
			return cty.ListValEmpty(cty.DynamicPseudoType)
		}
		vals := make([]cty.Value, len(items))
		for i, it := range items {
			vals[i] = valToCty(it)
		}
		return cty.TupleVal(vals)
	case value.Map:
		vals := map[string]cty.Value{}
		v.Map().Each(func(k, val value.Val) {
			vals[k.Str()] = valToCty(val)
		})
		if len(vals) == 0 {
			return cty.EmptyObjectVal
		}
		return cty.ObjectVal(vals)
	default:
		return cty.StringVal(v.Str())
	}
}

var _ hcl.Diagnostics
