// Package stof is the embedder-facing API (§6 of the design): a Document
// wires together a graph, a cooperative scheduler, the library and format
// registries, and a permission policy into the single object an embedder
// constructs, imports into, calls functions against, and exports from.
package stof

import (
	"context"
	"strings"
	"time"

	"github.com/dev-formata-io/stof-sub002/internal/format"
	"github.com/dev-formata-io/stof-sub002/internal/format/bytesfmt"
	"github.com/dev-formata-io/stof-sub002/internal/format/hclfmt"
	"github.com/dev-formata-io/stof-sub002/internal/format/jsonfmt"
	"github.com/dev-formata-io/stof-sub002/internal/format/sqlitefmt"
	"github.com/dev-formata-io/stof-sub002/internal/fscap"
	"github.com/dev-formata-io/stof-sub002/internal/graph"
	"github.com/dev-formata-io/stof-sub002/internal/ids"
	"github.com/dev-formata-io/stof-sub002/internal/lib/bloblib"
	"github.com/dev-formata-io/stof-sub002/internal/lib/corelib"
	"github.com/dev-formata-io/stof-sub002/internal/lib/datalib"
	"github.com/dev-formata-io/stof-sub002/internal/lib/funclib"
	"github.com/dev-formata-io/stof-sub002/internal/lib/jsonlib"
	"github.com/dev-formata-io/stof-sub002/internal/lib/listlib"
	"github.com/dev-formata-io/stof-sub002/internal/lib/maplib"
	"github.com/dev-formata-io/stof-sub002/internal/lib/numberlib"
	"github.com/dev-formata-io/stof-sub002/internal/lib/objectlib"
	"github.com/dev-formata-io/stof-sub002/internal/lib/setlib"
	"github.com/dev-formata-io/stof-sub002/internal/lib/strlib"
	"github.com/dev-formata-io/stof-sub002/internal/lib/timelib"
	"github.com/dev-formata-io/stof-sub002/internal/lib/tuplelib"
	"github.com/dev-formata-io/stof-sub002/internal/lib/versionlib"
	"github.com/dev-formata-io/stof-sub002/internal/library"
	"github.com/dev-formata-io/stof-sub002/internal/permissions"
	"github.com/dev-formata-io/stof-sub002/internal/proc"
	"github.com/dev-formata-io/stof-sub002/internal/stoferrors"
	"github.com/dev-formata-io/stof-sub002/internal/value"
)

// Document is one isolated graph + scheduler + registries, matching §5's
// "one scheduler + graph per request" isolation contract: nothing here is
// package-level global state (§9's Design Notes), so an embedder serving
// concurrent requests constructs one Document per request.
type Document struct {
	Graph       *graph.Graph
	Scheduler   *proc.Scheduler
	Libraries   *library.Registry
	Formats     *format.Registry
	Permissions *permissions.DocPermissions
	Filesystem  *fscap.Capability
}

// New constructs a Document with every core library and every in-pack
// format plugin registered — the "batteries included" default an embedder
// can selectively prune with RemoveLib.
func New() *Document {
	d := &Document{
		Graph:       graph.New(),
		Scheduler:   proc.NewScheduler(),
		Libraries:   library.NewRegistry(),
		Formats:     format.NewRegistry(),
		Permissions: permissions.NewDocPermissions(),
		Filesystem:  fscap.Disabled(),
	}
	for _, lib := range [][]library.Func{
		numberlib.Funcs(), strlib.Funcs(), listlib.Funcs(), maplib.Funcs(),
		setlib.Funcs(), tuplelib.Funcs(), bloblib.Funcs(), datalib.Funcs(),
		funclib.Funcs(), objectlib.Funcs(), versionlib.Funcs(), timelib.Funcs(),
		corelib.Funcs(), jsonlib.Funcs(),
	} {
		d.Libraries.RegisterAll(lib)
	}

	d.Formats.Register(jsonfmt.New())
	d.Formats.Register(hclfmt.New())
	d.Formats.Register(bytesfmt.New())
	d.Formats.Register(sqlitefmt.New())
	return d
}

// WithFilesystem grants this Document a filesystem capability, enabling
// bytesfmt.FileImport/FileExport and any other FileCapableFormat. Passing
// fscap.Disabled() (the default) revokes it again.
func (d *Document) WithFilesystem(cap *fscap.Capability) *Document {
	d.Filesystem = cap
	d.Formats.Register(bytesfmt.WithFilesystem(cap))
	return d
}

// RemoveLib revokes a capability by deleting every function registered
// under name, matching §6's "remove_lib(name)" revocation contract (e.g. an
// embedder drops "Std" to forbid scripts from printing, or never registers
// a filesystem-backed format to forbid file I/O).
func (d *Document) RemoveLib(name string) {
	d.Libraries.RemoveLibrary(name)
}

// FindPath resolves a dotted node path (sep-separated, e.g. "app.settings")
// against the document's graph, optionally anchored at start (nil searches
// the roots), matching original_source/src/model/graph.rs's
// find_node_named. It returns the resolved node, or false if any segment
// is missing.
func (d *Document) FindPath(path, sep string, start *ids.NodeRef) (ids.NodeRef, bool) {
	var anchor ids.SId
	if start != nil {
		anchor = start.Id
	}
	id, ok := d.Graph.FindNodeNamed(path, sep, anchor)
	if !ok {
		return ids.NodeRef{}, false
	}
	return ids.NewNodeRef(id), true
}

// EnsurePath resolves path the same way FindPath does, creating any missing
// node along the way (as a root for the first segment when start is nil,
// otherwise as a child of the current node), matching original_source/src/
// model/graph.rs's create_named_path_nodes. Import targets use this to
// materialize a destination node from a dotted path before writing into it.
func (d *Document) EnsurePath(path, sep string, start *ids.NodeRef) (ids.NodeRef, bool) {
	var anchor ids.SId
	if start != nil {
		anchor = start.Id
	}
	id, ok := d.Graph.EnsureNodes(path, sep, anchor, true)
	if !ok {
		return ids.NodeRef{}, false
	}
	return ids.NewNodeRef(id), true
}

func targetOf(into *ids.NodeRef) format.NodeTarget {
	if into == nil {
		return format.Root()
	}
	return format.NodeTarget{Id: into.Id.String()}
}

func (d *Document) StringImport(ctx context.Context, formatName, source string, into *ids.NodeRef) *stoferrors.Error {
	return d.Formats.ImportString(ctx, d.Graph, formatName, targetOf(into), source)
}

func (d *Document) BinaryImport(ctx context.Context, formatName string, data []byte, into *ids.NodeRef) *stoferrors.Error {
	return d.Formats.ImportBytes(ctx, d.Graph, formatName, targetOf(into), data)
}

// FileImport imports path in formatName. Formats that implement
// format.FileCapableFormat (currently just "bytes", gated on
// d.Filesystem) handle the path directly; every other registered format
// is made file-capable generically here by reading the file through
// d.Filesystem and delegating to BinaryImport, so file_import works for
// any format as long as a filesystem capability was granted, matching
// §4.J's "capability gates the concern, not the format".
func (d *Document) FileImport(ctx context.Context, formatName, path string, into *ids.NodeRef) *stoferrors.Error {
	if f, ok := d.Formats.Lookup(formatName); ok {
		if _, ok := f.(format.FileCapableFormat); ok {
			return d.Formats.ImportFile(ctx, d.Graph, formatName, targetOf(into), path)
		}
	}
	data, err := d.Filesystem.ReadFile(path)
	if err != nil {
		return err
	}
	return d.BinaryImport(ctx, formatName, data, into)
}

func (d *Document) StringExport(ctx context.Context, formatName string, from *ids.NodeRef) (string, *stoferrors.Error) {
	return d.Formats.ExportString(ctx, d.Graph, formatName, targetOf(from))
}

func (d *Document) BinaryExport(ctx context.Context, formatName string, from *ids.NodeRef) ([]byte, *stoferrors.Error) {
	return d.Formats.ExportBytes(ctx, d.Graph, formatName, targetOf(from))
}

// FileExport is FileImport's mirror: formats without their own file
// capability fall back to BinaryExport + d.Filesystem.WriteFile.
func (d *Document) FileExport(ctx context.Context, formatName, path string, from *ids.NodeRef) *stoferrors.Error {
	if f, ok := d.Formats.Lookup(formatName); ok {
		if _, ok := f.(format.FileCapableFormat); ok {
			return d.Formats.ExportFile(ctx, d.Graph, formatName, targetOf(from), path)
		}
	}
	data, err := d.BinaryExport(ctx, formatName, from)
	if err != nil {
		return err
	}
	return d.Filesystem.WriteFile(path, data)
}

// Call invokes the function named name attached to self, running it to
// completion on this Document's scheduler and returning its result or
// error. This is the embedder-facing half of component F's process model:
// instructions already compiled into a graph (by a parser or a format
// importer) are driven by the same Scheduler/Process machinery a running
// script uses internally, just for a single synchronous round-trip.
func (d *Document) Call(ctx context.Context, self ids.NodeRef, name string, args []value.Val) (value.Val, *stoferrors.Error) {
	ins, params, err := d.resolveFunction(self, name)
	if err != nil {
		return value.Val{}, err
	}
	if len(args) != len(params) {
		return value.Val{}, stoferrors.New(stoferrors.KindCallArity, "%s expects %d args, got %d", name, len(params), len(args))
	}

	pid := d.Scheduler.Spawn(self, ins)
	proc, ok := d.Scheduler.Process(pid)
	if !ok {
		return value.Val{}, stoferrors.New(stoferrors.KindNodeNotFound, "failed to spawn process for %s", name)
	}
	for i, p := range params {
		if err := proc.Env.Table.Declare(p.Name, args[i], p.DeclaredType, false); err != nil {
			return value.Val{}, stoferrors.New(stoferrors.KindCallArity, "%s: %s", name, err)
		}
	}

	return d.drain(ctx, pid)
}

// resolveFunction looks up self's Function data named name and returns its
// compiled instruction body, type-asserting the FunctionData.Body any
// produced by the (out-of-scope) compiler into internal/proc's concrete
// Instructions type.
func (d *Document) resolveFunction(self ids.NodeRef, name string) (proc.Instructions, []graph.FuncParam, *stoferrors.Error) {
	n, ok := d.Graph.Node(self.Id)
	if !ok {
		return proc.Instructions{}, nil, stoferrors.New(stoferrors.KindNodeNotFound, "node %s not found", self.Id)
	}
	dataId, ok := n.GetData(name)
	if !ok {
		return proc.Instructions{}, nil, stoferrors.New(stoferrors.KindLibraryFuncNotFound, "function %q not found on %s", name, self.Id)
	}
	data, ok := d.Graph.Data(dataId)
	if !ok || data.Kind != graph.KindFunction {
		return proc.Instructions{}, nil, stoferrors.New(stoferrors.KindLibraryFuncNotFound, "%q is not a function", name)
	}
	ins, ok := data.Function.Body.(proc.Instructions)
	if !ok {
		return proc.Instructions{}, nil, stoferrors.New(stoferrors.KindCastNotPossible, "function %q has no compiled body", name)
	}
	return ins, data.Function.Params, nil
}

// drain ticks the scheduler until pid lands in done or errored, honoring
// ctx cancellation. There is no real wall-clock I/O driving this loop (the
// core has no parser-driven timers of its own), so sleeping processes
// simply wake on the next tick once their deadline has passed.
func (d *Document) drain(ctx context.Context, pid ids.SId) (value.Val, *stoferrors.Error) {
	for {
		select {
		case <-ctx.Done():
			d.Scheduler.Cancel(pid)
			return value.Val{}, stoferrors.New(stoferrors.KindWaitTargetGone, "call to %s cancelled", pid)
		default:
		}

		d.Scheduler.Tick(d.Graph, time.Now())

		if p, ok := d.Scheduler.Done(pid); ok {
			if p.Result != nil {
				return *p.Result, nil
			}
			return value.VoidVal(), nil
		}
		if err, ok := d.Scheduler.Errored(pid); ok {
			return value.Val{}, err
		}
		if d.Scheduler.Idle() {
			// Every remaining process is asleep or waiting; give the clock a
			// moment to advance rather than spinning the CPU.
			time.Sleep(time.Millisecond)
		}
	}
}

// RunAttributeFunctions runs every function anywhere under root (or just
// root's immediate data, if recursive is false) tagged with any attribute
// in attrs, returning name -> result for those that completed and
// name -> error for those that raised, matching §6's
// run_attribute_functions contract.
func (d *Document) RunAttributeFunctions(ctx context.Context, root ids.NodeRef, attrs []string, recursive bool) (map[string]value.Val, map[string]*stoferrors.Error) {
	results := make(map[string]value.Val)
	errs := make(map[string]*stoferrors.Error)

	var walk func(nodeId ids.SId)
	walk = func(nodeId ids.SId) {
		n, ok := d.Graph.Node(nodeId)
		if !ok {
			return
		}
		for _, name := range n.DataNames() {
			dataId, _ := n.GetData(name)
			data, ok := d.Graph.Data(dataId)
			if !ok || data.Kind != graph.KindFunction {
				continue
			}
			if !hasAnyAttribute(data.Function.Attributes, attrs) {
				continue
			}
			v, err := d.Call(ctx, ids.NewNodeRef(nodeId), name, nil)
			if err != nil {
				errs[name] = err
			} else {
				results[name] = v
			}
		}
		if recursive {
			for _, child := range n.Children {
				walk(child)
			}
		}
	}
	walk(root.Id)
	return results, errs
}

func hasAnyAttribute(attrs map[string]value.Val, wanted []string) bool {
	for _, w := range wanted {
		if _, ok := attrs[w]; ok {
			return true
		}
	}
	return false
}

// TestResult is one function tagged #[test]'s outcome.
type TestResult struct {
	Name   string
	Passed bool
	Err    *stoferrors.Error
}

// TestReport is run_tests's return value per spec.md §6.
type TestReport struct {
	Total   int
	Passed  int
	Failed  int
	Results []TestResult
}

// RunTests calls every function tagged #[test] anywhere under root whose
// name contains filter (a plain substring match; "" matches everything),
// recursing into child nodes when includeNested is true. A test function
// fails if calling it raises — in particular if one of its assert* calls
// raises stoferrors.KindAssertFailed — and passes otherwise, matching
// §6's run_tests(include_nested, filter?) contract.
func (d *Document) RunTests(ctx context.Context, root ids.NodeRef, includeNested bool, filter string) TestReport {
	var report TestReport

	var walk func(nodeId ids.SId)
	walk = func(nodeId ids.SId) {
		n, ok := d.Graph.Node(nodeId)
		if !ok {
			return
		}
		for _, name := range n.DataNames() {
			dataId, _ := n.GetData(name)
			data, ok := d.Graph.Data(dataId)
			if !ok || data.Kind != graph.KindFunction {
				continue
			}
			if !hasAnyAttribute(data.Function.Attributes, []string{"test"}) {
				continue
			}
			if filter != "" && !strings.Contains(name, filter) {
				continue
			}
			_, err := d.Call(ctx, ids.NewNodeRef(nodeId), name, nil)
			result := TestResult{Name: name, Passed: err == nil, Err: err}
			report.Results = append(report.Results, result)
			report.Total++
			if err == nil {
				report.Passed++
			} else {
				report.Failed++
			}
		}
		if includeNested {
			for _, child := range n.Children {
				walk(child)
			}
		}
	}
	walk(root.Id)
	return report
}
