// Command stofserve is a reference server exposing a Document over MCP:
// call, run_attribute_functions, and format import/export as tools. It is
// illustrative of the wire protocol sketched in the embedder API rather
// than a normative implementation.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	stof "github.com/dev-formata-io/stof-sub002"
	"github.com/dev-formata-io/stof-sub002/internal/ids"
	"github.com/dev-formata-io/stof-sub002/internal/value"
)

// docServer owns the single long-lived Document the MCP tools operate on.
// Concurrent tool calls serialize through its scheduler's own cooperative
// single-goroutine run loop; no extra locking is needed here beyond what
// Document.Call/drain already provide.
type docServer struct {
	doc *stof.Document
}

func (s *docServer) requireRoot() (ids.NodeRef, error) {
	roots := s.doc.Graph.Roots()
	if len(roots) == 0 {
		return ids.NodeRef{}, fmt.Errorf("document has no root node; import one first")
	}
	return ids.NewNodeRef(roots[0]), nil
}

func (s *docServer) call(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("function")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	root, err := s.requireRoot()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rawArgs := req.GetStringSlice("args", nil)
	callArgs := make([]value.Val, len(rawArgs))
	for i, a := range rawArgs {
		callArgs[i] = value.StrVal(a)
	}
	v, cerr := s.doc.Call(ctx, root, name, callArgs)
	if cerr != nil {
		return mcp.NewToolResultError(cerr.Error()), nil
	}
	return mcp.NewToolResultText(v.Display()), nil
}

func (s *docServer) runAttributeFunctions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	attrs := req.GetStringSlice("attrs", []string{"main"})
	recursive := req.GetBool("recursive", true)
	root, err := s.requireRoot()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, errs := s.doc.RunAttributeFunctions(ctx, root, attrs, recursive)
	out := ""
	for name, v := range results {
		out += fmt.Sprintf("%s: %s\n", name, v.Display())
	}
	for name, cerr := range errs {
		out += fmt.Sprintf("%s: error: %s\n", name, cerr)
	}
	if len(errs) > 0 {
		return mcp.NewToolResultError(out), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (s *docServer) stringImport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	format, err := req.RequireString("format")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	source, err := req.RequireString("source")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if ierr := s.doc.StringImport(ctx, format, source, nil); ierr != nil {
		return mcp.NewToolResultError(ierr.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("imported as %s (%d root node(s))", format, len(s.doc.Graph.Roots()))), nil
}

func (s *docServer) stringExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	format, err := req.RequireString("format")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, eerr := s.doc.StringExport(ctx, format, nil)
	if eerr != nil {
		return mcp.NewToolResultError(eerr.Error()), nil
	}
	return mcp.NewToolResultText(out), nil
}

// handle realizes the "Request/Response root" wire protocol: the body is
// imported into a transient Request root, every function tagged with an
// attribute named after route is invoked, and the Response root created
// before the handlers run is exported and the body returned. Both roots are
// removed before returning, win or lose.
func (s *docServer) handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	route, err := req.RequireString("route")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	format, err := req.RequireString("format")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	body := req.GetString("body", "")

	request := s.doc.Graph.NewRoot("Request")
	defer s.doc.Graph.RemoveNode(request.Id)
	if body != "" {
		into := ids.NewNodeRef(request.Id)
		if ierr := s.doc.StringImport(ctx, format, body, &into); ierr != nil {
			return mcp.NewToolResultError(ierr.Error()), nil
		}
	}

	response := s.doc.Graph.NewRoot("Response")
	defer s.doc.Graph.RemoveNode(response.Id)

	_, errs := s.doc.RunAttributeFunctions(ctx, ids.NewNodeRef(request.Id), []string{route}, true)
	if len(errs) > 0 {
		for _, cerr := range errs {
			return mcp.NewToolResultError(cerr.Error()), nil
		}
	}

	from := ids.NewNodeRef(response.Id)
	out, eerr := s.doc.StringExport(ctx, format, &from)
	if eerr != nil {
		return mcp.NewToolResultError(eerr.Error()), nil
	}
	return mcp.NewToolResultText(out), nil
}

func main() {
	s := &docServer{doc: stof.New()}

	mcpServer := server.NewMCPServer("stofserve", "0.1.0")

	mcpServer.AddTool(mcp.NewTool("call",
		mcp.WithDescription("Call a named function on the document's root node"),
		mcp.WithString("function", mcp.Required(), mcp.Description("function name")),
		mcp.WithArray("args", mcp.Description("string arguments")),
	), s.call)

	mcpServer.AddTool(mcp.NewTool("run_attribute_functions",
		mcp.WithDescription("Run every function tagged with any of the given attributes"),
		mcp.WithArray("attrs", mcp.Description("attribute names, default [\"main\"]")),
		mcp.WithBoolean("recursive", mcp.Description("search child nodes too, default true")),
	), s.runAttributeFunctions)

	mcpServer.AddTool(mcp.NewTool("string_import",
		mcp.WithDescription("Import a document body of the given format as the document's root"),
		mcp.WithString("format", mcp.Required()),
		mcp.WithString("source", mcp.Required()),
	), s.stringImport)

	mcpServer.AddTool(mcp.NewTool("string_export",
		mcp.WithDescription("Export the document's root node in the given format"),
		mcp.WithString("format", mcp.Required()),
	), s.stringExport)

	mcpServer.AddTool(mcp.NewTool("handle",
		mcp.WithDescription("Post a request body through a Request/Response pair of transient root nodes, per the reference wire protocol"),
		mcp.WithString("route", mcp.Required(), mcp.Description("attribute name routed handlers are tagged with")),
		mcp.WithString("format", mcp.Required()),
		mcp.WithString("body", mcp.Description("request body, empty for no import")),
	), s.handle)

	if err := server.ServeStdio(mcpServer); err != nil {
		log.Fatalf("stofserve: %v", err)
	}
}
