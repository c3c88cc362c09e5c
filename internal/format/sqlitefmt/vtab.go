package sqlitefmt

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"github.com/RoaringBitmap/roaring"
	"modernc.org/sqlite/vtab"
)

// RefsModule is a SQL virtual table module exposing a graph's data->node
// reference fan-out as a queryable (data_id, node_id) table, grounded on
// the teacher's internal/refsvtab/refs_module.go (which exposed a
// token->file-path bitmap index the same way). A data item in Stof can be
// attached to more than one node (graph.Data.Nodes), so the same
// roaring-bitmap-per-key index the teacher built for "which files mention
// this token" applies directly to "which nodes hold this data item" —
// only the schema's column names and the resolved id space change, from
// token/file-path to data_id/node_id.
//
// Exported databases carry their own node_ids/data_refs tables (written
// by saveToDB), so a client opening a *.sqlite export with
// `SELECT load_extension`-free modernc.org/sqlite and a RegisterDB call
// can query `SELECT node_id FROM stof_refs WHERE data_id = 'somedataid'`
// without walking the graph in memory at all.
type RefsModule struct {
	mu  sync.RWMutex
	dbs map[string]*sql.DB
}

var (
	refsOnce   sync.Once
	refsSingle *RefsModule
	refsErr    error
)

// RegisterRefsModule registers the "stof_refs" virtual table module with
// the sqlite driver exactly once per process, returning the shared
// RefsModule an embedder then calls RegisterDB on.
func RegisterRefsModule() (*RefsModule, error) {
	refsOnce.Do(func() {
		refsSingle = &RefsModule{dbs: make(map[string]*sql.DB)}
		if err := vtab.RegisterModule(nil, "stof_refs", refsSingle); err != nil {
			refsErr = fmt.Errorf("sqlitefmt: register stof_refs module: %w", err)
			refsSingle = nil
		}
	})
	return refsSingle, refsErr
}

// RegisterDB makes db queryable under id via `... USING stof_refs(id)`.
func (m *RefsModule) RegisterDB(id string, db *sql.DB) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dbs[id] = db
}

// UnregisterDB drops a previously registered database, e.g. once its
// Document has been closed.
func (m *RefsModule) UnregisterDB(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.dbs, id)
}

// ---------------------------------------------------------------------------
// vtab.Module
// ---------------------------------------------------------------------------

func (m *RefsModule) Create(ctx vtab.Context, args []string) (vtab.Table, error) {
	// Standard xCreate argv shape: argv[0] module name, argv[1] db name,
	// argv[2] table name, argv[3]... the arguments inside USING module(...).
	if len(args) < 4 {
		return nil, fmt.Errorf("stof_refs: missing db id argument (expected USING stof_refs(id))")
	}
	id := args[3]

	m.mu.RLock()
	db, ok := m.dbs[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("stof_refs: unknown db id %q", id)
	}

	if err := ctx.Declare("CREATE TABLE x(data_id TEXT, node_id TEXT)"); err != nil {
		return nil, err
	}
	return &refsTable{db: db}, nil
}

func (m *RefsModule) Connect(ctx vtab.Context, args []string) (vtab.Table, error) {
	return m.Create(ctx, args)
}

// ---------------------------------------------------------------------------
// vtab.Table
// ---------------------------------------------------------------------------

type refsTable struct {
	db *sql.DB
}

func (t *refsTable) BestIndex(info *vtab.IndexInfo) error {
	for i := range info.Constraints {
		c := &info.Constraints[i]
		if !c.Usable || c.Column != 0 {
			continue
		}
		switch c.Op {
		case vtab.OpEQ:
			c.ArgIndex = 0
			c.Omit = true
			info.IdxNum = 1
			info.EstimatedCost = 1
			info.EstimatedRows = 10
			return nil
		case vtab.OpLIKE:
			c.ArgIndex = 0
			c.Omit = true
			info.IdxNum = 2
			info.EstimatedCost = 100
			info.EstimatedRows = 100
			return nil
		}
	}
	info.IdxNum = 0
	info.EstimatedCost = 1e6
	info.EstimatedRows = 1e6
	return nil
}

func (t *refsTable) Open() (vtab.Cursor, error) { return &refsCursor{table: t}, nil }
func (t *refsTable) Disconnect() error          { return nil }
func (t *refsTable) Destroy() error             { return nil }

// ---------------------------------------------------------------------------
// vtab.Cursor
// ---------------------------------------------------------------------------

type refsRow struct {
	dataId string
	nodeId string
}

type refsCursor struct {
	table *refsTable
	rows  []refsRow
	pos   int
}

func (c *refsCursor) Filter(idxNum int, idxStr string, vals []vtab.Value) error {
	c.rows = c.rows[:0]
	c.pos = 0

	db := c.table.db
	if db == nil {
		return nil
	}

	switch idxNum {
	case 1:
		dataId, ok := vals[0].(string)
		if !ok {
			return nil
		}
		return c.loadOne(db, dataId)
	case 2:
		pattern, ok := vals[0].(string)
		if !ok {
			return nil
		}
		return c.loadFiltered(db, pattern)
	default:
		return c.loadAll(db)
	}
}

func (c *refsCursor) loadOne(db *sql.DB, dataId string) error {
	var blob []byte
	err := db.QueryRow(`SELECT bitmap FROM data_refs WHERE data_id = ?`, dataId).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("stof_refs: query data_id %q: %w", dataId, err)
	}
	return c.expandBitmap(db, dataId, blob)
}

func (c *refsCursor) loadFiltered(db *sql.DB, pattern string) error {
	type entry struct {
		dataId string
		blob   []byte
	}
	rows, err := db.Query(`SELECT data_id, bitmap FROM data_refs WHERE data_id LIKE ?`, pattern)
	if err != nil {
		return fmt.Errorf("stof_refs: filtered scan (LIKE %q): %w", pattern, err)
	}
	var entries []entry
	for rows.Next() {
		var e entry
		if err := rows.Scan(&e.dataId, &e.blob); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return fmt.Errorf("stof_refs: filtered scan rows: %w", err)
	}
	_ = rows.Close()
	for _, e := range entries {
		if err := c.expandBitmap(db, e.dataId, e.blob); err != nil {
			return err
		}
	}
	return nil
}

func (c *refsCursor) loadAll(db *sql.DB) error {
	type entry struct {
		dataId string
		blob   []byte
	}
	rows, err := db.Query(`SELECT data_id, bitmap FROM data_refs`)
	if err != nil {
		return fmt.Errorf("stof_refs: scan data_refs: %w", err)
	}
	var entries []entry
	for rows.Next() {
		var e entry
		if err := rows.Scan(&e.dataId, &e.blob); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return fmt.Errorf("stof_refs: scan data_refs rows: %w", err)
	}
	_ = rows.Close()
	for _, e := range entries {
		if err := c.expandBitmap(db, e.dataId, e.blob); err != nil {
			return err
		}
	}
	return nil
}

// expandBitmap resolves a roaring bitmap of integer node ids into
// (data_id, node_id-string) rows via the node_ids lookup table.
func (c *refsCursor) expandBitmap(db *sql.DB, dataId string, blob []byte) error {
	rb := roaring.New()
	if err := rb.UnmarshalBinary(blob); err != nil {
		return fmt.Errorf("stof_refs: unmarshal bitmap for %q: %w", dataId, err)
	}

	var intIds []uint32
	it := rb.Iterator()
	for it.HasNext() {
		intIds = append(intIds, it.Next())
	}
	if len(intIds) == 0 {
		return nil
	}

	args := make([]any, len(intIds))
	placeholders := make([]string, len(intIds))
	for i, id := range intIds {
		args[i] = id
		placeholders[i] = "?"
	}

	query := fmt.Sprintf(`SELECT node_id FROM node_ids WHERE int_id IN (%s)`, strings.Join(placeholders, ","))
	rows, err := db.Query(query, args...)
	if err != nil {
		return fmt.Errorf("stof_refs: resolve node_ids: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var nodeId string
		if err := rows.Scan(&nodeId); err != nil {
			continue
		}
		c.rows = append(c.rows, refsRow{dataId: dataId, nodeId: nodeId})
	}
	return rows.Err()
}

func (c *refsCursor) Next() error { c.pos++; return nil }
func (c *refsCursor) Eof() bool   { return c.pos >= len(c.rows) }

func (c *refsCursor) Column(col int) (vtab.Value, error) {
	if c.pos >= len(c.rows) {
		return nil, nil
	}
	switch col {
	case 0:
		return c.rows[c.pos].dataId, nil
	case 1:
		return c.rows[c.pos].nodeId, nil
	default:
		return nil, nil
	}
}

func (c *refsCursor) Rowid() (int64, error) { return int64(c.pos), nil }
func (c *refsCursor) Close() error          { c.rows = nil; return nil }
