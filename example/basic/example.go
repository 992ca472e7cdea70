// Package example is a worked end-to-end walkthrough of the engine: two
// scripts sharing a catalog, one declaring a table, the other referencing
// it, resolved across scripts through the shared catalog and the full
// scan/parse/analyze/reindex lifecycle.
package example

import (
	"fmt"

	"github.com/gofrs/uuid"

	sqlcore "github.com/sqlstudio/sqlcore"
	"github.com/sqlstudio/sqlcore/ffi"
	"github.com/sqlstudio/sqlcore/internal/catalog"
)

// SchemaSQL is the external script that declares the table used by QuerySQL.
const SchemaSQL = `create table main.db.t(x int)`

// QuerySQL is the script whose column reference resolves against SchemaSQL
// once both are registered in the same Catalog.
const QuerySQL = `select x from t`

// NewContextID folds a freshly generated UUID down to a non-zero uint32
// context id, for callers (CLI sessions, this example) that don't already
// have a natural identity to hand Script; collisions are acceptable here
// since it only needs to be unique within one process's Catalog.
func NewContextID() uint32 {
	id := uuid.Must(uuid.NewV4())
	return fnv1aFold(id.Bytes())
}

func fnv1aFold(b []byte) uint32 {
	const offset32 = 2166136261
	const prime32 = 16777619
	h := uint32(offset32)
	for _, c := range b {
		h ^= uint32(c)
		h *= prime32
	}
	if h == 0 {
		h = 1
	}
	return h
}

func expectOK(status ffi.Status, stage string) error {
	if status != ffi.OK {
		return fmt.Errorf("%s: %s", stage, status)
	}
	return nil
}

// Run builds the schema script and the query script in a shared catalog,
// analyzes both, and returns the analyzed query script, whose single
// column reference resolves to SchemaSQL's declaration of x.
func Run() (*sqlcore.Script, error) {
	cat := catalog.New()

	schema, status := sqlcore.NewScript(NewContextID(), cat, SchemaSQL)
	if err := expectOK(status, "new schema script"); err != nil {
		return nil, err
	}
	if err := expectOK(schema.Scan().Status, "scan schema"); err != nil {
		return nil, err
	}
	if err := expectOK(schema.Parse().Status, "parse schema"); err != nil {
		return nil, err
	}
	if err := expectOK(schema.Analyze(sqlcore.AnalyzeOptions{Database: "main", Schema: "db"}).Status, "analyze schema"); err != nil {
		return nil, err
	}
	if err := expectOK(schema.Reindex().Status, "reindex schema"); err != nil {
		return nil, err
	}

	query, status := sqlcore.NewScript(NewContextID(), cat, QuerySQL)
	if err := expectOK(status, "new query script"); err != nil {
		return nil, err
	}
	if err := expectOK(query.Scan().Status, "scan query"); err != nil {
		return nil, err
	}
	if err := expectOK(query.Parse().Status, "parse query"); err != nil {
		return nil, err
	}
	external := schema.ContextID()
	if err := expectOK(query.Analyze(sqlcore.AnalyzeOptions{External: &external}).Status, "analyze query"); err != nil {
		return nil, err
	}
	return query, nil
}
