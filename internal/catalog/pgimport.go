package catalog

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/sqlstudio/sqlcore/internal/analyzer"
)

// ImportPostgresSchema walks information_schema.columns over an
// already-open pgx pool and builds a synthetic AnalyzedScript so it can
// be registered with a Catalog (or fed to analyzer.RegisterExternalTables
// directly) as an external schema.
func ImportPostgresSchema(ctx context.Context, pool *pgxpool.Pool, contextID uint32, db, schema string, log logrus.FieldLogger) (*analyzer.AnalyzedScript, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	log = log.WithField("schema", schema)
	log.Info("importing postgres schema")

	rows, err := pool.Query(ctx, `
		select table_name, column_name, ordinal_position
		from information_schema.columns
		where table_schema = $1
		order by table_name, ordinal_position`, schema)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	script := &analyzer.AnalyzedScript{ContextID: contextID, Database: db, Schema: schema}
	byTable := make(map[string]int)
	for rows.Next() {
		var tableName, columnName string
		var ordinal int
		if err := rows.Scan(&tableName, &columnName, &ordinal); err != nil {
			return nil, err
		}
		idx, ok := byTable[tableName]
		if !ok {
			idx = len(script.Tables)
			byTable[tableName] = idx
			script.Tables = append(script.Tables, analyzer.TableDeclaration{
				Name: analyzer.QualifiedName{Catalog: db, Schema: schema, Relation: tableName},
				ID:   analyzer.ContextObjectID{ContextID: contextID, Index: uint32(idx)},
			})
		}
		script.Tables[idx].Columns = append(script.Tables[idx].Columns, analyzer.ColumnDeclaration{
			Name:  columnName,
			Index: ordinal - 1,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	log.WithField("tables", len(script.Tables)).Info("postgres schema import complete")
	return script, nil
}
