package catalog

import (
	"context"
	"database/sql"

	_ "github.com/microsoft/go-mssqldb"
	"github.com/sirupsen/logrus"

	"github.com/sqlstudio/sqlcore/internal/analyzer"
)

// ImportMSSQLSchema mirrors ImportPostgresSchema's concern for SQL Server,
// walking sys.tables/sys.columns over an already-open *sql.DB.
func ImportMSSQLSchema(ctx context.Context, db *sql.DB, contextID uint32, database, schema string, log logrus.FieldLogger) (*analyzer.AnalyzedScript, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	log = log.WithField("schema", schema)
	log.Info("importing mssql schema")

	rows, err := db.QueryContext(ctx, `
		select t.name as table_name, c.name as column_name, c.column_id
		from sys.tables t
		join sys.schemas s on s.schema_id = t.schema_id
		join sys.columns c on c.object_id = t.object_id
		where s.name = @p1
		order by t.name, c.column_id`, schema)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	script := &analyzer.AnalyzedScript{ContextID: contextID, Database: database, Schema: schema}
	byTable := make(map[string]int)
	for rows.Next() {
		var tableName, columnName string
		var columnID int
		if err := rows.Scan(&tableName, &columnName, &columnID); err != nil {
			return nil, err
		}
		idx, ok := byTable[tableName]
		if !ok {
			idx = len(script.Tables)
			byTable[tableName] = idx
			script.Tables = append(script.Tables, analyzer.TableDeclaration{
				Name: analyzer.QualifiedName{Catalog: database, Schema: schema, Relation: tableName},
				ID:   analyzer.ContextObjectID{ContextID: contextID, Index: uint32(idx)},
			})
		}
		script.Tables[idx].Columns = append(script.Tables[idx].Columns, analyzer.ColumnDeclaration{
			Name:  columnName,
			Index: columnID - 1,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	log.WithField("tables", len(script.Tables)).Info("mssql schema import complete")
	return script, nil
}
