package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/alecthomas/repr"
	"github.com/spf13/cobra"

	"github.com/sqlstudio/sqlcore/internal/catalog"
)

var importCmd = &cobra.Command{
	Use:   "import <dbname>",
	Short: "Import a configured database's schema into a catalog entry and print it",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			_ = cmd.Help()
			return errors.New("need to specify argument <dbname>")
		}
		dbname := args[0]

		cfg, err := LoadConfig()
		if err != nil {
			return err
		}
		dbcfg, ok := cfg.Databases[dbname]
		if !ok {
			return fmt.Errorf("database %s not present in sqlcore.yaml", dbname)
		}

		ctx := context.Background()
		dbc, err := dbcfg.Open(ctx, log)
		if err != nil {
			return err
		}
		defer dbc.Close()

		result, err := catalog.ImportMSSQLSchema(ctx, dbc, contextID, database, schema, log)
		if err != nil {
			return err
		}
		fmt.Printf("imported %d tables from %s.%s\n", len(result.Tables), database, schema)
		repr.Println(result.Tables)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
