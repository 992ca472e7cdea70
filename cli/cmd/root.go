package cmd

import (
	"github.com/gofrs/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:          "sqlcore",
		Short:        "sqlcore",
		SilenceUsage: true,
		Long:         `CLI driver for the incremental SQL scripting engine: scan, parse, analyze, and complete SQL scripts against an optional catalog database.`,
	}

	contextID uint32
	database  string
	schema    string

	log = logrus.StandardLogger()
)

// Execute executes the root command.
func Execute() error {
	rootCmd.PersistentFlags().Uint32VarP(&contextID, "context", "c", 0, "context id to analyze the script under (0 generates a fresh one for this invocation)")
	rootCmd.PersistentFlags().StringVar(&database, "database", "", "database name used to resolve unqualified table references")
	rootCmd.PersistentFlags().StringVar(&schema, "schema", "", "schema name used to resolve unqualified table references")
	cobra.OnInitialize(func() {
		if contextID == 0 {
			contextID = contextIDFromUUID()
		}
	})
	return rootCmd.Execute()
}

// contextIDFromUUID generates a fresh non-zero context id for a single CLI
// invocation that was not given a stable one, by folding a UUIDv4 down to
// a uint32. Context ids only need to be unique within the catalog of one
// invocation, so a fold collision is harmless.
func contextIDFromUUID() uint32 {
	id := uuid.Must(uuid.NewV4())
	b := id.Bytes()
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
