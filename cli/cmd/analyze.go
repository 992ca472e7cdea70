package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/repr"
	"github.com/spf13/cobra"

	"github.com/sqlstudio/sqlcore/internal/analyzer"
	"github.com/sqlstudio/sqlcore/internal/parser"
	"github.com/sqlstudio/sqlcore/internal/rope"
	"github.com/sqlstudio/sqlcore/internal/scanner"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file.sql>",
	Short: "Scan, parse, and resolve names in a SQL file, printing the analyzed script",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			_ = cmd.Help()
			return errors.New("need to specify argument <file.sql>")
		}
		text, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		scanned, err := scanner.ScanRope(rope.NewRope(string(text)))
		if err != nil {
			return err
		}
		parsed := parser.Parse(scanned)

		b := analyzer.New(analyzer.Options{ContextID: contextID, Database: database, Schema: schema})
		result, err := b.Analyze(parsed)
		if err != nil {
			return err
		}
		if len(result.Errors) > 0 {
			fmt.Println("Errors:")
			for _, e := range result.Errors {
				pos := scanned.PosAt(e.Location.Offset)
				fmt.Printf("  %d:%d: %s\n", pos.Line, pos.Col, e.Message)
			}
		}
		fmt.Printf("%d tables declared, %d table refs, %d column refs, %d join edges\n",
			len(result.Tables), len(result.TableRefs), len(result.ColumnRefs), len(result.JoinEdges))
		repr.Println(result.Tables)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}
