package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/repr"
	"github.com/spf13/cobra"

	"github.com/sqlstudio/sqlcore/internal/parser"
	"github.com/sqlstudio/sqlcore/internal/rope"
	"github.com/sqlstudio/sqlcore/internal/scanner"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file.sql>",
	Short: "Scan and parse a SQL file and print its flat node buffer",
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
		if len(parsed.Errors) > 0 {
			fmt.Println("Errors:")
			for _, e := range parsed.Errors {
				pos := scanned.PosAt(e.Location.Offset)
				fmt.Printf("  %d:%d: %s\n", pos.Line, pos.Col, e.Message)
			}
		}
		fmt.Printf("%d statements, %d nodes\n", len(parsed.Statements), len(parsed.Nodes))
		repr.Println(parsed.Statements)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
}
