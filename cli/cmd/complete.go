package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sqlstudio/sqlcore/internal/analyzer"
	"github.com/sqlstudio/sqlcore/internal/cursor"
	"github.com/sqlstudio/sqlcore/internal/parser"
	"github.com/sqlstudio/sqlcore/internal/rope"
	"github.com/sqlstudio/sqlcore/internal/scanner"
)

var completeLimit int

var completeCmd = &cobra.Command{
	Use:   "complete <file.sql> <offset>",
	Short: "Print ranked completions for the cursor position at <offset>",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 2 {
			_ = cmd.Help()
			return errors.New("need to specify arguments <file.sql> <offset>")
		}
		text, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		offset, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("offset must be an integer: %w", err)
		}

		scanned, err := scanner.ScanRope(rope.NewRope(string(text)))
		if err != nil {
			return err
		}
		parsed := parser.Parse(scanned)

		b := analyzer.New(analyzer.Options{ContextID: contextID, Database: database, Schema: schema})
		result, _ := b.Analyze(parsed)

		pos := cursor.Move(parsed, offset)
		eng := cursor.NewEngine()
		for _, c := range eng.Complete(parsed, result, pos, "", completeLimit) {
			fmt.Printf("%-20s %v\n", c.Text, c.Tag)
		}
		return nil
	},
}

func init() {
	completeCmd.Flags().IntVarP(&completeLimit, "limit", "n", 10, "maximum number of completions to print")
	rootCmd.AddCommand(completeCmd)
}
