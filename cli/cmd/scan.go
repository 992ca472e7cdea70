package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/repr"
	"github.com/spf13/cobra"

	"github.com/sqlstudio/sqlcore/internal/rope"
	"github.com/sqlstudio/sqlcore/internal/scanner"
)

var scanCmd = &cobra.Command{
	Use:   "scan <file.sql>",
	Short: "Scan a SQL file and print its packed token stream",
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
		if len(scanned.Errors) > 0 {
			fmt.Println("Errors:")
			for _, e := range scanned.Errors {
				pos := scanned.PosAt(e.Location.Offset)
				fmt.Printf("  %d:%d: %s\n", pos.Line, pos.Col, e.Message)
			}
		}
		repr.Println(scanned.Pack())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
}
