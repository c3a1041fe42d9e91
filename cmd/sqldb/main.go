// Package main is a thin CLI wrapper over sqlitekit.Run: it owns the
// --schema/--file/--sql flag surface and stdout formatting, nothing else.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sqlitekit/sqlitekit"
	"github.com/sqlitekit/sqlitekit/pkg/database"
	"github.com/sqlitekit/sqlitekit/pkg/schema"
)

const version = "0.1.0"

type runFlags struct {
	file   string
	sql    string
	schema string
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "sqldb",
		Short: "In-memory SQL engine",
	}

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	flags := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute a batch of SQL statements",
		Long: `Executes a semicolon-separated batch of SQL statements against a fresh,
empty in-memory database and prints one result per statement.

Examples:
  sqldb run --sql "CREATE TABLE t (x INTEGER); INSERT INTO t VALUES (1); SELECT * FROM t;"
  sqldb run --file batch.sql
  sqldb run --schema fixture.yaml --file batch.sql
  cat batch.sql | sqldb run`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runBatch(flags)
		},
	}

	cmd.Flags().StringVarP(&flags.file, "file", "f", "", "Path to a file containing the SQL batch")
	cmd.Flags().StringVar(&flags.sql, "sql", "", "SQL batch text")
	cmd.Flags().StringVar(&flags.schema, "schema", "", "Path to a YAML/JSON schema snapshot to preload")

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the sqldb version",
		RunE: func(_ *cobra.Command, _ []string) error {
			fmt.Println(version)
			return nil
		},
	}
}

func runBatch(flags *runFlags) error {
	batch, err := readBatch(flags)
	if err != nil {
		return err
	}

	db := database.New()
	if flags.schema != "" {
		s, err := schema.LoadFromFile(flags.schema)
		if err != nil {
			return fmt.Errorf("failed to load schema: %w", err)
		}
		if err := s.Apply(db); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	for i, res := range sqlitekit.Run(db, batch) {
		printResult(i+1, res)
	}
	return nil
}

func readBatch(flags *runFlags) (string, error) {
	if flags.sql != "" {
		return flags.sql, nil
	}
	if flags.file != "" {
		data, err := os.ReadFile(flags.file)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", flags.file, err)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(bufio.NewReader(os.Stdin))
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

func printResult(n int, res sqlitekit.Result) {
	if res.Err != nil {
		fmt.Printf("[%d] %s\n", n, res.Err)
		return
	}
	if res.Columns == nil {
		fmt.Printf("[%d] OK\n", n)
		return
	}

	fmt.Printf("[%d] %s\n", n, strings.Join(res.Columns, " | "))
	for _, row := range res.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = v.String()
		}
		fmt.Println("    " + strings.Join(cells, " | "))
	}
}
