// Package sqlitekit is the public entry point: Run takes a text batch and a
// Database and returns one Result per statement (spec.md §6).
package sqlitekit

import (
	"fmt"

	"github.com/sqlitekit/sqlitekit/pkg/database"
	"github.com/sqlitekit/sqlitekit/pkg/executor"
	"github.com/sqlitekit/sqlitekit/pkg/parser"
	"github.com/sqlitekit/sqlitekit/pkg/table"
)

// Result is one statement's outcome: exactly one of Err, Columns+Rows (a
// query result), or neither (a side-effect-only success) is populated.
type Result struct {
	Columns []string
	Rows    []table.Row
	Err     error
}

// Run parses batch and executes each statement against db in order. A
// parse error on one statement does not abort the batch (spec.md §4.5); an
// execution error likewise only fails the statement that raised it
// (spec.md §7).
func Run(db *database.Database, batch string) []Result {
	items := parser.ParseBatch(batch)
	results := make([]Result, len(items))
	for i, item := range items {
		if item.Err != nil {
			pe, ok := item.Err.(*parser.ParseError)
			if ok {
				results[i] = Result{Err: fmt.Errorf("Parsing Error: Error at line %d, column %d: %s", pe.Line, pe.Column, pe.Message)}
			} else {
				results[i] = Result{Err: fmt.Errorf("Parsing Error: %s", item.Err)}
			}
			continue
		}

		res, err := executor.Exec(db, item.Statement)
		if err != nil {
			results[i] = Result{Err: fmt.Errorf("Execution Error with statement starting on line %d \n Error: %s", item.Line, err)}
			continue
		}
		if res == nil {
			continue
		}
		results[i] = Result{Columns: res.Columns, Rows: res.Rows}
	}
	return results
}
