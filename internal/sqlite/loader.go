// This file implements JSONL loading for startup.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/todos/pkg/types"
)

// loadTodosJSONL reads todos.jsonl and inserts its records into the todos
// table inside one transaction: either every accepted record is loaded or
// the table stays empty. Malformed lines, records with unparseable fields,
// and records that violate the schema (blank name, duplicate id) are
// skipped. Unknown fields are ignored. Returns the number of records loaded.
func loadTodosJSONL(db *sql.DB, path string) (int, error) {
	records, err := readJSONL(path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", todosFile, err)
	}
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	loaded, err := insertRecords(tx, "todos", todoColumns, records, todoRow)
	if err != nil {
		return 0, fmt.Errorf("loading %s: %w", todosFile, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing load transaction: %w", err)
	}
	return loaded, nil
}

// todoRow decodes one JSONL record into column values for the todos table.
// Names are trimmed like Create trims them. Timestamps are re-formatted so
// that text ordering stays chronological.
func todoRow(rec json.RawMessage) ([]any, bool) {
	var r todoJSON
	if err := json.Unmarshal(rec, &r); err != nil {
		return nil, false
	}
	if r.ID == "" {
		return nil, false
	}
	todo, err := r.toTodo()
	if err != nil {
		return nil, false
	}
	name, err := types.NormalizeName(todo.Name)
	if err != nil {
		return nil, false
	}
	return []any{
		todo.ID,
		name,
		todo.IsComplete,
		formatTime(todo.CreatedAt),
		formatTime(todo.UpdatedAt),
	}, true
}

// insertRecords inserts JSONL records into a SQLite table. The row function
// maps a record to column values in the order of columns, or reports false
// to skip it. Rows rejected by a constraint are skipped as well.
func insertRecords(tx *sql.Tx, table string, columns []string, records []json.RawMessage, row func(json.RawMessage) ([]any, bool)) (int, error) {
	placeholders := make([]string, len(columns))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	insertSQL := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		table,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
	)

	stmt, err := tx.Prepare(insertSQL)
	if err != nil {
		return 0, fmt.Errorf("preparing insert for %s: %w", table, err)
	}
	defer stmt.Close()

	loaded := 0
	for _, rec := range records {
		args, ok := row(rec)
		if !ok {
			continue
		}
		if _, err := stmt.Exec(args...); err != nil {
			continue
		}
		loaded++
	}

	return loaded, nil
}
