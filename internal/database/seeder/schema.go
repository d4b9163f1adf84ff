package seeder

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"helperhub/internal/database"
)

// columnSet lists the columns a seeder writes, per table.
type columnSet map[string][]string

// requireColumns checks every table in want against information_schema in a
// single query and reports all missing columns together.
func requireColumns(ctx context.Context, db database.DB, want columnSet) error {
	if db == nil {
		return database.ErrNilDB
	}
	if len(want) == 0 {
		return nil
	}

	tables := make([]string, 0, len(want))
	for t := range want {
		if t == "" {
			return errors.New("seeder: empty table name")
		}
		tables = append(tables, t)
	}
	sort.Strings(tables)

	rows, err := db.Query(ctx,
		`SELECT table_name, column_name
		 FROM information_schema.columns
		 WHERE table_schema = 'public' AND table_name = ANY($1)`,
		tables,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	have := make(map[string]bool)
	for rows.Next() {
		var table, column string
		if err := rows.Scan(&table, &column); err != nil {
			return err
		}
		have[table+"."+column] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}

	var missing []string
	for _, t := range tables {
		for _, c := range want[t] {
			if !have[t+"."+c] {
				missing = append(missing, t+"."+c)
			}
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("schema mismatch, run migrations first: missing %s", strings.Join(missing, ", "))
	}
	return nil
}
