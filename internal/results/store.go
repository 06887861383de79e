// Package results persists evaluation outputs in a SQLite results database:
// a keyed performance table updated method by method, and fixed-schema
// energy-binned tables recreated per run.
package results

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// Default layout of the performance table.
const (
	DefaultPerformanceTable = "performance"
	KeyColumnMethod         = "Method"
)

// Store reads and writes result tables in one SQLite file. The store does no
// cross-process locking; concurrent upserts to the same table must be
// serialized by the caller.
type Store struct {
	db   *sqlx.DB
	path string
}

// Open opens the results database, creating the file when absent.
func Open(path string) (*Store, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrStorageAccess, path, err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: open %s: %v", ErrStorageAccess, path, err)
	}
	return &Store{db: db, path: path}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Path() string { return s.path }

// keyedRow is one row of a keyed table during a rewrite. Values holds every
// non-key column; absent columns read as 0.
type keyedRow struct {
	key    string
	values map[string]float64
}

// Upsert inserts or updates the row identified by key in the named table.
//
// A missing table is created with the key column and the supplied value
// columns. In an existing table the matching row's supplied columns are
// replaced, unsupplied columns keep their prior values, and a missing key
// appends a new row at the end. Value columns absent from the prior schema
// are added to every row with 0 for pre-existing rows. The table is always
// rewritten in full and swapped in atomically, so readers never observe a
// half-updated table.
func (s *Store) Upsert(ctx context.Context, table, keyColumn, key string, values map[string]float64) error {
	if len(values) == 0 {
		return fmt.Errorf("%w: upsert %s key %q: no value columns", ErrStorageAccess, table, key)
	}

	existing, err := s.tableColumns(ctx, table)
	if err != nil {
		return err
	}
	if existing == nil {
		return s.createKeyed(ctx, table, keyColumn, key, values)
	}
	if existing[0] != keyColumn {
		return fmt.Errorf("%w: table %q is keyed by %q, not %q", ErrStorageAccess, table, existing[0], keyColumn)
	}

	// Prior schema order first, then any new columns in sorted order.
	schema := existing[1:]
	known := make(map[string]bool, len(schema))
	for _, c := range schema {
		known[c] = true
	}
	var added []string
	for c := range values {
		if !known[c] {
			added = append(added, c)
		}
	}
	sort.Strings(added)
	schema = append(schema, added...)

	rows, err := s.readKeyed(ctx, table, keyColumn, existing[1:])
	if err != nil {
		return err
	}

	updated := false
	for i := range rows {
		if rows[i].key == key {
			for c, v := range values {
				rows[i].values[c] = v
			}
			updated = true
			break
		}
	}
	if !updated {
		row := keyedRow{key: key, values: make(map[string]float64, len(values))}
		for c, v := range values {
			row.values[c] = v
		}
		rows = append(rows, row)
	}

	if err := s.rewriteKeyed(ctx, table, keyColumn, schema, rows); err != nil {
		return err
	}
	log.Debug().
		Str("table", table).
		Str("key", key).
		Bool("updated", updated).
		Int("rows", len(rows)).
		Msg("keyed upsert complete")
	return nil
}

// createKeyed builds a fresh keyed table holding the single given row.
func (s *Store) createKeyed(ctx context.Context, table, keyColumn, key string, values map[string]float64) error {
	cols := make([]string, 0, len(values))
	for c := range values {
		cols = append(cols, c)
	}
	sort.Strings(cols)

	row := keyedRow{key: key, values: values}
	return s.rewriteKeyed(ctx, table, keyColumn, cols, []keyedRow{row})
}

// readKeyed loads every row in insertion order.
func (s *Store) readKeyed(ctx context.Context, table, keyColumn string, valueCols []string) ([]keyedRow, error) {
	cols := make([]string, 0, len(valueCols)+1)
	cols = append(cols, quoteIdent(keyColumn))
	for _, c := range valueCols {
		cols = append(cols, quoteIdent(c))
	}
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY rowid", strings.Join(cols, ", "), quoteIdent(table))

	rows, err := s.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrStorageAccess, table, err)
	}
	defer rows.Close()

	var out []keyedRow
	key := new(string)
	vals := make([]float64, len(valueCols))
	dest := make([]any, 0, len(valueCols)+1)
	dest = append(dest, key)
	for i := range vals {
		dest = append(dest, &vals[i])
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("%w: scan %s: %v", ErrStorageAccess, table, err)
		}
		row := keyedRow{key: *key, values: make(map[string]float64, len(valueCols))}
		for i, c := range valueCols {
			row.values[c] = vals[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrStorageAccess, table, err)
	}
	return out, nil
}

// rewriteKeyed writes the full row set into a scratch table and swaps it in
// for the old one inside a single transaction.
func (s *Store) rewriteKeyed(ctx context.Context, table, keyColumn string, valueCols []string, rows []keyedRow) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin %s: %v", ErrStorageAccess, table, err)
	}
	defer func() { _ = tx.Rollback() }()

	scratch := table + "_rewrite"
	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoteIdent(scratch)); err != nil {
		return fmt.Errorf("%w: drop scratch for %s: %v", ErrStorageAccess, table, err)
	}

	defs := make([]string, 0, len(valueCols)+1)
	marks := make([]string, 0, len(valueCols)+1)
	defs = append(defs, quoteIdent(keyColumn)+" TEXT")
	marks = append(marks, "?")
	for _, c := range valueCols {
		defs = append(defs, quoteIdent(c)+" REAL")
		marks = append(marks, "?")
	}
	create := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(scratch), strings.Join(defs, ", "))
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("%w: create scratch for %s: %v", ErrStorageAccess, table, err)
	}

	insert := fmt.Sprintf("INSERT INTO %s VALUES (%s)", quoteIdent(scratch), strings.Join(marks, ", "))
	stmt, err := tx.PreparexContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("%w: prepare %s: %v", ErrStorageAccess, table, err)
	}
	defer stmt.Close()

	args := make([]any, len(valueCols)+1)
	for _, row := range rows {
		args[0] = row.key
		for i, c := range valueCols {
			args[i+1] = row.values[c]
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("%w: insert %s key %q: %v", ErrStorageAccess, table, row.key, err)
		}
	}

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoteIdent(table)); err != nil {
		return fmt.Errorf("%w: drop %s: %v", ErrStorageAccess, table, err)
	}
	rename := fmt.Sprintf("ALTER TABLE %s RENAME TO %s", quoteIdent(scratch), quoteIdent(table))
	if _, err := tx.ExecContext(ctx, rename); err != nil {
		return fmt.Errorf("%w: swap %s: %v", ErrStorageAccess, table, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit %s: %v", ErrStorageAccess, table, err)
	}
	return nil
}

// Columns lists the named table's columns in schema order. A missing table
// is ErrStorageAccess.
func (s *Store) Columns(ctx context.Context, table string) ([]string, error) {
	cols, err := s.tableColumns(ctx, table)
	if err != nil {
		return nil, err
	}
	if cols == nil {
		return nil, fmt.Errorf("%w: no such table %q in %s", ErrStorageAccess, table, s.path)
	}
	return cols, nil
}

// Rows reads every row of the named table in insertion order as generic
// column maps, ready for JSON serialization.
func (s *Store) Rows(ctx context.Context, table string) ([]map[string]any, error) {
	if _, err := s.Columns(ctx, table); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryxContext(ctx, fmt.Sprintf("SELECT * FROM %s ORDER BY rowid", quoteIdent(table)))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrStorageAccess, table, err)
	}
	defer rows.Close()

	var out []map[string]any
	for rows.Next() {
		row := map[string]any{}
		if err := rows.MapScan(row); err != nil {
			return nil, fmt.Errorf("%w: scan %s: %v", ErrStorageAccess, table, err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrStorageAccess, table, err)
	}
	return out, nil
}

// tableColumns lists column names in schema order, or nil when the table
// does not exist.
func (s *Store) tableColumns(ctx context.Context, table string) ([]string, error) {
	rows, err := s.db.QueryxContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(table)))
	if err != nil {
		return nil, fmt.Errorf("%w: table_info %s: %v", ErrStorageAccess, table, err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var (
			cid     int
			name    string
			ctype   string
			notnull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("%w: table_info %s: %v", ErrStorageAccess, table, err)
		}
		cols = append(cols, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: table_info %s: %v", ErrStorageAccess, table, err)
	}
	return cols, nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
