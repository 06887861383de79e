package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// Conventional table names for the two event classes.
const (
	TableSignal     = "signal"
	TableBackground = "background"
)

// DB reads and writes event frames in a SQLite file.
type DB struct {
	db   *sqlx.DB
	path string
}

// Open opens an existing dataset file. A missing file is ErrInputAccess; use
// Create for new datasets.
func Open(path string) (*DB, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInputAccess, path, err)
	}
	return open(path)
}

// Create opens the dataset file, creating it when absent.
func Create(path string) (*DB, error) {
	return open(path)
}

func open(path string) (*DB, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrInputAccess, path, err)
	}
	return &DB{db: db, path: path}, nil
}

func (d *DB) Close() error { return d.db.Close() }

func (d *DB) Path() string { return d.path }

// LoadFrame reads the named table into a Frame. With no columns specified,
// every column comes back in schema order.
func (d *DB) LoadFrame(ctx context.Context, table string, columns ...string) (*Frame, error) {
	schema, err := d.tableColumns(ctx, table)
	if err != nil {
		return nil, err
	}
	cols := columns
	if len(cols) == 0 {
		cols = schema
	} else {
		known := make(map[string]bool, len(schema))
		for _, c := range schema {
			known[c] = true
		}
		for _, c := range cols {
			if !known[c] {
				return nil, fmt.Errorf("%w: no column %q in table %q", ErrInputAccess, c, table)
			}
		}
	}

	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = quoteIdent(c)
	}
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(quoted, ", "), quoteIdent(table))

	rows, err := d.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: query %s: %v", ErrInputAccess, table, err)
	}
	defer rows.Close()

	data := make([][]float64, len(cols))
	buf := make([]float64, len(cols))
	dest := make([]any, len(cols))
	for i := range dest {
		dest[i] = &buf[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("%w: scan %s: %v", ErrInputAccess, table, err)
		}
		for i, v := range buf {
			data[i] = append(data[i], v)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrInputAccess, table, err)
	}

	f := NewFrame()
	for i, c := range cols {
		if err := f.AddColumn(c, data[i]); err != nil {
			return nil, err
		}
	}
	log.Debug().Str("table", table).Int("rows", f.Len()).Int("columns", len(cols)).Msg("frame loaded")
	return f, nil
}

// SaveFrame writes the frame as a full snapshot of the named table, replacing
// any previous contents.
func (d *DB) SaveFrame(ctx context.Context, table string, f *Frame) error {
	cols := f.Columns()
	if len(cols) == 0 {
		return fmt.Errorf("%w: frame has no columns", ErrInputAccess)
	}

	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin %s: %v", ErrInputAccess, table, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoteIdent(table)); err != nil {
		return fmt.Errorf("%w: drop %s: %v", ErrInputAccess, table, err)
	}

	defs := make([]string, len(cols))
	marks := make([]string, len(cols))
	for i, c := range cols {
		defs[i] = quoteIdent(c) + " REAL"
		marks[i] = "?"
	}
	create := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(table), strings.Join(defs, ", "))
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("%w: create %s: %v", ErrInputAccess, table, err)
	}

	insert := fmt.Sprintf("INSERT INTO %s VALUES (%s)", quoteIdent(table), strings.Join(marks, ", "))
	stmt, err := tx.PreparexContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("%w: prepare %s: %v", ErrInputAccess, table, err)
	}
	defer stmt.Close()

	args := make([]any, len(cols))
	for r := 0; r < f.n; r++ {
		for i := range f.cols {
			args[i] = f.cols[i][r]
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("%w: insert %s row %d: %v", ErrInputAccess, table, r, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit %s: %v", ErrInputAccess, table, err)
	}
	log.Info().Str("table", table).Int("rows", f.Len()).Int("columns", len(cols)).Msg("frame saved")
	return nil
}

// tableColumns lists the table's column names in schema order. A missing
// table reports zero columns, which is ErrInputAccess.
func (d *DB) tableColumns(ctx context.Context, table string) ([]string, error) {
	rows, err := d.db.QueryxContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(table)))
	if err != nil {
		return nil, fmt.Errorf("%w: table_info %s: %v", ErrInputAccess, table, err)
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
			return nil, fmt.Errorf("%w: table_info %s: %v", ErrInputAccess, table, err)
		}
		cols = append(cols, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: table_info %s: %v", ErrInputAccess, table, err)
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("%w: no such table %q in %s", ErrInputAccess, table, d.path)
	}
	return cols, nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
