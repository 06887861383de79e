package results

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/atmonu/cutopt/internal/eval"
)

// Fixed leading columns of an energy-binned table; per-method metric columns
// follow, six per method.
const (
	ColBinMin   = "bin_min"
	ColBinMax   = "bin_max"
	ColBinMid   = "bin_mid"
	ColBinCount = "bin_count"
)

var metricSuffixes = []string{"_eff", "_eff_err", "_pur", "_pur_err", "_fom", "_fom_err"}

// WriteBins recreates the named table with one row per energy bin, in bin
// order. The schema is the four bin columns plus six metric columns per
// method, methods sorted by name. Previous contents of the table are
// replaced, matching one evaluation run per table.
func (s *Store) WriteBins(ctx context.Context, table string, bins []eval.EnergyBin) error {
	if len(bins) == 0 {
		return fmt.Errorf("%w: write %s: no bins", ErrStorageAccess, table)
	}

	methods := make([]string, 0, len(bins[0].PerMethod))
	for m := range bins[0].PerMethod {
		methods = append(methods, m)
	}
	sort.Strings(methods)

	cols := []string{ColBinMin, ColBinMax, ColBinMid, ColBinCount}
	for _, m := range methods {
		for _, suffix := range metricSuffixes {
			cols = append(cols, m+suffix)
		}
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin %s: %v", ErrStorageAccess, table, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoteIdent(table)); err != nil {
		return fmt.Errorf("%w: drop %s: %v", ErrStorageAccess, table, err)
	}

	defs := make([]string, len(cols))
	marks := make([]string, len(cols))
	for i, c := range cols {
		defs[i] = quoteIdent(c) + " REAL"
		marks[i] = "?"
	}
	create := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(table), strings.Join(defs, ", "))
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("%w: create %s: %v", ErrStorageAccess, table, err)
	}

	insert := fmt.Sprintf("INSERT INTO %s VALUES (%s)", quoteIdent(table), strings.Join(marks, ", "))
	stmt, err := tx.PreparexContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("%w: prepare %s: %v", ErrStorageAccess, table, err)
	}
	defer stmt.Close()

	args := make([]any, len(cols))
	for i, bin := range bins {
		args[0], args[1], args[2], args[3] = bin.Min, bin.Max, bin.Mid, bin.Count
		j := 4
		for _, m := range methods {
			metrics, ok := bin.PerMethod[m]
			if !ok {
				return fmt.Errorf("%w: write %s: bin %d has no metrics for %q", ErrStorageAccess, table, i, m)
			}
			args[j] = metrics.Efficiency
			args[j+1] = metrics.EffErr
			args[j+2] = metrics.Purity
			args[j+3] = metrics.PurErr
			args[j+4] = metrics.FoM
			args[j+5] = metrics.FoMErr
			j += 6
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("%w: insert %s bin %d: %v", ErrStorageAccess, table, i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit %s: %v", ErrStorageAccess, table, err)
	}
	log.Info().Str("table", table).Int("bins", len(bins)).Int("methods", len(methods)).Msg("binned results written")
	return nil
}

// MetricSeries is one method's metrics across every bin of a table, in bin
// order.
type MetricSeries struct {
	Eff    []float64 `json:"eff"`
	EffErr []float64 `json:"eff_err"`
	Pur    []float64 `json:"pur"`
	PurErr []float64 `json:"pur_err"`
	FoM    []float64 `json:"fom"`
	FoMErr []float64 `json:"fom_err"`
}

// BinnedSeries is the column-oriented view of an energy-binned table, the
// shape plotting clients consume.
type BinnedSeries struct {
	Min     []float64                `json:"bin_min"`
	Max     []float64                `json:"bin_max"`
	Mid     []float64                `json:"bin_mid"`
	Count   []float64                `json:"bin_count"`
	Methods map[string]*MetricSeries `json:"methods"`
}

// ReadBinSeries loads an energy-binned table back as per-method series.
func (s *Store) ReadBinSeries(ctx context.Context, table string) (*BinnedSeries, error) {
	cols, err := s.Columns(ctx, table)
	if err != nil {
		return nil, err
	}
	rows, err := s.readNumeric(ctx, table, cols)
	if err != nil {
		return nil, err
	}

	series := &BinnedSeries{Methods: map[string]*MetricSeries{}}
	for i, c := range cols {
		column := make([]float64, len(rows))
		for r := range rows {
			column[r] = rows[r][i]
		}
		switch c {
		case ColBinMin:
			series.Min = column
		case ColBinMax:
			series.Max = column
		case ColBinMid:
			series.Mid = column
		case ColBinCount:
			series.Count = column
		default:
			method, suffix, ok := splitMetricColumn(c)
			if !ok {
				return nil, fmt.Errorf("%w: table %q has unexpected column %q", ErrStorageAccess, table, c)
			}
			m := series.Methods[method]
			if m == nil {
				m = &MetricSeries{}
				series.Methods[method] = m
			}
			switch suffix {
			case "_eff":
				m.Eff = column
			case "_eff_err":
				m.EffErr = column
			case "_pur":
				m.Pur = column
			case "_pur_err":
				m.PurErr = column
			case "_fom":
				m.FoM = column
			case "_fom_err":
				m.FoMErr = column
			}
		}
	}
	return series, nil
}

// readNumeric loads the full table as float64 rows in insertion order.
func (s *Store) readNumeric(ctx context.Context, table string, cols []string) ([][]float64, error) {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = quoteIdent(c)
	}
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY rowid", strings.Join(quoted, ", "), quoteIdent(table))
	rows, err := s.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrStorageAccess, table, err)
	}
	defer rows.Close()

	var out [][]float64
	buf := make([]float64, len(cols))
	dest := make([]any, len(cols))
	for i := range dest {
		dest[i] = &buf[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("%w: scan %s: %v", ErrStorageAccess, table, err)
		}
		row := make([]float64, len(cols))
		copy(row, buf)
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrStorageAccess, table, err)
	}
	return out, nil
}

// splitMetricColumn recovers the method name and metric suffix from a
// per-method column. The longest suffix wins so "_eff_err" is not mistaken
// for "_err" on a method ending in "_eff".
func splitMetricColumn(col string) (method, suffix string, ok bool) {
	for _, s := range []string{"_eff_err", "_pur_err", "_fom_err", "_eff", "_pur", "_fom"} {
		if strings.HasSuffix(col, s) && len(col) > len(s) {
			return strings.TrimSuffix(col, s), s, true
		}
	}
	return "", "", false
}
