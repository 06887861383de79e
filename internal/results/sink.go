package results

import "context"

// PerformanceSink binds the store to one keyed performance table so the cut
// finder can persist results without knowing about tables or key columns.
type PerformanceSink struct {
	store *Store
	table string
}

func NewPerformanceSink(store *Store, table string) *PerformanceSink {
	if table == "" {
		table = DefaultPerformanceTable
	}
	return &PerformanceSink{store: store, table: table}
}

// UpsertRow writes one method's metrics, keyed by the method name.
func (p *PerformanceSink) UpsertRow(ctx context.Context, method string, values map[string]float64) error {
	return p.store.Upsert(ctx, p.table, KeyColumnMethod, method, values)
}
