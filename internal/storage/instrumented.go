package storage

import (
	"context"

	"github.com/docuforge/doc_portal/internal/metrics"
)

// Instrumented decorates a Provider with Prometheus counters for snapshot
// reads, writes, and revision-guard rejections.
type Instrumented struct {
	inner Provider
}

// NewInstrumented wraps the given provider.
func NewInstrumented(inner Provider) *Instrumented {
	return &Instrumented{inner: inner}
}

func (i *Instrumented) ReadAll(ctx context.Context) (Database, error) {
	db, err := i.inner.ReadAll(ctx)
	metrics.RecordStoreOperation("read", err)
	return db, err
}

func (i *Instrumented) WriteAll(ctx context.Context, db Database) error {
	err := i.inner.WriteAll(ctx, db)
	metrics.RecordStoreOperation("write", err)
	if IsRevisionConflict(err) {
		metrics.RecordRevisionConflict()
	}
	return err
}
