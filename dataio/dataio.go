// Package dataio loads input tables and generalization hierarchies from
// external sources (CSV, S3, MinIO, DynamoDB) and writes anonymized tables
// back out.
package dataio

import (
	"context"
	"errors"

	"github.com/hupe1980/anongo/dataset"
)

// ErrEmptyTable is returned when a source yields no header row.
var ErrEmptyTable = errors.New("dataio: empty table")

// Source yields one raw table.
type Source interface {
	// ReadTable returns the header and all data rows.
	ReadTable(ctx context.Context) (header []string, rows [][]string, err error)
}

// Sink consumes one table.
type Sink interface {
	// WriteTable writes the header and all data rows.
	WriteTable(ctx context.Context, header []string, rows [][]string) error
}

// Load reads a source into a data handle.
func Load(ctx context.Context, src Source) (*dataset.Handle, error) {
	header, rows, err := src.ReadTable(ctx)
	if err != nil {
		return nil, err
	}
	if len(header) == 0 {
		return nil, ErrEmptyTable
	}
	return dataset.FromRows(header, rows)
}
