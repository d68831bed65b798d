package dataio

import (
	"context"
	"encoding/csv"
	"errors"
	"io"

	"github.com/hupe1980/anongo/internal/resource"
)

// CSVSource reads a table from CSV. The first record is the header.
type CSVSource struct {
	r     io.Reader
	comma rune
	rc    *resource.Controller
}

// CSVSourceOption configures a CSVSource.
type CSVSourceOption func(*CSVSource)

// WithComma sets the field separator (default ',').
func WithComma(c rune) CSVSourceOption {
	return func(s *CSVSource) {
		s.comma = c
	}
}

// WithResourceController rate-limits reads against the controller's IO
// budget.
func WithResourceController(rc *resource.Controller) CSVSourceOption {
	return func(s *CSVSource) {
		s.rc = rc
	}
}

// NewCSVSource creates a CSV source over a reader.
func NewCSVSource(r io.Reader, optFns ...CSVSourceOption) *CSVSource {
	s := &CSVSource{r: r, comma: ','}
	for _, fn := range optFns {
		fn(s)
	}
	return s
}

func (s *CSVSource) reader(ctx context.Context) io.Reader {
	if s.rc != nil {
		return resource.NewRateLimitedReader(ctx, s.r, s.rc)
	}
	return s.r
}

// ReadTable implements Source.
func (s *CSVSource) ReadTable(ctx context.Context) ([]string, [][]string, error) {
	cr := csv.NewReader(s.reader(ctx))
	cr.Comma = s.comma
	cr.ReuseRecord = false

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, ErrEmptyTable
		}
		return nil, nil, err
	}

	var rows [][]string
	for {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		rows = append(rows, rec)
	}
	return header, rows, nil
}

// CSVSink writes a table as CSV.
type CSVSink struct {
	w     io.Writer
	comma rune
}

// NewCSVSink creates a CSV sink over a writer.
func NewCSVSink(w io.Writer) *CSVSink {
	return &CSVSink{w: w, comma: ','}
}

// WriteTable implements Sink.
func (s *CSVSink) WriteTable(ctx context.Context, header []string, rows [][]string) error {
	cw := csv.NewWriter(s.w)
	cw.Comma = s.comma

	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadHierarchy reads a generalization hierarchy matrix from CSV: one row
// per base value, columns are the levels from identity upwards. There is no
// header row.
func ReadHierarchy(r io.Reader, optFns ...CSVSourceOption) ([][]string, error) {
	s := NewCSVSource(r, optFns...)
	cr := csv.NewReader(s.reader(context.Background()))
	cr.Comma = s.comma

	var matrix [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		matrix = append(matrix, rec)
	}
	if len(matrix) == 0 {
		return nil, ErrEmptyTable
	}
	return matrix, nil
}
