// Package export writes curve series to files that charting and analysis
// tools can load directly.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/seenimoa/quantcore/pkg/models"
)

// Point is any curve sample type that can be exported.
type Point interface {
	models.PriceYieldPoint | models.CashFlowPoint | models.AccrualPoint
}

// Format selects the output encoding.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatParquet Format = "parquet"
)

// ErrUnsupportedFormat is returned for unknown output extensions.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// FormatFromPath picks a Format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".parquet", ".pq":
		return FormatParquet, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// WriteFile writes rows to path in the format implied by its extension.
func WriteFile[T Point](path string, rows []T) (err error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return Write(f, format, rows)
}

// Write encodes rows to w.
func Write[T Point](w io.Writer, format Format, rows []T) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, rows)
	case FormatParquet:
		return WriteParquet(w, rows)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// WriteParquet writes rows as a single Parquet file, one column per field.
func WriteParquet[T Point](w io.Writer, rows []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write records: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}

// WriteCSV writes a header row followed by one record per row.
func WriteCSV[T Point](w io.Writer, rows []T) error {
	cw := csv.NewWriter(w)
	var zero T
	header, _ := record(zero)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		_, rec := record(row)
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func record(row any) (header, values []string) {
	switch r := row.(type) {
	case models.PriceYieldPoint:
		return []string{"yield", "price", "premium_percent"},
			[]string{num(r.Yield), num(r.Price), num(r.PremiumPercent)}
	case models.CashFlowPoint:
		return []string{"period", "year", "cash_flow", "coupon", "principal"},
			[]string{strconv.Itoa(r.Period), num(r.Year), num(r.CashFlow), num(r.Coupon), num(r.Principal)}
	case models.AccrualPoint:
		return []string{"day", "accrued_interest", "clean_price", "dirty_price"},
			[]string{strconv.Itoa(r.Day), num(r.AccruedInterest), num(r.CleanPrice), num(r.DirtyPrice)}
	}
	return nil, nil
}

// num formats with the shortest representation that round-trips.
func num(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
