package pricehistory

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/seenimoa/quantcore/pkg/models"
	"github.com/seenimoa/quantcore/pkg/utils"
)

// ReadCSV decodes a CSV price history. The first record is a header naming a
// date column and a close column; other columns are ignored.
func ReadCSV(r io.Reader) ([]models.PricePoint, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return []models.PricePoint{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	dateCol, closeCol, err := locateColumns(header)
	if err != nil {
		return nil, err
	}

	points := []models.PricePoint{}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		line, _ := cr.FieldPos(0)
		if len(rec) <= max(dateCol, closeCol) {
			return nil, fmt.Errorf("line %d: expected at least %d fields, got %d", line, max(dateCol, closeCol)+1, len(rec))
		}

		ts, err := utils.ParseDate(rec[dateCol])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		c, err := parseClose(rec[closeCol])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		points = append(points, models.PricePoint{Timestamp: ts, Close: c})
	}
	return points, nil
}
