package pricehistory

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/seenimoa/quantcore/pkg/models"
	"github.com/seenimoa/quantcore/pkg/utils"
)

// ReadHTML extracts a price history from the first <table> in an HTML page,
// such as a saved "historical data" view. The header row must name a date
// column and a close column. Rows with too few cells (dividend or split
// notes spanning the table) are skipped.
func ReadHTML(r io.Reader) ([]models.PricePoint, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("%w: no table found", ErrMissingColumn)
	}

	var header []string
	var dateCol, closeCol int
	var parseErr error
	points := []models.PricePoint{}

	table.Find("tr").EachWithBreak(func(i int, row *goquery.Selection) bool {
		cells := cellTexts(row)
		if header == nil {
			if len(cells) == 0 {
				return true
			}
			header = cells
			dateCol, closeCol, parseErr = locateColumns(header)
			return parseErr == nil
		}
		if len(cells) <= max(dateCol, closeCol) {
			return true
		}

		ts, err := utils.ParseDate(cells[dateCol])
		if err != nil {
			parseErr = fmt.Errorf("row %d: %w", i, err)
			return false
		}
		c, err := parseClose(cells[closeCol])
		if err != nil {
			parseErr = fmt.Errorf("row %d: %w", i, err)
			return false
		}
		points = append(points, models.PricePoint{Timestamp: ts, Close: c})
		return true
	})

	if parseErr != nil {
		return nil, parseErr
	}
	if header == nil {
		return nil, fmt.Errorf("%w: table has no header row", ErrMissingColumn)
	}
	return points, nil
}

func cellTexts(row *goquery.Selection) []string {
	var cells []string
	row.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
		cells = append(cells, strings.TrimSpace(cell.Text()))
	})
	return cells
}
