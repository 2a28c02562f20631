// Package pricehistory imports closing-price histories from files exported by
// market-data tools. Supported formats are CSV, JSON and HTML tables.
package pricehistory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/quantcore/pkg/models"
)

// Format identifies a price file encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatHTML Format = "html"
)

// maxConcurrentLoads bounds the number of files read at once by LoadAll.
const maxConcurrentLoads = 8

var (
	// ErrUnsupportedFormat is returned for file extensions with no reader.
	ErrUnsupportedFormat = errors.New("unsupported price file format")
	// ErrMissingColumn is returned when a date or close column cannot be found.
	ErrMissingColumn = errors.New("missing price column")
)

// FormatFromPath picks a Format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	case ".html", ".htm":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// Load reads a price history file, choosing the reader by extension.
// Points are returned in ascending timestamp order.
func Load(path string) ([]models.PricePoint, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	points, err := Read(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return points, nil
}

// Read decodes a price history in the given format.
func Read(r io.Reader, format Format) ([]models.PricePoint, error) {
	var (
		points []models.PricePoint
		err    error
	)
	switch format {
	case FormatCSV:
		points, err = ReadCSV(r)
	case FormatJSON:
		points, err = ReadJSON(r)
	case FormatHTML:
		points, err = ReadHTML(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}
	sortByTime(points)
	return points, nil
}

// LoadAll loads every asset's price file concurrently. The first failure
// cancels the remaining loads and is returned.
func LoadAll(ctx context.Context, paths map[string]string) (map[string][]models.PricePoint, error) {
	var (
		mu     sync.Mutex
		result = make(map[string][]models.PricePoint, len(paths))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLoads)

	for asset, path := range paths {
		asset, path := asset, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			points, err := Load(path)
			if err != nil {
				return fmt.Errorf("load %s: %w", asset, err)
			}
			mu.Lock()
			result[asset] = points
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// ── shared cell parsing ──

// locateColumns finds the date and close columns in a header row.
// "close" is preferred over "adj close", then "price" and "last".
func locateColumns(header []string) (dateCol, closeCol int, err error) {
	dateCol, closeCol = -1, -1
	closeRank := math.MaxInt
	for i, h := range header {
		switch normalizeHeader(h) {
		case "date", "timestamp", "time", "datetime":
			if dateCol < 0 {
				dateCol = i
			}
		case "close":
			closeCol, closeRank = i, 0
		case "adj close", "adjusted close":
			if closeRank > 1 {
				closeCol, closeRank = i, 1
			}
		case "price", "last", "ltp":
			if closeRank > 2 {
				closeCol, closeRank = i, 2
			}
		}
	}
	if dateCol < 0 {
		return 0, 0, fmt.Errorf("%w: date", ErrMissingColumn)
	}
	if closeCol < 0 {
		return 0, 0, fmt.Errorf("%w: close", ErrMissingColumn)
	}
	return dateCol, closeCol, nil
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.TrimSpace(strings.TrimRight(h, "*"))
}

// parseClose parses a closing-price cell. Blank and placeholder cells yield
// a nil price so the return series skips them.
func parseClose(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "null", "-", "n/a", "na", "nan":
		return nil, nil
	}
	s = strings.NewReplacer(",", "", "$", "", "₹", "", "€", "", "£", "").Replace(s)
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid close %q", s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, nil
	}
	return &v, nil
}

func sortByTime(points []models.PricePoint) {
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Timestamp.Before(points[j].Timestamp)
	})
}
