package pricehistory

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seenimoa/quantcore/internal/portfolio"
	"github.com/seenimoa/quantcore/pkg/models"
)

func day(d int) time.Time {
	return time.Date(2026, 1, d, 0, 0, 0, 0, time.UTC)
}

func closes(points []models.PricePoint) []any {
	out := make([]any, len(points))
	for i, p := range points {
		if p.Close == nil {
			out[i] = nil
		} else {
			out[i] = *p.Close
		}
	}
	return out
}

// ── CSV ──

func TestReadCSV(t *testing.T) {
	in := `Date,Open,High,Low,Close,Adj Close,Volume
2026-01-05,1,1,1,"1,012.50",1000,10
2026-01-02,1,1,1,1000,990,10
2026-01-06,1,1,1,null,990,10
# exported by hand
2026-01-07,1,1,1,-,990,10
2026-01-08,1,1,1,,990,10
`
	points, err := Read(strings.NewReader(in), FormatCSV)
	require.NoError(t, err)
	require.Len(t, points, 5)
	assert.Equal(t, day(2), points[0].Timestamp, "points are sorted by time")
	assert.Equal(t, []any{1000.0, 1012.5, nil, nil, nil}, closes(points))
}

func TestReadCSVFallsBackToAdjClose(t *testing.T) {
	in := "timestamp,adj close\n2026-01-02,10\n2026-01-03,11\n"
	points, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []any{10.0, 11.0}, closes(points))
}

func TestReadCSVErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"no close column", "date,open\n2026-01-02,1\n"},
		{"no date column", "close\n1\n"},
		{"bad date", "date,close\nyesterday,1\n"},
		{"bad close", "date,close\n2026-01-02,abc\n"},
		{"short row", "date,open,close\n2026-01-02,1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.in))
			assert.Error(t, err)
		})
	}
}

func TestReadCSVEmpty(t *testing.T) {
	points, err := ReadCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, points)
}

// ── JSON ──

func TestReadJSON(t *testing.T) {
	in := `[
		{"timestamp": "2026-01-03", "close": 101.5},
		{"timestamp": 1767312000, "close": 100},
		{"date": "2026-01-04", "close": null}
	]`
	points, err := Read(strings.NewReader(in), FormatJSON)
	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.Equal(t, day(2), points[0].Timestamp)
	assert.Equal(t, day(4), points[2].Timestamp)
	assert.Equal(t, []any{100.0, 101.5, nil}, closes(points))
}

func TestReadJSONErrors(t *testing.T) {
	_, err := ReadJSON(strings.NewReader(`{"close": 1}`))
	assert.Error(t, err)

	_, err = ReadJSON(strings.NewReader(`[{"close": 1}]`))
	assert.Error(t, err, "missing timestamp")
}

// ── HTML ──

const historyPage = `<html><body>
<table>
  <thead><tr><th>Date</th><th>Open</th><th>Close*</th><th>Adj Close**</th></tr></thead>
  <tbody>
    <tr><td>Jan 6, 2026</td><td>1</td><td>1,105.00</td><td>1,100.00</td></tr>
    <tr><td colspan="4">0.25 Dividend</td></tr>
    <tr><td>Jan 5, 2026</td><td>1</td><td>-</td><td>-</td></tr>
    <tr><td>Jan 2, 2026</td><td>1</td><td>1,000.00</td><td>995.00</td></tr>
  </tbody>
</table>
<table><tr><th>ignored</th></tr></table>
</body></html>`

func TestReadHTML(t *testing.T) {
	points, err := Read(strings.NewReader(historyPage), FormatHTML)
	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.Equal(t, day(2), points[0].Timestamp)
	assert.Equal(t, []any{1000.0, nil, 1105.0}, closes(points))
}

func TestReadHTMLErrors(t *testing.T) {
	_, err := ReadHTML(strings.NewReader(`<p>no table</p>`))
	assert.ErrorIs(t, err, ErrMissingColumn)

	_, err = ReadHTML(strings.NewReader(`<table><tr><th>When</th><th>Close</th></tr></table>`))
	assert.ErrorIs(t, err, ErrMissingColumn)
}

// ── Load / LoadAll ──

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestFormatFromPath(t *testing.T) {
	for path, want := range map[string]Format{
		"a.csv": FormatCSV, "B.JSON": FormatJSON, "c.htm": FormatHTML, "d.html": FormatHTML,
	} {
		got, err := FormatFromPath(path)
		require.NoError(t, err)
		assert.Equal(t, want, got, path)
	}
	_, err := FormatFromPath("prices.xlsx")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadAll(t *testing.T) {
	dir := t.TempDir()
	paths := map[string]string{
		"AAA": writeFile(t, dir, "aaa.csv", "date,close\n2026-01-02,100\n2026-01-05,110\n2026-01-06,99\n"),
		"BBB": writeFile(t, dir, "bbb.json", `[{"timestamp":"2026-01-02","close":50},{"timestamp":"2026-01-05","close":55}]`),
		"CCC": writeFile(t, dir, "ccc.html", historyPage),
	}

	histories, err := LoadAll(context.Background(), paths)
	require.NoError(t, err)
	require.Len(t, histories, 3)

	r := portfolio.ComputeReturns(histories["AAA"])
	require.Len(t, r, 2)
	assert.InDelta(t, 0.10, r[0], 1e-12)
	assert.InDelta(t, -0.10, r[1], 1e-12)

	// the missing quote in CCC drops both adjacent returns
	assert.Empty(t, portfolio.ComputeReturns(histories["CCC"]))
}

func TestLoadAllPropagatesFailure(t *testing.T) {
	dir := t.TempDir()
	paths := map[string]string{
		"OK":  writeFile(t, dir, "ok.csv", "date,close\n2026-01-02,1\n"),
		"BAD": filepath.Join(dir, "missing.csv"),
	}
	_, err := LoadAll(context.Background(), paths)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BAD")
}

func TestLoadAllCancelled(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := LoadAll(ctx, map[string]string{"A": writeFile(t, dir, "a.csv", "date,close\n")})
	assert.ErrorIs(t, err, context.Canceled)
}
