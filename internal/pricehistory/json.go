package pricehistory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/seenimoa/quantcore/pkg/models"
	"github.com/seenimoa/quantcore/pkg/utils"
)

type jsonPoint struct {
	Timestamp json.RawMessage `json:"timestamp"`
	Date      json.RawMessage `json:"date"`
	Close     *float64        `json:"close"`
}

// ReadJSON decodes a JSON array of {"timestamp": ..., "close": ...} objects.
// The timestamp may be a date string or unix seconds; "date" is accepted in
// its place. A null close is a missing quote.
func ReadJSON(r io.Reader) ([]models.PricePoint, error) {
	var raw []jsonPoint
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}

	points := make([]models.PricePoint, 0, len(raw))
	for i, p := range raw {
		stamp := p.Timestamp
		if len(stamp) == 0 || bytes.Equal(stamp, []byte("null")) {
			stamp = p.Date
		}
		ts, err := parseJSONTime(stamp)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		points = append(points, models.PricePoint{Timestamp: ts, Close: p.Close})
	}
	return points, nil
}

func parseJSONTime(raw json.RawMessage) (t time.Time, err error) {
	var s string
	if len(raw) > 0 && raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return t, err
		}
	} else {
		s = string(raw)
	}
	return utils.ParseDate(s)
}
