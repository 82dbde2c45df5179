package importer

import (
	"math"
	"strconv"
	"strings"
	"time"

	"coop-loan-service/internal/domain/loan"
)

// Layouts without a zone are read as UTC.
var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// Day zero of spreadsheet serial dates (accounts for the 1900 leap-year bug).
var serialEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// 9999-12-31, the last day a spreadsheet can represent.
const maxSerial = 2_958_465

// ParseDate accepts the layouts above or a positive spreadsheet serial day
// number such as "45292" or "45292.5". The result is UTC at millisecond precision.
func ParseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, loan.ErrInvalidDate
	}
	if days, err := strconv.ParseFloat(s, 64); err == nil {
		if !(days > 0 && days <= maxSerial) {
			return time.Time{}, loan.ErrInvalidDate
		}
		whole := math.Floor(days)
		ms := int64(math.Round((days - whole) * 86_400_000))
		t := serialEpoch.AddDate(0, 0, int(whole)).Add(time.Duration(ms) * time.Millisecond)
		return loan.Normalize(t), nil
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return loan.Normalize(t), nil
		}
	}
	return time.Time{}, loan.ErrInvalidDate
}
