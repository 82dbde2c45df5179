package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// header aliases, compared after lower-casing and dropping '_' and ' '
var csvColumns = map[string]string{
	"pin":          "pin",
	"amount":       "amount",
	"approveddate": "approved_date",
	"approvedby":   "approved_by",
}

// ReadCSV reads records from a sheet export with a header row. Only pin,
// amount and approvedDate are required columns. An amount that is not a
// whole number is read as 0 so the row fails as invalid instead of
// aborting the file.
func ReadCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	head, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("csv: empty input")
	}
	if err != nil {
		return nil, fmt.Errorf("csv header: %w", err)
	}
	idx := map[string]int{}
	for i, h := range head {
		k := strings.NewReplacer("_", "", " ", "").Replace(strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF"))))
		if col, ok := csvColumns[k]; ok {
			idx[col] = i
		}
	}
	for _, col := range []string{"pin", "amount", "approved_date"} {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("csv: missing column %q", col)
		}
	}

	field := func(row []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var out []Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		if strings.TrimSpace(strings.Join(row, "")) == "" {
			continue
		}
		out = append(out, Record{
			PIN:          field(row, "pin"),
			Amount:       ParseAmount(field(row, "amount")),
			ApprovedDate: field(row, "approved_date"),
			ApprovedBy:   field(row, "approved_by"),
		})
	}
}

// ParseAmount reads a sheet amount: thousands separators are dropped and
// integral floats accepted. Anything else yields 0, which the importer
// rejects as an invalid amount.
func ParseAmount(raw string) int64 {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt64/2 {
		return 0
	}
	return int64(f)
}
