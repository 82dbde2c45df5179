package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"unicode/utf8"

	"coop-loan-service/internal/usecase/importer"

	"github.com/labstack/echo/v4"
)

const maxApproverLen = 128

// RecordBudget charges n records to the caller and reports whether the
// batch may run. Nil means unlimited.
type RecordBudget func(c echo.Context, n int) (bool, error)

type ImportHandler struct {
	uc     *importer.Usecase
	budget RecordBudget
}

func NewImportHandler(uc *importer.Usecase, budget RecordBudget) *ImportHandler {
	return &ImportHandler{uc: uc, budget: budget}
}

var jsonNull = []byte("null")

// sheetDate accepts a JSON string or a bare spreadsheet serial number.
type sheetDate string

func (d *sheetDate) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, jsonNull) {
		*d = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*d = sheetDate(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return errors.New("approved_date must be a string or a number")
	}
	f, err := n.Float64()
	if err != nil {
		return err
	}
	*d = sheetDate(strconv.FormatFloat(f, 'f', -1, 64))
	return nil
}

// sheetText accepts a string or a number kept as written, so a PIN typed
// into a numeric cell still matches.
type sheetText string

func (s *sheetText) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, jsonNull) {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = sheetText(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return errors.New("must be a string or a number")
	}
	*s = sheetText(n.String())
	return nil
}

// sheetAmount accepts a number or a numeric string. Values that are not
// whole numbers read as 0 and fail later as an invalid amount.
type sheetAmount int64

func (a *sheetAmount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, jsonNull) {
		*a = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*a = sheetAmount(importer.ParseAmount(v))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return errors.New("amount must be a number or a numeric string")
	}
	*a = sheetAmount(importer.ParseAmount(n.String()))
	return nil
}

type importRecordReq struct {
	PIN          sheetText   `json:"pin"`
	Amount       sheetAmount `json:"amount"`
	ApprovedDate sheetDate   `json:"approved_date"`
	ApprovedBy   sheetText   `json:"approved_by"`
}

// Rows stay raw so one unreadable row fails alone instead of the batch.
type importLoansReq struct {
	Records []json.RawMessage `json:"records" validate:"required,min=1,max=500"`
}

// toRecord never fails; decode problems travel in Record.Malformed.
func toRecord(raw json.RawMessage) importer.Record {
	var r importRecordReq
	err := json.Unmarshal(raw, &r)
	rec := importer.Record{
		PIN:          string(r.PIN),
		Amount:       int64(r.Amount),
		ApprovedDate: string(r.ApprovedDate),
		ApprovedBy:   string(r.ApprovedBy),
	}
	switch {
	case err != nil:
		rec.Malformed = err.Error()
	case utf8.RuneCountInString(rec.ApprovedBy) > maxApproverLen:
		rec.Malformed = fmt.Sprintf("approved_by longer than %d characters", maxApproverLen)
	}
	return rec
}

// ImportLoans runs the batch and answers 200 once the envelope is valid;
// per-record failures, unreadable rows included, are in the results.
func (h *ImportHandler) ImportLoans(c echo.Context) error {
	var req importLoansReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	if h.budget != nil {
		ok, err := h.budget(c, len(req.Records))
		if err != nil {
			return writeError(c, err)
		}
		if !ok {
			return c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: "too many records"})
		}
	}
	recs := make([]importer.Record, 0, len(req.Records))
	for _, raw := range req.Records {
		recs = append(recs, toRecord(raw))
	}
	return c.JSON(http.StatusOK, h.uc.ImportBatch(c.Request().Context(), recs))
}
