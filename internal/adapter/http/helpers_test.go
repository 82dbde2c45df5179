package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"coop-loan-service/internal/adapter/repository/mysql"
	"coop-loan-service/internal/testutil/sqlitedb"
	"coop-loan-service/internal/usecase/approval"
	"coop-loan-service/internal/usecase/importer"
	"coop-loan-service/internal/usecase/loan"
	"coop-loan-service/internal/usecase/loanview"
	"coop-loan-service/internal/usecase/member"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

func newEchoWithValidator() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func mustJSON(v any) *bytes.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

// handlersFor wires every handler to g with default usecase options.
func handlersFor(g *gorm.DB) Handlers {
	tx := mysql.NewGormUoW(g)
	loans := mysql.NewLoanRepository(g)
	members := mysql.NewMemberRepository(g)
	return Handlers{
		Health:   NewHandler(nil),
		Members:  NewMemberHandler(member.NewUsecase(members)),
		Loans:    NewLoanHandler(loan.NewUsecase(loans, tx), loanview.NewUsecase(loans, members)),
		Approval: NewApprovalHandler(approval.NewUsecase(tx)),
		Import:   NewImportHandler(importer.NewUsecase(tx), nil),
	}
}

// newServer serves a fresh sqlite database, without guards.
func newServer(t *testing.T) (*echo.Echo, *gorm.DB) {
	t.Helper()
	g := sqlitedb.Open(t)
	e := newEchoWithValidator()
	Register(e, handlersFor(g), Guards{})
	return e, g
}

func do(t *testing.T, e *echo.Echo, method, path string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("bad json (%d): %v; raw=%s", rec.Code, err, rec.Body.String())
	}
	return v
}

func wantStatus(t *testing.T, rec *httptest.ResponseRecorder, code int) {
	t.Helper()
	if rec.Code != code {
		t.Fatalf("status = %d, want %d; body=%s", rec.Code, code, rec.Body.String())
	}
}
