package http

import (
	"net/http"

	domainLoan "coop-loan-service/internal/domain/loan"
	"coop-loan-service/internal/usecase/loan"
	"coop-loan-service/internal/usecase/loanview"

	"github.com/labstack/echo/v4"
)

type LoanHandler struct {
	uc    *loan.Usecase
	views *loanview.Usecase
}

func NewLoanHandler(uc *loan.Usecase, views *loanview.Usecase) *LoanHandler {
	return &LoanHandler{uc: uc, views: views}
}

type applyLoanReq struct {
	MemberID string `json:"member_id" validate:"required,hex32"`
	PIN      string `json:"pin"       validate:"required,pin"`
	Amount   int64  `json:"amount"    validate:"required,gt=0"`
}

func (h *LoanHandler) CreateLoan(c echo.Context) error {
	var req applyLoanReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Apply(c.Request().Context(), loan.ApplyInput(req))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type listLoansReq struct {
	Status string `query:"status" validate:"required,loanstatus"`
}

// ListLoans serves GET /loans?status=… with member names attached.
func (h *LoanHandler) ListLoans(c echo.Context) error {
	var req listLoansReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	views, err := h.views.ByStatus(c.Request().Context(), domainLoan.Status(req.Status))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, views)
}

func (h *LoanHandler) ListMemberLoans(c echo.Context) error {
	out, err := h.uc.ListByMember(c.Request().Context(), c.Param("member_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// GetActiveLoan answers 204 when the member has no approved loan.
func (h *LoanHandler) GetActiveLoan(c echo.Context) error {
	dto, err := h.uc.GetActive(c.Request().Context(), c.Param("member_id"))
	return optionalJSON(c, dto, err)
}

func (h *LoanHandler) GetLatestLoan(c echo.Context) error {
	dto, err := h.uc.GetLatest(c.Request().Context(), c.Param("member_id"))
	return optionalJSON(c, dto, err)
}

func optionalJSON(c echo.Context, dto *loan.LoanDTO, err error) error {
	if err != nil {
		return writeError(c, err)
	}
	if dto == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, dto)
}
