package http

import (
	"net/http"

	"coop-loan-service/internal/adapter/middleware"
	"coop-loan-service/internal/usecase/approval"

	"github.com/labstack/echo/v4"
)

type ApprovalHandler struct{ uc *approval.Usecase }

func NewApprovalHandler(uc *approval.Usecase) *ApprovalHandler { return &ApprovalHandler{uc: uc} }

// actorReq is the optional body of approve / clear / reject. When "by" is
// empty the Ax-Actor header is used.
type actorReq struct {
	By string `json:"by" validate:"omitempty,max=128"`
}

func (h *ApprovalHandler) bind(c echo.Context) (loanID, actor string, ok bool, err error) {
	// Validate path param
	loanID = c.Param("loan_id")
	if loanID == "" {
		return "", "", false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing loan_id path param"})
	}
	var req actorReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return "", "", false, err
	}
	actor = req.By
	if actor == "" {
		actor = middleware.Actor(c)
	}
	return loanID, actor, true, nil
}

func (h *ApprovalHandler) ApproveLoan(c echo.Context) error {
	loanID, actor, ok, err := h.bind(c)
	if !ok {
		return err
	}
	dto, err := h.uc.Approve(c.Request().Context(), approval.ApproveInput{LoanID: loanID, ApprovedBy: actor})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *ApprovalHandler) ClearLoan(c echo.Context) error {
	loanID, actor, ok, err := h.bind(c)
	if !ok {
		return err
	}
	dto, err := h.uc.Clear(c.Request().Context(), approval.ClearInput{LoanID: loanID, ClearedBy: actor})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *ApprovalHandler) RejectLoan(c echo.Context) error {
	loanID, actor, ok, err := h.bind(c)
	if !ok {
		return err
	}
	if err := h.uc.Reject(c.Request().Context(), approval.RejectInput{LoanID: loanID, RejectedBy: actor}); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// LoanHistory lists the loan's audit trail.
func (h *ApprovalHandler) LoanHistory(c echo.Context) error {
	entries, err := h.uc.History(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, entries)
}
