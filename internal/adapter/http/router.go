package http

import (
	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Health   *Handler
	Members  *MemberHandler
	Loans    *LoanHandler
	Approval *ApprovalHandler
	Import   *ImportHandler
}

// Guards are optional route middlewares; nil entries are skipped.
type Guards struct {
	Idempotency echo.MiddlewareFunc // every mutating route
	PINAttempts echo.MiddlewareFunc // routes that check a single member PIN
}

// Register mounts every route.
func Register(e *echo.Echo, h Handlers, g Guards) {
	e.GET("/health", h.Health.Health)

	mw := chain(g.Idempotency)
	pinned := chain(g.PINAttempts, g.Idempotency)

	m := e.Group("/members")
	m.POST("", h.Members.CreateMember, mw...)
	m.GET("", h.Members.ListMembers)
	m.GET("/:member_id", h.Members.GetMember)
	m.PUT("/:member_id", h.Members.UpdateMember, mw...)
	m.GET("/:member_id/loans", h.Loans.ListMemberLoans)
	m.GET("/:member_id/loans/active", h.Loans.GetActiveLoan)
	m.GET("/:member_id/loans/latest", h.Loans.GetLatestLoan)

	l := e.Group("/loans")
	l.POST("", h.Loans.CreateLoan, pinned...)
	l.GET("", h.Loans.ListLoans)
	// static segment wins over :loan_id in echo's router
	l.POST("/import", h.Import.ImportLoans, mw...)
	l.GET("/:loan_id", h.Loans.GetLoan)
	l.GET("/:loan_id/audit", h.Approval.LoanHistory)
	l.POST("/:loan_id/approve", h.Approval.ApproveLoan, mw...)
	l.POST("/:loan_id/clear", h.Approval.ClearLoan, mw...)
	l.POST("/:loan_id/reject", h.Approval.RejectLoan, mw...)
}

func chain(fns ...echo.MiddlewareFunc) []echo.MiddlewareFunc {
	out := make([]echo.MiddlewareFunc, 0, len(fns))
	for _, f := range fns {
		if f != nil {
			out = append(out, f)
		}
	}
	return out
}
