package http

import (
	"net/http"
	"time"

	"coop-loan-service/internal/usecase/member"

	"github.com/labstack/echo/v4"
)

type MemberHandler struct{ uc *member.Usecase }

func NewMemberHandler(uc *member.Usecase) *MemberHandler { return &MemberHandler{uc: uc} }

type createMemberReq struct {
	Name                string `json:"name"                 validate:"required,max=128"`
	PIN                 string `json:"pin"                  validate:"required,pin"`
	JoinDate            string `json:"join_date"            validate:"omitempty,datetime=2006-01-02"`
	TotalContribution   int64  `json:"total_contribution"   validate:"gte=0"`
	MonthlyContribution int64  `json:"monthly_contribution" validate:"gte=0"`
}

func (h *MemberHandler) CreateMember(c echo.Context) error {
	var req createMemberReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	in := member.CreateMemberInput{
		Name:                req.Name,
		PIN:                 req.PIN,
		TotalContribution:   req.TotalContribution,
		MonthlyContribution: req.MonthlyContribution,
	}
	if req.JoinDate != "" {
		// format already checked by the validator
		in.JoinDate, _ = time.Parse("2006-01-02", req.JoinDate)
	}
	dto, err := h.uc.Create(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

type updateMemberReq struct {
	Name                string `json:"name"                 validate:"required,max=128"`
	JoinDate            string `json:"join_date"            validate:"omitempty,datetime=2006-01-02"`
	TotalContribution   int64  `json:"total_contribution"   validate:"gte=0"`
	MonthlyContribution int64  `json:"monthly_contribution" validate:"gte=0"`
}

// UpdateMember replaces name, join date and contributions. The PIN is not editable.
func (h *MemberHandler) UpdateMember(c echo.Context) error {
	var req updateMemberReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	in := member.UpdateMemberInput{
		Name:                req.Name,
		TotalContribution:   req.TotalContribution,
		MonthlyContribution: req.MonthlyContribution,
	}
	if req.JoinDate != "" {
		in.JoinDate, _ = time.Parse("2006-01-02", req.JoinDate)
	}
	dto, err := h.uc.Update(c.Request().Context(), c.Param("member_id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *MemberHandler) ListMembers(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *MemberHandler) GetMember(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("member_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
