package http

import (
	stdhttp "net/http"
	"strings"
	"testing"

	"coop-loan-service/internal/testutil/sqlitedb"
	ucMember "coop-loan-service/internal/usecase/member"
)

func TestMembers_CreateAndGet(t *testing.T) {
	e, _ := newServer(t)

	rec := do(t, e, stdhttp.MethodPost, "/members", mustJSON(map[string]any{
		"name": "Jane Doe", "pin": "1234", "join_date": "2021-06-01", "total_contribution": 120000,
	}))
	wantStatus(t, rec, stdhttp.StatusCreated)
	if strings.Contains(rec.Body.String(), "1234") {
		t.Fatalf("PIN leaked: %s", rec.Body.String())
	}
	created := decode[ucMember.MemberDTO](t, rec)
	if len(created.ID) != 32 || created.JoinDate.Format("2006-01-02") != "2021-06-01" {
		t.Fatalf("unexpected member: %+v", created)
	}

	rec = do(t, e, stdhttp.MethodGet, "/members/"+created.ID, nil)
	wantStatus(t, rec, stdhttp.StatusOK)
	if got := decode[ucMember.MemberDTO](t, rec); got.Name != "Jane Doe" || got.TotalContribution != 120000 {
		t.Fatalf("unexpected member: %+v", got)
	}

	// same PIN twice
	rec = do(t, e, stdhttp.MethodPost, "/members", mustJSON(map[string]any{"name": "Other", "pin": "1234"}))
	wantStatus(t, rec, stdhttp.StatusConflict)

	rec = do(t, e, stdhttp.MethodGet, "/members/"+strings.Repeat("f", 32), nil)
	wantStatus(t, rec, stdhttp.StatusNotFound)
}

func TestMembers_ValidationError(t *testing.T) {
	e, _ := newServer(t)

	rec := do(t, e, stdhttp.MethodPost, "/members", mustJSON(map[string]any{
		"pin": "12 34", "join_date": "01/06/2021", "monthly_contribution": -1,
	}))
	wantStatus(t, rec, stdhttp.StatusUnprocessableEntity)
	er := decode[ErrorResponse](t, rec)
	for _, f := range []string{"name", "pin", "join_date", "monthly_contribution"} {
		found := false
		for _, d := range er.Details {
			found = found || d.Field == f
		}
		if !found {
			t.Fatalf("missing detail for %s: %+v", f, er.Details)
		}
	}
}

func TestMembers_UpdateAndList(t *testing.T) {
	e, g := newServer(t)
	jane := sqlitedb.SeedMember(t, g, "Jane Doe", "1234")
	sqlitedb.SeedMember(t, g, "Ade Putra", "5678")

	rec := do(t, e, stdhttp.MethodPut, "/members/"+jane.ID, mustJSON(map[string]any{
		"name": "Jane Roe", "join_date": "2018-02-01", "total_contribution": 300000, "monthly_contribution": 15000,
	}))
	wantStatus(t, rec, stdhttp.StatusOK)
	got := decode[ucMember.MemberDTO](t, rec)
	if got.Name != "Jane Roe" || got.TotalContribution != 300000 || got.JoinDate.Format("2006-01-02") != "2018-02-01" {
		t.Fatalf("unexpected member: %+v", got)
	}

	// PIN is untouched, so loans still authorise with it
	rec = do(t, e, stdhttp.MethodPost, "/loans", mustJSON(map[string]any{"member_id": jane.ID, "pin": "1234", "amount": 10}))
	wantStatus(t, rec, stdhttp.StatusCreated)

	rec = do(t, e, stdhttp.MethodGet, "/members", nil)
	wantStatus(t, rec, stdhttp.StatusOK)
	list := decode[[]ucMember.MemberDTO](t, rec)
	if len(list) != 2 || list[0].Name != "Ade Putra" || list[1].Name != "Jane Roe" {
		t.Fatalf("unexpected list: %+v", list)
	}

	wantStatus(t, do(t, e, stdhttp.MethodPut, "/members/"+strings.Repeat("f", 32), mustJSON(map[string]any{"name": "X"})), stdhttp.StatusNotFound)
	wantStatus(t, do(t, e, stdhttp.MethodPut, "/members/"+jane.ID, mustJSON(map[string]any{"name": ""})), stdhttp.StatusUnprocessableEntity)
}
