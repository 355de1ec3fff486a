package drehttp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/cooperval/controladoria/internal/dre"
)

type stubService struct {
	report  dre.Report
	lastReq dre.ReportRequest
	err     error
}

func (s *stubService) GetReport(ctx context.Context, req dre.ReportRequest) (dre.Report, error) {
	s.lastReq = req
	if s.err != nil {
		return dre.Report{}, s.err
	}
	return s.report, nil
}

func stubReport() dre.Report {
	return dre.Report{
		Columns: []string{"Jan"},
		Lines: []dre.DRELine{
			{ID: "type-T1", Label: "Custo", Type: dre.LineCommitmentType, Level: 0, Values: []float64{60}, BudgetedValues: []float64{50}, Expandable: true, ItemID: "T1"},
			{ID: "group-G1", Label: "  Logística", Type: dre.LineCommitmentGroup, Level: 1, Values: []float64{60}, BudgetedValues: []float64{0}, ParentID: "type-T1", ItemID: "G1"},
		},
		Totals:         []float64{60},
		BudgetedTotals: []float64{50},
	}
}

func newTestRouter(svc *stubService) http.Handler {
	r := chi.NewRouter()
	NewHandler(nil, svc).MountRoutes(r)
	return r
}

func TestHandleBudget(t *testing.T) {
	svc := &stubService{report: stubReport()}
	router := newTestRouter(svc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/finance/dre?company_id=1&years=2024&view=month&expanded=type-T1", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, dre.ModeBudget, svc.lastReq.Mode)
	require.Equal(t, []int{2024}, svc.lastReq.Years)

	var resp struct {
		Lines        []dre.DRELine `json:"lines"`
		VisibleLines []dre.DRELine `json:"visible_lines"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Lines, 2)
	require.Len(t, resp.VisibleLines, 2, "expanded type shows its group")
}

func TestHandleBudgetCollapsedHidesChildren(t *testing.T) {
	svc := &stubService{report: stubReport()}
	router := newTestRouter(svc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/finance/dre?company_id=1&years=2024", nil)
	router.ServeHTTP(rec, req)

	var resp struct {
		VisibleLines []dre.DRELine `json:"visible_lines"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.VisibleLines, 1)
}

func TestHandleStatementMode(t *testing.T) {
	svc := &stubService{report: stubReport()}
	router := newTestRouter(svc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/finance/dre/statement?company_id=1&years=2023,2024", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, dre.ModeStatement, svc.lastReq.Mode)
	require.Equal(t, []int{2023, 2024}, svc.lastReq.Years)
}

func TestHandleBudgetValidation(t *testing.T) {
	svc := &stubService{report: stubReport()}
	router := newTestRouter(svc)

	for _, target := range []string{
		"/finance/dre?years=2024",
		"/finance/dre?company_id=1",
		"/finance/dre?company_id=1&years=abc",
		"/finance/dre?company_id=0&years=2024",
		"/finance/dre?company_id=1&years=2024&branch_id=x",
		"/finance/dre?company_id=1&years=2024&view=weekly",
	} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		require.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestHandleBudgetInvalidViewRejected(t *testing.T) {
	svc := &stubService{report: stubReport()}
	router := newTestRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/finance/dre?company_id=1&years=2024&view=weekly", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Zero(t, svc.lastReq.CompanyID)
}

func TestHandleBudgetViewErrorFromService(t *testing.T) {
	svc := &stubService{err: dre.ErrInvalidViewType}
	router := newTestRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/finance/dre?company_id=1&years=2024", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleBudgetServiceError(t *testing.T) {
	svc := &stubService{err: errors.New("backend unavailable")}
	router := newTestRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/finance/dre?company_id=1&years=2024", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandleCSV(t *testing.T) {
	svc := &stubService{report: stubReport()}
	router := newTestRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/finance/dre/export.csv?company_id=1&years=2024", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	require.True(t, strings.HasPrefix(rec.Body.String(), "Nivel,Descricao,Jan"))
}
