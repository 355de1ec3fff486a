// Package drehttp exposes the DRE reports over HTTP.
package drehttp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/cooperval/controladoria/internal/dre"
	"github.com/cooperval/controladoria/internal/dre/export"
	"github.com/cooperval/controladoria/internal/platform/httpx"
)

// ReportService is the contract the handler needs from the DRE service.
type ReportService interface {
	GetReport(ctx context.Context, req dre.ReportRequest) (dre.Report, error)
}

// Handler serves the budget and statement reports.
type Handler struct {
	logger  *slog.Logger
	service ReportService
}

// NewHandler constructs the DRE HTTP handler.
func NewHandler(logger *slog.Logger, service ReportService) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service}
}

type reportResponse struct {
	dre.Report
	VisibleLines []dre.DRELine `json:"visible_lines"`
}

func (h *Handler) handleBudget(w http.ResponseWriter, r *http.Request) {
	h.serveReport(w, r, dre.ModeBudget)
}

func (h *Handler) handleStatement(w http.ResponseWriter, r *http.Request) {
	h.serveReport(w, r, dre.ModeStatement)
}

func (h *Handler) serveReport(w http.ResponseWriter, r *http.Request, mode dre.ReportMode) {
	req, expanded, err := parseReportQuery(r, mode)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	report, err := h.service.GetReport(r.Context(), req)
	if err != nil {
		if errors.Is(err, dre.ErrInvalidViewType) {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
			return
		}
		h.logger.Error("build dre report", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, reportResponse{
		Report:       report,
		VisibleLines: dre.VisibleLines(report.Lines, expanded),
	})
}

func (h *Handler) handleCSV(w http.ResponseWriter, r *http.Request) {
	mode := dre.ModeBudget
	if strings.TrimSpace(r.URL.Query().Get("mode")) == string(dre.ModeStatement) {
		mode = dre.ModeStatement
	}
	req, _, err := parseReportQuery(r, mode)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	report, err := h.service.GetReport(r.Context(), req)
	if err != nil {
		if errors.Is(err, dre.ErrInvalidViewType) {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
			return
		}
		h.logger.Error("export dre report", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="dre.csv"`)
	if err := export.WriteReportCSV(w, report); err != nil {
		h.logger.Error("write dre csv", slog.Any("error", err))
	}
}

func parseReportQuery(r *http.Request, mode dre.ReportMode) (dre.ReportRequest, map[string]bool, error) {
	q := r.URL.Query()

	companyStr := strings.TrimSpace(q.Get("company_id"))
	companyID, err := strconv.ParseInt(companyStr, 10, 64)
	if err != nil || companyID <= 0 {
		return dre.ReportRequest{}, nil, fmt.Errorf("company_id inválido")
	}

	var branchID *int64
	if branchStr := strings.TrimSpace(q.Get("branch_id")); branchStr != "" {
		value, err := strconv.ParseInt(branchStr, 10, 64)
		if err != nil || value <= 0 {
			return dre.ReportRequest{}, nil, fmt.Errorf("branch_id inválido")
		}
		branchID = &value
	}

	years, err := parseYears(q.Get("years"))
	if err != nil {
		return dre.ReportRequest{}, nil, err
	}

	view := dre.ViewType(strings.TrimSpace(q.Get("view")))
	switch view {
	case "":
		view = dre.ViewMonth
	case dre.ViewMonth, dre.ViewQuarter, dre.ViewSemester, dre.ViewYear:
	default:
		return dre.ReportRequest{}, nil, fmt.Errorf("view inválida %q", view)
	}

	expanded := make(map[string]bool)
	if raw := strings.TrimSpace(q.Get("expanded")); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				expanded[id] = true
			}
		}
	}

	return dre.ReportRequest{
		Mode:      mode,
		View:      view,
		CompanyID: companyID,
		BranchID:  branchID,
		Years:     years,
	}, expanded, nil
}

func parseYears(raw string) ([]int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("years obrigatório")
	}
	parts := strings.Split(raw, ",")
	years := make([]int, 0, len(parts))
	for _, part := range parts {
		year, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || year < 1900 || year > 9999 {
			return nil, fmt.Errorf("ano inválido %q", part)
		}
		years = append(years, year)
	}
	return years, nil
}
