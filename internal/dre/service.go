package dre

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Fetcher abstracts the four record streams the service needs. Satisfied by
// *Repository; tests supply in-memory fakes.
type Fetcher interface {
	FetchTransactions(ctx context.Context, companyID int64, branchID *int64, from, to time.Time) ([]TransactionRecord, error)
	FetchClassifications(ctx context.Context, transactionIDs []int64) (map[int64]ClassificationRef, error)
	FetchForecasts(ctx context.Context, companyID int64, from, to time.Time) ([]ForecastRecord, error)
	FetchConfigs(ctx context.Context, companyID int64) (ConfigBundle, error)
}

// ReportRequest selects what to build.
type ReportRequest struct {
	Mode      ReportMode
	View      ViewType
	CompanyID int64
	BranchID  *int64
	Years     []int
}

// Validate ensures the request can be served.
func (r ReportRequest) Validate() error {
	if r.CompanyID == 0 {
		return errors.New("dre: company required")
	}
	if len(r.Years) == 0 {
		return errors.New("dre: at least one year required")
	}
	if _, err := bucketSize(r.View); err != nil {
		return err
	}
	switch r.Mode {
	case ModeBudget, ModeStatement:
	default:
		return fmt.Errorf("dre: invalid mode %q", r.Mode)
	}
	return nil
}

// Service orchestrates fetching, aggregation and caching of DRE reports.
type Service struct {
	repo   Fetcher
	cache  *Cache
	logger *slog.Logger
	group  singleflight.Group
}

// NewService wires the fetcher with the optional cache.
func NewService(repo Fetcher, cache *Cache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, cache: cache, logger: logger}
}

// GetReport returns the report for the request, serving from cache when
// possible. Concurrent cache misses for the same key collapse into a single
// build.
func (s *Service) GetReport(ctx context.Context, req ReportRequest) (Report, error) {
	if s == nil || s.repo == nil {
		return Report{}, errors.New("dre: service not initialised")
	}
	if err := req.Validate(); err != nil {
		return Report{}, err
	}

	loader := func(ctx context.Context) (interface{}, error) {
		return s.buildFresh(ctx, req)
	}

	if s.cache == nil {
		value, err := loader(ctx)
		if err != nil {
			return Report{}, err
		}
		return value.(Report), nil
	}

	keyBase := reportCacheKey(req.Mode, req.View, req.CompanyID, req.BranchID, req.Years)
	key, err := s.cache.BuildKey(ctx, keyBase)
	if err != nil {
		return Report{}, err
	}

	value, err, _ := s.group.Do(key, func() (interface{}, error) {
		var report Report
		if err := s.cache.FetchJSON(ctx, key, &report, loader); err != nil {
			return Report{}, err
		}
		return report, nil
	})
	if err != nil {
		return Report{}, err
	}
	return value.(Report), nil
}

// Invalidate drops every cached report. Called after masterdata or
// transaction changes.
func (s *Service) Invalidate(ctx context.Context) error {
	if s == nil {
		return nil
	}
	return s.cache.Bump(ctx)
}

// buildFresh fans out the four fetches and runs the synchronous engine over
// the merged result. Any fetch error cancels the siblings and propagates
// unmodified.
func (s *Service) buildFresh(ctx context.Context, req ReportRequest) (Report, error) {
	from, to := yearRange(req.Years)

	var (
		transactions []TransactionRecord
		forecasts    []ForecastRecord
		configs      ConfigBundle
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		transactions, err = s.repo.FetchTransactions(gctx, req.CompanyID, req.BranchID, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		forecasts, err = s.repo.FetchForecasts(gctx, req.CompanyID, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		configs, err = s.repo.FetchConfigs(gctx, req.CompanyID)
		return err
	})
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	ids := make([]int64, len(transactions))
	for i, tx := range transactions {
		ids[i] = tx.ID
	}
	classifications, err := s.repo.FetchClassifications(ctx, ids)
	if err != nil {
		return Report{}, err
	}

	report, err := BuildReport(ReportInput{
		Mode:            req.Mode,
		View:            req.View,
		Years:           req.Years,
		Transactions:    transactions,
		Classifications: classifications,
		Forecasts:       forecasts,
		Configs:         configs,
	})
	if err != nil {
		return Report{}, err
	}
	if report.UnclassifiedCount > 0 {
		s.logger.Warn("dre report built with unclassified transactions",
			slog.Int64("company_id", req.CompanyID),
			slog.Int("unclassified", report.UnclassifiedCount))
	}
	return report, nil
}

func yearRange(years []int) (time.Time, time.Time) {
	min, max := years[0], years[0]
	for _, y := range years[1:] {
		if y < min {
			min = y
		}
		if y > max {
			max = y
		}
	}
	from := time.Date(min, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(max, time.December, 31, 23, 59, 59, 0, time.UTC)
	return from, to
}
