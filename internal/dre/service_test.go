package dre

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	transactions    []TransactionRecord
	classifications map[int64]ClassificationRef
	forecasts       []ForecastRecord
	configs         ConfigBundle

	fetchErr        error
	txCalls         int
	classifiedIDs   [][]int64
	classifiedCalls int
}

func (f *fakeFetcher) FetchTransactions(ctx context.Context, companyID int64, branchID *int64, from, to time.Time) ([]TransactionRecord, error) {
	f.txCalls++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.transactions, nil
}

func (f *fakeFetcher) FetchClassifications(ctx context.Context, ids []int64) (map[int64]ClassificationRef, error) {
	f.classifiedCalls++
	f.classifiedIDs = append(f.classifiedIDs, ids)
	return f.classifications, nil
}

func (f *fakeFetcher) FetchForecasts(ctx context.Context, companyID int64, from, to time.Time) ([]ForecastRecord, error) {
	return f.forecasts, nil
}

func (f *fakeFetcher) FetchConfigs(ctx context.Context, companyID int64) (ConfigBundle, error) {
	return f.configs, nil
}

func scenarioFetcher() *fakeFetcher {
	in := januaryScenarioInput()
	return &fakeFetcher{
		transactions:    in.Transactions,
		classifications: in.Classifications,
		forecasts:       in.Forecasts,
		configs:         in.Configs,
	}
}

func scenarioRequest() ReportRequest {
	return ReportRequest{
		Mode:      ModeBudget,
		View:      ViewMonth,
		CompanyID: 1,
		Years:     []int{2024},
	}
}

func TestServiceGetReport(t *testing.T) {
	svc := NewService(scenarioFetcher(), nil, nil)
	report, err := svc.GetReport(context.Background(), scenarioRequest())
	require.NoError(t, err)
	require.Equal(t, 60.0, report.Totals[0])
	require.Equal(t, 50.0, report.BudgetedTotals[0])
}

func TestServiceValidatesRequest(t *testing.T) {
	svc := NewService(scenarioFetcher(), nil, nil)

	_, err := svc.GetReport(context.Background(), ReportRequest{Mode: ModeBudget, View: ViewMonth, Years: []int{2024}})
	require.Error(t, err)

	req := scenarioRequest()
	req.Years = nil
	_, err = svc.GetReport(context.Background(), req)
	require.Error(t, err)

	req = scenarioRequest()
	req.View = ViewType("weekly")
	_, err = svc.GetReport(context.Background(), req)
	require.ErrorIs(t, err, ErrInvalidViewType)

	req = scenarioRequest()
	req.Mode = ReportMode("forecast")
	_, err = svc.GetReport(context.Background(), req)
	require.Error(t, err)
}

func TestServicePropagatesFetchErrors(t *testing.T) {
	fetcher := scenarioFetcher()
	upstream := errors.New("backend unavailable")
	fetcher.fetchErr = upstream
	svc := NewService(fetcher, nil, nil)
	_, err := svc.GetReport(context.Background(), scenarioRequest())
	require.ErrorIs(t, err, upstream)
}

func TestServiceCachesReports(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	fetcher := scenarioFetcher()
	svc := NewService(fetcher, NewCache(client, time.Minute), nil)

	first, err := svc.GetReport(context.Background(), scenarioRequest())
	require.NoError(t, err)
	second, err := svc.GetReport(context.Background(), scenarioRequest())
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, fetcher.txCalls, "second call must be served from cache")

	require.NoError(t, svc.Invalidate(context.Background()))
	_, err = svc.GetReport(context.Background(), scenarioRequest())
	require.NoError(t, err)
	require.Equal(t, 2, fetcher.txCalls, "bump must force a rebuild")
}

func TestServicePassesAllTransactionIDs(t *testing.T) {
	fetcher := scenarioFetcher()
	svc := NewService(fetcher, nil, nil)
	_, err := svc.GetReport(context.Background(), scenarioRequest())
	require.NoError(t, err)
	require.Equal(t, 1, fetcher.classifiedCalls)
	require.Equal(t, []int64{1, 2}, fetcher.classifiedIDs[0])
}
