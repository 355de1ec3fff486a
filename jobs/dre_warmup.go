package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cooperval/controladoria/internal/dre"
	jobmetrics "github.com/cooperval/controladoria/internal/jobs"
)

// DREWarmupJob pre-populates the report cache so the first dashboard hit of
// the day is served warm.
type DREWarmupJob struct {
	Reports *dre.Service
	Pool    *pgxpool.Pool
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewDREWarmupJob wires dependencies for the warmup handler.
func NewDREWarmupJob(reports *dre.Service, pool *pgxpool.Pool, logger *slog.Logger, metrics *jobmetrics.Metrics) *DREWarmupJob {
	return &DREWarmupJob{
		Reports: reports,
		Pool:    pool,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// NewCronTask builds the task the scheduler registers; each run carries a
// fresh request id so log lines from one sweep correlate.
func (j *DREWarmupJob) NewCronTask() (*asynq.Task, error) {
	return NewDREWarmupTask(DREWarmupPayload{RequestID: uuid.NewString()})
}

// Handle processes TaskDREWarmup tasks.
func (j *DREWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Reports == nil {
		return errors.New("dre warmup: handler not configured")
	}
	var payload DREWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.RequestID == "" {
		payload.RequestID = uuid.NewString()
	}
	if len(payload.Years) == 0 {
		payload.Years = []int{j.clock().Year()}
	}

	tracker := j.metrics().Track(TaskDREWarmup)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger().With(slog.String("request_id", payload.RequestID))

	companies := payload.CompanyIDs
	if len(companies) == 0 {
		var err error
		companies, err = j.activeCompanies(ctx)
		if err != nil {
			resultErr = err
			return resultErr
		}
	}

	for _, companyID := range companies {
		for _, mode := range []dre.ReportMode{dre.ModeBudget, dre.ModeStatement} {
			_, err := j.Reports.GetReport(ctx, dre.ReportRequest{
				Mode:      mode,
				View:      dre.ViewMonth,
				CompanyID: companyID,
				Years:     payload.Years,
			})
			if err != nil {
				logger.Warn("dre warmup failed",
					slog.Int64("company_id", companyID),
					slog.String("mode", string(mode)),
					slog.Any("error", err))
				resultErr = err
				continue
			}
		}
	}
	if resultErr == nil {
		logger.Info("dre warmup finished", slog.Int("companies", len(companies)))
	}
	return resultErr
}

func (j *DREWarmupJob) activeCompanies(ctx context.Context) ([]int64, error) {
	if j.Pool == nil {
		return nil, errors.New("dre warmup: pool not configured")
	}
	const query = `SELECT id FROM companies WHERE active ORDER BY id`
	rows, err := j.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (j *DREWarmupJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return jobmetrics.NewMetrics(nil)
}

func (j *DREWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}
