package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/vitrine-app/vitrine/internal/reports"
)

// ReportsWarmupJob computes every dashboard chart ahead of the first
// request of the day so the cache is already hot.
type ReportsWarmupJob struct {
	reports *reports.Service
	logger  *slog.Logger
}

func NewReportsWarmupJob(service *reports.Service, logger *slog.Logger) *ReportsWarmupJob {
	return &ReportsWarmupJob{reports: service, logger: logger}
}

// Handle processes TaskReportsWarmup tasks.
func (j *ReportsWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.reports == nil {
		return errors.New("reports warmup: handler not configured")
	}
	var payload ReportsWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	periods := []reports.Period{reports.PeriodWeek, reports.PeriodMonth, reports.PeriodYear}
	if len(payload.Periods) > 0 {
		periods = periods[:0]
		for _, raw := range payload.Periods {
			period, err := reports.ParsePeriod(raw)
			if err != nil {
				return asynq.SkipRetry
			}
			periods = append(periods, period)
		}
	}
	methods := []reports.Method{reports.MethodCashBasis, reports.MethodAccrualBasis}

	started := time.Now()
	warmed := 0
	for _, period := range periods {
		for _, method := range methods {
			if _, err := j.reports.ChartData(ctx, period, method); err != nil {
				j.logger.Error("warm chart",
					slog.String("period", string(period)),
					slog.String("method", string(method)),
					slog.Any("error", err))
				return err
			}
			warmed++
		}
	}

	j.logger.Info("completed reports warmup",
		slog.Int("charts", warmed),
		slog.Duration("duration", time.Since(started)))
	return nil
}
