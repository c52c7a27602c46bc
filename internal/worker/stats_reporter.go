package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/hdbaza/helpdesk-api/internal/model"
)

const reportTimeout = 10 * time.Second

// StatsSource computes the current ticket counts.
type StatsSource interface {
	Compute(ctx context.Context) (model.Stats, error)
}

// StatsReporter periodically logs ticket counts so operators can follow the
// backlog without polling /api/stats.
type StatsReporter struct {
	stats    StatsSource
	schedule cron.Schedule
	expr     string
	log      zerolog.Logger
}

// NewStatsReporter parses expr as a standard cron expression or descriptor
// such as "@every 1h".
func NewStatsReporter(stats StatsSource, expr string, log zerolog.Logger) (*StatsReporter, error) {
	schedule, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, fmt.Errorf("parse stats schedule %q: %w", expr, err)
	}
	return &StatsReporter{
		stats:    stats,
		schedule: schedule,
		expr:     expr,
		log:      log.With().Str("component", "stats_reporter").Logger(),
	}, nil
}

// Start runs the schedule until ctx is cancelled, then waits for a report in
// progress to finish.
func (r *StatsReporter) Start(ctx context.Context) {
	c := cron.New()
	c.Schedule(r.schedule, cron.FuncJob(func() { r.Report(ctx) }))
	c.Start()
	r.log.Info().Str("schedule", r.expr).Msg("StatsReporter started")

	<-ctx.Done()
	<-c.Stop().Done()
	r.log.Info().Msg("StatsReporter stopped")
}

// Report logs one snapshot of the ticket counts.
func (r *StatsReporter) Report(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, reportTimeout)
	defer cancel()

	stats, err := r.stats.Compute(ctx)
	if err != nil {
		if ctx.Err() == nil {
			r.log.Error().Err(err).Msg("Stats report failed")
		}
		return
	}

	byStatus := zerolog.Dict()
	for _, s := range model.Statuses {
		byStatus = byStatus.Int64(string(s), stats.ByStatus[s])
	}
	byCategory := zerolog.Dict()
	for _, c := range model.Categories {
		if n := stats.ByCategory[c]; n > 0 {
			byCategory = byCategory.Int64(string(c), n)
		}
	}

	r.log.Info().
		Int64("total", stats.Total).
		Dict("by_status", byStatus).
		Dict("by_category", byCategory).
		Msg("Ticket stats")
}
