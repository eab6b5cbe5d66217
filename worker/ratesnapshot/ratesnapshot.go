package ratesnapshot

import (
	"context"
	"time"

	"lendledger/core"
	"lendledger/pkg/concurrency"
	"lendledger/worker"

	"github.com/fox-one/pkg/logger"
	"github.com/robfig/cron/v3"
)

// DefaultSpec snapshot every market once per minute; writes after the first in a group are no-ops
const DefaultSpec = "@every 1m"

// Job records the current borrow and supply rate of every market
type Job struct {
	worker.BaseJob
	assets   core.AssetService
	interest core.InterestService
	limit    *concurrency.GoLimit
	ctx      context.Context
}

// New new rate snapshot job
func New(
	location string,
	spec string,
	assets core.AssetService,
	interest core.InterestService,
) *Job {
	job := Job{
		assets:   assets,
		interest: interest,
		limit:    concurrency.NewGoLimit(8),
		ctx:      context.Background(),
	}

	if spec == "" {
		spec = DefaultSpec
	}

	l, err := time.LoadLocation(location)
	if err != nil {
		l = time.Local
	}

	job.Cron = cron.New(cron.WithLocation(l))
	if _, err := job.Cron.AddFunc(spec, job.BaseJob.Run); err != nil {
		panic(err)
	}
	job.OnWork = func() error {
		return job.onWork(job.ctx)
	}

	return &job
}

// Run run the scheduler until ctx is done
func (job *Job) Run(ctx context.Context) error {
	job.ctx = logger.WithContext(ctx, logger.FromContext(ctx).WithField("worker", "ratesnapshot"))
	return job.Serve(ctx)
}

// Snapshot snapshot every market once
func (job *Job) Snapshot(ctx context.Context) error {
	return job.onWork(ctx)
}

func (job *Job) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx)

	assets, err := job.assets.All(ctx)
	if err != nil {
		log.WithError(err).Errorln("assets.All")
		return err
	}

	tasks := make([]func(ctx context.Context) error, 0, len(assets))
	for _, asset := range assets {
		asset := asset
		tasks = append(tasks, func(ctx context.Context) error {
			if err := job.interest.SnapshotMarket(ctx, asset.ID); err != nil {
				log.WithError(err).Errorln("SnapshotMarket", asset.ID)
				return err
			}

			return nil
		})
	}

	return concurrency.Await(ctx, job.limit, tasks...)
}
