package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
)

// Worker background worker
type Worker interface {
	Run(ctx context.Context) error
}

// IJob cron job
type IJob interface {
	Start() error
	Run()
	Stop() error
}

// OnWork job body
type OnWork func() error

// BaseJob cron driven job, a run is skipped while the previous one is in flight
type BaseJob struct {
	Cron    *cron.Cron
	OnWork  OnWork
	running int32
}

// Start start the cron scheduler
func (job *BaseJob) Start() error {
	job.Cron.Start()
	return nil
}

// Stop stop the cron scheduler and wait for the running job
func (job *BaseJob) Stop() error {
	<-job.Cron.Stop().Done()
	return nil
}

// IsRunning whether a run is in flight
func (job *BaseJob) IsRunning() bool {
	return atomic.LoadInt32(&job.running) == 1
}

// Run run the job once
func (job *BaseJob) Run() {
	if !atomic.CompareAndSwapInt32(&job.running, 0, 1) {
		return
	}
	defer atomic.StoreInt32(&job.running, 0)

	_ = job.OnWork()
}

// Serve run the scheduler until ctx is done
func (job *BaseJob) Serve(ctx context.Context) error {
	if err := job.Start(); err != nil {
		return err
	}

	<-ctx.Done()
	_ = job.Stop()
	return ctx.Err()
}

// TickWorker worker polling on a fixed delay
type TickWorker struct {
	Delay    time.Duration
	ErrDelay time.Duration
}

// StartTick call onTick until ctx is done, waiting Delay after a success and ErrDelay after a failure
func (w *TickWorker) StartTick(ctx context.Context, onTick func(ctx context.Context) error) error {
	delay, errDelay := w.Delay, w.ErrDelay
	if delay <= 0 {
		delay = time.Second
	}
	if errDelay <= 0 {
		errDelay = delay
	}

	dur := time.Millisecond
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(dur):
			if err := onTick(ctx); err != nil {
				dur = errDelay
			} else {
				dur = delay
			}
		}
	}
}
