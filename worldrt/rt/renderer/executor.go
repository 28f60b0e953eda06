package renderer

import (
	"time"

	"github.com/alitto/pond/v2"
	"github.com/getsentry/sentry-go"
)

type Priority uint8

const (
	PriorityLow Priority = iota
	PriorityHigh
)

// Executor runs section tasks in the background.
type Executor interface {
	Submit(priority Priority, task func())
}

// PoolExecutor runs high priority tasks on the full pool and low priority ones on a
// subpool that leaves one worker free.
type PoolExecutor struct {
	pool   pond.Pool
	low    pond.Pool
	logger Logger
}

func NewPoolExecutor(workers int, logger Logger) *PoolExecutor {
	if logger == nil {
		logger = nopLogger{}
	}
	pool := pond.NewPool(max(workers, 1))
	return &PoolExecutor{
		pool:   pool,
		low:    pool.NewSubpool(maxPreparingTasks(workers)),
		logger: logger,
	}
}

func (e *PoolExecutor) Submit(priority Priority, task func()) {
	run := func() {
		defer func() {
			if err := recover(); err != nil {
				e.logger.Errorf("Section task panicked: %v", err)
				hub := sentry.CurrentHub().Clone()
				hub.Recover(err)
				hub.Flush(time.Second * 2)
			}
		}()
		task()
	}
	if priority == PriorityHigh {
		e.pool.Submit(run)
		return
	}
	e.low.Submit(run)
}

func (e *PoolExecutor) RunningWorkers() int64 {
	return e.pool.RunningWorkers()
}

func (e *PoolExecutor) StopAndWait() {
	e.low.StopAndWait()
	e.pool.StopAndWait()
}
