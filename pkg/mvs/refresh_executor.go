// Copyright 2025 PingCAP, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package mvs

import (
	"context"
	"sync"
	"time"

	"github.com/pingcap/cascades/pkg/metrics"
	"github.com/pingcap/cascades/pkg/util/logutil"
	"github.com/pingcap/errors"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// RefreshExecutor runs the planning jobs of materialized view refreshes with bounded
// concurrency and a per-job timeout. Job events are counted by the executor and exported
// through metrics.MVRefreshJobCounter.
type RefreshExecutor struct {
	ctx context.Context

	maxConcurrency int
	timeout        time.Duration
	lifecycleState atomic.Int32

	metrics struct {
		submittedCount atomic.Int64
		completedCount atomic.Int64
		failedCount    atomic.Int64
		timeoutCount   atomic.Int64
		rejectedCount  atomic.Int64
	}

	queue struct {
		mu   sync.Mutex
		cond *sync.Cond
		jobs jobQueue
	}

	workersWG sync.WaitGroup
	jobsWG    sync.WaitGroup
}

const (
	executorStateInit int32 = iota
	executorStateRunning
	executorStateClosed
)

type refreshJob struct {
	name string
	job  func(ctx context.Context) error
}

// jobQueue is a FIFO ring buffer.
type jobQueue struct {
	buf  []refreshJob
	head int
	size int
}

func (q *jobQueue) push(job refreshJob) {
	if q.size == len(q.buf) {
		q.grow()
	}
	q.buf[(q.head+q.size)%len(q.buf)] = job
	q.size++
}

func (q *jobQueue) pop() (refreshJob, bool) {
	if q.size == 0 {
		return refreshJob{}, false
	}
	job := q.buf[q.head]
	q.buf[q.head] = refreshJob{} // Clear references for GC.
	q.head = (q.head + 1) % len(q.buf)
	q.size--
	if q.size == 0 {
		q.head = 0
	}
	return job, true
}

// clear drops all queued jobs and returns how many were removed.
func (q *jobQueue) clear() int {
	pending := q.size
	q.buf, q.head, q.size = nil, 0, 0
	return pending
}

// grow expands the ring buffer capacity while preserving element order.
func (q *jobQueue) grow() {
	newCap := len(q.buf) * 2
	if newCap == 0 {
		newCap = 4
	}
	newBuf := make([]refreshJob, newCap)
	if q.size > 0 {
		if q.head+q.size <= len(q.buf) {
			copy(newBuf, q.buf[q.head:q.head+q.size])
		} else {
			n := copy(newBuf, q.buf[q.head:])
			copy(newBuf[n:], q.buf[:q.size-n])
		}
	}
	q.buf = newBuf
	q.head = 0
}

// NewRefreshExecutor creates a refresh executor, timeout 0 means no timeout.
func NewRefreshExecutor(ctx context.Context, maxConcurrency int, timeout time.Duration) *RefreshExecutor {
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}
	exec := &RefreshExecutor{
		ctx:            ctx,
		maxConcurrency: maxConcurrency,
		timeout:        timeout,
	}
	exec.queue.cond = sync.NewCond(&exec.queue.mu)
	return exec
}

// Run starts the workers. It returns true only when workers are started in this call.
func (e *RefreshExecutor) Run() bool {
	if !e.lifecycleState.CompareAndSwap(executorStateInit, executorStateRunning) {
		return false
	}
	for range e.maxConcurrency {
		e.workersWG.Add(1)
		go e.workerLoop()
	}
	return true
}

// Submit enqueues one named job if the executor is still accepting work.
func (e *RefreshExecutor) Submit(name string, job func(ctx context.Context) error) {
	if job == nil {
		return
	}
	e.queue.mu.Lock()
	defer e.queue.mu.Unlock()
	if e.lifecycleState.Load() == executorStateClosed || e.ctx.Err() != nil {
		e.observe(&e.metrics.rejectedCount, metrics.MVRefreshJobRejected)
		return
	}
	e.observe(&e.metrics.submittedCount, metrics.MVRefreshJobSubmitted)
	e.jobsWG.Add(1)
	e.queue.jobs.push(refreshJob{name: name, job: job})
	e.queue.cond.Signal()
}

// Wait blocks until every submitted job finished.
func (e *RefreshExecutor) Wait() {
	e.jobsWG.Wait()
}

// Close drops the queued jobs and waits for the running ones.
// It returns true when this call performs the close.
func (e *RefreshExecutor) Close() bool {
	if e.lifecycleState.Swap(executorStateClosed) == executorStateClosed {
		return false
	}
	e.queue.mu.Lock()
	pending := e.queue.jobs.clear()
	e.queue.cond.Broadcast()
	e.queue.mu.Unlock()
	for range pending {
		e.jobsWG.Done()
	}
	e.jobsWG.Wait()
	e.workersWG.Wait()
	return true
}

func (e *RefreshExecutor) workerLoop() {
	defer e.workersWG.Done()
	for {
		e.queue.mu.Lock()
		for e.lifecycleState.Load() != executorStateClosed && e.queue.jobs.size == 0 {
			e.queue.cond.Wait()
		}
		job, ok := e.queue.jobs.pop()
		e.queue.mu.Unlock()
		if !ok {
			return
		}
		e.runJob(job)
	}
}

// runJob executes one job. A timed out job is cancelled through its context.
func (e *RefreshExecutor) runJob(job refreshJob) {
	defer e.jobsWG.Done()
	ctx := e.ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}
	err := safeExecute(ctx, job.job)
	e.observe(&e.metrics.completedCount, metrics.MVRefreshJobCompleted)
	if err == nil {
		return
	}
	e.observe(&e.metrics.failedCount, metrics.MVRefreshJobFailed)
	if ctx.Err() == context.DeadlineExceeded {
		e.observe(&e.metrics.timeoutCount, metrics.MVRefreshJobTimeout)
	}
	logutil.BgLogger().Warn("mv refresh job failed", zap.String("job", job.name), zap.Error(err))
}

func (e *RefreshExecutor) observe(count *atomic.Int64, event string) {
	count.Inc()
	metrics.MVRefreshJobCounter.WithLabelValues(event).Inc()
}

// safeExecute runs job and converts panics into errors.
func safeExecute(ctx context.Context, job func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("mv refresh job panicked: %v", r)
		}
	}()
	return job(ctx)
}
