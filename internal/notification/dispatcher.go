package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/deevseek/washcorner/internal/core/metrics"
)

type Job struct {
	Target       string
	Message      string
	TrackingCode string
	Status       string
}

type worker struct {
	id     int
	pool   chan chan Job
	jobs   chan Job
	quit   <-chan struct{}
	logger *slog.Logger
}

func newWorker(id int, pool chan chan Job, quit <-chan struct{}, logger *slog.Logger) *worker {
	return &worker{
		id:     id,
		pool:   pool,
		jobs:   make(chan Job),
		quit:   quit,
		logger: logger,
	}
}

func (w *worker) start(wg *sync.WaitGroup, process func(Job)) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			w.pool <- w.jobs

			select {
			case job := <-w.jobs:
				w.logger.Debug("worker sending notification", "worker_id", w.id, "tracking_code", job.TrackingCode)
				process(job)
			case <-w.quit:
				w.logger.Debug("worker shutting down", "worker_id", w.id)
				return
			}
		}
	}()
}

type DispatcherConfig struct {
	MaxWorkers  int
	QueueSize   int
	SendTimeout time.Duration
}

// Dispatcher delivers notifications from a bounded queue with a fixed pool
// of workers.
type Dispatcher struct {
	sender      Sender
	logger      *slog.Logger
	sendTimeout time.Duration

	jobQueue   chan Job
	workerPool chan chan Job
	maxWorkers int
	quit       chan struct{}
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(sender Sender, config DispatcherConfig, logger *slog.Logger) *Dispatcher {
	maxWorkers := config.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 4
	}
	queueSize := config.QueueSize
	if queueSize <= 0 {
		queueSize = 100
	}
	sendTimeout := config.SendTimeout
	if sendTimeout <= 0 {
		sendTimeout = 10 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{
		sender:      sender,
		logger:      logger,
		sendTimeout: sendTimeout,
		jobQueue:    make(chan Job, queueSize),
		workerPool:  make(chan chan Job, maxWorkers),
		maxWorkers:  maxWorkers,
		quit:        make(chan struct{}),
		ctx:         ctx,
		cancel:      cancel,
	}

	for i := 0; i < maxWorkers; i++ {
		newWorker(i, d.workerPool, d.quit, logger).start(&d.wg, d.process)
	}
	d.wg.Add(1)
	go d.dispatch()

	logger.Info("notification dispatcher started",
		"max_workers", maxWorkers,
		"queue_size", queueSize)
	return d
}

// dispatch hands queued jobs to idle workers until the queue is closed and
// drained, then stops the workers.
func (d *Dispatcher) dispatch() {
	defer d.wg.Done()
	defer close(d.quit)

	for job := range d.jobQueue {
		select {
		case jobs := <-d.workerPool:
			jobs <- job
		case <-d.ctx.Done():
			d.logger.Warn("dispatcher aborted with queued notifications", "remaining", len(d.jobQueue)+1)
			return
		}
	}
}

// Enqueue never blocks. It reports false when the job was dropped because
// the queue is full or the dispatcher is shutting down.
func (d *Dispatcher) Enqueue(job Job) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.drop(job, "dispatcher closed")
		return false
	}
	select {
	case d.jobQueue <- job:
		return true
	default:
		d.drop(job, "queue full")
		return false
	}
}

func (d *Dispatcher) drop(job Job, reason string) {
	metrics.NotificationsTotal.WithLabelValues(metrics.NotificationDropped).Inc()
	d.logger.Warn("notification dropped",
		"reason", reason,
		"tracking_code", job.TrackingCode,
		"status", job.Status,
		"queue_capacity", cap(d.jobQueue))
}

func (d *Dispatcher) process(job Job) {
	ctx, cancel := context.WithTimeout(d.ctx, d.sendTimeout)
	defer cancel()

	if err := d.sender.Send(ctx, job.Target, job.Message); err != nil {
		metrics.NotificationsTotal.WithLabelValues(metrics.NotificationFailed).Inc()
		d.logger.Error("notification delivery failed",
			"tracking_code", job.TrackingCode,
			"status", job.Status,
			"error", err)
		return
	}
	metrics.NotificationsTotal.WithLabelValues(metrics.NotificationSent).Inc()
	d.logger.Info("notification sent", "tracking_code", job.TrackingCode, "status", job.Status)
}

// Shutdown stops accepting jobs and waits for queued ones to be delivered.
// When ctx ends first, in-flight sends are cancelled and the rest dropped.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.jobQueue)
	d.mu.Unlock()

	d.logger.Info("shutting down notification dispatcher", "queued", len(d.jobQueue))

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.cancel()
		d.logger.Info("notification dispatcher shutdown complete")
		return nil
	case <-ctx.Done():
		d.cancel()
		<-done
		return ctx.Err()
	}
}

// Backlog reports queued jobs not yet picked up by a worker.
func (d *Dispatcher) Backlog() (queued, capacity int) {
	return len(d.jobQueue), cap(d.jobQueue)
}
