package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ZordnajelA/aura/internal/models"
	"github.com/ZordnajelA/aura/internal/queue"
)

// Dispatcher executes one claimed job end to end: load the record, run
// the processor, persist the outcome. The processing service implements
// this.
type Dispatcher interface {
	Dispatch(ctx context.Context, msg *models.JobMessage) error
}

// Pool runs a fixed number of workers pulling job messages off the
// queue. goqite's visibility timeout guarantees at most one worker
// holds a message at a time.
type Pool struct {
	queueMgr     *queue.Manager
	dispatcher   Dispatcher
	logger       arbor.ILogger
	numWorkers   int
	pollInterval time.Duration
	wg           sync.WaitGroup
	ctx          context.Context
	cancel       context.CancelFunc
}

func NewPool(queueMgr *queue.Manager, dispatcher Dispatcher, logger arbor.ILogger, numWorkers int, pollInterval time.Duration) *Pool {
	ctx, cancel := context.WithCancel(context.Background())

	return &Pool{
		queueMgr:     queueMgr,
		dispatcher:   dispatcher,
		logger:       logger,
		numWorkers:   numWorkers,
		pollInterval: pollInterval,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Start launches the workers
func (p *Pool) Start() {
	p.logger.Info().
		Int("num_workers", p.numWorkers).
		Msg("Starting worker pool")

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Stop stops the worker pool gracefully, waiting for in-flight jobs
func (p *Pool) Stop() {
	p.logger.Info().Msg("Stopping worker pool...")
	p.cancel()
	p.wg.Wait()
	p.logger.Info().Msg("Worker pool stopped")
}

// worker is the main worker loop
func (p *Pool) worker(workerID int) {
	defer p.wg.Done()

	p.logger.Debug().
		Int("worker_id", workerID).
		Msg("Worker started")

	for {
		select {
		case <-p.ctx.Done():
			p.logger.Debug().
				Int("worker_id", workerID).
				Msg("Worker stopping")
			return
		default:
			p.processNextJob(workerID)
		}
	}
}

// processNextJob pulls one message and dispatches it
func (p *Pool) processNextJob(workerID int) {
	msg, deleteFn, err := p.queueMgr.Receive(p.ctx)
	if err != nil {
		if errors.Is(err, queue.ErrNoMessage) {
			// Queue is empty, back off before polling again
			select {
			case <-p.ctx.Done():
			case <-time.After(p.pollInterval):
			}
		}
		return
	}

	p.logger.Info().
		Int("worker_id", workerID).
		Str("job_id", msg.JobID).
		Str("job_type", string(msg.JobType)).
		Msg("Processing job")

	if err := p.dispatcher.Dispatch(p.ctx, msg); err != nil {
		// The dispatcher already recorded the failure on the job; the
		// message is still deleted so the job is not retried
		p.logger.Error().
			Err(err).
			Str("job_id", msg.JobID).
			Msg("Job dispatch failed")
	} else {
		p.logger.Info().
			Str("job_id", msg.JobID).
			Msg("Job finished")
	}

	if err := deleteFn(); err != nil {
		p.logger.Error().
			Err(err).
			Str("job_id", msg.JobID).
			Msg("Failed to delete message from queue")
	}
}
