package parallel

import (
	"fmt"
	"sync"
)

func CreateJobQueue(queueSize int, poolSize int) *JobQueue {
	if poolSize < 1 {
		poolSize = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}

	queue := &JobQueue{
		jobsChannel: make(chan func(), queueSize),
		pending:     &sync.WaitGroup{},
		workers:     &sync.WaitGroup{},
	}

	queue.workers.Add(poolSize)
	for i := 1; i <= poolSize; i++ {
		go queue.worker()
	}
	return queue
}

// JobQueue runs submitted functions on a fixed pool of goroutines.
type JobQueue struct {
	jobsChannel chan func()
	pending     *sync.WaitGroup
	workers     *sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

func (queue *JobQueue) Add(function func()) error {
	if function == nil {
		return fmt.Errorf("nil function")
	}

	queue.mu.Lock()
	defer queue.mu.Unlock()
	if queue.closed {
		return fmt.Errorf("job queue is closed")
	}

	queue.pending.Add(1)
	queue.jobsChannel <- function
	return nil
}

// Wait blocks until every added job has finished.
func (queue *JobQueue) Wait() {
	queue.pending.Wait()
}

// Close stops accepting jobs and returns once all workers have exited.
func (queue *JobQueue) Close() {
	queue.mu.Lock()
	if queue.closed {
		queue.mu.Unlock()
		return
	}
	queue.closed = true
	close(queue.jobsChannel)
	queue.mu.Unlock()

	queue.workers.Wait()
}

func (queue *JobQueue) worker() {
	defer queue.workers.Done()
	for job := range queue.jobsChannel {
		job()
		queue.pending.Done()
	}
}
