package worker

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestPool_ProcessesAllJobs(t *testing.T) {
	logger := zap.NewNop()
	pool := NewPool(2, 10, logger)
	pool.Start()

	var results sync.Map

	for i := 0; i < 5; i++ {
		jobID := i
		job := Job{
			CountryCode: fmt.Sprintf("C%d", jobID),
			Handler: func() error {
				results.Store(jobID, true)
				return nil
			},
		}

		if err := pool.Submit(job); err != nil {
			t.Errorf("Failed to submit job %d: %v", jobID, err)
		}
	}

	pool.Stop()

	for i := 0; i < 5; i++ {
		if _, ok := results.Load(i); !ok {
			t.Errorf("Job %d was not processed", i)
		}
	}

	if pool.GetProcessedJobs() != 5 {
		t.Errorf("Expected 5 processed jobs, got %d", pool.GetProcessedJobs())
	}
}

func TestPool_CountsFailedJobs(t *testing.T) {
	logger := zap.NewNop()
	pool := NewPool(1, 5, logger)
	pool.Start()

	if err := pool.Submit(Job{
		CountryCode: "XX",
		Handler: func() error {
			return fmt.Errorf("fetch failed")
		},
	}); err != nil {
		t.Fatalf("Failed to submit job: %v", err)
	}

	pool.Stop()

	if pool.GetFailedJobs() != 1 {
		t.Errorf("Expected 1 failed job, got %d", pool.GetFailedJobs())
	}
	if pool.GetProcessedJobs() != 0 {
		t.Errorf("Expected 0 processed jobs, got %d", pool.GetProcessedJobs())
	}
}

func TestPool_BoundedConcurrency(t *testing.T) {
	logger := zap.NewNop()

	const workers = 3
	const jobs = 20

	pool := NewPool(workers, jobs, logger)
	pool.Start()

	var current, peak int64

	for i := 0; i < jobs; i++ {
		job := Job{
			CountryCode: fmt.Sprintf("C%d", i),
			Handler: func() error {
				inFlight := atomic.AddInt64(&current, 1)
				// Фиксируем максимум одновременно выполняющихся задач
				for {
					observed := atomic.LoadInt64(&peak)
					if inFlight <= observed || atomic.CompareAndSwapInt64(&peak, observed, inFlight) {
						break
					}
				}
				time.Sleep(10 * time.Millisecond)
				atomic.AddInt64(&current, -1)
				return nil
			},
		}

		if err := pool.Submit(job); err != nil {
			t.Fatalf("Failed to submit job %d: %v", i, err)
		}
	}

	pool.Stop()

	if observed := atomic.LoadInt64(&peak); observed > workers {
		t.Errorf("Concurrency bound violated: %d jobs in flight with %d workers", observed, workers)
	}
	if pool.GetProcessedJobs() != jobs {
		t.Errorf("Expected %d processed jobs, got %d", jobs, pool.GetProcessedJobs())
	}
}

func TestPool_SubmitAfterStop(t *testing.T) {
	logger := zap.NewNop()
	pool := NewPool(1, 1, logger)
	pool.Start()
	pool.Stop()

	err := pool.Submit(Job{CountryCode: "US", Handler: func() error { return nil }})
	if err != ErrPoolStopped {
		t.Errorf("Expected ErrPoolStopped, got %v", err)
	}
}
