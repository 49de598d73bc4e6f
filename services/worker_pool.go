package services

import (
	"sync"

	"go.uber.org/zap"
)

// workerPool bounds the number of notification jobs in flight. Each job runs
// in its own goroutine behind a semaphore; a panicking job is recovered and
// logged so one bad recipient never takes down a sweep.
type workerPool struct {
	sem chan struct{}
	wg  sync.WaitGroup
	log *zap.Logger
}

func newWorkerPool(size int, log *zap.Logger) *workerPool {
	if size < 1 {
		size = 1
	}
	return &workerPool{
		sem: make(chan struct{}, size),
		log: log,
	}
}

func (p *workerPool) Submit(job func()) {
	p.wg.Add(1)
	p.sem <- struct{}{}
	go func() {
		defer p.wg.Done()
		defer func() { <-p.sem }()
		defer func() {
			if r := recover(); r != nil {
				p.log.Error("notification job panicked", zap.Any("panic", r))
			}
		}()
		job()
	}()
}

func (p *workerPool) Wait() {
	p.wg.Wait()
}
