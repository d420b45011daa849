package processor

import "context"

// semaphore bounds how many videos or uploads are processed at once
type semaphore struct {
	ch chan struct{}
}

func newSemaphore(capacity int) *semaphore {
	return &semaphore{
		ch: make(chan struct{}, capacity),
	}
}

// acquire takes a slot, blocking until one is free or ctx is done
func (s *semaphore) acquire(ctx context.Context) error {
	select {
	case s.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *semaphore) release() {
	<-s.ch
}

// busy reports whether every slot is taken
func (s *semaphore) busy() bool {
	return len(s.ch) == cap(s.ch)
}

func (s *semaphore) capacity() int {
	return cap(s.ch)
}
