/**
 * Copyright (c) 2018, The Artemis Authors.
 *
 * Permission to use, copy, modify, and/or distribute this software for any
 * purpose with or without fee is hereby granted, provided that the above
 * copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES
 * WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF
 * MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR
 * ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES
 * WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN
 * ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF
 * OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package concurrent

import (
	"sync"

	"go.uber.org/atomic"
)

// GoroutineExecutor runs every submitted task on its own goroutine. Tasks may submit and join
// further tasks without risking starvation, which makes it suitable for recursive fan-out such as
// resolving the fields of a GraphQL selection set.
type GoroutineExecutor struct {
	shutdown atomic.Bool
	inFlight atomic.Int64
	wg       sync.WaitGroup
	// Guards the transition to shutdown against concurrent Submit calls adding to wg.
	mutex sync.RWMutex
}

var _ Executor = (*GoroutineExecutor)(nil)

// NewGoroutineExecutor creates an executor that is ready to accept tasks.
func NewGoroutineExecutor() *GoroutineExecutor {
	return &GoroutineExecutor{}
}

// Submit implements Executor.
func (executor *GoroutineExecutor) Submit(task Task) (TaskHandle, error) {
	executor.mutex.RLock()
	if executor.shutdown.Load() {
		executor.mutex.RUnlock()
		return nil, ErrExecutorShutdown
	}
	executor.wg.Add(1)
	executor.mutex.RUnlock()

	handle := newTaskHandle(task)
	executor.inFlight.Inc()
	go func() {
		defer executor.wg.Done()
		defer executor.inFlight.Dec()
		handle.run()
	}()

	return handle, nil
}

// InFlight returns the number of tasks that have been submitted but not yet completed.
func (executor *GoroutineExecutor) InFlight() int64 {
	return executor.inFlight.Load()
}

// Shutdown implements Executor.
func (executor *GoroutineExecutor) Shutdown() (<-chan bool, error) {
	executor.mutex.Lock()
	executor.shutdown.Store(true)
	executor.mutex.Unlock()

	terminated := make(chan bool, 1)
	go func() {
		executor.wg.Wait()
		terminated <- true
	}()
	return terminated, nil
}
