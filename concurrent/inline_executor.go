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
	"go.uber.org/atomic"
)

// InlineExecutor runs each task synchronously on the goroutine calling Submit. Tasks submitted to
// it complete in submission order.
type InlineExecutor struct {
	shutdown atomic.Bool
}

var _ Executor = (*InlineExecutor)(nil)

// Submit implements Executor. The task has completed when Submit returns.
func (executor *InlineExecutor) Submit(task Task) (TaskHandle, error) {
	if executor.shutdown.Load() {
		return nil, ErrExecutorShutdown
	}
	handle := newTaskHandle(task)
	handle.run()
	return handle, nil
}

// Shutdown implements Executor.
func (executor *InlineExecutor) Shutdown() (<-chan bool, error) {
	executor.shutdown.Store(true)
	terminated := make(chan bool, 1)
	terminated <- true
	return terminated, nil
}
