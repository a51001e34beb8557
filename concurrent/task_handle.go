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
	"fmt"
	"time"

	"go.uber.org/atomic"
)

// States of a taskHandle. A handle moves from pending to either running or cancelled, and from
// running to completed.
const (
	taskStatePending int32 = iota
	taskStateRunning
	taskStateCompleted
	taskStateCancelled
)

// taskHandle implements TaskHandle for the executors in this package.
type taskHandle struct {
	task  Task
	state atomic.Int32

	// done is closed once result and err are set.
	done   chan struct{}
	result interface{}
	err    error
}

var _ TaskHandle = (*taskHandle)(nil)

func newTaskHandle(task Task) *taskHandle {
	return &taskHandle{
		task: task,
		done: make(chan struct{}),
	}
}

// run executes the task unless it was cancelled. A panic raised by the task is turned into its
// error result so that waiters are always released.
func (handle *taskHandle) run() {
	if !handle.state.CAS(taskStatePending, taskStateRunning) {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			handle.complete(nil, fmt.Errorf("task panicked: %v", r))
		}
	}()

	result, err := handle.task.Run()
	handle.complete(result, err)
}

func (handle *taskHandle) complete(result interface{}, err error) {
	handle.result = result
	handle.err = err
	handle.state.Store(taskStateCompleted)
	close(handle.done)
}

// Cancel implements TaskHandle.
func (handle *taskHandle) Cancel() error {
	if !handle.state.CAS(taskStatePending, taskStateCancelled) {
		if handle.state.Load() == taskStateCancelled {
			return nil
		}
		return ErrTaskStarted
	}
	handle.err = ErrTaskCancelled
	close(handle.done)
	return nil
}

// AwaitResult implements TaskHandle.
func (handle *taskHandle) AwaitResult(timeout time.Duration) (interface{}, error) {
	if timeout <= 0 {
		<-handle.done
		return handle.result, handle.err
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-handle.done:
		return handle.result, handle.err
	case <-timer.C:
		return nil, ErrAwaitTaskResultTimeout
	}
}

// Done implements TaskHandle.
func (handle *taskHandle) Done() <-chan struct{} {
	return handle.done
}
