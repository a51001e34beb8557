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

package dataloader

import (
	"context"

	"go.uber.org/atomic"
)

// Key identifies a value to be loaded. Keys are compared with == so they must be comparable.
type Key interface{}

// Task loads the value identified by a key. A BatchLoader completes each task it receives with
// either SetValue or SetError. Only the first completion takes effect.
type Task struct {
	key       Key
	completed atomic.Bool
	done      chan struct{}
	value     interface{}
	err       error
}

func newTask(key Key) *Task {
	return &Task{
		key:  key,
		done: make(chan struct{}),
	}
}

// Key returns the key of the value loaded by the task.
func (task *Task) Key() Key {
	return task.key
}

// SetValue completes the task with the loaded value. It reports false if the task was already
// completed.
func (task *Task) SetValue(value interface{}) bool {
	return task.complete(value, nil)
}

// SetError completes the task with an error.
func (task *Task) SetError(err error) bool {
	return task.complete(nil, err)
}

func (task *Task) complete(value interface{}, err error) bool {
	if !task.completed.CAS(false, true) {
		return false
	}
	task.value = value
	task.err = err
	close(task.done)
	return true
}

// Completed returns true if the task has a result.
func (task *Task) Completed() bool {
	select {
	case <-task.done:
		return true
	default:
		return false
	}
}

// Await blocks until the task is completed or ctx is done.
func (task *Task) Await(ctx context.Context) (interface{}, error) {
	select {
	case <-task.done:
		return task.value, task.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// TaskList is a batch of tasks given to a BatchLoader.
type TaskList []*Task

// Keys returns the keys of the tasks in order.
func (tasks TaskList) Keys() []Key {
	keys := make([]Key, len(tasks))
	for i, task := range tasks {
		keys[i] = task.key
	}
	return keys
}

// failIncomplete completes every task that the batch loader left behind.
func (tasks TaskList) failIncomplete(errorf func(task *Task) error) {
	for _, task := range tasks {
		if !task.Completed() {
			task.SetError(errorf(task))
		}
	}
}
