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
	"fmt"
)

// batchLoadJob calls the BatchLoader of a DataLoader with one batch of tasks. It is submitted to
// Config.Runner.
type batchLoadJob struct {
	ctx    context.Context
	loader BatchLoader
	tasks  TaskList
}

// Run implements concurrent.Task. Tasks left incomplete by the BatchLoader, including when it
// panics, are completed with an error so that no Load blocks forever.
func (job *batchLoadJob) Run() (result interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("batch loader panicked: %v", r)
			job.tasks.failIncomplete(func(*Task) error { return err })
		}
	}()

	job.loader.Load(job.ctx, job.tasks)

	job.tasks.failIncomplete(func(task *Task) error {
		return fmt.Errorf("%T must complete every given data loading task with either a value or an "+
			"error but it doesn't complete task that loads data at key %v", job.loader, task.Key())
	})
	return nil, nil
}
