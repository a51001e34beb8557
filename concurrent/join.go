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

// Result holds the outcome of one joined task.
type Result struct {
	Value interface{}
	Err   error
}

// Join waits for all handles and collects their results into a slice in the same order as the
// handles are given, regardless of the order in which the tasks complete. A nil handle yields a
// zero Result.
func Join(handles ...TaskHandle) []Result {
	results := make([]Result, len(handles))
	for i, handle := range handles {
		if handle == nil {
			continue
		}
		value, err := handle.AwaitResult(0)
		results[i] = Result{value, err}
	}
	return results
}

// SubmitAll submits tasks to executor and joins them. A task that cannot be submitted reports the
// submission error as its result.
func SubmitAll(executor Executor, tasks ...Task) []Result {
	handles := make([]TaskHandle, len(tasks))
	failed := map[int]error{}
	for i, task := range tasks {
		handle, err := executor.Submit(task)
		if err != nil {
			failed[i] = err
			continue
		}
		handles[i] = handle
	}

	results := Join(handles...)
	for i, err := range failed {
		results[i].Err = err
	}
	return results
}
