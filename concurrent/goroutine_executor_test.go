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

package concurrent_test

import (
	"errors"
	"time"

	"github.com/Martmists-GH/multiplatform-everything-sub000/concurrent"
	"go.uber.org/atomic"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("GoroutineExecutor", func() {
	var executor *concurrent.GoroutineExecutor

	BeforeEach(func() {
		executor = concurrent.NewGoroutineExecutor()
	})

	AfterEach(func() {
		Expect(shutdownExecutor(executor)).Should(Succeed())
	})

	It("executes a task", func() {
		handle, err := executor.Submit(concurrent.TaskFunc(func() (interface{}, error) {
			return "task result", nil
		}))
		Expect(err).ShouldNot(HaveOccurred())
		Expect(handle.AwaitResult(0)).Should(Equal("task result"))
		Eventually(executor.InFlight).Should(BeZero())
	})

	It("reports the error from a task", func() {
		taskErr := errors.New("boom")
		handle, err := executor.Submit(concurrent.TaskFunc(func() (interface{}, error) {
			return nil, taskErr
		}))
		Expect(err).ShouldNot(HaveOccurred())
		_, err = handle.AwaitResult(0)
		Expect(err).Should(MatchError(taskErr))
	})

	It("turns a panic into an error", func() {
		handle, err := executor.Submit(concurrent.TaskFunc(func() (interface{}, error) {
			panic("oops")
		}))
		Expect(err).ShouldNot(HaveOccurred())
		_, err = handle.AwaitResult(0)
		Expect(err).Should(MatchError("task panicked: oops"))
	})

	It("times out while waiting for a slow task", func() {
		release := make(chan struct{})
		handle, err := executor.Submit(concurrent.TaskFunc(func() (interface{}, error) {
			<-release
			return 1, nil
		}))
		Expect(err).ShouldNot(HaveOccurred())

		_, err = handle.AwaitResult(10 * time.Millisecond)
		Expect(err).Should(MatchError(concurrent.ErrAwaitTaskResultTimeout))
		Expect(handle.Cancel()).Should(MatchError(concurrent.ErrTaskStarted))

		close(release)
		Eventually(handle.Done()).Should(BeClosed())
		Expect(handle.AwaitResult(0)).Should(Equal(1))
	})

	It("allows tasks to join the tasks they submit", func() {
		var count atomic.Int32
		var spawn func(depth int) concurrent.Task
		spawn = func(depth int) concurrent.Task {
			return concurrent.TaskFunc(func() (interface{}, error) {
				count.Inc()
				if depth == 0 {
					return 1, nil
				}
				results := concurrent.SubmitAll(executor, spawn(depth-1), spawn(depth-1))
				sum := 0
				for _, result := range results {
					if result.Err != nil {
						return nil, result.Err
					}
					sum += result.Value.(int)
				}
				return sum, nil
			})
		}

		handle, err := executor.Submit(spawn(6))
		Expect(err).ShouldNot(HaveOccurred())
		Expect(handle.AwaitResult(0)).Should(Equal(64))
		Expect(count.Load()).Should(Equal(int32(127)))
	})

	It("rejects tasks after shutdown", func() {
		Expect(shutdownExecutor(executor)).Should(Succeed())
		_, err := executor.Submit(concurrent.TaskFunc(func() (interface{}, error) {
			return nil, nil
		}))
		Expect(err).Should(MatchError(concurrent.ErrExecutorShutdown))
	})

	It("waits for running tasks on shutdown", func() {
		var finished atomic.Bool
		_, err := executor.Submit(concurrent.TaskFunc(func() (interface{}, error) {
			time.Sleep(20 * time.Millisecond)
			finished.Store(true)
			return nil, nil
		}))
		Expect(err).ShouldNot(HaveOccurred())
		Expect(shutdownExecutor(executor)).Should(Succeed())
		Expect(finished.Load()).Should(BeTrue())
	})
})

var _ = Describe("InlineExecutor", func() {
	It("runs tasks in submission order", func() {
		executor := &concurrent.InlineExecutor{}
		var order []int
		tasks := make([]concurrent.Task, 5)
		for i := range tasks {
			i := i
			tasks[i] = concurrent.TaskFunc(func() (interface{}, error) {
				order = append(order, i)
				return i * i, nil
			})
		}

		results := concurrent.SubmitAll(executor, tasks...)
		Expect(order).Should(Equal([]int{0, 1, 2, 3, 4}))
		Expect(results[3]).Should(Equal(concurrent.Result{Value: 9}))
		Expect(shutdownExecutor(executor)).Should(Succeed())
	})

	It("reports submission failures through the results", func() {
		executor := &concurrent.InlineExecutor{}
		Expect(shutdownExecutor(executor)).Should(Succeed())

		results := concurrent.SubmitAll(executor, concurrent.TaskFunc(func() (interface{}, error) {
			return 1, nil
		}))
		Expect(results).Should(HaveLen(1))
		Expect(results[0].Err).Should(MatchError(concurrent.ErrExecutorShutdown))
	})
})

var _ = Describe("Join", func() {
	It("keeps the order of the handles regardless of completion order", func() {
		executor := concurrent.NewGoroutineExecutor()
		delays := []time.Duration{30, 0, 15}
		handles := make([]concurrent.TaskHandle, len(delays))
		for i, delay := range delays {
			i, delay := i, delay
			handle, err := executor.Submit(concurrent.TaskFunc(func() (interface{}, error) {
				time.Sleep(delay * time.Millisecond)
				return i, nil
			}))
			Expect(err).ShouldNot(HaveOccurred())
			handles[i] = handle
		}

		results := concurrent.Join(handles...)
		Expect(results).Should(Equal([]concurrent.Result{{Value: 0}, {Value: 1}, {Value: 2}}))
		Expect(shutdownExecutor(executor)).Should(Succeed())
	})

	It("yields a zero result for a nil handle", func() {
		Expect(concurrent.Join(nil)).Should(Equal([]concurrent.Result{{}}))
	})

	It("reports cancelled tasks", func() {
		handle, err := (&concurrent.InlineExecutor{}).Submit(concurrent.TaskFunc(func() (interface{}, error) {
			return nil, nil
		}))
		Expect(err).ShouldNot(HaveOccurred())
		// The task already ran inline.
		Expect(handle.Cancel()).Should(MatchError(concurrent.ErrTaskStarted))
	})
})
