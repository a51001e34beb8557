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

// Package dataloader coalesces individual loads issued by concurrently running resolvers into
// batches and caches the loaded values per key.
package dataloader

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Martmists-GH/multiplatform-everything-sub000/concurrent"
)

// A DataLoader loads data from a data backend with unique keys such as the id column of a SQL
// table.
type DataLoader struct {
	config Config

	// Lock that guards pending and timer
	queueMutex sync.Mutex

	// Tasks waiting to be dispatched
	pending TaskList

	// Fires Dispatch at the end of the batching window. It is nil when nothing is pending.
	timer *time.Timer

	// cacheMap caches loaded data. It is nil if the cache is disabled.
	cacheMap CacheMap
}

var errMissingBatchLoader = errors.New("batch loader is required to construct a DataLoader")

// New creates a DataLoader instance from given config.
func New(config Config) (*DataLoader, error) {
	if config.BatchLoader == nil {
		return nil, errMissingBatchLoader
	}
	if config.Runner == nil {
		config.Runner = concurrent.NewGoroutineExecutor()
	}
	if config.Wait <= 0 {
		config.Wait = DefaultWait
	}

	cacheMap := config.CacheMap
	if cacheMap == nil {
		cacheMap = &DefaultCacheMap{}
	} else if cacheMap == NoCacheMap {
		cacheMap = nil
	}

	return &DataLoader{
		config:   config,
		cacheMap: cacheMap,
	}, nil
}

// BatchLoader returns the BatchLoader given in Config.
func (loader *DataLoader) BatchLoader() BatchLoader {
	return loader.config.BatchLoader
}

// Load blocks until the value for key is loaded or ctx is done.
func (loader *DataLoader) Load(ctx context.Context, key Key) (interface{}, error) {
	return loader.LoadTask(key).Await(ctx)
}

// LoadMany loads the values for keys in a single pass. Results are in the order of keys.
func (loader *DataLoader) LoadMany(ctx context.Context, keys ...Key) []concurrent.Result {
	tasks := make(TaskList, len(keys))
	for i, key := range keys {
		tasks[i] = loader.LoadTask(key)
	}

	results := make([]concurrent.Result, len(tasks))
	for i, task := range tasks {
		value, err := task.Await(ctx)
		results[i] = concurrent.Result{Value: value, Err: err}
	}
	return results
}

// LoadTask schedules the load of key without waiting for it. A cached task is returned if there is
// one.
func (loader *DataLoader) LoadTask(key Key) *Task {
	cacheMap := loader.cacheMap
	if cacheMap != nil {
		if task := cacheMap.Get(key); task != nil {
			return task
		}
	}

	task := newTask(key)
	if cacheMap != nil {
		if cached := cacheMap.Set(task); cached != task {
			// Lost the race to another Load of the same key.
			return cached
		}
	}

	loader.enqueue(task)
	return task
}

func (loader *DataLoader) enqueue(task *Task) {
	var full TaskList

	loader.queueMutex.Lock()
	loader.pending = append(loader.pending, task)
	if limit := loader.config.MaxBatchSize; limit > 0 && uint(len(loader.pending)) >= limit {
		full = loader.takePendingLocked()
	} else if loader.timer == nil {
		loader.timer = time.AfterFunc(loader.config.Wait, func() {
			loader.Dispatch(context.Background())
		})
	}
	loader.queueMutex.Unlock()

	if len(full) > 0 {
		loader.dispatchTasks(context.Background(), full)
	}
}

func (loader *DataLoader) takePendingLocked() TaskList {
	tasks := loader.pending
	loader.pending = nil
	if loader.timer != nil {
		loader.timer.Stop()
		loader.timer = nil
	}
	return tasks
}

// Dispatch sends all pending tasks to the BatchLoader without waiting for the batching window.
func (loader *DataLoader) Dispatch(ctx context.Context) {
	loader.queueMutex.Lock()
	tasks := loader.takePendingLocked()
	loader.queueMutex.Unlock()

	loader.dispatchTasks(ctx, tasks)
}

// dispatchTasks splits tasks into batches of at most MaxBatchSize and submits them to the Runner.
func (loader *DataLoader) dispatchTasks(ctx context.Context, tasks TaskList) {
	batchSize := len(tasks)
	if limit := int(loader.config.MaxBatchSize); limit > 0 && limit < batchSize {
		batchSize = limit
	}

	for len(tasks) > 0 {
		batch := tasks[:batchSize:batchSize]
		tasks = tasks[batchSize:]
		if len(tasks) < batchSize {
			batchSize = len(tasks)
		}

		job := &batchLoadJob{
			ctx:    ctx,
			loader: loader.config.BatchLoader,
			tasks:  batch,
		}
		if _, err := loader.config.Runner.Submit(job); err != nil {
			batch.failIncomplete(func(*Task) error { return err })
		}
	}
}

// Clear the value for the given key from the cache.
func (loader *DataLoader) Clear(key Key) {
	cacheMap := loader.cacheMap
	if cacheMap != nil {
		cacheMap.Delete(key)
	}
}

// ClearAll clears the entire cache.
func (loader *DataLoader) ClearAll() {
	cacheMap := loader.cacheMap
	if cacheMap != nil {
		cacheMap.Clear()
	}
}

// Prime adds the provided key and value to the cache. If the key already exists, no change is made.
func (loader *DataLoader) Prime(key Key, value interface{}) {
	loader.prime(key, func(task *Task) { task.SetValue(value) })
}

// PrimeError adds the provided key with an error value to the cache. If the key already exists, no
// change is made.
func (loader *DataLoader) PrimeError(key Key, err error) {
	loader.prime(key, func(task *Task) { task.SetError(err) })
}

func (loader *DataLoader) prime(key Key, complete func(task *Task)) {
	cacheMap := loader.cacheMap
	if cacheMap == nil {
		return
	}
	task := newTask(key)
	complete(task)
	cacheMap.Set(task)
}
