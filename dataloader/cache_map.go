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
	"sync"
)

// CacheMap caches the tasks of a DataLoader by their keys. All methods must be safe for concurrent
// use by multiple goroutines.
type CacheMap interface {
	// Get returns the task cached for key or nil.
	Get(key Key) *Task

	// Set caches the task unless a task with the same key is cached, in which case the cached task is
	// returned instead.
	Set(task *Task) *Task

	// Delete evicts the task cached for key.
	Delete(key Key)

	// Clear evicts every task.
	Clear()
}

// DefaultCacheMap keeps every task until it is deleted. It is used when Config.CacheMap is nil.
type DefaultCacheMap struct {
	tasks sync.Map
}

var _ CacheMap = (*DefaultCacheMap)(nil)

func (cacheMap *DefaultCacheMap) get(cacheKey interface{}) *Task {
	if task, ok := cacheMap.tasks.Load(cacheKey); ok {
		return task.(*Task)
	}
	return nil
}

func (cacheMap *DefaultCacheMap) set(cacheKey interface{}, task *Task) *Task {
	cached, _ := cacheMap.tasks.LoadOrStore(cacheKey, task)
	return cached.(*Task)
}

// Get implements CacheMap.
func (cacheMap *DefaultCacheMap) Get(key Key) *Task {
	return cacheMap.get(key)
}

// Set implements CacheMap.
func (cacheMap *DefaultCacheMap) Set(task *Task) *Task {
	return cacheMap.set(task.Key(), task)
}

// Delete implements CacheMap.
func (cacheMap *DefaultCacheMap) Delete(key Key) {
	cacheMap.tasks.Delete(key)
}

// Clear implements CacheMap.
func (cacheMap *DefaultCacheMap) Clear() {
	cacheMap.tasks.Range(func(cacheKey, _ interface{}) bool {
		cacheMap.tasks.Delete(cacheKey)
		return true
	})
}

// KeyWithCustomCacheKey is a Key carrying extra data that should not take part in the cache
// lookup, such as a selection hint.
type KeyWithCustomCacheKey interface {
	KeyForCache() interface{}
}

// CustomKeyCacheMap caches tasks by KeyForCache of their keys. Every key given to it must implement
// KeyWithCustomCacheKey.
type CustomKeyCacheMap struct {
	DefaultCacheMap
}

func cacheKeyOf(key Key) interface{} {
	return key.(KeyWithCustomCacheKey).KeyForCache()
}

// Get implements CacheMap.
func (cacheMap *CustomKeyCacheMap) Get(key Key) *Task {
	return cacheMap.get(cacheKeyOf(key))
}

// Set implements CacheMap.
func (cacheMap *CustomKeyCacheMap) Set(task *Task) *Task {
	return cacheMap.set(cacheKeyOf(task.Key()), task)
}

// Delete implements CacheMap.
func (cacheMap *CustomKeyCacheMap) Delete(key Key) {
	cacheMap.DefaultCacheMap.Delete(cacheKeyOf(key))
}

// noCacheMap is the type of NoCacheMap.
type noCacheMap struct{}

// NoCacheMap disables caching when given to Config.CacheMap. Every Load then schedules a new task.
var NoCacheMap CacheMap = noCacheMap{}

// Get implements CacheMap.
func (noCacheMap) Get(Key) *Task {
	return nil
}

// Set implements CacheMap.
func (noCacheMap) Set(task *Task) *Task {
	return task
}

// Delete implements CacheMap.
func (noCacheMap) Delete(Key) {}

// Clear implements CacheMap.
func (noCacheMap) Clear() {}
