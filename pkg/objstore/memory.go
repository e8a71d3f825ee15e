// Copyright (C) 2025 Storj Labs, Inc.
// See LICENSE for copying information.

package objstore

import (
	"context"
	"sort"
	"strings"
	"sync"
)

type memObject struct {
	data        []byte
	contentType string
}

// Memory implements Store in memory. It is primarily useful for testing.
type Memory struct {
	mu      sync.Mutex
	buckets map[string]map[string]memObject
}

// NewMemory creates a new in-memory store.
func NewMemory() *Memory {
	return &Memory{buckets: make(map[string]map[string]memObject)}
}

// BucketExists returns whether the bucket exists.
func (store *Memory) BucketExists(ctx context.Context, bucket string) (bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	_, ok := store.buckets[bucket]
	return ok, nil
}

// MakeBucket creates the bucket.
func (store *Memory) MakeBucket(ctx context.Context, bucket string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if _, ok := store.buckets[bucket]; ok {
		return Error.New("bucket %q already exists", bucket)
	}
	store.buckets[bucket] = make(map[string]memObject)
	return nil
}

// Put stores data under (bucket, key) with the given content type.
func (store *Memory) Put(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	objects, ok := store.buckets[bucket]
	if !ok {
		return Error.New("bucket %q does not exist", bucket)
	}
	objects[key] = memObject{
		data:        append([]byte(nil), data...),
		contentType: contentType,
	}
	return nil
}

// List returns all objects in bucket whose key starts with prefix, ordered
// by key.
func (store *Memory) List(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	objects, ok := store.buckets[bucket]
	if !ok {
		return nil, Error.New("bucket %q does not exist", bucket)
	}

	var infos []ObjectInfo
	for key, object := range objects {
		if strings.HasPrefix(key, prefix) {
			infos = append(infos, ObjectInfo{Key: key, Size: int64(len(object.data))})
		}
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })

	return infos, nil
}

// Object returns the stored data and content type for (bucket, key).
func (store *Memory) Object(bucket, key string) (data []byte, contentType string, ok bool) {
	store.mu.Lock()
	defer store.mu.Unlock()

	objects, ok := store.buckets[bucket]
	if !ok {
		return nil, "", false
	}
	object, ok := objects[key]
	if !ok {
		return nil, "", false
	}
	return append([]byte(nil), object.data...), object.contentType, true
}
