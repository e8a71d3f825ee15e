// Copyright (C) 2025 Storj Labs, Inc.
// See LICENSE for copying information.

// Package objstore provides access to the object storage backend holding
// uploaded artifacts.
package objstore

import (
	"context"

	"github.com/zeebo/errs"
)

// Error is a class of objstore errors.
var Error = errs.Class("objstore")

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Key  string
	Size int64
}

// Store is the object storage interface the gateway depends on.
type Store interface {
	// BucketExists returns whether the bucket exists.
	BucketExists(ctx context.Context, bucket string) (bool, error)

	// MakeBucket creates the bucket.
	MakeBucket(ctx context.Context, bucket string) error

	// Put stores data under (bucket, key) with the given content type. A
	// put to an existing key overwrites the object.
	Put(ctx context.Context, bucket, key string, data []byte, contentType string) error

	// List returns all objects in bucket whose key starts with prefix,
	// traversing folder-like prefixes recursively.
	List(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error)
}

// Ensure creates the bucket if it does not exist. It is safe to call
// repeatedly.
func Ensure(ctx context.Context, store Store, bucket string) error {
	exists, err := store.BucketExists(ctx, bucket)
	if err != nil {
		return Error.Wrap(err)
	}
	if exists {
		return nil
	}
	return Error.Wrap(store.MakeBucket(ctx, bucket))
}
