// Copyright (C) 2025 Storj Labs, Inc.
// See LICENSE for copying information.

package objstore

import (
	"bytes"
	"context"

	minio "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/zeebo/errs"
)

// MinioError is a class of minio errors.
var MinioError = errs.Class("minio")

// MinioConfig is the setup for a Minio store.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Secure    bool
}

// Minio implements Store using a MinIO/S3 client.
type Minio struct {
	api *minio.Client
}

// NewMinio creates a new Minio store.
func NewMinio(config MinioConfig) (*Minio, error) {
	client, err := minio.New(config.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.AccessKey, config.SecretKey, ""),
		Secure: config.Secure,
	})
	if err != nil {
		return nil, MinioError.Wrap(err)
	}
	return &Minio{api: client}, nil
}

// BucketExists returns whether the bucket exists.
func (store *Minio) BucketExists(ctx context.Context, bucket string) (bool, error) {
	exists, err := store.api.BucketExists(ctx, bucket)
	return exists, MinioError.Wrap(err)
}

// MakeBucket creates the bucket.
func (store *Minio) MakeBucket(ctx context.Context, bucket string) error {
	return MinioError.Wrap(store.api.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
}

// Put stores data under (bucket, key) with the given content type.
func (store *Minio) Put(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	_, err := store.api.PutObject(ctx, bucket, key,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	return MinioError.Wrap(err)
}

// List returns all objects in bucket whose key starts with prefix.
func (store *Minio) List(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error) {
	var objects []ObjectInfo
	for object := range store.api.ListObjects(ctx, bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if object.Err != nil {
			return nil, MinioError.Wrap(object.Err)
		}
		objects = append(objects, ObjectInfo{Key: object.Key, Size: object.Size})
	}
	return objects, nil
}
