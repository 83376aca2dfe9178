package storage

import (
	"context"
	"errors"
)

var ErrObjectNotFound = errors.New("object not found")

// PutOptions carries the per-object metadata written with Put and Copy.
type PutOptions struct {
	ContentType  string
	CacheControl string
	Public       bool
}

// Credentials identify one environment's bucket.
type Credentials struct {
	AccessKey string
	SecretKey string
	Region    string
	Bucket    string
}

// ObjectStore is a bucket-scoped object store.
type ObjectStore interface {
	Bucket() string
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, body []byte, opts PutOptions) error
	Copy(ctx context.Context, srcKey, dstKey string, opts PutOptions) error
	Exists(ctx context.Context, key string) (bool, error)
}

// Factory opens an ObjectStore for a set of credentials.
type Factory interface {
	Open(ctx context.Context, creds Credentials) (ObjectStore, error)
}
