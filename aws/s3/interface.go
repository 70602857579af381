//go:generate mockgen -package mocks -destination mocks/interface.go -source=interface.go
package s3

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Get when the object does not exist.
var ErrKeyNotFound = errors.New("key not found")

// BasicClient reads and writes whole objects under a bucket and optional prefix.
type BasicClient interface {
	Getter
	Putter
}

type Getter interface {
	Get(ctx context.Context, key string) (data []byte, err error)
}

// Putter uploads data, tagging the object with contentType when it is not empty.
type Putter interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (err error)
}
