package object

import (
	"context"
	"errors"
	"io"
)

// SniffLen is how many leading bytes stores inspect to detect a MIME type.
const SniffLen = 3072

// ErrInvalidKey is returned for keys that escape the store root.
var ErrInvalidKey = errors.New("invalid storage key")

// Object describes a stored blob.
type Object struct {
	Key      string
	Size     int64
	MimeType string
}

// Store stages binary objects. Keys returned by Save are opaque to callers.
type Store interface {
	Save(ctx context.Context, namespace string, fileName string, r io.Reader) (Object, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}
