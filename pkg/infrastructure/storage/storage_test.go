package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopySource_EscapesSegments(t *testing.T) {
	assert.Equal(t, "bucket/web/my%20app/index.html", copySource("bucket", "/web/my app/index.html"))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, isNotFound(&smithy.GenericAPIError{Code: "NoSuchKey"}))
	assert.True(t, isNotFound(&smithy.GenericAPIError{Code: "NotFound"}))
	assert.False(t, isNotFound(&smithy.GenericAPIError{Code: "AccessDenied"}))
	assert.False(t, isNotFound(errors.New("dial tcp: timeout")))
}

func TestMemoryStore_CopyAppliesOptions(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore("mybucket")
	require.NoError(t, store.Put(ctx, "/web/app/abc/index.html", []byte("<html>"), PutOptions{}))

	opts := PutOptions{ContentType: "text/html", CacheControl: "max-age=0", Public: true}
	require.NoError(t, store.Copy(ctx, "web/app/abc/index.html", "index.html", opts))

	obj, ok := store.Object("index.html")
	require.True(t, ok)
	assert.Equal(t, "<html>", string(obj.Body))
	assert.Equal(t, opts, obj.Opts)

	err := store.Copy(ctx, "missing", "index.html", opts)
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestMemoryFactory_ReusesStorePerBucket(t *testing.T) {
	ctx := context.Background()
	seeded := NewMemoryStore("mybucket")
	factory := NewMemoryFactory(seeded)

	store, err := factory.Open(ctx, Credentials{Bucket: "mybucket"})
	require.NoError(t, err)
	assert.Same(t, seeded, store)

	factory.Err = errors.New("no route to host")
	_, err = factory.Open(ctx, Credentials{Bucket: "mybucket"})
	assert.Error(t, err)
	assert.Len(t, factory.Opened, 2)
}
