// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package objectstore_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leoFagundes/breakfast-budget-club/internal/platform/objectstore"
)

type fakeS3 struct {
	objects map[string][]byte
	types   map[string]string
	failPut bool
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
}

func (fake *fakeS3) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if fake.failPut {
		return nil, errors.New("access denied")
	}
	data, _ := io.ReadAll(params.Body)
	fake.objects[aws.ToString(params.Key)] = data
	fake.types[aws.ToString(params.Key)] = aws.ToString(params.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (fake *fakeS3) DeleteObject(_ context.Context, params *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(fake.objects, aws.ToString(params.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (fake *fakeS3) HeadObject(_ context.Context, params *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if _, ok := fake.objects[aws.ToString(params.Key)]; !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{}, nil
}

func (fake *fakeS3) HeadBucket(context.Context, *s3.HeadBucketInput, ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	return &s3.HeadBucketOutput{}, nil
}

/*
TestS3Store_PutDelete uploads, returns a public URL, then deletes.
*/
func TestS3Store_PutDelete(t *testing.T) {
	ctx := context.Background()
	client := newFakeS3()
	store := objectstore.NewS3StoreWithClient(client, objectstore.S3Config{
		Bucket:   "portal",
		Endpoint: "http://localhost:9000",
	})

	url, err := store.Put(ctx, "card-files/c1/menu plan.pdf", strings.NewReader("pdf"), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/portal/card-files/c1/menu%20plan.pdf", url)
	assert.Equal(t, []byte("pdf"), client.objects["card-files/c1/menu plan.pdf"])
	assert.Equal(t, "application/pdf", client.types["card-files/c1/menu plan.pdf"])

	require.NoError(t, store.Delete(ctx, "card-files/c1/menu plan.pdf"))
	assert.Empty(t, client.objects)

	assert.ErrorIs(t, store.Delete(ctx, "card-files/c1/menu plan.pdf"), objectstore.ErrNotFound)
	require.NoError(t, store.Ping(ctx))
}

/*
TestS3Store_PutFailure wraps client errors.
*/
func TestS3Store_PutFailure(t *testing.T) {
	client := newFakeS3()
	client.failPut = true
	store := objectstore.NewS3StoreWithClient(client, objectstore.S3Config{Bucket: "portal", Region: "us-east-1"})

	_, err := store.Put(context.Background(), "card-files/c1/a.txt", strings.NewReader("a"), "text/plain")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3_put_object_failed")
}

/*
TestPublicURL covers the base URL variants.
*/
func TestPublicURL(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com/card-files/c1/a.txt", objectstore.PublicURL("https://cdn.example.com/", "card-files/c1/a.txt"))
	assert.Equal(t, "https://cdn.example.com/x/%23y", objectstore.PublicURL("https://cdn.example.com", "/x/#y"))

	store := objectstore.NewS3StoreWithClient(newFakeS3(), objectstore.S3Config{Bucket: "portal", Region: "sa-east-1"})
	url, err := store.Put(context.Background(), "a.txt", strings.NewReader(""), "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "https://portal.s3.sa-east-1.amazonaws.com/a.txt", url)
}

/*
TestMemoryStore keeps bytes and reports missing deletes.
*/
func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := objectstore.NewMemoryStore("http://localhost:8080/files")

	url, err := store.Put(ctx, "card-files/c1/a.txt", strings.NewReader("hello"), "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/files/card-files/c1/a.txt", url)

	object, ok := store.Get("card-files/c1/a.txt")
	require.True(t, ok)
	assert.Equal(t, "hello", string(object.Body))

	require.NoError(t, store.Delete(ctx, "card-files/c1/a.txt"))
	assert.ErrorIs(t, store.Delete(ctx, "card-files/c1/a.txt"), objectstore.ErrNotFound)
}
