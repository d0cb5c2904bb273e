// ABOUTME: Tests for S3 backups against an in-memory object API.
// ABOUTME: Covers key layout, listing order and newest-backup selection.

package backup

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harper/coursetrack/internal/models"
)

type fakeS3 struct {
	objects map[string][]byte
	putErr  error
}

func newFakeS3() *fakeS3 { return &fakeS3{objects: map[string][]byte{}} }

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	var keys []string
	for k := range f.objects {
		if strings.HasPrefix(k, aws.ToString(in.Prefix)) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}
	for _, k := range keys {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k), Size: aws.Int64(int64(len(f.objects[k])))})
	}
	return out, nil
}

func TestKeyLayout(t *testing.T) {
	s := New(newFakeS3(), "bucket", "team", zerolog.Nop())
	at := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	assert.Equal(t, "team/courses-20250304T050607Z.json", s.Key(at))

	bare := New(newFakeS3(), "bucket", "", zerolog.Nop())
	assert.Equal(t, "courses-20250304T050607Z.json", bare.Key(at))
}

func TestUploadListDownload(t *testing.T) {
	ctx := context.Background()
	api := newFakeS3()
	s := New(api, "bucket", "coursetrack/", zerolog.Nop())

	times := []time.Time{
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	s.now = func() time.Time { return times[0] }
	_, err := s.Upload(ctx, models.DemoCourses()[:1])
	require.NoError(t, err)
	s.now = func() time.Time { return times[1] }
	newest, err := s.Upload(ctx, models.DemoCourses())
	require.NoError(t, err)

	api.objects["coursetrack/readme.txt"] = []byte("ignored")

	objects, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, objects, 2)
	assert.Equal(t, newest, objects[0].Key)

	courses, err := s.Download(ctx, "")
	require.NoError(t, err)
	assert.Len(t, courses, len(models.DemoCourses()))

	older, err := s.Download(ctx, objects[1].Key)
	require.NoError(t, err)
	assert.Len(t, older, 1)
}

func TestDownloadWithoutBackups(t *testing.T) {
	s := New(newFakeS3(), "bucket", "coursetrack", zerolog.Nop())
	_, err := s.Download(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoBackups)

	_, err = s.Download(context.Background(), "coursetrack/missing.json")
	assert.Error(t, err)
}

func TestUploadFailure(t *testing.T) {
	api := newFakeS3()
	api.putErr = errors.New("access denied")
	s := New(api, "bucket", "", zerolog.Nop())
	_, err := s.Upload(context.Background(), models.DemoCourses())
	assert.ErrorContains(t, err, "access denied")
	assert.Empty(t, api.objects)
}
