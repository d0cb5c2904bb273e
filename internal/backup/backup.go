// ABOUTME: Course export backups stored in S3-compatible object storage.
// ABOUTME: Each backup is one JSON export file keyed by timestamp under a prefix.

package backup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"github.com/harper/coursetrack/internal/models"
	"github.com/harper/coursetrack/internal/transfer"
)

var ErrNoBackups = errors.New("no backups found")

// ObjectAPI is the subset of the S3 client used for backups.
type ObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, opts ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// Settings describes where backups live and how to authenticate.
type Settings struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	Prefix    string
}

// Object is one stored backup.
type Object struct {
	Key          string
	Size         int64
	LastModified time.Time
}

type Store struct {
	api    ObjectAPI
	bucket string
	prefix string
	logger zerolog.Logger
	now    func() time.Time
}

// NewClient builds an S3 client. Static credentials are used when both keys
// are set, otherwise the default AWS credential chain applies.
func NewClient(ctx context.Context, s Settings) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(s.Region)}
	if s.AccessKey != "" && s.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s.AccessKey, s.SecretKey, "")))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load s3 config: %w", err)
	}
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if s.Endpoint != "" {
			o.BaseEndpoint = aws.String(s.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

func New(api ObjectAPI, bucket, prefix string, logger zerolog.Logger) *Store {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &Store{api: api, bucket: bucket, prefix: prefix, logger: logger, now: time.Now}
}

// Key builds the object key for a backup taken at t.
func (s *Store) Key(t time.Time) string {
	return s.prefix + "courses-" + t.UTC().Format("20060102T150405Z") + ".json"
}

// Upload writes courses as a JSON export and returns the object key.
func (s *Store) Upload(ctx context.Context, courses []models.Course) (string, error) {
	var buf bytes.Buffer
	if err := transfer.WriteJSON(&buf, courses); err != nil {
		return "", err
	}
	key := s.Key(s.now())
	_, err := s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("Failed to upload backup")
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	s.logger.Debug().Str("key", key).Int("courses", len(courses)).Msg("Uploaded backup")
	return key, nil
}

// List returns backups under the prefix, newest first.
func (s *Store) List(ctx context.Context) ([]Object, error) {
	var objects []Object
	paginator := s3.NewListObjectsV2Paginator(s.api, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list backups: %w", err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if !strings.HasSuffix(key, ".json") {
				continue
			}
			objects = append(objects, Object{
				Key:          key,
				Size:         aws.ToInt64(obj.Size),
				LastModified: aws.ToTime(obj.LastModified),
			})
		}
	}
	sort.Slice(objects, func(i, j int) bool { return objects[i].Key > objects[j].Key })
	return objects, nil
}

// Download reads the backup at key. An empty key selects the newest backup.
func (s *Store) Download(ctx context.Context, key string) ([]models.Course, error) {
	if key == "" {
		objects, err := s.List(ctx)
		if err != nil {
			return nil, err
		}
		if len(objects) == 0 {
			return nil, ErrNoBackups
		}
		key = objects[0].Key
	}
	out, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", key, err)
	}
	defer func() { _ = out.Body.Close() }()
	return transfer.ReadJSON(out.Body)
}
