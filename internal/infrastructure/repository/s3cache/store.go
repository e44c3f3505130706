package s3cache

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/valyala/bytebufferpool"

	"github.com/riskibarqy/football-history/internal/domain/match"
	"github.com/riskibarqy/football-history/internal/infrastructure/repository/csvfile"
	"github.com/riskibarqy/football-history/internal/platform/logging"
)

const (
	defaultRegion = "us-east-1"
	defaultKey    = "fd_history.csv"
	contentType   = "text/csv; charset=utf-8"
)

// Config selects the object that holds the dataset. Credentials come from the
// default AWS chain.
type Config struct {
	Bucket    string
	Key       string
	Region    string
	Endpoint  string
	PathStyle bool
}

type objectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Store keeps the dataset as one CSV object, in the same format as the local
// file cache. A PutObject replaces the object in a single step.
type Store struct {
	client objectAPI
	bucket string
	key    string
	logger *logging.Logger
}

func New(ctx context.Context, cfg Config, logger *logging.Logger) (*Store, error) {
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = defaultRegion
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if endpoint := strings.TrimSpace(cfg.Endpoint); endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	return newStore(client, bucket, cfg.Key, logger), nil
}

func newStore(client objectAPI, bucket, key string, logger *logging.Logger) *Store {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if key == "" {
		key = defaultKey
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Store{client: client, bucket: bucket, key: key, logger: logger}
}

// Load returns ok=false when the object does not exist.
func (s *Store) Load(ctx context.Context) (match.Dataset, bool, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if isNotFound(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get s3://%s/%s: %w", s.bucket, s.key, err)
	}
	defer out.Body.Close()

	dataset, err := csvfile.Decode(out.Body)
	if err != nil {
		return nil, false, fmt.Errorf("decode s3://%s/%s: %w", s.bucket, s.key, err)
	}
	s.logger.DebugContext(ctx, "s3 cache loaded", "bucket", s.bucket, "key", s.key, "rows", len(dataset))
	return dataset, true, nil
}

func (s *Store) Save(ctx context.Context, dataset match.Dataset) error {
	buf, err := csvfile.EncodeToPool(dataset)
	if err != nil {
		return fmt.Errorf("encode s3 cache: %w", err)
	}
	defer bytebufferpool.Put(buf)

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.key),
		Body:          bytes.NewReader(buf.B),
		ContentLength: aws.Int64(int64(buf.Len())),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", s.bucket, s.key, err)
	}
	s.logger.DebugContext(ctx, "s3 cache saved", "bucket", s.bucket, "key", s.key, "bytes", buf.Len())
	return nil
}

func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	var noKey *s3types.NoSuchKey
	if errors.As(err, &noKey) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}

