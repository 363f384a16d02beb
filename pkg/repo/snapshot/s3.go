package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/scienceol/labstock/pkg/common/code"
	"github.com/scienceol/labstock/pkg/middleware/logger"
)

// S3Store writes snapshots to one bucket; works with MinIO through Endpoint.
type S3Store struct {
	client *s3.Client
	bucket string
	prefix string
}

func NewS3Store(ctx context.Context, conf *Config, optFns ...func(*s3.Options)) (*S3Store, error) {
	if conf.Bucket == "" {
		return nil, fmt.Errorf("EXPORT_S3_BUCKET required for s3 export")
	}
	region := conf.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if conf.AccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(conf.AccessKey, conf.SecretKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = conf.PathStyle
		if conf.Endpoint != "" {
			o.BaseEndpoint = aws.String(conf.Endpoint)
		}
		// MinIO and older gateways reject streamed trailing checksums
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		for _, fn := range optFns {
			fn(o)
		}
	})
	return &S3Store{client: client, bucket: conf.Bucket, prefix: conf.Prefix}, nil
}

func (s *S3Store) PutSnapshot(ctx context.Context, key string, body []byte) (string, error) {
	objKey := path.Join(s.prefix, key)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objKey),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		logger.Errorf(ctx, "put snapshot s3://%s/%s err: %+v", s.bucket, objKey, err)
		return "", code.ExportErr.WithErr(err)
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, objKey), nil
}
