package configuration

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/redis/go-redis/v9"
)

// NewS3Client builds an S3 client from the app config. A non-empty
// endpoint URL switches to path-style addressing so LocalStack and
// MinIO-style endpoints work.
func NewS3Client(ctx context.Context, config Config) (*s3.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(config.AwsRegion),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(config.AwsAccessKeyId, config.AwsSecretAccessKey, ""),
		),
	)

	if err != nil {
		return nil, fmt.Errorf("error loading AWS configuration: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if config.AwsEndpointUrl != "" {
			o.BaseEndpoint = aws.String(config.AwsEndpointUrl)
			o.UsePathStyle = true
		}
	})

	return client, nil
}

// NewRedisClient builds a Redis client for the metadata store and
// verifies the connection with a short ping.
func NewRedisClient(ctx context.Context, config Config) (*redis.Client, error) {
	options, err := redis.ParseURL(config.RedisUrl)

	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(options)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err = client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}
