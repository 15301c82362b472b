package model

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"

	"github.com/reseptori/backend/internal/infrastructure/config"
)

// LoadCheckpoint reads a checkpoint from a local file path or an
// s3://bucket/key URI
func LoadCheckpoint(path string, awsCfg config.AWSConfig) (*Checkpoint, error) {
	if strings.HasPrefix(path, "s3://") {
		return loadFromS3(path, awsCfg)
	}
	return loadFromFile(path)
}

func loadFromFile(path string) (*Checkpoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open checkpoint %s: %w", path, err)
	}
	defer f.Close()
	return ReadCheckpoint(f)
}

func loadFromS3(uri string, awsCfg config.AWSConfig) (*Checkpoint, error) {
	bucket, key, err := splitS3URI(uri)
	if err != nil {
		return nil, err
	}

	cfg := aws.NewConfig().WithRegion(awsCfg.Region)
	if awsCfg.Endpoint != "" {
		cfg = cfg.WithEndpoint(awsCfg.Endpoint).WithS3ForcePathStyle(true)
	}
	if awsCfg.AccessKeyID != "" {
		cfg = cfg.WithCredentials(credentials.NewStaticCredentials(
			awsCfg.AccessKeyID, awsCfg.SecretAccessKey, ""))
	}

	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, fmt.Errorf("create AWS session: %w", err)
	}

	buf := aws.NewWriteAtBuffer(nil)
	downloader := s3manager.NewDownloader(sess)
	if _, err := downloader.Download(buf, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}); err != nil {
		return nil, fmt.Errorf("download checkpoint %s: %w", uri, err)
	}

	return ReadCheckpoint(bytes.NewReader(buf.Bytes()))
}

func splitS3URI(uri string) (bucket, key string, err error) {
	trimmed := strings.TrimPrefix(uri, "s3://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid S3 checkpoint URI %q, want s3://bucket/key", uri)
	}
	return parts[0], parts[1], nil
}
