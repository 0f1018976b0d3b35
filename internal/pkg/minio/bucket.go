package minio

import (
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// BucketExists checks if a bucket exists
func (c *Client) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	if err := c.checkClosed(); err != nil {
		return false, err
	}
	if bucketName == "" {
		return false, WrapError("BucketExists", ErrInvalidBucketName, bucketName, "")
	}

	exists, err := c.client.BucketExists(ctx, bucketName)
	if err != nil {
		return false, WrapError("BucketExists", err, bucketName, "")
	}
	return exists, nil
}

// EnsureBucket creates the bucket when missing and lets anyone read objects
// under prefix, so the URLs handed out by uploads resolve without signing.
func (c *Client) EnsureBucket(ctx context.Context, bucketName, prefix string) error {
	exists, err := c.BucketExists(ctx, bucketName)
	if err != nil {
		return err
	}

	if !exists {
		err := c.client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{Region: c.config.Region})
		if err != nil && !IsBucketAlreadyExists(err) {
			return WrapError("MakeBucket", err, bucketName, "")
		}
		c.logger.Info("bucket created", zap.String("bucket", bucketName))
	}

	if err := c.client.SetBucketPolicy(ctx, bucketName, PublicReadPolicy(bucketName, prefix)); err != nil {
		return WrapError("SetBucketPolicy", err, bucketName, "")
	}
	return nil
}

// PublicReadPolicy returns an S3 bucket policy granting anonymous GetObject on prefix
func PublicReadPolicy(bucketName, prefix string) string {
	resource := bucketName + "/*"
	if p := strings.Trim(prefix, "/"); p != "" {
		resource = bucketName + "/" + p + "/*"
	}
	return fmt.Sprintf(`{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s"]}]}`, resource)
}
