// Package s3store is a thin wrapper over the AWS S3 client for uploading
// user content (documents, emoji, avatars) to an S3-compatible bucket.
package s3store

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/issa-plus/core/internal/config"
)

// Client uploads and deletes objects in a single configured bucket.
type Client struct {
	s3     *s3.Client
	bucket string
	domain string
}

// New builds a client from the app's S3 options. Returns nil when the
// integration is disabled.
func New(opts config.S3Options) *Client {
	if !opts.Enable {
		return nil
	}

	cli := s3.New(s3.Options{
		Region:       opts.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		UsePathStyle: opts.PathStyleAccess,
		BaseEndpoint: nonEmptyPtr(opts.Endpoint),
	})

	return &Client{s3: cli, bucket: opts.Bucket, domain: opts.CustomDomain}
}

// Upload stores an object and returns its public URL.
func (c *Client) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload %s: %w", key, err)
	}
	return c.PublicURL(key), nil
}

// Delete removes an object. Missing objects are not an error.
func (c *Client) Delete(ctx context.Context, key string) error {
	_, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s: %w", key, err)
	}
	return nil
}

// PublicURL renders the externally visible URL for a stored object.
func (c *Client) PublicURL(key string) string {
	key = strings.TrimPrefix(key, "/")
	if c.domain != "" {
		return strings.TrimSuffix(c.domain, "/") + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", c.bucket, key)
}

func nonEmptyPtr(s string) *string {
	if s == "" {
		return nil
	}
	return aws.String(s)
}
