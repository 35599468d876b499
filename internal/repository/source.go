package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yourorg/atlas-directory/internal/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// Source fetches the raw dataset document
type Source interface {
	// Fetch returns the document and a format hint ("json", "yaml" or "")
	Fetch(ctx context.Context) ([]byte, string, error)

	// Describe returns a human readable location for logs
	Describe() string
}

// NewSource creates a source based on the dataset configuration
func NewSource(cfg *config.DatasetConfig, logger *zap.Logger) (Source, error) {
	switch cfg.Type {
	case "", "file":
		if cfg.File.Path == "" {
			return nil, errors.New("dataset.file.path is required")
		}
		return NewFileSource(cfg.File.Path), nil
	case "url":
		if cfg.URL.Address == "" {
			return nil, errors.New("dataset.url.address is required")
		}
		return NewHTTPSource(cfg.URL.Address, cfg.URL.Timeout, cfg.URL.MaxElapsedTime, logger), nil
	case "s3":
		return NewS3Source(&cfg.S3)
	default:
		return nil, fmt.Errorf("unknown dataset type %q", cfg.Type)
	}
}

// FileSource reads the dataset from the local filesystem
type FileSource struct {
	path string
}

// NewFileSource creates a new FileSource
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Fetch reads the file
func (s *FileSource) Fetch(ctx context.Context) ([]byte, string, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, "", fmt.Errorf("read dataset file: %w", err)
	}
	return raw, formatFromName(s.path), nil
}

// Describe returns the file path
func (s *FileSource) Describe() string { return s.path }

// Path returns the watched file path
func (s *FileSource) Path() string { return s.path }

// HTTPSource downloads the dataset, retrying transient failures
type HTTPSource struct {
	url            string
	httpClient     *http.Client
	maxElapsedTime time.Duration
	logger         *zap.Logger
}

// NewHTTPSource creates a new HTTPSource
func NewHTTPSource(url string, timeout, maxElapsedTime time.Duration, logger *zap.Logger) *HTTPSource {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPSource{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		maxElapsedTime: maxElapsedTime,
		logger:         logger,
	}
}

// Fetch downloads the document. Server errors and network failures are
// retried with exponential backoff; client errors are not.
func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, string, error) {
	var (
		body   []byte
		format string
	)

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/json, application/yaml")

		resp, err := s.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("unexpected status %d", resp.StatusCode))
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		format = formatFromContentType(resp.Header.Get("Content-Type"))
		if format == "" {
			format = formatFromName(req.URL.Path)
		}
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = s.maxElapsedTime

	notify := func(err error, wait time.Duration) {
		s.logger.Warn("Dataset download failed, retrying",
			zap.String("url", s.url),
			zap.Duration("wait", wait),
			zap.Error(err))
	}

	if err := backoff.RetryNotify(operation, backoff.WithContext(b, ctx), notify); err != nil {
		return nil, "", fmt.Errorf("download dataset: %w", err)
	}
	return body, format, nil
}

// Describe returns the URL
func (s *HTTPSource) Describe() string { return s.url }

// S3Source reads the dataset object from an S3 bucket
type S3Source struct {
	bucket   string
	key      string
	s3Client *s3.S3
}

// NewS3Source creates a new S3Source
func NewS3Source(cfg *config.S3SourceConfig) (*S3Source, error) {
	if cfg.Bucket == "" || cfg.Key == "" {
		return nil, errors.New("dataset.s3.bucket and dataset.s3.key are required")
	}

	awsCfg := &aws.Config{
		Region: aws.String(cfg.Region),
	}
	if cfg.AccessKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &S3Source{
		bucket:   cfg.Bucket,
		key:      cfg.Key,
		s3Client: s3.New(sess),
	}, nil
}

// Fetch downloads the object
func (s *S3Source) Fetch(ctx context.Context) ([]byte, string, error) {
	out, err := s.s3Client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, "", fmt.Errorf("get dataset object: %w", err)
	}
	defer out.Body.Close()

	raw, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read dataset object: %w", err)
	}

	format := formatFromContentType(aws.StringValue(out.ContentType))
	if format == "" {
		format = formatFromName(s.key)
	}
	return raw, format, nil
}

// Describe returns the s3:// location
func (s *S3Source) Describe() string {
	return fmt.Sprintf("s3://%s/%s", s.bucket, s.key)
}

// BytesSource serves an in-memory document
type BytesSource struct {
	Data   []byte
	Format string
	Name   string
}

// Fetch returns a copy of the document
func (s *BytesSource) Fetch(ctx context.Context) ([]byte, string, error) {
	return bytes.Clone(s.Data), s.Format, nil
}

// Describe returns the source name
func (s *BytesSource) Describe() string {
	if s.Name == "" {
		return "memory"
	}
	return s.Name
}

func formatFromName(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	default:
		return ""
	}
}

func formatFromContentType(contentType string) string {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "yaml"):
		return FormatYAML
	case strings.Contains(ct, "json"):
		return FormatJSON
	default:
		return ""
	}
}
