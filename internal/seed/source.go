package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"gopkg.in/yaml.v3"

	"github.com/spec-kit/ghostname-service/internal/config"
)

// Entry is one name of the inventory file.
type Entry struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// Source yields the raw inventory entries.
type Source interface {
	Entries(ctx context.Context) ([]Entry, error)
}

// FileSource reads the inventory from a local JSON or YAML file.
type FileSource struct {
	Path string
}

func (f FileSource) Entries(_ context.Context) ([]Entry, error) {
	fh, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Path, err)
	}
	defer fh.Close()
	return Decode(f.Path, fh)
}

type objectGetter interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads the inventory from an S3 compatible bucket.
type S3Source struct {
	Bucket string
	Key    string
	client objectGetter
}

// NewS3Source builds a client from the seed settings. Static credentials and a
// custom endpoint are used when set, which is how MinIO is reached locally.
func NewS3Source(ctx context.Context, cfg config.SeedConfig, bucket, key string) (*S3Source, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.S3Region)}
	if cfg.S3AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Source{Bucket: bucket, Key: key, client: client}, nil
}

func (s *S3Source) Entries(ctx context.Context) ([]Entry, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.Key),
	})
	if err != nil {
		return nil, fmt.Errorf("get s3://%s/%s: %w", s.Bucket, s.Key, err)
	}
	defer out.Body.Close()
	return Decode(s.Key, out.Body)
}

// ParseS3URL splits s3://bucket/key.
func ParseS3URL(raw string) (string, string, error) {
	rest, ok := strings.CutPrefix(raw, "s3://")
	if !ok {
		return "", "", fmt.Errorf("not an s3 url: %q", raw)
	}
	bucket, key, _ := strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("s3 url needs a bucket and a key: %q", raw)
	}
	return bucket, key, nil
}

// OpenSource picks the source for location: s3:// objects or local files.
func OpenSource(ctx context.Context, cfg config.SeedConfig, location string) (Source, error) {
	if location == "" {
		return nil, fmt.Errorf("no seed source configured")
	}
	if !strings.HasPrefix(location, "s3://") {
		return FileSource{Path: location}, nil
	}
	bucket, key, err := ParseS3URL(location)
	if err != nil {
		return nil, err
	}
	return NewS3Source(ctx, cfg, bucket, key)
}

// Decode parses a JSON or YAML list of entries, chosen by the name's extension.
func Decode(name string, r io.Reader) ([]Entry, error) {
	var entries []Entry
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		if err := yaml.NewDecoder(r).Decode(&entries); err != nil && err != io.EOF {
			return nil, fmt.Errorf("decode yaml %s: %w", name, err)
		}
	case ".json", "":
		if err := json.NewDecoder(r).Decode(&entries); err != nil {
			return nil, fmt.Errorf("decode json %s: %w", name, err)
		}
	default:
		return nil, fmt.Errorf("unsupported seed format %q", path.Ext(name))
	}
	return entries, nil
}
