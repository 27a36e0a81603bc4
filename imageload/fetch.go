package imageload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	ErrUnsupportedScheme = errors.New("unsupported image url scheme")
	ErrBadStatus         = errors.New("unexpected http status")
)

// Fetcher opens the raw bytes behind an image url
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (io.ReadCloser, error)
}

// FetcherFunc adapts a function to Fetcher
type FetcherFunc func(ctx context.Context, rawURL string) (io.ReadCloser, error)

func (f FetcherFunc) Fetch(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	return f(ctx, rawURL)
}

// SchemeFetcher routes by url scheme, a url without scheme is a local path
type SchemeFetcher struct {
	schemes map[string]Fetcher
}

// NewSchemeFetcher returns a router for http, https, file, bare paths and s3
func NewSchemeFetcher(httpClient *http.Client, s3f *S3Fetcher) *SchemeFetcher {
	h := &HTTPFetcher{Client: httpClient}
	f := FileFetcher{}
	sf := &SchemeFetcher{schemes: map[string]Fetcher{
		"http":  h,
		"https": h,
		"file":  f,
		"":      f,
	}}
	if s3f != nil {
		sf.schemes["s3"] = s3f
	}
	return sf
}

// Register adds or replaces the fetcher for a scheme
func (sf *SchemeFetcher) Register(scheme string, f Fetcher) {
	sf.schemes[strings.ToLower(scheme)] = f
}

func (sf *SchemeFetcher) Fetch(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	scheme := ""
	if i := strings.Index(rawURL, "://"); i > 0 {
		scheme = strings.ToLower(rawURL[:i])
	}
	f, ok := sf.schemes[scheme]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, scheme)
	}
	return f.Fetch(ctx, rawURL)
}

// HTTPFetcher downloads over http(s)
type HTTPFetcher struct {
	Client *http.Client
}

func (h *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "parallax-demo/1.0")
	req.Header.Set("Accept", "image/*")

	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s", ErrBadStatus, resp.Status)
	}
	return resp.Body, nil
}

// FileFetcher opens local files, accepting file:// urls and bare paths
type FileFetcher struct{}

func (FileFetcher) Fetch(_ context.Context, rawURL string) (io.ReadCloser, error) {
	path := rawURL
	if strings.HasPrefix(rawURL, "file://") {
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, fmt.Errorf("parse file url: %w", err)
		}
		path = u.Path
	}
	return os.Open(path)
}

// S3API is the subset of the S3 client used for image reads
type S3API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Fetcher reads s3://bucket/key urls, the client is built from the default AWS config chain on first use
type S3Fetcher struct {
	Region string

	once   sync.Once
	client S3API
	err    error
}

// NewS3Fetcher uses client when non-nil, otherwise builds one lazily for region
func NewS3Fetcher(region string, client S3API) *S3Fetcher {
	f := &S3Fetcher{Region: region, client: client}
	if client != nil {
		f.once.Do(func() {})
	}
	return f
}

func (f *S3Fetcher) clientFor(ctx context.Context) (S3API, error) {
	f.once.Do(func() {
		var opts []func(*awsconfig.LoadOptions) error
		if f.Region != "" {
			opts = append(opts, awsconfig.WithRegion(f.Region))
		}
		cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			f.err = fmt.Errorf("failed to load AWS config: %w", err)
			return
		}
		f.client = s3.NewFromConfig(cfg)
	})
	return f.client, f.err
}

func (f *S3Fetcher) Fetch(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	bucket, key, err := ParseS3URL(rawURL)
	if err != nil {
		return nil, err
	}
	client, err := f.clientFor(ctx)
	if err != nil {
		return nil, err
	}
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 get %s/%s: %w", bucket, key, err)
	}
	return out.Body, nil
}

// ParseS3URL splits s3://bucket/key
func ParseS3URL(rawURL string) (bucket, key string, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", fmt.Errorf("parse s3 url: %w", err)
	}
	if u.Scheme != "s3" {
		return "", "", fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
	key = strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return "", "", fmt.Errorf("s3 url %q needs bucket and key", rawURL)
	}
	return u.Host, key, nil
}
