// Package export renders weft apps to static HTML and uploads the pages to
// S3.
package export

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/weft/internal/errors"
	"github.com/vango-dev/weft/pkg/html"
)

// Putter is the part of the S3 client the exporter uses.
type Putter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Exporter uploads rendered pages under a key prefix in a bucket.
type Exporter struct {
	client Putter
	bucket string
	prefix string
	opts   []html.Option
}

// Page is one page to export.
type Page struct {
	// Name is the object name below the prefix, e.g. "index.html".
	Name string
	Data html.PageData
}

// Result describes an uploaded page.
type Result struct {
	Key   string
	Bytes int
	ETag  string
}

// New creates an Exporter.
func New(client Putter, bucket, prefix string, opts ...html.Option) *Exporter {
	return &Exporter{client: client, bucket: bucket, prefix: prefix, opts: opts}
}

// NewClient creates an S3 client from the standard AWS environment
// variables.
func NewClient(region string) (*s3.Client, error) {
	id, secret := os.Getenv("AWS_ACCESS_KEY_ID"), os.Getenv("AWS_SECRET_ACCESS_KEY")
	if id == "" || secret == "" {
		return nil, errors.New("E181")
	}
	creds := aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
		return aws.Credentials{
			AccessKeyID:     id,
			SecretAccessKey: secret,
			SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
			Source:          "environment",
		}, nil
	})
	return s3.New(s3.Options{
		Region:      region,
		Credentials: aws.NewCredentialsCache(creds),
	}), nil
}

// Key returns the object key for name.
func (e *Exporter) Key(name string) string {
	return path.Join(e.prefix, name)
}

// Render renders a page to bytes. Errors reported by the tree are returned
// along with the output.
func (e *Exporter) Render(ctx context.Context, page Page) ([]byte, error) {
	var buf bytes.Buffer
	err := html.RenderPage(ctx, &buf, page.Data, e.opts...)
	return buf.Bytes(), err
}

// Export renders and uploads each page. It stops at the first failed
// upload. A render error is returned only if no upload failed.
func (e *Exporter) Export(ctx context.Context, pages ...Page) ([]Result, error) {
	if e.bucket == "" {
		return nil, errors.New("E124")
	}

	var (
		results   []Result
		renderErr error
	)
	for _, page := range pages {
		body, err := e.Render(ctx, page)
		if err != nil && renderErr == nil {
			renderErr = fmt.Errorf("%s: %w", page.Name, err)
		}

		key := e.Key(page.Name)
		out, err := e.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:       aws.String(e.bucket),
			Key:          aws.String(key),
			Body:         bytes.NewReader(body),
			ContentType:  aws.String("text/html; charset=utf-8"),
			CacheControl: aws.String("no-cache"),
			Metadata: map[string]string{
				"generator":   "weft",
				"export-time": time.Now().UTC().Format(time.RFC3339),
			},
		})
		if err != nil {
			return results, errors.New("E180").
				WithDetail("Uploading " + key + " to bucket " + e.bucket + " failed.").
				Wrap(err)
		}

		res := Result{Key: key, Bytes: len(body)}
		if out != nil && out.ETag != nil {
			res.ETag = *out.ETag
		}
		results = append(results, res)
	}
	return results, renderErr
}
