package export

import (
	"context"
	stderrors "errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/weft/internal/errors"
	"github.com/vango-dev/weft/pkg/element"
	"github.com/vango-dev/weft/pkg/html"
)

type putCall struct {
	Bucket      string
	Key         string
	ContentType string
	Body        string
}

type fakePutter struct {
	calls []putCall
	fail  error
}

func (f *fakePutter) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body, _ := io.ReadAll(in.Body)
	f.calls = append(f.calls, putCall{
		Bucket:      aws.ToString(in.Bucket),
		Key:         aws.ToString(in.Key),
		ContentType: aws.ToString(in.ContentType),
		Body:        string(body),
	})
	if f.fail != nil {
		return nil, f.fail
	}
	return &s3.PutObjectOutput{ETag: aws.String(`"abc"`)}, nil
}

func page(name string, body element.Element) Page {
	return Page{Name: name, Data: html.PageData{Title: name, Body: body}}
}

func TestExportUploadsPages(t *testing.T) {
	client := &fakePutter{}
	e := New(client, "site", "preview")

	results, err := e.Export(context.Background(),
		page("index.html", element.H("h1", "Home")),
		page("about/index.html", element.H("p", "About")),
	)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	if len(client.calls) != 2 {
		t.Fatalf("PutObject called %d times, want 2", len(client.calls))
	}
	for i, want := range []string{"preview/index.html", "preview/about/index.html"} {
		call := client.calls[i]
		if call.Bucket != "site" || call.Key != want {
			t.Errorf("call %d = %s/%s, want site/%s", i, call.Bucket, call.Key, want)
		}
		if call.ContentType != "text/html; charset=utf-8" {
			t.Errorf("ContentType = %q", call.ContentType)
		}
		if !strings.HasPrefix(call.Body, "<!DOCTYPE html>") {
			t.Errorf("body is not a page: %q", call.Body)
		}
	}
	if !strings.Contains(client.calls[0].Body, "<h1>Home</h1>") {
		t.Errorf("body missing content: %s", client.calls[0].Body)
	}

	want := []Result{
		{Key: "preview/index.html", Bytes: len(client.calls[0].Body), ETag: `"abc"`},
		{Key: "preview/about/index.html", Bytes: len(client.calls[1].Body), ETag: `"abc"`},
	}
	if diff := cmp.Diff(want, results); diff != "" {
		t.Errorf("results mismatch (-want +got):\n%s", diff)
	}
}

func TestExportRequiresBucket(t *testing.T) {
	_, err := New(&fakePutter{}, "", "").Export(context.Background(), page("index.html", nil))
	var we *errors.WeftError
	if !stderrors.As(err, &we) || we.Code != "E124" {
		t.Errorf("err = %v, want E124", err)
	}
}

func TestExportStopsOnUploadFailure(t *testing.T) {
	denied := stderrors.New("access denied")
	client := &fakePutter{fail: denied}

	results, err := New(client, "site", "").Export(context.Background(),
		page("a.html", element.Text("a")),
		page("b.html", element.Text("b")),
	)
	var we *errors.WeftError
	if !stderrors.As(err, &we) || we.Code != "E180" {
		t.Fatalf("err = %v, want E180", err)
	}
	if !stderrors.Is(err, denied) {
		t.Error("upload error should wrap the client error")
	}
	if len(results) != 0 || len(client.calls) != 1 {
		t.Errorf("results = %v, calls = %d", results, len(client.calls))
	}
}

func TestExportReportsRenderErrors(t *testing.T) {
	broken := element.Func("Broken", func(*element.Scope) element.Element { panic("boom") })
	client := &fakePutter{}

	results, err := New(client, "site", "").Export(context.Background(), page("index.html", broken))
	if err == nil || !strings.Contains(err.Error(), "index.html") {
		t.Errorf("err = %v, want render error naming the page", err)
	}
	if len(results) != 1 {
		t.Errorf("page with render errors should still upload, got %d results", len(results))
	}
}

func TestNewClientNeedsCredentials(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "")
	if _, err := NewClient("us-east-1"); err == nil {
		t.Error("expected E181 without credentials")
	}

	t.Setenv("AWS_ACCESS_KEY_ID", "id")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")
	client, err := NewClient("eu-west-1")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if client.Options().Region != "eu-west-1" {
		t.Errorf("Region = %q", client.Options().Region)
	}
}
