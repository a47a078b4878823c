package main

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	"github.com/vango-dev/weft/internal/demo"
	"github.com/vango-dev/weft/internal/errors"
	"github.com/vango-dev/weft/internal/export"
	"github.com/vango-dev/weft/pkg/html"
)

func (c *cli) exportCmd() *cobra.Command {
	var (
		bucket  string
		region  string
		prefix  string
		pretty  bool
		dryRun  bool
		apps    []string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render apps to static pages and upload them to S3",
		Long: `Render apps to static HTML pages and upload them to S3.

Each app is written to <prefix>/<app>/index.html. The showcase app is
also written to <prefix>/index.html. Credentials come from
AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and AWS_SESSION_TOKEN.

Examples:
  weft export --bucket my-site
  weft export --app counter --app todos --prefix preview
  weft export --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("bucket") {
				cfg.Export.Bucket = bucket
			}
			if flags.Changed("region") {
				cfg.Export.Region = region
			}
			if flags.Changed("prefix") {
				cfg.Export.Prefix = prefix
			}
			if flags.Changed("pretty") {
				cfg.Export.Pretty = pretty
			}

			pages, err := exportPages(apps)
			if err != nil {
				return err
			}

			opts := []html.Option{html.WithLogger(c.log())}
			if cfg.Export.Pretty {
				opts = append(opts, html.Pretty())
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			var client export.Putter = dryRunPutter{}
			if !dryRun {
				if cfg.Export.Bucket == "" {
					return errors.New("E124").
						WithSuggestion("Set export.bucket in weft.json or pass --bucket")
				}
				s3Client, err := export.NewClient(cfg.Export.Region)
				if err != nil {
					return err
				}
				client = s3Client
			} else if cfg.Export.Bucket == "" {
				cfg.Export.Bucket = "dry-run"
			}

			results, err := export.New(client, cfg.Export.Bucket, cfg.Export.Prefix, opts...).Export(ctx, pages...)
			for _, res := range results {
				verb := "Uploaded"
				if dryRun {
					verb = "Rendered"
				}
				c.success("%s s3://%s/%s (%d bytes)", verb, cfg.Export.Bucket, res.Key, res.Bytes)
			}
			if err != nil {
				return errors.FromRuntime(err, "E180")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&bucket, "bucket", "", "S3 bucket (default from config)")
	cmd.Flags().StringVar(&region, "region", "", "AWS region (default from config)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Key prefix (default from config)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent the exported HTML")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Render without uploading")
	cmd.Flags().StringSliceVarP(&apps, "app", "a", nil, "Apps to export (default: all)")
	cmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "Deadline for rendering and uploading")

	return cmd
}

// exportPages builds one page per app.
func exportPages(names []string) ([]export.Page, error) {
	if len(names) == 0 {
		names = demo.Names()
	}
	var pages []export.Page
	for _, name := range names {
		app, err := lookupApp(name)
		if err != nil {
			return nil, err
		}
		page := export.Page{
			Name: name + "/index.html",
			Data: html.PageData{Title: name, Body: app()},
		}
		pages = append(pages, page)
		if name == "showcase" {
			page.Name = "index.html"
			page.Data.Body = app()
			pages = append(pages, page)
		}
	}
	return pages, nil
}

// dryRunPutter accepts every upload without sending it.
type dryRunPutter struct{}

func (dryRunPutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	return &s3.PutObjectOutput{ETag: aws.String(`"dry-run"`)}, nil
}
