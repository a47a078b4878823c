package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/weft/internal/errors"
	"github.com/vango-dev/weft/pkg/html"
)

func (c *cli) renderCmd() *cobra.Command {
	var (
		pretty  bool
		page    bool
		out     string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "render [app]",
		Short: "Render an app to static HTML",
		Long: `Render an app to HTML, waiting for its async components.

Components that fail are rendered with their fallback and reported
after the output is written.

Examples:
  weft render counter
  weft render todos --pretty
  weft render showcase --page -o index.html`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "showcase"
			if len(args) == 1 {
				name = args[0]
			}
			app, err := lookupApp(name)
			if err != nil {
				return err
			}

			var w io.Writer = c.stdout
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return errors.New("E161").Wrap(err)
				}
				defer f.Close()
				w = f
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			opts := []html.Option{html.WithLogger(c.log())}
			if pretty {
				opts = append(opts, html.Pretty())
			}

			if page {
				err = html.RenderPage(ctx, w, html.PageData{Title: name, Body: app()}, opts...)
			} else {
				err = html.RenderTo(ctx, w, app(), opts...)
				if err == nil {
					_, err = io.WriteString(w, "\n")
				}
			}
			if err != nil {
				return errors.FromRuntime(err, "E161")
			}
			if out != "" {
				c.success("Rendered %s to %s", name, out)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent the output")
	cmd.Flags().BoolVar(&page, "page", false, "Render a complete HTML document")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to a file instead of stdout")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "Deadline for async components")

	return cmd
}
