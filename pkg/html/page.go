package html

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/vango-dev/weft/pkg/element"
)

// DefaultClientScript is the path the live client is served from.
const DefaultClientScript = "/_weft/client.js"

// PageData contains all data needed to render a complete HTML page.
type PageData struct {
	// Body is rendered inside <body>.
	Body element.Element

	Title string

	// Lang is the language attribute for the html element.
	// Defaults to "en" if not specified.
	Lang string

	Meta        []MetaTag
	Links       []LinkTag
	StyleSheets []string
	Styles      []string
	Scripts     []ScriptTag

	// Live, when set, adds the client that hydrates the body over a live
	// session.
	Live *LiveClient
}

// LiveClient configures the live client script.
type LiveClient struct {
	// Endpoint is the WebSocket path the client connects to.
	Endpoint string

	// Script is the client script path. Defaults to DefaultClientScript.
	Script string

	Debug bool
}

// MetaTag represents a meta element in the document head.
type MetaTag struct {
	Name      string
	Content   string
	Property  string // OpenGraph
	HTTPEquiv string
	Charset   string
}

// LinkTag represents a link element in the document head.
type LinkTag struct {
	Rel         string
	Href        string
	Type        string
	Sizes       string
	CrossOrigin string
	Media       string
}

// ScriptTag represents a script element. Deferred and async scripts go in
// the head; the rest close the body.
type ScriptTag struct {
	Src    string
	Type   string
	Defer  bool
	Async  bool
	Module bool
	Inline string
}

// RenderPage renders a complete HTML document to w. If w is an
// http.Flusher the head is flushed before the body is rendered, so the
// browser can fetch assets while async components load.
func RenderPage(ctx context.Context, w io.Writer, page PageData, opts ...Option) error {
	c := newConfig(opts)

	lang := page.Lang
	if lang == "" {
		lang = "en"
	}

	if _, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html lang=\"%s\">\n", EscapeAttr(lang)); err != nil {
		return err
	}
	if err := writeHead(w, page); err != nil {
		return err
	}
	flush(w)

	if _, err := io.WriteString(w, "<body>"); err != nil {
		return err
	}
	body, renderErr := c.build(ctx, page.Body)
	if err := c.writer.Write(w, body); err != nil {
		return err
	}
	for _, script := range page.Scripts {
		if !script.Defer && !script.Async {
			if err := writeScriptTag(w, script); err != nil {
				return err
			}
		}
	}
	if page.Live != nil {
		if err := writeLiveClient(w, page.Live); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, "</body>\n</html>\n"); err != nil {
		return err
	}
	flush(w)
	return renderErr
}

func flush(w io.Writer) {
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func writeHead(w io.Writer, page PageData) error {
	if _, err := io.WriteString(w, "<head>\n"+
		`  <meta charset="utf-8">`+"\n"+
		`  <meta name="viewport" content="width=device-width, initial-scale=1">`+"\n"); err != nil {
		return err
	}

	if page.Title != "" {
		if _, err := fmt.Fprintf(w, "  <title>%s</title>\n", EscapeText(page.Title)); err != nil {
			return err
		}
	}
	for _, meta := range page.Meta {
		if err := writeTag(w, "meta",
			"charset", meta.Charset,
			"name", meta.Name,
			"property", meta.Property,
			"http-equiv", meta.HTTPEquiv,
			"content", meta.Content,
		); err != nil {
			return err
		}
	}
	for _, link := range page.Links {
		if err := writeTag(w, "link",
			"rel", link.Rel,
			"href", link.Href,
			"type", link.Type,
			"sizes", link.Sizes,
			"crossorigin", link.CrossOrigin,
			"media", link.Media,
		); err != nil {
			return err
		}
	}
	for _, href := range page.StyleSheets {
		if err := writeTag(w, "link", "rel", "stylesheet", "href", href); err != nil {
			return err
		}
	}
	for _, style := range page.Styles {
		if _, err := fmt.Fprintf(w, "  <style>%s</style>\n", style); err != nil {
			return err
		}
	}
	for _, script := range page.Scripts {
		if script.Defer || script.Async {
			if err := writeScriptTag(w, script); err != nil {
				return err
			}
		}
	}

	_, err := io.WriteString(w, "</head>\n")
	return err
}

// writeTag writes a void head element. pairs alternate name and value;
// empty values are skipped.
func writeTag(w io.Writer, tag string, pairs ...string) error {
	if _, err := io.WriteString(w, "  <"+tag); err != nil {
		return err
	}
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			continue
		}
		if _, err := fmt.Fprintf(w, ` %s="%s"`, pairs[i], EscapeAttr(pairs[i+1])); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, ">\n")
	return err
}

func writeScriptTag(w io.Writer, script ScriptTag) error {
	if _, err := io.WriteString(w, "  <script"); err != nil {
		return err
	}
	if script.Src != "" {
		if _, err := fmt.Fprintf(w, ` src="%s"`, EscapeAttr(script.Src)); err != nil {
			return err
		}
	}
	typ := script.Type
	if script.Module {
		typ = "module"
	}
	if typ != "" {
		if _, err := fmt.Fprintf(w, ` type="%s"`, EscapeAttr(typ)); err != nil {
			return err
		}
	}
	if script.Defer {
		if _, err := io.WriteString(w, " defer"); err != nil {
			return err
		}
	}
	if script.Async {
		if _, err := io.WriteString(w, " async"); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, ">"+script.Inline+"</script>\n")
	return err
}

func writeLiveClient(w io.Writer, live *LiveClient) error {
	src := live.Script
	if src == "" {
		src = DefaultClientScript
	}
	if _, err := fmt.Fprintf(w, `  <script src="%s" data-endpoint="%s"`, EscapeAttr(src), EscapeAttr(live.Endpoint)); err != nil {
		return err
	}
	if live.Debug {
		if _, err := io.WriteString(w, ` data-debug="true"`); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, " defer></script>\n")
	return err
}
