package weftest

import (
	"context"
	"strings"
	"testing"

	"github.com/vango-dev/weft/pkg/element"
	"github.com/vango-dev/weft/pkg/html"
)

// RenderToString renders el through the HTML target. Errors reported by
// the tree are ignored; use html.Render to see them.
//
// Example:
//
//	out := weftest.RenderToString(Counter(3))
//	if !strings.Contains(out, "<output>3</output>") {
//	    t.Error("missing count")
//	}
func RenderToString(el element.Element) string {
	ctx, cancel := context.WithTimeout(context.Background(), DefaultTimeout)
	defer cancel()
	out, _ := html.Render(ctx, el)
	return out
}

// ExpectContains asserts that the rendered output contains expected.
func ExpectContains(t testing.TB, el element.Element, expected string) {
	t.Helper()
	out := RenderToString(el)
	if !strings.Contains(out, expected) {
		t.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(out, 500))
	}
}

// ExpectNotContains asserts that the rendered output does not contain
// unexpected.
func ExpectNotContains(t testing.TB, el element.Element, unexpected string) {
	t.Helper()
	out := RenderToString(el)
	if strings.Contains(out, unexpected) {
		t.Errorf("expected rendered output to NOT contain %q, got:\n%s", unexpected, truncate(out, 500))
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
