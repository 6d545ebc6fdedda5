package markdown

import (
	"strings"
	"testing"
)

func TestToHTML(t *testing.T) {
	out, err := ToHTML("# Pricing\n\nline one\nline two")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)
	if !strings.Contains(html, "<h1>Pricing</h1>") || !strings.Contains(html, "<br") {
		t.Errorf("unexpected html %q", html)
	}
}

func TestToHTML_EscapesRawHTML(t *testing.T) {
	out, err := ToHTML("<script>alert(1)</script>")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(string(out), "<script>") {
		t.Errorf("raw html should not pass through: %q", out)
	}
}
