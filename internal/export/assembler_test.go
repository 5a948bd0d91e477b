package export

import (
	"strings"
	"testing"
)

func TestSanitizeBaseName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"site", "site"},
		{"My Site!.html", "My-Site!.html"},
		{"  a/b:c  ", "a-b-c"},
		{"", "page"},
		{"   ", "page"},
		{`a\b*c?d"e<f>g|h`, "a-b-c-d-e-f-g-h"},
		{"two  spaces\tand tab", "two-spaces-and-tab"},
	}

	for _, tt := range tests {
		if got := SanitizeBaseName(tt.in); got != tt.want {
			t.Errorf("SanitizeBaseName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAssembleDocumentShape(t *testing.T) {
	bundle := Assemble(Input{
		HTML:     "<p>hi</p>",
		CSS:      "body{margin:0}",
		JS:       "console.log(1)",
		Title:    "T&T",
		BaseName: "site",
	})

	if bundle.Base != "site" {
		t.Errorf("base = %q", bundle.Base)
	}
	if len(bundle.Files) != 3 {
		t.Fatalf("files = %d, want 3", len(bundle.Files))
	}

	page := bundle.Files[0]
	if page.Name != "site.html" || page.ContentType != "text/html" {
		t.Errorf("html file = %+v", page)
	}

	doc := page.Content
	checks := []string{
		"<!DOCTYPE html>",
		`<html lang="en">`,
		`<meta charset="utf-8" />`,
		`<meta name="viewport"`,
		"<title>T&amp;T</title>",
		`<link rel="stylesheet" href="./site.css" />`,
		"<p>hi</p>",
		`<script src="./site.js"></script>`,
	}
	for _, c := range checks {
		if !strings.Contains(doc, c) {
			t.Errorf("document missing %q:\n%s", c, doc)
		}
	}

	// Fixed ordering: head parts precede the body fragment, the script
	// tag comes after it.
	if strings.Index(doc, "<title>") > strings.Index(doc, "<p>hi</p>") {
		t.Error("title should precede the body fragment")
	}
	if strings.Index(doc, "<p>hi</p>") > strings.Index(doc, "<script") {
		t.Error("script tag should follow the body fragment")
	}

	if bundle.Files[1].Content != "body{margin:0}" {
		t.Errorf("css not verbatim: %q", bundle.Files[1].Content)
	}
	if bundle.Files[1].ContentType != "text/css" {
		t.Errorf("css content type = %q", bundle.Files[1].ContentType)
	}
	if bundle.Files[2].Content != "console.log(1)" {
		t.Errorf("js not verbatim: %q", bundle.Files[2].Content)
	}
	if bundle.Files[2].ContentType != "text/javascript" {
		t.Errorf("js content type = %q", bundle.Files[2].ContentType)
	}
}

func TestAssembleHeadHTMLVerbatim(t *testing.T) {
	head := `<meta name="author" content="me" /><script src="https://cdn.example/x.js"></script>`
	bundle := Assemble(Input{Title: "t", HeadHTML: head, BaseName: "p"})

	doc := bundle.Files[0].Content
	if !strings.Contains(doc, head) {
		t.Errorf("head markup was altered:\n%s", doc)
	}
	// The trusted head fragment stays inside <head>.
	if strings.Index(doc, head) > strings.Index(doc, "<body>") {
		t.Error("head markup leaked into the body")
	}
}

func TestAssembleSanitizesBaseName(t *testing.T) {
	bundle := Assemble(Input{Title: "t", BaseName: "my page:v2"})

	if bundle.Base != "my-page-v2" {
		t.Errorf("base = %q", bundle.Base)
	}
	if bundle.Files[0].Name != "my-page-v2.html" {
		t.Errorf("file name = %q", bundle.Files[0].Name)
	}
	if !strings.Contains(bundle.Files[0].Content, `href="./my-page-v2.css"`) {
		t.Error("stylesheet link does not use the sanitized base")
	}
}

func TestAssembleIsPure(t *testing.T) {
	in := Input{HTML: "<p>x</p>", CSS: "a{}", JS: ";", Title: "t", BaseName: "b"}
	first := Assemble(in)
	second := Assemble(in)
	if first.Files[0].Content != second.Files[0].Content {
		t.Error("Assemble is not deterministic")
	}
}
