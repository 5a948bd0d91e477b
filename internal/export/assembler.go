// Package export turns the current synced source into a self-contained
// static bundle: three sibling files that render the page when kept
// together.
package export

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// DefaultBaseName is used when sanitization leaves nothing of the
// requested file name.
const DefaultBaseName = "page"

// Input is everything the assembler reads. Assemble is a pure function of
// this value.
type Input struct {
	HTML     string // body fragment
	CSS      string // global stylesheet
	JS       string // page script
	Title    string // page title, escaped on insertion
	HeadHTML string // extra head markup, inserted verbatim
	BaseName string // requested file base name, sanitized
}

// File is one downloadable artifact.
type File struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Content     string `json:"content"`
}

// Bundle is the produced three-file export.
type Bundle struct {
	Base  string `json:"base"`
	Files []File `json:"files"`
}

var (
	forbiddenChars = strings.NewReplacer(
		`\`, "-", "/", "-", ":", "-", "*", "-",
		"?", "-", `"`, "-", "<", "-", ">", "-", "|", "-",
	)
	whitespaceRun = regexp.MustCompile(`\s+`)
)

// SanitizeBaseName makes a file-system-safe base name: surrounding
// whitespace trimmed, characters forbidden on common filesystems replaced
// with "-", remaining whitespace runs collapsed to "-". An empty result
// falls back to DefaultBaseName.
func SanitizeBaseName(name string) string {
	name = strings.TrimSpace(name)
	name = forbiddenChars.Replace(name)
	name = whitespaceRun.ReplaceAllString(name, "-")
	if name == "" {
		return DefaultBaseName
	}
	return name
}

// Assemble produces the export bundle. The title is escaped for safe
// embedding; HeadHTML is trusted markup and inserted as-is. The CSS and
// JS files carry their input verbatim.
func Assemble(in Input) Bundle {
	base := SanitizeBaseName(in.BaseName)

	doc := buildDocument(in.HTML, html.EscapeString(in.Title), in.HeadHTML, base)

	return Bundle{
		Base: base,
		Files: []File{
			{Name: base + ".html", ContentType: "text/html", Content: doc},
			{Name: base + ".css", ContentType: "text/css", Content: in.CSS},
			{Name: base + ".js", ContentType: "text/javascript", Content: in.JS},
		},
	}
}

// buildDocument emits the exported page in its fixed shape: doctype,
// html[lang=en], head (charset, viewport, title, extra head markup,
// stylesheet link), body (fragment, then the script tag).
func buildDocument(body, escapedTitle, headHTML, base string) string {
	var b strings.Builder

	b.WriteString("<!DOCTYPE html>\n")
	b.WriteString(`<html lang="en">` + "\n")
	b.WriteString("<head>\n")
	b.WriteString(`  <meta charset="utf-8" />` + "\n")
	b.WriteString(`  <meta name="viewport" content="width=device-width, initial-scale=1" />` + "\n")
	b.WriteString("  <title>" + escapedTitle + "</title>\n")
	if headHTML != "" {
		b.WriteString("  " + headHTML + "\n")
	}
	fmt.Fprintf(&b, "  <link rel=\"stylesheet\" href=\"./%s.css\" />\n", base)
	b.WriteString("</head>\n")
	b.WriteString("<body>\n")
	if body != "" {
		b.WriteString(body + "\n")
	}
	fmt.Fprintf(&b, "<script src=\"./%s.js\"></script>\n", base)
	b.WriteString("</body>\n")
	b.WriteString("</html>\n")

	return b.String()
}
