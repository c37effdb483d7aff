// ABOUTME: Static legal documents bundled with the binary
// ABOUTME: Serves the terms of service and privacy policy to every front end
package legal

import (
	"embed"
	"fmt"
	"strings"
)

//go:embed text/*.md
var documents embed.FS

// Document names.
const (
	Terms   = "terms"
	Privacy = "privacy"
)

// Names lists the available documents in display order.
func Names() []string {
	return []string{Terms, Privacy}
}

// Text returns a document's markdown.
func Text(name string) (string, error) {
	data, err := documents.ReadFile("text/" + name + ".md")
	if err != nil {
		return "", fmt.Errorf("unknown legal document %q (want %s)", name, strings.Join(Names(), " or "))
	}
	return string(data), nil
}

// Title is the document's first heading.
func Title(name string) string {
	text, err := Text(name)
	if err != nil {
		return name
	}
	first, _, _ := strings.Cut(text, "\n")
	return strings.TrimPrefix(first, "# ")
}
