package site

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFiles embed.FS

//go:embed content/*.md
var contentFS embed.FS

// StaticFS exposes the stylesheet and other assets rooted at static/.
func StaticFS() fs.FS {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return staticFiles
	}
	return sub
}

// Copy is the prose of the page, rendered from Markdown.
type Copy struct {
	Hero     template.HTML
	Abstract template.HTML
	Citation template.HTML
}

func renderMarkdown(name string) (template.HTML, error) {
	src, err := contentFS.ReadFile("content/" + name)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGenerate, err)
	}
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	r := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags | mdhtml.HrefTargetBlank})
	// The Markdown is embedded at build time and trusted.
	return template.HTML(markdown.ToHTML(src, p, r)), nil //nolint:gosec // trusted embedded content
}

func loadCopy() (Copy, error) {
	var c Copy
	for name, dst := range map[string]*template.HTML{
		"hero.md":     &c.Hero,
		"abstract.md": &c.Abstract,
		"citation.md": &c.Citation,
	} {
		html, err := renderMarkdown(name)
		if err != nil {
			return Copy{}, err
		}
		*dst = html
	}
	return c, nil
}
