package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"go.abhg.dev/goldmark/frontmatter"
)

// Document is a markdown file split into its front matter and body.
type Document struct {
	Meta Meta
	Body string
}

// Meta is the front matter understood by article imports.
type Meta struct {
	Title    string `yaml:"title" toml:"title"`
	Link     string `yaml:"link" toml:"link"`
	Image    string `yaml:"image" toml:"image"`
	Category string `yaml:"category" toml:"category"`
}

type Parser struct {
	md goldmark.Markdown
}

func NewParser() *Parser {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Typographer,
			&frontmatter.Extender{},
		),
	)

	return &Parser{
		md: md,
	}
}

// Render converts markdown to HTML. Raw HTML in the source is not passed through.
func (p *Parser) Render(source string) (string, error) {
	var buf bytes.Buffer
	err := p.md.Convert([]byte(source), &buf)
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ParseDocument reads YAML or TOML front matter and returns it with the raw markdown body.
func (p *Parser) ParseDocument(source []byte) (*Document, error) {
	ctx := parser.NewContext()
	p.md.Parser().Parse(text.NewReader(source), parser.WithContext(ctx))

	doc := &Document{Body: string(bytes.TrimSpace(stripFrontmatter(source)))}

	data := frontmatter.Get(ctx)
	if data == nil {
		return doc, nil
	}

	err := data.Decode(&doc.Meta)
	if err != nil {
		return nil, fmt.Errorf("invalid front matter: %w", err)
	}

	return doc, nil
}

// stripFrontmatter drops a leading block fenced by "---" (YAML) or "+++" (TOML) lines.
func stripFrontmatter(source []byte) []byte {
	for _, fence := range []string{"---", "+++"} {
		rest, ok := bytes.CutPrefix(source, []byte(fence+"\n"))
		if !ok {
			rest, ok = bytes.CutPrefix(source, []byte(fence+"\r\n"))
		}
		if !ok {
			continue
		}

		lines := bytes.SplitAfter(rest, []byte("\n"))
		offset := 0
		for _, line := range lines {
			offset += len(line)
			if string(bytes.TrimRight(line, "\r\n")) == fence {
				return rest[offset:]
			}
		}
		return source
	}
	return source
}
