// Package markdown renders thing descriptions, which are written in Markdown.
package markdown

import (
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/zjrosen/thingdock/internal/log"
)

// StyleAuto picks dark or light from the terminal background.
const StyleAuto = "auto"

// Styles lists the accepted style names.
var Styles = []string{StyleAuto, "dark", "light", "notty", "ascii"}

// noMarginStyle removes the document margin glamour adds by default so the
// text lines up with the rest of a panel.
const noMarginStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

// Renderer wraps a glamour renderer configured for one width.
type Renderer struct {
	renderer *glamour.TermRenderer
	width    int
}

// New creates a renderer that wraps at width using the named style.
func New(width int, style string) (*Renderer, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" || style == StyleAuto {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}
	opts = append(opts, glamour.WithStylesFromJSONBytes([]byte(noMarginStyle)))

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, err
	}
	return &Renderer{renderer: r, width: width}, nil
}

// Width returns the configured word wrap width.
func (r *Renderer) Width() int {
	return r.width
}

// Render transforms markdown to styled terminal output.
func (r *Renderer) Render(markdown string) (string, error) {
	out, err := r.renderer.Render(markdown)
	if err != nil {
		return "", err
	}
	return strings.Trim(out, "\n"), nil
}

// Cache keeps one renderer per width, since views are re-rendered at the
// same few widths over and over.
type Cache struct {
	style     string
	renderers map[int]*Renderer
}

// NewCache creates an empty cache for style.
func NewCache(style string) *Cache {
	return &Cache{style: style, renderers: make(map[int]*Renderer)}
}

// Render renders md at width. On failure, or on a nil cache, the plain text
// is returned.
func (c *Cache) Render(md string, width int) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	if c == nil {
		return md
	}
	width = max(width, 10)
	r, ok := c.renderers[width]
	if !ok {
		var err error
		r, err = New(width, c.style)
		if err != nil {
			log.ErrorErr(log.CatUI, "markdown renderer", err, "style", c.style)
			return md
		}
		c.renderers[width] = r
	}
	out, err := r.Render(md)
	if err != nil {
		log.ErrorErr(log.CatUI, "markdown render", err)
		return md
	}
	return out
}
