package preview

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/charmbracelet/glamour"

	"github.com/notekit/display/bundle"
)

// Representations we can do something useful with in a terminal, richest
// first. Everything else in a bundle (images, chart specs) is reported by
// MIME type only.
var preferenceOrder = []string{
	bundle.TextMarkdown,
	bundle.TextHTML,
	bundle.TextPlain,
	bundle.JSON,
}

// Config controls how bundles are rendered.
type Config struct {
	// Terminal width for word wrapping. Zero lets the renderer decide.
	Width int
	// Glamour style name: "dark", "light", "notty", or "auto". Tests use
	// "notty" so output doesn't depend on the terminal.
	Style string
}

// Render picks the richest representation in b that a terminal can
// approximate and renders it, returning the rendered text and the MIME type
// it came from. Bundles carrying only representations we can't approximate
// (say, a lone image/png) get a one-line placeholder naming what's there.
func Render(b bundle.Bundle, c Config) (string, string, error) {
	if b.IsEmpty() {
		return "", "", errors.New("can't preview an empty bundle")
	}

	for _, mime := range preferenceOrder {
		v, ok := b.Data[mime]
		if !ok {
			continue
		}

		switch mime {
		case bundle.TextMarkdown:
			s, ok := v.(string)
			if !ok {
				continue
			}
			out, err := renderMarkdown(s, c)
			if err != nil {
				// A markdown rendering failure shouldn't hide
				// the content; fall back to the raw text
				return s, mime, nil
			}
			return out, mime, nil

		case bundle.TextHTML:
			s, ok := v.(string)
			if !ok {
				continue
			}
			out, err := htmlToText(s)
			if err != nil {
				return "", "", err
			}
			return out, mime, nil

		case bundle.TextPlain:
			s, ok := v.(string)
			if !ok {
				continue
			}
			return s, mime, nil

		case bundle.JSON:
			j, err := json.MarshalIndent(v, "", "  ")
			if err != nil {
				return "", "", fmt.Errorf("can't pretty-print the JSON representation: %v", err)
			}
			return string(j), mime, nil
		}
	}

	// Nothing previewable. Let the user know what the frontend would have
	// received rather than printing nothing.
	return fmt.Sprintf("[no terminal preview for %v]", b), "", nil
}

// renderMarkdown converts markdown to terminal output via glamour.
func renderMarkdown(s string, c Config) (string, error) {
	var options []glamour.TermRendererOption

	if c.Style != "" && c.Style != "auto" {
		options = append(options, glamour.WithStandardStyle(c.Style))
	} else {
		options = append(options, glamour.WithAutoStyle())
	}
	if c.Width > 0 {
		options = append(options, glamour.WithWordWrap(c.Width))
	}

	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return "", err
	}

	return renderer.Render(s)
}
