package greeting

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
)

// Template bodies are markdown. The engine mirrors what chat clients accept:
// GFM plus hard line breaks, since greetings are short multi-line texts.
var markdownEngine = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Strikethrough,
		extension.Linkify,
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithHardWraps(),
		htmlrenderer.WithXHTML(),
	),
)

// RenderPreview expands macros against the given context and renders the
// result to HTML for the template preview panel.
func RenderPreview(body string, fields Fields) (string, error) {
	expanded := ExpandMacros(body, fields)

	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(expanded), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
