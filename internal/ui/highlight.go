package ui

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
)

const previewTabWidth = 4

// highlightJava renders code with ANSI colors from the chroma style named
// styleName. Code that fails to tokenise is returned plain.
func highlightJava(code, styleName string) string {
	code = strings.ReplaceAll(code, "\t", strings.Repeat(" ", previewTabWidth))
	if code == "" {
		return ""
	}

	lexer := lexers.Get("java")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(styleName)
	tokens, err := chroma.Tokenise(lexer, nil, code)
	if err != nil {
		return code
	}
	base := style.Get(chroma.Text).Colour

	var b strings.Builder
	for _, tok := range tokens {
		if tok.Type == chroma.EOFType {
			break
		}
		render := tokenStyle(style.Get(tok.Type), base)
		// Styles are applied per line so padding never spans a newline.
		for i, line := range strings.Split(tok.Value, "\n") {
			if i > 0 {
				b.WriteByte('\n')
			}
			if line != "" {
				b.WriteString(render.Render(line))
			}
		}
	}
	out := b.String()
	// The lexer appends a final newline the source may not have had.
	if !strings.HasSuffix(code, "\n") {
		out = strings.TrimSuffix(out, "\n")
	}
	return out
}

func tokenStyle(entry chroma.StyleEntry, base chroma.Colour) lipgloss.Style {
	st := lipgloss.NewStyle()
	if entry.Colour.IsSet() && entry.Colour != base {
		st = st.Foreground(lipgloss.Color(entry.Colour.String()))
	}
	if entry.Bold == chroma.Yes {
		st = st.Bold(true)
	}
	if entry.Italic == chroma.Yes {
		st = st.Italic(true)
	}
	if entry.Underline == chroma.Yes {
		st = st.Underline(true)
	}
	return st
}
