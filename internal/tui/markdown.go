package tui

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma"
	"github.com/alecthomas/chroma/formatters"
	"github.com/alecthomas/chroma/lexers"
	"github.com/alecthomas/chroma/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	codeBlockRe  = regexp.MustCompile(`(?s)<pre><code(?: class="language-([a-zA-Z0-9]+)")?>(.*?)</code></pre>`)
	inlineCodeRe = regexp.MustCompile(`<code>([^<]+)</code>`)
	headingRe    = regexp.MustCompile(`<h([1-6])[^>]*>(.*?)</h[1-6]>`)
	strongRe     = regexp.MustCompile(`<strong>(.*?)</strong>`)
	emRe         = regexp.MustCompile(`<em>(.*?)</em>`)
	linkRe       = regexp.MustCompile(`<a href="([^"]*)"[^>]*>(.*?)</a>`)
	listItemRe   = regexp.MustCompile(`<li>(.*?)</li>`)
	blockquoteRe = regexp.MustCompile(`(?s)<blockquote>(.*?)</blockquote>`)
	htmlTagRe    = regexp.MustCompile(`<[^>]+>`)
	blankRunsRe  = regexp.MustCompile(`\n{3,}`)
)

var htmlEntities = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&#x27;", "'",
	"&#x60;", "`",
	"&nbsp;", " ",
	"&hellip;", "...",
)

// MarkdownRenderer turns markdown answers and summaries into styled
// terminal text: goldmark renders GFM to HTML, the HTML is rewritten into
// lipgloss-styled plain text, and code blocks go through chroma. Rendering
// is a pure function of its input, so revealing a string piecewise and
// rendering it at the end gives the same output as rendering it directly.
type MarkdownRenderer struct {
	md        goldmark.Markdown
	formatter chroma.Formatter
	style     *chroma.Style
	theme     Theme
}

func NewMarkdownRenderer(theme Theme) *MarkdownRenderer {
	return &MarkdownRenderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
		formatter: formatters.Get("terminal256"),
		style:     styles.Get("monokai"),
		theme:     theme,
	}
}

// Render converts markdown to terminal text, falling back to the raw
// string if conversion fails.
func (r *MarkdownRenderer) Render(content string) string {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(content), &buf); err != nil {
		return content
	}
	return r.rewrite(buf.String())
}

func (r *MarkdownRenderer) rewrite(doc string) string {
	headingStyle := lipgloss.NewStyle().Bold(true).Foreground(r.theme.Accent)
	boldStyle := lipgloss.NewStyle().Bold(true).Foreground(r.theme.TextPrimary)
	emStyle := lipgloss.NewStyle().Italic(true)
	linkStyle := lipgloss.NewStyle().Underline(true).Foreground(r.theme.Accent)
	quoteStyle := lipgloss.NewStyle().Foreground(r.theme.TextMuted).PaddingLeft(2)
	codeStyle := lipgloss.NewStyle().Foreground(r.theme.Warn)

	// Code blocks first, stashed so later rewrites cannot touch them.
	var stash []string
	doc = codeBlockRe.ReplaceAllStringFunc(doc, func(m string) string {
		sub := codeBlockRe.FindStringSubmatch(m)
		code := htmlEntities.Replace(sub[2])
		stash = append(stash, r.highlight(strings.TrimRight(code, "\n"), sub[1]))
		return fmt.Sprintf("\n\x00code%d\x00\n", len(stash)-1)
	})

	doc = inlineCodeRe.ReplaceAllStringFunc(doc, func(m string) string {
		sub := inlineCodeRe.FindStringSubmatch(m)
		return codeStyle.Render(htmlEntities.Replace(sub[1]))
	})
	doc = headingRe.ReplaceAllStringFunc(doc, func(m string) string {
		sub := headingRe.FindStringSubmatch(m)
		return headingStyle.Render(htmlTagRe.ReplaceAllString(sub[2], "")) + "\n"
	})
	doc = strongRe.ReplaceAllStringFunc(doc, func(m string) string {
		return boldStyle.Render(strongRe.FindStringSubmatch(m)[1])
	})
	doc = emRe.ReplaceAllStringFunc(doc, func(m string) string {
		return emStyle.Render(emRe.FindStringSubmatch(m)[1])
	})
	doc = linkRe.ReplaceAllStringFunc(doc, func(m string) string {
		sub := linkRe.FindStringSubmatch(m)
		if sub[1] == sub[2] {
			return linkStyle.Render(sub[1])
		}
		return linkStyle.Render(sub[2]) + " (" + sub[1] + ")"
	})
	doc = blockquoteRe.ReplaceAllStringFunc(doc, func(m string) string {
		sub := blockquoteRe.FindStringSubmatch(m)
		inner := strings.TrimSpace(htmlTagRe.ReplaceAllString(sub[1], ""))
		return quoteStyle.Render(inner) + "\n"
	})
	doc = listItemRe.ReplaceAllString(doc, "  • $1\n")

	doc = strings.NewReplacer(
		"</p>", "\n", "<br>", "\n", "<br/>", "\n", "<br />", "\n",
	).Replace(doc)
	doc = htmlTagRe.ReplaceAllString(doc, "")
	doc = htmlEntities.Replace(doc)

	for i, block := range stash {
		doc = strings.ReplaceAll(doc, fmt.Sprintf("\x00code%d\x00", i), block)
	}

	doc = blankRunsRe.ReplaceAllString(doc, "\n\n")
	return strings.TrimSpace(doc)
}

func (r *MarkdownRenderer) highlight(code, lang string) string {
	var lexer chroma.Lexer
	if lang != "" {
		lexer = lexers.Get(lang)
	}
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	iterator, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return code
	}
	var buf bytes.Buffer
	if err := r.formatter.Format(&buf, r.style, iterator); err != nil {
		return code
	}
	return strings.TrimRight(buf.String(), "\n")
}
