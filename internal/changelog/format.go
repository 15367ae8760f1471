package changelog

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/term"
)

// FormatOptions controls the terminal output formatting.
type FormatOptions struct {
	Plain    bool // Disable colors
	MaxWidth int  // Maximum line width (0 = auto-detect)
}

var (
	h1Style     = color.New(color.FgMagenta, color.Bold, color.Underline)
	h2Style     = color.New(color.FgCyan, color.Bold)
	h3Style     = color.New(color.Bold)
	boldStyle   = color.New(color.Bold)
	italicStyle = color.New(color.Italic)
	codeStyle   = color.New(color.FgYellow)
	linkStyle   = color.New(color.FgBlue, color.Underline)
	dimStyle    = color.New(color.Faint)
	bulletMark  = color.New(color.FgGreen)
)

// FormatMarkdown renders a markdown document for the terminal: headings,
// bullet and numbered lists, block quotes, rules, fenced code, and inline
// emphasis, code and links. Paragraph text is wrapped to the terminal width.
func FormatMarkdown(markdown string, w io.Writer, opts FormatOptions) error {
	source := []byte(markdown)
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))

	r := &renderer{w: w, source: source, plain: opts.Plain, width: resolveWidth(opts.MaxWidth)}
	r.blocks(doc, "", "")
	if r.err != nil {
		return fmt.Errorf("writing markdown: %w", r.err)
	}
	return nil
}

// FormatMarkdownString is a convenience function that renders to a string.
func FormatMarkdownString(markdown string, opts FormatOptions) (string, error) {
	var b strings.Builder
	if err := FormatMarkdown(markdown, &b, opts); err != nil {
		return "", err
	}
	return b.String(), nil
}

type renderer struct {
	w      io.Writer
	source []byte
	plain  bool
	width  int
	err    error
}

func (r *renderer) printf(format string, args ...any) {
	if r.err != nil {
		return
	}
	_, r.err = fmt.Fprintf(r.w, format, args...)
}

func (r *renderer) paint(c *color.Color, s string) string {
	if r.plain {
		return s
	}
	return c.Sprint(s)
}

// blocks renders the block children of parent. first prefixes the first
// output line, rest prefixes every later one.
func (r *renderer) blocks(parent ast.Node, first, rest string) {
	prefix := first
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		if c != parent.FirstChild() && c.HasBlankPreviousLines() {
			r.printf("%s\n", strings.TrimRight(rest, " "))
		}
		r.block(c, prefix, rest)
		prefix = rest
	}
}

func (r *renderer) block(n ast.Node, first, rest string) {
	switch v := n.(type) {
	case *ast.Heading:
		r.heading(first, v.Level, spansText(r.inline(v)))
	case *ast.Paragraph, *ast.TextBlock:
		r.wrapped(r.inline(v), first, rest)
	case *ast.List:
		r.list(v, first, rest)
	case *ast.Blockquote:
		bar := r.paint(dimStyle, "│") + " "
		r.blocks(v, first+bar, rest+bar)
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		prefix := first
		for _, line := range r.lines(v) {
			r.printf("%s    %s\n", prefix, r.paint(codeStyle, line))
			prefix = rest
		}
	case *ast.HTMLBlock:
		prefix := first
		for _, line := range r.lines(v) {
			r.printf("%s%s\n", prefix, line)
			prefix = rest
		}
	case *ast.ThematicBreak:
		width := r.width - visibleLen(first)
		if width < 3 {
			width = 3
		}
		r.printf("%s%s\n", first, r.paint(dimStyle, strings.Repeat("─", width)))
	default:
		r.blocks(n, first, rest)
	}
}

// list renders items with a hanging indent. Nested lists align with the text
// of their parent item.
func (r *renderer) list(l *ast.List, first, rest string) {
	lead, cont := first, rest
	if _, nested := l.Parent().(*ast.ListItem); !nested {
		lead += "  "
		cont += "  "
	}

	num := l.Start
	for item := l.FirstChild(); item != nil; item = item.NextSibling() {
		if item != l.FirstChild() && item.HasBlankPreviousLines() {
			r.printf("%s\n", strings.TrimRight(cont, " "))
		}
		marker, width := r.paint(bulletMark, "•"), 1
		if l.IsOrdered() {
			marker = fmt.Sprintf("%d%c", num, l.Marker)
			width = len(marker)
			num++
		}
		r.blocks(item, lead+marker+" ", cont+strings.Repeat(" ", width+1))
		lead = cont
	}
}

func (r *renderer) heading(prefix string, level int, visible string) {
	switch level {
	case 1:
		r.printf("%s%s\n%s%s\n", prefix, r.paint(h1Style, visible),
			prefix, r.paint(dimStyle, strings.Repeat("═", utf8.RuneCountInString(visible))))
	case 2:
		r.printf("%s%s\n%s%s\n", prefix, r.paint(h2Style, visible),
			prefix, r.paint(dimStyle, strings.Repeat("─", utf8.RuneCountInString(visible))))
	default:
		r.printf("%s%s\n", prefix, r.paint(h3Style, visible))
	}
}

// lines returns the raw source lines of a code or HTML block.
func (r *renderer) lines(n ast.Node) []string {
	segs := n.Lines()
	out := make([]string, 0, segs.Len())
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		out = append(out, strings.TrimRight(string(seg.Value(r.source)), "\r\n"))
	}
	return out
}

// wrapped writes spans word-wrapped to the renderer width.
func (r *renderer) wrapped(spans []span, first, rest string) {
	words := splitWords(spans)
	if len(words) == 0 {
		r.printf("%s\n", strings.TrimRight(first, " "))
		return
	}
	prefix := first
	limit := r.width - visibleLen(rest)
	if limit < 20 {
		limit = 20
	}

	var current []string
	currentLen := 0
	flush := func() {
		r.printf("%s%s\n", prefix, strings.Join(current, " "))
		prefix = rest
		current = current[:0]
		currentLen = 0
	}

	for _, wd := range words {
		wlen := wd.len()
		if len(current) > 0 && currentLen+1+wlen > limit {
			flush()
		}
		if len(current) > 0 {
			currentLen++
		}
		current = append(current, r.renderWord(wd))
		currentLen += wlen
	}
	if len(current) > 0 {
		flush()
	}
}

func (r *renderer) renderWord(w word) string {
	var sb strings.Builder
	for _, p := range w {
		switch p.style {
		case styleBold:
			sb.WriteString(r.paint(boldStyle, p.text))
		case styleItalic:
			sb.WriteString(r.paint(italicStyle, p.text))
		case styleCode:
			sb.WriteString(r.paint(codeStyle, p.text))
		case styleLink:
			sb.WriteString(r.paint(linkStyle, p.text))
		case styleURL:
			sb.WriteString(r.paint(dimStyle, p.text))
		default:
			sb.WriteString(p.text)
		}
	}
	return sb.String()
}

type inlineStyle int

const (
	styleNone inlineStyle = iota
	styleBold
	styleItalic
	styleCode
	styleLink
	styleURL
)

type span struct {
	text  string
	style inlineStyle
}

// word is a run of non-space characters, possibly mixing styles
// (e.g. "**AND**," is a bold piece followed by a plain comma).
type word []span

func (w word) len() int {
	n := 0
	for _, p := range w {
		n += utf8.RuneCountInString(p.text)
	}
	return n
}

// inline flattens the inline children of n into styled spans. Line breaks
// inside a paragraph become spaces so the text can be rewrapped.
func (r *renderer) inline(n ast.Node) []span {
	var spans []span
	r.collect(n, styleNone, &spans)
	return spans
}

func (r *renderer) collect(n ast.Node, style inlineStyle, spans *[]span) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch v := c.(type) {
		case *ast.Text:
			*spans = append(*spans, span{text: string(v.Segment.Value(r.source)), style: style})
			if v.SoftLineBreak() || v.HardLineBreak() {
				*spans = append(*spans, span{text: " ", style: style})
			}
		case *ast.String:
			*spans = append(*spans, span{text: string(v.Value), style: style})
		case *ast.CodeSpan:
			var code []span
			r.collect(v, styleCode, &code)
			*spans = append(*spans, span{text: spansText(code), style: styleCode})
		case *ast.Emphasis:
			inner := styleItalic
			if v.Level >= 2 {
				inner = styleBold
			}
			r.collect(v, inner, spans)
		case *ast.Link:
			r.collect(v, styleLink, spans)
			*spans = append(*spans, span{text: " (" + string(v.Destination) + ")", style: styleURL})
		case *ast.AutoLink:
			*spans = append(*spans, span{text: string(v.URL(r.source)), style: styleLink})
		case *ast.RawHTML:
			for i := 0; i < v.Segments.Len(); i++ {
				seg := v.Segments.At(i)
				*spans = append(*spans, span{text: string(seg.Value(r.source)), style: style})
			}
		default:
			r.collect(c, style, spans)
		}
	}
}

// splitWords breaks styled spans on whitespace while keeping adjacent
// differently-styled pieces of one word together.
func splitWords(spans []span) []word {
	var words []word
	var current word

	for _, sp := range spans {
		var piece strings.Builder
		for _, r := range sp.text {
			if r == ' ' || r == '\t' || r == '\n' {
				if piece.Len() > 0 {
					current = append(current, span{text: piece.String(), style: sp.style})
					piece.Reset()
				}
				if len(current) > 0 {
					words = append(words, current)
					current = nil
				}
				continue
			}
			piece.WriteRune(r)
		}
		if piece.Len() > 0 {
			current = append(current, span{text: piece.String(), style: sp.style})
		}
	}
	if len(current) > 0 {
		words = append(words, current)
	}
	return words
}

// spansText returns only the visible text of spans.
func spansText(spans []span) string {
	var sb strings.Builder
	for _, sp := range spans {
		sb.WriteString(sp.text)
	}
	return sb.String()
}

var ansiRe = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func visibleLen(s string) int {
	return utf8.RuneCountInString(ansiRe.ReplaceAllString(s, ""))
}

// resolveWidth determines the terminal width to use.
func resolveWidth(maxWidth int) int {
	if maxWidth > 0 {
		return maxWidth
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}
