// Package format normalizes posts after they are projected from issues.
package format

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/rivo/uniseg"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/luckypoem/ethereal/internal/domain"
)

// SummaryLength is the maximum summary length in grapheme clusters.
const SummaryLength = 140

var (
	imagePattern  = regexp.MustCompile(`!\[[^\]]*\]\(\s*<?([^)\s>]+)>?(?:\s+"[^"]*")?\s*\)`)
	linkPattern   = regexp.MustCompile(`!?\[([^\]]*)\]\([^)]*\)`)
	markupPattern = regexp.MustCompile("(?m)^\\s{0,3}(#{1,6}\\s+|>\\s?|[-*+]\\s+|\\d+\\.\\s+)|[*_`~]")
	htmlPattern   = regexp.MustCompile(`<[^>]+>`)
	hexPattern    = regexp.MustCompile(`^[0-9a-fA-F]{6}$`)

	markdown = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
)

// FormatPost fills the derived fields of a post and tidies its body and tags.
func FormatPost(post domain.Post) domain.Post {
	post.Body = strings.TrimSpace(strings.ReplaceAll(post.Body, "\r\n", "\n"))
	post.Cover = Cover(post.Body)
	post.Summary = Summary(post.Body, SummaryLength)
	post.HTML = RenderMarkdown(post.Body)

	if len(post.Tags) > 0 {
		tags := make([]domain.Tag, len(post.Tags))
		for i, tag := range post.Tags {
			tag.Color = normalizeColor(tag.Color)
			tags[i] = tag
		}
		post.Tags = tags
	}

	return post
}

// Cover returns the URL of the first Markdown image in body, or "".
func Cover(body string) string {
	m := imagePattern.FindStringSubmatch(body)
	if m == nil {
		return ""
	}
	return m[1]
}

// Summary returns the first non-empty paragraph of body as plain text,
// cut to at most limit grapheme clusters.
func Summary(body string, limit int) string {
	var paragraph string
	for _, block := range strings.Split(body, "\n\n") {
		text := plainText(block)
		if text != "" {
			paragraph = text
			break
		}
	}
	return truncate(paragraph, limit)
}

// RenderMarkdown converts body to HTML. Rendering errors yield "".
func RenderMarkdown(body string) string {
	if body == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(body), &buf); err != nil {
		return ""
	}
	return buf.String()
}

func plainText(block string) string {
	trimmed := strings.TrimSpace(block)
	if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "<!--") {
		return ""
	}
	text := imagePattern.ReplaceAllString(block, "")
	text = linkPattern.ReplaceAllString(text, "$1")
	text = htmlPattern.ReplaceAllString(text, "")
	text = markupPattern.ReplaceAllString(text, "")
	return strings.Join(strings.Fields(text), " ")
}

func truncate(s string, limit int) string {
	if limit <= 0 || uniseg.GraphemeClusterCount(s) <= limit {
		return s
	}

	var b strings.Builder
	g := uniseg.NewGraphemes(s)
	for n := 0; n < limit && g.Next(); n++ {
		b.WriteString(g.Str())
	}
	return strings.TrimSpace(b.String()) + "…"
}

func normalizeColor(color string) string {
	c := strings.TrimPrefix(color, "#")
	if !hexPattern.MatchString(c) {
		return color
	}
	return "#" + strings.ToLower(c)
}
