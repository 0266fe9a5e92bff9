package util

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// RenderDescription turns the inline markup AniList uses in character
// descriptions into plain text: <br> becomes a newline, <i>/<em> content is
// wrapped in underscores, and any other tag is reduced to its text.
func RenderDescription(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return strings.TrimSpace(raw)
	}

	var sb strings.Builder
	renderNodes(&sb, doc.Find("body").Contents())
	return strings.TrimSpace(sb.String())
}

func renderNodes(sb *strings.Builder, sel *goquery.Selection) {
	sel.Each(func(_ int, node *goquery.Selection) {
		switch goquery.NodeName(node) {
		case "#text":
			sb.WriteString(node.Text())
		case "br":
			sb.WriteString("\n")
		case "p", "div":
			renderNodes(sb, node.Contents())
			sb.WriteString("\n")
		case "i", "em":
			sb.WriteString("_")
			renderNodes(sb, node.Contents())
			sb.WriteString("_")
		case "#comment":
		default:
			renderNodes(sb, node.Contents())
		}
	})
}
