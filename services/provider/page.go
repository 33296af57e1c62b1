package provider

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"subresolver/internal/mediaresolve"
	"subresolver/models"
)

var fpsPattern = regexp.MustCompile(`(?i)\bfps\b\s*[:=]?\s*(\d{2,3}(?:[.,]\d{1,3})?)`)

// PageMetadata scrapes the release metadata (fps, declared formats) from a
// record's provider page.
func (c *Client) PageMetadata(ctx context.Context, pageURL string) (models.PageMetadata, error) {
	pageURL = strings.TrimSpace(pageURL)
	if pageURL == "" {
		return models.PageMetadata{}, nil
	}
	body, err := c.get(ctx, pageURL, maxPageBytes)
	if err != nil {
		return models.PageMetadata{}, fmt.Errorf("fetch page: %w", err)
	}
	return ParsePageMetadata(bytes.NewReader(body))
}

// ParsePageMetadata extracts fps and release formats from a provider page.
// Elements whose class mentions "format" are read as declared formats; if
// none exist, quality tags found anywhere in the page text are used.
func ParsePageMetadata(r io.Reader) (models.PageMetadata, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return models.PageMetadata{}, fmt.Errorf("parse page: %w", err)
	}

	var (
		text    strings.Builder
		formats []string
		seen    = make(map[string]struct{})
	)

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.ElementNode && hasClass(n, "format") {
			if value := strings.TrimSpace(nodeText(n)); value != "" {
				key := strings.ToUpper(value)
				if _, dup := seen[key]; !dup {
					seen[key] = struct{}{}
					formats = append(formats, value)
				}
			}
		}
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
			text.WriteByte(' ')
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	meta := models.PageMetadata{Formats: formats}
	if m := fpsPattern.FindStringSubmatch(text.String()); m != nil {
		meta.FPS = strings.ReplaceAll(m[1], ",", ".")
	}
	if len(meta.Formats) == 0 {
		meta.Formats = mediaresolve.ExtractQualityTags(text.String())
	}
	return meta, nil
}

func hasClass(n *html.Node, fragment string) bool {
	for _, attr := range n.Attr {
		if attr.Key == "class" && strings.Contains(strings.ToLower(attr.Val), fragment) {
			return true
		}
	}
	return false
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			collect(child)
		}
	}
	collect(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
