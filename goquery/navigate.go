package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// tryGet follows path from sel, taking the first match at every step.
// Returns nil as soon as a step matches nothing.
func tryGet(sel *goquery.Selection, path ...string) *goquery.Selection {
	if sel == nil || sel.Length() == 0 {
		return nil
	}
	cur := sel
	for _, step := range path {
		cur = cur.Find(step).First()
		if cur.Length() == 0 {
			return nil
		}
	}
	return cur
}

// tryText returns the normalized text at path, or "" if the path is broken.
func tryText(sel *goquery.Selection, path ...string) string {
	target := tryGet(sel, path...)
	if target == nil {
		return ""
	}
	return collapseWhitespace(joinedText(target))
}

// tryAttr returns the trimmed attribute at path.
func tryAttr(sel *goquery.Selection, attr string, path ...string) (string, bool) {
	target := tryGet(sel, path...)
	if target == nil {
		return "", false
	}
	v, ok := target.Attr(attr)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(v), true
}

// joinedText returns the text nodes below sel, each trimmed, joined with
// single spaces. Empty text nodes are skipped.
func joinedText(sel *goquery.Selection) string {
	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if s := strings.TrimSpace(n.Data); s != "" {
				parts = append(parts, s)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return strings.Join(parts, " ")
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
