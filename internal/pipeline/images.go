package pipeline

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// resolveBodyURLs resolves relative img[src] and a[href] values in an HTML
// fragment against base and returns the rewritten fragment together with the
// src of every <img>, in document order, duplicates kept.
//
// The snapshot is loaded from a file:// URL, so a path such as
// "/uploads/a.png" would otherwise point at the local filesystem.
// With an empty base only protocol-relative URLs are fixed up (as https).
//
// Not rewritten: anchors, data: and javascript: URLs, srcset, CSS url().
func resolveBodyURLs(fragment, base string) (string, []string, error) {
	var baseURL *url.URL
	if base != "" {
		u, err := url.Parse(base)
		if err != nil {
			return "", nil, err
		}
		if !strings.HasSuffix(u.Path, "/") {
			u.Path += "/"
		}
		baseURL = u
	}

	container, err := parseFragment(fragment)
	if err != nil {
		return "", nil, err
	}

	var images []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Img:
				images = append(images, resolveAttr(n, "src", baseURL))
			case atom.A:
				resolveAttr(n, "href", baseURL)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(container)

	var buf strings.Builder
	for c := container.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", nil, err
		}
	}
	return buf.String(), images, nil
}

// parseFragment parses HTML in a <body> context and hangs the resulting
// nodes under one container for uniform traversal.
func parseFragment(content string) (*html.Node, error) {
	body := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(content), body)
	if err != nil {
		return nil, err
	}

	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return container, nil
}

// resolveAttr rewrites attribute key in place and returns its final value.
// A missing attribute yields "".
func resolveAttr(n *html.Node, key string, base *url.URL) string {
	for i, attr := range n.Attr {
		if attr.Key != key {
			continue
		}
		n.Attr[i].Val = resolveURL(attr.Val, base)
		return n.Attr[i].Val
	}
	return ""
}

// resolveURL returns ref resolved against base when it needs resolving.
func resolveURL(ref string, base *url.URL) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.HasPrefix(ref, "#") {
		return ref
	}

	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	if u.Scheme != "" {
		return ref
	}

	if base == nil {
		if strings.HasPrefix(ref, "//") {
			return "https:" + ref
		}
		return ref
	}
	return base.ResolveReference(u).String()
}
