package parser

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Strategy is one heuristic for locating a result image in a rendered
// search page.
type Strategy struct {
	Name string
	Find func(doc *goquery.Document, base *url.URL) (string, bool)
}

// Chain is an ordered list of strategies. The first hit wins.
type Chain []Strategy

// Match is the result of a successful chain run.
type Match struct {
	URL      string
	Strategy string
}

// First runs every strategy in order and returns the first candidate.
func (c Chain) First(doc *goquery.Document, base *url.URL) (Match, bool) {
	for _, s := range c {
		if u, ok := s.Find(doc, base); ok {
			return Match{URL: u, Strategy: s.Name}, true
		}
	}
	return Match{}, false
}

// Extract parses html and runs the chain against it. pageURL is used to
// resolve relative image references and may be empty.
func (c Chain) Extract(html, pageURL string) (Match, bool, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Match{}, false, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var base *url.URL
	if pageURL != "" {
		if base, err = url.Parse(pageURL); err != nil {
			base = nil
		}
	}

	m, ok := c.First(doc, base)
	return m, ok, nil
}

// absolute resolves raw against base and keeps it only if the result is an
// http(s) URL.
func absolute(base *url.URL, raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.HasPrefix(raw, "data:") {
		return "", false
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	if base != nil {
		u = base.ResolveReference(u)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	if u.Host == "" {
		return "", false
	}
	return u.String(), true
}

// imageSource mirrors img.src falling back to the lazy-load attribute.
func imageSource(s *goquery.Selection) string {
	if src, ok := s.Attr("src"); ok && strings.TrimSpace(src) != "" {
		return src
	}
	src, _ := s.Attr("data-src")
	return src
}

// renderedWidth reads the width stamped by the renderer, then the width
// attribute.
func renderedWidth(s *goquery.Selection) int {
	for _, attr := range []string{"data-rendered-width", "width"} {
		if v, ok := s.Attr(attr); ok {
			if w, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && w > 0 {
				return w
			}
		}
	}
	return 0
}

func containsAny(s string, fragments []string) bool {
	for _, f := range fragments {
		if strings.Contains(s, f) {
			return true
		}
	}
	return false
}

// firstImageByExtension finds the first <img> whose src mentions http and one
// of exts.
func firstImageByExtension(exts ...string) func(*goquery.Document, *url.URL) (string, bool) {
	return func(doc *goquery.Document, base *url.URL) (string, bool) {
		var found string
		doc.Find("img[src]").EachWithBreak(func(_ int, img *goquery.Selection) bool {
			src, _ := img.Attr("src")
			if !strings.Contains(src, "http") || !containsAny(src, exts) {
				return true
			}
			if u, ok := absolute(base, src); ok {
				found = u
				return false
			}
			return true
		})
		return found, found != ""
	}
}
