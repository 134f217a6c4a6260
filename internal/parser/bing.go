package parser

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const bingThumbnailPath = "bing.com/th"

// BingChain returns the heuristics for Bing image results.
func BingChain() Chain {
	return Chain{
		{Name: "iusc-metadata", Find: bingMetadata},
		{Name: "mimg", Find: bingMainImage},
		{Name: "result-grid", Find: bingGrid},
		{Name: "any-image", Find: firstImageByExtension(".jpg", ".png", ".jpeg")},
	}
}

type bingMeta struct {
	MediaURL string `json:"murl"`
}

// bingMetadata reads the original media URL from the JSON blob Bing attaches
// to each result tile.
func bingMetadata(doc *goquery.Document, base *url.URL) (string, bool) {
	var found string
	doc.Find(".iusc[m]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		raw, _ := s.Attr("m")
		var meta bingMeta
		if err := json.Unmarshal([]byte(raw), &meta); err != nil {
			return true
		}
		if !strings.HasPrefix(meta.MediaURL, "http") {
			return true
		}
		if u, ok := absolute(base, meta.MediaURL); ok {
			found = u
			return false
		}
		return true
	})
	return found, found != ""
}

func bingMainImage(doc *goquery.Document, base *url.URL) (string, bool) {
	var found string
	doc.Find("img.mimg").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		u, ok := absolute(base, imageSource(img))
		if !ok || strings.Contains(u, bingThumbnailPath) {
			return true
		}
		found = u
		return false
	})
	return found, found != ""
}

func bingGrid(doc *goquery.Document, base *url.URL) (string, bool) {
	grid := doc.Find(`.dg_b, .imgpt, [class*="img"]`).First()
	if grid.Length() == 0 {
		return "", false
	}

	var found string
	grid.Find("img[src]").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		src, _ := img.Attr("src")
		u, ok := absolute(base, src)
		if !ok || renderedWidth(img) <= 100 {
			return true
		}
		found = u
		return false
	})
	return found, found != ""
}
