package crawler

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
	"github.com/go-shiori/go-readability"
)

// metaDateNames are checked in order; the first parseable value wins.
var metaDateNames = []string{
	"last-modified",
	"article:modified_time",
	"og:updated_time",
	"dcterms.modified",
	"date",
}

// updatedTextPattern matches visible "last updated" labels followed by a
// date token. Government sites in scope label updates in Chinese or English.
var updatedTextPattern = regexp.MustCompile(
	`(?i)(?:最後更新日期|最後更新|更新日期|最近更新|last\s*updated?|updated\s*(?:on|at)?)\s*[:：]?\s*(\d{4}[-/.年]\s?\d{1,2}[-/.月]\s?\d{1,2}日?)`)

// cjkDateUnits rewrites 年/月/日 date units into dashes before parsing.
var cjkDateUnits = strings.NewReplacer("年", "-", "月", "-", "日", "", " ", "")

// extractLastUpdated derives the page's last-updated date. Candidates are
// tried from most to least structured: meta tags, <time> elements, the
// readability published time, then visible-text labels. The result is
// normalized to YYYY-MM-DD; empty means nothing parseable was found.
func extractLastUpdated(doc *goquery.Document, article readability.Article) string {
	for _, name := range metaDateNames {
		if content, ok := findMetaContent(doc, name); ok {
			if date, ok := normalizeDate(content); ok {
				return date
			}
		}
	}

	if datetime, ok := doc.Find("time[datetime]").First().Attr("datetime"); ok {
		if date, ok := normalizeDate(datetime); ok {
			return date
		}
	}

	if article.PublishedTime != nil {
		return article.PublishedTime.Format("2006-01-02")
	}

	if m := updatedTextPattern.FindStringSubmatch(doc.Text()); len(m) > 1 {
		if date, ok := normalizeDate(m[1]); ok {
			return date
		}
	}

	return ""
}

// findMetaContent returns the content of the first meta tag whose name,
// property or http-equiv attribute matches.
func findMetaContent(doc *goquery.Document, name string) (string, bool) {
	var content string
	doc.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		for _, attr := range []string{"name", "property", "http-equiv"} {
			v, ok := s.Attr(attr)
			if !ok || !strings.EqualFold(v, name) {
				continue
			}
			if c, ok := s.Attr("content"); ok && strings.TrimSpace(c) != "" {
				content = strings.TrimSpace(c)
				return false
			}
		}
		return true
	})
	return content, content != ""
}

// normalizeDate parses a raw date token leniently and renders it YYYY-MM-DD.
func normalizeDate(raw string) (string, bool) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return "", false
	}
	if strings.ContainsAny(cleaned, "年月日") {
		cleaned = cjkDateUnits.Replace(cleaned)
	}

	t, err := dateparse.ParseAny(cleaned)
	if err != nil {
		return "", false
	}
	return t.Format("2006-01-02"), true
}
